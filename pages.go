package qpdf

import (
	"runtime"

	"go.uber.org/zap"

	"github.com/wippyai/qpdf-go/engine"
	"github.com/wippyai/qpdf-go/errors"
)

func (d *Document) NumPages() (int, error) {
	defer runtime.KeepAlive(d)
	ctx, err := d.context(errors.PhasePages)
	if err != nil {
		return 0, err
	}
	return ctx.NumPages()
}

// Page returns the page at the zero-based index i.
func (d *Document) Page(i int) (*Dictionary, bool) {
	n, err := d.NumPages()
	if err != nil || i < 0 || i >= n {
		return nil, false
	}
	return d.dictionary(func(ctx *engine.Context) (engine.Handle, error) {
		return ctx.PageN(i)
	})
}

// Pages returns every page in document order.
func (d *Document) Pages() ([]*Dictionary, error) {
	n, err := d.NumPages()
	if err != nil {
		return nil, err
	}
	pages := make([]*Dictionary, 0, n)
	for i := 0; i < n; i++ {
		p, ok := d.Page(i)
		if !ok {
			for _, p := range pages {
				p.Release()
			}
			return nil, errors.NotFound(errors.PhasePages, "page %d of %d", i, n)
		}
		pages = append(pages, p)
	}
	return pages, nil
}

// FindPage returns the index of page in the page tree.
func (d *Document) FindPage(page *Dictionary) (int, bool) {
	if page == nil || !d.owns(page.obj) {
		return -1, false
	}
	defer keepAlive(page.obj)
	ctx, err := page.obj.context(errors.PhasePages)
	if err != nil {
		return -1, false
	}
	i, err := ctx.FindPage(page.obj.h)
	if err != nil || i < 0 {
		return -1, false
	}
	return i, true
}

// AddPage adds page at the front or the back of the page tree. page may
// belong to another document, in which case that document is kept alive
// for as long as d is.
func (d *Document) AddPage(page *Dictionary, first bool) error {
	ctx, src, err := d.pageSource(page)
	if err != nil {
		return err
	}
	defer runtime.KeepAlive(d)
	defer keepAlive(page.obj)
	return ctx.AddPage(src, page.obj.h, first)
}

// AddPageAt adds page before or after ref, which must be a page of d.
func (d *Document) AddPageAt(page *Dictionary, before bool, ref *Dictionary) error {
	if ref == nil {
		return errors.InvalidParameter(errors.PhasePages, "AddPageAt: nil reference page")
	}
	if err := d.checkOwned("AddPageAt", ref.obj); err != nil {
		return err
	}
	ctx, src, err := d.pageSource(page)
	if err != nil {
		return err
	}
	defer runtime.KeepAlive(d)
	defer keepAlive(page.obj, ref.obj)
	return ctx.AddPageAt(src, page.obj.h, before, ref.obj.h)
}

// RemovePage removes page from the page tree. A page copied from another
// document keeps that document alive until d is destroyed.
func (d *Document) RemovePage(page *Dictionary) error {
	if page == nil {
		return errors.InvalidParameter(errors.PhasePages, "RemovePage: nil page")
	}
	defer keepAlive(page.obj)
	ctx, err := d.context(errors.PhasePages)
	if err != nil {
		return err
	}
	if err := d.checkOwned("RemovePage", page.obj); err != nil {
		return err
	}
	return ctx.RemovePage(page.obj.h)
}

// pageSource validates page and returns the target and source contexts.
// A foreign source is registered before the engine touches it.
func (d *Document) pageSource(page *Dictionary) (*engine.Context, *engine.Context, error) {
	if page == nil {
		return nil, nil, errors.InvalidParameter(errors.PhasePages, "nil page")
	}
	ctx, err := d.context(errors.PhasePages)
	if err != nil {
		return nil, nil, err
	}
	src, err := page.obj.context(errors.PhasePages)
	if err != nil {
		return nil, nil, err
	}
	if !d.owns(page.obj) {
		if err := d.state.foreign.retain(page.obj.doc); err != nil {
			return nil, nil, err
		}
	}
	return ctx, src, nil
}

// CopyForeign copies obj, which belongs to another document, into d and
// returns the copy. Indirect objects reachable from obj are copied too.
// The source document is kept alive for as long as d is. Copying an object
// d already owns returns a new handle to it.
func (d *Document) CopyForeign(obj *Object) (*Object, error) {
	if obj == nil {
		return nil, errors.InvalidParameter(errors.PhaseObject, "CopyForeign: nil object")
	}
	defer runtime.KeepAlive(d)
	defer keepAlive(obj)
	ctx, err := d.context(errors.PhaseObject)
	if err != nil {
		return nil, err
	}
	if d.owns(obj) {
		return obj.Clone()
	}
	src, err := obj.context(errors.PhaseObject)
	if err != nil {
		return nil, err
	}
	if err := d.state.foreign.retain(obj.doc); err != nil {
		return nil, err
	}

	h, err := ctx.CopyForeign(src, obj.h)
	if err != nil {
		return nil, err
	}
	Logger().Debug("foreign object copied",
		zap.Uint64("target", ctx.ID()),
		zap.Uint64("source", src.ID()),
		zap.Int("id", obj.ID()))
	return d.wrap(h), nil
}
