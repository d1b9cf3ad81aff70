package qpdf

import (
	"github.com/wippyai/qpdf-go/engine"
	"github.com/wippyai/qpdf-go/errors"
)

// Dictionary is a view over a PDF dictionary. Keys may be given with or
// without the leading slash; Keys returns them with it.
type Dictionary struct {
	view
}

// Has reports whether key is present with a non-null value.
func (d *Dictionary) Has(key string) bool {
	k := nameKey(key)
	return query(d.obj, func(ctx *engine.Context, h engine.Handle) bool {
		return ctx.HasKey(h, k)
	})
}

// Get returns the value under key. Absent keys and explicit null values
// are both reported as absent.
func (d *Dictionary) Get(key string) (*Object, bool) {
	defer keepAlive(d.obj)
	if _, err := d.obj.context(errors.PhaseObject); err != nil {
		return nil, false
	}
	k := nameKey(key)
	return d.obj.doc.lookup(errors.PhaseObject, func(ctx *engine.Context) (engine.Handle, error) {
		return ctx.Key(d.obj.h, k)
	})
}

// Set inserts or replaces the value under key.
func (d *Dictionary) Set(key string, v *Object) error {
	defer keepAlive(d.obj, v)
	ctx, err := d.mutate("Dictionary.Set", v)
	if err != nil {
		return err
	}
	return ctx.ReplaceKey(d.obj.h, nameKey(key), v.h)
}

// Remove deletes key. Removing an absent key is a no-op.
func (d *Dictionary) Remove(key string) error {
	defer keepAlive(d.obj)
	ctx, err := d.mutate("Dictionary.Remove")
	if err != nil {
		return err
	}
	return ctx.RemoveKey(d.obj.h, nameKey(key))
}

// Keys lists the keys in engine order. The order is not stable across
// structural edits.
func (d *Dictionary) Keys() ([]string, error) {
	defer keepAlive(d.obj)
	ctx, err := d.obj.context(errors.PhaseObject)
	if err != nil {
		return nil, err
	}
	return ctx.Keys(d.obj.h)
}

// GetPageContentData decodes and concatenates the content streams of a
// page dictionary.
func (d *Dictionary) GetPageContentData() (*StreamData, error) {
	defer keepAlive(d.obj)
	ctx, err := d.obj.context(errors.PhaseObject)
	if err != nil {
		return nil, err
	}
	data, err := ctx.PageContentData(d.obj.h)
	if err != nil {
		return nil, err
	}
	return &StreamData{data: data, filtered: true}, nil
}

// MakeIndirect promotes the dictionary to an indirect object.
func (d *Dictionary) MakeIndirect() (*Dictionary, error) {
	o, err := d.obj.MakeIndirect()
	if err != nil {
		return nil, err
	}
	return &Dictionary{view{o}}, nil
}

func (d *Dictionary) mutate(op string, args ...*Object) (*engine.Context, error) {
	ctx, err := d.obj.context(errors.PhaseObject)
	if err != nil {
		return nil, err
	}
	if err := d.obj.doc.checkOwned(op, args...); err != nil {
		return nil, err
	}
	return ctx, nil
}
