package engine

/*
#include "bridge.h"
*/
import "C"

import (
	"github.com/wippyai/qpdf-go/errors"
)

func (c *Context) NumPages() (int, error) {
	return call(c, errors.PhasePages, func(p C.qpdf_data) int {
		return int(C.qpdf_get_num_pages(p))
	})
}

// PageN returns the page at the zero-based index i.
func (c *Context) PageN(i int) (Handle, error) {
	return call(c, errors.PhasePages, func(p C.qpdf_data) Handle {
		return Handle(C.qpdf_get_page_n(p, C.size_t(i)))
	})
}

// FindPage returns the index of page, or -1 if it is not in the page tree.
func (c *Context) FindPage(page Handle) (int, error) {
	return call(c, errors.PhasePages, func(p C.qpdf_data) int {
		return int(C.qpdf_find_page_by_oh(p, C.qpdf_oh(page)))
	})
}

// AddPage inserts page, owned by src, at the front or back of c's page
// tree. src may be c itself.
func (c *Context) AddPage(src *Context, page Handle, first bool) error {
	return c.pageOp(src, func(p, sp C.qpdf_data) {
		C.qpdf_add_page(p, sp, C.qpdf_oh(page), cbool(first))
	})
}

// AddPageAt inserts page, owned by src, before or after ref, which must
// already be one of c's pages.
func (c *Context) AddPageAt(src *Context, page Handle, before bool, ref Handle) error {
	return c.pageOp(src, func(p, sp C.qpdf_data) {
		C.qpdf_add_page_at(p, sp, C.qpdf_oh(page), cbool(before), C.qpdf_oh(ref))
	})
}

func (c *Context) RemovePage(page Handle) error {
	return exec(c, errors.PhasePages, func(p C.qpdf_data) {
		C.qpdf_remove_page(p, C.qpdf_oh(page))
	})
}

func (c *Context) pageOp(src *Context, fn func(p, sp C.qpdf_data)) error {
	unlock := lockPair(c, src)
	defer unlock()

	if c.p == nil {
		return errors.Closed(errors.PhasePages, "document")
	}
	if src.p == nil {
		return errors.Closed(errors.PhasePages, "source document")
	}

	fn(c.p, src.p)
	return c.lastError(errors.PhasePages)
}
