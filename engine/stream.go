package engine

/*
#include "bridge.h"
*/
import "C"

import (
	"unsafe"

	"github.com/wippyai/qpdf-go/errors"
)

// DecodeLevel controls how many filter layers are undone on stream data.
type DecodeLevel int

const (
	DecodeNone        DecodeLevel = C.qpdf_dl_none
	DecodeGeneralized DecodeLevel = C.qpdf_dl_generalized
	DecodeSpecialized DecodeLevel = C.qpdf_dl_specialized
	DecodeAll         DecodeLevel = C.qpdf_dl_all
)

// ObjectStreamMode selects how the writer treats object streams.
type ObjectStreamMode int

const (
	ObjectStreamDisable  ObjectStreamMode = C.qpdf_o_disable
	ObjectStreamPreserve ObjectStreamMode = C.qpdf_o_preserve
	ObjectStreamGenerate ObjectStreamMode = C.qpdf_o_generate
)

// StreamDataMode selects how the writer compresses stream data.
type StreamDataMode int

const (
	StreamDataUncompress StreamDataMode = C.qpdf_s_uncompress
	StreamDataPreserve   StreamDataMode = C.qpdf_s_preserve
	StreamDataCompress   StreamDataMode = C.qpdf_s_compress
)

// StreamData returns the stream's bytes decoded up to level. filtered
// reports whether the requested filters could all be applied. The engine's
// malloc'd buffer is copied and freed before returning.
func (c *Context) StreamData(h Handle, level DecodeLevel) (data []byte, filtered bool, err error) {
	type result struct {
		data     []byte
		filtered bool
	}
	r, err := call(c, errors.PhaseObject, func(p C.qpdf_data) result {
		var (
			f   C.int
			buf *C.uchar
			n   C.size_t
		)
		C.qg_get_stream_data(p, C.qpdf_oh(h), C.int(level), &f, &buf, &n)
		return result{takeBuffer(buf, n), f != 0}
	})
	return r.data, r.filtered, err
}

// PageContentData returns the concatenated, fully decoded content streams
// of a page.
func (c *Context) PageContentData(page Handle) ([]byte, error) {
	return call(c, errors.PhaseObject, func(p C.qpdf_data) []byte {
		var (
			buf *C.uchar
			n   C.size_t
		)
		C.qpdf_oh_get_page_content_data(p, C.qpdf_oh(page), &buf, &n)
		return takeBuffer(buf, n)
	})
}

// ReplaceStreamData replaces the stream's raw data and sets /Filter and
// /DecodeParms to filter and params. A null handle removes the entry.
func (c *Context) ReplaceStreamData(h Handle, data []byte, filter, params Handle) error {
	return exec(c, errors.PhaseObject, func(p C.qpdf_data) {
		C.qpdf_oh_replace_stream_data(p, C.qpdf_oh(h),
			(*C.uchar)(unsafe.Pointer(bytesPtr(data))), C.size_t(len(data)),
			C.qpdf_oh(filter), C.qpdf_oh(params))
	})
}

// StreamDict returns the stream's own dictionary.
func (c *Context) StreamDict(h Handle) (Handle, error) {
	return call(c, errors.PhaseObject, func(p C.qpdf_data) Handle {
		return Handle(C.qpdf_oh_get_dict(p, C.qpdf_oh(h)))
	})
}

// takeBuffer copies an engine-allocated buffer into Go memory and frees it.
func takeBuffer(buf *C.uchar, n C.size_t) []byte {
	if buf == nil {
		return nil
	}
	defer C.free(unsafe.Pointer(buf))
	return C.GoBytes(unsafe.Pointer(buf), C.int(n))
}
