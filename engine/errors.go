package engine

/*
#include "bridge.h"
*/
import "C"

import (
	"go.uber.org/zap"

	"github.com/wippyai/qpdf-go/errors"
)

// Code is an engine error code.
type Code int

const (
	CodeSuccess     Code = C.qpdf_e_success
	CodeInternal    Code = C.qpdf_e_internal
	CodeSystem      Code = C.qpdf_e_system
	CodeUnsupported Code = C.qpdf_e_unsupported
	CodePassword    Code = C.qpdf_e_password
	CodeDamagedPDF  Code = C.qpdf_e_damaged_pdf
	CodePages       Code = C.qpdf_e_pages
	CodeObject      Code = C.qpdf_e_object
)

// KindOf maps an engine error code onto the closed error kind set.
// Codes this module does not know degrade to KindUnknown.
func KindOf(code Code) errors.Kind {
	switch code {
	case CodeInternal:
		return errors.KindInternal
	case CodeSystem:
		return errors.KindSystem
	case CodeUnsupported:
		return errors.KindUnsupported
	case CodePassword:
		return errors.KindInvalidPassword
	case CodeDamagedPDF:
		return errors.KindDamagedPDF
	case CodePages:
		return errors.KindPages
	case CodeObject:
		return errors.KindObject
	default:
		return errors.KindUnknown
	}
}

// lastError consumes the engine's pending error, if any. Caller holds mu.
func (c *Context) lastError(phase errors.Phase) error {
	if C.qpdf_has_error(c.p) == 0 {
		return nil
	}
	e := C.qpdf_get_error(c.p)
	if e == nil {
		return nil
	}

	code := Code(C.qg_error_code(c.p, e))
	if code == CodeSuccess {
		return nil
	}

	err := c.translate(phase, code, e)
	Logger().Debug("engine error",
		zap.Uint64("context", c.id),
		zap.Error(err))
	return err
}

// discardError drops a pending error left by a query. Caller holds mu.
func (c *Context) discardError() {
	if C.qpdf_has_error(c.p) == 0 {
		return
	}
	e := C.qpdf_get_error(c.p)
	if e == nil {
		return
	}
	Logger().Debug("discarded engine error from query",
		zap.Uint64("context", c.id),
		zap.String("error", goString(C.qpdf_get_error_full_text(c.p, e))))
}

func (c *Context) translate(phase errors.Phase, code Code, e C.qpdf_error) *errors.Error {
	detail := goString(C.qpdf_get_error_message_detail(c.p, e))
	if detail == "" {
		detail = goString(C.qpdf_get_error_full_text(c.p, e))
	}

	b := errors.New(phase, KindOf(code)).Detail(detail).Value(int(code))

	filename := goString(C.qpdf_get_error_filename(c.p, e))
	position := uint64(C.qpdf_get_error_file_position(c.p, e))
	if filename != "" {
		b.Filename(filename)
	}
	if filename != "" || position != 0 {
		b.Position(position)
	}
	return b.Build()
}

// MoreWarnings reports whether the engine has undrained warnings.
func (c *Context) MoreWarnings() bool {
	return query(c, func(p C.qpdf_data) bool {
		return C.qpdf_more_warnings(p) != 0
	})
}

// Warnings drains every pending warning.
func (c *Context) Warnings() []*errors.Error {
	return query(c, func(p C.qpdf_data) []*errors.Error {
		var out []*errors.Error
		for C.qpdf_more_warnings(p) != 0 {
			w := C.qpdf_next_warning(p)
			if w == nil {
				break
			}
			code := Code(C.qg_error_code(p, w))
			out = append(out, c.translate(errors.PhaseWarning, code, w))
		}
		return out
	})
}
