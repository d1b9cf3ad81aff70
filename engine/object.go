package engine

/*
#include "bridge.h"
*/
import "C"

import (
	"unsafe"

	"github.com/wippyai/qpdf-go/errors"
)

// TypeCode is the engine's object type tag.
type TypeCode int

const (
	TypeUninitialized TypeCode = C.ot_uninitialized
	TypeReserved      TypeCode = C.ot_reserved
	TypeNull          TypeCode = C.ot_null
	TypeBoolean       TypeCode = C.ot_boolean
	TypeInteger       TypeCode = C.ot_integer
	TypeReal          TypeCode = C.ot_real
	TypeString        TypeCode = C.ot_string
	TypeName          TypeCode = C.ot_name
	TypeArray         TypeCode = C.ot_array
	TypeDictionary    TypeCode = C.ot_dictionary
	TypeStream        TypeCode = C.ot_stream
	TypeOperator      TypeCode = C.ot_operator
	TypeInlineImage   TypeCode = C.ot_inlineimage
)

// Parse parses the textual form of a single object.
func (c *Context) Parse(text string) (Handle, error) {
	ctext, err := cstring(errors.PhaseParse, text)
	if err != nil {
		return 0, err
	}
	defer C.free(unsafe.Pointer(ctext))

	return call(c, errors.PhaseParse, func(p C.qpdf_data) Handle {
		return Handle(C.qpdf_oh_parse(p, ctext))
	})
}

func (c *Context) NewUninitialized() (Handle, error) {
	return call(c, errors.PhaseObject, func(p C.qpdf_data) Handle {
		return Handle(C.qpdf_oh_new_uninitialized(p))
	})
}

func (c *Context) NewNull() (Handle, error) {
	return call(c, errors.PhaseObject, func(p C.qpdf_data) Handle {
		return Handle(C.qpdf_oh_new_null(p))
	})
}

func (c *Context) NewBool(v bool) (Handle, error) {
	return call(c, errors.PhaseObject, func(p C.qpdf_data) Handle {
		return Handle(C.qpdf_oh_new_bool(p, cbool(v)))
	})
}

func (c *Context) NewInteger(v int64) (Handle, error) {
	return call(c, errors.PhaseObject, func(p C.qpdf_data) Handle {
		return Handle(C.qpdf_oh_new_integer(p, C.longlong(v)))
	})
}

// NewRealFromDouble renders v with the given number of decimal places.
func (c *Context) NewRealFromDouble(v float64, places int) (Handle, error) {
	return call(c, errors.PhaseObject, func(p C.qpdf_data) Handle {
		return Handle(C.qpdf_oh_new_real_from_double(p, C.double(v), C.int(places)))
	})
}

// NewRealFromString keeps s verbatim as the real's textual value.
func (c *Context) NewRealFromString(s string) (Handle, error) {
	return c.newFromCString(s, func(p C.qpdf_data, cs *C.char) C.qpdf_oh {
		return C.qpdf_oh_new_real_from_string(p, cs)
	})
}

// NewName creates a name. s includes the leading slash.
func (c *Context) NewName(s string) (Handle, error) {
	return c.newFromCString(s, func(p C.qpdf_data, cs *C.char) C.qpdf_oh {
		return C.qpdf_oh_new_name(p, cs)
	})
}

// NewString creates a string object from raw PDFDoc bytes.
func (c *Context) NewString(s string) (Handle, error) {
	return c.newFromCString(s, func(p C.qpdf_data, cs *C.char) C.qpdf_oh {
		return C.qpdf_oh_new_string(p, cs)
	})
}

// NewUnicodeString creates a text string from UTF-8, encoding it the way
// the engine prefers (PDFDoc if possible, UTF-16BE otherwise).
func (c *Context) NewUnicodeString(s string) (Handle, error) {
	return c.newFromCString(s, func(p C.qpdf_data, cs *C.char) C.qpdf_oh {
		return C.qpdf_oh_new_unicode_string(p, cs)
	})
}

// NewBinaryString creates a string object holding arbitrary bytes,
// including NUL.
func (c *Context) NewBinaryString(b []byte) (Handle, error) {
	return call(c, errors.PhaseObject, func(p C.qpdf_data) Handle {
		return Handle(C.qpdf_oh_new_binary_string(p, bytesPtr(b), C.size_t(len(b))))
	})
}

func (c *Context) NewArray() (Handle, error) {
	return call(c, errors.PhaseObject, func(p C.qpdf_data) Handle {
		return Handle(C.qpdf_oh_new_array(p))
	})
}

func (c *Context) NewDictionary() (Handle, error) {
	return call(c, errors.PhaseObject, func(p C.qpdf_data) Handle {
		return Handle(C.qpdf_oh_new_dictionary(p))
	})
}

// NewStream creates an indirect stream with empty data and dictionary.
func (c *Context) NewStream() (Handle, error) {
	return call(c, errors.PhaseObject, func(p C.qpdf_data) Handle {
		return Handle(C.qpdf_oh_new_stream(p))
	})
}

func (c *Context) newFromCString(s string, fn func(C.qpdf_data, *C.char) C.qpdf_oh) (Handle, error) {
	cs, err := cstring(errors.PhaseObject, s)
	if err != nil {
		return 0, err
	}
	defer C.free(unsafe.Pointer(cs))

	return call(c, errors.PhaseObject, func(p C.qpdf_data) Handle {
		return Handle(fn(p, cs))
	})
}

// NewReference returns a second handle to the node behind h.
func (c *Context) NewReference(h Handle) (Handle, error) {
	return call(c, errors.PhaseObject, func(p C.qpdf_data) Handle {
		return Handle(C.qpdf_oh_new_object(p, C.qpdf_oh(h)))
	})
}

// Release frees h. Releasing on a closed context is a no-op since the
// engine already dropped every handle.
func (c *Context) Release(h Handle) {
	query(c, func(p C.qpdf_data) struct{} {
		C.qpdf_oh_release(p, C.qpdf_oh(h))
		return struct{}{}
	})
}

func (c *Context) TypeCode(h Handle) TypeCode {
	return query(c, func(p C.qpdf_data) TypeCode {
		return TypeCode(C.qg_type_code(p, C.qpdf_oh(h)))
	})
}

func (c *Context) TypeName(h Handle) string {
	return query(c, func(p C.qpdf_data) string {
		return goString(C.qpdf_oh_get_type_name(p, C.qpdf_oh(h)))
	})
}

func (c *Context) IsInitialized(h Handle) bool {
	return query(c, func(p C.qpdf_data) bool {
		return C.qpdf_oh_is_initialized(p, C.qpdf_oh(h)) != 0
	})
}

func (c *Context) IsIndirect(h Handle) bool {
	return query(c, func(p C.qpdf_data) bool {
		return C.qpdf_oh_is_indirect(p, C.qpdf_oh(h)) != 0
	})
}

func (c *Context) IsScalar(h Handle) bool {
	return query(c, func(p C.qpdf_data) bool {
		return C.qpdf_oh_is_scalar(p, C.qpdf_oh(h)) != 0
	})
}

// Unparse renders h in PDF syntax. Indirect objects render as "id gen R".
func (c *Context) Unparse(h Handle) string {
	return query(c, func(p C.qpdf_data) string {
		return goString(C.qpdf_oh_unparse(p, C.qpdf_oh(h)))
	})
}

// UnparseResolved renders h with its top-level indirection resolved.
func (c *Context) UnparseResolved(h Handle) (string, error) {
	return call(c, errors.PhaseObject, func(p C.qpdf_data) string {
		return goString(C.qpdf_oh_unparse_resolved(p, C.qpdf_oh(h)))
	})
}

// UnparseBinary renders h with strings in binary form. The result may
// contain NUL, so its length comes from the engine rather than strlen.
func (c *Context) UnparseBinary(h Handle) ([]byte, error) {
	return call(c, errors.PhaseObject, func(p C.qpdf_data) []byte {
		s := C.qpdf_oh_unparse_binary(p, C.qpdf_oh(h))
		if s == nil {
			return nil
		}
		n := C.qpdf_get_last_string_length(p)
		return C.GoBytes(unsafe.Pointer(s), C.int(n))
	})
}

// The accessors below are unchecked: on a mismatched type the engine
// returns its default value and the type error it records is drained.

func (c *Context) BoolValue(h Handle) bool {
	return query(c, func(p C.qpdf_data) bool {
		return C.qpdf_oh_get_bool_value(p, C.qpdf_oh(h)) != 0
	})
}

func (c *Context) IntValue(h Handle) int64 {
	return query(c, func(p C.qpdf_data) int64 {
		return int64(C.qpdf_oh_get_int_value(p, C.qpdf_oh(h)))
	})
}

func (c *Context) IntValueAsInt(h Handle) int32 {
	return query(c, func(p C.qpdf_data) int32 {
		return int32(C.qpdf_oh_get_int_value_as_int(p, C.qpdf_oh(h)))
	})
}

func (c *Context) UintValue(h Handle) uint64 {
	return query(c, func(p C.qpdf_data) uint64 {
		return uint64(C.qpdf_oh_get_uint_value(p, C.qpdf_oh(h)))
	})
}

func (c *Context) UintValueAsUint(h Handle) uint32 {
	return query(c, func(p C.qpdf_data) uint32 {
		return uint32(C.qpdf_oh_get_uint_value_as_uint(p, C.qpdf_oh(h)))
	})
}

func (c *Context) NumericValue(h Handle) float64 {
	return query(c, func(p C.qpdf_data) float64 {
		return float64(C.qpdf_oh_get_numeric_value(p, C.qpdf_oh(h)))
	})
}

func (c *Context) RealValue(h Handle) string {
	return query(c, func(p C.qpdf_data) string {
		return goString(C.qpdf_oh_get_real_value(p, C.qpdf_oh(h)))
	})
}

func (c *Context) NameValue(h Handle) string {
	return query(c, func(p C.qpdf_data) string {
		return goString(C.qpdf_oh_get_name(p, C.qpdf_oh(h)))
	})
}

// UTF8Value decodes a text string (PDFDoc or UTF-16) to UTF-8.
func (c *Context) UTF8Value(h Handle) string {
	return query(c, func(p C.qpdf_data) string {
		return goString(C.qpdf_oh_get_utf8_value(p, C.qpdf_oh(h)))
	})
}

// BinaryStringValue returns a string object's raw bytes.
func (c *Context) BinaryStringValue(h Handle) []byte {
	return query(c, func(p C.qpdf_data) []byte {
		var n C.size_t
		s := C.qpdf_oh_get_binary_string_value(p, C.qpdf_oh(h), &n)
		if s == nil {
			return nil
		}
		return C.GoBytes(unsafe.Pointer(s), C.int(n))
	})
}

func (c *Context) ObjectID(h Handle) int {
	return query(c, func(p C.qpdf_data) int {
		return int(C.qpdf_oh_get_object_id(p, C.qpdf_oh(h)))
	})
}

func (c *Context) Generation(h Handle) int {
	return query(c, func(p C.qpdf_data) int {
		return int(C.qpdf_oh_get_generation(p, C.qpdf_oh(h)))
	})
}

// MakeIndirect adds h to the object table under a fresh id and returns a
// handle to the new indirect object.
func (c *Context) MakeIndirect(h Handle) (Handle, error) {
	return call(c, errors.PhaseObject, func(p C.qpdf_data) Handle {
		return Handle(C.qpdf_make_indirect_object(p, C.qpdf_oh(h)))
	})
}

// CopyForeign copies h, which belongs to src, into c. Both contexts stay
// locked for the duration of the copy.
func (c *Context) CopyForeign(src *Context, h Handle) (Handle, error) {
	unlock := lockPair(c, src)
	defer unlock()

	if c.p == nil {
		return 0, errors.Closed(errors.PhaseObject, "document")
	}
	if src.p == nil {
		return 0, errors.Closed(errors.PhaseObject, "source document")
	}

	oh := Handle(C.qpdf_oh_copy_foreign_object(c.p, src.p, C.qpdf_oh(h)))
	if err := c.lastError(errors.PhaseObject); err != nil {
		return 0, err
	}
	return oh, nil
}

// bytesPtr returns a pointer to b's backing array for the duration of a
// call. The engine copies the bytes before returning.
func bytesPtr(b []byte) *C.char {
	if len(b) == 0 {
		return nil
	}
	return (*C.char)(unsafe.Pointer(unsafe.SliceData(b)))
}
