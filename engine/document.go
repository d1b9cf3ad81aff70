package engine

/*
#include "bridge.h"
*/
import "C"

import (
	"unsafe"

	"github.com/wippyai/qpdf-go/errors"
)

// ReadFile parses the file at path. An empty password means none.
func (c *Context) ReadFile(path, password string) error {
	cpath, err := cstring(errors.PhaseRead, path)
	if err != nil {
		return err
	}
	defer C.free(unsafe.Pointer(cpath))

	cpass, err := optionalCString(password)
	if err != nil {
		return err
	}
	if cpass != nil {
		defer C.free(unsafe.Pointer(cpass))
	}

	return exec(c, errors.PhaseRead, func(p C.qpdf_data) {
		C.qpdf_read(p, cpath, cpass)
	})
}

// ReadMemory parses data. The engine aliases its input for the lifetime of
// the document, so the bytes are copied to the C heap and kept until Close.
func (c *Context) ReadMemory(description string, data []byte, password string) error {
	cdesc, err := cstring(errors.PhaseRead, description)
	if err != nil {
		return err
	}
	defer C.free(unsafe.Pointer(cdesc))

	cpass, err := optionalCString(password)
	if err != nil {
		return err
	}
	if cpass != nil {
		defer C.free(unsafe.Pointer(cpass))
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.p == nil {
		return errors.Closed(errors.PhaseRead, "document")
	}
	if c.buf != nil {
		return errors.InvalidParameter(errors.PhaseRead, "document already holds an input buffer")
	}

	// C.CBytes never returns nil, even for empty input.
	c.buf = C.CBytes(data)
	C.qg_read_memory(c.p, cdesc, (*C.char)(c.buf), C.size_t(len(data)), cpass)
	return c.lastError(errors.PhaseRead)
}

// EmptyPDF initializes the context as a new document with an empty page tree.
func (c *Context) EmptyPDF() error {
	return exec(c, errors.PhaseRead, func(p C.qpdf_data) {
		C.qpdf_empty_pdf(p)
	})
}

// SetAttemptRecovery toggles reconstruction of damaged cross-reference data.
// It only affects documents read afterwards.
func (c *Context) SetAttemptRecovery(on bool) {
	query(c, func(p C.qpdf_data) struct{} {
		C.qpdf_set_attempt_recovery(p, cbool(on))
		return struct{}{}
	})
}

// SetIgnoreXRefStreams makes the reader fall back to classic xref tables.
func (c *Context) SetIgnoreXRefStreams(on bool) {
	query(c, func(p C.qpdf_data) struct{} {
		C.qpdf_set_ignore_xref_streams(p, cbool(on))
		return struct{}{}
	})
}

// Check runs the engine's structural validation.
func (c *Context) Check() error {
	return exec(c, errors.PhaseCheck, func(p C.qpdf_data) {
		C.qpdf_check_pdf(p)
	})
}

// Version returns the document's PDF version, e.g. "1.7".
func (c *Context) Version() string {
	return query(c, func(p C.qpdf_data) string {
		return goString(C.qpdf_get_pdf_version(p))
	})
}

// ExtensionLevel returns the Adobe extension level, 0 if none.
func (c *Context) ExtensionLevel() int {
	return query(c, func(p C.qpdf_data) int {
		return int(C.qpdf_get_pdf_extension_level(p))
	})
}

// IsLinearized reports whether the input was linearized.
func (c *Context) IsLinearized() bool {
	return query(c, func(p C.qpdf_data) bool {
		return C.qpdf_is_linearized(p) != 0
	})
}

// IsEncrypted reports whether the input was encrypted.
func (c *Context) IsEncrypted() bool {
	return query(c, func(p C.qpdf_data) bool {
		return C.qpdf_is_encrypted(p) != 0
	})
}

// Permissions is the set of operations the document's encryption allows.
type Permissions struct {
	Accessibility    bool
	ExtractAll       bool
	PrintLowRes      bool
	PrintHighRes     bool
	ModifyAssembly   bool
	ModifyForm       bool
	ModifyAnnotation bool
	ModifyOther      bool
	ModifyAll        bool
}

// Permissions queries the permission bits of the current document.
func (c *Context) Permissions() Permissions {
	return query(c, func(p C.qpdf_data) Permissions {
		return Permissions{
			Accessibility:    C.qpdf_allow_accessibility(p) != 0,
			ExtractAll:       C.qpdf_allow_extract_all(p) != 0,
			PrintLowRes:      C.qpdf_allow_print_low_res(p) != 0,
			PrintHighRes:     C.qpdf_allow_print_high_res(p) != 0,
			ModifyAssembly:   C.qpdf_allow_modify_assembly(p) != 0,
			ModifyForm:       C.qpdf_allow_modify_form(p) != 0,
			ModifyAnnotation: C.qpdf_allow_modify_annotation(p) != 0,
			ModifyOther:      C.qpdf_allow_modify_other(p) != 0,
			ModifyAll:        C.qpdf_allow_modify_all(p) != 0,
		}
	})
}

// InfoKey returns a text entry of the document information dictionary.
// key includes the leading slash, e.g. "/Title".
func (c *Context) InfoKey(key string) (string, bool) {
	ckey, err := cstring(errors.PhaseObject, key)
	if err != nil {
		return "", false
	}
	defer C.free(unsafe.Pointer(ckey))

	type result struct {
		s  string
		ok bool
	}
	r := query(c, func(p C.qpdf_data) result {
		v := C.qpdf_get_info_key(p, ckey)
		if v == nil {
			return result{}
		}
		return result{C.GoString(v), true}
	})
	return r.s, r.ok
}

// SetInfoKey sets a text entry of the document information dictionary,
// creating the dictionary if needed.
func (c *Context) SetInfoKey(key, value string) error {
	ckey, err := cstring(errors.PhaseObject, key)
	if err != nil {
		return err
	}
	defer C.free(unsafe.Pointer(ckey))

	cval, err := cstring(errors.PhaseObject, value)
	if err != nil {
		return err
	}
	defer C.free(unsafe.Pointer(cval))

	return exec(c, errors.PhaseObject, func(p C.qpdf_data) {
		C.qpdf_set_info_key(p, ckey, cval)
	})
}

// Trailer returns a handle to the trailer dictionary.
func (c *Context) Trailer() (Handle, error) {
	return call(c, errors.PhaseObject, func(p C.qpdf_data) Handle {
		return Handle(C.qpdf_get_trailer(p))
	})
}

// Root returns a handle to the document catalog.
func (c *Context) Root() (Handle, error) {
	return call(c, errors.PhaseObject, func(p C.qpdf_data) Handle {
		return Handle(C.qpdf_get_root(p))
	})
}

// ObjectByID looks up an indirect object.
func (c *Context) ObjectByID(id, gen int) (Handle, error) {
	return call(c, errors.PhaseObject, func(p C.qpdf_data) Handle {
		return Handle(C.qpdf_get_object_by_id(p, C.int(id), C.int(gen)))
	})
}

// ReplaceObject replaces the indirect object (id, gen) with the value of h.
func (c *Context) ReplaceObject(id, gen int, h Handle) error {
	return exec(c, errors.PhaseObject, func(p C.qpdf_data) {
		C.qpdf_replace_object(p, C.int(id), C.int(gen), C.qpdf_oh(h))
	})
}

func optionalCString(s string) (*C.char, error) {
	if s == "" {
		return nil, nil
	}
	return cstring(errors.PhaseRead, s)
}
