package engine

/*
#include "bridge.h"
*/
import "C"

import (
	"unsafe"

	"go.uber.org/zap"

	"github.com/wippyai/qpdf-go/errors"
)

// Print is the R3+ print permission level.
type Print int

const (
	PrintFull Print = C.qpdf_r3p_full
	PrintLow  Print = C.qpdf_r3p_low
	PrintNone Print = C.qpdf_r3p_none
)

// Encryption carries the parameters of one encryption revision. Passwords
// are already in the byte encoding the revision expects.
type Encryption struct {
	Revision      int // 2, 3, 4 or 6
	UserPassword  string
	OwnerPassword string

	// R2 flags.
	AllowPrint    bool
	AllowModify   bool
	AllowExtract  bool
	AllowAnnotate bool

	// R3+ flags.
	AllowAccessibility   bool
	AllowAssemble        bool
	AllowAnnotateAndForm bool
	AllowFormFilling     bool
	AllowModifyOther     bool
	PrintLevel           Print
	EncryptMetadata      bool
	UseAES               bool
}

// WriteOptions is the full writer state applied right before serializing.
// Nil fields leave the engine default in place.
type WriteOptions struct {
	CompressStreams             *bool
	PreserveUnreferencedObjects *bool
	NormalizeContent            *bool
	PreserveEncryption          *bool
	Linearize                   *bool
	StaticID                    *bool
	DeterministicID             *bool
	DecodeLevel                 *DecodeLevel
	ObjectStreamMode            *ObjectStreamMode
	StreamDataMode              *StreamDataMode
	MinimumVersion              string
	ForceVersion                string
	Encryption                  *Encryption
}

// WriteFile serializes the document to path. On failure the file may be
// left partially written.
func (c *Context) WriteFile(path string, opts *WriteOptions) error {
	cpath, err := cstring(errors.PhaseWrite, path)
	if err != nil {
		return err
	}
	defer C.free(unsafe.Pointer(cpath))

	_, err = c.write(opts, func(p C.qpdf_data) {
		C.qpdf_init_write(p, cpath)
	}, nil)
	return err
}

// WriteMemory serializes the document and returns a copy of the output.
func (c *Context) WriteMemory(opts *WriteOptions) ([]byte, error) {
	return c.write(opts, func(p C.qpdf_data) {
		C.qpdf_init_write_memory(p)
	}, func(p C.qpdf_data) []byte {
		n := C.qpdf_get_buffer_length(p)
		buf := C.qpdf_get_buffer(p)
		if buf == nil || n == 0 {
			return []byte{}
		}
		return C.GoBytes(unsafe.Pointer(buf), C.int(n))
	})
}

// write runs init, options and write as one critical section. Each stage
// checks the error state and the first failure aborts.
func (c *Context) write(opts *WriteOptions, initFn func(C.qpdf_data), collect func(C.qpdf_data) []byte) ([]byte, error) {
	if opts == nil {
		opts = &WriteOptions{}
	}

	strs, err := newCStrings(opts)
	if err != nil {
		return nil, err
	}
	defer strs.free()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.p == nil {
		return nil, errors.Closed(errors.PhaseWrite, "document")
	}
	p := c.p

	initFn(p)
	if err := c.lastError(errors.PhaseWrite); err != nil {
		return nil, err
	}

	applyFlags(p, opts)
	if err := c.lastError(errors.PhaseWrite); err != nil {
		return nil, err
	}

	if strs.minVersion != nil {
		C.qpdf_set_minimum_pdf_version(p, strs.minVersion)
		if err := c.lastError(errors.PhaseWrite); err != nil {
			return nil, err
		}
	}
	if strs.forceVersion != nil {
		C.qpdf_force_pdf_version(p, strs.forceVersion)
		if err := c.lastError(errors.PhaseWrite); err != nil {
			return nil, err
		}
	}
	if opts.Encryption != nil {
		applyEncryption(p, opts.Encryption, strs.user, strs.owner)
		if err := c.lastError(errors.PhaseEncrypt); err != nil {
			return nil, err
		}
	}

	C.qpdf_write(p)
	if err := c.lastError(errors.PhaseWrite); err != nil {
		return nil, err
	}

	var out []byte
	if collect != nil {
		out = collect(p)
	}
	Logger().Debug("document written",
		zap.Uint64("context", c.id),
		zap.Int("bytes", len(out)),
		zap.Bool("memory", collect != nil))
	return out, nil
}

func applyFlags(p C.qpdf_data, o *WriteOptions) {
	if o.CompressStreams != nil {
		C.qpdf_set_compress_streams(p, cbool(*o.CompressStreams))
	}
	if o.PreserveUnreferencedObjects != nil {
		C.qpdf_set_preserve_unreferenced_objects(p, cbool(*o.PreserveUnreferencedObjects))
	}
	if o.NormalizeContent != nil {
		C.qpdf_set_content_normalization(p, cbool(*o.NormalizeContent))
	}
	if o.PreserveEncryption != nil {
		C.qpdf_set_preserve_encryption(p, cbool(*o.PreserveEncryption))
	}
	if o.Linearize != nil {
		C.qpdf_set_linearization(p, cbool(*o.Linearize))
	}
	if o.StaticID != nil {
		C.qpdf_set_static_ID(p, cbool(*o.StaticID))
	}
	if o.DeterministicID != nil {
		C.qpdf_set_deterministic_ID(p, cbool(*o.DeterministicID))
	}
	if o.DecodeLevel != nil {
		C.qg_set_decode_level(p, C.int(*o.DecodeLevel))
	}
	if o.ObjectStreamMode != nil {
		C.qg_set_object_stream_mode(p, C.int(*o.ObjectStreamMode))
	}
	if o.StreamDataMode != nil {
		C.qg_set_stream_data_mode(p, C.int(*o.StreamDataMode))
	}
}

func applyEncryption(p C.qpdf_data, e *Encryption, user, owner *C.char) {
	switch e.Revision {
	case 2:
		C.qg_set_r2(p, user, owner,
			C.int(cbool(e.AllowPrint)), C.int(cbool(e.AllowModify)),
			C.int(cbool(e.AllowExtract)), C.int(cbool(e.AllowAnnotate)))
	case 3:
		C.qg_set_r3(p, user, owner,
			C.int(cbool(e.AllowAccessibility)), C.int(cbool(e.AllowExtract)),
			C.int(cbool(e.AllowAssemble)), C.int(cbool(e.AllowAnnotateAndForm)),
			C.int(cbool(e.AllowFormFilling)), C.int(cbool(e.AllowModifyOther)),
			C.int(e.PrintLevel))
	case 4:
		C.qg_set_r4(p, user, owner,
			C.int(cbool(e.AllowAccessibility)), C.int(cbool(e.AllowExtract)),
			C.int(cbool(e.AllowAssemble)), C.int(cbool(e.AllowAnnotateAndForm)),
			C.int(cbool(e.AllowFormFilling)), C.int(cbool(e.AllowModifyOther)),
			C.int(e.PrintLevel), C.int(cbool(e.EncryptMetadata)), C.int(cbool(e.UseAES)))
	case 6:
		C.qg_set_r6(p, user, owner,
			C.int(cbool(e.AllowAccessibility)), C.int(cbool(e.AllowExtract)),
			C.int(cbool(e.AllowAssemble)), C.int(cbool(e.AllowAnnotateAndForm)),
			C.int(cbool(e.AllowFormFilling)), C.int(cbool(e.AllowModifyOther)),
			C.int(e.PrintLevel), C.int(cbool(e.EncryptMetadata)))
	}
}

// cStrings holds the C copies of every string option for one write.
type cStrings struct {
	minVersion   *C.char
	forceVersion *C.char
	user         *C.char
	owner        *C.char
}

func newCStrings(o *WriteOptions) (*cStrings, error) {
	s := &cStrings{}
	var err error

	if o.Encryption != nil {
		switch o.Encryption.Revision {
		case 2, 3, 4, 6:
		default:
			return nil, errors.InvalidParameter(errors.PhaseEncrypt, "unsupported encryption revision R%d", o.Encryption.Revision)
		}
	}

	conv := func(dst **C.char, v string, phase errors.Phase) {
		if err != nil {
			return
		}
		*dst, err = cstring(phase, v)
	}
	if o.MinimumVersion != "" {
		conv(&s.minVersion, o.MinimumVersion, errors.PhaseWrite)
	}
	if o.ForceVersion != "" {
		conv(&s.forceVersion, o.ForceVersion, errors.PhaseWrite)
	}
	if o.Encryption != nil {
		conv(&s.user, o.Encryption.UserPassword, errors.PhaseEncrypt)
		conv(&s.owner, o.Encryption.OwnerPassword, errors.PhaseEncrypt)
	}
	if err != nil {
		s.free()
		return nil, err
	}
	return s, nil
}

func (s *cStrings) free() {
	for _, p := range []*C.char{s.minVersion, s.forceVersion, s.user, s.owner} {
		if p != nil {
			C.free(unsafe.Pointer(p))
		}
	}
}
