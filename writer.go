package qpdf

import (
	"bytes"
	"io"
	"regexp"
	"runtime"

	"github.com/coreos/go-semver/semver"

	"github.com/wippyai/qpdf-go/engine"
	"github.com/wippyai/qpdf-go/errors"
)

// ObjectStreamMode selects how the writer treats object streams.
type ObjectStreamMode = engine.ObjectStreamMode

const (
	ObjectStreamDisable  = engine.ObjectStreamDisable
	ObjectStreamPreserve = engine.ObjectStreamPreserve
	ObjectStreamGenerate = engine.ObjectStreamGenerate
)

// StreamDataMode selects how the writer compresses stream data.
type StreamDataMode = engine.StreamDataMode

const (
	StreamDataUncompress = engine.StreamDataUncompress
	StreamDataPreserve   = engine.StreamDataPreserve
	StreamDataCompress   = engine.StreamDataCompress
)

// Writer stages output options for one document. Nothing reaches the
// engine until Write, WriteToMemory or WriteTo, which validate every
// option and then apply them all under the document lock. A Writer can be
// reused; each write starts from fresh engine writer state.
type Writer struct {
	doc        *Document
	opts       engine.WriteOptions
	encryption EncryptionParams
}

// Writer returns a builder for serializing the document.
func (d *Document) Writer() *Writer {
	return &Writer{doc: d}
}

func (w *Writer) CompressStreams(on bool) *Writer {
	w.opts.CompressStreams = &on
	return w
}

// PreserveUnreferencedObjects keeps objects not reachable from the trailer.
func (w *Writer) PreserveUnreferencedObjects(on bool) *Writer {
	w.opts.PreserveUnreferencedObjects = &on
	return w
}

// NormalizeContent rewrites page content streams in a canonical form.
func (w *Writer) NormalizeContent(on bool) *Writer {
	w.opts.NormalizeContent = &on
	return w
}

// PreserveEncryption keeps the input's encryption. Defaults to true.
func (w *Writer) PreserveEncryption(on bool) *Writer {
	w.opts.PreserveEncryption = &on
	return w
}

func (w *Writer) Linearize(on bool) *Writer {
	w.opts.Linearize = &on
	return w
}

// StaticID writes a fixed /ID. Only useful for tests.
func (w *Writer) StaticID(on bool) *Writer {
	w.opts.StaticID = &on
	return w
}

// DeterministicID derives /ID from the output contents.
func (w *Writer) DeterministicID(on bool) *Writer {
	w.opts.DeterministicID = &on
	return w
}

// MinimumPDFVersion raises the output version to at least v, e.g. "1.5".
func (w *Writer) MinimumPDFVersion(v string) *Writer {
	w.opts.MinimumVersion = v
	return w
}

// ForcePDFVersion writes exactly version v, even if that drops features.
func (w *Writer) ForcePDFVersion(v string) *Writer {
	w.opts.ForceVersion = v
	return w
}

func (w *Writer) StreamDecodeLevel(level DecodeLevel) *Writer {
	w.opts.DecodeLevel = &level
	return w
}

func (w *Writer) ObjectStreamMode(mode ObjectStreamMode) *Writer {
	w.opts.ObjectStreamMode = &mode
	return w
}

func (w *Writer) StreamDataMode(mode StreamDataMode) *Writer {
	w.opts.StreamDataMode = &mode
	return w
}

// Encryption encrypts the output. Pass nil to clear a staged value; a nil
// pointer such as (*EncryptionR4)(nil) fails the write instead.
func (w *Writer) Encryption(p EncryptionParams) *Writer {
	w.encryption = p
	return w
}

// Write serializes the document to path. If it fails, path may be left
// partially written; removing it is up to the caller.
func (w *Writer) Write(path string) error {
	defer runtime.KeepAlive(w.doc)
	ctx, opts, err := w.commit()
	if err != nil {
		return err
	}
	return ctx.WriteFile(path, opts)
}

// WriteToMemory serializes the document and returns the bytes.
func (w *Writer) WriteToMemory() ([]byte, error) {
	defer runtime.KeepAlive(w.doc)
	ctx, opts, err := w.commit()
	if err != nil {
		return nil, err
	}
	return ctx.WriteMemory(opts)
}

// WriteTo serializes the document into out.
func (w *Writer) WriteTo(out io.Writer) (int64, error) {
	buf, err := w.WriteToMemory()
	if err != nil {
		return 0, err
	}
	n, err := io.Copy(out, bytes.NewReader(buf))
	if err != nil {
		return n, errors.System(errors.PhaseWrite, err, "copy output")
	}
	return n, nil
}

// commit validates the staged options and builds the engine's view of
// them. It does not touch the engine.
func (w *Writer) commit() (*engine.Context, *engine.WriteOptions, error) {
	ctx, err := w.doc.context(errors.PhaseWrite)
	if err != nil {
		return nil, nil, err
	}

	opts := w.opts
	if opts.MinimumVersion != "" {
		if _, err := parseVersion(opts.MinimumVersion); err != nil {
			return nil, nil, err
		}
	}
	var forced *semver.Version
	if opts.ForceVersion != "" {
		if forced, err = parseVersion(opts.ForceVersion); err != nil {
			return nil, nil, err
		}
	}

	if w.encryption != nil {
		if nilParams(w.encryption) {
			return nil, nil, errors.InvalidParameter(errors.PhaseEncrypt, "nil %T encryption parameters", w.encryption)
		}
		if forced != nil {
			minimum, _ := parseVersion(w.encryption.MinimumVersion())
			if forced.LessThan(*minimum) {
				return nil, nil, errors.InvalidParameter(errors.PhaseEncrypt,
					"R%d encryption requires PDF %s or later, forced version is %s",
					w.encryption.Revision(), w.encryption.MinimumVersion(), opts.ForceVersion)
			}
		}
		enc, err := w.encryption.params()
		if err != nil {
			return nil, nil, err
		}
		opts.Encryption = enc
	}
	return ctx, &opts, nil
}

var versionPattern = regexp.MustCompile(`^[0-9]+\.[0-9]+$`)

// parseVersion accepts PDF versions of the form major.minor.
func parseVersion(v string) (*semver.Version, error) {
	if !versionPattern.MatchString(v) {
		return nil, errors.InvalidParameter(errors.PhaseWrite, "invalid PDF version %q, want major.minor", v)
	}
	sv, err := semver.NewVersion(v + ".0")
	if err != nil {
		return nil, errors.New(errors.PhaseWrite, errors.KindInvalidParameter).
			Cause(err).
			Detail("invalid PDF version %q", v).
			Build()
	}
	return sv, nil
}
