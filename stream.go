package qpdf

import (
	"bytes"
	"io"

	"github.com/wippyai/qpdf-go/engine"
	"github.com/wippyai/qpdf-go/errors"
)

// DecodeLevel controls how many filter layers are undone when reading
// stream data.
type DecodeLevel = engine.DecodeLevel

const (
	// DecodeNone returns the raw, still encoded bytes.
	DecodeNone = engine.DecodeNone
	// DecodeGeneralized undoes general purpose filters such as Flate and LZW.
	DecodeGeneralized = engine.DecodeGeneralized
	// DecodeSpecialized also undoes lossless specialized filters like RunLength.
	DecodeSpecialized = engine.DecodeSpecialized
	// DecodeAll also undoes lossy filters like DCT.
	DecodeAll = engine.DecodeAll
)

// StreamData is stream content copied out of the engine. It is ordinary Go
// memory; the native buffer was freed before it was returned.
type StreamData struct {
	data     []byte
	filtered bool
}

// Bytes returns the data. The slice is owned by the StreamData.
func (s *StreamData) Bytes() []byte { return s.data }

func (s *StreamData) Len() int { return len(s.data) }

// Filtered reports whether every requested filter could be undone. When
// false, Bytes holds the raw stream data.
func (s *StreamData) Filtered() bool { return s.filtered }

// Reader returns a reader over the data.
func (s *StreamData) Reader() io.Reader { return bytes.NewReader(s.data) }

// Stream is a view over a PDF stream.
type Stream struct {
	view
}

// GetData returns the stream's data decoded up to level.
func (s *Stream) GetData(level DecodeLevel) (*StreamData, error) {
	defer keepAlive(s.obj)
	ctx, err := s.obj.context(errors.PhaseObject)
	if err != nil {
		return nil, err
	}
	data, filtered, err := ctx.StreamData(s.obj.h, level)
	if err != nil {
		return nil, err
	}
	return &StreamData{data: data, filtered: filtered}, nil
}

// ReplaceData replaces the stream's raw data and sets /Filter and
// /DecodeParms. A nil filter or params removes the entry. The caller is
// responsible for data actually being encoded with filter.
func (s *Stream) ReplaceData(data []byte, filter, params *Object) error {
	defer keepAlive(s.obj, filter, params)
	ctx, err := s.obj.context(errors.PhaseObject)
	if err != nil {
		return err
	}
	doc := s.obj.doc
	for _, o := range []*Object{filter, params} {
		if o != nil {
			if err := doc.checkOwned("Stream.ReplaceData", o); err != nil {
				return err
			}
		}
	}

	fh, ph, release, err := doc.orNull(ctx, filter, params)
	if err != nil {
		return err
	}
	defer release()
	return ctx.ReplaceStreamData(s.obj.h, data, fh, ph)
}

// Dictionary returns the stream's own dictionary.
func (s *Stream) Dictionary() (*Dictionary, error) {
	defer keepAlive(s.obj)
	ctx, err := s.obj.context(errors.PhaseObject)
	if err != nil {
		return nil, err
	}
	h, err := ctx.StreamDict(s.obj.h)
	if err != nil {
		return nil, err
	}
	return &Dictionary{view{s.obj.doc.wrap(h)}}, nil
}

// orNull returns the handles of a and b, substituting a temporary null
// handle for nil arguments. release frees the temporaries.
func (d *Document) orNull(ctx *engine.Context, a, b *Object) (ha, hb engine.Handle, release func(), err error) {
	var temps []engine.Handle
	release = func() {
		for _, h := range temps {
			ctx.Release(h)
		}
	}
	pick := func(o *Object) (engine.Handle, error) {
		if o != nil {
			return o.h, nil
		}
		h, err := ctx.NewNull()
		if err != nil {
			return 0, err
		}
		temps = append(temps, h)
		return h, nil
	}
	if ha, err = pick(a); err != nil {
		release()
		return 0, 0, nil, err
	}
	if hb, err = pick(b); err != nil {
		release()
		return 0, 0, nil, err
	}
	return ha, hb, release, nil
}
