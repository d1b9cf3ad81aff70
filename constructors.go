package qpdf

import (
	"slices"

	"github.com/wippyai/qpdf-go/engine"
	"github.com/wippyai/qpdf-go/errors"
)

// NewUninitialized returns a placeholder object with no value.
func (d *Document) NewUninitialized() (*Object, error) {
	return d.create(errors.PhaseObject, (*engine.Context).NewUninitialized)
}

func (d *Document) NewNull() (*Object, error) {
	return d.create(errors.PhaseObject, (*engine.Context).NewNull)
}

func (d *Document) NewBool(v bool) (*Object, error) {
	return d.create(errors.PhaseObject, func(ctx *engine.Context) (engine.Handle, error) {
		return ctx.NewBool(v)
	})
}

func (d *Document) NewInteger(v int64) (*Object, error) {
	return d.create(errors.PhaseObject, func(ctx *engine.Context) (engine.Handle, error) {
		return ctx.NewInteger(v)
	})
}

// NewReal creates a real rendered with the given number of decimal places.
func (d *Document) NewReal(v float64, places int) (*Object, error) {
	if places < 0 {
		return nil, errors.InvalidParameter(errors.PhaseObject, "negative decimal places %d", places)
	}
	return d.create(errors.PhaseObject, func(ctx *engine.Context) (engine.Handle, error) {
		return ctx.NewRealFromDouble(v, places)
	})
}

// NewRealFromString creates a real whose textual value is s, verbatim.
func (d *Document) NewRealFromString(s string) (*Object, error) {
	return d.create(errors.PhaseObject, func(ctx *engine.Context) (engine.Handle, error) {
		return ctx.NewRealFromString(s)
	})
}

// NewName creates a name. A missing leading slash is added.
func (d *Document) NewName(name string) (*Object, error) {
	n := nameKey(name)
	return d.create(errors.PhaseObject, func(ctx *engine.Context) (engine.Handle, error) {
		return ctx.NewName(n)
	})
}

// NewString creates a string object holding the bytes of s unchanged.
func (d *Document) NewString(s string) (*Object, error) {
	return d.create(errors.PhaseObject, func(ctx *engine.Context) (engine.Handle, error) {
		return ctx.NewString(s)
	})
}

// NewUTF8String creates a text string from UTF-8, stored as PDFDocEncoding
// when possible and UTF-16BE otherwise.
func (d *Document) NewUTF8String(s string) (*Object, error) {
	return d.create(errors.PhaseObject, func(ctx *engine.Context) (engine.Handle, error) {
		return ctx.NewUnicodeString(s)
	})
}

// NewBinaryString creates a string object from arbitrary bytes.
func (d *Document) NewBinaryString(b []byte) (*Object, error) {
	return d.create(errors.PhaseObject, func(ctx *engine.Context) (engine.Handle, error) {
		return ctx.NewBinaryString(b)
	})
}

func (d *Document) NewArray() (*Array, error) {
	o, err := d.create(errors.PhaseObject, (*engine.Context).NewArray)
	if err != nil {
		return nil, err
	}
	return &Array{view{o}}, nil
}

// NewArrayFrom creates an array holding items in order.
func (d *Document) NewArrayFrom(items ...*Object) (*Array, error) {
	if err := d.checkOwned("NewArrayFrom", items...); err != nil {
		return nil, err
	}
	a, err := d.NewArray()
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		if err := a.Push(it); err != nil {
			a.Release()
			return nil, err
		}
	}
	return a, nil
}

func (d *Document) NewDictionary() (*Dictionary, error) {
	o, err := d.create(errors.PhaseObject, (*engine.Context).NewDictionary)
	if err != nil {
		return nil, err
	}
	return &Dictionary{view{o}}, nil
}

// NewDictionaryFrom creates a dictionary from entries. Keys are inserted in
// sorted order so the result does not depend on map iteration.
func (d *Document) NewDictionaryFrom(entries map[string]*Object) (*Dictionary, error) {
	keys := make([]string, 0, len(entries))
	for k, v := range entries {
		if err := d.checkOwned("NewDictionaryFrom", v); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	slices.Sort(keys)

	dict, err := d.NewDictionary()
	if err != nil {
		return nil, err
	}
	for _, k := range keys {
		if err := dict.Set(k, entries[k]); err != nil {
			dict.Release()
			return nil, err
		}
	}
	return dict, nil
}

// NewStream creates an indirect stream holding data with no filter.
func (d *Document) NewStream(data []byte) (*Stream, error) {
	o, err := d.create(errors.PhaseObject, (*engine.Context).NewStream)
	if err != nil {
		return nil, err
	}
	s := &Stream{view{o}}
	if err := s.ReplaceData(data, nil, nil); err != nil {
		s.Release()
		return nil, err
	}
	return s, nil
}

// NewStreamWithDictionary creates a stream holding data whose dictionary
// carries entries. /Length, /Filter and /DecodeParms are managed by the
// engine and should not be set here.
func (d *Document) NewStreamWithDictionary(entries map[string]*Object, data []byte) (*Stream, error) {
	for _, v := range entries {
		if err := d.checkOwned("NewStreamWithDictionary", v); err != nil {
			return nil, err
		}
	}
	s, err := d.NewStream(data)
	if err != nil {
		return nil, err
	}
	dict, err := s.Dictionary()
	if err != nil {
		s.Release()
		return nil, err
	}
	defer dict.Release()

	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		if err := dict.Set(k, entries[k]); err != nil {
			s.Release()
			return nil, err
		}
	}
	return s, nil
}
