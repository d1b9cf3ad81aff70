package qpdf

import (
	"iter"

	"github.com/wippyai/qpdf-go/engine"
	"github.com/wippyai/qpdf-go/errors"
)

// Array is a view over a PDF array. Indexes outside the array are ignored
// by mutating operations and reported as absent by Get.
type Array struct {
	view
}

// Len returns the number of elements.
func (a *Array) Len() int {
	return query(a.obj, (*engine.Context).ArrayLen)
}

func (a *Array) IsEmpty() bool {
	return a.Len() == 0
}

// Get returns the element at i. Out-of-range indexes and null elements
// are reported as absent.
func (a *Array) Get(i int) (*Object, bool) {
	if i < 0 || i >= a.Len() {
		return nil, false
	}
	defer keepAlive(a.obj)
	return a.obj.doc.lookup(errors.PhaseObject, func(ctx *engine.Context) (engine.Handle, error) {
		return ctx.ArrayItem(a.obj.h, i)
	})
}

// Set replaces the element at i.
func (a *Array) Set(i int, v *Object) error {
	defer keepAlive(a.obj, v)
	ctx, err := a.mutate("Array.Set", v)
	if err != nil {
		return err
	}
	if i < 0 || i >= ctx.ArrayLen(a.obj.h) {
		return nil
	}
	return ctx.SetArrayItem(a.obj.h, i, v.h)
}

// Push appends v.
func (a *Array) Push(v *Object) error {
	defer keepAlive(a.obj, v)
	ctx, err := a.mutate("Array.Push", v)
	if err != nil {
		return err
	}
	return ctx.AppendItem(a.obj.h, v.h)
}

// Insert inserts v before the element at i. i == Len() appends.
func (a *Array) Insert(i int, v *Object) error {
	defer keepAlive(a.obj, v)
	ctx, err := a.mutate("Array.Insert", v)
	if err != nil {
		return err
	}
	if i < 0 || i > ctx.ArrayLen(a.obj.h) {
		return nil
	}
	return ctx.InsertItem(a.obj.h, i, v.h)
}

// Remove deletes the element at i.
func (a *Array) Remove(i int) error {
	defer keepAlive(a.obj)
	ctx, err := a.mutate("Array.Remove")
	if err != nil {
		return err
	}
	if i < 0 || i >= ctx.ArrayLen(a.obj.h) {
		return nil
	}
	return ctx.EraseItem(a.obj.h, i)
}

// All iterates the elements in order, skipping null elements the same way
// Get does. Each call starts a new pass.
func (a *Array) All() iter.Seq2[int, *Object] {
	return func(yield func(int, *Object) bool) {
		n := a.Len()
		for i := 0; i < n; i++ {
			v, ok := a.Get(i)
			if !ok {
				continue
			}
			if !yield(i, v) {
				return
			}
		}
	}
}

// Items collects All into a slice.
func (a *Array) Items() []*Object {
	var out []*Object
	for _, v := range a.All() {
		out = append(out, v)
	}
	return out
}

// MakeIndirect promotes the array to an indirect object.
func (a *Array) MakeIndirect() (*Array, error) {
	o, err := a.obj.MakeIndirect()
	if err != nil {
		return nil, err
	}
	return &Array{view{o}}, nil
}

// mutate validates the array and every argument before a mutation.
func (a *Array) mutate(op string, args ...*Object) (*engine.Context, error) {
	ctx, err := a.obj.context(errors.PhaseObject)
	if err != nil {
		return nil, err
	}
	if err := a.obj.doc.checkOwned(op, args...); err != nil {
		return nil, err
	}
	return ctx, nil
}
