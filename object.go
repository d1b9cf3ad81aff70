package qpdf

import (
	"cmp"
	"math"
	"runtime"
	"strings"
	"sync/atomic"

	"github.com/wippyai/qpdf-go/engine"
	"github.com/wippyai/qpdf-go/errors"
)

// ObjectType is the kind of a PDF object.
type ObjectType int

const (
	TypeUninitialized ObjectType = iota
	TypeReserved
	TypeNull
	TypeBoolean
	TypeInteger
	TypeReal
	TypeString
	TypeName
	TypeArray
	TypeDictionary
	TypeStream
	TypeOperator
	TypeInlineImage
)

var typeNames = [...]string{
	TypeUninitialized: "uninitialized",
	TypeReserved:      "reserved",
	TypeNull:          "null",
	TypeBoolean:       "boolean",
	TypeInteger:       "integer",
	TypeReal:          "real",
	TypeString:        "string",
	TypeName:          "name",
	TypeArray:         "array",
	TypeDictionary:    "dictionary",
	TypeStream:        "stream",
	TypeOperator:      "operator",
	TypeInlineImage:   "inline-image",
}

func (t ObjectType) String() string {
	if t >= 0 && int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "unknown"
}

func objectType(code engine.TypeCode) ObjectType {
	switch code {
	case engine.TypeReserved:
		return TypeReserved
	case engine.TypeNull:
		return TypeNull
	case engine.TypeBoolean:
		return TypeBoolean
	case engine.TypeInteger:
		return TypeInteger
	case engine.TypeReal:
		return TypeReal
	case engine.TypeString:
		return TypeString
	case engine.TypeName:
		return TypeName
	case engine.TypeArray:
		return TypeArray
	case engine.TypeDictionary:
		return TypeDictionary
	case engine.TypeStream:
		return TypeStream
	case engine.TypeOperator:
		return TypeOperator
	case engine.TypeInlineImage:
		return TypeInlineImage
	default:
		return TypeUninitialized
	}
}

// absent reports whether a lookup result counts as "not there".
func absent(t ObjectType) bool {
	return t == TypeNull || t == TypeUninitialized
}

// Object is a handle to one node of a document's object graph.
//
// Two Objects are Equal when they are the same handle or refer to the same
// indirect object. Structurally identical direct objects built separately
// are not equal.
type Object struct {
	doc      *Document
	h        engine.Handle
	released atomic.Bool
	cleanup  runtime.Cleanup
}

type handleRef struct {
	ctx *engine.Context
	h   engine.Handle
}

func releaseHandle(ref handleRef) {
	ref.ctx.Release(ref.h)
}

// wrap takes ownership of an engine handle. The cleanup releases the handle
// once the Object is unreachable, so every method that hands o.h to the
// engine keeps o alive until the engine call has returned.
func (d *Document) wrap(h engine.Handle) *Object {
	o := &Object{doc: d, h: h}
	o.cleanup = runtime.AddCleanup(o, releaseHandle, handleRef{ctx: d.state.ctx, h: h})
	return o
}

// create runs an engine constructor and wraps the result.
func (d *Document) create(phase errors.Phase, fn func(*engine.Context) (engine.Handle, error)) (*Object, error) {
	defer runtime.KeepAlive(d)
	ctx, err := d.context(phase)
	if err != nil {
		return nil, err
	}
	h, err := fn(ctx)
	if err != nil {
		return nil, err
	}
	return d.wrap(h), nil
}

// keepAlive holds objs reachable until the deferring function returns.
func keepAlive(objs ...*Object) {
	runtime.KeepAlive(objs)
}

// context validates the handle and its document.
func (o *Object) context(phase errors.Phase) (*engine.Context, error) {
	if o.released.Load() {
		return nil, errors.Closed(phase, "object handle")
	}
	return o.doc.context(phase)
}

// query runs an infallible per-object query; a dead handle yields zero.
func query[T any](o *Object, fn func(*engine.Context, engine.Handle) T) T {
	defer runtime.KeepAlive(o)
	ctx, err := o.context(errors.PhaseObject)
	if err != nil {
		var zero T
		return zero
	}
	return fn(ctx, o.h)
}

// Document returns the owning document.
func (o *Object) Document() *Document {
	return o.doc
}

// Release frees the handle. Further use fails with KindClosed. Release is
// idempotent, and a no-op once the document has been destroyed.
func (o *Object) Release() {
	if !o.released.CompareAndSwap(false, true) {
		return
	}
	o.cleanup.Stop()
	if registry.Alive(o.doc.handle) {
		o.doc.state.ctx.Release(o.h)
	}
}

// Clone returns a new handle to the same node.
func (o *Object) Clone() (*Object, error) {
	defer runtime.KeepAlive(o)
	ctx, err := o.context(errors.PhaseObject)
	if err != nil {
		return nil, err
	}
	h, err := ctx.NewReference(o.h)
	if err != nil {
		return nil, err
	}
	return o.doc.wrap(h), nil
}

func (o *Object) Type() ObjectType {
	return objectType(query(o, (*engine.Context).TypeCode))
}

// TypeName is the engine's name for the object's type.
func (o *Object) TypeName() string {
	return query(o, (*engine.Context).TypeName)
}

// String renders the object in PDF syntax. Indirect objects render as a
// reference, e.g. "12 0 R".
func (o *Object) String() string {
	return query(o, (*engine.Context).Unparse)
}

// UnparseResolved renders the object with its indirection resolved.
func (o *Object) UnparseResolved() (string, error) {
	defer runtime.KeepAlive(o)
	ctx, err := o.context(errors.PhaseObject)
	if err != nil {
		return "", err
	}
	return ctx.UnparseResolved(o.h)
}

// UnparseBinary renders the object with strings in binary form.
func (o *Object) UnparseBinary() ([]byte, error) {
	defer runtime.KeepAlive(o)
	ctx, err := o.context(errors.PhaseObject)
	if err != nil {
		return nil, err
	}
	return ctx.UnparseBinary(o.h)
}

func (o *Object) IsNull() bool        { return o.Type() == TypeNull }
func (o *Object) IsBool() bool        { return o.Type() == TypeBoolean }
func (o *Object) IsInteger() bool     { return o.Type() == TypeInteger }
func (o *Object) IsReal() bool        { return o.Type() == TypeReal }
func (o *Object) IsName() bool        { return o.Type() == TypeName }
func (o *Object) IsString() bool      { return o.Type() == TypeString }
func (o *Object) IsArray() bool       { return o.Type() == TypeArray }
func (o *Object) IsDictionary() bool  { return o.Type() == TypeDictionary }
func (o *Object) IsStream() bool      { return o.Type() == TypeStream }
func (o *Object) IsOperator() bool    { return o.Type() == TypeOperator }
func (o *Object) IsInlineImage() bool { return o.Type() == TypeInlineImage }

// IsNumber reports whether the object is an integer or a real.
func (o *Object) IsNumber() bool {
	t := o.Type()
	return t == TypeInteger || t == TypeReal
}

func (o *Object) IsScalar() bool {
	return query(o, (*engine.Context).IsScalar)
}

func (o *Object) IsInitialized() bool {
	return query(o, (*engine.Context).IsInitialized)
}

func (o *Object) IsIndirect() bool {
	return query(o, (*engine.Context).IsIndirect)
}

// ID is the object number of an indirect object, 0 for direct objects.
func (o *Object) ID() int {
	return query(o, (*engine.Context).ObjectID)
}

// Generation is the generation of an indirect object, 0 for direct objects.
func (o *Object) Generation() int {
	return query(o, (*engine.Context).Generation)
}

// MakeIndirect adds the object to the document's object table under a new
// id and returns the indirect object. Every call allocates a new id.
func (o *Object) MakeIndirect() (*Object, error) {
	defer runtime.KeepAlive(o)
	ctx, err := o.context(errors.PhaseObject)
	if err != nil {
		return nil, err
	}
	h, err := ctx.MakeIndirect(o.h)
	if err != nil {
		return nil, err
	}
	return o.doc.wrap(h), nil
}

// Equal reports whether o and other are the same node: the same handle, or
// the same indirect object of the same document.
func (o *Object) Equal(other *Object) bool {
	if o == nil || other == nil {
		return o == other
	}
	if o.doc != other.doc {
		return false
	}
	if o.h == other.h {
		return true
	}
	if !o.IsIndirect() || !other.IsIndirect() {
		return false
	}
	return o.ID() == other.ID() && o.Generation() == other.Generation()
}

// Compare orders objects by document and handle. It is consistent with
// handle identity, not with Equal on aliased indirect objects.
func (o *Object) Compare(other *Object) int {
	if c := cmp.Compare(o.doc.state.ctx.ID(), other.doc.state.ctx.ID()); c != 0 {
		return c
	}
	return cmp.Compare(o.h, other.h)
}

// Unchecked coercions. On a mismatched type they return the engine's
// default value, usually zero or empty.

func (o *Object) AsBool() bool     { return query(o, (*engine.Context).BoolValue) }
func (o *Object) AsInt64() int64   { return query(o, (*engine.Context).IntValue) }
func (o *Object) AsUint64() uint64 { return query(o, (*engine.Context).UintValue) }
func (o *Object) AsInt32() int32   { return query(o, (*engine.Context).IntValueAsInt) }
func (o *Object) AsUint32() uint32 { return query(o, (*engine.Context).UintValueAsUint) }

// AsFloat64 returns the numeric value of an integer or real.
func (o *Object) AsFloat64() float64 { return query(o, (*engine.Context).NumericValue) }

// AsReal returns the textual value of a real, e.g. "1.234".
func (o *Object) AsReal() string { return query(o, (*engine.Context).RealValue) }

// AsName returns a name including its leading slash.
func (o *Object) AsName() string { return query(o, (*engine.Context).NameValue) }

// AsString returns a text string decoded to UTF-8.
func (o *Object) AsString() string { return query(o, (*engine.Context).UTF8Value) }

// AsBinaryString returns a string's raw bytes.
func (o *Object) AsBinaryString() []byte {
	return query(o, (*engine.Context).BinaryStringValue)
}

// Checked coercions. ok is false when the object has the wrong type or the
// value does not fit the result type.

func (o *Object) Bool() (v bool, ok bool) {
	if o.Type() != TypeBoolean {
		return false, false
	}
	return o.AsBool(), true
}

func (o *Object) Int64() (int64, bool) {
	if o.Type() != TypeInteger {
		return 0, false
	}
	return o.AsInt64(), true
}

func (o *Object) Uint64() (uint64, bool) {
	v, ok := o.Int64()
	if !ok || v < 0 {
		return 0, false
	}
	return uint64(v), true
}

func (o *Object) Int32() (int32, bool) {
	v, ok := o.Int64()
	if !ok || v < math.MinInt32 || v > math.MaxInt32 {
		return 0, false
	}
	return int32(v), true
}

func (o *Object) Uint32() (uint32, bool) {
	v, ok := o.Int64()
	if !ok || v < 0 || v > math.MaxUint32 {
		return 0, false
	}
	return uint32(v), true
}

// Float64 accepts integers and reals.
func (o *Object) Float64() (float64, bool) {
	if !o.IsNumber() {
		return 0, false
	}
	return o.AsFloat64(), true
}

func (o *Object) Real() (string, bool) {
	if o.Type() != TypeReal {
		return "", false
	}
	return o.AsReal(), true
}

func (o *Object) Name() (string, bool) {
	if o.Type() != TypeName {
		return "", false
	}
	return o.AsName(), true
}

// Text returns a string object decoded to UTF-8.
func (o *Object) Text() (string, bool) {
	if o.Type() != TypeString {
		return "", false
	}
	return o.AsString(), true
}

// Bytes returns a string object's raw bytes.
func (o *Object) Bytes() ([]byte, bool) {
	if o.Type() != TypeString {
		return nil, false
	}
	return o.AsBinaryString(), true
}

// AsArray narrows the object into an Array view sharing its handle.
func (o *Object) AsArray() (*Array, error) {
	if err := o.expect(TypeArray); err != nil {
		return nil, err
	}
	return &Array{view{o}}, nil
}

// AsDictionary narrows the object into a Dictionary view. Streams are not
// dictionaries; use AsStream and Stream.Dictionary.
func (o *Object) AsDictionary() (*Dictionary, error) {
	if err := o.expect(TypeDictionary); err != nil {
		return nil, err
	}
	return &Dictionary{view{o}}, nil
}

// AsStream narrows the object into a Stream view.
func (o *Object) AsStream() (*Stream, error) {
	if err := o.expect(TypeStream); err != nil {
		return nil, err
	}
	return &Stream{view{o}}, nil
}

// AsScalar narrows a boolean, number, string or name into a Scalar view.
func (o *Object) AsScalar() (*Scalar, error) {
	if _, err := o.context(errors.PhaseObject); err != nil {
		return nil, err
	}
	switch t := o.Type(); t {
	case TypeBoolean, TypeInteger, TypeReal, TypeString, TypeName:
		return &Scalar{view{o}}, nil
	default:
		return nil, errors.TypeMismatch(errors.PhaseObject, "scalar", t.String())
	}
}

func (o *Object) expect(want ObjectType) error {
	if _, err := o.context(errors.PhaseObject); err != nil {
		return err
	}
	if got := o.Type(); got != want {
		return errors.TypeMismatch(errors.PhaseObject, want.String(), got.String())
	}
	return nil
}

// nameKey adds the leading slash PDF names and dictionary keys carry.
func nameKey(s string) string {
	if strings.HasPrefix(s, "/") {
		return s
	}
	return "/" + s
}
