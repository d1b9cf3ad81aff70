package qpdf

// Scalar is a view over a boolean, number, string or name. It restricts a
// call site to values that can be coerced.
type Scalar struct {
	view
}

func (s *Scalar) AsBool() bool       { return s.obj.AsBool() }
func (s *Scalar) AsInt64() int64     { return s.obj.AsInt64() }
func (s *Scalar) AsUint64() uint64   { return s.obj.AsUint64() }
func (s *Scalar) AsInt32() int32     { return s.obj.AsInt32() }
func (s *Scalar) AsUint32() uint32   { return s.obj.AsUint32() }
func (s *Scalar) AsFloat64() float64 { return s.obj.AsFloat64() }
func (s *Scalar) AsReal() string     { return s.obj.AsReal() }
func (s *Scalar) AsName() string     { return s.obj.AsName() }
func (s *Scalar) AsString() string   { return s.obj.AsString() }

func (s *Scalar) Bool() (bool, bool)       { return s.obj.Bool() }
func (s *Scalar) Int64() (int64, bool)     { return s.obj.Int64() }
func (s *Scalar) Uint64() (uint64, bool)   { return s.obj.Uint64() }
func (s *Scalar) Int32() (int32, bool)     { return s.obj.Int32() }
func (s *Scalar) Uint32() (uint32, bool)   { return s.obj.Uint32() }
func (s *Scalar) Float64() (float64, bool) { return s.obj.Float64() }
func (s *Scalar) Real() (string, bool)     { return s.obj.Real() }
func (s *Scalar) Name() (string, bool)     { return s.obj.Name() }
func (s *Scalar) Text() (string, bool)     { return s.obj.Text() }
func (s *Scalar) Bytes() ([]byte, bool)    { return s.obj.Bytes() }
