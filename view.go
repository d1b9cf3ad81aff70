package qpdf

// view is the core shared by the typed views. It forwards identity and
// type queries to the underlying Object; views hold no state of their own.
type view struct {
	obj *Object
}

// Object degrades the view back to a plain Object sharing the same handle.
func (v view) Object() *Object { return v.obj }

func (v view) Type() ObjectType     { return v.obj.Type() }
func (v view) ID() int              { return v.obj.ID() }
func (v view) Generation() int      { return v.obj.Generation() }
func (v view) IsIndirect() bool     { return v.obj.IsIndirect() }
func (v view) String() string       { return v.obj.String() }
func (v view) Document() *Document  { return v.obj.doc }
func (v view) Release()             { v.obj.Release() }
func (v view) Equal(o *Object) bool { return v.obj.Equal(o) }
