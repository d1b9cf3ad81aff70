package errors

import (
	stderrors "errors"
	"fmt"
	"strconv"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseRead      Phase = "read"      // opening a document
	PhaseWrite     Phase = "write"     // serializing a document
	PhaseParse     Phase = "parse"     // parsing object text
	PhaseObject    Phase = "object"    // object handle operations
	PhasePages     Phase = "pages"     // page tree operations
	PhaseCheck     Phase = "check"     // structural validation
	PhaseEncrypt   Phase = "encrypt"   // encryption parameters
	PhaseLifecycle Phase = "lifecycle" // document and handle lifetime
	PhaseWarning   Phase = "warning"   // recoverable engine warnings
)

// Kind categorizes the error
type Kind string

// Engine-reported kinds. These mirror the engine's error codes.
const (
	KindInvalidParameter Kind = "invalid_parameter"
	KindInternal         Kind = "internal"
	KindSystem           Kind = "system"
	KindUnsupported      Kind = "unsupported"
	KindInvalidPassword  Kind = "invalid_password"
	KindDamagedPDF       Kind = "damaged_pdf"
	KindPages            Kind = "pages"
	KindObject           Kind = "object"
	KindUnknown          Kind = "unknown"
)

// Kinds raised by this module before the engine is involved.
const (
	KindTypeMismatch  Kind = "type_mismatch"
	KindClosed        Kind = "closed"
	KindForeignObject Kind = "foreign_object"
	KindNotFound      Kind = "not_found"
)

// Error is the structured error type used throughout the module
type Error struct {
	Value       any
	Cause       error
	Phase       Phase
	Kind        Kind
	Detail      string
	Filename    string
	Position    uint64
	HasPosition bool
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Filename != "" || e.HasPosition {
		b.WriteString(" at ")
		if e.Filename != "" {
			b.WriteString(e.Filename)
		}
		if e.HasPosition {
			if e.Filename != "" {
				b.WriteByte(':')
			}
			b.WriteString("offset ")
			b.WriteString(strconv.FormatUint(e.Position, 10))
		}
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error.
// A target with an empty Phase matches on Kind alone.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		if t.Phase != "" && t.Phase != e.Phase {
			return false
		}
		return e.Kind == t.Kind
	}
	return false
}

// KindOf returns the Kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Filename sets the source the engine was reading when the error occurred
func (b *Builder) Filename(name string) *Builder {
	b.err.Filename = name
	return b
}

// Position sets the byte offset into the source
func (b *Builder) Position(offset uint64) *Builder {
	b.err.Position = offset
	b.err.HasPosition = true
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// InvalidParameter creates an invalid parameter error
func InvalidParameter(phase Phase, detail string, args ...any) *Error {
	return New(phase, KindInvalidParameter).Detail(detail, args...).Build()
}

// TypeMismatch creates an error for narrowing an object into the wrong view
func TypeMismatch(phase Phase, want, got string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindTypeMismatch,
		Detail: fmt.Sprintf("expected %s, got %s", want, got),
	}
}

// Closed creates a use-after-close error
func Closed(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindClosed,
		Detail: fmt.Sprintf("%s is closed", what),
	}
}

// ForeignObject creates an error for passing an object owned by another document
func ForeignObject(phase Phase, op string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindForeignObject,
		Detail: fmt.Sprintf("%s: object belongs to another document; use CopyForeign", op),
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what string, args ...any) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf(what, args...),
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// System wraps an operating system failure observed outside the engine
func System(phase Phase, cause error, detail string) *Error {
	return Wrap(phase, KindSystem, cause, detail)
}
