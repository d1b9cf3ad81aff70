package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
		excludes []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:       PhaseRead,
				Kind:        KindDamagedPDF,
				Filename:    "input.pdf",
				Position:    1024,
				HasPosition: true,
				Detail:      "xref not found",
			},
			contains: []string{"[read]", "damaged_pdf", "input.pdf:offset 1024", "xref not found"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseObject,
				Kind:  KindTypeMismatch,
			},
			contains: []string{"[object]", "type_mismatch"},
			excludes: []string{" at ", "offset"},
		},
		{
			name: "position without filename",
			err: &Error{
				Phase:       PhaseParse,
				Kind:        KindDamagedPDF,
				HasPosition: true,
			},
			contains: []string{"at offset 0"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseWrite,
				Kind:   KindSystem,
				Detail: "open output",
				Cause:  errors.New("permission denied"),
			},
			contains: []string{"[write]", "system", "open output", "caused by", "permission denied"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
			for _, s := range tt.excludes {
				if strings.Contains(msg, s) {
					t.Errorf("error message %q should not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseWrite,
		Kind:  KindSystem,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}

	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase:  PhaseRead,
		Kind:   KindInvalidPassword,
		Detail: "invalid password",
	}

	if !err.Is(&Error{Phase: PhaseRead, Kind: KindInvalidPassword}) {
		t.Error("Is should match same phase and kind")
	}

	if !err.Is(&Error{Kind: KindInvalidPassword}) {
		t.Error("Is should match kind when target phase is empty")
	}

	if err.Is(&Error{Phase: PhaseWrite, Kind: KindInvalidPassword}) {
		t.Error("Is should not match different phase")
	}

	if err.Is(&Error{Phase: PhaseRead, Kind: KindDamagedPDF}) {
		t.Error("Is should not match different kind")
	}

	wrapped := fmt.Errorf("open: %w", err)
	if !errors.Is(wrapped, &Error{Kind: KindInvalidPassword}) {
		t.Error("errors.Is should match through wrapping")
	}
}

func TestKindOf(t *testing.T) {
	err := fmt.Errorf("outer: %w", Closed(PhaseObject, "document"))

	if got := KindOf(err); got != KindClosed {
		t.Errorf("KindOf = %q, want %q", got, KindClosed)
	}
	if !IsKind(err, KindClosed) {
		t.Error("IsKind should report closed")
	}
	if IsKind(nil, KindClosed) {
		t.Error("IsKind(nil) should be false")
	}
	if got := KindOf(errors.New("plain")); got != "" {
		t.Errorf("KindOf(plain) = %q, want empty", got)
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseParse, KindDamagedPDF).
		Filename("parsed object").
		Position(7).
		Value("<< /A").
		Cause(cause).
		Detail("unexpected %s", "EOF").
		Build()

	if err.Phase != PhaseParse {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseParse)
	}
	if err.Kind != KindDamagedPDF {
		t.Errorf("Kind = %v, want %v", err.Kind, KindDamagedPDF)
	}
	if err.Filename != "parsed object" {
		t.Errorf("Filename = %q, want 'parsed object'", err.Filename)
	}
	if !err.HasPosition || err.Position != 7 {
		t.Errorf("Position = %d (has=%v), want 7", err.Position, err.HasPosition)
	}
	if err.Value != "<< /A" {
		t.Errorf("Value = %v, want '<< /A'", err.Value)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "unexpected EOF" {
		t.Errorf("Detail = %q, want 'unexpected EOF'", err.Detail)
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		err    *Error
		kind   Kind
		detail string
	}{
		{"invalid parameter", InvalidParameter(PhaseWrite, "bad version %q", "x"), KindInvalidParameter, `bad version "x"`},
		{"type mismatch", TypeMismatch(PhaseObject, "array", "dictionary"), KindTypeMismatch, "expected array, got dictionary"},
		{"closed", Closed(PhaseObject, "document"), KindClosed, "document is closed"},
		{"foreign", ForeignObject(PhaseObject, "array push"), KindForeignObject, "array push: object belongs to another document; use CopyForeign"},
		{"not found", NotFound(PhasePages, "page %d", 3), KindNotFound, "page 3"},
		{"unsupported", Unsupported(PhaseWrite, "streaming"), KindUnsupported, "streaming"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", tt.err.Kind, tt.kind)
			}
			if tt.err.Detail != tt.detail {
				t.Errorf("Detail = %q, want %q", tt.err.Detail, tt.detail)
			}
		})
	}
}
