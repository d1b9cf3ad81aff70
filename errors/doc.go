// Package errors provides structured error types for the qpdf-go module.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// Engine failures keep the positional detail the engine reported: the source
// name and the byte offset into it.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseRead, errors.KindDamagedPDF).
//		Filename("input.pdf").
//		Position(1024).
//		Detail("xref not found").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.TypeMismatch(errors.PhaseObject, "array", "dictionary")
//	err := errors.Closed(errors.PhaseObject, "document")
//
// All errors implement the standard error interface and support errors.Is/As.
// Matching on kind alone:
//
//	if errors.IsKind(err, errors.KindInvalidPassword) { ... }
package errors
