// Package engine is the cgo boundary to libqpdf.
//
// Every engine document lives behind a Context. A Context owns the
// qpdf_data pointer, and for documents read from memory, the C-heap copy of
// the input that the engine aliases. All engine calls are Context methods.
//
// # Error Protocol
//
// libqpdf reports failures out of band: a call records an error in the
// document state and the caller asks for it afterwards. Each fallible
// method here makes its call and consumes the error state while holding
// the Context mutex, so an error can never be attributed to a later call:
//
//	call  ->  qpdf_has_error  ->  qpdf_get_error  ->  *errors.Error
//
// Error codes map onto errors.Kind through KindOf. Codes this package does
// not know become KindUnknown.
//
// Pure queries (type tags, predicates, unchecked coercions) never return an
// error. Anything they leave behind is drained and logged at debug level.
//
// # Handles
//
// Handle values are only meaningful to the Context that issued them.
// Passing a handle to a different Context is undefined in the engine; the
// qpdf package checks ownership before calling in here.
//
// # Cross-document calls
//
// CopyForeign, AddPage and AddPageAt read from one document while writing
// another. Both Contexts are locked in ascending id order.
//
// # Buffers
//
// Stream data returned by the engine is malloc'd. It is copied into Go
// memory and freed before the method returns.
//
// # Thread Safety
//
// Context is safe for concurrent use. Calls on one Context are serialized.
//
// Most users should use the qpdf package. This package is for callers that
// manage handle lifetimes themselves.
package engine
