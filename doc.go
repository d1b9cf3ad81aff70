// Package qpdf provides safe access to PDF documents held by libqpdf.
//
// The object graph of a document lives inside the native engine. This
// package hands out handles into it and keeps them honest: a handle never
// outlives its document, a document stays alive while another document
// still references objects copied from it, and the engine's last-error
// protocol is turned into ordinary Go errors.
//
// # Package Layout
//
//	qpdf/              Document, Object, typed views, Writer
//	├── engine/        cgo boundary to libqpdf, one Context per document
//	├── resource/      reference-counted registry of live documents
//	├── errors/        structured error type with engine error kinds
//	├── cmd/           qpdf-inspect command line tool
//	└── examples/      runnable examples
//
// # Quick Start
//
// Read a document, double its pages and write it back:
//
//	doc, err := qpdf.ReadFile("in.pdf")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer doc.Close()
//
//	pages, err := doc.Pages()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, p := range pages {
//	    if err := doc.AddPage(p, false); err != nil {
//	        log.Fatal(err)
//	    }
//	}
//
//	err = doc.Writer().
//	    Linearize(true).
//	    ForcePDFVersion("1.7").
//	    Write("out.pdf")
//
// # Objects and Views
//
// An Object is one handle into the graph. Narrow it into an Array,
// Dictionary, Scalar or Stream to get kind-specific operations; narrowing
// into the wrong kind returns a KindTypeMismatch error. Views share the
// underlying handle, so a mutation through any view is visible through
// every other handle to the same node.
//
// Handles are released by Release, or by the garbage collector when
// forgotten. Documents are released by Close; a GC cleanup releases
// forgotten documents too, and logs a warning.
//
// # Copying Between Documents
//
// Objects belong to exactly one document. Passing an object to a method of
// another document fails with KindForeignObject. Use CopyForeign, or
// AddPage with a page from another document; both register the source in
// the target's foreign set, which keeps the source's engine state alive
// until the target itself is destroyed.
//
// # Concurrency
//
// Each document serializes its engine calls on a mutex, so documents and
// objects may be shared between goroutines. Calls that touch two documents
// lock both in a fixed order.
package qpdf
