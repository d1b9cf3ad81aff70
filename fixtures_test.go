package qpdf

import (
	"bytes"
	"fmt"
	"regexp"
	"runtime"
	"testing"

	"github.com/go-pdf/fpdf"
)

// pdfWithPages renders a small document with n text pages.
func pdfWithPages(t *testing.T, n int) []byte {
	t.Helper()

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Helvetica", "", 14)
	for i := 1; i <= n; i++ {
		pdf.AddPage()
		pdf.Cell(40, 10, fmt.Sprintf("page %d", i))
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		t.Fatalf("render fixture: %v", err)
	}
	return buf.Bytes()
}

// protectedPDF renders a one page document that needs password "user".
func protectedPDF(t *testing.T) []byte {
	t.Helper()

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetProtection(fpdf.CnProtectPrint, "user", "owner")
	pdf.SetFont("Helvetica", "", 14)
	pdf.AddPage()
	pdf.Cell(40, 10, "secret")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		t.Fatalf("render fixture: %v", err)
	}
	return buf.Bytes()
}

var startXRef = regexp.MustCompile(`startxref\s+\d+`)

// damagedPDF renders a one page document whose startxref offset points
// into the header, so reading it needs xref reconstruction.
func damagedPDF(t *testing.T) []byte {
	t.Helper()

	data := pdfWithPages(t, 1)
	out := startXRef.ReplaceAll(data, []byte("startxref\n7"))
	if bytes.Equal(out, data) {
		t.Fatal("fixture has no startxref")
	}
	return out
}

// collectContinuously runs the garbage collector in a loop until the test
// ends, so cleanups get every chance to run early.
func collectContinuously(t *testing.T) {
	t.Helper()

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-stop:
				return
			default:
				runtime.GC()
			}
		}
	}()
	t.Cleanup(func() {
		close(stop)
		<-done
	})
}

func openBytes(t *testing.T, data []byte, opts ...ReadOption) *Document {
	t.Helper()
	doc, err := ReadBytes(data, opts...)
	if err != nil {
		t.Fatalf("ReadBytes: %v", err)
	}
	t.Cleanup(func() { _ = doc.Close() })
	return doc
}

func openEmpty(t *testing.T) *Document {
	t.Helper()
	doc, err := Empty()
	if err != nil {
		t.Fatalf("Empty: %v", err)
	}
	t.Cleanup(func() { _ = doc.Close() })
	return doc
}

// must returns v, panicking on err. Only for fixture setup where a failure
// means the test cannot proceed.
func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
