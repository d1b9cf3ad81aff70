package qpdf

import (
	"testing"

	"github.com/wippyai/qpdf-go/errors"
)

func TestCopyPageOutlivesSource(t *testing.T) {
	src, err := ReadBytes(pdfWithPages(t, 2), WithDescription("source"))
	if err != nil {
		t.Fatal(err)
	}
	srcHandle := src.handle
	dst := openEmpty(t)

	for _, p := range must(src.Pages()) {
		if err := dst.AddPage(p, false); err != nil {
			t.Fatal(err)
		}
	}
	if dst.ForeignDocuments() != 1 {
		t.Errorf("ForeignDocuments = %d, want 1", dst.ForeignDocuments())
	}
	if !dst.state.foreign.contains(src) {
		t.Error("source missing from the foreign set")
	}
	if src.state.foreign.contains(dst) {
		t.Error("foreign tracking is not one-directional")
	}

	if err := src.Close(); err != nil {
		t.Fatal(err)
	}
	if !registry.Alive(srcHandle) {
		t.Fatal("source destroyed while a copy still references it")
	}
	if _, err := src.NumPages(); !errors.IsKind(err, errors.KindClosed) {
		t.Errorf("closed source: got %v, want KindClosed", err)
	}

	out := must(dst.Writer().WriteToMemory())
	saved := openBytes(t, out)
	if n, _ := saved.NumPages(); n != 2 {
		t.Errorf("written NumPages = %d, want 2", n)
	}

	if err := dst.Close(); err != nil {
		t.Fatal(err)
	}
	if registry.Alive(srcHandle) {
		t.Error("source survived destruction of the only document referencing it")
	}
}

func TestCopyForeignObject(t *testing.T) {
	src := openEmpty(t)
	dst := openEmpty(t)

	dict := must(src.NewDictionaryFrom(map[string]*Object{
		"N": must(src.NewInteger(5)),
	}))
	ind := must(dict.MakeIndirect())

	cp, err := dst.CopyForeign(ind.Object())
	if err != nil {
		t.Fatal(err)
	}
	if cp.Document() != dst {
		t.Fatal("copy belongs to the wrong document")
	}
	copied := must(cp.AsDictionary())
	n, ok := copied.Get("N")
	if !ok {
		t.Fatal("/N missing from copy")
	}
	if v, _ := n.Int64(); v != 5 {
		t.Errorf("/N = %d", v)
	}

	// Repeated copies from the same source share one foreign entry.
	if _, err := dst.CopyForeign(ind.Object()); err != nil {
		t.Fatal(err)
	}
	if dst.ForeignDocuments() != 1 {
		t.Errorf("ForeignDocuments = %d, want 1", dst.ForeignDocuments())
	}
}

func TestCopyForeignOwnObject(t *testing.T) {
	doc := openEmpty(t)
	o := must(must(doc.NewInteger(1)).MakeIndirect())

	cp, err := doc.CopyForeign(o)
	if err != nil {
		t.Fatal(err)
	}
	if !cp.Equal(o) {
		t.Error("copy of an owned object should be the same node")
	}
	if doc.ForeignDocuments() != 0 {
		t.Error("copying an owned object registered a foreign source")
	}
}

func TestCopyForeignClosedSource(t *testing.T) {
	src, err := Empty()
	if err != nil {
		t.Fatal(err)
	}
	o := must(src.NewInteger(1))
	_ = src.Close()

	dst := openEmpty(t)
	if _, err := dst.CopyForeign(o); !errors.IsKind(err, errors.KindClosed) {
		t.Errorf("got %v, want KindClosed", err)
	}
	if dst.ForeignDocuments() != 0 {
		t.Error("failed copy registered a foreign source")
	}
}

func TestForeignPageOnRemove(t *testing.T) {
	src := openBytes(t, pdfWithPages(t, 1))
	dst := openEmpty(t)

	page, _ := src.Page(0)
	if err := dst.AddPage(page, true); err != nil {
		t.Fatal(err)
	}
	added, ok := dst.Page(0)
	if !ok {
		t.Fatal("added page missing")
	}
	if err := dst.RemovePage(added); err != nil {
		t.Fatal(err)
	}
	if dst.ForeignDocuments() != 1 {
		t.Errorf("RemovePage released the foreign source early")
	}

	// A page of src is not a page of dst.
	if err := dst.RemovePage(page); !errors.IsKind(err, errors.KindForeignObject) {
		t.Errorf("got %v, want KindForeignObject", err)
	}
	if _, ok := dst.FindPage(page); ok {
		t.Error("FindPage located a foreign page")
	}
}

func TestLiveDocuments(t *testing.T) {
	before := LiveDocuments()
	a, err := Empty()
	if err != nil {
		t.Fatal(err)
	}
	b, err := Empty()
	if err != nil {
		t.Fatal(err)
	}
	if got := LiveDocuments(); got != before+2 {
		t.Errorf("LiveDocuments = %d, want %d", got, before+2)
	}
	_ = a.Close()
	_ = b.Close()
	if got := LiveDocuments(); got != before {
		t.Errorf("LiveDocuments after Close = %d, want %d", got, before)
	}
}

func TestForeignCycle(t *testing.T) {
	a, err := Empty()
	if err != nil {
		t.Fatal(err)
	}
	b, err := Empty()
	if err != nil {
		t.Fatal(err)
	}
	ah, bh := a.handle, b.handle

	fromA := must(must(a.NewInteger(1)).MakeIndirect())
	fromB := must(must(b.NewInteger(2)).MakeIndirect())
	must(a.CopyForeign(fromB))
	must(b.CopyForeign(fromA))

	_ = a.Close()
	_ = b.Close()

	// Mutual foreign sets are not collected.
	if !registry.Alive(ah) || !registry.Alive(bh) {
		t.Fatal("cycle was collected")
	}

	// Breaking one edge releases both.
	a.state.foreign.releaseAll()
	if registry.Alive(ah) || registry.Alive(bh) {
		t.Error("documents survived after the cycle was broken")
	}
}
