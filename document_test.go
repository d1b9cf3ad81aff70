package qpdf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/wippyai/qpdf-go/errors"
)

func TestReadBytes(t *testing.T) {
	doc := openBytes(t, pdfWithPages(t, 2))

	n, err := doc.NumPages()
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("NumPages = %d, want 2", n)
	}
	if doc.Version() == "" {
		t.Error("empty PDF version")
	}
	if doc.IsEncrypted() {
		t.Error("plain fixture reported as encrypted")
	}
	if err := doc.Check(); err != nil {
		t.Errorf("Check: %v", err)
	}
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "two.pdf")
	if err := os.WriteFile(path, pdfWithPages(t, 2), 0o600); err != nil {
		t.Fatal(err)
	}

	doc, err := ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer doc.Close()

	if doc.Description() != path {
		t.Errorf("Description = %q, want %q", doc.Description(), path)
	}
	if n, _ := doc.NumPages(); n != 2 {
		t.Errorf("NumPages = %d, want 2", n)
	}
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "missing.pdf"))
	if !errors.IsKind(err, errors.KindSystem) {
		t.Fatalf("got %v, want KindSystem", err)
	}
}

func TestReadGarbage(t *testing.T) {
	_, err := ReadBytes([]byte("this is not a pdf"), WithDescription("garbage"), WithRecovery(false))
	if err == nil {
		t.Fatal("expected error for garbage input")
	}
	if e, ok := err.(*errors.Error); !ok || e.Detail == "" {
		t.Errorf("error %v has no detail", err)
	}
}

func TestPassword(t *testing.T) {
	data := protectedPDF(t)

	t.Run("missing", func(t *testing.T) {
		doc, err := ReadBytes(data)
		if !errors.IsKind(err, errors.KindInvalidPassword) {
			t.Fatalf("got %v, want KindInvalidPassword", err)
		}
		if doc != nil {
			t.Error("partially initialised document returned")
		}
	})

	t.Run("wrong", func(t *testing.T) {
		_, err := ReadBytes(data, WithPassword("nope"))
		if !errors.IsKind(err, errors.KindInvalidPassword) {
			t.Fatalf("got %v, want KindInvalidPassword", err)
		}
	})

	t.Run("correct", func(t *testing.T) {
		doc := openBytes(t, data, WithPassword("user"))
		if !doc.IsEncrypted() {
			t.Error("IsEncrypted = false")
		}
		if n, _ := doc.NumPages(); n != 1 {
			t.Errorf("NumPages = %d, want 1", n)
		}
		if !doc.Permissions().PrintLowRes {
			t.Error("print permission missing")
		}
	})
}

func TestDoublePagesAndRemove(t *testing.T) {
	doc := openBytes(t, pdfWithPages(t, 2))

	pages := must(doc.Pages())
	for _, p := range pages {
		if err := doc.AddPage(p, false); err != nil {
			t.Fatal(err)
		}
	}

	out := must(doc.Writer().WriteToMemory())
	saved := openBytes(t, out)
	if n, _ := saved.NumPages(); n != 4 {
		t.Fatalf("reloaded NumPages = %d, want 4", n)
	}

	for _, p := range must(saved.Pages()) {
		if err := saved.RemovePage(p); err != nil {
			t.Fatal(err)
		}
	}
	if n, _ := saved.NumPages(); n != 0 {
		t.Fatalf("NumPages after removing all = %d, want 0", n)
	}
}

func TestPageLookup(t *testing.T) {
	doc := openBytes(t, pdfWithPages(t, 3))

	if _, ok := doc.Page(3); ok {
		t.Error("Page(3) of 3 should be absent")
	}
	if _, ok := doc.Page(-1); ok {
		t.Error("Page(-1) should be absent")
	}

	p, ok := doc.Page(1)
	if !ok {
		t.Fatal("Page(1) missing")
	}
	if i, ok := doc.FindPage(p); !ok || i != 1 {
		t.Errorf("FindPage = %d, %v, want 1, true", i, ok)
	}

	typ, ok := p.Get("/Type")
	if !ok || typ.AsName() != "/Page" {
		t.Errorf("page /Type = %v", typ)
	}

	content := must(p.GetPageContentData())
	if content.Len() == 0 {
		t.Error("empty page content")
	}
}

func TestAddPageAt(t *testing.T) {
	doc := openBytes(t, pdfWithPages(t, 2))
	first, _ := doc.Page(0)
	last, _ := doc.Page(1)

	if err := doc.AddPageAt(last, true, first); err != nil {
		t.Fatal(err)
	}
	if n, _ := doc.NumPages(); n != 3 {
		t.Fatalf("NumPages = %d, want 3", n)
	}

	other := openEmpty(t)
	if err := doc.AddPageAt(last, true, must(other.NewDictionary())); !errors.IsKind(err, errors.KindForeignObject) {
		t.Errorf("foreign reference page: got %v, want KindForeignObject", err)
	}
}

func TestTrailerAndRoot(t *testing.T) {
	doc := openBytes(t, pdfWithPages(t, 1))

	trailer, ok := doc.Trailer()
	if !ok {
		t.Fatal("no trailer")
	}
	if !trailer.Has("Root") {
		t.Error("trailer has no /Root")
	}

	root, ok := doc.Root()
	if !ok {
		t.Fatal("no root")
	}
	typ, ok := root.Get("Type")
	if !ok || typ.AsName() != "/Catalog" {
		t.Errorf("root /Type = %v", typ)
	}
	if !root.IsIndirect() {
		t.Error("catalog should be indirect")
	}

	again, ok := doc.ObjectByID(root.ID(), root.Generation())
	if !ok {
		t.Fatal("ObjectByID(root) missing")
	}
	if !again.Equal(root.Object()) {
		t.Error("ObjectByID result not equal to root")
	}

	if _, ok := doc.ObjectByID(99999, 0); ok {
		t.Error("ObjectByID(99999) should be absent")
	}
}

func TestReplaceObject(t *testing.T) {
	doc := openEmpty(t)

	ind := must(must(doc.NewInteger(1)).MakeIndirect())
	if err := doc.ReplaceObject(ind.ID(), ind.Generation(), must(doc.NewInteger(42))); err != nil {
		t.Fatal(err)
	}
	got, ok := doc.ObjectByID(ind.ID(), ind.Generation())
	if !ok {
		t.Fatal("replaced object missing")
	}
	if v, _ := got.Int64(); v != 42 {
		t.Errorf("replaced value = %d, want 42", v)
	}
}

func TestInfoKeys(t *testing.T) {
	doc := openBytes(t, pdfWithPages(t, 1))

	if err := doc.SetInfoKey("Title", "Quarterly report"); err != nil {
		t.Fatal(err)
	}
	got, ok := doc.InfoKey("/Title")
	if !ok || got != "Quarterly report" {
		t.Errorf("InfoKey = %q, %v", got, ok)
	}
	if _, ok := doc.InfoKey("NoSuchKey"); ok {
		t.Error("missing info key reported present")
	}
}

func TestParseObjectInvalid(t *testing.T) {
	doc := openEmpty(t)

	_, err := doc.ParseObject("<< /A 1 /B [ 1 2 >>")
	if err == nil {
		t.Fatal("expected error for unbalanced dictionary")
	}
	if errors.KindOf(err) == "" {
		t.Errorf("error %v has no kind", err)
	}
	if err.Error() == "" {
		t.Error("empty error description")
	}
}

func TestClose(t *testing.T) {
	doc, err := Empty()
	if err != nil {
		t.Fatal(err)
	}
	obj := must(doc.NewInteger(5))
	h := doc.handle

	if err := doc.Close(); err != nil {
		t.Fatal(err)
	}
	if err := doc.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if registry.Alive(h) {
		t.Error("registry entry survived Close")
	}

	if _, err := doc.NumPages(); !errors.IsKind(err, errors.KindClosed) {
		t.Errorf("NumPages after Close: got %v, want KindClosed", err)
	}
	if _, err := obj.Clone(); !errors.IsKind(err, errors.KindClosed) {
		t.Errorf("Clone after Close: got %v, want KindClosed", err)
	}
	if obj.AsInt64() != 0 {
		t.Error("query on closed document should return zero")
	}
	obj.Release()
}

func TestWarningsDrain(t *testing.T) {
	data := damagedPDF(t)

	if _, err := ReadBytes(data, WithRecovery(false)); err == nil {
		t.Error("damaged input read without recovery")
	}

	doc := openBytes(t, data, WithRecovery(true))
	if !doc.MoreWarnings() {
		t.Fatal("recovered read reported no warnings")
	}
	warnings := doc.Warnings()
	if len(warnings) == 0 {
		t.Fatal("Warnings returned nothing")
	}
	for _, w := range warnings {
		if w.Phase != errors.PhaseWarning {
			t.Errorf("warning phase = %s, want %s", w.Phase, errors.PhaseWarning)
		}
		if w.Detail == "" {
			t.Error("warning without detail")
		}
	}
	if doc.MoreWarnings() {
		t.Error("warnings left after drain")
	}

	if n, err := doc.NumPages(); err != nil || n != 1 {
		t.Errorf("NumPages = %d, %v, want 1", n, err)
	}
}

func TestPasswordEncodings(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", []string{""}},
		{"ascii", "secret", []string{"secret"}},
		{"latin-1", "café", []string{"café", "caf\xe9"}},
		{"decomposed", "cafe\u0301", []string{"cafe\u0301", "café"}},
		{"cyrillic", "ключ", []string{"ключ"}},
		{"compatibility", "\ufb01", []string{"\ufb01", "fi"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, passwordEncodings(tt.in)); diff != "" {
				t.Errorf("passwordEncodings(%q) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}
