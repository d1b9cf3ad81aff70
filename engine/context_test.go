package engine

import (
	"bytes"
	stderrors "errors"
	"sync"
	"testing"

	"github.com/wippyai/qpdf-go/errors"
)

func newEmpty(t *testing.T) *Context {
	t.Helper()
	c := New()
	if err := c.EmptyPDF(); err != nil {
		t.Fatalf("EmptyPDF: %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		code Code
		want errors.Kind
	}{
		{CodeInternal, errors.KindInternal},
		{CodeSystem, errors.KindSystem},
		{CodeUnsupported, errors.KindUnsupported},
		{CodePassword, errors.KindInvalidPassword},
		{CodeDamagedPDF, errors.KindDamagedPDF},
		{CodePages, errors.KindPages},
		{CodeObject, errors.KindObject},
		{CodeSuccess, errors.KindUnknown},
		{Code(9999), errors.KindUnknown},
	}

	for _, tt := range tests {
		t.Run(string(tt.want), func(t *testing.T) {
			if got := KindOf(tt.code); got != tt.want {
				t.Errorf("KindOf(%d) = %s, want %s", tt.code, got, tt.want)
			}
		})
	}
}

func TestContextClose(t *testing.T) {
	c := New()
	if c.Closed() {
		t.Fatal("new context reports closed")
	}
	c.Close()
	c.Close()
	if !c.Closed() {
		t.Fatal("context not closed after Close")
	}

	if _, err := c.NewNull(); !errors.IsKind(err, errors.KindClosed) {
		t.Errorf("NewNull on closed context: got %v, want KindClosed", err)
	}
	if got := c.TypeCode(1); got != 0 {
		t.Errorf("TypeCode on closed context = %d, want zero value", got)
	}
	if c.Version() != "" {
		t.Error("Version on closed context should be empty")
	}
	c.Release(1)
}

func TestContextIDsUnique(t *testing.T) {
	a, b := New(), New()
	defer a.Close()
	defer b.Close()
	if a.ID() == b.ID() {
		t.Fatalf("contexts share id %d", a.ID())
	}
}

func TestLibraryVersion(t *testing.T) {
	if LibraryVersion() == "" {
		t.Fatal("empty library version")
	}
}

func TestParseError(t *testing.T) {
	c := newEmpty(t)

	_, err := c.Parse("<< /A 1 ")
	if err == nil {
		t.Fatal("expected parse error")
	}
	var e *errors.Error
	if !stderrors.As(err, &e) {
		t.Fatalf("error type %T, want *errors.Error", err)
	}
	if e.Phase != errors.PhaseParse {
		t.Errorf("phase = %s, want %s", e.Phase, errors.PhaseParse)
	}
	if e.Detail == "" {
		t.Error("parse error has empty detail")
	}

	// The error was consumed; the next call starts clean.
	h, err := c.Parse("<< /A 1 >>")
	if err != nil {
		t.Fatalf("Parse after error: %v", err)
	}
	if c.TypeCode(h) != TypeDictionary {
		t.Errorf("TypeCode = %d, want dictionary", c.TypeCode(h))
	}
}

func TestStringWithNUL(t *testing.T) {
	c := newEmpty(t)
	if _, err := c.NewName("/a\x00b"); !errors.IsKind(err, errors.KindInvalidParameter) {
		t.Fatalf("got %v, want KindInvalidParameter", err)
	}
}

func TestScalars(t *testing.T) {
	c := newEmpty(t)

	i, err := c.NewInteger(1234567890)
	if err != nil {
		t.Fatal(err)
	}
	if got := c.Unparse(i); got != "1234567890" {
		t.Errorf("Unparse(int) = %q", got)
	}
	if got := c.IntValue(i); got != 1234567890 {
		t.Errorf("IntValue = %d", got)
	}

	r, err := c.NewRealFromDouble(1.2345, 3)
	if err != nil {
		t.Fatal(err)
	}
	if got := c.Unparse(r); got != "1.234" {
		t.Errorf("Unparse(real) = %q, want 1.234", got)
	}

	b, err := c.NewBinaryString([]byte{1, 2, 3, 4})
	if err != nil {
		t.Fatal(err)
	}
	if got := c.Unparse(b); got != "<01020304>" {
		t.Errorf("Unparse(binary) = %q", got)
	}
	if got := c.BinaryStringValue(b); !bytes.Equal(got, []byte{1, 2, 3, 4}) {
		t.Errorf("BinaryStringValue = %v", got)
	}

	// Unchecked coercion on the wrong type yields the default.
	if got := c.IntValue(b); got != 0 {
		t.Errorf("IntValue(string) = %d, want 0", got)
	}
}

func TestDictionaryKeys(t *testing.T) {
	c := newEmpty(t)

	d, err := c.Parse("<< /B 2 /A 1 /C (x) >>")
	if err != nil {
		t.Fatal(err)
	}
	keys, err := c.Keys(d)
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 3 {
		t.Fatalf("Keys = %v, want 3 entries", keys)
	}
	if !c.HasKey(d, "/C") || c.HasKey(d, "/D") {
		t.Error("HasKey mismatch")
	}
	if err := c.RemoveKey(d, "/C"); err != nil {
		t.Fatal(err)
	}
	if c.HasKey(d, "/C") {
		t.Error("key still present after RemoveKey")
	}
}

func TestArrayOps(t *testing.T) {
	c := newEmpty(t)

	a, err := c.NewArray()
	if err != nil {
		t.Fatal(err)
	}
	for _, v := range []int64{1, 2, 3} {
		h, err := c.NewInteger(v)
		if err != nil {
			t.Fatal(err)
		}
		if err := c.AppendItem(a, h); err != nil {
			t.Fatal(err)
		}
	}
	if n := c.ArrayLen(a); n != 3 {
		t.Fatalf("ArrayLen = %d, want 3", n)
	}
	if err := c.EraseItem(a, 0); err != nil {
		t.Fatal(err)
	}
	if got := c.Unparse(a); got != "[ 2 3 ]" {
		t.Errorf("Unparse = %q, want [ 2 3 ]", got)
	}
}

func TestStreamData(t *testing.T) {
	c := newEmpty(t)

	s, err := c.NewStream()
	if err != nil {
		t.Fatal(err)
	}
	null, _ := c.NewNull()
	want := []byte("BT /F1 12 Tf ET")
	if err := c.ReplaceStreamData(s, want, null, null); err != nil {
		t.Fatal(err)
	}

	got, filtered, err := c.StreamData(s, DecodeAll)
	if err != nil {
		t.Fatal(err)
	}
	if !filtered {
		t.Error("unfiltered stream should report filtered=true")
	}
	if !bytes.Equal(got, want) {
		t.Errorf("StreamData = %q, want %q", got, want)
	}

	dict, err := c.StreamDict(s)
	if err != nil {
		t.Fatal(err)
	}
	if c.TypeCode(dict) != TypeDictionary {
		t.Error("stream dictionary has wrong type")
	}
}

func TestWriteMemory(t *testing.T) {
	c := newEmpty(t)

	yes := true
	out, err := c.WriteMemory(&WriteOptions{StaticID: &yes, ForceVersion: "1.6"})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF-1.6")) {
		t.Errorf("output header %q", out[:min(len(out), 8)])
	}

	back := New()
	defer back.Close()
	if err := back.ReadMemory("roundtrip", out, ""); err != nil {
		t.Fatal(err)
	}
	if v := back.Version(); v != "1.6" {
		t.Errorf("Version = %q, want 1.6", v)
	}
}

func TestWriteRejectsRevision(t *testing.T) {
	c := newEmpty(t)
	_, err := c.WriteMemory(&WriteOptions{Encryption: &Encryption{Revision: 5}})
	if !errors.IsKind(err, errors.KindInvalidParameter) {
		t.Fatalf("got %v, want KindInvalidParameter", err)
	}
}

func TestCopyForeignClosedSource(t *testing.T) {
	dst := newEmpty(t)
	src := New()
	if err := src.EmptyPDF(); err != nil {
		t.Fatal(err)
	}
	h, err := src.NewInteger(7)
	if err != nil {
		t.Fatal(err)
	}
	src.Close()

	if _, err := dst.CopyForeign(src, h); !errors.IsKind(err, errors.KindClosed) {
		t.Fatalf("got %v, want KindClosed", err)
	}
}

func TestConcurrentCalls(t *testing.T) {
	c := newEmpty(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int64) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				h, err := c.NewInteger(n)
				if err != nil {
					t.Error(err)
					return
				}
				if got := c.IntValue(h); got != n {
					t.Errorf("IntValue = %d, want %d", got, n)
				}
				c.Release(h)
			}
		}(int64(i))
	}
	wg.Wait()
}
