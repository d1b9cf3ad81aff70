package resource

import (
	"errors"
	"sync"
	"testing"
)

func TestLocalBackend_Basic(t *testing.T) {
	b := NewLocalBackend()

	handle, err := b.Create(1, "test value")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if handle == 0 {
		t.Fatal("Expected non-zero handle")
	}

	val, ok := b.Get(handle)
	if !ok {
		t.Fatal("Get failed")
	}
	if val != "test value" {
		t.Fatalf("Expected 'test value', got %v", val)
	}

	val, refs, ok := b.Release(handle)
	if !ok || refs != 0 {
		t.Fatalf("Release = (%v, %d, %v), want last reference", val, refs, ok)
	}
	if val != "test value" {
		t.Fatalf("Expected 'test value', got %v", val)
	}

	if _, ok := b.Get(handle); ok {
		t.Fatal("Expected Get to fail after last Release")
	}
}

func TestLocalBackend_StaleHandleAfterReuse(t *testing.T) {
	b := NewLocalBackend()

	first, _ := b.Create(1, "first")
	b.Release(first)

	second, _ := b.Create(1, "second")
	if first == second {
		t.Fatal("reused slot must produce a different handle")
	}
	if uint32(first) != uint32(second) {
		t.Fatalf("expected slot reuse, got slots %d and %d", uint32(first), uint32(second))
	}

	if _, ok := b.Get(first); ok {
		t.Fatal("stale handle resolved to the new occupant")
	}
	if _, ok := b.Retain(first); ok {
		t.Fatal("stale handle retained")
	}
	if v, ok := b.Get(second); !ok || v != "second" {
		t.Fatalf("Get(second) = %v, %v", v, ok)
	}
}

func TestLocalBackend_RetainRelease(t *testing.T) {
	b := NewLocalBackend()
	h, _ := b.Create(1, "x")

	for i := int32(2); i <= 4; i++ {
		refs, ok := b.Retain(h)
		if !ok || refs != i {
			t.Fatalf("Retain = %d, %v; want %d", refs, ok, i)
		}
	}
	for i := int32(3); i >= 1; i-- {
		_, refs, ok := b.Release(h)
		if !ok || refs != i {
			t.Fatalf("Release = %d, %v; want %d", refs, ok, i)
		}
	}
	if _, ok := b.Get(h); !ok {
		t.Fatal("handle should be alive with one reference")
	}
}

func TestLocalBackend_InvalidHandles(t *testing.T) {
	b := NewLocalBackend()

	if _, ok := b.Get(0); ok {
		t.Error("handle 0 must be invalid")
	}
	if _, ok := b.Get(makeHandle(99, 0)); ok {
		t.Error("out of range handle must be invalid")
	}
	if _, _, ok := b.Release(0); ok {
		t.Error("Release(0) must fail")
	}
	if _, ok := b.TypeID(0); ok {
		t.Error("TypeID(0) must fail")
	}
}

func TestLocalBackend_Closed(t *testing.T) {
	b := NewLocalBackend()
	b.Create(1, "a")

	if err := b.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := b.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}

	_, err := b.Create(1, "b")
	if !errors.Is(err, ErrClosed) {
		t.Fatalf("Create after Close = %v, want ErrClosed", err)
	}
	if b.Len() != 0 {
		t.Fatal("Len after Close should be 0")
	}
}

func TestLocalBackend_Concurrent(t *testing.T) {
	b := NewLocalBackend()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				h, err := b.Create(1, j)
				if err != nil {
					t.Error(err)
					return
				}
				b.Retain(h)
				b.Release(h)
				b.Release(h)
			}
		}()
	}
	wg.Wait()

	if b.Len() != 0 {
		t.Fatalf("Len = %d, want 0", b.Len())
	}
}
