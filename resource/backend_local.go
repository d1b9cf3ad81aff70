package resource

import (
	"errors"
	"sync"
)

var ErrClosed = errors.New("resource backend closed")

// LocalBackend is an in-memory resource backend with reference counting.
type LocalBackend struct {
	entries  []entry
	freeList []uint32
	mu       sync.RWMutex
	closed   bool
}

type entry struct {
	value  any
	typeID uint32
	gen    uint32
	refs   int32
	valid  bool
}

// NewLocalBackend creates a new in-memory backend.
func NewLocalBackend() *LocalBackend {
	return &LocalBackend{
		entries:  make([]entry, 0, 64),
		freeList: make([]uint32, 0, 16),
	}
}

// lookup returns the live entry for handle. Caller holds mu.
func (b *LocalBackend) lookup(handle Handle) *entry {
	slot, ok := handle.slot()
	if !ok || int(slot) >= len(b.entries) {
		return nil
	}
	e := &b.entries[slot]
	if !e.valid || e.gen != handle.generation() {
		return nil
	}
	return e
}

// Create stores a value and returns a handle.
func (b *LocalBackend) Create(typeID uint32, value any) (Handle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return 0, ErrClosed
	}

	if len(b.freeList) > 0 {
		slot := b.freeList[len(b.freeList)-1]
		b.freeList = b.freeList[:len(b.freeList)-1]
		e := &b.entries[slot]
		e.gen++
		e.typeID = typeID
		e.value = value
		e.refs = 1
		e.valid = true
		return makeHandle(slot, e.gen), nil
	}

	b.entries = append(b.entries, entry{
		typeID: typeID,
		value:  value,
		refs:   1,
		valid:  true,
	})
	return makeHandle(uint32(len(b.entries)-1), 0), nil
}

// Get retrieves a value by handle.
func (b *LocalBackend) Get(handle Handle) (any, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	e := b.lookup(handle)
	if e == nil {
		return nil, false
	}
	return e.value, true
}

// Retain increments the reference count for a handle.
func (b *LocalBackend) Retain(handle Handle) (int32, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	e := b.lookup(handle)
	if e == nil {
		return 0, false
	}
	e.refs++
	return e.refs, true
}

// Release decrements the reference count and invalidates the entry at zero.
func (b *LocalBackend) Release(handle Handle) (any, int32, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	e := b.lookup(handle)
	if e == nil {
		return nil, 0, false
	}

	e.refs--
	if e.refs > 0 {
		return e.value, e.refs, true
	}

	value := e.value
	slot, _ := handle.slot()
	e.valid = false
	e.value = nil
	e.refs = 0
	b.freeList = append(b.freeList, slot)

	return value, 0, true
}

// Refs returns the current reference count for a handle.
func (b *LocalBackend) Refs(handle Handle) (int32, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	e := b.lookup(handle)
	if e == nil {
		return 0, false
	}
	return e.refs, true
}

// TypeID returns the type ID for a handle.
func (b *LocalBackend) TypeID(handle Handle) (uint32, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	e := b.lookup(handle)
	if e == nil {
		return 0, false
	}
	return e.typeID, true
}

// Close invalidates every entry and returns the values that were still live.
// Dropping them is left to the caller so no destructor runs under mu.
func (b *LocalBackend) Close() error {
	_ = b.drain()
	return nil
}

func (b *LocalBackend) drain() []any {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	var live []any
	for i := range b.entries {
		if b.entries[i].valid {
			live = append(live, b.entries[i].value)
			b.entries[i].valid = false
			b.entries[i].value = nil
		}
	}

	b.entries = nil
	b.freeList = nil
	return live
}

// Len returns the number of active resources.
func (b *LocalBackend) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	count := 0
	for _, e := range b.entries {
		if e.valid {
			count++
		}
	}
	return count
}

var _ Backend = (*LocalBackend)(nil)
