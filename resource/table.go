package resource

import (
	"sync"
)

// Table is a reference-counted handle registry with lifecycle observers.
// Values implementing Dropper are dropped when their last reference is
// released, outside of any table lock, so a Drop may release other handles.
type Table struct {
	backend   *LocalBackend
	observers []Observer
	obsMu     sync.RWMutex
}

// NewTable creates a new table with a LocalBackend.
func NewTable() *Table {
	return &Table{
		backend: NewLocalBackend(),
	}
}

// Insert adds a value with one reference and returns its handle.
// It returns 0 if the backend refuses the value.
func (t *Table) Insert(typeID uint32, value any) Handle {
	handle, err := t.backend.Create(typeID, value)
	if err != nil {
		return 0
	}

	t.notify(Event{
		Type:   EventCreated,
		Handle: handle,
		TypeID: typeID,
		Value:  value,
		Refs:   1,
	})

	return handle
}

// GetTyped retrieves a value only if it matches the expected type.
func (t *Table) GetTyped(handle Handle, typeID uint32) (any, bool) {
	actualTypeID, ok := t.backend.TypeID(handle)
	if !ok || actualTypeID != typeID {
		return nil, false
	}
	return t.backend.Get(handle)
}

// Alive reports whether handle still refers to a live value.
func (t *Table) Alive(handle Handle) bool {
	_, ok := t.backend.TypeID(handle)
	return ok
}

// Retain adds a reference to a live handle.
func (t *Table) Retain(handle Handle) bool {
	refs, ok := t.backend.Retain(handle)
	if !ok {
		return false
	}

	typeID, _ := t.backend.TypeID(handle)
	t.notify(Event{
		Type:   EventRetained,
		Handle: handle,
		TypeID: typeID,
		Refs:   refs,
	})
	return true
}

// Release drops a reference. It reports whether the handle was live.
// The value is dropped when this was the last reference.
func (t *Table) Release(handle Handle) bool {
	typeID, _ := t.backend.TypeID(handle)
	value, refs, ok := t.backend.Release(handle)
	if !ok {
		return false
	}

	if refs > 0 {
		t.notify(Event{
			Type:   EventReleased,
			Handle: handle,
			TypeID: typeID,
			Refs:   refs,
		})
		return true
	}

	if d, ok := value.(Dropper); ok {
		d.Drop()
	}

	t.notify(Event{
		Type:   EventDropped,
		Handle: handle,
		TypeID: typeID,
		Value:  value,
	})
	return true
}

// Refs returns the reference count of a live handle.
func (t *Table) Refs(handle Handle) (int32, bool) {
	return t.backend.Refs(handle)
}

// Subscribe adds an observer for lifecycle events.
func (t *Table) Subscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	t.observers = append(t.observers, o)
}

// Len returns the number of active resources.
func (t *Table) Len() int {
	return t.backend.Len()
}

func (t *Table) notify(e Event) {
	t.obsMu.RLock()
	defer t.obsMu.RUnlock()
	for _, o := range t.observers {
		o.OnResourceEvent(e)
	}
}
