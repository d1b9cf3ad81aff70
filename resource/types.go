package resource

// Handle is an opaque reference to a resource in a table.
// The low 32 bits select a slot, the high 32 bits carry the slot generation,
// so a handle never resolves to a later occupant of a reused slot.
// Handle 0 is reserved and always invalid.
type Handle uint64

func makeHandle(slot, gen uint32) Handle {
	return Handle(uint64(gen)<<32 | uint64(slot+1))
}

func (h Handle) slot() (uint32, bool) {
	s := uint32(h)
	if s == 0 {
		return 0, false
	}
	return s - 1, true
}

func (h Handle) generation() uint32 {
	return uint32(h >> 32)
}

// Event types for resource lifecycle notifications.
type EventType uint8

const (
	EventCreated EventType = iota
	EventRetained
	EventReleased
	EventDropped
)

func (t EventType) String() string {
	switch t {
	case EventCreated:
		return "created"
	case EventRetained:
		return "retained"
	case EventReleased:
		return "released"
	case EventDropped:
		return "dropped"
	default:
		return "unknown"
	}
}

// Event represents a resource lifecycle event.
type Event struct {
	Value  any
	Handle Handle
	TypeID uint32
	Refs   int32
	Type   EventType
}

// Observer receives notifications about resource lifecycle events.
type Observer interface {
	OnResourceEvent(Event)
}

// Backend provides the underlying storage mechanism for resources.
type Backend interface {
	// Create stores a value with one reference and returns a handle.
	Create(typeID uint32, value any) (Handle, error)

	// Get retrieves a value by handle.
	Get(handle Handle) (any, bool)

	// Retain adds a reference and returns the new count.
	Retain(handle Handle) (int32, bool)

	// Release removes a reference and returns the remaining count. When it
	// reaches zero the entry is invalidated and the value should be dropped.
	Release(handle Handle) (value any, refs int32, ok bool)

	// Close releases all resources held by the backend.
	Close() error
}

// Dropper is optionally implemented by resource values that need cleanup.
type Dropper interface {
	Drop()
}
