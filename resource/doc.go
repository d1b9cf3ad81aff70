// Package resource provides reference-counted handle management.
//
// Handles are opaque integers standing for host-side values whose lifetime
// is shared between several owners. The qpdf package registers every open
// engine document here; objects validate their owning document against the
// table before each engine call, so a handle to a destroyed document can
// never reach the engine.
//
// # Handle Table
//
// The Table maps handles to Go values:
//
//	table := resource.NewTable()
//
//	// Insert a value with one reference, get a handle
//	handle := table.Insert(typeID, myValue)
//
//	// Retrieve value by handle, checking its type
//	value, ok := table.GetTyped(handle, typeID)
//
//	// Share and give up ownership
//	table.Retain(handle)
//	table.Release(handle)
//	table.Release(handle) // last reference: myValue.Drop() runs
//
// # Generations
//
// Slots are reused, but each reuse bumps the slot generation that is part
// of the handle. A stale handle therefore fails lookup instead of resolving
// to whatever value took its slot.
//
// # Observers
//
// Register observers to track resource lifecycle events:
//
//	table.Subscribe(observer)
//
// Observers see EventCreated, EventRetained, EventReleased and EventDropped.
package resource
