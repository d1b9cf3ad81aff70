package qpdf

import (
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/qpdf-go/errors"
	"github.com/wippyai/qpdf-go/resource"
)

// foreignSet is the set of source documents a target document keeps alive.
// Each member holds one registry reference on its source.
//
// Members are only released when the target is destroyed. Removing a page
// does not drop its source: the engine keeps removed pages, and stream data
// it copies lazily from the source, in the target's object table until the
// target is written or destroyed.
type foreignSet struct {
	mu      sync.Mutex
	sources map[resource.Handle]struct{}
	dropped bool
}

func newForeignSet() *foreignSet {
	return &foreignSet{sources: make(map[resource.Handle]struct{})}
}

// retain adds src to the set. Adding a source twice is a no-op.
func (f *foreignSet) retain(src *Document) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.dropped {
		return errors.Closed(errors.PhaseLifecycle, "document")
	}
	if _, ok := f.sources[src.handle]; ok {
		return nil
	}
	if src.closed.Load() || !registry.Retain(src.handle) {
		return errors.Closed(errors.PhaseLifecycle, "source document")
	}
	f.sources[src.handle] = struct{}{}

	Logger().Debug("foreign document retained",
		zap.Uint64("source", src.state.ctx.ID()),
		zap.String("description", src.desc),
		zap.Int("foreign", len(f.sources)))
	return nil
}

func (f *foreignSet) contains(src *Document) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.sources[src.handle]
	return ok
}

func (f *foreignSet) len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sources)
}

// releaseAll drops every member and refuses further retains. Registry
// releases happen after the set lock is gone since they may cascade into
// other documents.
func (f *foreignSet) releaseAll() int {
	f.mu.Lock()
	handles := make([]resource.Handle, 0, len(f.sources))
	for h := range f.sources {
		handles = append(handles, h)
	}
	f.sources = nil
	f.dropped = true
	f.mu.Unlock()

	for _, h := range handles {
		registry.Release(h)
	}
	return len(handles)
}
