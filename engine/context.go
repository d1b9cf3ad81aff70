package engine

/*
#cgo pkg-config: libqpdf
#include "bridge.h"
*/
import "C"

import (
	"sync"
	"sync/atomic"
	"unsafe"

	"go.uber.org/zap"

	"github.com/wippyai/qpdf-go/errors"
)

// Handle is the engine's reference to one node of a document's object graph.
// Handles are only meaningful together with the Context that issued them.
// Handle 0 is the engine's null handle.
type Handle uint32

var nextContextID atomic.Uint64

// Context owns one engine document. All calls into the engine go through a
// Context method, which holds the context mutex for the duration of the call
// and of the error query that follows it.
type Context struct {
	p   C.qpdf_data
	buf unsafe.Pointer
	id  uint64
	mu  sync.Mutex
}

// New initializes a fresh engine document with warnings and error output
// to stderr suppressed. Warnings are still collected and can be drained.
func New() *Context {
	p := C.qpdf_init()
	C.qpdf_set_suppress_warnings(p, cbool(true))
	C.qpdf_silence_errors(p)

	c := &Context{p: p, id: nextContextID.Add(1)}
	Logger().Debug("engine context created", zap.Uint64("context", c.id))
	return c
}

// ID returns the process-unique context id.
func (c *Context) ID() uint64 {
	return c.id
}

// Close releases the engine document and any input buffer it aliases.
// Calling Close more than once is a no-op.
func (c *Context) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.p == nil {
		return
	}

	p := c.p
	C.qpdf_cleanup(&p)
	c.p = nil

	if c.buf != nil {
		C.free(c.buf)
		c.buf = nil
	}
	Logger().Debug("engine context released", zap.Uint64("context", c.id))
}

// Closed reports whether Close has run.
func (c *Context) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.p == nil
}

// LibraryVersion returns the version string of the linked libqpdf.
func LibraryVersion() string {
	return C.GoString(C.qpdf_get_qpdf_version())
}

// call runs fn under the context lock and translates any error it left.
func call[T any](c *Context, phase errors.Phase, fn func(p C.qpdf_data) T) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	if c.p == nil {
		return zero, errors.Closed(phase, "document")
	}

	v := fn(c.p)
	if err := c.lastError(phase); err != nil {
		return zero, err
	}
	return v, nil
}

// exec is call for engine functions without a useful result.
func exec(c *Context, phase errors.Phase, fn func(p C.qpdf_data)) error {
	_, err := call(c, phase, func(p C.qpdf_data) struct{} {
		fn(p)
		return struct{}{}
	})
	return err
}

// query runs a state query that cannot fail from the caller's point of
// view. A closed context yields the zero value. Any error state the engine
// left behind is consumed so it cannot be attributed to a later call.
func query[T any](c *Context, fn func(p C.qpdf_data) T) T {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	if c.p == nil {
		return zero
	}

	v := fn(c.p)
	c.discardError()
	return v
}

// lockPair locks two contexts in id order. a and b may be the same context.
func lockPair(a, b *Context) func() {
	if a == b {
		a.mu.Lock()
		return a.mu.Unlock
	}
	first, second := a, b
	if second.id < first.id {
		first, second = second, first
	}
	first.mu.Lock()
	second.mu.Lock()
	return func() {
		second.mu.Unlock()
		first.mu.Unlock()
	}
}

func cbool(b bool) C.QPDF_BOOL {
	if b {
		return 1
	}
	return 0
}

// cstring converts s to a C string. Strings containing NUL cannot cross the
// boundary and are rejected.
func cstring(phase errors.Phase, s string) (*C.char, error) {
	for i := 0; i < len(s); i++ {
		if s[i] == 0 {
			return nil, errors.InvalidParameter(phase, "string contains NUL byte at index %d", i)
		}
	}
	return C.CString(s), nil
}

func goString(s *C.char) string {
	if s == nil {
		return ""
	}
	return C.GoString(s)
}
