package qpdf

import (
	"runtime"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"

	"github.com/wippyai/qpdf-go/engine"
	"github.com/wippyai/qpdf-go/errors"
	"github.com/wippyai/qpdf-go/resource"
)

// documentType is the registry type id of document state.
const documentType uint32 = 1

// registry holds the engine state of every live document. A document's
// entry is referenced by its caller (until Close) and by every other
// document whose foreign set contains it.
var registry = resource.NewTable()

func init() {
	registry.Subscribe(registryLog{})
}

// registryLog traces document reference counting at debug level.
type registryLog struct{}

func (registryLog) OnResourceEvent(e resource.Event) {
	if e.TypeID != documentType {
		return
	}
	Logger().Debug("document registry",
		zap.Stringer("event", e.Type),
		zap.Uint64("handle", uint64(e.Handle)),
		zap.Int32("refs", e.Refs))
}

// LiveDocuments reports how many documents still hold engine state,
// including closed documents kept alive by a foreign set.
func LiveDocuments() int {
	return registry.Len()
}

// LibraryVersion returns the version of the linked libqpdf.
func LibraryVersion() string {
	return engine.LibraryVersion()
}

// documentState is the registry value. Dropping it destroys the engine
// context and then releases the documents it kept alive.
type documentState struct {
	ctx     *engine.Context
	foreign *foreignSet
}

func (s *documentState) Drop() {
	id := s.ctx.ID()
	s.ctx.Close()
	n := s.foreign.releaseAll()
	Logger().Debug("document destroyed",
		zap.Uint64("context", id),
		zap.Int("foreign_released", n))
}

// Document is an open PDF document.
type Document struct {
	state   *documentState
	handle  resource.Handle
	desc    string
	closed  atomic.Bool
	once    sync.Once
	cleanup runtime.Cleanup
}

type readConfig struct {
	password          string
	description       string
	recovery          *bool
	ignoreXRefStreams *bool
}

// ReadOption configures how a document is read.
type ReadOption func(*readConfig)

// WithPassword supplies the user or owner password of an encrypted document.
func WithPassword(password string) ReadOption {
	return func(c *readConfig) { c.password = password }
}

// WithRecovery toggles reconstruction of damaged cross-reference data.
// The engine attempts recovery by default.
func WithRecovery(on bool) ReadOption {
	return func(c *readConfig) { c.recovery = &on }
}

// WithIgnoreXRefStreams makes the reader ignore cross-reference streams.
func WithIgnoreXRefStreams(on bool) ReadOption {
	return func(c *readConfig) { c.ignoreXRefStreams = &on }
}

// WithDescription names an in-memory document in error messages.
func WithDescription(desc string) ReadOption {
	return func(c *readConfig) { c.description = desc }
}

// ReadFile opens the PDF at path.
func ReadFile(path string, opts ...ReadOption) (*Document, error) {
	cfg := readConfig{description: path}
	for _, o := range opts {
		o(&cfg)
	}
	return open(cfg, func(ctx *engine.Context, password string) error {
		return ctx.ReadFile(path, password)
	})
}

// ReadBytes opens a PDF held in memory. buf is copied; the caller may reuse
// it once ReadBytes returns.
func ReadBytes(buf []byte, opts ...ReadOption) (*Document, error) {
	cfg := readConfig{description: "memory"}
	for _, o := range opts {
		o(&cfg)
	}
	return open(cfg, func(ctx *engine.Context, password string) error {
		return ctx.ReadMemory(cfg.description, buf, password)
	})
}

// Empty creates a document with no pages.
func Empty() (*Document, error) {
	return open(readConfig{description: "empty"}, func(ctx *engine.Context, _ string) error {
		return ctx.EmptyPDF()
	})
}

// open runs read on a fresh context. On failure the context is destroyed
// before returning, so no document is ever handed out half initialised.
// A rejected password is retried in each of its alternative encodings,
// every attempt on a new context.
func open(cfg readConfig, read func(*engine.Context, string) error) (*Document, error) {
	var (
		ctx *engine.Context
		err error
	)
	for _, pw := range passwordEncodings(cfg.password) {
		ctx = engine.New()
		if cfg.recovery != nil {
			ctx.SetAttemptRecovery(*cfg.recovery)
		}
		if cfg.ignoreXRefStreams != nil {
			ctx.SetIgnoreXRefStreams(*cfg.ignoreXRefStreams)
		}
		if err = read(ctx, pw); err == nil {
			break
		}
		ctx.Close()
		if !errors.IsKind(err, errors.KindInvalidPassword) {
			return nil, err
		}
	}
	if err != nil {
		return nil, err
	}

	state := &documentState{ctx: ctx, foreign: newForeignSet()}
	h := registry.Insert(documentType, state)
	if h == 0 {
		ctx.Close()
		return nil, errors.Closed(errors.PhaseLifecycle, "document registry")
	}

	d := &Document{state: state, handle: h, desc: cfg.description}
	d.cleanup = runtime.AddCleanup(d, reclaimDocument, documentRef{handle: h, desc: cfg.description})

	Logger().Debug("document opened",
		zap.Uint64("context", ctx.ID()),
		zap.String("description", cfg.description))
	return d, nil
}

// passwordEncodings lists the byte strings a password may have been
// encrypted with: UTF-8 as given, NFKC normalized for AES-256, and Latin-1
// for the RC4-era handlers. Duplicates are dropped.
func passwordEncodings(pw string) []string {
	out := []string{pw}
	add := func(s string) {
		for _, have := range out {
			if have == s {
				return
			}
		}
		out = append(out, s)
	}
	add(norm.NFKC.String(pw))
	if s, err := charmap.ISO8859_1.NewEncoder().String(pw); err == nil {
		add(s)
	}
	return out
}

type documentRef struct {
	handle resource.Handle
	desc   string
}

func reclaimDocument(ref documentRef) {
	Logger().Warn("document reclaimed without Close", zap.String("description", ref.desc))
	registry.Release(ref.handle)
}

// Close releases the caller's reference to the document. Engine state is
// destroyed once no other document references it. Objects of a closed
// document fail with KindClosed. Close is idempotent.
func (d *Document) Close() error {
	d.once.Do(func() {
		d.closed.Store(true)
		d.cleanup.Stop()
		if refs, ok := registry.Refs(d.handle); ok && refs > 1 {
			Logger().Debug("document closed while referenced",
				zap.String("description", d.desc),
				zap.Int("holders", int(refs-1)))
		}
		registry.Release(d.handle)
	})
	return nil
}

// Description is the path or description the document was read from.
func (d *Document) Description() string {
	return d.desc
}

// context returns the engine context after checking the document is open.
//
// Callers must keep d reachable until their last engine call returns, or
// the cleanup of a forgotten document may destroy the context mid-call.
func (d *Document) context(phase errors.Phase) (*engine.Context, error) {
	if d.closed.Load() {
		return nil, errors.Closed(phase, "document")
	}
	v, ok := registry.GetTyped(d.handle, documentType)
	if !ok {
		return nil, errors.Closed(phase, "document")
	}
	return v.(*documentState).ctx, nil
}

// inspect runs an infallible query. A closed document yields the zero value.
func inspect[T any](d *Document, fn func(*engine.Context) T) T {
	defer runtime.KeepAlive(d)
	ctx, err := d.context(errors.PhaseObject)
	if err != nil {
		var zero T
		return zero
	}
	return fn(ctx)
}

// owns reports whether o belongs to d.
func (d *Document) owns(o *Object) bool {
	return o != nil && o.doc == d
}

// Check runs the engine's structural validation over the whole document.
func (d *Document) Check() error {
	defer runtime.KeepAlive(d)
	ctx, err := d.context(errors.PhaseCheck)
	if err != nil {
		return err
	}
	return ctx.Check()
}

// EnableRecovery toggles damaged-file recovery for later engine reads.
func (d *Document) EnableRecovery(on bool) {
	defer runtime.KeepAlive(d)
	if ctx, err := d.context(errors.PhaseRead); err == nil {
		ctx.SetAttemptRecovery(on)
	}
}

// IgnoreXRefStreams toggles cross-reference stream handling for later
// engine reads.
func (d *Document) IgnoreXRefStreams(on bool) {
	defer runtime.KeepAlive(d)
	if ctx, err := d.context(errors.PhaseRead); err == nil {
		ctx.SetIgnoreXRefStreams(on)
	}
}

// Version returns the PDF version of the input, e.g. "1.7".
func (d *Document) Version() string {
	return inspect(d, (*engine.Context).Version)
}

// ExtensionLevel returns the Adobe extension level of the input.
func (d *Document) ExtensionLevel() int {
	return inspect(d, (*engine.Context).ExtensionLevel)
}

func (d *Document) IsLinearized() bool {
	return inspect(d, (*engine.Context).IsLinearized)
}

func (d *Document) IsEncrypted() bool {
	return inspect(d, (*engine.Context).IsEncrypted)
}

// Permissions is the set of operations an encrypted document allows.
type Permissions = engine.Permissions

// Permissions reports what the document's encryption allows. Unencrypted
// documents allow everything.
func (d *Document) Permissions() Permissions {
	return inspect(d, (*engine.Context).Permissions)
}

// InfoKey returns a text entry of the document information dictionary.
// A missing leading slash is added.
func (d *Document) InfoKey(key string) (string, bool) {
	defer runtime.KeepAlive(d)
	ctx, err := d.context(errors.PhaseObject)
	if err != nil {
		return "", false
	}
	return ctx.InfoKey(nameKey(key))
}

// SetInfoKey sets a text entry of the document information dictionary.
func (d *Document) SetInfoKey(key, value string) error {
	defer runtime.KeepAlive(d)
	ctx, err := d.context(errors.PhaseObject)
	if err != nil {
		return err
	}
	return ctx.SetInfoKey(nameKey(key), value)
}

// MoreWarnings reports whether the engine collected warnings that have
// not been drained.
func (d *Document) MoreWarnings() bool {
	return inspect(d, (*engine.Context).MoreWarnings)
}

// Warnings drains the engine's warnings.
func (d *Document) Warnings() []*errors.Error {
	return inspect(d, (*engine.Context).Warnings)
}

// ForeignDocuments reports how many source documents this document keeps
// alive.
func (d *Document) ForeignDocuments() int {
	return d.state.foreign.len()
}

// Trailer returns the trailer dictionary.
func (d *Document) Trailer() (*Dictionary, bool) {
	return d.dictionary(func(ctx *engine.Context) (engine.Handle, error) {
		return ctx.Trailer()
	})
}

// Root returns the document catalog.
func (d *Document) Root() (*Dictionary, bool) {
	return d.dictionary(func(ctx *engine.Context) (engine.Handle, error) {
		return ctx.Root()
	})
}

func (d *Document) dictionary(fetch func(*engine.Context) (engine.Handle, error)) (*Dictionary, bool) {
	o, ok := d.lookup(errors.PhaseObject, fetch)
	if !ok {
		return nil, false
	}
	dict, err := o.AsDictionary()
	if err != nil {
		o.Release()
		return nil, false
	}
	return dict, true
}

// ObjectByID looks up the indirect object (id, gen). Missing objects and
// objects that resolve to null are reported as absent.
func (d *Document) ObjectByID(id, gen int) (*Object, bool) {
	return d.lookup(errors.PhaseObject, func(ctx *engine.Context) (engine.Handle, error) {
		return ctx.ObjectByID(id, gen)
	})
}

// lookup wraps a fetched handle, mapping errors, null and uninitialized
// results to absent.
func (d *Document) lookup(phase errors.Phase, fetch func(*engine.Context) (engine.Handle, error)) (*Object, bool) {
	defer runtime.KeepAlive(d)
	ctx, err := d.context(phase)
	if err != nil {
		return nil, false
	}
	h, err := fetch(ctx)
	if err != nil {
		return nil, false
	}
	o := d.wrap(h)
	if absent(o.Type()) {
		o.Release()
		return nil, false
	}
	return o, true
}

// ReplaceObject replaces the indirect object (id, gen) with v.
func (d *Document) ReplaceObject(id, gen int, v *Object) error {
	defer runtime.KeepAlive(v)
	ctx, err := d.context(errors.PhaseObject)
	if err != nil {
		return err
	}
	if err := d.checkOwned("ReplaceObject", v); err != nil {
		return err
	}
	return ctx.ReplaceObject(id, gen, v.h)
}

// ParseObject parses the PDF syntax of a single object.
func (d *Document) ParseObject(text string) (*Object, error) {
	return d.create(errors.PhaseParse, func(ctx *engine.Context) (engine.Handle, error) {
		return ctx.Parse(text)
	})
}

// checkOwned fails unless every object belongs to d and is usable.
func (d *Document) checkOwned(op string, objs ...*Object) error {
	for _, o := range objs {
		if o == nil {
			return errors.InvalidParameter(errors.PhaseObject, "%s: nil object", op)
		}
		if !d.owns(o) {
			return errors.ForeignObject(errors.PhaseObject, op)
		}
		if o.released.Load() {
			return errors.Closed(errors.PhaseObject, "object handle")
		}
	}
	return nil
}
