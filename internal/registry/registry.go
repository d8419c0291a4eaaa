// Package registry implements the process-wide, per-component-type handle
// registry of spec §3.1: a bijective mapping between stable database IDs and
// dense in-process handles, plus the fully-hydrated records those handles
// resolve to. Domain objects never hold a pointer to a component record —
// only its handle — which is how the source breaks the Drawing<->Material
// reference cycle without a pointer graph (spec §9).
package registry

import (
	"sync"

	"github.com/screenworks/matcat/pkg/mlog"
)

// Handle is an opaque, dense, in-process identifier for a component record.
// Handle 0 is reserved and means "unset/invalid" (spec §3.1 invariant).
type Handle uint32

// InvalidHandle is the reserved zero handle.
const InvalidHandle Handle = 0

// ComponentID is the stable database primary key of a component, a nonzero
// 32-bit unsigned integer. It is what the wire uses where a handle would be
// meaningless to the peer (spec §4.5: "Handles are transmitted as component
// IDs re-resolved on the other side").
type ComponentID uint32

// RefreshCallback is invoked after every bulk source/refresh of a registry.
type RefreshCallback func()

// Registry is a bijective id<->handle<->record store for one component
// type T (Material, Aperture, Product, SideIron, Machine, MachineDeck,
// ApertureShape, BackingStrip, Strap, SideIronPrice, ExtraPrice,
// PowderCoatingPrice, LabourTime — spec §3.1).
type Registry[T any] struct {
	mu sync.RWMutex

	idToHandle     map[ComponentID]Handle
	handleToID     map[Handle]ComponentID
	handleToRecord map[Handle]T

	nextHandle Handle

	callbacks []RefreshCallback

	logger mlog.Logger
}

// New builds an empty registry. logger may be nil, in which case a no-op
// logger is used.
func New[T any](logger mlog.Logger) *Registry[T] {
	if logger == nil {
		logger = mlog.NoopLogger{}
	}

	return &Registry[T]{
		idToHandle:     make(map[ComponentID]Handle),
		handleToID:     make(map[Handle]ComponentID),
		handleToRecord: make(map[Handle]T),
		nextHandle:     1, // handle 0 is reserved
		logger:         logger,
	}
}

// OnRefresh registers a callback fired after every call to Source.
func (r *Registry[T]) OnRefresh(cb RefreshCallback) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.callbacks = append(r.callbacks, cb)
}

// Source bulk-replaces the registry's contents from a freshly fetched set of
// records keyed by their stable component ID. Per spec §3.1, handles for
// IDs that are still present after the refresh remain valid for any
// consumer that re-resolves via ID -> handle; this implementation keeps a
// previously-issued handle stable across a Source call whenever the ID is
// still present, and only assigns a new handle for newly-seen IDs.
func (r *Registry[T]) Source(records map[ComponentID]T) {
	r.mu.Lock()

	newIDToHandle := make(map[ComponentID]Handle, len(records))
	newHandleToID := make(map[Handle]ComponentID, len(records))
	newHandleToRecord := make(map[Handle]T, len(records))

	for id, record := range records {
		h, existed := r.idToHandle[id]
		if !existed {
			h = r.nextHandle
			r.nextHandle++
		}

		newIDToHandle[id] = h
		newHandleToID[h] = id
		newHandleToRecord[h] = record
	}

	r.idToHandle = newIDToHandle
	r.handleToID = newHandleToID
	r.handleToRecord = newHandleToRecord

	callbacks := append([]RefreshCallback(nil), r.callbacks...)
	count := len(records)

	r.mu.Unlock()

	r.logger.Infof("registry sourced %d records", count)

	for _, cb := range callbacks {
		cb()
	}
}

// HandleForID resolves a component ID to its current handle. It returns
// InvalidHandle and false if the ID is not currently registered.
func (r *Registry[T]) HandleForID(id ComponentID) (Handle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	h, ok := r.idToHandle[id]
	return h, ok
}

// IDForHandle resolves a handle back to its stable component ID.
func (r *Registry[T]) IDForHandle(h Handle) (ComponentID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.handleToID[h]
	return id, ok
}

// Record resolves a handle to its fully-hydrated record.
func (r *Registry[T]) Record(h Handle) (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.handleToRecord[h]
	return rec, ok
}

// Len reports the number of live entries.
func (r *Registry[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.handleToRecord)
}
