// Package registry implements the authoritative, bounded set of known
// providers and publishes add/remove events to subscribers with an
// initial-snapshot guarantee.
//
// Mutation (Register/Unregister) is serialized by a single mutex, which
// also orders subscriber-list changes and event fan-out: a Subscribe
// call's snapshot is always consistent with the events a concurrently
// racing Register/Unregister will subsequently deliver to it, and no two
// mutating calls interleave their notifications.
package registry

import (
	"fmt"
	"log"
	"sync"

	"github.com/puzpuzpuz/xsync/v4"

	"github.com/antohaby/load-balancer-exercise/internal/provider"
)

// EventKind tags an Event as an addition or a removal.
type EventKind int

const (
	// Added is emitted after a successful Register.
	Added EventKind = iota
	// Removed is emitted after a successful Unregister.
	Removed
)

func (k EventKind) String() string {
	if k == Added {
		return "Added"
	}
	return "Removed"
}

// Event describes a single registry mutation delivered to subscribers.
// Removed carries the provider value that was removed so subscribers can
// detach per-provider state without a second lookup.
type Event struct {
	Kind     EventKind
	ID       provider.ID
	Provider provider.Provider
}

// Handler receives registry events. Handlers run concurrently with other
// handlers of the same event but never concurrently with themselves
// across two events (delivery to one handler is FIFO in registry order).
type Handler func(Event)

// Subscription is returned by Subscribe: Initial is the membership
// snapshot captured atomically at subscribe time, and Cancel detaches the
// handler from future events.
type Subscription struct {
	Initial map[provider.ID]provider.Provider
	Cancel  func()
}

// Registry is a bounded, concurrency-safe provider membership set.
type Registry struct {
	maxProviders int

	mu          sync.Mutex // serializes Register/Unregister/Subscribe and fan-out
	providers   *xsync.Map[provider.ID, provider.Provider]
	subscribers map[int64]Handler
	nextSubID   int64
}

// New creates a Registry bounded to maxProviders entries.
func New(maxProviders int) *Registry {
	if maxProviders <= 0 {
		panic("registry: maxProviders must be positive")
	}
	return &Registry{
		maxProviders: maxProviders,
		providers:    xsync.NewMap[provider.ID, provider.Provider](),
		subscribers:  make(map[int64]Handler),
	}
}

// Register inserts id->p and, on success, emits Added to every current
// subscriber before returning. Fails with ErrAlreadyRegistered if id is
// present, or ErrOutOfLimit if the registry is already full.
func (r *Registry) Register(id provider.ID, p provider.Provider) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.providers.Load(id); exists {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, id)
	}
	if r.providers.Size() >= r.maxProviders {
		return fmt.Errorf("%w: max %d", ErrOutOfLimit, r.maxProviders)
	}

	r.providers.Store(id, p)
	r.notifyLocked(Event{Kind: Added, ID: id, Provider: p})
	return nil
}

// Unregister removes id, returning true iff it was present. On success it
// emits Removed (carrying the removed provider) to every current
// subscriber before returning.
func (r *Registry) Unregister(id provider.ID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, existed := r.providers.LoadAndDelete(id)
	if !existed {
		return false
	}
	r.notifyLocked(Event{Kind: Removed, ID: id, Provider: p})
	return true
}

// Subscribe atomically captures the current membership as a snapshot,
// registers handler for subsequent events, and returns both. Events
// emitted strictly after Subscribe returns are delivered; events
// concurrent with the Subscribe call are either included in the snapshot
// or delivered, never both and never neither, because Subscribe and
// Register/Unregister share the same serializing mutex.
func (r *Registry) Subscribe(handler Handler) Subscription {
	r.mu.Lock()
	defer r.mu.Unlock()

	snapshot := make(map[provider.ID]provider.Provider, r.providers.Size())
	r.providers.Range(func(id provider.ID, p provider.Provider) bool {
		snapshot[id] = p
		return true
	})

	id := r.nextSubID
	r.nextSubID++
	r.subscribers[id] = handler

	return Subscription{
		Initial: snapshot,
		Cancel: func() {
			r.mu.Lock()
			delete(r.subscribers, id)
			r.mu.Unlock()
		},
	}
}

// Snapshot returns a best-effort point-in-time copy of the membership
// map. Not used on any hot path; intended for diagnostics and tests.
func (r *Registry) Snapshot() map[provider.ID]provider.Provider {
	out := make(map[provider.ID]provider.Provider, r.providers.Size())
	r.providers.Range(func(id provider.ID, p provider.Provider) bool {
		out[id] = p
		return true
	})
	return out
}

// Size returns the current membership count.
func (r *Registry) Size() int {
	return r.providers.Size()
}

// notifyLocked fans the event out to every current subscriber
// concurrently, waiting for all of them before returning (and thus
// before the caller's Register/Unregister call returns). A panicking
// handler is isolated: it is logged and does not affect delivery to
// other subscribers or the mutating call's own success.
func (r *Registry) notifyLocked(ev Event) {
	if len(r.subscribers) == 0 {
		return
	}
	var wg sync.WaitGroup
	for _, h := range r.subscribers {
		h := h
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() {
				if rec := recover(); rec != nil {
					log.Printf("[registry] subscriber handler panicked on %s(%s): %v", ev.Kind, ev.ID, rec)
				}
			}()
			h(ev)
		}()
	}
	wg.Wait()
}
