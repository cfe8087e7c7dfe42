// Package balancer is the dispatch core: it mirrors the provider
// registry, runs one heartbeat watch per admitted provider, and routes
// Get calls through a selection strategy and a per-provider call
// limiter. Three independent sources can make a provider temporarily
// unselectable — registry removal, a Dead heartbeat transition, and a
// saturated limiter. Registry removal drops the provider's state
// entirely; the other two are tracked as a small reason set per
// provider rather than a single flag: a provider is eligible exactly
// when its reason set is empty, and the heartbeat and the limiter each
// add or clear only their own token.
package balancer

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/antohaby/load-balancer-exercise/internal/fingerprint"
	"github.com/antohaby/load-balancer-exercise/internal/heartbeat"
	"github.com/antohaby/load-balancer-exercise/internal/limiter"
	"github.com/antohaby/load-balancer-exercise/internal/provider"
	"github.com/antohaby/load-balancer-exercise/internal/registry"
	"github.com/antohaby/load-balancer-exercise/internal/selection"
)

type reasonKind int

const (
	reasonHeartbeatDead reasonKind = iota
	reasonLimiterSaturated
)

type providerState struct {
	provider   provider.Provider
	limiter    *limiter.Limiter
	cancel     context.CancelFunc
	done       chan struct{}
	generation uint64
	reasons    map[reasonKind]struct{}
}

// Config carries everything needed to construct a Balancer.
type Config struct {
	Registry *registry.Registry

	// Strategy picks which eligible provider to serve next. Round-robin
	// and uniform-random implementations are in internal/selection.
	Strategy selection.Strategy

	// HeartbeatInterval is the sleep between probes for every provider.
	HeartbeatInterval time.Duration

	// HeartbeatJitter, if positive, staggers each provider's probe
	// schedule by an extra random delay in [0, HeartbeatJitter).
	HeartbeatJitter time.Duration

	// DebounceFactory constructs a fresh debounce policy per provider.
	DebounceFactory func() heartbeat.DebouncePolicy

	// NewLimiter constructs a fresh call limiter per provider.
	NewLimiter func() *limiter.Limiter

	// OnProbeLatency, if set, is called with a provider's id and the
	// wall-clock duration of each of its heartbeat probes. Diagnostic
	// only.
	OnProbeLatency func(provider.ID, time.Duration)
}

// Balancer is the dispatch core described in the package doc.
type Balancer struct {
	cfg Config

	mu             sync.Mutex
	providers      map[provider.ID]*providerState
	nextGeneration uint64

	sub        registry.Subscription
	rootCtx    context.Context
	rootCancel context.CancelFunc

	started atomic.Bool
}

// New constructs a Balancer. Start must be called before Get.
func New(cfg Config) *Balancer {
	if cfg.HeartbeatInterval <= 0 {
		cfg.HeartbeatInterval = time.Second
	}
	if cfg.DebounceFactory == nil {
		cfg.DebounceFactory = heartbeat.AliveAfterRounds(1)
	}
	if cfg.NewLimiter == nil {
		cfg.NewLimiter = func() *limiter.Limiter { return limiter.New(1) }
	}
	if cfg.Strategy == nil {
		cfg.Strategy = selection.NewRoundRobin()
	}
	return &Balancer{
		cfg:       cfg,
		providers: make(map[provider.ID]*providerState),
	}
}

// Start subscribes to the registry, admits its initial snapshot, and
// begins routing. Calling Start more than once is a no-op; the second
// call is logged and ignored rather than restarting the core.
func (b *Balancer) Start() {
	if !b.started.CompareAndSwap(false, true) {
		log.Printf("balancer: Start called more than once, ignoring")
		return
	}

	b.rootCtx, b.rootCancel = context.WithCancel(context.Background())
	b.sub = b.cfg.Registry.Subscribe(b.onRegistryEvent)

	for id, p := range b.sub.Initial {
		b.admit(id, p)
	}
	b.seedRoundRobinCursor(b.sub.Initial)
}

// Stop cancels the registry subscription and every heartbeat task, and
// waits for them to finish. It does not cancel in-flight admitted
// Serve calls; their limiter slots are released by their own
// completion regardless.
func (b *Balancer) Stop() {
	if b.sub.Cancel != nil {
		b.sub.Cancel()
	}
	if b.rootCancel != nil {
		b.rootCancel()
	}

	b.mu.Lock()
	states := make([]*providerState, 0, len(b.providers))
	for id, st := range b.providers {
		states = append(states, st)
		b.cfg.Strategy.Exclude(id)
	}
	b.providers = make(map[provider.ID]*providerState)
	b.mu.Unlock()

	for _, st := range states {
		<-st.done
	}
}

// Get selects the next eligible provider and serves one call against
// it, reporting capacity and failure conditions as Error values rather
// than panicking. Every call is tagged with its own correlation id so
// its log lines can be tied together regardless of concurrent callers.
func (b *Balancer) Get(ctx context.Context) (string, error) {
	corrID := uuid.New().String()

	b.mu.Lock()
	if !b.cfg.Strategy.HasNext() {
		b.mu.Unlock()
		log.Printf("balancer: get %s: no providers available", corrID)
		return "", &Error{Kind: NoProvidersAvailable}
	}
	id := b.cfg.Strategy.Next()
	st, ok := b.providers[id]
	b.mu.Unlock()

	if !ok {
		// providers and the strategy are only ever changed together under
		// b.mu, so a selected id without state is an internal invariant
		// violation.
		panic("balancer: selected provider " + string(id) + " has no state")
	}

	outcome := limiter.WithLimit(st.limiter, func() (string, error) {
		return st.provider.Serve(ctx)
	})

	if !outcome.Admitted {
		b.addReason(id, st.generation, reasonLimiterSaturated)
		release := outcome.Release
		go func() {
			select {
			case <-release:
				b.removeReason(id, st.generation, reasonLimiterSaturated)
			case <-b.rootCtx.Done():
			}
		}()
		log.Printf("balancer: get %s: provider %s at capacity", corrID, id)
		return "", &Error{Kind: CapacityLimit}
	}

	if outcome.Err != nil {
		log.Printf("balancer: get %s: provider %s failed: %v", corrID, id, outcome.Err)
		return "", &Error{Kind: ProviderFailure, Cause: outcome.Err}
	}
	log.Printf("balancer: get %s: served by %s", corrID, id)
	return outcome.Value, nil
}

// Stats is a point-in-time snapshot used only for diagnostics, never
// on the Get path.
type Stats struct {
	RegistrySize int
	EligibleSize int
}

func (b *Balancer) Stats() Stats {
	b.mu.Lock()
	defer b.mu.Unlock()
	return Stats{
		RegistrySize: len(b.providers),
		EligibleSize: b.cfg.Strategy.Size(),
	}
}

// ProviderIDs returns the ids of every currently admitted provider.
// Diagnostic only: never used to drive selection.
func (b *Balancer) ProviderIDs() []provider.ID {
	b.mu.Lock()
	defer b.mu.Unlock()
	ids := make([]provider.ID, 0, len(b.providers))
	for id := range b.providers {
		ids = append(ids, id)
	}
	return ids
}

func (b *Balancer) onRegistryEvent(ev registry.Event) {
	switch ev.Kind {
	case registry.Added:
		b.admit(ev.ID, ev.Provider)
	case registry.Removed:
		b.evict(ev.ID)
	}
}

func (b *Balancer) admit(id provider.ID, p provider.Provider) {
	b.mu.Lock()
	if _, exists := b.providers[id]; exists {
		b.mu.Unlock()
		return
	}
	gen := b.nextGeneration
	b.nextGeneration++

	ctx, cancel := context.WithCancel(b.rootCtx)
	st := &providerState{
		provider:   p,
		limiter:    b.cfg.NewLimiter(),
		cancel:     cancel,
		done:       make(chan struct{}),
		generation: gen,
		reasons:    make(map[reasonKind]struct{}),
	}
	b.providers[id] = st
	b.cfg.Strategy.Include(id)
	b.mu.Unlock()

	go b.runHeartbeat(ctx, id, p, gen, st.done)
}

func (b *Balancer) runHeartbeat(ctx context.Context, id provider.ID, p provider.Provider, gen uint64, done chan struct{}) {
	defer close(done)

	opts := heartbeat.Options{JitterRange: b.cfg.HeartbeatJitter}
	if b.cfg.OnProbeLatency != nil {
		opts.OnProbeLatency = func(d time.Duration) { b.cfg.OnProbeLatency(id, d) }
	}

	heartbeat.Watch(ctx, b.cfg.HeartbeatInterval, b.cfg.DebounceFactory(),
		func(c context.Context) bool { return p.Check(c) },
		func(status heartbeat.Status) {
			if status == heartbeat.Dead {
				b.addReason(id, gen, reasonHeartbeatDead)
			} else {
				b.removeReason(id, gen, reasonHeartbeatDead)
			}
		},
		opts,
	)
}

func (b *Balancer) evict(id provider.ID) {
	b.mu.Lock()
	st, ok := b.providers[id]
	if !ok {
		b.mu.Unlock()
		return
	}
	delete(b.providers, id)
	b.cfg.Strategy.Exclude(id)
	b.mu.Unlock()

	st.cancel()
	<-st.done // bounded: Watch stops issuing transitions once ctx is cancelled
}

func (b *Balancer) addReason(id provider.ID, generation uint64, reason reasonKind) {
	b.mu.Lock()
	defer b.mu.Unlock()
	st, ok := b.providers[id]
	if !ok || st.generation != generation {
		return
	}
	wasEligible := len(st.reasons) == 0
	st.reasons[reason] = struct{}{}
	if wasEligible {
		b.cfg.Strategy.Exclude(id)
	}
}

func (b *Balancer) removeReason(id provider.ID, generation uint64, reason reasonKind) {
	b.mu.Lock()
	defer b.mu.Unlock()
	st, ok := b.providers[id]
	if !ok || st.generation != generation {
		return
	}
	if _, present := st.reasons[reason]; !present {
		return
	}
	delete(st.reasons, reason)
	if len(st.reasons) == 0 {
		b.cfg.Strategy.Include(id)
	}
}

func (b *Balancer) seedRoundRobinCursor(initial map[provider.ID]provider.Provider) {
	if len(initial) == 0 {
		return
	}
	rr, ok := b.cfg.Strategy.(*selection.RoundRobin)
	if !ok {
		return
	}
	var seed uint64
	for id := range initial {
		seed += fingerprint.Of(id)
	}
	rr.SeedCursor(int(seed % uint64(len(initial))))
}
