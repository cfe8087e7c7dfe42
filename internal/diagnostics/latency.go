// Package diagnostics provides ambient, non-authoritative observability
// for a running balancer: a bounded cache of recent per-provider probe
// latencies and a periodic stats reporter. Nothing here participates
// in eligibility or selection decisions.
package diagnostics

import (
	"time"

	"github.com/maypok86/otter"

	"github.com/antohaby/load-balancer-exercise/internal/provider"
)

// LatencyCache records the most recent heartbeat probe latency per
// provider, bounded to maxEntries; the otter cache chooses which entry
// to evict once the bound is reached.
type LatencyCache struct {
	cache otter.Cache[provider.ID, time.Duration]
}

// NewLatencyCache creates a cache bounded to maxEntries providers.
func NewLatencyCache(maxEntries int) *LatencyCache {
	cache, err := otter.MustBuilder[provider.ID, time.Duration](maxEntries).
		Cost(func(_ provider.ID, _ time.Duration) uint32 { return 1 }).
		Build()
	if err != nil {
		panic("diagnostics: failed to create latency cache: " + err.Error())
	}
	return &LatencyCache{cache: cache}
}

// Record stores the latest observed probe latency for id, overwriting
// any previous value.
func (c *LatencyCache) Record(id provider.ID, d time.Duration) {
	c.cache.Set(id, d)
}

// Get returns the most recently recorded probe latency for id.
func (c *LatencyCache) Get(id provider.ID) (time.Duration, bool) {
	return c.cache.Get(id)
}

// Size returns the number of providers currently tracked.
func (c *LatencyCache) Size() int {
	return c.cache.Size()
}

// Close releases resources held by the underlying cache.
func (c *LatencyCache) Close() {
	c.cache.Close()
}
