package diagnostics

import (
	"log"

	"github.com/robfig/cron/v3"

	"github.com/antohaby/load-balancer-exercise/internal/balancer"
	"github.com/antohaby/load-balancer-exercise/internal/provider"
)

// StatsSource is anything that can report a point-in-time balancer
// snapshot, plus the set of providers currently admitted.
// *balancer.Balancer satisfies this.
type StatsSource interface {
	Stats() balancer.Stats
	ProviderIDs() []provider.ID
}

// Reporter periodically logs a balancer's registry/eligible-set sizes,
// and each admitted provider's most recent probe latency if a
// LatencyCache is supplied. It never touches the Get path.
type Reporter struct {
	source  StatsSource
	latency *LatencyCache
	cron    *cron.Cron
}

// NewReporter creates a Reporter that logs source's Stats() on the
// given cron schedule (standard five-field cron expression, e.g.
// "*/30 * * * *" for every 30 minutes). latency may be nil, in which
// case per-provider latency lines are omitted.
func NewReporter(source StatsSource, latency *LatencyCache, schedule string) (*Reporter, error) {
	c := cron.New()
	r := &Reporter{source: source, latency: latency, cron: c}
	if _, err := c.AddFunc(schedule, r.report); err != nil {
		return nil, err
	}
	return r, nil
}

// Start begins the cron scheduler. Non-blocking.
func (r *Reporter) Start() {
	r.cron.Start()
}

// Stop halts the cron scheduler and waits for any in-flight report to
// finish.
func (r *Reporter) Stop() {
	<-r.cron.Stop().Done()
}

func (r *Reporter) report() {
	stats := r.source.Stats()
	log.Printf("diagnostics: registry=%d eligible=%d", stats.RegistrySize, stats.EligibleSize)

	if r.latency == nil {
		return
	}
	for _, id := range r.source.ProviderIDs() {
		if d, ok := r.latency.Get(id); ok {
			log.Printf("diagnostics: provider=%s last_probe_latency=%s", id, d)
		}
	}
}
