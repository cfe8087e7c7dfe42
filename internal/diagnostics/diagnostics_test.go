package diagnostics

import (
	"testing"
	"time"

	"github.com/antohaby/load-balancer-exercise/internal/balancer"
	"github.com/antohaby/load-balancer-exercise/internal/provider"
	"github.com/antohaby/load-balancer-exercise/internal/registry"
	"github.com/antohaby/load-balancer-exercise/internal/selection"
)

func TestLatencyCache_RecordAndGet(t *testing.T) {
	c := NewLatencyCache(4)
	defer c.Close()

	if _, ok := c.Get("a"); ok {
		t.Fatal("expected empty cache to report absent")
	}

	c.Record("a", 10*time.Millisecond)
	got, ok := c.Get("a")
	if !ok || got != 10*time.Millisecond {
		t.Fatalf("expected 10ms, got %v ok=%v", got, ok)
	}

	c.Record("a", 20*time.Millisecond)
	got, ok = c.Get("a")
	if !ok || got != 20*time.Millisecond {
		t.Fatalf("expected overwrite to 20ms, got %v ok=%v", got, ok)
	}
}

func TestLatencyCache_BoundedSize(t *testing.T) {
	c := NewLatencyCache(2)
	defer c.Close()

	c.Record(provider.ID("a"), time.Millisecond)
	c.Record(provider.ID("b"), time.Millisecond)
	c.Record(provider.ID("c"), time.Millisecond)

	if got := c.Size(); got > 2 {
		t.Fatalf("expected size bounded to 2, got %d", got)
	}
}

func TestReporter_RunsOnSchedule(t *testing.T) {
	reg := registry.New(4)
	bal := balancer.New(balancer.Config{
		Registry: reg,
		Strategy: selection.NewRoundRobin(),
	})
	bal.Start()
	defer bal.Stop()

	// cron rounds "@every" intervals below one second up to one second,
	// so the schedule is one second and the wait a little longer.
	reporter, err := NewReporter(bal, nil, "@every 1s")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	reporter.Start()
	defer reporter.Stop()

	// Nothing to assert beyond "doesn't panic and can be stopped"; the
	// report itself only logs.
	time.Sleep(1100 * time.Millisecond)
}

func TestReporter_LogsPerProviderLatencyWhenCacheSupplied(t *testing.T) {
	reg := registry.New(4)
	if err := reg.Register("A", provider.NewStub("A", 0, 0)); err != nil {
		t.Fatalf("register A: %v", err)
	}
	bal := balancer.New(balancer.Config{Registry: reg, Strategy: selection.NewRoundRobin()})
	bal.Start()
	defer bal.Stop()

	cache := NewLatencyCache(4)
	defer cache.Close()

	reporter, err := NewReporter(bal, cache, "@every 1s")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, id := range bal.ProviderIDs() {
		cache.Record(id, 5*time.Millisecond)
	}
	reporter.Start()
	defer reporter.Stop()

	// Nothing to assert beyond "doesn't panic and can be stopped"; the
	// per-provider latency lookup only feeds log lines.
	time.Sleep(1100 * time.Millisecond)
}

func TestNewReporter_RejectsInvalidSchedule(t *testing.T) {
	reg := registry.New(4)
	bal := balancer.New(balancer.Config{Registry: reg, Strategy: selection.NewRoundRobin()})
	if _, err := NewReporter(bal, nil, "not a cron expression"); err == nil {
		t.Fatal("expected error for invalid cron expression")
	}
}
