// Package heartbeat implements the per-provider periodic health prober:
// it turns a raw boolean probe stream into Alive/Dead transitions via a
// configurable debounce policy. Each admitted provider gets its own
// independent watch loop rather than sharing a single pool-wide scan.
package heartbeat

import (
	"context"
	"time"

	"github.com/antohaby/load-balancer-exercise/internal/scanloop"
)

// CheckFunc performs a single-shot liveness probe. Implementations must
// respect ctx cancellation rather than blocking indefinitely.
type CheckFunc func(ctx context.Context) bool

// TransitionFunc is invoked whenever the debounced status changes.
type TransitionFunc func(Status)

// Options configures a Watch call.
type Options struct {
	// OnProbeLatency, if set, is called after every probe attempt with
	// its wall-clock duration. Purely diagnostic — it has no effect on
	// debounce or eligibility semantics.
	OnProbeLatency func(time.Duration)

	// JitterRange, if positive, adds a uniformly random extra delay in
	// [0, JitterRange) on top of interval for each sleep, so that many
	// providers admitted around the same time don't all probe in
	// lockstep.
	JitterRange time.Duration
}

// Watch runs the heartbeat loop until ctx is cancelled: probe, debounce,
// report-on-change, sleep, repeat. It blocks the calling goroutine, so
// callers start it with `go heartbeat.Watch(...)` and cancel ctx to stop
// it; cancellation interrupts both a pending check and the interval
// sleep.
func Watch(
	ctx context.Context,
	interval time.Duration,
	policy DebouncePolicy,
	check CheckFunc,
	onTransition TransitionFunc,
	opts Options,
) {
	if interval <= 0 {
		interval = time.Second
	}

	lastReported := Alive // every watch starts out assuming the provider is alive

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		probeStart := time.Now()
		ok := check(ctx)
		if opts.OnProbeLatency != nil {
			opts.OnProbeLatency(time.Since(probeStart))
		}

		if ctx.Err() != nil {
			// Cancelled during the probe: do not report a transition for
			// a stale/partial result, and do not reschedule.
			return
		}

		status := policy.Next(ok)
		if status != lastReported {
			onTransition(status)
			lastReported = status
		}

		timer.Reset(scanloop.NextInterval(interval, opts.JitterRange))
	}
}
