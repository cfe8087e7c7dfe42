package heartbeat

import (
	"context"
	"sync"
	"testing"
	"time"
)

// S5: aliveAfterRounds(2); probe stream [T,F,F,T,F,T,T] -> transitions
// [Dead@idx1, Alive@idx6].
func TestAliveAfterRounds_DebounceRecovery(t *testing.T) {
	policy := AliveAfterRounds(2)()
	probes := []bool{true, false, false, true, false, true, true}
	wantTransitionAt := map[int]Status{1: Dead, 6: Alive}

	last := Alive
	for i, probe := range probes {
		status := policy.Next(probe)
		if want, ok := wantTransitionAt[i]; ok {
			if status != want {
				t.Fatalf("index %d: expected transition to %s, got %s", i, want, status)
			}
		}
		if status != last {
			if _, expected := wantTransitionAt[i]; !expected {
				t.Fatalf("unexpected transition at index %d: %s -> %s", i, last, status)
			}
		}
		last = status
	}
}

func TestAliveAfterRounds_FalseDuringRecoveryResetsCounter(t *testing.T) {
	policy := AliveAfterRounds(3)()
	// Alive -> false -> Dead.
	if got := policy.Next(false); got != Dead {
		t.Fatalf("expected Dead, got %s", got)
	}
	// Two trues, not yet enough for k=3.
	if got := policy.Next(true); got != Dead {
		t.Fatalf("expected still Dead after 1 true, got %s", got)
	}
	if got := policy.Next(true); got != Dead {
		t.Fatalf("expected still Dead after 2 trues, got %s", got)
	}
	// A false resets the counter.
	if got := policy.Next(false); got != Dead {
		t.Fatalf("expected Dead after reset, got %s", got)
	}
	if got := policy.Next(true); got != Dead {
		t.Fatalf("expected Dead (counter reset to 1/3), got %s", got)
	}
	if got := policy.Next(true); got != Dead {
		t.Fatalf("expected Dead (counter at 2/3), got %s", got)
	}
	if got := policy.Next(true); got != Alive {
		t.Fatalf("expected Alive (counter at 3/3), got %s", got)
	}
}

func TestAliveAfterRounds_FirstProbeTrueEmitsNothing(t *testing.T) {
	policy := AliveAfterRounds(1)()
	if got := policy.Next(true); got != Alive {
		t.Fatalf("expected Alive, got %s", got)
	}
}

// Invariant 4: steady-state probe stream yields zero transitions after
// initial settling.
func TestWatch_NoSpuriousTransitions(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var transitions int
	calls := 0
	done := make(chan struct{})

	go Watch(ctx, time.Millisecond, AliveAfterRounds(1)(), func(context.Context) bool {
		mu.Lock()
		calls++
		n := calls
		mu.Unlock()
		if n >= 20 {
			select {
			case <-done:
			default:
				close(done)
			}
		}
		return true // always healthy: steady state, no transitions expected
	}, func(Status) {
		mu.Lock()
		transitions++
		mu.Unlock()
	}, Options{})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for probes")
	}

	mu.Lock()
	defer mu.Unlock()
	if transitions != 0 {
		t.Fatalf("expected zero transitions for steady-state true probes, got %d", transitions)
	}
}

// S6 (partial, debounce-controller half): after cancellation, no further
// probes occur.
func TestWatch_StopsProbingAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var mu sync.Mutex
	calls := 0

	go Watch(ctx, 5*time.Millisecond, AliveAfterRounds(1)(), func(context.Context) bool {
		mu.Lock()
		calls++
		mu.Unlock()
		return true
	}, func(Status) {}, Options{})

	time.Sleep(30 * time.Millisecond)
	cancel()

	mu.Lock()
	countAtCancel := calls
	mu.Unlock()

	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if calls > countAtCancel+1 {
		t.Fatalf("expected probing to stop at cancellation, count grew from %d to %d", countAtCancel, calls)
	}
}

func TestWatch_ProbeLatencyCallback(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	latencies := make(chan time.Duration, 1)
	go Watch(ctx, time.Hour, AliveAfterRounds(1)(), func(context.Context) bool {
		time.Sleep(2 * time.Millisecond)
		return true
	}, func(Status) {}, Options{
		OnProbeLatency: func(d time.Duration) {
			select {
			case latencies <- d:
			default:
			}
		},
	})

	select {
	case d := <-latencies:
		if d < 2*time.Millisecond {
			t.Fatalf("expected recorded latency >= 2ms, got %s", d)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for probe latency callback")
	}
}
