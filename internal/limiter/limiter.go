// Package limiter implements a per-provider admission gate: it bounds
// how many calls may be in flight against a single provider at once,
// rejecting new callers once that bound is reached and waking them
// again once capacity returns.
package limiter

import "sync"

// Outcome is what WithLimit returns to its caller: either the admitted
// call's result, or a rejection carrying the release channel for the
// saturation wave that caused it.
type Outcome[R any] struct {
	Admitted bool
	Value    R
	Err      error

	// Release is closed once the limiter has room again. Only set when
	// Admitted is false.
	Release <-chan struct{}
}

// Limiter admits up to maxCalls concurrent calls per provider. Beyond
// that it is saturated: further calls are rejected immediately and
// handed the current wave's release channel instead of being queued.
type Limiter struct {
	maxCalls int

	mu        sync.Mutex
	inFlight  int
	saturated bool
	releaseCh chan struct{} // current wave's release channel, nil while not saturated
}

// New creates a Limiter admitting up to maxCalls concurrent calls. Panics
// if maxCalls is not positive.
func New(maxCalls int) *Limiter {
	if maxCalls <= 0 {
		panic("limiter: maxCalls must be positive")
	}
	return &Limiter{maxCalls: maxCalls}
}

// WithLimit runs work if the limiter has spare capacity, otherwise
// rejects immediately without calling work. work is run synchronously
// on the calling goroutine; callers that want concurrency should invoke
// WithLimit from their own goroutine.
func WithLimit[R any](l *Limiter, work func() (R, error)) Outcome[R] {
	release, ok := l.admit()
	if !ok {
		return Outcome[R]{Release: release}
	}
	defer l.release()
	v, err := work()
	return Outcome[R]{Admitted: true, Value: v, Err: err}
}

// admit attempts to reserve a slot. On success it returns (nil, true).
// On failure (saturated) it returns the current wave's release channel
// and false.
func (l *Limiter) admit() (<-chan struct{}, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.saturated {
		return l.releaseCh, false
	}
	l.inFlight++
	if l.inFlight >= l.maxCalls {
		l.saturated = true
		l.releaseCh = make(chan struct{})
	}
	return nil, true
}

// release records completion of one admitted call, resolving the
// current wave's release channel exactly once and clearing saturation
// once inFlight falls back below maxCalls.
func (l *Limiter) release() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.inFlight--
	if l.saturated && l.inFlight < l.maxCalls {
		l.saturated = false
		close(l.releaseCh)
		l.releaseCh = nil
	}
}

// InFlight reports the current number of admitted, not-yet-completed
// calls. Diagnostic only.
func (l *Limiter) InFlight() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.inFlight
}

// Saturated reports whether the limiter is currently rejecting calls.
// Diagnostic only; the answer may be stale by the time the caller acts
// on it.
func (l *Limiter) Saturated() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.saturated
}
