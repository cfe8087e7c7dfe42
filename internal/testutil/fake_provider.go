// Package testutil provides small, deterministic fixtures shared across
// this module's test suites: a scriptable fake Provider and a seeded
// random source, built the way tests need them rather than mocked
// behind an interface.
package testutil

import (
	"context"
	"sync"

	"github.com/antohaby/load-balancer-exercise/internal/provider"
)

// FakeProvider is a Provider whose Serve and Check behavior is fully
// controlled by the test: no random delay, no hidden timers.
type FakeProvider struct {
	Name string

	mu       sync.Mutex
	healthy  bool
	serveErr error
	calls    int
}

// NewFakeProvider creates a FakeProvider that starts healthy and serves
// successfully.
func NewFakeProvider(name string) *FakeProvider {
	return &FakeProvider{Name: name, healthy: true}
}

// SetHealthy sets the answer future Check calls will return.
func (f *FakeProvider) SetHealthy(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.healthy = v
}

// SetServeError makes future Serve calls fail with err (nil restores
// success).
func (f *FakeProvider) SetServeError(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.serveErr = err
}

// Calls returns how many times Serve has been invoked.
func (f *FakeProvider) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *FakeProvider) Serve(ctx context.Context) (string, error) {
	f.mu.Lock()
	f.calls++
	err := f.serveErr
	f.mu.Unlock()
	if err != nil {
		return "", err
	}
	return f.Name, nil
}

func (f *FakeProvider) Check(ctx context.Context) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.healthy
}

var _ provider.Provider = (*FakeProvider)(nil)
