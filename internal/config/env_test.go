package config

import (
	"strings"
	"testing"
	"time"
)

func assertEqual[T comparable](t *testing.T, name string, got, want T) {
	t.Helper()
	if got != want {
		t.Errorf("%s: got %v, want %v", name, got, want)
	}
}

func assertContains(t *testing.T, s, substr string) {
	t.Helper()
	if !strings.Contains(s, substr) {
		t.Errorf("expected %q to contain %q", s, substr)
	}
}

func TestLoadEnvConfig_Defaults(t *testing.T) {
	cfg, err := LoadEnvConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertEqual(t, "MaxProviders", cfg.MaxProviders, 16)
	assertEqual(t, "SelectionStrategy", cfg.SelectionStrategy, "round-robin")
	assertEqual(t, "HeartbeatInterval", cfg.HeartbeatInterval, 5*time.Second)
	assertEqual(t, "DebounceRounds", cfg.DebounceRounds, 2)
	assertEqual(t, "MaxCallsPerProvider", cfg.MaxCallsPerProvider, 4)
	assertEqual(t, "LatencyCacheEntries", cfg.LatencyCacheEntries, 256)
	assertEqual(t, "DiagnosticsSchedule", cfg.DiagnosticsSchedule, "*/1 * * * *")
}

func TestLoadEnvConfig_Overrides(t *testing.T) {
	t.Setenv("BALANCER_MAX_PROVIDERS", "64")
	t.Setenv("BALANCER_SELECTION_STRATEGY", "RANDOM")
	t.Setenv("BALANCER_HEARTBEAT_INTERVAL", "250ms")
	t.Setenv("BALANCER_MAX_CALLS_PER_PROVIDER", "10")

	cfg, err := LoadEnvConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertEqual(t, "MaxProviders", cfg.MaxProviders, 64)
	assertEqual(t, "SelectionStrategy", cfg.SelectionStrategy, "random")
	assertEqual(t, "HeartbeatInterval", cfg.HeartbeatInterval, 250*time.Millisecond)
	assertEqual(t, "MaxCallsPerProvider", cfg.MaxCallsPerProvider, 10)
}

func TestLoadEnvConfig_InvalidIntegerAccumulatesError(t *testing.T) {
	t.Setenv("BALANCER_MAX_PROVIDERS", "not-a-number")

	_, err := LoadEnvConfig()
	if err == nil {
		t.Fatal("expected error for invalid integer")
	}
	assertContains(t, err.Error(), "BALANCER_MAX_PROVIDERS")
}

func TestLoadEnvConfig_InvalidStrategyRejected(t *testing.T) {
	t.Setenv("BALANCER_SELECTION_STRATEGY", "weighted")

	_, err := LoadEnvConfig()
	if err == nil {
		t.Fatal("expected error for invalid strategy")
	}
	assertContains(t, err.Error(), "BALANCER_SELECTION_STRATEGY")
}

func TestLoadEnvConfig_NonPositiveMaxProvidersRejected(t *testing.T) {
	t.Setenv("BALANCER_MAX_PROVIDERS", "0")

	_, err := LoadEnvConfig()
	if err == nil {
		t.Fatal("expected error for non-positive MaxProviders")
	}
	assertContains(t, err.Error(), "BALANCER_MAX_PROVIDERS")
}
