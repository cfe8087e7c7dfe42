// Package config handles environment-variable-driven configuration for
// the demo binary.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// EnvConfig holds all environment-variable-driven settings for
// constructing a balancer at process startup.
type EnvConfig struct {
	MaxProviders          int
	SelectionStrategy     string // "round-robin" or "random"
	HeartbeatInterval     time.Duration
	DebounceRounds        int
	MaxCallsPerProvider   int
	LatencyCacheEntries   int
	DiagnosticsSchedule   string // cron expression
	RandomStrategySeedLow uint64
}

// LoadEnvConfig reads environment variables and returns a validated
// EnvConfig. Returns an error (accumulating every problem found) if any
// value is present but invalid.
func LoadEnvConfig() (*EnvConfig, error) {
	cfg := &EnvConfig{}
	var errs []string

	cfg.MaxProviders = envInt("BALANCER_MAX_PROVIDERS", 16, &errs)
	cfg.SelectionStrategy = strings.ToLower(strings.TrimSpace(
		envStr("BALANCER_SELECTION_STRATEGY", "round-robin")))
	cfg.HeartbeatInterval = envDuration("BALANCER_HEARTBEAT_INTERVAL", 5*time.Second, &errs)
	cfg.DebounceRounds = envInt("BALANCER_DEBOUNCE_ROUNDS", 2, &errs)
	cfg.MaxCallsPerProvider = envInt("BALANCER_MAX_CALLS_PER_PROVIDER", 4, &errs)
	cfg.LatencyCacheEntries = envInt("BALANCER_LATENCY_CACHE_ENTRIES", 256, &errs)
	cfg.DiagnosticsSchedule = envStr("BALANCER_DIAGNOSTICS_SCHEDULE", "*/1 * * * *")
	cfg.RandomStrategySeedLow = uint64(envInt("BALANCER_RANDOM_SEED", 1, &errs))

	if cfg.SelectionStrategy != "round-robin" && cfg.SelectionStrategy != "random" {
		errs = append(errs, fmt.Sprintf(
			"BALANCER_SELECTION_STRATEGY: must be %q or %q, got %q",
			"round-robin", "random", cfg.SelectionStrategy))
	}
	if cfg.MaxProviders <= 0 {
		errs = append(errs, "BALANCER_MAX_PROVIDERS: must be positive")
	}
	if cfg.MaxCallsPerProvider <= 0 {
		errs = append(errs, "BALANCER_MAX_CALLS_PER_PROVIDER: must be positive")
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return cfg, nil
}

func envStr(key, defaultVal string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int, errs *[]string) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("%s: invalid integer %q", key, v))
		return defaultVal
	}
	return n
}

func envDuration(key string, defaultVal time.Duration, errs *[]string) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("%s: invalid duration %q", key, v))
		return defaultVal
	}
	return d
}
