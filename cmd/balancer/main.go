// Command balancer is a thin demo entry point: it wires a Registry and
// a Balancer around a handful of stub providers, starts a diagnostics
// reporter, serves Get() in a loop, and shuts down cleanly on
// SIGINT/SIGTERM.
package main

import (
	"context"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/antohaby/load-balancer-exercise/internal/balancer"
	"github.com/antohaby/load-balancer-exercise/internal/buildinfo"
	"github.com/antohaby/load-balancer-exercise/internal/config"
	"github.com/antohaby/load-balancer-exercise/internal/diagnostics"
	"github.com/antohaby/load-balancer-exercise/internal/heartbeat"
	"github.com/antohaby/load-balancer-exercise/internal/limiter"
	"github.com/antohaby/load-balancer-exercise/internal/provider"
	"github.com/antohaby/load-balancer-exercise/internal/registry"
	"github.com/antohaby/load-balancer-exercise/internal/selection"
)

func fatalf(format string, args ...any) {
	log.Printf(format, args...)
	os.Exit(1)
}

func newSelectionStrategy(cfg *config.EnvConfig) selection.Strategy {
	if cfg.SelectionStrategy == "random" {
		return selection.NewRandom(rand.New(rand.NewPCG(cfg.RandomStrategySeedLow, 0)))
	}
	return selection.NewRoundRobin()
}

func main() {
	log.Printf("balancer %s (commit %s, built %s)", buildinfo.Version, buildinfo.GitCommit, buildinfo.BuildTime)

	envCfg, err := config.LoadEnvConfig()
	if err != nil {
		fatalf("%v", err)
	}

	reg := registry.New(envCfg.MaxProviders)

	for i := 0; i < 4; i++ {
		name := fmt.Sprintf("provider-%d", i+1)
		id := provider.ID(uuid.NewString())
		stub := provider.NewStub(name, 5*time.Millisecond, 40*time.Millisecond)
		if err := reg.Register(id, stub); err != nil {
			fatalf("register %s: %v", name, err)
		}
	}
	log.Println("registered demo providers")

	latencyCache := diagnostics.NewLatencyCache(envCfg.LatencyCacheEntries)
	defer latencyCache.Close()

	bal := balancer.New(balancer.Config{
		Registry:          reg,
		Strategy:          newSelectionStrategy(envCfg),
		HeartbeatInterval: envCfg.HeartbeatInterval,
		HeartbeatJitter:   envCfg.HeartbeatInterval / 4,
		DebounceFactory:   heartbeat.AliveAfterRounds(envCfg.DebounceRounds),
		NewLimiter: func() *limiter.Limiter {
			return limiter.New(envCfg.MaxCallsPerProvider)
		},
		OnProbeLatency: func(id provider.ID, d time.Duration) {
			latencyCache.Record(id, d)
		},
	})
	bal.Start()
	log.Println("balancer started")

	reporter, err := diagnostics.NewReporter(bal, latencyCache, envCfg.DiagnosticsSchedule)
	if err != nil {
		fatalf("diagnostics reporter: %v", err)
	}
	reporter.Start()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

loop:
	for {
		select {
		case <-ctx.Done():
			log.Println("received shutdown signal, stopping...")
			break loop
		case <-ticker.C:
			v, err := bal.Get(context.Background())
			if err != nil {
				log.Printf("get: %v", err)
				continue
			}
			log.Printf("get: %s", v)
		}
	}

	reporter.Stop()
	log.Println("diagnostics reporter stopped")

	bal.Stop()
	log.Println("balancer stopped")
}
