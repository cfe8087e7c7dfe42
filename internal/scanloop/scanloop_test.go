package scanloop

import (
	"testing"
	"time"
)

func TestNextInterval_NoJitterReturnsMinInterval(t *testing.T) {
	for i := 0; i < 10; i++ {
		if got := NextInterval(5*time.Second, 0); got != 5*time.Second {
			t.Fatalf("expected 5s with no jitter, got %s", got)
		}
	}
}

func TestNextInterval_WithinJitterRange(t *testing.T) {
	minInterval := 5 * time.Second
	jitter := 2 * time.Second
	for i := 0; i < 100; i++ {
		got := NextInterval(minInterval, jitter)
		if got < minInterval || got >= minInterval+jitter {
			t.Fatalf("interval %s out of expected range [%s, %s)", got, minInterval, minInterval+jitter)
		}
	}
}

func TestNextInterval_NonPositiveMinFallsBackToOneSecond(t *testing.T) {
	if got := NextInterval(0, 0); got != time.Second {
		t.Fatalf("expected fallback of 1s, got %s", got)
	}
}
