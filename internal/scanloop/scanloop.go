// Package scanloop computes jittered sleep durations for periodic
// background loops, so that many independent loops with the same
// nominal interval don't all wake in lockstep.
package scanloop

import (
	"math/rand/v2"
	"time"
)

// NextInterval returns minInterval plus a uniformly random extra delay
// in [0, jitterRange). A non-positive jitterRange disables jitter and
// returns minInterval unchanged.
func NextInterval(minInterval, jitterRange time.Duration) time.Duration {
	if minInterval <= 0 {
		minInterval = time.Second
	}
	if jitterRange <= 0 {
		return minInterval
	}
	return minInterval + time.Duration(rand.Int64N(int64(jitterRange)))
}
