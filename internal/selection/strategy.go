// Package selection implements the pluggable provider-selection policies
// used by the dispatch core's eligible set: round-robin and uniform
// random. Both are stateful across calls and tolerate mutation of the
// eligible set between calls; neither is safe for concurrent use — the
// dispatch core holds a mutex over whichever Strategy it owns.
package selection

import "github.com/antohaby/load-balancer-exercise/internal/provider"

// Strategy hands out providers from a mutable eligible set. Include and
// Exclude are idempotent and report whether membership changed.
type Strategy interface {
	// HasNext reports whether the eligible set is non-empty.
	HasNext() bool
	// Next returns the next provider to serve. Precondition: HasNext().
	Next() provider.ID
	// Include adds p to the eligible set if absent. Returns true if the
	// set changed.
	Include(p provider.ID) bool
	// Exclude removes p from the eligible set if present. Returns true
	// if the set changed.
	Exclude(p provider.ID) bool
	// Size reports the current eligible-set size.
	Size() int
}
