// Package fingerprint derives a stable, collision-tolerant 64-bit
// fingerprint from a provider id, for use in log correlation and as a
// deterministic seed — never as a substitute for identity.
package fingerprint

import (
	"github.com/zeebo/xxh3"

	"github.com/antohaby/load-balancer-exercise/internal/provider"
)

// Of hashes a provider id with xxh3. Two distinct ids may in principle
// collide; callers must never use the fingerprint as a uniqueness key,
// only as a best-effort log/seed value.
func Of(id provider.ID) uint64 {
	return xxh3.HashString(string(id))
}
