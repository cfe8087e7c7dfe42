package selection

import (
	"math/rand/v2"

	"github.com/antohaby/load-balancer-exercise/internal/provider"
)

// Random serves providers drawn uniformly from the eligible set using a
// caller-supplied pseudorandom source (seeded for determinism in tests).
// It draws a single uniform pick rather than scoring candidates by load
// or latency; weighted selection is not implemented here.
type Random struct {
	order   []provider.ID
	present map[provider.ID]int // id -> index in order, for O(1) exclude
	rng     *rand.Rand
}

// NewRandom creates an empty uniform-random strategy using rng as its
// pseudorandom source.
func NewRandom(rng *rand.Rand) *Random {
	return &Random{present: make(map[provider.ID]int), rng: rng}
}

func (s *Random) HasNext() bool { return len(s.order) > 0 }

func (s *Random) Next() provider.ID {
	idx := s.rng.IntN(len(s.order))
	return s.order[idx]
}

func (s *Random) Include(p provider.ID) bool {
	if _, ok := s.present[p]; ok {
		return false
	}
	s.present[p] = len(s.order)
	s.order = append(s.order, p)
	return true
}

func (s *Random) Exclude(p provider.ID) bool {
	idx, ok := s.present[p]
	if !ok {
		return false
	}
	last := len(s.order) - 1
	moved := s.order[last]
	s.order[idx] = moved
	s.present[moved] = idx
	s.order = s.order[:last]
	delete(s.present, p)
	return true
}

func (s *Random) Size() int { return len(s.order) }
