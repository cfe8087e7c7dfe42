package selection

import "github.com/antohaby/load-balancer-exercise/internal/provider"

// RoundRobin serves providers in a stable, insertion-order rotation. The
// cursor resets to 0 on any inclusion or exclusion, so fairness here is
// approximate balance over time rather than a strict per-cycle guarantee.
type RoundRobin struct {
	order   []provider.ID
	present map[provider.ID]struct{}
	cursor  int
}

// NewRoundRobin creates an empty round-robin strategy.
func NewRoundRobin() *RoundRobin {
	return &RoundRobin{present: make(map[provider.ID]struct{})}
}

func (s *RoundRobin) HasNext() bool { return len(s.order) > 0 }

func (s *RoundRobin) Next() provider.ID {
	p := s.order[s.cursor%len(s.order)]
	s.cursor++
	return p
}

func (s *RoundRobin) Include(p provider.ID) bool {
	if _, ok := s.present[p]; ok {
		return false
	}
	s.present[p] = struct{}{}
	s.order = append(s.order, p)
	s.cursor = 0
	return true
}

func (s *RoundRobin) Exclude(p provider.ID) bool {
	if _, ok := s.present[p]; !ok {
		return false
	}
	delete(s.present, p)
	for i, id := range s.order {
		if id == p {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.cursor = 0
	return true
}

func (s *RoundRobin) Size() int { return len(s.order) }

// SeedCursor sets the starting cursor position directly, bypassing the
// usual reset-to-zero on Include/Exclude; the next Include or Exclude
// resets it to 0 as usual. The balancer calls this once, right after
// admitting a non-empty initial snapshot, with an offset derived from
// the fingerprints of the snapshot's ids. That offset depends only on
// the set of ids, so instances admitting the same set compute the same
// offset.
func (s *RoundRobin) SeedCursor(offset int) {
	if len(s.order) == 0 {
		return
	}
	s.cursor = offset % len(s.order)
}
