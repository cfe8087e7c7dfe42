package testutil

import (
	"context"
	"sync"
)

// ScriptedCheck replays a fixed sequence of probe results, one per
// call. Once exhausted it keeps returning the last scripted result.
type ScriptedCheck struct {
	mu     sync.Mutex
	script []bool
	idx    int
}

// NewScriptedCheck creates a check function driven by script.
func NewScriptedCheck(script []bool) *ScriptedCheck {
	return &ScriptedCheck{script: script}
}

// Next implements the heartbeat.CheckFunc signature.
func (s *ScriptedCheck) Next(_ context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.script) == 0 {
		return true
	}
	v := s.script[s.idx]
	if s.idx < len(s.script)-1 {
		s.idx++
	}
	return v
}
