package session

import (
	"context"
	"time"

	"github.com/skrybl/skrybl/compute"
)

// Field evaluation is debounced per field: each keystroke bumps the
// field's token and re-arms its timer, and a finished evaluation applies
// only while its token is still current. Under fast typing only the last
// expression is evaluated, and a slow evaluation of an old expression
// can never clobber the result of a newer one.

// EvaluateNumeric schedules a debounced numeric evaluation for fieldID.
// apply runs on the timer goroutine once the quiet period passes, unless
// a newer evaluation for the same field superseded this one.
func (s *Session) EvaluateNumeric(fieldID, expression string, apply func(compute.NumericResult)) {
	s.schedule(fieldID, s.cfg.NumericDelay, func(tok uint64) {
		res := s.cfg.Numeric.Evaluate(expression)
		if s.tokenCurrent(fieldID, tok) {
			apply(res)
		}
	})
}

// EvaluateSymbolic schedules a debounced symbolic evaluation for fieldID.
func (s *Session) EvaluateSymbolic(ctx context.Context, fieldID, expression string, op compute.SymbolicOp, variable string, apply func(compute.SymbolicResult)) {
	s.schedule(fieldID, s.cfg.SymbolicDelay, func(tok uint64) {
		res := s.cfg.Symbolic.Evaluate(ctx, expression, op, variable)
		if s.tokenCurrent(fieldID, tok) {
			apply(res)
		}
	})
}

func (s *Session) schedule(fieldID string, delay time.Duration, run func(tok uint64)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	s.evalTokens[fieldID]++
	tok := s.evalTokens[fieldID]

	if t := s.evalTimers[fieldID]; t != nil {
		t.Stop()
	}
	s.evalTimers[fieldID] = time.AfterFunc(delay, func() {
		run(tok)
	})
}

func (s *Session) tokenCurrent(fieldID string, tok uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.closed && s.evalTokens[fieldID] == tok
}
