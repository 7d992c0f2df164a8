package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/skrybl/skrybl/compute"
)

// slowNumeric delays each evaluation by a per-expression duration so
// tests can force an old evaluation to finish after a newer one started.
type slowNumeric struct {
	inner *compute.Numeric
	delay map[string]time.Duration
}

func (s *slowNumeric) Evaluate(expression string) compute.NumericResult {
	if d, ok := s.delay[expression]; ok {
		time.Sleep(d)
	}
	return s.inner.Evaluate(expression)
}

type recordingSymbolic struct {
	mu    sync.Mutex
	calls []string
}

func (r *recordingSymbolic) Evaluate(_ context.Context, expression string, _ compute.SymbolicOp, _ string) compute.SymbolicResult {
	r.mu.Lock()
	r.calls = append(r.calls, expression)
	r.mu.Unlock()
	return compute.SymbolicResult{Result: "ok:" + expression}
}

func TestEvaluateNumericDelivers(t *testing.T) {
	s := testSession(t, Config{NumericDelay: 5 * time.Millisecond})

	got := make(chan compute.NumericResult, 1)
	s.EvaluateNumeric("f1", "2 + 2", func(res compute.NumericResult) {
		got <- res
	})

	select {
	case res := <-got:
		if res.Result == nil || *res.Result != "4" {
			t.Fatalf("expected 4, got %+v", res)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("evaluation never delivered")
	}
}

func TestEvaluateNumericDebouncesKeystrokes(t *testing.T) {
	s := testSession(t, Config{NumericDelay: 40 * time.Millisecond})

	results := make(chan string, 8)
	apply := func(res compute.NumericResult) {
		if res.Result != nil {
			results <- *res.Result
		}
	}

	// Simulated typing: "2", "2+", "2+3" in quick succession against the
	// same field. Only the last expression should evaluate.
	s.EvaluateNumeric("f1", "2", apply)
	time.Sleep(5 * time.Millisecond)
	s.EvaluateNumeric("f1", "2 +", apply)
	time.Sleep(5 * time.Millisecond)
	s.EvaluateNumeric("f1", "2 + 3", apply)

	select {
	case got := <-results:
		if got != "5" {
			t.Fatalf("expected only the final expression to evaluate, got %s", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("evaluation never delivered")
	}
	select {
	case got := <-results:
		t.Fatalf("superseded keystrokes must not deliver, got %s", got)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestStaleResultNeverApplies(t *testing.T) {
	slow := &slowNumeric{
		inner: compute.NewNumeric(),
		delay: map[string]time.Duration{"1 + 1": 80 * time.Millisecond},
	}
	s := testSession(t, Config{Numeric: slow, NumericDelay: time.Millisecond})

	results := make(chan string, 8)
	apply := func(res compute.NumericResult) {
		if res.Result != nil {
			results <- *res.Result
		}
	}

	// The slow evaluation starts first; the fast one supersedes it while
	// it is still running.
	s.EvaluateNumeric("f1", "1 + 1", apply)
	time.Sleep(20 * time.Millisecond)
	s.EvaluateNumeric("f1", "3 + 3", apply)

	select {
	case got := <-results:
		if got != "6" {
			t.Fatalf("expected the newer result, got %s", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("evaluation never delivered")
	}
	select {
	case got := <-results:
		t.Fatalf("stale result leaked through, got %s", got)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestFieldsDebounceIndependently(t *testing.T) {
	s := testSession(t, Config{NumericDelay: 10 * time.Millisecond})

	results := make(chan string, 2)
	apply := func(res compute.NumericResult) {
		if res.Result != nil {
			results <- *res.Result
		}
	}
	s.EvaluateNumeric("f1", "1 + 1", apply)
	s.EvaluateNumeric("f2", "2 + 2", apply)

	got := map[string]bool{}
	for i := 0; i < 2; i++ {
		select {
		case r := <-results:
			got[r] = true
		case <-time.After(2 * time.Second):
			t.Fatal("evaluations never delivered")
		}
	}
	if !got["2"] || !got["4"] {
		t.Fatalf("expected both fields to evaluate, got %v", got)
	}
}

func TestEvaluateSymbolic(t *testing.T) {
	rec := &recordingSymbolic{}
	s := testSession(t, Config{Symbolic: rec, SymbolicDelay: 5 * time.Millisecond})

	got := make(chan compute.SymbolicResult, 1)
	s.EvaluateSymbolic(context.Background(), "sym1", "x^2", compute.OpDifferentiate, "x",
		func(res compute.SymbolicResult) { got <- res })

	select {
	case res := <-got:
		if res.Result != "ok:x^2" {
			t.Fatalf("unexpected result %+v", res)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("evaluation never delivered")
	}
}

func TestClosedSessionDropsEvaluations(t *testing.T) {
	s := New(Config{Numeric: compute.NewNumeric(), NumericDelay: 5 * time.Millisecond})
	s.Close()

	delivered := make(chan struct{}, 1)
	s.EvaluateNumeric("f1", "2 + 2", func(compute.NumericResult) {
		delivered <- struct{}{}
	})

	select {
	case <-delivered:
		t.Fatal("closed session must not deliver evaluations")
	case <-time.After(100 * time.Millisecond):
	}
}
