package query

import (
	"context"
	"testing"
	"time"

	"github.com/azybler/transitch/pkg/transit"
)

// A canceled context terminates the loop on its first iteration and
// surfaces the best-known partial at the last-settled node, at that point
// still the source itself.
func TestFCH_CanceledContext(t *testing.T) {
	_, cg := buildAndContract(t, threeStopLineConns(), nil)
	fch := New(cg)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res := fch.Run(ctx, 1, 3, 0, DefaultOptions())

	if res.Outcome != OutcomeTimeout {
		t.Fatalf("outcome = %v, want timeout", res.Outcome)
	}
	if len(res.Path) != 1 || res.Path[0] != 1 {
		t.Errorf("path = %v, want the partial [1]", res.Path)
	}
	if res.Arrival != 0 {
		t.Errorf("arrival = %d, want the start time 0", res.Arrival)
	}
}

// An already-expired wall-clock budget behaves like a canceled context:
// the check at the top of the loop fires before any relaxation.
func TestFCH_TimeoutBudget(t *testing.T) {
	_, cg := buildAndContract(t, threeStopLineConns(), nil)
	fch := New(cg)

	opts := DefaultOptions()
	opts.Timeout = time.Nanosecond
	res := fch.Run(context.Background(), 1, 3, 0, opts)

	if res.Outcome != OutcomeTimeout {
		t.Fatalf("outcome = %v, want timeout", res.Outcome)
	}
	if res.Arrival == transit.Unbounded {
		t.Error("timeout should report the partial's weight, not unbounded")
	}
}
