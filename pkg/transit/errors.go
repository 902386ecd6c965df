package transit

import "errors"

// Unreachable and timeout outcomes are recovered locally and reported in
// a query result; an invariant violation indicates a bug and is fatal.
var (
	ErrUnreachable        = errors.New("transit: target unreachable")
	ErrInvariantViolation = errors.New("transit: invariant violation")
	ErrMixedWalkBudget    = errors.New("transit: cannot mix bounded and unbounded max_walk_duration in one run")
)
