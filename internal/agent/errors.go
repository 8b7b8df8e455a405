package agent

import (
	"errors"
	"fmt"
)

// ErrLoopBudgetExceeded means the model kept requesting tools past the
// configured maximum number of dispatch cycles.
var ErrLoopBudgetExceeded = errors.New("tool dispatch budget exceeded")

// OrchestrationError terminates a loop run without producing a message. It
// carries the cycle at which the gateway call failed; the turn remains
// retryable for the caller.
type OrchestrationError struct {
	Cycle int
	Err   error
}

func (e *OrchestrationError) Error() string {
	return fmt.Sprintf("orchestration failed at cycle %d: %v", e.Cycle, e.Err)
}

func (e *OrchestrationError) Unwrap() error { return e.Err }
