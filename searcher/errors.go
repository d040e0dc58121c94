package searcher

import (
	"errors"
	"fmt"
)

// ErrNoLegalActions reports a non-terminal state without legal actions, which
// breaks the game contract.
var ErrNoLegalActions = errors.New("non-terminal state has no legal actions")

// PreconditionError is the panic value for engine misuse, such as choosing a
// move from a terminal node. It is never returned as an error.
type PreconditionError struct {
	Op     string
	Reason string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

func violate(op, reason string) {
	panic(&PreconditionError{Op: op, Reason: reason})
}
