package game

import (
	"errors"
	"fmt"
)

// ErrCorruptLevel marks level data the simulation cannot run with.
var ErrCorruptLevel = errors.New("corrupt level data")

// FatalError is raised (as a panic) from inside a simulation step when the
// level data turns out to be inconsistent. Engine.Run recovers it and returns
// it as an ordinary error.
type FatalError struct {
	Op  string
	Err error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("fatal during %s: %v", e.Op, e.Err)
}

func (e *FatalError) Unwrap() error { return e.Err }

// fatalf aborts the current step.
func fatalf(op, format string, args ...any) {
	panic(&FatalError{Op: op, Err: fmt.Errorf("%w: "+format, append([]any{ErrCorruptLevel}, args...)...)})
}
