package automaton

import (
	"errors"
	"fmt"
)

// ErrResourceLimit is returned when a pipeline transform would allocate more
// states than BuildConfig.MaxStates allows.
var ErrResourceLimit = errors.New("automaton: state limit exceeded")

// BuildError describes a failure building or transforming an automaton that
// cannot be expressed as a sentinel, such as a deep copy whose end state is
// not reachable from its start state.
type BuildError struct {
	Stage   string
	State   StateID
	Message string
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("automaton: %s: %s (state %d)", e.Stage, e.Message, e.State)
}
