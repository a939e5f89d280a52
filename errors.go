package kleene

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNoStartState       = errors.New("a proper transition graph requires at least one start state")
	ErrNoFinalState       = errors.New("graph has no final state")
	ErrSelfLoop           = errors.New("remove loops first")
	ErrNotIntermediate    = errors.New("only intermediate states can be eliminated")
	ErrNotSelfLoop        = errors.New("transition is not a self-loop")
	ErrDetachedLoop       = errors.New("self-loop state has no other transitions")
	ErrStateNotFound      = errors.New("state not found")
	ErrTransitionNotFound = errors.New("transition not found")
	ErrTooClose           = errors.New("state is too close to another state")
	ErrInvalidAlphabet    = errors.New("the alphabet should just be letters separated by commas")
	ErrConverting         = errors.New("graph is being converted")
	ErrNotConverting      = errors.New("conversion has not been started")
)

// ValidationError lists the raw transition labels that are not regular
// expressions over the alphabet.
type ValidationError struct {
	Labels []string
}

func (e *ValidationError) Error() string {
	b := new(strings.Builder)
	b.WriteString("some transition labels are not proper regular expressions:")
	for _, label := range e.Labels {
		fmt.Fprintf(b, " %q", label)
	}
	return b.String()
}
