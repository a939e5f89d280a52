package kleene

import (
	"fmt"
	"slices"
)

// Completion The outcome of a finished reduction.
type Completion struct {
	// Expression is the label of the single remaining transition.
	Expression string
	// Empty is set when no transition remains: the graph accepts no strings.
	Empty bool
}

func (c Completion) String() string {
	if c.Empty {
		return "the graph has been successfully converted and does not accept any strings"
	}
	return "the graph has been successfully converted to the regular expression " + c.Expression
}

// CheckReducible Returns an error if reduction cannot start: there is no start state,
// or a label is not a regular expression (a *ValidationError).
func CheckReducible(a *Automaton) error {
	if len(a.GetStartStates()) == 0 {
		return ErrNoStartState
	}
	return ValidateLabels(a)
}

// UnifyStart
// If there is more than one start state, creates a new start state at pos, turns
// the old ones into intermediate states and links the new state to each of them
// with a λ transition. Returns the new state, or nil if there was nothing to do.
func UnifyStart(a *Automaton, pos Point) (*State, error) {
	starts := a.GetStartStates()
	if len(starts) <= 1 {
		return nil, nil
	}
	return replaceStates(a, STATE_START, starts, pos)
}

// UnifyFinal
// If there is more than one final state, creates a new final state at pos, turns
// the old ones into intermediate states and links each of them to the new state
// with a λ transition. Returns the new state, or nil if there was nothing to do.
func UnifyFinal(a *Automaton, pos Point) (*State, error) {
	finals := a.GetFinalStates()
	if len(finals) <= 1 {
		return nil, nil
	}
	return replaceStates(a, STATE_FINAL, finals, pos)
}

// Replaces olds by a single new state of the given kind, connected through λ transitions.
func replaceStates(a *Automaton, kind Kind, olds []*State, pos Point) (*State, error) {
	s, err := a.AddState(kind, "", pos)
	if err != nil {
		return nil, err
	}

	for _, old := range olds {
		old.demote()
		if kind == STATE_START {
			_, err = a.AddTransition(LambdaLabel, s.ID, old.ID)
		} else {
			_, err = a.AddTransition(LambdaLabel, old.ID, s.ID)
		}
		if err != nil {
			return nil, err
		}
	}
	return s, nil
}

// CombineParallel
// Merges transitions sharing source and target: the first one's label becomes
// "first+second" and the second one is removed. Scans again after every merge
// until no two transitions share their endpoints. Returns the number of merges.
func CombineParallel(a *Automaton) int {
	merges := 0
	for {
		t, t2 := findParallel(a)
		if t == nil {
			return merges
		}
		t.Label = t.Label + string(OpUnion) + t2.Label
		a.RemoveTransition(t2.ID)
		merges++
	}
}

func findParallel(a *Automaton) (*Transition, *Transition) {
	for i, t := range a.transitions {
		for _, t2 := range a.transitions[i+1:] {
			if t.From == t2.From && t.To == t2.To {
				return t, t2
			}
		}
	}
	return nil, nil
}

// RemoveSelfLoop
// Removes the loop transition with the given id, folding (L)* into the
// surrounding transitions: it is appended to every other transition entering the
// state or, if there is none, prepended to every other transition leaving it.
// A loop whose state has no other transition is rejected with ErrDetachedLoop.
// Parallel loops on one state should be combined first.
func RemoveSelfLoop(a *Automaton, id int) error {
	loop := a.GetTransitionById(id)
	if loop == nil {
		return fmt.Errorf("%w: %d", ErrTransitionNotFound, id)
	}
	if !loop.IsLoop() {
		return fmt.Errorf("%w: %d", ErrNotSelfLoop, id)
	}

	starred := string(OpOpen) + loop.Label + string(OpClose) + string(OpStar)
	others := func(ts []*Transition) []*Transition {
		return slices.DeleteFunc(ts, func(t *Transition) bool { return t.ID == loop.ID })
	}

	if incoming := others(a.Incoming(loop.To)); len(incoming) > 0 {
		for _, t := range incoming {
			t.Label = concatOperand(t.Label, a.alphabet) + starred
		}
	} else if outgoing := others(a.Outgoing(loop.From)); len(outgoing) > 0 {
		for _, t := range outgoing {
			t.Label = starred + concatOperand(t.Label, a.alphabet)
		}
	} else {
		return fmt.Errorf("%w: state %d", ErrDetachedLoop, loop.From)
	}

	a.RemoveTransition(loop.ID)
	return nil
}

// Wraps the label in parentheses if it is a top-level union, so that a factor
// concatenated to it applies to the whole label.
func concatOperand(label string, alpha Alphabet) string {
	if Derives(SYMBOL_CONCAT, Normalize(label, alpha), alpha) {
		return label
	}
	return string(OpOpen) + label + string(OpClose)
}

// RemoveSelfLoops Removes every self-loop in transition order. Nothing is changed if
// some state carries only loops.
func RemoveSelfLoops(a *Automaton) error {
	loops := make([]*Transition, 0)
	for _, t := range a.transitions {
		if t.IsLoop() {
			loops = append(loops, t)
		}
	}

	for _, loop := range loops {
		onlyLoops := true
		for _, t := range a.TransitionsOf(loop.From) {
			if !t.IsLoop() {
				onlyLoops = false
				break
			}
		}
		if onlyLoops {
			return fmt.Errorf("%w: state %d", ErrDetachedLoop, loop.From)
		}
	}

	for _, loop := range loops {
		if err := RemoveSelfLoop(a, loop.ID); err != nil {
			return err
		}
	}
	return nil
}

// EliminateState
// Removes an intermediate state. For every transition p -> state labeled P and
// every transition state -> f labeled F, a transition p -> f labeled (P)(F) is
// added; then the state and its transitions are removed. A state with a
// self-loop is rejected with ErrSelfLoop.
func EliminateState(a *Automaton, id int) error {
	s := a.GetStateById(id)
	if s == nil {
		return fmt.Errorf("%w: %d", ErrStateNotFound, id)
	}
	if slices.Contains(s.precedes, s.ID) {
		return fmt.Errorf("%w: state %d", ErrSelfLoop, id)
	}
	if s.Kind != STATE_INTERMEDIATE {
		return fmt.Errorf("%w: state %d is %s", ErrNotIntermediate, id, s.Kind)
	}

	incoming := a.Incoming(id)
	outgoing := a.Outgoing(id)
	for _, in := range incoming {
		for _, out := range outgoing {
			label := string(OpOpen) + in.Label + string(OpClose) +
				string(OpOpen) + out.Label + string(OpClose)
			if _, err := a.AddTransition(label, in.From, out.To); err != nil {
				return err
			}
		}
	}

	a.RemoveState(id)
	return nil
}

// CheckCompletion Reduction is complete when exactly two states and at most one
// transition remain.
func CheckCompletion(a *Automaton) (Completion, bool) {
	if a.GetNumStates() != 2 || a.GetNumTransitions() >= 2 {
		return Completion{}, false
	}
	if a.GetNumTransitions() == 0 {
		return Completion{Empty: true}, true
	}
	return Completion{Expression: a.transitions[0].Label}, true
}
