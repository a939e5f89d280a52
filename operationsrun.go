package kleene

import (
	"fmt"

	u "github.com/araddon/gou"
)

// Step A structural rewrite applied by Run.
type Step int

const (
	STEP_UNIFY_START   = Step(iota) // Single start state
	STEP_UNIFY_FINAL                // Single final state
	STEP_ISOLATE_START              // Start state with no incoming transition
	STEP_ISOLATE_FINAL              // Final state with no outgoing transition
	STEP_TRIM                       // Useless states and transitions removed
	STEP_COMBINE                    // Parallel transitions merged
	STEP_REMOVE_LOOPS               // Self-loops folded into their neighbours
	STEP_ELIMINATE                  // One intermediate state eliminated
)

func (s Step) String() string {
	switch s {
	case STEP_UNIFY_START:
		return "unify start"
	case STEP_UNIFY_FINAL:
		return "unify final"
	case STEP_ISOLATE_START:
		return "isolate start"
	case STEP_ISOLATE_FINAL:
		return "isolate final"
	case STEP_TRIM:
		return "trim"
	case STEP_COMBINE:
		return "combine transitions"
	case STEP_REMOVE_LOOPS:
		return "remove loops"
	default:
		return "eliminate state"
	}
}

// StepObserver Called after every step of Run that changed the automaton.
type StepObserver func(step Step, a *Automaton)

type runOption struct {
	startPos *Point
	finalPos *Point
	observer StepObserver
}

type RunOption func(*runOption)

// WithStartPosition Where a new start state is placed. Defaults to the left of the graph.
func WithStartPosition(p Point) RunOption {
	return func(o *runOption) {
		o.startPos = &p
	}
}

// WithFinalPosition Where a new final state is placed. Defaults to the right of the graph.
func WithFinalPosition(p Point) RunOption {
	return func(o *runOption) {
		o.finalPos = &p
	}
}

func WithStepObserver(fn StepObserver) RunOption {
	return func(o *runOption) {
		o.observer = fn
	}
}

// Run Reduces the automaton to a single regular expression, choosing the steps
// itself: unify start and final states, make sure the start state has no
// incoming and the final state no outgoing transition, trim useless states,
// then combine parallel transitions, remove loops and eliminate intermediate
// states in creation order until CheckCompletion holds.
func Run(a *Automaton, options ...RunOption) (Completion, error) {
	opts := &runOption{}
	for _, fn := range options {
		fn(opts)
	}
	left, right := margins(a)
	if opts.startPos == nil {
		opts.startPos = &left
	}
	if opts.finalPos == nil {
		opts.finalPos = &right
	}
	notify := func(step Step) {
		u.Debugf("run: %s, %d states %d transitions", step, a.GetNumStates(), a.GetNumTransitions())
		if opts.observer != nil {
			opts.observer(step, a)
		}
	}

	if err := CheckReducible(a); err != nil {
		return Completion{}, err
	}
	if len(a.GetFinalStates()) == 0 {
		return Completion{}, ErrNoFinalState
	}

	if s, err := UnifyStart(a, *opts.startPos); err != nil {
		return Completion{}, err
	} else if s != nil {
		notify(STEP_UNIFY_START)
	}
	if s, err := UnifyFinal(a, *opts.finalPos); err != nil {
		return Completion{}, err
	} else if s != nil {
		notify(STEP_UNIFY_FINAL)
	}

	start := a.GetStartStates()[0]
	if len(a.Incoming(start.ID)) > 0 {
		if _, err := replaceStates(a, STATE_START, []*State{start}, *opts.startPos); err != nil {
			return Completion{}, err
		}
		notify(STEP_ISOLATE_START)
	}
	final := a.GetFinalStates()[0]
	if len(a.Outgoing(final.ID)) > 0 {
		if _, err := replaceStates(a, STATE_FINAL, []*State{final}, *opts.finalPos); err != nil {
			return Completion{}, err
		}
		notify(STEP_ISOLATE_FINAL)
	}

	if states, transitions := Trim(a); states+transitions > 0 {
		notify(STEP_TRIM)
	}

	for {
		if c, done := CheckCompletion(a); done {
			u.Infof("run: %s", c)
			return c, nil
		}

		if CombineParallel(a) > 0 {
			notify(STEP_COMBINE)
		}
		if hasLoop(a) {
			if err := RemoveSelfLoops(a); err != nil {
				return Completion{}, err
			}
			notify(STEP_REMOVE_LOOPS)
			continue
		}

		next := firstIntermediate(a)
		if next == nil {
			if c, done := CheckCompletion(a); done {
				u.Infof("run: %s", c)
				return c, nil
			}
			return Completion{}, fmt.Errorf("reduction stuck with %d states and %d transitions",
				a.GetNumStates(), a.GetNumTransitions())
		}
		if err := EliminateState(a, next.ID); err != nil {
			return Completion{}, err
		}
		notify(STEP_ELIMINATE)
	}
}

func hasLoop(a *Automaton) bool {
	for _, t := range a.transitions {
		if t.IsLoop() {
			return true
		}
	}
	return false
}

func firstIntermediate(a *Automaton) *State {
	for _, s := range a.states {
		if s.Kind == STATE_INTERMEDIATE {
			return s
		}
	}
	return nil
}

// Returns free positions to the left and to the right of every state.
func margins(a *Automaton) (left, right Point) {
	if len(a.states) == 0 {
		return Point{}, Point{X: 4 * StateRadius}
	}
	minX, maxX, sumY := a.states[0].Pos.X, a.states[0].Pos.X, 0.0
	for _, s := range a.states {
		minX = min(minX, s.Pos.X)
		maxX = max(maxX, s.Pos.X)
		sumY += s.Pos.Y
	}
	y := sumY / float64(len(a.states))
	return Point{X: minX - 4*StateRadius, Y: y}, Point{X: maxX + 4*StateRadius, Y: y}
}
