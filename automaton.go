package kleene

import (
	"fmt"
	"math"
	"slices"

	u "github.com/araddon/gou"
	"github.com/samber/lo"
)

type Kind int

const (
	STATE_INTERMEDIATE = Kind(iota) // A state that is neither start nor final
	STATE_START                     // An initial state
	STATE_FINAL                     // An accepting state
)

func (k Kind) String() string {
	switch k {
	case STATE_START:
		return "START"
	case STATE_FINAL:
		return "FINAL"
	default:
		return "INTERMEDIATE"
	}
}

// ParseKind Parses START, FINAL or INTERMEDIATE. Anything else is an intermediate state, as a
// user-supplied label is.
func ParseKind(s string) Kind {
	switch s {
	case "START", "start":
		return STATE_START
	case "FINAL", "final":
		return STATE_FINAL
	default:
		return STATE_INTERMEDIATE
	}
}

const (
	// StateRadius Radius of a drawn state; transitions start and end on this circle.
	StateRadius = 30.0

	startLabel = "START"
	finalLabel = "+"
)

// Point A position on the drawing surface.
type Point struct {
	X, Y float64
}

func (p Point) distance(o Point) float64 {
	return math.Hypot(p.X-o.X, p.Y-o.Y)
}

// Returns the point on the circle of radius StateRadius around p that faces toward.
func (p Point) edgeToward(toward Point) Point {
	angle := math.Atan2(toward.Y-p.Y, toward.X-p.X)
	return Point{
		X: p.X + StateRadius*math.Cos(angle),
		Y: p.Y + StateRadius*math.Sin(angle),
	}
}

// State A node of the automaton.
type State struct {
	ID    int
	Kind  Kind
	Label string
	Pos   Point

	// Ids of the states with a transition into this state, one entry per transition.
	follows []int
	// Ids of the states this state has a transition to, one entry per transition.
	precedes []int
}

// Predecessors Returns the ids of the states with a transition into this state, one
// entry per incoming transition.
func (s *State) Predecessors() []int {
	return slices.Clone(s.follows)
}

// Successors Returns the ids of the states this state has a transition to, one entry
// per outgoing transition.
func (s *State) Successors() []int {
	return slices.Clone(s.precedes)
}

// Turns a start or final state into an intermediate one, clearing its label.
func (s *State) demote() {
	if s.Kind == STATE_START || s.Kind == STATE_FINAL {
		s.Kind = STATE_INTERMEDIATE
		s.Label = ""
	}
}

func (s *State) clone() *State {
	c := *s
	c.follows = slices.Clone(s.follows)
	c.precedes = slices.Clone(s.precedes)
	return &c
}

// Transition A labeled edge. Tail and Head are the endpoints of the drawn arrow.
type Transition struct {
	ID    int
	Label string
	From  int
	To    int
	Tail  Point
	Head  Point
}

// IsLoop Returns true if the transition leaves and enters the same state.
func (t *Transition) IsLoop() bool {
	return t.From == t.To
}

type automatonOption struct {
	alphabet Alphabet
	spacing  float64
}

type AutomatonOption func(*automatonOption)

// WithAlphabet Sets the initial alphabet. An alphabet rejected by Alphabet.Validate
// is ignored and the previous one is kept.
func WithAlphabet(alpha Alphabet) AutomatonOption {
	return func(o *automatonOption) {
		if err := alpha.Validate(); err != nil {
			u.Warnf("automaton: alphabet ignored: %v", err)
			return
		}
		o.alphabet = alpha.clone()
	}
}

// WithStateSpacing Rejects new states closer than d to an existing one. Zero disables
// the check.
func WithStateSpacing(d float64) AutomatonOption {
	return func(o *automatonOption) {
		o.spacing = d
	}
}

// Automaton A labeled directed graph whose transition labels are regular expression
// fragments. States and transitions share one id space; an id is never reused.
// The adjacency caches of every state reflect the transition set: each transition
// contributes one entry to its source's successors and one to its target's
// predecessors.
type Automaton struct {
	alphabet    Alphabet
	states      []*State
	transitions []*Transition
	nextID      int
	spacing     float64
}

func NewAutomaton(options ...AutomatonOption) *Automaton {
	opts := &automatonOption{
		alphabet: DefaultAlphabet(),
	}
	for _, fn := range options {
		fn(opts)
	}

	return &Automaton{
		alphabet:    opts.alphabet,
		states:      make([]*State, 0),
		transitions: make([]*Transition, 0),
		spacing:     opts.spacing,
	}
}

func (a *Automaton) newID() int {
	a.nextID++
	return a.nextID
}

// Alphabet Returns a copy of the alphabet.
func (a *Automaton) Alphabet() Alphabet {
	return a.alphabet.clone()
}

// SetAlphabet Replaces the alphabet. Existing labels are not revalidated.
func (a *Automaton) SetAlphabet(alpha Alphabet) error {
	if err := alpha.Validate(); err != nil {
		return err
	}
	a.alphabet = alpha.clone()
	return nil
}

// AddState Creates a state of the given kind at pos. Start and final states get
// their fixed display label; label is only used for intermediate states.
func (a *Automaton) AddState(kind Kind, label string, pos Point) (*State, error) {
	if a.spacing > 0 {
		for _, s := range a.states {
			if s.Pos.distance(pos) < a.spacing {
				return nil, fmt.Errorf("%w: state %d at (%g, %g)", ErrTooClose, s.ID, s.Pos.X, s.Pos.Y)
			}
		}
	}

	switch kind {
	case STATE_START:
		label = startLabel
	case STATE_FINAL:
		label = finalLabel
	}

	s := &State{
		ID:       a.newID(),
		Kind:     kind,
		Label:    label,
		Pos:      pos,
		follows:  make([]int, 0),
		precedes: make([]int, 0),
	}
	a.states = append(a.states, s)
	return s, nil
}

// AddTransition Adds a transition from -> to. Parallel transitions are allowed.
func (a *Automaton) AddTransition(label string, from, to int) (*Transition, error) {
	fromState := a.GetStateById(from)
	if fromState == nil {
		return nil, fmt.Errorf("%w: %d", ErrStateNotFound, from)
	}
	toState := a.GetStateById(to)
	if toState == nil {
		return nil, fmt.Errorf("%w: %d", ErrStateNotFound, to)
	}

	fromState.precedes = append(fromState.precedes, to)
	toState.follows = append(toState.follows, from)

	t := &Transition{
		ID:    a.newID(),
		Label: label,
		From:  from,
		To:    to,
		Tail:  fromState.Pos.edgeToward(toState.Pos),
		Head:  toState.Pos.edgeToward(fromState.Pos),
	}
	a.transitions = append(a.transitions, t)
	return t, nil
}

// RemoveState Removes the state and every transition touching it. Returns false if
// there is no such state.
func (a *Automaton) RemoveState(id int) bool {
	idx := slices.IndexFunc(a.states, func(s *State) bool { return s.ID == id })
	if idx == -1 {
		return false
	}

	for _, t := range a.TransitionsOf(id) {
		a.RemoveTransition(t.ID)
	}
	a.states = slices.Delete(a.states, idx, idx+1)
	return true
}

// RemoveTransition Removes the transition and clears the first matching slot of each
// endpoint's adjacency cache. Returns false if there is no such transition.
func (a *Automaton) RemoveTransition(id int) bool {
	idx := slices.IndexFunc(a.transitions, func(t *Transition) bool { return t.ID == id })
	if idx == -1 {
		return false
	}
	t := a.transitions[idx]
	a.transitions = slices.Delete(a.transitions, idx, idx+1)

	if from := a.GetStateById(t.From); from != nil {
		from.precedes = removeFirst(from.precedes, t.To)
	}
	if to := a.GetStateById(t.To); to != nil {
		to.follows = removeFirst(to.follows, t.From)
	}
	return true
}

func removeFirst(ids []int, id int) []int {
	if i := slices.Index(ids, id); i != -1 {
		return slices.Delete(ids, i, i+1)
	}
	return ids
}

// GetStateById Returns the state with the given id, or nil.
func (a *Automaton) GetStateById(id int) *State {
	for _, s := range a.states {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// GetTransitionById Returns the transition with the given id, or nil.
func (a *Automaton) GetTransitionById(id int) *Transition {
	for _, t := range a.transitions {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// GetTransitionBySubjects Returns the first transition from -> to, or nil.
func (a *Automaton) GetTransitionBySubjects(from, to int) *Transition {
	for _, t := range a.transitions {
		if t.From == from && t.To == to {
			return t
		}
	}
	return nil
}

func (a *Automaton) GetStartStates() []*State {
	return a.statesOfKind(STATE_START)
}

func (a *Automaton) GetFinalStates() []*State {
	return a.statesOfKind(STATE_FINAL)
}

func (a *Automaton) statesOfKind(kind Kind) []*State {
	return lo.Filter(a.states, func(s *State, _ int) bool {
		return s.Kind == kind
	})
}

// States Returns the states in creation order. The slice is a copy, the states are not.
func (a *Automaton) States() []*State {
	return slices.Clone(a.states)
}

// Transitions Returns the transitions in creation order. The slice is a copy, the
// transitions are not.
func (a *Automaton) Transitions() []*Transition {
	return slices.Clone(a.transitions)
}

// TransitionsOf Returns every transition leaving or entering the state.
func (a *Automaton) TransitionsOf(id int) []*Transition {
	return lo.Filter(a.transitions, func(t *Transition, _ int) bool {
		return t.From == id || t.To == id
	})
}

// Incoming Returns the transitions entering the state, self-loops included.
func (a *Automaton) Incoming(id int) []*Transition {
	return lo.Filter(a.transitions, func(t *Transition, _ int) bool {
		return t.To == id
	})
}

// Outgoing Returns the transitions leaving the state, self-loops included.
func (a *Automaton) Outgoing(id int) []*Transition {
	return lo.Filter(a.transitions, func(t *Transition, _ int) bool {
		return t.From == id
	})
}

// GetNumStates How many states this automaton has.
func (a *Automaton) GetNumStates() int {
	return len(a.states)
}

// GetNumTransitions How many transitions this automaton has.
func (a *Automaton) GetNumTransitions() int {
	return len(a.transitions)
}

// Clear Drops every state and transition. The alphabet is kept.
func (a *Automaton) Clear() {
	a.states = make([]*State, 0)
	a.transitions = make([]*Transition, 0)
}

// Clone Copies the alphabet, states and transitions into target, replacing its
// contents. Ids and adjacency caches are preserved. The id counter of target never
// moves backwards, so ids handed out before the copy are not handed out again.
func (a *Automaton) Clone(target *Automaton) {
	target.alphabet = a.alphabet.clone()
	target.spacing = a.spacing
	target.nextID = max(target.nextID, a.nextID)

	target.states = make([]*State, 0, len(a.states))
	for _, s := range a.states {
		target.states = append(target.states, s.clone())
	}

	target.transitions = make([]*Transition, 0, len(a.transitions))
	for _, t := range a.transitions {
		c := *t
		target.transitions = append(target.transitions, &c)
	}
}

// Labels Returns the label of every transition in order.
func (a *Automaton) Labels() []string {
	return lo.Map(a.transitions, func(t *Transition, _ int) string {
		return t.Label
	})
}
