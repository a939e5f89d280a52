package kleene

import (
	"fmt"

	u "github.com/araddon/gou"
)

// Session An editing and conversion session over one automaton. It owns the live
// automaton and a single undo slot. Every command that changes the automaton
// first copies it. On success the copy replaces the undo slot; on failure it is
// copied back, so a rejected command changes nothing.
//
// While converting, editing commands are rejected with ErrConverting and the
// conversion steps are available. When a step leaves the automaton complete,
// the session stops converting and calls the OnComplete listeners.
//
// A Session is not safe for concurrent use.
type Session struct {
	live       *Automaton
	saved      *Automaton
	converting bool
	completion *Completion
	listeners  []func(Completion)
}

func NewSession(options ...AutomatonOption) *Session {
	return &Session{
		live: NewAutomaton(options...),
	}
}

// Automaton Returns the live automaton. Changes made to it directly bypass the
// undo slot.
func (s *Session) Automaton() *Automaton {
	return s.live
}

// Converting Returns true between StartConversion and completion or QuitConversion.
func (s *Session) Converting() bool {
	return s.converting
}

// Completion Returns the result of the last finished conversion.
func (s *Session) Completion() (Completion, bool) {
	if s.completion == nil {
		return Completion{}, false
	}
	return *s.completion, true
}

// OnComplete Registers a listener called each time a conversion finishes.
func (s *Session) OnComplete(fn func(Completion)) {
	s.listeners = append(s.listeners, fn)
}

// Checkpoint Copies the live automaton into the undo slot.
func (s *Session) Checkpoint() {
	s.saved = NewAutomaton()
	s.live.Clone(s.saved)
	u.Debugf("session: checkpoint, %d states %d transitions", s.saved.GetNumStates(), s.saved.GetNumTransitions())
}

// Undo Restores the automaton saved by the last successful command. Undoing twice
// has the same effect as undoing once.
func (s *Session) Undo() {
	if s.saved == nil {
		return
	}
	s.saved.Clone(s.live)
	u.Debugf("session: undo, %d states %d transitions", s.live.GetNumStates(), s.live.GetNumTransitions())
}

func (s *Session) mutate(name string, fn func() error) error {
	pending := NewAutomaton()
	s.live.Clone(pending)

	if err := fn(); err != nil {
		pending.Clone(s.live)
		u.Warnf("session: %s rejected: %v", name, err)
		return err
	}
	s.saved = pending
	u.Debugf("session: %s, %d states %d transitions", name, s.live.GetNumStates(), s.live.GetNumTransitions())
	return nil
}

func (s *Session) edit(name string, fn func() error) error {
	if s.converting {
		u.Warnf("session: %s rejected: %v", name, ErrConverting)
		return ErrConverting
	}
	return s.mutate(name, fn)
}

// AddState Adds a state, see Automaton.AddState.
func (s *Session) AddState(kind Kind, label string, pos Point) (*State, error) {
	var state *State
	err := s.edit("add state", func() (err error) {
		state, err = s.live.AddState(kind, label, pos)
		return err
	})
	return state, err
}

// AddTransition Adds a transition, see Automaton.AddTransition.
func (s *Session) AddTransition(label string, from, to int) (*Transition, error) {
	var t *Transition
	err := s.edit("add transition", func() (err error) {
		t, err = s.live.AddTransition(label, from, to)
		return err
	})
	return t, err
}

// Remove Removes the state with the given id or, if there is none, the transition.
func (s *Session) Remove(id int) error {
	return s.edit("remove", func() error {
		if s.live.RemoveState(id) || s.live.RemoveTransition(id) {
			return nil
		}
		return fmt.Errorf("%w: no state or transition %d", ErrStateNotFound, id)
	})
}

func (s *Session) SetAlphabet(alpha Alphabet) error {
	return s.edit("set alphabet", func() error {
		return s.live.SetAlphabet(alpha)
	})
}

// Clear Drops every state and transition, keeping the alphabet.
func (s *Session) Clear() error {
	return s.edit("clear", func() error {
		s.live.Clear()
		return nil
	})
}

// StartConversion Checks that the automaton has a start state and that every label
// is a regular expression, then enters conversion mode.
func (s *Session) StartConversion() error {
	if s.converting {
		return ErrConverting
	}
	if err := CheckReducible(s.live); err != nil {
		u.Warnf("session: conversion rejected: %v", err)
		return err
	}
	s.converting = true
	s.completion = nil
	u.Debugf("session: conversion started")
	return nil
}

// QuitConversion Leaves conversion mode without a result.
func (s *Session) QuitConversion() {
	s.converting = false
}

func (s *Session) convert(name string, fn func() error) error {
	if !s.converting {
		u.Warnf("session: %s rejected: %v", name, ErrNotConverting)
		return ErrNotConverting
	}
	if err := s.mutate(name, fn); err != nil {
		return err
	}
	s.checkCompletion()
	return nil
}

func (s *Session) checkCompletion() {
	c, done := CheckCompletion(s.live)
	if !done {
		return
	}
	s.converting = false
	s.completion = &c
	u.Infof("session: %s", c)
	for _, fn := range s.listeners {
		fn(c)
	}
}

// UnifyStart See UnifyStart.
func (s *Session) UnifyStart(pos Point) error {
	return s.convert("unify start", func() error {
		_, err := UnifyStart(s.live, pos)
		return err
	})
}

// UnifyFinal See UnifyFinal.
func (s *Session) UnifyFinal(pos Point) error {
	return s.convert("unify final", func() error {
		_, err := UnifyFinal(s.live, pos)
		return err
	})
}

func (s *Session) CombineParallel() error {
	return s.convert("combine transitions", func() error {
		CombineParallel(s.live)
		return nil
	})
}

func (s *Session) RemoveSelfLoop(id int) error {
	return s.convert("remove loop", func() error {
		return RemoveSelfLoop(s.live, id)
	})
}

func (s *Session) RemoveSelfLoops() error {
	return s.convert("remove loops", func() error {
		return RemoveSelfLoops(s.live)
	})
}

func (s *Session) EliminateState(id int) error {
	return s.convert("eliminate state", func() error {
		return EliminateState(s.live, id)
	})
}

// Run Finishes the conversion automatically, see Run.
func (s *Session) Run(options ...RunOption) (Completion, error) {
	var c Completion
	err := s.convert("run", func() (err error) {
		c, err = Run(s.live, options...)
		return err
	})
	return c, err
}
