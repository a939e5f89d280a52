package kleene

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

// newLineSession edits START -a-> 1 -b-> FINAL through a session.
func newLineSession(t *testing.T) (*Session, int, int, int) {
	s := NewSession()
	start, err := s.AddState(STATE_START, "", Point{X: 0})
	assert.Nil(t, err)
	q, err := s.AddState(STATE_INTERMEDIATE, "1", Point{X: 100})
	assert.Nil(t, err)
	final, err := s.AddState(STATE_FINAL, "", Point{X: 200})
	assert.Nil(t, err)
	_, err = s.AddTransition("a", start.ID, q.ID)
	assert.Nil(t, err)
	_, err = s.AddTransition("b", q.ID, final.ID)
	assert.Nil(t, err)
	return s, start.ID, q.ID, final.ID
}

func TestSession_Undo(t *testing.T) {
	t.Run("nothing to undo", func(t *testing.T) {
		s := NewSession()
		s.Undo()
		assert.Equal(t, 0, s.Automaton().GetNumStates())
	})

	t.Run("one step", func(t *testing.T) {
		s, start, q, _ := newLineSession(t)
		_, err := s.AddTransition("a", q, start)
		assert.Nil(t, err)
		assert.Equal(t, 3, s.Automaton().GetNumTransitions())

		s.Undo()
		assert.Equal(t, 2, s.Automaton().GetNumTransitions())
		assert.Equal(t, []int{q}, s.Automaton().GetStateById(start).Successors())

		s.Undo()
		assert.Equal(t, 2, s.Automaton().GetNumTransitions())
	})

	t.Run("remove state", func(t *testing.T) {
		s, start, q, final := newLineSession(t)
		assert.Nil(t, s.Remove(q))
		assert.Equal(t, 2, s.Automaton().GetNumStates())
		assert.Equal(t, 0, s.Automaton().GetNumTransitions())

		s.Undo()
		assert.NotNil(t, s.Automaton().GetStateById(q))
		assert.Equal(t, []int{q}, s.Automaton().GetStateById(start).Successors())
		assert.Equal(t, []int{q}, s.Automaton().GetStateById(final).Predecessors())
	})

	t.Run("remove transition", func(t *testing.T) {
		s, start, q, _ := newLineSession(t)
		tr := s.Automaton().GetTransitionBySubjects(start, q)
		assert.Nil(t, s.Remove(tr.ID))
		assert.Nil(t, s.Automaton().GetTransitionById(tr.ID))
		assert.ErrorIs(t, s.Remove(tr.ID), ErrStateNotFound)

		s.Undo()
		assert.Equal(t, "a", s.Automaton().GetTransitionById(tr.ID).Label)
	})

	t.Run("rejected command keeps slot", func(t *testing.T) {
		s, _, q, _ := newLineSession(t)
		assert.Nil(t, s.Remove(q))
		_, err := s.AddTransition("a", q, q)
		assert.ErrorIs(t, err, ErrStateNotFound)

		s.Undo()
		assert.NotNil(t, s.Automaton().GetStateById(q))
	})

	t.Run("ids after undo", func(t *testing.T) {
		s, _, _, _ := newLineSession(t)
		added, err := s.AddState(STATE_INTERMEDIATE, "", Point{X: 300})
		assert.Nil(t, err)
		s.Undo()
		again, err := s.AddState(STATE_INTERMEDIATE, "", Point{X: 300})
		assert.Nil(t, err)
		assert.NotEqual(t, added.ID, again.ID)
	})

	t.Run("clear keeps alphabet", func(t *testing.T) {
		s, _, _, _ := newLineSession(t)
		assert.Nil(t, s.SetAlphabet(Alphabet{'a', 'b', 'c'}))
		assert.Nil(t, s.Clear())
		assert.Equal(t, 0, s.Automaton().GetNumStates())
		assert.Equal(t, Alphabet{'a', 'b', 'c'}, s.Automaton().Alphabet())

		s.Undo()
		assert.Equal(t, 3, s.Automaton().GetNumStates())
	})

	t.Run("alphabet", func(t *testing.T) {
		s := NewSession()
		assert.ErrorIs(t, s.SetAlphabet(Alphabet{'+'}), ErrInvalidAlphabet)
		assert.Nil(t, s.SetAlphabet(Alphabet{'x'}))
		s.Undo()
		assert.Equal(t, DefaultAlphabet(), s.Automaton().Alphabet())
	})

	t.Run("checkpoint", func(t *testing.T) {
		s, start, _, _ := newLineSession(t)
		s.Checkpoint()
		s.Automaton().GetStateById(start).Label = "changed"
		s.Undo()
		assert.Equal(t, "START", s.Automaton().GetStateById(start).Label)
	})
}

func TestSession_Conversion(t *testing.T) {
	t.Run("not converting", func(t *testing.T) {
		s, _, q, _ := newLineSession(t)
		assert.ErrorIs(t, s.EliminateState(q), ErrNotConverting)
		assert.ErrorIs(t, s.CombineParallel(), ErrNotConverting)
		assert.ErrorIs(t, s.RemoveSelfLoops(), ErrNotConverting)
		assert.ErrorIs(t, s.UnifyStart(Point{}), ErrNotConverting)
		assert.ErrorIs(t, s.UnifyFinal(Point{}), ErrNotConverting)
		_, err := s.Run()
		assert.ErrorIs(t, err, ErrNotConverting)
		assert.Equal(t, 3, s.Automaton().GetNumStates())
	})

	t.Run("start rejected", func(t *testing.T) {
		s := NewSession()
		assert.ErrorIs(t, s.StartConversion(), ErrNoStartState)
		assert.False(t, s.Converting())

		start, _ := s.AddState(STATE_START, "", Point{})
		_, _ = s.AddTransition("ab+", start.ID, start.ID)
		err := s.StartConversion()
		var verr *ValidationError
		assert.True(t, errors.As(err, &verr))
		assert.Equal(t, []string{"ab+"}, verr.Labels)
		assert.False(t, s.Converting())
	})

	t.Run("editing locked", func(t *testing.T) {
		s, start, q, _ := newLineSession(t)
		assert.Nil(t, s.StartConversion())
		assert.True(t, s.Converting())
		assert.ErrorIs(t, s.StartConversion(), ErrConverting)

		_, err := s.AddState(STATE_INTERMEDIATE, "", Point{})
		assert.ErrorIs(t, err, ErrConverting)
		_, err = s.AddTransition("a", start, q)
		assert.ErrorIs(t, err, ErrConverting)
		assert.ErrorIs(t, s.Remove(q), ErrConverting)
		assert.ErrorIs(t, s.SetAlphabet(Alphabet{'x'}), ErrConverting)
		assert.ErrorIs(t, s.Clear(), ErrConverting)
		assert.Equal(t, 3, s.Automaton().GetNumStates())

		s.QuitConversion()
		assert.False(t, s.Converting())
		assert.Nil(t, s.Remove(q))
	})

	t.Run("by hand", func(t *testing.T) {
		s, start, q, final := newLineSession(t)
		_, _ = s.AddTransition("a", q, q)
		_, _ = s.AddTransition("b", start, final)

		completions := make([]Completion, 0)
		s.OnComplete(func(c Completion) {
			completions = append(completions, c)
		})

		assert.Nil(t, s.StartConversion())
		assert.ErrorIs(t, s.EliminateState(q), ErrSelfLoop)
		assert.Nil(t, s.RemoveSelfLoops())
		assert.Nil(t, s.EliminateState(q))
		assert.True(t, s.Converting())
		assert.Empty(t, completions)

		assert.Nil(t, s.CombineParallel())
		assert.False(t, s.Converting())
		if assert.Len(t, completions, 1) {
			assert.Equal(t, "b+(a(a)*)(b)", completions[0].Expression)
		}
		c, ok := s.Completion()
		assert.True(t, ok)
		assert.Equal(t, completions[0], c)

		s.Undo()
		assert.Equal(t, 2, s.Automaton().GetNumTransitions())
	})

	t.Run("undo a step", func(t *testing.T) {
		s, _, q, _ := newLineSession(t)
		assert.Nil(t, s.StartConversion())
		assert.Nil(t, s.UnifyStart(Point{X: -100}))
		assert.Nil(t, s.EliminateState(q))
		assert.False(t, s.Converting())

		s.Undo()
		assert.Equal(t, 3, s.Automaton().GetNumStates())
		assert.NotNil(t, s.Automaton().GetStateById(q))
	})

	t.Run("single loop", func(t *testing.T) {
		s, _, q, _ := newLineSession(t)
		loop, _ := s.AddTransition("b", q, q)
		assert.Nil(t, s.StartConversion())
		assert.Nil(t, s.RemoveSelfLoop(loop.ID))
		assert.Equal(t, []string{"a(b)*", "b"}, s.Automaton().Labels())
	})

	t.Run("unify", func(t *testing.T) {
		s, _, q, _ := newLineSession(t)
		_, _ = s.AddState(STATE_FINAL, "", Point{X: 200, Y: 200})
		assert.Nil(t, s.StartConversion())
		assert.Nil(t, s.UnifyFinal(Point{X: 300}))
		assert.Len(t, s.Automaton().GetFinalStates(), 1)
		assert.Nil(t, s.EliminateState(q))
		assert.True(t, s.Converting())
	})

	t.Run("run rejected after unify start", func(t *testing.T) {
		s := NewSession(WithStateSpacing(50))
		s1, _ := s.AddState(STATE_START, "", Point{X: 0, Y: 0})
		s2, _ := s.AddState(STATE_START, "", Point{X: 0, Y: 100})
		f1, _ := s.AddState(STATE_FINAL, "", Point{X: 300, Y: 0})
		f2, _ := s.AddState(STATE_FINAL, "", Point{X: 300, Y: 100})
		_, _ = s.AddTransition("a", s1.ID, f1.ID)
		_, _ = s.AddTransition("b", s2.ID, f2.ID)
		before, err := ToXML(s.Automaton())
		assert.Nil(t, err)

		assert.Nil(t, s.StartConversion())
		_, err = s.Run(WithStartPosition(Point{X: -200, Y: 50}), WithFinalPosition(Point{X: 300, Y: 10}))
		assert.ErrorIs(t, err, ErrTooClose)

		after, err := ToXML(s.Automaton())
		assert.Nil(t, err)
		assert.Equal(t, before, after)
		assert.Len(t, s.Automaton().GetStartStates(), 2)
		assert.True(t, s.Converting())

		added, err := s.AddState(STATE_INTERMEDIATE, "", Point{X: 150, Y: 300})
		assert.ErrorIs(t, err, ErrConverting)
		assert.Nil(t, added)
		s.QuitConversion()
		added, err = s.AddState(STATE_INTERMEDIATE, "", Point{X: 150, Y: 300})
		assert.Nil(t, err)
		assert.Greater(t, added.ID, 7)
	})

	t.Run("run", func(t *testing.T) {
		s := NewSession()
		defaultAutomata.MakeSample().Clone(s.Automaton())
		assert.Nil(t, s.StartConversion())
		c, err := s.Run()
		assert.Nil(t, err)
		assert.Equal(t, "(a+b)(a)", c.Expression)
		assert.False(t, s.Converting())

		s.Undo()
		assert.Equal(t, 4, s.Automaton().GetNumStates())
	})
}
