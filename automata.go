package kleene

type Automata struct {
}

// MakeEmpty
// Returns a new automaton with no states over the default alphabet.
func (*Automata) MakeEmpty() *Automaton {
	return NewAutomaton()
}

// MakeLabel
// Returns a new automaton with a start state linked to a final state by a single
// transition carrying label.
func (*Automata) MakeLabel(label string, options ...AutomatonOption) *Automaton {
	a := NewAutomaton(options...)
	start, _ := a.AddState(STATE_START, "", Point{X: 50, Y: 100})
	final, _ := a.AddState(STATE_FINAL, "", Point{X: 250, Y: 100})
	_, _ = a.AddTransition(label, start.ID, final.ID)
	return a
}

// MakeSample
// Returns the demonstration graph: START -a+b-> 1, 1 -a-> FINAL, 1 -λ-> 2 and a
// loop labeled a on 2.
func (*Automata) MakeSample() *Automaton {
	a := NewAutomaton()
	start, _ := a.AddState(STATE_START, "", Point{X: 50, Y: 50})
	intermediate1, _ := a.AddState(STATE_INTERMEDIATE, "1", Point{X: 300, Y: 250})
	final, _ := a.AddState(STATE_FINAL, "", Point{X: 400, Y: 100})
	intermediate2, _ := a.AddState(STATE_INTERMEDIATE, "2", Point{X: 350, Y: 400})
	_, _ = a.AddTransition("a+b", start.ID, intermediate1.ID)
	_, _ = a.AddTransition("a", intermediate1.ID, final.ID)
	_, _ = a.AddTransition(LambdaLabel, intermediate1.ID, intermediate2.ID)
	_, _ = a.AddTransition("a", intermediate2.ID, intermediate2.ID)
	return a
}
