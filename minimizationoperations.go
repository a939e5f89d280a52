package kleene

import (
	"github.com/bits-and-blooms/bitset"
)

// Trim
// Removes what lies on no path from a start state to a final state: every
// transition whose source cannot be reached from a start state or whose target
// cannot reach a final state, then every intermediate state left unreachable or
// unable to reach a final state. Start and final states are always kept. The
// recognized language does not change. Returns the number of removed states and
// transitions.
func Trim(a *Automaton) (states, transitions int) {
	index := stateIndex(a)
	fromInitial := getLiveStatesFromInitial(a, index)
	toAccept := getLiveStatesToAccept(a, index)

	for _, t := range a.Transitions() {
		if !fromInitial.Test(index[t.From]) || !toAccept.Test(index[t.To]) {
			a.RemoveTransition(t.ID)
			transitions++
		}
	}

	live := fromInitial.Intersection(toAccept)
	for _, s := range a.States() {
		if s.Kind == STATE_INTERMEDIATE && !live.Test(index[s.ID]) {
			transitions += len(a.TransitionsOf(s.ID))
			a.RemoveState(s.ID)
			states++
		}
	}
	return states, transitions
}

// Maps state ids to their position in the state list.
func stateIndex(a *Automaton) map[int]uint {
	index := make(map[int]uint, len(a.states))
	for i, s := range a.states {
		index[s.ID] = uint(i)
	}
	return index
}

// Returns the states reachable from a start state.
func getLiveStatesFromInitial(a *Automaton, index map[int]uint) *bitset.BitSet {
	workList := make([]int, 0)
	for _, s := range a.GetStartStates() {
		workList = append(workList, s.ID)
	}
	return walk(a, index, workList, func(s *State) []int { return s.precedes })
}

// Returns the states from which a final state is reachable.
func getLiveStatesToAccept(a *Automaton, index map[int]uint) *bitset.BitSet {
	workList := make([]int, 0)
	for _, s := range a.GetFinalStates() {
		workList = append(workList, s.ID)
	}
	return walk(a, index, workList, func(s *State) []int { return s.follows })
}

func walk(a *Automaton, index map[int]uint, workList []int, next func(*State) []int) *bitset.BitSet {
	live := bitset.New(uint(len(a.states)))
	for _, id := range workList {
		live.Set(index[id])
	}

	for len(workList) > 0 {
		id := workList[0]
		workList = workList[1:]

		for _, dest := range next(a.GetStateById(id)) {
			if !live.Test(index[dest]) {
				live.Set(index[dest])
				workList = append(workList, dest)
			}
		}
	}
	return live
}
