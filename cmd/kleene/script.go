package main

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/geange/kleene"
)

// script A graph described in YAML. States are referred to by name.
type script struct {
	Alphabet    string             `yaml:"alphabet"`
	States      []scriptState      `yaml:"states"`
	Transitions []scriptTransition `yaml:"transitions"`
}

type scriptState struct {
	Name  string  `yaml:"name"`
	Kind  string  `yaml:"kind"`
	Label string  `yaml:"label"`
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
}

type scriptTransition struct {
	From  string `yaml:"from"`
	To    string `yaml:"to"`
	Label string `yaml:"label"`
}

// loadScript Builds a session holding the graph described by r. The script's
// alphabet, if any, replaces the one given by options.
func loadScript(r io.Reader, options ...kleene.AutomatonOption) (*kleene.Session, error) {
	var sc script
	if err := yaml.NewDecoder(r).Decode(&sc); err != nil {
		return nil, fmt.Errorf("decode script: %w", err)
	}

	s := kleene.NewSession(options...)
	if sc.Alphabet != "" {
		alpha, err := kleene.ParseAlphabet(sc.Alphabet)
		if err != nil {
			return nil, err
		}
		if err := s.SetAlphabet(alpha); err != nil {
			return nil, err
		}
	}

	ids := make(map[string]int, len(sc.States))
	for _, st := range sc.States {
		if _, ok := ids[st.Name]; ok || st.Name == "" {
			return nil, fmt.Errorf("state name %q is empty or used twice", st.Name)
		}
		state, err := s.AddState(kleene.ParseKind(st.Kind), st.Label, kleene.Point{X: st.X, Y: st.Y})
		if err != nil {
			return nil, fmt.Errorf("state %q: %w", st.Name, err)
		}
		ids[st.Name] = state.ID
	}

	for _, tr := range sc.Transitions {
		from, ok := ids[tr.From]
		if !ok {
			return nil, fmt.Errorf("transition %s -> %s: %w: %q", tr.From, tr.To, kleene.ErrStateNotFound, tr.From)
		}
		to, ok := ids[tr.To]
		if !ok {
			return nil, fmt.Errorf("transition %s -> %s: %w: %q", tr.From, tr.To, kleene.ErrStateNotFound, tr.To)
		}
		if _, err := s.AddTransition(tr.Label, from, to); err != nil {
			return nil, err
		}
	}
	return s, nil
}
