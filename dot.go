package kleene

import (
	"bytes"
	"errors"
	"io"
	"strconv"

	"github.com/dominikbraun/graph"
	"github.com/dominikbraun/graph/draw"
)

// parallel transitions share one drawn edge
const dotLabelSeparator = " , "

func stateHash(s *State) int {
	return s.ID
}

// Graph Returns the automaton as a directed graph of its states. Parallel transitions
// become one edge whose label lists theirs in order. Every start state gets an
// extra point-shaped vertex with a negative id and an edge into it.
func Graph(a *Automaton) (graph.Graph[int, *State], error) {
	g := graph.New(stateHash, graph.Directed())

	for _, s := range a.states {
		shape := "circle"
		if s.Kind == STATE_FINAL {
			shape = "doublecircle"
		}
		err := g.AddVertex(s,
			graph.VertexAttribute("label", s.Label),
			graph.VertexAttribute("shape", shape),
			graph.VertexAttribute("pos", strconv.FormatFloat(s.Pos.X, 'f', -1, 64)+","+
				strconv.FormatFloat(-s.Pos.Y, 'f', -1, 64)+"!"),
		)
		if err != nil {
			return nil, err
		}

		if s.Kind == STATE_START {
			entry := &State{ID: -s.ID}
			if err := g.AddVertex(entry,
				graph.VertexAttribute("label", ""),
				graph.VertexAttribute("shape", "point"),
			); err != nil {
				return nil, err
			}
			if err := g.AddEdge(entry.ID, s.ID); err != nil {
				return nil, err
			}
		}
	}

	for _, t := range a.transitions {
		err := g.AddEdge(t.From, t.To, graph.EdgeAttribute("label", t.Label))
		if errors.Is(err, graph.ErrEdgeAlreadyExists) {
			var e graph.Edge[*State]
			if e, err = g.Edge(t.From, t.To); err != nil {
				return nil, err
			}
			label := e.Properties.Attributes["label"] + dotLabelSeparator + t.Label
			err = g.UpdateEdge(t.From, t.To, graph.EdgeAttribute("label", label))
		}
		if err != nil {
			return nil, err
		}
	}
	return g, nil
}

// WriteDOT Renders the automaton in the Graphviz DOT language.
func WriteDOT(w io.Writer, a *Automaton) error {
	g, err := Graph(a)
	if err != nil {
		return err
	}
	return draw.DOT(g, w, draw.GraphAttribute("rankdir", "LR"))
}

// ToDOT See WriteDOT.
func ToDOT(a *Automaton) (string, error) {
	buf := new(bytes.Buffer)
	if err := WriteDOT(buf, a); err != nil {
		return "", err
	}
	return buf.String(), nil
}
