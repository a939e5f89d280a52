package kleene

import (
	"bytes"
	"encoding/xml"
	"io"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

type xmlGraph struct {
	XMLName     xml.Name        `xml:"graph"`
	Alphabet    string          `xml:"alphabet"`
	States      []xmlState      `xml:"state"`
	Transitions []xmlTransition `xml:"transition"`
}

type xmlState struct {
	Type     string  `xml:"type"`
	X        float64 `xml:"x"`
	Y        float64 `xml:"y"`
	Follows  string  `xml:"follows"`
	Precedes string  `xml:"precedes"`
}

type xmlTransition struct {
	Label  string  `xml:"label"`
	FromID int     `xml:"fromID"`
	ToID   int     `xml:"toID"`
	XFrom  float64 `xml:"xFrom"`
	YFrom  float64 `xml:"yFrom"`
	XTo    float64 `xml:"xTo"`
	YTo    float64 `xml:"yTo"`
	ID     int     `xml:"id"`
}

func joinIDs(ids []int) string {
	return strings.Join(lo.Map(ids, func(id int, _ int) string {
		return strconv.Itoa(id)
	}), ", ")
}

// WriteXML Writes the serialized form of the automaton: the alphabet, then every
// state with its position and adjacency caches, then every transition with its
// endpoints, in creation order. Labels are escaped.
func WriteXML(w io.Writer, a *Automaton) error {
	g := xmlGraph{
		Alphabet:    a.alphabet.String(),
		States:      make([]xmlState, 0, len(a.states)),
		Transitions: make([]xmlTransition, 0, len(a.transitions)),
	}
	for _, s := range a.states {
		g.States = append(g.States, xmlState{
			Type:     s.Kind.String(),
			X:        s.Pos.X,
			Y:        s.Pos.Y,
			Follows:  joinIDs(s.follows),
			Precedes: joinIDs(s.precedes),
		})
	}
	for _, t := range a.transitions {
		g.Transitions = append(g.Transitions, xmlTransition{
			Label:  t.Label,
			FromID: t.From,
			ToID:   t.To,
			XFrom:  t.Tail.X,
			YFrom:  t.Tail.Y,
			XTo:    t.Head.X,
			YTo:    t.Head.Y,
			ID:     t.ID,
		})
	}

	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(g); err != nil {
		return err
	}
	return enc.Close()
}

// ToXML See WriteXML.
func ToXML(a *Automaton) (string, error) {
	buf := new(bytes.Buffer)
	if err := WriteXML(buf, a); err != nil {
		return "", err
	}
	return buf.String(), nil
}
