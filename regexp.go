package kleene

import (
	"unicode"

	"github.com/bits-and-blooms/bitset"
)

// Symbol A nonterminal of the label grammar:
//
//	regex  --> concat | regex + concat
//	concat --> brack  | concat . brack
//	brack  --> simple | brack* | (regex)
//	simple --> a symbol of the alphabet | λ
type Symbol int

const (
	SYMBOL_SIMPLE = Symbol(iota) // A single alphabet symbol or λ
	SYMBOL_BRACK                 // A simple, starred or parenthesized expression
	SYMBOL_CONCAT                // A sequence of bracks joined by '.'
	SYMBOL_REGEX                 // A union of concats joined by '+'

	numSymbols = 4
)

func (s Symbol) String() string {
	switch s {
	case SYMBOL_SIMPLE:
		return "simple"
	case SYMBOL_BRACK:
		return "brack"
	case SYMBOL_CONCAT:
		return "concat"
	default:
		return "regex"
	}
}

// Normalize Strips whitespace and makes concatenation explicit by inserting '.'
// between two symbols, a symbol and '(', ')' and '(', ')' and a symbol, '*' and
// '(', and '*' and a symbol. Only pairs of the stripped input are looked at; an
// inserted dot is never the left or right side of a pair.
func Normalize(s string, alpha Alphabet) string {
	input := make([]rune, 0, len(s))
	for _, r := range s {
		if !unicode.IsSpace(r) {
			input = append(input, r)
		}
	}

	out := make([]rune, 0, 2*len(input))
	for i, r := range input {
		out = append(out, r)
		if i+1 < len(input) && impliesConcat(r, input[i+1], alpha) {
			out = append(out, OpConcat)
		}
	}
	return string(out)
}

func impliesConcat(left, right rune, alpha Alphabet) bool {
	switch {
	case alpha.Contains(left):
		return alpha.Contains(right) || right == OpOpen
	case left == OpClose, left == OpStar:
		return right == OpOpen || alpha.Contains(right)
	}
	return false
}

// IsRegEx Returns true if s, taken as is, derives from the regex symbol.
func IsRegEx(s string, alpha Alphabet) bool {
	return Derives(SYMBOL_REGEX, s, alpha)
}

// IsValidLabel Returns true if the label is a regular expression once normalized.
func IsValidLabel(label string, alpha Alphabet) bool {
	return IsRegEx(Normalize(label, alpha), alpha)
}

// Derives Returns true if the whole of s derives from sym. The empty string derives
// from nothing.
func Derives(sym Symbol, s string, alpha Alphabet) bool {
	r := newRecognizer([]rune(s), alpha)
	if r.n == 0 {
		return false
	}
	r.fill()
	return r.test(sym, 0, r.n)
}

// recognizer Decides membership bottom-up over every span of the input. For each
// nonterminal a bitset holds one bit per span [i, j); spans are filled by
// increasing length so each rule only reads shorter spans, or the same span of a
// lower symbol. Accepts exactly what a backtracking descent over every '+' and
// '.' split point accepts, in cubic time.
type recognizer struct {
	input []rune
	alpha Alphabet
	n     int
	table [numSymbols]*bitset.BitSet
}

func newRecognizer(input []rune, alpha Alphabet) *recognizer {
	n := len(input)
	r := &recognizer{
		input: input,
		alpha: alpha,
		n:     n,
	}
	size := uint((n + 1) * (n + 1))
	for i := range r.table {
		r.table[i] = bitset.New(size)
	}
	return r
}

func (r *recognizer) index(i, j int) uint {
	return uint(i*(r.n+1) + j)
}

func (r *recognizer) test(sym Symbol, i, j int) bool {
	if i >= j {
		return false
	}
	return r.table[sym].Test(r.index(i, j))
}

func (r *recognizer) fill() {
	for length := 1; length <= r.n; length++ {
		for i := 0; i+length <= r.n; i++ {
			j := i + length
			idx := r.index(i, j)
			r.table[SYMBOL_SIMPLE].SetTo(idx, r.simple(i, j))
			r.table[SYMBOL_BRACK].SetTo(idx, r.brack(i, j))
			r.table[SYMBOL_CONCAT].SetTo(idx, r.concat(i, j))
			r.table[SYMBOL_REGEX].SetTo(idx, r.regex(i, j))
		}
	}
}

func (r *recognizer) simple(i, j int) bool {
	return j-i == 1 && r.alpha.Contains(r.input[i])
}

func (r *recognizer) brack(i, j int) bool {
	if r.test(SYMBOL_SIMPLE, i, j) {
		return true
	}
	if r.input[j-1] == OpStar && r.test(SYMBOL_BRACK, i, j-1) {
		return true
	}
	return j-i >= 2 && r.input[i] == OpOpen && r.input[j-1] == OpClose &&
		r.test(SYMBOL_REGEX, i+1, j-1)
}

func (r *recognizer) concat(i, j int) bool {
	if r.test(SYMBOL_BRACK, i, j) {
		return true
	}
	return r.split(OpConcat, SYMBOL_CONCAT, SYMBOL_BRACK, i, j)
}

func (r *recognizer) regex(i, j int) bool {
	if r.test(SYMBOL_CONCAT, i, j) {
		return true
	}
	return r.split(OpUnion, SYMBOL_REGEX, SYMBOL_CONCAT, i, j)
}

// Tries every operator position k in (i, j): left derives [i, k), right derives [k+1, j).
func (r *recognizer) split(op rune, left, right Symbol, i, j int) bool {
	for k := i + 1; k < j-1; k++ {
		if r.input[k] == op && r.test(left, i, k) && r.test(right, k+1, j) {
			return true
		}
	}
	return false
}

// ValidateLabels Checks every transition label of the automaton. Returns a
// *ValidationError listing the raw labels that fail, in transition order.
func ValidateLabels(a *Automaton) error {
	failed := make([]string, 0)
	for _, t := range a.transitions {
		if !IsValidLabel(t.Label, a.alphabet) {
			failed = append(failed, t.Label)
		}
	}
	if len(failed) > 0 {
		return &ValidationError{Labels: failed}
	}
	return nil
}
