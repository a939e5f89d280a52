package kleene

import (
	"fmt"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Lambda is the empty-string token. It is a valid label atom whatever the
// alphabet is.
const Lambda = 'λ'

// LambdaLabel Lambda as a transition label.
const LambdaLabel = string(Lambda)

// Operators of the label grammar.
const (
	OpUnion  = '+'
	OpConcat = '.'
	OpStar   = '*'
	OpOpen   = '('
	OpClose  = ')'
)

// Alphabet An ordered set of single-character symbols.
type Alphabet []rune

// DefaultAlphabet Returns the alphabet a fresh automaton starts with.
func DefaultAlphabet() Alphabet {
	return Alphabet{'a', 'b'}
}

// ParseAlphabet Parses comma separated symbols such as "a, b,c". Every symbol must
// be a single letter or digit, appear once, and must not be the λ token.
func ParseAlphabet(s string) (Alphabet, error) {
	if strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("%w: empty alphabet", ErrInvalidAlphabet)
	}

	parts := strings.Split(s, ",")
	alpha := make(Alphabet, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if utf8.RuneCountInString(part) != 1 {
			return nil, fmt.Errorf("%w: %q is not a single symbol", ErrInvalidAlphabet, part)
		}
		r, _ := utf8.DecodeRuneInString(part)
		alpha = append(alpha, r)
	}

	if err := alpha.Validate(); err != nil {
		return nil, err
	}
	return alpha, nil
}

// Validate Returns an error if a symbol is an operator, λ, or repeated.
func (a Alphabet) Validate() error {
	seen := make(map[rune]struct{}, len(a))
	for _, r := range a {
		if r == Lambda || !(unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return fmt.Errorf("%w: %q is not allowed", ErrInvalidAlphabet, r)
		}
		if _, ok := seen[r]; ok {
			return fmt.Errorf("%w: %q appears twice", ErrInvalidAlphabet, r)
		}
		seen[r] = struct{}{}
	}
	return nil
}

// Contains Returns true if r is a symbol of the alphabet or the λ token.
func (a Alphabet) Contains(r rune) bool {
	return r == Lambda || slices.Contains(a, r)
}

func (a Alphabet) String() string {
	b := new(strings.Builder)
	for i, r := range a {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (a Alphabet) clone() Alphabet {
	return slices.Clone(a)
}
