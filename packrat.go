package packrat

import "fmt"

// --- A general purpose interface for tokens --------------------------------

// TokType is a category type for a Token. We do not define any constants here, as
// it is up to applications to define them.
type TokType int

// Tokens represent input tokens. They are usually produced by a scanner and
// reflect terminals in a language.
//
// An example would be a token for a rule name in a grammar description:
//
//    TokType = Ident       // identifier for this kind of tokens (application specific)
//    Lexeme  = "start"     // lexeme how it appeared in the input stream
//    Value   = nil         // not set by the scanner
//    Span    = 5…10        // occured from byte position 5 in the input stream
//
type Token interface {
	TokType() TokType
	Lexeme() string
	Value() interface{}
	Span() Span
}

// --- Spans ------------------------------------------------------------

// Span is a small type for capturing a run of input. Parsers track for every
// matched expression which input positions it covers. A span denotes a start
// position and the position just behind the end. Positions are byte offsets.
type Span [2]int // (x…y)

// From returns the start value of a span.
func (s Span) From() int {
	return s[0]
}

// To returns the end value of a span.
func (s Span) To() int {
	return s[1]
}

// Len returns the length of (x…y)
func (s Span) Len() int {
	return s[1] - s[0]
}

func (s Span) IsNull() bool {
	return s == Span{}
}

// Extend returns the smallest span covering both s and other.
func (s Span) Extend(other Span) Span {
	if other[0] < s[0] {
		s[0] = other[0]
	}
	if other[1] > s[1] {
		s[1] = other[1]
	}
	return s
}

// Of returns the part of input covered by s. Spans reaching outside of input
// are clipped.
func (s Span) Of(input string) string {
	from, to := s[0], s[1]
	if from < 0 {
		from = 0
	}
	if to > len(input) {
		to = len(input)
	}
	if from >= to {
		return ""
	}
	return input[from:to]
}

func (s Span) String() string {
	return fmt.Sprintf("(%d…%d)", s[0], s[1])
}
