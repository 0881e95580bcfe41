package peg

import (
	"strconv"
	"strings"
)

// CharRange is an inclusive range of code points.
type CharRange struct {
	Lo, Hi rune
}

// Range creates a character range lo…hi, both inclusive.
func Range(lo, hi rune) CharRange {
	return CharRange{Lo: lo, Hi: hi}
}

// Char creates a character range containing just r.
func Char(r rune) CharRange {
	return CharRange{Lo: r, Hi: r}
}

// CharClass matches exactly one character out of a set of ranges.
// Matching is on code points, without case folding.
type CharClass struct {
	Ranges []CharRange
}

// Class creates a character class from ranges.
func Class(ranges ...CharRange) CharClass {
	return CharClass{Ranges: ranges}
}

// Matches returns true if r falls into any of the ranges of cc.
func (cc CharClass) Matches(r rune) bool {
	for _, rng := range cc.Ranges {
		if r >= rng.Lo && r <= rng.Hi {
			return true
		}
	}
	return false
}

func (cc CharClass) String() string {
	var b strings.Builder
	b.WriteString("[")
	for i, rng := range cc.Ranges {
		if i > 0 {
			b.WriteString(" |")
		}
		b.WriteString(" ")
		b.WriteString(rng.String())
	}
	b.WriteString(" ]")
	return b.String()
}

func (rng CharRange) String() string {
	if rng.Lo == rng.Hi {
		return strconv.QuoteRune(rng.Lo)
	}
	return strconv.QuoteRune(rng.Lo) + "-" + strconv.QuoteRune(rng.Hi)
}

// expectation describes cc in diagnostics.
func (cc CharClass) expectation() string {
	if len(cc.Ranges) == 1 && cc.Ranges[0].Lo == cc.Ranges[0].Hi {
		return strconv.QuoteRune(cc.Ranges[0].Lo)
	}
	return cc.String()
}
