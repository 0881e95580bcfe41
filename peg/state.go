package peg

import (
	"fmt"
	"unicode/utf8"

	"github.com/npillmayer/schuko/gconf"
)

// memoKey identifies the application of a rule at a position.
type memoKey struct {
	rule, pos int
}

// Stats reports on the use of a parser state's cache.
type Stats struct {
	Hits    int // rule applications answered from the cache
	Misses  int // rule applications evaluated
	Entries int // cached outcomes
}

// State is a parsing session: it owns the input and the cache of rule
// outcomes. A State must not be used concurrently and should not be re-used for
// unrelated inputs.
type State struct {
	g        *Grammar
	input    string
	memo     map[memoKey]Outcome
	active   map[memoKey]struct{} // rule applications in progress
	detectLR bool
	stats    Stats
}

// Option configures a parser state.
type Option func(*settings)

type settings struct {
	detectLR *bool
}

// DetectLeftRecursion sets or clears left recursion detection. With detection
// on, a rule re-entering itself at the same position aborts the parse with a
// LeftRecursionError. Without an option, configuration key
// "peg-detect-left-recursion" decides.
func DetectLeftRecursion(b bool) Option {
	return func(s *settings) {
		s.detectLR = &b
	}
}

// NewState creates a parsing session for input.
func NewState(g *Grammar, input string, opts ...Option) *State {
	var set settings
	for _, opt := range opts {
		opt(&set)
	}
	s := &State{
		g:     g,
		input: input,
		memo:  make(map[memoKey]Outcome),
	}
	if set.detectLR != nil {
		s.detectLR = *set.detectLR
	} else {
		s.detectLR = gconf.GetBool("peg-detect-left-recursion")
	}
	if s.detectLR {
		s.active = make(map[memoKey]struct{})
	}
	return s
}

// Input returns the text this state parses.
func (s *State) Input() string {
	return s.input
}

// Grammar returns the grammar this state parses with.
func (s *State) Grammar() *Grammar {
	return s.g
}

// Stats returns cache statistics.
func (s *State) Stats() Stats {
	st := s.stats
	st.Entries = len(s.memo)
	return st
}

// ParseRule applies rule name at pos. An error is returned for unknown rules,
// for positions outside of the input and, with left recursion detection
// switched on, for left recursion. Failing to match is not an error, but a
// failed outcome.
func (s *State) ParseRule(pos int, name string) (out Outcome, err error) {
	id, ok := s.g.RuleID(name)
	if !ok {
		return failure(pos, noExpectation), fmt.Errorf("%w: %q", ErrUnknownRule, name)
	}
	if pos < 0 || pos > len(s.input) {
		return failure(pos, noExpectation), fmt.Errorf("%w: %d", ErrPosition, pos)
	}
	defer func() {
		if r := recover(); r != nil {
			lrerr, ok := r.(*LeftRecursionError)
			if !ok {
				panic(r)
			}
			out, err = failure(lrerr.Pos, noExpectation), lrerr
		}
	}()
	return s.parseRule(pos, id), nil
}

// ParseFullInput applies rule name at the start of the input and requires it
// to consume all of the input. A match leaving input over is turned into a
// failure at the first unconsumed character.
func (s *State) ParseFullInput(name string) (Outcome, error) {
	out, err := s.ParseRule(0, name)
	if err != nil || !out.ok {
		return out, err
	}
	if out.pos != len(s.input) {
		tracer().Debugf("rule %q leaves input over at %d", name, out.pos)
		return failure(out.pos, out.farthest.merge(expect(out.pos, endOfInput))), nil
	}
	return out, nil
}

func (s *State) parseRule(pos int, id int) Outcome {
	key := memoKey{rule: id, pos: pos}
	if out, ok := s.memo[key]; ok {
		s.stats.Hits++
		return out
	}
	s.stats.Misses++
	rule := s.g.rules[id]
	if s.detectLR {
		if _, ok := s.active[key]; ok {
			panic(&LeftRecursionError{Rule: rule.Name, Pos: pos})
		}
		s.active[key] = struct{}{}
		defer delete(s.active, key)
	}
	out := s.parseExpr(pos, rule.Body)
	s.memo[key] = out
	return out
}

// ruleID returns the ID of a rule reference. References are resolved when the
// grammar is built.
func (s *State) ruleID(ref RuleRef) int {
	if ref.id > 0 {
		return ref.id - 1
	}
	id, ok := s.g.RuleID(ref.Name)
	if !ok {
		panic(fmt.Sprintf("reference to undefined rule %q slipped through validation", ref.Name))
	}
	return id
}

// parseCharClass matches one character at pos.
func (s *State) parseCharClass(pos int, cc CharClass) Outcome {
	if pos < len(s.input) {
		r, size := utf8.DecodeRuneInString(s.input[pos:])
		if cc.Matches(r) {
			return success(Product{Value: SpanValue(pos, pos+size)}, pos+size)
		}
	}
	return failure(pos, expect(pos, cc.expectation()))
}
