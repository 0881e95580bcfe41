package peg

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
	"github.com/npillmayer/packrat"
)

// Sentinel errors, to be tested for with errors.Is.
var (
	ErrInvalidGrammar = errors.New("invalid grammar")
	ErrUndefinedRule  = errors.New("undefined rule")
	ErrUnboundName    = errors.New("unbound name")
	ErrUnknownRule    = errors.New("unknown start rule")
	ErrPosition       = errors.New("position outside of input")
	ErrLeftRecursion  = errors.New("left recursion")
	ErrNoMatch        = errors.New("input does not match")
)

// Grammar error codes.
const (
	EmptyGrammarError = iota + 1
	DuplicateRuleError
	UndefinedRuleError
	MissingExpressionError
	InvalidRepeatError
	InvalidClassError
	UnboundNameError
	BindingCollisionError
)

// GrammarError is a problem found while building a grammar.
type GrammarError struct {
	Code    int
	Rule    string // rule the problem was found in, if any
	Message string
}

func (e *GrammarError) Error() string {
	if e.Rule == "" {
		return e.Message
	}
	return fmt.Sprintf("rule %q: %s", e.Rule, e.Message)
}

// Is makes every grammar error match ErrInvalidGrammar, and undefined rules and
// unbound names match their specific sentinels.
func (e *GrammarError) Is(target error) bool {
	switch target {
	case ErrInvalidGrammar:
		return true
	case ErrUndefinedRule:
		return e.Code == UndefinedRuleError
	case ErrUnboundName:
		return e.Code == UnboundNameError
	}
	return false
}

func grammarError(code int, rule string, msg string, params ...interface{}) *GrammarError {
	if len(params) > 0 {
		msg = fmt.Sprintf(msg, params...)
	}
	return &GrammarError{Code: code, Rule: rule, Message: msg}
}

// GrammarErrors collects all the problems found while building a grammar.
type GrammarErrors []*GrammarError

func (errs GrammarErrors) Error() string {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

// Unwrap lets errors.Is and errors.As look at every single error.
func (errs GrammarErrors) Unwrap() []error {
	r := make([]error, len(errs))
	for i, e := range errs {
		r[i] = e
	}
	return r
}

// LeftRecursionError is returned when a rule re-enters itself at the same
// position, with left recursion detection switched on.
type LeftRecursionError struct {
	Rule string
	Pos  int
}

func (e *LeftRecursionError) Error() string {
	return fmt.Sprintf("left recursion in rule %q at position %d", e.Rule, e.Pos)
}

// Is matches ErrLeftRecursion.
func (e *LeftRecursionError) Is(target error) bool {
	return target == ErrLeftRecursion
}

// --- Diagnostics -----------------------------------------------------------

// DiagnosticKind tells what went wrong at a diagnostic's position.
type DiagnosticKind int

// Diagnostic kinds.
const (
	UnexpectedEOF   DiagnosticKind = iota + 1 // input ended where more was expected
	UnexpectedChar                            // a character did not match
	UnexpectedInput                           // input left over after a full-input parse
	NameUndefined                             // an action used a name nothing was bound to
)

// Diagnostic describes a failed parse for reporting. It carries positions
// only; rendering it for humans is up to the client.
type Diagnostic struct {
	Kind     DiagnosticKind
	Span     packrat.Span
	Found    rune     // offending character, for UnexpectedChar and UnexpectedInput
	Expected []string // sorted descriptions of what would have been accepted
	Name     string   // unbound name, for NameUndefined
}

// Message returns a one-line description of d.
func (d Diagnostic) Message() string {
	switch d.Kind {
	case UnexpectedEOF:
		return fmt.Sprintf("expected %s, but found end of input", orList(d.Expected))
	case UnexpectedChar:
		return fmt.Sprintf("expected %s, found %q", orList(d.Expected), d.Found)
	case UnexpectedInput:
		if len(d.Expected) == 1 {
			return fmt.Sprintf("expected %s, found %q", d.Expected[0], d.Found)
		}
		return fmt.Sprintf("unexpected %q, expected %s", d.Found, orList(d.Expected))
	case NameUndefined:
		return fmt.Sprintf("name %q is not bound", d.Name)
	}
	return "parse error"
}

func orList(expected []string) string {
	switch len(expected) {
	case 0:
		return "something else"
	case 1:
		return expected[0]
	}
	return strings.Join(expected[:len(expected)-1], ", ") + " or " + expected[len(expected)-1]
}

// diagnose creates a diagnostic for a failed outcome. The position reported is
// the deepest one reached.
func diagnose(input string, out Outcome) Diagnostic {
	pos := out.pos
	var expected []string
	if f := out.farthest; f.Pos >= pos {
		pos = f.Pos
		expected = sortedExpectations(f.Expected)
	}
	if pos >= len(input) {
		return Diagnostic{Kind: UnexpectedEOF, Span: packrat.Span{len(input), len(input)},
			Expected: expected}
	}
	r, size := utf8.DecodeRuneInString(input[pos:])
	d := Diagnostic{Kind: UnexpectedChar, Span: packrat.Span{pos, pos + size}, Found: r,
		Expected: expected}
	for _, x := range expected {
		if x == endOfInput {
			d.Kind = UnexpectedInput
		}
	}
	return d
}

func sortedExpectations(expected []string) []string {
	set := treeset.NewWith(utils.StringComparator)
	for _, x := range expected {
		set.Add(x)
	}
	sorted := make([]string, 0, set.Size())
	for _, x := range set.Values() {
		sorted = append(sorted, x.(string))
	}
	return sorted
}

// ParseError is returned by the package-level parse functions for input which
// does not match, or for a match with an action referencing an unbound name.
type ParseError struct {
	Diagnostic
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %d: %s", e.Span.From(), e.Message())
}

// Is matches ErrUnboundName for NameUndefined diagnostics and ErrNoMatch for all
// others.
func (e *ParseError) Is(target error) bool {
	if e.Kind == NameUndefined {
		return target == ErrUnboundName
	}
	return target == ErrNoMatch
}
