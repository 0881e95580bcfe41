package peg

import (
	"strconv"
	"strings"

	"github.com/npillmayer/packrat"
)

// RuleAction is an expression constructing a result from bindings. The set of
// action types is closed: NameRef, InputLiteral and Construct.
type RuleAction interface {
	String() string
	ruleAction()
}

// NameRef looks up a bound name.
type NameRef struct {
	Name string
}

// InputLiteral injects a literal text.
type InputLiteral struct {
	Text string
}

// Construct builds a tagged node from its evaluated arguments.
type Construct struct {
	Tag  string
	Args []RuleAction
}

func (NameRef) ruleAction()      {}
func (InputLiteral) ruleAction() {}
func (Construct) ruleAction()    {}

// Name creates an action looking up name.
func Name(name string) NameRef {
	return NameRef{Name: name}
}

// Text creates an action producing a literal.
func Text(text string) InputLiteral {
	return InputLiteral{Text: text}
}

// Node creates an action constructing a node tagged tag.
func Node(tag string, args ...RuleAction) Construct {
	return Construct{Tag: tag, Args: args}
}

func (n NameRef) String() string {
	return n.Name
}

func (l InputLiteral) String() string {
	return strconv.Quote(l.Text)
}

func (c Construct) String() string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = a.String()
	}
	return c.Tag + "(" + strings.Join(args, ", ") + ")"
}

// EvalAction evaluates action against bindings. A reference to a name without
// binding evaluates to an ErrorKind result, carrying the name and span, the
// input matched by the expression the action belongs to. Callers of the
// package-level parse functions receive such results as ParseErrors.
func EvalAction(action RuleAction, bindings Bindings, span packrat.Span) Result {
	switch a := action.(type) {
	case NameRef:
		if v, ok := bindings[a.Name]; ok {
			return v
		}
		tracer().Debugf("action references unbound name %q at %s", a.Name, span)
		return ErrorValue(a.Name, span)
	case InputLiteral:
		return LiteralValue(a.Text)
	case Construct:
		children := make([]Result, len(a.Args))
		for i, arg := range a.Args {
			children[i] = EvalAction(arg, bindings, span)
		}
		return ConstructValue(a.Tag, children...)
	}
	panic("unknown rule action type")
}

// actionNames collects the names an action references.
func actionNames(action RuleAction, names []string) []string {
	switch a := action.(type) {
	case NameRef:
		names = append(names, a.Name)
	case Construct:
		for _, arg := range a.Args {
			names = actionNames(arg, names)
		}
	}
	return names
}
