package peg

import (
	"fmt"
	"strconv"
	"strings"
)

// RuleBody is an expression of the grammar vocabulary. The set of rule body
// types is closed:
//
//     RuleRef      reference to a named rule
//     CharClass    exactly one character out of a set of ranges
//     Literal      a fixed text
//     Repeat       bounded repetition, optionally delimited
//     Sequence     sub-expressions in order
//     Choice       ordered choice, first success wins
//     NameBind     capture the value of a sub-expression under a name
//     Action       construct a value from the captures of a sub-expression
//     SliceInput   the raw input span matched by a sub-expression
//
type RuleBody interface {
	fmt.Stringer
	ruleBody()
}

// Unbounded is the value of Repeat.Max for repetitions without upper bound.
const Unbounded = -1

// RuleRef references another rule by name.
type RuleRef struct {
	Name string
	id   int // rule ID + 1, set when the grammar is built
}

// Literal matches its text character by character.
type Literal struct {
	Text string
}

// Repeat matches Expr between Min and Max times. Delim, if not nil, has to
// match between two consecutive occurences of Expr.
type Repeat struct {
	Expr     RuleBody
	Min, Max int
	Delim    RuleBody
}

// Sequence matches its items in order.
type Sequence struct {
	Items []RuleBody
}

// Choice tries its alternatives in order. The first one to match wins.
type Choice struct {
	Alts []RuleBody
}

// NameBind matches Expr and binds its value to Name.
type NameBind struct {
	Name string
	Expr RuleBody
}

// Action matches Expr and replaces its value by the result of evaluating
// Action against the bindings of Expr. An action is a binding scope: no
// bindings are visible outside of it.
type Action struct {
	Expr   RuleBody
	Action RuleAction
}

// SliceInput matches Expr and produces the input span it covered.
type SliceInput struct {
	Expr RuleBody
}

func (RuleRef) ruleBody()    {}
func (CharClass) ruleBody()  {}
func (Literal) ruleBody()    {}
func (Repeat) ruleBody()     {}
func (Sequence) ruleBody()   {}
func (Choice) ruleBody()     {}
func (NameBind) ruleBody()   {}
func (Action) ruleBody()     {}
func (SliceInput) ruleBody() {}

// --- Constructors ----------------------------------------------------------

// Ref references rule name.
func Ref(name string) RuleRef {
	return RuleRef{Name: name}
}

// Lit matches text.
func Lit(text string) Literal {
	return Literal{Text: text}
}

// Seq matches items in order. A sequence of one item is the item itself.
func Seq(items ...RuleBody) RuleBody {
	if len(items) == 1 {
		return items[0]
	}
	return Sequence{Items: items}
}

// Alt tries alternatives in order. A choice of one alternative is the
// alternative itself.
func Alt(alts ...RuleBody) RuleBody {
	if len(alts) == 1 {
		return alts[0]
	}
	return Choice{Alts: alts}
}

// Star matches expr zero or more times.
func Star(expr RuleBody) Repeat {
	return Repeat{Expr: expr, Min: 0, Max: Unbounded}
}

// Plus matches expr one or more times.
func Plus(expr RuleBody) Repeat {
	return Repeat{Expr: expr, Min: 1, Max: Unbounded}
}

// Opt matches expr zero or one time.
func Opt(expr RuleBody) Repeat {
	return Repeat{Expr: expr, Min: 0, Max: 1}
}

// Rep matches expr between min and max times, delimited by delim. Max may be
// Unbounded, delim may be nil.
func Rep(expr RuleBody, min, max int, delim RuleBody) Repeat {
	return Repeat{Expr: expr, Min: min, Max: max, Delim: delim}
}

// Bind binds the value of expr to name.
func Bind(name string, expr RuleBody) NameBind {
	return NameBind{Name: name, Expr: expr}
}

// Act evaluates action against the bindings of expr.
func Act(expr RuleBody, action RuleAction) Action {
	return Action{Expr: expr, Action: action}
}

// Slice produces the input span matched by expr.
func Slice(expr RuleBody) SliceInput {
	return SliceInput{Expr: expr}
}

// --- Printing --------------------------------------------------------------

func (r RuleRef) String() string {
	return r.Name
}

func (l Literal) String() string {
	return strconv.Quote(l.Text)
}

func (r Repeat) String() string {
	x := operand(r.Expr)
	switch {
	case r.Delim == nil && r.Min == 0 && r.Max == Unbounded:
		return x + "*"
	case r.Delim == nil && r.Min == 1 && r.Max == Unbounded:
		return x + "+"
	case r.Delim == nil && r.Min == 0 && r.Max == 1:
		return x + "?"
	case r.Delim != nil && r.Min == 0 && r.Max == Unbounded:
		return x + " ** " + operand(r.Delim)
	case r.Delim != nil && r.Min == 1 && r.Max == Unbounded:
		return x + " ++ " + operand(r.Delim)
	}
	max := "*"
	if r.Max != Unbounded {
		max = strconv.Itoa(r.Max)
	}
	if r.Delim == nil {
		return fmt.Sprintf("%s<%d,%s>", x, r.Min, max)
	}
	return fmt.Sprintf("%s<%d,%s,%s>", x, r.Min, max, operand(r.Delim))
}

func (s Sequence) String() string {
	items := make([]string, len(s.Items))
	for i, item := range s.Items {
		switch item.(type) {
		case Choice, Action:
			items[i] = "(" + item.String() + ")"
		default:
			items[i] = item.String()
		}
	}
	return strings.Join(items, " ")
}

func (c Choice) String() string {
	alts := make([]string, len(c.Alts))
	for i, alt := range c.Alts {
		alts[i] = alt.String()
	}
	return strings.Join(alts, " / ")
}

func (n NameBind) String() string {
	return n.Name + ":" + operand(n.Expr)
}

func (a Action) String() string {
	if _, ok := a.Expr.(Choice); ok {
		return "(" + a.Expr.String() + ") { " + a.Action.String() + " }"
	}
	return a.Expr.String() + " { " + a.Action.String() + " }"
}

func (s SliceInput) String() string {
	return "$(" + s.Expr.String() + ")"
}

// operand renders expr as an operand of a postfix operator.
func operand(expr RuleBody) string {
	switch expr.(type) {
	case RuleRef, CharClass, Literal, SliceInput:
		return expr.String()
	case nil:
		return "<nil>"
	}
	return "(" + expr.String() + ")"
}
