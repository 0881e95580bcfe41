package peg

import (
	"strconv"
	"strings"

	"github.com/npillmayer/packrat"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Kind is the variant of a Result.
type Kind int8

// Result kinds.
const (
	ValueKind     Kind = iota // a span of input
	LiteralKind               // a literal text injected by an action
	ConstructKind             // a tagged node with children
	ListKind                  // the values of a repetition, in order
	ErrorKind                 // an action referenced an unbound name
)

func (k Kind) String() string {
	switch k {
	case ValueKind:
		return "value"
	case LiteralKind:
		return "literal"
	case ConstructKind:
		return "construct"
	case ListKind:
		return "list"
	case ErrorKind:
		return "error"
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Result is the value produced by a successful match.
type Result struct {
	Kind     Kind
	Span     packrat.Span // ValueKind: the matched input; ErrorKind: input matched by the action
	Text     string       // LiteralKind: the literal; ErrorKind: the unbound name
	Tag      string       // ConstructKind: the node tag
	Children []Result     // ConstructKind, ListKind
}

// SpanValue creates a result for input from…to.
func SpanValue(from, to int) Result {
	return Result{Kind: ValueKind, Span: packrat.Span{from, to}}
}

// LiteralValue creates a literal result.
func LiteralValue(text string) Result {
	return Result{Kind: LiteralKind, Text: text}
}

// ConstructValue creates a tagged node.
func ConstructValue(tag string, children ...Result) Result {
	return Result{Kind: ConstructKind, Tag: tag, Children: children}
}

// ListValue creates a list result.
func ListValue(children ...Result) Result {
	return Result{Kind: ListKind, Children: children}
}

// ErrorValue creates the result for an action referencing the unbound name.
func ErrorValue(name string, span packrat.Span) Result {
	return Result{Kind: ErrorKind, Text: name, Span: span}
}

// Source returns the input text a value result covers. For literals it returns
// the literal text, for all other kinds an empty string.
func (r Result) Source(input string) string {
	switch r.Kind {
	case ValueKind:
		return r.Span.Of(input)
	case LiteralKind:
		return r.Text
	}
	return ""
}

// String renders r as an s-expression, showing spans for values.
func (r Result) String() string {
	return r.format(nil)
}

// Format renders r as an s-expression, showing the input text for values.
func (r Result) Format(input string) string {
	return r.format(&input)
}

func (r Result) format(input *string) string {
	switch r.Kind {
	case ValueKind:
		if input == nil {
			return r.Span.String()
		}
		return strconv.Quote(r.Span.Of(*input))
	case LiteralKind:
		return "#" + strconv.Quote(r.Text)
	case ErrorKind:
		return "#error(" + r.Text + ")"
	}
	var b strings.Builder
	open, close := "[", "]"
	if r.Kind == ConstructKind {
		open, close = "(", ")"
	}
	b.WriteString(open)
	if r.Kind == ConstructKind {
		b.WriteString(r.Tag)
	}
	for i, ch := range r.Children {
		if i > 0 || r.Kind == ConstructKind {
			b.WriteString(" ")
		}
		b.WriteString(ch.format(input))
	}
	b.WriteString(close)
	return b.String()
}

// firstError finds the first ErrorKind node in r, depth first.
func (r Result) firstError() (Result, bool) {
	if r.Kind == ErrorKind {
		return r, true
	}
	for _, ch := range r.Children {
		if e, ok := ch.firstError(); ok {
			return e, true
		}
	}
	return Result{}, false
}

// --- Bindings --------------------------------------------------------------

// Bindings maps capture names to their values. Bindings are part of cached
// parse outcomes and therefore never modified after creation; operations
// return fresh maps.
type Bindings map[string]Result

// with returns a copy of b with name bound to v.
func (b Bindings) with(name string, v Result) Bindings {
	nb := make(Bindings, len(b)+1)
	for k, x := range b {
		nb[k] = x
	}
	nb[name] = v
	return nb
}

// mergeBindings merges r into l. Bindings of r win on collision.
func mergeBindings(l, r Bindings) Bindings {
	if len(r) == 0 {
		return l
	}
	if len(l) == 0 {
		return r
	}
	m := make(Bindings, len(l)+len(r))
	for k, x := range l {
		m[k] = x
	}
	for k, x := range r {
		m[k] = x
	}
	return m
}

// Names returns the bound names in sorted order.
func (b Bindings) Names() []string {
	names := maps.Keys(b)
	slices.Sort(names)
	return names
}

// Lookup returns the value bound to name.
func (b Bindings) Lookup(name string) (Result, bool) {
	v, ok := b[name]
	return v, ok
}

// Product is what matching an expression produces: the bindings it made and
// its value.
type Product struct {
	Bindings Bindings
	Value    Result
}

// firstError finds the first ErrorKind node of the product, searching the
// value first and then the bindings in name order.
func (p Product) firstError() (Result, bool) {
	if e, ok := p.Value.firstError(); ok {
		return e, true
	}
	for _, name := range p.Bindings.Names() {
		if e, ok := p.Bindings[name].firstError(); ok {
			return e, true
		}
	}
	return Result{}, false
}
