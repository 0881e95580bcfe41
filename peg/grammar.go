package peg

import (
	"fmt"
	"strings"

	"github.com/cnf/structhash"
	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
)

// RuleDecl declares a named rule.
type RuleDecl struct {
	Name string
	Type string // nominal output type, not interpreted by the parser
	Body RuleBody
}

func (r RuleDecl) String() string {
	body := "<nil>"
	if r.Body != nil {
		body = r.Body.String()
	}
	if r.Type == "" {
		return fmt.Sprintf("rule %s { %s }", r.Name, body)
	}
	return fmt.Sprintf("rule %s -> %s { %s }", r.Name, r.Type, body)
}

// Grammar is a validated table of rules. Rule references within the grammar
// are resolved to rule IDs. Grammars are immutable.
type Grammar struct {
	Name  string
	rules []RuleDecl
	ids   map[string]int
}

// GrammarBuilder collects rules for a grammar.
type GrammarBuilder struct {
	name  string
	rules []RuleDecl
}

// NewGrammarBuilder creates a builder for a grammar called name.
func NewGrammarBuilder(name string) *GrammarBuilder {
	return &GrammarBuilder{name: name}
}

// Rule adds a rule. Returns the builder for chaining.
func (b *GrammarBuilder) Rule(name string, typ string, body RuleBody) *GrammarBuilder {
	b.rules = append(b.rules, RuleDecl{Name: name, Type: typ, Body: body})
	return b
}

// Grammar validates the rules collected so far and builds a grammar from them.
func (b *GrammarBuilder) Grammar() (*Grammar, error) {
	return NewGrammar(b.name, b.rules)
}

// NewGrammar validates rules and creates a grammar from them. All problems
// found are returned as GrammarErrors.
func NewGrammar(name string, rules []RuleDecl) (*Grammar, error) {
	g := &Grammar{Name: name, ids: make(map[string]int, len(rules))}
	var errs GrammarErrors
	if len(rules) == 0 {
		errs = append(errs, grammarError(EmptyGrammarError, "", "grammar %q has no rules", name))
	}
	for _, r := range rules {
		if _, dup := g.ids[r.Name]; dup {
			errs = append(errs, grammarError(DuplicateRuleError, r.Name, "rule defined more than once"))
			continue
		}
		g.ids[r.Name] = len(g.rules)
		g.rules = append(g.rules, r)
	}
	v := validator{g: g, undefined: treeset.NewWith(refComparator)}
	for _, r := range g.rules {
		v.rule = r.Name
		if r.Body == nil {
			v.fail(MissingExpressionError, "rule has no body")
			continue
		}
		v.check(r.Body)
	}
	errs = append(errs, v.errs...)
	for _, x := range v.undefined.Values() {
		ref := x.(refAt)
		errs = append(errs, grammarError(UndefinedRuleError, ref.from, "reference to undefined rule %q",
			ref.name))
	}
	if len(errs) > 0 {
		tracer().Errorf("grammar %q has %d errors", name, len(errs))
		return nil, errs
	}
	for i, r := range g.rules {
		g.rules[i].Body = g.resolve(r.Body)
	}
	tracer().Debugf("grammar %q has %d rules", name, len(g.rules))
	return g, nil
}

// RuleID returns the interned ID of rule name.
func (g *Grammar) RuleID(name string) (int, bool) {
	id, ok := g.ids[name]
	return id, ok
}

// Rule returns the declaration of rule name.
func (g *Grammar) Rule(name string) (RuleDecl, bool) {
	id, ok := g.ids[name]
	if !ok {
		return RuleDecl{}, false
	}
	return g.rules[id], true
}

// Rules returns the rule declarations in the order they were added.
func (g *Grammar) Rules() []RuleDecl {
	rules := make([]RuleDecl, len(g.rules))
	copy(rules, g.rules)
	return rules
}

// Size returns the number of rules.
func (g *Grammar) Size() int {
	return len(g.rules)
}

func (g *Grammar) String() string {
	var b strings.Builder
	for _, r := range g.rules {
		b.WriteString(r.String())
		b.WriteString("\n")
	}
	return b.String()
}

// Dump is a debugging helper, tracing all the rules.
func (g *Grammar) Dump() {
	tracer().Debugf("--- grammar %s -----------", g.Name)
	for i, r := range g.rules {
		tracer().Debugf("%3d: %s", i, r)
	}
	tracer().Debugf("-------------------------")
}

type fingerprint struct {
	Rules []string `hash:"name:rules"`
}

// Fingerprint returns a hash of the rules of g. Two grammars with the same
// rules in the same order have the same fingerprint, regardless of their names.
func (g *Grammar) Fingerprint() string {
	fp := fingerprint{Rules: make([]string, len(g.rules))}
	for i, r := range g.rules {
		fp.Rules[i] = r.String()
	}
	h, err := structhash.Hash(fp, 1)
	if err != nil {
		tracer().Errorf("cannot hash grammar %q: %v", g.Name, err)
		return ""
	}
	return h
}

// resolve copies body, setting the IDs of rule references.
func (g *Grammar) resolve(body RuleBody) RuleBody {
	switch e := body.(type) {
	case RuleRef:
		e.id = g.ids[e.Name] + 1
		return e
	case Repeat:
		e.Expr = g.resolve(e.Expr)
		if e.Delim != nil {
			e.Delim = g.resolve(e.Delim)
		}
		return e
	case Sequence:
		items := make([]RuleBody, len(e.Items))
		for i, item := range e.Items {
			items[i] = g.resolve(item)
		}
		return Sequence{Items: items}
	case Choice:
		alts := make([]RuleBody, len(e.Alts))
		for i, alt := range e.Alts {
			alts[i] = g.resolve(alt)
		}
		return Choice{Alts: alts}
	case NameBind:
		e.Expr = g.resolve(e.Expr)
		return e
	case Action:
		e.Expr = g.resolve(e.Expr)
		return e
	case SliceInput:
		e.Expr = g.resolve(e.Expr)
		return e
	}
	return body
}

// --- Validation ------------------------------------------------------------

type refAt struct {
	name, from string
}

func refComparator(a, b interface{}) int {
	r1, r2 := a.(refAt), b.(refAt)
	if c := utils.StringComparator(r1.name, r2.name); c != 0 {
		return c
	}
	return utils.StringComparator(r1.from, r2.from)
}

type validator struct {
	g         *Grammar
	rule      string
	errs      GrammarErrors
	undefined *treeset.Set
}

func (v *validator) fail(code int, msg string, params ...interface{}) {
	v.errs = append(v.errs, grammarError(code, v.rule, msg, params...))
}

func (v *validator) check(body RuleBody) {
	switch e := body.(type) {
	case nil:
		v.fail(MissingExpressionError, "missing sub-expression")
	case RuleRef:
		if _, ok := v.g.ids[e.Name]; !ok {
			v.undefined.Add(refAt{name: e.Name, from: v.rule})
		}
	case CharClass:
		if len(e.Ranges) == 0 {
			v.fail(InvalidClassError, "empty character class")
		}
		for _, rng := range e.Ranges {
			if rng.Lo > rng.Hi {
				v.fail(InvalidClassError, "invalid character range %s", rng)
			}
		}
	case Literal:
	case Repeat:
		if e.Min < 0 || (e.Max != Unbounded && e.Max < e.Min) {
			v.fail(InvalidRepeatError, "invalid repetition bounds %d…%d in %s", e.Min, e.Max, e)
		}
		v.check(e.Expr)
		if e.Delim != nil {
			v.check(e.Delim)
		}
	case Sequence:
		seen := make(map[string]bool)
		for _, item := range e.Items {
			v.check(item)
			for _, name := range boundNames(item, nil) {
				if seen[name] {
					v.fail(BindingCollisionError, "name %q bound more than once in %s", name, e)
				}
				seen[name] = true
			}
		}
	case Choice:
		for _, alt := range e.Alts {
			v.check(alt)
		}
	case NameBind:
		v.check(e.Expr)
	case Action:
		v.check(e.Expr)
		if e.Action == nil {
			v.fail(MissingExpressionError, "action without body")
			return
		}
		bound := boundNames(e.Expr, nil)
	NAMES:
		for _, name := range actionNames(e.Action, nil) {
			for _, b := range bound {
				if b == name {
					continue NAMES
				}
			}
			v.fail(UnboundNameError, "action { %s } uses name %q which is not bound", e.Action, name)
		}
	case SliceInput:
		v.check(e.Expr)
	}
}

// boundNames collects the names an expression makes visible to its enclosing
// scope. Each name is listed once.
func boundNames(body RuleBody, names []string) []string {
	add := func(name string) {
		for _, n := range names {
			if n == name {
				return
			}
		}
		names = append(names, name)
	}
	switch e := body.(type) {
	case NameBind:
		for _, n := range boundNames(e.Expr, nil) {
			add(n)
		}
		add(e.Name)
	case Repeat:
		for _, n := range boundNames(e.Expr, nil) {
			add(n)
		}
	case Sequence:
		for _, item := range e.Items {
			for _, n := range boundNames(item, nil) {
				add(n)
			}
		}
	case Choice:
		for _, alt := range e.Alts {
			for _, n := range boundNames(alt, nil) {
				add(n)
			}
		}
	}
	return names
}
