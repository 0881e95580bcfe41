package peg

import (
	"errors"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestGrammarBuilder(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "packrat.peg")
	defer teardown()
	//
	g, err := NewGrammarBuilder("G").
		Rule("start", "", Seq(Lit("a"), Ref("inner"))).
		Rule("inner", "string", Class(Range('0', '9'))).
		Grammar()
	if err != nil {
		t.Fatal(err)
	}
	g.Dump()
	if g.Size() != 2 {
		t.Errorf("expected grammar to have 2 rules, has %d", g.Size())
	}
	if id, ok := g.RuleID("inner"); !ok || id != 1 {
		t.Errorf("expected rule inner to have ID 1, has %d", id)
	}
	r, _ := g.Rule("start")
	ref := r.Body.(Sequence).Items[1].(RuleRef)
	if ref.id != 2 {
		t.Errorf("expected reference to inner to be resolved, is %d", ref.id)
	}
	if _, ok := g.Rule("outer"); ok {
		t.Errorf("did not expect to find rule outer")
	}
}

func TestGrammarString(t *testing.T) {
	g, err := NewGrammarBuilder("G").
		Rule("start", "Out", Act(Seq(Lit("a"), Bind("c", Class(Range('w', 'y'))), Bind("d", Lit("q"))),
			Name("c"))).
		Rule("list", "", Rep(Alt(Ref("start"), Lit("x")), 0, Unbounded, Lit(","))).
		Grammar()
	if err != nil {
		t.Fatal(err)
	}
	expected := `rule start -> Out { "a" c:[ 'w'-'y' ] d:"q" { c } }
rule list { (start / "x") ** "," }
`
	if s := g.String(); s != expected {
		t.Errorf("unexpected grammar rendering:\n%s", s)
	}
}

func TestGrammarErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "packrat.peg")
	defer teardown()
	//
	var tests = []struct {
		name   string
		rules  []RuleDecl
		code   int
		target error
	}{
		{"empty", nil, EmptyGrammarError, ErrInvalidGrammar},
		{"duplicate", []RuleDecl{
			{Name: "a", Body: Lit("a")},
			{Name: "a", Body: Lit("b")},
		}, DuplicateRuleError, ErrInvalidGrammar},
		{"undefined", []RuleDecl{
			{Name: "a", Body: Seq(Lit("a"), Ref("b"))},
		}, UndefinedRuleError, ErrUndefinedRule},
		{"no-body", []RuleDecl{
			{Name: "a"},
		}, MissingExpressionError, ErrInvalidGrammar},
		{"repeat-bounds", []RuleDecl{
			{Name: "a", Body: Rep(Lit("a"), 3, 2, nil)},
		}, InvalidRepeatError, ErrInvalidGrammar},
		{"negative-min", []RuleDecl{
			{Name: "a", Body: Rep(Lit("a"), -1, Unbounded, nil)},
		}, InvalidRepeatError, ErrInvalidGrammar},
		{"empty-class", []RuleDecl{
			{Name: "a", Body: Class()},
		}, InvalidClassError, ErrInvalidGrammar},
		{"reversed-range", []RuleDecl{
			{Name: "a", Body: Class(Range('z', 'a'))},
		}, InvalidClassError, ErrInvalidGrammar},
		{"unbound", []RuleDecl{
			{Name: "a", Body: Act(Seq(Bind("x", Lit("a")), Lit("b")), Name("y"))},
		}, UnboundNameError, ErrUnboundName},
		{"no-leak-from-rule", []RuleDecl{
			{Name: "a", Body: Act(Ref("b"), Name("x"))},
			{Name: "b", Body: Bind("x", Lit("b"))},
		}, UnboundNameError, ErrUnboundName},
		{"no-leak-from-action", []RuleDecl{
			{Name: "a", Body: Act(Seq(Act(Bind("x", Lit("a")), Name("x")), Lit("b")), Name("x"))},
		}, UnboundNameError, ErrUnboundName},
		{"collision", []RuleDecl{
			{Name: "a", Body: Seq(Bind("x", Lit("a")), Bind("x", Lit("b")))},
		}, BindingCollisionError, ErrInvalidGrammar},
	}
	for _, test := range tests {
		_, err := NewGrammar(test.name, test.rules)
		if err == nil {
			t.Errorf("%s: expected grammar to be rejected", test.name)
			continue
		}
		t.Logf("%s: %v", test.name, err)
		if !errors.Is(err, test.target) {
			t.Errorf("%s: expected error to match %v", test.name, test.target)
		}
		var gerr *GrammarError
		if !errors.As(err, &gerr) || gerr.Code != test.code {
			t.Errorf("%s: expected grammar error with code %d, have %v", test.name, test.code, err)
		}
	}
}

func TestGrammarCollectsAllErrors(t *testing.T) {
	_, err := NewGrammar("G", []RuleDecl{
		{Name: "a", Body: Seq(Ref("x"), Ref("y"))},
		{Name: "b", Body: Seq(Ref("x"), Class())},
	})
	var errs GrammarErrors
	if !errors.As(err, &errs) {
		t.Fatalf("expected GrammarErrors, have %v", err)
	}
	// undefined x is reported once per referencing rule
	if len(errs) != 4 {
		t.Errorf("expected 4 errors, have %d: %v", len(errs), err)
	}
}

func TestGrammarFingerprint(t *testing.T) {
	rules := func(lit string) []RuleDecl {
		return []RuleDecl{
			{Name: "start", Body: Plus(Ref("digit"))},
			{Name: "digit", Body: Alt(Class(Range('0', '9')), Lit(lit))},
		}
	}
	g1, err1 := NewGrammar("one", rules("_"))
	g2, err2 := NewGrammar("two", rules("_"))
	g3, err3 := NewGrammar("three", rules("-"))
	if err := errors.Join(err1, err2, err3); err != nil {
		t.Fatal(err)
	}
	if g1.Fingerprint() == "" {
		t.Fatalf("expected a fingerprint")
	}
	if g1.Fingerprint() != g2.Fingerprint() {
		t.Errorf("expected equal rules to have equal fingerprints")
	}
	if g1.Fingerprint() == g3.Fingerprint() {
		t.Errorf("expected different rules to have different fingerprints")
	}
}
