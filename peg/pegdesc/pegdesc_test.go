package pegdesc

import (
	"errors"
	"testing"

	"github.com/npillmayer/packrat/peg"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var parseTests = []struct {
	name   string
	syntax string
	pass   []string
	fail   []string
}{
	{
		name: "literal",
		syntax: `
			rule start -> Input {
				"lol"
			}`,
		pass: []string{"lol"},
		fail: []string{"lolz", "loll", "lol ", "", "l", "lo", " lol", "lo\nn"},
	}, {
		name: "literal_indirect",
		syntax: `
			rule start -> Input {
				lol
			}
			rule lol -> Input {
				"lol"
			}`,
		pass: []string{"lol"},
		fail: []string{"lolz", "loll", "lol ", "", "l", "lo", " lol", "lo\nn"},
	}, {
		name: "charclass",
		syntax: `
			rule start -> Input {
				$([ 'w'-'z' | '8' | 'p'-'q' ])
			}`,
		pass: []string{"8", "w", "x", "y", "z", "p", "q"},
		fail: []string{"a", "b", "v", "7", "9", "o", "r", " ", "w8", "8w"},
	}, {
		name: "repeat_bounded",
		syntax: `
			rule start -> Input {
				"a"<2,3> "b"<1,*,","> "c"<2>
			}`,
		pass: []string{"aabcc", "aaab,b,bcc"},
		fail: []string{"abcc", "aaaabcc", "aacc", "aab,cc", "aabc", "aabccc"},
	}, {
		name: "repeat_star",
		syntax: `
			rule start -> Input {
				$([ 'w'-'z' | '8' | 'p'-'q' ]*)
			}`,
		pass: []string{"8", "w", "x", "y", "z", "p", "q", "", "8w", "w8", "wxyz8pqpq8wz"},
		fail: []string{"a", "b", "v", "7", "9", "o", "r", " ", "wxya", "w8 "},
	}, {
		name: "sequence",
		syntax: `
			rule start -> Input {
				"a" ['w'-'y'] "q"
			}`,
		pass: []string{"awq", "axq", "ayq"},
		fail: []string{"a", "aw", "ax", "ay", "aqq", "aaq", "bwq", "", "awqq"},
	}, {
		name: "choice",
		syntax: `
			rule start -> Input {
				"a" / ['w'-'y'] / "q"
			}`,
		pass: []string{"a", "w", "y", "q"},
		fail: []string{"aw", "", "b", "z", "wy", "wq"},
	}, {
		name: "action",
		syntax: `
			rule start -> Input {
				"a" c:['w'-'y'] d:"q" { c }
			}`,
		pass: []string{"awq", "axq", "ayq"},
		fail: []string{"a", "aw", "ax", "ay", "aqq", "aaq", "bwq", "", "awqq"},
	}, {
		name: "delimited",
		syntax: `
			// comma separated digits, at least one
			rule start {
				[ '0'-'9' ] ++ ","   // no trailing comma
			}`,
		pass: []string{"1", "1,2", "1,2,3"},
		fail: []string{"", ",", "1,", "1,,2", "12"},
	}, {
		name: "escapes",
		syntax: `
			rule start {
				"\"" [ '\'' | '\\' | '\t' ]? "\n"
			}`,
		pass: []string{"\"\n", "\"'\n", "\"\\\n", "\"\t\n"},
		fail: []string{"\"", "\"x\n", "'\n"},
	},
}

func TestLoadAndParse(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "packrat.peg")
	defer teardown()
	//
	for _, test := range parseTests {
		t.Run(test.name, func(t *testing.T) {
			g, err := Load(test.name, test.syntax)
			require.NoError(t, err)
			for _, input := range test.pass {
				_, err := peg.ParseFullInput(g, "start", input)
				assert.NoError(t, err, "input %q should be accepted", input)
			}
			for _, input := range test.fail {
				_, err := peg.ParseFullInput(g, "start", input)
				assert.ErrorIs(t, err, peg.ErrNoMatch, "input %q should be rejected", input)
			}
		})
	}
}

func TestActionsConstructNodes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "packrat.peg")
	defer teardown()
	//
	g := MustLoad("expr", `
		rule expr -> Expr {
			l:num "+" r:expr { Add(l, "plus", r) }
			/ num
		}
		rule num -> Expr {
			$([ '0'-'9' ]+)
		}`)
	input := "1+23+4"
	m, err := peg.ParseFullInput(g, "expr", input)
	require.NoError(t, err)
	assert.Equal(t, `(Add "1" #"plus" (Add "23" #"plus" "4"))`, m.Value.Format(input))
}

func TestRuleStructure(t *testing.T) {
	rules, err := ParseRules(`
		rule start -> Out {
			x:item ** ";" { x } / $("a" / "b")? / (y:"c")+ { y }
		}`)
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, "start", rules[0].Name)
	assert.Equal(t, "Out", rules[0].Type)
	alts, ok := rules[0].Body.(peg.Choice)
	require.True(t, ok, "expected body to be a choice, is %T", rules[0].Body)
	require.Len(t, alts.Alts, 3)
	act, ok := alts.Alts[0].(peg.Action)
	require.True(t, ok)
	bind, ok := act.Expr.(peg.NameBind)
	require.True(t, ok, "expected x to bind the repetition, is %T", act.Expr)
	rep, ok := bind.Expr.(peg.Repeat)
	require.True(t, ok)
	assert.Equal(t, peg.Lit(";"), rep.Delim)
	assert.Equal(t, 0, rep.Min)
	assert.Equal(t, peg.Unbounded, rep.Max)
	opt, ok := alts.Alts[1].(peg.Repeat)
	require.True(t, ok)
	assert.IsType(t, peg.SliceInput{}, opt.Expr)
}

func TestRoundTrip(t *testing.T) {
	source := `
		rule list -> List {
			"[" items:(elem ** ",") "]" { List(items) }
		}
		rule elem {
			$([ 'a'-'z' | '_' ]+) / "λ" / list / pair / triple
		}
		rule pair {
			"(" elem<2,2,","> ")"
		}
		rule triple {
			"<" (elem ":")<0,3> elem<1,*,(";" / ",")> ">"
		}`
	g1, err := Load("one", source)
	require.NoError(t, err)
	g2, err := Load("two", g1.String())
	require.NoError(t, err, "rendered grammar:\n%s", g1)
	assert.Equal(t, g1.String(), g2.String())
	assert.Equal(t, g1.Fingerprint(), g2.Fingerprint())
	assert.Contains(t, g1.String(), `elem<2,2,",">`)
	assert.Contains(t, g1.String(), `<1,*,(";" / ",")>`)
}

func TestSyntaxErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "packrat.peg")
	defer teardown()
	//
	var tests = []struct {
		syntax    string
		line, col int
	}{
		{"rule start { \"a\" ", 1, 18},
		{"rule start {\n  \"a\" / \n}", 3, 1},
		{"start { \"a\" }", 1, 1},
		{"rule start { [ 'ab' ] }", 1, 16},
		{"rule start { [ ] }", 1, 16},
		{"rule start {\n  \"a\" { }\n}", 2, 9},
		{"rule start { \"a\\q\" }", 1, 14},
		{"rule start { \"a\" # }", 1, 18},
		{"rule start { \"a\"<x> }", 1, 18},
		{"rule start { \"a\"<1,2 }", 1, 22},
	}
	for _, test := range tests {
		_, err := Load("bad", test.syntax)
		require.Error(t, err, "expected %q to be rejected", test.syntax)
		t.Logf("%q: %v", test.syntax, err)
		assert.ErrorIs(t, err, ErrSyntax)
		var serr *Error
		if assert.ErrorAs(t, err, &serr) {
			assert.Equal(t, test.line, serr.Line, "line of error in %q", test.syntax)
			assert.Equal(t, test.col, serr.Col, "column of error in %q", test.syntax)
		}
	}
}

func TestGrammarErrorsPassThrough(t *testing.T) {
	_, err := Load("bad", `rule start { missing }`)
	assert.ErrorIs(t, err, peg.ErrUndefinedRule)
	assert.False(t, errors.Is(err, ErrSyntax))
	_, err = Load("bad", `rule start { x:"a" { y } }`)
	assert.ErrorIs(t, err, peg.ErrUnboundName)
}

func TestMustLoadPanics(t *testing.T) {
	assert.Panics(t, func() {
		MustLoad("bad", "rule")
	})
}

func TestPosition(t *testing.T) {
	line, col := position("ab\nλcd", 6)
	assert.Equal(t, 2, line)
	assert.Equal(t, 3, col)
}
