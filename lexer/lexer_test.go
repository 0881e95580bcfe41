package lexer

import (
	"strings"
	"testing"

	"github.com/npillmayer/packrat"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestLinesIndent(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "packrat.lexer")
	defer teardown()
	//
	source := "rule start\n  a := b\n\n    λx.x  y\n"
	lines, err := Lines(source)
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, have %d", len(lines))
	}
	indents := []int{0, 2, 0, 4}
	counts := []int{2, 3, 0, 2}
	for i, line := range lines {
		if line.Indent != indents[i] {
			t.Errorf("line %d: expected indent %d, have %d", i, indents[i], line.Indent)
		}
		if len(line.Tokens) != counts[i] {
			t.Errorf("line %d: expected %d tokens, have %d", i, counts[i], len(line.Tokens))
		}
	}
	if lx := lines[3].Tokens[0].Lexeme(); lx != "λx.x" {
		t.Errorf("expected multi-byte token 'λx.x', have %q", lx)
	}
	if s := lines[1].Tokens[1].Span().Of(source); s != ":=" {
		t.Errorf("expected span of second token on line 2 to cover ':=', covers %q", s)
	}
}

func TestLinesNoTrailingNewline(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "packrat.lexer")
	defer teardown()
	//
	lines, err := Lines("a b\nc")
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, have %d", len(lines))
	}
	if lines[1].Tokens[0].Lexeme() != "c" {
		t.Errorf("expected last line to hold 'c'")
	}
}

func TestLinesEmpty(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "packrat.lexer")
	defer teardown()
	//
	lines, err := Lines("")
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 0 {
		t.Errorf("expected no lines for empty input, have %d", len(lines))
	}
}

func TestLinesSkipNonPrintable(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "packrat.lexer")
	defer teardown()
	//
	inputs := []struct {
		source string
		bad    []int  // byte positions which have to be skipped
		names  string // remaining tokens, blank separated
	}{
		{"a\x00b", []int{1}, "a b"},
		{"\x01\x02 \x7f", []int{0, 1, 3}, ""},
		{"x \xff\xfe y", []int{2, 3}, "x y"},
		{"\u200b", []int{0, 1, 2}, ""},
		{"ab\u200bcd", []int{2, 3, 4}, "ab cd"},
	}
	for _, input := range inputs {
		lx, err := New(input.source)
		if err != nil {
			t.Fatal(err)
		}
		var names []string
		for line, ok := lx.Next(); ok; line, ok = lx.Next() {
			for _, token := range line.Tokens {
				names = append(names, token.Lexeme())
				if token.Span().Of(input.source) != token.Lexeme() {
					t.Errorf("%q: span %s does not cover token %q", input.source, token.Span(), token.Lexeme())
				}
			}
		}
		if have := strings.Join(names, " "); have != input.names {
			t.Errorf("%q: expected tokens %q, have %q", input.source, input.names, have)
		}
		for _, pos := range input.bad {
			if !covers(lx.Errors(), pos) {
				t.Errorf("%q: expected byte %d to be reported as skipped, errors are %v",
					input.source, pos, lx.Errors())
			}
		}
		if _, err := Lines(input.source); err == nil {
			t.Errorf("%q: expected Lines to report skipped input", input.source)
		}
	}
}

func TestLinesKeepPrintable(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "packrat.lexer")
	defer teardown()
	//
	lines, err := Lines("größe := 𝔸 ~x")
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 1 || len(lines[0].Tokens) != 4 {
		t.Fatalf("expected 1 line with 4 tokens, have %v", lines)
	}
}

func covers(spans []packrat.Span, pos int) bool {
	for _, s := range spans {
		if s.From() <= pos && pos < s.To() {
			return true
		}
	}
	return false
}
