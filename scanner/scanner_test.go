package scanner

import (
	"testing"

	"github.com/npillmayer/packrat"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/timtadh/lexmachine"
)

var tokenIds = map[string]int{
	"ID":  1,
	"NUM": 2,
	"(":   '(',
	")":   ')',
	"->":  3,
	"if":  4,
}

func makeAdapter(t *testing.T) *LMAdapter {
	init := func(lexer *lexmachine.Lexer) {
		lexer.Add([]byte(`//[^\n]*\n?`), Skip)
		lexer.Add([]byte(`([a-z]|[A-Z])([a-z]|[A-Z]|[0-9]|_)*`), MakeToken("ID", tokenIds["ID"]))
		lexer.Add([]byte(`[0-9]+`), MakeToken("NUM", tokenIds["NUM"]))
		lexer.Add([]byte(`( |\t|\n|\r)+`), Skip)
	}
	adapter, err := NewLMAdapter(init, []string{"(", ")", "->"}, nil, tokenIds)
	if err != nil {
		t.Fatal(err)
	}
	return adapter
}

var lmInputs = []string{
	"a",
	"(a 12)",
	"x -> y // comment",
	"",
}

var lmTokenCounts = []int{1, 4, 3, 0}

func TestLM(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "packrat.scanner")
	defer teardown()
	//
	adapter := makeAdapter(t)
	for i, input := range lmInputs {
		scan, err := adapter.Scanner(input)
		if err != nil {
			t.Fatal(err)
		}
		scan.SetErrorHandler(func(e error) {
			t.Error(e)
		})
		count := 0
		for token := scan.NextToken(); token.TokType() != EOF; token = scan.NextToken() {
			t.Logf(" %4d | %8q | %s", token.TokType(), token.Lexeme(), token.Span())
			count++
		}
		if count != lmTokenCounts[i] {
			t.Errorf("Expected token count for #%d to be %d, is %d", i, lmTokenCounts[i], count)
		}
	}
}

func TestLMSpans(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "packrat.scanner")
	defer teardown()
	//
	adapter := makeAdapter(t)
	scan, _ := adapter.Scanner("ab -> 42")
	expected := []packrat.Span{{0, 2}, {3, 5}, {6, 8}, {8, 8}}
	for i, span := range expected {
		token := scan.NextToken()
		if token.Span() != span {
			t.Errorf("token #%d: expected span %s, have %s", i, span, token.Span())
		}
	}
}

func TestLMUnconsumedInput(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "packrat.scanner")
	defer teardown()
	//
	adapter := makeAdapter(t)
	scan, _ := adapter.Scanner("a % b")
	var errs []error
	scan.SetErrorHandler(func(e error) {
		errs = append(errs, e)
	})
	count := 0
	for token := scan.NextToken(); token.TokType() != EOF; token = scan.NextToken() {
		count++
	}
	if count != 2 {
		t.Errorf("expected 2 tokens around the illegal character, have %d", count)
	}
	if len(errs) != 1 {
		t.Fatalf("expected 1 scanner error, have %d", len(errs))
	}
	ue, ok := errs[0].(*UnconsumedError)
	if !ok {
		t.Fatalf("expected error of type *UnconsumedError, have %T", errs[0])
	}
	if ue.Span.From() != 2 || ue.Span.Len() < 1 {
		t.Errorf("expected a non-empty error span starting at 2, have %s", ue.Span)
	}
}
