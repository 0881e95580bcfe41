package main

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/npillmayer/packrat/lexer"
	"github.com/npillmayer/packrat/peg"
	"github.com/pterm/pterm"
)

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.EnableDebugMessages()
	pterm.Info.Prefix = pterm.Prefix{
		Text:  "  >>",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "  Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

// printResult displays a parse result as a tree.
func printResult(label string, r peg.Result, input string) {
	pterm.Println(label)
	ll := leveledResult(r, input, pterm.LeveledList{}, 0)
	tracer().Debugf("|ll| = %d", len(ll))
	root := pterm.NewTreeFromLeveledList(ll)
	if err := pterm.DefaultTree.WithRoot(root).Render(); err != nil {
		tracer().Errorf("cannot render result tree: %v", err)
	}
}

// leveledResult flattens a result into a leveled list, children one level
// below their parent.
func leveledResult(r peg.Result, input string, ll pterm.LeveledList, level int) pterm.LeveledList {
	ll = append(ll, pterm.LeveledListItem{
		Level: level,
		Text:  resultLabel(r, input),
	})
	for _, ch := range r.Children {
		ll = leveledResult(ch, input, ll, level+1)
	}
	return ll
}

func resultLabel(r peg.Result, input string) string {
	switch r.Kind {
	case peg.ValueKind:
		return strconv.Quote(r.Span.Of(input)) + " " + r.Span.String()
	case peg.LiteralKind:
		return "#" + strconv.Quote(r.Text)
	case peg.ConstructKind:
		return r.Tag
	case peg.ListKind:
		return fmt.Sprintf("list[%d]", len(r.Children))
	}
	return r.String()
}

// printDiagnostic reports a parse error, showing the offending line of input.
func printDiagnostic(input string, err error) {
	perr, ok := err.(*peg.ParseError)
	if !ok {
		pterm.Error.Println(err.Error())
		return
	}
	lines := diagnosticLines(input, perr.Diagnostic)
	pterm.Error.Println(lines[0])
	for _, l := range lines[1:] {
		pterm.Println(l)
	}
}

// diagnosticLines renders d as a message, followed by the input line d
// refers to and a caret marking the column.
func diagnosticLines(input string, d peg.Diagnostic) []string {
	pos := d.Span.From()
	if pos > len(input) {
		pos = len(input)
	}
	start := strings.LastIndexByte(input[:pos], '\n') + 1
	end := strings.IndexByte(input[pos:], '\n')
	if end < 0 {
		end = len(input)
	} else {
		end += pos
	}
	lineno := strings.Count(input[:start], "\n") + 1
	col := utf8.RuneCountInString(input[start:pos]) + 1
	var caret strings.Builder
	for _, r := range input[start:pos] {
		if r == '\t' {
			caret.WriteRune('\t')
		} else {
			caret.WriteRune(' ')
		}
	}
	caret.WriteRune('^')
	return []string{
		fmt.Sprintf("line %d, column %d: %s", lineno, col, d.Message()),
		strings.TrimRight(input[start:end], "\r"),
		caret.String(),
	}
}

// lineLabel renders a lexer line as its indentation followed by its tokens.
func lineLabel(l lexer.Line) string {
	lexemes := make([]string, len(l.Tokens))
	for i, tok := range l.Tokens {
		lexemes[i] = tok.Lexeme()
	}
	return fmt.Sprintf("%3d | %s", l.Indent, strings.Join(lexemes, " · "))
}
