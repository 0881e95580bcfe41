/*
Package lexer splits source text into lines of tokens.

Every line records its indentation (the number of leading blanks) and the
whitespace-separated tokens on it. The lexer never stops at bad input; spans
which could not be scanned are collected and may be inspected after lexing.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package lexer

import (
	"fmt"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/npillmayer/packrat"
	"github.com/npillmayer/packrat/scanner"
	"github.com/npillmayer/schuko/tracing"
	"github.com/timtadh/lexmachine"
)

// tracer traces with key 'packrat.lexer'.
func tracer() tracing.Trace {
	return tracing.Select("packrat.lexer")
}

// Token types produced by the line lexer.
const (
	Name    packrat.TokType = 1
	Newline packrat.TokType = 2
)

var tokenIds = map[string]int{
	"NAME":    int(Name),
	"NEWLINE": int(Newline),
}

// namePattern matches runs of printable ASCII characters and of byte
// sequences shaped like UTF-8. Control bytes and stray bytes >= 0x80 are
// left unconsumed.
const namePattern = "([!-~]|[\xc2-\xdf][\x80-\xbf]|[\xe0-\xef][\x80-\xbf][\x80-\xbf]|" +
	"[\xf0-\xf4][\x80-\xbf][\x80-\xbf][\x80-\xbf])+"

var adapter *scanner.LMAdapter
var adapterErr error
var startOnce sync.Once // monitors one-time creation of the DFA

func lineAdapter() (*scanner.LMAdapter, error) {
	startOnce.Do(func() {
		init := func(lexer *lexmachine.Lexer) {
			lexer.Add([]byte(namePattern), scanner.MakeToken("NAME", tokenIds["NAME"]))
			lexer.Add([]byte(`\n`), scanner.MakeToken("NEWLINE", tokenIds["NEWLINE"]))
			lexer.Add([]byte(`( |\t|\r)+`), scanner.Skip)
		}
		adapter, adapterErr = scanner.NewLMAdapter(init, nil, nil, tokenIds)
	})
	return adapter, adapterErr
}

// Line is a line of input.
type Line struct {
	Indent int             // count of leading blanks
	Tokens []packrat.Token // tokens on this line, without the line break
	Span   packrat.Span    // span of the line, without the line break
}

func (l Line) String() string {
	return fmt.Sprintf("[%d] %d tokens %s", l.Indent, len(l.Tokens), l.Span)
}

// Lexer produces lines from a source text.
type Lexer struct {
	source string
	scan   *scanner.LMScanner
	pos    int // start of the next line
	done   bool
	errors []packrat.Span
}

// New creates a lexer for source.
func New(source string) (*Lexer, error) {
	lm, err := lineAdapter()
	if err != nil {
		return nil, err
	}
	scan, err := lm.Scanner(source)
	if err != nil {
		return nil, err
	}
	lx := &Lexer{source: source, scan: scan}
	scan.SetErrorHandler(func(e error) {
		if ue, ok := e.(*scanner.UnconsumedError); ok {
			lx.errors = append(lx.errors, ue.Span)
			return
		}
		tracer().Errorf("lexer: %v", e)
	})
	return lx, nil
}

// Next returns the next line. The second return value is false when the source
// is exhausted. A line break immediately followed by the end of the source does
// not start another line.
func (lx *Lexer) Next() (Line, bool) {
	if lx.done {
		return Line{}, false
	}
	line := Line{Indent: lx.indent(lx.pos)}
	start := lx.pos
	for {
		token := lx.scan.NextToken()
		switch token.TokType() {
		case scanner.EOF:
			lx.done = true
			if len(line.Tokens) == 0 && start >= len(lx.source) {
				return Line{}, false
			}
			line.Span = packrat.Span{start, len(lx.source)}
			lx.pos = len(lx.source)
			return line, true
		case Newline:
			line.Span = packrat.Span{start, token.Span().From()}
			lx.pos = token.Span().To()
			tracer().Debugf("line %s", line)
			return line, true
		default:
			line.Tokens = append(line.Tokens, lx.printable(token)...)
		}
	}
}

// printable splits a NAME token at runs of runes which are not graphic or not
// valid UTF-8. The runs are recorded as errors.
func (lx *Lexer) printable(token packrat.Token) []packrat.Token {
	lexeme, at := token.Lexeme(), token.Span().From()
	var tokens []packrat.Token
	start, bad := 0, -1 // start of current piece, start of current bad run
	for i := 0; i < len(lexeme); {
		r, size := utf8.DecodeRuneInString(lexeme[i:])
		ok := unicode.IsGraphic(r) && !(r == utf8.RuneError && size == 1)
		switch {
		case !ok && bad < 0:
			if i > start {
				tokens = append(tokens, lx.piece(lexeme, at, start, i))
			}
			bad = i
		case ok && bad >= 0:
			lx.errors = append(lx.errors, packrat.Span{at + bad, at + i})
			start, bad = i, -1
		}
		i += size
	}
	if bad >= 0 {
		lx.errors = append(lx.errors, packrat.Span{at + bad, at + len(lexeme)})
	} else if start == 0 {
		return []packrat.Token{token}
	} else {
		tokens = append(tokens, lx.piece(lexeme, at, start, len(lexeme)))
	}
	return tokens
}

func (lx *Lexer) piece(lexeme string, at, from, to int) packrat.Token {
	return scanner.MakeDefaultToken(Name, lexeme[from:to], packrat.Span{at + from, at + to})
}

// Errors returns the spans of input the lexer had to skip.
func (lx *Lexer) Errors() []packrat.Span {
	return lx.errors
}

func (lx *Lexer) indent(pos int) int {
	n := 0
	for pos+n < len(lx.source) && lx.source[pos+n] == ' ' {
		n++
	}
	return n
}

// Lines lexes a complete source text.
func Lines(source string) ([]Line, error) {
	lx, err := New(source)
	if err != nil {
		return nil, err
	}
	var lines []Line
	for line, ok := lx.Next(); ok; line, ok = lx.Next() {
		lines = append(lines, line)
	}
	if len(lx.errors) > 0 {
		return lines, fmt.Errorf("lexer skipped %d pieces of input, first at %s", len(lx.errors),
			lx.errors[0])
	}
	return lines, nil
}
