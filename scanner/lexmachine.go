package scanner

import (
	"fmt"
	"strings"

	"github.com/npillmayer/packrat"

	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

// EOF is the token type of the final token of every scan.
const EOF packrat.TokType = -1

// Tokenizer is a scanner interface.
type Tokenizer interface {
	NextToken() packrat.Token
	SetErrorHandler(func(error))
}

// LMAdapter is a lexmachine adapter to use lexmachine as a scanner.
type LMAdapter struct {
	Lexer *lexmachine.Lexer
}

// NewLMAdapter creates a new lexmachine adapter. It receives a list of
// literals ('[', ';', …), a list of keywords ("rule", …) and a
// map for translating token strings to their values.
//
// Literals are added after the patterns of init, keywords last. For matches of
// equal length lexmachine prefers the pattern added first.
//
// NewLMAdapter will return an error if compiling the DFA failed.
func NewLMAdapter(init func(*lexmachine.Lexer), literals []string, keywords []string,
	tokenIds map[string]int) (*LMAdapter, error) {
	//
	adapter := &LMAdapter{}
	adapter.Lexer = lexmachine.NewLexer()
	init(adapter.Lexer)
	for _, lit := range literals {
		r := "\\" + strings.Join(strings.Split(lit, ""), "\\")
		adapter.Lexer.Add([]byte(r), MakeToken(lit, tokenIds[lit]))
	}
	for _, name := range keywords {
		adapter.Lexer.Add([]byte(strings.ToLower(name)), MakeToken(name, tokenIds[name]))
	}
	if err := adapter.Lexer.Compile(); err != nil {
		tracer().Errorf("Error compiling DFA: %v", err)
		return nil, err
	}
	return adapter, nil
}

// Scanner creates a scanner for a given input. The scanner will implement the
// Tokenizer interface.
func (lm *LMAdapter) Scanner(input string) (*LMScanner, error) {
	s, err := lm.Lexer.Scanner([]byte(input))
	if err != nil {
		return &LMScanner{}, err
	}
	return &LMScanner{scanner: s, Error: logError, end: len(input)}, nil
}

// LMScanner is a scanner type for lexmachine scanners, implementing the
// Tokenizer interface.
type LMScanner struct {
	scanner *lexmachine.Scanner
	Error   func(error)
	end     int // length of input, position of EOF token
}

var _ Tokenizer = (*LMScanner)(nil)

// SetErrorHandler sets an error handler for the scanner.
func (lms *LMScanner) SetErrorHandler(h func(error)) {
	if h == nil {
		lms.Error = logError
		return
	}
	lms.Error = h
}

// Default error reporting function for lexmachine-based scanners
func logError(e error) {
	tracer().Errorf("scanner error: " + e.Error())
}

// NextToken is part of the Tokenizer interface.
//
// Input the DFA cannot consume is reported to the error handler as an
// *UnconsumedError and skipped. After the end of input, NextToken returns
// tokens of type EOF.
func (lms *LMScanner) NextToken() packrat.Token {
	if lms.scanner == nil {
		return MakeDefaultToken(EOF, "", packrat.Span{lms.end, lms.end})
	}
	tok, err, eof := lms.scanner.Next()
	for err != nil {
		if ui, is := err.(*machines.UnconsumedInput); is {
			resume := ui.FailTC
			if resume <= ui.StartTC {
				resume = ui.StartTC + 1
			}
			lms.Error(&UnconsumedError{Span: packrat.Span{ui.StartTC, resume}, Line: ui.StartLine,
				Col: ui.StartColumn})
			lms.scanner.TC = resume
		} else {
			lms.Error(err)
		}
		tok, err, eof = lms.scanner.Next()
	}
	if eof {
		return MakeDefaultToken(EOF, "", packrat.Span{lms.end, lms.end})
	}
	token := tok.(*lexmachine.Token)
	tracer().Debugf("token %d %q @%d", token.Type, token.Lexeme, token.TC)
	return DefaultToken{
		kind:   packrat.TokType(token.Type),
		lexeme: string(token.Lexeme),
		Val:    token.Value,
		span:   packrat.Span{token.TC, token.TC + len(token.Lexeme)},
	}
}

// UnconsumedError is reported for input no token pattern matches.
type UnconsumedError struct {
	Span      packrat.Span
	Line, Col int
}

func (e *UnconsumedError) Error() string {
	return fmt.Sprintf("unexpected input at line %d col %d %s", e.Line, e.Col, e.Span)
}

// ---------------------------------------------------------------------------

// Skip is a pre-defined action which ignores the scanned match.
func Skip(*lexmachine.Scanner, *machines.Match) (interface{}, error) {
	return nil, nil
}

// MakeToken is a pre-defined action which wraps a scanned match into a token.
func MakeToken(name string, id int) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(id, name, m), nil
	}
}

// --- Default tokens --------------------------------------------------------

// DefaultToken is a very unsophisticated token type, produced by the
// LexMachine scanner.
type DefaultToken struct {
	kind   packrat.TokType
	lexeme string
	Val    interface{}
	span   packrat.Span
}

// MakeDefaultToken creates a token without a value.
func MakeDefaultToken(typ packrat.TokType, lexeme string, span packrat.Span) DefaultToken {
	return DefaultToken{
		kind:   typ,
		lexeme: lexeme,
		span:   span,
	}
}

func (t DefaultToken) TokType() packrat.TokType {
	return t.kind
}

func (t DefaultToken) Value() interface{} {
	return t.Val
}

func (t DefaultToken) Lexeme() string {
	return t.lexeme
}

func (t DefaultToken) Span() packrat.Span {
	return t.span
}

func (t DefaultToken) String() string {
	return fmt.Sprintf("<%d %q %s>", t.kind, t.lexeme, t.span)
}
