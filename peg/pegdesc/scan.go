package pegdesc

import (
	"fmt"
	"sync"

	"github.com/npillmayer/packrat"
	"github.com/npillmayer/packrat/scanner"
	"github.com/timtadh/lexmachine"
)

// Token types of grammar descriptions.
const (
	IDENT packrat.TokType = iota + 1
	STRING
	CHAR
	INT
)

// The tokens representing punctuation and operators
var literals = []string{"->", "{", "}", "(", ")", "[", "]", "|", "-", "/",
	"*", "+", "?", ":", "$", ",", "**", "++", "<", ">"}

// tokenIds will be set in initTokens()
var tokenIds map[string]int // A map from the token names to their token types

var (
	initOnce sync.Once // monitors one-time initialization
	adapter  *scanner.LMAdapter
	lexErr   error
)

func initTokens() {
	initOnce.Do(func() {
		tokenIds = make(map[string]int)
		tokenIds["IDENT"] = int(IDENT)
		tokenIds["STRING"] = int(STRING)
		tokenIds["CHAR"] = int(CHAR)
		tokenIds["INT"] = int(INT)
		for i, lit := range literals {
			tokenIds[lit] = 10 + i
		}
		adapter, lexErr = scanner.NewLMAdapter(func(lexer *lexmachine.Lexer) {
			lexer.Add([]byte(`//[^\n]*\n?`), scanner.Skip) // skip comments
			lexer.Add([]byte(`\"([^"\\]|\\.)*\"`), scanner.MakeToken("STRING", tokenIds["STRING"]))
			lexer.Add([]byte(`\'([^'\\]|\\.)+\'`), scanner.MakeToken("CHAR", tokenIds["CHAR"]))
			lexer.Add([]byte(`([a-z]|[A-Z]|_)([a-z]|[A-Z]|[0-9]|_)*`), scanner.MakeToken("IDENT", tokenIds["IDENT"]))
			lexer.Add([]byte(`[0-9]+`), scanner.MakeToken("INT", tokenIds["INT"]))
			lexer.Add([]byte(`( |\t|\n|\r)+`), scanner.Skip)
		}, literals, nil, tokenIds)
	})
}

// literal returns the token type of a punctuation or operator token.
func literal(lit string) packrat.TokType {
	id, ok := tokenIds[lit]
	if !ok {
		panic("unknown literal token " + lit)
	}
	return packrat.TokType(id)
}

// tokenize scans a complete grammar description. Input no pattern matches is
// reported as a syntax error.
func tokenize(source string) ([]packrat.Token, error) {
	initTokens()
	if lexErr != nil {
		return nil, lexErr
	}
	scan, err := adapter.Scanner(source)
	if err != nil {
		return nil, err
	}
	var serr error
	scan.SetErrorHandler(func(e error) {
		if serr != nil {
			return
		}
		if ue, ok := e.(*scanner.UnconsumedError); ok {
			line, col := position(source, ue.Span.From())
			serr = &Error{Line: line, Col: col, Span: ue.Span,
				Msg: fmt.Sprintf("unexpected input %q", ue.Span.Of(source))}
			return
		}
		serr = e
	})
	var toks []packrat.Token
	for {
		tok := scan.NextToken()
		if tok.TokType() == scanner.EOF {
			toks = append(toks, tok)
			break
		}
		toks = append(toks, tok)
	}
	return toks, serr
}
