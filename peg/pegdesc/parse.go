package pegdesc

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/npillmayer/packrat"
	"github.com/npillmayer/packrat/peg"
)

// ErrSyntax is matched by all errors in the text of a grammar description.
var ErrSyntax = errors.New("syntax error in grammar description")

// Error is a syntax error in a grammar description.
type Error struct {
	Line, Col int // 1-based
	Span      packrat.Span
	Msg       string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Col, e.Msg)
}

// Is matches ErrSyntax.
func (e *Error) Is(target error) bool {
	return target == ErrSyntax
}

// Load reads a grammar description and builds a validated grammar from it.
// Syntax errors are reported as *Error, problems with the rules as
// peg.GrammarErrors.
func Load(name string, source string) (*peg.Grammar, error) {
	rules, err := ParseRules(source)
	if err != nil {
		return nil, err
	}
	return peg.NewGrammar(name, rules)
}

// MustLoad is like Load, but panics on errors. It is intended for grammars
// compiled into a program.
func MustLoad(name string, source string) *peg.Grammar {
	g, err := Load(name, source)
	if err != nil {
		panic(fmt.Sprintf("grammar %s: %v", name, err))
	}
	return g
}

// ParseRules reads the rule declarations of a grammar description without
// validating them.
func ParseRules(source string) ([]peg.RuleDecl, error) {
	toks, err := tokenize(source)
	if err != nil {
		return nil, err
	}
	p := &parser{source: source, toks: toks}
	return p.file()
}

// --- Recursive descent -----------------------------------------------------

type parser struct {
	source string
	toks   []packrat.Token
	pos    int
}

// bailout is used to unwind the parser on the first error.
type bailout struct {
	err *Error
}

func (p *parser) peek() packrat.Token {
	return p.toks[p.pos]
}

func (p *parser) peekAt(n int) packrat.Token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}

func (p *parser) next() packrat.Token {
	tok := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return tok
}

func (p *parser) is(typ packrat.TokType) bool {
	return p.peek().TokType() == typ
}

func (p *parser) isLit(lit string) bool {
	return p.is(literal(lit))
}

func (p *parser) accept(lit string) bool {
	if p.isLit(lit) {
		p.next()
		return true
	}
	return false
}

func (p *parser) expect(lit string) packrat.Token {
	if !p.isLit(lit) {
		p.fail(p.peek(), "expected %q, found %s", lit, describe(p.peek()))
	}
	return p.next()
}

func (p *parser) ident(what string) string {
	if !p.is(IDENT) {
		p.fail(p.peek(), "expected %s, found %s", what, describe(p.peek()))
	}
	return p.next().Lexeme()
}

func (p *parser) fail(at packrat.Token, msg string, args ...interface{}) {
	line, col := position(p.source, at.Span().From())
	panic(bailout{&Error{Line: line, Col: col, Span: at.Span(), Msg: fmt.Sprintf(msg, args...)}})
}

func describe(tok packrat.Token) string {
	if tok.Lexeme() == "" {
		return "end of input"
	}
	return fmt.Sprintf("%q", tok.Lexeme())
}

// position computes line and column of a byte offset. Columns count runes.
func position(source string, offset int) (int, int) {
	if offset > len(source) {
		offset = len(source)
	}
	before := source[:offset]
	line := strings.Count(before, "\n") + 1
	if nl := strings.LastIndexByte(before, '\n'); nl >= 0 {
		before = before[nl+1:]
	}
	return line, utf8.RuneCountInString(before) + 1
}

// file := { 'rule' IDENT [ '->' IDENT ] '{' choice '}' }
func (p *parser) file() (rules []peg.RuleDecl, err error) {
	defer func() {
		if r := recover(); r != nil {
			b, ok := r.(bailout)
			if !ok {
				panic(r)
			}
			tracer().Errorf("grammar description: %v", b.err)
			rules, err = nil, b.err
		}
	}()
	for !p.atEnd() {
		if !p.is(IDENT) || p.peek().Lexeme() != "rule" {
			p.fail(p.peek(), "expected \"rule\", found %s", describe(p.peek()))
		}
		p.next()
		decl := peg.RuleDecl{Name: p.ident("rule name")}
		if p.accept("->") {
			decl.Type = p.ident("type name")
		}
		p.expect("{")
		decl.Body = p.choice()
		p.expect("}")
		tracer().Debugf("%s", decl)
		rules = append(rules, decl)
	}
	return rules, nil
}

func (p *parser) atEnd() bool {
	return p.peek().TokType() < 0
}

// choice := sequence { '/' sequence }
func (p *parser) choice() peg.RuleBody {
	alts := []peg.RuleBody{p.sequence()}
	for p.accept("/") {
		alts = append(alts, p.sequence())
	}
	return peg.Alt(alts...)
}

// sequence := item { item } [ '{' action '}' ]
func (p *parser) sequence() peg.RuleBody {
	if !p.startsItem() {
		p.fail(p.peek(), "expected expression, found %s", describe(p.peek()))
	}
	var items []peg.RuleBody
	for p.startsItem() {
		items = append(items, p.item())
	}
	seq := peg.Seq(items...)
	if p.accept("{") {
		act := p.action()
		p.expect("}")
		return peg.Act(seq, act)
	}
	return seq
}

func (p *parser) startsItem() bool {
	switch {
	case p.is(STRING), p.is(IDENT), p.isLit("["), p.isLit("("), p.isLit("$"):
		return true
	}
	return false
}

// item := [ IDENT ':' ] postfix
func (p *parser) item() peg.RuleBody {
	if p.is(IDENT) && p.peekAt(1).TokType() == literal(":") {
		name := p.next().Lexeme()
		p.next()
		return peg.Bind(name, p.postfix())
	}
	return p.postfix()
}

// postfix := primary [ '*' | '+' | '?' | '**' primary | '++' primary ]
func (p *parser) postfix() peg.RuleBody {
	expr := p.primary()
	switch {
	case p.accept("*"):
		return peg.Star(expr)
	case p.accept("+"):
		return peg.Plus(expr)
	case p.accept("?"):
		return peg.Opt(expr)
	case p.accept("**"):
		return peg.Rep(expr, 0, peg.Unbounded, p.primary())
	case p.accept("++"):
		return peg.Rep(expr, 1, peg.Unbounded, p.primary())
	case p.accept("<"):
		return p.bounds(expr)
	}
	return expr
}

// bounds parses the rest of a bounded repetition
//
//    '<' INT [ ',' ( INT | '*' ) ] [ ',' primary ] '>'
//
// where a single bound n repeats exactly n times.
func (p *parser) bounds(expr peg.RuleBody) peg.RuleBody {
	min := p.count()
	max := min
	var delim peg.RuleBody
	if p.accept(",") {
		if p.accept("*") {
			max = peg.Unbounded
		} else {
			max = p.count()
		}
		if p.accept(",") {
			delim = p.primary()
		}
	}
	p.expect(">")
	return peg.Rep(expr, min, max, delim)
}

func (p *parser) count() int {
	if !p.is(INT) {
		p.fail(p.peek(), "expected repetition count, found %s", describe(p.peek()))
	}
	tok := p.next()
	n, err := strconv.Atoi(tok.Lexeme())
	if err != nil {
		p.fail(tok, "repetition count %s out of range", tok.Lexeme())
	}
	return n
}

// primary := STRING | class | IDENT | '(' choice ')' | '$' '(' choice ')'
func (p *parser) primary() peg.RuleBody {
	switch {
	case p.is(STRING):
		return peg.Lit(p.str(p.next()))
	case p.is(IDENT):
		return peg.Ref(p.next().Lexeme())
	case p.accept("["):
		return p.class()
	case p.accept("("):
		expr := p.choice()
		p.expect(")")
		return expr
	case p.accept("$"):
		p.expect("(")
		expr := p.choice()
		p.expect(")")
		return peg.Slice(expr)
	}
	p.fail(p.peek(), "expected expression, found %s", describe(p.peek()))
	return nil
}

// class := '[' CHAR [ '-' CHAR ] { '|' CHAR [ '-' CHAR ] } ']'
func (p *parser) class() peg.RuleBody {
	var ranges []peg.CharRange
	for {
		lo := p.char()
		hi := lo
		if p.accept("-") {
			hi = p.char()
		}
		ranges = append(ranges, peg.Range(lo, hi))
		if !p.accept("|") {
			break
		}
	}
	p.expect("]")
	return peg.Class(ranges...)
}

func (p *parser) char() rune {
	if !p.is(CHAR) {
		p.fail(p.peek(), "expected character, found %s", describe(p.peek()))
	}
	tok := p.next()
	s := p.unescape(tok, tok.Lexeme()[1:len(tok.Lexeme())-1])
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || size != len(s) || r == utf8.RuneError {
		p.fail(tok, "character literal %s must contain exactly one character", tok.Lexeme())
	}
	return r
}

// action := STRING | IDENT | IDENT '(' [ action { ',' action } ] ')'
func (p *parser) action() peg.RuleAction {
	if p.is(STRING) {
		return peg.Text(p.str(p.next()))
	}
	name := p.ident("name or string in action")
	if !p.accept("(") {
		return peg.Name(name)
	}
	var args []peg.RuleAction
	if !p.isLit(")") {
		args = append(args, p.action())
		for p.accept(",") {
			args = append(args, p.action())
		}
	}
	p.expect(")")
	return peg.Node(name, args...)
}

func (p *parser) str(tok packrat.Token) string {
	lx := tok.Lexeme()
	return p.unescape(tok, lx[1:len(lx)-1])
}

// unescape replaces the escape sequences \n \t \r \\ \" and \'.
func (p *parser) unescape(tok packrat.Token, s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' {
			b.WriteByte(s[i])
			continue
		}
		i++
		if i == len(s) {
			p.fail(tok, "incomplete escape sequence in %s", tok.Lexeme())
		}
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '\\', '"', '\'':
			b.WriteByte(s[i])
		default:
			p.fail(tok, "unknown escape sequence \\%c in %s", s[i], tok.Lexeme())
		}
	}
	return b.String()
}
