package peg

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/npillmayer/packrat"
)

// parseExpr matches expr at pos.
func (s *State) parseExpr(pos int, expr RuleBody) Outcome {
	switch e := expr.(type) {
	case RuleRef:
		// a rule reference does not introduce bindings into the caller's scope
		return s.parseRule(pos, s.ruleID(e)).Map(func(p Product) Product {
			return Product{Value: p.Value}
		})
	case CharClass:
		return s.parseCharClass(pos, e)
	case Literal:
		return s.parseLiteral(pos, e.Text)
	case Repeat:
		return s.parseRepeat(pos, e)
	case Sequence:
		out := success(Product{}, pos)
		for _, item := range e.Items {
			out = andThen(out, func(p int) Outcome {
				return s.parseExpr(p, item)
			}, joinBindings)
		}
		end := out.pos
		return out.Map(func(p Product) Product {
			return Product{Bindings: p.Bindings, Value: SpanValue(pos, end)}
		})
	case Choice:
		out := failure(pos, noExpectation)
		for _, alt := range e.Alts {
			out = orElse(pos, out, func(p int) Outcome {
				return s.parseExpr(p, alt)
			})
			if out.ok {
				break
			}
		}
		return out
	case NameBind:
		return s.parseExpr(pos, e.Expr).Map(func(p Product) Product {
			return Product{Bindings: p.Bindings.with(e.Name, p.Value), Value: p.Value}
		})
	case Action:
		out := s.parseExpr(pos, e.Expr)
		end := out.pos
		return out.Map(func(p Product) Product {
			return Product{Value: EvalAction(e.Action, p.Bindings, packrat.Span{pos, end})}
		})
	case SliceInput:
		out := s.parseExpr(pos, e.Expr)
		end := out.pos
		return out.Map(func(Product) Product {
			return Product{Value: SpanValue(pos, end)}
		})
	}
	panic(fmt.Sprintf("unknown rule body type %T", expr))
}

// parseLiteral matches text character by character. A mismatch is reported
// at the first character which does not match.
func (s *State) parseLiteral(pos int, text string) Outcome {
	p := pos
	for _, r := range text {
		c, size := utf8.DecodeRuneInString(s.input[p:])
		if p >= len(s.input) || c != r {
			return failure(p, expect(p, strconv.QuoteRune(r)))
		}
		p += size
	}
	return success(Product{Value: SpanValue(pos, p)}, p)
}

// parseRepeat matches r.Expr up to r.Max times, separated by r.Delim.
// An iteration which succeeds without consuming input ends the repetition
// as soon as r.Min is reached.
func (s *State) parseRepeat(pos int, r Repeat) Outcome {
	state := success(Product{}, pos)
	var items []Result
	for i := 0; r.Max == Unbounded || i < r.Max; i++ {
		next := state
		if i > 0 && r.Delim != nil {
			next = andThen(state, func(p int) Outcome {
				return s.parseExpr(p, r.Delim)
			}, keepLeft)
			if !next.ok {
				if i >= r.Min {
					state = state.withFarthest(next.farthest)
					break
				}
				return next
			}
		}
		elem := andThen(next, func(p int) Outcome {
			return s.parseExpr(p, r.Expr)
		}, joinBindings)
		if !elem.ok {
			if i >= r.Min {
				state = state.withFarthest(elem.farthest)
				break
			}
			return elem
		}
		if elem.pos == state.pos && i >= r.Min {
			state = state.withFarthest(elem.farthest)
			break
		}
		items = append(items, elem.product.Value)
		state = elem
	}
	return state.Map(func(p Product) Product {
		return Product{Bindings: p.Bindings, Value: ListValue(items...)}
	})
}
