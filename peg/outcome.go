package peg

import (
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

// endOfInput is the expectation at the end of a full-input parse.
const endOfInput = "end of input"

// Expectation records the deepest position at which any attempt of a parse
// failed, together with what would have been accepted there. It is kept for
// diagnostics only and does not influence whether a parse succeeds.
type Expectation struct {
	Pos      int      // -1 if no attempt failed
	Expected []string // descriptions of what was expected at Pos
}

var noExpectation = Expectation{Pos: -1}

func expect(pos int, what string) Expectation {
	return Expectation{Pos: pos, Expected: []string{what}}
}

// merge returns the deeper of e and o. If both are at the same position, the
// expectations are united, the ones of e first.
func (e Expectation) merge(o Expectation) Expectation {
	if o.Pos > e.Pos {
		return o
	}
	if o.Pos < e.Pos || len(o.Expected) == 0 {
		return e
	}
	if len(e.Expected) == 0 {
		return o
	}
	var merged []string
	for _, x := range o.Expected {
		if !slices.Contains(e.Expected, x) {
			if merged == nil {
				merged = append(make([]string, 0, len(e.Expected)+len(o.Expected)), e.Expected...)
			}
			merged = append(merged, x)
		}
	}
	if merged == nil {
		return e
	}
	return Expectation{Pos: e.Pos, Expected: merged}
}

func (e Expectation) String() string {
	if e.Pos < 0 {
		return "<none>"
	}
	return fmt.Sprintf("@%d{%s}", e.Pos, strings.Join(e.Expected, ", "))
}

// Outcome is the result of matching an expression at a position. Outcomes are
// immutable.
//
// A successful outcome carries a product and the position immediately after
// the consumed input. A failed outcome carries the position at which it gave
// up. Both carry the deepest failure encountered on the way.
type Outcome struct {
	ok       bool
	pos      int
	product  Product
	farthest Expectation
}

func success(p Product, pos int) Outcome {
	return Outcome{ok: true, pos: pos, product: p, farthest: noExpectation}
}

func failure(pos int, exp Expectation) Outcome {
	return Outcome{pos: pos, farthest: exp}
}

// OK is true for successful outcomes.
func (o Outcome) OK() bool {
	return o.ok
}

// Pos returns the end position of a success or the failure position.
func (o Outcome) Pos() int {
	return o.pos
}

// Product returns the bindings and value of a success.
func (o Outcome) Product() Product {
	return o.product
}

// Value returns the value of a success.
func (o Outcome) Value() Result {
	return o.product.Value
}

// Bindings returns the bindings of a success.
func (o Outcome) Bindings() Bindings {
	return o.product.Bindings
}

// Farthest returns the deepest failure encountered.
func (o Outcome) Farthest() Expectation {
	return o.farthest
}

// Map transforms the product of a success, leaving position and diagnostics
// untouched. Failures are returned unchanged.
func (o Outcome) Map(f func(Product) Product) Outcome {
	if !o.ok {
		return o
	}
	o.product = f(o.product)
	return o
}

func (o Outcome) withFarthest(e Expectation) Outcome {
	o.farthest = o.farthest.merge(e)
	return o
}

func (o Outcome) String() string {
	if o.ok {
		return fmt.Sprintf("ok@%d %s %s", o.pos, o.product.Value, o.farthest)
	}
	return fmt.Sprintf("fail@%d %s", o.pos, o.farthest)
}

// --- Composition -----------------------------------------------------------

// andThen feeds the end position of cur into step. A failed cur short-circuits.
// Products of cur and step are combined with join.
func andThen(cur Outcome, step func(pos int) Outcome, join func(l, r Product) Product) Outcome {
	if !cur.ok {
		return cur
	}
	next := step(cur.pos)
	farthest := cur.farthest.merge(next.farthest)
	if !next.ok {
		return failure(next.pos, farthest)
	}
	return Outcome{ok: true, pos: next.pos, product: join(cur.product, next.product), farthest: farthest}
}

// orElse tries alt at start, the position the choice started at, unless best
// already succeeded. Of two failures the deeper one is kept, the earlier one
// on ties.
func orElse(start int, best Outcome, alt func(pos int) Outcome) Outcome {
	if best.ok {
		return best
	}
	next := alt(start)
	farthest := best.farthest.merge(next.farthest)
	if next.ok {
		next.farthest = farthest
		return next
	}
	pos := best.pos
	if next.pos > pos {
		pos = next.pos
	}
	return failure(pos, farthest)
}

// joinBindings merges bindings left to right and keeps the right value.
func joinBindings(l, r Product) Product {
	return Product{Bindings: mergeBindings(l.Bindings, r.Bindings), Value: r.Value}
}

// keepLeft drops the product of the right side.
func keepLeft(l, _ Product) Product {
	return l
}
