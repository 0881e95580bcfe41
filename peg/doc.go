/*
Package peg implements a packrat parser for parsing expression grammars.

Building a Grammar

A grammar is a flat table of named rules. Rule bodies are built from a small
vocabulary of expressions: rule references, character classes, literals,
sequences, ordered choices, bounded repetitions with an optional delimiter,
named captures, actions and input slices. Clients add rules with a grammar
builder:

    b := peg.NewGrammarBuilder("G")
    b.Rule("start", "Pair", peg.Act(                  // start = "(" a:item "," b:item ")" { Pair(a, b) }
        peg.Seq(peg.Lit("("), peg.Bind("a", peg.Ref("item")), peg.Lit(","),
            peg.Bind("b", peg.Ref("item")), peg.Lit(")")),
        peg.Node("Pair", peg.Name("a"), peg.Name("b"))))
    b.Rule("item", "Input", peg.Slice(peg.Plus(peg.Class(peg.Range('a', 'z')))))
    g, err := b.Grammar()

Grammars are validated when they are built: references to undefined rules,
actions using names which are never bound, colliding bindings within a sequence
and malformed repetitions or character classes are reported as GrammarErrors.
Rule names are interned to small integers at this point.

Parsing

A State holds the input and a cache of outcomes keyed by (rule, position).
Every rule is evaluated at most once per position, which keeps parsing linear
for grammars without pathological backtracking and allows rules to reference
each other recursively.

    m, err := peg.ParseFullInput(g, "start", "(ab,cd)")
    if err != nil {
        var perr *peg.ParseError
        if errors.As(err, &perr) {
            // perr.Diagnostic carries the deepest failure position and the expectations there
        }
    }
    fmt.Println(m.Value.Format("(ab,cd)"))    // (Pair "ab" "cd")

Left recursion is not supported. A left-recursive rule will recurse until the
stack is exhausted, unless detection is switched on by option
DetectLeftRecursion or configuration key "peg-detect-left-recursion", in which
case the parse is aborted with ErrLeftRecursion.

A State must not be shared between goroutines. A Grammar is immutable after it
has been built and may be used by any number of concurrent parses.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package peg

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'packrat.peg'.
func tracer() tracing.Trace {
	return tracing.Select("packrat.peg")
}
