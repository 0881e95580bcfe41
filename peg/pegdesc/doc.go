/*
Package pegdesc reads grammars from a textual description.

A description is a list of rules:

	rule expr -> Expr {
	    l:term "+" r:expr { Add(l, r) }
	    / term
	}
	rule term -> Expr {
	    $([ '0'-'9' ]+)
	}

Every rule has a name, an optional nominal output type following "->" and a
body in braces. Bodies are built from

	"text"              literal
	[ 'a'-'z' | '_' ]   character class
	name                reference to another rule
	e1 e2               sequence
	e1 / e2             ordered choice
	e* e+ e?            repetition
	e ** d, e ++ d      zero-or-more / one-or-more e, delimited by d
	e<n> e<n,m> e<n,*>  exactly n, n to m, at least n times e
	e<n,m,d>            n to m times e, delimited by d
	n:e                 bind the value of e to name n
	$(e)                the input matched by e
	( e )               grouping
	e1 e2 { action }    compute the value of a sequence

Actions reference bound names, inject string literals or construct tagged nodes:
`{ x }`, `{ "lit" }`, `{ Pair(a, "sep", b) }`. Comments start with "//" and
extend to the end of the line.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package pegdesc

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'packrat.peg'.
func tracer() tracing.Trace {
	return tracing.Select("packrat.peg")
}
