/*
Command pegrepl is a command line tool for packrat grammars. It checks grammar
descriptions, parses input with them and offers an interactive mode, where
every line entered is parsed and the resulting value is displayed as a tree.

	pegrepl check grammar.peg
	pegrepl parse grammar.peg input.txt
	pegrepl parse grammar.peg -e "1+2"
	pegrepl repl --start expr grammar.peg
	pegrepl lex source.txt

Flags may be set from the environment as well, using prefix PEGREPL_, e.g.
PEGREPL_TRACE=Debug.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package main

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'packrat.cli'
func tracer() tracing.Trace {
	return tracing.Select("packrat.cli")
}
