/*
Package scanner defines a tokenizer interface and an adapter to use lexmachine
as a tokenizer. Grammar descriptions and the line lexer are scanned with it.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package scanner

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'packrat.scanner'.
func tracer() tracing.Trace {
	return tracing.Select("packrat.scanner")
}
