/*
Package packrat is a grammar-driven packrat parsing toolbox.

Packrat strives to be a small and predictable tool for building parsers for
DSLs from a declarative grammar description. Grammars are parsing expression
grammars (PEGs): ordered choice, sequences, bounded repetition, character
classes and literals, plus named captures and actions constructing a
result tree. Package structure is as follows:

■ peg: Package peg implements the grammar model and a memoizing interpreter
for it, together with the result and diagnostics model.

■ peg/pegdesc: Package pegdesc loads grammars from their textual description.

■ scanner: Package scanner adapts lexmachine to be used as a tokenizer.

■ lexer: Package lexer splits source text into indented lines of tokens.

The base package contains data types which are used throughout all the other packages.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package packrat
