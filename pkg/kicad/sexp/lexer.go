package sexp

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// SexpLexer defines the lexical structure of KiCad S-expression files.
// The format is small: parentheses, quoted strings with backslash escapes,
// and bare symbols (identifiers, numbers, UUIDs).
var SexpLexer = lexer.MustSimple([]lexer.SimpleRule{
	// Whitespace (elided by the parser)
	{Name: "Whitespace", Pattern: `\s+`},

	// Parentheses
	{Name: "LParen", Pattern: `\(`},
	{Name: "RParen", Pattern: `\)`},

	// Quoted strings with escape sequences
	{Name: "String", Pattern: `"(?:[^"\\]|\\.)*"`},

	// Bare symbols: anything up to whitespace, parens, or a quote
	{Name: "Symbol", Pattern: `[^\s()"]+`},
})
