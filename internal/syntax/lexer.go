package syntax

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// RalphLexer is deliberately permissive compared to internal/lexer's
// hand-written Scanner: it only needs to tokenize well-formed output of
// the pretty-printer's own canonical form, not recover from arbitrary
// malformed input.
var RalphLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{"Comment", `//[^\n]*`, nil},
		{"Ident", `[a-zA-Z_][a-zA-Z0-9_]*`, nil},
		{"Integer", `0x[0-9a-fA-F]+|[0-9]+`, nil},
		{"Operator", `(\|\||&&|==|!=|<=|>=|->|[-+*/%<>=])`, nil},
		{"Punctuation", `[{}\[\]():,;.!@]`, nil},
		{"Whitespace", `[ \t\r\n]+`, nil},
	},
})
