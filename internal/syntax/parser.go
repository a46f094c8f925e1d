package syntax

import (
	"fmt"

	"github.com/alecthomas/participle/v2"
)

var ralphParser = participle.MustBuild[Program](
	participle.Lexer(RalphLexer),
	participle.Elide("Whitespace", "Comment"),
	participle.UseLookahead(4),
)

// Parse builds the secondary, pretty-printer-only AST for source text.
// Unlike internal/parser.ParseSource, a failure here never blocks a
// build; `ralphc fmt` reports the error and leaves the file unformatted.
func Parse(filename, source string) (*Program, error) {
	program, err := ralphParser.ParseString(filename, source)
	if err != nil {
		return nil, fmt.Errorf("secondary grammar: %w", err)
	}
	return program, nil
}
