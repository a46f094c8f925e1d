package parser

import (
	"strconv"

	"github.com/ralph-lang/ralphc/internal/ast"
	"github.com/ralph-lang/ralphc/internal/errors"
	"github.com/ralph-lang/ralphc/internal/token"
)

// parseType parses a scalar/contract-reference name or a (possibly
// nested) fixed-size array type `[T; n]` (spec.md §3, §4.2). Tuple types
// only occur in return-type position and are parsed by parseReturnType.
func (p *Parser) parseType() *ast.TypeExpr {
	start := p.peek()
	if p.match(token.LEFT_BRACKET) {
		elem := p.parseType()
		p.consume(token.SEMICOLON, "expected ';' between array element type and size")
		sizeTok := p.consume(token.NUMBER, "expected array size literal")
		size, err := strconv.Atoi(sizeTok.Lexeme)
		if err != nil {
			p.errorAt(sizeTok.Position, errors.Syntax, "invalid array size literal %q", sizeTok.Lexeme)
		}
		end := p.consume(token.RIGHT_BRACKET, "expected ']' to close array type")
		return &ast.TypeExpr{ArrayElem: elem, ArraySize: size, Position: start.Position, EndPos: end.Position}
	}
	nameTok := p.consume(token.IDENT, "expected type name")
	return &ast.TypeExpr{Name: nameTok.Lexeme, Position: start.Position, EndPos: nameTok.Position}
}
