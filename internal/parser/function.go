package parser

import (
	"github.com/ralph-lang/ralphc/internal/ast"
	"github.com/ralph-lang/ralphc/internal/token"
)

// parseFunction parses one `[pub] fn name(params) [-> RetType] { body }`
// member. Interface methods omit the body (spec.md §4.3).
func (p *Parser) parseFunction(attrs []*ast.Attribute) *ast.Function {
	start := p.peek()
	public := p.match(token.PUB)
	p.consume(token.FN, "expected 'fn'")
	nameTok := p.consume(token.IDENT, "expected function name")
	params := p.parseFunctionParameters()

	var retType *ast.TypeExpr
	if p.match(token.ARROW) {
		retType = p.parseReturnType()
	}

	fn := &ast.Function{
		Name:       p.makeIdent(nameTok),
		Params:     params,
		ReturnType: retType,
		Public:     public,
		Using:      applyUsing(attrs),
		Unused:     hasAttr(attrs, "unused"),
		Position:   start.Position,
	}

	if p.check(token.LEFT_BRACE) {
		fn.Body = p.parseFunctionBlock()
	} else {
		p.match(token.SEMICOLON)
	}
	fn.EndPos = p.previous().Position
	return fn
}

func (p *Parser) parseFunctionParameters() []*ast.FunctionParam {
	p.consume(token.LEFT_PAREN, "expected '(' to start parameter list")
	var params []*ast.FunctionParam
	for !p.check(token.RIGHT_PAREN) && !p.isAtEnd() {
		paramAttrs := p.parseAttributes()
		start := p.peek()
		mut := p.match(token.MUT)
		nameTok := p.consume(token.IDENT, "expected parameter name")
		p.consume(token.COLON, "expected ':' after parameter name")
		ty := p.parseType()
		params = append(params, &ast.FunctionParam{
			Name:     p.makeIdent(nameTok),
			VarType:  ty,
			Mut:      mut,
			Unused:   hasAttr(paramAttrs, "unused"),
			Position: start.Position,
			EndPos:   p.previous().Position,
		})
		if !p.match(token.COMMA) {
			break
		}
	}
	p.consume(token.RIGHT_PAREN, "expected ')' to close parameter list")
	return params
}

// parseReturnType parses either a single TypeExpr or a tuple return type
// `(T, U, ...)` (spec.md §3: Function "return-tuple type").
func (p *Parser) parseReturnType() *ast.TypeExpr {
	if p.check(token.LEFT_PAREN) {
		start := p.peek()
		p.advance()
		if p.check(token.RIGHT_PAREN) {
			// `()` — the unit return type.
			end := p.advance()
			return &ast.TypeExpr{Position: start.Position, EndPos: end.Position}
		}
		var elems []*ast.TypeExpr
		for {
			elems = append(elems, p.parseType())
			if !p.match(token.COMMA) {
				break
			}
		}
		end := p.consume(token.RIGHT_PAREN, "expected ')' to close tuple return type")
		if len(elems) == 1 {
			return elems[0]
		}
		return &ast.TypeExpr{TupleElements: elems, Position: start.Position, EndPos: end.Position}
	}
	return p.parseType()
}

func (p *Parser) parseFunctionBlock() *ast.FunctionBlock {
	start := p.consume(token.LEFT_BRACE, "expected '{' to start function body")
	var stmts []ast.Stmt
	for !p.check(token.RIGHT_BRACE) && !p.isAtEnd() {
		stmts = append(stmts, p.parseStmt())
	}
	end := p.consume(token.RIGHT_BRACE, "expected '}' to close function body")
	return &ast.FunctionBlock{Stmts: stmts, Position: start.Position, EndPos: end.Position}
}
