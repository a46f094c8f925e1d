package parser

import (
	"github.com/ralph-lang/ralphc/internal/ast"
	"github.com/ralph-lang/ralphc/internal/token"
)

// A trailing ';' after a statement is accepted but never required — none
// of the worked examples in spec.md §8 use one, so statement boundaries
// here are `}`/keyword-driven rather than semicolon-driven.

func (p *Parser) parseStmt() ast.Stmt {
	if !p.enterDepth() {
		p.advance()
		return &ast.BadStmt{Position: p.previous().Position, EndPos: p.previous().Position}
	}
	defer p.leaveDepth()

	switch p.peek().Type {
	case token.LET:
		return p.parseLetStmt()
	case token.IF:
		return p.parseIfStmt()
	case token.WHILE:
		return p.parseWhileStmt()
	case token.FOR:
		return p.parseForStmt()
	case token.RETURN:
		return p.parseReturnStmt()
	case token.EMIT:
		return p.parseEmitStmt()
	case token.PANIC:
		return p.parsePanicStmt()
	case token.ASSERT:
		return p.parseAssertStmt()
	default:
		return p.parseExprOrAssignStmt()
	}
}

// parseLetStmt parses `let [mut] name[: T] = expr;` or tuple
// destructuring `let (a, mut b, _) = f();` (spec.md §3, §4.5).
func (p *Parser) parseLetStmt() ast.Stmt {
	start := p.advance() // 'let'

	var names []*ast.Ident
	var muts []bool
	var underscore []bool

	addTarget := func() {
		mut := p.match(token.MUT)
		// The scanner has no dedicated underscore token — "_" lexes as a
		// plain IDENT (isAlpha accepts '_') — so the anonymous-slot target
		// is recognized by lexeme, not token type.
		if p.check(token.IDENT) && p.peek().Lexeme == "_" {
			t := p.advance()
			names = append(names, &ast.Ident{Value: "_", Position: t.Position, EndPos: t.Position})
			underscore = append(underscore, true)
		} else {
			nameTok := p.consume(token.IDENT, "expected a name in let binding")
			names = append(names, p.makeIdent(nameTok))
			underscore = append(underscore, false)
		}
		muts = append(muts, mut)
	}

	if p.match(token.LEFT_PAREN) {
		for !p.check(token.RIGHT_PAREN) && !p.isAtEnd() {
			addTarget()
			if !p.match(token.COMMA) {
				break
			}
		}
		p.consume(token.RIGHT_PAREN, "expected ')' to close let tuple pattern")
	} else {
		addTarget()
	}

	var varType *ast.TypeExpr
	if p.match(token.COLON) {
		varType = p.parseType()
	}
	p.consume(token.EQUAL, "expected '=' in let binding")
	value := p.parseExpr()
	p.match(token.SEMICOLON)

	return &ast.LetStmt{
		Names: names, Muts: muts, Underscore: underscore,
		VarType: varType, Expr: value,
		Position: start.Position, EndPos: p.previous().Position,
	}
}

func (p *Parser) parseIfStmt() *ast.IfStmt {
	start := p.advance() // 'if'
	p.consume(token.LEFT_PAREN, "expected '(' after 'if'")
	cond := p.parseExpr()
	p.consume(token.RIGHT_PAREN, "expected ')' after if condition")
	then := p.parseFunctionBlock()

	stmt := &ast.IfStmt{Cond: cond, Then: then, Position: start.Position}
	if p.match(token.ELSE) {
		if p.check(token.IF) {
			stmt.ElseIf = p.parseIfStmt()
		} else {
			stmt.ElseBlock = p.parseFunctionBlock()
		}
	}
	stmt.EndPos = p.previous().Position
	return stmt
}

func (p *Parser) parseWhileStmt() *ast.WhileStmt {
	start := p.advance() // 'while'
	p.consume(token.LEFT_PAREN, "expected '(' after 'while'")
	cond := p.parseExpr()
	p.consume(token.RIGHT_PAREN, "expected ')' after while condition")
	body := p.parseFunctionBlock()
	return &ast.WhileStmt{Cond: cond, Body: body, Position: start.Position, EndPos: p.previous().Position}
}

// parseForStmt requires all three clauses present (spec.md §4.2: "for
// (init; cond; update) { body } requires all three parts present").
func (p *Parser) parseForStmt() *ast.ForStmt {
	start := p.advance() // 'for'
	p.consume(token.LEFT_PAREN, "expected '(' after 'for'")
	init := p.parseStmt() // consumes the ';' separating it from cond
	cond := p.parseExpr()
	p.consume(token.SEMICOLON, "expected ';' after for condition")
	update := p.parseExprOrAssignStmtNoSemi()
	p.consume(token.RIGHT_PAREN, "expected ')' after for clauses")
	body := p.parseFunctionBlock()
	return &ast.ForStmt{Init: init, Cond: cond, Update: update, Body: body, Position: start.Position, EndPos: p.previous().Position}
}

func (p *Parser) parseReturnStmt() *ast.ReturnStmt {
	start := p.advance() // 'return'
	var values []ast.Expr
	if !p.check(token.SEMICOLON) && !p.check(token.RIGHT_BRACE) {
		values = append(values, p.parseExpr())
		for p.match(token.COMMA) {
			values = append(values, p.parseExpr())
		}
	}
	p.match(token.SEMICOLON)
	return &ast.ReturnStmt{Values: values, Position: start.Position, EndPos: p.previous().Position}
}

func (p *Parser) parseEmitStmt() *ast.EmitStmt {
	start := p.advance() // 'emit'
	nameTok := p.consume(token.IDENT, "expected event name after 'emit'")
	p.consume(token.LEFT_PAREN, "expected '(' after event name")
	var args []ast.Expr
	for !p.check(token.RIGHT_PAREN) && !p.isAtEnd() {
		args = append(args, p.parseExpr())
		if !p.match(token.COMMA) {
			break
		}
	}
	p.consume(token.RIGHT_PAREN, "expected ')' to close emit arguments")
	p.match(token.SEMICOLON)
	return &ast.EmitStmt{Event: p.makeIdent(nameTok), Args: args, Position: start.Position, EndPos: p.previous().Position}
}

func (p *Parser) parsePanicStmt() *ast.PanicStmt {
	start := p.advance() // 'panic!'
	p.consume(token.LEFT_PAREN, "expected '(' after 'panic!'")
	var code ast.Expr
	if !p.check(token.RIGHT_PAREN) {
		code = p.parseExpr()
	}
	p.consume(token.RIGHT_PAREN, "expected ')' to close panic! arguments")
	p.match(token.SEMICOLON)
	return &ast.PanicStmt{Code: code, Position: start.Position, EndPos: p.previous().Position}
}

func (p *Parser) parseAssertStmt() *ast.AssertStmt {
	start := p.advance() // 'assert!'
	p.consume(token.LEFT_PAREN, "expected '(' after 'assert!'")
	cond := p.parseExpr()
	var code ast.Expr
	if p.match(token.COMMA) {
		code = p.parseExpr()
	}
	p.consume(token.RIGHT_PAREN, "expected ')' to close assert! arguments")
	p.match(token.SEMICOLON)
	return &ast.AssertStmt{Cond: cond, Code: code, Position: start.Position, EndPos: p.previous().Position}
}

func assignOpFor(tt token.Type) (ast.AssignOp, bool) {
	switch tt {
	case token.EQUAL:
		return ast.ASSIGN, true
	case token.PLUS_EQUAL:
		return ast.PLUS_ASSIGN, true
	case token.MINUS_EQUAL:
		return ast.MINUS_ASSIGN, true
	case token.STAR_EQUAL:
		return ast.STAR_ASSIGN, true
	case token.SLASH_EQUAL:
		return ast.SLASH_ASSIGN, true
	case token.PERCENT_EQUAL:
		return ast.PERCENT_ASSIGN, true
	default:
		return 0, false
	}
}

// parseExprOrAssignStmt parses a leading expression and, if followed by
// an assignment operator, turns it into an AssignStmt; otherwise it's a
// bare ExprStmt. Either way it consumes the trailing ';'.
func (p *Parser) parseExprOrAssignStmt() ast.Stmt {
	s := p.parseExprOrAssignStmtNoSemi()
	p.match(token.SEMICOLON)
	return s
}

func (p *Parser) parseExprOrAssignStmtNoSemi() ast.Stmt {
	start := p.peek()
	expr := p.parseExpr()
	if op, ok := assignOpFor(p.peek().Type); ok {
		p.advance()
		value := p.parseExpr()
		targets := flattenAssignTargets(expr)
		return &ast.AssignStmt{Targets: targets, Op: op, Value: value, Position: start.Position, EndPos: p.previous().Position}
	}
	return &ast.ExprStmt{Expr: expr, Position: start.Position, EndPos: p.previous().Position}
}

// flattenAssignTargets turns a parsed tuple-assignment LHS like
// `(x, _, arr[i])` into its per-slot target expressions (spec.md §4.5:
// "Tuple assignment a, b = call() must match arities").
func flattenAssignTargets(expr ast.Expr) []ast.Expr {
	if tup, ok := expr.(*ast.TupleExpr); ok {
		return tup.Elements
	}
	return []ast.Expr{expr}
}
