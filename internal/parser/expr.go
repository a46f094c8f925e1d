package parser

import (
	"github.com/ralph-lang/ralphc/internal/ast"
	"github.com/ralph-lang/ralphc/internal/errors"
	"github.com/ralph-lang/ralphc/internal/token"
)

// binaryPrec gives each binary operator's binding power; 0 means "not a
// binary operator here". Grouped by spec.md §4.2: boolean short-circuit
// binds loosest, `**`/`|**|` tightest.
func binaryPrec(tt token.Type) int {
	switch tt {
	case token.OR_OR:
		return 1
	case token.AND_AND:
		return 2
	case token.EQUAL_EQUAL, token.BANG_EQUAL:
		return 3
	case token.LESS, token.LESS_EQUAL, token.GREATER, token.GREATER_EQUAL:
		return 4
	case token.PIPE:
		return 5
	case token.CARET:
		return 6
	case token.AMP:
		return 7
	case token.SHL, token.SHR:
		return 8
	case token.PLUS, token.MINUS:
		return 9
	case token.STAR, token.SLASH, token.PERCENT:
		return 10
	case token.STAR_STAR, token.PIPE_STAR_PIPE:
		return 11
	default:
		return 0
	}
}

func rightAssoc(tt token.Type) bool {
	return tt == token.STAR_STAR || tt == token.PIPE_STAR_PIPE
}

// parseExpr parses one expression via precedence climbing rooted at the
// loosest binding power (spec.md §4.2 operator rules).
func (p *Parser) parseExpr() ast.Expr {
	return p.parseBinaryExpr(1)
}

func (p *Parser) parseBinaryExpr(minPrec int) ast.Expr {
	left := p.parseUnaryExpr()
	for {
		opTok := p.peek()
		prec := binaryPrec(opTok.Type)
		if prec == 0 || prec < minPrec {
			return left
		}
		p.advance()
		nextMin := prec + 1
		if rightAssoc(opTok.Type) {
			nextMin = prec
		}
		right := p.parseBinaryExpr(nextMin)
		left = &ast.BinaryExpr{Left: left, Op: opTok.Lexeme, Right: right, Position: left.Pos(), EndPos: right.End()}
	}
}

func (p *Parser) parseUnaryExpr() ast.Expr {
	if p.check(token.MINUS) || p.check(token.BANG) {
		opTok := p.advance()
		operand := p.parseUnaryExpr()
		return &ast.UnaryExpr{Op: opTok.Lexeme, Operand: operand, Position: opTok.Position, EndPos: operand.End()}
	}
	return p.parsePostfixExpr()
}

// isStaticCallee reports whether expr is a name/dotted-name or a plain
// field access, the only callee shapes braces-approval and call syntax
// attach to (spec.md §4.5).
func isStaticCallee(expr ast.Expr) bool {
	switch expr.(type) {
	case *ast.IdentExpr, *ast.CalleePath, *ast.FieldAccessExpr:
		return true
	default:
		return false
	}
}

func (p *Parser) parsePostfixExpr() ast.Expr {
	expr := p.parsePrimaryExpr()
	for {
		switch {
		case p.check(token.DOT):
			expr = p.parseDotAccess(expr)
		case p.check(token.LEFT_BRACKET):
			start := p.advance()
			idx := p.parseExpr()
			end := p.consume(token.RIGHT_BRACKET, "expected ']' to close index expression")
			expr = &ast.IndexExpr{Target: expr, Index: idx, Position: start.Position, EndPos: end.Position}
		case p.check(token.LEFT_BRACE) && isStaticCallee(expr):
			expr = p.parseApprovalCall(expr)
		case p.check(token.LEFT_PAREN) && isStaticCallee(expr):
			args, end := p.parseArgList()
			expr = &ast.CallExpr{Callee: expr, Args: args, Position: expr.Pos(), EndPos: end}
		default:
			return expr
		}
	}
}

// parseDotAccess parses `.name[!]` and, when the receiver is itself a
// plain name or dotted-name chain, folds the result into a CalleePath
// (spec.md §4.5: `Type.encodeFields!`, `Errors.InsufficientBalance`)
// rather than a general FieldAccessExpr.
func (p *Parser) parseDotAccess(target ast.Expr) ast.Expr {
	p.advance() // '.'
	nameTok := p.consume(token.IDENT, "expected a name after '.'")
	name := nameTok.Lexeme
	end := nameTok.Position
	if p.check(token.BANG) {
		bang := p.advance()
		name += "!"
		end = bang.Position
	}
	part := &ast.Ident{Value: name, Position: nameTok.Position, EndPos: end}

	switch t := target.(type) {
	case *ast.IdentExpr:
		head := &ast.Ident{Value: t.Name, Position: t.Position, EndPos: t.EndPos}
		return &ast.CalleePath{Parts: []*ast.Ident{head, part}, Position: t.Position, EndPos: end}
	case *ast.CalleePath:
		t.Parts = append(t.Parts, part)
		t.EndPos = end
		return t
	default:
		return &ast.FieldAccessExpr{Target: target, Field: name, Position: target.Pos(), EndPos: end}
	}
}

// parseApprovalCall parses the braces-approval clause list and trailing
// call arguments: `callee{addr -> tokenId: amount, ...}(args...)`
// (spec.md §4.5, glossary "Braces approval syntax").
func (p *Parser) parseApprovalCall(callee ast.Expr) ast.Expr {
	p.consume(token.LEFT_BRACE, "expected '{' to start approval clause list")
	var clauses []ast.ApprovalClause
	for !p.check(token.RIGHT_BRACE) && !p.isAtEnd() {
		addr := p.parseExpr()
		p.consume(token.ARROW, "expected '->' in approval clause")
		tokenID := p.parseExpr()
		p.consume(token.COLON, "expected ':' after token id in approval clause")
		amount := p.parseExpr()
		clauses = append(clauses, ast.ApprovalClause{Addr: addr, TokenID: tokenID, Amount: amount})
		if !p.match(token.COMMA) {
			break
		}
	}
	p.consume(token.RIGHT_BRACE, "expected '}' to close approval clause list")
	args, end := p.parseArgList()
	return &ast.ApprovalCallExpr{Callee: callee, Clauses: clauses, Args: args, Position: callee.Pos(), EndPos: end}
}

func (p *Parser) parseArgList() ([]ast.Expr, token.Position) {
	p.consume(token.LEFT_PAREN, "expected '(' to start argument list")
	var args []ast.Expr
	for !p.check(token.RIGHT_PAREN) && !p.isAtEnd() {
		args = append(args, p.parseExpr())
		if !p.match(token.COMMA) {
			break
		}
	}
	end := p.consume(token.RIGHT_PAREN, "expected ')' to close argument list")
	return args, end.Position
}

func (p *Parser) parsePrimaryExpr() ast.Expr {
	if !p.enterDepth() {
		t := p.advance()
		return &ast.BadExpr{Position: t.Position, EndPos: t.Position}
	}
	defer p.leaveDepth()

	t := p.peek()
	switch t.Type {
	case token.NUMBER:
		p.advance()
		return p.makeIntLiteral(t)
	case token.HEX_BYTES:
		p.advance()
		return &ast.LiteralExpr{Kind: ast.HexBytesLiteral, Value: t.Lexeme, Position: t.Position, EndPos: t.Position}
	case token.ADDRESS:
		p.advance()
		return &ast.LiteralExpr{Kind: ast.AddressLiteral, Value: t.Lexeme, Position: t.Position, EndPos: t.Position}
	case token.TRUE, token.FALSE:
		p.advance()
		return &ast.BoolLiteralExpr{Value: t.Type == token.TRUE, Position: t.Position, EndPos: t.Position}
	case token.IDENT:
		p.advance()
		name := t.Lexeme
		end := t.Position
		if p.check(token.BANG) {
			bang := p.advance()
			name += "!"
			end = bang.Position
		}
		return &ast.IdentExpr{Name: name, Position: t.Position, EndPos: end}
	case token.LEFT_PAREN:
		return p.parseParenOrTuple()
	case token.LEFT_BRACKET:
		return p.parseArrayExpr()
	case token.IF:
		return p.parseIfExpr()
	default:
		p.errorAt(t.Position, errors.Syntax, "expected expression (got %s %q)", t.Type, t.Lexeme)
		p.advance()
		return &ast.BadExpr{Position: t.Position, EndPos: t.Position}
	}
}

// makeIntLiteral splits the optional `u`/`i` type suffix the lexer leaves
// attached to a decimal NUMBER lexeme (spec.md §6.2). Hex-prefixed
// literals never carry a suffix.
func (p *Parser) makeIntLiteral(t token.Token) *ast.LiteralExpr {
	lex := t.Lexeme
	suffix := ""
	if n := len(lex); n > 0 {
		switch lex[n-1] {
		case 'u', 'i':
			suffix = lex[n-1:]
			lex = lex[:n-1]
		}
	}
	return &ast.LiteralExpr{Kind: ast.IntLiteral, Value: lex, Suffix: suffix, Position: t.Position, EndPos: t.Position}
}

// parseParenOrTuple disambiguates `(expr)` from `(e0, e1, ...)` on the
// presence of a comma, matching ast.ParenExpr vs ast.TupleExpr.
func (p *Parser) parseParenOrTuple() ast.Expr {
	start := p.advance() // '('
	if p.check(token.RIGHT_PAREN) {
		end := p.advance()
		return &ast.TupleExpr{Position: start.Position, EndPos: end.Position}
	}
	first := p.parseExpr()
	if p.match(token.COMMA) {
		elems := []ast.Expr{first}
		for !p.check(token.RIGHT_PAREN) && !p.isAtEnd() {
			elems = append(elems, p.parseExpr())
			if !p.match(token.COMMA) {
				break
			}
		}
		end := p.consume(token.RIGHT_PAREN, "expected ')' to close tuple expression")
		return &ast.TupleExpr{Elements: elems, Position: start.Position, EndPos: end.Position}
	}
	end := p.consume(token.RIGHT_PAREN, "expected ')' to close parenthesized expression")
	return &ast.ParenExpr{Inner: first, Position: start.Position, EndPos: end.Position}
}

// parseArrayExpr disambiguates `[e0, e1, ...]` from the repeat form
// `[e; n]` on whether a ';' follows the first element (spec.md §4.2).
func (p *Parser) parseArrayExpr() ast.Expr {
	start := p.advance() // '['
	if p.check(token.RIGHT_BRACKET) {
		end := p.advance()
		return &ast.ArrayLiteralExpr{Position: start.Position, EndPos: end.Position}
	}
	first := p.parseExpr()
	if p.match(token.SEMICOLON) {
		size := p.parseExpr()
		end := p.consume(token.RIGHT_BRACKET, "expected ']' to close array-repeat expression")
		return &ast.ArrayRepeatExpr{Elem: first, Size: size, Position: start.Position, EndPos: end.Position}
	}
	elems := []ast.Expr{first}
	for p.match(token.COMMA) {
		if p.check(token.RIGHT_BRACKET) {
			break
		}
		elems = append(elems, p.parseExpr())
	}
	end := p.consume(token.RIGHT_BRACKET, "expected ']' to close array literal")
	return &ast.ArrayLiteralExpr{Elements: elems, Position: start.Position, EndPos: end.Position}
}

// parseIfExpr parses the expression form of `if`, where an `else` branch
// is mandatory (spec.md §4.2). Each branch may optionally wrap its value
// in braces; unlike IfStmt's block form, the braces here hold exactly one
// expression, not a statement sequence.
func (p *Parser) parseIfExpr() ast.Expr {
	start := p.advance() // 'if'
	p.consume(token.LEFT_PAREN, "expected '(' after 'if'")
	cond := p.parseExpr()
	p.consume(token.RIGHT_PAREN, "expected ')' after if condition")
	then := p.parseExprBranch()
	p.consume(token.ELSE, "expected 'else' in if expression")

	var elseExpr ast.Expr
	if p.check(token.IF) {
		elseExpr = p.parseIfExpr()
	} else {
		elseExpr = p.parseExprBranch()
	}
	return &ast.IfExpr{Cond: cond, Then: then, Else: elseExpr, Position: start.Position, EndPos: elseExpr.End()}
}

func (p *Parser) parseExprBranch() ast.Expr {
	if p.check(token.LEFT_BRACE) {
		p.advance()
		inner := p.parseExpr()
		p.consume(token.RIGHT_BRACE, "expected '}' to close if-expression branch")
		return inner
	}
	return p.parseExpr()
}
