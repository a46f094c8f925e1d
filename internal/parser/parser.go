// Package parser implements a hand-written recursive-descent parser (with
// a Pratt expression sub-parser) over the token stream produced by
// internal/lexer, building the internal/ast tree described in spec.md §3.
package parser

import (
	"github.com/ralph-lang/ralphc/internal/ast"
	"github.com/ralph-lang/ralphc/internal/errors"
	"github.com/ralph-lang/ralphc/internal/lexer"
	"github.com/ralph-lang/ralphc/internal/token"
)

// DefaultMaxDepth bounds recursive-descent stack depth (spec.md §5,
// recommended 128) so pathological input fails with a diagnostic instead
// of a stack overflow. ParseSource uses this default; ParseSourceWithDepth
// lets a caller (the `ralphc --depth` flag) override it.
const DefaultMaxDepth = 128

// Parser walks a flat token slice with one token of lookahead beyond
// `current`, in the classic textbook recursive-descent style: advance,
// check, match, consume.
type Parser struct {
	filename string
	tokens   []token.Token
	current  int
	errs     []*errors.CompilerError
	depth    int
	maxDepth int
}

// ParseSource lexes and parses one source file into a SourceUnit using
// DefaultMaxDepth. Lexical errors are reported as Syntax-kind
// CompilerErrors alongside any parse errors; the parser still attempts to
// recover and return partial decls so a driver compiling multiple files
// can report more than one problem per run if it chooses to.
func ParseSource(filename, source string) (*ast.SourceUnit, []*errors.CompilerError) {
	return ParseSourceWithDepth(filename, source, DefaultMaxDepth)
}

// ParseSourceWithDepth is ParseSource with a caller-supplied recursion
// depth limit (spec.md §5's "SHOULD provide an explicit depth limit",
// surfaced as the `ralphc --depth` flag).
func ParseSourceWithDepth(filename, source string, maxDepth int) (*ast.SourceUnit, []*errors.CompilerError) {
	sc := lexer.New(source)
	tokens, lexErrs := sc.Scan()

	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	p := &Parser{filename: filename, tokens: filterTrivia(tokens), maxDepth: maxDepth}
	for _, le := range lexErrs {
		p.errs = append(p.errs, errors.At(errors.Syntax, le.Position, "%s", le.Message))
	}

	unit := p.parseSourceUnit()
	return unit, p.errs
}

// filterTrivia drops comment tokens; leading-comment attachment (for
// doc-comment-aware tooling like `ralphc fmt`) is handled by internal/syntax
// directly against the raw token stream, not by this compiling parser.
func filterTrivia(toks []token.Token) []token.Token {
	out := make([]token.Token, 0, len(toks))
	for _, t := range toks {
		if t.Type == token.COMMENT || t.Type == token.DOC_COMMENT {
			continue
		}
		out = append(out, t)
	}
	return out
}

func (p *Parser) parseSourceUnit() *ast.SourceUnit {
	unit := &ast.SourceUnit{Filename: p.filename}
	if len(p.tokens) > 0 {
		unit.Position = p.tokens[0].Position
	}
	for !p.isAtEnd() {
		decl := p.parseTopLevelDecl()
		if decl != nil {
			unit.Decls = append(unit.Decls, decl)
		}
	}
	if len(p.tokens) > 0 {
		unit.EndPos = p.tokens[len(p.tokens)-1].Position
	}
	return unit
}

// --- token stream helpers ---

func (p *Parser) peek() token.Token {
	if p.current >= len(p.tokens) {
		return token.Token{Type: token.EOF}
	}
	return p.tokens[p.current]
}

func (p *Parser) previous() token.Token {
	if p.current == 0 {
		return p.tokens[0]
	}
	return p.tokens[p.current-1]
}

func (p *Parser) isAtEnd() bool { return p.peek().Type == token.EOF }

func (p *Parser) check(tt token.Type) bool { return p.peek().Type == tt }

func (p *Parser) advance() token.Token {
	t := p.peek()
	if !p.isAtEnd() {
		p.current++
	}
	return t
}

func (p *Parser) match(types ...token.Type) bool {
	for _, tt := range types {
		if p.check(tt) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) consume(tt token.Type, message string) token.Token {
	if p.check(tt) {
		return p.advance()
	}
	p.errorAt(p.peek().Position, errors.Syntax, "%s (got %s %q)", message, p.peek().Type, p.peek().Lexeme)
	return p.peek()
}

func (p *Parser) errorAt(pos token.Position, kind errors.Kind, format string, args ...interface{}) {
	p.errs = append(p.errs, errors.At(kind, pos, format, args...))
}

// synchronize skips tokens until a plausible top-level-declaration or
// statement boundary, so one syntax error doesn't cascade into dozens.
func (p *Parser) synchronize() {
	for !p.isAtEnd() {
		switch p.peek().Type {
		case token.CONTRACT, token.ABSTRACT, token.INTERFACE, token.TX_SCRIPT, token.ASSET_SCRIPT,
			token.FN, token.LET, token.IF, token.WHILE, token.FOR, token.RETURN, token.CONST, token.ENUM, token.EVENT:
			return
		}
		p.advance()
	}
}

func (p *Parser) enterDepth() bool {
	p.depth++
	if p.depth > p.maxDepth {
		p.errorAt(p.peek().Position, errors.Internal, "maximum recursion depth (%d) exceeded", p.maxDepth)
		return false
	}
	return true
}

func (p *Parser) leaveDepth() { p.depth-- }

func (p *Parser) makeIdent(t token.Token) *ast.Ident {
	return &ast.Ident{Value: t.Lexeme, Position: t.Position, EndPos: t.Position}
}
