package parser

import (
	"github.com/ralph-lang/ralphc/internal/ast"
	"github.com/ralph-lang/ralphc/internal/errors"
	"github.com/ralph-lang/ralphc/internal/token"
)

// parseTopLevelDecl dispatches on the leading keyword (after collecting
// any `@using`/`@std`/`@unused` attributes) into one of the five
// TopLevelDecl variants (spec.md §3, §4.1).
func (p *Parser) parseTopLevelDecl() ast.Decl {
	start := p.peek()
	attrs := p.parseAttributes()

	switch {
	case p.check(token.CONTRACT):
		return p.parseContract(attrs, start)
	case p.check(token.ABSTRACT):
		p.advance()
		p.consume(token.CONTRACT, "expected 'Contract' after 'Abstract'")
		return p.parseAbstractContract(attrs, start)
	case p.check(token.INTERFACE):
		return p.parseInterface(attrs, start)
	case p.check(token.TX_SCRIPT):
		return p.parseTxScript(start)
	case p.check(token.ASSET_SCRIPT):
		return p.parseAssetScript(start)
	default:
		p.errorAt(p.peek().Position, errors.Syntax, "expected a top-level declaration (Contract, Abstract Contract, Interface, TxScript, AssetScript), got %s", p.peek().Type)
		p.advance()
		p.synchronize()
		return &ast.BadDecl{Position: start.Position, EndPos: p.previous().Position}
	}
}

// parseAttributes consumes zero or more `@name(...)`/`@name` annotations
// (spec.md §4.1, §6.2).
func (p *Parser) parseAttributes() []*ast.Attribute {
	var attrs []*ast.Attribute
	for p.check(token.AT) {
		attrs = append(attrs, p.parseAttribute())
	}
	return attrs
}

func (p *Parser) parseAttribute() *ast.Attribute {
	start := p.advance() // '@'
	nameTok := p.consume(token.IDENT, "expected attribute name after '@'")
	attr := &ast.Attribute{Name: nameTok.Lexeme, Args: map[string]string{}, Position: start.Position}
	if p.match(token.LEFT_PAREN) {
		for !p.check(token.RIGHT_PAREN) && !p.isAtEnd() {
			keyTok := p.consume(token.IDENT, "expected attribute key")
			p.consume(token.EQUAL, "expected '=' in attribute argument")
			val := p.parseAttributeValue()
			attr.Args[keyTok.Lexeme] = val
			if !p.match(token.COMMA) {
				break
			}
		}
		end := p.consume(token.RIGHT_PAREN, "expected ')' to close attribute arguments")
		attr.EndPos = end.Position
	} else {
		attr.EndPos = start.Position
	}
	return attr
}

func (p *Parser) parseAttributeValue() string {
	switch {
	case p.check(token.TRUE), p.check(token.FALSE):
		return p.advance().Lexeme
	case p.check(token.HEX_BYTES):
		return "#" + p.advance().Lexeme
	case p.check(token.IDENT):
		return p.advance().Lexeme
	default:
		t := p.advance()
		p.errorAt(t.Position, errors.Syntax, "expected attribute value, got %s", t.Type)
		return t.Lexeme
	}
}

// applyUsing folds parsed attributes into the four @using flags.
func applyUsing(attrs []*ast.Attribute) ast.UsingAnnotation {
	var u ast.UsingAnnotation
	for _, a := range attrs {
		if a.Name != "using" {
			continue
		}
		for k, v := range a.Args {
			b := v == "true"
			switch k {
			case "preapprovedAssets":
				u.PreapprovedAssets, u.PreapprovedAssetsSet = b, true
			case "assetsInContract":
				u.AssetsInContract, u.AssetsInContractSet = b, true
			case "checkExternalCaller":
				u.CheckExternalCaller, u.CheckExternalCallerSet = b, true
			case "updateFields":
				u.UpdateFields, u.UpdateFieldsSet = b, true
			}
		}
	}
	return u
}

func applyStd(attrs []*ast.Attribute) ast.StdAnnotation {
	var s ast.StdAnnotation
	for _, a := range attrs {
		if a.Name != "std" {
			continue
		}
		if id, ok := a.Args["id"]; ok {
			s.ID = trimHashPrefix(id)
			s.HasID = true
		}
		if en, ok := a.Args["enabled"]; ok {
			s.Enabled = en == "true"
			s.EnabledSet = true
		} else if !s.EnabledSet {
			s.Enabled = true
		}
	}
	return s
}

func trimHashPrefix(s string) string {
	if len(s) > 0 && s[0] == '#' {
		return s[1:]
	}
	return s
}

func hasAttr(attrs []*ast.Attribute, name string) bool {
	for _, a := range attrs {
		if a.Name == name {
			return true
		}
	}
	return false
}

// parseFieldList parses the constructor-style field list on a contract
// header: `(mut? name: Type, ...)`.
func (p *Parser) parseFieldList() []*ast.Field {
	p.consume(token.LEFT_PAREN, "expected '(' to start field list")
	var fields []*ast.Field
	for !p.check(token.RIGHT_PAREN) && !p.isAtEnd() {
		fieldAttrs := p.parseAttributes()
		start := p.peek()
		mut := p.match(token.MUT)
		nameTok := p.consume(token.IDENT, "expected field name")
		p.consume(token.COLON, "expected ':' after field name")
		ty := p.parseType()
		fields = append(fields, &ast.Field{
			Name:     p.makeIdent(nameTok),
			VarType:  ty,
			Mut:      mut,
			Unused:   hasAttr(fieldAttrs, "unused"),
			Position: start.Position,
			EndPos:   p.previous().Position,
		})
		if !p.match(token.COMMA) {
			break
		}
	}
	p.consume(token.RIGHT_PAREN, "expected ')' to close field list")
	return fields
}

func (p *Parser) parseExtendsClause() (*ast.Ident, []ast.Expr) {
	if !p.match(token.EXTENDS) {
		return nil, nil
	}
	nameTok := p.consume(token.IDENT, "expected parent name after 'extends'")
	name := p.makeIdent(nameTok)
	var args []ast.Expr
	if p.match(token.LEFT_PAREN) {
		for !p.check(token.RIGHT_PAREN) && !p.isAtEnd() {
			args = append(args, p.parseExpr())
			if !p.match(token.COMMA) {
				break
			}
		}
		p.consume(token.RIGHT_PAREN, "expected ')' to close extends arguments")
	}
	return name, args
}

func (p *Parser) parseImplementsClause() []*ast.Ident {
	if !p.match(token.IMPLEMENTS) {
		return nil
	}
	var names []*ast.Ident
	for {
		nameTok := p.consume(token.IDENT, "expected interface name")
		names = append(names, p.makeIdent(nameTok))
		if !p.match(token.COMMA) {
			break
		}
	}
	return names
}

// contractTarget is implemented by *ast.Contract and *ast.AbstractContract;
// the parser fills either one in through this common setter surface since
// ast.contractBody itself is a package-private shape.
type contractTarget interface {
	ast.Decl
	SetFields([]*ast.Field)
	SetExtends(*ast.Ident, []ast.Expr)
	SetImplements([]*ast.Ident)
	SetStd(ast.StdAnnotation)
	SetConsts([]*ast.ConstantDecl)
	SetEnums([]*ast.EnumDecl)
	SetEvents([]*ast.Event)
	SetFunctions([]*ast.Function)
}

func (p *Parser) parseContract(attrs []*ast.Attribute, start token.Token) ast.Decl {
	p.advance() // 'Contract'
	nameTok := p.consume(token.IDENT, "expected contract name")
	c := &ast.Contract{Name: p.makeIdent(nameTok), Position: start.Position}
	p.parseContractInto(c, attrs)
	c.EndPos = p.previous().Position
	return c
}

func (p *Parser) parseAbstractContract(attrs []*ast.Attribute, start token.Token) ast.Decl {
	nameTok := p.consume(token.IDENT, "expected contract name")
	c := &ast.AbstractContract{Name: p.makeIdent(nameTok), Position: start.Position}
	p.parseContractInto(c, attrs)
	c.EndPos = p.previous().Position
	return c
}

// parseContractInto parses the shared Contract/AbstractContract grammar —
// field list, extends/implements clauses, and body — directly into target.
func (p *Parser) parseContractInto(target contractTarget, attrs []*ast.Attribute) {
	target.SetFields(p.parseFieldList())
	extends, extendsArgs := p.parseExtendsClause()
	target.SetExtends(extends, extendsArgs)
	target.SetImplements(p.parseImplementsClause())
	target.SetStd(applyStd(attrs))

	p.consume(token.LEFT_BRACE, "expected '{' to start contract body")
	var consts []*ast.ConstantDecl
	var enums []*ast.EnumDecl
	var events []*ast.Event
	var fns []*ast.Function
	for !p.check(token.RIGHT_BRACE) && !p.isAtEnd() {
		memberAttrs := p.parseAttributes()
		switch {
		case p.check(token.CONST):
			consts = append(consts, p.parseConstDecl())
		case p.check(token.ENUM):
			enums = append(enums, p.parseEnumDecl())
		case p.check(token.EVENT):
			events = append(events, p.parseEventDecl())
		case p.check(token.PUB), p.check(token.FN):
			fns = append(fns, p.parseFunction(memberAttrs))
		default:
			p.errorAt(p.peek().Position, errors.Syntax, "expected const/enum/event/fn declaration in contract body, got %s", p.peek().Type)
			p.advance()
			p.synchronize()
		}
	}
	p.consume(token.RIGHT_BRACE, "expected '}' to close contract body")
	target.SetConsts(consts)
	target.SetEnums(enums)
	target.SetEvents(events)
	target.SetFunctions(fns)
}

func (p *Parser) parseInterface(attrs []*ast.Attribute, start token.Token) ast.Decl {
	p.advance() // 'Interface'
	nameTok := p.consume(token.IDENT, "expected interface name")
	var extends *ast.Ident
	if p.match(token.EXTENDS) {
		t := p.consume(token.IDENT, "expected parent interface name after 'extends'")
		extends = p.makeIdent(t)
	}
	p.consume(token.LEFT_BRACE, "expected '{' to start interface body")
	var fns []*ast.Function
	for !p.check(token.RIGHT_BRACE) && !p.isAtEnd() {
		fnAttrs := p.parseAttributes()
		if p.check(token.PUB) || p.check(token.FN) {
			fns = append(fns, p.parseFunction(fnAttrs))
			continue
		}
		p.errorAt(p.peek().Position, errors.Syntax, "expected function signature in interface body, got %s", p.peek().Type)
		p.advance()
		p.synchronize()
	}
	p.consume(token.RIGHT_BRACE, "expected '}' to close interface body")
	if len(fns) == 0 {
		p.errorAt(start.Position, errors.Syntax, "No function definition in Interface %s", nameTok.Lexeme)
	}
	return &ast.Interface{
		Name:      p.makeIdent(nameTok),
		Extends:   extends,
		Std:       applyStd(attrs),
		Functions: fns,
		Position:  start.Position,
		EndPos:    p.previous().Position,
	}
}

func (p *Parser) parseTxScript(start token.Token) ast.Decl {
	p.advance() // 'TxScript'
	nameTok := p.consume(token.IDENT, "expected script name")
	var params []*ast.FunctionParam
	if p.check(token.LEFT_PAREN) {
		params = p.parseFunctionParameters()
	}
	p.consume(token.LEFT_BRACE, "expected '{' to start TxScript body")
	var mainStmts []ast.Stmt
	var fns []*ast.Function
	for !p.check(token.RIGHT_BRACE) && !p.isAtEnd() {
		fnAttrs := p.parseAttributes()
		if p.check(token.PUB) || p.check(token.FN) {
			fns = append(fns, p.parseFunction(fnAttrs))
			continue
		}
		mainStmts = append(mainStmts, p.parseStmt())
	}
	p.consume(token.RIGHT_BRACE, "expected '}' to close TxScript body")
	if len(mainStmts) == 0 {
		p.errorAt(start.Position, errors.Syntax, "Expected main statements for type %q", nameTok.Lexeme)
	}
	return &ast.TxScript{
		Name:      p.makeIdent(nameTok),
		Params:    params,
		MainStmts: mainStmts,
		Functions: fns,
		Position:  start.Position,
		EndPos:    p.previous().Position,
	}
}

func (p *Parser) parseAssetScript(start token.Token) ast.Decl {
	p.advance() // 'AssetScript'
	nameTok := p.consume(token.IDENT, "expected script name")
	p.consume(token.LEFT_BRACE, "expected '{' to start AssetScript body")
	var fns []*ast.Function
	for !p.check(token.RIGHT_BRACE) && !p.isAtEnd() {
		fnAttrs := p.parseAttributes()
		if p.check(token.PUB) || p.check(token.FN) {
			fns = append(fns, p.parseFunction(fnAttrs))
			continue
		}
		p.errorAt(p.peek().Position, errors.Syntax, "expected function declaration in AssetScript body, got %s", p.peek().Type)
		p.advance()
		p.synchronize()
	}
	p.consume(token.RIGHT_BRACE, "expected '}' to close AssetScript body")
	return &ast.AssetScript{
		Name:      p.makeIdent(nameTok),
		Functions: fns,
		Position:  start.Position,
		EndPos:    p.previous().Position,
	}
}

func (p *Parser) parseConstDecl() *ast.ConstantDecl {
	start := p.advance() // 'const'
	nameTok := p.consume(token.IDENT, "expected constant name")
	p.consume(token.EQUAL, "expected '=' in const declaration")
	value := p.parseExpr()
	p.match(token.SEMICOLON)
	return &ast.ConstantDecl{
		Name:     p.makeIdent(nameTok),
		Value:    value,
		Position: start.Position,
		EndPos:   p.previous().Position,
	}
}

func (p *Parser) parseEnumDecl() *ast.EnumDecl {
	start := p.advance() // 'enum'
	nameTok := p.consume(token.IDENT, "expected enum name")
	p.consume(token.LEFT_BRACE, "expected '{' to start enum body")
	var variants []*ast.EnumVariant
	for !p.check(token.RIGHT_BRACE) && !p.isAtEnd() {
		vTok := p.consume(token.IDENT, "expected enum variant name")
		p.consume(token.EQUAL, "expected '=' after enum variant name")
		val := p.parseExpr()
		variants = append(variants, &ast.EnumVariant{
			Name:     p.makeIdent(vTok),
			Value:    val,
			Position: vTok.Position,
			EndPos:   p.previous().Position,
		})
		if !p.match(token.COMMA) {
			break
		}
	}
	p.consume(token.RIGHT_BRACE, "expected '}' to close enum body")
	return &ast.EnumDecl{
		Name:     p.makeIdent(nameTok),
		Variants: variants,
		Position: start.Position,
		EndPos:   p.previous().Position,
	}
}

// parseEventDecl parses `event Name(T1, T2, ...)`, rejecting more than 8
// fields per spec.md §3 and scenario S10.
func (p *Parser) parseEventDecl() *ast.Event {
	start := p.advance() // 'event'
	nameTok := p.consume(token.IDENT, "expected event name")
	p.consume(token.LEFT_PAREN, "expected '(' to start event field list")
	var fieldTypes []*ast.TypeExpr
	for !p.check(token.RIGHT_PAREN) && !p.isAtEnd() {
		fieldTypes = append(fieldTypes, p.parseType())
		if !p.match(token.COMMA) {
			break
		}
	}
	end := p.consume(token.RIGHT_PAREN, "expected ')' to close event field list")
	if len(fieldTypes) > 8 {
		p.errorAt(start.Position, errors.Type, "Max 8 fields allowed for contract events")
	}
	return &ast.Event{
		Name:       p.makeIdent(nameTok),
		FieldTypes: fieldTypes,
		Position:   start.Position,
		EndPos:     end.Position,
	}
}
