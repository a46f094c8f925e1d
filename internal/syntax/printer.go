package syntax

import (
	"fmt"
	"strings"
)

// Format re-prints Ralph source in canonical form (`ralphc fmt`). It is
// a best-effort convenience, not a guarantee: the secondary grammar
// accepts a subset of what internal/parser does, so Format can fail on
// source the real parser accepts.
func Format(filename, source string) (string, error) {
	program, err := Parse(filename, source)
	if err != nil {
		return "", err
	}
	return program.String(), nil
}

func indent(level int) string {
	return strings.Repeat("    ", level)
}

func (p *Program) String() string {
	var b strings.Builder
	for _, d := range p.Decls {
		b.WriteString(d.String())
		b.WriteString("\n")
	}
	return b.String()
}

func (d *TopLevelDecl) String() string {
	switch {
	case d.Contract != nil:
		return d.Contract.String()
	case d.Abstract != nil:
		return d.Abstract.String()
	case d.Interface != nil:
		return d.Interface.String()
	case d.TxScript != nil:
		return d.TxScript.String()
	case d.AssetScript != nil:
		return d.AssetScript.String()
	}
	return ""
}

func fieldList(fields []*FieldDecl) string {
	var parts []string
	for _, f := range fields {
		parts = append(parts, f.String())
	}
	return strings.Join(parts, ", ")
}

func (f *FieldDecl) String() string {
	if f.Mut {
		return fmt.Sprintf("mut %s: %s", f.Name, f.Type.String())
	}
	return fmt.Sprintf("%s: %s", f.Name, f.Type.String())
}

func (e *ExtendsAttr) String() string {
	var args []string
	for _, a := range e.Args {
		args = append(args, a.String())
	}
	return fmt.Sprintf(" extends %s(%s)", e.Name, strings.Join(args, ", "))
}

func (i *ImplAttr) String() string {
	return " implements " + strings.Join(i.Names, ", ")
}

func (c *Contract) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Contract %s(%s)", c.Name, fieldList(c.Fields))
	if c.Extends != nil {
		b.WriteString(c.Extends.String())
	}
	if c.Implements != nil {
		b.WriteString(c.Implements.String())
	}
	b.WriteString(" " + c.Body.String())
	return b.String()
}

func (c *Abstract) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Abstract Contract %s(%s)", c.Name, fieldList(c.Fields))
	if c.Extends != nil {
		b.WriteString(c.Extends.String())
	}
	if c.Implements != nil {
		b.WriteString(c.Implements.String())
	}
	b.WriteString(" " + c.Body.String())
	return b.String()
}

func (i *Interface) String() string {
	return fmt.Sprintf("Interface %s %s", i.Name, i.Body.String())
}

func (t *TxScript) String() string {
	return fmt.Sprintf("TxScript %s(%s) %s", t.Name, fieldList(t.Params), t.Body.String())
}

func (a *AssetScript) String() string {
	return fmt.Sprintf("AssetScript %s %s", a.Name, a.Body.String())
}

func (m *MemberBlock) String() string {
	var b strings.Builder
	b.WriteString("{\n")
	for _, ev := range m.Events {
		b.WriteString(indent(1) + ev.String() + "\n")
	}
	for _, en := range m.Enums {
		b.WriteString(indent(1) + en.String() + "\n")
	}
	for _, c := range m.Consts {
		b.WriteString(indent(1) + c.String() + "\n")
	}
	for _, fn := range m.Functions {
		b.WriteString(fn.StringWithIndent(1))
	}
	b.WriteString("}")
	return b.String()
}

func (e *Event) String() string {
	return fmt.Sprintf("event %s(%s)", e.Name, fieldList(e.Fields))
}

func (e *EnumDecl) String() string {
	return fmt.Sprintf("enum %s { %s }", e.Name, strings.Join(e.Variants, ", "))
}

func (c *ConstDecl) String() string {
	return fmt.Sprintf("const %s = %s", c.Name, c.Value.String())
}

func (fn *Function) StringWithIndent(level int) string {
	var b strings.Builder
	for _, a := range fn.Annotations {
		b.WriteString(indent(level) + a.String() + "\n")
	}
	b.WriteString(indent(level))
	if fn.Public {
		b.WriteString("pub ")
	}
	b.WriteString("fn " + fn.Name + "(")
	var params []string
	for _, p := range fn.Params {
		params = append(params, p.String())
	}
	b.WriteString(strings.Join(params, ", "))
	b.WriteString(")")
	if fn.Return != nil {
		b.WriteString(" -> " + fn.Return.String())
	}
	b.WriteString(" " + fn.Body.StringWithIndent(level))
	return b.String()
}

func (a *Annotation) String() string {
	var args []string
	for _, arg := range a.Args {
		args = append(args, arg.String())
	}
	return fmt.Sprintf("@%s(%s)", a.Name, strings.Join(args, ", "))
}

func (p *Param) String() string {
	var b strings.Builder
	if p.Unused {
		b.WriteString("@unused ")
	}
	if p.Mut {
		b.WriteString("mut ")
	}
	b.WriteString(p.Name + ": " + p.Type.String())
	return b.String()
}

func (t *Type) String() string {
	if len(t.Tuple) > 0 {
		var parts []string
		for _, e := range t.Tuple {
			parts = append(parts, e.String())
		}
		return "(" + strings.Join(parts, ", ") + ")"
	}
	if t.ArrayLen != nil {
		return fmt.Sprintf("%s[%s]", t.Name, t.ArrayLen.String())
	}
	return t.Name
}

func (b *Block) StringWithIndent(level int) string {
	var sb strings.Builder
	sb.WriteString("{\n")
	for _, s := range b.Stmts {
		sb.WriteString(s.StringWithIndent(level + 1))
	}
	sb.WriteString(indent(level) + "}\n")
	return sb.String()
}

func (s *Stmt) StringWithIndent(level int) string {
	switch {
	case s.Let != nil:
		return indent(level) + s.Let.String() + "\n"
	case s.If != nil:
		return s.If.StringWithIndent(level)
	case s.While != nil:
		return s.While.StringWithIndent(level)
	case s.For != nil:
		return s.For.StringWithIndent(level)
	case s.Return != nil:
		return indent(level) + s.Return.String() + "\n"
	case s.Emit != nil:
		return indent(level) + s.Emit.String() + "\n"
	case s.Expr != nil:
		return indent(level) + s.Expr.String() + "\n"
	}
	return ""
}

func (l *LetStmt) String() string {
	var b strings.Builder
	b.WriteString("let ")
	if l.Mut {
		b.WriteString("mut ")
	}
	if len(l.Names) == 1 {
		b.WriteString(l.Names[0])
	} else {
		b.WriteString("(" + strings.Join(l.Names, ", ") + ")")
	}
	b.WriteString(" = " + l.Value.String() + ";")
	return b.String()
}

func (i *IfStmt) StringWithIndent(level int) string {
	s := indent(level) + "if (" + i.Cond.String() + ") " + i.Then.StringWithIndent(level)
	if i.Else != nil {
		s = strings.TrimSuffix(s, "\n") + " else " + i.Else.StringWithIndent(level)
	}
	return s
}

func (w *WhileStmt) StringWithIndent(level int) string {
	return indent(level) + "while (" + w.Cond.String() + ") " + w.Body.StringWithIndent(level)
}

func (f *ForStmt) StringWithIndent(level int) string {
	return fmt.Sprintf("%sfor (%s %s; %s) %s", indent(level), f.Init.String(), f.Cond.String(), f.Post.String(), f.Body.StringWithIndent(level))
}

func (r *ReturnStmt) String() string {
	if len(r.Values) == 0 {
		return "return;"
	}
	var vals []string
	for _, v := range r.Values {
		vals = append(vals, v.String())
	}
	return "return " + strings.Join(vals, ", ") + ";"
}

func (e *EmitStmt) String() string {
	var args []string
	for _, a := range e.Args {
		args = append(args, a.String())
	}
	return fmt.Sprintf("emit %s(%s);", e.Name, strings.Join(args, ", "))
}

func (e *ExprStmt) String() string {
	return e.Expr.String() + ";"
}

func (e *Expr) String() string {
	return e.Binary.String()
}

func (b *BinaryExpr) String() string {
	s := b.Left.String()
	for _, op := range b.Ops {
		s += " " + op.String()
	}
	return s
}

func (b *BinOp) String() string {
	return fmt.Sprintf("%s %s", b.Operator, b.Right.String())
}

func (u *UnaryExpr) String() string {
	if u.Operator != nil {
		return *u.Operator + u.Value.String()
	}
	return u.Value.String()
}

func (p *PostfixExpr) String() string {
	s := p.Primary.String()
	for _, suf := range p.Suffix {
		s += suf.String()
	}
	return s
}

func (s *Suffix) String() string {
	if s.Index != nil {
		return "[" + s.Index.String() + "]"
	}
	return "." + s.Field
}

func (p *PrimaryExpr) String() string {
	switch {
	case p.Call != nil:
		return p.Call.String()
	case p.Number != nil:
		return *p.Number
	case p.Bool != nil:
		return *p.Bool
	case p.Ident != nil:
		return *p.Ident
	case p.Parens != nil:
		return "(" + p.Parens.String() + ")"
	}
	return ""
}

func (c *CallExpr) String() string {
	s := c.Callee.String()
	if c.Bang {
		s += "!"
	}
	var args []string
	for _, a := range c.Args {
		args = append(args, a.String())
	}
	return s + "(" + strings.Join(args, ", ") + ")"
}

func (c *CalleePath) String() string {
	return strings.Join(c.Parts, ".")
}
