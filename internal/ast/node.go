// Package ast defines the typed syntax tree produced by internal/parser
// and consumed by internal/inherit, internal/sema and internal/codegen.
package ast

import "github.com/ralph-lang/ralphc/internal/token"

// Position mirrors token.Position so ast nodes don't need to import the
// lexer's token package for anything but this one shape.
type Position = token.Position

// NodeType tags every concrete node with a cheap discriminant, mirroring
// the reference tree's NodeType enum.
type NodeType int

const (
	ILLEGAL NodeType = iota
	BAD_DECL
	BAD_EXPR
	BAD_STMT

	NODE_COMMENT
	NODE_DOC_COMMENT
	NODE_SOURCE_UNIT
	NODE_ATTRIBUTE
	NODE_IDENT
	NODE_TYPE

	NODE_CONTRACT
	NODE_ABSTRACT_CONTRACT
	NODE_INTERFACE
	NODE_TX_SCRIPT
	NODE_ASSET_SCRIPT

	NODE_FIELD
	NODE_CONSTANT_DECL
	NODE_ENUM_DECL
	NODE_ENUM_VARIANT
	NODE_EVENT
	NODE_FUNCTION
	NODE_FUNCTION_PARAM
	NODE_FUNCTION_BLOCK

	NODE_LET_STMT
	NODE_ASSIGN_STMT
	NODE_IF_STMT
	NODE_WHILE_STMT
	NODE_FOR_STMT
	NODE_RETURN_STMT
	NODE_EMIT_STMT
	NODE_PANIC_STMT
	NODE_ASSERT_STMT
	NODE_EXPR_STMT

	NODE_BINARY_EXPR
	NODE_UNARY_EXPR
	NODE_CALL_EXPR
	NODE_APPROVAL_CALL_EXPR
	NODE_FIELD_ACCESS_EXPR
	NODE_INDEX_EXPR
	NODE_LITERAL_EXPR
	NODE_BOOL_LITERAL_EXPR
	NODE_IDENT_EXPR
	NODE_ARRAY_LITERAL_EXPR
	NODE_ARRAY_REPEAT_EXPR
	NODE_TUPLE_EXPR
	NODE_IF_EXPR
	NODE_PAREN_EXPR
	NODE_CALLEE_PATH
)

// Node is implemented by every AST node.
type Node interface {
	Pos() Position
	End() Position
	Type() NodeType
	String() string
}

// Ident is a bare identifier occurrence.
type Ident struct {
	Value    string
	Position Position
	EndPos   Position
}

func (i *Ident) Pos() Position  { return i.Position }
func (i *Ident) End() Position  { return i.EndPos }
func (i *Ident) Type() NodeType { return NODE_IDENT }
func (i *Ident) String() string { return i.Value }

// Comment is a plain `//` or `/* */` comment kept for leading-comment
// attachment to the following declaration.
type Comment struct {
	Text     string
	Position Position
	EndPos   Position
}

func (c *Comment) Pos() Position  { return c.Position }
func (c *Comment) End() Position  { return c.EndPos }
func (c *Comment) Type() NodeType { return NODE_COMMENT }
func (c *Comment) String() string { return c.Text }

// DocComment is a `///` or `/** */` comment.
type DocComment struct {
	Text     string
	Position Position
	EndPos   Position
}

func (d *DocComment) Pos() Position  { return d.Position }
func (d *DocComment) End() Position  { return d.EndPos }
func (d *DocComment) Type() NodeType { return NODE_DOC_COMMENT }
func (d *DocComment) String() string { return d.Text }

// Attribute models one `@using(...)`, `@std(...)` or `@unused` annotation
// attached to the following function/field/contract.
type Attribute struct {
	Name     string            // "using", "std", "unused"
	Args     map[string]string // key=value pairs, empty for bare @unused
	Position Position
	EndPos   Position
}

func (a *Attribute) Pos() Position  { return a.Position }
func (a *Attribute) End() Position  { return a.EndPos }
func (a *Attribute) Type() NodeType { return NODE_ATTRIBUTE }
func (a *Attribute) String() string { return "@" + a.Name }

// TypeExpr is a reference to a type: a primitive/contract name, an array
// type (`[T; n]`, possibly nested), or a tuple type `(T, U, ...)`.
type TypeExpr struct {
	Name          string // "", or the scalar/contract type name
	ArrayElem     *TypeExpr
	ArraySize     int // only meaningful when ArrayElem != nil
	TupleElements []*TypeExpr
	Position      Position
	EndPos        Position
}

func (t *TypeExpr) Pos() Position  { return t.Position }
func (t *TypeExpr) End() Position  { return t.EndPos }
func (t *TypeExpr) Type() NodeType { return NODE_TYPE }
func (t *TypeExpr) String() string {
	switch {
	case t.ArrayElem != nil:
		return "[" + t.ArrayElem.String() + "; " + itoa(t.ArraySize) + "]"
	case len(t.TupleElements) > 0:
		s := "("
		for i, e := range t.TupleElements {
			if i > 0 {
				s += ", "
			}
			s += e.String()
		}
		return s + ")"
	default:
		return t.Name
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
