package ast

// Stmt is implemented by every statement kind in spec.md §3.
type Stmt interface {
	Node
	stmtNode()
}

// AssignOp distinguishes `=` from the compound assignment operators.
type AssignOp int

const (
	ASSIGN AssignOp = iota
	PLUS_ASSIGN
	MINUS_ASSIGN
	STAR_ASSIGN
	SLASH_ASSIGN
	PERCENT_ASSIGN
)

// LetStmt is `let [mut] name[: T] = expr;`. Target may also be a tuple
// pattern for multi-return destructuring: `let (a, mut b, _) = f();`.
type LetStmt struct {
	Names      []*Ident // len > 1 for tuple destructuring
	Muts       []bool   // parallel to Names
	Underscore []bool   // true where the name is `_`
	VarType    *TypeExpr
	Expr       Expr
	Position   Position
	EndPos     Position
}

func (s *LetStmt) Pos() Position  { return s.Position }
func (s *LetStmt) End() Position  { return s.EndPos }
func (s *LetStmt) Type() NodeType { return NODE_LET_STMT }
func (s *LetStmt) String() string { return "let ..." }
func (*LetStmt) stmtNode()        {}

// AssignStmt is `target op= expr;` where target is an ident, field
// access, or index expression (or a tuple of such, for multi-return).
type AssignStmt struct {
	Targets  []Expr
	Op       AssignOp
	Value    Expr
	Position Position
	EndPos   Position
}

func (s *AssignStmt) Pos() Position  { return s.Position }
func (s *AssignStmt) End() Position  { return s.EndPos }
func (s *AssignStmt) Type() NodeType { return NODE_ASSIGN_STMT }
func (s *AssignStmt) String() string { return "assign" }
func (*AssignStmt) stmtNode()        {}

// IfStmt is the statement form of `if`; ElseBlock/ElseIf are mutually
// exclusive alternates (ElseIf supports `else if` chains).
type IfStmt struct {
	Cond      Expr
	Then      *FunctionBlock
	ElseBlock *FunctionBlock
	ElseIf    *IfStmt
	Position  Position
	EndPos    Position
}

func (s *IfStmt) Pos() Position  { return s.Position }
func (s *IfStmt) End() Position  { return s.EndPos }
func (s *IfStmt) Type() NodeType { return NODE_IF_STMT }
func (s *IfStmt) String() string { return "if" }
func (*IfStmt) stmtNode()        {}

// WhileStmt is `while (cond) { body }`.
type WhileStmt struct {
	Cond     Expr
	Body     *FunctionBlock
	Position Position
	EndPos   Position
}

func (s *WhileStmt) Pos() Position  { return s.Position }
func (s *WhileStmt) End() Position  { return s.EndPos }
func (s *WhileStmt) Type() NodeType { return NODE_WHILE_STMT }
func (s *WhileStmt) String() string { return "while" }
func (*WhileStmt) stmtNode()        {}

// ForStmt is `for (init; cond; update) { body }`; all three clauses are
// required (spec.md §4.2).
type ForStmt struct {
	Init     Stmt
	Cond     Expr
	Update   Stmt
	Body     *FunctionBlock
	Position Position
	EndPos   Position
}

func (s *ForStmt) Pos() Position  { return s.Position }
func (s *ForStmt) End() Position  { return s.EndPos }
func (s *ForStmt) Type() NodeType { return NODE_FOR_STMT }
func (s *ForStmt) String() string { return "for" }
func (*ForStmt) stmtNode()        {}

// ReturnStmt is `return [expr[, expr...]];`; multiple values correspond
// to a tuple return type.
type ReturnStmt struct {
	Values   []Expr
	Position Position
	EndPos   Position
}

func (s *ReturnStmt) Pos() Position  { return s.Position }
func (s *ReturnStmt) End() Position  { return s.EndPos }
func (s *ReturnStmt) Type() NodeType { return NODE_RETURN_STMT }
func (s *ReturnStmt) String() string { return "return" }
func (*ReturnStmt) stmtNode()        {}

// EmitStmt is `emit EventName(args...);`.
type EmitStmt struct {
	Event    *Ident
	Args     []Expr
	Position Position
	EndPos   Position
}

func (s *EmitStmt) Pos() Position  { return s.Position }
func (s *EmitStmt) End() Position  { return s.EndPos }
func (s *EmitStmt) Type() NodeType { return NODE_EMIT_STMT }
func (s *EmitStmt) String() string { return "emit " + s.Event.Value }
func (*EmitStmt) stmtNode()        {}

// PanicStmt is `panic!(code?);` — a terminator (spec.md §4.5).
type PanicStmt struct {
	Code     Expr // nil if no error code given
	Position Position
	EndPos   Position
}

func (s *PanicStmt) Pos() Position  { return s.Position }
func (s *PanicStmt) End() Position  { return s.EndPos }
func (s *PanicStmt) Type() NodeType { return NODE_PANIC_STMT }
func (s *PanicStmt) String() string { return "panic!" }
func (*PanicStmt) stmtNode()        {}

// AssertStmt is `assert!(cond, code?);`.
type AssertStmt struct {
	Cond     Expr
	Code     Expr
	Position Position
	EndPos   Position
}

func (s *AssertStmt) Pos() Position  { return s.Position }
func (s *AssertStmt) End() Position  { return s.EndPos }
func (s *AssertStmt) Type() NodeType { return NODE_ASSERT_STMT }
func (s *AssertStmt) String() string { return "assert!" }
func (*AssertStmt) stmtNode()        {}

// ExprStmt is an expression used as a statement, e.g. a bare call.
type ExprStmt struct {
	Expr     Expr
	Position Position
	EndPos   Position
}

func (s *ExprStmt) Pos() Position  { return s.Position }
func (s *ExprStmt) End() Position  { return s.EndPos }
func (s *ExprStmt) Type() NodeType { return NODE_EXPR_STMT }
func (s *ExprStmt) String() string { return "expr stmt" }
func (*ExprStmt) stmtNode()        {}

// BadStmt is an error-recovery placeholder.
type BadStmt struct {
	Position Position
	EndPos   Position
}

func (s *BadStmt) Pos() Position  { return s.Position }
func (s *BadStmt) End() Position  { return s.EndPos }
func (s *BadStmt) Type() NodeType { return BAD_STMT }
func (s *BadStmt) String() string { return "<bad stmt>" }
func (*BadStmt) stmtNode()        {}
