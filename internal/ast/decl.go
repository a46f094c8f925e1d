package ast

// Decl is implemented by every top-level declaration kind named in
// spec.md §3 (`TopLevelDecl`): Contract, AbstractContract, Interface,
// TxScript, AssetScript.
type Decl interface {
	Node
	declName() string
}

// SourceUnit is the parser's output: an ordered sequence of top-level
// declarations plus the filename they came from. Immutable after parse.
type SourceUnit struct {
	Filename string
	Decls    []Decl
	Position Position
	EndPos   Position
}

func (s *SourceUnit) Pos() Position  { return s.Position }
func (s *SourceUnit) End() Position  { return s.EndPos }
func (s *SourceUnit) Type() NodeType { return NODE_SOURCE_UNIT }
func (s *SourceUnit) String() string { return "SourceUnit(" + s.Filename + ")" }

// Field is a contract/abstract-contract constructor field, e.g.
// `mut alphReserve: U256` in `Contract Uniswap(mut alphReserve: U256)`.
type Field struct {
	Name      *Ident
	VarType   *TypeExpr
	Mut       bool
	Unused    bool // carries an explicit @unused annotation
	Synthetic bool // injected by @std inheritance (spec.md §4.3)
	Position  Position
	EndPos    Position
}

func (f *Field) Pos() Position  { return f.Position }
func (f *Field) End() Position  { return f.EndPos }
func (f *Field) Type() NodeType { return NODE_FIELD }
func (f *Field) String() string { return f.Name.Value }

// ConstantDecl is a contract-scoped `const NAME = literal`.
type ConstantDecl struct {
	Name     *Ident
	Value    Expr
	Position Position
	EndPos   Position
}

func (c *ConstantDecl) Pos() Position  { return c.Position }
func (c *ConstantDecl) End() Position  { return c.EndPos }
func (c *ConstantDecl) Type() NodeType { return NODE_CONSTANT_DECL }
func (c *ConstantDecl) String() string { return "const " + c.Name.Value }

// EnumVariant is one `Name = literal` member of an EnumDecl.
type EnumVariant struct {
	Name     *Ident
	Value    Expr
	Position Position
	EndPos   Position
}

func (e *EnumVariant) Pos() Position  { return e.Position }
func (e *EnumVariant) End() Position  { return e.EndPos }
func (e *EnumVariant) Type() NodeType { return NODE_ENUM_VARIANT }
func (e *EnumVariant) String() string { return e.Name.Value }

// EnumDecl is `enum Name { Variant = lit, ... }`; all variants share one
// primitive type (checked during semantic analysis).
type EnumDecl struct {
	Name     *Ident
	Variants []*EnumVariant
	Position Position
	EndPos   Position
}

func (e *EnumDecl) Pos() Position  { return e.Position }
func (e *EnumDecl) End() Position  { return e.EndPos }
func (e *EnumDecl) Type() NodeType { return NODE_ENUM_DECL }
func (e *EnumDecl) String() string { return "enum " + e.Name.Value }

// Event is `event Name(T1, T2, ...)`, at most 8 fields (spec.md §3).
type Event struct {
	Name       *Ident
	FieldTypes []*TypeExpr
	Position   Position
	EndPos     Position
}

func (e *Event) Pos() Position  { return e.Position }
func (e *Event) End() Position  { return e.EndPos }
func (e *Event) Type() NodeType { return NODE_EVENT }
func (e *Event) String() string { return "event " + e.Name.Value }

// FunctionParam is one function argument.
type FunctionParam struct {
	Name     *Ident
	VarType  *TypeExpr
	Mut      bool
	Unused   bool
	Position Position
	EndPos   Position
}

func (p *FunctionParam) Pos() Position  { return p.Position }
func (p *FunctionParam) End() Position  { return p.EndPos }
func (p *FunctionParam) Type() NodeType { return NODE_FUNCTION_PARAM }
func (p *FunctionParam) String() string { return p.Name.Value }

// UsingAnnotation captures the four `@using(...)` flags from spec.md §3/§4.3.
type UsingAnnotation struct {
	PreapprovedAssets   bool
	PreapprovedAssetsSet bool
	AssetsInContract    bool
	AssetsInContractSet bool
	CheckExternalCaller bool
	CheckExternalCallerSet bool
	UpdateFields        bool
	UpdateFieldsSet     bool
}

// Function is a contract/interface member function. Interface functions
// have Body == nil (signature only).
type Function struct {
	Name       *Ident
	Params     []*FunctionParam
	ReturnType *TypeExpr // nil means the unit type `()`
	Public     bool
	Using      UsingAnnotation
	Unused     bool
	Body       *FunctionBlock // nil for Interface method signatures
	Position   Position
	EndPos     Position
}

func (f *Function) Pos() Position  { return f.Position }
func (f *Function) End() Position  { return f.EndPos }
func (f *Function) Type() NodeType { return NODE_FUNCTION }
func (f *Function) String() string { return "fn " + f.Name.Value }

// FunctionBlock is a `{ ... }` body: a sequence of statements.
type FunctionBlock struct {
	Stmts    []Stmt
	Position Position
	EndPos   Position
}

func (b *FunctionBlock) Pos() Position  { return b.Position }
func (b *FunctionBlock) End() Position  { return b.EndPos }
func (b *FunctionBlock) Type() NodeType { return NODE_FUNCTION_BLOCK }
func (b *FunctionBlock) String() string { return "{...}" }

// StdAnnotation captures `@std(id=#hex)` / `@std(enabled=false)`.
type StdAnnotation struct {
	ID      string // hex digits, without leading '#'
	HasID   bool
	Enabled bool
	EnabledSet bool
}

// contractBody holds the members shared by Contract/AbstractContract.
type contractBody struct {
	Fields     []*Field
	Extends    *Ident
	ExtendsArgs []Expr
	Implements []*Ident
	Std        StdAnnotation
	Consts     []*ConstantDecl
	Enums      []*EnumDecl
	Events     []*Event
	Functions  []*Function
}

// Contract is a concrete, emittable contract declaration.
type Contract struct {
	Name     *Ident
	Body     contractBody
	Position Position
	EndPos   Position
}

func (c *Contract) Pos() Position    { return c.Position }
func (c *Contract) End() Position    { return c.EndPos }
func (c *Contract) Type() NodeType   { return NODE_CONTRACT }
func (c *Contract) String() string   { return "Contract " + c.Name.Value }
func (c *Contract) declName() string { return c.Name.Value }
func (c *Contract) Fields() []*Field         { return c.Body.Fields }
func (c *Contract) Extends() (*Ident, []Expr) { return c.Body.Extends, c.Body.ExtendsArgs }
func (c *Contract) Implements() []*Ident     { return c.Body.Implements }
func (c *Contract) Std() StdAnnotation       { return c.Body.Std }
func (c *Contract) Consts() []*ConstantDecl  { return c.Body.Consts }
func (c *Contract) Enums() []*EnumDecl       { return c.Body.Enums }
func (c *Contract) Events() []*Event         { return c.Body.Events }
func (c *Contract) Functions() []*Function   { return c.Body.Functions }
func (c *Contract) SetFields(f []*Field)        { c.Body.Fields = f }
func (c *Contract) SetConsts(v []*ConstantDecl) { c.Body.Consts = v }
func (c *Contract) SetEnums(v []*EnumDecl)       { c.Body.Enums = v }
func (c *Contract) SetEvents(v []*Event)         { c.Body.Events = v }
func (c *Contract) SetFunctions(v []*Function)   { c.Body.Functions = v }
func (c *Contract) SetExtends(name *Ident, args []Expr) {
	c.Body.Extends, c.Body.ExtendsArgs = name, args
}
func (c *Contract) SetImplements(v []*Ident)  { c.Body.Implements = v }
func (c *Contract) SetStd(s StdAnnotation)    { c.Body.Std = s }

// AbstractContract can only be extended, never emitted directly
// (spec.md §4.6: "Code generation is not supported for abstract contract").
type AbstractContract struct {
	Name     *Ident
	Body     contractBody
	Position Position
	EndPos   Position
}

func (c *AbstractContract) Pos() Position    { return c.Position }
func (c *AbstractContract) End() Position    { return c.EndPos }
func (c *AbstractContract) Type() NodeType   { return NODE_ABSTRACT_CONTRACT }
func (c *AbstractContract) String() string   { return "Abstract Contract " + c.Name.Value }
func (c *AbstractContract) declName() string { return c.Name.Value }
func (c *AbstractContract) Fields() []*Field         { return c.Body.Fields }
func (c *AbstractContract) Extends() (*Ident, []Expr) { return c.Body.Extends, c.Body.ExtendsArgs }
func (c *AbstractContract) Implements() []*Ident     { return c.Body.Implements }
func (c *AbstractContract) Std() StdAnnotation       { return c.Body.Std }
func (c *AbstractContract) Consts() []*ConstantDecl  { return c.Body.Consts }
func (c *AbstractContract) Enums() []*EnumDecl       { return c.Body.Enums }
func (c *AbstractContract) Events() []*Event         { return c.Body.Events }
func (c *AbstractContract) Functions() []*Function   { return c.Body.Functions }
func (c *AbstractContract) SetFields(f []*Field)        { c.Body.Fields = f }
func (c *AbstractContract) SetConsts(v []*ConstantDecl) { c.Body.Consts = v }
func (c *AbstractContract) SetEnums(v []*EnumDecl)       { c.Body.Enums = v }
func (c *AbstractContract) SetEvents(v []*Event)         { c.Body.Events = v }
func (c *AbstractContract) SetFunctions(v []*Function)   { c.Body.Functions = v }
func (c *AbstractContract) SetExtends(name *Ident, args []Expr) {
	c.Body.Extends, c.Body.ExtendsArgs = name, args
}
func (c *AbstractContract) SetImplements(v []*Ident) { c.Body.Implements = v }
func (c *AbstractContract) SetStd(s StdAnnotation)   { c.Body.Std = s }

// Interface declares a single-inheritance chain of method signatures
// (spec.md §4.3). Must contain at least one function (spec.md S8).
type Interface struct {
	Name      *Ident
	Extends   *Ident // single parent interface, or nil
	Std       StdAnnotation
	Functions []*Function
	Position  Position
	EndPos    Position
}

func (i *Interface) Pos() Position    { return i.Position }
func (i *Interface) End() Position    { return i.EndPos }
func (i *Interface) Type() NodeType   { return NODE_INTERFACE }
func (i *Interface) String() string   { return "Interface " + i.Name.Value }
func (i *Interface) declName() string { return i.Name.Value }

// TxScript is one-shot transaction code; requires at least one top-level
// statement outside any function (spec.md §4.1, S2).
type TxScript struct {
	Name       *Ident
	Params     []*FunctionParam // template variables
	MainStmts  []Stmt
	Functions  []*Function
	Position   Position
	EndPos     Position
}

func (t *TxScript) Pos() Position    { return t.Position }
func (t *TxScript) End() Position    { return t.EndPos }
func (t *TxScript) Type() NodeType   { return NODE_TX_SCRIPT }
func (t *TxScript) String() string   { return "TxScript " + t.Name.Value }
func (t *TxScript) declName() string { return t.Name.Value }

// AssetScript is one-shot code meant to accompany asset movement; unlike
// TxScript its body is one or more functions (spec.md S1).
type AssetScript struct {
	Name      *Ident
	Functions []*Function
	Position  Position
	EndPos    Position
}

func (a *AssetScript) Pos() Position    { return a.Position }
func (a *AssetScript) End() Position    { return a.EndPos }
func (a *AssetScript) Type() NodeType   { return NODE_ASSET_SCRIPT }
func (a *AssetScript) String() string   { return "AssetScript " + a.Name.Value }
func (a *AssetScript) declName() string { return a.Name.Value }

// BadDecl is an error-recovery placeholder produced when the parser
// cannot make sense of a top-level declaration; synchronize() skips to
// the next one.
type BadDecl struct {
	Position Position
	EndPos   Position
}

func (b *BadDecl) Pos() Position    { return b.Position }
func (b *BadDecl) End() Position    { return b.EndPos }
func (b *BadDecl) Type() NodeType   { return BAD_DECL }
func (b *BadDecl) String() string   { return "<bad decl>" }
func (b *BadDecl) declName() string { return "" }
