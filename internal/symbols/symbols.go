// Package symbols implements the scope/symbol tables used by
// internal/sema and internal/codegen: one chain per function (locals over
// contract-level names), plus a flat per-contract table of fields,
// constants, enum variants, events and functions (spec.md §2 item 2).
package symbols

import (
	"github.com/ralph-lang/ralphc/internal/ast"
	"github.com/ralph-lang/ralphc/internal/types"
)

// Kind discriminates what a Symbol names.
type Kind int

const (
	KindField Kind = iota
	KindConst
	KindEnumVariant
	KindLocal
	KindParam
	KindFunction
	KindEvent
)

// Symbol is one named entity visible in some scope.
type Symbol struct {
	Name     string
	Kind     Kind
	VarType  *types.Type
	Mut      bool
	Unused   bool // carries an explicit @unused annotation, suppresses the warning
	Position ast.Position

	// Used/Assigned are mutated in place as the checker walks the
	// function body; spec.md §4.2/§4.4 needs both "never read" and
	// "mutable but never (re)assigned" diagnostics.
	Used     bool
	Assigned bool

	// FieldIndex is the scalar slot index within its region (immutable or
	// mutable — spec.md §4.5 "Scalar slot assignment"); meaningful only
	// for KindField. LocalIndex is the first scalar local slot; meaningful
	// only for KindLocal/KindParam.
	FieldIndex int
	LocalIndex int

	// Folded/FoldedValue hold the constant-folded integer value of a
	// KindConst symbol (spec.md §4.4), set by internal/sema once and read
	// back by internal/codegen for array size/index lowering.
	Folded      bool
	FoldedValue int

	// ConstExpr is a KindConst symbol's declared value expression.
	// Constants have no storage slot of their own — every reference is
	// inlined from this expression at codegen time.
	ConstExpr ast.Expr
}

// Scope is one link in a function's lexical scope chain: block scopes
// nest inside the function's top scope. Contract-level names are not in
// the chain; callers resolve them against the ContractScope themselves
// (sema's funcCtx.lookupName, codegen's resolveAddress).
type Scope struct {
	parent  *Scope
	symbols map[string]*Symbol
	order   []string
}

// NewScope creates a child scope. parent may be nil for a function's
// outermost block.
func NewScope(parent *Scope) *Scope {
	return &Scope{parent: parent, symbols: map[string]*Symbol{}}
}

// Define adds a symbol to this scope, shadowing any same-named symbol in
// an enclosing scope. It does not check for a local redeclaration within
// the same scope — Ralph's `let` allows reusing a name understood as
// shadowing, the same way a block-scoped language typically does.
func (s *Scope) Define(sym *Symbol) {
	s.symbols[sym.Name] = sym
	s.order = append(s.order, sym.Name)
}

// Lookup resolves a name up the scope chain, not including whatever the
// caller layers on top (contract-level fields/consts/enum variants are
// resolved separately by the caller, since fields use §4.5 slot
// addressing rather than a generic lexical lookup).
func (s *Scope) Lookup(name string) *Symbol {
	for sc := s; sc != nil; sc = sc.parent {
		if sym, ok := sc.symbols[name]; ok {
			return sym
		}
	}
	return nil
}

// LookupLocal resolves a name only within this exact scope.
func (s *Scope) LookupLocal(name string) *Symbol {
	return s.symbols[name]
}

// Locals returns every symbol directly defined in this scope, in
// definition order — used by the unused-variable warning pass.
func (s *Scope) Locals() []*Symbol {
	out := make([]*Symbol, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.symbols[name])
	}
	return out
}

// ContractScope indexes the flattened, post-inheritance members of one
// Contract/AbstractContract: fields (split immutable/mutable per spec.md
// §4.5), constants, enum variants (flattened `Enum.Variant` -> value),
// events and functions, each addressable by name in O(1).
type ContractScope struct {
	Name string

	ImmutableFields []*Symbol // slot-ordered, index 0..N-1
	MutableFields   []*Symbol // slot-ordered, index 0..M-1
	fieldByName     map[string]*Symbol

	Consts      map[string]*Symbol
	EnumVariant map[string]*Symbol // "Enum.Variant" -> symbol carrying the folded literal
	Events      map[string]*ast.Event
	Functions   map[string]*ast.Function
	FuncOrder   []string
}

// NewContractScope builds field/const/enum/event/function indices for one
// resolved contract. Field slot indices follow spec.md §4.5: immutable
// fields first (0..Iₘ-1), then mutable fields (0..Mₘ-1), each addressed
// independently.
func NewContractScope(name string, fields []*ast.Field, resolve func(*ast.TypeExpr) *types.Type) *ContractScope {
	cs := &ContractScope{
		Name:        name,
		fieldByName: map[string]*Symbol{},
		Consts:      map[string]*Symbol{},
		EnumVariant: map[string]*Symbol{},
		Events:      map[string]*ast.Event{},
		Functions:   map[string]*ast.Function{},
	}
	immIdx, mutIdx := 0, 0
	for _, f := range fields {
		t := resolve(f.VarType)
		sym := &Symbol{
			Name:     f.Name.Value,
			Kind:     KindField,
			VarType:  t,
			Mut:      f.Mut,
			Unused:   f.Unused,
			Position: f.Position,
		}
		if f.Mut {
			sym.FieldIndex = mutIdx
			mutIdx += t.ScalarSlotCount()
			cs.MutableFields = append(cs.MutableFields, sym)
		} else {
			sym.FieldIndex = immIdx
			immIdx += t.ScalarSlotCount()
			cs.ImmutableFields = append(cs.ImmutableFields, sym)
		}
		cs.fieldByName[f.Name.Value] = sym
	}
	return cs
}

// LookupField resolves a field by name, reporting which region it lives
// in via Symbol.Mut.
func (cs *ContractScope) LookupField(name string) *Symbol {
	return cs.fieldByName[name]
}

// ImmutableScalarCount / MutableScalarCount are the flattened slot counts
// spec.md §8 property 5 ("Scalar field count") checks against.
func (cs *ContractScope) ImmutableScalarCount() int {
	n := 0
	for _, f := range cs.ImmutableFields {
		n += f.VarType.ScalarSlotCount()
	}
	return n
}

func (cs *ContractScope) MutableScalarCount() int {
	n := 0
	for _, f := range cs.MutableFields {
		n += f.VarType.ScalarSlotCount()
	}
	return n
}

// DefineConst registers a contract-scoped constant (spec.md §3: "names
// unique per contract").
func (cs *ContractScope) DefineConst(name string, t *types.Type, pos ast.Position) *Symbol {
	sym := &Symbol{Name: name, Kind: KindConst, VarType: t, Position: pos}
	cs.Consts[name] = sym
	return sym
}

// DefineEnumVariant registers a variant under the single flattened key
// "Enum.Variant".
func (cs *ContractScope) DefineEnumVariant(enum, variant string, t *types.Type, pos ast.Position) *Symbol {
	sym := &Symbol{Name: enum + "." + variant, Kind: KindEnumVariant, VarType: t, Position: pos}
	cs.EnumVariant[enum+"."+variant] = sym
	return sym
}

// DefineFunction registers a function signature for call-site resolution.
func (cs *ContractScope) DefineFunction(fn *ast.Function) {
	if _, dup := cs.Functions[fn.Name.Value]; !dup {
		cs.FuncOrder = append(cs.FuncOrder, fn.Name.Value)
	}
	cs.Functions[fn.Name.Value] = fn
}
