// Package sema is the type checker / semantic analyzer (spec.md §2 items
// 3 and 5, §4.2, §4.4): it consumes inheritance-resolved declarations and
// produces per-contract symbol scopes, diagnostics, and the constant-
// folded, flow-checked AST internal/codegen lowers.
package sema

import (
	"github.com/ralph-lang/ralphc/internal/ast"
	"github.com/ralph-lang/ralphc/internal/inherit"
	"github.com/ralph-lang/ralphc/internal/types"
)

// ContractInfo is what the checker needs to know about one contract to
// validate a reference to it from somewhere else in the unit: its
// resolved (post-inheritance) field list and function table, used for
// external-call signature checks and `Type.encodeFields!` static lowering.
type ContractInfo struct {
	Name       string
	IsAbstract bool
	Fields     []*ast.Field
	Functions  map[string]*ast.Function
	FuncOrder  []string
}

// Universe is the whole-unit view the checker needs while checking any
// one declaration: every other contract's public surface, plus every
// interface (for `implements`-based ContractRef assignability — not
// required by spec.md's core rules, kept minimal).
type Universe struct {
	Contracts  map[string]*ContractInfo
	Interfaces map[string]*ast.Interface
}

// NewUniverse builds a Universe from internal/inherit's resolved output.
func NewUniverse(resolved []*inherit.ResolvedContract, interfaces map[string]*ast.Interface) *Universe {
	u := &Universe{Contracts: map[string]*ContractInfo{}, Interfaces: interfaces}
	for _, rc := range resolved {
		fns := map[string]*ast.Function{}
		var order []string
		for _, fn := range rc.Decl.Functions() {
			fns[fn.Name.Value] = fn
			order = append(order, fn.Name.Value)
		}
		u.Contracts[rc.Name] = &ContractInfo{
			Name:       rc.Name,
			IsAbstract: rc.IsAbstract,
			Fields:     rc.Decl.Fields(),
			Functions:  fns,
			FuncOrder:  order,
		}
	}
	return u
}

// KnownTypeNames returns the set of names valid as a ContractRef type
// target (concrete/abstract contracts and interfaces alike — spec.md §3:
// "contract/interface reference types").
func (u *Universe) KnownTypeNames() map[string]bool {
	out := map[string]bool{}
	for name := range u.Contracts {
		out[name] = true
	}
	for name := range u.Interfaces {
		out[name] = true
	}
	return out
}

// ResolveType converts an ast.TypeExpr into the internal/types model
// (spec.md §3/§4.2): scalars and contract refs by name, arrays and tuples
// structurally.
func (u *Universe) ResolveType(t *ast.TypeExpr) *types.Type {
	if t == nil {
		return types.Void
	}
	switch {
	case t.ArrayElem != nil:
		return types.Array(u.ResolveType(t.ArrayElem), t.ArraySize)
	case len(t.TupleElements) > 0:
		elems := make([]*types.Type, len(t.TupleElements))
		for i, e := range t.TupleElements {
			elems[i] = u.ResolveType(e)
		}
		return types.Tuple(elems...)
	case t.Name == "":
		return types.Void
	default:
		return types.FromName(t.Name, u.KnownTypeNames())
	}
}
