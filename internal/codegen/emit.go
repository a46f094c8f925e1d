package codegen

import (
	"strings"

	"github.com/holiman/uint256"

	"github.com/ralph-lang/ralphc/internal/ast"
	"github.com/ralph-lang/ralphc/internal/sema"
	"github.com/ralph-lang/ralphc/internal/stdlib"
	"github.com/ralph-lang/ralphc/internal/symbols"
	"github.com/ralph-lang/ralphc/internal/types"
)

// localSlot records where one name lives in the function's flat local
// slot space and its (possibly multi-scalar) type.
type localSlot struct {
	typ  *types.Type
	base int
}

// funcEmitter lowers one function body to a flat Instr vector. It
// re-derives expression types as it walks (spec.md §4.2's checking has
// already run in internal/sema; this is a second, error-free pass that
// only needs types to pick slot widths and opcodes, matching the
// teacher's habit of keeping codegen a dumb, trusting consumer of an
// already-validated tree).
type funcEmitter struct {
	u        *sema.Universe
	cs       *symbols.ContractScope // nil for script functions
	funcIdx  map[string]int         // this contract's FuncOrder index, for CallLocal
	scopes   []map[string]localSlot
	nextSlot int
	code     []Instr
}

func newFuncEmitter(u *sema.Universe, cs *symbols.ContractScope, funcIdx map[string]int) *funcEmitter {
	return &funcEmitter{u: u, cs: cs, funcIdx: funcIdx, scopes: []map[string]localSlot{{}}}
}

func (e *funcEmitter) emit(i Instr)    { e.code = append(e.code, i) }
func (e *funcEmitter) pushScope()      { e.scopes = append(e.scopes, map[string]localSlot{}) }
func (e *funcEmitter) popScope()       { e.scopes = e.scopes[:len(e.scopes)-1] }

func (e *funcEmitter) define(name string, t *types.Type) localSlot {
	slot := localSlot{typ: t, base: e.nextSlot}
	e.nextSlot += t.ScalarSlotCount()
	e.scopes[len(e.scopes)-1][name] = slot
	return slot
}

func (e *funcEmitter) lookupLocal(name string) (localSlot, bool) {
	for i := len(e.scopes) - 1; i >= 0; i-- {
		if s, ok := e.scopes[i][name]; ok {
			return s, true
		}
	}
	return localSlot{}, false
}

// newTemp allocates a hidden local slot with no source name, used to
// cache a variable array index so a multi-slot element only evaluates
// its index expression once (spec.md §4.5 leaves this to the
// implementation; recomputing a side-effecting index per slot would be
// wrong, so it is cached instead).
func (e *funcEmitter) newTemp(t *types.Type) int {
	base := e.nextSlot
	e.nextSlot += t.ScalarSlotCount()
	return base
}

// typeOf mirrors internal/sema's expression typing, trusting the input
// already passed semantic analysis.
func (e *funcEmitter) typeOf(expr ast.Expr) *types.Type {
	switch ex := expr.(type) {
	case *ast.LiteralExpr:
		if ex.Kind == ast.HexBytesLiteral {
			return types.ByteVec
		}
		if ex.Kind == ast.AddressLiteral {
			return types.Address
		}
		if ex.Suffix == "i" {
			return types.I256
		}
		return types.U256
	case *ast.BoolLiteralExpr:
		return types.Bool
	case *ast.IdentExpr:
		if e.cs != nil {
			for key, v := range e.cs.EnumVariant {
				if strings.HasSuffix(key, "."+ex.Name) {
					return v.VarType
				}
			}
		}
		if slot, ok := e.lookupLocal(ex.Name); ok {
			return slot.typ
		}
		if e.cs != nil {
			if f := e.cs.LookupField(ex.Name); f != nil {
				return f.VarType
			}
			if c, ok := e.cs.Consts[ex.Name]; ok {
				return c.VarType
			}
		}
		return types.Invalid
	case *ast.ParenExpr:
		return e.typeOf(ex.Inner)
	case *ast.UnaryExpr:
		return e.typeOf(ex.Operand)
	case *ast.BinaryExpr:
		if comparisonOps[ex.Op] || logicalOps[ex.Op] {
			return types.Bool
		}
		return e.typeOf(ex.Left)
	case *ast.TupleExpr:
		elems := make([]*types.Type, len(ex.Elements))
		for i, el := range ex.Elements {
			elems[i] = e.typeOf(el)
		}
		return types.Tuple(elems...)
	case *ast.ArrayLiteralExpr:
		return types.Array(e.typeOf(ex.Elements[0]), len(ex.Elements))
	case *ast.ArrayRepeatExpr:
		n, _ := e.foldConstInt(ex.Size)
		return types.Array(e.typeOf(ex.Elem), n)
	case *ast.IndexExpr:
		t := e.typeOf(ex.Target)
		if t.Kind == types.KindArray {
			return t.Elem
		}
		return types.Invalid
	case *ast.IfExpr:
		return e.typeOf(ex.Then)
	case *ast.CallExpr:
		return e.calleeReturnType(ex.Callee)
	case *ast.ApprovalCallExpr:
		return e.calleeReturnType(ex.Callee)
	case *ast.CalleePath:
		if e.cs != nil && len(ex.Parts) == 2 {
			if v, ok := e.cs.EnumVariant[ex.Parts[0].Value+"."+ex.Parts[1].Value]; ok {
				return v.VarType
			}
		}
		return types.Invalid
	default:
		return types.Invalid
	}
}

func (e *funcEmitter) calleeReturnType(callee ast.Expr) *types.Type {
	switch cal := callee.(type) {
	case *ast.IdentExpr:
		if isBangName(cal.Name) {
			if b, ok := stdlib.Lookup(cal.Name); ok {
				return b.Return
			}
			return types.Invalid
		}
		if e.cs != nil {
			if fn, ok := e.cs.Functions[cal.Name]; ok {
				return e.fnReturnType(fn)
			}
		}
		return types.Invalid
	case *ast.CalleePath:
		head := cal.Parts[0].Value
		method := cal.Parts[len(cal.Parts)-1].Value
		if isBangName(method) {
			return types.ByteVec
		}
		if slot, ok := e.lookupLocal(head); ok && slot.typ.Kind == types.KindContractRef {
			if target, ok := e.u.Contracts[slot.typ.ContractName]; ok {
				if fn, ok := target.Functions[method]; ok {
					return e.fnReturnType(fn)
				}
			}
		}
		if e.cs != nil {
			if f := e.cs.LookupField(head); f != nil && f.VarType.Kind == types.KindContractRef {
				if target, ok := e.u.Contracts[f.VarType.ContractName]; ok {
					if fn, ok := target.Functions[method]; ok {
						return e.fnReturnType(fn)
					}
				}
			}
		}
		return types.Invalid
	default:
		return types.Invalid
	}
}

func (e *funcEmitter) fnReturnType(fn *ast.Function) *types.Type {
	if fn.ReturnType == nil {
		return types.Void
	}
	return e.u.ResolveType(fn.ReturnType)
}

func isBangName(name string) bool { return len(name) > 0 && name[len(name)-1] == '!' }

var comparisonOps = map[string]bool{"==": true, "!=": true, "<": true, "<=": true, ">": true, ">=": true}
var logicalOps = map[string]bool{"&&": true, "||": true}

// foldConstInt constant-folds a literal/const-reference/binary-op
// expression to an int, for array sizes and constant indices (spec.md
// §4.4). Mirrors internal/sema's folding since codegen runs on an
// already-validated tree and cannot call back into the checker.
func (e *funcEmitter) foldConstInt(expr ast.Expr) (int, bool) {
	switch ex := expr.(type) {
	case *ast.LiteralExpr:
		if ex.Kind != ast.IntLiteral || ex.Suffix == "i" {
			return 0, false
		}
		v, err := types.ParseU256Decimal(ex.Value)
		if err != nil {
			return 0, false
		}
		return int(v.Uint64()), true
	case *ast.ParenExpr:
		return e.foldConstInt(ex.Inner)
	case *ast.IdentExpr:
		if e.cs == nil {
			return 0, false
		}
		sym, ok := e.cs.Consts[ex.Name]
		if !ok || !sym.Folded {
			return 0, false
		}
		return sym.FoldedValue, true
	case *ast.BinaryExpr:
		a, aok := e.foldConstInt(ex.Left)
		b, bok := e.foldConstInt(ex.Right)
		if !aok || !bok {
			return 0, false
		}
		r, ok := types.FoldBinaryU256(ex.Op, uint256.NewInt(uint64(a)), uint256.NewInt(uint64(b)))
		if !ok {
			return 0, false
		}
		return int(r.Uint64()), true
	default:
		return 0, false
	}
}
