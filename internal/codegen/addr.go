package codegen

import (
	"strconv"

	"github.com/ralph-lang/ralphc/internal/ast"
	"github.com/ralph-lang/ralphc/internal/types"
)

// addrRegion is where an addressable lvalue (a local, an immutable
// field, or a mutable field) lives (spec.md §4.5).
type addrRegion int

const (
	regionLocal addrRegion = iota
	regionImmField
	regionMutField
)

// address is an lvalue mid-resolution: a fixed region/base plus however
// much of the index chain has folded to a compile-time constant versus
// needing a runtime offset (spec.md §4.4's constant folding applies only
// to the foldable prefix of a chain like `grid[i][2]`).
type address struct {
	region      addrRegion
	regionBase  int
	constOffset int
	hasRuntime  bool
	elemType    *types.Type
}

// resolvedAddr is an address with its runtime component (if any) already
// evaluated into a cached local slot, ready for repeated use by
// emitLoadAddress/emitStoreAddress.
type resolvedAddr struct {
	region      addrRegion
	regionBase  int
	constOffset int
	hasRuntime  bool
	offsetTemp  int
	elemType    *types.Type
}

func loadOpFor(r addrRegion) Op {
	switch r {
	case regionImmField:
		return OpLoadImmField
	case regionMutField:
		return OpLoadMutField
	default:
		return OpLoadLocal
	}
}

func storeOpFor(r addrRegion) Op {
	if r == regionMutField {
		return OpStoreMutField
	}
	return OpStoreLocal
}

func loadByIndexOpFor(r addrRegion) Op {
	switch r {
	case regionImmField:
		return OpLoadImmFieldByIndex
	case regionMutField:
		return OpLoadMutFieldByIndex
	default:
		return OpLoadLocalByIndex
	}
}

func storeByIndexOpFor(r addrRegion) Op {
	if r == regionMutField {
		return OpStoreMutFieldByIndex
	}
	return OpStoreLocalByIndex
}

// resolveAddress walks an lvalue expression (an identifier, or a chain
// of index expressions over one), folding constant indices into
// constOffset and emitting bounds-check-and-combine code for the rest
// (spec.md §4.5: "Dup; U256Const(size); U256Lt; Assert" per variable
// index, scaled by the element stride and summed on the stack as each
// nesting level is resolved).
func (e *funcEmitter) resolveAddress(expr ast.Expr) (address, bool) {
	switch ex := expr.(type) {
	case *ast.ParenExpr:
		return e.resolveAddress(ex.Inner)

	case *ast.IdentExpr:
		if slot, ok := e.lookupLocal(ex.Name); ok {
			return address{region: regionLocal, regionBase: slot.base, elemType: slot.typ}, true
		}
		if e.cs != nil {
			if f := e.cs.LookupField(ex.Name); f != nil {
				region := regionImmField
				if f.Mut {
					region = regionMutField
				}
				return address{region: region, regionBase: f.FieldIndex, elemType: f.VarType}, true
			}
		}
		return address{}, false

	case *ast.IndexExpr:
		base, ok := e.resolveAddress(ex.Target)
		if !ok || base.elemType == nil || base.elemType.Kind != types.KindArray {
			return address{}, false
		}
		stride := base.elemType.Elem.ScalarSlotCount()

		if n, ok2 := e.foldConstInt(ex.Index); ok2 {
			base.constOffset += n * stride
			base.elemType = base.elemType.Elem
			return base, true
		}

		e.emitExpr(ex.Index)
		e.emit(Instr{Op: OpDup})
		e.emit(Instr{Op: OpU256Const, Number: strconv.Itoa(base.elemType.Size)})
		e.emit(Instr{Op: OpLt})
		e.emit(Instr{Op: OpAssert})
		if stride != 1 {
			e.emit(Instr{Op: OpU256Const, Number: strconv.Itoa(stride)})
			e.emit(Instr{Op: OpMul})
		}
		if base.hasRuntime {
			e.emit(Instr{Op: OpAdd})
		} else if base.constOffset != 0 {
			e.emit(Instr{Op: OpU256Const, Number: strconv.Itoa(base.constOffset)})
			e.emit(Instr{Op: OpAdd})
			base.constOffset = 0
		}
		base.hasRuntime = true
		base.elemType = base.elemType.Elem
		return base, true

	default:
		// Any other array-valued base (array literal, call result,
		// if-expression, ...) is not itself addressable, so it is
		// evaluated once and spilled into a fresh synthesized local
		// before indexing (spec.md §4.5: sub-expressions with side
		// effects must be evaluated exactly once).
		t := e.typeOf(expr)
		if t == nil || t.Kind != types.KindArray {
			return address{}, false
		}
		base := e.newTemp(t)
		e.emitExpr(expr)
		for k := t.ScalarSlotCount() - 1; k >= 0; k-- {
			e.emit(Instr{Op: OpStoreLocal, Index: base + k})
		}
		return address{region: regionLocal, regionBase: base, elemType: t}, true
	}
}

// materialize finishes a resolved address: if it has a runtime
// component it is cached into a hidden local (so it can be reused once
// per scalar slot of a multi-slot element without recomputing it).
func (e *funcEmitter) materialize(addr address) resolvedAddr {
	r := resolvedAddr{region: addr.region, regionBase: addr.regionBase, constOffset: addr.constOffset, hasRuntime: addr.hasRuntime, elemType: addr.elemType}
	if addr.hasRuntime {
		if addr.constOffset != 0 {
			e.emit(Instr{Op: OpU256Const, Number: strconv.Itoa(addr.constOffset)})
			e.emit(Instr{Op: OpAdd})
		}
		r.offsetTemp = e.newTemp(types.U256)
		e.emit(Instr{Op: OpStoreLocal, Index: r.offsetTemp})
	}
	return r
}

// emitLoadAddress pushes every scalar slot of the addressed value, in
// row-major order.
func (e *funcEmitter) emitLoadAddress(r resolvedAddr) {
	width := r.elemType.ScalarSlotCount()
	for k := 0; k < width; k++ {
		if r.hasRuntime {
			e.emit(Instr{Op: OpLoadLocal, Index: r.offsetTemp})
			if k > 0 {
				e.emit(Instr{Op: OpU256Const, Number: strconv.Itoa(k)})
				e.emit(Instr{Op: OpAdd})
			}
			e.emit(Instr{Op: loadByIndexOpFor(r.region), Index: r.regionBase})
		} else {
			e.emit(Instr{Op: loadOpFor(r.region), Index: r.regionBase + r.constOffset + k})
		}
	}
}

// emitStoreAddress pops the value already pushed by the caller (its
// scalar slots, in row-major order, last slot on top) and writes it to
// the addressed location. A runtime-indexed store always round-trips
// the value through a hidden temp first, trading a few extra
// instructions for one store path instead of one per element width.
func (e *funcEmitter) emitStoreAddress(r resolvedAddr) {
	width := r.elemType.ScalarSlotCount()
	if !r.hasRuntime {
		for k := width - 1; k >= 0; k-- {
			e.emit(Instr{Op: storeOpFor(r.region), Index: r.regionBase + r.constOffset + k})
		}
		return
	}
	valueTemp := e.newTemp(r.elemType)
	for k := width - 1; k >= 0; k-- {
		e.emit(Instr{Op: OpStoreLocal, Index: valueTemp + k})
	}
	for k := 0; k < width; k++ {
		e.emit(Instr{Op: OpLoadLocal, Index: r.offsetTemp})
		if k > 0 {
			e.emit(Instr{Op: OpU256Const, Number: strconv.Itoa(k)})
			e.emit(Instr{Op: OpAdd})
		}
		e.emit(Instr{Op: OpLoadLocal, Index: valueTemp + k})
		e.emit(Instr{Op: storeByIndexOpFor(r.region), Index: r.regionBase})
	}
}
