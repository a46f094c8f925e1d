package codegen

import (
	"github.com/ralph-lang/ralphc/internal/ast"
	"github.com/ralph-lang/ralphc/internal/types"
)

// compoundOps maps a compound assignment operator to the binary op it
// folds into (spec.md §4.2: `x += e` reads x, combines, writes back).
var compoundOps = map[ast.AssignOp]Op{
	ast.PLUS_ASSIGN: OpAdd, ast.MINUS_ASSIGN: OpSub, ast.STAR_ASSIGN: OpMul,
	ast.SLASH_ASSIGN: OpDiv, ast.PERCENT_ASSIGN: OpMod,
}

func (e *funcEmitter) emitBlock(b *ast.FunctionBlock) {
	e.pushScope()
	for _, s := range b.Stmts {
		e.emitStmt(s)
	}
	e.popScope()
}

func (e *funcEmitter) emitStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.LetStmt:
		e.emitLetStmt(s)
	case *ast.AssignStmt:
		e.emitAssignStmt(s)
	case *ast.IfStmt:
		e.emitIfStmt(s)
	case *ast.WhileStmt:
		e.emitWhileStmt(s)
	case *ast.ForStmt:
		e.emitForStmt(s)
	case *ast.ReturnStmt:
		for _, v := range s.Values {
			e.emitExpr(v)
		}
		e.emit(Instr{Op: OpReturn})
	case *ast.EmitStmt:
		for _, a := range s.Args {
			e.emitExpr(a)
		}
		e.emit(Instr{Op: OpEmit, Name: s.Event.Value, Index: len(s.Args)})
	case *ast.PanicStmt:
		if s.Code != nil {
			e.emitExpr(s.Code)
		} else {
			e.emit(Instr{Op: OpU256Const0})
		}
		e.emit(Instr{Op: OpPanic})
	case *ast.AssertStmt:
		e.emitExpr(s.Cond)
		if s.Code != nil {
			e.emitExpr(s.Code)
			e.emit(Instr{Op: OpAssertWithErrorCode})
		} else {
			e.emit(Instr{Op: OpAssert})
		}
	case *ast.ExprStmt:
		e.emitExpr(s.Expr)
		for k := 0; k < e.typeOf(s.Expr).ScalarSlotCount(); k++ {
			e.emit(Instr{Op: OpPop})
		}
	}
}

// emitLetStmt defines the named local(s) before emitting the initializer
// (sema has already rejected any reference to them from inside it, since
// Ralph disallows self-reference in `let`), then stores the evaluated
// scalars back into them in reverse, matching the stack's last-pushed
// order to the last name (spec.md §4.2 tuple destructuring).
func (e *funcEmitter) emitLetStmt(s *ast.LetStmt) {
	if len(s.Names) == 1 {
		t := e.typeOf(s.Expr)
		if s.Underscore[0] {
			e.emitExpr(s.Expr)
			for k := 0; k < t.ScalarSlotCount(); k++ {
				e.emit(Instr{Op: OpPop})
			}
			return
		}
		slot := e.define(s.Names[0].Value, t)
		e.emitExpr(s.Expr)
		for k := t.ScalarSlotCount() - 1; k >= 0; k-- {
			e.emit(Instr{Op: OpStoreLocal, Index: slot.base + k})
		}
		return
	}

	t := e.typeOf(s.Expr)
	slots := make([]localSlot, len(s.Names))
	for i, nm := range s.Names {
		et := types.Invalid
		if t.Kind == types.KindTuple && i < len(t.Elements) {
			et = t.Elements[i]
		}
		if s.Underscore[i] {
			slots[i] = localSlot{typ: et, base: -1}
			continue
		}
		slots[i] = e.define(nm.Value, et)
	}
	e.emitExpr(s.Expr)
	for i := len(slots) - 1; i >= 0; i-- {
		w := slots[i].typ.ScalarSlotCount()
		if slots[i].base == -1 {
			for k := 0; k < w; k++ {
				e.emit(Instr{Op: OpPop})
			}
			continue
		}
		for k := w - 1; k >= 0; k-- {
			e.emit(Instr{Op: OpStoreLocal, Index: slots[i].base + k})
		}
	}
}

// emitAssignStmt resolves and materializes every target's address
// before evaluating the right-hand side, so any runtime index
// computation a target needs doesn't interleave with the value already
// sitting on the stack (spec.md §4.5).
func (e *funcEmitter) emitAssignStmt(s *ast.AssignStmt) {
	addrs := make([]resolvedAddr, len(s.Targets))
	for i, t := range s.Targets {
		a, ok := e.resolveAddress(t)
		if !ok {
			continue
		}
		addrs[i] = e.materialize(a)
	}

	if s.Op != ast.ASSIGN {
		r := addrs[0]
		e.emitLoadAddress(r)
		e.emitExpr(s.Value)
		if op, ok := compoundOps[s.Op]; ok {
			e.emit(Instr{Op: op})
		}
		e.emitStoreAddress(r)
		return
	}

	e.emitExpr(s.Value)
	for i := len(addrs) - 1; i >= 0; i-- {
		e.emitStoreAddress(addrs[i])
	}
}

func (e *funcEmitter) emitIfStmt(s *ast.IfStmt) {
	e.emitExpr(s.Cond)
	elseJump := e.reserve()
	e.emitBlock(s.Then)

	if s.ElseBlock == nil && s.ElseIf == nil {
		e.patchJump(elseJump, OpIfFalse, len(e.code))
		return
	}
	endJump := e.reserve()
	e.patchJump(elseJump, OpIfFalse, len(e.code))
	if s.ElseIf != nil {
		e.emitIfStmt(s.ElseIf)
	} else {
		e.emitBlock(s.ElseBlock)
	}
	e.patchJump(endJump, OpJump, len(e.code))
}

func (e *funcEmitter) emitWhileStmt(s *ast.WhileStmt) {
	loopStart := len(e.code)
	e.emitExpr(s.Cond)
	exitJump := e.reserve()
	e.emitBlock(s.Body)
	e.emit(Instr{Op: OpJump, Offset: loopStart - (len(e.code) + 1)})
	e.patchJump(exitJump, OpIfFalse, len(e.code))
}

func (e *funcEmitter) emitForStmt(s *ast.ForStmt) {
	e.pushScope()
	if s.Init != nil {
		e.emitStmt(s.Init)
	}
	loopStart := len(e.code)
	if s.Cond != nil {
		e.emitExpr(s.Cond)
	} else {
		e.emit(Instr{Op: OpBoolConst, Bool: true})
	}
	exitJump := e.reserve()
	e.emitBlock(s.Body)
	if s.Update != nil {
		e.emitStmt(s.Update)
	}
	e.emit(Instr{Op: OpJump, Offset: loopStart - (len(e.code) + 1)})
	e.patchJump(exitJump, OpIfFalse, len(e.code))
	e.popScope()
}
