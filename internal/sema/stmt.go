package sema

import (
	"strings"

	"github.com/ralph-lang/ralphc/internal/ast"
	"github.com/ralph-lang/ralphc/internal/errors"
	"github.com/ralph-lang/ralphc/internal/symbols"
	"github.com/ralph-lang/ralphc/internal/types"
)

// checkBlock type-checks every statement in a block in its own nested
// scope and reports whether the block always terminates (returns or
// panics on every path) — spec.md §4.2 "a function with a non-() return
// type must terminate on every path".
func (c *Checker) checkBlock(ctx *funcCtx, block *ast.FunctionBlock) bool {
	if block == nil {
		return false
	}
	inner := *ctx
	inner.scope = symbols.NewScope(ctx.scope)
	terminates := false
	for i, stmt := range block.Stmts {
		if terminates {
			c.warnings = append(c.warnings, errors.WarnAt(c.scopeName(&inner), stmt.Pos(), "unreachable statement"))
		}
		if c.checkStmt(&inner, stmt) {
			terminates = true
		}
		_ = i
	}
	c.checkUnusedLocals(&inner)
	ctx.usedPreapproved = ctx.usedPreapproved || inner.usedPreapproved
	ctx.usedContractAsset = ctx.usedContractAsset || inner.usedContractAsset
	ctx.wroteField = ctx.wroteField || inner.wroteField
	return terminates
}

func (c *Checker) scopeName(ctx *funcCtx) string {
	if ctx.self == "" {
		return ctx.fn.Name.Value
	}
	return ctx.self + "." + ctx.fn.Name.Value
}

func (c *Checker) checkUnusedLocals(ctx *funcCtx) {
	for _, sym := range ctx.scope.Locals() {
		if sym.Kind != symbols.KindLocal || sym.Unused || sym.Name == "_" {
			continue
		}
		if !sym.Used {
			c.warnings = append(c.warnings, errors.WarnAt(c.scopeName(ctx), sym.Position, "unused local %q", sym.Name))
		}
		if sym.Mut && !sym.Assigned {
			c.warnings = append(c.warnings, errors.WarnAt(c.scopeName(ctx), sym.Position, "local %q declared mut but never reassigned", sym.Name))
		}
	}
}

// checkStmt returns true when the statement always terminates control
// flow (return/panic), used by checkBlock's return-path analysis and
// if-expression-as-statement's branch merging.
func (c *Checker) checkStmt(ctx *funcCtx, stmt ast.Stmt) bool {
	switch s := stmt.(type) {
	case *ast.BadStmt:
		return false

	case *ast.LetStmt:
		c.checkLetStmt(ctx, s)
		return false

	case *ast.AssignStmt:
		c.checkAssignStmt(ctx, s)
		return false

	case *ast.IfStmt:
		return c.checkIfStmt(ctx, s)

	case *ast.WhileStmt:
		condT := c.exprType(ctx, s.Cond)
		if condT.Kind != types.KindBool {
			c.errf(errors.At(errors.Type, s.Cond.Pos(), "while condition must be Bool, got %s", condT))
		}
		c.checkBlock(ctx, s.Body)
		return false

	case *ast.ForStmt:
		return c.checkForStmt(ctx, s)

	case *ast.ReturnStmt:
		c.checkReturnStmt(ctx, s)
		return true

	case *ast.EmitStmt:
		c.checkEmitStmt(ctx, s)
		return false

	case *ast.PanicStmt:
		if s.Code != nil {
			t := c.exprType(ctx, s.Code)
			if t.Kind != types.KindU256 && t.Kind != types.KindInvalid {
				c.errf(errors.At(errors.Type, s.Code.Pos(), "panic! code must be U256, got %s", t))
			}
		}
		return true

	case *ast.AssertStmt:
		condT := c.exprType(ctx, s.Cond)
		if condT.Kind != types.KindBool {
			c.errf(errors.At(errors.Type, s.Cond.Pos(), "assert! condition must be Bool, got %s", condT))
		}
		if s.Code != nil {
			c.exprType(ctx, s.Code)
		}
		return false

	case *ast.ExprStmt:
		c.exprType(ctx, s.Expr)
		return false

	default:
		c.errf(errors.At(errors.Internal, stmt.Pos(), "unhandled statement kind in type checker"))
		return false
	}
}

// checkLetStmt handles both single-target and tuple-destructuring lets
// (spec.md §3/§4.5), defining one local Symbol per non-underscore target.
func (c *Checker) checkLetStmt(ctx *funcCtx, s *ast.LetStmt) {
	valueT := c.exprType(ctx, s.Expr)

	if len(s.Names) == 1 {
		want := valueT
		if s.VarType != nil {
			want = ctx.u.ResolveType(s.VarType)
			if !want.Equal(valueT) && valueT.Kind != types.KindInvalid {
				c.errf(errors.At(errors.Type, s.Expr.Pos(), "let binding type mismatch: declared %s, got %s", want, valueT))
			}
		}
		c.defineLocal(ctx, s.Names[0], s.Muts[0], s.Underscore[0], want, s.Position)
		return
	}

	var elemTypes []*types.Type
	if valueT.Kind == types.KindTuple {
		elemTypes = valueT.Elements
	}
	if len(elemTypes) != len(s.Names) {
		c.errf(errors.At(errors.Type, s.Position, "let tuple pattern has %d target(s) but the expression yields %d value(s)", len(s.Names), len(elemTypes)))
	}
	for i, name := range s.Names {
		var t *types.Type = types.Invalid
		if i < len(elemTypes) {
			t = elemTypes[i]
		}
		c.defineLocal(ctx, name, s.Muts[i], s.Underscore[i], t, s.Position)
	}
}

func (c *Checker) defineLocal(ctx *funcCtx, name *ast.Ident, mut, underscore bool, t *types.Type, pos ast.Position) {
	if underscore {
		return
	}
	sym := &symbols.Symbol{
		Name:     name.Value,
		Kind:     symbols.KindLocal,
		VarType:  t,
		Mut:      mut,
		Position: name.Position,
		Assigned: false, // set by checkAssignTarget on a later reassignment
	}
	ctx.scope.Define(sym)
}

// checkAssignStmt validates mutability and type agreement for `target
// op= value;`, including the tuple-assignment multi-target form (spec.md
// §4.5: "Tuple assignment a, b = call() must match arities").
func (c *Checker) checkAssignStmt(ctx *funcCtx, s *ast.AssignStmt) {
	valueT := c.exprType(ctx, s.Value)

	if len(s.Targets) == 1 {
		c.checkAssignTarget(ctx, s.Targets[0], s.Op, valueT)
		return
	}

	var elemTypes []*types.Type
	if valueT.Kind == types.KindTuple {
		elemTypes = valueT.Elements
	}
	if s.Op != ast.ASSIGN {
		c.errf(errors.At(errors.Type, s.Position, "compound assignment is not valid for a tuple target"))
	}
	if len(elemTypes) != len(s.Targets) {
		c.errf(errors.At(errors.Type, s.Position, "assignment has %d target(s) but the expression yields %d value(s)", len(s.Targets), len(elemTypes)))
	}
	for i, tgt := range s.Targets {
		var t *types.Type = types.Invalid
		if i < len(elemTypes) {
			t = elemTypes[i]
		}
		c.checkAssignTarget(ctx, tgt, ast.ASSIGN, t)
	}
}

func (c *Checker) checkAssignTarget(ctx *funcCtx, target ast.Expr, op ast.AssignOp, valueT *types.Type) {
	if id, ok := target.(*ast.IdentExpr); ok && id.Name == "_" {
		return
	}

	targetT := c.exprType(ctx, target)
	if op != ast.ASSIGN && targetT.Kind != types.KindInvalid && !targetT.IsNumeric() {
		c.errf(errors.At(errors.Type, target.Pos(), "compound assignment requires a numeric target, got %s", targetT))
	}
	if targetT.Kind != types.KindInvalid && valueT.Kind != types.KindInvalid && !targetT.Equal(valueT) {
		c.errf(errors.At(errors.Type, target.Pos(), "assignment type mismatch: target is %s, value is %s", targetT, valueT))
	}

	sym := c.assignTargetSymbol(ctx, target)
	if sym == nil {
		return
	}
	if !sym.Mut {
		kind := "field"
		if sym.Kind == symbols.KindLocal || sym.Kind == symbols.KindParam {
			kind = "local"
		}
		c.errf(errors.At(errors.Mutability, target.Pos(), "cannot assign to non-mut %s %q", kind, sym.Name))
		return
	}
	sym.Assigned = true
	if sym.Kind == symbols.KindField {
		ctx.wroteField = true
		if ctx.fn != nil && ctx.fn.Name != nil && !ctx.fn.Using.UpdateFields {
			c.warnings = append(c.warnings, errors.WarnAt(ctx.self+"."+ctx.fn.Name.Value, target.Pos(), "assigning to field %q without @using(updateFields = true)", sym.Name))
		}
	}
}

// assignTargetSymbol walks through index/field-access wrappers to find
// the root Symbol an assignment target ultimately writes through.
func (c *Checker) assignTargetSymbol(ctx *funcCtx, target ast.Expr) *symbols.Symbol {
	switch t := target.(type) {
	case *ast.IdentExpr:
		return ctx.lookupName(t.Name)
	case *ast.IndexExpr:
		return c.assignTargetSymbol(ctx, t.Target)
	case *ast.ParenExpr:
		return c.assignTargetSymbol(ctx, t.Inner)
	default:
		return nil
	}
}

func (c *Checker) checkIfStmt(ctx *funcCtx, s *ast.IfStmt) bool {
	condT := c.exprType(ctx, s.Cond)
	if condT.Kind != types.KindBool {
		c.errf(errors.At(errors.Type, s.Cond.Pos(), "if condition must be Bool, got %s", condT))
	}
	thenTerm := c.checkBlock(ctx, s.Then)

	var elseTerm bool
	hasElse := s.ElseBlock != nil || s.ElseIf != nil
	switch {
	case s.ElseIf != nil:
		elseTerm = c.checkIfStmt(ctx, s.ElseIf)
	case s.ElseBlock != nil:
		elseTerm = c.checkBlock(ctx, s.ElseBlock)
	}
	return hasElse && thenTerm && elseTerm
}

func (c *Checker) checkForStmt(ctx *funcCtx, s *ast.ForStmt) bool {
	inner := *ctx
	inner.scope = symbols.NewScope(ctx.scope)
	if s.Init != nil {
		c.checkStmt(&inner, s.Init)
	}
	condT := c.exprType(&inner, s.Cond)
	if condT.Kind != types.KindBool {
		c.errf(errors.At(errors.Type, s.Cond.Pos(), "for condition must be Bool, got %s", condT))
	}
	c.checkBlock(&inner, s.Body)
	if s.Update != nil {
		c.checkStmt(&inner, s.Update)
	}
	c.checkUnusedLocals(&inner)
	ctx.usedPreapproved = ctx.usedPreapproved || inner.usedPreapproved
	ctx.usedContractAsset = ctx.usedContractAsset || inner.usedContractAsset
	ctx.wroteField = ctx.wroteField || inner.wroteField
	return false
}

func (c *Checker) checkReturnStmt(ctx *funcCtx, s *ast.ReturnStmt) {
	want := c.resolveReturnType(ctx.u, ctx.fn)
	got := make([]*types.Type, len(s.Values))
	for i, v := range s.Values {
		got[i] = c.exprType(ctx, v)
	}
	gotT := types.Tuple(got...)
	if len(got) == 0 {
		gotT = types.Void
	}
	if !want.Equal(gotT) && gotT.Kind != types.KindInvalid {
		c.errf(errors.At(errors.Return, s.Position, "Invalid return types: expected %s, got %s", want, gotT))
	}
}

func (c *Checker) checkEmitStmt(ctx *funcCtx, s *ast.EmitStmt) {
	if ctx.contract == nil {
		c.errf(errors.At(errors.Name, s.Position, "emit is only valid inside a contract"))
		return
	}
	ev, ok := ctx.contract.Events[s.Event.Value]
	if ok {
		c.currentEventsUsed[s.Event.Value] = true
	}
	if !ok {
		c.errf(errors.At(errors.Name, s.Position, "undefined event %q", s.Event.Value))
		for _, a := range s.Args {
			c.exprType(ctx, a)
		}
		return
	}
	got := make([]*types.Type, len(s.Args))
	for i, a := range s.Args {
		got[i] = c.exprType(ctx, a)
	}
	mismatch := len(ev.FieldTypes) != len(got)
	want := make([]*types.Type, len(ev.FieldTypes))
	for i, ft := range ev.FieldTypes {
		want[i] = ctx.u.ResolveType(ft)
		if !mismatch && !want[i].Equal(got[i]) && got[i].Kind != types.KindInvalid {
			mismatch = true
		}
	}
	if mismatch {
		c.errf(errors.At(errors.Type, s.Position, "Invalid args type %s for event %s(%s)", typeList(got), s.Event.Value, joinTypes(want)))
	}
}

func typeList(ts []*types.Type) string {
	return "List(" + joinTypes(ts) + ")"
}

func joinTypes(ts []*types.Type) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = t.String()
	}
	return strings.Join(parts, ", ")
}
