package sema

import (
	"github.com/ralph-lang/ralphc/internal/ast"
	"github.com/ralph-lang/ralphc/internal/errors"
	"github.com/ralph-lang/ralphc/internal/symbols"
	"github.com/ralph-lang/ralphc/internal/types"
)

// funcCtx carries the per-function state the expression/statement checker
// needs: the enclosing contract (nil for a script function), the current
// lexical scope, and the function being checked (for @using-driven asset
// checks, spec.md §4.4).
type funcCtx struct {
	u        *Universe
	contract *symbols.ContractScope
	self     string // contract name, "" for a script
	fn       *ast.Function
	scope    *symbols.Scope

	// Actual-use tracking for spec.md §4.4's asset-annotation over-claim
	// rule: an @using flag set to true with no matching use is an error,
	// mirroring the under-claim checks in internal/sema/call.go.
	usedPreapproved   bool
	usedContractAsset bool
	wroteField        bool
}

// lookupName resolves a bare identifier against locals, then contract
// fields/consts (spec.md §4.2: "fields and locals share one namespace,
// with locals shadowing fields").
func (c *funcCtx) lookupName(name string) *symbols.Symbol {
	if sym := c.scope.Lookup(name); sym != nil {
		return sym
	}
	if c.contract == nil {
		return nil
	}
	if sym := c.contract.LookupField(name); sym != nil {
		return sym
	}
	if sym, ok := c.contract.Consts[name]; ok {
		return sym
	}
	return nil
}

// exprType computes the static type of e, recording Used on every symbol
// it reads along the way, and appending a fatal error (returning
// types.Invalid) on any mismatch.
func (c *Checker) exprType(ctx *funcCtx, e ast.Expr) *types.Type {
	switch ex := e.(type) {
	case nil:
		return types.Void
	case *ast.BadExpr:
		return types.Invalid

	case *ast.LiteralExpr:
		return c.literalType(ex)
	case *ast.BoolLiteralExpr:
		return types.Bool

	case *ast.IdentExpr:
		return c.identType(ctx, ex)

	case *ast.ParenExpr:
		return c.exprType(ctx, ex.Inner)

	case *ast.UnaryExpr:
		return c.unaryType(ctx, ex)

	case *ast.BinaryExpr:
		return c.binaryType(ctx, ex)

	case *ast.TupleExpr:
		elems := make([]*types.Type, len(ex.Elements))
		for i, el := range ex.Elements {
			elems[i] = c.exprType(ctx, el)
		}
		return types.Tuple(elems...)

	case *ast.ArrayLiteralExpr:
		return c.arrayLiteralType(ctx, ex)

	case *ast.ArrayRepeatExpr:
		return c.arrayRepeatType(ctx, ex)

	case *ast.IndexExpr:
		return c.indexType(ctx, ex)

	case *ast.FieldAccessExpr:
		return c.fieldAccessType(ctx, ex)

	case *ast.IfExpr:
		return c.ifExprType(ctx, ex)

	case *ast.CallExpr:
		return c.callType(ctx, ex.Callee, ex.Args, nil, ex.Position)

	case *ast.ApprovalCallExpr:
		return c.callType(ctx, ex.Callee, ex.Args, ex.Clauses, ex.Position)

	case *ast.CalleePath:
		return c.calleePathValueType(ctx, ex)

	default:
		c.errf(errors.At(errors.Internal, e.Pos(), "unhandled expression kind in type checker"))
		return types.Invalid
	}
}

func (c *Checker) literalType(e *ast.LiteralExpr) *types.Type {
	switch e.Kind {
	case ast.IntLiteral:
		if e.Suffix == "i" {
			_, err := types.ParseI256Decimal(e.Value, false)
			if err != nil {
				c.errf(errors.At(errors.Type, e.Position, "%s", err))
				return types.Invalid
			}
			return types.I256
		}
		_, err := types.ParseU256Decimal(e.Value)
		if err != nil {
			c.errf(errors.At(errors.Type, e.Position, "%s", err))
			return types.Invalid
		}
		return types.U256
	case ast.HexBytesLiteral:
		if _, err := types.ParseHexBytes(e.Value); err != nil {
			c.errf(errors.At(errors.Type, e.Position, "%s", err))
			return types.Invalid
		}
		return types.ByteVec
	case ast.AddressLiteral:
		return types.Address
	default:
		return types.Invalid
	}
}

func (c *Checker) identType(ctx *funcCtx, e *ast.IdentExpr) *types.Type {
	if ctx.contract != nil {
		if v, ok := ctx.contract.EnumVariant[ctx.self+"."+e.Name]; ok {
			v.Used = true
			return v.VarType
		}
	}
	sym := ctx.lookupName(e.Name)
	if sym == nil {
		c.errf(errors.At(errors.Name, e.Position, "undefined name %q", e.Name))
		return types.Invalid
	}
	sym.Used = true
	return sym.VarType
}

func (c *Checker) unaryType(ctx *funcCtx, e *ast.UnaryExpr) *types.Type {
	t := c.exprType(ctx, e.Operand)
	switch e.Op {
	case "-":
		if t.Kind != types.KindI256 && t.Kind != types.KindU256 {
			c.errf(errors.At(errors.Type, e.Position, "unary '-' requires a numeric operand, got %s", t))
			return types.Invalid
		}
		return t
	case "!":
		if t.Kind != types.KindBool {
			c.errf(errors.At(errors.Type, e.Position, "unary '!' requires a Bool operand, got %s", t))
			return types.Invalid
		}
		return types.Bool
	default:
		c.errf(errors.At(errors.Internal, e.Position, "unknown unary operator %q", e.Op))
		return types.Invalid
	}
}

var comparisonOps = map[string]bool{"==": true, "!=": true, "<": true, "<=": true, ">": true, ">=": true}
var logicalOps = map[string]bool{"&&": true, "||": true}
var bitwiseOps = map[string]bool{"&": true, "|": true, "^": true, "<<": true, ">>": true}

// binaryType enforces spec.md §4.2's strict-equality rule: arithmetic,
// comparison and bitwise operators require identical operand types, no
// widening.
func (c *Checker) binaryType(ctx *funcCtx, e *ast.BinaryExpr) *types.Type {
	lt := c.exprType(ctx, e.Left)
	rt := c.exprType(ctx, e.Right)
	if lt.Kind == types.KindInvalid || rt.Kind == types.KindInvalid {
		return types.Invalid
	}

	if logicalOps[e.Op] {
		if lt.Kind != types.KindBool || rt.Kind != types.KindBool {
			c.errf(errors.At(errors.Type, e.Position, "%q requires Bool operands, got %s and %s", e.Op, lt, rt))
			return types.Invalid
		}
		return types.Bool
	}

	// spec.md §4.2: `**` is the one arithmetic operator that isn't
	// same-type-only — it allows a U256 exponent over either an I256 or
	// U256 base; `|**|` (mod-exp) is U256-only on both operands.
	if e.Op == "**" {
		switch {
		case lt.Kind == types.KindI256 && rt.Kind == types.KindU256:
			return types.I256
		case lt.Kind == types.KindU256 && rt.Kind == types.KindU256:
			return types.U256
		default:
			c.errf(errors.At(errors.Type, e.Position, "operator %q requires (I256, U256) or (U256, U256) operands, got %s and %s", e.Op, lt, rt))
			return types.Invalid
		}
	}
	if e.Op == "|**|" {
		if lt.Kind != types.KindU256 || rt.Kind != types.KindU256 {
			c.errf(errors.At(errors.Type, e.Position, "operator %q requires U256 operands, got %s and %s", e.Op, lt, rt))
			return types.Invalid
		}
		return types.U256
	}

	if !lt.Equal(rt) {
		c.errf(errors.At(errors.Type, e.Position, "operator %q requires operands of the same type, got %s and %s", e.Op, lt, rt))
		return types.Invalid
	}

	switch {
	case comparisonOps[e.Op]:
		if e.Op == "==" || e.Op == "!=" {
			return types.Bool
		}
		if !lt.IsNumeric() {
			c.errf(errors.At(errors.Type, e.Position, "operator %q requires numeric operands, got %s", e.Op, lt))
			return types.Invalid
		}
		return types.Bool
	case bitwiseOps[e.Op]:
		if !lt.IsNumeric() {
			c.errf(errors.At(errors.Type, e.Position, "operator %q requires numeric operands, got %s", e.Op, lt))
			return types.Invalid
		}
		return lt
	default: // + - * / %
		if !lt.IsNumeric() {
			c.errf(errors.At(errors.Type, e.Position, "operator %q requires numeric operands, got %s", e.Op, lt))
			return types.Invalid
		}
		return lt
	}
}

func (c *Checker) arrayLiteralType(ctx *funcCtx, e *ast.ArrayLiteralExpr) *types.Type {
	if len(e.Elements) == 0 {
		c.errf(errors.At(errors.Type, e.Position, "array literal must have at least one element"))
		return types.Invalid
	}
	elemType := c.exprType(ctx, e.Elements[0])
	for _, el := range e.Elements[1:] {
		t := c.exprType(ctx, el)
		if !t.Equal(elemType) {
			c.errf(errors.At(errors.Type, el.Pos(), "array literal elements must share one type, got %s and %s", elemType, t))
			return types.Invalid
		}
	}
	return types.Array(elemType, len(e.Elements))
}

func (c *Checker) arrayRepeatType(ctx *funcCtx, e *ast.ArrayRepeatExpr) *types.Type {
	elemType := c.exprType(ctx, e.Elem)
	n, ok := c.foldConstIndex(ctx, e.Size)
	if !ok {
		c.errf(errors.At(errors.Type, e.Size.Pos(), "array repeat count must be a constant U256 expression"))
		return types.Invalid
	}
	return types.Array(elemType, n)
}

func (c *Checker) indexType(ctx *funcCtx, e *ast.IndexExpr) *types.Type {
	t := c.exprType(ctx, e.Target)
	if t.Kind != types.KindArray {
		c.errf(errors.At(errors.Type, e.Position, "cannot index into non-array type %s", t))
		return types.Invalid
	}
	idxT := c.exprType(ctx, e.Index)
	if idxT.Kind != types.KindU256 {
		c.errf(errors.At(errors.Type, e.Index.Pos(), "array index must be U256, got %s", idxT))
		return types.Invalid
	}
	if n, ok := c.foldConstIndex(ctx, e.Index); ok && (n < 0 || n >= t.Size) {
		c.errf(errors.At(errors.Type, e.Index.Pos(), "array index %d out of bounds for array of size %d", n, t.Size))
		return types.Invalid
	}
	return t.Elem
}

func (c *Checker) fieldAccessType(ctx *funcCtx, e *ast.FieldAccessExpr) *types.Type {
	t := c.exprType(ctx, e.Target)
	if t.Kind == types.KindTuple {
		// Ralph has no named tuple-field syntax in spec.md; this shape is
		// reserved for future use and is currently always an error.
		c.errf(errors.At(errors.Type, e.Position, "tuples have no named field %q", e.Field))
		return types.Invalid
	}
	c.errf(errors.At(errors.Type, e.Position, "type %s has no field %q", t, e.Field))
	return types.Invalid
}

func (c *Checker) ifExprType(ctx *funcCtx, e *ast.IfExpr) *types.Type {
	condT := c.exprType(ctx, e.Cond)
	if condT.Kind != types.KindBool {
		c.errf(errors.At(errors.Type, e.Cond.Pos(), "if-expression condition must be Bool, got %s", condT))
	}
	thenT := c.exprType(ctx, e.Then)
	if e.Else == nil {
		c.errf(errors.At(errors.Type, e.Position, "if-expression requires an else branch"))
		return types.Invalid
	}
	elseT := c.exprType(ctx, e.Else)
	if !thenT.Equal(elseT) {
		c.errf(errors.At(errors.Type, e.Position, "if-expression branches must have the same type, got %s and %s", thenT, elseT))
		return types.Invalid
	}
	return thenT
}

// calleePathValueType handles a CalleePath used as a value (not a call
// callee): only an `EnumName.Variant` reference is legal there.
func (c *Checker) calleePathValueType(ctx *funcCtx, e *ast.CalleePath) *types.Type {
	if len(e.Parts) != 2 || ctx.contract == nil {
		c.errf(errors.At(errors.Name, e.Position, "invalid qualified reference"))
		return types.Invalid
	}
	key := e.Parts[0].Value + "." + e.Parts[1].Value
	if v, ok := ctx.contract.EnumVariant[key]; ok {
		v.Used = true
		return v.VarType
	}
	c.errf(errors.At(errors.Name, e.Position, "undefined enum variant %q", key))
	return types.Invalid
}

// foldConstIndex constant-folds an expression over +-*/%&|^<<>> on U256
// literals (spec.md §4.4), as required for array sizes/indices.
func (c *Checker) foldConstIndex(ctx *funcCtx, e ast.Expr) (int, bool) {
	switch ex := e.(type) {
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
		return c.foldConstIndex(ctx, ex.Inner)
	case *ast.IdentExpr:
		if ctx.contract == nil {
			return 0, false
		}
		sym, ok := ctx.contract.Consts[ex.Name]
		if !ok || !sym.Folded {
			return 0, false
		}
		return sym.FoldedValue, true
	case *ast.BinaryExpr:
		a, aok := c.foldConstIndex(ctx, ex.Left)
		b, bok := c.foldConstIndex(ctx, ex.Right)
		if !aok || !bok {
			return 0, false
		}
		av, bv := uint256FromInt(a), uint256FromInt(b)
		r, ok := types.FoldBinaryU256(ex.Op, av, bv)
		if !ok {
			return 0, false
		}
		return int(r.Uint64()), true
	default:
		return 0, false
	}
}
