package codegen

import (
	"strings"

	"github.com/ralph-lang/ralphc/internal/ast"
	"github.com/ralph-lang/ralphc/internal/types"
)

// emitExpr lowers an expression, pushing every one of its scalar slots
// (row-major for arrays/tuples) onto the stack.
func (e *funcEmitter) emitExpr(expr ast.Expr) {
	switch ex := expr.(type) {
	case *ast.LiteralExpr:
		e.emitLiteral(ex)
	case *ast.BoolLiteralExpr:
		e.emit(Instr{Op: OpBoolConst, Bool: ex.Value})
	case *ast.ParenExpr:
		e.emitExpr(ex.Inner)
	case *ast.IdentExpr:
		e.emitIdent(ex)
	case *ast.UnaryExpr:
		e.emitUnary(ex)
	case *ast.BinaryExpr:
		e.emitBinary(ex)
	case *ast.TupleExpr:
		for _, el := range ex.Elements {
			e.emitExpr(el)
		}
	case *ast.ArrayLiteralExpr:
		for _, el := range ex.Elements {
			e.emitExpr(el)
		}
	case *ast.ArrayRepeatExpr:
		n, _ := e.foldConstInt(ex.Size)
		for i := 0; i < n; i++ {
			e.emitExpr(ex.Elem)
		}
	case *ast.IndexExpr:
		addr, ok := e.resolveAddress(ex)
		if !ok {
			return
		}
		e.emitLoadAddress(e.materialize(addr))
	case *ast.FieldAccessExpr:
		// No field-access expression form is reachable post-checking
		// (spec.md §4.2 never produces one that type-checks); nothing to
		// lower.
	case *ast.IfExpr:
		e.emitIfExpr(ex)
	case *ast.CallExpr:
		e.emitCall(ex.Callee, ex.Args, nil)
	case *ast.ApprovalCallExpr:
		e.emitCall(ex.Callee, ex.Args, ex.Clauses)
	case *ast.CalleePath:
		e.emitEnumVariantRef(ex)
	}
}

func (e *funcEmitter) emitLiteral(ex *ast.LiteralExpr) {
	switch ex.Kind {
	case ast.IntLiteral:
		if ex.Suffix == "i" {
			e.emit(Instr{Op: OpI256Const, Number: ex.Value})
		} else {
			e.emit(Instr{Op: OpU256Const, Number: ex.Value})
		}
	case ast.HexBytesLiteral:
		e.emit(Instr{Op: OpBytesConst, Bytes: decodeHex(ex.Value)})
	case ast.AddressLiteral:
		e.emit(Instr{Op: OpAddressConst, Bytes: []byte(ex.Value)})
	}
}

func decodeHex(hex string) []byte {
	out := make([]byte, len(hex)/2)
	for i := range out {
		hi := hexDigit(hex[i*2])
		lo := hexDigit(hex[i*2+1])
		out[i] = hi<<4 | lo
	}
	return out
}

func hexDigit(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	default:
		return 0
	}
}

func (e *funcEmitter) emitIdent(ex *ast.IdentExpr) {
	if e.cs != nil {
		for key, v := range e.cs.EnumVariant {
			if strings.HasSuffix(key, "."+ex.Name) && v.ConstExpr != nil {
				e.emitExpr(v.ConstExpr)
				return
			}
		}
		if c, ok := e.cs.Consts[ex.Name]; ok {
			e.emitExpr(c.ConstExpr)
			return
		}
	}
	addr, ok := e.resolveAddress(ex)
	if !ok {
		return
	}
	e.emitLoadAddress(e.materialize(addr))
}

func (e *funcEmitter) emitEnumVariantRef(ex *ast.CalleePath) {
	if e.cs == nil || len(ex.Parts) != 2 {
		return
	}
	key := ex.Parts[0].Value + "." + ex.Parts[1].Value
	if v, ok := e.cs.EnumVariant[key]; ok && v.ConstExpr != nil {
		e.emitExpr(v.ConstExpr)
	}
}

func (e *funcEmitter) emitUnary(ex *ast.UnaryExpr) {
	switch ex.Op {
	case "-":
		t := e.typeOf(ex.Operand)
		zero := OpU256Const0
		if t.Kind == types.KindI256 {
			e.emit(Instr{Op: OpI256Const0})
		} else {
			e.emit(Instr{Op: zero})
		}
		e.emitExpr(ex.Operand)
		e.emit(Instr{Op: OpSub})
	case "!":
		e.emitExpr(ex.Operand)
		e.emit(Instr{Op: OpBoolConst, Bool: false})
		e.emit(Instr{Op: OpEq})
	}
}

var binOps = map[string]Op{
	"+": OpAdd, "-": OpSub, "*": OpMul, "/": OpDiv, "%": OpMod, "**": OpExp, "|**|": OpModExp,
	"&": OpAnd, "|": OpOr, "^": OpXor, "<<": OpShl, ">>": OpShr,
	"<": OpLt, "<=": OpLe, ">": OpGt, ">=": OpGe, "==": OpEq, "!=": OpNeq,
}

// emitBinary lowers arithmetic/comparison/bitwise operators directly and
// short-circuits `&&`/`||` with a conditional jump (spec.md §4.2: "&&/||
// do not evaluate their right operand when the left already decides the
// result").
func (e *funcEmitter) emitBinary(ex *ast.BinaryExpr) {
	switch ex.Op {
	case "&&":
		e.emitExpr(ex.Left)
		e.emit(Instr{Op: OpDup})
		skip := e.reserve()
		e.emit(Instr{Op: OpPop})
		e.emitExpr(ex.Right)
		e.patchJump(skip, OpIfFalse, len(e.code))
		return
	case "||":
		e.emitExpr(ex.Left)
		e.emit(Instr{Op: OpDup})
		skip := e.reserve()
		e.emit(Instr{Op: OpPop})
		e.emitExpr(ex.Right)
		e.patchJump(skip, OpIfTrue, len(e.code))
		return
	}

	e.emitExpr(ex.Left)
	e.emitExpr(ex.Right)
	if op, ok := binOps[ex.Op]; ok {
		e.emit(Instr{Op: op})
	}
}

// reserve emits a placeholder instruction to be overwritten once the
// jump target is known, returning its index.
func (e *funcEmitter) reserve() int {
	e.emit(Instr{})
	return len(e.code) - 1
}

func (e *funcEmitter) patchJump(at int, op Op, target int) {
	e.code[at] = Instr{Op: op, Offset: target - (at + 1)}
}

// emitIfExpr lowers the expression form of `if`, merging both branches'
// values on the stack (spec.md §4.2: both branches share one type).
func (e *funcEmitter) emitIfExpr(ex *ast.IfExpr) {
	e.emitExpr(ex.Cond)
	elseJump := e.reserve()
	e.emitExpr(ex.Then)
	endJump := e.reserve()
	e.patchJump(elseJump, OpIfFalse, len(e.code))
	e.emitExpr(ex.Else)
	e.patchJump(endJump, OpJump, len(e.code))
}
