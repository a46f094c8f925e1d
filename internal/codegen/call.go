package codegen

import (
	"github.com/ralph-lang/ralphc/internal/ast"
	"github.com/ralph-lang/ralphc/internal/stdlib"
	"github.com/ralph-lang/ralphc/internal/types"
)

// builtinOp maps a stdlib builtin's bang-suffixed name to its §6.1
// instruction. checkCaller!/assert! share AssertWithErrorCode: both
// assert a boolean condition against an error code, one kept only for
// its self-documenting name. Both are emitted identically into
// Method.Code and DebugCode; neither build strips them.
var builtinOp = map[string]Op{
	"approveToken!": OpApproveToken, "approveAlph!": OpApproveAlph,
	"tokenRemaining!": OpTokenRemaining, "alphRemaining!": OpAlphRemaining,
	"transferToken!": OpTransferToken, "transferAlph!": OpTransferAlph,
	"transferTokenToSelf!": OpTransferTokenToSelf, "transferAlphToSelf!": OpTransferAlphToSelf,
	"transferTokenFromSelf!": OpTransferTokenFromSelf, "transferAlphFromSelf!": OpTransferAlphFromSelf,
	"txId!": OpTxId, "callerAddress!": OpCallerAddress, "selfContractId!": OpSelfContractId,
	"migrateWithFields!": OpMigrateWithFields, "getSegregatedSignature!": OpGetSegregatedSignature,
	"verifyBIP340Schnorr!": OpVerifyBIP340Schnorr,
	"checkCaller!": OpAssertWithErrorCode, "assert!": OpAssertWithErrorCode,
}

// tokenIdArgIndex gives the position of the explicit token-id argument
// for each "…Token…" builtin that has an "…Alph" sibling (spec.md §4.4:
// "in their …Alph variants when token id is the distinguished ALPH
// literal" — that argument is dropped entirely, not passed as zero).
var tokenIdArgIndex = map[string]int{
	"approveToken!": 1, "tokenRemaining!": 1, "transferToken!": 2,
	"transferTokenToSelf!": 1, "transferTokenFromSelf!": 1,
}

// emitCall lowers a local call, a builtin call, an external instance
// call, or a static per-type encode call (spec.md §4.4/§4.5/§6.1) —
// the same three shapes internal/sema's callType type-checks.
func (e *funcEmitter) emitCall(callee ast.Expr, args []ast.Expr, clauses []ast.ApprovalClause) {
	switch cal := callee.(type) {
	case *ast.IdentExpr:
		if isBangName(cal.Name) {
			e.emitBuiltinCall(cal.Name, args)
			return
		}
		for _, a := range args {
			e.emitExpr(a)
		}
		e.emit(Instr{Op: OpCallLocal, Index: e.funcIdx[cal.Name], Name: cal.Name})

	case *ast.CalleePath:
		e.emitPathCall(cal, args, clauses)
	}
}

func (e *funcEmitter) emitPathCall(cal *ast.CalleePath, args []ast.Expr, clauses []ast.ApprovalClause) {
	head := cal.Parts[0].Value
	method := cal.Parts[len(cal.Parts)-1].Value

	if isBangName(method) && e.u.Contracts[head] != nil {
		op := OpEncodeFields
		switch method {
		case "encodeImmFields!":
			op = OpEncodeImmFields
		case "encodeMutFields!":
			op = OpEncodeMutFields
		}
		for _, a := range args {
			e.emitExpr(a)
		}
		e.emit(Instr{Op: op, Name: head, Index: len(args)})
		return
	}

	contractName := e.contractRefTypeName(head)
	e.emitApprovalClauses(clauses)

	receiver := &ast.IdentExpr{Name: head, Position: cal.Parts[0].Position, EndPos: cal.Parts[0].EndPos}
	e.emitExpr(receiver)
	for _, a := range args {
		e.emitExpr(a)
	}

	funcIdx := 0
	if target, ok := e.u.Contracts[contractName]; ok {
		for i, name := range target.FuncOrder {
			if name == method {
				funcIdx = i
				break
			}
		}
	}
	e.emit(Instr{Op: OpCallExternal, Index: funcIdx, Name: contractName})
}

// contractRefTypeName resolves the contract type a call receiver name
// (a local or a field) refers to, or "" if it isn't one.
func (e *funcEmitter) contractRefTypeName(name string) string {
	if slot, ok := e.lookupLocal(name); ok && slot.typ != nil && slot.typ.Kind == types.KindContractRef {
		return slot.typ.ContractName
	}
	if e.cs != nil {
		if f := e.cs.LookupField(name); f != nil && f.VarType != nil && f.VarType.Kind == types.KindContractRef {
			return f.VarType.ContractName
		}
	}
	return ""
}

// emitApprovalClauses lowers the braces-approval clauses of a call
// (spec.md §4.5: approvals are issued before the call they attach to),
// selecting the Alph-suffixed opcode when the clause names the ALPH
// sentinel token.
func (e *funcEmitter) emitApprovalClauses(clauses []ast.ApprovalClause) {
	for _, cl := range clauses {
		e.emitExpr(cl.Addr)
		if id, ok := cl.TokenID.(*ast.IdentExpr); ok && id.Name == stdlib.ALPHIdent {
			e.emitExpr(cl.Amount)
			e.emit(Instr{Op: OpApproveAlph})
			continue
		}
		e.emitExpr(cl.TokenID)
		e.emitExpr(cl.Amount)
		e.emit(Instr{Op: OpApproveToken})
	}
}

// emitBuiltinCall lowers a bang-suffixed builtin call, substituting the
// Alph-suffixed opcode (and dropping the token-id argument entirely)
// when the token id is the ALPH sentinel.
func (e *funcEmitter) emitBuiltinCall(name string, args []ast.Expr) {
	b, ok := stdlib.Lookup(name)
	if !ok {
		return
	}
	opName, skip := name, -1
	if idx, ok2 := tokenIdArgIndex[name]; ok2 && idx < len(args) {
		if id, isIdent := args[idx].(*ast.IdentExpr); isIdent && id.Name == stdlib.ALPHIdent {
			opName, skip = b.AlphSuffix, idx
		}
	}
	for i, a := range args {
		if i == skip {
			continue
		}
		e.emitExpr(a)
	}
	if op, ok2 := builtinOp[opName]; ok2 {
		e.emit(Instr{Op: op})
	}
}
