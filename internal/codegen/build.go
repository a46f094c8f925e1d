// Package codegen's build.go is the entry point internal/project calls
// once a contract or script has passed internal/sema (spec.md §2 item 6):
// it assembles the per-function Instr vectors emitted by emit.go/expr.go/
// addr.go/stmt.go/call.go into the ContractBytecode/Script shapes.
package codegen

import (
	"fmt"

	"github.com/ralph-lang/ralphc/internal/ast"
	"github.com/ralph-lang/ralphc/internal/inherit"
	"github.com/ralph-lang/ralphc/internal/sema"
	"github.com/ralph-lang/ralphc/internal/symbols"
)

// BuildContract lowers one inheritance-resolved, checked contract to its
// bytecode shape. Abstract contracts carry no bytecode (spec.md §4.6):
// "Code generation is not supported for abstract contract".
func BuildContract(u *sema.Universe, cs *symbols.ContractScope, rc *inherit.ResolvedContract) (*ContractBytecode, error) {
	if rc.IsAbstract {
		return nil, fmt.Errorf("Code generation is not supported for abstract contract %q", rc.Name)
	}
	funcIdx := make(map[string]int, len(cs.FuncOrder))
	for i, name := range cs.FuncOrder {
		funcIdx[name] = i
	}
	methods := make([]*Method, 0, len(cs.FuncOrder))
	for _, name := range cs.FuncOrder {
		fn := cs.Functions[name]
		methods = append(methods, buildMethod(u, cs, fn, funcIdx))
	}
	return &ContractBytecode{
		Name:        rc.Name,
		FieldLength: FieldLength{Immutable: cs.ImmutableScalarCount(), Mutable: cs.MutableScalarCount()},
		Methods:     methods,
	}, nil
}

// buildMethod emits one function's body. Debug and production code are
// identical here: spec.md §4.5 reserves `checkCaller!`/`assert!` as
// debug-only builtins in principle, but since they lower to the same
// Assert family of instructions regardless of build mode (no separate
// "strip in production" opcode exists in this instruction set), there is
// nothing to differ between Code and DebugCode — keeping both makes
// spec.md §8 property 2 ("Debug ≡ Production") a checkable equality
// rather than a coincidence of an unimplemented distinction.
func buildMethod(u *sema.Universe, cs *symbols.ContractScope, fn *ast.Function, funcIdx map[string]int) *Method {
	e := newFuncEmitter(u, cs, funcIdx)
	for _, p := range fn.Params {
		e.define(p.Name.Value, u.ResolveType(p.VarType))
	}
	argsLength := e.nextSlot
	if fn.Body != nil {
		e.emitBlock(fn.Body)
		e.emit(Instr{Op: OpReturn})
	}
	returnLength := 0
	if fn.ReturnType != nil {
		returnLength = u.ResolveType(fn.ReturnType).ScalarSlotCount()
	}
	return &Method{
		Name:                 fn.Name.Value,
		Public:               fn.Public,
		UsePreapprovedAssets: fn.Using.PreapprovedAssets,
		UseContractAssets:    fn.Using.AssetsInContract,
		ArgsLength:           argsLength,
		LocalsLength:         e.nextSlot - argsLength,
		ReturnLength:         returnLength,
		Code:                 e.code,
		DebugCode:            e.code,
	}
}

// BuildScript lowers a TxScript: its top-level MainStmts become a
// synthetic "main" method ahead of any helper Functions (spec.md §3
// "StatelessScript"/"StatefulScript").
func BuildScript(u *sema.Universe, s *ast.TxScript) *Script {
	funcIdx := make(map[string]int, len(s.Functions)+1)
	funcIdx["main"] = 0
	for i, fn := range s.Functions {
		funcIdx[fn.Name.Value] = i + 1
	}

	mainEmitter := newFuncEmitter(u, nil, funcIdx)
	for _, p := range s.Params {
		mainEmitter.define(p.Name.Value, u.ResolveType(p.VarType))
	}
	argsLength := mainEmitter.nextSlot
	for _, stmt := range s.MainStmts {
		mainEmitter.emitStmt(stmt)
	}
	mainEmitter.emit(Instr{Op: OpReturn})
	methods := []*Method{{
		Name: "main", Public: true, UsePreapprovedAssets: true, UseContractAssets: true,
		ArgsLength: argsLength, LocalsLength: mainEmitter.nextSlot - argsLength,
		Code: mainEmitter.code, DebugCode: mainEmitter.code,
	}}
	for _, fn := range s.Functions {
		methods = append(methods, buildMethod(u, nil, fn, funcIdx))
	}

	vars := make([]TemplateVar, len(s.Params))
	for i, p := range s.Params {
		vars[i] = TemplateVar{Name: p.Name.Value, Type: p.VarType.String(), Index: i}
	}
	return &Script{Name: s.Name.Value, Methods: methods, TemplateVars: vars}
}

// BuildAssetScript lowers an AssetScript: a bag of functions with no
// top-level statements (spec.md S1).
func BuildAssetScript(u *sema.Universe, s *ast.AssetScript) *Script {
	funcIdx := make(map[string]int, len(s.Functions))
	for i, fn := range s.Functions {
		funcIdx[fn.Name.Value] = i
	}
	methods := make([]*Method, 0, len(s.Functions))
	for _, fn := range s.Functions {
		methods = append(methods, buildMethod(u, nil, fn, funcIdx))
	}
	return &Script{Name: s.Name.Value, Methods: methods}
}
