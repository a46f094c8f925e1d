package codegen

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ralph-lang/ralphc/internal/ast"
	"github.com/ralph-lang/ralphc/internal/inherit"
	"github.com/ralph-lang/ralphc/internal/parser"
	"github.com/ralph-lang/ralphc/internal/sema"
)

// compileContract runs the same parse -> resolve -> check -> emit pipeline
// internal/project.Build runs, scoped to a single named contract, so
// codegen tests can assert on the emitted instruction stream without
// importing internal/project (which itself imports internal/codegen).
func compileContract(t *testing.T, src, name string) *ContractBytecode {
	t.Helper()
	su, perrs := parser.ParseSource("t.ral", src)
	require.Empty(t, perrs)

	registry := inherit.NewRegistry(su.Decls)
	resolved, ierrs := registry.ResolveAll()
	require.Empty(t, ierrs)

	interfaces := map[string]*ast.Interface{}
	for _, d := range su.Decls {
		if iface, ok := d.(*ast.Interface); ok {
			interfaces[iface.Name.Value] = iface
		}
	}
	u := sema.NewUniverse(resolved, interfaces)
	checker := sema.NewChecker(u)

	var target *inherit.ResolvedContract
	for _, rc := range resolved {
		cs := checker.CheckContract(rc)
		if rc.Name == name {
			target = rc
			cb, err := BuildContract(u, cs, rc)
			require.Empty(t, checker.Errors())
			require.NoError(t, err)
			return cb
		}
	}
	require.NotNil(t, target, "contract %q not found", name)
	return nil
}

func methodByName(t *testing.T, cb *ContractBytecode, name string) Method {
	t.Helper()
	for _, m := range cb.Methods {
		if m.Name == name {
			return *m
		}
	}
	t.Fatalf("method %q not found in %v", name, cb.Methods)
	return Method{}
}

// Fixed-size array literals flatten into contiguous scalar locals in
// row-major order (spec.md §4.5 "Arrays are flattened"). The element
// values are pushed first and then popped into their slots, so the
// stores run from the last slot down to the first.
func TestArrayLiteralFlattensToContiguousLocals(t *testing.T) {
	src := `Contract Arr() {
		pub fn make() -> U256 {
			let board: [U256; 3] = [1u, 2u, 3u];
			return board[1]
		}
	}`
	cb := compileContract(t, src, "Arr")
	m := methodByName(t, cb, "make")

	var stores []int
	for _, instr := range m.Code {
		if instr.Op == OpStoreLocal {
			stores = append(stores, instr.Index)
		}
	}
	require.Len(t, stores, 3)
	require.Equal(t, []int{stores[0] - 1, stores[0] - 2}, []int{stores[1], stores[2]},
		"array elements must occupy contiguous local slots, stored last slot first")
}

// Indexing an array by a variable emits the exact runtime bounds-check
// sequence required by spec.md §8 property 6.
func TestVariableIndexEmitsBoundsCheck(t *testing.T) {
	src := `Contract Arr() {
		pub fn get(i: U256) -> U256 {
			let board: [U256; 3] = [1u, 2u, 3u];
			return board[i]
		}
	}`
	cb := compileContract(t, src, "Arr")
	m := methodByName(t, cb, "get")

	found := false
	for i := 0; i+3 < len(m.Code); i++ {
		if m.Code[i].Op == OpDup &&
			m.Code[i+1].Op == OpU256Const &&
			m.Code[i+2].Op == OpLt &&
			m.Code[i+3].Op == OpAssert {
			found = true
			require.Equal(t, "3", m.Code[i+1].Number)
			break
		}
	}
	require.True(t, found, "expected Dup; U256Const(3); Lt; Assert sequence in %v", m.Code)
}

// `&&`/`||` lower to a short-circuit sequence (Dup, IfFalse for `&&` or
// IfTrue for `||`, Pop, right operand), not an eager Add-style
// eval-both-sides sequence (spec.md §4.5).
func TestShortCircuitAndLowersToConditionalJump(t *testing.T) {
	src := `Contract Cond() {
		pub fn both(a: Bool, b: Bool) -> Bool {
			return a && b
		}
	}`
	cb := compileContract(t, src, "Cond")
	m := methodByName(t, cb, "both")

	hasBranch := false
	for _, instr := range m.Code {
		if instr.Op == OpIfFalse || instr.Op == OpIfTrue {
			hasBranch = true
		}
	}
	require.True(t, hasBranch, "expected a conditional branch opcode in %v", m.Code)
}

// Braces-approval syntax emits ApproveAlph before the external call
// (spec.md §4.5).
func TestApprovalCallEmitsApproveBeforeCallExternal(t *testing.T) {
	src := `Interface Pair {
		pub fn swap(amount: U256) -> U256
	}
	Contract Vault(pair: Pair) {
		@using(preapprovedAssets = true)
		pub fn deposit(to: Address, amount: U256) -> U256 {
			return pair.swap{to -> ALPH: amount}(amount)
		}
	}`
	cb := compileContract(t, src, "Vault")
	m := methodByName(t, cb, "deposit")

	approveAt := -1
	callAt := -1
	for i, instr := range m.Code {
		if instr.Op == OpApproveAlph {
			approveAt = i
		}
		if instr.Op == OpCallExternal {
			callAt = i
		}
	}
	require.NotEqual(t, -1, approveAt, "expected ApproveAlph in %v", m.Code)
	require.NotEqual(t, -1, callAt, "expected CallExternal in %v", m.Code)
	require.Less(t, approveAt, callAt, "ApproveAlph must precede CallExternal")
}

// `|**|` (mod-exp) lowers to OpModExp, not OpExp (spec.md §4.2 "|**| ...
// is U256-only").
func TestModExpLowersToOpModExp(t *testing.T) {
	src := `Contract Mod() {
		pub fn powMod(a: U256, b: U256) -> U256 {
			return a |**| b
		}
	}`
	cb := compileContract(t, src, "Mod")
	m := methodByName(t, cb, "powMod")

	hasModExp := false
	for _, instr := range m.Code {
		require.NotEqual(t, OpExp, instr.Op, "|**| must not lower to OpExp")
		if instr.Op == OpModExp {
			hasModExp = true
		}
	}
	require.True(t, hasModExp, "expected OpModExp in %v", m.Code)
}

// `**` allows an I256 base with a U256 exponent (spec.md §4.2), unlike
// every other arithmetic operator's strict same-type rule.
func TestExpAllowsI256BaseWithU256Exponent(t *testing.T) {
	src := `Contract Pow() {
		pub fn pow(a: I256, b: U256) -> I256 {
			return a ** b
		}
	}`
	cb := compileContract(t, src, "Pow")
	m := methodByName(t, cb, "pow")

	hasExp := false
	for _, instr := range m.Code {
		if instr.Op == OpExp {
			hasExp = true
		}
	}
	require.True(t, hasExp, "expected OpExp in %v", m.Code)
}
