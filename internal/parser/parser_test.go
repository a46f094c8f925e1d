package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ralph-lang/ralphc/internal/ast"
)

// S1: an AssetScript with a single function compiles with no parse errors.
func TestParseAssetScript(t *testing.T) {
	src := `AssetScript Foo {
		pub fn bar(a: U256, b: U256) -> (U256) {
			return a + b
		}
	}`
	unit, errs := ParseSource("s1.ral", src)
	require.Empty(t, errs)
	require.Len(t, unit.Decls, 1)
	script, ok := unit.Decls[0].(*ast.AssetScript)
	require.True(t, ok)
	assert.Equal(t, "Foo", script.Name.Value)
	require.Len(t, script.Functions, 1)
	assert.Equal(t, "bar", script.Functions[0].Name.Value)
}

// S2: an empty TxScript is rejected with the exact diagnostic message.
func TestParseEmptyTxScriptMissingMainStatements(t *testing.T) {
	src := `TxScript Foo {}`
	_, errs := ParseSource("s2.ral", src)
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0].Message, `Expected main statements for type "Foo"`)
}

// S8: an interface with no function signatures is rejected.
func TestParseInterfaceRequiresAFunction(t *testing.T) {
	src := `Interface Foo {
	}`
	_, errs := ParseSource("s8.ral", src)
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0].Message, "No function definition in Interface Foo")
}

// S10: an event with 9 fields is rejected.
func TestParseEventTooManyFields(t *testing.T) {
	src := `Contract Foo() {
		event Many(U256, U256, U256, U256, U256, U256, U256, U256, U256)
		fn noop() -> () {
			return
		}
	}`
	_, errs := ParseSource("s10.ral", src)
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0].Message, "Max 8 fields allowed for contract events")
}

func TestParseContractWithFieldsExtendsAndImplements(t *testing.T) {
	src := `Contract Uniswap(mut alphReserve: U256, mut btcReserve: U256) extends Pair(alphReserve) implements Swappable {
		const FEE = 3u
		enum Direction { Buy = 0, Sell = 1 }
		event Swap(U256, U256)

		@using(preapprovedAssets = true, updateFields = true)
		pub fn swap(amountIn: U256) -> U256 {
			let mut out: U256 = amountIn;
			if (out > 0u) {
				return out
			}
			return 0u
		}
	}`
	unit, errs := ParseSource("uniswap.ral", src)
	require.Empty(t, errs)
	require.Len(t, unit.Decls, 1)
	c, ok := unit.Decls[0].(*ast.Contract)
	require.True(t, ok)
	assert.Equal(t, "Uniswap", c.Name.Value)
	assert.Len(t, c.Fields(), 2)
	extendsName, extendsArgs := c.Extends()
	require.NotNil(t, extendsName)
	assert.Equal(t, "Pair", extendsName.Value)
	assert.Len(t, extendsArgs, 1)
	require.Len(t, c.Implements(), 1)
	assert.Equal(t, "Swappable", c.Implements()[0].Value)
	assert.Len(t, c.Consts(), 1)
	assert.Len(t, c.Enums(), 1)
	assert.Len(t, c.Events(), 1)
	require.Len(t, c.Functions(), 1)

	fn := c.Functions()[0]
	assert.True(t, fn.Public)
	assert.True(t, fn.Using.PreapprovedAssets)
	assert.True(t, fn.Using.UpdateFields)
	require.Len(t, fn.Body.Stmts, 3)
}

func TestParseArrayTypeAndLiterals(t *testing.T) {
	src := `Contract Arr() {
		fn make() -> [U256; 3] {
			let board: [U256; 3] = [1u, 2u, 3u];
			let zeros: [U256; 3] = [0u; 3];
			return board
		}
	}`
	unit, errs := ParseSource("arr.ral", src)
	require.Empty(t, errs)
	c := unit.Decls[0].(*ast.Contract)
	fn := c.Functions()[0]
	require.Equal(t, "U256", fn.ReturnType.ArrayElem.Name)
	assert.Equal(t, 3, fn.ReturnType.ArraySize)

	letBoard := fn.Body.Stmts[0].(*ast.LetStmt)
	arr, ok := letBoard.Expr.(*ast.ArrayLiteralExpr)
	require.True(t, ok)
	assert.Len(t, arr.Elements, 3)

	letZeros := fn.Body.Stmts[1].(*ast.LetStmt)
	repeat, ok := letZeros.Expr.(*ast.ArrayRepeatExpr)
	require.True(t, ok)
	assert.NotNil(t, repeat.Size)
}

func TestParseTupleDestructureAndMultiReturn(t *testing.T) {
	src := `Contract Multi() {
		fn pair() -> (U256, U256) {
			return 1u, 2u
		}
		fn use() -> U256 {
			let (x, mut y, _) = pair();
			y = y + x;
			return y
		}
	}`
	unit, errs := ParseSource("multi.ral", src)
	require.Empty(t, errs)
	c := unit.Decls[0].(*ast.Contract)
	require.Len(t, c.Functions(), 2)

	useFn := c.Functions()[1]
	let := useFn.Body.Stmts[0].(*ast.LetStmt)
	require.Len(t, let.Names, 3)
	assert.False(t, let.Muts[0])
	assert.True(t, let.Muts[1])
	assert.True(t, let.Underscore[2])

	assign := useFn.Body.Stmts[1].(*ast.AssignStmt)
	assert.Equal(t, ast.ASSIGN, assign.Op)
}

func TestParseApprovalCallExpression(t *testing.T) {
	src := `Contract Vault() {
		@using(preapprovedAssets = true)
		pub fn deposit(amount: U256) -> () {
			pair.swap{caller -> ALPH: amount}(amount);
			return
		}
	}`
	unit, errs := ParseSource("vault.ral", src)
	require.Empty(t, errs)
	c := unit.Decls[0].(*ast.Contract)
	fn := c.Functions()[0]
	exprStmt := fn.Body.Stmts[0].(*ast.ExprStmt)
	call, ok := exprStmt.Expr.(*ast.ApprovalCallExpr)
	require.True(t, ok)
	require.Len(t, call.Clauses, 1)
	assert.Len(t, call.Args, 1)

	path, ok := call.Callee.(*ast.CalleePath)
	require.True(t, ok)
	require.Len(t, path.Parts, 2)
	assert.Equal(t, "pair", path.Parts[0].Value)
	assert.Equal(t, "swap", path.Parts[1].Value)
}

func TestParseStaticEncodeFieldsCallee(t *testing.T) {
	src := `TxScript Main {
		let bytes = Token.encodeFields!();
	}`
	unit, errs := ParseSource("static.ral", src)
	require.Empty(t, errs)
	script := unit.Decls[0].(*ast.TxScript)
	require.Len(t, script.MainStmts, 1)
	let := script.MainStmts[0].(*ast.LetStmt)
	call, ok := let.Expr.(*ast.CallExpr)
	require.True(t, ok)
	path, ok := call.Callee.(*ast.CalleePath)
	require.True(t, ok)
	require.Len(t, path.Parts, 2)
	assert.Equal(t, "Token", path.Parts[0].Value)
	assert.Equal(t, "encodeFields!", path.Parts[1].Value)
}

func TestParseIfExpressionRequiresElse(t *testing.T) {
	src := `Contract Foo() {
		fn pick(cond: Bool) -> U256 {
			return if (cond) { 1u } else { 2u }
		}
	}`
	unit, errs := ParseSource("ifexpr.ral", src)
	require.Empty(t, errs)
	c := unit.Decls[0].(*ast.Contract)
	ret := c.Functions()[0].Body.Stmts[0].(*ast.ReturnStmt)
	ifExpr, ok := ret.Values[0].(*ast.IfExpr)
	require.True(t, ok)
	assert.NotNil(t, ifExpr.Else)
}

func TestParseForLoopRequiresAllThreeClauses(t *testing.T) {
	src := `Contract Loop() {
		fn sum() -> U256 {
			let mut total: U256 = 0u;
			for (let mut i: U256 = 0u; i < 10u; i = i + 1u) {
				total = total + i;
			}
			return total
		}
	}`
	unit, errs := ParseSource("forloop.ral", src)
	require.Empty(t, errs)
	c := unit.Decls[0].(*ast.Contract)
	forStmt := c.Functions()[0].Body.Stmts[1].(*ast.ForStmt)
	assert.NotNil(t, forStmt.Init)
	assert.NotNil(t, forStmt.Cond)
	assert.NotNil(t, forStmt.Update)
}
