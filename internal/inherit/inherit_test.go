package inherit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ralph-lang/ralphc/internal/ast"
	"github.com/ralph-lang/ralphc/internal/parser"
)

func parseUnit(t *testing.T, src string) *ast.SourceUnit {
	t.Helper()
	unit, errs := parser.ParseSource("t.ral", src)
	require.Empty(t, errs)
	return unit
}

// S7: A extends B, B extends C, C extends A is rejected.
func TestCyclicInheritanceDetected(t *testing.T) {
	src := `
	Contract A() extends B() {
		fn f() -> () { return }
	}
	Contract B() extends C() {
		fn g() -> () { return }
	}
	Contract C() extends A() {
		fn h() -> () { return }
	}`
	unit := parseUnit(t, src)
	reg := NewRegistry(unit.Decls)
	_, errs := reg.Resolve("A")
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0].Message, "Cyclic inheritance detected for contract A")
}

func TestFieldListPropagatedFromParent(t *testing.T) {
	src := `
	Contract Pair(mut reserve: U256) {
		fn noop() -> () { return }
	}
	Contract Uniswap(mut alphReserve: U256) extends Pair(alphReserve) {
		fn trade() -> () { return }
	}`
	unit := parseUnit(t, src)
	reg := NewRegistry(unit.Decls)
	rc, errs := reg.Resolve("Uniswap")
	require.Empty(t, errs)
	fields := rc.Decl.Fields()
	require.Len(t, fields, 2)
	assert.Equal(t, "reserve", fields[0].Name.Value)
	assert.Equal(t, "alphReserve", fields[1].Name.Value)
}

func TestFieldForwardingMutabilityMismatch(t *testing.T) {
	src := `
	Contract Pair(mut reserve: U256) {
		fn noop() -> () { return }
	}
	Contract Broken(reserve: U256) extends Pair(reserve) {
		fn trade() -> () { return }
	}`
	unit := parseUnit(t, src)
	reg := NewRegistry(unit.Decls)
	_, errs := reg.Resolve("Broken")
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0].Message, "mismatched mutability")
}

func TestInterfaceRequiresImplementation(t *testing.T) {
	src := `
	Interface Swappable {
		pub fn swap(amount: U256) -> U256
	}
	Contract Vault() implements Swappable {
		fn noop() -> () { return }
	}`
	unit := parseUnit(t, src)
	reg := NewRegistry(unit.Decls)
	_, errs := reg.Resolve("Vault")
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0].Message, "does not implement Swappable.swap")
}

func TestInterfaceImplementationSatisfied(t *testing.T) {
	src := `
	Interface Swappable {
		pub fn swap(amount: U256) -> U256
	}
	Contract Vault() implements Swappable {
		pub fn swap(amount: U256) -> U256 {
			return amount
		}
	}`
	unit := parseUnit(t, src)
	reg := NewRegistry(unit.Decls)
	rc, errs := reg.Resolve("Vault")
	require.Empty(t, errs)
	assert.Equal(t, []string{"Swappable"}, rc.Implements)
}

// Diamond/unrelated interface parents are rejected (spec.md §4.3).
func TestImplementsMustFormSingleChain(t *testing.T) {
	src := `
	Interface A {
		pub fn a() -> ()
	}
	Interface B {
		pub fn b() -> ()
	}
	Contract C() implements A, B {
		pub fn a() -> () { return }
		pub fn b() -> () { return }
	}`
	unit := parseUnit(t, src)
	reg := NewRegistry(unit.Decls)
	_, errs := reg.Resolve("C")
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0].Message, "Only single inheritance is allowed")
}

func TestStdFieldInjectedFromInterface(t *testing.T) {
	src := `
	@std(id = #4142)
	Interface Token {
		pub fn name() -> ByteVec
	}
	Contract MyToken() implements Token {
		pub fn name() -> ByteVec {
			return #00
		}
	}`
	unit := parseUnit(t, src)
	reg := NewRegistry(unit.Decls)
	rc, errs := reg.Resolve("MyToken")
	require.Empty(t, errs)
	require.NotNil(t, rc.StdField)
	assert.True(t, rc.StdField.Synthetic)
	fields := rc.Decl.Fields()
	assert.Equal(t, "__std_id", fields[len(fields)-1].Name.Value)
}

func TestStdFieldOmittedWhenDisabled(t *testing.T) {
	src := `
	@std(id = #4142)
	Interface Token {
		pub fn name() -> ByteVec
	}
	@std(enabled = false)
	Contract MyToken() implements Token {
		pub fn name() -> ByteVec {
			return #00
		}
	}`
	unit := parseUnit(t, src)
	reg := NewRegistry(unit.Decls)
	rc, errs := reg.Resolve("MyToken")
	require.Empty(t, errs)
	assert.Nil(t, rc.StdField)
}

func TestEnumMergedAcrossInheritance(t *testing.T) {
	src := `
	Contract Base() {
		enum Direction { Buy = 0, Sell = 1 }
		fn noop() -> () { return }
	}
	Contract Child() extends Base() {
		enum Direction { Hold = 2 }
		fn noop2() -> () { return }
	}`
	unit := parseUnit(t, src)
	reg := NewRegistry(unit.Decls)
	rc, errs := reg.Resolve("Child")
	require.Empty(t, errs)
	enums := rc.Decl.Enums()
	require.Len(t, enums, 1)
	assert.Len(t, enums[0].Variants, 3)
}

func TestDuplicateEnumVariantAcrossInheritanceIsError(t *testing.T) {
	src := `
	Contract Base() {
		enum Direction { Buy = 0 }
		fn noop() -> () { return }
	}
	Contract Child() extends Base() {
		enum Direction { Buy = 1 }
		fn noop2() -> () { return }
	}`
	unit := parseUnit(t, src)
	reg := NewRegistry(unit.Decls)
	_, errs := reg.Resolve("Child")
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0].Message, "declared twice")
}
