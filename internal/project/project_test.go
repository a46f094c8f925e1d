package project

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// S3: a function with a non-() return type must return on every path.
func TestLoadMissingReturnPath(t *testing.T) {
	src := `Contract Foo() {
		fn foo() -> U256 {
			if (true) {
				return 1u
			}
		}
	}`
	u := Load("s3.ral", src)
	require.NotEmpty(t, u.Errors)
	assert.Contains(t, u.Errors[0].Message, `Expected return statement for function "foo"`)
}

// S4: returning a value from a function declared with no return type.
func TestLoadInvalidReturnTypes(t *testing.T) {
	src := `Contract Foo() {
		fn foo() -> () {
			return 1u
		}
	}`
	u := Load("s4.ral", src)
	require.NotEmpty(t, u.Errors)
	assert.Contains(t, u.Errors[0].Message, "Invalid return types:")
}

// S6: a mutable field that no function ever assigns is a fatal error,
// not merely a warning, and names every offending field.
func TestLoadUnassignedMutableField(t *testing.T) {
	src := `Contract Foo(mut a: U256) {
		pub fn foo() -> U256 {
			return a
		}
	}`
	u := Load("s6.ral", src)
	require.NotEmpty(t, u.Errors)
	found := false
	for _, e := range u.Errors {
		if e.Message == `There are unassigned mutable fields in contract Foo: a` {
			found = true
		}
	}
	assert.True(t, found, "errors: %v", u.Errors)
}

// S9: emitting an event with the wrong argument types.
func TestLoadEventArgTypeMismatch(t *testing.T) {
	src := `Contract Foo() {
		event Add(U256, U256)
		fn foo(a: U256, z: Bool) -> () {
			emit Add(a, z);
			return
		}
	}`
	u := Load("s9.ral", src)
	require.NotEmpty(t, u.Errors)
	found := false
	for _, e := range u.Errors {
		if e.Message == "Invalid args type List(U256, Bool) for event Add(U256, U256)" {
			found = true
		}
	}
	assert.True(t, found, "errors: %v", u.Errors)
}

// S10: an event with 9 fields is rejected; the parser's error comes
// first, ahead of the semantic analyzer's own report of the same event.
func TestLoadEventTooManyFields(t *testing.T) {
	src := `Contract Foo() {
		event Many(U256, U256, U256, U256, U256, U256, U256, U256, U256)
		fn noop() -> () {
			return
		}
	}`
	u := Load("s10.ral", src)
	require.NotEmpty(t, u.Errors)
	assert.Contains(t, u.Errors[0].Message, "Max 8 fields allowed for contract events")
}

// S1: a well-formed AssetScript compiles clean with no warnings.
func TestBuildAssetScriptNoWarnings(t *testing.T) {
	src := `AssetScript Foo {
		pub fn bar(a: U256, b: U256) -> (U256) {
			return a + b
		}
	}`
	u, out := Build("s1.ral", src)
	require.Empty(t, u.Errors)
	require.NotNil(t, out)
	require.Len(t, out.Scripts, 1)
	assert.Empty(t, u.Warnings)
}

// S5: a pair-reserve style contract with mutable fields compiles and
// appears by name in Build's output.
func TestBuildUniswapStyleContract(t *testing.T) {
	src := `Contract Uniswap(mut alphReserve: U256, mut btcReserve: U256) {
		pub fn swap(amountIn: U256) -> U256 {
			let out = btcReserve * amountIn / (alphReserve + amountIn);
			alphReserve = alphReserve + amountIn;
			btcReserve = btcReserve - out;
			return out
		}
	}`
	u, out := Build("s5.ral", src)
	require.Empty(t, u.Errors)
	require.NotNil(t, out)
	require.Len(t, out.Contracts, 1)
	assert.Equal(t, "Uniswap", out.Contracts[0].Name)
}

// Abstract contracts never appear in Build's output set (spec.md §4.6,
// §8 property 4).
func TestBuildExcludesAbstractContracts(t *testing.T) {
	src := `Abstract Contract Base() {
		fn noop() -> () {
			return
		}
	}
	Contract Foo() extends Base() {
		pub fn run() -> () {
			return
		}
	}`
	u, out := Build("abstract.ral", src)
	require.Empty(t, u.Errors)
	require.NotNil(t, out)
	require.Len(t, out.Contracts, 1)
	assert.Equal(t, "Foo", out.Contracts[0].Name)
}
