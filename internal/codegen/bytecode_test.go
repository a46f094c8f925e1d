package codegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// spec.md §8: "Round-trip: deserialize(serialize(c)) == c" for a
// StatefulContract's emitted bytecode.
func TestContractBytecodeRoundTrip(t *testing.T) {
	src := `Contract Arr() {
		pub fn get(i: U256) -> U256 {
			let board: [U256; 3] = [1u, 2u, 3u];
			return board[i]
		}
	}`
	cb := compileContract(t, src, "Arr")

	data, err := cb.Serialize()
	require.NoError(t, err)

	got, err := DeserializeContract(data)
	require.NoError(t, err)
	assert.Equal(t, cb, got)
}

func TestDeserializeContractRejectsBadMagic(t *testing.T) {
	_, err := DeserializeContract([]byte("not-ralph-bytecode"))
	require.Error(t, err)
}

// spec.md §8: the same round-trip property holds for a StatelessScript.
func TestScriptRoundTrip(t *testing.T) {
	sc := &Script{
		Name: "Main",
		Methods: []*Method{
			{
				Name: "main", Public: true, ArgsLength: 1, LocalsLength: 1, ReturnLength: 0,
				Code: []Instr{
					{Op: OpTemplateVariable, Name: "amount", Type: "U256", Index: 0},
					{Op: OpU256Const, Number: "3"},
					{Op: OpAdd},
					{Op: OpPop},
				},
				DebugCode: []Instr{
					{Op: OpTemplateVariable, Name: "amount", Type: "U256", Index: 0},
					{Op: OpU256Const, Number: "3"},
					{Op: OpAdd},
					{Op: OpPop},
				},
			},
		},
		TemplateVars: []TemplateVar{{Name: "amount", Type: "U256", Index: 0}},
	}

	data, err := sc.Serialize()
	require.NoError(t, err)

	got, err := DeserializeScript(data)
	require.NoError(t, err)
	assert.Equal(t, sc, got)
}
