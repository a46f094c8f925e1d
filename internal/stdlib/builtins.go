// Package stdlib catalogs Ralph's builtin function signatures: the
// asset-movement builtins (`approveToken!`, `transferToken!`, ...) and the
// chain-introspection builtins (`txId!`, `callerAddress!`, ...)
// referenced by spec.md §4.4/§4.5/§6.1. The per-contract static
// serialization functions (`Type.encodeFields!`) are not in this table;
// sema and codegen handle them directly.
//
// None of these have a body: the compiler resolves a call against this
// table and lowers straight to the matching §6.1 instruction rather than
// emitting a CallLocal/CallExternal.
package stdlib

import "github.com/ralph-lang/ralphc/internal/types"

// AssetKind distinguishes a builtin's asset-annotation requirement
// (spec.md §4.4 "Asset rules").
type AssetKind int

const (
	AssetNone        AssetKind = iota
	AssetPreapproved           // requires preapprovedAssets=true on the calling function
	AssetContract              // requires assetsInContract=true
)

// Builtin is one `name!`-style builtin function signature.
type Builtin struct {
	Name       string
	Params     []*types.Type
	Return     *types.Type // types.Void for no return
	Asset      AssetKind
	DebugOnly  bool // marks a debug builtin; codegen emits it identically in both builds, nothing is stripped
	AlphSuffix string // the sibling "…Alph" name when one exists, "" otherwise
}

// byName is populated once at package init from the Builtins table below.
var byName map[string]*Builtin

func init() {
	byName = make(map[string]*Builtin, len(Builtins))
	for i := range Builtins {
		byName[Builtins[i].Name] = &Builtins[i]
	}
}

// Lookup resolves a builtin by its bang-suffixed name, e.g. "approveToken!".
func Lookup(name string) (*Builtin, bool) {
	b, ok := byName[name]
	return b, ok
}

// Builtins is the fixed table of builtin functions spec.md §6.1 names.
// Asset builtins come in a generic `…Token` form (explicit token id
// operand) and an `…Alph` sibling (no token id operand, ALPH implied) —
// spec.md §4.4: "in their …Alph variants when token id is the
// distinguished ALPH literal".
var Builtins = []Builtin{
	{Name: "approveToken!", Params: []*types.Type{types.Address, types.ByteVec, types.U256}, Return: types.Void, Asset: AssetPreapproved, AlphSuffix: "approveAlph!"},
	{Name: "approveAlph!", Params: []*types.Type{types.Address, types.U256}, Return: types.Void, Asset: AssetPreapproved},

	{Name: "tokenRemaining!", Params: []*types.Type{types.Address, types.ByteVec}, Return: types.U256, Asset: AssetPreapproved, AlphSuffix: "alphRemaining!"},
	{Name: "alphRemaining!", Params: []*types.Type{types.Address}, Return: types.U256, Asset: AssetPreapproved},

	{Name: "transferToken!", Params: []*types.Type{types.Address, types.Address, types.ByteVec, types.U256}, Return: types.Void, Asset: AssetContract, AlphSuffix: "transferAlph!"},
	{Name: "transferAlph!", Params: []*types.Type{types.Address, types.Address, types.U256}, Return: types.Void, Asset: AssetContract},

	{Name: "transferTokenToSelf!", Params: []*types.Type{types.Address, types.ByteVec, types.U256}, Return: types.Void, Asset: AssetContract, AlphSuffix: "transferAlphToSelf!"},
	{Name: "transferAlphToSelf!", Params: []*types.Type{types.Address, types.U256}, Return: types.Void, Asset: AssetContract},

	{Name: "transferTokenFromSelf!", Params: []*types.Type{types.Address, types.ByteVec, types.U256}, Return: types.Void, Asset: AssetContract, AlphSuffix: "transferAlphFromSelf!"},
	{Name: "transferAlphFromSelf!", Params: []*types.Type{types.Address, types.U256}, Return: types.Void, Asset: AssetContract},

	{Name: "txId!", Params: nil, Return: types.ByteVec},
	{Name: "callerAddress!", Params: nil, Return: types.Address},
	{Name: "selfContractId!", Params: nil, Return: types.ByteVec},
	{Name: "migrateWithFields!", Params: []*types.Type{types.ByteVec, types.ByteVec, types.ByteVec}, Return: types.Void},
	{Name: "getSegregatedSignature!", Params: nil, Return: types.ByteVec},
	{Name: "verifyBIP340Schnorr!", Params: []*types.Type{types.ByteVec, types.ByteVec, types.ByteVec}, Return: types.Void},

	{Name: "checkCaller!", Params: []*types.Type{types.Bool, types.U256}, Return: types.Void, DebugOnly: true},
	{Name: "assert!", Params: []*types.Type{types.Bool, types.U256}, Return: types.Void, DebugOnly: true},
}

// ALPHIdent is the identifier that names the ALPH sentinel token id when
// it appears as an argument (glossary: an otherwise-opaque ByteVec constant
// recognized only by identifier per spec.md §9's open question: "a
// conforming implementation may require a literal ALPH").
const ALPHIdent = "ALPH"
