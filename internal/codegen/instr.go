// Package codegen lowers a checked, inheritance-resolved contract to a
// flat per-function instruction vector (spec.md §2 item 6, §4.5, §6.1).
// Unlike the teacher's SSA-based IR, Ralph's target is a stack machine:
// codegen here is a direct recursive emitter, not a basic-block builder.
package codegen

import "fmt"

// Op is the opcode family; spec.md §6.1 leaves exact byte values to the
// implementation ("an implementer must pick a stable set and keep it
// consistent across debug and production builds") — this table is that
// stable set.
type Op byte

const (
	OpU256Const0 Op = iota
	OpU256Const1
	OpU256Const2
	OpU256Const3
	OpU256Const4
	OpU256Const5
	OpU256Const // operand: decimal string (arbitrary precision, spec.md §6.1)
	OpI256Const0
	OpI256ConstN1
	OpI256Const
	OpBoolConst
	OpBytesConst
	OpAddressConst

	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpExp
	OpModExp
	OpShl
	OpShr
	OpAnd
	OpOr
	OpXor
	OpLt
	OpLe
	OpGt
	OpGe
	OpEq
	OpNeq

	OpJump
	OpIfTrue
	OpIfFalse
	OpReturn
	OpAssert
	OpAssertWithErrorCode
	OpPanic

	OpLoadLocal
	OpStoreLocal
	OpLoadLocalByIndex
	OpStoreLocalByIndex
	OpDup
	OpPop

	OpLoadImmField
	OpLoadMutField
	OpStoreMutField
	OpLoadImmFieldByIndex
	OpLoadMutFieldByIndex
	OpStoreMutFieldByIndex

	OpCallLocal
	OpCallExternal

	OpApproveAlph
	OpApproveToken
	OpAlphRemaining
	OpTokenRemaining
	OpTransferAlph
	OpTransferToken
	OpTransferAlphToSelf
	OpTransferTokenToSelf
	OpTransferAlphFromSelf
	OpTransferTokenFromSelf

	OpTxId
	OpCallerAddress
	OpSelfContractId
	OpMigrateWithFields
	OpGetSegregatedSignature
	OpVerifyBIP340Schnorr

	OpTemplateVariable

	// Static per-contract-type serialization calls (spec.md §4.5/§6.1):
	// `Type.encodeImmFields!`/`encodeMutFields!`/`encodeFields!`, used
	// when constructing a sub-contract. Instr.Name carries the target
	// type name, Instr.Index the number of field values pushed.
	OpEncodeImmFields
	OpEncodeMutFields
	OpEncodeFields

	// OpEmit emits an event (spec.md §4.5 `emit`). Instr.Name is the event
	// name, Instr.Index its field count.
	OpEmit
)

var opNames = map[Op]string{
	OpU256Const0: "U256Const0", OpU256Const1: "U256Const1", OpU256Const2: "U256Const2",
	OpU256Const3: "U256Const3", OpU256Const4: "U256Const4", OpU256Const5: "U256Const5",
	OpU256Const: "U256Const", OpI256Const0: "I256Const0", OpI256ConstN1: "I256ConstN1",
	OpI256Const: "I256Const", OpBoolConst: "BoolConst", OpBytesConst: "BytesConst",
	OpAddressConst: "AddressConst",
	OpAdd: "Add", OpSub: "Sub", OpMul: "Mul", OpDiv: "Div", OpMod: "Mod",
	OpExp: "Exp", OpModExp: "ModExp", OpShl: "Shl", OpShr: "Shr",
	OpAnd: "And", OpOr: "Or", OpXor: "Xor",
	OpLt: "Lt", OpLe: "Le", OpGt: "Gt", OpGe: "Ge", OpEq: "Eq", OpNeq: "Neq",
	OpJump: "Jump", OpIfTrue: "IfTrue", OpIfFalse: "IfFalse", OpReturn: "Return",
	OpAssert: "Assert", OpAssertWithErrorCode: "AssertWithErrorCode", OpPanic: "Panic",
	OpLoadLocal: "LoadLocal", OpStoreLocal: "StoreLocal",
	OpLoadLocalByIndex: "LoadLocalByIndex", OpStoreLocalByIndex: "StoreLocalByIndex",
	OpDup: "Dup", OpPop: "Pop",
	OpLoadImmField: "LoadImmField", OpLoadMutField: "LoadMutField", OpStoreMutField: "StoreMutField",
	OpLoadImmFieldByIndex: "LoadImmFieldByIndex", OpLoadMutFieldByIndex: "LoadMutFieldByIndex",
	OpStoreMutFieldByIndex: "StoreMutFieldByIndex",
	OpCallLocal: "CallLocal", OpCallExternal: "CallExternal",
	OpApproveAlph: "ApproveAlph", OpApproveToken: "ApproveToken",
	OpAlphRemaining: "AlphRemaining", OpTokenRemaining: "TokenRemaining",
	OpTransferAlph: "TransferAlph", OpTransferToken: "TransferToken",
	OpTransferAlphToSelf: "TransferAlphToSelf", OpTransferTokenToSelf: "TransferTokenToSelf",
	OpTransferAlphFromSelf: "TransferAlphFromSelf", OpTransferTokenFromSelf: "TransferTokenFromSelf",
	OpTxId: "TxId", OpCallerAddress: "CallerAddress", OpSelfContractId: "SelfContractId",
	OpMigrateWithFields: "MigrateWithFields", OpGetSegregatedSignature: "GetSegregatedSignature",
	OpVerifyBIP340Schnorr: "VerifyBIP340Schnorr",
	OpTemplateVariable: "TemplateVariable",
	OpEncodeImmFields: "EncodeImmFields", OpEncodeMutFields: "EncodeMutFields", OpEncodeFields: "EncodeFields",
	OpEmit: "Emit",
}

func (o Op) String() string {
	if n, ok := opNames[o]; ok {
		return n
	}
	return fmt.Sprintf("Op(%d)", o)
}

// Instr is one emitted instruction. Only the operand field relevant to
// Op is populated; the rest are zero values.
type Instr struct {
	Op     Op
	Index  int    // LoadLocal(i), LoadImmField(i), CallLocal(funcIndex), TemplateVariable index, ...
	Offset int    // Jump/IfTrue/IfFalse: signed, relative to the NEXT instruction (spec.md §6.1)
	Bytes  []byte // BytesConst, AddressConst (decoded payload)
	Bool   bool   // BoolConst
	Number string // U256Const(n)/I256Const(n) decimal operand, arbitrary precision
	Name   string // TemplateVariable name; callee for CallLocal, contract for CallExternal and Encode*Fields, event for Emit
	Type   string // TemplateVariable's declared type name, for the output template string
}

func (i Instr) String() string {
	switch i.Op {
	case OpJump, OpIfTrue, OpIfFalse:
		return fmt.Sprintf("%s(%d)", i.Op, i.Offset)
	case OpLoadLocal, OpStoreLocal, OpLoadImmField, OpLoadMutField, OpStoreMutField,
		OpCallLocal, OpCallExternal:
		return fmt.Sprintf("%s(%d)", i.Op, i.Index)
	case OpU256Const, OpI256Const:
		return fmt.Sprintf("%s(%s)", i.Op, i.Number)
	case OpBoolConst:
		return fmt.Sprintf("%s(%v)", i.Op, i.Bool)
	case OpBytesConst, OpAddressConst:
		return fmt.Sprintf("%s(%x)", i.Op, i.Bytes)
	case OpAssertWithErrorCode:
		return fmt.Sprintf("%s(%d)", i.Op, i.Index)
	case OpTemplateVariable:
		return fmt.Sprintf("%s(%s:%s,%d)", i.Op, i.Name, i.Type, i.Index)
	default:
		return i.Op.String()
	}
}
