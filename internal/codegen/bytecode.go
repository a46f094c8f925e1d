package codegen

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// Method is one compiled function (spec.md §3 "Method"): flags,
// arg/local/return slot counts, and its flat instruction vector. Debug
// and Code are kept as two fields rather than one to make spec.md §8
// property 2 ("Debug ≡ Production") an explicit, checkable equality
// rather than an implicit invariant — see buildMethod's doc comment for
// why they are currently always equal.
type Method struct {
	Name                 string
	Public               bool
	UsePreapprovedAssets bool
	UseContractAssets    bool
	ArgsLength           int
	LocalsLength         int
	ReturnLength         int
	Code                 []Instr
	DebugCode            []Instr
}

// FieldLength is the scalar immutable/mutable field count of a contract
// (spec.md §3 "ContractBytecode", §8 property 5).
type FieldLength struct {
	Immutable int
	Mutable   int
}

// ContractBytecode is the §6.3 `StatefulContract` output shape: emitted
// only for concrete (non-abstract) contracts (spec.md §4.6).
type ContractBytecode struct {
	Name        string
	FieldLength FieldLength
	Methods     []*Method
}

// TemplateVar is one TxScript/AssetScript template-variable placeholder
// (spec.md §6.1/§6.3): substituted before signing/execution.
type TemplateVar struct {
	Name  string
	Type  string
	Index int
}

// Script is the §6.3 `StatefulScript` output shape for TxScript and
// AssetScript declarations.
type Script struct {
	Name         string
	Methods      []*Method
	TemplateVars []TemplateVar
}

// Wire format for Serialize/Deserialize (spec.md §8: "Round-trip:
// deserialize(serialize(c)) == c" is a universal testable property of
// StatefulContract/StatelessScript, and is not among spec.md's
// Non-goals). Grounded on the teacher pack's own bytecode serializer,
// _examples/CWBudde-go-dws/internal/bytecode/serializer.go: a magic
// number plus version header followed by length-prefixed fields,
// encoded with encoding/binary rather than a generic marshaler. spec.md
// §6.1 asks for "a stable set [of opcode values]... consistent across
// debug and production builds" — a property a binary format under our
// own control gives directly, and json.Marshal/gob would not (gob's
// wire format is tied to Go's own reflection and isn't a stable byte
// layout the implementer picks).
const (
	bytecodeMagic        = "RALC"
	bytecodeVersionMajor = uint8(1)
	bytecodeVersionMinor = uint8(0)
)

func writeHeader(w io.Writer) error {
	if _, err := w.Write([]byte(bytecodeMagic)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, bytecodeVersionMajor); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, bytecodeVersionMinor)
}

func readHeader(r io.Reader) error {
	magic := make([]byte, 4)
	if _, err := io.ReadFull(r, magic); err != nil {
		return fmt.Errorf("read magic: %w", err)
	}
	if string(magic) != bytecodeMagic {
		return fmt.Errorf("invalid bytecode magic: %q", magic)
	}
	var major, minor uint8
	if err := binary.Read(r, binary.LittleEndian, &major); err != nil {
		return err
	}
	if err := binary.Read(r, binary.LittleEndian, &minor); err != nil {
		return err
	}
	if major != bytecodeVersionMajor {
		return fmt.Errorf("incompatible bytecode version: have %d.%d, want %d.x", major, minor, bytecodeVersionMajor)
	}
	return nil
}

func writeString(w io.Writer, s string) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(s))); err != nil {
		return err
	}
	_, err := w.Write([]byte(s))
	return err
}

func readString(r io.Reader) (string, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

func writeByteSlice(w io.Writer, b []byte) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(b))); err != nil {
		return err
	}
	_, err := w.Write(b)
	return err
}

func readByteSlice(r io.Reader) ([]byte, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil // writeByteSlice writes nil and empty slices alike
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func writeBool(w io.Writer, b bool) error {
	var v uint8
	if b {
		v = 1
	}
	return binary.Write(w, binary.LittleEndian, v)
}

func readBool(r io.Reader) (bool, error) {
	var v uint8
	if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
		return false, err
	}
	return v != 0, nil
}

func writeInt(w io.Writer, n int) error {
	return binary.Write(w, binary.LittleEndian, int32(n))
}

func readInt(r io.Reader) (int, error) {
	var n int32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return 0, err
	}
	return int(n), nil
}

func writeInstr(w io.Writer, i Instr) error {
	if err := binary.Write(w, binary.LittleEndian, byte(i.Op)); err != nil {
		return err
	}
	for _, fn := range []func() error{
		func() error { return writeInt(w, i.Index) },
		func() error { return writeInt(w, i.Offset) },
		func() error { return writeByteSlice(w, i.Bytes) },
		func() error { return writeBool(w, i.Bool) },
		func() error { return writeString(w, i.Number) },
		func() error { return writeString(w, i.Name) },
		func() error { return writeString(w, i.Type) },
	} {
		if err := fn(); err != nil {
			return err
		}
	}
	return nil
}

func readInstr(r io.Reader) (Instr, error) {
	var op byte
	if err := binary.Read(r, binary.LittleEndian, &op); err != nil {
		return Instr{}, err
	}
	i := Instr{Op: Op(op)}
	var err error
	if i.Index, err = readInt(r); err != nil {
		return Instr{}, err
	}
	if i.Offset, err = readInt(r); err != nil {
		return Instr{}, err
	}
	if i.Bytes, err = readByteSlice(r); err != nil {
		return Instr{}, err
	}
	if i.Bool, err = readBool(r); err != nil {
		return Instr{}, err
	}
	if i.Number, err = readString(r); err != nil {
		return Instr{}, err
	}
	if i.Name, err = readString(r); err != nil {
		return Instr{}, err
	}
	if i.Type, err = readString(r); err != nil {
		return Instr{}, err
	}
	return i, nil
}

func writeCode(w io.Writer, code []Instr) error {
	if err := writeInt(w, len(code)); err != nil {
		return err
	}
	for _, instr := range code {
		if err := writeInstr(w, instr); err != nil {
			return err
		}
	}
	return nil
}

func readCode(r io.Reader) ([]Instr, error) {
	n, err := readInt(r)
	if err != nil {
		return nil, err
	}
	code := make([]Instr, n)
	for i := range code {
		if code[i], err = readInstr(r); err != nil {
			return nil, err
		}
	}
	return code, nil
}

func writeMethod(w io.Writer, m *Method) error {
	if err := writeString(w, m.Name); err != nil {
		return err
	}
	if err := writeBool(w, m.Public); err != nil {
		return err
	}
	if err := writeBool(w, m.UsePreapprovedAssets); err != nil {
		return err
	}
	if err := writeBool(w, m.UseContractAssets); err != nil {
		return err
	}
	if err := writeInt(w, m.ArgsLength); err != nil {
		return err
	}
	if err := writeInt(w, m.LocalsLength); err != nil {
		return err
	}
	if err := writeInt(w, m.ReturnLength); err != nil {
		return err
	}
	if err := writeCode(w, m.Code); err != nil {
		return err
	}
	return writeCode(w, m.DebugCode)
}

func readMethod(r io.Reader) (*Method, error) {
	m := &Method{}
	var err error
	if m.Name, err = readString(r); err != nil {
		return nil, err
	}
	if m.Public, err = readBool(r); err != nil {
		return nil, err
	}
	if m.UsePreapprovedAssets, err = readBool(r); err != nil {
		return nil, err
	}
	if m.UseContractAssets, err = readBool(r); err != nil {
		return nil, err
	}
	if m.ArgsLength, err = readInt(r); err != nil {
		return nil, err
	}
	if m.LocalsLength, err = readInt(r); err != nil {
		return nil, err
	}
	if m.ReturnLength, err = readInt(r); err != nil {
		return nil, err
	}
	if m.Code, err = readCode(r); err != nil {
		return nil, err
	}
	if m.DebugCode, err = readCode(r); err != nil {
		return nil, err
	}
	return m, nil
}

func writeMethods(w io.Writer, methods []*Method) error {
	if err := writeInt(w, len(methods)); err != nil {
		return err
	}
	for _, m := range methods {
		if err := writeMethod(w, m); err != nil {
			return err
		}
	}
	return nil
}

func readMethods(r io.Reader) ([]*Method, error) {
	n, err := readInt(r)
	if err != nil {
		return nil, err
	}
	methods := make([]*Method, n)
	for i := range methods {
		m, err := readMethod(r)
		if err != nil {
			return nil, err
		}
		methods[i] = m
	}
	return methods, nil
}

// Serialize encodes a ContractBytecode to this package's wire format.
func (c *ContractBytecode) Serialize() ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := writeHeader(buf); err != nil {
		return nil, err
	}
	if err := writeString(buf, c.Name); err != nil {
		return nil, err
	}
	if err := writeInt(buf, c.FieldLength.Immutable); err != nil {
		return nil, err
	}
	if err := writeInt(buf, c.FieldLength.Mutable); err != nil {
		return nil, err
	}
	if err := writeMethods(buf, c.Methods); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DeserializeContract decodes a ContractBytecode previously produced by
// (*ContractBytecode).Serialize, satisfying spec.md §8's round-trip
// property.
func DeserializeContract(data []byte) (*ContractBytecode, error) {
	r := bytes.NewReader(data)
	if err := readHeader(r); err != nil {
		return nil, err
	}
	c := &ContractBytecode{}
	var err error
	if c.Name, err = readString(r); err != nil {
		return nil, err
	}
	if c.FieldLength.Immutable, err = readInt(r); err != nil {
		return nil, err
	}
	if c.FieldLength.Mutable, err = readInt(r); err != nil {
		return nil, err
	}
	if c.Methods, err = readMethods(r); err != nil {
		return nil, err
	}
	return c, nil
}

// Serialize encodes a Script (TxScript/AssetScript output) the same way
// as ContractBytecode.
func (s *Script) Serialize() ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := writeHeader(buf); err != nil {
		return nil, err
	}
	if err := writeString(buf, s.Name); err != nil {
		return nil, err
	}
	if err := writeMethods(buf, s.Methods); err != nil {
		return nil, err
	}
	if err := writeInt(buf, len(s.TemplateVars)); err != nil {
		return nil, err
	}
	for _, tv := range s.TemplateVars {
		if err := writeString(buf, tv.Name); err != nil {
			return nil, err
		}
		if err := writeString(buf, tv.Type); err != nil {
			return nil, err
		}
		if err := writeInt(buf, tv.Index); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// DeserializeScript decodes a Script previously produced by
// (*Script).Serialize.
func DeserializeScript(data []byte) (*Script, error) {
	r := bytes.NewReader(data)
	if err := readHeader(r); err != nil {
		return nil, err
	}
	s := &Script{}
	var err error
	if s.Name, err = readString(r); err != nil {
		return nil, err
	}
	if s.Methods, err = readMethods(r); err != nil {
		return nil, err
	}
	n, err := readInt(r)
	if err != nil {
		return nil, err
	}
	s.TemplateVars = make([]TemplateVar, n)
	for i := range s.TemplateVars {
		if s.TemplateVars[i].Name, err = readString(r); err != nil {
			return nil, err
		}
		if s.TemplateVars[i].Type, err = readString(r); err != nil {
			return nil, err
		}
		if s.TemplateVars[i].Index, err = readInt(r); err != nil {
			return nil, err
		}
	}
	return s, nil
}
