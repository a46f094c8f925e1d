// Package types models Ralph's static type system: the five primitive
// scalar types, fixed-size (possibly nested) arrays, tuples, and
// contract/interface reference types (spec.md §3, §4.2).
package types

import "fmt"

// Kind discriminates the shape of a Type without a full type switch.
type Kind int

const (
	KindInvalid Kind = iota
	KindU256
	KindI256
	KindBool
	KindByteVec
	KindAddress
	KindArray
	KindTuple
	KindContractRef
	KindVoid // the unit return type `()`
)

// Type is the single representation every component agrees on: the
// checker produces it, codegen consumes it for slot-width computation.
type Type struct {
	Kind Kind

	// KindArray
	Elem *Type
	Size int

	// KindTuple
	Elements []*Type

	// KindContractRef
	ContractName string
}

var (
	U256    = &Type{Kind: KindU256}
	I256    = &Type{Kind: KindI256}
	Bool    = &Type{Kind: KindBool}
	ByteVec = &Type{Kind: KindByteVec}
	Address = &Type{Kind: KindAddress}
	Void    = &Type{Kind: KindVoid}
	Invalid = &Type{Kind: KindInvalid}
)

func Array(elem *Type, size int) *Type {
	return &Type{Kind: KindArray, Elem: elem, Size: size}
}

func Tuple(elements ...*Type) *Type {
	if len(elements) == 1 {
		return elements[0]
	}
	return &Type{Kind: KindTuple, Elements: elements}
}

func ContractRef(name string) *Type {
	return &Type{Kind: KindContractRef, ContractName: name}
}

// IsNumeric reports whether the type supports arithmetic operators.
func (t *Type) IsNumeric() bool {
	return t != nil && (t.Kind == KindU256 || t.Kind == KindI256)
}

// Equal is Ralph's strict type-equality rule (spec.md §4.2: arithmetic
// and comparison operators require the *same* scalar type — no
// implicit widening/promotion, unlike the reference language).
func (t *Type) Equal(other *Type) bool {
	if t == nil || other == nil {
		return t == other
	}
	if t.Kind != other.Kind {
		return false
	}
	switch t.Kind {
	case KindArray:
		return t.Size == other.Size && t.Elem.Equal(other.Elem)
	case KindTuple:
		if len(t.Elements) != len(other.Elements) {
			return false
		}
		for i := range t.Elements {
			if !t.Elements[i].Equal(other.Elements[i]) {
				return false
			}
		}
		return true
	case KindContractRef:
		return t.ContractName == other.ContractName
	default:
		return true
	}
}

func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.Kind {
	case KindU256:
		return "U256"
	case KindI256:
		return "I256"
	case KindBool:
		return "Bool"
	case KindByteVec:
		return "ByteVec"
	case KindAddress:
		return "Address"
	case KindVoid:
		return "()"
	case KindArray:
		return fmt.Sprintf("[%s; %d]", t.Elem, t.Size)
	case KindTuple:
		s := "("
		for i, e := range t.Elements {
			if i > 0 {
				s += ", "
			}
			s += e.String()
		}
		return s + ")"
	case KindContractRef:
		return t.ContractName
	default:
		return "<invalid>"
	}
}

// ScalarSlotCount is the number of flat scalar stack slots a value of
// this type occupies once arrays are flattened in row-major order
// (spec.md §4.5: "Arrays are flattened into consecutive scalar slots").
func (t *Type) ScalarSlotCount() int {
	if t == nil {
		return 0
	}
	switch t.Kind {
	case KindArray:
		return t.Size * t.Elem.ScalarSlotCount()
	case KindTuple:
		n := 0
		for _, e := range t.Elements {
			n += e.ScalarSlotCount()
		}
		return n
	case KindVoid:
		return 0
	default:
		return 1
	}
}

// FromName resolves a bare primitive/contract-reference type name.
// Arrays and tuples are constructed directly by the parser/checker from
// ast.TypeExpr, not looked up by name.
func FromName(name string, knownContracts map[string]bool) *Type {
	switch name {
	case "U256":
		return U256
	case "I256":
		return I256
	case "Bool":
		return Bool
	case "ByteVec":
		return ByteVec
	case "Address":
		return Address
	default:
		if knownContracts != nil && knownContracts[name] {
			return ContractRef(name)
		}
		return Invalid
	}
}
