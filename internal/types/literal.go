package types

import (
	"fmt"

	"github.com/holiman/uint256"
)

// U256Max is 2^256 - 1, built once from its hex form rather than via
// repeated shifts so every caller shares the same canonical value.
var U256Max = uint256.MustFromHex("0xffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff")

// I256 is two's-complement within a 256-bit word; holiman/uint256
// exposes the signed comparison/arithmetic primitives (SGT/SLT/SDiv/
// SMod) needed to treat the same Int type as a signed value, so Ralph's
// I256 doesn't need a second big-integer representation.
var i256MinMagnitude = new(uint256.Int).Lsh(uint256.NewInt(1), 255) // 2^255

// ParseU256Decimal validates that a decimal literal (without its `u`/`i`
// suffix) fits in U256, returning a parse error otherwise.
func ParseU256Decimal(lexeme string) (*uint256.Int, error) {
	v, err := uint256.FromDecimal(lexeme)
	if err != nil {
		return nil, fmt.Errorf("invalid U256 literal %q: %w", lexeme, err)
	}
	return v, nil
}

// ParseI256Decimal validates range for a (possibly negated, handled by
// the caller via UnaryExpr) I256 literal. The magnitude must fit within
// [0, 2^255] — exactly at 2^255 only when negative (I256's minimum).
func ParseI256Decimal(lexeme string, negative bool) (*uint256.Int, error) {
	mag, err := uint256.FromDecimal(lexeme)
	if err != nil {
		return nil, fmt.Errorf("invalid I256 literal %q: %w", lexeme, err)
	}
	if negative {
		if mag.Gt(i256MinMagnitude) {
			return nil, fmt.Errorf("I256 literal %q out of range (min -2^255)", lexeme)
		}
		return new(uint256.Int).Sub(new(uint256.Int), mag), nil
	}
	maxMagnitude := new(uint256.Int).Sub(i256MinMagnitude, uint256.NewInt(1))
	if mag.Gt(maxMagnitude) {
		return nil, fmt.Errorf("I256 literal %q out of range (max 2^255-1)", lexeme)
	}
	return mag, nil
}

// ParseHexBytes validates a `#hex` byte-string literal has an even
// number of hex digits (whole bytes) and returns the decoded length.
func ParseHexBytes(hex string) (int, error) {
	if len(hex)%2 != 0 {
		return 0, fmt.Errorf("byte-string literal %q has an odd number of hex digits", hex)
	}
	return len(hex) / 2, nil
}

// FoldBinaryU256 evaluates `a OP b` for the constant-folding pass
// described in spec.md §4.4: "expressions used as array indices are
// folded over + - * / % << >> & | ^ on literal U256 operands only".
// ok is false for an unsupported operator or a division/mod by zero.
func FoldBinaryU256(op string, a, b *uint256.Int) (result *uint256.Int, ok bool) {
	z := new(uint256.Int)
	switch op {
	case "+":
		return z.Add(a, b), true
	case "-":
		return z.Sub(a, b), true
	case "*":
		return z.Mul(a, b), true
	case "/":
		if b.IsZero() {
			return nil, false
		}
		return z.Div(a, b), true
	case "%":
		if b.IsZero() {
			return nil, false
		}
		return z.Mod(a, b), true
	case "<<":
		return z.Lsh(a, uint(b.Uint64())), true
	case ">>":
		return z.Rsh(a, uint(b.Uint64())), true
	case "&":
		return z.And(a, b), true
	case "|":
		return z.Or(a, b), true
	case "^":
		return z.Xor(a, b), true
	default:
		return nil, false
	}
}
