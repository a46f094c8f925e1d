package types

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/holiman/uint256"
)

func TestScalarSlotCountFlattensArrays(t *testing.T) {
	nested := Array(Array(U256, 3), 2) // [[U256; 3]; 2]
	assert.Equal(t, 6, nested.ScalarSlotCount())
}

func TestScalarSlotCountTuple(t *testing.T) {
	tup := Tuple(U256, Bool, Array(U256, 2))
	assert.Equal(t, 4, tup.ScalarSlotCount())
}

func TestStrictEqualityNoPromotion(t *testing.T) {
	assert.True(t, U256.Equal(U256))
	assert.False(t, U256.Equal(I256), "Ralph forbids numeric promotion across U256/I256")
}

func TestParseU256DecimalRejectsOverflow(t *testing.T) {
	_, err := ParseU256Decimal("115792089237316195423570985008687907853269984665640564039457584007913129639936") // 2^256
	assert.Error(t, err)
}

func TestParseI256DecimalRangeBoundary(t *testing.T) {
	_, err := ParseI256Decimal("57896044618658097711785492504343953926634992332820282019728792003956564819968", true) // 2^255
	assert.NoError(t, err)
	_, err = ParseI256Decimal("57896044618658097711785492504343953926634992332820282019728792003956564819968", false) // 2^255, positive is out of range
	assert.Error(t, err)
}

func TestFoldBinaryU256(t *testing.T) {
	a := uint256.NewInt(10)
	b := uint256.NewInt(3)
	result, ok := FoldBinaryU256("+", a, b)
	assert.True(t, ok)
	assert.Equal(t, uint256.NewInt(13), result)

	_, ok = FoldBinaryU256("/", a, uint256.NewInt(0))
	assert.False(t, ok, "division by zero should not fold")
}

func TestParseHexBytesRejectsOddLength(t *testing.T) {
	_, err := ParseHexBytes("abc")
	assert.Error(t, err)
	n, err := ParseHexBytes("deadbeef")
	assert.NoError(t, err)
	assert.Equal(t, 4, n)
}
