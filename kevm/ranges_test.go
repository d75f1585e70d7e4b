package kevm

import (
	"fmt"
	"math/big"
	"testing"

	"github.com/baolean/evm-semantics/kast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// checkInt evaluates a predicate against a single integer binding for the variable V.
func checkInt(t *testing.T, pred kast.Term, value *big.Int) bool {
	t.Helper()
	ok, err := CheckPredicate(pred, Env{Ints: map[string]*big.Int{"V": value}})
	require.NoError(t, err)
	return ok
}

// TestRangePredicateUIntWidths verifies that for every supported uintN width, the generated
// predicate accepts exactly the integers in [0, 2^N - 1] and rejects 2^N and -1.
func TestRangePredicateUIntWidths(t *testing.T) {
	t.Parallel()

	variable := kast.NewVariable("V")
	for width := 8; width <= 256; width += 8 {
		pred, ok, err := RangePredicate(variable, fmt.Sprintf("uint%d", width), nil)
		require.NoError(t, err)
		require.True(t, ok, "uint%d should yield a predicate", width)

		max := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(width)), big.NewInt(1))
		assert.True(t, checkInt(t, pred, big.NewInt(0)), "uint%d should accept 0", width)
		assert.True(t, checkInt(t, pred, max), "uint%d should accept its maximum", width)
		assert.False(t, checkInt(t, pred, new(big.Int).Add(max, big.NewInt(1))), "uint%d should reject 2^%d", width, width)
		assert.False(t, checkInt(t, pred, big.NewInt(-1)), "uint%d should reject -1", width)
	}
}

// TestRangePredicateInt256 verifies the signed 256-bit range [-2^255, 2^255 - 1].
func TestRangePredicateInt256(t *testing.T) {
	t.Parallel()

	pred, ok, err := RangePredicate(kast.NewVariable("V"), "int256", nil)
	require.NoError(t, err)
	require.True(t, ok)

	half := new(big.Int).Lsh(big.NewInt(1), 255)
	min := new(big.Int).Neg(half)
	max := new(big.Int).Sub(half, big.NewInt(1))

	assert.True(t, checkInt(t, pred, min))
	assert.True(t, checkInt(t, pred, max))
	assert.True(t, checkInt(t, pred, big.NewInt(0)))
	assert.False(t, checkInt(t, pred, half))
	assert.False(t, checkInt(t, pred, new(big.Int).Sub(min, big.NewInt(1))))
}

// TestRangePredicateAddress verifies the 160-bit address range.
func TestRangePredicateAddress(t *testing.T) {
	t.Parallel()

	pred, ok, err := RangePredicate(kast.NewVariable("V"), "address", nil)
	require.NoError(t, err)
	require.True(t, ok)

	max := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 160), big.NewInt(1))
	assert.True(t, checkInt(t, pred, max))
	assert.False(t, checkInt(t, pred, new(big.Int).Add(max, big.NewInt(1))))
}

// TestRangePredicateBool verifies that the bool predicate accepts exactly 0 and 1.
func TestRangePredicateBool(t *testing.T) {
	t.Parallel()

	pred, ok, err := RangePredicate(kast.NewVariable("V"), "bool", nil)
	require.NoError(t, err)
	require.True(t, ok)

	assert.True(t, checkInt(t, pred, big.NewInt(0)))
	assert.True(t, checkInt(t, pred, big.NewInt(1)))
	assert.False(t, checkInt(t, pred, big.NewInt(2)))
	assert.False(t, checkInt(t, pred, big.NewInt(-1)))
}

// TestRangePredicateBytes4 verifies the packed 4-byte range.
func TestRangePredicateBytes4(t *testing.T) {
	t.Parallel()

	pred, ok, err := RangePredicate(kast.NewVariable("V"), "bytes4", nil)
	require.NoError(t, err)
	require.True(t, ok)

	max := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 32), big.NewInt(1))
	assert.True(t, checkInt(t, pred, max))
	assert.False(t, checkInt(t, pred, new(big.Int).Add(max, big.NewInt(1))))
}

// TestRangePredicateDynamicBytes verifies that a dynamic bytes value is constrained only by its
// length, which must lie in the unsigned 128-bit range.
func TestRangePredicateDynamicBytes(t *testing.T) {
	t.Parallel()

	pred, ok, err := RangePredicate(kast.NewVariable("V"), "bytes", nil)
	require.NoError(t, err)
	require.True(t, ok)

	// The predicate constrains lengthBytes(V), not V itself.
	assert.Equal(t, RangeUInt(128, SizeBytes(kast.NewVariable("V"))), pred)

	accepted, err := CheckPredicate(pred, Env{Bytes: map[string][]byte{"V": {0xde, 0xad, 0xbe, 0xef}}})
	require.NoError(t, err)
	assert.True(t, accepted)
}

// TestRangePredicateString verifies that string values are unconstrained.
func TestRangePredicateString(t *testing.T) {
	t.Parallel()

	pred, ok, err := RangePredicate(kast.NewVariable("V"), "string", nil)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, kast.Term(kast.True), pred)
}

// TestRangePredicateUnknownType verifies that an unknown type yields no predicate without
// failing; the caller must skip calldata sugar instead.
func TestRangePredicateUnknownType(t *testing.T) {
	t.Parallel()

	pred, ok, err := RangePredicate(kast.NewVariable("V"), "tuple", nil)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, pred)
}

// TestRangePredicateUnsupportedWidth verifies that a uint width which is not a multiple of 8 is
// a fatal error.
func TestRangePredicateUnsupportedWidth(t *testing.T) {
	t.Parallel()

	_, _, err := RangePredicate(kast.NewVariable("V"), "uint9", nil)
	require.Error(t, err)

	var unsupported *UnsupportedTypeError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "uint9", unsupported.TypeName)
}

// TestCheckPredicateConjunction verifies conjunction evaluation over multiple bindings.
func TestCheckPredicateConjunction(t *testing.T) {
	t.Parallel()

	pred := kast.AndBool([]kast.Term{
		RangeUInt(8, kast.NewVariable("A")),
		RangeBool(kast.NewVariable("B")),
	})

	env := Env{Ints: map[string]*big.Int{"A": big.NewInt(255), "B": big.NewInt(1)}}
	ok, err := CheckPredicate(pred, env)
	require.NoError(t, err)
	assert.True(t, ok)

	env.Ints["A"] = big.NewInt(256)
	ok, err = CheckPredicate(pred, env)
	require.NoError(t, err)
	assert.False(t, ok)
}

// TestCheckPredicateUnboundVariable verifies that evaluation surfaces unbound variables.
func TestCheckPredicateUnboundVariable(t *testing.T) {
	t.Parallel()

	_, err := CheckPredicate(RangeBool(kast.NewVariable("V")), Env{})
	require.Error(t, err)
}
