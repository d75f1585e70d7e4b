package kevm

import (
	"testing"

	"github.com/baolean/evm-semantics/kast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBaseSortIntegers verifies that address, bool and the supported fixed-width types all map
// to the integer sort.
func TestBaseSortIntegers(t *testing.T) {
	t.Parallel()

	for _, typeName := range []string{"address", "bool", "bytes4", "bytes32", "int256", "uint8", "uint128", "uint256"} {
		sort, err := BaseSort(typeName, nil)
		require.NoError(t, err, "type %s should be supported", typeName)
		assert.Equal(t, kast.SortInt, sort, "type %s should map to the integer sort", typeName)
	}
}

// TestBaseSortDedicatedSorts verifies that dynamic bytes and string map to their own sorts.
func TestBaseSortDedicatedSorts(t *testing.T) {
	t.Parallel()

	sort, err := BaseSort("bytes", nil)
	require.NoError(t, err)
	assert.Equal(t, kast.SortBytes, sort)

	sort, err = BaseSort("string", nil)
	require.NoError(t, err)
	assert.Equal(t, kast.SortString, sort)
}

// TestBaseSortUnsupportedWidths verifies that malformed fixed-width types are a hard error, as
// they indicate a toolchain/ABI mismatch.
func TestBaseSortUnsupportedWidths(t *testing.T) {
	t.Parallel()

	for _, typeName := range []string{"bytes8", "bytes31", "int128", "int8", "uint9", "uint0", "uint264"} {
		_, err := BaseSort(typeName, nil)
		require.Error(t, err, "type %s should not be supported", typeName)

		var unsupported *UnsupportedTypeError
		require.ErrorAs(t, err, &unsupported)
		assert.Equal(t, typeName, unsupported.TypeName)
	}
}

// TestBaseSortGenericFallback verifies that unknown or complex types fall back to the generic
// sort without failing.
func TestBaseSortGenericFallback(t *testing.T) {
	t.Parallel()

	for _, typeName := range []string{"tuple", "uint256[2]", "int256[]", "bytes32[4]", "function"} {
		sort, err := BaseSort(typeName, nil)
		require.NoError(t, err, "type %s should fall back, not fail", typeName)
		assert.Equal(t, kast.SortK, sort, "type %s should map to the generic sort", typeName)
	}
}
