package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseSourceMapCarryForward verifies per-field delta decoding: an empty segment inherits
// the previous element entirely, and a later segment overrides only the fields it spells out.
func TestParseSourceMapCarryForward(t *testing.T) {
	t.Parallel()

	sourceMap, err := ParseSourceMap("1:2:0;;3:4:1")
	require.NoError(t, err)
	require.Len(t, sourceMap, 3)

	assert.Equal(t, SourceMapElement{Index: 0, Offset: 1, Length: 2, FileID: 0}, sourceMap[0])
	assert.Equal(t, SourceMapElement{Index: 1, Offset: 1, Length: 2, FileID: 0}, sourceMap[1])
	assert.Equal(t, SourceMapElement{Index: 2, Offset: 3, Length: 4, FileID: 1}, sourceMap[2])
}

// TestParseSourceMapPartialFields verifies that a segment with some fields left empty inherits
// exactly those fields, including jump type and modifier depth.
func TestParseSourceMapPartialFields(t *testing.T) {
	t.Parallel()

	sourceMap, err := ParseSourceMap("0:5:0:-:0;10::1:i;:7")
	require.NoError(t, err)
	require.Len(t, sourceMap, 3)

	assert.Equal(t, SourceMapElement{
		Index: 0, Offset: 0, Length: 5, FileID: 0,
		JumpType: SourceMapJumpTypeJumpWithin,
	}, sourceMap[0])

	// Length is inherited; offset, file and jump type are overridden.
	assert.Equal(t, SourceMapElement{
		Index: 1, Offset: 10, Length: 5, FileID: 1,
		JumpType: SourceMapJumpTypeJumpIn,
	}, sourceMap[1])

	// Only length is overridden.
	assert.Equal(t, SourceMapElement{
		Index: 2, Offset: 10, Length: 7, FileID: 1,
		JumpType: SourceMapJumpTypeJumpIn,
	}, sourceMap[2])
}

// TestParseSourceMapEmpty verifies that an empty source map string yields an empty map rather
// than an error; compilers legitimately omit source maps.
func TestParseSourceMapEmpty(t *testing.T) {
	t.Parallel()

	sourceMap, err := ParseSourceMap("")
	require.NoError(t, err)
	assert.Empty(t, sourceMap)
}

// TestParseSourceMapMalformed verifies that a non-numeric field surfaces as an error.
func TestParseSourceMapMalformed(t *testing.T) {
	t.Parallel()

	_, err := ParseSourceMap("1:x:0")
	assert.Error(t, err)
}
