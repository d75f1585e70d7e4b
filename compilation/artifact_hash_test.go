package compilation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestHashArtifactDeterministic verifies that hashing the same name and content twice yields
// the same digest.
func TestHashArtifactDeterministic(t *testing.T) {
	t.Parallel()

	raw := json.RawMessage(`{"abi": [], "id": 1}`)
	first, err := HashArtifact("Token", raw)
	require.NoError(t, err)
	second, err := HashArtifact("Token", raw)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, first, 64, "digest should be a hex-encoded 256-bit hash")
}

// TestHashArtifactKeyOrderIndependent verifies that the digest depends only on JSON content,
// not on the key order the compiler happened to emit.
func TestHashArtifactKeyOrderIndependent(t *testing.T) {
	t.Parallel()

	first, err := HashArtifact("Token", json.RawMessage(`{"abi": [], "id": 1}`))
	require.NoError(t, err)
	second, err := HashArtifact("Token", json.RawMessage(`{"id": 1, "abi": []}`))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

// TestHashArtifactContentSensitive verifies that the digest changes when either the contract
// name or any part of the artifact content changes.
func TestHashArtifactContentSensitive(t *testing.T) {
	t.Parallel()

	base, err := HashArtifact("Token", json.RawMessage(`{"id": 1}`))
	require.NoError(t, err)

	renamed, err := HashArtifact("Token2", json.RawMessage(`{"id": 1}`))
	require.NoError(t, err)
	assert.NotEqual(t, base, renamed)

	modified, err := HashArtifact("Token", json.RawMessage(`{"id": 2}`))
	require.NoError(t, err)
	assert.NotEqual(t, base, modified)
}

// TestHashArtifactMalformedJSON verifies that unparseable artifact JSON fails rather than
// hashing raw bytes.
func TestHashArtifactMalformedJSON(t *testing.T) {
	t.Parallel()

	_, err := HashArtifact("Token", json.RawMessage(`{not json`))
	assert.Error(t, err)
}
