package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseContractArtifact verifies parsing of a standard-json contract artifact into the
// typed schema.
func TestParseContractArtifact(t *testing.T) {
	t.Parallel()

	raw := json.RawMessage(`{
		"id": 7,
		"ast": {"absolutePath": "src/Token.sol"},
		"abi": [
			{
				"type": "function",
				"name": "transfer",
				"stateMutability": "nonpayable",
				"inputs": [
					{"name": "to", "type": "address"},
					{"name": "amount", "type": "uint256"}
				]
			}
		],
		"evm": {
			"deployedBytecode": {"object": "0x6000600055", "sourceMap": "0:5:0:-:0;;"},
			"methodIdentifiers": {"transfer(address,uint256)": "a9059cbb"}
		},
		"storageLayout": {
			"storage": [{"label": "balance", "slot": "0"}]
		}
	}`)

	artifact, err := ParseContractArtifact(raw)
	require.NoError(t, err)

	assert.Equal(t, 7, artifact.ID)
	assert.Equal(t, "src/Token.sol", artifact.AST.AbsolutePath)
	require.Len(t, artifact.ABI, 1)
	assert.Equal(t, "transfer", artifact.ABI[0].Name)
	require.Len(t, artifact.ABI[0].Inputs, 2)
	assert.Equal(t, "address", artifact.ABI[0].Inputs[0].Type)
	assert.Equal(t, "a9059cbb", artifact.EVM.MethodIdentifiers["transfer(address,uint256)"])
	require.NotNil(t, artifact.StorageLayout)
	assert.Equal(t, "balance", artifact.StorageLayout.Storage[0].Label)
}

// TestParseFoundryContractArtifact verifies that foundry artifacts, which hoist the EVM output
// sections to the top level, normalize into the same typed schema.
func TestParseFoundryContractArtifact(t *testing.T) {
	t.Parallel()

	raw := json.RawMessage(`{
		"id": 3,
		"ast": {"absolutePath": "test/Token.t.sol"},
		"abi": [{"type": "function", "name": "setUp", "inputs": []}],
		"deployedBytecode": {"object": "0x00"},
		"methodIdentifiers": {"setUp()": "0a9254e4"}
	}`)

	artifact, err := ParseFoundryContractArtifact(raw)
	require.NoError(t, err)

	assert.Equal(t, 3, artifact.ID)
	assert.Equal(t, "test/Token.t.sol", artifact.AST.AbsolutePath)
	assert.Equal(t, "0x00", artifact.EVM.DeployedBytecode.Object)
	assert.Equal(t, "0a9254e4", artifact.EVM.MethodIdentifiers["setUp()"])
	assert.Nil(t, artifact.StorageLayout)
}

// TestDecodeBytecode verifies hex decoding with and without the 0x prefix.
func TestDecodeBytecode(t *testing.T) {
	t.Parallel()

	artifact := &ContractArtifact{}
	artifact.EVM.DeployedBytecode.Object = "0x6000600055"
	decoded, err := artifact.DecodeBytecode()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x60, 0x00, 0x60, 0x00, 0x55}, decoded)

	artifact.EVM.DeployedBytecode.Object = "6000"
	decoded, err = artifact.DecodeBytecode()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x60, 0x00}, decoded)

	artifact.EVM.DeployedBytecode.Object = "not-hex"
	_, err = artifact.DecodeBytecode()
	assert.Error(t, err)
}

// TestStorageEntrySlotNumber verifies decimal slot parsing and its failure mode.
func TestStorageEntrySlotNumber(t *testing.T) {
	t.Parallel()

	slot, err := StorageEntry{Label: "owner", Slot: "2"}.SlotNumber()
	require.NoError(t, err)
	assert.Equal(t, 2, slot)

	_, err = StorageEntry{Label: "owner", Slot: "two"}.SlotNumber()
	assert.Error(t, err)
}
