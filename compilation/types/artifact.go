package types

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ContractArtifact is the typed subset of a compiler-produced contract artifact the model core
// consumes: ABI entries, deployed bytecode, source map, method-identifier table and storage
// layout. It is validated and converted once at the boundary, before any decoding logic runs.
type ContractArtifact struct {
	// ID is the numeric identifier the compiler assigned to the contract's source unit.
	ID int `json:"id"`

	// AST carries the source-unit metadata the model needs, currently just the source path.
	AST ArtifactAST `json:"ast"`

	// ABI is the ordered list of interface descriptors emitted by the compiler.
	ABI []ABIEntry `json:"abi"`

	// EVM holds the compiler's EVM output: deployed bytecode and the method-identifier table.
	EVM ArtifactEVM `json:"evm"`

	// StorageLayout optionally describes the contract's storage variables and their slots.
	StorageLayout *StorageLayout `json:"storageLayout,omitempty"`
}

// ArtifactAST describes the source-unit AST header of a contract artifact.
type ArtifactAST struct {
	// AbsolutePath is the path of the source file the contract was compiled from.
	AbsolutePath string `json:"absolutePath"`
}

// ABIEntry describes one descriptor of a contract's application binary interface.
type ABIEntry struct {
	// Type is the descriptor kind, e.g. "function", "event", "constructor".
	Type string `json:"type"`

	// Name is the declared name; empty for constructor/fallback/receive descriptors.
	Name string `json:"name,omitempty"`

	// Inputs are the declared parameters, in declaration order. Order is semantically
	// meaningful for calldata encoding and must be preserved.
	Inputs []ABIParameter `json:"inputs,omitempty"`

	// StateMutability is the declared mutability flag, e.g. "payable", "view".
	StateMutability string `json:"stateMutability,omitempty"`
}

// ABIParameter describes a single (possibly nested) parameter of an ABI descriptor.
type ABIParameter struct {
	// Name is the declared parameter name; may be empty.
	Name string `json:"name"`

	// Type is the canonical type string, e.g. "uint256", "tuple[2]", "(...)[]" bases are
	// spelled "tuple" with the element types carried in Components.
	Type string `json:"type"`

	// Components holds the element types of a tuple parameter, recursively.
	Components []ABIParameter `json:"components,omitempty"`
}

// ArtifactEVM describes the EVM output section of a contract artifact.
type ArtifactEVM struct {
	// DeployedBytecode is the runtime bytecode section, including its source map.
	DeployedBytecode DeployedBytecode `json:"deployedBytecode"`

	// MethodIdentifiers maps each canonical method signature to its hex-encoded 4-byte
	// selector, as computed by the compiler.
	MethodIdentifiers map[string]string `json:"methodIdentifiers"`
}

// DeployedBytecode describes the runtime bytecode of a compiled contract.
type DeployedBytecode struct {
	// Object is the hex-encoded runtime bytecode, optionally 0x-prefixed.
	Object string `json:"object"`

	// SourceMap is the delta-encoded instruction source map; empty when the compiler did not
	// emit one, which is not an error.
	SourceMap string `json:"sourceMap,omitempty"`
}

// StorageLayout describes the storage section of a contract artifact.
type StorageLayout struct {
	// Storage is the ordered list of storage variable entries.
	Storage []StorageEntry `json:"storage"`
}

// StorageEntry describes a single storage variable of a contract.
type StorageEntry struct {
	// Label is the declared variable name.
	Label string `json:"label"`

	// Slot is the storage slot index. The compiler emits it as a decimal string.
	Slot string `json:"slot"`
}

// SlotNumber parses the entry's slot index.
func (e StorageEntry) SlotNumber() (int, error) {
	slot, err := strconv.Atoi(e.Slot)
	if err != nil {
		return 0, fmt.Errorf("could not parse storage slot %q for label %q: %v", e.Slot, e.Label, err)
	}
	return slot, nil
}

// ParseContractArtifact validates and converts a raw contract artifact JSON object into the
// typed schema, rejecting malformed input before any decoding logic runs.
func ParseContractArtifact(data json.RawMessage) (*ContractArtifact, error) {
	var artifact ContractArtifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("could not parse contract artifact: %v", err)
	}
	return &artifact, nil
}

// foundryArtifact mirrors ContractArtifact for foundry-produced artifacts, which hoist the EVM
// output sections to the top level of the contract object.
type foundryArtifact struct {
	ID                int               `json:"id"`
	AST               ArtifactAST       `json:"ast"`
	ABI               []ABIEntry        `json:"abi"`
	DeployedBytecode  DeployedBytecode  `json:"deployedBytecode"`
	MethodIdentifiers map[string]string `json:"methodIdentifiers"`
	StorageLayout     *StorageLayout    `json:"storageLayout,omitempty"`
}

// ParseFoundryContractArtifact validates and converts a raw foundry-shaped contract artifact
// into the typed schema.
func ParseFoundryContractArtifact(data json.RawMessage) (*ContractArtifact, error) {
	var artifact foundryArtifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("could not parse foundry contract artifact: %v", err)
	}
	return &ContractArtifact{
		ID:  artifact.ID,
		AST: artifact.AST,
		ABI: artifact.ABI,
		EVM: ArtifactEVM{
			DeployedBytecode:  artifact.DeployedBytecode,
			MethodIdentifiers: artifact.MethodIdentifiers,
		},
		StorageLayout: artifact.StorageLayout,
	}, nil
}

// DecodeBytecode decodes the artifact's runtime bytecode hex string, stripping any 0x prefix.
func (a *ContractArtifact) DecodeBytecode() ([]byte, error) {
	decoded, err := hex.DecodeString(strings.TrimPrefix(a.EVM.DeployedBytecode.Object, "0x"))
	if err != nil {
		return nil, fmt.Errorf("could not decode deployed bytecode: %v", err)
	}
	return decoded, nil
}
