package compilation

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// SolcOutput is the typed subset of a solc standard-json compiler output this core consumes:
// per-source contract objects plus the source-unit entries carrying ids and ASTs.
type SolcOutput struct {
	// Version is the compiler version string, when the output carries one.
	Version string `json:"version,omitempty"`

	// Contracts maps source file name to contract name to the raw contract artifact object.
	Contracts map[string]map[string]json.RawMessage `json:"contracts"`

	// Sources maps source file name to the raw source-unit entry.
	Sources map[string]json.RawMessage `json:"sources"`
}

// ParseSolcOutput parses a full solc standard-json output document.
func ParseSolcOutput(data []byte) (*SolcOutput, error) {
	var output SolcOutput
	if err := json.Unmarshal(data, &output); err != nil {
		return nil, errors.Wrap(err, "could not parse solc output")
	}
	return &output, nil
}

// ExtractContractArtifact returns the raw artifact object of the named contract. Standard-json
// output places the source-unit id and AST on the source entry rather than the contract object,
// so both keys are merged into the returned object when the contract entry lacks them.
func (o *SolcOutput) ExtractContractArtifact(sourceName string, contractName string) (json.RawMessage, error) {
	sourceContracts, ok := o.Contracts[sourceName]
	if !ok {
		return nil, errors.Errorf("no compiled contracts for source %q", sourceName)
	}
	raw, ok := sourceContracts[contractName]
	if !ok {
		return nil, errors.Errorf("no compiled contract %q in source %q", contractName, sourceName)
	}

	var contractObj map[string]any
	if err := json.Unmarshal(raw, &contractObj); err != nil {
		return nil, errors.Wrapf(err, "could not parse contract object %q", contractName)
	}

	if sourceRaw, ok := o.Sources[sourceName]; ok {
		var sourceObj map[string]any
		if err := json.Unmarshal(sourceRaw, &sourceObj); err != nil {
			return nil, errors.Wrapf(err, "could not parse source entry %q", sourceName)
		}
		for _, key := range []string{"id", "ast"} {
			if _, has := contractObj[key]; !has {
				if value, ok := sourceObj[key]; ok {
					contractObj[key] = value
				}
			}
		}
	}

	merged, err := json.Marshal(contractObj)
	if err != nil {
		return nil, errors.Wrapf(err, "could not re-encode contract object %q", contractName)
	}
	return merged, nil
}
