package contracts

import (
	"fmt"
)

// MissingSelectorError indicates that a computed canonical signature has no entry in the
// compiler-provided method-identifier table. This is an artifact inconsistency, fatal for the
// affected contract's model.
type MissingSelectorError struct {
	// ContractName is the contract whose load failed.
	ContractName string

	// Signature is the canonical signature with no matching selector.
	Signature string
}

func (e *MissingSelectorError) Error() string {
	return fmt.Sprintf("contract %s: no method identifier found for signature %s", e.ContractName, e.Signature)
}
