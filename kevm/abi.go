package kevm

import (
	"github.com/baolean/evm-semantics/kast"
)

// Labels of the ABI and runtime-code symbols from the EVM semantics definition.
const (
	LabelABICalldata    = kast.Label("#abiCallData")
	LabelSelector       = kast.Label("selector")
	LabelBinRuntime     = kast.Label("#binRuntime")
	LabelParseByteStack = kast.Label("#parseByteStack")
	LabelLoc            = kast.Label("contract_access_loc")
)

// ABIType wraps a term in its ABI type constructor, e.g. abi_type_uint256(V0_x).
func ABIType(typeName string, term kast.Term) kast.Term {
	return kast.NewApply(kast.Label("abi_type_"+typeName), term)
}

// ABICalldata returns the term denoting the encoded calldata of a call to the named method with
// the given typed arguments.
func ABICalldata(name string, args []kast.Term) kast.Term {
	terms := make([]kast.Term, 0, len(args)+1)
	terms = append(terms, kast.StringToken(name))
	terms = append(terms, args...)
	return kast.NewApply(LabelABICalldata, terms...)
}

// ABISelector returns the term denoting the 4-byte selector of the given canonical signature.
func ABISelector(signature string) kast.Term {
	return kast.NewApply(LabelSelector, kast.StringToken(signature))
}

// BinRuntime returns the term denoting the deployed runtime bytecode of the given contract term.
func BinRuntime(contract kast.Term) kast.Term {
	return kast.NewApply(LabelBinRuntime, contract)
}

// ParseByteStack returns the term decoding a hex string token into a byte stack.
func ParseByteStack(hex string) kast.Term {
	return kast.NewApply(LabelParseByteStack, kast.StringToken(hex))
}

// Loc returns the term denoting the storage location of a contract field access.
func Loc(access kast.Term) kast.Term {
	return kast.NewApply(LabelLoc, access)
}
