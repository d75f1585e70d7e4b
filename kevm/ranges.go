package kevm

import (
	"strconv"
	"strings"

	"github.com/baolean/evm-semantics/kast"
	"github.com/baolean/evm-semantics/logging"
)

// Labels of the range-predicate and byte-length symbols from the EVM semantics definition.
const (
	LabelRangeUInt    = kast.Label("#rangeUInt")
	LabelRangeSInt    = kast.Label("#rangeSInt")
	LabelRangeAddress = kast.Label("#rangeAddress")
	LabelRangeBool    = kast.Label("#rangeBool")
	LabelRangeBytes   = kast.Label("#rangeBytes")
	LabelLengthBytes  = kast.Label("lengthBytes")
)

// RangeUInt returns the constraint that term is an unsigned integer of the given bit-width.
func RangeUInt(width int, term kast.Term) kast.Term {
	return kast.NewApply(LabelRangeUInt, kast.NewIntToken(int64(width)), term)
}

// RangeSInt returns the constraint that term is a two's-complement signed integer of the given
// bit-width.
func RangeSInt(width int, term kast.Term) kast.Term {
	return kast.NewApply(LabelRangeSInt, kast.NewIntToken(int64(width)), term)
}

// RangeAddress returns the constraint that term is representable as a 160-bit account address.
func RangeAddress(term kast.Term) kast.Term {
	return kast.NewApply(LabelRangeAddress, term)
}

// RangeBool returns the constraint that term is a boolean value, i.e. 0 or 1.
func RangeBool(term kast.Term) kast.Term {
	return kast.NewApply(LabelRangeBool, term)
}

// RangeBytes returns the constraint that term is a packed byte-string of exactly the given
// byte-width.
func RangeBytes(width int, term kast.Term) kast.Term {
	return kast.NewApply(LabelRangeBytes, kast.NewIntToken(int64(width)), term)
}

// SizeBytes returns the term denoting the byte-length of a Bytes-sorted term.
func SizeBytes(term kast.Term) kast.Term {
	return kast.NewApply(LabelLengthBytes, term)
}

// RangePredicate derives the symbolic constraint the given term must satisfy to be a valid value
// of the given ABI type. When no predicate is available for the type, it returns ok == false with
// no error; this is a degraded-but-valid outcome the caller must treat as "skip calldata sugar",
// not as a failure. Unsupported fixed widths return an UnsupportedTypeError.
func RangePredicate(term kast.Term, typeName string, logger *logging.Logger) (kast.Term, bool, error) {
	if logger == nil {
		logger = logging.NilLogger
	}

	// Fixed-width uints cover most types, including uint256, so check them first.
	pred, handled, err := rangePredicateUInt(term, typeName)
	if err != nil {
		return nil, false, err
	}
	if handled {
		return pred, true, nil
	}

	switch typeName {
	case "address":
		return RangeAddress(term), true, nil
	case "bool":
		return RangeBool(term), true, nil
	case "bytes4":
		return RangeBytes(4, term), true, nil
	case "bytes32":
		return RangeUInt(256, term), true, nil
	case "int256":
		return RangeSInt(256, term), true, nil
	case "bytes":
		// Only the length of a dynamic byte-string is constrained, not its content.
		return RangeUInt(128, SizeBytes(term)), true, nil
	case "string":
		return kast.True, true, nil
	}

	logger.Info("Unknown range predicate for type: ", typeName)
	return nil, false, nil
}

// rangePredicateUInt handles the uintN family. handled is false when the type is not a
// non-array uint; unsupported uint widths are a fatal error.
func rangePredicateUInt(term kast.Term, typeName string) (kast.Term, bool, error) {
	if !strings.HasPrefix(typeName, "uint") || strings.HasSuffix(typeName, "]") {
		return nil, false, nil
	}
	width, err := strconv.Atoi(typeName[len("uint"):])
	if err != nil || !supportedUIntWidth(width) {
		return nil, false, &UnsupportedTypeError{TypeName: typeName}
	}
	return RangeUInt(width, term), true, nil
}
