package kevm

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/baolean/evm-semantics/kast"
	"github.com/baolean/evm-semantics/logging"
)

// UnsupportedTypeError indicates that an ABI type declares a fixed width outside the supported
// type system, e.g. uint9 or bytes8. It is a fatal artifact inconsistency: model construction
// for the affected contract must be aborted.
type UnsupportedTypeError struct {
	// TypeName is the offending canonical ABI type string.
	TypeName string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported ABI type: %s", e.TypeName)
}

// BaseSort maps a canonical ABI type string to the base symbolic sort its values belong to.
// Fixed-width integer and bytes types with unsupported widths return an UnsupportedTypeError.
// Unknown or complex types fall back to the generic sort, which is logged but never fatal.
func BaseSort(typeName string, logger *logging.Logger) (kast.Sort, error) {
	if logger == nil {
		logger = logging.NilLogger
	}

	isInt, err := baseSortInt(typeName)
	if err != nil {
		return "", err
	}
	if isInt {
		return kast.SortInt, nil
	}

	if typeName == "bytes" {
		return kast.SortBytes, nil
	}
	if typeName == "string" {
		return kast.SortString, nil
	}

	logger.Info("Using generic sort K for type: ", typeName)
	return kast.SortK, nil
}

// baseSortInt reports whether the given ABI type is represented as an unbounded integer, or an
// UnsupportedTypeError if the type declares an unsupported fixed width.
func baseSortInt(typeName string) (bool, error) {
	// Check address and bool.
	if typeName == "address" || typeName == "bool" {
		return true, nil
	}

	// Check fixed-width bytes. Note that the trailing-bracket check excludes array types, whose
	// suffix would otherwise parse as part of the width.
	if strings.HasPrefix(typeName, "bytes") && len(typeName) > len("bytes") && !strings.HasSuffix(typeName, "]") {
		width, err := strconv.Atoi(typeName[len("bytes"):])
		if err != nil || (width != 4 && width != 32) {
			return false, &UnsupportedTypeError{TypeName: typeName}
		}
		return true, nil
	}

	// Check ints.
	if strings.HasPrefix(typeName, "int") && !strings.HasSuffix(typeName, "]") {
		width, err := strconv.Atoi(typeName[len("int"):])
		if err != nil || width != 256 {
			return false, &UnsupportedTypeError{TypeName: typeName}
		}
		return true, nil
	}

	// Check uints.
	if strings.HasPrefix(typeName, "uint") && !strings.HasSuffix(typeName, "]") {
		width, err := strconv.Atoi(typeName[len("uint"):])
		if err != nil || !supportedUIntWidth(width) {
			return false, &UnsupportedTypeError{TypeName: typeName}
		}
		return true, nil
	}

	return false, nil
}

// supportedUIntWidth reports whether the given uint bit-width is part of the supported type
// system: a positive multiple of 8, at most 256.
func supportedUIntWidth(width int) bool {
	return 0 < width && width <= 256 && width%8 == 0
}
