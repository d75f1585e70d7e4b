package contracts

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/baolean/evm-semantics/compilation/types"
)

// arrayTypePattern matches type strings carrying an array suffix, e.g. uint256[] or tuple[2].
var arrayTypePattern = regexp.MustCompile(`.+\[.*\]`)

// MethodSignature reconstructs the canonical signature of an ABI function descriptor, e.g.
// transfer(address,uint256). The canonical signature is the key into the compiler-provided
// method-identifier table, so it must match the compiler's rendering exactly, including for
// recursively nested tuple and array types.
func MethodSignature(entry types.ABIEntry) string {
	var args strings.Builder
	for i, input := range entry.Inputs {
		if i != 0 {
			args.WriteString(",")
		}
		args.WriteString(canonicalTypeName(input))
	}
	return fmt.Sprintf("%s(%s)", entry.Name, args.String())
}

// canonicalTypeName renders the canonical type string of a possibly nested parameter. Tuples are
// rebuilt from their components, joined with commas and wrapped in parentheses, with any array
// suffix re-emitted after the closing parenthesis; all other types pass through unchanged.
func canonicalTypeName(input types.ABIParameter) string {
	baseType := input.Type
	isArray := false
	isSized := false
	arraySize := 0
	if arrayTypePattern.MatchString(baseType) {
		isArray = true
		parts := strings.Split(baseType, "[")
		arraySizeStr := parts[1][:len(parts[1])-1]
		if arraySizeStr != "" {
			isSized = true
			arraySize, _ = strconv.Atoi(arraySizeStr)
		}
		baseType = parts[0]
	}

	if baseType == "tuple" {
		var rendered strings.Builder
		rendered.WriteString("(")
		for i, component := range input.Components {
			if i != 0 {
				rendered.WriteString(",")
			}
			rendered.WriteString(canonicalTypeName(component))
		}
		rendered.WriteString(")")
		if isArray && !isSized {
			rendered.WriteString("[]")
		} else if isArray && isSized {
			rendered.WriteString(fmt.Sprintf("[%d]", arraySize))
		}
		return rendered.String()
	}

	return input.Type
}
