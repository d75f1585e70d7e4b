package types

import (
	"strconv"
	"strings"
)

// Reference: source mapping is performed according to the rules specified in solidity
// documentation: https://docs.soliditylang.org/en/latest/internals/source_mappings.html

// SourceMapJumpType describes the type of jump operation occurring within a SourceMapElement if
// the instruction is jumping.
type SourceMapJumpType string

const (
	// SourceMapJumpTypeNone indicates no jump occurred.
	SourceMapJumpTypeNone SourceMapJumpType = ""

	// SourceMapJumpTypeJumpIn indicates a jump into a function occurred.
	SourceMapJumpTypeJumpIn SourceMapJumpType = "i"

	// SourceMapJumpTypeJumpOut indicates a return from a function occurred.
	SourceMapJumpTypeJumpOut SourceMapJumpType = "o"

	// SourceMapJumpTypeJumpWithin indicates a jump occurred within the same function, e.g. for
	// loops.
	SourceMapJumpTypeJumpWithin SourceMapJumpType = "-"
)

// SourceMap describes a list of elements which correspond to instruction indexes in compiled
// bytecode, describing which source files and the start/end range of the source code which the
// instruction maps to.
type SourceMap []SourceMapElement

// SourceMapElement describes an individual element of a source mapping output by the compiler.
// The index of each element in a source map corresponds to an instruction index (not to be
// mistaken with a byte offset into the bytecode).
type SourceMapElement struct {
	// Index refers to the index of the SourceMapElement within its parent SourceMap. This is
	// not a field encoded in the source map string, but is provided for convenience.
	Index int

	// Offset refers to the byte offset which marks the start of the source range the
	// instruction maps to.
	Offset int

	// Length refers to the byte length of the source range the instruction maps to.
	Length int

	// FileID refers to an identifier of the source file which houses the relevant source code.
	FileID int

	// JumpType refers to the SourceMapJumpType which provides information about any type of
	// jump that occurred.
	JumpType SourceMapJumpType

	// ModifierDepth refers to the depth in which code has executed a modifier function. This
	// is used to assist debuggers, e.g. understanding if the same modifier is re-used multiple
	// times in a call.
	ModifierDepth int
}

// ParseSourceMap takes a delta-encoded source mapping string returned by the compiler and parses
// it into an array of SourceMapElement objects, one per semicolon-delimited segment. An empty
// field, or a field absent because a segment has fewer than five colon-delimited parts, inherits
// its value from the immediately preceding entry; each field carries forward independently.
// An empty source map string yields an empty map, not an error.
func ParseSourceMap(sourceMapStr string) (SourceMap, error) {
	var (
		sourceMap SourceMap
		err       error
	)

	// If our provided source map string is empty, there is no work to be done.
	if len(sourceMapStr) == 0 {
		return sourceMap, nil
	}

	// Separate all the individual source mapping elements.
	elements := strings.Split(sourceMapStr, ";")

	// current stores "the previous element", whose field values are inherited whenever a
	// segment leaves a field empty. Fields start from the documented defaults.
	current := SourceMapElement{
		Index:         -1,
		Offset:        0,
		Length:        0,
		FileID:        0,
		JumpType:      SourceMapJumpTypeNone,
		ModifierDepth: 0,
	}

	// Iterate over all elements split from the source mapping.
	for _, element := range elements {
		current.Index = len(sourceMap)

		// If the element is empty, we inherit the previous one entirely.
		if len(element) == 0 {
			sourceMap = append(sourceMap, current)
			continue
		}

		// Split the element fields apart.
		fields := strings.Split(element, ":")

		// If the source range start offset exists, update our current element data.
		if len(fields) > 0 && fields[0] != "" {
			current.Offset, err = strconv.Atoi(fields[0])
			if err != nil {
				return nil, err
			}
		}

		// If the source range length exists, update our current element data.
		if len(fields) > 1 && fields[1] != "" {
			current.Length, err = strconv.Atoi(fields[1])
			if err != nil {
				return nil, err
			}
		}

		// If the source file identifier exists, update our current element data.
		if len(fields) > 2 && fields[2] != "" {
			current.FileID, err = strconv.Atoi(fields[2])
			if err != nil {
				return nil, err
			}
		}

		// If the jump type information exists, update our current element data.
		if len(fields) > 3 && fields[3] != "" {
			current.JumpType = SourceMapJumpType(fields[3])
		}

		// If the modifier call depth exists, update our current element data.
		if len(fields) > 4 && fields[4] != "" {
			current.ModifierDepth, err = strconv.Atoi(fields[4])
			if err != nil {
				return nil, err
			}
		}

		// Append our element to the map.
		sourceMap = append(sourceMap, current)
	}

	return sourceMap, nil
}
