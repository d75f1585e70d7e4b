package types

import (
	"github.com/crytic/medusa-geth/core/vm"
)

// BuildInstructionIndex decodes raw runtime bytecode into a dense instruction-index to
// program-counter mapping: the i-th element of the returned slice is the byte offset of the
// i-th instruction. Push instructions carry their operand width inline, so the bytes following
// a PUSH1..PUSH32 opcode are skipped as immediate data rather than counted as instructions.
// A trailing push whose immediate data is cut short by the end of the bytecode is tolerated;
// scanning simply stops at the end of the buffer.
func BuildInstructionIndex(bytecode []byte) []int {
	instructionOffsets := make([]int, 0, len(bytecode))

	pc := 0
	for pc < len(bytecode) {
		// Record the offset of this instruction; its index is the running element count.
		instructionOffsets = append(instructionOffsets, pc)

		// Calculate the length of immediate data that follows this instruction. PUSH0
		// carries no operand.
		op := vm.OpCode(bytecode[pc])
		if op.IsPush() && op != vm.PUSH0 {
			pc += int(op) - int(vm.PUSH1) + 1
		}

		pc++
	}

	return instructionOffsets
}
