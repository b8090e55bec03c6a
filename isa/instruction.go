package isa

import (
	"fmt"
	"strconv"
	"strings"
)

// Instruction is a decoded line of memory.
type Instruction struct {
	Op         Op  // Operation tag.
	Operand    int // Operand value, valid only if HasOperand.
	HasOperand bool
}

// Decode parses instruction text. Empty text decodes as NOP. The first
// word, upper-cased, is the op tag; the second word, if it is a base 10
// integer, is the operand. Any further words are ignored.
func Decode(text string) (inst Instruction) {
	words := strings.Fields(text)
	if len(words) == 0 {
		inst.Op = OP_NOP
		return
	}

	inst.Op = Op(strings.ToUpper(words[0]))

	if len(words) > 1 {
		value, err := strconv.ParseInt(words[1], 10, strconv.IntSize)
		if err == nil {
			inst.Operand = int(value)
			inst.HasOperand = true
		}
	}

	return
}

// Value returns the operand, and whether it is present.
func (inst Instruction) Value() (value int, ok bool) {
	return inst.Operand, inst.HasOperand
}

// String returns the canonical text of the instruction.
func (inst Instruction) String() string {
	if inst.HasOperand {
		return fmt.Sprintf("%v %d", inst.Op, inst.Operand)
	}
	return string(inst.Op)
}
