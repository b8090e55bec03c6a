package isa

// Op is an operation tag. Decoded text that names no known operation keeps
// its upper-cased mnemonic as the tag.
type Op string

const (
	OP_MOV = Op("MOV") // ACC := operand
	OP_ADD = Op("ADD") // ACC := ACC + operand
	OP_SUB = Op("SUB") // ACC := ACC - operand
	OP_JMP = Op("JMP") // PC := clamp(operand)
	OP_HLT = Op("HLT") // Halt the machine
	OP_NOP = Op("NOP") // No operation
)

// Ops lists the known operations.
var Ops = []Op{OP_MOV, OP_ADD, OP_SUB, OP_JMP, OP_HLT, OP_NOP}

// Known returns true if the op is one of the six machine operations.
func (op Op) Known() bool {
	switch op {
	case OP_MOV, OP_ADD, OP_SUB, OP_JMP, OP_HLT, OP_NOP:
		return true
	}
	return false
}

// TakesOperand returns true if the op changes state through its operand.
func (op Op) TakesOperand() bool {
	switch op {
	case OP_MOV, OP_ADD, OP_SUB, OP_JMP:
		return true
	}
	return false
}

func (op Op) String() string {
	return string(op)
}
