package isa

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecode(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		text string
		inst Instruction
	}){
		{"", Instruction{Op: OP_NOP}},
		{"   ", Instruction{Op: OP_NOP}},
		{"NOP", Instruction{Op: OP_NOP}},
		{"HLT", Instruction{Op: OP_HLT}},
		{"MOV 5", Instruction{Op: OP_MOV, Operand: 5, HasOperand: true}},
		{"mov 5", Instruction{Op: OP_MOV, Operand: 5, HasOperand: true}},
		{"  add\t3  ", Instruction{Op: OP_ADD, Operand: 3, HasOperand: true}},
		{"SUB -7", Instruction{Op: OP_SUB, Operand: -7, HasOperand: true}},
		{"JMP 0", Instruction{Op: OP_JMP, Operand: 0, HasOperand: true}},
		{"JMP +12", Instruction{Op: OP_JMP, Operand: 12, HasOperand: true}},
		{"MOV", Instruction{Op: OP_MOV}},
		{"ADD x", Instruction{Op: OP_ADD}},
		{"ADD 0x10", Instruction{Op: OP_ADD}},
		{"ADD 1.5", Instruction{Op: OP_ADD}},
		{"MOV 1 2", Instruction{Op: OP_MOV, Operand: 1, HasOperand: true}},
		{"HLT 4", Instruction{Op: OP_HLT, Operand: 4, HasOperand: true}},
		{"foo 9", Instruction{Op: Op("FOO"), Operand: 9, HasOperand: true}},
	}

	for _, entry := range table {
		assert.Equal(entry.inst, Decode(entry.text), entry.text)
	}
}

func TestDecodeMissingOperand(t *testing.T) {
	assert := assert.New(t)

	for _, op := range Ops {
		inst := Decode(string(op))
		assert.Equal(op, inst.Op)
		_, ok := inst.Value()
		assert.False(ok, op)
	}
}

func TestOpKnown(t *testing.T) {
	assert := assert.New(t)

	for _, op := range Ops {
		assert.True(op.Known(), op)
	}

	assert.False(Op("FOO").Known())
	assert.False(Op("").Known())
	assert.False(Op("mov").Known())

	assert.True(OP_JMP.TakesOperand())
	assert.False(OP_HLT.TakesOperand())
	assert.False(OP_NOP.TakesOperand())
}

func TestInstructionString(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("MOV 5", Decode("mov   5").String())
	assert.Equal("SUB -1", Decode("SUB -1").String())
	assert.Equal("HLT", Decode("hlt").String())
	assert.Equal("NOP", Decode("").String())
	assert.Equal("ADD", Decode("ADD nope").String())
}

func FuzzDecode(f *testing.F) {
	f.Add("MOV 5")
	f.Add("jmp -3")
	f.Add("")
	f.Add("ADD x y z")

	f.Fuzz(func(t *testing.T, text string) {
		assert := assert.New(t)

		inst := Decode(text)

		words := strings.Fields(text)
		if len(words) == 0 {
			assert.Equal(Instruction{Op: OP_NOP}, inst)
			return
		}

		assert.Equal(Op(strings.ToUpper(words[0])), inst.Op)
		if len(words) == 1 {
			assert.False(inst.HasOperand)
		}
		if !inst.HasOperand {
			assert.Equal(0, inst.Operand)
		}

		// Canonical text decodes to the same instruction.
		if inst.Op.Known() {
			assert.Equal(inst, Decode(inst.String()))
		}
	})
}
