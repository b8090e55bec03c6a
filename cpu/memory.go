package cpu

import (
	"fmt"

	"github.com/ezrec/vonsim/isa"
)

const (
	MEMORY_SIZE = 16 // Number of memory slots.

	ADDRESS_MIN = Address(0)
	ADDRESS_MAX = Address(MEMORY_SIZE - 1)
	NO_ADDRESS  = Address(-1) // Unset MAR, or no highlighted slot.
)

// DefaultProgram is loaded into memory by NewMachine.
var DefaultProgram = []string{"MOV 5", "ADD 3", "SUB 1", "JMP 0", "HLT"}

// Address of a memory slot.
type Address int

// Valid returns true if the address names a memory slot.
func (addr Address) Valid() bool {
	return addr >= ADDRESS_MIN && addr <= ADDRESS_MAX
}

// Clamp returns the nearest valid address.
func (addr Address) Clamp() Address {
	return min(max(addr, ADDRESS_MIN), ADDRESS_MAX)
}

func (addr Address) String() string {
	if addr == NO_ADDRESS {
		return "--"
	}
	return fmt.Sprintf("%02X", int(addr))
}

// Memory holds one instruction text per slot.
type Memory [MEMORY_SIZE]string

// Load fills memory from a program, padding unused slots with NOP.
func (mem *Memory) Load(program []string) (err error) {
	if len(program) > MEMORY_SIZE {
		err = ErrProgramTooLong
		return
	}

	for n := range mem {
		if n < len(program) {
			mem[n] = program[n]
		} else {
			mem[n] = string(isa.OP_NOP)
		}
	}

	return
}

// Read returns the text at an address. Reads outside of memory see a NOP.
func (mem *Memory) Read(addr Address) string {
	if !addr.Valid() {
		return string(isa.OP_NOP)
	}
	return mem[addr]
}

// Write replaces the text at an address.
func (mem *Memory) Write(addr Address, text string) (err error) {
	if !addr.Valid() {
		err = ErrAddress(addr)
		return
	}
	mem[addr] = text
	return
}
