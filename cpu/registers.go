package cpu

// Registers is the register file.
type Registers struct {
	PC  Address // Address of the next instruction to fetch.
	IR  string  // Instruction text loaded by decode.
	ACC int     // Accumulator.
	MAR Address // Address latched by fetch, NO_ADDRESS until the first fetch.
	MBR string  // Text read from memory at MAR.
}

// Reset the registers to their power-on values.
func (reg *Registers) Reset() {
	*reg = Registers{MAR: NO_ADDRESS}
}
