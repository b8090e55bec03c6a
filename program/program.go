package program

import (
	"iter"

	"github.com/ezrec/vonsim/cpu"
)

// Line is one assembled instruction and where it came from.
type Line struct {
	LineNo    int         // Source line number.
	Address   cpu.Address // Memory slot of the instruction.
	Words     []string    // Source words, after equate and macro expansion.
	Text      string      // Instruction text stored in memory.
	LinkLabel string      // Label the operand refers to, if any.
}

// Program is an assembled listing.
type Program struct {
	Lines []Line
}

// Image returns the memory text of the program, in address order.
func (prog *Program) Image() (image []string) {
	for _, text := range prog.Texts() {
		image = append(image, text)
	}
	return
}

// Texts iterates over the memory address and text of each line.
func (prog *Program) Texts() iter.Seq2[cpu.Address, string] {
	return func(yield func(addr cpu.Address, text string) bool) {
		for _, line := range prog.Lines {
			if !yield(line.Address, line.Text) {
				return
			}
		}
	}
}

// Debug returns the line assembled into an address, or nil.
func (prog *Program) Debug(addr cpu.Address) (line *Line) {
	for n := range prog.Lines {
		if prog.Lines[n].Address == addr {
			line = &prog.Lines[n]
			break
		}
	}
	return
}

// LineNo returns the source line number for an address, or 0.
func (prog *Program) LineNo(addr cpu.Address) int {
	line := prog.Debug(addr)
	if line == nil {
		return 0
	}
	return line.LineNo
}
