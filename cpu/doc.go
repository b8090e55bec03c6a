// Package cpu implements the vonsim machine: a single accumulator, single
// address bus von Neumann computer.
//
// The machine has a sixteen slot memory of instruction text and five
// registers: the program counter (PC), instruction register (IR),
// accumulator (ACC), memory address register (MAR) and memory buffer
// register (MBR). Each instruction runs through three stages, fetch, decode
// and execute, which may be stepped one at a time or driven by RunAll.
//
// Stage effects are paced by an optional Pacer so that a presentation layer
// can watch values change. The machine is correct with no pacer at all.
package cpu
