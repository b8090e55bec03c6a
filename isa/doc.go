// Package isa implements the instruction codec for the vonsim machine.
//
// Memory holds instructions as text ("MOV 5", "JMP 0", "HLT"). The codec
// turns that text into an Instruction: an operation tag from the closed set
// MOV, ADD, SUB, JMP, HLT and NOP, with an optional signed integer operand.
// Decoding never fails; text the codec does not understand degrades to an
// instruction that has no effect when executed.
package isa
