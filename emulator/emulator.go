// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/ezrec/vonsim/config"
	"github.com/ezrec/vonsim/cpu"
	"github.com/ezrec/vonsim/program"
)

// Emulator state. Machine + program listing + tracing.
type Emulator struct {
	Verbose      bool             // If set, enables verbose logging.
	*cpu.Machine                  // Reference to the machine simulation.
	Program      *program.Program // Listing of the program in memory.

	Trace     *slog.Logger // If set, receives a record for every machine event.
	MaxCycles int          // Cycle budget for Run, 0 for none.

	cycles    int
	exhausted bool
}

// NewEmulator creates an emulator from a configuration. If the
// configuration names a listing, it is assembled and loaded; otherwise the
// configured program is.
func NewEmulator(cfg config.Config) (emu *Emulator, err error) {
	emu = &Emulator{
		Verbose:   cfg.Verbose,
		Machine:   cpu.NewMachine(),
		MaxCycles: cfg.MaxCycles,
	}

	emu.Machine.Verbose = cfg.Verbose
	emu.Machine.Pacer = &cpu.Sleeper{Scale: cfg.Scale}
	emu.Machine.Observer = emu.observe

	var prog *program.Program
	if len(cfg.Listing) != 0 {
		prog, err = emu.Assemble(cfg.Listing)
	} else {
		prog, err = Listing(cfg.Program)
	}
	if err != nil {
		return
	}

	err = emu.LoadProgram(prog)
	if err != nil {
		return
	}

	return
}

// Listing wraps a raw memory image as a program, one line per slot.
func Listing(image []string) (prog *program.Program, err error) {
	if len(image) > cpu.MEMORY_SIZE {
		err = cpu.ErrProgramTooLong
		return
	}

	prog = &program.Program{}
	for n, text := range image {
		prog.Lines = append(prog.Lines, program.Line{
			LineNo:  n + 1,
			Address: cpu.Address(n),
			Text:    text,
		})
	}

	return
}

// Assemble a listing file.
func (emu *Emulator) Assemble(path string) (prog *program.Program, err error) {
	inf, err := os.Open(path)
	if err != nil {
		return
	}
	defer inf.Close()

	asm := &program.Assembler{Verbose: emu.Verbose}
	prog, err = asm.Parse(inf)
	if err != nil {
		err = &ErrListing{Path: path, Err: err}
		return
	}

	return
}

// LoadProgram places a program in memory and resets the machine.
func (emu *Emulator) LoadProgram(prog *program.Program) (err error) {
	err = emu.Machine.Load(prog.Image())
	if err != nil {
		return
	}

	emu.Program = prog
	emu.Machine.Reset()

	if emu.Verbose {
		log.Printf("emulator: loaded %d lines", len(prog.Lines))
	}

	return
}

// LineNo returns the listing line number of the instruction at PC.
func (emu *Emulator) LineNo() int {
	if emu.Program == nil {
		return 0
	}
	return emu.Program.LineNo(emu.Machine.State().PC)
}

// Cycles returns the number of instructions executed by the last Run.
func (emu *Emulator) Cycles() int {
	return emu.cycles
}

// Run runs the machine until it halts, is stopped, or leaves memory.
// done is true if the machine halted.
func (emu *Emulator) Run() (done bool, err error) {
	emu.cycles = 0
	emu.exhausted = false

	if !emu.Machine.RunAll() {
		err = emu.runtime(ErrNotRunnable)
		return
	}

	state := emu.Machine.State()
	switch {
	case state.Halted:
		done = true
	case emu.exhausted:
		err = emu.runtime(ErrCycleBudget)
	case !state.PC.Valid():
		err = emu.runtime(cpu.ErrAddress(state.PC))
	}

	return
}

// Step performs a single manual fetch, decode and execute.
// done is true if the machine halted.
func (emu *Emulator) Step() (done bool, err error) {
	if !emu.Machine.Fetch() || !emu.Machine.Decode() || !emu.Machine.Execute() {
		err = emu.runtime(ErrNotRunnable)
		return
	}

	done = emu.Machine.Halted()
	return
}

func (emu *Emulator) runtime(err error) error {
	pc := emu.Machine.State().PC
	return &ErrRuntime{Address: pc, LineNo: emu.LineNo(), Err: err}
}

// observe traces machine events, and enforces the cycle budget.
func (emu *Emulator) observe(event cpu.Event, state cpu.State) {
	if emu.Trace != nil {
		var lineno int
		if emu.Program != nil {
			lineno = emu.Program.LineNo(state.MAR)
		}
		emu.Trace.LogAttrs(context.Background(), slog.LevelInfo, event.String(),
			slog.String("stage", state.Stage.String()),
			slog.Int("pc", int(state.PC)),
			slog.Int("acc", state.ACC),
			slog.String("ir", state.IR),
			slog.Int("mar", int(state.MAR)),
			slog.String("mbr", state.MBR),
			slog.Int("line", lineno),
			slog.Bool("running", state.Running),
			slog.Bool("halted", state.Halted),
		)
	}

	if event == cpu.EVENT_PC && state.Running {
		emu.cycles++
		if emu.MaxCycles > 0 && emu.cycles >= emu.MaxCycles && !state.Halted {
			emu.exhausted = true
			emu.Machine.Stop()
		}
	}
}
