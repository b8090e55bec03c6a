// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/ezrec/vonsim/isa"
)

// State is a snapshot of the machine.
type State struct {
	Registers
	Stage     Stage   // Current stage of the instruction cycle.
	Running   bool    // RunAll owns the instruction cycle.
	Halted    bool    // A HLT was executed; only Reset continues.
	Highlight Address // Slot being fetched, a presentation hint.
	Memory    Memory  // Copy of memory.
}

// Machine is the simulation context for the vonsim computer.
//
// All methods may be called from any goroutine. Manual stepping with Fetch,
// Decode and Execute is refused while the machine is halted, or while
// RunAll owns the instruction cycle.
type Machine struct {
	Verbose bool  // Set to enable verbose logging.
	Pacer   Pacer // Pauses between stage effects. nil for no pauses.

	// Observer, if set, is called after every state change with the
	// event and a snapshot of the new state. It is called with no lock
	// held, and may call back into the machine.
	Observer func(event Event, state State)

	mutex     sync.Mutex
	memory    Memory
	reg       Registers
	stage     Stage
	running   bool
	halted    bool
	highlight Address

	decoded *isa.Instruction // Carried from decode to execute.
	abort   *atomic.Bool     // Cancellation signal of the active run.
	loop    chan struct{}    // Closed when the last RunAll loop ends.
}

// NewMachine creates a machine in its reset state, with DefaultProgram
// in memory.
func NewMachine() (m *Machine) {
	m = &Machine{}

	m.memory.Load(DefaultProgram)
	m.reg.Reset()
	m.highlight = NO_ADDRESS

	return
}

// Load replaces all of memory with a program, padded with NOP.
// Registers are left as they are.
func (m *Machine) Load(program []string) (err error) {
	var mem Memory
	err = mem.Load(program)
	if err != nil {
		return
	}

	m.mutex.Lock()
	m.memory = mem
	m.mutex.Unlock()

	return
}

// SetMemory replaces the text in a single memory slot. The edit is seen by
// the next fetch of that slot, even in the middle of a run.
func (m *Machine) SetMemory(addr Address, text string) (err error) {
	m.mutex.Lock()
	err = m.memory.Write(addr, text)
	m.mutex.Unlock()

	if err == nil && m.Verbose {
		log.Printf("cpu: %v <- %q", addr, text)
	}

	return
}

// GetMemory returns the text in a single memory slot.
func (m *Machine) GetMemory(addr Address) (text string, err error) {
	if !addr.Valid() {
		err = ErrAddress(addr)
		return
	}

	m.mutex.Lock()
	text = m.memory.Read(addr)
	m.mutex.Unlock()

	return
}

// State returns a snapshot of the machine.
func (m *Machine) State() (state State) {
	m.mutex.Lock()
	state = m.snapshot()
	m.mutex.Unlock()

	return
}

// snapshot must be called with the mutex held.
func (m *Machine) snapshot() State {
	return State{
		Registers: m.reg,
		Stage:     m.stage,
		Running:   m.running,
		Halted:    m.halted,
		Highlight: m.highlight,
		Memory:    m.memory,
	}
}

// String returns the current machine state as a string.
func (m *Machine) String() (text string) {
	state := m.State()

	regs := []string{
		"pc", "ir", "acc", "mar", "mbr",
		"stage",
	}
	for _, reg := range regs {
		var strval string
		switch reg {
		case "pc":
			strval = state.PC.String()
		case "ir":
			strval = fmt.Sprintf("%q", state.IR)
		case "acc":
			strval = fmt.Sprintf("%d", state.ACC)
		case "mar":
			strval = state.MAR.String()
		case "mbr":
			strval = fmt.Sprintf("%q", state.MBR)
		case "stage":
			strval = state.Stage.String()
			if state.Halted {
				strval += " (halted)"
			} else if state.Running {
				strval += " (running)"
			}
		}
		text += fmt.Sprintf("% 5s: %v\n", reg, strval)
	}

	return
}

// notify reports an event to the observer. Must not hold the mutex.
func (m *Machine) notify(event Event, state State) {
	if m.Observer != nil {
		m.Observer(event, state)
	}
}

// pause waits for a phase. Must not hold the mutex.
func (m *Machine) pause(phase Phase) {
	if m.Pacer != nil {
		m.Pacer.Pause(phase, phase.Duration())
	}
}

// allowed reports whether a stage may run. Must hold the mutex.
// The run loop steps with manual false, so that only halting stops it.
func (m *Machine) allowed(manual bool) bool {
	if m.halted {
		return false
	}
	if manual && m.running {
		return false
	}
	return true
}

// Fetch latches PC into MAR and reads that memory slot into MBR.
// Returns false, with no change of state, if the machine is halted or
// running.
func (m *Machine) Fetch() (ok bool) {
	return m.fetch(true)
}

func (m *Machine) fetch(manual bool) (ok bool) {
	m.mutex.Lock()
	if !m.allowed(manual) {
		m.mutex.Unlock()
		return
	}

	m.stage = STAGE_FETCH
	m.reg.MAR = m.reg.PC
	m.highlight = m.reg.PC
	m.reg.MBR = m.memory.Read(m.reg.MAR)
	m.decoded = nil

	state := m.snapshot()
	m.mutex.Unlock()

	m.notify(EVENT_FETCH, state)
	m.pause(PHASE_FETCH)

	ok = true
	return
}

// Decode copies MBR into IR, and decodes the instruction for Execute.
// Returns false, with no change of state, if the machine is halted or
// running.
func (m *Machine) Decode() (ok bool) {
	return m.decode(true)
}

func (m *Machine) decode(manual bool) (ok bool) {
	m.mutex.Lock()
	if !m.allowed(manual) {
		m.mutex.Unlock()
		return
	}

	m.stage = STAGE_DECODE
	m.reg.IR = m.reg.MBR
	inst := isa.Decode(m.reg.MBR)
	m.decoded = &inst

	state := m.snapshot()
	m.mutex.Unlock()

	m.notify(EVENT_DECODE, state)
	m.pause(PHASE_DECODE)

	ok = true
	return
}

// Execute runs the decoded instruction. ACC is updated first, then PC.
// If Decode was skipped, the text in MBR is decoded here.
// Returns false, with no change of state, if the machine is halted or
// running.
func (m *Machine) Execute() (ok bool) {
	return m.execute(true)
}

func (m *Machine) execute(manual bool) (ok bool) {
	m.mutex.Lock()
	if !m.allowed(manual) {
		m.mutex.Unlock()
		return
	}

	m.stage = STAGE_EXECUTE

	inst := m.decoded
	if inst == nil {
		decoded := isa.Decode(m.reg.MBR)
		inst = &decoded
		m.decoded = inst
	}

	pc := m.reg.PC
	next_pc, next_acc, halt := Next(*inst, pc, m.reg.ACC)

	state := m.snapshot()
	m.mutex.Unlock()

	if m.Verbose {
		log.Printf("cpu: %v: %v", pc, inst)
	}

	m.notify(EVENT_EXECUTE, state)

	m.pause(PHASE_EXECUTE_ACC)

	m.mutex.Lock()
	m.reg.ACC = next_acc
	state = m.snapshot()
	m.mutex.Unlock()

	m.notify(EVENT_ACC, state)

	m.pause(PHASE_EXECUTE_PC)

	m.mutex.Lock()
	m.reg.PC = next_pc
	if halt {
		m.halted = true
	}
	m.highlight = NO_ADDRESS
	m.stage = STAGE_IDLE
	state = m.snapshot()
	m.mutex.Unlock()

	m.notify(EVENT_PC, state)

	if halt {
		if m.Verbose {
			log.Printf("cpu: halted at %v", pc)
		}
		m.notify(EVENT_HALT, state)
	}

	ok = true
	return
}

// Next computes the effect of an instruction on PC and ACC.
// Unknown operations, and operations missing their operand, leave ACC as is
// and advance PC. PC+1 is not clamped; JMP targets are.
func Next(inst isa.Instruction, pc Address, acc int) (next_pc Address, next_acc int, halt bool) {
	next_pc = pc + 1
	next_acc = acc

	value, ok := inst.Value()

	switch inst.Op {
	case isa.OP_MOV:
		if ok {
			next_acc = value
		}
	case isa.OP_ADD:
		if ok {
			next_acc = acc + value
		}
	case isa.OP_SUB:
		if ok {
			next_acc = acc - value
		}
	case isa.OP_JMP:
		if ok {
			next_pc = Address(value).Clamp()
		}
	case isa.OP_HLT:
		next_pc = pc
		halt = true
	}

	return
}
