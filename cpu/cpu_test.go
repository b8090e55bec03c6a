package cpu

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/vonsim/isa"
)

// cycle runs a single manual fetch, decode and execute.
func cycle(t *testing.T, m *Machine) {
	assert := assert.New(t)

	assert.True(m.Fetch())
	assert.True(m.Decode())
	assert.True(m.Execute())
}

func resetState(mem Memory) State {
	return State{
		Registers: Registers{PC: 0, IR: "", ACC: 0, MAR: NO_ADDRESS, MBR: ""},
		Stage:     STAGE_IDLE,
		Running:   false,
		Halted:    false,
		Highlight: NO_ADDRESS,
		Memory:    mem,
	}
}

func TestNewMachine(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine()

	var mem Memory
	mem.Load(DefaultProgram)

	assert.Equal(resetState(mem), m.State())
	assert.False(m.Verbose)
	assert.Nil(m.Pacer)
}

func TestNext(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		text    string
		pc      Address
		acc     int
		next_pc Address
		acc_out int
		halt    bool
	}){
		{"MOV 5", 0, 9, 1, 5, false},
		{"MOV -2", 3, 9, 4, -2, false},
		{"MOV", 3, 9, 4, 9, false},
		{"ADD 3", 1, 5, 2, 8, false},
		{"ADD", 1, 5, 2, 5, false},
		{"ADD z", 1, 5, 2, 5, false},
		{"SUB 1", 2, 8, 3, 7, false},
		{"SUB -4", 2, 8, 3, 12, false},
		{"SUB", 2, 8, 3, 8, false},
		{"JMP 0", 3, 7, 0, 7, false},
		{"JMP 9", 3, 7, 9, 7, false},
		{"JMP -1", 3, 7, 0, 7, false},
		{"JMP -100", 3, 7, 0, 7, false},
		{"JMP 15", 3, 7, 15, 7, false},
		{"JMP 16", 3, 7, 15, 7, false},
		{"JMP 9999", 3, 7, 15, 7, false},
		{"JMP", 3, 7, 4, 7, false},
		{"HLT", 4, 7, 4, 7, true},
		{"HLT", 0, -3, 0, -3, true},
		{"HLT 2", 15, 1, 15, 1, true},
		{"NOP", 5, 1, 6, 1, false},
		{"NOP", 15, 1, 16, 1, false},
		{"", 2, 1, 3, 1, false},
		{"BEEP 4", 2, 1, 3, 1, false},
	}

	for _, entry := range table {
		next_pc, next_acc, halt := Next(isa.Decode(entry.text), entry.pc, entry.acc)
		assert.Equal(entry.next_pc, next_pc, entry.text)
		assert.Equal(entry.acc_out, next_acc, entry.text)
		assert.Equal(entry.halt, halt, entry.text)
	}
}

func TestMachineProgram(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine()

	table := [](struct {
		ir  string
		acc int
		pc  Address
	}){
		{"MOV 5", 5, 1},
		{"ADD 3", 8, 2},
		{"SUB 1", 7, 3},
		{"JMP 0", 7, 0},
		{"MOV 5", 5, 1},
	}

	for _, entry := range table {
		mar := m.State().PC
		cycle(t, m)

		state := m.State()
		assert.Equal(entry.ir, state.IR)
		assert.Equal(entry.ir, state.MBR)
		assert.Equal(mar, state.MAR)
		assert.Equal(entry.acc, state.ACC, entry.ir)
		assert.Equal(entry.pc, state.PC, entry.ir)
		assert.Equal(STAGE_IDLE, state.Stage)
		assert.Equal(NO_ADDRESS, state.Highlight)
		assert.False(state.Halted)
	}
}

func TestMachineStages(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine()

	assert.True(m.Fetch())
	state := m.State()
	assert.Equal(STAGE_FETCH, state.Stage)
	assert.Equal(Address(0), state.MAR)
	assert.Equal(Address(0), state.Highlight)
	assert.Equal("MOV 5", state.MBR)
	assert.Equal("", state.IR)

	assert.True(m.Decode())
	state = m.State()
	assert.Equal(STAGE_DECODE, state.Stage)
	assert.Equal("MOV 5", state.IR)
	assert.Equal(0, state.ACC)
	assert.Equal(Address(0), state.PC)

	assert.True(m.Execute())
	state = m.State()
	assert.Equal(STAGE_IDLE, state.Stage)
	assert.Equal(NO_ADDRESS, state.Highlight)
	assert.Equal(5, state.ACC)
	assert.Equal(Address(1), state.PC)
	assert.Equal(Address(0), state.MAR)
}

func TestMachineMissingOperand(t *testing.T) {
	assert := assert.New(t)

	for _, text := range []string{"MOV", "ADD", "SUB", "MOV five", "ADD 1e3"} {
		m := NewMachine()
		assert.NoError(m.Load([]string{"MOV 7", text}))

		cycle(t, m)
		cycle(t, m)

		state := m.State()
		assert.Equal(7, state.ACC, text)
		assert.Equal(Address(2), state.PC, text)
	}
}

func TestMachineHalt(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine()
	assert.NoError(m.Load([]string{"MOV -4", "ADD 10", "HLT", "MOV 99"}))

	cycle(t, m)
	cycle(t, m)
	cycle(t, m)

	state := m.State()
	assert.True(state.Halted)
	assert.Equal(Address(2), state.PC)
	assert.Equal(6, state.ACC)
	assert.Equal("HLT", state.IR)
	assert.Equal(STAGE_IDLE, state.Stage)
	assert.Equal(NO_ADDRESS, state.Highlight)

	// Halted: stepping and running are no-ops.
	assert.False(m.Fetch())
	assert.Equal(state, m.State())
	assert.False(m.Decode())
	assert.Equal(state, m.State())
	assert.False(m.Execute())
	assert.Equal(state, m.State())
	assert.False(m.RunAll())
	assert.Equal(state, m.State())

	// Reset clears the halt, but not memory.
	m.Reset()
	assert.Equal(resetState(state.Memory), m.State())
	assert.True(m.Fetch())
}

func TestMachineReset(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine()
	mem := m.State().Memory

	// From each stage of a cycle.
	assert.True(m.Fetch())
	m.Reset()
	assert.Equal(resetState(mem), m.State())

	assert.True(m.Fetch())
	assert.True(m.Decode())
	m.Reset()
	assert.Equal(resetState(mem), m.State())

	cycle(t, m)
	cycle(t, m)
	m.Reset()
	assert.Equal(resetState(mem), m.State())

	// Idempotent.
	m.Reset()
	m.Reset()
	assert.Equal(resetState(mem), m.State())

	// Reset drops the decoded instruction.
	assert.True(m.Fetch())
	assert.True(m.Decode())
	m.Reset()
	assert.True(m.Execute())
	state := m.State()
	assert.Equal(0, state.ACC)
	assert.Equal(Address(1), state.PC)
}

func TestMachineExecuteWithoutDecode(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine()

	assert.True(m.Fetch())
	assert.True(m.Execute())

	state := m.State()
	assert.Equal(5, state.ACC)
	assert.Equal(Address(1), state.PC)
	assert.Equal("", state.IR)
	assert.Equal("MOV 5", state.MBR)
}

func TestMachineExecuteUsesDecoded(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine()

	assert.True(m.Fetch())
	assert.True(m.Decode())

	// An edit after decode is not seen until the next fetch.
	assert.NoError(m.SetMemory(0, "MOV 99"))
	assert.True(m.Execute())
	assert.Equal(5, m.State().ACC)

	assert.True(m.Execute())
	assert.Equal(5, m.State().ACC)
	assert.Equal(Address(2), m.State().PC)
}

func TestMachineSetMemory(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine()
	assert.Equal(NO_ADDRESS, m.State().MAR)

	assert.NoError(m.SetMemory(0, "MOV 42"))
	text, err := m.GetMemory(0)
	assert.NoError(err)
	assert.Equal("MOV 42", text)

	cycle(t, m)
	assert.Equal(42, m.State().ACC)

	err = m.SetMemory(16, "HLT")
	assert.ErrorIs(err, ErrOutOfRange)
	err = m.SetMemory(NO_ADDRESS, "HLT")
	assert.ErrorIs(err, ErrOutOfRange)

	_, err = m.GetMemory(16)
	assert.ErrorIs(err, ErrOutOfRange)

	err = m.Load(make([]string, 17))
	assert.ErrorIs(err, ErrProgramTooLong)
	text, _ = m.GetMemory(0)
	assert.Equal("MOV 42", text)
}

func TestMachineOutOfRangeStep(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine()
	assert.NoError(m.Load([]string{"JMP 15"}))

	cycle(t, m)
	assert.Equal(Address(15), m.State().PC)

	cycle(t, m)
	assert.Equal(Address(16), m.State().PC)

	// Fetch past the end of memory reads a NOP.
	assert.True(m.Fetch())
	state := m.State()
	assert.Equal(Address(16), state.MAR)
	assert.Equal("NOP", state.MBR)
	assert.True(m.Decode())
	assert.True(m.Execute())
	assert.Equal(Address(17), m.State().PC)
	assert.False(m.State().Halted)
}

func TestMachineObserver(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine()
	assert.NoError(m.Load([]string{"MOV 3", "HLT"}))

	var events []Event
	var accs []int
	m.Observer = func(event Event, state State) {
		events = append(events, event)
		accs = append(accs, state.ACC)
	}

	cycle(t, m)
	assert.Equal([]Event{EVENT_FETCH, EVENT_DECODE, EVENT_EXECUTE, EVENT_ACC, EVENT_PC}, events)
	assert.Equal([]int{0, 0, 0, 3, 3}, accs)

	events = nil
	cycle(t, m)
	assert.Equal([]Event{EVENT_FETCH, EVENT_DECODE, EVENT_EXECUTE, EVENT_ACC, EVENT_PC, EVENT_HALT}, events)

	events = nil
	assert.False(m.Fetch())
	assert.Nil(events)

	m.Reset()
	assert.Equal([]Event{EVENT_RESET}, events)
}

func TestMachinePacer(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine()

	var phases []Phase
	var total time.Duration
	m.Pacer = PacerFunc(func(phase Phase, duration time.Duration) {
		phases = append(phases, phase)
		total += duration
	})

	cycle(t, m)

	assert.Equal([]Phase{PHASE_FETCH, PHASE_DECODE, PHASE_EXECUTE_ACC, PHASE_EXECUTE_PC}, phases)
	assert.Equal(1200*time.Millisecond, total)
}

func TestMachinePacerOrder(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine()

	// ACC lands before the PC pause, PC after it.
	m.Pacer = PacerFunc(func(phase Phase, duration time.Duration) {
		state := m.State()
		switch phase {
		case PHASE_EXECUTE_ACC:
			assert.Equal(0, state.ACC)
			assert.Equal(Address(0), state.PC)
			assert.Equal(STAGE_EXECUTE, state.Stage)
		case PHASE_EXECUTE_PC:
			assert.Equal(5, state.ACC)
			assert.Equal(Address(0), state.PC)
			assert.Equal(STAGE_EXECUTE, state.Stage)
		}
	})

	cycle(t, m)
	assert.Equal(Address(1), m.State().PC)
}

func TestPhaseDuration(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(450*time.Millisecond, PHASE_FETCH.Duration())
	assert.Equal(350*time.Millisecond, PHASE_DECODE.Duration())
	assert.Equal(200*time.Millisecond, PHASE_EXECUTE_ACC.Duration())
	assert.Equal(200*time.Millisecond, PHASE_EXECUTE_PC.Duration())
	assert.Equal(200*time.Millisecond, PHASE_CYCLE.Duration())
	assert.Equal(time.Duration(0), Phase(9).Duration())

	assert.Equal("execute-acc", PHASE_EXECUTE_ACC.String())
	assert.Equal("decode", STAGE_DECODE.String())
	assert.Equal("halt", EVENT_HALT.String())
}

func TestSleeper(t *testing.T) {
	assert := assert.New(t)

	sl := &Sleeper{}
	start := time.Now()
	sl.Pause(PHASE_FETCH, PHASE_FETCH.Duration())
	assert.Less(time.Since(start), PHASE_FETCH.Duration())

	sl.Scale = 0.01
	start = time.Now()
	sl.Pause(PHASE_FETCH, PHASE_FETCH.Duration())
	assert.GreaterOrEqual(time.Since(start), 4*time.Millisecond)
}

func TestMachineString(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine()
	cycle(t, m)

	text := m.String()
	lines := strings.Split(strings.TrimSpace(text), "\n")
	assert.Equal(6, len(lines))
	assert.Contains(text, "   pc: 01\n")
	assert.Contains(text, "   ir: \"MOV 5\"\n")
	assert.Contains(text, "  acc: 5\n")
	assert.Contains(text, "  mar: 00\n")
	assert.Contains(text, "stage: idle\n")

	m.Reset()
	assert.Contains(m.String(), "  mar: --\n")
}
