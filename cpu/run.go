package cpu

import (
	"log"
	"sync/atomic"
)

// RunAll repeats fetch, decode and execute until the machine halts, PC
// leaves memory, or the run is cancelled by Reset or Stop. It blocks until
// the loop ends, and returns false without running if the machine is
// already running or halted.
//
// Cancellation is checked once per cycle, before its fetch. A Reset or Stop
// that arrives while a cycle is in progress does not interrupt it: the rest
// of that cycle's stage effects still land, and the loop ends before the
// next fetch. A RunAll started after such a Reset waits for the cancelled
// loop to end before its first fetch, so it must not be called from the
// Pacer or Observer of the loop being cancelled.
//
// When PC leaves memory the loop simply stops. The machine is not halted,
// and manual stepping resumes from the out of range PC.
func (m *Machine) RunAll() (ok bool) {
	m.mutex.Lock()
	for {
		if m.running || m.halted {
			m.mutex.Unlock()
			return
		}
		prev := m.loop
		if prev == nil {
			break
		}
		m.mutex.Unlock()
		<-prev
		m.mutex.Lock()
	}

	abort := &atomic.Bool{}
	done := make(chan struct{})
	m.abort = abort
	m.loop = done
	m.running = true
	m.stage = STAGE_IDLE
	state := m.snapshot()
	m.mutex.Unlock()

	if m.Verbose {
		log.Printf("cpu: run from %v", state.PC)
	}

	m.notify(EVENT_RUN, state)

	defer func() {
		m.mutex.Lock()
		// A Reset may have taken over.
		if m.abort == abort {
			m.abort = nil
			m.running = false
		}
		state := m.snapshot()
		m.mutex.Unlock()

		if m.Verbose {
			log.Printf("cpu: run stopped at %v", state.PC)
		}

		m.notify(EVENT_STOP, state)

		m.mutex.Lock()
		m.loop = nil
		m.mutex.Unlock()
		close(done)
	}()

	for !abort.Load() {
		m.fetch(false)
		if m.Halted() {
			break
		}
		m.decode(false)
		if m.Halted() {
			break
		}
		m.execute(false)
		if m.Halted() {
			break
		}

		pc := m.State().PC
		if !pc.Valid() {
			if m.Verbose {
				log.Printf("cpu: runaway pc %v", pc)
			}
			break
		}

		m.pause(PHASE_CYCLE)
	}

	ok = true
	return
}

// Running returns true while RunAll owns the instruction cycle.
func (m *Machine) Running() (running bool) {
	m.mutex.Lock()
	running = m.running
	m.mutex.Unlock()
	return
}

// Halted returns true once a HLT has executed.
func (m *Machine) Halted() (halted bool) {
	m.mutex.Lock()
	halted = m.halted
	m.mutex.Unlock()
	return
}

// Stop asks a running loop to end before its next cycle, leaving registers
// as they are. Returns false if there was no run to stop.
func (m *Machine) Stop() (ok bool) {
	m.mutex.Lock()
	if m.abort != nil {
		m.abort.Store(true)
		ok = true
	}
	m.mutex.Unlock()
	return
}

// Reset cancels any run, and returns the registers, stage and flags to
// their initial values. Memory is not changed.
func (m *Machine) Reset() {
	m.mutex.Lock()
	if m.abort != nil {
		m.abort.Store(true)
		m.abort = nil
	}
	m.running = false
	m.halted = false
	m.stage = STAGE_IDLE
	m.highlight = NO_ADDRESS
	m.decoded = nil
	m.reg.Reset()
	state := m.snapshot()
	m.mutex.Unlock()

	if m.Verbose {
		log.Printf("cpu: reset")
	}

	m.notify(EVENT_RESET, state)
}
