package cpu

import (
	"time"
)

// Stage of the instruction cycle.
type Stage int

//go:generate go tool stringer -linecomment -type=Stage
const (
	STAGE_IDLE    = Stage(0) // idle
	STAGE_FETCH   = Stage(1) // fetch
	STAGE_DECODE  = Stage(2) // decode
	STAGE_EXECUTE = Stage(3) // execute
)

// Phase names a pause in the instruction cycle.
type Phase int

//go:generate go tool stringer -linecomment -type=Phase
const (
	PHASE_FETCH       = Phase(0) // fetch
	PHASE_DECODE      = Phase(1) // decode
	PHASE_EXECUTE_ACC = Phase(2) // execute-acc
	PHASE_EXECUTE_PC  = Phase(3) // execute-pc
	PHASE_CYCLE       = Phase(4) // cycle
)

var _phase_duration = [...]time.Duration{
	PHASE_FETCH:       450 * time.Millisecond,
	PHASE_DECODE:      350 * time.Millisecond,
	PHASE_EXECUTE_ACC: 200 * time.Millisecond,
	PHASE_EXECUTE_PC:  200 * time.Millisecond,
	PHASE_CYCLE:       200 * time.Millisecond,
}

// Duration is the nominal length of the pause.
func (phase Phase) Duration() time.Duration {
	if phase < 0 || int(phase) >= len(_phase_duration) {
		return 0
	}
	return _phase_duration[phase]
}

// Event names a state change reported to a Machine's Observer.
type Event int

//go:generate go tool stringer -linecomment -type=Event
const (
	EVENT_RESET   = Event(0) // reset
	EVENT_FETCH   = Event(1) // fetch
	EVENT_DECODE  = Event(2) // decode
	EVENT_EXECUTE = Event(3) // execute
	EVENT_ACC     = Event(4) // acc
	EVENT_PC      = Event(5) // pc
	EVENT_HALT    = Event(6) // halt
	EVENT_RUN     = Event(7) // run
	EVENT_STOP    = Event(8) // stop
)

// Pacer inserts the pauses between stage effects.
// Pause is called with no machine lock held.
type Pacer interface {
	Pause(phase Phase, duration time.Duration)
}

// PacerFunc adapts a function to a Pacer.
type PacerFunc func(phase Phase, duration time.Duration)

func (pf PacerFunc) Pause(phase Phase, duration time.Duration) {
	pf(phase, duration)
}

// Sleeper sleeps for each pause, scaled by Scale. A zero Scale never sleeps.
type Sleeper struct {
	Scale float64
}

var _ Pacer = (*Sleeper)(nil)

func (sl *Sleeper) Pause(phase Phase, duration time.Duration) {
	if sl.Scale <= 0 {
		return
	}
	time.Sleep(time.Duration(float64(duration) * sl.Scale))
}
