package executor

import "fmt"

// State is the challenge flow's execution phase.
type State int

const (
	StateIdle State = iota
	StateCountdown
	StateExecuting
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCountdown:
		return "countdown"
	case StateExecuting:
		return "executing"
	case StateDone:
		return "done"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// DefaultCountdownTicks is the user-facing delay before execution starts.
// Purely presentational; it has no effect on execution semantics.
const DefaultCountdownTicks = 3

// Machine sequences one challenge run: Idle -> Countdown -> Executing -> Done,
// then back to Idle once the outcome has been reported. Invalid transitions
// are errors so UI bugs surface instead of corrupting the flow.
type Machine struct {
	state     State
	ticksLeft int
	result    Result
}

// NewMachine returns a machine in the Idle state.
func NewMachine() *Machine {
	return &Machine{state: StateIdle}
}

// State returns the current phase.
func (m *Machine) State() State {
	return m.state
}

// TicksLeft returns the remaining countdown ticks.
func (m *Machine) TicksLeft() int {
	return m.ticksLeft
}

// StartCountdown begins a run. Only valid from Idle.
func (m *Machine) StartCountdown(ticks int) error {
	if m.state != StateIdle {
		return fmt.Errorf("cannot start countdown from %s", m.state)
	}
	if ticks <= 0 {
		ticks = DefaultCountdownTicks
	}
	m.state = StateCountdown
	m.ticksLeft = ticks
	return nil
}

// Tick advances the countdown by one unit. When it reaches zero the machine
// moves to Executing and Tick reports done.
func (m *Machine) Tick() (done bool, err error) {
	if m.state != StateCountdown {
		return false, fmt.Errorf("cannot tick from %s", m.state)
	}
	m.ticksLeft--
	if m.ticksLeft <= 0 {
		m.state = StateExecuting
		return true, nil
	}
	return false, nil
}

// Complete records the execution result. Only valid from Executing.
func (m *Machine) Complete(res Result) error {
	if m.state != StateExecuting {
		return fmt.Errorf("cannot complete from %s", m.state)
	}
	m.result = res
	m.state = StateDone
	return nil
}

// Report returns the terminal result exactly once and resets the machine to
// Idle for the next invocation.
func (m *Machine) Report() (Result, error) {
	if m.state != StateDone {
		return Result{}, fmt.Errorf("no result to report from %s", m.state)
	}
	res := m.result
	m.state = StateIdle
	m.result = Result{}
	return res, nil
}
