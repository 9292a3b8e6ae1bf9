package main

import "time"

// Monitor decides when a shutdown request on the controller's signal
// line is real. The line must stay asserted for HoldTime before the
// daemon acts; shorter pulses are treated as noise and dropped.
type Monitor struct {
	// HoldTime is the minimum assertion length that counts as a
	// shutdown request.
	HoldTime time.Duration

	// ActivePoll and IdlePoll are the suggested sampling intervals
	// while the line is asserted and while it is quiet.
	ActivePoll time.Duration
	IdlePoll   time.Duration

	held     time.Duration
	asserted bool
	fired    bool
}

// Sample feeds one reading of the signal line, taken elapsed after the
// previous one. It returns true exactly once, when the line has been
// asserted continuously for HoldTime.
func (m *Monitor) Sample(asserted bool, elapsed time.Duration) bool {
	if !asserted {
		m.held = 0
		m.asserted = false
		m.fired = false
		return false
	}

	if m.asserted {
		m.held += elapsed
	}
	m.asserted = true

	if m.fired || m.held < m.HoldTime {
		return false
	}
	m.fired = true
	return true
}

// Interval returns how long to wait before the next sample: tight while
// a pulse is being measured, relaxed otherwise.
func (m *Monitor) Interval() time.Duration {
	if m.asserted {
		return m.ActivePoll
	}
	return m.IdlePoll
}
