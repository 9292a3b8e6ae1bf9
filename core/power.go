// Power state machine: the single authority over the supply-enable and
// shutdown-request outputs and the only component allowed to put the
// whole device to sleep.
package core

// PowerState enumerates the machine's states. Entry states perform their
// one-time setup and advance unconditionally in the same pass; only the
// steady states (Wait, SignaledOn, MCURunning, SignaledOff) evaluate
// external conditions.
type PowerState uint8

const (
	Start PowerState = iota
	WaitEntry
	Wait
	ButtonPress
	ButtonRelease
	SignaledOnEntry
	SignaledOn
	MCURunningEntry
	MCURunning
	IdleEntry
	ADCNoiseEntry
	ADCNoiseExit
	SignaledOffEntry
	SignaledOff
	MCUOffEntry
	MCUOff
	PowerDownEntry
	PowerDownExit
)

// String returns the state name, for host-side debugging.
func (s PowerState) String() string {
	switch s {
	case Start:
		return "Start"
	case WaitEntry:
		return "WaitEntry"
	case Wait:
		return "Wait"
	case ButtonPress:
		return "ButtonPress"
	case ButtonRelease:
		return "ButtonRelease"
	case SignaledOnEntry:
		return "SignaledOnEntry"
	case SignaledOn:
		return "SignaledOn"
	case MCURunningEntry:
		return "MCURunningEntry"
	case MCURunning:
		return "MCURunning"
	case IdleEntry:
		return "IdleEntry"
	case ADCNoiseEntry:
		return "ADCNoiseEntry"
	case ADCNoiseExit:
		return "ADCNoiseExit"
	case SignaledOffEntry:
		return "SignaledOffEntry"
	case SignaledOff:
		return "SignaledOff"
	case MCUOffEntry:
		return "MCUOffEntry"
	case MCUOff:
		return "MCUOff"
	case PowerDownEntry:
		return "PowerDownEntry"
	case PowerDownExit:
		return "PowerDownExit"
	}
	return "Unknown"
}

// Controller wires the state machine to its collaborators. All fields are
// owned by the foreground loop except the debouncers and timers, which
// are advanced by Tick from the timer interrupt under the single-writer
// rules documented on their types.
type Controller struct {
	lines  ControlLines
	sleep  SleepController
	eng    *Engine
	bus    *Responder
	status StatusSink // may be nil

	button Debouncer // active low: pressed when stably low
	peer   Debouncer // active high: running when stably high

	state PowerState
	// prev is the last steady state, skipping transients, so a button
	// press classified in ButtonRelease knows which context to act on
	// or return to.
	prev PowerState

	wakeupTimer TickTimer
	buttonTimer TickTimer
	idleTimer   TickTimer
}

// NewController returns a controller in Start. status may be nil.
func NewController(lines ControlLines, sleep SleepController, eng *Engine, bus *Responder, status StatusSink) *Controller {
	c := &Controller{
		lines:  lines,
		sleep:  sleep,
		eng:    eng,
		bus:    bus,
		status: status,
		button: NewDebouncer(true),  // released, pulled high
		peer:   NewDebouncer(false), // peer down
		state:  Start,
		prev:   Wait,
	}
	c.wakeupTimer.Disarm()
	c.buttonTimer.Disarm()
	c.idleTimer.Disarm()
	return c
}

// State returns the current state.
func (c *Controller) State() PowerState { return c.state }

// Tick is the periodic heartbeat, called from the timer interrupt. It
// feeds the debounce filters and advances every armed timer.
func (c *Controller) Tick() {
	c.button.Sample(c.lines.ButtonRaw())
	c.peer.Sample(c.lines.PeerRunningRaw())
	c.wakeupTimer.Advance()
	c.buttonTimer.Advance()
	c.idleTimer.Advance()
	c.bus.Tick()
}

// buttonPressed reports the debounced, level-triggered button state.
func (c *Controller) buttonPressed() bool { return c.button.Low() }

// peerRunning reports the debounced peer "running" level.
func (c *Controller) peerRunning() bool { return c.peer.High() }

// setState transitions to next, recording the state being left as the
// return context when it is one of the steady states.
func (c *Controller) setState(next PowerState) {
	switch c.state {
	case Wait, SignaledOn, MCURunning, SignaledOff:
		c.prev = c.state
	}
	c.state = next
	if c.status != nil {
		c.status.ShowState(next)
	}
}

// entryOf maps a steady state to the entry state that rebuilds it, for
// short presses that must return to the interrupted context.
func entryOf(s PowerState) PowerState {
	switch s {
	case SignaledOn:
		return SignaledOnEntry
	case MCURunning:
		return MCURunningEntry
	case SignaledOff:
		return SignaledOffEntry
	default:
		return WaitEntry
	}
}

// Run executes one dispatch pass of the state machine from the
// foreground loop. Entry states fall straight through to their steady
// counterpart on the next pass.
func (c *Controller) Run() {
	switch c.state {
	case Start:
		c.setState(WaitEntry)

	case WaitEntry:
		c.lines.SetPowerEnable(false)
		c.lines.SetShutdownRequest(false)
		c.wakeupTimer.Arm()
		c.setState(Wait)

	case Wait:
		if c.buttonPressed() {
			c.setState(ButtonPress)
		} else if c.wakeupTimer.Expired(waitTimeoutTicks) {
			// Nothing ever powered on; stop drawing current.
			c.wakeupTimer.Disarm()
			c.setState(MCUOffEntry)
		}

	case ButtonPress:
		c.buttonTimer.Arm()
		c.setState(ButtonRelease)

	case ButtonRelease:
		if !c.button.High() {
			return // held or still bouncing
		}
		held := c.buttonTimer.Elapsed()
		c.buttonTimer.Disarm()
		if held < buttonHoldTicks {
			// Glitch press: rebuild the interrupted context.
			c.setState(entryOf(c.prev))
			return
		}
		switch c.prev {
		case Wait:
			c.setState(SignaledOnEntry)
		case SignaledOn:
			// Cancel a power-on still waiting for the peer.
			c.setState(MCUOffEntry)
		case MCURunning:
			c.setState(SignaledOffEntry)
		default:
			c.setState(entryOf(c.prev))
		}

	case SignaledOnEntry:
		c.lines.SetPowerEnable(true)
		c.wakeupTimer.Disarm()
		c.setState(SignaledOn)

	case SignaledOn:
		if c.buttonPressed() {
			c.setState(ButtonPress)
		} else if c.peerRunning() {
			c.setState(MCURunningEntry)
		}

	case MCURunningEntry:
		c.idleTimer.Arm()
		c.setState(MCURunning)

	case MCURunning:
		if c.buttonPressed() {
			c.idleTimer.Disarm()
			c.setState(ButtonPress)
		} else if !c.peerRunning() {
			// Peer vanished without a handshake. Indistinguishable
			// from a completed shutdown at this layer; treat it as
			// one and cut power.
			c.idleTimer.Disarm()
			c.setState(MCUOffEntry)
		} else if c.idleTimer.Expired(idleTimeoutTicks) {
			c.idleTimer.Disarm()
			c.setState(IdleEntry)
		}

	case IdleEntry:
		c.setState(ADCNoiseEntry)

	case ADCNoiseEntry:
		// Light sleep that keeps the sampling engine converting.
		c.sleep.IdleSleep()
		c.setState(ADCNoiseExit)

	case ADCNoiseExit:
		c.setState(MCURunningEntry)

	case SignaledOffEntry:
		c.lines.SetShutdownRequest(true)
		c.setState(SignaledOff)

	case SignaledOff:
		if !c.peerRunning() {
			// Peer finished its own shutdown.
			c.lines.SetShutdownRequest(false)
			c.setState(MCUOffEntry)
		}

	case MCUOffEntry:
		c.lines.SetPowerEnable(false)
		c.lines.SetShutdownRequest(false)
		c.setState(MCUOff)

	case MCUOff:
		c.setState(PowerDownEntry)

	case PowerDownEntry:
		c.sleep.ArmWake()
		c.eng.PreSleep()
		c.bus.PreSleep()
		// A wake interrupt may already have fired between ArmWake and
		// here; check with interrupts masked so it cannot slip in
		// between the check and the sleep instruction.
		st := disableInterrupts()
		if !c.sleep.WakePending() {
			c.sleep.Sleep()
		}
		restoreInterrupts(st)
		c.setState(PowerDownExit)

	case PowerDownExit:
		c.sleep.DisarmWake()
		// Resume in the mirror order of PowerDownEntry's hooks.
		c.bus.PostSleep()
		c.eng.PostSleep()
		c.wakeupTimer.Arm()
		c.setState(WaitEntry)

	default:
		// An undefined state with the supply possibly enabled is the
		// unsafe failure mode; reset rather than crash.
		c.setState(Start)
	}
}
