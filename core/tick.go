package core

// The whole firmware runs off one heartbeat: a fixed-rate timer interrupt
// that advances the debounce filters and every armed tick timer. The
// foreground loop never counts ticks itself; it only compares timer values
// against the thresholds below, so a missed pass costs latency, not events.

// TickHz is the rate of the periodic tick interrupt.
const TickHz = 1000

const (
	// buttonHoldTicks separates a deliberate button press from a glitch.
	buttonHoldTicks = 200 * TickHz / 1000

	// waitTimeoutTicks bounds how long the supply stays powered in Wait
	// with nobody pushing the button before the controller gives up and
	// goes to sleep.
	waitTimeoutTicks = 60 * TickHz

	// idleTimeoutTicks is the quiet period in MCURunning before the
	// controller drops into the ADC-noise-reduction idle sleep.
	idleTimeoutTicks = 300 * TickHz

	// bootSettleTicks is the delay between receiving the enter-bootloader
	// register write and performing the jump, giving the bus master time
	// to finish the transaction and park its lines.
	bootSettleTicks = 50 * TickHz / 1000
)

// TickTimer is a signed tick counter. A value of -1 means stopped; values
// >= 0 advance once per tick. Timers are advanced only from the tick
// interrupt and armed, disarmed and compared only from the foreground
// loop, so no field has two writers.
type TickTimer struct {
	ticks int32
}

// Arm starts the timer from zero.
func (t *TickTimer) Arm() { t.ticks = 0 }

// Disarm stops the timer. A stopped timer never reports expiry.
func (t *TickTimer) Disarm() { t.ticks = -1 }

// Armed reports whether the timer is running.
func (t *TickTimer) Armed() bool { return t.ticks >= 0 }

// Advance adds one tick if the timer is armed. Tick interrupt context.
func (t *TickTimer) Advance() {
	if t.ticks >= 0 {
		t.ticks++
	}
}

// Elapsed returns the ticks accumulated since Arm, or -1 if stopped.
// A 32-bit read is atomic on the target, so no masking is needed here.
func (t *TickTimer) Elapsed() int32 { return t.ticks }

// Expired reports whether the timer is armed and has reached threshold.
func (t *TickTimer) Expired(threshold int32) bool {
	v := t.ticks
	return v >= 0 && v >= threshold
}
