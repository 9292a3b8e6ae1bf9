// Analog sampling engine: keeps every requested channel refreshed, one
// conversion at a time, round-robin over the request mask.
package core

// NumChannels is the number of analog channels the controller exposes.
// Channel k is requested when bit k of the channel mask is set.
const NumChannels = 6

// Engine sequences single-channel conversions over the requested set.
//
// Ownership: requested is written by the bus interrupt (register 0x01)
// and read everywhere as a single-byte snapshot; values[current] is
// written by the conversion-complete path (interrupt context on real
// hardware) and read by the bus interrupt when serving 0x10+k; current
// and the scheduling decisions belong to the foreground loop alone.
// Interrupt handlers never nest, so the only crossings needing masked
// sections are the foreground's multi-byte accesses.
type Engine struct {
	drv ADCDriver

	requested uint8
	values    [NumChannels]uint16

	// current is the channel with a conversion in flight, -1 for none.
	current int8

	// done and doneValue carry one completion from interrupt context
	// to the next foreground pass.
	done      bool
	doneValue ADCValue
}

// NewEngine returns an engine driving drv. No conversion starts until a
// bus master requests channels.
func NewEngine(drv ADCDriver) *Engine {
	return &Engine{drv: drv, current: -1}
}

// Mask returns the channel-request mask.
func (e *Engine) Mask() uint8 { return e.requested }

// SetMask replaces the channel-request mask. Called by the bus responder
// from interrupt context when register 0x01 is written; a single-byte
// store, so foreground snapshots stay consistent.
func (e *Engine) SetMask(m uint8) { e.requested = m }

// Value returns the most recent reading for channel k, or 0 for a
// channel that is out of range or not requested. Interrupt context
// (bus responder) or tests.
func (e *Engine) Value(k uint8) ADCValue {
	if k >= NumChannels {
		return 0
	}
	return ADCValue(e.values[k])
}

// Complete records the result of the conversion in flight. Called by the
// ADC driver, typically from the conversion-complete interrupt.
func (e *Engine) Complete(v ADCValue) {
	e.done = true
	e.doneValue = v
}

// Poll runs one scheduling pass from the foreground loop.
//
// If a conversion finished since the last pass, its value is stored and
// the next requested channel strictly after the current one (wrapping to
// 0) is started, so every requested channel is visited before any is
// revisited. Otherwise, if nothing is in flight and channels are
// requested, the lowest requested channel starts the rotation. On passes
// with no completion, every deselected channel's stored value is forced
// to zero so stale readings are never served.
func (e *Engine) Poll() {
	st := disableInterrupts()
	done := e.done
	v := e.doneValue
	e.done = false
	restoreInterrupts(st)

	// Bits above the implemented channels are stored (and read back via
	// register 0x02) but never scheduled.
	mask := e.requested & (1<<NumChannels - 1)

	if done {
		if e.current >= 0 {
			st = disableInterrupts()
			e.values[e.current] = uint16(v)
			restoreInterrupts(st)
		}
		if mask == 0 {
			e.current = -1
			return
		}
		next := nextRequested(mask, uint8(e.current))
		e.current = int8(next)
		e.drv.Start(next)
		return
	}

	if e.current < 0 && mask != 0 {
		ch := nextRequested(mask, NumChannels-1) // wraps: lowest set bit
		e.current = int8(ch)
		e.drv.Start(ch)
	}

	for k := uint8(0); k < NumChannels; k++ {
		if mask&(1<<k) == 0 && e.values[k] != 0 {
			st = disableInterrupts()
			e.values[k] = 0
			restoreInterrupts(st)
		}
	}
}

// PreSleep powers the conversion hardware down ahead of device sleep.
// An in-flight conversion is discarded, never resumed.
func (e *Engine) PreSleep() {
	e.drv.PowerDown()
}

// PostSleep re-enables the conversion hardware after wake and restarts
// the rotation from scratch on the next Poll.
func (e *Engine) PostSleep() {
	e.drv.PowerUp()
	e.current = -1
	e.done = false
}

// nextRequested returns the lowest requested channel strictly after
// `after`, wrapping past the top of the mask back to channel 0. mask
// must be non-zero.
func nextRequested(mask uint8, after uint8) uint8 {
	for i := after + 1; i < NumChannels; i++ {
		if mask&(1<<i) != 0 {
			return i
		}
	}
	for i := uint8(0); i < NumChannels; i++ {
		if mask&(1<<i) != 0 {
			return i
		}
	}
	return 0
}
