// Peripheral bus responder: a register-addressed 3-byte request/response
// protocol served entirely from the serial transfer-complete interrupt.
//
// Transactions are fixed length. Byte 1 from the bus master is a register
// address; the reply to it goes out while byte 2 is clocked in; the third
// reply byte is computed when the address is processed and goes out with
// byte 3. A register write (0x01) captures its payload on receipt of the
// second byte, not the first.
package core

// Register addresses.
const (
	RegSetChannels = 0x01 // write channel-request mask (payload in byte 2)
	RegGetChannels = 0x02 // read channel-request mask
	RegToggleAux   = 0x03 // toggle auxiliary pin, deferred to foreground
	RegVersion     = 0x04 // firmware version: major, minor
	RegBootloader  = 0x05 // jump to bootloader after a settle delay
	RegVariant     = 0x06 // hardware variant flag
	RegChannelBase = 0x10 // +k: channel k value, low byte then high byte
)

// TxnState is the progress counter of one bus transaction.
type TxnState uint8

const (
	ExpectAddress TxnState = iota
	ExpectByte2
	ExpectByte3
)

// Responder owns the transaction scratch state. All of it is mutated only
// inside HandleByte and Deselected (interrupt context); the foreground
// loop observes one-shot flags through Poll and TookTransfer.
type Responder struct {
	eng     *Engine
	dev     BusDevice
	lines   ControlLines
	variant uint8

	// boot is invoked from the foreground loop once the settle delay
	// after a RegBootloader write has elapsed. Nil disables the jump.
	boot func()

	state TxnState
	addr  uint8
	// third is the reply prepared for byte 3 while the address was
	// being classified.
	third uint8

	// One-shot flags crossing into the foreground loop.
	transferred bool
	auxPending  bool
	bootPending bool

	// bootSettle counts down in tick context once armed.
	bootSettle int32
}

// NewResponder returns a responder exposing eng's channels and mask over
// the bus. boot may be nil when no bootloader entry exists.
func NewResponder(eng *Engine, dev BusDevice, lines ControlLines, variant uint8, boot func()) *Responder {
	return &Responder{eng: eng, dev: dev, lines: lines, variant: variant, boot: boot}
}

// HandleByte advances the transaction with one received byte and returns
// the byte to load into the data register for the next transfer. It runs
// inside the transfer-complete interrupt and must finish within the bus
// master's inter-byte gap: no blocking, no allocation.
//
// When chip select is not asserted the traffic belongs to another device
// on the shared bus; protocol state is left untouched, but the transfer
// still counts for diagnostics.
func (r *Responder) HandleByte(received uint8) uint8 {
	r.transferred = true
	if !r.dev.Selected() {
		return 0
	}

	switch r.state {
	case ExpectAddress:
		r.addr = received
		r.state = ExpectByte2
		return r.classify(received)

	case ExpectByte2:
		if r.addr == RegSetChannels {
			r.eng.SetMask(received)
		}
		r.state = ExpectByte3
		return r.third

	default: // ExpectByte3, or an unreachable state value
		r.state = ExpectAddress
		return 0
	}
}

// classify processes a register address, returning the reply for byte 2
// and leaving the byte-3 reply in r.third.
func (r *Responder) classify(addr uint8) uint8 {
	r.third = 0
	switch {
	case addr >= RegChannelBase && addr < RegChannelBase+NumChannels:
		v := r.eng.Value(addr - RegChannelBase)
		r.third = uint8(v >> 8)
		return uint8(v)
	case addr == RegSetChannels:
		return 0
	case addr == RegGetChannels:
		return r.eng.Mask()
	case addr == RegToggleAux:
		r.auxPending = true
		return 0
	case addr == RegVersion:
		r.third = VersionMinor
		return VersionMajor
	case addr == RegBootloader:
		r.bootPending = true
		r.bootSettle = bootSettleTicks
		return 0
	case addr == RegVariant:
		return r.variant
	default:
		// Unknown register: fixed zero reply, no state change.
		return 0
	}
}

// Deselected resets a transaction abandoned mid-frame. Called from the
// chip-select release interrupt.
func (r *Responder) Deselected() {
	r.state = ExpectAddress
}

// Tick advances the bootloader settle countdown. Tick interrupt context.
func (r *Responder) Tick() {
	if r.bootSettle > 0 {
		r.bootSettle--
	}
}

// Poll performs the deferred, non-latency-critical side effects of bus
// traffic from the foreground loop: the auxiliary pin toggle and the
// bootloader jump once its settle delay has passed.
func (r *Responder) Poll() {
	st := disableInterrupts()
	aux := r.auxPending
	r.auxPending = false
	boot := r.bootPending && r.bootSettle <= 0
	restoreInterrupts(st)

	if aux {
		r.lines.ToggleAux()
	}
	if boot && r.boot != nil {
		// Does not return. The bus master is responsible for forcing
		// the peer-running line low first so the bootloader stays put.
		r.boot()
	}
}

// TookTransfer reports and clears the one-shot transfer-occurred flag.
// Set even for traffic gated off by chip select, as a bus-activity
// diagnostic.
func (r *Responder) TookTransfer() bool {
	st := disableInterrupts()
	t := r.transferred
	r.transferred = false
	restoreInterrupts(st)
	return t
}

// PreSleep parks the serial hardware ahead of device sleep.
func (r *Responder) PreSleep() {
	r.dev.PowerDown()
}

// PostSleep re-enables the serial hardware after wake. A transaction cut
// short by sleep is discarded, never resumed.
func (r *Responder) PostSleep() {
	r.dev.PowerUp()
	r.state = ExpectAddress
}
