package core

// debounceWidth is the number of consecutive identical samples required
// before a debounced level is believed. At TickHz=1000 this is 8ms.
const debounceWidth = 8

// Debouncer filters a noisy digital line into a stable level using an
// 8-bit shift register. Each tick the raw pin level is shifted in; the
// line is stably high only when the register is all ones and stably low
// only when it is all zeros. Anything in between is bouncing and changes
// no decision.
//
// Sample is called only from the tick interrupt. High and Low are called
// only from the foreground loop; the single-byte mask read is atomic.
type Debouncer struct {
	mask uint8
}

// NewDebouncer returns a debouncer preloaded to the given stable level,
// so the line does not appear to transition at boot.
func NewDebouncer(level bool) Debouncer {
	if level {
		return Debouncer{mask: 0xFF}
	}
	return Debouncer{mask: 0x00}
}

// Sample shifts the current raw level into the filter. Tick interrupt
// context.
func (d *Debouncer) Sample(level bool) {
	d.mask <<= 1
	if level {
		d.mask |= 1
	}
}

// High reports a stable high level.
func (d *Debouncer) High() bool { return d.mask == 0xFF }

// Low reports a stable low level.
func (d *Debouncer) Low() bool { return d.mask == 0x00 }
