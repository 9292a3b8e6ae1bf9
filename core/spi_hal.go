package core

// BusDevice is the abstract serial peripheral the bus responder runs on.
// The hardware delivers received bytes to Responder.HandleByte from its
// transfer-complete interrupt and loads the returned reply into the data
// register for the next transfer.
type BusDevice interface {
	// Selected reports whether the chip-select line is asserted, i.e.
	// the current bus traffic is addressed to this device. Called from
	// interrupt context.
	Selected() bool

	// PowerDown disables the serial hardware ahead of device sleep and
	// parks the output line in a safe pulled state.
	PowerDown()

	// PowerUp re-enables the serial hardware after wake.
	PowerUp()
}
