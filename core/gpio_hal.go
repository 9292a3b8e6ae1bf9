package core

// ControlLines is the abstract view of the controller's digital pins.
// Target-specific implementations map these onto real GPIO; tests use a
// recording fake. ButtonRaw and PeerRunningRaw are called from the tick
// interrupt, the outputs from the foreground loop only.
type ControlLines interface {
	// SetPowerEnable drives the switching-supply enable output.
	SetPowerEnable(on bool)

	// SetShutdownRequest drives the clean-shutdown request output
	// monitored by the powered peer.
	SetShutdownRequest(on bool)

	// ButtonRaw returns the unfiltered electrical level of the button
	// input. The button is wired active low.
	ButtonRaw() bool

	// PeerRunningRaw returns the unfiltered level of the peer "running"
	// input. The peer holds it high while it is up.
	PeerRunningRaw() bool

	// ToggleAux flips the auxiliary open-drain pin between driven-low
	// and high-impedance. Invoked only from the foreground loop; the
	// bus responder defers the request out of interrupt context.
	ToggleAux()
}

// StatusSink receives the current power state whenever it changes, for
// the board's indicator output. Purely a debugging aid; implementations
// must not block.
type StatusSink interface {
	ShowState(s PowerState)
}
