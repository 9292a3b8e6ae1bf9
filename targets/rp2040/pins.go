//go:build rp2040

package main

import (
	"machine"
)

// boardLines implements core.ControlLines on the controller's GPIOs.
//
// The aux pin emulates an open-drain output the way the original board
// drives its EEPROM write-protect line: "high" is the pin released to
// input (external pull decides the level), "low" is the pin driven as an
// output at ground.
type boardLines struct {
	auxDriven bool
}

func initLines() *boardLines {
	pinButton.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	pinPeerRunning.Configure(machine.PinConfig{Mode: machine.PinInputPulldown})

	pinPowerEnable.Configure(machine.PinConfig{Mode: machine.PinOutput})
	pinPowerEnable.Low()
	pinShutdownReq.Configure(machine.PinConfig{Mode: machine.PinOutput})
	pinShutdownReq.Low()

	// Aux pin starts released.
	pinAux.Configure(machine.PinConfig{Mode: machine.PinInput})

	return &boardLines{}
}

func (l *boardLines) SetPowerEnable(on bool) {
	pinPowerEnable.Set(on)
}

func (l *boardLines) SetShutdownRequest(on bool) {
	pinShutdownReq.Set(on)
}

func (l *boardLines) ButtonRaw() bool {
	return pinButton.Get()
}

func (l *boardLines) PeerRunningRaw() bool {
	return pinPeerRunning.Get()
}

func (l *boardLines) ToggleAux() {
	if l.auxDriven {
		pinAux.Configure(machine.PinConfig{Mode: machine.PinInput})
	} else {
		pinAux.Configure(machine.PinConfig{Mode: machine.PinOutput})
		pinAux.Low()
	}
	l.auxDriven = !l.auxDriven
}
