//go:build rp2040

package main

import (
	"machine"

	"powermon/core"
)

// Board pinout (power controller hat, rev B):
//
//	GP4/GP5    I2C0 to the INA260 power monitor
//	GP10       button input, active low, pull-up
//	GP11       peer "running" input from the SBC
//	GP12       supply enable output
//	GP13       shutdown request output
//	GP14       auxiliary open-drain pin (bus register 0x03)
//	GP16-GP19  SPI0 in peripheral mode (RX, CSn, SCK, TX)
//	GP22       WS2812 status indicator
const (
	pinButton      = machine.GP10
	pinPeerRunning = machine.GP11
	pinPowerEnable = machine.GP12
	pinShutdownReq = machine.GP13
	pinAux         = machine.GP14
	pinSPIRx       = machine.GP16
	pinSPICSn      = machine.GP17
	pinSPISck      = machine.GP18
	pinSPITx       = machine.GP19
	pinStatusLED   = machine.GP22
)

// hwVariant identifies the board revision through bus register 0x06.
const hwVariant = 0x01

// Debug counters, readable with a debugger attached.
var (
	busTransfers uint32
)

func main() {
	// Clear any watchdog state left over from a previous reset before
	// anything else can trip it.
	_ = machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 0})

	lines := initLines()

	adcDrv := initADC()
	eng := core.NewEngine(adcDrv)
	adcDrv.eng = eng

	spiDev := initSPISlave()
	bus := core.NewResponder(eng, spiDev, lines, hwVariant, enterBootloader)
	spiDev.bus = bus

	sleeper := initSleep()

	var status core.StatusSink
	if led, err := initStatusLED(); err == nil {
		status = led
	}

	ctl := core.NewController(lines, sleeper, eng, bus, status)

	// Everything the tick interrupt touches must exist before the timer
	// starts firing.
	startTick(ctl)
	spiDev.enableIRQ()
	adcDrv.enableIRQ()

	// Last line of defense if the loop below ever wedges.
	_ = machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 2000})
	_ = machine.Watchdog.Start()

	for {
		machine.Watchdog.Update()

		ctl.Run()
		eng.Poll()
		bus.Poll()

		if bus.TookTransfer() {
			busTransfers++
		}
	}
}
