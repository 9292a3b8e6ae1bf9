//go:build rp2040

package main

import (
	"device/rp"
	"runtime/interrupt"

	"powermon/core"
)

// The RP2040 timer counts microseconds. Alarm 0 is rearmed from its own
// handler to produce the periodic control tick.
const tickIntervalUs = 1000000 / core.TickHz

// tickCtl is the singleton the alarm handler reaches through.
var tickCtl *core.Controller

func startTick(ctl *core.Controller) {
	tickCtl = ctl

	rp.TIMER.INTE.SetBits(rp.TIMER_INTE_ALARM_0)
	intr := interrupt.New(rp.IRQ_TIMER_IRQ_0, handleTickAlarm)
	intr.Enable()

	rp.TIMER.ALARM0.Set(rp.TIMER.TIMERAWL.Get() + tickIntervalUs)
}

func handleTickAlarm(interrupt.Interrupt) {
	rp.TIMER.INTR.Set(rp.TIMER_INTR_ALARM_0)

	// Rearm relative to now, not to the previous deadline. The tick can
	// stretch across a deep sleep and must not fire a burst afterwards
	// to catch up.
	rp.TIMER.ALARM0.Set(rp.TIMER.TIMERAWL.Get() + tickIntervalUs)

	tickCtl.Tick()
}
