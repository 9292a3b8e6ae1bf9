//go:build rp2040

package main

import (
	"device/arm"
	"device/rp"
	"machine"
	"runtime/volatile"
)

// sleepCtl implements core.SleepController. Deep sleep is WFI with the
// tick alarm and watchdog parked so nothing but the armed button edge
// can end it. A pending interrupt terminates WFI even while interrupts
// are masked, which is what makes the caller's check-then-sleep
// sequence safe.
type sleepCtl struct{}

var (
	sleepDev *sleepCtl
	wakeFlag volatile.Register32
)

func initSleep() *sleepCtl {
	sleepDev = &sleepCtl{}
	return sleepDev
}

func handleWakeEdge(machine.Pin) {
	wakeFlag.Set(1)
}

// ArmWake implements core.SleepController.
func (s *sleepCtl) ArmWake() {
	wakeFlag.Set(0)
	pinButton.SetInterrupt(machine.PinFalling, handleWakeEdge)
}

// DisarmWake implements core.SleepController.
func (s *sleepCtl) DisarmWake() {
	pinButton.SetInterrupt(0, nil)
}

// WakePending implements core.SleepController.
func (s *sleepCtl) WakePending() bool {
	return wakeFlag.Get() != 0
}

// Sleep implements core.SleepController.
func (s *sleepCtl) Sleep() {
	// The tick would otherwise end the sleep within a millisecond, and
	// the watchdog would reset the chip shortly after.
	rp.TIMER.INTE.ClearBits(rp.TIMER_INTE_ALARM_0)
	rp.WATCHDOG.CTRL.ClearBits(rp.WATCHDOG_CTRL_ENABLE)

	arm.Asm("wfi")

	rp.WATCHDOG.CTRL.SetBits(rp.WATCHDOG_CTRL_ENABLE)
	rp.TIMER.INTE.SetBits(rp.TIMER_INTE_ALARM_0)
	rp.TIMER.ALARM0.Set(rp.TIMER.TIMERAWL.Get() + tickIntervalUs)
}

// IdleSleep implements core.SleepController. The tick stays armed, so
// this rests the core for at most one tick while a conversion runs.
func (s *sleepCtl) IdleSleep() {
	arm.Asm("wfi")
}
