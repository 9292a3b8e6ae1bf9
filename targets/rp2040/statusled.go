//go:build rp2040

package main

import (
	"machine"

	rp2pio "github.com/tinygo-org/pio/rp2-pio"

	"powermon/core"
)

// WS2812 waveform generator. One data bit per loop:
//
//  1. Shift the next bit into Y.
//  2. A one holds the line high for 5 cycles, a zero for 3.
//  3. Both end with 4 cycles low before wrapping.
//
// At 8 MHz that is 625 ns / 375 ns high times and ~500-750 ns low,
// inside the WS2812B timing windows.
func buildWS2812Program() []uint16 {
	asm := rp2pio.AssemblerV0{SidesetBits: 0}
	return []uint16{
		// .wrap_target
		asm.Out(rp2pio.OutDestY, 1).Encode(), // 0: out y, 1
		asm.Jmp(4, rp2pio.JmpYNZeroDec).Encode(), // 1: jmp y--, 4
		// zero bit:
		asm.Set(rp2pio.SetDestPins, 1).Delay(1).Encode(), // 2: set pins, 1 [1]
		asm.Jmp(5, rp2pio.JmpAlways).Encode(),            // 3: jmp 5
		// one bit:
		asm.Set(rp2pio.SetDestPins, 1).Delay(4).Encode(), // 4: set pins, 1 [4]
		// common tail:
		asm.Set(rp2pio.SetDestPins, 0).Delay(3).Encode(), // 5: set pins, 0 [3]
		// .wrap
	}
}

const ws2812Origin = 0 // Load at offset 0 for correct jump addresses

// statusLED implements core.StatusSink on the board's single WS2812.
type statusLED struct {
	sm    rp2pio.StateMachine
	shown core.PowerState
}

func initStatusLED() (*statusLED, error) {
	sm := rp2pio.PIO0.StateMachine(0)
	sm.TryClaim()

	program := buildWS2812Program()
	offset, err := rp2pio.PIO0.AddProgram(program, ws2812Origin)
	if err != nil {
		return nil, err
	}

	pinStatusLED.Configure(machine.PinConfig{Mode: rp2pio.PIO0.PinMode()})
	sm.SetPindirsConsecutive(pinStatusLED, 1, true)

	cfg := rp2pio.DefaultStateMachineConfig()
	cfg.SetSetPins(pinStatusLED, 1)

	// Shift left so the color goes out MSB first, autopull at 24 bits.
	cfg.SetOutShift(false, true, 24)
	cfg.SetWrap(offset+5, offset)

	// 125 MHz / 15.625 = 8 MHz state machine clock.
	cfg.SetClkDivIntFrac(15, 0xA0)

	sm.Init(offset, cfg)
	sm.SetEnabled(true)

	led := &statusLED{sm: sm, shown: core.PowerState(0xFF)}
	led.push(0x000000)
	return led, nil
}

// push queues one 24-bit GRB frame. The FIFO is left-justified because
// the shifter takes bits from the top of the OSR.
func (l *statusLED) push(grb uint32) {
	l.sm.TxPut(grb << 8)
}

// ShowState implements core.StatusSink. Called on every transition, so
// it only touches the FIFO when the color actually changes.
func (l *statusLED) ShowState(s core.PowerState) {
	if s == l.shown {
		return
	}
	l.shown = s
	l.push(stateColor(s))
}

// stateColor maps a state to a dim GRB color. Transient entry and exit
// states show the color of the phase they lead into.
func stateColor(s core.PowerState) uint32 {
	const (
		off    = 0x000000
		blue   = 0x000010
		white  = 0x101010
		yellow = 0x101000
		green  = 0x100000
		red    = 0x001000
		orange = 0x081000
	)
	switch s {
	case core.Wait, core.WaitEntry:
		return blue
	case core.ButtonPress, core.ButtonRelease:
		return white
	case core.SignaledOn, core.SignaledOnEntry:
		return yellow
	case core.MCURunning, core.MCURunningEntry,
		core.IdleEntry, core.ADCNoiseEntry, core.ADCNoiseExit:
		return green
	case core.SignaledOff, core.SignaledOffEntry:
		return orange
	case core.MCUOff, core.MCUOffEntry:
		return red
	default:
		return off
	}
}
