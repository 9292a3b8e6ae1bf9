//go:build rp2040

package main

import (
	"device/rp"
	"machine"
	"runtime/interrupt"

	"tinygo.org/x/drivers/ina260"

	"powermon/core"
)

// I2C0 wiring to the INA260 power monitor.
const (
	pinI2CSDA = machine.GP4
	pinI2CSCL = machine.GP5
)

// Channel map. 0-3 are the on-chip ADC inputs on GP26-GP29, 4 and 5 are
// supply voltage and current read from the INA260 over I2C.
const (
	chSupplyVolts = 4
	chSupplyAmps  = 5
)

// powerADC implements core.ADCDriver. On-chip conversions complete from
// the ADC FIFO interrupt; the INA260 channels complete synchronously
// inside Start because the monitor converts continuously on its own.
type powerADC struct {
	eng   *core.Engine
	ina   ina260.Device
	inaOK bool
}

// adcDrv is the singleton the FIFO interrupt handler reaches through.
var adcDrv *powerADC

func initADC() *powerADC {
	adcDrv = &powerADC{}

	machine.InitADC()
	for _, p := range []machine.Pin{machine.ADC0, machine.ADC1, machine.ADC2, machine.ADC3} {
		a := machine.ADC{Pin: p}
		a.Configure(machine.ADCConfig{})
	}

	// Single-entry FIFO so each START_ONCE lands one result and one
	// interrupt.
	rp.ADC.FCS.Set(rp.ADC_FCS_EN | 1<<rp.ADC_FCS_THRESH_Pos)

	err := machine.I2C0.Configure(machine.I2CConfig{
		SDA:       pinI2CSDA,
		SCL:       pinI2CSCL,
		Frequency: 400 * machine.KHz,
	})
	if err == nil {
		adcDrv.ina = ina260.New(machine.I2C0)
		adcDrv.ina.Configure()
		adcDrv.inaOK = adcDrv.ina.Connected()
	}

	return adcDrv
}

func (d *powerADC) enableIRQ() {
	rp.ADC.INTE.Set(rp.ADC_INTE_FIFO)
	intr := interrupt.New(rp.IRQ_ADC_IRQ_FIFO, handleADCFIFO)
	intr.Enable()
}

func handleADCFIFO(interrupt.Interrupt) {
	for rp.ADC.FCS.HasBits(rp.ADC_FCS_LEVEL_Msk) {
		raw := uint16(rp.ADC.FIFO.Get() & 0xFFF)
		adcDrv.eng.Complete(core.ADCValue(raw))
	}
}

// Start implements core.ADCDriver.
func (d *powerADC) Start(ch uint8) {
	switch ch {
	case chSupplyVolts:
		d.eng.Complete(d.readINA(true))
	case chSupplyAmps:
		d.eng.Complete(d.readINA(false))
	default:
		rp.ADC.CS.ReplaceBits(uint32(ch)<<rp.ADC_CS_AINSEL_Pos, rp.ADC_CS_AINSEL_Msk, 0)
		rp.ADC.CS.SetBits(rp.ADC_CS_START_ONCE)
	}
}

// readINA returns the supply voltage in millivolts or the supply
// current in milliamps. Reverse current reads as zero.
func (d *powerADC) readINA(volts bool) core.ADCValue {
	if !d.inaOK {
		return 0
	}
	var micro int32
	if volts {
		micro = d.ina.Voltage()
	} else {
		micro = d.ina.Current()
	}
	milli := micro / 1000
	if milli < 0 {
		milli = 0
	}
	if milli > 0xFFFF {
		milli = 0xFFFF
	}
	return core.ADCValue(milli)
}

// PowerDown implements core.ADCDriver.
func (d *powerADC) PowerDown() {
	rp.ADC.INTE.Set(0)
	rp.ADC.CS.ClearBits(rp.ADC_CS_EN)
}

// PowerUp implements core.ADCDriver.
func (d *powerADC) PowerUp() {
	machine.InitADC()
	rp.ADC.FCS.Set(rp.ADC_FCS_EN | 1<<rp.ADC_FCS_THRESH_Pos)
	rp.ADC.INTE.Set(rp.ADC_INTE_FIFO)
}
