//go:build rp2040

package main

import (
	"device/rp"
	"machine"
	"runtime/interrupt"

	"powermon/core"
)

// spiSlave runs the SPI0 block in peripheral (slave) mode and feeds
// received bytes to the bus responder.
//
// The PL022 RX interrupt only fires at half-full, so per-byte service
// relies on the receive-timeout interrupt: it fires once the bus has
// been idle for 32 bit times with data waiting. The controlling host
// must leave a short gap between bytes of a transaction so each reply
// is loaded before the next byte is clocked. Hosts that bit-bang or go
// through a kernel spidev driver do this naturally.
type spiSlave struct {
	bus *core.Responder
}

// spiDev is the singleton the interrupt handlers reach through.
var spiDev *spiSlave

func initSPISlave() *spiSlave {
	spiDev = &spiSlave{}

	pinSPIRx.Configure(machine.PinConfig{Mode: machine.PinSPI})
	pinSPISck.Configure(machine.PinConfig{Mode: machine.PinSPI})
	pinSPITx.Configure(machine.PinConfig{Mode: machine.PinSPI})
	pinSPICSn.Configure(machine.PinConfig{Mode: machine.PinSPI})

	spiDev.configureBlock()

	return spiDev
}

// configureBlock programs the PL022 for 8-bit mode-0 slave operation.
// Split out so PowerUp can redo it after deep sleep.
func (s *spiSlave) configureBlock() {
	// Disable while reconfiguring.
	rp.SPI0.SSPCR1.ClearBits(rp.SPI0_SSPCR1_SSE)

	// 8-bit frames, Motorola format, CPOL=0 CPHA=0. SCR is ignored in
	// slave mode; the host drives the clock.
	rp.SPI0.SSPCR0.Set(7 << rp.SPI0_SSPCR0_DSS_Pos)

	// Minimum legal prescale divisor.
	rp.SPI0.SSPCPSR.Set(12)

	// Slave mode, output enabled.
	rp.SPI0.SSPCR1.Set(rp.SPI0_SSPCR1_MS)

	// Defined idle reply until the first transaction primes the FIFO.
	rp.SPI0.SSPDR.Set(0)

	rp.SPI0.SSPCR1.SetBits(rp.SPI0_SSPCR1_SSE)
}

func (s *spiSlave) enableIRQ() {
	rp.SPI0.SSPIMSC.Set(rp.SPI0_SSPIMSC_RXIM | rp.SPI0_SSPIMSC_RTIM)
	intr := interrupt.New(rp.IRQ_SPI0_IRQ, handleSPI0)
	intr.Enable()

	// End of transaction is the chip select going high again.
	pinSPICSn.SetInterrupt(machine.PinRising, handleDeselect)
}

func handleSPI0(interrupt.Interrupt) {
	// Clear the timeout flag, then drain everything received so far.
	rp.SPI0.SSPICR.Set(rp.SPI0_SSPICR_RTIC)
	for rp.SPI0.SSPSR.HasBits(rp.SPI0_SSPSR_RNE) {
		b := uint8(rp.SPI0.SSPDR.Get())
		reply := spiDev.bus.HandleByte(b)
		rp.SPI0.SSPDR.Set(uint32(reply))
	}
}

func handleDeselect(machine.Pin) {
	spiDev.bus.Deselected()
	// Drop any reply still queued for the aborted transaction.
	for rp.SPI0.SSPSR.HasBits(rp.SPI0_SSPSR_RNE) {
		rp.SPI0.SSPDR.Get()
	}
	rp.SPI0.SSPDR.Set(0)
}

// Selected implements core.BusDevice.
func (s *spiSlave) Selected() bool {
	return !pinSPICSn.Get()
}

// PowerDown implements core.BusDevice. The block is disabled so a
// floating SCK cannot clock garbage in while the rest of the board is
// unpowered.
func (s *spiSlave) PowerDown() {
	rp.SPI0.SSPIMSC.Set(0)
	rp.SPI0.SSPCR1.ClearBits(rp.SPI0_SSPCR1_SSE)
}

// PowerUp implements core.BusDevice.
func (s *spiSlave) PowerUp() {
	s.configureBlock()
	rp.SPI0.SSPIMSC.Set(rp.SPI0_SSPIMSC_RXIM | rp.SPI0_SSPIMSC_RTIM)
}
