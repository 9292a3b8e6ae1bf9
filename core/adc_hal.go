package core

// ADCValue is a raw analog reading as seen by the rest of the firmware.
// Convention: 16-bit value, even if the underlying hardware is 12 bits.
type ADCValue uint16

// ADCDriver is the abstract conversion hardware the sampling engine
// drives. Platform code registers completions by calling the engine's
// Complete method, usually from the conversion interrupt; a driver for a
// synchronous source (an I2C power monitor, a test mock) may call it
// before Start returns.
type ADCDriver interface {
	// Start selects channel ch and begins a single conversion.
	Start(ch uint8)

	// PowerDown disables and powers off the conversion hardware ahead
	// of device sleep. Any conversion in flight is abandoned.
	PowerDown()

	// PowerUp re-enables the conversion hardware after wake.
	PowerUp()
}
