package regbus

import (
	"fmt"

	"github.com/tarm/serial"
)

// Open connects to a register bridge on a serial device.
func Open(cfg *Config) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	port, err := serial.OpenPort(&serial.Config{
		Name: cfg.Device,
		Baud: cfg.Baud,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open bridge %s: %w", cfg.Device, err)
	}
	return New(port), nil
}
