// Package regbus is the host-side client for the controller's 3-byte
// register protocol, spoken through a USB-serial register bridge. The
// bridge forwards each 3-byte frame onto the bus, pacing the bytes so
// the controller can prepare every reply, and returns the 3 bytes it
// read back.
package regbus

import (
	"fmt"
	"io"

	"powermon/core"
)

// Port is the transport the client speaks through. The native
// implementation wraps a serial device; tests substitute an in-memory
// bridge.
type Port interface {
	io.ReadWriteCloser
}

// Client issues register transactions over a Port.
type Client struct {
	port Port
}

// Config holds bridge connection settings.
type Config struct {
	// Device path (e.g. "/dev/ttyACM0").
	Device string

	// Baud rate. USB CDC bridges ignore this but the field must still
	// be set to something valid.
	Baud int
}

// DefaultConfig returns the settings for the stock bridge firmware.
func DefaultConfig(device string) *Config {
	return &Config{
		Device: device,
		Baud:   115200,
	}
}

// New wraps an already-open transport.
func New(port Port) *Client {
	return &Client{port: port}
}

// txn performs one 3-byte transaction and returns the second and third
// reply bytes. The first reply byte is whatever the controller had
// queued before the address arrived and carries no information.
func (c *Client) txn(addr, payload uint8) (second, third uint8, err error) {
	frame := []byte{addr, payload, 0}
	if _, err := c.port.Write(frame); err != nil {
		return 0, 0, fmt.Errorf("failed to write frame for register %#02x: %w", addr, err)
	}

	var reply [3]byte
	if _, err := io.ReadFull(c.port, reply[:]); err != nil {
		return 0, 0, fmt.Errorf("short reply for register %#02x: %w", addr, err)
	}
	return reply[1], reply[2], nil
}

// ReadMask reads the channel-request mask.
func (c *Client) ReadMask() (uint8, error) {
	mask, _, err := c.txn(core.RegGetChannels, 0)
	return mask, err
}

// WriteMask sets the channel-request mask.
func (c *Client) WriteMask(mask uint8) error {
	_, _, err := c.txn(core.RegSetChannels, mask)
	return err
}

// ReadChannel reads the latest value of analog channel ch.
func (c *Client) ReadChannel(ch uint8) (uint16, error) {
	if ch >= core.NumChannels {
		return 0, fmt.Errorf("channel %d out of range (0-%d)", ch, core.NumChannels-1)
	}
	low, high, err := c.txn(core.RegChannelBase+ch, 0)
	if err != nil {
		return 0, err
	}
	return uint16(low) | uint16(high)<<8, nil
}

// Version reads the firmware version.
func (c *Client) Version() (major, minor uint8, err error) {
	return c.txn(core.RegVersion, 0)
}

// Variant reads the hardware variant flag.
func (c *Client) Variant() (uint8, error) {
	v, _, err := c.txn(core.RegVariant, 0)
	return v, err
}

// ToggleAux toggles the controller's auxiliary pin.
func (c *Client) ToggleAux() error {
	_, _, err := c.txn(core.RegToggleAux, 0)
	return err
}

// EnterBootloader asks the controller to reboot into its bootloader.
// The controller waits out a settle delay first, so the connection stays
// usable just long enough for the transaction to complete cleanly.
func (c *Client) EnterBootloader() error {
	_, _, err := c.txn(core.RegBootloader, 0)
	return err
}

// Close releases the underlying transport.
func (c *Client) Close() error {
	return c.port.Close()
}
