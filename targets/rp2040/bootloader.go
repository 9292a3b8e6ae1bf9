//go:build rp2040

package main

import "machine"

// enterBootloader reboots into the ROM USB mass-storage bootloader so
// the host can reflash the controller without touching the board. Does
// not return.
func enterBootloader() {
	machine.EnterBootloader()
}
