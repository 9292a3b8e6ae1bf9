package core

// Firmware version reported through bus register 0x04.
const (
	VersionMajor = 1
	VersionMinor = 2
)
