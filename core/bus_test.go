package core

import "testing"

func newTestResponder(boot func()) (*Responder, *Engine, *fakeBusDev, *fakeLines) {
	eng, _ := newTestEngine()
	dev := &fakeBusDev{selected: true}
	lines := newFakeLines()
	r := NewResponder(eng, dev, lines, 0x01, boot)
	return r, eng, dev, lines
}

// txn clocks one full 3-byte transaction through the responder and
// returns the two reply bytes the master would observe. The reply to the
// address byte is transmitted while byte 2 is clocked in, so the value
// HandleByte returns for byte N is what the master reads in byte N+1.
func txn(r *Responder, addr, b2, b3 uint8) (reply2, reply3 uint8) {
	reply2 = r.HandleByte(addr)
	reply3 = r.HandleByte(b2)
	r.HandleByte(b3)
	return reply2, reply3
}

func TestBusMaskRoundTrip(t *testing.T) {
	r, eng, _, _ := newTestResponder(nil)
	for m := 0; m < 256; m++ {
		txn(r, RegSetChannels, uint8(m), 0)
		if got := eng.Mask(); got != uint8(m) {
			t.Fatalf("mask after write %#02x: got %#02x", m, got)
		}
		r2, r3 := txn(r, RegGetChannels, 0, 0)
		if r2 != uint8(m) || r3 != 0 {
			t.Fatalf("read-back of %#02x returned (%#02x, %#02x)", m, r2, r3)
		}
	}
}

func TestBusReadMaskIdempotent(t *testing.T) {
	r, eng, _, _ := newTestResponder(nil)
	eng.SetMask(0b00010110)
	a2, _ := txn(r, RegGetChannels, 0, 0)
	b2, _ := txn(r, RegGetChannels, 0, 0)
	if a2 != b2 {
		t.Errorf("two mask reads disagreed: %#02x then %#02x", a2, b2)
	}
}

func TestBusMaskCapturedOnSecondByte(t *testing.T) {
	r, eng, _, _ := newTestResponder(nil)
	r.HandleByte(RegSetChannels)
	if eng.Mask() != 0 {
		t.Error("mask changed on receipt of the address byte")
	}
	r.HandleByte(0x2A)
	if eng.Mask() != 0x2A {
		t.Errorf("mask = %#02x after second byte, want 0x2a", eng.Mask())
	}
	r.HandleByte(0)
}

func TestBusChannelReads(t *testing.T) {
	r, eng, _, _ := newTestResponder(nil)
	eng.SetMask(0xFF)
	eng.values[0] = 0x0123
	eng.values[3] = 0xBEEF

	lo, hi := txn(r, RegChannelBase+0, 0, 0)
	if lo != 0x23 || hi != 0x01 {
		t.Errorf("channel 0 read (%#02x, %#02x), want low byte first (0x23, 0x01)", lo, hi)
	}
	lo, hi = txn(r, RegChannelBase+3, 0, 0)
	if lo != 0xEF || hi != 0xBE {
		t.Errorf("channel 3 read (%#02x, %#02x), want (0xef, 0xbe)", lo, hi)
	}
}

func TestBusVersionRegister(t *testing.T) {
	// The version must come back regardless of prior state.
	r, eng, _, _ := newTestResponder(nil)
	txn(r, RegSetChannels, 0xFF, 0)
	eng.values[1] = 42
	maj, min := txn(r, RegVersion, 0, 0)
	if maj != VersionMajor || min != VersionMinor {
		t.Errorf("version read (%d, %d), want (%d, %d)", maj, min, VersionMajor, VersionMinor)
	}
}

func TestBusVariantRegister(t *testing.T) {
	r, _, _, _ := newTestResponder(nil)
	v, z := txn(r, RegVariant, 0, 0)
	if v != 0x01 || z != 0 {
		t.Errorf("variant read (%#02x, %#02x), want (0x01, 0x00)", v, z)
	}
}

func TestBusUnknownRegister(t *testing.T) {
	r, _, _, _ := newTestResponder(nil)
	for _, addr := range []uint8{0x00, 0x07, 0x0F, RegChannelBase + NumChannels, 0xFF} {
		r2, r3 := txn(r, addr, 0, 0)
		if r2 != 0 || r3 != 0 {
			t.Errorf("unknown register %#02x answered (%#02x, %#02x), want zeros", addr, r2, r3)
		}
		if r.state != ExpectAddress {
			t.Errorf("unknown register %#02x left transaction state %d", addr, r.state)
		}
	}
}

func TestBusAuxToggleDeferred(t *testing.T) {
	r, _, _, lines := newTestResponder(nil)
	txn(r, RegToggleAux, 0, 0)
	if lines.auxToggles != 0 {
		t.Fatal("aux pin toggled from interrupt context")
	}
	r.Poll()
	if lines.auxToggles != 1 {
		t.Errorf("aux toggles after Poll = %d, want 1", lines.auxToggles)
	}
	// One-shot: a second poll must not toggle again.
	r.Poll()
	if lines.auxToggles != 1 {
		t.Errorf("aux toggle repeated on later polls")
	}
}

func TestBusBootloaderSettleDelay(t *testing.T) {
	booted := false
	r, _, _, _ := newTestResponder(func() { booted = true })
	txn(r, RegBootloader, 0, 0)

	r.Poll()
	if booted {
		t.Fatal("bootloader entered before the settle delay elapsed")
	}
	for i := 0; i < bootSettleTicks; i++ {
		r.Tick()
	}
	r.Poll()
	if !booted {
		t.Error("bootloader not entered after the settle delay")
	}
}

func TestBusChipSelectGate(t *testing.T) {
	r, eng, dev, _ := newTestResponder(nil)
	dev.selected = false

	if got := r.HandleByte(RegSetChannels); got != 0 {
		t.Errorf("deselected traffic answered %#02x", got)
	}
	r.HandleByte(0xFF)
	r.HandleByte(0)
	if eng.Mask() != 0 {
		t.Error("deselected traffic wrote the channel mask")
	}
	if r.state != ExpectAddress {
		t.Error("deselected traffic advanced the transaction state")
	}
	// Still signals activity for diagnostics.
	if !r.TookTransfer() {
		t.Error("deselected traffic did not flag a transfer")
	}
	if r.TookTransfer() {
		t.Error("transfer flag is not one-shot")
	}
}

func TestBusDeselectMidTransaction(t *testing.T) {
	r, eng, _, _ := newTestResponder(nil)
	r.HandleByte(RegSetChannels)
	r.Deselected()
	if r.state != ExpectAddress {
		t.Fatal("deselect did not reset the transaction")
	}
	// The next byte is an address again, not the 0x01 payload.
	r.HandleByte(RegGetChannels)
	r.HandleByte(0x55)
	r.HandleByte(0)
	if eng.Mask() != 0 {
		t.Error("payload of the abandoned write was applied")
	}
}

func TestBusSleepHooks(t *testing.T) {
	r, _, dev, _ := newTestResponder(nil)
	r.HandleByte(RegVersion) // transaction in progress
	r.PreSleep()
	if dev.downs != 1 {
		t.Errorf("PreSleep powered down %d times, want 1", dev.downs)
	}
	r.PostSleep()
	if dev.ups != 1 {
		t.Errorf("PostSleep powered up %d times, want 1", dev.ups)
	}
	if r.state != ExpectAddress {
		t.Error("partial transaction survived sleep")
	}
}
