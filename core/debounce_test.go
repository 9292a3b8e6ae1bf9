package core

import "testing"

func TestDebouncerRequiresConsecutiveSamples(t *testing.T) {
	d := NewDebouncer(true)
	if !d.High() {
		t.Fatal("expected stable high after NewDebouncer(true)")
	}

	// Fewer than debounceWidth low samples must not flip the level.
	for i := 0; i < debounceWidth-1; i++ {
		d.Sample(false)
		if d.Low() {
			t.Fatalf("reported stable low after only %d samples", i+1)
		}
	}

	d.Sample(false)
	if !d.Low() {
		t.Errorf("expected stable low after %d consecutive low samples", debounceWidth)
	}
}

func TestDebouncerSingleTickGlitch(t *testing.T) {
	d := NewDebouncer(true)

	// One low sample in a stream of highs: never a decision change.
	d.Sample(false)
	for i := 0; i < 20; i++ {
		if d.Low() {
			t.Fatal("single-tick glitch produced a stable low")
		}
		d.Sample(true)
	}
	if !d.High() {
		t.Error("level did not return to stable high after glitch")
	}
}

func TestDebouncerBouncingIsNoDecision(t *testing.T) {
	d := NewDebouncer(false)
	for i := 0; i < 32; i++ {
		d.Sample(i%2 == 0)
		if d.High() || d.Low() {
			// 0x55/0xAA patterns are neither all-ones nor all-zeros.
			t.Fatalf("alternating input reported stable at sample %d", i)
		}
	}
}

func TestDebouncerReleaseSymmetry(t *testing.T) {
	d := NewDebouncer(false)
	for i := 0; i < debounceWidth; i++ {
		d.Sample(true)
	}
	if !d.High() {
		t.Fatal("expected stable high")
	}
	for i := 0; i < debounceWidth-1; i++ {
		d.Sample(false)
	}
	if d.Low() {
		t.Error("stable low reported one sample early")
	}
	d.Sample(false)
	if !d.Low() {
		t.Error("expected stable low after full run of low samples")
	}
}
