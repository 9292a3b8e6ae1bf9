package main

import "testing"

func chans(c ...ChannelConfig) *Config {
	return &Config{Channels: c}
}

func TestValidateDefault(t *testing.T) {
	if err := Validate(DefaultConfig()); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestValidateRejects(t *testing.T) {
	cases := []struct {
		name string
		cfg  *Config
	}{
		{"index out of range", chans(ChannelConfig{Index: 6, Name: "x", Scale: 1})},
		{"empty name", chans(ChannelConfig{Index: 0, Scale: 1})},
		{"duplicate index", chans(
			ChannelConfig{Index: 1, Name: "a", Scale: 1},
			ChannelConfig{Index: 1, Name: "b", Scale: 1},
		)},
		{"duplicate name", chans(
			ChannelConfig{Index: 0, Name: "a", Scale: 1},
			ChannelConfig{Index: 1, Name: "a", Scale: 1},
		)},
		{"zero scale", chans(ChannelConfig{Index: 0, Name: "a"})},
	}
	for _, tc := range cases {
		if err := Validate(tc.cfg); err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
	}
}

func TestLookup(t *testing.T) {
	cfg := DefaultConfig()

	ch, ok := cfg.Lookup("supply_volts")
	if !ok || ch.Index != 4 {
		t.Fatalf("Lookup by name: got %+v, %v", ch, ok)
	}

	ch, ok = cfg.Lookup("2")
	if !ok || ch.Name != "adc2" {
		t.Fatalf("Lookup by index: got %+v, %v", ch, ok)
	}

	if _, ok := cfg.Lookup("nonsense"); ok {
		t.Error("Lookup of unknown channel should fail")
	}
}

func TestMask(t *testing.T) {
	if m := DefaultConfig().Mask(); m != 0x3F {
		t.Errorf("Mask = %#02x, want 0x3f", m)
	}

	cfg := chans(
		ChannelConfig{Index: 0, Name: "a", Scale: 1},
		ChannelConfig{Index: 4, Name: "b", Scale: 1},
	)
	if m := cfg.Mask(); m != 0x11 {
		t.Errorf("Mask = %#02x, want 0x11", m)
	}
}
