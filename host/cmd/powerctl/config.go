package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"powermon/core"
)

// Config maps analog channel indices to human-readable names and
// engineering-unit scale factors for display.
type Config struct {
	Channels []ChannelConfig `yaml:"channels"`
}

type ChannelConfig struct {
	Index uint8   `yaml:"index"`
	Name  string  `yaml:"name"`
	Scale float64 `yaml:"scale"` // engineering units per count
	Unit  string  `yaml:"unit"`
}

// DefaultConfig names the channels of the stock board.
func DefaultConfig() *Config {
	return &Config{
		Channels: []ChannelConfig{
			{Index: 0, Name: "adc0", Scale: 1, Unit: "counts"},
			{Index: 1, Name: "adc1", Scale: 1, Unit: "counts"},
			{Index: 2, Name: "adc2", Scale: 1, Unit: "counts"},
			{Index: 3, Name: "adc3", Scale: 1, Unit: "counts"},
			{Index: 4, Name: "supply_volts", Scale: 0.001, Unit: "V"},
			{Index: 5, Name: "supply_amps", Scale: 0.001, Unit: "A"},
		},
	}
}

// LoadConfig reads and validates a channel map.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks configuration correctness. It does not mutate the
// configuration.
func Validate(cfg *Config) error {
	seen := make(map[uint8]string)
	names := make(map[string]uint8)

	for _, ch := range cfg.Channels {
		if ch.Index >= core.NumChannels {
			return fmt.Errorf(
				"channel %q: index %d out of range (0-%d)",
				ch.Name, ch.Index, core.NumChannels-1,
			)
		}
		if ch.Name == "" {
			return fmt.Errorf("channel %d: name must not be empty", ch.Index)
		}
		if prev, dup := seen[ch.Index]; dup {
			return fmt.Errorf(
				"channel %q: index %d already used by %q",
				ch.Name, ch.Index, prev,
			)
		}
		if _, dup := names[ch.Name]; dup {
			return fmt.Errorf("channel name %q used twice", ch.Name)
		}
		if ch.Scale <= 0 {
			return fmt.Errorf("channel %q: scale must be positive", ch.Name)
		}
		seen[ch.Index] = ch.Name
		names[ch.Name] = ch.Index
	}
	return nil
}

// Lookup resolves a channel by name or decimal index.
func (c *Config) Lookup(key string) (*ChannelConfig, bool) {
	for i := range c.Channels {
		if c.Channels[i].Name == key {
			return &c.Channels[i], true
		}
	}
	var idx uint8
	if _, err := fmt.Sscanf(key, "%d", &idx); err == nil {
		for i := range c.Channels {
			if c.Channels[i].Index == idx {
				return &c.Channels[i], true
			}
		}
	}
	return nil, false
}

// Mask returns the request mask covering every configured channel.
func (c *Config) Mask() uint8 {
	var m uint8
	for _, ch := range c.Channels {
		m |= 1 << ch.Index
	}
	return m
}
