package config

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/rileyhilliard/pulse/internal/collect"
	"github.com/rileyhilliard/pulse/internal/wire"
)

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Config represents the complete .pulse.yaml configuration file.
type Config struct {
	Version int `mapstructure:"version"`

	// Port is the TCP port the collector listens on and the display dials.
	Port int `mapstructure:"port"`

	// Host is the address the display dials.
	Host string `mapstructure:"host"`

	// Bind is the address the collector listens on. Empty means all interfaces.
	Bind string `mapstructure:"bind"`

	// Interval is the collector's cycle cadence.
	Interval time.Duration `mapstructure:"interval"`

	// CollectTimeout bounds the probes of one category per cycle.
	CollectTimeout time.Duration `mapstructure:"collect_timeout"`

	// Target is the process name pattern substituted for {{target}} in probes.
	Target string `mapstructure:"target"`

	// Remote is an optional SSH host (alias, host, user@host:port). When set,
	// probes run there instead of locally.
	Remote string `mapstructure:"remote"`

	Display DisplayConfig `mapstructure:"display"`

	// Probes overrides the built-in probes per category key.
	Probes map[string][]ProbeConfig `mapstructure:"probes"`
}

// DisplayConfig controls `pulse watch`.
type DisplayConfig struct {
	// PollInterval is the read deadline between quit and resize checks.
	PollInterval time.Duration `mapstructure:"poll_interval"`

	// Spawn starts a local collector alongside the display.
	Spawn bool `mapstructure:"spawn"`
}

// ProbeConfig is one probe in the config file.
type ProbeConfig struct {
	Label   string `yaml:"label,omitempty" mapstructure:"label"`
	Kind    string `yaml:"kind" mapstructure:"kind"`
	Command string `yaml:"command" mapstructure:"command"`
	Squeeze bool   `yaml:"squeeze,omitempty" mapstructure:"squeeze"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version:        CurrentConfigVersion,
		Port:           8080,
		Host:           "127.0.0.1",
		Bind:           "",
		Interval:       750 * time.Millisecond,
		CollectTimeout: 500 * time.Millisecond,
		Target:         "chrome",
		Display: DisplayConfig{
			PollInterval: 100 * time.Millisecond,
		},
		Probes: make(map[string][]ProbeConfig),
	}
}

// ListenAddr is the address the collector binds.
func (c *Config) ListenAddr() string {
	return net.JoinHostPort(c.Bind, strconv.Itoa(c.Port))
}

// DialAddr is the address the display connects to.
func (c *Config) DialAddr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// ProbeSet returns the built-in probes with the configured overrides applied.
// Call Validate first; unknown category keys are an error here too.
func (c *Config) ProbeSet() (map[wire.Category][]collect.Probe, error) {
	overrides := make(map[wire.Category][]collect.Probe, len(c.Probes))
	for key, list := range c.Probes {
		category, ok := wire.ParseCategory(key)
		if !ok {
			return nil, fmt.Errorf("unknown category %q", key)
		}
		probes := make([]collect.Probe, 0, len(list))
		for _, p := range list {
			probes = append(probes, collect.Probe{
				Label:   p.Label,
				Kind:    collect.Kind(p.Kind),
				Command: p.Command,
				Squeeze: p.Squeeze,
			})
		}
		overrides[category] = probes
	}
	return collect.MergeProbes(overrides), nil
}
