package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const fileHeader = `# pulse configuration
# Generated by 'pulse init'. Environment variables prefixed with PULSE_
# override these values (e.g. PULSE_PORT=9090).

`

// fileConfig mirrors Config with durations spelled as strings ("750ms").
type fileConfig struct {
	Version        int                      `yaml:"version"`
	Port           int                      `yaml:"port"`
	Host           string                   `yaml:"host"`
	Bind           string                   `yaml:"bind"`
	Interval       string                   `yaml:"interval"`
	CollectTimeout string                   `yaml:"collect_timeout"`
	Target         string                   `yaml:"target"`
	Remote         string                   `yaml:"remote"`
	Display        fileDisplay              `yaml:"display"`
	Probes         map[string][]ProbeConfig `yaml:"probes,omitempty"`
}

type fileDisplay struct {
	PollInterval string `yaml:"poll_interval"`
	Spawn        bool   `yaml:"spawn"`
}

// Write renders cfg as YAML to path.
func Write(path string, cfg *Config) error {
	data, err := Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Marshal renders cfg as commented YAML.
func Marshal(cfg *Config) ([]byte, error) {
	out := fileConfig{
		Version:        cfg.Version,
		Port:           cfg.Port,
		Host:           cfg.Host,
		Bind:           cfg.Bind,
		Interval:       cfg.Interval.String(),
		CollectTimeout: cfg.CollectTimeout.String(),
		Target:         cfg.Target,
		Remote:         cfg.Remote,
		Display: fileDisplay{
			PollInterval: cfg.Display.PollInterval.String(),
			Spawn:        cfg.Display.Spawn,
		},
		Probes: cfg.Probes,
	}

	data, err := yaml.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return append([]byte(fileHeader), data...), nil
}
