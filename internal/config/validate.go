package config

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rileyhilliard/pulse/internal/collect"
	"github.com/rileyhilliard/pulse/internal/errors"
	"github.com/rileyhilliard/pulse/internal/util"
	"github.com/rileyhilliard/pulse/internal/wire"
)

// MinInterval is the shortest accepted collector cadence.
const MinInterval = 100 * time.Millisecond

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but pulse only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Grab the latest pulse release.")
	}

	if cfg.Port < 1 || cfg.Port > 65535 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Port %d is out of range", cfg.Port),
			"Use a port between 1 and 65535, e.g. 'port: 8080'.")
	}

	if cfg.Interval < MinInterval {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Interval %s is too short", cfg.Interval),
			fmt.Sprintf("Use at least %s, e.g. 'interval: 750ms'.", MinInterval))
	}

	if err := validatePositive("collect_timeout", cfg.CollectTimeout); err != nil {
		return err
	}
	if err := validatePositive("display.poll_interval", cfg.Display.PollInterval); err != nil {
		return err
	}

	if strings.TrimSpace(cfg.Target) == "" {
		return errors.New(errors.ErrConfig,
			"Target is empty",
			"Set 'target' to the process name to watch, e.g. 'target: chrome'.")
	}

	keys := make([]string, 0, len(cfg.Probes))
	for key := range cfg.Probes {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if err := validateProbes(key, cfg.Probes[key]); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'probes' section in your .pulse.yaml.")
		}
	}

	return nil
}

func validatePositive(name string, d time.Duration) error {
	if d <= 0 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("'%s' must be positive, got %s", name, d),
			"Use a duration like 500ms or 1s.")
	}
	return nil
}

func validateProbes(key string, probes []ProbeConfig) error {
	if _, ok := wire.ParseCategory(key); !ok {
		valid := make([]string, 0, len(wire.Categories()))
		for _, c := range wire.Categories() {
			valid = append(valid, c.Key())
		}
		return fmt.Errorf("unknown category '%s' under probes (valid: %s)", key, util.JoinOrNone(valid))
	}

	for i, p := range probes {
		kind := collect.Kind(p.Kind)
		if !kind.IsValid() {
			valid := make([]string, 0, 3)
			for _, k := range collect.ValidKinds() {
				valid = append(valid, string(k))
			}
			return fmt.Errorf("probe %d of '%s' has unknown kind '%s' (valid: %s)", i+1, key, p.Kind, util.JoinOrNone(valid))
		}
		if strings.TrimSpace(p.Command) == "" {
			return fmt.Errorf("probe %d of '%s' has no command", i+1, key)
		}
		if kind == collect.KindValues && len(util.SplitList(p.Label)) == 0 {
			return fmt.Errorf("probe %d of '%s' is kind 'values' but has no labels", i+1, key)
		}
		if kind == collect.KindValue && strings.TrimSpace(p.Label) == "" {
			return fmt.Errorf("probe %d of '%s' is kind 'value' but has no label", i+1, key)
		}
	}
	return nil
}
