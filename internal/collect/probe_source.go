package collect

import (
	"context"
	stderrors "errors"

	"github.com/rileyhilliard/pulse/internal/logger"
	"github.com/rileyhilliard/pulse/internal/util"
	"github.com/rileyhilliard/pulse/internal/wire"
)

// ProbeSource collects categories by running their probes in order.
// A failing probe is skipped; the others still contribute records.
type ProbeSource struct {
	runner Runner
	probes map[wire.Category][]Probe
	vars   map[string]string
	log    logger.Logger
}

// NewProbeSource returns a source running probes through runner. target
// replaces the {{target}} placeholder in probe commands.
func NewProbeSource(runner Runner, probes map[wire.Category][]Probe, target string, log logger.Logger) *ProbeSource {
	if log == nil {
		log = logger.Noop()
	}
	return &ProbeSource{
		runner: runner,
		probes: probes,
		vars:   map[string]string{"target": target},
		log:    log,
	}
}

// Collect runs every probe of category. It fails only when no probe
// produced a record and at least one failed.
func (s *ProbeSource) Collect(ctx context.Context, category wire.Category) ([]wire.Record, error) {
	var records []wire.Record
	var errs []error

	for _, probe := range s.probes[category] {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		command := util.ExpandPlaceholders(probe.Command, s.vars)
		output, err := s.runner.Run(ctx, command)
		if err != nil {
			s.log.Debug("%s probe %q failed: %v", category, probe.Label, err)
			errs = append(errs, err)
			continue
		}

		parsed, err := probe.Parse(output)
		if err != nil {
			s.log.Debug("%s: %v", category, err)
			errs = append(errs, err)
			continue
		}
		records = append(records, parsed...)
	}

	if len(records) == 0 && len(errs) > 0 {
		return nil, stderrors.Join(errs...)
	}
	return records, nil
}

// Close releases the runner.
func (s *ProbeSource) Close() error {
	return s.runner.Close()
}
