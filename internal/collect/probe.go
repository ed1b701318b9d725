package collect

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rileyhilliard/pulse/internal/util"
	"github.com/rileyhilliard/pulse/internal/wire"
)

// Kind selects how a probe's output becomes records.
type Kind string

const (
	// KindValue parses the first output line as one number.
	KindValue Kind = "value"
	// KindValues splits the first output line on commas, one number per label.
	KindValues Kind = "values"
	// KindLines turns every non-empty output line into a text record.
	KindLines Kind = "lines"
)

// ValidKinds lists the accepted probe kinds.
func ValidKinds() []Kind {
	return []Kind{KindValue, KindValues, KindLines}
}

// IsValid reports whether k is a known kind.
func (k Kind) IsValid() bool {
	switch k {
	case KindValue, KindValues, KindLines:
		return true
	}
	return false
}

// Probe is one shell command contributing records to a category.
type Probe struct {
	// Label names the record(s). For KindValues it is a comma-separated list.
	// KindLines ignores it.
	Label   string
	Kind    Kind
	Command string
	// Squeeze collapses whitespace runs in KindLines output.
	Squeeze bool
}

// Labels returns the record labels the probe produces.
func (p Probe) Labels() []string {
	if p.Kind == KindValues {
		return util.SplitList(p.Label)
	}
	return []string{p.Label}
}

// Parse converts command output into records.
func (p Probe) Parse(output []byte) ([]wire.Record, error) {
	switch p.Kind {
	case KindValue:
		line := util.FirstLine(string(output))
		v, err := parseNumber(line)
		if err != nil {
			return nil, fmt.Errorf("probe %q: %w", p.Label, err)
		}
		return []wire.Record{wire.Measurement(p.Label, v)}, nil

	case KindValues:
		labels := p.Labels()
		fields := strings.Split(util.FirstLine(string(output)), ",")
		if len(fields) != len(labels) {
			return nil, fmt.Errorf("probe %q: got %d values for %d labels", p.Label, len(fields), len(labels))
		}
		records := make([]wire.Record, 0, len(labels))
		for i, field := range fields {
			v, err := parseNumber(field)
			if err != nil {
				return nil, fmt.Errorf("probe %q: %s: %w", p.Label, labels[i], err)
			}
			records = append(records, wire.Measurement(labels[i], v))
		}
		return records, nil

	case KindLines:
		lines := util.NonEmptyLines(string(output))
		if len(lines) == 0 {
			return nil, nil
		}
		records := make([]wire.Record, 0, len(lines))
		for _, line := range lines {
			if p.Squeeze {
				line = util.SqueezeSpaces(line)
			}
			records = append(records, wire.Text(line))
		}
		return records, nil
	}
	return nil, fmt.Errorf("probe %q: unknown kind %q", p.Label, p.Kind)
}

func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("no output")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	return v, nil
}
