package display

import (
	"math"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"github.com/rileyhilliard/pulse/internal/wire"
)

func TestFormatValue(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{12.5, "12.50"},
		{3.2, "3.20"},
		{0, "0.00"},
		{-42.75, "-42.75"},
		{1234567.891, "1,234,567.89"},
		{1024, "1,024.00"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatValue(tt.in))
		})
	}
}

func TestFormatRecord(t *testing.T) {
	assert.Equal(t, "CPU Usage: 12.50", FormatRecord(wire.Measurement("CPU Usage", 12.5)))
	assert.Equal(t, "ESTAB 0 0 a:1 b:2", FormatRecord(wire.Text("ESTAB 0 0 a:1 b:2")))
	assert.Equal(t, "", FormatRecord(wire.Text("")))
}

func TestStyleRecord_PlainProfileMatchesFormat(t *testing.T) {
	for _, r := range []wire.Record{
		wire.Measurement("CPU Usage", 95),
		wire.Measurement("Open Files", 1024),
		wire.Text("12.0 3.1 chrome"),
	} {
		assert.Equal(t, FormatRecord(r), styleRecord(r))
	}
}

func TestMetricColor(t *testing.T) {
	tests := []struct {
		name    string
		percent float64
		want    lipgloss.Color
	}{
		{"healthy low", 0, ColorHealthy},
		{"healthy near threshold", 69.9, ColorHealthy},
		{"warning at threshold", 70, ColorWarning},
		{"warning near critical", 89.9, ColorWarning},
		{"critical at threshold", 90, ColorCritical},
		{"over one hundred", 250, ColorCritical},
		{"negative", -1, ColorHealthy},
		{"nan", math.NaN(), ColorHealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MetricColor(tt.percent))
		})
	}
}
