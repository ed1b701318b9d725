package display

import (
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/rileyhilliard/pulse/internal/wire"
)

// usageSuffix marks labels whose values are percentages.
const usageSuffix = "Usage"

// FormatValue renders v with two decimals and thousands separators.
func FormatValue(v float64) string {
	return humanize.FormatFloat("#,###.##", v)
}

// FormatRecord renders a record as "label: value", or the bare label for a
// text record.
func FormatRecord(r wire.Record) string {
	if !r.HasValue() {
		return r.Label
	}
	return r.Label + ": " + FormatValue(*r.Value)
}

// styleRecord is FormatRecord with colors. Usage percentages are colored by
// severity.
func styleRecord(r wire.Record) string {
	if !r.HasValue() {
		return TextStyle.Render(r.Label)
	}
	value := ValueStyle
	if strings.HasSuffix(r.Label, usageSuffix) {
		value = MetricStyle(*r.Value)
	}
	return LabelStyle.Render(r.Label+":") + " " + value.Render(FormatValue(*r.Value))
}
