package display

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/pulse/internal/consumer"
	"github.com/rileyhilliard/pulse/internal/wire"
)

// WaitingText is shown in a region before its first payload arrives.
const WaitingText = "waiting for data"

// A rounded box needs one row and column of content inside its border.
const (
	minBoxWidth  = 3
	minBoxHeight = 3
)

// RenderPanel draws p into exactly r's footprint: a rounded box titled with
// the category, one line per record. Lines past the region are cut.
func RenderPanel(r consumer.Region, p wire.Payload) string {
	lines := make([]string, 0, len(p.Records))
	for _, rec := range p.Records {
		lines = append(lines, styleRecord(rec))
	}
	return renderBox(r, r.Category.String(), lines)
}

// RenderWaiting draws the placeholder for a region without data.
func RenderWaiting(r consumer.Region) string {
	return renderBox(r, r.Category.String(), []string{WaitingStyle.Render(WaitingText)})
}

func renderBox(r consumer.Region, title string, body []string) string {
	if r.Empty() {
		return ""
	}
	lines := append([]string{TitleStyle.Render(title)}, body...)

	// Too small for a border: plain lines, still clipped to the region.
	if r.Width < minBoxWidth || r.Height < minBoxHeight {
		return clip(lines, r.Width, r.Height)
	}

	innerW, innerH := r.Width-2, r.Height-2
	return BoxStyle.
		Width(innerW).
		Height(innerH).
		Render(clip(lines, innerW, innerH))
}

// clip cuts lines to height rows and width cells, padding to the full block.
func clip(lines []string, width, height int) string {
	if len(lines) > height {
		lines = lines[:height]
	}
	cut := lipgloss.NewStyle().MaxWidth(width)
	for i, l := range lines {
		lines[i] = cut.Render(l)
	}
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Render(strings.Join(lines, "\n"))
}
