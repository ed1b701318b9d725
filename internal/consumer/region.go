package consumer

import (
	"fmt"

	"github.com/rileyhilliard/pulse/internal/wire"
)

// Region is the rectangle of the screen assigned to one category, in
// character cells.
type Region struct {
	Category wire.Category
	X        int
	Y        int
	Width    int
	Height   int
}

// Empty reports whether the region has no drawable area.
func (r Region) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

func (r Region) String() string {
	return fmt.Sprintf("%s (%d,%d %dx%d)", r.Category, r.X, r.Y, r.Width, r.Height)
}

// ComputeRegions stacks categories vertically in the given order. Each gets
// its declared minimum height, or whatever rows remain, and its minimum width
// capped at the screen width. Negative sizes are treated as zero.
func ComputeRegions(width, height int, categories []wire.Category) []Region {
	width = max(width, 0)
	remaining := max(height, 0)

	regions := make([]Region, 0, len(categories))
	y := 0
	for _, c := range categories {
		dims := c.MinDims()
		h := min(dims.Height, remaining)
		regions = append(regions, Region{
			Category: c,
			X:        0,
			Y:        y,
			Width:    min(dims.Width, width),
			Height:   h,
		})
		y += h
		remaining -= h
	}
	return regions
}
