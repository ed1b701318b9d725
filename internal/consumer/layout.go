package consumer

import (
	"slices"

	"github.com/rileyhilliard/pulse/internal/wire"
)

// Renderer draws one payload into its region.
type Renderer interface {
	Render(Region, wire.Payload)
}

// RenderFunc adapts a function to Renderer.
type RenderFunc func(Region, wire.Payload)

// Render calls f.
func (f RenderFunc) Render(r Region, p wire.Payload) {
	f(r, p)
}

// Layout maps categories to screen regions and caches the last payload of
// each so a resize can redraw without waiting for new data. It is not safe
// for concurrent use; the consumer loop owns it.
type Layout struct {
	renderer   Renderer
	categories []wire.Category

	width   int
	height  int
	regions []Region
	last    map[wire.Category]wire.Payload
}

// NewLayout returns a layout over categories, in the order given. With no
// categories it covers all of them in declared order. The screen starts at
// 0x0 until the first Resize.
func NewLayout(renderer Renderer, categories ...wire.Category) *Layout {
	if len(categories) == 0 {
		categories = wire.Categories()
	}
	l := &Layout{
		renderer:   renderer,
		categories: slices.Clone(categories),
		last:       make(map[wire.Category]wire.Payload, len(categories)),
	}
	l.regions = ComputeRegions(0, 0, l.categories)
	return l
}

// Update caches p and redraws its region. Payloads for categories outside
// the layout are dropped.
func (l *Layout) Update(p wire.Payload) {
	i := l.index(p.Category)
	if i < 0 {
		return
	}
	l.last[p.Category] = p
	l.draw(l.regions[i], p)
}

// Resize recomputes every region for a width x height screen and redraws
// all cached payloads.
func (l *Layout) Resize(width, height int) {
	l.width, l.height = width, height
	l.regions = ComputeRegions(width, height, l.categories)
	for _, r := range l.regions {
		if p, ok := l.last[r.Category]; ok {
			l.draw(r, p)
		}
	}
}

// Regions returns a copy of the current regions in layout order.
func (l *Layout) Regions() []Region {
	return slices.Clone(l.regions)
}

// Last returns the most recent payload received for c.
func (l *Layout) Last(c wire.Category) (wire.Payload, bool) {
	p, ok := l.last[c]
	return p, ok
}

// Size returns the screen size last passed to Resize.
func (l *Layout) Size() (width, height int) {
	return l.width, l.height
}

func (l *Layout) index(c wire.Category) int {
	return slices.Index(l.categories, c)
}

func (l *Layout) draw(r Region, p wire.Payload) {
	if r.Empty() || l.renderer == nil {
		return
	}
	l.renderer.Render(r, p)
}
