package display

import (
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"

	"github.com/rileyhilliard/pulse/internal/consumer"
	"github.com/rileyhilliard/pulse/internal/wire"
)

// PlainRenderer prints every payload as a titled text block. It is used for
// --plain and when stdout is not a terminal.
type PlainRenderer struct {
	mu  sync.Mutex
	w   io.Writer
	err error
}

var _ consumer.Renderer = (*PlainRenderer)(nil)

// NewPlainRenderer returns a renderer writing to w.
func NewPlainRenderer(w io.Writer) *PlainRenderer {
	return &PlainRenderer{w: w}
}

// Render implements consumer.Renderer. The region only gates drawing; blocks
// are never clipped.
func (r *PlainRenderer) Render(_ consumer.Region, p wire.Payload) {
	var b strings.Builder
	b.WriteString(p.Category.String())
	b.WriteString("\n")
	for _, rec := range p.Records {
		b.WriteString("  ")
		b.WriteString(FormatRecord(rec))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return
	}
	_, r.err = io.WriteString(r.w, b.String())
}

// Err returns the first write error, if any.
func (r *PlainRenderer) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// PlainScreen is a screen size that fits every category at its declared
// minimum, for layouts that are not tied to a terminal.
func PlainScreen(categories []wire.Category) (width, height int) {
	for _, c := range categories {
		d := c.MinDims()
		width = max(width, d.Width)
		height += d.Height
	}
	return width, height
}

// IsTerminal reports whether f is a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
