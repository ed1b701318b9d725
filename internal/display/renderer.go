package display

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rileyhilliard/pulse/internal/consumer"
	"github.com/rileyhilliard/pulse/internal/wire"
)

// Sender delivers messages to a running program. *tea.Program satisfies it.
type Sender interface {
	Send(msg tea.Msg)
}

// ProgramRenderer is a consumer.Renderer that forwards draws to a Bubble Tea
// program.
type ProgramRenderer struct {
	program Sender
}

var _ consumer.Renderer = (*ProgramRenderer)(nil)

// NewProgramRenderer returns a renderer sending to program.
func NewProgramRenderer(program Sender) *ProgramRenderer {
	return &ProgramRenderer{program: program}
}

// Render implements consumer.Renderer.
func (r *ProgramRenderer) Render(region consumer.Region, p wire.Payload) {
	r.program.Send(PanelMsg{Region: region, Payload: p})
}
