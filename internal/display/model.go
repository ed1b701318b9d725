package display

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/rileyhilliard/pulse/internal/consumer"
	"github.com/rileyhilliard/pulse/internal/util"
	"github.com/rileyhilliard/pulse/internal/wire"
)

// PanelMsg carries one payload to draw and the region the layout assigned it.
type PanelMsg struct {
	Region  consumer.Region
	Payload wire.Payload
}

// StreamEndedMsg tells the model the consumer loop has returned.
type StreamEndedMsg struct {
	Err error
}

// Options configure a Model.
type Options struct {
	// Categories in layout order. Defaults to all of them.
	Categories []wire.Category
	// Source names the collector in the footer, e.g. "127.0.0.1:8080".
	Source string
	// Frames reports how many frames have arrived so far.
	Frames func() uint64
	// OnResize receives every new window size.
	OnResize func(width, height int)
	// OnQuit runs when the user quits.
	OnQuit func()
}

type panel struct {
	region  consumer.Region
	payload wire.Payload
	view    string
}

// Model is the Bubble Tea model for the metrics display.
type Model struct {
	opts   Options
	panels map[wire.Category]panel
	help   help.Model

	width    int
	height   int
	ended    bool
	quitting bool
}

// NewModel returns a Model with no data yet.
func NewModel(opts Options) Model {
	if len(opts.Categories) == 0 {
		opts.Categories = wire.Categories()
	}
	h := help.New()
	h.Styles.ShortKey = FooterStyle.Bold(true)
	h.Styles.ShortDesc = FooterStyle
	h.Styles.FullKey = FooterStyle.Bold(true)
	h.Styles.FullDesc = FooterStyle
	return Model{
		opts:   opts,
		panels: make(map[wire.Category]panel, len(opts.Categories)),
		help:   h,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		if m.opts.OnResize != nil {
			m.opts.OnResize(msg.Width, msg.Height)
		}

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			if m.opts.OnQuit != nil {
				m.opts.OnQuit()
			}
			return m, tea.Quit
		case key.Matches(msg, keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}

	case PanelMsg:
		m.panels[msg.Region.Category] = panel{
			region:  msg.Region,
			payload: msg.Payload,
			view:    RenderPanel(msg.Region, msg.Payload),
		}

	case StreamEndedMsg:
		m.ended = true
		return m, tea.Quit
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting || m.ended {
		return ""
	}
	if m.width == 0 && m.height == 0 {
		return WaitingStyle.Render(WaitingText)
	}

	var blocks []string
	used := 0
	for _, r := range consumer.ComputeRegions(m.width, m.height, m.opts.Categories) {
		if r.Empty() {
			continue
		}
		blocks = append(blocks, m.regionView(r))
		used += r.Height
	}

	if rows := m.height - used; rows > 0 {
		blocks = append(blocks, m.footer(rows))
	}
	return lipgloss.JoinVertical(lipgloss.Left, blocks...)
}

// regionView reuses the panel rendered for r, redrawing it when the layout
// has moved since the payload arrived.
func (m Model) regionView(r consumer.Region) string {
	p, ok := m.panels[r.Category]
	switch {
	case !ok:
		return RenderWaiting(r)
	case p.region != r:
		return RenderPanel(r, p.payload)
	}
	return p.view
}

func (m Model) footer(rows int) string {
	parts := []string{m.help.View(keys)}
	if m.opts.Frames != nil {
		n := m.opts.Frames()
		parts = append(parts, humanize.Comma(int64(n))+" "+util.Pluralize(int(n), "frame", "frames"))
	}
	if m.opts.Source != "" {
		parts = append(parts, m.opts.Source)
	}

	lines := strings.Split(strings.Join(parts, FooterStyle.Render(" • ")), "\n")
	if len(lines) > rows {
		lines = lines[:rows]
	}
	return lipgloss.NewStyle().MaxWidth(m.width).Render(strings.Join(lines, "\n"))
}
