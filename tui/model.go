// Package tui shows the live plot in the terminal and maps key presses onto
// the same scroll, zoom and rescale commands the web dashboard sends.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"serialplot/events"
	"serialplot/models"
	"serialplot/plotter"
	"serialplot/utils"
)

const (
	// SCROLL_STEPS is how many key presses it takes to scroll one page.
	SCROLL_STEPS = 10
	ZOOM_FACTOR  = 1.25
	// AXIS_LABEL_WIDTH is reserved left of the plot for asciigraph's labels.
	AXIS_LABEL_WIDTH = 12
	// CHROME_HEIGHT is the header, caption and footer lines around the plot.
	CHROME_HEIGHT = 5
)

// Controller runs commands against the plot engine on its own goroutine.
type Controller interface {
	Submit(ctx context.Context, fn func(*plotter.Engine)) error
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFED00"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#555555"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#D9004C"))
)

type frameMsg struct {
	frame *models.Frame
}

// framesClosedMsg is sent once the hub has dropped the subscription.
type framesClosedMsg struct{}

type Model struct {
	ctx        context.Context
	controller Controller
	frames     <-chan *events.Event
	keys       Keymap

	frame  *models.Frame
	width  int
	height int
	err    error
}

// New subscribes to hub. The caller must call the returned cancel func once
// the program has exited.
func New(ctx context.Context, controller Controller, hub *events.EventHub) (*Model, func()) {
	_, frames, cancel := hub.Subscribe()
	return &Model{
		ctx:        ctx,
		controller: controller,
		frames:     frames,
		keys:       Keys,
		width:      80,
		height:     24,
	}, cancel
}

func (m *Model) Init() tea.Cmd {
	log.Println("serialplot: terminal view started")
	return waitForFrame(m.frames)
}

func waitForFrame(frames <-chan *events.Event) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-frames
		if !ok {
			return framesClosedMsg{}
		}
		return frameMsg{frame: event.Frame}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		if msg.frame != nil {
			m.frame = msg.frame
		}
		return m, waitForFrame(m.frames)
	case framesClosedMsg:
		return m, tea.Quit
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.ScrollLeft):
		m.submit(scrollBy(plotter.XAxis, -1))
	case key.Matches(msg, m.keys.ScrollRight):
		m.submit(scrollBy(plotter.XAxis, 1))
	case key.Matches(msg, m.keys.ScrollUp):
		// The vertical bar grows downwards.
		m.submit(scrollBy(plotter.YAxis, -1))
	case key.Matches(msg, m.keys.ScrollDown):
		m.submit(scrollBy(plotter.YAxis, 1))
	case key.Matches(msg, m.keys.ZoomInX):
		m.submit(zoom(plotter.XAxis, 1/ZOOM_FACTOR))
	case key.Matches(msg, m.keys.ZoomOutX):
		m.submit(zoom(plotter.XAxis, ZOOM_FACTOR))
	case key.Matches(msg, m.keys.ZoomInY):
		m.submit(zoom(plotter.YAxis, 1/ZOOM_FACTOR))
	case key.Matches(msg, m.keys.ZoomOutY):
		m.submit(zoom(plotter.YAxis, ZOOM_FACTOR))
	case key.Matches(msg, m.keys.Rescale):
		m.submit((*plotter.Engine).Rescale)
	case key.Matches(msg, m.keys.Clear):
		m.submit((*plotter.Engine).Clear)
	}
	return m, nil
}

func (m *Model) submit(fn func(*plotter.Engine)) {
	m.err = m.controller.Submit(m.ctx, fn)
	if m.err != nil {
		log.Printf("couldn't submit command: %s", m.err)
	}
}

// scrollBy moves axis's scroll bar by a tenth of a page, the way a wheel or
// arrow click on the bar would.
func scrollBy(axis plotter.Axis, direction int) func(*plotter.Engine) {
	return func(e *plotter.Engine) {
		state := e.ScrollState(axis)
		step := state.PageStep / SCROLL_STEPS
		if step < 1 {
			step = 1
		}
		position := state.Value + direction*step
		if axis == plotter.YAxis {
			e.OnVerticalScroll(position)
		} else {
			e.OnHorizontalScroll(position)
		}
	}
}

func zoom(axis plotter.Axis, factor float64) func(*plotter.Engine) {
	return func(e *plotter.Engine) {
		e.Zoom(axis, factor)
	}
}

func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("serialplot"))
	b.WriteString("  ")
	b.WriteString(statusStyle.Render(m.status()))
	b.WriteString("\n\n")

	graph := plot(m.frame, m.width-AXIS_LABEL_WIDTH, m.height-CHROME_HEIGHT)
	if graph == "" {
		graph = statusStyle.Render("waiting for data…")
	}
	b.WriteString(graph)
	b.WriteString("\n\n")

	if m.err != nil && !errors.Is(m.err, context.Canceled) {
		b.WriteString(errorStyle.Render(m.err.Error()))
		b.WriteString("  ")
	}
	b.WriteString(helpStyle.Render(m.help()))
	return b.String()
}

func (m *Model) status() string {
	if m.frame == nil {
		return "no frames yet"
	}
	f := m.frame
	return fmt.Sprintf("x %s…%s  y %s…%s  ticks %d  accepted %d  rejected %d",
		utils.FormatValue(f.XRange.Lower, 2), utils.FormatValue(f.XRange.Upper, 2),
		utils.FormatValue(f.YRange.Lower, 2), utils.FormatValue(f.YRange.Upper, 2),
		f.Ticks, f.Accepted, f.Rejected)
}

func (m *Model) help() string {
	var parts []string
	for _, binding := range m.keys.ShortHelp() {
		h := binding.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " • ")
}

// Run shows the terminal UI until the user quits or ctx is cancelled. Keys are
// read from the terminal rather than stdin, which may be the data source.
func Run(ctx context.Context, controller Controller, hub *events.EventHub) error {
	model, cancel := New(ctx, controller, hub)
	defer cancel()

	_, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithInputTTY(), tea.WithContext(ctx)).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
