// Package tui renders the display in a terminal with bubbletea.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/louisbranch/demofront/internal/display"
)

// settledMsg carries the display state once the fetch has finished.
type settledMsg struct {
	state display.State
}

type styles struct {
	title   lipgloss.Style
	message lipgloss.Style
	err     lipgloss.Style
	spinner lipgloss.Style
	help    lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		title:   lipgloss.NewStyle().Bold(true).MarginBottom(1),
		message: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#61dafb")),
		err:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff0000")),
		spinner: lipgloss.NewStyle().Foreground(lipgloss.Color("#61dafb")),
		help:    lipgloss.NewStyle().Faint(true).MarginTop(1),
	}
}

// Model is the bubbletea model for one mounted display.
type Model struct {
	title     string
	badges    []display.Badge
	component *display.Component
	spinner   spinner.Model
	state     display.State
	styles    styles
	quitting  bool
}

// New builds a model rendering component with the title and badges of variant.
func New(variant display.Variant, component *display.Component) Model {
	st := defaultStyles()
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = st.spinner
	return Model{
		title:     variant.Title,
		badges:    variant.Badges,
		component: component,
		spinner:   sp,
		state:     component.State(),
		styles:    st,
	}
}

// Init mounts the display and starts the spinner.
func (m Model) Init() tea.Cmd {
	m.component.Mount(context.Background())
	return tea.Batch(m.spinner.Tick, waitForSettle(m.component))
}

func waitForSettle(c *display.Component) tea.Cmd {
	return func() tea.Msg {
		<-c.Done()
		return settledMsg{state: c.State()}
	}
}

// Update applies key presses, spinner ticks and the settled state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.component.Unmount()
			m.quitting = true
			return m, tea.Quit
		}
	case settledMsg:
		m.state = msg.state
	case spinner.TickMsg:
		if m.state.Phase == display.PhaseLoading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

// View renders the title followed by the placeholder, the error or the
// message with its badges.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder
	b.WriteString(m.styles.title.Render(m.title))
	b.WriteString("\n")
	switch {
	case m.state.Failed():
		b.WriteString(m.styles.err.Render(m.state.Error))
		b.WriteString("\n")
	case m.state.Phase == display.PhaseLoading:
		b.WriteString(m.spinner.View() + " " + m.state.Message)
		b.WriteString("\n")
		b.WriteString(m.renderBadges())
	default:
		b.WriteString(m.styles.message.Render(m.state.Message))
		b.WriteString("\n")
		b.WriteString(m.renderBadges())
	}
	b.WriteString(m.styles.help.Render("q quit"))
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderBadges() string {
	if len(m.badges) == 0 {
		return ""
	}
	rendered := make([]string, 0, len(m.badges)*2)
	for i, badge := range m.badges {
		if i > 0 {
			rendered = append(rendered, " ")
		}
		style := lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("#ffffff"))
		if color := strings.TrimSpace(badge.Color); color != "" {
			style = style.Background(lipgloss.Color(color))
		}
		rendered = append(rendered, style.Render(badge.Label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...) + "\n"
}

// State returns the last state the model rendered.
func (m Model) State() display.State {
	return m.state
}
