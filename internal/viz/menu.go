package viz

import (
	"fmt"
	"math/rand/v2"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/soup/internal/sim"
)

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white  = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
)

var presetInfo = map[string]string{
	"soup":  "three species chasing in a ring",
	"duo":   "two species, heavier drag",
	"hexa":  "six species cyclic matrix",
	"swirl": "low friction, fast swarms",
}

// Builder constructs the simulator for a preset name.
type Builder func(preset string) (*sim.Simulator, error)

// Menu picks a preset and then hands the terminal to a live Model.
type Menu struct {
	presets []string
	cursor  int
	build   Builder
	rng     *rand.Rand
	err     error

	live   *Model
	width  int
	height int
}

func NewMenu(presets []string, build Builder, rng *rand.Rand) Menu {
	return Menu{presets: presets, build: build, rng: rng}
}

func (m Menu) Init() tea.Cmd { return nil }

// Selected returns the preset under the cursor.
func (m Menu) Selected() string {
	if len(m.presets) == 0 {
		return ""
	}
	return m.presets[m.cursor]
}

// Live returns the running model once a preset was chosen.
func (m Menu) Live() *Model { return m.live }

func (m Menu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.live != nil {
		next, cmd := m.live.Update(msg)
		live := next.(Model)
		m.live = &live
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.presets)-1 {
				m.cursor++
			}
		case "enter", " ":
			return m.start()
		}
	}
	return m, nil
}

func (m Menu) start() (tea.Model, tea.Cmd) {
	name := m.Selected()
	if name == "" {
		return m, nil
	}
	s, err := m.build(name)
	if err != nil {
		m.err = err
		return m, nil
	}
	live := NewModel(s, name, m.rng)
	if m.width > 0 {
		live.resize(m.width, m.height)
	}
	m.live = &live
	return m, live.Init()
}

func (m Menu) View() string {
	if m.live != nil {
		return m.live.View()
	}

	var b strings.Builder
	b.WriteString("\n  " + cyan.Bold(true).Render("soup") + dim.Render(" particle life") + "\n\n")
	for i, name := range m.presets {
		cursor := "  "
		label := dim.Render(name)
		if i == m.cursor {
			cursor = cyan.Render("▸ ")
			label = white.Render(name)
		}
		b.WriteString("  " + cursor + fmt.Sprintf("%-8s", label) + "  " + dimmer.Render(presetInfo[name]) + "\n")
	}
	if m.err != nil {
		b.WriteString("\n  " + StatusRecording.Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n  " + dimmer.Render("↑↓ select · enter start · q quit") + "\n")
	return b.String()
}

// RunInteractive shows the preset menu full-screen.
func RunInteractive(presets []string, build Builder, rng *rand.Rand) error {
	_, err := tea.NewProgram(NewMenu(presets, build, rng), tea.WithAltScreen()).Run()
	return err
}
