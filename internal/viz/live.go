package viz

import (
	"fmt"
	"image"
	"math/rand/v2"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/soup/internal/physics"
	"github.com/san-kum/soup/internal/sim"
)

const (
	width           = 80
	height          = 24
	statsWidth      = 45
	historyCapacity = 600
	stepDt          = 1.0 / 60
	gifPath         = "soup.gif"
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model is the live terminal view of one simulator.
type Model struct {
	sim    *sim.Simulator
	rng    *rand.Rand
	name   string
	canvas *Canvas
	theme  Theme
	styles styles
	dots   []lipgloss.Style

	width, height int
	running       bool
	showHelp      bool
	lastTick      time.Time
	fps           float64
	status        string

	energyHistory []float64
	speedHistory  []float64
	recording     bool
	frames        []*image.Paletted
}

// NewModel wraps s. rng feeds resets and matrix randomization.
func NewModel(s *sim.Simulator, name string, rng *rand.Rand) Model {
	theme := ThemeNight
	return Model{
		sim:           s,
		rng:           rng,
		name:          name,
		canvas:        NewCanvas(width, height),
		theme:         theme,
		styles:        newStyles(theme),
		dots:          SpeciesStyles(s.Palette()),
		width:         width,
		height:        height,
		running:       true,
		lastTick:      time.Now(),
		energyHistory: make([]float64, 0, historyCapacity),
		speedHistory:  make([]float64, 0, historyCapacity),
	}
}

func (m Model) Init() tea.Cmd             { return tick() }

func (m Model) Running() bool             { return m.running }
func (m Model) Recording() bool           { return m.recording }
func (m Model) Status() string            { return m.status }
func (m Model) Simulator() *sim.Simulator { return m.sim }
func (m Model) EnergyHistory() []float64  { return m.energyHistory }

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case ".":
			if !m.running {
				m.step(stepDt)
			}
		case "r":
			m.reset()
		case "m":
			m.randomize()
		case "t":
			m.theme = NextTheme(m.theme)
			m.styles = newStyles(m.theme)
		case "g":
			m.toggleRecording()
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case TickMsg:
		now := time.Time(msg)
		elapsed := now.Sub(m.lastTick).Seconds()
		m.lastTick = now
		if elapsed > 0 {
			m.fps = 0.9*m.fps + 0.1/elapsed
		}
		if m.running {
			m.step(elapsed)
		}
		m.draw()
		if m.recording {
			m.captureFrame()
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) resize(w, h int) {
	cw := max(w-statsWidth-8, 20)
	ch := max(h-4, 10)
	m.width, m.height = cw, ch
	m.canvas = NewCanvas(cw, ch)
}

// step advances the simulation by one clamped frame.
func (m *Model) step(elapsed float64) {
	if _, err := m.sim.Step(elapsed); err != nil {
		m.status = err.Error()
		m.running = false
		return
	}
	m.energyHistory = push(m.energyHistory, m.metric("kinetic_energy"))
	m.speedHistory = push(m.speedHistory, m.metric("mean_speed"))
}

func push(history []float64, v float64) []float64 {
	history = append(history, v)
	if len(history) > historyCapacity {
		history = history[1:]
	}
	return history
}

func (m *Model) metric(name string) float64 {
	for _, mt := range m.sim.Metrics() {
		if mt.Name() == name {
			return mt.Value()
		}
	}
	return 0
}

func (m *Model) reset() {
	if err := m.sim.Reset(m.rng); err != nil {
		m.status = err.Error()
		return
	}
	m.energyHistory = m.energyHistory[:0]
	m.speedHistory = m.speedHistory[:0]
	m.status = "reset"
}

func (m *Model) randomize() {
	s := m.sim.Field().Species()
	if err := m.sim.SetMatrix(physics.RandomMatrix(s, m.rng)); err != nil {
		m.status = err.Error()
		return
	}
	m.energyHistory = m.energyHistory[:0]
	m.speedHistory = m.speedHistory[:0]
	m.status = "matrix randomized"
}

func (m *Model) toggleRecording() {
	if !m.recording {
		m.recording = true
		m.frames = make([]*image.Paletted, 0)
		return
	}
	if err := m.saveGIF(gifPath); err != nil {
		m.status = err.Error()
	} else {
		m.status = fmt.Sprintf("saved %d frames to %s", len(m.frames), gifPath)
	}
	m.recording = false
	m.frames = nil
}

// draw maps the current frame onto the canvas.
func (m *Model) draw() {
	m.canvas.Clear()
	f := m.sim.Frame()
	defer m.sim.Release(f)

	w := m.sim.Field().World()
	sx := float64(m.canvas.SubWidth()) / w.Width
	sy := float64(m.canvas.SubHeight()) / w.Height
	p := m.sim.Particles()
	for i := 0; i < f.N; i++ {
		x, y := f.Position(i)
		m.canvas.Plot(int(float64(x)*sx), int(float64(y)*sy), p.Species(i))
	}
}

// View renders the TUI interface.
func (m Model) View() string {
	canvasView := m.styles.canvas.Render(m.canvas.Render(m.dots))

	var s strings.Builder
	s.WriteString(m.styles.header.Render(strings.ToUpper(m.name)) + "\n")

	switch {
	case m.recording:
		s.WriteString(StatusRecording.Render("● REC") + "\n\n")
	case m.running:
		s.WriteString(StatusRunning.Render("RUNNING") + "\n\n")
	default:
		s.WriteString(StatusPaused.Render("PAUSED") + "\n\n")
	}

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Kinetic energy"))
		s.WriteString(m.styles.graph.Render(chart) + "\n\n")
	}

	p := m.sim.Particles()
	row := func(label, value string) {
		s.WriteString(m.styles.label.Render(label) + m.styles.value.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.2fs", m.sim.Time()))
	row("Steps", fmt.Sprintf("%d", m.sim.Steps()))
	row("FPS", fmt.Sprintf("%.0f", m.fps))
	row("Particles", fmt.Sprintf("%d", p.Len()))
	for _, mt := range m.sim.Metrics() {
		row(mt.Name(), fmt.Sprintf("%.3f", mt.Value()))
	}
	row("Speed", SparklineChart(m.speedHistory, 20))

	s.WriteString("\nSPECIES\n" + Legend(m.sim.Palette(), p.CountBySpecies()) + "\n")

	s.WriteString("\nFORCES\n")
	params := m.sim.Field().Params()
	for _, kv := range []struct {
		k string
		v float64
	}{
		{"r_min", params.RMin}, {"r_max", params.RMax}, {"friction", params.Friction},
		{"force_scale", params.ForceScale}, {"repulsion", params.RepulsionScale}, {"max_speed", params.MaxSpeed},
	} {
		s.WriteString("  " + m.styles.label.Render(fmt.Sprintf("%-12s %.3f", kv.k, kv.v)) + "\n")
	}

	if m.status != "" {
		s.WriteString("\n" + m.styles.value.Render(m.status) + "\n")
	}
	s.WriteString(m.styles.help.Render("─────────────────────\nSP:Pause .:Step R:Reset\nM:Matrix T:Theme G:Record\n?:Help Q:Quit"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, m.styles.stats.Render(s.String()))
	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume simulation  ║
║  .        - Single step when paused  ║
║  R        - Scatter new particles    ║
║  M        - Randomize force matrix   ║
║  G        - Toggle GIF recording     ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
║  Q / Esc  - Quit                     ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}

// Run starts the live view full-screen and blocks until it quits.
func Run(s *sim.Simulator, name string, rng *rand.Rand) error {
	_, err := tea.NewProgram(NewModel(s, name, rng), tea.WithAltScreen()).Run()
	return err
}
