package viz

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/soup/internal/config"
	"github.com/san-kum/soup/internal/dynamo"
	"github.com/san-kum/soup/internal/metrics"
	"github.com/san-kum/soup/internal/sim"
)

func newTestSim(t *testing.T) *sim.Simulator {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Particles = 60
	cfg.World = config.WorldConfig{Width: 320, Height: 200}
	cfg.Workers = 1
	s, err := sim.FromConfig(cfg, dynamo.NewRand(5))
	if err != nil {
		t.Fatalf("build simulator: %v", err)
	}
	metrics.Attach(s)
	return s
}

func key(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestTickSteps(t *testing.T) {
	m := NewModel(newTestSim(t), "soup", dynamo.NewRand(1))
	m = update(t, m, TickMsg(m.lastTick.Add(10*time.Millisecond)))

	if m.Simulator().Steps() != 1 {
		t.Fatalf("steps = %d, want 1", m.Simulator().Steps())
	}
	if len(m.EnergyHistory()) != 1 {
		t.Errorf("history length = %d, want 1", len(m.EnergyHistory()))
	}
	if !strings.Contains(m.View(), "RUNNING") {
		t.Error("view missing running status")
	}
}

func TestPauseAndSingleStep(t *testing.T) {
	m := NewModel(newTestSim(t), "soup", dynamo.NewRand(1))
	m = update(t, m, key(' '))
	if m.Running() {
		t.Fatal("space did not pause")
	}

	m = update(t, m, TickMsg(m.lastTick.Add(10*time.Millisecond)))
	if m.Simulator().Steps() != 0 {
		t.Errorf("paused model stepped %d times", m.Simulator().Steps())
	}

	m = update(t, m, key('.'))
	if m.Simulator().Steps() != 1 {
		t.Errorf("single step gave %d steps", m.Simulator().Steps())
	}
	if !strings.Contains(m.View(), "PAUSED") {
		t.Error("view missing paused status")
	}
}

func TestResetAndRandomize(t *testing.T) {
	m := NewModel(newTestSim(t), "soup", dynamo.NewRand(1))
	m = update(t, m, TickMsg(m.lastTick.Add(10*time.Millisecond)))

	m = update(t, m, key('r'))
	if m.Simulator().Steps() != 0 || len(m.EnergyHistory()) != 0 {
		t.Errorf("reset left steps=%d history=%d", m.Simulator().Steps(), len(m.EnergyHistory()))
	}

	before := m.Simulator().Field().Coefficient(0, 1)
	m = update(t, m, key('m'))
	if m.Status() != "matrix randomized" {
		t.Fatalf("status = %q", m.Status())
	}
	if after := m.Simulator().Field().Coefficient(0, 1); after == before {
		t.Errorf("coefficient unchanged at %f", after)
	}
	if m.Simulator().Steps() != 0 || len(m.EnergyHistory()) != 0 {
		t.Errorf("new matrix kept steps=%d history=%d", m.Simulator().Steps(), len(m.EnergyHistory()))
	}
}

func TestRecordingWritesGIF(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	m := NewModel(newTestSim(t), "soup", dynamo.NewRand(1))
	m = update(t, m, key('g'))
	if !m.Recording() {
		t.Fatal("g did not start recording")
	}
	for i := 1; i <= 3; i++ {
		m = update(t, m, TickMsg(m.lastTick.Add(10*time.Millisecond)))
	}
	m = update(t, m, key('g'))
	if m.Recording() {
		t.Fatal("g did not stop recording")
	}
	if _, err := os.Stat(filepath.Join(dir, gifPath)); err != nil {
		t.Errorf("gif not written: %v (status %q)", err, m.Status())
	}
}

func TestWindowResize(t *testing.T) {
	m := NewModel(newTestSim(t), "soup", dynamo.NewRand(1))
	m = update(t, m, tea.WindowSizeMsg{Width: 160, Height: 50})
	if m.canvas.Width != 160-statsWidth-8 || m.canvas.Height != 46 {
		t.Errorf("canvas = %dx%d", m.canvas.Width, m.canvas.Height)
	}
}

func TestMenuStartsPreset(t *testing.T) {
	var built string
	menu := NewMenu([]string{"soup", "duo"}, func(name string) (*sim.Simulator, error) {
		built = name
		return newTestSim(t), nil
	}, dynamo.NewRand(1))

	next, _ := menu.Update(tea.KeyMsg{Type: tea.KeyDown})
	menu = next.(Menu)
	if menu.Selected() != "duo" {
		t.Fatalf("selected %q, want duo", menu.Selected())
	}

	next, _ = menu.Update(tea.KeyMsg{Type: tea.KeyEnter})
	menu = next.(Menu)
	if built != "duo" || menu.Live() == nil {
		t.Fatalf("menu did not start duo (built %q)", built)
	}
	if !strings.Contains(menu.View(), "DUO") {
		t.Error("live view not shown after start")
	}
}
