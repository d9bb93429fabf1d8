// Package gui draws a simulator in a desktop window. The default backend is
// raylib; building with the ebiten tag swaps in an ebiten window instead.
package gui

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/san-kum/soup/internal/physics"
	"github.com/san-kum/soup/internal/render"
	"github.com/san-kum/soup/internal/sim"
)

const (
	// golden-ratio phase offset keeps neighbouring particles out of step
	pulsePhase = 0.381966
	pulseRate  = 3.0
	glowSize   = 32
	dotRadius  = 1.6
)

// App holds the windowed session state shared by both backends.
type App struct {
	Sim     *sim.Simulator
	Name    string
	Running bool
	Glow    bool

	rng     *rand.Rand
	elapsed float64
	status  string
}

func NewApp(s *sim.Simulator, name string, rng *rand.Rand) *App {
	return &App{Sim: s, Name: name, Running: true, Glow: true, rng: rng}
}

// Pulse is the brightness of particle i at wall time t, in [0.25, 1].
func Pulse(t float64, i int) float64 {
	return 0.25 + 0.75*math.Abs(math.Sin(pulseRate*t+float64(i)*pulsePhase))
}

// Advance applies one frame of wall time.
func (a *App) Advance(elapsed float64) {
	a.elapsed += elapsed
	if !a.Running {
		return
	}
	if _, err := a.Sim.Step(elapsed); err != nil {
		log.Error("step failed", "err", err)
		a.Running = false
		a.status = err.Error()
	}
}

func (a *App) TogglePause() { a.Running = !a.Running }

func (a *App) Reset() {
	if err := a.Sim.Reset(a.rng); err != nil {
		log.Error("reset failed", "err", err)
		a.status = err.Error()
		return
	}
	a.status = "reset"
}

func (a *App) RandomizeMatrix() {
	m := physics.RandomMatrix(a.Sim.Field().Species(), a.rng)
	if err := a.Sim.SetMatrix(m); err != nil {
		log.Error("randomize failed", "err", err)
		a.status = err.Error()
		return
	}
	log.Debug("matrix randomized", "species", m.Size())
	a.status = "matrix randomized"
}

// Sprites yields each particle's position and pulsed color for the current
// frame.
func (a *App) Sprites(fn func(i int, x, y float32, c render.RGB, pulse float64)) {
	f := a.Sim.Frame()
	defer a.Sim.Release(f)
	for i := 0; i < f.N; i++ {
		x, y := f.Position(i)
		r, g, b := f.Color(i)
		fn(i, x, y, render.RGB{float64(r), float64(g), float64(b)}, Pulse(a.elapsed, i))
	}
}

// HUD is the overlay text.
func (a *App) HUD() string {
	state := "running"
	if !a.Running {
		state = "paused"
	}
	s := fmt.Sprintf("%s  %s  t=%.1fs  n=%d", a.Name, state, a.Sim.Time(), a.Sim.Particles().Len())
	if a.status != "" {
		s += "  " + a.status
	}
	return s + "\nSPACE pause  R reset  M matrix  G glow  Q quit"
}

func windowSize(s *sim.Simulator) (int32, int32) {
	w := s.Field().World()
	return int32(w.Width), int32(w.Height)
}
