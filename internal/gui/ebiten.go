//go:build ebiten

package gui

import (
	"errors"
	"image/color"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/san-kum/soup/internal/render"
	"github.com/san-kum/soup/internal/sim"
)

var (
	errQuit = errors.New("quit")
	colBg   = color.RGBA{10, 10, 10, 255}
)

type game struct {
	app  *App
	last time.Time
	w, h int
}

func (g *game) Update() error {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyQ), inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		return errQuit
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		g.app.TogglePause()
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		g.app.Reset()
	case inpututil.IsKeyJustPressed(ebiten.KeyM):
		g.app.RandomizeMatrix()
	case inpututil.IsKeyJustPressed(ebiten.KeyG):
		g.app.Glow = !g.app.Glow
	}

	now := time.Now()
	g.app.Advance(now.Sub(g.last).Seconds())
	g.last = now
	return nil
}

// toRGBA returns c at the given opacity, premultiplied as ebiten expects.
func toRGBA(c render.RGB, alpha float64) color.RGBA {
	r, g, b := c.Bytes()
	mul := func(v uint8) uint8 { return uint8(float64(v) * alpha) }
	return color.RGBA{mul(r), mul(g), mul(b), uint8(alpha * 255)}
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.Fill(colBg)
	g.app.Sprites(func(_ int, x, y float32, c render.RGB, pulse float64) {
		if g.app.Glow {
			vector.DrawFilledCircle(screen, x, y, glowSize/4, toRGBA(c, 0.15*pulse), true)
		}
		vector.DrawFilledCircle(screen, x, y, dotRadius, toRGBA(c, pulse), true)
	})
	ebitenutil.DebugPrint(screen, g.app.HUD())
}

func (g *game) Layout(int, int) (int, int) { return g.w, g.h }

// Run opens a window sized to the world and blocks until it is closed.
func Run(s *sim.Simulator, name string, rng *rand.Rand) error {
	w, h := windowSize(s)
	ebiten.SetWindowSize(int(w), int(h))
	ebiten.SetWindowTitle("soup")
	ebiten.SetTPS(60)

	log.Info("window open", "backend", "ebiten", "preset", name)
	g := &game{app: NewApp(s, name, rng), last: time.Now(), w: int(w), h: int(h)}
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, errQuit) {
		return err
	}
	return nil
}
