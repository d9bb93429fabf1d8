//go:build !ebiten

package gui

import (
	"math/rand/v2"

	"github.com/charmbracelet/log"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/soup/internal/render"
	"github.com/san-kum/soup/internal/sim"
)

var (
	ColBg   = rl.NewColor(10, 10, 10, 255)
	ColText = rl.NewColor(140, 140, 140, 255)
)

func initWindow(s *sim.Simulator) {
	w, h := windowSize(s)
	rl.InitWindow(w, h, "soup")
	rl.SetTargetFPS(60)
	rl.SetExitKey(0)
}

// Run opens a window sized to the world and blocks until it is closed.
func Run(s *sim.Simulator, name string, rng *rand.Rand) error {
	initWindow(s)
	defer rl.CloseWindow()

	a := NewApp(s, name, rng)
	img := rl.GenImageGradientRadial(glowSize, glowSize, 0.0, rl.White, rl.NewColor(0, 0, 0, 0))
	tex := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(tex)

	log.Info("window open", "backend", "raylib", "preset", name)
	for !rl.WindowShouldClose() {
		if rl.IsKeyPressed(rl.KeyQ) || rl.IsKeyPressed(rl.KeyEscape) {
			break
		}
		handleKeys(a)
		a.Advance(float64(rl.GetFrameTime()))
		draw(a, tex)
	}
	return nil
}

func handleKeys(a *App) {
	switch {
	case rl.IsKeyPressed(rl.KeySpace):
		a.TogglePause()
	case rl.IsKeyPressed(rl.KeyR):
		a.Reset()
	case rl.IsKeyPressed(rl.KeyM):
		a.RandomizeMatrix()
	case rl.IsKeyPressed(rl.KeyG):
		a.Glow = !a.Glow
	}
}

func toColor(c render.RGB, alpha float64) rl.Color {
	r, g, b := c.Bytes()
	return rl.NewColor(r, g, b, uint8(alpha*255))
}

func draw(a *App, tex rl.Texture2D) {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	if a.Glow {
		rl.BeginBlendMode(rl.BlendAdditive)
		half := float32(glowSize) / 2
		a.Sprites(func(_ int, x, y float32, c render.RGB, pulse float64) {
			rl.DrawTexture(tex, int32(x-half), int32(y-half), toColor(c, 0.35*pulse))
		})
		rl.EndBlendMode()
	}
	a.Sprites(func(_ int, x, y float32, c render.RGB, pulse float64) {
		rl.DrawCircleV(rl.NewVector2(x, y), dotRadius, toColor(c, pulse))
	})

	rl.DrawText(a.HUD(), 12, 12, 14, ColText)
	rl.DrawFPS(12, 52)
	rl.EndDrawing()
}
