package export

import (
	"strings"
	"testing"

	"github.com/san-kum/soup/internal/dynamo"
	"github.com/san-kum/soup/internal/render"
	"github.com/san-kum/soup/internal/viz"
)

func TestFrameToSVG(t *testing.T) {
	p, err := dynamo.FromPositions([]float64{10, 20, 30}, []float64{5, 6, 7}, []int{0, 1, 1})
	if err != nil {
		t.Fatal(err)
	}
	pk, err := render.NewPacker(p, render.DefaultPalette())
	if err != nil {
		t.Fatal(err)
	}
	f := pk.Pack(p)
	defer pk.Release(f)

	svg := FrameToSVG(f, 100, 50, 2)
	if got := strings.Count(svg, "<circle"); got != 3 {
		t.Errorf("circles = %d, want 3", got)
	}
	if got := strings.Count(svg, "<g fill="); got != 2 {
		t.Errorf("color groups = %d, want 2", got)
	}
	if !strings.Contains(svg, `cx="30.0" cy="7.0"`) {
		t.Error("particle 2 missing from output")
	}
	if FrameToSVG(nil, 1, 1, 1) != "" {
		t.Error("nil frame should render empty")
	}
}

func TestCanvasToSVG(t *testing.T) {
	c := viz.NewCanvas(2, 1)
	c.Plot(0, 0, 1)
	c.Plot(3, 3, 0)

	pal := render.DefaultPalette()
	svg := CanvasToSVG(c, pal, 4)
	if got := strings.Count(svg, "<circle"); got != 2 {
		t.Errorf("circles = %d, want 2", got)
	}
	if !strings.Contains(svg, pal[1].Hex()) {
		t.Error("species 1 color missing")
	}
	if CanvasToSVG(nil, pal, 1) != "" {
		t.Error("nil canvas should render empty")
	}
}

func TestSeriesToSVG(t *testing.T) {
	svg := SeriesToSVG([]float64{0, 1, 2}, []float64{3, 3, 3}, 200, 100, "#00ff88")
	if !strings.Contains(svg, `d="M0.0,`) || strings.Count(svg, " L") != 2 {
		t.Errorf("unexpected path: %s", svg)
	}
	if SeriesToSVG([]float64{0}, []float64{1}, 10, 10, "#fff") != "" {
		t.Error("single point should render empty")
	}
	if SeriesToSVG([]float64{0, 1}, []float64{1}, 10, 10, "#fff") != "" {
		t.Error("mismatched lengths should render empty")
	}
}
