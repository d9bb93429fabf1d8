package viz

import (
	"image"
	"image/color"
	"image/gif"
	"os"
)

const (
	charW = 8
	charH = 16
)

func (m *Model) gifPalette() color.Palette {
	pal := color.Palette{color.Black, color.White}
	for _, c := range m.sim.Palette() {
		r, g, b := c.Bytes()
		pal = append(pal, color.RGBA{R: r, G: g, B: b, A: 255})
	}
	return pal
}

// captureFrame rasterizes the canvas, one block of pixels per dot.
func (m *Model) captureFrame() {
	c := m.canvas
	img := image.NewPaletted(image.Rect(0, 0, c.Width*charW, c.Height*charH), m.gifPalette())
	dotW, dotH := charW/2, charH/4
	for y := 0; y < c.SubHeight(); y++ {
		for x := 0; x < c.SubWidth(); x++ {
			if !c.Lit(x, y) {
				continue
			}
			idx := uint8(1)
			if o := c.Owner[y/4][x/2]; o >= 0 && o+2 < len(img.Palette) {
				idx = uint8(o + 2)
			}
			for py := 0; py < dotH; py++ {
				for px := 0; px < dotW; px++ {
					img.SetColorIndex(x*dotW+px, y*dotH+py, idx)
				}
			}
		}
	}
	m.frames = append(m.frames, img)
}

func (m *Model) saveGIF(path string) error {
	if len(m.frames) == 0 {
		return nil
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range m.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, 2)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gif.EncodeAll(f, &anim)
}
