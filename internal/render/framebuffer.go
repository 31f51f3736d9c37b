// Package render draws the scene and the overlay into a character
// framebuffer and serializes it as ANSI text.
package render

import (
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/olivier-w/pigeonviz/internal/overlay"
)

// A cell covers CellW×CellH pixels of the virtual canvas. Braille dots
// split it into a 2×4 grid.
const (
	CellW = 8
	CellH = 16

	dotW = CellW / 2
	dotH = CellH / 4
)

// Braille dot (col, row) → bit offset within U+2800.
var brailleBits = [2][4]uint{
	{0, 1, 2, 6},
	{3, 4, 5, 7},
}

// Cell is one terminal character.
type Cell struct {
	Ch   rune
	FG   colorful.Color
	BG   colorful.Color
	Bold bool

	dots     uint8
	dotColor colorful.Color
}

// Framebuffer is a grid of cells.
type Framebuffer struct {
	W, H  int
	cells []Cell
}

// NewFramebuffer allocates a w×h grid.
func NewFramebuffer(w, h int) *Framebuffer {
	fb := &Framebuffer{}
	fb.Resize(w, h)
	return fb
}

// Resize reallocates the grid when the size changes.
func (fb *Framebuffer) Resize(w, h int) {
	w, h = max(w, 0), max(h, 0)
	if w == fb.W && h == fb.H && fb.cells != nil {
		return
	}
	fb.W, fb.H = w, h
	fb.cells = make([]Cell, w*h)
}

// PixelSize returns the virtual canvas size.
func (fb *Framebuffer) PixelSize() (float64, float64) {
	return float64(fb.W * CellW), float64(fb.H * CellH)
}

// At returns the cell at column x, row y, or nil outside the grid.
func (fb *Framebuffer) At(x, y int) *Cell {
	if x < 0 || y < 0 || x >= fb.W || y >= fb.H {
		return nil
	}
	return &fb.cells[y*fb.W+x]
}

// Fill resets every cell to a blank with the background of its row.
func (fb *Framebuffer) Fill(bg func(row int) colorful.Color) {
	for y := range fb.H {
		c := bg(y)
		for x := range fb.W {
			fb.cells[y*fb.W+x] = Cell{Ch: ' ', BG: c, FG: c}
		}
	}
}

// Paint sets the background of a cell, mixing by alpha.
func (fb *Framebuffer) Paint(x, y int, c colorful.Color, alpha float64) {
	cell := fb.At(x, y)
	if cell == nil || alpha <= 0 {
		return
	}
	cell.BG = cell.BG.BlendRgb(c, min(alpha, 1))
	if cell.Ch == ' ' {
		cell.FG = cell.BG
	}
}

// Put writes a glyph, mixing its color into the background by alpha.
func (fb *Framebuffer) Put(x, y int, ch rune, c colorful.Color, alpha float64) {
	cell := fb.At(x, y)
	if cell == nil || alpha <= 0 {
		return
	}
	cell.Ch = ch
	cell.FG = cell.BG.BlendRgb(c, min(alpha, 1))
	cell.dots = 0
}

// Dot sets one braille dot at pixel px, py.
func (fb *Framebuffer) Dot(px, py float64, c colorful.Color, alpha float64) {
	if px < 0 || py < 0 || alpha <= 0 {
		return
	}
	ix, iy := int(px), int(py)
	cell := fb.At(ix/CellW, iy/CellH)
	if cell == nil {
		return
	}
	col := (ix % CellW) / dotW
	row := (iy % CellH) / dotH
	cell.dots |= 1 << brailleBits[col][row]
	cell.dotColor = cell.BG.BlendRgb(c, min(alpha, 1))
}

func (c *Cell) glyph() (rune, colorful.Color) {
	if c.dots != 0 {
		return rune(0x2800 + int(c.dots)), c.dotColor
	}
	return c.Ch, c.FG
}

// String serializes the grid for the given color profile.
func (fb *Framebuffer) String(p Profile) string {
	var sb strings.Builder
	sb.Grow(fb.W * fb.H * 4)
	for y := range fb.H {
		st := newANSIState(p)
		for x := range fb.W {
			cell := &fb.cells[y*fb.W+x]
			ch, fg := cell.glyph()
			st.set(&sb, toRGB(fg), toRGB(cell.BG), cell.Bold)
			sb.WriteRune(ch)
		}
		st.reset(&sb)
		if y < fb.H-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func alphaOf(c overlay.RGBA) float64 { return float64(c.A) / 255 }

func colorOf(c overlay.RGBA) colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}
