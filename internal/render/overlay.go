package render

import (
	"math"

	"github.com/olivier-w/pigeonviz/internal/overlay"
)

// boldSize is the text size from which glyphs are drawn bold.
const boldSize = 24

// drawOverlay rasterizes primitives in order. Strokes become braille
// dots, fills tint cell backgrounds and text replaces glyphs.
func drawOverlay(fb *Framebuffer, prims []overlay.Primitive) {
	for _, p := range prims {
		switch p.Shape {
		case overlay.Rect:
			drawRect(fb, p)
		case overlay.Line:
			if p.Stroke.A > 0 {
				line(fb, p.X, p.Y, p.X2, p.Y2, p.Stroke)
			}
		case overlay.Ellipse:
			drawEllipse(fb, p)
		case overlay.Text:
			drawText(fb, p)
		}
	}
}

func drawRect(fb *Framebuffer, p overlay.Primitive) {
	if p.Fill.A > 0 {
		fillCells(fb, p.X, p.Y, p.X+p.W, p.Y+p.H, func(float64, float64) bool { return true }, p.Fill)
	}
	if p.Stroke.A > 0 {
		x1, y1 := p.X+p.W, p.Y+p.H
		line(fb, p.X, p.Y, x1, p.Y, p.Stroke)
		line(fb, x1, p.Y, x1, y1, p.Stroke)
		line(fb, x1, y1, p.X, y1, p.Stroke)
		line(fb, p.X, y1, p.X, p.Y, p.Stroke)
	}
}

func drawEllipse(fb *Framebuffer, p overlay.Primitive) {
	rx, ry := p.W/2, p.H/2
	if rx <= 0 || ry <= 0 {
		return
	}
	if p.Fill.A > 0 {
		// Dots smaller than a cell still show up as a glyph.
		if p.W < CellW*2 && p.H < CellH {
			fb.Put(int(p.X/CellW), int(p.Y/CellH), '●', colorOf(p.Fill), alphaOf(p.Fill))
		} else {
			inside := func(cx, cy float64) bool {
				dx, dy := (cx-p.X)/rx, (cy-p.Y)/ry
				return dx*dx+dy*dy <= 1
			}
			fillCells(fb, p.X-rx, p.Y-ry, p.X+rx, p.Y+ry, inside, p.Fill)
		}
	}
	if p.Stroke.A > 0 {
		// One dot per dot-width of circumference.
		circ := math.Pi * (3*(rx+ry) - math.Sqrt((3*rx+ry)*(rx+3*ry)))
		steps := max(8, int(circ/dotW*2))
		c, a := colorOf(p.Stroke), alphaOf(p.Stroke)
		for i := range steps {
			t := float64(i) / float64(steps) * 2 * math.Pi
			fb.Dot(p.X+math.Cos(t)*rx, p.Y+math.Sin(t)*ry, c, a)
		}
	}
}

func drawText(fb *Framebuffer, p overlay.Primitive) {
	if p.Fill.A == 0 || p.Text == "" {
		return
	}
	runes := []rune(p.Text)
	x := p.X
	if p.Centered {
		x -= float64(len(runes)*CellW) / 2
	}
	col := int(math.Floor(x / CellW))
	row := int(math.Floor(p.Y / CellH))
	c, a := colorOf(p.Fill), alphaOf(p.Fill)
	for i, r := range runes {
		fb.Put(col+i, row, r, c, a)
		if cell := fb.At(col+i, row); cell != nil {
			cell.Bold = p.Size >= boldSize
		}
	}
}

// line walks from x0,y0 to x1,y1 in dot steps.
func line(fb *Framebuffer, x0, y0, x1, y1 float64, s overlay.RGBA) {
	c, a := colorOf(s), alphaOf(s)
	dx, dy := x1-x0, y1-y0
	steps := int(math.Max(math.Abs(dx)/dotW, math.Abs(dy)/dotH)) + 1
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		fb.Dot(x0+dx*t, y0+dy*t, c, a)
	}
}

// fillCells tints every cell whose centre lies inside the box and passes
// the inside test.
func fillCells(fb *Framebuffer, x0, y0, x1, y1 float64, inside func(cx, cy float64) bool, fill overlay.RGBA) {
	c, a := colorOf(fill), alphaOf(fill)
	for y := max(0, int(y0/CellH)); y <= min(fb.H-1, int(y1/CellH)); y++ {
		for x := max(0, int(x0/CellW)); x <= min(fb.W-1, int(x1/CellW)); x++ {
			cx := (float64(x) + 0.5) * CellW
			cy := (float64(y) + 0.5) * CellH
			if cx < x0 || cx > x1 || cy < y0 || cy > y1 || !inside(cx, cy) {
				continue
			}
			fb.Paint(x, y, c, a)
		}
	}
}
