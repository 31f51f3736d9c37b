// Package overlay generates the 2D layer drawn on top of the scene: rects,
// connecting lines, typewritten status text, glitching numbers and glyphs.
// It produces draw primitives in pixel space; the renderer rasterizes
// them.
package overlay

// RGBA is a straight-alpha color. A zero alpha draws nothing.
type RGBA struct {
	R, G, B, A uint8
}

func rgba(r, g, b uint8, a float64) RGBA {
	switch {
	case a < 0:
		a = 0
	case a > 255:
		a = 255
	}
	return RGBA{R: r, G: g, B: b, A: uint8(a)}
}

var (
	blue    = RGBA{0, 0, 255, 255}
	red200  = RGBA{255, 0, 0, 200}
	blue200 = RGBA{0, 0, 255, 200}
	green   = RGBA{0, 255, 0, 200}
)

// Shape selects how a primitive is drawn.
type Shape uint8

const (
	// Rect spans X, Y to X+W, Y+H.
	Rect Shape = iota
	// Line joins X, Y and X2, Y2.
	Line
	// Ellipse is centred on X, Y with diameters W and H.
	Ellipse
	// Text starts at X (or is centred on it) with its middle at Y.
	Text
)

func (s Shape) String() string {
	switch s {
	case Rect:
		return "rect"
	case Line:
		return "line"
	case Ellipse:
		return "ellipse"
	case Text:
		return "text"
	default:
		return "unknown"
	}
}

// Primitive is one draw call.
type Primitive struct {
	Shape  Shape
	X, Y   float64
	W, H   float64
	X2, Y2 float64

	Stroke RGBA
	Fill   RGBA

	Text     string
	Size     float64
	Centered bool
}
