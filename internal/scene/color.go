package scene

import colorful "github.com/lucasb-eyer/go-colorful"

// Color is a linear RGB triple. Components are not clamped so that
// brightness multipliers can be chained before display.
type Color = colorful.Color

var (
	White  = Hex(0xffffff)
	Black  = Hex(0x000000)
	Yellow = Hex(0xffff00)
)

// Hex converts a 0xRRGGBB literal into a Color.
func Hex(h uint32) Color {
	return Color{
		R: float64(h>>16&0xff) / 255,
		G: float64(h>>8&0xff) / 255,
		B: float64(h&0xff) / 255,
	}
}

// Gray returns a neutral color with every channel set to v.
func Gray(v float64) Color { return Color{R: v, G: v, B: v} }

// Mul scales every channel of c by s.
func Mul(c Color, s float64) Color { return Color{R: c.R * s, G: c.G * s, B: c.B * s} }

// Lerp moves a toward b by t without clamping t.
func Lerp(a, b Color, t float64) Color { return a.BlendRgb(b, t) }
