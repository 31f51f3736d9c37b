package modes

import (
	"math"

	"github.com/olivier-w/pigeonviz/internal/scene"
)

var gradientStops = []scene.Color{
	scene.Hex(0x0000ff),
	scene.Hex(0x0066ff),
	scene.Hex(0x0099ff),
	scene.Hex(0x00ccff),
	scene.Hex(0x0000cc),
	scene.Hex(0x0033ff),
}

// gradient is the animated blue backdrop shared by cases 4 and 5. Its
// clock keeps running across transitions.
type gradient struct {
	time float64
}

// advance moves the clock by step and returns the interpolated stop.
func (g *gradient) advance(step float64) scene.Color {
	g.time += step
	n := len(gradientStops)
	i := int(math.Floor(g.time)) % n
	frac := g.time - math.Floor(g.time)
	return scene.Lerp(gradientStops[i], gradientStops[(i+1)%n], frac)
}

// darken is applied to every gradient color before it becomes the
// background.
const darken = 0.3
