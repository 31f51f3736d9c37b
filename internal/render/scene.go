package render

import (
	"math"
	"slices"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/olivier-w/pigeonviz/internal/scene"
)

// skyMix is how much of the environment shows through the clear color.
const skyMix = 0.4

// background returns the per-row clear color, with the environment's
// vertical gradient mixed in when one is set.
func background(sc *scene.Scene, rows int) func(int) colorful.Color {
	base := sc.ClearColor.Clamped()
	env := sc.Environment
	if env == nil {
		return func(int) colorful.Color { return base }
	}
	return func(row int) colorful.Color {
		t := 0.0
		if rows > 1 {
			t = float64(row) / float64(rows-1)
		}
		sky := env.Zenith.BlendRgb(env.Horizon, t)
		return base.BlendRgb(sky, skyMix)
	}
}

type placed struct {
	e    *scene.Entity
	proj scene.Projection
}

// drawScene projects every world entity, far to near, then blits the
// screen-space decals on top.
func drawScene(fb *Framebuffer, sc *scene.Scene, tick int) {
	w, h := fb.PixelSize()
	var world []placed
	var decals []*scene.Entity
	var spots []*scene.Entity
	sc.Each(func(_ scene.Collection, e *scene.Entity) {
		switch e.Kind {
		case scene.KindDecal:
			decals = append(decals, e)
		case scene.KindSpotLight:
			spots = append(spots, e)
		default:
			if p, ok := sc.Camera.Project(e.Position, w, h); ok {
				world = append(world, placed{e: e, proj: p})
			}
		}
	})
	slices.SortStableFunc(world, func(a, b placed) int {
		switch {
		case a.proj.Depth > b.proj.Depth:
			return -1
		case a.proj.Depth < b.proj.Depth:
			return 1
		}
		return 0
	})

	for _, p := range world {
		c := shade(sc, spots, p.e)
		switch p.e.Kind {
		case scene.KindSphere:
			drawSphere(fb, p, c)
		case scene.KindBox:
			drawBox(fb, p, c)
		case scene.KindPigeon:
			drawSprite(fb, p, c)
		}
	}
	for _, d := range decals {
		drawDecal(fb, d, tick)
	}
}

// shade lights a material: unlit colors pass through, lit colors are
// scaled by the scene lights and spotlights, and emission is added.
func shade(sc *scene.Scene, spots []*scene.Entity, e *scene.Entity) colorful.Color {
	m := e.Material
	c := m.Color
	if !m.Unlit {
		light := 0.5*sc.Ambient.Intensity + 0.5*sc.Directional.Intensity
		c = scene.Mul(c, light)
		for _, s := range spots {
			if f := spotFactor(s, e.Position); f > 0 {
				c = c.BlendRgb(s.Light.Color, math.Min(1, f*0.1))
			}
		}
	}
	glow := scene.Mul(m.Emissive, m.EmissiveIntensity)
	return colorful.Color{R: c.R + glow.R, G: c.G + glow.G, B: c.B + glow.B}.Clamped()
}

// spotFactor is the intensity a spotlight delivers at p: zero outside
// its cone or range, fading over the penumbra and with distance.
func spotFactor(s *scene.Entity, p scene.Vec3) float64 {
	l := s.Light
	if l == nil || l.Intensity <= 0 {
		return 0
	}
	axis := l.Target.Sub(s.Position)
	to := p.Sub(s.Position)
	dist := to.Length()
	if dist == 0 || axis.Length() == 0 || (l.Distance > 0 && dist > l.Distance) {
		return 0
	}
	cos := (axis.X*to.X + axis.Y*to.Y + axis.Z*to.Z) / (axis.Length() * dist)
	angle := math.Acos(math.Max(-1, math.Min(1, cos)))
	if angle > l.Angle {
		return 0
	}
	edge := 1.0
	if inner := l.Angle * (1 - l.Penumbra); angle > inner && l.Angle > inner {
		edge = (l.Angle - angle) / (l.Angle - inner)
	}
	falloff := 1.0
	if l.Distance > 0 {
		falloff = 1 - dist/l.Distance
	}
	return l.Intensity * edge * falloff
}

func drawSphere(fb *Framebuffer, p placed, c colorful.Color) {
	e := p.e
	r := e.Size * e.Scale.X * p.proj.PixelsPerUnit
	if r <= 0 {
		return
	}
	alpha := 1.0
	if e.Material.Transparent {
		alpha = e.Material.Opacity
	}
	ring := e.Material.Side == scene.BackSide

	x0, x1 := int((p.proj.X-r)/CellW), int((p.proj.X+r)/CellW)
	y0, y1 := int((p.proj.Y-r)/CellH), int((p.proj.Y+r)/CellH)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			dx := (float64(x)+0.5)*CellW - p.proj.X
			dy := (float64(y)+0.5)*CellH - p.proj.Y
			d := math.Hypot(dx, dy) / r
			if d > 1 {
				continue
			}
			a := alpha
			if ring {
				// Back faces glow strongest at the rim.
				a *= d
			}
			fb.Paint(x, y, c, a)
		}
	}
}

func drawBox(fb *Framebuffer, p placed, c colorful.Color) {
	e := p.e
	half := e.Size / 2 * e.Scale.X * p.proj.PixelsPerUnit
	if half <= 0 {
		return
	}
	face := scene.Mul(c, 0.8+0.2*math.Abs(math.Cos(e.Rotation.Y)))
	x0, x1 := int((p.proj.X-half)/CellW), int((p.proj.X+half)/CellW)
	y0, y1 := int((p.proj.Y-half)/CellH), int((p.proj.Y+half)/CellH)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			fb.Paint(x, y, face, 1)
		}
	}
}

// spriteUnit is the world width of a pigeon at scale 1.
const spriteUnit = 1.0

// drawSprite stamps the pigeon's frame for its yaw, resampled to its
// projected size so that non-uniform scale stretches the glyphs.
func drawSprite(fb *Framebuffer, p placed, c colorful.Color) {
	e := p.e
	rows := e.Shape.Frame(e.Rotation.Y)
	cols := frameWidth(rows)
	if cols == 0 {
		return
	}

	pxW := spriteUnit * e.Scale.X * p.proj.PixelsPerUnit
	pxH := pxW * float64(len(rows)*CellH) / float64(cols*CellW) * safeRatio(e.Scale.Y, e.Scale.X)
	alpha := 1.0
	if e.Material.Transparent {
		alpha = e.Material.Opacity
	}
	stamp(fb, rows, p.proj.X-pxW/2, p.proj.Y-pxH/2, pxW, pxH, c, alpha, false)
}

func safeRatio(a, b float64) float64 {
	if b == 0 {
		return 1
	}
	return a / b
}

func frameWidth(rows []string) int {
	w := 0
	for _, r := range rows {
		w = max(w, len([]rune(r)))
	}
	return w
}

// stamp nearest-neighbour resamples rows into the pixel box at x, y of
// size pw×ph. Spaces are transparent.
func stamp(fb *Framebuffer, rows []string, x, y, pw, ph float64, c colorful.Color, alpha float64, mirror bool) {
	srcW := frameWidth(rows)
	if srcW == 0 || len(rows) == 0 || pw <= 0 || ph <= 0 {
		return
	}
	grid := make([][]rune, len(rows))
	for i, r := range rows {
		grid[i] = []rune(r)
	}

	dstW := max(1, int(math.Round(pw/CellW)))
	dstH := max(1, int(math.Round(ph/CellH)))
	cx0 := int(math.Floor(x / CellW))
	cy0 := int(math.Floor(y / CellH))
	for dy := range dstH {
		sy := dy * len(grid) / dstH
		for dx := range dstW {
			sx := dx * srcW / dstW
			if mirror {
				sx = srcW - 1 - sx
			}
			if sx >= len(grid[sy]) {
				continue
			}
			ch := grid[sy][sx]
			if ch == ' ' {
				continue
			}
			if mirror {
				ch = mirrorRune(ch)
			}
			fb.Put(cx0+dx, cy0+dy, ch, c, alpha)
		}
	}
}

var mirrored = map[rune]rune{
	'(': ')', ')': '(', '<': '>', '>': '<', '/': '\\', '\\': '/',
	'[': ']', ']': '[', '{': '}', '}': '{',
}

func mirrorRune(r rune) rune {
	if m, ok := mirrored[r]; ok {
		return m
	}
	return r
}

// walkPeriod is how many frames each walk-cycle frame is shown.
const walkPeriod = 8

// drawDecal blits a walking pigeon in screen space. Decals turned past a
// quarter turn face the other way.
func drawDecal(fb *Framebuffer, d *scene.Entity, tick int) {
	alpha := d.Material.Opacity
	if d.Shape == nil || len(d.Shape.Frames) == 0 {
		side := d.Size
		for y := int(d.Position.Y / CellH); y <= int((d.Position.Y+side/2)/CellH); y++ {
			for x := int(d.Position.X / CellW); x <= int((d.Position.X+side)/CellW); x++ {
				fb.Paint(x, y, d.Material.Color, alpha*0.3)
			}
		}
		return
	}
	frames := d.Shape.Frames
	rows := frames[(tick/walkPeriod)%len(frames)]
	cols := frameWidth(rows)
	if cols == 0 {
		return
	}
	pw := d.Size
	ph := pw * float64(len(rows)*CellH) / float64(cols*CellW)
	mirror := math.Abs(d.Rotation.Z) > 90
	stamp(fb, rows, d.Position.X, d.Position.Y, pw, ph, d.Material.Color, alpha, mirror)
}
