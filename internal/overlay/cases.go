package overlay

import (
	"math"
	"strconv"
)

var statusLines = []string{
	"Installing...",
	"Searching for home...",
	"Finding the way...",
	"Arriving at destination...",
	"Initializing navigation system...",
	"Flying through the sky...",
}

const glitchAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*()_+-=[]{}|;:,.<>?"

const (
	typeSpeed     = 2
	textLinger    = 300
	textEvery     = 60
	numberEvery   = 3
	numberLife    = 200
	glitchEvery   = 5
	networkEvery  = 2
	imageMinLevel = 0.05
)

type box struct{ x, y, w, h float64 }

func (b box) centre() (float64, float64) { return b.x + b.w/2, b.y + b.h/2 }

type status struct {
	x, y  float64
	text  string
	size  float64
	born  int
	shown int
	jitter
}

type number struct {
	x, y  float64
	text  string
	size  float64
	born  int
	jitter
}

type glyph struct {
	x, y  float64
	char  string
	size  float64
	born  int
	life  float64
	jitter
}

type image struct {
	x, y float64
	size float64
	born int
	life float64
}

// outlines draws one faint white rect somewhere on the surface.
func (l *Layer) outlines() []Primitive {
	return []Primitive{{
		Shape:  Rect,
		X:      l.between(0, l.w),
		Y:      l.between(0, l.h),
		W:      l.between(100, 150),
		H:      l.between(100, 150),
		Stroke: rgba(255, 255, 255, l.between(0, 250)),
	}}
}

// blueOutlines draws one small blue rect somewhere on the surface.
func (l *Layer) blueOutlines() []Primitive {
	return []Primitive{{
		Shape:  Rect,
		X:      l.between(0, l.w),
		Y:      l.between(0, l.h),
		W:      l.between(10, 100),
		H:      l.between(10, 100),
		Stroke: blue,
	}}
}

// network keeps the last few rects and joins their centres.
func (l *Layer) network() []Primitive {
	if l.frame%networkEvery == 0 {
		l.rects = push(l.rects, box{
			x: l.between(0, l.w),
			y: l.between(0, l.h),
			w: l.between(50, 150),
			h: l.between(50, 150),
		}, MaxRects)
	}

	var out []Primitive
	for i, a := range l.rects {
		ax, ay := a.centre()
		for _, b := range l.rects[i+1:] {
			bx, by := b.centre()
			out = append(out, Primitive{Shape: Line, X: ax, Y: ay, X2: bx, Y2: by, Stroke: blue})
		}
	}
	for _, r := range l.rects {
		cx, cy := r.centre()
		out = append(out,
			Primitive{Shape: Rect, X: r.x, Y: r.y, W: r.w, H: r.h, Stroke: blue200},
			Primitive{Shape: Ellipse, X: cx, Y: cy, W: 10, H: 10, Fill: blue},
		)
	}
	return out
}

// terminal types out status lines and flickers random numbers.
func (l *Layer) terminal() []Primitive {
	if l.frame%textEvery == 0 {
		l.texts = push(l.texts, status{
			x:      l.between(50, l.w-50),
			y:      l.between(50, l.h-50),
			text:   statusLines[l.rng.Intn(len(statusLines))],
			size:   l.between(12, 28),
			born:   l.frame,
			jitter: jitter{intensity: l.between(0.5, 1.5)},
		}, MaxTexts)
	}
	if l.frame%numberEvery == 0 {
		var s string
		if l.chance(0.5) {
			s = strconv.Itoa(int(l.between(0, 10000)))
		} else {
			s = strconv.FormatFloat(l.between(0, 10000), 'f', 2, 64)
		}
		l.numbers = push(l.numbers, number{
			x:      l.between(30, l.w-30),
			y:      l.between(30, l.h-30),
			text:   s,
			size:   l.between(10, 20),
			born:   l.frame,
			jitter: jitter{intensity: l.between(0.5, 2)},
		}, MaxNumbers)
	}

	for i := range l.texts {
		t := &l.texts[i]
		t.shown = min((l.frame-t.born)*typeSpeed, len(t.text))
	}
	l.texts = retain(l.texts, l.texts[:0], l.statusAlive)
	l.numbers = retain(l.numbers, l.numbers[:0], func(nb number) bool { return l.frame-nb.born <= numberLife })

	var out []Primitive
	for i := len(l.texts) - 1; i >= 0; i-- {
		t := &l.texts[i]
		t.step(l, 0.3, 5, 3, 0.8)

		x, y := t.x+t.dx, t.y+t.dy
		s := t.text[:t.shown]
		if l.chance(0.15) {
			out = append(out, split(s, x, y, t.size, 2, false)...)
		} else {
			out = append(out, Primitive{Shape: Text, X: x, Y: y, Text: s, Size: t.size, Fill: rgba(0, 0, 255, 180+l.between(-30, 30))})
			if l.chance(0.1) {
				out = append(out, Primitive{
					Shape: Text, X: x + l.between(-3, 3), Y: y + l.between(-2, 2),
					Text: s, Size: t.size, Fill: RGBA{255, 0, 255, 100},
				})
			}
		}
	}

	for i := len(l.numbers) - 1; i >= 0; i-- {
		nb := &l.numbers[i]
		nb.step(l, 0.4, 4, 4, 0.7)

		x, y := nb.x+nb.dx, nb.y+nb.dy
		if l.chance(0.2) {
			out = append(out, split(nb.text, x, y, nb.size, 1, false)...)
			out = append(out, Primitive{
				Shape: Ellipse, X: nb.x - nb.dx*1.5, Y: nb.y + nb.dy*1.5, W: 10, H: 10,
				Stroke: RGBA{255, 255, 255, 200},
			})
		} else {
			out = append(out, Primitive{Shape: Text, X: x, Y: y, Text: nb.text, Size: nb.size, Fill: rgba(0, 255, 255, 200+l.between(-40, 40))})
			if l.chance(0.15) {
				out = append(out, Primitive{
					Shape: Text, X: x + l.between(-2, 2), Y: y + l.between(-2, 2),
					Text: nb.text, Size: nb.size, Fill: RGBA{255, 255, 0, 120},
				})
			}
		}
	}
	return out
}

// statusAlive keeps a status line until it has lingered after typing out.
func (l *Layer) statusAlive(t status) bool {
	n := len(t.text)
	return t.shown < n || float64(l.frame-t.born) <= float64(n)/typeSpeed+textLinger
}

// pulse draws the audio ellipse and scatters short-lived glitch glyphs.
func (l *Layer) pulse(level float64) []Primitive {
	base := math.Min(l.w, l.h) * 0.2
	grow := 1 + level*2
	out := []Primitive{{
		Shape:  Ellipse,
		X:      l.w / 2,
		Y:      l.h / 2,
		W:      base * grow,
		H:      base * 1.2 * grow,
		Stroke: rgba(uint8(l.between(200, 255)), uint8(l.between(200, 255)), 255, 255),
	}}

	if l.frame%glitchEvery == 0 {
		i := l.rng.Intn(len(glitchAlphabet))
		l.glitches = push(l.glitches, glyph{
			x:      l.between(0, l.w),
			y:      l.between(0, l.h),
			char:   glitchAlphabet[i : i+1],
			size:   l.between(15, 35),
			born:   l.frame,
			life:   l.between(30, 90),
			jitter: jitter{intensity: l.between(0.5, 2)},
		}, MaxGlitches)
	}

	l.glitches = retain(l.glitches, l.glitches[:0], func(g glyph) bool { return float64(l.frame-g.born) <= g.life })
	for i := len(l.glitches) - 1; i >= 0; i-- {
		g := &l.glitches[i]
		g.step(l, 0.5, 3, 3, 0.8)

		x, y := g.x+g.dx, g.y+g.dy
		if l.chance(0.3) {
			out = append(out, split(g.char, x, y, g.size, 1, true)...)
		} else {
			out = append(out, Primitive{
				Shape: Text, X: x, Y: y, Text: g.char, Size: g.size, Centered: true,
				Fill: rgba(255, 255, 255, 150+l.between(-50, 50)),
			})
		}
	}
	return out
}

// gallery frames placeholder images whose rate, size and outline count
// follow the low-frequency level.
func (l *Layer) gallery(level float64) []Primitive {
	if level <= imageMinLevel {
		return nil
	}

	size := math.Min(l.w, l.h) * 0.25 * (0.6 + level*1.4)
	every := max(1, int(math.Floor(30/(level+0.1))))
	if l.frame%every == 0 {
		l.images = push(l.images, image{
			x:    l.between(50, l.w-50),
			y:    l.between(50, l.h-50),
			size: size * l.between(0.8, 1.2),
			born: l.frame,
			life: 120 + level*60,
		}, MaxImages)
	}
	l.images = retain(l.images, l.images[:0], func(im image) bool { return float64(l.frame-im.born) <= im.life })

	var out []Primitive
	outlines := int(math.Floor(level*4)) + 1
	for i := len(l.images) - 1; i >= 0; i-- {
		im := l.images[i]
		cur := im.size * (0.8 + level*0.4)
		for j := range outlines {
			s := cur + float64(j*3)
			out = append(out, Primitive{Shape: Rect, X: im.x - s/2, Y: im.y - s/2, W: s, H: s, Stroke: blue})
		}
		out = append(out, Primitive{Shape: Rect, X: im.x - cur/2, Y: im.y - cur/2, W: cur, H: cur, Fill: RGBA{0, 0, 255, 30}})
	}
	return out
}

// retain filters src into dst (which may alias src) keeping order.
func retain[T any](src, dst []T, keep func(T) bool) []T {
	for _, v := range src {
		if keep(v) {
			dst = append(dst, v)
		}
	}
	return dst
}
