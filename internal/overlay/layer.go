package overlay

import (
	"math/rand"

	"github.com/olivier-w/pigeonviz/internal/analysis"
	"github.com/olivier-w/pigeonviz/internal/modes"
)

// Caps bound every retained collection.
const (
	MaxRects    = 5
	MaxTexts    = 10
	MaxNumbers  = 15
	MaxGlitches = 20
	MaxImages   = 8
)

// Layer is the overlay draw state. It is driven by its own frame counter
// and by case transitions; until the first transition it draws nothing.
type Layer struct {
	rng   *rand.Rand
	w, h  float64
	frame int
	pen   modes.CaseID

	rects    []box
	texts    []status
	numbers  []number
	glitches []glyph
	images   []image
}

// New creates an idle layer.
func New(rng *rand.Rand) *Layer {
	return &Layer{rng: rng}
}

// Resize tracks the surface size in pixels.
func (l *Layer) Resize(w, h float64) {
	l.w, l.h = w, h
}

// Size returns the surface size in pixels.
func (l *Layer) Size() (w, h float64) { return l.w, l.h }

// Case returns the case being drawn, or 0 while idle.
func (l *Layer) Case() modes.CaseID { return l.pen }

// OnTransition switches the drawing case. Entering 3 to 6 starts that
// case's collections empty.
func (l *Layer) OnTransition(_, to modes.CaseID) {
	l.pen = to
	switch to {
	case 3:
		l.rects = l.rects[:0]
	case 4:
		l.texts = l.texts[:0]
		l.numbers = l.numbers[:0]
	case 5:
		l.glitches = l.glitches[:0]
	case 6:
		l.images = l.images[:0]
	}
}

// Counts reports the size of every retained collection.
type Counts struct {
	Rects, Texts, Numbers, Glitches, Images int
}

func (l *Layer) Counts() Counts {
	return Counts{
		Rects:    len(l.rects),
		Texts:    len(l.texts),
		Numbers:  len(l.numbers),
		Glitches: len(l.glitches),
		Images:   len(l.images),
	}
}

// Frame advances the frame counter and returns this frame's primitives.
func (l *Layer) Frame(snap analysis.Snapshot) []Primitive {
	l.frame++
	var out []Primitive
	switch l.pen {
	case 1:
		out = l.outlines()
	case 2:
		out = l.blueOutlines()
	case 3:
		out = l.network()
	case 4:
		out = l.terminal()
	case 5:
		out = l.pulse(snap.Level)
	case 6:
		out = l.gallery(snap.Level)
	}
	return out
}

// push appends v and drops the oldest entries beyond limit.
func push[T any](s []T, v T, limit int) []T {
	s = append(s, v)
	if over := len(s) - limit; over > 0 {
		s = append(s[:0], s[over:]...)
	}
	return s
}

func (l *Layer) between(lo, hi float64) float64 { return lo + l.rng.Float64()*(hi-lo) }

// chance reports true with probability p.
func (l *Layer) chance(p float64) bool { return l.rng.Float64() > 1-p }

// jitter is the glitch offset shared by every animated text item.
type jitter struct {
	dx, dy    float64
	intensity float64
}

// step re-rolls the offset with probability p within ±rx, ±ry, and
// otherwise decays it by decay.
func (j *jitter) step(l *Layer, p, rx, ry, decay float64) {
	if l.chance(p) {
		j.dx = l.between(-rx, rx) * j.intensity
		j.dy = l.between(-ry, ry) * j.intensity
		return
	}
	j.dx *= decay
	j.dy *= decay
}

// split draws s three times in red, blue and green around x.
func split(s string, x, y, size, spread float64, centered bool) []Primitive {
	return []Primitive{
		{Shape: Text, X: x - spread, Y: y, Text: s, Size: size, Fill: red200, Centered: centered},
		{Shape: Text, X: x + spread, Y: y, Text: s, Size: size, Fill: blue200, Centered: centered},
		{Shape: Text, X: x, Y: y, Text: s, Size: size, Fill: green, Centered: centered},
	}
}
