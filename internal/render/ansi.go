package render

import (
	"fmt"
	"math"
	"os"
	"strings"
	"sync"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Profile is the color capability of the terminal.
type Profile uint8

const (
	NoColor Profile = iota
	ANSI16
	ANSI256
	TrueColor
)

func (p Profile) String() string {
	switch p {
	case ANSI16:
		return "ansi16"
	case ANSI256:
		return "ansi256"
	case TrueColor:
		return "truecolor"
	default:
		return "none"
	}
}

var (
	profileOnce sync.Once
	detected    Profile
	seqCache    sync.Map
)

// DetectProfile inspects NO_COLOR, COLORTERM and TERM once per process.
func DetectProfile() Profile {
	profileOnce.Do(func() {
		detected = profileFromEnv(os.LookupEnv)
	})
	return detected
}

func profileFromEnv(lookup func(string) (string, bool)) Profile {
	if _, disabled := lookup("NO_COLOR"); disabled {
		return NoColor
	}
	term, _ := lookup("TERM")
	colorTerm, _ := lookup("COLORTERM")
	term = strings.ToLower(term)
	colorTerm = strings.ToLower(colorTerm)
	switch {
	case strings.Contains(colorTerm, "truecolor"), strings.Contains(colorTerm, "24bit"):
		return TrueColor
	case strings.Contains(term, "256color"):
		return ANSI256
	case term == "", term == "dumb":
		return NoColor
	default:
		return ANSI16
	}
}

type rgb struct{ R, G, B uint8 }

func toRGB(c colorful.Color) rgb {
	r, g, b := c.Clamped().RGB255()
	return rgb{R: r, G: g, B: b}
}

func (c rgb) key() uint32 { return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B) }

// ansiState suppresses repeated color sequences within a frame.
type ansiState struct {
	profile Profile
	fg, bg  uint32
	bold    bool
}

const unset = ^uint32(0)

func newANSIState(p Profile) ansiState {
	return ansiState{profile: p, fg: unset, bg: unset}
}

func (s *ansiState) set(sb *strings.Builder, fg, bg rgb, bold bool) {
	if s.profile == NoColor {
		return
	}
	if bold != s.bold {
		if bold {
			sb.WriteString("\x1b[1m")
		} else {
			sb.WriteString("\x1b[22m")
		}
		s.bold = bold
	}
	if k := bg.key(); k != s.bg {
		sb.WriteString(sequence(s.profile, bg, true))
		s.bg = k
	}
	if k := fg.key(); k != s.fg {
		sb.WriteString(sequence(s.profile, fg, false))
		s.fg = k
	}
}

func (s *ansiState) reset(sb *strings.Builder) {
	if s.profile == NoColor || (s.fg == unset && s.bg == unset && !s.bold) {
		return
	}
	sb.WriteString("\x1b[0m")
	s.fg, s.bg, s.bold = unset, unset, false
}

var ansi16Palette = []rgb{
	{R: 0, G: 0, B: 0},
	{R: 205, G: 49, B: 49},
	{R: 13, G: 188, B: 121},
	{R: 229, G: 229, B: 16},
	{R: 36, G: 114, B: 200},
	{R: 188, G: 63, B: 188},
	{R: 17, G: 168, B: 205},
	{R: 229, G: 229, B: 229},
}

func sequence(p Profile, c rgb, background bool) string {
	key := uint64(p)<<25 | uint64(c.key())
	if background {
		key |= 1 << 24
	}
	if seq, ok := seqCache.Load(key); ok {
		return seq.(string)
	}

	var seq string
	switch p {
	case TrueColor:
		layer := 38
		if background {
			layer = 48
		}
		seq = fmt.Sprintf("\x1b[%d;2;%d;%d;%dm", layer, c.R, c.G, c.B)
	case ANSI256:
		layer := 38
		if background {
			layer = 48
		}
		r := int(c.R) * 5 / 255
		g := int(c.G) * 5 / 255
		b := int(c.B) * 5 / 255
		seq = fmt.Sprintf("\x1b[%d;5;%dm", layer, 16+36*r+6*g+b)
	case ANSI16:
		best := 0
		bestDist := math.MaxFloat64
		for i, q := range ansi16Palette {
			dr := float64(c.R) - float64(q.R)
			dg := float64(c.G) - float64(q.G)
			db := float64(c.B) - float64(q.B)
			if d := dr*dr + dg*dg + db*db; d < bestDist {
				bestDist = d
				best = i
			}
		}
		base := 30
		if background {
			base = 40
		}
		seq = fmt.Sprintf("\x1b[%dm", base+best)
	}

	seqCache.Store(key, seq)
	return seq
}
