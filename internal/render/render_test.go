package render

import (
	"math"
	"strings"
	"testing"

	"github.com/olivier-w/pigeonviz/internal/overlay"
	"github.com/olivier-w/pigeonviz/internal/scene"
)

func env(vars map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := vars[k]
		return v, ok
	}
}

func TestProfileFromEnv(t *testing.T) {
	cases := []struct {
		vars map[string]string
		want Profile
	}{
		{map[string]string{"NO_COLOR": "", "COLORTERM": "truecolor"}, NoColor},
		{map[string]string{"COLORTERM": "24bit", "TERM": "xterm"}, TrueColor},
		{map[string]string{"TERM": "xterm-256color"}, ANSI256},
		{map[string]string{"TERM": "dumb"}, NoColor},
		{map[string]string{"TERM": "vt100"}, ANSI16},
	}
	for _, c := range cases {
		if got := profileFromEnv(env(c.vars)); got != c.want {
			t.Fatalf("%v: expected %s, got %s", c.vars, c.want, got)
		}
	}
}

func TestSequencesPerProfile(t *testing.T) {
	red := rgb{R: 255}
	if got := sequence(TrueColor, red, true); got != "\x1b[48;2;255;0;0m" {
		t.Fatalf("unexpected truecolor background %q", got)
	}
	if got := sequence(ANSI256, red, false); got != "\x1b[38;5;196m" {
		t.Fatalf("unexpected 256-color foreground %q", got)
	}
	if got := sequence(ANSI16, red, true); got != "\x1b[41m" {
		t.Fatalf("unexpected 16-color background %q", got)
	}
}

func TestStringShapeWithoutColor(t *testing.T) {
	fb := NewFramebuffer(4, 3)
	fb.Fill(func(int) scene.Color { return scene.White })
	fb.Put(1, 1, 'x', scene.Black, 1)

	out := fb.String(NoColor)
	want := "    \n x  \n    "
	if out != want {
		t.Fatalf("expected %q, got %q", want, out)
	}
}

func TestStringSuppressesRepeatedSequences(t *testing.T) {
	fb := NewFramebuffer(10, 1)
	fb.Fill(func(int) scene.Color { return scene.White })
	out := fb.String(TrueColor)
	if n := strings.Count(out, "\x1b[48;2;255;255;255m"); n != 1 {
		t.Fatalf("expected one background sequence per row, got %d", n)
	}
	if !strings.HasSuffix(out, "\x1b[0m") {
		t.Fatal("expected row to end with a reset")
	}
}

func TestRenderClearColorAndEnvironment(t *testing.T) {
	sc := scene.New()
	r := New(20, 10, NoColor)
	r.Compose(sc, nil)
	if bg := r.Framebuffer().At(5, 5).BG; bg != scene.White {
		t.Fatalf("expected white background, got %v", bg)
	}

	sc.ClearColor = scene.Black
	sc.Environment = &scene.Environment{Zenith: scene.Hex(0x0000ff), Horizon: scene.Hex(0xff0000)}
	r.Compose(sc, nil)
	top := r.Framebuffer().At(0, 0).BG
	bottom := r.Framebuffer().At(0, 9).BG
	if top.B <= top.R || bottom.R <= bottom.B {
		t.Fatalf("expected vertical sky gradient, got top %v bottom %v", top, bottom)
	}
}

func TestRenderProjectsSphere(t *testing.T) {
	sc := scene.New()
	sc.ClearColor = scene.Black
	sc.Camera.Aspect = 0
	sc.Add(scene.Sun, &scene.Entity{
		Kind:     scene.KindSphere,
		Position: scene.V(0, 0, -5),
		Size:     1,
		Material: scene.Basic(scene.Yellow),
	})
	r := New(40, 20, NoColor)
	r.Compose(sc, nil)

	centre := r.Framebuffer().At(20, 10).BG
	if centre != scene.Yellow {
		t.Fatalf("expected yellow sphere at centre, got %v", centre)
	}
	if corner := r.Framebuffer().At(0, 0).BG; corner != scene.Black {
		t.Fatalf("expected background in corner, got %v", corner)
	}
}

func TestRenderPigeonSprite(t *testing.T) {
	sc := scene.New()
	sc.Camera.Aspect = 0
	sc.Add(scene.Main, &scene.Entity{
		Kind:     scene.KindPigeon,
		Position: scene.V(0, 0, -3),
		Shape:    &scene.Shape{Frames: [][]string{{"<o>"}}},
		Material: scene.Basic(scene.Black),
	})
	r := New(60, 20, NoColor)
	out := r.Render(sc, nil)
	if !strings.ContainsAny(out, "<o>") {
		t.Fatalf("expected sprite glyphs in frame:\n%s", out)
	}
}

func TestOverlayLineUsesBraille(t *testing.T) {
	fb := NewFramebuffer(10, 4)
	fb.Fill(func(int) scene.Color { return scene.Black })
	drawOverlay(fb, []overlay.Primitive{{
		Shape:  overlay.Line,
		X:      0,
		Y:      8,
		X2:     79,
		Y2:     8,
		Stroke: overlay.RGBA{R: 0, G: 0, B: 255, A: 255},
	}})
	for x := range 10 {
		ch, fg := fb.At(x, 0).glyph()
		if ch < 0x2800 || ch > 0x28ff {
			t.Fatalf("cell %d: expected braille glyph, got %q", x, ch)
		}
		if fg.B != 1 {
			t.Fatalf("cell %d: expected blue stroke, got %v", x, fg)
		}
	}
	if ch, _ := fb.At(0, 1).glyph(); ch != ' ' {
		t.Fatalf("expected untouched second row, got %q", ch)
	}
}

func TestOverlayTextPlacement(t *testing.T) {
	fb := NewFramebuffer(20, 4)
	fb.Fill(func(int) scene.Color { return scene.Black })
	drawOverlay(fb, []overlay.Primitive{
		{Shape: overlay.Text, X: 16, Y: 20, Text: "hi", Size: 30, Fill: overlay.RGBA{R: 255, G: 255, B: 255, A: 255}},
		{Shape: overlay.Text, X: 80, Y: 40, Text: "abc", Size: 12, Centered: true, Fill: overlay.RGBA{R: 255, A: 255}},
	})
	if c := fb.At(2, 1); c.Ch != 'h' || !c.Bold {
		t.Fatalf("expected bold h at 2,1, got %q bold=%v", c.Ch, c.Bold)
	}
	if c := fb.At(8, 2); c.Ch != 'a' || c.Bold {
		t.Fatalf("expected centred text to start at column 8, got %q", c.Ch)
	}
}

func TestOverlayFillBlendsBackground(t *testing.T) {
	fb := NewFramebuffer(4, 2)
	fb.Fill(func(int) scene.Color { return scene.Black })
	drawOverlay(fb, []overlay.Primitive{{
		Shape: overlay.Rect, X: 0, Y: 0, W: 32, H: 32,
		Fill: overlay.RGBA{R: 255, G: 255, B: 255, A: 51},
	}})
	bg := fb.At(1, 1).BG
	if math.Abs(bg.R-0.2) > 1e-9 {
		t.Fatalf("expected 20%% white tint, got %v", bg)
	}
}

func TestDecalMirrorsWhenTurned(t *testing.T) {
	fb := NewFramebuffer(10, 2)
	fb.Fill(func(int) scene.Color { return scene.White })
	d := &scene.Entity{
		Kind:     scene.KindDecal,
		Size:     16,
		Shape:    &scene.Shape{Frames: [][]string{{"(>"}}},
		Material: scene.Material{Color: scene.Black, Opacity: 1},
		Rotation: scene.V(0, 0, 170),
	}
	drawDecal(fb, d, 0)
	if fb.At(0, 0).Ch != '<' || fb.At(1, 0).Ch != ')' {
		t.Fatalf("expected mirrored sprite, got %q%q", fb.At(0, 0).Ch, fb.At(1, 0).Ch)
	}
}

func TestSpotFactorCone(t *testing.T) {
	spot := &scene.Entity{
		Kind:     scene.KindSpotLight,
		Position: scene.V(0, 0, -20),
		Light:    &scene.LightProps{Intensity: 3, Distance: 50, Angle: math.Pi / 6, Penumbra: 0.5, Target: scene.V(0, 0, 5)},
	}
	if f := spotFactor(spot, scene.V(0, 0, -10)); f <= 0 {
		t.Fatalf("expected light on axis, got %v", f)
	}
	if f := spotFactor(spot, scene.V(20, 0, -19)); f != 0 {
		t.Fatalf("expected no light outside cone, got %v", f)
	}
	if f := spotFactor(spot, scene.V(0, 0, 40)); f != 0 {
		t.Fatalf("expected no light out of range, got %v", f)
	}
}

func TestResizeKeepsCanvasInPixels(t *testing.T) {
	r := New(0, 0, NoColor)
	if r.Aspect() != 1 {
		t.Fatalf("expected unit aspect before resize, got %v", r.Aspect())
	}
	r.Resize(80, 24)
	w, h := r.PixelSize()
	if w != 640 || h != 384 {
		t.Fatalf("expected 640x384, got %vx%v", w, h)
	}
}
