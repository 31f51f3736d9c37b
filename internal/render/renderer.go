package render

import (
	"github.com/olivier-w/pigeonviz/internal/overlay"
	"github.com/olivier-w/pigeonviz/internal/scene"
)

// Renderer composes the scene and the overlay into terminal frames.
type Renderer struct {
	fb      *Framebuffer
	profile Profile
	tick    int
}

// New creates a renderer for a cols×rows terminal area.
func New(cols, rows int, p Profile) *Renderer {
	return &Renderer{fb: NewFramebuffer(cols, rows), profile: p}
}

// Resize changes the terminal area.
func (r *Renderer) Resize(cols, rows int) { r.fb.Resize(cols, rows) }

// PixelSize returns the virtual canvas size the overlay should draw on.
func (r *Renderer) PixelSize() (float64, float64) { return r.fb.PixelSize() }

// Aspect returns the canvas width over height, or 1 before the first
// resize.
func (r *Renderer) Aspect() float64 {
	w, h := r.fb.PixelSize()
	if h == 0 {
		return 1
	}
	return w / h
}

// Framebuffer exposes the last composed frame.
func (r *Renderer) Framebuffer() *Framebuffer { return r.fb }

// Render draws one frame and returns it as ANSI text.
func (r *Renderer) Render(sc *scene.Scene, prims []overlay.Primitive) string {
	r.Compose(sc, prims)
	return r.fb.String(r.profile)
}

// Compose draws one frame into the framebuffer without serializing it.
func (r *Renderer) Compose(sc *scene.Scene, prims []overlay.Primitive) {
	r.tick++
	r.fb.Fill(background(sc, r.fb.H))
	drawScene(r.fb, sc, r.tick)
	drawOverlay(r.fb, prims)
}
