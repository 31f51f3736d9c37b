package modes

import (
	"math"

	"github.com/olivier-w/pigeonviz/internal/scene"
)

var ringPalette = []scene.Color{
	scene.Hex(0xff6b6b),
	scene.Hex(0x4ecdc4),
	scene.Hex(0x45b7d1),
	scene.Hex(0xf9ca24),
	scene.Hex(0x6c5ce7),
	scene.Hex(0xa29bfe),
}

const (
	ringCount  = 12
	ringRadius = 8.0
	ringDepth  = -15.0
	ringScale  = 2.0
	ringSpin   = 0.01
)

// Kaleidoscope is case 4: a ring of colored pigeons circles behind the
// scene over a drifting blue gradient while instance pigeons bob and
// flash white when the music gets loud.
type Kaleidoscope struct{}

func (Kaleidoscope) Enter(env *Env) {
	if env.Pigeon == nil {
		return
	}
	for i := range ringCount {
		p := env.Pigeon.Clone()
		c := ringPalette[i%len(ringPalette)]
		p.Material.Color = c
		p.Material.Emissive = c
		p.Material.EmissiveIntensity = 0.3

		angle := float64(i) / ringCount * 2 * math.Pi
		p.Position = scene.V(math.Cos(angle)*ringRadius, math.Sin(angle)*ringRadius, ringDepth)
		p.Rotation.Z = angle + math.Pi
		p.Scale = scene.Uniform(ringScale)
		env.Scene.Add(scene.Ring, p)
	}
}

// Exit puts glowing instances back into their own material.
func (Kaleidoscope) Exit(env *Env) {
	for _, p := range env.Instances() {
		if p.Pigeon.Lit {
			p.Material = p.Pigeon.Original
			p.Pigeon.Lit = false
		}
	}
}

func (Kaleidoscope) Frame(env *Env, t Tick) {
	env.Scene.ClearColor = scene.Mul(env.gradient.advance(0.01), darken)

	intensity := t.Audio.Bands.Mean()
	ring := env.Scene.Entities(scene.Ring)
	for i, p := range ring {
		p.Rotation.Y += ringSpin + intensity*0.05
		if i%2 == 0 {
			p.Rotation.X += ringSpin * 0.5
		} else {
			p.Rotation.X -= ringSpin * 0.5
		}
		if i%3 == 0 {
			p.Rotation.Z += ringSpin * 0.3
		} else {
			p.Rotation.Z -= ringSpin * 0.3
		}

		radius := ringRadius + intensity*3
		angle := float64(i)/float64(len(ring))*2*math.Pi + p.Rotation.Y*(0.5+intensity*2)
		p.Position.X = math.Cos(angle) * radius
		p.Position.Y = math.Sin(angle) * radius
		p.Position.Z = ringDepth + math.Sin(p.Rotation.Y*2)*2
		p.Scale = scene.Uniform(ringScale * (1 + intensity*0.5))
	}

	for _, p := range env.Instances() {
		st := p.Pigeon
		st.BobOffset += st.BobSpeed
		bob := math.Sin(st.BobOffset+st.BobPhase) * st.BobAmplitude
		p.Position.Y = st.BaseY + bob*(1+intensity*0.5)

		switch {
		case intensity > st.Threshold && !st.Lit:
			lit := st.Original
			lit.Color = scene.White
			lit.Emissive = scene.White
			lit.EmissiveIntensity = 1
			p.Material = lit
			st.Lit = true
		case intensity <= st.Threshold && st.Lit:
			p.Material = st.Original
			st.Lit = false
		}
	}
}
