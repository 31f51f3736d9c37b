package modes

import (
	"math"

	"github.com/olivier-w/pigeonviz/internal/scene"
)

const (
	sunRadius   = 1.5
	sunDepth    = -20.0
	bloomShells = 5
	starSpeed   = 0.1
)

// sunCentre is where instance pigeons measure their distance to the sun's
// glow. It sits halfway to the sun sphere.
var sunCentre = scene.V(0, 0, -10)

// Sunrise is case 5: a pulsing sun with bloom shells behind the main
// pigeon while instance pigeons stream past the camera like stars.
type Sunrise struct {
	sun   *scene.Entity
	light *scene.Entity
}

func (s *Sunrise) Enter(env *Env) {
	sun := scene.Basic(scene.Yellow)
	sun.Emissive = scene.Yellow
	sun.EmissiveIntensity = 2
	s.sun = env.Scene.Add(scene.Sun, &scene.Entity{
		Kind:     scene.KindSphere,
		Position: scene.V(0, 0, sunDepth),
		Size:     sunRadius,
		Material: sun,
	})

	for i := range bloomShells {
		m := scene.Basic(scene.Yellow)
		m.Emissive = scene.Yellow
		m.EmissiveIntensity = 0.3 - float64(i)*0.05
		m.Transparent = true
		m.Opacity = 0.4 - float64(i)*0.07
		m.Side = scene.BackSide
		env.Scene.Add(scene.Bloom, &scene.Entity{
			Kind:     scene.KindSphere,
			Position: scene.V(0, 0, sunDepth),
			Size:     sunRadius + float64(i)*0.8,
			Material: m,
		})
	}

	s.light = env.Scene.Add(scene.Sun, &scene.Entity{
		Kind:     scene.KindSpotLight,
		Position: scene.V(0, 0, sunDepth),
		Light: &scene.LightProps{
			Color:     scene.White,
			Intensity: 3,
			Distance:  50,
			Angle:     math.Pi / 6,
			Penumbra:  0.5,
			Target:    scene.V(0, 0, 5),
		},
	})
}

// Exit drops the sun tint from instance pigeons.
func (s *Sunrise) Exit(env *Env) {
	for _, p := range env.Instances() {
		p.Material = p.Pigeon.Original
		p.Pigeon.Lit = false
	}
	s.sun, s.light = nil, nil
}

// Sun returns the sun sphere while the case is active.
func (s *Sunrise) Sun() *scene.Entity { return s.sun }

func (s *Sunrise) Frame(env *Env, t Tick) {
	intensity := t.Audio.Bands.Mean()

	bg := env.gradient.advance(0.03)
	if intensity > 0 {
		bg = scene.Mul(bg, 0.2+intensity*0.3)
	}
	env.Scene.ClearColor = scene.Mul(bg, darken)

	if s.sun != nil && s.light != nil {
		brightness := 1 + intensity*2
		s.sun.Material.EmissiveIntensity = brightness
		s.light.Light.Intensity = brightness
		s.sun.Scale = scene.Uniform(1 + math.Sin(t.Millis*0.005)*0.1)

		for i, shell := range env.Scene.Entities(scene.Bloom) {
			fi := float64(i)
			pulse := 1 + math.Sin(t.Millis*0.003+fi)*0.1
			shell.Scale = scene.Uniform((1 + fi*0.8) * (1 + intensity*0.5) * pulse)
			shell.Material.Opacity = (0.4 - fi*0.07) * (0.7 + intensity*0.3)
			shell.Material.EmissiveIntensity = (0.3 - fi*0.05) * (1 + intensity)
		}
	}

	camZ := env.Scene.Camera.Position.Z
	for _, p := range env.Instances() {
		st := p.Pigeon
		p.Rotation.X = st.TiltX
		p.Position.Z += starSpeed
		if p.Position.Z > camZ+5 {
			p.Position.Z = st.ResetZ
			p.Position.X = (env.Rand.Float64() - 0.5) * 10
			p.Position.Y = (env.Rand.Float64() - 0.5) * 10
			st.TiltX = (env.Rand.Float64() - 0.5) * math.Pi * 2
		}
		p.Scale = scene.Uniform(math.Max(0.1, 1-math.Abs(p.Position.Z-camZ)/20))

		influence := math.Max(0, 1-p.Position.DistanceTo(sunCentre)/15)
		p.Material.EmissiveIntensity = st.Original.EmissiveIntensity + influence*0.5
		if influence > 0.3 {
			tint := scene.Mul(scene.Yellow, influence*0.3)
			p.Material.Emissive = scene.Lerp(p.Material.Emissive, tint, influence)
		}
	}

	if main := env.Main(); main != nil {
		main.Material = env.MainOriginal
	}
}
