package modes

import "github.com/olivier-w/pigeonviz/internal/scene"

const (
	backdropPrimitives = 10
	backdropDecals     = 8
	decalWidth         = 150.0
)

var (
	skyNight = scene.Hex(0x000033)
	skyDusk  = scene.Hex(0x003366)
	skyDay   = scene.Hex(0x0066cc)
	skyIdle  = scene.Hex(0x001122)
	stone    = scene.Hex(0x888888)
)

// Backdrop is case 6: a procedural sky that brightens with the low end,
// floating primitives sized by the spectrum and walking pigeons stuck to
// the screen.
type Backdrop struct{ idle }

func (Backdrop) Enter(env *Env) {
	env.Scene.Environment = &scene.Environment{Zenith: skyNight, Horizon: skyDusk}

	for range backdropPrimitives {
		e := &scene.Entity{Kind: scene.KindSphere, Size: 0.2, Material: scene.Basic(stone)}
		if env.Rand.Float64() <= 0.5 {
			e.Kind = scene.KindBox
			e.Size = 0.3
		}
		e.Position = scene.V(
			(env.Rand.Float64()-0.5)*20,
			(env.Rand.Float64()-0.5)*20,
			(env.Rand.Float64()-0.5)*20-5,
		)
		env.Scene.Add(scene.Geometries, e)
	}

	spanX := max(0, env.ViewW-decalWidth)
	spanY := max(0, env.ViewH-decalWidth)
	for range backdropDecals {
		d := &scene.Entity{Kind: scene.KindDecal, Size: decalWidth, Material: scene.Basic(scene.White)}
		if env.Walk != nil {
			d.Shape = env.Walk.Shape
			d.Material = env.Walk.Material
			d.Material.Unlit = true
		}
		d.Position = scene.V(env.Rand.Float64()*spanX, env.Rand.Float64()*spanY, 0)
		d.Rotation.Z = (env.Rand.Float64() - 0.5) * 360
		d.Material.Opacity = 0.7 + env.Rand.Float64()*0.3
		d.Material.Transparent = true
		env.Scene.Add(scene.Decals, d)
	}
}

func (Backdrop) Frame(env *Env, t Tick) {
	level := t.Audio.Level
	if level > 0 {
		bg := scene.Lerp(skyNight, skyDusk, level*0.5)
		env.Scene.ClearColor = scene.Lerp(bg, skyDay, level*0.3)
	} else {
		env.Scene.ClearColor = skyIdle
	}

	env.Scene.Directional.Intensity = 0.8 + level*0.6
	env.Scene.Ambient.Intensity = 0.4 + level*0.4

	spectrum := t.Audio.Spectrum
	if len(spectrum) == 0 {
		return
	}
	for i, g := range env.Scene.Entities(scene.Geometries) {
		v := float64(spectrum[i%len(spectrum)]) / 255
		g.Scale = scene.Uniform(0.5 + v*1.5)
		g.Rotation.X += v * 0.02
		g.Rotation.Y += v * 0.02
	}
}
