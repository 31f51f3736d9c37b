package modes

import "github.com/olivier-w/pigeonviz/internal/scene"

// Volume is case 1: overall loudness dims the background and grows the
// main pigeon.
type Volume struct{ idle }

func (Volume) Frame(env *Env, t Tick) {
	main := env.Main()
	if t.Audio.AverageVolume <= 0 {
		env.Scene.ClearColor = scene.White
		if main != nil {
			main.Scale = scene.Uniform(1)
		}
		return
	}

	v := t.Audio.AverageVolume / 255
	env.Scene.ClearColor = scene.Gray(v * 0.15)
	if main != nil {
		main.Scale = scene.Uniform(1 + v*0.3)
	}
}

// Bass is case 2: every instance pigeon stretches vertically with the bass.
type Bass struct{ idle }

func (Bass) Frame(env *Env, t Tick) {
	y := stretch(t.Audio.Bands.Bass)
	for _, p := range env.Instances() {
		p.Scale.Y = y
	}
}

// stretch maps a 0–1 band level onto a 0.5–2 vertical scale.
func stretch(level float64) float64 { return 0.5 + level*1.5 }
