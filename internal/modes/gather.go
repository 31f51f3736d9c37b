package modes

import (
	"log"

	"github.com/olivier-w/pigeonviz/internal/scene"
)

const gatherEase = 0.05

// Gather is case 3: instance pigeons drift into a formation and stretch
// with their assigned band. Each entry selects the next formation.
type Gather struct {
	formation Formation
}

// Formation returns the current arrangement.
func (g *Gather) Formation() Formation { return g.formation }

func (g *Gather) Enter(env *Env) {
	g.formation = g.formation.Next()
	log.Printf("formation: %s", g.formation)

	for _, p := range env.Instances() {
		p.Pigeon.RollBand(env.Rand)
	}
}

func (g *Gather) Exit(*Env) {}

func (g *Gather) Frame(env *Env, t Tick) {
	pigeons := env.Instances()
	for i, p := range pigeons {
		target := g.formation.Target(i, len(pigeons))
		p.Position = p.Position.Approach(target, gatherEase)

		level := t.Audio.Bands.Bass
		if p.Pigeon.Band == scene.BandTreble {
			level = t.Audio.Bands.Treble
		}
		p.Scale.Y = stretch(level)
	}
}
