// Package modes implements the six visual cases of the installation and
// the state machine that switches between them.
package modes

import (
	"math/rand"

	"github.com/olivier-w/pigeonviz/internal/analysis"
	"github.com/olivier-w/pigeonviz/internal/asset"
	"github.com/olivier-w/pigeonviz/internal/scene"
)

// CaseID selects one of the six visual cases.
type CaseID int

const (
	MinCase CaseID = 1
	MaxCase CaseID = 6
)

// Valid reports whether c names one of the six cases.
func (c CaseID) Valid() bool { return c >= MinCase && c <= MaxCase }

// Tick is the per-frame input of a mode.
type Tick struct {
	Audio analysis.Snapshot
	// Millis is a wall clock in milliseconds driving pulse animations.
	Millis float64
}

// Mode is one visual case. Enter builds the case's entities right after
// the machine has torn down the previous case; Exit runs before that
// teardown; Frame runs once per rendered frame while the case is active.
type Mode interface {
	Enter(env *Env)
	Exit(env *Env)
	Frame(env *Env, t Tick)
}

// Env is the state shared by every mode.
type Env struct {
	Scene *scene.Scene
	Rand  *rand.Rand

	// Pigeon is nil until the model finishes loading.
	Pigeon *asset.Template
	Walk   *asset.Template

	// MainOriginal is the main pigeon's material as loaded.
	MainOriginal scene.Material

	// ViewW and ViewH are the overlay surface size in pixels, used to
	// place screen-space decals.
	ViewW, ViewH float64

	gradient gradient
}

// Instances returns the user-spawned pigeons.
func (e *Env) Instances() []*scene.Entity { return e.Scene.Entities(scene.Instances) }

// Main returns the main pigeon or nil before the model is loaded.
func (e *Env) Main() *scene.Entity { return e.Scene.First(scene.Main) }

func (e *Env) between(lo, hi float64) float64 { return lo + e.Rand.Float64()*(hi-lo) }

// idle is embedded by modes without entry or exit work.
type idle struct{}

func (idle) Enter(*Env) {}
func (idle) Exit(*Env)  {}
