package modes

import (
	"log"
	"math"
	"math/rand"

	"github.com/olivier-w/pigeonviz/internal/asset"
	"github.com/olivier-w/pigeonviz/internal/scene"
)

const (
	defaultRotation = 0.01
	rotationStep    = 0.1
	dollyStep       = 0.01
	minCameraZ      = 0.1
	spawnSpread     = 10.0
)

// Observer is told about every case transition after the new case has
// been entered.
type Observer interface {
	OnTransition(from, to CaseID)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(from, to CaseID)

func (f ObserverFunc) OnTransition(from, to CaseID) { f(from, to) }

// Machine owns the active case and every command that acts on the scene.
type Machine struct {
	env    Env
	modes  [MaxCase + 1]Mode
	active CaseID

	gather  *Gather
	sunrise *Sunrise

	rotation  float64
	observers []Observer
}

// NewMachine creates a machine in case 1 over sc. Case 1 has no entry
// work, so the machine starts without a transition.
func NewMachine(sc *scene.Scene, rng *rand.Rand) *Machine {
	m := &Machine{
		env:      Env{Scene: sc, Rand: rng},
		active:   MinCase,
		gather:   &Gather{},
		sunrise:  &Sunrise{},
		rotation: defaultRotation,
	}
	m.modes = [MaxCase + 1]Mode{
		1: Volume{},
		2: Bass{},
		3: m.gather,
		4: Kaleidoscope{},
		5: m.sunrise,
		6: Backdrop{},
	}
	return m
}

// Subscribe registers o for transition notifications.
func (m *Machine) Subscribe(o Observer) { m.observers = append(m.observers, o) }

func (m *Machine) Active() CaseID         { return m.active }
func (m *Machine) Formation() Formation   { return m.gather.Formation() }
func (m *Machine) RotationSpeed() float64 { return m.rotation }
func (m *Machine) Scene() *scene.Scene    { return m.env.Scene }
func (m *Machine) Env() *Env              { return &m.env }
func (m *Machine) Sun() *scene.Entity     { return m.sunrise.Sun() }
func (m *Machine) Loaded() bool           { return m.env.Pigeon != nil }

// SetWalk installs the walk-cycle sprite used by case 6 decals.
func (m *Machine) SetWalk(t *asset.Template) { m.env.Walk = t }

// SetViewport records the overlay surface size used by screen decals.
func (m *Machine) SetViewport(w, h float64) {
	m.env.ViewW, m.env.ViewH = w, h
}

// SetTemplate installs the loaded pigeon model and creates the main
// pigeon if there is none yet.
func (m *Machine) SetTemplate(t *asset.Template) {
	m.env.Pigeon = t
	if t == nil || m.env.Main() != nil {
		return
	}
	main := t.Clone()
	m.env.MainOriginal = main.Material
	m.env.Scene.Add(scene.Main, main)
}

// Switch tears down the active case and enters id. Out-of-range ids are
// ignored and reported as false. Switching to the active case runs the
// full cycle again.
func (m *Machine) Switch(id CaseID) bool {
	if !id.Valid() {
		return false
	}
	from := m.active

	m.modes[from].Exit(&m.env)
	released := 0
	for _, c := range scene.Transient {
		released += m.env.Scene.Release(c)
	}
	m.env.Scene.ResetShared()

	m.active = id
	m.modes[id].Enter(&m.env)
	log.Printf("case %d -> %d (released %d entities)", from, id, released)

	for _, o := range m.observers {
		o.OnTransition(from, id)
	}
	return true
}

// Frame spins the main pigeon and runs the active case.
func (m *Machine) Frame(t Tick) {
	if main := m.env.Main(); main != nil {
		main.Rotation.Y += m.rotation
		main.Rotation.Z += m.rotation
	}
	m.modes[m.active].Frame(&m.env, t)
}

// SpawnPigeon adds an instance pigeon at a random position. It does
// nothing until the model is loaded.
func (m *Machine) SpawnPigeon() bool {
	if m.env.Pigeon == nil {
		return false
	}
	p := m.env.Pigeon.Clone()
	p.Position = scene.V(
		(m.env.Rand.Float64()-0.5)*spawnSpread,
		(m.env.Rand.Float64()-0.5)*spawnSpread,
		(m.env.Rand.Float64()-0.5)*spawnSpread,
	)
	index := m.env.Scene.Len(scene.Instances)
	p.Pigeon = scene.NewPigeonState(m.env.Rand, index, p.Position, p.Material)
	m.env.Scene.Add(scene.Instances, p)
	log.Printf("pigeon added, total %d", m.env.Scene.Len(scene.Instances))
	return true
}

// RemovePigeon drops the most recently spawned instance pigeon.
func (m *Machine) RemovePigeon() bool {
	if m.env.Scene.Pop(scene.Instances) == nil {
		return false
	}
	log.Printf("pigeon removed, remaining %d", m.env.Scene.Len(scene.Instances))
	return true
}

// AdjustRotation changes the main pigeon's spin by delta, never below
// zero, and returns the new speed.
func (m *Machine) AdjustRotation(delta float64) float64 {
	m.rotation = math.Max(0, m.rotation+delta)
	log.Printf("rotation speed %.2f", m.rotation)
	return m.rotation
}

// SpeedUp and SlowDown step the rotation speed.
func (m *Machine) SpeedUp() float64  { return m.AdjustRotation(rotationStep) }
func (m *Machine) SlowDown() float64 { return m.AdjustRotation(-rotationStep) }

// DollyCamera moves the camera toward the scene and returns its new z.
func (m *Machine) DollyCamera() float64 {
	cam := &m.env.Scene.Camera
	cam.Position.Z = math.Max(minCameraZ, cam.Position.Z-dollyStep)
	log.Printf("camera z %.2f", cam.Position.Z)
	return cam.Position.Z
}
