package scene

import (
	"math"
	"slices"
)

// Collection names the owner of a set of entities. Every entity belongs to
// exactly one collection.
type Collection uint8

const (
	// Main holds the persistent main pigeon.
	Main Collection = iota
	// Instances holds user-spawned pigeons; they survive case transitions.
	Instances
	// Geometries holds case 6 background primitives.
	Geometries
	// Decals holds case 6 screen-space walking-pigeon images.
	Decals
	// Ring holds the case 4 background pigeon ring.
	Ring
	// Sun holds the case 5 sun sphere and its spotlight.
	Sun
	// Bloom holds the case 5 bloom shells.
	Bloom
	// Shapes holds flat canvas-backed planes.
	Shapes

	numCollections
)

// Transient lists the collections released on every case transition.
var Transient = []Collection{Geometries, Decals, Ring, Sun, Bloom, Shapes}

func (c Collection) String() string {
	switch c {
	case Main:
		return "main"
	case Instances:
		return "instances"
	case Geometries:
		return "geometries"
	case Decals:
		return "decals"
	case Ring:
		return "ring"
	case Sun:
		return "sun"
	case Bloom:
		return "bloom"
	case Shapes:
		return "shapes"
	default:
		return "unknown"
	}
}

// Light is a scene-wide light with a tunable intensity.
type Light struct {
	Color     Color
	Intensity float64
	Position  Vec3
}

// Environment is a procedural sky used as backdrop and reflection source.
type Environment struct {
	Zenith  Color
	Horizon Color
}

const (
	DefaultAmbient     = 0.6
	DefaultDirectional = 0.8
)

// Scene holds every visual entity plus shared lights and background.
// It is only mutated from the frame loop.
type Scene struct {
	Camera      Camera
	Ambient     Light
	Directional Light
	ClearColor  Color
	Environment *Environment

	sets     [numCollections][]*Entity
	nextID   int
	created  int
	released int
}

// New creates a scene with the startup lighting and a white background.
func New() *Scene {
	return &Scene{
		Camera:      NewCamera(),
		Ambient:     Light{Color: White, Intensity: 1},
		Directional: Light{Color: White, Intensity: 1, Position: V(5, 10, 5)},
		ClearColor:  White,
	}
}

// Add places e into collection c and returns it.
func (s *Scene) Add(c Collection, e *Entity) *Entity {
	s.nextID++
	e.ID = s.nextID
	e.released = false
	if e.Scale == (Vec3{}) {
		e.Scale = Uniform(1)
	}
	s.sets[c] = append(s.sets[c], e)
	s.created++
	return e
}

// Remove detaches e from c and releases it. It reports whether e was found.
func (s *Scene) Remove(c Collection, e *Entity) bool {
	i := slices.Index(s.sets[c], e)
	if i < 0 {
		return false
	}
	s.sets[c] = slices.Delete(s.sets[c], i, i+1)
	s.dispose(e)
	return true
}

// Pop removes and releases the most recently added entity of c.
func (s *Scene) Pop(c Collection) *Entity {
	n := len(s.sets[c])
	if n == 0 {
		return nil
	}
	e := s.sets[c][n-1]
	s.sets[c][n-1] = nil
	s.sets[c] = s.sets[c][:n-1]
	s.dispose(e)
	return e
}

// Release frees every entity of c and returns how many were freed.
func (s *Scene) Release(c Collection) int {
	n := len(s.sets[c])
	for i, e := range s.sets[c] {
		s.dispose(e)
		s.sets[c][i] = nil
	}
	s.sets[c] = s.sets[c][:0]
	return n
}

func (s *Scene) dispose(e *Entity) {
	if e.released {
		return
	}
	e.released = true
	s.released++
}

// Entities returns the live entities of c. Callers may mutate the entities
// but not the slice.
func (s *Scene) Entities(c Collection) []*Entity { return s.sets[c] }

// Len returns the number of live entities in c.
func (s *Scene) Len(c Collection) int { return len(s.sets[c]) }

// First returns the first entity of c or nil.
func (s *Scene) First(c Collection) *Entity {
	if len(s.sets[c]) == 0 {
		return nil
	}
	return s.sets[c][0]
}

// Live returns the number of entities added but not yet released.
func (s *Scene) Live() int { return s.created - s.released }

// ResetShared restores lights, background and environment to the defaults
// every case starts from.
func (s *Scene) ResetShared() {
	s.Ambient.Intensity = DefaultAmbient
	s.Directional.Intensity = DefaultDirectional
	s.ClearColor = White
	s.Environment = nil
}

// Each visits every live entity in collection order.
func (s *Scene) Each(fn func(c Collection, e *Entity)) {
	for c := range numCollections {
		for _, e := range s.sets[c] {
			fn(c, e)
		}
	}
}

// Camera is a perspective camera looking down -Z.
type Camera struct {
	Position Vec3
	FOV      float64 // vertical, degrees
	Aspect   float64
	Near     float64
	Far      float64
}

// NewCamera returns the installation's default camera.
func NewCamera() Camera {
	return Camera{Position: V(0, 0, 1), FOV: 75, Aspect: 1, Near: 0.1, Far: 1000}
}

// Projection is a point projected onto a width×height pixel surface.
type Projection struct {
	X, Y  float64
	Depth float64
	// PixelsPerUnit converts a world-space length at this depth to pixels.
	PixelsPerUnit float64
}

// Project maps p onto a surface of the given pixel size. ok is false when
// the point lies outside the near/far range.
func (c Camera) Project(p Vec3, width, height float64) (Projection, bool) {
	d := p.Sub(c.Position)
	depth := -d.Z
	if depth < c.Near || depth > c.Far || height <= 0 {
		return Projection{}, false
	}
	aspect := c.Aspect
	if aspect <= 0 {
		aspect = width / height
	}
	f := 1 / math.Tan(c.FOV*math.Pi/360)
	ndcX := f / aspect * d.X / depth
	ndcY := f * d.Y / depth
	return Projection{
		X:             (ndcX + 1) / 2 * width,
		Y:             (1 - ndcY) / 2 * height,
		Depth:         depth,
		PixelsPerUnit: f / depth * height / 2,
	}, true
}
