package scene

import (
	"math"
	"math/rand"
)

// Kind identifies how an entity is drawn.
type Kind uint8

const (
	KindPigeon Kind = iota
	KindSphere
	KindBox
	KindSpotLight
	// KindDecal entities live in screen space: Position.X/Y are overlay
	// pixels and Rotation.Z is degrees.
	KindDecal
)

func (k Kind) String() string {
	switch k {
	case KindPigeon:
		return "pigeon"
	case KindSphere:
		return "sphere"
	case KindBox:
		return "box"
	case KindSpotLight:
		return "spotlight"
	case KindDecal:
		return "decal"
	default:
		return "unknown"
	}
}

// Side selects which faces of a surface are rendered.
type Side uint8

const (
	FrontSide Side = iota
	BackSide
	DoubleSide
)

// Material describes the surface of an entity. It is a value type, so
// assigning a material clones it.
type Material struct {
	Color             Color
	Emissive          Color
	EmissiveIntensity float64
	Opacity           float64
	Transparent       bool
	Side              Side
	// Unlit materials ignore scene lights.
	Unlit bool
}

// Standard returns an opaque lit material of the given color.
func Standard(c Color) Material {
	return Material{Color: c, Emissive: Black, Opacity: 1}
}

// Basic returns an opaque unlit material of the given color.
func Basic(c Color) Material {
	return Material{Color: c, Emissive: Black, Opacity: 1, Unlit: true}
}

// Shape is the drawable form of a pigeon: ASCII frames indexed by yaw.
type Shape struct {
	Frames [][]string
}

// Frame returns the frame best matching the given yaw in radians.
func (s *Shape) Frame(yaw float64) []string {
	if s == nil || len(s.Frames) == 0 {
		return nil
	}
	n := len(s.Frames)
	t := math.Mod(yaw, 2*math.Pi)
	if t < 0 {
		t += 2 * math.Pi
	}
	idx := int(t/(2*math.Pi)*float64(n)+0.5) % n
	return s.Frames[idx]
}

// LightProps is carried by spotlight entities.
type LightProps struct {
	Color     Color
	Intensity float64
	Distance  float64
	Angle     float64
	Penumbra  float64
	Target    Vec3
}

// Entity is any object placed in the scene.
type Entity struct {
	ID       int
	Kind     Kind
	Position Vec3
	Rotation Vec3
	Scale    Vec3
	// Size is the radius of spheres, the edge of boxes and the pixel width
	// of decals.
	Size     float64
	Material Material
	Shape    *Shape
	Light    *LightProps
	// Pigeon is set for every pigeon instance from creation.
	Pigeon *PigeonState

	released bool
}

// Released reports whether the entity's resources have been freed.
func (e *Entity) Released() bool { return e.released }

// Band is the part of the spectrum an instance pigeon reacts to.
type Band uint8

const (
	BandBass Band = iota
	BandTreble
)

func (b Band) String() string {
	if b == BandTreble {
		return "treble"
	}
	return "bass"
}

// PigeonState is the per-instance record carried by spawned pigeons.
// Every field is assigned when the pigeon is created; modes only read or
// advance it.
type PigeonState struct {
	SpawnIndex int

	// Band is re-rolled each time the formation case is entered.
	Band Band

	BobOffset    float64
	BobSpeed     float64
	BobAmplitude float64
	BobPhase     float64
	BaseY        float64

	// Threshold is the combined audio level above which the pigeon glows.
	Threshold float64
	Lit       bool

	ResetZ float64
	TiltX  float64

	Original Material
}

// NewPigeonState rolls the random parameters for a pigeon spawned as the
// index-th instance at position pos wearing material m.
func NewPigeonState(rng *rand.Rand, index int, pos Vec3, m Material) *PigeonState {
	st := &PigeonState{
		SpawnIndex:   index,
		BobSpeed:     0.02 + rng.Float64()*0.03,
		BobAmplitude: 1 + rng.Float64()*2,
		BobPhase:     rng.Float64() * math.Pi * 2,
		BaseY:        pos.Y,
		Threshold:    0.3 + rng.Float64()*0.4,
		ResetZ:       -20 - float64(index)*2,
		TiltX:        (rng.Float64() - 0.5) * math.Pi * 2,
		Original:     m,
	}
	st.RollBand(rng)
	return st
}

// RollBand assigns bass or treble with equal probability.
func (st *PigeonState) RollBand(rng *rand.Rand) {
	if rng.Float64() > 0.5 {
		st.Band = BandBass
	} else {
		st.Band = BandTreble
	}
}
