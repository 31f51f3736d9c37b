package modes

import (
	"math"

	"github.com/olivier-w/pigeonviz/internal/scene"
)

// Formation is the arrangement instance pigeons gather into in case 3.
type Formation int

const (
	Sphere Formation = iota
	Box
	Torus

	numFormations
)

func (f Formation) String() string {
	switch f {
	case Sphere:
		return "sphere"
	case Box:
		return "box"
	case Torus:
		return "torus"
	default:
		return "unknown"
	}
}

// Next returns the formation following f.
func (f Formation) Next() Formation { return (f + 1) % numFormations }

const (
	sphereRadius = 3.0
	boxHalf      = 2.5
	torusMajor   = 2.5
	torusMinor   = 1.0
)

// Target returns where the i-th of n pigeons sits in formation f.
func (f Formation) Target(i, n int) scene.Vec3 {
	if n <= 0 {
		return scene.Vec3{}
	}
	fi, fn := float64(i), float64(n)

	switch f {
	case Sphere:
		u := 0.0
		if n > 1 {
			u = fi / (fn - 1)
		}
		theta := u * 2 * math.Pi
		phi := fi / fn * math.Pi
		return scene.V(
			sphereRadius*math.Sin(phi)*math.Cos(theta),
			sphereRadius*math.Cos(phi),
			sphereRadius*math.Sin(phi)*math.Sin(theta),
		)

	case Box:
		side := int(math.Ceil(math.Cbrt(fn)))
		if side <= 1 {
			return scene.Vec3{}
		}
		coord := func(c int) float64 {
			return (float64(c)/float64(side-1) - 0.5) * boxHalf * 2
		}
		return scene.V(
			coord(i%side),
			coord(i/side%side),
			coord(i/(side*side)),
		)

	case Torus:
		a := fi / fn * 2 * math.Pi
		b := math.Mod(fi*3, 2*math.Pi)
		ring := torusMajor + torusMinor*math.Cos(b)
		return scene.V(ring*math.Cos(a), torusMinor*math.Sin(b), ring*math.Sin(a))
	}
	return scene.Vec3{}
}
