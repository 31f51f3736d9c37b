package modes

import (
	"math"
	"testing"

	"github.com/olivier-w/pigeonviz/internal/analysis"
	"github.com/olivier-w/pigeonviz/internal/scene"
)

func TestVolumeSilenceKeepsWhite(t *testing.T) {
	m := newTestMachine(t, 0)
	main := m.Scene().First(scene.Main)
	main.Scale = scene.Uniform(1.2)
	m.Scene().ClearColor = scene.Black

	m.Frame(Tick{Audio: analysis.Snapshot{Valid: true}})
	if m.Scene().ClearColor != scene.White {
		t.Fatalf("expected white background, got %v", m.Scene().ClearColor)
	}
	if main.Scale != scene.Uniform(1) {
		t.Fatalf("expected unit scale, got %+v", main.Scale)
	}
}

func TestVolumeFullScale(t *testing.T) {
	m := newTestMachine(t, 0)
	m.Frame(Tick{Audio: analysis.Snapshot{Valid: true, AverageVolume: 255}})

	bg := m.Scene().ClearColor
	if !near(bg.R, 0.15) || !near(bg.G, 0.15) || !near(bg.B, 0.15) {
		t.Fatalf("expected brightness 0.15, got %v", bg)
	}
	if s := m.Scene().First(scene.Main).Scale; !near(s.X, 1.3) || !near(s.Y, 1.3) {
		t.Fatalf("expected scale 1.3, got %+v", s)
	}
}

func TestBassStretchesInstances(t *testing.T) {
	m := newTestMachine(t, 4)
	m.Switch(2)
	for _, bass := range []float64{0, 0.25, 1} {
		m.Frame(Tick{Audio: analysis.Snapshot{Bands: analysis.Bands{Bass: bass}}})
		for _, p := range m.Scene().Entities(scene.Instances) {
			if !near(p.Scale.Y, 0.5+1.5*bass) {
				t.Fatalf("bass %v: expected y scale %v, got %v", bass, 0.5+1.5*bass, p.Scale.Y)
			}
			if p.Scale.Y < 0.5 || p.Scale.Y > 2 {
				t.Fatalf("y scale %v out of range", p.Scale.Y)
			}
		}
	}
}

func TestGatherUsesAssignedBand(t *testing.T) {
	m := newTestMachine(t, 6)
	m.Switch(3)
	audio := analysis.Snapshot{Bands: analysis.Bands{Bass: 1, Treble: 0}}
	m.Frame(Tick{Audio: audio})
	for _, p := range m.Scene().Entities(scene.Instances) {
		want := 0.5
		if p.Pigeon.Band == scene.BandBass {
			want = 2
		}
		if !near(p.Scale.Y, want) {
			t.Fatalf("%s pigeon: expected %v, got %v", p.Pigeon.Band, want, p.Scale.Y)
		}
	}
}

func TestGatherEasesTowardTarget(t *testing.T) {
	m := newTestMachine(t, 5)
	m.Switch(3)
	for range 400 {
		m.Frame(Tick{})
	}
	for i, p := range m.Scene().Entities(scene.Instances) {
		target := Box.Target(i, 5)
		if p.Position.DistanceTo(target) > 1e-6 {
			t.Fatalf("pigeon %d: expected %+v, got %+v", i, target, p.Position)
		}
	}
}

func TestBoxFormationFivePigeons(t *testing.T) {
	seen := map[scene.Vec3]bool{}
	for i := range 5 {
		p := Box.Target(i, 5)
		for _, c := range []float64{p.X, p.Y, p.Z} {
			if !near(math.Abs(c), 2.5) {
				t.Fatalf("pigeon %d: coordinate %v is not a 2x2x2 grid corner", i, c)
			}
		}
		if seen[p] {
			t.Fatalf("pigeon %d shares a corner", i)
		}
		seen[p] = true
	}
}

func TestFormationDegenerateCounts(t *testing.T) {
	for _, f := range []Formation{Sphere, Box, Torus} {
		p := f.Target(0, 1)
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsNaN(p.Z) {
			t.Fatalf("%s: NaN target for a single pigeon", f)
		}
	}
	if p := Box.Target(0, 1); p != (scene.Vec3{}) {
		t.Fatalf("expected single box pigeon at origin, got %+v", p)
	}
	if p := Sphere.Target(0, 1); !near(p.Y, 3) {
		t.Fatalf("expected single sphere pigeon at the pole, got %+v", p)
	}
}

func TestTorusTargetsOnTube(t *testing.T) {
	for i := range 8 {
		p := Torus.Target(i, 8)
		ring := math.Hypot(p.X, p.Z) - torusMajor
		if !near(math.Hypot(ring, p.Y), torusMinor) {
			t.Fatalf("pigeon %d off the tube: %+v", i, p)
		}
	}
}

func TestKaleidoscopeRingAndGlow(t *testing.T) {
	m := newTestMachine(t, 2)
	m.Switch(4)
	if n := m.Scene().Len(scene.Ring); n != ringCount {
		t.Fatalf("expected %d ring pigeons, got %d", ringCount, n)
	}

	loud := analysis.Snapshot{Bands: analysis.Bands{Bass: 1, Mid: 1, Treble: 1}}
	m.Frame(Tick{Audio: loud})
	for _, p := range m.Scene().Entities(scene.Instances) {
		if !p.Pigeon.Lit || p.Material.Color != scene.White || p.Material.EmissiveIntensity != 1 {
			t.Fatalf("expected glowing pigeon, got %+v", p.Material)
		}
	}
	for _, r := range m.Scene().Entities(scene.Ring) {
		if !near(r.Scale.X, 3) {
			t.Fatalf("expected ring scale 3 at full intensity, got %v", r.Scale.X)
		}
	}

	m.Frame(Tick{})
	for _, p := range m.Scene().Entities(scene.Instances) {
		if p.Pigeon.Lit || p.Material != p.Pigeon.Original {
			t.Fatalf("expected original material restored, got %+v", p.Material)
		}
	}
}

func TestKaleidoscopeExitRestoresMaterial(t *testing.T) {
	m := newTestMachine(t, 1)
	m.Switch(4)
	m.Frame(Tick{Audio: analysis.Snapshot{Bands: analysis.Bands{Bass: 1, Mid: 1, Treble: 1}}})
	m.Switch(1)
	p := m.Scene().First(scene.Instances)
	if p.Pigeon.Lit || p.Material != p.Pigeon.Original {
		t.Fatal("expected glow cleared on exit")
	}
}

func TestSunriseSilentFrame(t *testing.T) {
	m := newTestMachine(t, 0)
	m.Switch(5)
	m.Frame(Tick{Audio: analysis.Snapshot{Valid: true}})

	sun := m.Sun()
	if sun == nil {
		t.Fatal("expected sun while case 5 is active")
	}
	if sun.Material.EmissiveIntensity != 1 {
		t.Fatalf("expected sun emissive 1.0, got %v", sun.Material.EmissiveIntensity)
	}
	if n := m.Scene().Len(scene.Bloom); n != bloomShells {
		t.Fatalf("expected %d bloom shells, got %d", bloomShells, n)
	}
	m.Switch(1)
	if m.Sun() != nil || !sun.Released() {
		t.Fatal("expected sun released after leaving case 5")
	}
}

func TestSunriseStarfieldWraps(t *testing.T) {
	m := newTestMachine(t, 2)
	m.Switch(5)
	p := m.Scene().Entities(scene.Instances)[1]
	p.Position.Z = m.Scene().Camera.Position.Z + 5

	m.Frame(Tick{})
	if p.Position.Z != p.Pigeon.ResetZ || p.Pigeon.ResetZ != -22 {
		t.Fatalf("expected reset to -22, got %v", p.Position.Z)
	}
	if math.Abs(p.Position.X) > 5 || math.Abs(p.Position.Y) > 5 {
		t.Fatalf("expected re-rolled position in [-5, 5), got %+v", p.Position)
	}
	if p.Rotation.X != p.Pigeon.TiltX {
		t.Fatalf("expected tilt applied")
	}
	if p.Scale.X < 0.1 || p.Scale.X > 1 {
		t.Fatalf("scale %v out of range", p.Scale.X)
	}
}

func TestSunriseProtectsMainPigeon(t *testing.T) {
	m := newTestMachine(t, 0)
	m.Switch(5)
	main := m.Scene().First(scene.Main)
	main.Material.Emissive = scene.Yellow
	m.Frame(Tick{})
	if main.Material != m.Env().MainOriginal {
		t.Fatalf("expected main pigeon material restored, got %+v", main.Material)
	}
}

func TestBackdropReactsToLevel(t *testing.T) {
	m := newTestMachine(t, 0)
	m.Switch(6)

	m.Frame(Tick{Audio: analysis.Snapshot{Valid: true}})
	if m.Scene().ClearColor != skyIdle {
		t.Fatalf("expected idle sky, got %v", m.Scene().ClearColor)
	}
	if !near(m.Scene().Directional.Intensity, 0.8) || !near(m.Scene().Ambient.Intensity, 0.4) {
		t.Fatal("expected base light levels")
	}

	spectrum := make([]byte, 1024)
	for i := range spectrum {
		spectrum[i] = 255
	}
	m.Frame(Tick{Audio: analysis.Snapshot{Valid: true, Level: 1, Spectrum: spectrum}})
	if !near(m.Scene().Directional.Intensity, 1.4) || !near(m.Scene().Ambient.Intensity, 0.8) {
		t.Fatal("expected lights raised by level")
	}
	want := scene.Lerp(scene.Lerp(skyNight, skyDusk, 0.5), skyDay, 0.3)
	if m.Scene().ClearColor != want {
		t.Fatalf("expected %v, got %v", want, m.Scene().ClearColor)
	}
	for _, g := range m.Scene().Entities(scene.Geometries) {
		if !near(g.Scale.X, 2) || !near(g.Rotation.X, 0.02) {
			t.Fatalf("expected full spectrum scale, got %+v", g.Scale)
		}
	}
}

func TestBackdropLightsWithoutAudio(t *testing.T) {
	m := newTestMachine(t, 0)
	m.Switch(6)
	if !near(m.Scene().Ambient.Intensity, 0.6) {
		t.Fatalf("expected reset ambient before the first frame, got %v", m.Scene().Ambient.Intensity)
	}

	m.Frame(Tick{})
	if !near(m.Scene().Ambient.Intensity, 0.4) || !near(m.Scene().Directional.Intensity, 0.8) {
		t.Fatalf("expected silent light levels 0.4/0.8, got %v/%v",
			m.Scene().Ambient.Intensity, m.Scene().Directional.Intensity)
	}
}

func TestBackdropDecalsInsideViewport(t *testing.T) {
	m := newTestMachine(t, 0)
	m.Switch(6)
	for _, d := range m.Scene().Entities(scene.Decals) {
		if d.Position.X < 0 || d.Position.X > 800-decalWidth || d.Position.Y < 0 || d.Position.Y > 480-decalWidth {
			t.Fatalf("decal outside viewport: %+v", d.Position)
		}
		if d.Material.Opacity < 0.7 || d.Material.Opacity > 1 || math.Abs(d.Rotation.Z) > 180 {
			t.Fatalf("decal parameters out of range: %+v", d)
		}
	}
}
