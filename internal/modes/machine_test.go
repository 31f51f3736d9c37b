package modes

import (
	"math"
	"math/rand"
	"testing"

	"github.com/olivier-w/pigeonviz/internal/analysis"
	"github.com/olivier-w/pigeonviz/internal/asset"
	"github.com/olivier-w/pigeonviz/internal/scene"
)

func testTemplate() *asset.Template {
	return &asset.Template{
		Shape:    &scene.Shape{Frames: [][]string{{"<o)"}}},
		Material: scene.Standard(scene.Hex(0x9aa0b4)),
	}
}

func newTestMachine(t *testing.T, pigeons int) *Machine {
	t.Helper()
	m := NewMachine(scene.New(), rand.New(rand.NewSource(7)))
	m.SetTemplate(testTemplate())
	m.SetViewport(800, 480)
	for range pigeons {
		if !m.SpawnPigeon() {
			t.Fatal("expected spawn to succeed once the template is loaded")
		}
	}
	return m
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

// entered is how many transient entities each case creates on entry.
var entered = map[CaseID]int{1: 0, 2: 0, 3: 0, 4: 12, 5: 7, 6: 18}

func TestSwitchIgnoresOutOfRange(t *testing.T) {
	m := newTestMachine(t, 0)
	var calls int
	m.Subscribe(ObserverFunc(func(CaseID, CaseID) { calls++ }))

	for _, id := range []CaseID{0, 7, -1} {
		if m.Switch(id) {
			t.Fatalf("expected case %d to be rejected", id)
		}
	}
	if m.Active() != 1 || calls != 0 {
		t.Fatalf("expected no transition, active=%d calls=%d", m.Active(), calls)
	}
}

func TestTeardownCompleteForEveryTransition(t *testing.T) {
	audio := analysis.Snapshot{Valid: true, Level: 0.5, Spectrum: []byte{128}}
	for from := MinCase; from <= MaxCase; from++ {
		for to := MinCase; to <= MaxCase; to++ {
			m := newTestMachine(t, 3)
			m.Switch(from)
			m.Frame(Tick{Audio: audio})

			var before []*scene.Entity
			for _, c := range scene.Transient {
				before = append(before, m.Scene().Entities(c)...)
			}

			m.Switch(to)

			for _, e := range before {
				if !e.Released() {
					t.Fatalf("%d->%d: %s entity %d not released", from, to, e.Kind, e.ID)
				}
			}
			if got, want := m.Scene().Live(), 1+3+entered[to]; got != want {
				t.Fatalf("%d->%d: expected %d live entities, got %d", from, to, want, got)
			}
			if m.Scene().Len(scene.Main) != 1 || m.Scene().Len(scene.Instances) != 3 {
				t.Fatalf("%d->%d: persistent pigeons lost", from, to)
			}
			sc := m.Scene()
			if sc.Ambient.Intensity != scene.DefaultAmbient || sc.Directional.Intensity != scene.DefaultDirectional {
				t.Fatalf("%d->%d: lights not reset", from, to)
			}
			if sc.ClearColor != scene.White {
				t.Fatalf("%d->%d: clear color not reset", from, to)
			}
			if (sc.Environment != nil) != (to == 6) {
				t.Fatalf("%d->%d: unexpected environment %v", from, to, sc.Environment)
			}
		}
	}
}

func TestFormationCyclesOnEveryEntry(t *testing.T) {
	m := newTestMachine(t, 2)
	if m.Formation() != Sphere {
		t.Fatalf("expected initial sphere, got %s", m.Formation())
	}
	want := []Formation{Box, Torus, Sphere, Box}
	for i, f := range want {
		if i == 2 {
			m.Switch(4)
		}
		m.Switch(3)
		if m.Formation() != f {
			t.Fatalf("entry %d: expected %s, got %s", i, f, m.Formation())
		}
	}
}

func TestObserversSeeTransitions(t *testing.T) {
	m := newTestMachine(t, 0)
	var got [][2]CaseID
	m.Subscribe(ObserverFunc(func(from, to CaseID) { got = append(got, [2]CaseID{from, to}) }))

	m.Switch(4)
	m.Switch(4)
	m.Switch(2)
	want := [][2]CaseID{{1, 4}, {4, 4}, {4, 2}}
	if len(got) != len(want) {
		t.Fatalf("expected %d notifications, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("notification %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestSpawnBeforeLoadIsNoop(t *testing.T) {
	m := NewMachine(scene.New(), rand.New(rand.NewSource(1)))
	if m.SpawnPigeon() {
		t.Fatal("expected spawn to be refused before the template loads")
	}
	m.Switch(4)
	if n := m.Scene().Len(scene.Ring); n != 0 {
		t.Fatalf("expected no ring without template, got %d", n)
	}
	if m.Scene().Live() != 0 {
		t.Fatalf("expected empty scene, got %d", m.Scene().Live())
	}
	m.Frame(Tick{})
}

func TestSpawnedPigeonState(t *testing.T) {
	m := newTestMachine(t, 3)
	for i, p := range m.Scene().Entities(scene.Instances) {
		st := p.Pigeon
		if st == nil {
			t.Fatalf("pigeon %d has no state", i)
		}
		if st.ResetZ != -20-2*float64(i) {
			t.Fatalf("pigeon %d: reset z %v", i, st.ResetZ)
		}
		if st.BaseY != p.Position.Y {
			t.Fatalf("pigeon %d: base y %v, position %v", i, st.BaseY, p.Position.Y)
		}
		if math.Abs(p.Position.X) > 5 || math.Abs(p.Position.Y) > 5 || math.Abs(p.Position.Z) > 5 {
			t.Fatalf("pigeon %d spawned outside the spawn cube: %+v", i, p.Position)
		}
	}
}

func TestRemovePigeon(t *testing.T) {
	m := newTestMachine(t, 2)
	last := m.Scene().Entities(scene.Instances)[1]
	if !m.RemovePigeon() || !last.Released() {
		t.Fatal("expected last pigeon to be removed and released")
	}
	m.RemovePigeon()
	if m.RemovePigeon() {
		t.Fatal("expected removal from empty set to fail")
	}
}

func TestMainPigeonSurvivesTransitions(t *testing.T) {
	m := newTestMachine(t, 0)
	main := m.Scene().First(scene.Main)
	frames := 0
	for id := MinCase; id <= MaxCase; id++ {
		m.Switch(id)
		m.Frame(Tick{})
		frames++
	}
	if m.Scene().First(scene.Main) != main || main.Released() {
		t.Fatal("main pigeon replaced or released")
	}
	if !near(main.Rotation.Y, float64(frames)*defaultRotation) || !near(main.Rotation.Z, main.Rotation.Y) {
		t.Fatalf("expected accumulated rotation, got %+v", main.Rotation)
	}
}

func TestSetTemplateKeepsSingleMain(t *testing.T) {
	m := newTestMachine(t, 0)
	m.SetTemplate(testTemplate())
	if n := m.Scene().Len(scene.Main); n != 1 {
		t.Fatalf("expected one main pigeon, got %d", n)
	}
}

func TestAdjustRotationClampsAtZero(t *testing.T) {
	m := newTestMachine(t, 0)
	if got := m.SpeedUp(); !near(got, 0.11) {
		t.Fatalf("expected 0.11, got %v", got)
	}
	m.SlowDown()
	if got := m.SlowDown(); got != 0 {
		t.Fatalf("expected clamp to 0, got %v", got)
	}
}

func TestDollyCameraStopsAtMinimum(t *testing.T) {
	m := newTestMachine(t, 0)
	if got := m.DollyCamera(); !near(got, 0.99) {
		t.Fatalf("expected 0.99, got %v", got)
	}
	for range 200 {
		m.DollyCamera()
	}
	if got := m.Scene().Camera.Position.Z; got != minCameraZ {
		t.Fatalf("expected camera clamped at %v, got %v", minCameraZ, got)
	}
}
