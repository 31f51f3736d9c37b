// Package asset loads the pigeon model and walk-cycle sprites the
// installation is built from.
package asset

import (
	"bufio"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strconv"
	"strings"

	"github.com/olivier-w/pigeonviz/internal/scene"
)

//go:embed assets/*.model
var bundled embed.FS

// Bundled exposes the models compiled into the binary.
func Bundled() fs.FS {
	sub, err := fs.Sub(bundled, "assets")
	if err != nil {
		panic(err)
	}
	return sub
}

const (
	PigeonPath = "pigeon.model"
	WalkPath   = "pigeon-walk.model"
)

// ErrEmptyModel is returned for model files without any frame.
var ErrEmptyModel = errors.New("model has no frames")

// Template is a loaded model that can be instantiated any number of times.
type Template struct {
	Shape    *scene.Shape
	Material scene.Material
}

// Clone returns a new pigeon entity sharing the template's shape. The
// material is copied, so clones can be recolored independently.
func (t *Template) Clone() *scene.Entity {
	return &scene.Entity{
		Kind:     scene.KindPigeon,
		Shape:    t.Shape,
		Material: t.Material,
		Scale:    scene.Uniform(1),
	}
}

// Load reads and parses the model at path inside fsys.
func Load(fsys fs.FS, path string) (*Template, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening model: %w", err)
	}
	defer f.Close()

	t, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return t, nil
}

// Parse reads the line-based model format:
//
//	# comment
//	color RRGGBB
//	emissive RRGGBB
//	frame
//	<ascii rows until the next frame>
func Parse(r io.Reader) (*Template, error) {
	t := &Template{
		Shape:    &scene.Shape{},
		Material: scene.Standard(scene.White),
	}

	var current []string
	inFrame := false
	flush := func() {
		if inFrame {
			t.Shape.Frames = append(t.Shape.Frames, trimFrame(current))
		}
		current = nil
	}

	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), " \t\r")
		if !inFrame && (line == "" || strings.HasPrefix(line, "#")) {
			continue
		}
		if line == "frame" {
			flush()
			inFrame = true
			continue
		}
		if inFrame {
			current = append(current, line)
			continue
		}

		key, value, ok := strings.Cut(line, " ")
		if !ok {
			return nil, fmt.Errorf("line %d: expected key and value", lineNo)
		}
		c, err := parseHex(value)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		switch key {
		case "color":
			t.Material.Color = c
		case "emissive":
			t.Material.Emissive = c
		default:
			return nil, fmt.Errorf("line %d: unknown key %q", lineNo, key)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	flush()

	if len(t.Shape.Frames) == 0 {
		return nil, ErrEmptyModel
	}
	return t, nil
}

func parseHex(s string) (scene.Color, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil || len(s) != 6 {
		return scene.Color{}, fmt.Errorf("invalid color %q", s)
	}
	return scene.Hex(uint32(v)), nil
}

// trimFrame drops trailing blank rows.
func trimFrame(rows []string) []string {
	end := len(rows)
	for end > 0 && rows[end-1] == "" {
		end--
	}
	out := make([]string, end)
	copy(out, rows[:end])
	return out
}

// LoadPigeon loads the main pigeon model from fsys.
func LoadPigeon(fsys fs.FS) (*Template, error) { return Load(fsys, PigeonPath) }

// LoadWalk loads the walk-cycle sprite used for screen decals.
func LoadWalk(fsys fs.FS) (*Template, error) { return Load(fsys, WalkPath) }
