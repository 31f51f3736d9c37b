package asset

import (
	"errors"
	"strings"
	"testing"

	"github.com/olivier-w/pigeonviz/internal/scene"
)

func TestLoadBundledPigeon(t *testing.T) {
	tpl, err := Load(Bundled(), PigeonPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if got := len(tpl.Shape.Frames); got != 4 {
		t.Fatalf("expected 4 yaw frames, got %d", got)
	}
	if tpl.Material.Color != scene.Hex(0x9aa0b4) {
		t.Fatalf("unexpected pigeon color %v", tpl.Material.Color)
	}
}

func TestLoadBundledWalkCycle(t *testing.T) {
	tpl, err := Load(Bundled(), WalkPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if got := len(tpl.Shape.Frames); got != 2 {
		t.Fatalf("expected 2 walk frames, got %d", got)
	}
}

func TestParseKeepsLeadingSpaces(t *testing.T) {
	src := "color ffffff\nframe\n  ab\n c\n\n"
	tpl, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	frame := tpl.Shape.Frames[0]
	if len(frame) != 2 || frame[0] != "  ab" || frame[1] != " c" {
		t.Fatalf("unexpected frame rows %q", frame)
	}
}

func TestParseRejectsEmptyModel(t *testing.T) {
	_, err := Parse(strings.NewReader("# nothing\ncolor 000000\n"))
	if !errors.Is(err, ErrEmptyModel) {
		t.Fatalf("expected ErrEmptyModel, got %v", err)
	}
}

func TestParseRejectsBadColor(t *testing.T) {
	if _, err := Parse(strings.NewReader("color zzzzzz\nframe\nx\n")); err == nil {
		t.Fatal("expected error for invalid color")
	}
}

func TestCloneCopiesMaterial(t *testing.T) {
	tpl := &Template{Shape: &scene.Shape{Frames: [][]string{{"x"}}}, Material: scene.Standard(scene.White)}
	a := tpl.Clone()
	b := tpl.Clone()
	a.Material.Color = scene.Black
	if b.Material.Color != scene.White {
		t.Fatal("expected clones to own independent materials")
	}
	if a.Shape != b.Shape {
		t.Fatal("expected clones to share the template shape")
	}
}
