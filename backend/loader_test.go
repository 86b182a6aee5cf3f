package main

import (
	"os"
	"path/filepath"
	"testing"
)

const testMapYAML = `length: 4
width: 3
player: [0, 1]
obstacles:
  - [3, 0]
targets:
  - [2, 1]
boxes:
  b1: [1, 1]
`

func TestParseBoardValidMap(t *testing.T) {
	board, err := ParseBoard([]byte(testMapYAML))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if board.Length != 4 || board.Width != 3 {
		t.Fatalf("unexpected grid %dx%d", board.Length, board.Width)
	}
	if board.Player != (Position{X: 0, Y: 1}) {
		t.Fatalf("unexpected player %v", board.Player)
	}
	if board.Boxes["b1"] != (Position{X: 1, Y: 1}) {
		t.Fatalf("unexpected box position %v", board.Boxes["b1"])
	}
	if !board.IsTarget(Position{X: 2, Y: 1}) {
		t.Fatalf("target missing")
	}
	if !board.IsObstacle(Position{X: 3, Y: 0}) {
		t.Fatalf("obstacle missing")
	}
}

func TestParseBoardRejectsMapWithoutBoxes(t *testing.T) {
	data := []byte("length: 3\nwidth: 3\nplayer: [0, 0]\ntargets:\n  - [1, 1]\n")
	if _, err := ParseBoard(data); err == nil {
		t.Fatalf("expected error for a map without boxes")
	}
}

func TestParseBoardRejectsMalformedPosition(t *testing.T) {
	data := []byte("length: 3\nwidth: 3\nplayer: [0]\nboxes:\n  b1: [1, 1]\ntargets:\n  - [2, 2]\n")
	if _, err := ParseBoard(data); err == nil {
		t.Fatalf("expected error for a one element position")
	}
}

func TestParseBoardRejectsInvalidYAML(t *testing.T) {
	if _, err := ParseBoard([]byte("{not yaml")); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestListMapsAndFindMap(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, filepath.Join(dir, "beta.yaml"), testMapYAML)
	writeTestFile(t, filepath.Join(dir, "alpha.yml"), testMapYAML)
	writeTestFile(t, filepath.Join(dir, "notes.txt"), "ignored")

	names, err := ListMaps(dir)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(names) != 2 || names[0] != "alpha" || names[1] != "beta" {
		t.Fatalf("expected sorted yaml names, got %v", names)
	}

	for _, name := range names {
		path, err := FindMap(dir, name)
		if err != nil {
			t.Fatalf("find %q: %v", name, err)
		}
		if _, err := LoadBoard(path); err != nil {
			t.Fatalf("load %q: %v", name, err)
		}
	}
	if _, err := FindMap(dir, "missing"); err == nil {
		t.Fatalf("expected error for an unknown map name")
	}
}

func TestLoadBoardMissingFile(t *testing.T) {
	if _, err := LoadBoard(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for a missing file")
	}
}

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
