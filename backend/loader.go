package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

type mapFile struct {
	Length    int              `yaml:"length"`
	Width     int              `yaml:"width"`
	Player    []int            `yaml:"player"`
	Obstacles [][]int          `yaml:"obstacles"`
	Targets   [][]int          `yaml:"targets"`
	Boxes     map[string][]int `yaml:"boxes"`
}

// ParseBoard decodes a YAML map description into a validated board.
func ParseBoard(data []byte) (*Board, error) {
	var raw mapFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode map: %w", err)
	}
	player, err := parsePosition(raw.Player, "player")
	if err != nil {
		return nil, err
	}
	obstacles, err := parsePositions(raw.Obstacles, "obstacle")
	if err != nil {
		return nil, err
	}
	targets, err := parsePositions(raw.Targets, "target")
	if err != nil {
		return nil, err
	}
	if len(raw.Boxes) == 0 {
		return nil, fmt.Errorf("map has no boxes")
	}
	boxes := make(map[string]Position, len(raw.Boxes))
	for name, pair := range raw.Boxes {
		pos, err := parsePosition(pair, fmt.Sprintf("box %q", name))
		if err != nil {
			return nil, err
		}
		boxes[name] = pos
	}
	return NewBoard(raw.Length, raw.Width, player, boxes, targets, obstacles)
}

func LoadBoard(path string) (*Board, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read map %s: %w", path, err)
	}
	board, err := ParseBoard(data)
	if err != nil {
		return nil, fmt.Errorf("map %s: %w", path, err)
	}
	return board, nil
}

// ListMaps returns the YAML map names (without extension) under dir,
// sorted for stable listings.
func ListMaps(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := []string{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
			names = append(names, strings.TrimSuffix(strings.TrimSuffix(name, ".yaml"), ".yml"))
		}
	}
	sort.Strings(names)
	return names, nil
}

// FindMap resolves a map name to its file path inside dir.
func FindMap(dir, name string) (string, error) {
	for _, ext := range []string{".yaml", ".yml"} {
		path := filepath.Join(dir, name+ext)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("map %q not found in %s", name, dir)
}

func parsePosition(pair []int, what string) (Position, error) {
	if len(pair) != 2 {
		return Position{}, fmt.Errorf("%s: expected [x, y], got %v", what, pair)
	}
	return Position{X: pair[0], Y: pair[1]}, nil
}

func parsePositions(pairs [][]int, what string) ([]Position, error) {
	out := make([]Position, 0, len(pairs))
	for i, pair := range pairs {
		pos, err := parsePosition(pair, fmt.Sprintf("%s %d", what, i))
		if err != nil {
			return nil, err
		}
		out = append(out, pos)
	}
	return out, nil
}
