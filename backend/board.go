package main

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var ErrIllegalMove = errors.New("illegal move")

type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// StateKey is a canonical identity over the mutable parts of a board
// (player position plus box multiset). Two boards of the same puzzle
// compare equal iff their keys compare equal.
type StateKey string

// Board is one configuration of a puzzle: the fixed obstacle and target
// sets plus the mutable box collection and player position. Obstacles,
// targets and box names never change after construction and are shared
// between clones; everything mutable is deep-copied by Clone.
type Board struct {
	Length         int
	Width          int
	Player         Position
	Boxes          map[string]Position
	Targets        map[Position]struct{}
	Obstacles      map[Position]struct{}
	ExploredStates int

	targetList []Position
	boxNames   []string
}

func NewBoard(length, width int, player Position, boxes map[string]Position, targets, obstacles []Position) (*Board, error) {
	if length <= 0 || width <= 0 {
		return nil, fmt.Errorf("invalid grid %dx%d", length, width)
	}
	b := &Board{
		Length:    length,
		Width:     width,
		Player:    player,
		Boxes:     make(map[string]Position, len(boxes)),
		Targets:   make(map[Position]struct{}, len(targets)),
		Obstacles: make(map[Position]struct{}, len(obstacles)),
	}
	for _, pos := range obstacles {
		if !b.InBounds(pos) {
			return nil, fmt.Errorf("obstacle %v out of bounds", pos)
		}
		b.Obstacles[pos] = struct{}{}
	}
	for _, pos := range targets {
		if !b.InBounds(pos) {
			return nil, fmt.Errorf("target %v out of bounds", pos)
		}
		if _, ok := b.Obstacles[pos]; ok {
			return nil, fmt.Errorf("target %v overlaps an obstacle", pos)
		}
		b.Targets[pos] = struct{}{}
	}
	for name, pos := range boxes {
		if !b.InBounds(pos) {
			return nil, fmt.Errorf("box %q at %v out of bounds", name, pos)
		}
		if _, ok := b.Obstacles[pos]; ok {
			return nil, fmt.Errorf("box %q at %v overlaps an obstacle", name, pos)
		}
		b.Boxes[name] = pos
	}
	if len(b.Boxes) > len(b.Targets) {
		return nil, fmt.Errorf("%d boxes but only %d targets", len(b.Boxes), len(b.Targets))
	}
	if !b.InBounds(player) {
		return nil, fmt.Errorf("player %v out of bounds", player)
	}
	if _, ok := b.Obstacles[player]; ok {
		return nil, fmt.Errorf("player %v overlaps an obstacle", player)
	}
	if _, occupied := b.boxAt(player); occupied {
		return nil, fmt.Errorf("player %v overlaps a box", player)
	}
	b.targetList = make([]Position, 0, len(b.Targets))
	for pos := range b.Targets {
		b.targetList = append(b.targetList, pos)
	}
	sortPositions(b.targetList)
	b.boxNames = make([]string, 0, len(b.Boxes))
	for name := range b.Boxes {
		b.boxNames = append(b.boxNames, name)
	}
	sort.Strings(b.boxNames)
	return b, nil
}

func (b *Board) InBounds(pos Position) bool {
	return pos.X >= 0 && pos.X < b.Length && pos.Y >= 0 && pos.Y < b.Width
}

func (b *Board) IsObstacle(pos Position) bool {
	_, ok := b.Obstacles[pos]
	return ok
}

func (b *Board) IsTarget(pos Position) bool {
	_, ok := b.Targets[pos]
	return ok
}

// TargetList returns the targets in a fixed sorted order. Heuristics
// iterate this instead of the Targets map so tie-breaking is deterministic.
func (b *Board) TargetList() []Position {
	return b.targetList
}

// BoxNames returns the box names in a fixed sorted order.
func (b *Board) BoxNames() []string {
	return b.boxNames
}

func (b *Board) boxAt(pos Position) (string, bool) {
	for name, boxPos := range b.Boxes {
		if boxPos == pos {
			return name, true
		}
	}
	return "", false
}

// Clone returns an independent deep copy. The fixed obstacle/target sets
// and the name index are shared: they never mutate for the lifetime of a
// puzzle, and sharing them keeps per-node copies cheap during search.
func (b *Board) Clone() *Board {
	clone := &Board{
		Length:         b.Length,
		Width:          b.Width,
		Player:         b.Player,
		Boxes:          make(map[string]Position, len(b.Boxes)),
		Targets:        b.Targets,
		Obstacles:      b.Obstacles,
		ExploredStates: b.ExploredStates,
		targetList:     b.targetList,
		boxNames:       b.boxNames,
	}
	for name, pos := range b.Boxes {
		clone.Boxes[name] = pos
	}
	return clone
}

// CanMove reports whether the move is currently legal without applying it.
func (b *Board) CanMove(move Move) bool {
	dx, dy := move.Delta()
	dest := Position{X: b.Player.X + dx, Y: b.Player.Y + dy}
	if !b.InBounds(dest) || b.IsObstacle(dest) {
		return false
	}
	if _, occupied := b.boxAt(dest); !occupied {
		return true
	}
	beyond := Position{X: dest.X + dx, Y: dest.Y + dy}
	if !b.InBounds(beyond) || b.IsObstacle(beyond) {
		return false
	}
	_, blocked := b.boxAt(beyond)
	return !blocked
}

// ApplyMove mutates the board in place: either the player steps into a
// free cell, or pushes the adjacent box one cell further. Illegal moves
// leave the board untouched and return an ErrIllegalMove-wrapped error.
func (b *Board) ApplyMove(move Move) error {
	if !move.IsValid() {
		return fmt.Errorf("%w: %v", ErrIllegalMove, move)
	}
	dx, dy := move.Delta()
	dest := Position{X: b.Player.X + dx, Y: b.Player.Y + dy}
	if !b.InBounds(dest) || b.IsObstacle(dest) {
		return fmt.Errorf("%w: player blocked moving %s", ErrIllegalMove, move)
	}
	if name, occupied := b.boxAt(dest); occupied {
		beyond := Position{X: dest.X + dx, Y: dest.Y + dy}
		if !b.InBounds(beyond) || b.IsObstacle(beyond) {
			return fmt.Errorf("%w: box %q push blocked moving %s", ErrIllegalMove, name, move)
		}
		if other, blocked := b.boxAt(beyond); blocked {
			return fmt.Errorf("%w: box %q push into box %q moving %s", ErrIllegalMove, name, other, move)
		}
		b.Boxes[name] = beyond
	}
	b.Player = dest
	return nil
}

// PossibleMoves returns every currently legal move in the fixed
// Up, Down, Left, Right order.
func (b *Board) PossibleMoves() []Move {
	moves := make([]Move, 0, len(allMoves))
	for _, move := range allMoves {
		if b.CanMove(move) {
			moves = append(moves, move)
		}
	}
	return moves
}

func (b *Board) IsSolved() bool {
	for _, pos := range b.Boxes {
		if !b.IsTarget(pos) {
			return false
		}
	}
	return true
}

// Key builds the canonical identity used for visited sets and parent maps.
// The encoding is injective over (player, sorted box positions), so key
// equality is structural state equality; the fixed sets are omitted since
// they never differ between states of one puzzle.
func (b *Board) Key() StateKey {
	positions := make([]Position, 0, len(b.Boxes))
	for _, pos := range b.Boxes {
		positions = append(positions, pos)
	}
	sortPositions(positions)
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d,%d", b.Player.X, b.Player.Y)
	for _, pos := range positions {
		fmt.Fprintf(&sb, "|%d,%d", pos.X, pos.Y)
	}
	return StateKey(sb.String())
}

func sortPositions(positions []Position) {
	sort.Slice(positions, func(i, j int) bool {
		if positions[i].X != positions[j].X {
			return positions[i].X < positions[j].X
		}
		return positions[i].Y < positions[j].Y
	})
}
