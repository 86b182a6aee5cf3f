package main

import (
	"errors"
	"testing"
)

func mustBoard(t *testing.T, length, width int, player Position, boxes map[string]Position, targets, obstacles []Position) *Board {
	t.Helper()
	board, err := NewBoard(length, width, player, boxes, targets, obstacles)
	if err != nil {
		t.Fatalf("failed to build board: %v", err)
	}
	return board
}

// corridor is a 4x3 open room with one box a single push from its target.
func corridorBoard(t *testing.T) *Board {
	t.Helper()
	return mustBoard(t, 4, 3,
		Position{X: 0, Y: 1},
		map[string]Position{"b1": {X: 1, Y: 1}},
		[]Position{{X: 2, Y: 1}},
		nil,
	)
}

func TestApplyMovePushesBoxOntoTarget(t *testing.T) {
	board := corridorBoard(t)
	if err := board.ApplyMove(MoveRight); err != nil {
		t.Fatalf("expected legal push, got %v", err)
	}
	if board.Player != (Position{X: 1, Y: 1}) {
		t.Fatalf("player should follow the push, got %v", board.Player)
	}
	if board.Boxes["b1"] != (Position{X: 2, Y: 1}) {
		t.Fatalf("box should land on the target, got %v", board.Boxes["b1"])
	}
	if !board.IsSolved() {
		t.Fatalf("board should be solved after the push")
	}
}

func TestApplyMoveIntoObstacleFailsAndLeavesBoardUntouched(t *testing.T) {
	board := mustBoard(t, 3, 3,
		Position{X: 1, Y: 1},
		map[string]Position{"b1": {X: 0, Y: 0}},
		[]Position{{X: 0, Y: 2}},
		[]Position{{X: 2, Y: 1}},
	)
	before := board.Key()
	err := board.ApplyMove(MoveRight)
	if err == nil {
		t.Fatalf("expected error moving into an obstacle")
	}
	if !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("expected ErrIllegalMove, got %v", err)
	}
	if board.Key() != before {
		t.Fatalf("illegal move must not mutate the board")
	}
}

func TestApplyMovePushBlockedByBoxBehindBox(t *testing.T) {
	board := mustBoard(t, 5, 3,
		Position{X: 0, Y: 1},
		map[string]Position{"a": {X: 1, Y: 1}, "b": {X: 2, Y: 1}},
		[]Position{{X: 3, Y: 1}, {X: 4, Y: 1}},
		nil,
	)
	if err := board.ApplyMove(MoveRight); !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("push into a second box should be illegal, got %v", err)
	}
}

func TestApplyMovePushOffGridIsIllegal(t *testing.T) {
	board := mustBoard(t, 3, 1,
		Position{X: 1, Y: 0},
		map[string]Position{"b1": {X: 2, Y: 0}},
		[]Position{{X: 0, Y: 0}},
		nil,
	)
	if err := board.ApplyMove(MoveRight); !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("push off the grid should be illegal, got %v", err)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	board := corridorBoard(t)
	clone := board.Clone()
	if err := clone.ApplyMove(MoveRight); err != nil {
		t.Fatalf("clone move failed: %v", err)
	}
	if board.Player != (Position{X: 0, Y: 1}) {
		t.Fatalf("mutating the clone moved the original player")
	}
	if board.Boxes["b1"] != (Position{X: 1, Y: 1}) {
		t.Fatalf("mutating the clone moved the original box")
	}
	if board.Key() == clone.Key() {
		t.Fatalf("keys should differ after the clone diverged")
	}
}

func TestPossibleMovesFixedOrder(t *testing.T) {
	board := mustBoard(t, 3, 3,
		Position{X: 1, Y: 1},
		map[string]Position{"b1": {X: 0, Y: 0}},
		[]Position{{X: 0, Y: 2}},
		nil,
	)
	got := board.PossibleMoves()
	want := []Move{MoveUp, MoveDown, MoveLeft, MoveRight}
	if len(got) != len(want) {
		t.Fatalf("expected %d moves, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}
}

func TestKeyIgnoresBoxNames(t *testing.T) {
	first := mustBoard(t, 4, 4,
		Position{X: 0, Y: 0},
		map[string]Position{"a": {X: 1, Y: 1}, "b": {X: 2, Y: 2}},
		[]Position{{X: 3, Y: 3}, {X: 3, Y: 2}},
		nil,
	)
	second := mustBoard(t, 4, 4,
		Position{X: 0, Y: 0},
		map[string]Position{"b": {X: 1, Y: 1}, "a": {X: 2, Y: 2}},
		[]Position{{X: 3, Y: 3}, {X: 3, Y: 2}},
		nil,
	)
	if first.Key() != second.Key() {
		t.Fatalf("keys should only depend on positions: %q vs %q", first.Key(), second.Key())
	}
}

func TestKeyChangesWithPlayerPosition(t *testing.T) {
	board := mustBoard(t, 4, 4,
		Position{X: 0, Y: 0},
		map[string]Position{"a": {X: 2, Y: 2}},
		[]Position{{X: 3, Y: 3}},
		nil,
	)
	before := board.Key()
	if err := board.ApplyMove(MoveUp); err != nil {
		t.Fatalf("move failed: %v", err)
	}
	if board.Key() == before {
		t.Fatalf("key should change when the player moves")
	}
}

func TestNewBoardRejectsMoreBoxesThanTargets(t *testing.T) {
	_, err := NewBoard(4, 4,
		Position{X: 0, Y: 0},
		map[string]Position{"a": {X: 1, Y: 1}, "b": {X: 2, Y: 2}},
		[]Position{{X: 3, Y: 3}},
		nil,
	)
	if err == nil {
		t.Fatalf("expected error when boxes outnumber targets")
	}
}

func TestNewBoardRejectsOutOfBoundsPieces(t *testing.T) {
	if _, err := NewBoard(3, 3, Position{X: 5, Y: 0}, nil, nil, nil); err == nil {
		t.Fatalf("expected error for out of bounds player")
	}
	if _, err := NewBoard(3, 3, Position{X: 0, Y: 0}, map[string]Position{"a": {X: 3, Y: 0}}, []Position{{X: 1, Y: 1}}, nil); err == nil {
		t.Fatalf("expected error for out of bounds box")
	}
}

func TestMoveStringRoundTrip(t *testing.T) {
	for _, move := range allMoves {
		parsed, err := MoveFromString(move.String())
		if err != nil {
			t.Fatalf("parse %q: %v", move.String(), err)
		}
		if parsed != move {
			t.Fatalf("round trip mismatch: %v -> %q -> %v", move, move.String(), parsed)
		}
	}
	if _, err := MoveFromString("diagonal"); err == nil {
		t.Fatalf("expected error for unknown move name")
	}
}
