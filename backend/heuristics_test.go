package main

import (
	"math"
	"testing"
)

func TestSimpleHeuristicSumsNearestTargetDistances(t *testing.T) {
	board := mustBoard(t, 5, 5,
		Position{X: 0, Y: 4},
		map[string]Position{"a": {X: 1, Y: 1}},
		[]Position{{X: 3, Y: 1}},
		nil,
	)
	got := simpleHeuristic(board, DefaultConfig())
	if got != 2.0 {
		t.Fatalf("expected distance 2, got %v", got)
	}
}

func TestSimpleHeuristicPenalizesGridCornerBox(t *testing.T) {
	board := mustBoard(t, 5, 5,
		Position{X: 2, Y: 4},
		map[string]Position{"a": {X: 0, Y: 0}},
		[]Position{{X: 2, Y: 2}},
		nil,
	)
	got := simpleHeuristic(board, DefaultConfig())
	if got != 4.0+1000.0 {
		t.Fatalf("expected 1004 for a cornered box, got %v", got)
	}
}

func TestMatchingHeuristicConsumesAssignedTargets(t *testing.T) {
	// Box a takes the near target; box b must fall back to the far one
	// even though the near target is also its closest.
	board := mustBoard(t, 6, 5,
		Position{X: 0, Y: 0},
		map[string]Position{"a": {X: 1, Y: 2}, "b": {X: 2, Y: 2}},
		[]Position{{X: 0, Y: 2}, {X: 5, Y: 2}},
		nil,
	)
	got := matchingHeuristic(board, DefaultConfig())
	if got != 4.0 {
		t.Fatalf("expected 1 + 3 with target consumption, got %v", got)
	}
}

func TestMatchingHeuristicZeroWhenAllBoxesPlaced(t *testing.T) {
	board := mustBoard(t, 3, 1,
		Position{X: 0, Y: 0},
		map[string]Position{"a": {X: 2, Y: 0}},
		[]Position{{X: 2, Y: 0}},
		nil,
	)
	if got := matchingHeuristic(board, DefaultConfig()); got != 0.0 {
		t.Fatalf("expected 0 on a solved board, got %v", got)
	}
}

func TestIsCornerDeadlock(t *testing.T) {
	board := mustBoard(t, 5, 5,
		Position{X: 4, Y: 4},
		nil, nil,
		[]Position{{X: 1, Y: 2}, {X: 2, Y: 1}},
	)
	if !isCornerDeadlock(board, 0, 0) {
		t.Fatalf("grid corner should be a deadlock")
	}
	// (2,2) has an obstacle to its left and below it.
	if !isCornerDeadlock(board, 2, 2) {
		t.Fatalf("L-shaped wall pocket should be a deadlock")
	}
	if isCornerDeadlock(board, 3, 3) {
		t.Fatalf("open cell should not be a deadlock")
	}
	if isCornerDeadlock(board, 0, 2) {
		t.Fatalf("flat edge cell should not be a deadlock")
	}
}

func TestIsTunnelRequiresAllFourWalls(t *testing.T) {
	walled := mustBoard(t, 5, 5,
		Position{X: 0, Y: 0},
		nil, nil,
		[]Position{{X: 1, Y: 2}, {X: 3, Y: 2}, {X: 2, Y: 1}, {X: 2, Y: 3}},
	)
	if !isTunnel(walled, 2, 2) {
		t.Fatalf("cell with four wall neighbours should be a tunnel")
	}
	threeWalls := mustBoard(t, 5, 5,
		Position{X: 0, Y: 0},
		nil, nil,
		[]Position{{X: 1, Y: 2}, {X: 3, Y: 2}, {X: 2, Y: 1}},
	)
	if isTunnel(threeWalls, 2, 2) {
		t.Fatalf("three walls are not enough for the tunnel predicate")
	}
}

func TestIdaStarHeuristicCombinesDistancePlayerAndSpread(t *testing.T) {
	board := mustBoard(t, 7, 7,
		Position{X: 3, Y: 3},
		map[string]Position{"a": {X: 1, Y: 1}, "b": {X: 5, Y: 5}},
		[]Position{{X: 2, Y: 1}, {X: 4, Y: 5}},
		nil,
	)
	// 2*1 + 2*1 box distances, +4 player to nearest box, +2*8 spread.
	got := idaStarHeuristic(board, DefaultConfig())
	if got != 24.0 {
		t.Fatalf("expected 24, got %v", got)
	}
}

func TestIdaStarHeuristicRewardsPlacedBox(t *testing.T) {
	board := mustBoard(t, 3, 1,
		Position{X: 0, Y: 0},
		map[string]Position{"a": {X: 2, Y: 0}},
		[]Position{{X: 2, Y: 0}},
		nil,
	)
	got := idaStarHeuristic(board, DefaultConfig())
	if got != -30.0 {
		t.Fatalf("expected the placed bonus -30, got %v", got)
	}
}

func TestTargetMatchingHeuristicBaseValue(t *testing.T) {
	board := corridorBoard(t)
	// 2.5 * distance 1, plus player distance 1.
	got := targetMatchingHeuristic(board, DefaultConfig())
	if got != 3.5 {
		t.Fatalf("expected 3.5, got %v", got)
	}
}

func TestTargetMatchingHeuristicAddsExploredStatesTerm(t *testing.T) {
	board := corridorBoard(t)
	base := targetMatchingHeuristic(board, DefaultConfig())
	board.ExploredStates = 100
	got := targetMatchingHeuristic(board, DefaultConfig())
	if math.Abs(got-(base+10.0)) > 1e-9 {
		t.Fatalf("expected +10 for 100 explored states, got %v vs base %v", got, base)
	}
}

func TestHeuristicsDeterministicAcrossClones(t *testing.T) {
	board := mustBoard(t, 6, 6,
		Position{X: 0, Y: 0},
		map[string]Position{"a": {X: 2, Y: 3}, "b": {X: 4, Y: 1}},
		[]Position{{X: 5, Y: 5}, {X: 1, Y: 4}},
		[]Position{{X: 3, Y: 3}},
	)
	config := DefaultConfig()
	for _, name := range HeuristicNames() {
		fn, err := HeuristicByName(name)
		if err != nil {
			t.Fatalf("heuristic %q: %v", name, err)
		}
		first := fn(board, config)
		second := fn(board.Clone(), config)
		if first != second {
			t.Fatalf("heuristic %q not stable across clones: %v vs %v", name, first, second)
		}
	}
}

func TestHeuristicByNameUnknown(t *testing.T) {
	if _, err := HeuristicByName("gravity"); err == nil {
		t.Fatalf("expected error for unknown heuristic name")
	}
}

func TestResolveHeuristicWeightsFallsBackToDefaults(t *testing.T) {
	var config Config
	weights := resolveHeuristicWeights(config)
	if weights.CornerDeadlockPenalty != 1000.0 {
		t.Fatalf("expected default corner penalty, got %v", weights.CornerDeadlockPenalty)
	}
	config.Heuristics.CornerDeadlockPenalty = 7
	weights = resolveHeuristicWeights(config)
	if weights.CornerDeadlockPenalty != 7 {
		t.Fatalf("expected configured weights to win, got %v", weights.CornerDeadlockPenalty)
	}
}
