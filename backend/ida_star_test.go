package main

import "testing"

func newTestSolver(t *testing.T, algorithm string, board *Board, settings SolverSettings) Solver {
	t.Helper()
	if settings.Config.IdaLimitCeiling == 0 && settings.Config.SaMaxSteps == 0 {
		settings.Config = DefaultConfig()
	}
	solver, err := NewSolver(algorithm, board, settings)
	if err != nil {
		t.Fatalf("failed to build solver: %v", err)
	}
	return solver
}

func assertReplaySolves(t *testing.T, board *Board, moves []Move) {
	t.Helper()
	replay := board.Clone()
	for i, move := range moves {
		if err := replay.ApplyMove(move); err != nil {
			t.Fatalf("solution move %d (%s) is illegal: %v", i, move, err)
		}
	}
	if !replay.IsSolved() {
		t.Fatalf("solution of %d moves does not solve the board", len(moves))
	}
}

func TestIDAStarAlreadySolvedReturnsEmptySolution(t *testing.T) {
	board := mustBoard(t, 3, 1,
		Position{X: 0, Y: 0},
		map[string]Position{"a": {X: 2, Y: 0}},
		[]Position{{X: 2, Y: 0}},
		nil,
	)
	solver := newTestSolver(t, AlgorithmIDAStar, board, SolverSettings{})
	moves := solver.Solve()
	if len(moves) != 0 {
		t.Fatalf("expected no moves for a solved board, got %v", moves)
	}
}

func TestIDAStarSolvesSinglePush(t *testing.T) {
	board := corridorBoard(t)
	solver := newTestSolver(t, AlgorithmIDAStar, board, SolverSettings{})
	moves := solver.Solve()
	if len(moves) != 1 || moves[0] != MoveRight {
		t.Fatalf("expected the single push right, got %v", moves)
	}
	assertReplaySolves(t, board, moves)
}

func TestIDAStarSolvesTwoBoxes(t *testing.T) {
	board := mustBoard(t, 5, 5,
		Position{X: 2, Y: 2},
		map[string]Position{"a": {X: 2, Y: 3}, "b": {X: 3, Y: 2}},
		[]Position{{X: 2, Y: 4}, {X: 4, Y: 2}},
		nil,
	)
	solver := newTestSolver(t, AlgorithmIDAStar, board, SolverSettings{})
	moves := solver.Solve()
	if len(moves) == 0 {
		t.Fatalf("expected a solution for the two box board")
	}
	assertReplaySolves(t, board, moves)
}

func TestIDAStarRootExpandsAtInitialLimit(t *testing.T) {
	// The explored-states term grows with every counted node. The first
	// limit is taken from the stamped root, so the root must pass its own
	// bound and the single push must fall out of the first iteration
	// instead of the limit creeping toward the ceiling.
	board := corridorBoard(t)
	stats := &SearchStats{}
	solver := newTestSolver(t, AlgorithmIDAStar, board, SolverSettings{Stats: stats})
	moves := solver.Solve()
	if len(moves) != 1 || moves[0] != MoveRight {
		t.Fatalf("expected the single push right, got %v", moves)
	}
	if stats.Iterations != 1 {
		t.Fatalf("expected the first limit to admit the root, got %d iterations (limits %v)", stats.Iterations, stats.Limits)
	}
	if stats.Nodes < 2 {
		t.Fatalf("the initial state was pruned instead of expanded, nodes=%d", stats.Nodes)
	}
}

func TestIDAStarSolutionIsReproducible(t *testing.T) {
	board := corridorBoard(t)
	first := newTestSolver(t, AlgorithmIDAStar, board, SolverSettings{}).Solve()
	second := newTestSolver(t, AlgorithmIDAStar, board, SolverSettings{}).Solve()
	if len(first) != len(second) {
		t.Fatalf("solutions differ between runs: %v vs %v", first, second)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("solutions differ between runs: %v vs %v", first, second)
		}
	}
}

func TestIDAStarGivesUpAtLimitCeiling(t *testing.T) {
	// Box wedged in a grid corner away from its target; the deadlock
	// penalty pushes the first limit above the ceiling immediately.
	board := mustBoard(t, 3, 3,
		Position{X: 1, Y: 1},
		map[string]Position{"a": {X: 0, Y: 0}},
		[]Position{{X: 2, Y: 2}},
		nil,
	)
	config := DefaultConfig()
	config.IdaLimitCeiling = 100
	stats := &SearchStats{}
	solver := newTestSolver(t, AlgorithmIDAStar, board, SolverSettings{Config: config, Stats: stats})
	moves := solver.Solve()
	if len(moves) != 0 {
		t.Fatalf("expected no solution, got %v", moves)
	}
	if stats.Iterations != 0 {
		t.Fatalf("no iteration should run above the ceiling, got %d", stats.Iterations)
	}
}

func TestIDAStarStatsTrackDeepening(t *testing.T) {
	board := corridorBoard(t)
	stats := &SearchStats{}
	solver := newTestSolver(t, AlgorithmIDAStar, board, SolverSettings{Stats: stats})
	moves := solver.Solve()
	assertReplaySolves(t, board, moves)
	if stats.Iterations < 1 {
		t.Fatalf("expected at least one iteration, got %d", stats.Iterations)
	}
	if stats.Nodes < 1 {
		t.Fatalf("expected explored nodes, got %d", stats.Nodes)
	}
	if len(stats.Limits) != stats.Iterations {
		t.Fatalf("one recorded limit per iteration, got %d limits for %d iterations", len(stats.Limits), stats.Iterations)
	}
	for i := 1; i < len(stats.Limits); i++ {
		if stats.Limits[i] < stats.Limits[i-1] {
			t.Fatalf("limits must never shrink: %v", stats.Limits)
		}
	}
}

func TestIDAStarStopsWhenAsked(t *testing.T) {
	board := corridorBoard(t)
	solver := newTestSolver(t, AlgorithmIDAStar, board, SolverSettings{
		ShouldStop: func() bool { return true },
	})
	moves := solver.Solve()
	if len(moves) != 0 {
		t.Fatalf("a stopped solver must report no solution, got %v", moves)
	}
}

func TestNewSolverUnknownAlgorithm(t *testing.T) {
	board := corridorBoard(t)
	if _, err := NewSolver("breadth_first", board, SolverSettings{Config: DefaultConfig()}); err == nil {
		t.Fatalf("expected error for unknown algorithm")
	}
}
