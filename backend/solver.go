package main

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

const (
	AlgorithmIDAStar   = "ida_star"
	AlgorithmAnnealing = "simulated_annealing"
)

// Solver produces a move sequence from the initial board it was built
// around. An empty sequence means no solution was found, except when the
// initial board was already solved, in which case the puzzle is trivially
// done.
type Solver interface {
	Solve() []Move
}

// SolverSettings bundles everything a solver run needs besides the board.
// ShouldStop is polled at search checkpoints so a supervising caller can
// abandon the run; a stopped solver reports no solution. OnProgress, when
// set, receives throttled snapshots for live streaming.
type SolverSettings struct {
	Heuristic  HeuristicFunc
	Config     Config
	ShouldStop func() bool
	OnProgress func(ProgressSnapshot)
	Rand       *rand.Rand
	Stats      *SearchStats
}

type ProgressSnapshot struct {
	Board   *Board
	Score   float64
	Phase   string
	Limit   float64
	Restart int
	Steps   int
	Nodes   int64
}

type SearchStats struct {
	Start       time.Time
	Nodes       int64
	Iterations  int
	Limits      []float64
	Restarts    int
	Steps       int64
	Validations int
}

func NewSolver(algorithm string, board *Board, settings SolverSettings) (Solver, error) {
	if settings.Heuristic == nil {
		name := settings.Config.SolverHeuristic
		if name == "" {
			name = DefaultConfig().SolverHeuristic
		}
		fn, err := HeuristicByName(name)
		if err != nil {
			return nil, err
		}
		settings.Heuristic = fn
	}
	switch algorithm {
	case AlgorithmIDAStar:
		return NewIDAStarSolver(board, settings), nil
	case AlgorithmAnnealing:
		return NewAnnealingSolver(board, settings), nil
	default:
		return nil, fmt.Errorf("unknown algorithm %q", algorithm)
	}
}

func AlgorithmNames() []string {
	return []string{AlgorithmIDAStar, AlgorithmAnnealing}
}

func (s *SolverSettings) stopped() bool {
	return s.ShouldStop != nil && s.ShouldStop()
}

func logSolveStats(tag string, stats *SearchStats, solutionLen int) {
	if stats == nil {
		return
	}
	elapsed := time.Duration(0)
	if !stats.Start.IsZero() {
		elapsed = time.Since(stats.Start)
	}
	nps := 0.0
	if elapsed > 0 {
		nps = float64(stats.Nodes) / elapsed.Seconds()
	}
	limits := make([]string, 0, len(stats.Limits))
	for _, limit := range stats.Limits {
		limits = append(limits, fmt.Sprintf("%.1f", limit))
	}
	fmt.Printf("[solver:%s] t=%dms nodes=%d nps=%.0f iterations=%d restarts=%d steps=%d validations=%d solution=%d limits=[%s]\n",
		tag,
		elapsed.Milliseconds(),
		stats.Nodes,
		nps,
		stats.Iterations,
		stats.Restarts,
		stats.Steps,
		stats.Validations,
		solutionLen,
		strings.Join(limits, ","),
	)
}
