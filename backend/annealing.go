package main

import (
	"fmt"
	"math"
	"math/rand"
	"time"
)

// AnnealingSolver runs simulated annealing with perturbed restarts: each
// restart random-walks away from the initial board, then anneals with a
// multiplicative cooling schedule and Metropolis acceptance. Candidate
// sequences are only ever returned after an independent replay from the
// true initial board proves they reach a goal.
type AnnealingSolver struct {
	initial  *Board
	settings SolverSettings
	rng      *rand.Rand
	restarts int

	lastProgress time.Time
}

func NewAnnealingSolver(board *Board, settings SolverSettings) *AnnealingSolver {
	rng := settings.Rand
	if rng == nil {
		seed := settings.Config.SaSeed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		rng = rand.New(rand.NewSource(seed))
	}
	return &AnnealingSolver{
		initial:  board.Clone(),
		settings: settings,
		rng:      rng,
	}
}

func (s *AnnealingSolver) Solve() []Move {
	stats := s.settings.Stats
	if stats == nil {
		stats = &SearchStats{}
	}
	if stats.Start.IsZero() {
		stats.Start = time.Now()
	}
	if s.initial.IsSolved() {
		return []Move{}
	}

	config := s.settings.Config
	defaults := DefaultConfig()
	startTemp := config.SaStartTemp
	if startTemp <= 0 {
		startTemp = defaults.SaStartTemp
	}
	endTemp := config.SaEndTemp
	if endTemp <= 0 {
		endTemp = defaults.SaEndTemp
	}
	coolFactor := config.SaCoolFactor
	if coolFactor <= 0 || coolFactor >= 1 {
		coolFactor = defaults.SaCoolFactor
	}
	maxSteps := config.SaMaxSteps
	if maxSteps <= 0 {
		maxSteps = defaults.SaMaxSteps
	}
	// 0 preserves the historical unbounded restart loop; anything else
	// bounds termination on unsolvable boards.
	maxRestarts := config.SaMaxRestarts

	overallBest := []Move{}
	lastBestScore := math.Inf(1)

	for maxRestarts <= 0 || s.restarts < maxRestarts {
		if s.settings.stopped() {
			break
		}
		s.restarts++
		stats.Restarts++
		temp := startTemp
		movesSoFar := []Move{}
		state := s.initial.Clone()

		perturbMoves := 5
		if !math.IsInf(lastBestScore, 1) {
			perturbMoves = int(lastBestScore)
			if perturbMoves < 3 {
				perturbMoves = 3
			}
			if perturbMoves > 10 {
				perturbMoves = 10
			}
		}
		state = s.perturbInitialState(state, perturbMoves)

		score := s.settings.Heuristic(state, config)
		bestScoreThisRun := score
		bestSequenceThisRun := []Move{}
		steps := 0

		for temp > endTemp && steps < maxSteps {
			if s.settings.stopped() {
				return []Move{}
			}
			if state.IsSolved() {
				stats.Validations++
				if s.validateSolution(movesSoFar) {
					s.logRestart("solved", bestScoreThisRun, len(movesSoFar))
					if config.LogSolveStats {
						logSolveStats(AlgorithmAnnealing, stats, len(movesSoFar))
					}
					return movesSoFar
				}
				// The accumulated log does not replay to a goal; the
				// whole restart is poisoned, discard it.
				s.logRestart("invalid-sequence", bestScoreThisRun, len(movesSoFar))
				break
			}

			legalMoves := state.PossibleMoves()
			if len(legalMoves) == 0 {
				break
			}

			move := legalMoves[s.rng.Intn(len(legalMoves))]
			newState := state.Clone()
			if err := newState.ApplyMove(move); err != nil {
				break
			}
			newScore := s.settings.Heuristic(newState, config)

			delta := newScore - score
			acceptChance := 1.0
			if delta > 0 {
				acceptChance = math.Exp(-delta / temp)
			}
			if s.rng.Float64() < acceptChance {
				state = newState
				score = newScore
				movesSoFar = append(movesSoFar, move)
				if newScore < bestScoreThisRun {
					bestScoreThisRun = newScore
					bestSequenceThisRun = append([]Move(nil), movesSoFar...)
				}
				s.publishProgress(state, score, steps, stats)
			}

			temp *= coolFactor
			steps++
			stats.Steps++
		}

		s.logRestart("exhausted", bestScoreThisRun, len(bestSequenceThisRun))
		lastBestScore = bestScoreThisRun

		if len(overallBest) == 0 || (len(bestSequenceThisRun) > 0 && len(bestSequenceThisRun) < len(overallBest)) {
			stats.Validations++
			if s.validateSolution(bestSequenceThisRun) {
				overallBest = append([]Move(nil), bestSequenceThisRun...)
			}
		}
		if len(overallBest) > 0 {
			if config.LogSolveStats {
				logSolveStats(AlgorithmAnnealing, stats, len(overallBest))
			}
			return overallBest
		}
	}

	if config.LogSolveStats {
		logSolveStats(AlgorithmAnnealing, stats, 0)
	}
	return []Move{}
}

// perturbInitialState applies a short random walk so each restart begins
// from a diversified configuration. Steps with no legal move are skipped
// silently.
func (s *AnnealingSolver) perturbInitialState(state *Board, perturbMoves int) *Board {
	for i := 0; i < perturbMoves; i++ {
		legalMoves := state.PossibleMoves()
		if len(legalMoves) == 0 {
			break
		}
		move := legalMoves[s.rng.Intn(len(legalMoves))]
		if err := state.ApplyMove(move); err != nil {
			break
		}
	}
	return state
}

// validateSolution replays a candidate sequence from a fresh copy of the
// true initial board. Any illegal move invalidates the whole sequence.
func (s *AnnealingSolver) validateSolution(moves []Move) bool {
	replay := s.initial.Clone()
	for _, move := range moves {
		if err := replay.ApplyMove(move); err != nil {
			return false
		}
	}
	return replay.IsSolved()
}

func (s *AnnealingSolver) logRestart(outcome string, bestScore float64, moveCount int) {
	if !s.settings.Config.LogSolveStats {
		return
	}
	fmt.Printf("[solver:%s] restart=%d outcome=%s best_score=%.2f moves=%d\n",
		AlgorithmAnnealing, s.restarts, outcome, bestScore, moveCount)
}

func (s *AnnealingSolver) publishProgress(state *Board, score float64, steps int, stats *SearchStats) {
	if s.settings.OnProgress == nil {
		return
	}
	throttle := time.Duration(s.settings.Config.ProgressThrottleMs) * time.Millisecond
	if throttle > 0 && !s.lastProgress.IsZero() && time.Since(s.lastProgress) < throttle {
		return
	}
	s.lastProgress = time.Now()
	s.settings.OnProgress(ProgressSnapshot{
		Board:   state.Clone(),
		Score:   score,
		Phase:   "annealing",
		Restart: s.restarts,
		Steps:   steps,
		Nodes:   stats.Steps,
	})
}
