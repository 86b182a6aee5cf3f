package main

import (
	"math"
	"time"
)

// IDAStarSolver runs heuristic-guided iterative deepening: depth-first
// search bounded by a cost limit that grows to the minimum pruned f value
// of the previous iteration. The traversal uses an explicit work stack, so
// depth is bounded by the limit rather than by the goroutine stack.
type IDAStarSolver struct {
	initial    *Board
	initialKey StateKey
	settings   SolverSettings
	parent     map[StateKey]parentLink
	explored   int

	lastProgress time.Time
}

type parentLink struct {
	parent StateKey
	move   Move
}

type dfsFrame struct {
	state *Board
	key   StateKey
	g     int
	moves []Move
	next  int
}

func NewIDAStarSolver(board *Board, settings SolverSettings) *IDAStarSolver {
	initial := board.Clone()
	return &IDAStarSolver{
		initial:    initial,
		initialKey: initial.Key(),
		settings:   settings,
		parent:     make(map[StateKey]parentLink),
	}
}

func (s *IDAStarSolver) Solve() []Move {
	stats := s.settings.Stats
	if stats == nil {
		stats = &SearchStats{}
	}
	if stats.Start.IsZero() {
		stats.Start = time.Now()
	}
	ceiling := s.settings.Config.IdaLimitCeiling
	if ceiling <= 0 {
		ceiling = DefaultConfig().IdaLimitCeiling
	}

	// The initial limit must come from the root exactly as the search will
	// score it: the explored counter restarts at every limit, so the root
	// is always stamped 1 on entry and never pruned by its own score.
	s.initial.ExploredStates = 1
	limit := s.settings.Heuristic(s.initial, s.settings.Config)
	solution := []Move{}
	for limit < ceiling {
		stats.Iterations++
		stats.Limits = append(stats.Limits, limit)
		// One remembered path per state per iteration; no reuse across
		// limits.
		s.parent = make(map[StateKey]parentLink)
		s.explored = 0

		path, minPruned, found := s.depthFirst(limit, stats)
		if found {
			solution = path
			break
		}
		if s.settings.stopped() {
			break
		}
		if math.IsInf(minPruned, 1) {
			break
		}
		limit = minPruned
	}
	if s.settings.Config.LogSolveStats {
		logSolveStats(AlgorithmIDAStar, stats, len(solution))
	}
	return solution
}

func (s *IDAStarSolver) depthFirst(limit float64, stats *SearchStats) ([]Move, float64, bool) {
	minPruned := math.Inf(1)
	stack := make([]dfsFrame, 0, 64)

	// enter mirrors the entry of a recursive depth-first call: count the
	// node, prune on f, test the goal, otherwise expand.
	enter := func(state *Board, key StateKey, g int) ([]Move, bool) {
		s.explored++
		state.ExploredStates = s.explored
		stats.Nodes++
		f := float64(g) + s.settings.Heuristic(state, s.settings.Config)
		if f > limit {
			if f < minPruned {
				minPruned = f
			}
			return nil, false
		}
		if state.IsSolved() {
			return s.reconstructPath(key), true
		}
		s.publishProgress(state, f, limit, stats)
		stack = append(stack, dfsFrame{state: state, key: key, g: g, moves: state.PossibleMoves()})
		return nil, false
	}

	if path, found := enter(s.initial, s.initialKey, 0); found {
		return path, 0, true
	}
	for len(stack) > 0 {
		if s.settings.stopped() {
			return nil, minPruned, false
		}
		top := &stack[len(stack)-1]
		if top.next >= len(top.moves) {
			stack = stack[:len(stack)-1]
			continue
		}
		move := top.moves[top.next]
		top.next++

		next := top.state.Clone()
		if err := next.ApplyMove(move); err != nil {
			continue
		}
		key := next.Key()
		if _, seen := s.parent[key]; seen {
			continue
		}
		// First discovery wins; a depth-first revisit within the same
		// iteration never relaxes an existing link.
		s.parent[key] = parentLink{parent: top.key, move: move}
		if path, found := enter(next, key, top.g+1); found {
			return path, 0, true
		}
	}
	return nil, minPruned, false
}

// reconstructPath walks parent links backwards from the goal's identity to
// the initial identity, then reverses the collected moves.
func (s *IDAStarSolver) reconstructPath(key StateKey) []Move {
	path := []Move{}
	current := key
	for current != s.initialKey {
		link := s.parent[current]
		path = append(path, link.move)
		current = link.parent
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

func (s *IDAStarSolver) publishProgress(state *Board, f, limit float64, stats *SearchStats) {
	if s.settings.OnProgress == nil {
		return
	}
	throttle := time.Duration(s.settings.Config.ProgressThrottleMs) * time.Millisecond
	if throttle > 0 && !s.lastProgress.IsZero() && time.Since(s.lastProgress) < throttle {
		return
	}
	s.lastProgress = time.Now()
	s.settings.OnProgress(ProgressSnapshot{
		Board: state.Clone(),
		Score: f,
		Phase: "deepening",
		Limit: limit,
		Nodes: stats.Nodes,
	})
}
