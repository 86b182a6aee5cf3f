package main

import (
	"fmt"
	"math"
)

const (
	HeuristicSimple         = "simple"
	HeuristicMatching       = "matching"
	HeuristicIDAStar        = "ida_star"
	HeuristicTargetMatching = "target_matching"
)

// HeuristicFunc estimates the remaining cost to a solved board. Lower is
// closer to solved. Heuristics never mutate the state and are deterministic
// for a fixed state; deadlocked configurations get large penalties rather
// than infinity so search stays responsive.
type HeuristicFunc func(state *Board, config Config) float64

var heuristicRegistry = map[string]HeuristicFunc{
	HeuristicSimple:         simpleHeuristic,
	HeuristicMatching:       matchingHeuristic,
	HeuristicIDAStar:        idaStarHeuristic,
	HeuristicTargetMatching: targetMatchingHeuristic,
}

func HeuristicByName(name string) (HeuristicFunc, error) {
	if fn, ok := heuristicRegistry[name]; ok {
		return fn, nil
	}
	return nil, fmt.Errorf("unknown heuristic %q", name)
}

func HeuristicNames() []string {
	return []string{HeuristicSimple, HeuristicMatching, HeuristicIDAStar, HeuristicTargetMatching}
}

func resolveHeuristicWeights(config Config) HeuristicConfig {
	if config.Heuristics == (HeuristicConfig{}) {
		return DefaultConfig().Heuristics
	}
	return config.Heuristics
}

func manhattan(x1, y1, x2, y2 int) int {
	dx := x1 - x2
	if dx < 0 {
		dx = -dx
	}
	dy := y1 - y2
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// blocksOtherBoxes reports whether any other box sits orthogonally adjacent
// to pos.
func blocksOtherBoxes(state *Board, pos Position) bool {
	for _, other := range state.Boxes {
		if other == pos {
			continue
		}
		dx := pos.X - other.X
		dy := pos.Y - other.Y
		if (dx == 1 || dx == -1) && dy == 0 {
			return true
		}
		if (dy == 1 || dy == -1) && dx == 0 {
			return true
		}
	}
	return false
}

// isCornerDeadlock flags grid corners and L-shaped wall pockets: at least
// one horizontal neighbour and one vertical neighbour blocked. It does not
// check whether the cell is itself a target; that simplification is part of
// the heuristic's contract.
func isCornerDeadlock(state *Board, x, y int) bool {
	if (x == 0 || x == state.Length-1) && (y == 0 || y == state.Width-1) {
		return true
	}
	horizontalBlocked := state.IsObstacle(Position{X: x - 1, Y: y}) || state.IsObstacle(Position{X: x + 1, Y: y})
	verticalBlocked := state.IsObstacle(Position{X: x, Y: y - 1}) || state.IsObstacle(Position{X: x, Y: y + 1})
	return horizontalBlocked && verticalBlocked
}

// isTunnel is true only when all four orthogonal neighbours are obstacles.
// This is deliberately a dead-end test, not a corridor test; solvers tuned
// against it depend on the exact predicate.
func isTunnel(state *Board, x, y int) bool {
	horizontalWalls := state.IsObstacle(Position{X: x, Y: y - 1}) && state.IsObstacle(Position{X: x, Y: y + 1})
	verticalWalls := state.IsObstacle(Position{X: x - 1, Y: y}) && state.IsObstacle(Position{X: x + 1, Y: y})
	return horizontalWalls && verticalWalls
}

// unplacedBoxes returns the positions of boxes not yet on a target, in the
// fixed box-name order.
func unplacedBoxes(state *Board) []Position {
	out := make([]Position, 0, len(state.Boxes))
	for _, name := range state.BoxNames() {
		pos := state.Boxes[name]
		if !state.IsTarget(pos) {
			out = append(out, pos)
		}
	}
	return out
}

// simpleHeuristic sums each unplaced box's distance to its nearest target
// and penalises corner deadlocks.
func simpleHeuristic(state *Board, config Config) float64 {
	weights := resolveHeuristicWeights(config)
	total := 0.0
	for _, name := range state.BoxNames() {
		box := state.Boxes[name]
		if state.IsTarget(box) {
			continue
		}
		minDistance := math.Inf(1)
		for _, target := range state.TargetList() {
			if d := float64(manhattan(box.X, box.Y, target.X, target.Y)); d < minDistance {
				minDistance = d
			}
		}
		total += minDistance
		if isCornerDeadlock(state, box.X, box.Y) {
			total += weights.CornerDeadlockPenalty
		}
	}
	return total
}

// matchingHeuristic greedily assigns each unplaced box to its nearest
// still-unassigned target, consuming the target pool as it goes, and adds
// a penalty for boxes wedged into an L-shaped wall pocket.
func matchingHeuristic(state *Board, config Config) float64 {
	weights := resolveHeuristicWeights(config)
	boxes := unplacedBoxes(state)
	if len(boxes) == 0 {
		return 0.0
	}
	pool := append([]Position(nil), state.TargetList()...)

	total := 0.0
	for _, box := range boxes {
		bestIdx := 0
		bestDist := manhattan(box.X, box.Y, pool[0].X, pool[0].Y)
		for i := 1; i < len(pool); i++ {
			if d := manhattan(box.X, box.Y, pool[i].X, pool[i].Y); d < bestDist {
				bestDist = d
				bestIdx = i
			}
		}
		total += float64(bestDist)
		pool = append(pool[:bestIdx], pool[bestIdx+1:]...)

		left := state.IsObstacle(Position{X: box.X - 1, Y: box.Y})
		right := state.IsObstacle(Position{X: box.X + 1, Y: box.Y})
		below := state.IsObstacle(Position{X: box.X, Y: box.Y - 1})
		above := state.IsObstacle(Position{X: box.X, Y: box.Y + 1})
		if (left && below) || (left && above) || (right && below) || (right && above) {
			total += weights.MatchingDeadlockPenalty
		}
	}
	return total
}

// idaStarHeuristic combines doubled nearest-target distances with placed-box
// bonuses, deadlock/tunnel/blocking penalties, the player's distance to the
// nearest unplaced box, and a spread penalty when several boxes remain.
func idaStarHeuristic(state *Board, config Config) float64 {
	weights := resolveHeuristicWeights(config)
	totalCost := 0.0
	unplaced := make([]Position, 0, len(state.Boxes))
	playerToBox := math.Inf(1)

	for _, name := range state.BoxNames() {
		box := state.Boxes[name]
		if state.IsTarget(box) {
			if !blocksOtherBoxes(state, box) {
				totalCost -= weights.PlacedBonus
			}
			continue
		}

		minDistance := math.Inf(1)
		for _, target := range state.TargetList() {
			if d := float64(manhattan(box.X, box.Y, target.X, target.Y)); d < minDistance {
				minDistance = d
			}
		}
		totalCost += minDistance * weights.DistanceWeight

		if isCornerDeadlock(state, box.X, box.Y) {
			totalCost += weights.CornerDeadlockPenalty
		}
		if isTunnel(state, box.X, box.Y) {
			totalCost += weights.TunnelPenalty
		}
		if blocksOtherBoxes(state, box) {
			totalCost += weights.BlockingPenalty
		}

		playerDistance := float64(manhattan(state.Player.X, state.Player.Y, box.X, box.Y))
		if playerDistance < playerToBox {
			playerToBox = playerDistance
		}
		unplaced = append(unplaced, box)
	}

	if len(unplaced) > 0 {
		totalCost += playerToBox
	}
	if len(unplaced) >= 2 {
		maxSpread := 0
		for i := 0; i < len(unplaced)-1; i++ {
			for j := i + 1; j < len(unplaced); j++ {
				if spread := manhattan(unplaced[i].X, unplaced[i].Y, unplaced[j].X, unplaced[j].Y); spread > maxSpread {
					maxSpread = spread
				}
			}
		}
		totalCost += float64(maxSpread) * weights.SpreadWeight
	}

	return totalCost
}

// targetMatchingHeuristic is the default for both solvers: greedy matching
// against a consumed target pool with heavier weights, plus a small
// explored-states term that nudges exploration order.
func targetMatchingHeuristic(state *Board, config Config) float64 {
	weights := resolveHeuristicWeights(config)
	boxes := unplacedBoxes(state)
	pool := append([]Position(nil), state.TargetList()...)

	totalCost := 0.0
	for _, box := range boxes {
		bestIdx := -1
		bestDist := math.Inf(1)
		for i, target := range pool {
			if d := float64(manhattan(box.X, box.Y, target.X, target.Y)); d < bestDist {
				bestDist = d
				bestIdx = i
			}
		}
		if bestIdx >= 0 {
			pool = append(pool[:bestIdx], pool[bestIdx+1:]...)
			totalCost += bestDist * weights.TargetDistanceWeight
		}

		if isCornerDeadlock(state, box.X, box.Y) {
			totalCost += weights.TargetDeadlockPenalty
		}
		if isTunnel(state, box.X, box.Y) {
			totalCost += weights.TargetTunnelPenalty
		}
		if blocksOtherBoxes(state, box) {
			totalCost += weights.TargetBlockingPenalty
		}
	}

	if len(boxes) > 0 {
		minPlayerDistance := math.Inf(1)
		for _, box := range boxes {
			if d := float64(manhattan(state.Player.X, state.Player.Y, box.X, box.Y)); d < minPlayerDistance {
				minPlayerDistance = d
			}
		}
		totalCost += minPlayerDistance
	}

	totalCost += float64(state.ExploredStates) * weights.ExploredStatesWeight
	return totalCost
}
