package main

import "fmt"

type Move int

const (
	MoveUp Move = iota
	MoveDown
	MoveLeft
	MoveRight
)

// allMoves fixes the expansion order everywhere legal moves are enumerated,
// so equal-cost branches are explored in a reproducible order.
var allMoves = [...]Move{MoveUp, MoveDown, MoveLeft, MoveRight}

func (m Move) Delta() (int, int) {
	switch m {
	case MoveUp:
		return 0, 1
	case MoveDown:
		return 0, -1
	case MoveLeft:
		return -1, 0
	default:
		return 1, 0
	}
}

func (m Move) IsValid() bool {
	return m >= MoveUp && m <= MoveRight
}

func (m Move) String() string {
	switch m {
	case MoveUp:
		return "up"
	case MoveDown:
		return "down"
	case MoveLeft:
		return "left"
	case MoveRight:
		return "right"
	default:
		return fmt.Sprintf("move(%d)", int(m))
	}
}

func MoveFromString(name string) (Move, error) {
	switch name {
	case "up":
		return MoveUp, nil
	case "down":
		return MoveDown, nil
	case "left":
		return MoveLeft, nil
	case "right":
		return MoveRight, nil
	default:
		return 0, fmt.Errorf("unknown move %q", name)
	}
}

func movesToStrings(moves []Move) []string {
	out := make([]string, 0, len(moves))
	for _, move := range moves {
		out = append(out, move.String())
	}
	return out
}
