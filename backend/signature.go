package main

import "sync"

// Puzzle signatures are 64-bit hashes over the full board (walls, targets,
// boxes, player) used as solution-cache keys. Each grid size gets its own
// lazily built table of per-cell feature keys.

type signatureTable struct {
	length int
	width  int
	cells  []uint64
}

type signatureStore struct {
	mu     sync.Mutex
	tables map[[2]int]*signatureTable
}

var signatureTables = &signatureStore{tables: make(map[[2]int]*signatureTable)}

const (
	featureObstacle = iota
	featureTarget
	featureBox
	featurePlayer
	featureCount
)

func getSignatureTable(length, width int) *signatureTable {
	signatureTables.mu.Lock()
	defer signatureTables.mu.Unlock()
	key := [2]int{length, width}
	if table, ok := signatureTables.tables[key]; ok {
		return table
	}
	rng := splitmix64{state: uint64(0x9e3779b97f4a7c15) ^ uint64(length)<<32 ^ uint64(width)}
	table := &signatureTable{
		length: length,
		width:  width,
		cells:  make([]uint64, length*width*featureCount),
	}
	for i := range table.cells {
		table.cells[i] = rng.next()
	}
	signatureTables.tables[key] = table
	return table
}

func (t *signatureTable) feature(pos Position, feature int) uint64 {
	idx := (pos.Y*t.length+pos.X)*featureCount + feature
	return t.cells[idx]
}

// PuzzleSignature hashes every feature of the board. Two boards of the
// same puzzle in the same configuration produce the same signature.
func PuzzleSignature(board *Board) uint64 {
	table := getSignatureTable(board.Length, board.Width)
	var hash uint64
	for pos := range board.Obstacles {
		hash ^= table.feature(pos, featureObstacle)
	}
	for pos := range board.Targets {
		hash ^= table.feature(pos, featureTarget)
	}
	for _, pos := range board.Boxes {
		hash ^= table.feature(pos, featureBox)
	}
	hash ^= table.feature(board.Player, featurePlayer)
	return hash
}

type splitmix64 struct {
	state uint64
}

func (s *splitmix64) next() uint64 {
	s.state += 0x9e3779b97f4a7c15
	z := s.state
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}
