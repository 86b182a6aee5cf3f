package main

import "sync"

// SolutionEntry is a validated solve result keyed by puzzle signature.
type SolutionEntry struct {
	Signature uint64
	Algorithm string
	Heuristic string
	Moves     []Move
	ElapsedMs int64
	Hits      uint32
}

type solutionCache struct {
	mu      sync.RWMutex
	entries map[uint64]SolutionEntry
}

var sharedSolutionCache = newSolutionCache()

func SharedSolutionCache() *solutionCache {
	return sharedSolutionCache
}

func newSolutionCache() *solutionCache {
	return &solutionCache{entries: make(map[uint64]SolutionEntry)}
}

func (c *solutionCache) Probe(signature uint64) (SolutionEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[signature]
	if !ok {
		return SolutionEntry{}, false
	}
	entry.Hits++
	c.entries[signature] = entry
	return entry, true
}

func (c *solutionCache) Store(entry SolutionEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.entries[entry.Signature]; ok {
		// Keep the shorter solution; length is the only quality metric
		// recorded for a finished solve.
		if len(existing.Moves) <= len(entry.Moves) {
			return
		}
		entry.Hits = existing.Hits
	}
	entry.Moves = append([]Move(nil), entry.Moves...)
	c.entries[entry.Signature] = entry
}

func (c *solutionCache) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *solutionCache) Flush() {
	c.mu.Lock()
	c.entries = make(map[uint64]SolutionEntry)
	c.mu.Unlock()
}

func (c *solutionCache) Snapshot() []SolutionEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]SolutionEntry, 0, len(c.entries))
	for _, entry := range c.entries {
		entry.Moves = append([]Move(nil), entry.Moves...)
		out = append(out, entry)
	}
	return out
}

func (c *solutionCache) replace(entries []SolutionEntry) {
	c.mu.Lock()
	c.entries = make(map[uint64]SolutionEntry, len(entries))
	for _, entry := range entries {
		c.entries[entry.Signature] = entry
	}
	c.mu.Unlock()
}
