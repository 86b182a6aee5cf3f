package main

import (
	"log"
	"sync"
	"time"
)

// The solve backlog decouples HTTP handlers from solver runtime: requests
// enqueue jobs, worker goroutines drain them one solve at a time. The
// wall-clock budget is enforced here, outside the solvers, by tripping
// their ShouldStop hook.

type solveBacklog struct {
	mu      sync.Mutex
	queue   []string
	present map[string]struct{}
	wake    chan struct{}
}

var solveBacklogManager = newSolveBacklog()

func newSolveBacklog() *solveBacklog {
	return &solveBacklog{
		present: make(map[string]struct{}),
		wake:    make(chan struct{}, 1),
	}
}

func (b *solveBacklog) Enqueue(jobID string) {
	b.mu.Lock()
	if _, ok := b.present[jobID]; ok {
		b.mu.Unlock()
		return
	}
	b.queue = append(b.queue, jobID)
	b.present[jobID] = struct{}{}
	b.mu.Unlock()
	select {
	case b.wake <- struct{}{}:
	default:
	}
}

func (b *solveBacklog) dequeue() (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.queue) == 0 {
		return "", false
	}
	jobID := b.queue[0]
	b.queue = b.queue[1:]
	delete(b.present, jobID)
	return jobID, true
}

func (b *solveBacklog) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.queue)
}

func startSolveBacklogWorkers(store *JobStore, hub *ProgressHub, done <-chan struct{}) {
	workers := GetConfig().QueueWorkers
	if workers <= 0 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		go func() {
			ticker := time.NewTicker(250 * time.Millisecond)
			defer ticker.Stop()
			for {
				select {
				case <-done:
					return
				case <-solveBacklogManager.wake:
				case <-ticker.C:
				}
				for {
					jobID, ok := solveBacklogManager.dequeue()
					if !ok {
						break
					}
					runSolveJob(store, hub, jobID)
				}
			}
		}()
	}
}

func runSolveJob(store *JobStore, hub *ProgressHub, jobID string) {
	job, ok := store.Get(jobID)
	if !ok || job.Canceled() {
		return
	}
	board, ok := store.BoardCopy(jobID)
	if !ok {
		return
	}
	config := GetConfig()
	start := time.Now()
	store.Update(jobID, func(j *SolveJob) {
		j.Status = JobRunning
		j.StartedAt = start
	})
	publishJobStatus(hub, store, jobID)
	metricSolvesStarted.WithLabelValues(job.Algorithm).Inc()

	signature := PuzzleSignature(board)
	if entry, hit := SharedSolutionCache().Probe(signature); hit && replaySolves(board, entry.Moves) {
		metricCacheHits.Inc()
		finishJob(store, hub, jobID, JobDone, entry.Moves, "", true, nil, time.Since(start))
		return
	}

	heuristic, err := HeuristicByName(job.Heuristic)
	if err != nil {
		finishJob(store, hub, jobID, JobFailed, nil, err.Error(), false, nil, time.Since(start))
		return
	}

	var deadline time.Time
	if config.SolveTimeoutMs > 0 {
		deadline = start.Add(time.Duration(config.SolveTimeoutMs) * time.Millisecond)
	}
	timedOut := false
	stats := &SearchStats{Start: start}
	settings := SolverSettings{
		Heuristic: heuristic,
		Config:    config,
		Stats:     stats,
		ShouldStop: func() bool {
			if job.Canceled() {
				return true
			}
			if !deadline.IsZero() && time.Now().After(deadline) {
				timedOut = true
				return true
			}
			return false
		},
	}
	if hub != nil {
		settings.OnProgress = func(snapshot ProgressSnapshot) {
			if !hub.HasClients() {
				return
			}
			hub.Publish(progressPayload{
				JobID:     jobID,
				Phase:     snapshot.Phase,
				Score:     snapshot.Score,
				Limit:     snapshot.Limit,
				Restart:   snapshot.Restart,
				Steps:     snapshot.Steps,
				Nodes:     snapshot.Nodes,
				Positions: progressCellsFromBoard(snapshot.Board),
				Active:    true,
			})
		}
	}

	solver, err := NewSolver(job.Algorithm, board, settings)
	if err != nil {
		finishJob(store, hub, jobID, JobFailed, nil, err.Error(), false, stats, time.Since(start))
		return
	}
	moves := solver.Solve()
	elapsed := time.Since(start)

	switch {
	case job.Canceled():
		finishJob(store, hub, jobID, JobCanceled, nil, "canceled", false, stats, elapsed)
	case timedOut:
		finishJob(store, hub, jobID, JobCanceled, nil, "timeout", false, stats, elapsed)
	case len(moves) == 0 && !board.IsSolved():
		finishJob(store, hub, jobID, JobNoSolution, nil, "", false, stats, elapsed)
	default:
		SharedSolutionCache().Store(SolutionEntry{
			Signature: signature,
			Algorithm: job.Algorithm,
			Heuristic: job.Heuristic,
			Moves:     moves,
			ElapsedMs: elapsed.Milliseconds(),
		})
		finishJob(store, hub, jobID, JobDone, moves, "", false, stats, elapsed)
	}
}

func finishJob(store *JobStore, hub *ProgressHub, jobID string, status JobStatus, moves []Move, errMsg string, cacheHit bool, stats *SearchStats, elapsed time.Duration) {
	store.Update(jobID, func(j *SolveJob) {
		j.Status = status
		j.Moves = append([]Move(nil), moves...)
		j.Error = errMsg
		j.CacheHit = cacheHit
		j.ElapsedMs = elapsed.Milliseconds()
		j.DoneAt = time.Now()
		if stats != nil {
			j.Nodes = stats.Nodes
			j.Restarts = stats.Restarts
		}
	})
	if job, ok := store.Get(jobID); ok {
		metricSolvesFinished.WithLabelValues(job.Algorithm, string(status)).Inc()
		if stats != nil {
			metricStatesExplored.Add(float64(stats.Nodes))
			metricSolveSeconds.WithLabelValues(job.Algorithm).Observe(elapsed.Seconds())
		}
		log.Printf("[backlog] job %s %s: status=%s moves=%d elapsed=%dms cache_hit=%t",
			jobID, job.Algorithm, status, len(moves), elapsed.Milliseconds(), cacheHit)
	}
	publishJobStatus(hub, store, jobID)
}

func publishJobStatus(hub *ProgressHub, store *JobStore, jobID string) {
	if hub == nil {
		return
	}
	job, ok := store.Snapshot(jobID)
	if !ok {
		return
	}
	final := job.Status != string(JobQueued) && job.Status != string(JobRunning)
	hub.Publish(progressPayload{
		JobID:  jobID,
		Status: job.Status,
		Moves:  job.Moves,
		Active: !final,
		Final:  final,
	})
}

func replaySolves(board *Board, moves []Move) bool {
	replay := board.Clone()
	for _, move := range moves {
		if err := replay.ApplyMove(move); err != nil {
			return false
		}
	}
	return replay.IsSolved()
}
