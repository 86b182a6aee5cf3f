package main

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

type JobStatus string

const (
	JobQueued     JobStatus = "queued"
	JobRunning    JobStatus = "running"
	JobDone       JobStatus = "done"
	JobNoSolution JobStatus = "no_solution"
	JobCanceled   JobStatus = "canceled"
	JobFailed     JobStatus = "failed"
)

// SolveJob tracks one solve request through the backlog. The initial board
// is retained so finished jobs can be rendered and revalidated.
type SolveJob struct {
	ID        string
	MapName   string
	Algorithm string
	Heuristic string
	Status    JobStatus
	Moves     []Move
	Error     string
	CacheHit  bool
	Nodes     int64
	Restarts  int
	ElapsedMs int64
	CreatedAt time.Time
	StartedAt time.Time
	DoneAt    time.Time

	board  *Board
	cancel atomic.Bool
}

func (j *SolveJob) Canceled() bool {
	return j.cancel.Load()
}

type JobStore struct {
	mu    sync.RWMutex
	jobs  map[string]*SolveJob
	order []string
}

func NewJobStore() *JobStore {
	return &JobStore{jobs: make(map[string]*SolveJob)}
}

func (s *JobStore) Create(mapName, algorithm, heuristic string, board *Board) *SolveJob {
	job := &SolveJob{
		ID:        uuid.NewString(),
		MapName:   mapName,
		Algorithm: algorithm,
		Heuristic: heuristic,
		Status:    JobQueued,
		CreatedAt: time.Now(),
		board:     board,
	}
	s.mu.Lock()
	s.jobs[job.ID] = job
	s.order = append(s.order, job.ID)
	s.mu.Unlock()
	return job
}

func (s *JobStore) Get(id string) (*SolveJob, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	return job, ok
}

// Update runs fn under the store lock so worker writes and handler reads
// never race on job fields.
func (s *JobStore) Update(id string, fn func(*SolveJob)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return false
	}
	fn(job)
	return true
}

func (s *JobStore) Cancel(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return false
	}
	job.cancel.Store(true)
	if job.Status == JobQueued {
		job.Status = JobCanceled
		job.DoneAt = time.Now()
	}
	return true
}

func (s *JobStore) SnapshotAll() []jobDTO {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]jobDTO, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, jobToDTO(s.jobs[id]))
	}
	return out
}

func (s *JobStore) Snapshot(id string) (jobDTO, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	if !ok {
		return jobDTO{}, false
	}
	return jobToDTO(job), true
}

// BoardCopy returns an independent clone of the job's initial board.
func (s *JobStore) BoardCopy(id string) (*Board, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	if !ok || job.board == nil {
		return nil, false
	}
	return job.board.Clone(), true
}

type jobDTO struct {
	ID        string   `json:"id"`
	Map       string   `json:"map,omitempty"`
	Algorithm string   `json:"algorithm"`
	Heuristic string   `json:"heuristic"`
	Status    string   `json:"status"`
	Moves     []string `json:"moves"`
	MoveCount int      `json:"move_count"`
	Error     string   `json:"error,omitempty"`
	CacheHit  bool     `json:"cache_hit"`
	Nodes     int64    `json:"nodes"`
	Restarts  int      `json:"restarts"`
	ElapsedMs int64    `json:"elapsed_ms"`
	CreatedAt string   `json:"created_at"`
}

func jobToDTO(job *SolveJob) jobDTO {
	return jobDTO{
		ID:        job.ID,
		Map:       job.MapName,
		Algorithm: job.Algorithm,
		Heuristic: job.Heuristic,
		Status:    string(job.Status),
		Moves:     movesToStrings(job.Moves),
		MoveCount: len(job.Moves),
		Error:     job.Error,
		CacheHit:  job.CacheHit,
		Nodes:     job.Nodes,
		Restarts:  job.Restarts,
		ElapsedMs: job.ElapsedMs,
		CreatedAt: job.CreatedAt.Format(time.RFC3339),
	}
}

func validateSolveRequest(algorithm, heuristic string) error {
	if _, err := HeuristicByName(heuristic); err != nil {
		return err
	}
	switch algorithm {
	case AlgorithmIDAStar, AlgorithmAnnealing:
		return nil
	default:
		return fmt.Errorf("unknown algorithm %q", algorithm)
	}
}
