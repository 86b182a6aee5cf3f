package main

import "sync"

type Config struct {
	SolverAlgorithm string `json:"solver_algorithm"`
	SolverHeuristic string `json:"solver_heuristic"`

	// Iterative deepening
	IdaLimitCeiling float64 `json:"ida_limit_ceiling"`

	// Simulated annealing
	SaStartTemp   float64 `json:"sa_start_temp"`
	SaEndTemp     float64 `json:"sa_end_temp"`
	SaCoolFactor  float64 `json:"sa_cool_factor"`
	SaMaxSteps    int     `json:"sa_max_steps"`
	SaMaxRestarts int     `json:"sa_max_restarts"`
	SaSeed        int64   `json:"sa_seed"`

	// Solve queue
	QueueWorkers   int `json:"queue_workers"`
	SolveTimeoutMs int `json:"solve_timeout_ms"`

	// Progress streaming
	ProgressThrottleMs int `json:"progress_throttle_ms"`
	WsPingIntervalSec  int `json:"ws_ping_interval_sec"`

	// Solution cache
	PersistSolutions  bool   `json:"persist_solutions"`
	SolutionCachePath string `json:"solution_cache_path"`

	MapsDir       string `json:"maps_dir"`
	LogSolveStats bool   `json:"log_solve_stats"`

	Heuristics HeuristicConfig `json:"heuristics"`
}

// HeuristicConfig carries every penalty, bonus and weight the heuristic
// library uses. Defaults reproduce the classic tuning; the settings API
// can override them per deployment.
type HeuristicConfig struct {
	CornerDeadlockPenalty   float64 `json:"corner_deadlock_penalty"`
	MatchingDeadlockPenalty float64 `json:"matching_deadlock_penalty"`
	TunnelPenalty           float64 `json:"tunnel_penalty"`
	BlockingPenalty         float64 `json:"blocking_penalty"`
	PlacedBonus             float64 `json:"placed_bonus"`
	DistanceWeight          float64 `json:"distance_weight"`
	SpreadWeight            float64 `json:"spread_weight"`
	TargetDistanceWeight    float64 `json:"target_distance_weight"`
	TargetDeadlockPenalty   float64 `json:"target_deadlock_penalty"`
	TargetTunnelPenalty     float64 `json:"target_tunnel_penalty"`
	TargetBlockingPenalty   float64 `json:"target_blocking_penalty"`
	ExploredStatesWeight    float64 `json:"explored_states_weight"`
}

type ConfigStore struct {
	mu     sync.RWMutex
	config Config
}

func DefaultConfig() Config {
	return Config{
		SolverAlgorithm: AlgorithmIDAStar,
		SolverHeuristic: HeuristicTargetMatching,

		// Deepening past this limit means the board is effectively
		// unsolvable; report no solution instead of looping.
		IdaLimitCeiling: 10000,

		SaStartTemp:  1000.0,
		SaEndTemp:    0.1,
		SaCoolFactor: 0.995,
		SaMaxSteps:   100000,
		// Restart ceiling so unsolvable boards terminate; 0 restores the
		// original unbounded behaviour.
		SaMaxRestarts: 10000,
		SaSeed:        0,

		QueueWorkers:   1,
		SolveTimeoutMs: 300000,

		ProgressThrottleMs: 50,
		WsPingIntervalSec:  30,

		PersistSolutions:  true,
		SolutionCachePath: "cache_logs/solutions.gob",

		MapsDir:       "maps",
		LogSolveStats: false,

		Heuristics: HeuristicConfig{
			CornerDeadlockPenalty:   1000.0,
			MatchingDeadlockPenalty: 1000.0,
			TunnelPenalty:           50.0,
			BlockingPenalty:         100.0,
			PlacedBonus:             30.0,
			DistanceWeight:          2.0,
			SpreadWeight:            2.0,
			TargetDistanceWeight:    2.5,
			TargetDeadlockPenalty:   1500.0,
			TargetTunnelPenalty:     80.0,
			TargetBlockingPenalty:   150.0,
			ExploredStatesWeight:    0.1,
		},
	}
}

var configStore = &ConfigStore{config: DefaultConfig()}

func GetConfig() Config {
	return configStore.Get()
}

func (c *ConfigStore) Get() Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config
}

func (c *ConfigStore) Update(newConfig Config) {
	c.mu.Lock()
	c.config = newConfig
	c.mu.Unlock()
}
