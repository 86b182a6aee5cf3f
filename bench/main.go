package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"
)

type bench struct {
	client       *http.Client
	baseURL      string
	pollInterval time.Duration
	solveTimeout time.Duration
	outDir       string
}

type catalogResponse struct {
	Algorithms []string `json:"algorithms"`
	Heuristics []string `json:"heuristics"`
}

type mapsResponse struct {
	Maps []string `json:"maps"`
}

type jobResponse struct {
	ID        string   `json:"id"`
	Map       string   `json:"map,omitempty"`
	Algorithm string   `json:"algorithm"`
	Heuristic string   `json:"heuristic"`
	Status    string   `json:"status"`
	Moves     []string `json:"moves,omitempty"`
	Error     string   `json:"error,omitempty"`
	CacheHit  bool     `json:"cache_hit"`
	Nodes     int      `json:"nodes"`
	Restarts  int      `json:"restarts"`
	ElapsedMs int64    `json:"elapsed_ms"`
}

type benchResult struct {
	Map       string `json:"map"`
	Algorithm string `json:"algorithm"`
	Heuristic string `json:"heuristic"`
	Status    string `json:"status"`
	Solved    bool   `json:"solved"`
	MoveCount int    `json:"move_count"`
	Nodes     int    `json:"nodes"`
	Restarts  int    `json:"restarts"`
	ElapsedMs int64  `json:"elapsed_ms"`
	CacheHit  bool   `json:"cache_hit"`
	Error     string `json:"error,omitempty"`
}

type benchReport struct {
	StartedAt  string        `json:"started_at"`
	FinishedAt string        `json:"finished_at"`
	Backend    string        `json:"backend"`
	Results    []benchResult `json:"results"`
}

func main() {
	b := &bench{
		client:       &http.Client{Timeout: 10 * time.Second},
		baseURL:      getenv("BACKEND_URL", "http://localhost:8080"),
		pollInterval: time.Duration(getenvInt("POLL_INTERVAL_MS", 250)) * time.Millisecond,
		solveTimeout: time.Duration(getenvInt("SOLVE_TIMEOUT_SEC", 300)) * time.Second,
		outDir:       getenv("BENCH_OUT_DIR", "bench_results"),
	}

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	logf("bench started. backend=%s solve_timeout=%s", b.baseURL, b.solveTimeout)
	if err := b.waitBackendReady(sigCtx); err != nil {
		logf("backend not reachable: %v", err)
		os.Exit(1)
	}

	report, err := b.run(sigCtx)
	if err != nil {
		logf("bench aborted: %v", err)
	}
	if report != nil && len(report.Results) > 0 {
		if err := b.writeReport(report); err != nil {
			logf("failed to write report: %v", err)
			os.Exit(1)
		}
	}
}

func (b *bench) run(ctx context.Context) (*benchReport, error) {
	var maps mapsResponse
	if err := b.getJSON("/api/maps", &maps); err != nil {
		return nil, err
	}
	var catalog catalogResponse
	if err := b.getJSON("/api/catalog", &catalog); err != nil {
		return nil, err
	}
	if len(maps.Maps) == 0 {
		return nil, fmt.Errorf("backend reports no maps")
	}

	report := &benchReport{
		StartedAt: time.Now().UTC().Format(time.RFC3339),
		Backend:   b.baseURL,
	}
	total := len(maps.Maps) * len(catalog.Algorithms) * len(catalog.Heuristics)
	done := 0
	for _, mapName := range maps.Maps {
		for _, algorithm := range catalog.Algorithms {
			for _, heuristic := range catalog.Heuristics {
				if ctx.Err() != nil {
					return report, ctx.Err()
				}
				done++
				logf("[%d/%d] %s algorithm=%s heuristic=%s", done, total, mapName, algorithm, heuristic)
				result, err := b.runOne(ctx, mapName, algorithm, heuristic)
				if err != nil {
					return report, err
				}
				report.Results = append(report.Results, result)
				logf("[%d/%d] status=%s moves=%d nodes=%d elapsed=%dms",
					done, total, result.Status, result.MoveCount, result.Nodes, result.ElapsedMs)
			}
		}
	}
	report.FinishedAt = time.Now().UTC().Format(time.RFC3339)
	return report, nil
}

func (b *bench) runOne(ctx context.Context, mapName, algorithm, heuristic string) (benchResult, error) {
	result := benchResult{Map: mapName, Algorithm: algorithm, Heuristic: heuristic}
	var job jobResponse
	if err := b.postJSON("/api/solve", map[string]string{
		"map":       mapName,
		"algorithm": algorithm,
		"heuristic": heuristic,
	}, &job); err != nil {
		result.Status = "submit_failed"
		result.Error = err.Error()
		return result, nil
	}

	deadline := time.Now().Add(b.solveTimeout)
	for {
		if ctx.Err() != nil {
			_ = b.cancelJob(job.ID)
			return result, ctx.Err()
		}
		var current jobResponse
		if err := b.getJSON("/api/jobs/"+job.ID, &current); err != nil {
			result.Status = "poll_failed"
			result.Error = err.Error()
			return result, nil
		}
		if terminalStatus(current.Status) {
			result.Status = current.Status
			result.Solved = current.Status == "done"
			result.MoveCount = len(current.Moves)
			result.Nodes = current.Nodes
			result.Restarts = current.Restarts
			result.ElapsedMs = current.ElapsedMs
			result.CacheHit = current.CacheHit
			result.Error = current.Error
			return result, nil
		}
		if time.Now().After(deadline) {
			_ = b.cancelJob(job.ID)
			result.Status = "bench_timeout"
			return result, nil
		}
		if !sleepWithContext(ctx, b.pollInterval) {
			_ = b.cancelJob(job.ID)
			return result, ctx.Err()
		}
	}
}

func terminalStatus(status string) bool {
	switch status {
	case "done", "no_solution", "canceled", "failed":
		return true
	}
	return false
}

func (b *bench) writeReport(report *benchReport) error {
	if err := os.MkdirAll(b.outDir, 0o755); err != nil {
		return err
	}
	stamp := time.Now().Format("20060102_150405")

	jsonPath := filepath.Join(b.outDir, "bench_"+stamp+".json")
	raw, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(jsonPath, append(raw, '\n'), 0o644); err != nil {
		return err
	}

	csvPath := filepath.Join(b.outDir, "bench_"+stamp+".csv")
	f, err := os.Create(csvPath)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.Write([]string{"map", "algorithm", "heuristic", "status", "solved", "moves", "nodes", "restarts", "elapsed_ms", "cache_hit", "error"}); err != nil {
		return err
	}
	for _, r := range report.Results {
		record := []string{
			r.Map, r.Algorithm, r.Heuristic, r.Status,
			strconv.FormatBool(r.Solved),
			strconv.Itoa(r.MoveCount),
			strconv.Itoa(r.Nodes),
			strconv.Itoa(r.Restarts),
			strconv.FormatInt(r.ElapsedMs, 10),
			strconv.FormatBool(r.CacheHit),
			r.Error,
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	logf("report written: %s, %s", jsonPath, csvPath)
	return nil
}

func (b *bench) waitBackendReady(ctx context.Context) error {
	deadline := time.Now().Add(60 * time.Second)
	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := b.ping(); err == nil {
			return nil
		}
		if !sleepWithContext(ctx, 1*time.Second) {
			return ctx.Err()
		}
	}
	return fmt.Errorf("timeout after 60s")
}

func (b *bench) ping() error {
	resp, err := b.client.Get(b.baseURL + "/api/ping")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ping status %d", resp.StatusCode)
	}
	return nil
}

func (b *bench) cancelJob(id string) error {
	req, err := http.NewRequest(http.MethodDelete, b.baseURL+"/api/jobs/"+id, nil)
	if err != nil {
		return err
	}
	resp, err := b.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return nil
}

func (b *bench) getJSON(path string, out any) error {
	resp, err := b.client.Get(b.baseURL + path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("GET %s -> %d: %s", path, resp.StatusCode, string(body))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (b *bench) postJSON(path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPost, b.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := b.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("POST %s -> %d: %s", path, resp.StatusCode, string(respBody))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func logf(format string, args ...any) {
	ts := time.Now().Format("2006-01-02 15:04:05")
	fmt.Printf("[%s] %s\n", ts, fmt.Sprintf(format, args...))
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func getenv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	var parsed int
	if _, err := fmt.Sscanf(value, "%d", &parsed); err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}
