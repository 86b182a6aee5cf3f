package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type solveRequest struct {
	Map       string `json:"map,omitempty"`
	Board     string `json:"board,omitempty"`
	Algorithm string `json:"algorithm,omitempty"`
	Heuristic string `json:"heuristic,omitempty"`
}

type mapsResponse struct {
	Maps []string `json:"maps"`
}

type catalogResponse struct {
	Algorithms []string `json:"algorithms"`
	Heuristics []string `json:"heuristics"`
}

type cacheStatusResponse struct {
	Count     int    `json:"count"`
	Persisted bool   `json:"persisted"`
	Path      string `json:"path"`
}

func main() {
	var persistOnce sync.Once
	persistOnShutdown := func(reason string) {
		persistOnce.Do(func() {
			log.Printf("[backend] persisting solution cache on %s", reason)
			persistSolutions(GetConfig())
		})
	}
	defer func() {
		if recovered := recover(); recovered != nil {
			log.Printf("[backend] panic recovered in main: %v", recovered)
			persistOnShutdown("panic")
		}
	}()

	loadPersistedSolutions(GetConfig())
	defer persistOnShutdown("exit")

	store := NewJobStore()
	hub := NewProgressHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go hub.Run(ctx.Done())
	startSolveBacklogWorkers(store, hub, ctx.Done())

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/api/ping", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})

	r.Get("/api/maps", func(w http.ResponseWriter, r *http.Request) {
		names, err := ListMaps(GetConfig().MapsDir)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, mapsResponse{Maps: names})
	})

	r.Get("/api/catalog", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, catalogResponse{
			Algorithms: AlgorithmNames(),
			Heuristics: HeuristicNames(),
		})
	})

	r.Post("/api/solve", func(w http.ResponseWriter, r *http.Request) {
		var payload solveRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
		config := GetConfig()
		algorithm := payload.Algorithm
		if algorithm == "" {
			algorithm = config.SolverAlgorithm
		}
		heuristic := payload.Heuristic
		if heuristic == "" {
			heuristic = config.SolverHeuristic
		}
		if err := validateSolveRequest(algorithm, heuristic); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		board, mapName, err := boardFromRequest(payload, config)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		job := store.Create(mapName, algorithm, heuristic, board)
		solveBacklogManager.Enqueue(job.ID)
		writeJSON(w, http.StatusAccepted, jobToDTO(job))
	})

	r.Get("/api/jobs", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"jobs":    store.SnapshotAll(),
			"pending": solveBacklogManager.Pending(),
		})
	})

	r.Get("/api/jobs/{id}", func(w http.ResponseWriter, r *http.Request) {
		job, ok := store.Snapshot(chi.URLParam(r, "id"))
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "job not found"})
			return
		}
		writeJSON(w, http.StatusOK, job)
	})

	r.Delete("/api/jobs/{id}", func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if !store.Cancel(id) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "job not found"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"canceled": true, "id": id})
	})

	r.Get("/api/jobs/{id}/solution.gif", func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		job, ok := store.Get(id)
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "job not found"})
			return
		}
		if job.Status != JobDone {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "job has no solution yet"})
			return
		}
		board, ok := store.BoardCopy(id)
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "job board missing"})
			return
		}
		w.Header().Set("Content-Type", "image/gif")
		if err := EncodeSolutionGIF(w, board, job.Moves, 40); err != nil {
			log.Printf("[backend] render job %s: %v", id, err)
		}
	})

	r.Get("/api/settings", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, GetConfig())
	})

	r.Post("/api/settings", func(w http.ResponseWriter, r *http.Request) {
		var payload Config
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
		configStore.Update(payload)
		writeJSON(w, http.StatusOK, GetConfig())
	})

	r.Get("/api/cache/solutions", func(w http.ResponseWriter, r *http.Request) {
		config := GetConfig()
		writeJSON(w, http.StatusOK, cacheStatusResponse{
			Count:     SharedSolutionCache().Count(),
			Persisted: config.PersistSolutions,
			Path:      config.SolutionCachePath,
		})
	})

	r.Delete("/api/cache/solutions", func(w http.ResponseWriter, r *http.Request) {
		SharedSolutionCache().Flush()
		writeJSON(w, http.StatusOK, map[string]bool{"cleared": true})
	})

	r.Get("/ws/progress", func(w http.ResponseWriter, r *http.Request) {
		serveProgressWS(hub, w, r)
	})

	r.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:    ":8080",
		Handler: r,
	}
	serverErrCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
		close(serverErrCh)
	}()

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	log.Println("backend listening on :8080")
	var runErr error
	select {
	case <-sigCtx.Done():
		log.Printf("[backend] shutdown signal received: %v", sigCtx.Err())
	case err, ok := <-serverErrCh:
		if ok {
			runErr = err
			log.Printf("[backend] server error: %v", err)
		}
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("[backend] graceful shutdown failed: %v", err)
		if closeErr := server.Close(); closeErr != nil && !errors.Is(closeErr, http.ErrServerClosed) {
			log.Printf("[backend] forced close failed: %v", closeErr)
		}
	}

	cancel()
	persistOnShutdown("shutdown")
	if runErr != nil {
		log.Printf("[backend] exiting after server error: %v", runErr)
	}
}

func boardFromRequest(payload solveRequest, config Config) (*Board, string, error) {
	if payload.Board != "" {
		board, err := ParseBoard([]byte(payload.Board))
		if err != nil {
			return nil, "", err
		}
		return board, "", nil
	}
	if payload.Map == "" {
		return nil, "", fmt.Errorf("either map or board is required")
	}
	path, err := FindMap(config.MapsDir, payload.Map)
	if err != nil {
		return nil, "", err
	}
	board, err := LoadBoard(path)
	if err != nil {
		return nil, "", err
	}
	return board, payload.Map, nil
}

func mustMarshal(v any) json.RawMessage {
	data, _ := json.Marshal(v)
	return data
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
