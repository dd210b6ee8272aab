// Package web serves the loaded feature document and derived views over
// HTTP for dashboard frontends.
package web

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/featuremap/featuremap/core"
	"github.com/featuremap/featuremap/core/query"
	"github.com/featuremap/featuremap/core/tabsort"
	"github.com/featuremap/featuremap/internal/contract"
	"github.com/featuremap/featuremap/internal/feed"
	"github.com/featuremap/featuremap/schema"
)

// shutdownTimeout bounds the graceful drain on shutdown.
const shutdownTimeout = 5 * time.Second

// Server holds the current document snapshot behind a read lock so reloads
// swap it atomically under concurrent requests.
type Server struct {
	cfg   *contract.Config
	cache contract.DocumentCache

	mu       sync.RWMutex
	snapshot *feed.Snapshot
}

// NewServer creates a server over an already loaded snapshot.
func NewServer(cfg *contract.Config, snapshot *feed.Snapshot, cache contract.DocumentCache) *Server {
	return &Server{cfg: cfg, cache: cache, snapshot: snapshot}
}

// Snapshot returns the currently served document.
func (s *Server) Snapshot() *feed.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// setSnapshot swaps the served document.
func (s *Server) setSnapshot(snapshot *feed.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = snapshot
}

// Reload re-reads the configured source and swaps the served snapshot.
func (s *Server) Reload() error {
	snapshot, err := feed.Load(s.cfg.Source, s.cache)
	if err != nil {
		return err
	}
	s.setSnapshot(snapshot)
	return nil
}

// Handler returns the HTTP routes of the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/features.json", s.handleDocument)
	mux.HandleFunc("/api/insights", s.handleInsights)
	mux.HandleFunc("/api/deps/", s.handleDeps)
	return mux
}

// Run serves until the context is cancelled, then drains connections.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.ServeAddr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// handleHealth reports liveness plus basic document info.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	snapshot := s.Snapshot()
	writeJSONResponse(w, http.StatusOK, map[string]any{
		"status":       "ok",
		"source":       snapshot.Source,
		"content_hash": snapshot.ContentHash,
		"loaded_at":    snapshot.LoadedAt.Format(contract.DateTimeFormat),
		"features":     snapshot.FeatureCount(),
	})
}

// handleDocument serves the raw feature forest.
func (s *Server) handleDocument(w http.ResponseWriter, _ *http.Request) {
	writeJSONResponse(w, http.StatusOK, s.Snapshot().Features)
}

// handleInsights serves flat insight rows, filtered by ?q= and sorted by
// ?sort= and ?direction=.
func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	snapshot := s.Snapshot()
	rows := core.BuildInsightRows(snapshot.Features)

	if q := r.URL.Query().Get("q"); q != "" {
		rows = query.Filter(rows, query.Parse(q), s.cfg.SearchFields)
	}

	if field := r.URL.Query().Get("sort"); field != "" {
		direction := schema.SortAscending
		if r.URL.Query().Get("direction") == string(schema.SortDescending) {
			direction = schema.SortDescending
		}
		sorter := tabsort.New(rows, schema.SortConfig{Field: field, Direction: direction})
		rows = sorter.Sorted()
	}

	if limitParam := r.URL.Query().Get("limit"); limitParam != "" {
		limit, err := strconv.Atoi(limitParam)
		if err != nil || limit < 1 {
			writeJSONError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		if limit < len(rows) {
			rows = rows[:limit]
		}
	}

	writeJSONResponse(w, http.StatusOK, map[string]any{
		"total": len(rows),
		"rows":  rows,
	})
}

// handleDeps serves grouped dependency reports, for one feature path or the
// whole forest.
func (s *Server) handleDeps(w http.ResponseWriter, r *http.Request) {
	snapshot := s.Snapshot()
	reports := core.BuildDependencyReports(snapshot.Features, s.cfg.TypeFilter)

	featurePath := strings.TrimPrefix(r.URL.Path, "/api/deps/")
	if featurePath != "" {
		for _, report := range reports {
			if report.FeaturePath == featurePath {
				writeJSONResponse(w, http.StatusOK, []core.DependencyReport{report})
				return
			}
		}
		writeJSONError(w, http.StatusNotFound, "no dependencies for feature "+featurePath)
		return
	}

	writeJSONResponse(w, http.StatusOK, reports)
}

func writeJSONResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	if err := encoder.Encode(data); err != nil {
		contract.LogWarn("encoding response", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSONResponse(w, status, map[string]string{"error": message})
}
