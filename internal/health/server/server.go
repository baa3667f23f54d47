// Package server exposes scoring and stored reports over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/semaphore"

	"github.com/build-flow-labs/repohealth/health/schema"
	"github.com/build-flow-labs/repohealth/internal/health/batch"
	"github.com/build-flow-labs/repohealth/internal/health/github"
	"github.com/build-flow-labs/repohealth/internal/health/render"
	"github.com/build-flow-labs/repohealth/internal/health/score"
	"github.com/build-flow-labs/repohealth/internal/health/store"
)

// Config holds server configuration.
type Config struct {
	Addr string
	// MaxConcurrent bounds scoring requests in flight; extra requests get 429.
	MaxConcurrent int
	// ScoreTimeout bounds one collect-and-score request.
	ScoreTimeout time.Duration
}

// Server is the repository health HTTP server.
type Server struct {
	cfg       Config
	collector batch.Collector
	store     *store.Store
	logger    *slog.Logger
	mux       *http.ServeMux
	slots     *semaphore.Weighted

	scoresRun   atomic.Int64
	lastScoreAt atomic.Value // time.Time
}

// New creates a configured server. st must already be loaded.
func New(cfg Config, c batch.Collector, st *store.Store, logger *slog.Logger) *Server {
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 4
	}
	if cfg.ScoreTimeout <= 0 {
		cfg.ScoreTimeout = 60 * time.Second
	}

	s := &Server{
		cfg:       cfg,
		collector: c,
		store:     st,
		logger:    logger,
		mux:       http.NewServeMux(),
		slots:     semaphore.NewWeighted(int64(cfg.MaxConcurrent)),
	}

	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /status", s.handleStatus)
	s.mux.HandleFunc("GET /api/reports", s.handleList)
	s.mux.HandleFunc("GET /api/reports/{owner}/{repo}", s.handleGet)
	s.mux.HandleFunc("POST /api/score/{owner}/{repo}", s.handleScore)
	s.mux.HandleFunc("GET /badge/{owner}/{repo}", s.handleBadge)
	s.mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.mux }

// Start listens until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: s.cfg.ScoreTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("health server starting",
			"addr", s.cfg.Addr,
			"storage_dir", s.store.Dir(),
			"reports", s.store.Count(),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		s.logger.Info("shutting down health server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "ok")
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	status := map[string]any{
		"scores_run":     s.scoresRun.Load(),
		"reports_stored": s.store.Count(),
		"schema_version": schema.Version,
	}
	if t, ok := s.lastScoreAt.Load().(time.Time); ok {
		status["last_score_at"] = t.Format(time.RFC3339)
	}
	writeJSON(w, http.StatusOK, status)
}

func parseListOptions(r *http.Request) store.ListOptions {
	q := r.URL.Query()
	opts := store.ListOptions{
		Repo:      q.Get("repo"),
		Grade:     q.Get("grade"),
		Risk:      q.Get("risk"),
		SortField: q.Get("sort"),
		SortDesc:  q.Get("desc") == "true" || q.Get("desc") == "1",
	}
	if n, err := strconv.Atoi(q.Get("limit")); err == nil && n > 0 {
		opts.Limit = n
	}
	return opts
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	entries := s.store.List(parseListOptions(r))
	writeJSON(w, http.StatusOK, map[string]any{
		"count":   len(entries),
		"reports": entries,
	})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	env, err := s.store.Get(r.PathValue("owner"), r.PathValue("repo"), r.URL.Query().Get("run"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, env)
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	owner, repo := r.PathValue("owner"), r.PathValue("repo")

	if !s.slots.TryAcquire(1) {
		scoresTotal.WithLabelValues("busy").Inc()
		writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "too many scoring requests in flight"})
		return
	}
	defer s.slots.Release(1)

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.ScoreTimeout)
	defer cancel()

	start := time.Now()
	bundle, err := s.collector.Collect(ctx, owner, repo)
	if err == nil {
		var report *schema.HealthReport
		report, err = score.Evaluate(bundle)
		if err == nil {
			s.finishScore(w, report, time.Since(start))
			return
		}
	}

	scoresTotal.WithLabelValues(resultLabel(err)).Inc()
	s.logger.Warn("scoring failed", "repo", owner+"/"+repo, "error", err)
	s.writeError(w, err)
}

func (s *Server) finishScore(w http.ResponseWriter, report *schema.HealthReport, took time.Duration) {
	entry, err := s.store.Save(report)
	if err != nil {
		scoresTotal.WithLabelValues("store_error").Inc()
		s.logger.Error("storing report", "repo", report.Repository, "error", err)
		s.writeError(w, err)
		return
	}

	scoreDuration.Observe(took.Seconds())
	scoresTotal.WithLabelValues("ok").Inc()
	totalScores.Observe(float64(report.TotalScore))
	gradesTotal.WithLabelValues(string(report.Grade)).Inc()
	s.scoresRun.Add(1)
	s.lastScoreAt.Store(time.Now().UTC())

	s.logger.Info("repository scored",
		"repo", report.Repository,
		"score", report.TotalScore,
		"grade", report.Grade,
		"run_id", entry.RunID,
		"duration", took,
	)
	writeJSON(w, http.StatusCreated, map[string]any{
		"run_id": entry.RunID,
		"report": report,
	})
}

func (s *Server) handleBadge(w http.ResponseWriter, r *http.Request) {
	env, err := s.store.Get(r.PathValue("owner"), r.PathValue("repo"), "")
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Cache-Control", "max-age=300")
	http.Redirect(w, r, render.BadgeURL(env.Report), http.StatusFound)
}

// statusFor maps an error to the HTTP status returned to the caller.
func statusFor(err error) int {
	var verr *schema.ValidationError
	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, github.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, github.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, github.ErrUnauthorized):
		return http.StatusBadGateway
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func resultLabel(err error) string {
	switch statusFor(err) {
	case http.StatusNotFound:
		return "not_found"
	case http.StatusTooManyRequests:
		return "rate_limited"
	case http.StatusUnprocessableEntity:
		return "invalid"
	}
	return "error"
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
