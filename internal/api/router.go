package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"
)

// JobCounter reports queue depth per status for the stats endpoint.
type JobCounter interface {
	JobCounts(ctx context.Context) (map[string]int, error)
}

// Pinger is anything whose liveness the health endpoint should verify.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Handler serves the worker's operational endpoints. This is not the
// product API — just health and queue visibility for deployment tooling.
type Handler struct {
	jobs JobCounter
	db   Pinger
	log  *logrus.Entry
}

func NewHandler(jobs JobCounter, db Pinger, logger *logrus.Logger) *Handler {
	return &Handler{jobs: jobs, db: db, log: logger.WithField("component", "ops")}
}

// RouterConfig holds the router's environment-driven settings.
type RouterConfig struct {
	// CorsAllowedOrigins is a comma-separated list of allowed origins.
	// Empty allows all (development mode).
	CorsAllowedOrigins string
}

func NewRouter(h *Handler, cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	allowedOrigins := []string{"*"}
	if cfg.CorsAllowedOrigins != "" {
		origins := strings.Split(cfg.CorsAllowedOrigins, ",")
		trimmed := make([]string, 0, len(origins))
		for _, o := range origins {
			if s := strings.TrimSpace(o); s != "" {
				trimmed = append(trimmed, s)
			}
		}
		if len(trimmed) > 0 {
			allowedOrigins = trimmed
		}
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", h.Health)
	r.Get("/stats", h.Stats)

	return r
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	status := "ok"
	code := http.StatusOK
	if h.db != nil {
		if err := h.db.PingContext(ctx); err != nil {
			h.log.WithError(err).Warn("health check database ping failed")
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
	}

	writeJSON(w, code, map[string]string{"status": status})
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	counts, err := h.jobs.JobCounts(r.Context())
	if err != nil {
		h.log.WithError(err).Error("failed to read job counts")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to read job counts"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"jobs": counts})
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
