// Package api provides HTTP handlers for the JEE prep API.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/soumil/jeeprep/internal/catalog"
	"github.com/soumil/jeeprep/internal/config"
	"github.com/soumil/jeeprep/internal/gate"
	"github.com/soumil/jeeprep/internal/identity"
	"github.com/soumil/jeeprep/internal/metrics"
	"github.com/soumil/jeeprep/internal/mocktest"
)

// Counter is the students-helped counter as seen by handlers.
type Counter interface {
	Read(ctx context.Context) int64
	Bump(ctx context.Context, delta int64) int64
}

// Handler serves the chapter, test and counter endpoints.
type Handler struct {
	catalog *catalog.Catalog
	gates   *gate.Registry
	tests   *mocktest.Service
	counter Counter
	metrics *metrics.Metrics
	cfg     *config.Config
}

// NewHandler creates a Handler. metrics may be nil.
func NewHandler(cat *catalog.Catalog, gates *gate.Registry, tests *mocktest.Service, counter Counter, m *metrics.Metrics, cfg *config.Config) *Handler {
	return &Handler{
		catalog: cat,
		gates:   gates,
		tests:   tests,
		counter: counter,
		metrics: m,
		cfg:     cfg,
	}
}

// gateFor returns the caller's gate, scoped to device and tab session.
func (h *Handler) gateFor(r *http.Request) *gate.Gate {
	ctx := r.Context()
	return h.gates.Get(identity.UserIDFromContext(ctx), identity.SessionIDFromContext(ctx))
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// ErrorWithDetail writes a JSON error response with a human-readable message.
func ErrorWithDetail(w http.ResponseWriter, status int, code, message string) {
	JSON(w, status, map[string]string{"error": code, "message": message})
}
