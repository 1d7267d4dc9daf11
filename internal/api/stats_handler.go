package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/webdevsint/coffee-lab-api/pkg/catalog/admin"
)

// StatsHandler exposes the reporting service to the admin dashboard.
type StatsHandler struct {
	reports admin.Service
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(reports admin.Service) *StatsHandler {
	return &StatsHandler{reports: reports}
}

// Routes returns the routes for catalog reporting
func (h *StatsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/stats", h.Stats)
	r.Get("/counts", h.Counts)
	return r
}

// Stats returns per-collection counts and newest-document timestamps
func (h *StatsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.reports.Stats(r.Context())
	if err != nil {
		slog.Error("failed to compute catalog stats", "error", err)
		respondError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}
	render.JSON(w, r, stats)
}

// Counts returns the document count of every collection
func (h *StatsHandler) Counts(w http.ResponseWriter, r *http.Request) {
	counts, err := h.reports.Counts(r.Context())
	if err != nil {
		slog.Error("failed to count collections", "error", err)
		respondError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}
	render.JSON(w, r, counts)
}
