package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jaatdharmendra53-star/Svbh-help/internal/services"
)

// ActivityHandler exposes the complaint event trail to the warden.
type ActivityHandler struct {
	svc    *services.ActivityService
	logger *zap.SugaredLogger
}

// NewActivityHandler creates a new activity handler.
func NewActivityHandler(svc *services.ActivityService, logger *zap.SugaredLogger) *ActivityHandler {
	return &ActivityHandler{svc: svc, logger: logger}
}

// ByComplaint handles GET /api/v1/complaints/{id}/events
func (h *ActivityHandler) ByComplaint(w http.ResponseWriter, r *http.Request) {
	// complaint_events.complaint_id is UUID-typed; reject malformed ids
	// before they reach parameter encoding.
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		respondError(w, http.StatusNotFound, "Complaint not found")
		return
	}

	events, err := h.svc.FetchByComplaint(r.Context(), id, 50)
	if err != nil {
		h.logger.Errorw("Failed to fetch events", "id", id, "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to fetch events")
		return
	}

	respondJSON(w, http.StatusOK, events)
}

// Recent handles GET /api/v1/activity/recent
func (h *ActivityHandler) Recent(w http.ResponseWriter, r *http.Request) {
	events, err := h.svc.FetchRecent(r.Context(), 100)
	if err != nil {
		h.logger.Errorw("Failed to fetch recent events", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to fetch recent events")
		return
	}

	respondJSON(w, http.StatusOK, events)
}
