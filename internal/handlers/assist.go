package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/jaatdharmendra53-star/Svbh-help/internal/models"
	"github.com/jaatdharmendra53-star/Svbh-help/internal/services"
)

// AssistHandler exposes the best-effort AI description refiner.
type AssistHandler struct {
	svc    *services.AssistService
	logger *zap.SugaredLogger
}

// NewAssistHandler creates a new assist handler.
func NewAssistHandler(svc *services.AssistService, logger *zap.SugaredLogger) *AssistHandler {
	return &AssistHandler{svc: svc, logger: logger}
}

// Refine handles POST /api/v1/assist. The refiner never fails: when the
// model is unavailable the caller simply gets its description back.
func (h *AssistHandler) Refine(w http.ResponseWriter, r *http.Request) {
	var req models.AssistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	respondJSON(w, http.StatusOK, h.svc.Refine(r.Context(), req.Description))
}
