package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/jaatdharmendra53-star/Svbh-help/internal/middleware"
	"github.com/jaatdharmendra53-star/Svbh-help/internal/models"
	"github.com/jaatdharmendra53-star/Svbh-help/internal/services"
)

// AuthHandler handles login, logout, and session inspection.
type AuthHandler struct {
	svc    *services.AuthService
	logger *zap.SugaredLogger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(svc *services.AuthService, logger *zap.SugaredLogger) *AuthHandler {
	return &AuthHandler{svc: svc, logger: logger}
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "Name is required")
		return
	}

	profile, token, err := h.svc.Login(r.Context(), &req)
	if err != nil {
		status, msg := loginErrorStatus(err)
		if status == http.StatusInternalServerError {
			h.logger.Errorw("Login failed", "error", err)
		}
		respondError(w, status, msg)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"profile": profile,
		"token":   token,
	})
}

// Logout handles POST /api/v1/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.SessionIDFromContext(r.Context())
	if err := h.svc.Logout(r.Context(), sessionID); err != nil {
		h.logger.Errorw("Logout failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to log out")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "signed out"})
}

// Session handles GET /api/v1/auth/session
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	profile, ok := middleware.ProfileFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "No active session")
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

// loginErrorStatus maps resolver failures to user-facing validation errors.
// Anything unexpected stays a 500 with a generic message.
func loginErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrNotInDirectory):
		return http.StatusUnauthorized, "Reg. No not in directory"
	case errors.Is(err, services.ErrNameMismatch):
		return http.StatusUnauthorized, "Details mismatch"
	case errors.Is(err, services.ErrRoomRequired):
		return http.StatusBadRequest, "Required: Room Number"
	case errors.Is(err, services.ErrWrongPIN):
		return http.StatusUnauthorized, "Incorrect Warden PIN"
	default:
		return http.StatusInternalServerError, "Login failed"
	}
}
