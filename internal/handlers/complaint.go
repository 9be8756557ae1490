// Package handlers contains HTTP request handlers for the SVBH HELP API.
// Handlers parse requests, call services, and return JSON responses.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/jaatdharmendra53-star/Svbh-help/internal/middleware"
	"github.com/jaatdharmendra53-star/Svbh-help/internal/models"
	"github.com/jaatdharmendra53-star/Svbh-help/internal/services"
	"github.com/jaatdharmendra53-star/Svbh-help/internal/store"
)

// ComplaintHandler handles complaint submission, feeds, the support toggle,
// and status transitions.
type ComplaintHandler struct {
	complaintSvc *services.ComplaintService
	feedSvc      *services.FeedService
	activitySvc  *services.ActivityService
	logger       *zap.SugaredLogger
}

// NewComplaintHandler creates a new complaint handler.
func NewComplaintHandler(cs *services.ComplaintService, fs *services.FeedService, as *services.ActivityService, logger *zap.SugaredLogger) *ComplaintHandler {
	return &ComplaintHandler{complaintSvc: cs, feedSvc: fs, activitySvc: as, logger: logger}
}

// Submit handles POST /api/v1/complaints
func (h *ComplaintHandler) Submit(w http.ResponseWriter, r *http.Request) {
	profile, _ := middleware.ProfileFromContext(r.Context())

	var req models.ComplaintSubmission
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.Description) < 5 {
		respondError(w, http.StatusBadRequest, "Description is too short")
		return
	}
	if !contains(models.ValidCategories, req.ComplaintCategory) {
		respondError(w, http.StatusBadRequest, "Unknown complaint category")
		return
	}
	switch req.LocationType {
	case models.LocationRoom, models.LocationWashroom, models.LocationMess:
	default:
		respondError(w, http.StatusBadRequest, "Unknown location type")
		return
	}

	complaint, err := h.complaintSvc.Submit(r.Context(), profile, &req)
	if err != nil {
		h.logger.Errorw("Failed to submit complaint", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to submit complaint")
		return
	}

	_ = h.activitySvc.Record(r.Context(), complaint.ID, services.EventSubmitted,
		profile.UID, complaint.ComplaintCategory+" / "+complaint.SubLocation)

	respondJSON(w, http.StatusCreated, complaint)
}

// Mine handles GET /api/v1/complaints/mine — the personal feed.
func (h *ComplaintHandler) Mine(w http.ResponseWriter, r *http.Request) {
	profile, _ := middleware.ProfileFromContext(r.Context())

	feed, err := h.feedSvc.FetchMyComplaints(r.Context(), profile.UID)
	h.respondFeed(w, profile, feed, err)
}

// Community handles GET /api/v1/complaints/community — washroom complaints
// on the student's floor plus hostel-wide mess complaints.
func (h *ComplaintHandler) Community(w http.ResponseWriter, r *http.Request) {
	profile, _ := middleware.ProfileFromContext(r.Context())

	feed, err := h.feedSvc.FetchCommunityComplaints(r.Context(), profile.Floor)
	h.respondFeed(w, profile, feed, err)
}

// Filtered handles GET /api/v1/complaints/filtered — the warden feed.
// Query parameters: floor (0 = all), category, status.
func (h *ComplaintHandler) Filtered(w http.ResponseWriter, r *http.Request) {
	profile, _ := middleware.ProfileFromContext(r.Context())

	floor, _ := strconv.Atoi(r.URL.Query().Get("floor"))
	category := r.URL.Query().Get("category")
	status := r.URL.Query().Get("status")

	feed, err := h.feedSvc.FetchFilteredComplaints(r.Context(), floor, category, status)
	h.respondFeed(w, profile, feed, err)
}

// Support handles POST /api/v1/complaints/{id}/support
func (h *ComplaintHandler) Support(w http.ResponseWriter, r *http.Request) {
	profile, _ := middleware.ProfileFromContext(r.Context())
	id := chi.URLParam(r, "id")

	supporting, err := h.complaintSvc.ToggleSupport(r.Context(), id, profile.UID)
	if err != nil {
		h.logger.Errorw("Support toggle failed", "id", id, "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to toggle support")
		return
	}

	_ = h.activitySvc.Record(r.Context(), id, services.EventSupportToggle,
		profile.UID, fmt.Sprintf("supporting=%t", supporting))

	respondJSON(w, http.StatusOK, map[string]bool{"supporting": supporting})
}

// UpdateStatus handles PUT /api/v1/complaints/{id}/status
func (h *ComplaintHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	profile, _ := middleware.ProfileFromContext(r.Context())
	id := chi.URLParam(r, "id")

	var req models.StatusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	complaint, err := h.complaintSvc.UpdateStatus(r.Context(), id, req.Status, req.OTP)
	switch {
	case errors.Is(err, services.ErrInvalidStatus):
		respondError(w, http.StatusBadRequest, "Unknown status")
		return
	case errors.Is(err, store.ErrNotFound):
		respondError(w, http.StatusNotFound, "Complaint not found")
		return
	case errors.Is(err, services.ErrOTPMismatch):
		// User-correctable: the warden re-asks the student and retries.
		respondError(w, http.StatusForbidden, "Incorrect code. Please check with the student.")
		return
	case err != nil:
		h.logger.Errorw("Status update failed", "id", id, "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to update status")
		return
	}

	_ = h.activitySvc.Record(r.Context(), id, services.EventStatusChanged,
		profile.UID, req.Status)

	respondJSON(w, http.StatusOK, redactOTP(*complaint, profile))
}

// respondFeed applies the feed error policy: a store failure is logged and
// degrades to an empty list, never a blocking error.
func (h *ComplaintHandler) respondFeed(w http.ResponseWriter, viewer *models.UserProfile, feed []models.Complaint, err error) {
	if err != nil {
		h.logger.Warnw("Feed sync failed", "error", err)
		respondJSON(w, http.StatusOK, []models.Complaint{})
		return
	}
	out := make([]models.Complaint, len(feed))
	for i, c := range feed {
		out[i] = redactOTP(c, viewer)
	}
	respondJSON(w, http.StatusOK, out)
}

// redactOTP hides the resolution code from everyone except the reporting
// student, who reads it off their own feed and hands it to the warden.
func redactOTP(c models.Complaint, viewer *models.UserProfile) models.Complaint {
	if viewer == nil || viewer.UID != c.UID {
		c.ResolveOTP = ""
	}
	return c
}

func contains(list []string, v string) bool {
	for _, e := range list {
		if e == v {
			return true
		}
	}
	return false
}

// Helper: respond with JSON
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// Helper: respond with error
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
