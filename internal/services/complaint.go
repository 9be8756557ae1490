package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jaatdharmendra53-star/Svbh-help/internal/models"
	"github.com/jaatdharmendra53-star/Svbh-help/internal/store"
)

// ErrOTPMismatch is returned when the Resolved transition is requested with
// a code that does not match the complaint's resolution OTP.
var ErrOTPMismatch = errors.New("resolution code mismatch")

// ErrInvalidStatus is returned for a status value outside the lifecycle.
var ErrInvalidStatus = errors.New("invalid status")

// ComplaintService handles complaint submission, the status lifecycle, and
// the per-user support toggle.
type ComplaintService struct {
	store  store.Store
	logger *zap.SugaredLogger
}

// NewComplaintService creates a new complaint service.
func NewComplaintService(s store.Store, logger *zap.SugaredLogger) *ComplaintService {
	return &ComplaintService{store: s, logger: logger}
}

// Submit files a new complaint for the given student. The complaint starts
// Pending with an empty support set and a freshly minted resolution OTP,
// which only the reporting student's client should ever display.
func (s *ComplaintService) Submit(ctx context.Context, profile *models.UserProfile, req *models.ComplaintSubmission) (*models.Complaint, error) {
	c := models.Complaint{
		ID:                uuid.New().String(),
		StudentName:       profile.Name,
		UID:               profile.UID,
		Floor:             profile.Floor,
		RoomNumber:        profile.RoomNumber,
		ComplaintCategory: req.ComplaintCategory,
		LocationType:      req.LocationType,
		MessBranch:        req.MessBranch,
		WashroomBlock:     req.WashroomBlock,
		UnitNumber:        req.UnitNumber,
		SubLocation:       req.SubLocation,
		Description:       req.Description,
		Status:            models.StatusPending,
		Timestamp:         time.Now().UnixMilli(),
		SupportUids:       []string{},
		ResolveOTP:        GenerateOTP(),
	}

	// Optional location markers only apply to their own location type.
	if c.LocationType != models.LocationMess {
		c.MessBranch = ""
	}
	if c.LocationType != models.LocationWashroom {
		c.WashroomBlock = ""
	}
	if c.SubLocation == "" {
		c.SubLocation = deriveSubLocation(&c)
	}

	if err := s.store.InsertComplaint(ctx, c.ID, c.Document()); err != nil {
		return nil, fmt.Errorf("submit complaint: %w", err)
	}

	s.logger.Infow("Complaint submitted",
		"id", c.ID,
		"uid", c.UID,
		"category", c.ComplaintCategory,
		"location", c.LocationType,
	)
	return &c, nil
}

// UpdateStatus applies a lifecycle transition. Entering In Progress stamps
// startedAt in the same write. Entering Resolved requires the resolution
// OTP collected from the reporting student; a mismatch leaves the record
// untouched. Callers are trusted to request only the legal next state.
func (s *ComplaintService) UpdateStatus(ctx context.Context, id, status, otp string) (*models.Complaint, error) {
	if !validStatus(status) {
		return nil, ErrInvalidStatus
	}

	c, err := s.store.GetComplaint(ctx, id)
	if err != nil {
		return nil, err
	}

	patch := map[string]any{"status": status}
	switch status {
	case models.StatusInProgress:
		patch["startedAt"] = time.Now().Format(time.RFC3339)
	case models.StatusResolved:
		// Plain string compare: the "0000" sentinel on legacy records can
		// never equal a generated 4-digit code, so such records stay open.
		if otp != c.ResolveOTP {
			return nil, ErrOTPMismatch
		}
	}

	if err := s.store.UpdateComplaint(ctx, id, patch); err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}

	c.Status = status
	if v, ok := patch["startedAt"].(string); ok {
		c.StartedAt = v
	}

	s.logger.Infow("Complaint status updated", "id", id, "status", status)
	return c, nil
}

// ToggleSupport flips the student's membership in the complaint's "me too"
// set: present removes, absent adds. A missing complaint is a silent no-op.
// The read-then-write is not atomic; a double-tap race is benign under set
// semantics. Returns whether the student supports the complaint afterwards.
func (s *ComplaintService) ToggleSupport(ctx context.Context, id, uid string) (bool, error) {
	c, err := s.store.GetComplaint(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	supporting := false
	supports := make([]string, 0, len(c.SupportUids)+1)
	for _, u := range c.SupportUids {
		if u == uid {
			continue
		}
		supports = append(supports, u)
	}
	if len(supports) == len(c.SupportUids) {
		supports = append(supports, uid)
		supporting = true
	}

	if err := s.store.UpdateComplaint(ctx, id, map[string]any{"supportUids": supports}); err != nil {
		return false, fmt.Errorf("toggle support: %w", err)
	}
	return supporting, nil
}

// GenerateOTP draws a uniform 4-digit resolution code in [1000, 9999].
// No leading zero, so the string is always exactly four digits.
func GenerateOTP() string {
	return fmt.Sprintf("%d", 1000+rand.Intn(9000))
}

// deriveSubLocation builds the human-readable location label the same way
// the mobile form does.
func deriveSubLocation(c *models.Complaint) string {
	switch c.LocationType {
	case models.LocationRoom:
		return "Room " + c.RoomNumber
	case models.LocationWashroom:
		return c.WashroomBlock
	case models.LocationMess:
		return "Mess " + c.MessBranch
	}
	return ""
}

func validStatus(status string) bool {
	for _, s := range models.ValidStatuses {
		if s == status {
			return true
		}
	}
	return false
}
