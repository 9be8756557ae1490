package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/jaatdharmendra53-star/Svbh-help/internal/models"
)

// Lifecycle event types recorded on the complaint trail.
const (
	EventSubmitted     = "submitted"
	EventStatusChanged = "status_changed"
	EventSupportToggle = "support_toggled"
)

// ActivityService records a per-complaint lifecycle trail: submissions,
// status transitions, and support toggles. The trail is append-only and
// read by the warden dashboard.
type ActivityService struct {
	db     *pgxpool.Pool
	logger *zap.SugaredLogger
}

// NewActivityService creates a new activity service.
func NewActivityService(db *pgxpool.Pool, logger *zap.SugaredLogger) *ActivityService {
	return &ActivityService{db: db, logger: logger}
}

// Record appends one event to a complaint's trail.
func (s *ActivityService) Record(ctx context.Context, complaintID, eventType, actor, detail string) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO complaint_events (id, complaint_id, event_type, actor, detail)
		VALUES ($1, $2, $3, $4, $5)
	`, uuid.New(), complaintID, eventType, actor, detail)

	if err != nil {
		return fmt.Errorf("insert complaint event: %w", err)
	}

	s.logger.Infow("Event recorded",
		"complaint_id", complaintID,
		"type", eventType,
		"actor", actor,
	)
	return nil
}

// FetchByComplaint returns a complaint's trail, newest-first.
func (s *ActivityService) FetchByComplaint(ctx context.Context, complaintID string, limit int) ([]models.ComplaintEvent, error) {
	return s.fetch(ctx, `
		SELECT id, complaint_id, event_type, actor, detail, created_at
		FROM complaint_events
		WHERE complaint_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, complaintID, limit)
}

// FetchRecent returns recent events across all complaints.
func (s *ActivityService) FetchRecent(ctx context.Context, limit int) ([]models.ComplaintEvent, error) {
	return s.fetch(ctx, `
		SELECT id, complaint_id, event_type, actor, detail, created_at
		FROM complaint_events
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
}

func (s *ActivityService) fetch(ctx context.Context, query string, args ...any) ([]models.ComplaintEvent, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.ComplaintEvent
	for rows.Next() {
		var e models.ComplaintEvent
		if err := rows.Scan(&e.ID, &e.ComplaintID, &e.EventType, &e.Actor,
			&e.Detail, &e.CreatedAt); err != nil {
			continue
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
