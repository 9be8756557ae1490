package store

import (
	"context"
	"errors"

	"github.com/jaatdharmendra53-star/Svbh-help/internal/models"
)

// ErrNotFound is returned when a looked-up record does not exist.
var ErrNotFound = errors.New("record not found")

// Store is the persistence boundary of the application. Complaint reads
// are returned sanitized — implementations must route every document
// through models.SanitizeComplaint before handing it to callers.
type Store interface {
	// QueryComplaints runs one composed query against the complaints
	// collection and returns sanitized results, newest-first.
	QueryComplaints(ctx context.Context, q Query) ([]models.Complaint, error)

	// GetComplaint fetches a single complaint by id. ErrNotFound when absent.
	GetComplaint(ctx context.Context, id string) (*models.Complaint, error)

	// InsertComplaint stores a new complaint document under the given id.
	InsertComplaint(ctx context.Context, id string, doc map[string]any) error

	// UpdateComplaint merges the patch fields into an existing document.
	UpdateComplaint(ctx context.Context, id string, patch map[string]any) error

	// DirectoryName returns the canonical name registered for a
	// registration number. ErrNotFound when the number is not in the
	// directory.
	DirectoryName(ctx context.Context, regNo string) (string, error)

	// GetUserProfile loads a persisted profile by registration number.
	// ErrNotFound when no profile exists yet.
	GetUserProfile(ctx context.Context, regNo string) (*models.UserProfile, error)

	// SaveUserProfile persists a profile keyed by its registration number.
	SaveUserProfile(ctx context.Context, profile *models.UserProfile) error
}
