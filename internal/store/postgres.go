package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jaatdharmendra53-star/Svbh-help/internal/models"
)

// Postgres stores complaints as JSONB documents so reads come back as
// untyped maps and pass through the sanitizer, the same way the hosted
// document store behaves. Equality predicates run on JSONB expressions;
// the creation timestamp is mirrored into a plain column for the range
// bound and ordering.
type Postgres struct {
	db *pgxpool.Pool
}

// NewPostgres creates a Postgres-backed store.
func NewPostgres(db *pgxpool.Pool) *Postgres {
	return &Postgres{db: db}
}

// QueryComplaints composes and runs one SQL query from the predicate set.
func (s *Postgres) QueryComplaints(ctx context.Context, q Query) ([]models.Complaint, error) {
	var (
		where []string
		args  []any
	)
	for _, f := range q.Filters {
		switch f.Value.(type) {
		case int, int64, float64:
			where = append(where, fmt.Sprintf("(doc->>'%s')::numeric = $%d", f.Field, len(args)+1))
		default:
			where = append(where, fmt.Sprintf("doc->>'%s' = $%d", f.Field, len(args)+1))
		}
		args = append(args, f.Value)
	}
	if q.Since > 0 {
		where = append(where, fmt.Sprintf("ts >= $%d", len(args)+1))
		args = append(args, q.Since)
	}

	sql := "SELECT id, doc FROM complaints"
	if len(where) > 0 {
		sql += " WHERE " + strings.Join(where, " AND ")
	}
	sql += fmt.Sprintf(" ORDER BY ts DESC LIMIT $%d", len(args)+1)
	args = append(args, q.limit())

	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query complaints: %w", err)
	}
	defer rows.Close()

	var out []models.Complaint
	for rows.Next() {
		var (
			id  string
			doc map[string]any
		)
		if err := rows.Scan(&id, &doc); err != nil {
			continue
		}
		out = append(out, models.SanitizeComplaint(id, doc))
	}
	return out, rows.Err()
}

// GetComplaint fetches and sanitizes a single document. The id column is
// UUID-typed, so a malformed id is simply a complaint that does not exist.
func (s *Postgres) GetComplaint(ctx context.Context, id string) (*models.Complaint, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	var doc map[string]any
	err := s.db.QueryRow(ctx, "SELECT doc FROM complaints WHERE id = $1", id).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get complaint: %w", err)
	}
	c := models.SanitizeComplaint(id, doc)
	return &c, nil
}

// InsertComplaint stores a new document. The timestamp mirror column is
// taken from the document's own creation instant.
func (s *Postgres) InsertComplaint(ctx context.Context, id string, doc map[string]any) error {
	ts, _ := doc["timestamp"].(int64)
	_, err := s.db.Exec(ctx,
		"INSERT INTO complaints (id, ts, doc) VALUES ($1, $2, $3)",
		id, ts, doc,
	)
	if err != nil {
		return fmt.Errorf("insert complaint: %w", err)
	}
	return nil
}

// UpdateComplaint merges patch fields into the stored document.
func (s *Postgres) UpdateComplaint(ctx context.Context, id string, patch map[string]any) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrNotFound
	}
	tag, err := s.db.Exec(ctx,
		"UPDATE complaints SET doc = doc || $2 WHERE id = $1",
		id, patch,
	)
	if err != nil {
		return fmt.Errorf("update complaint: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DirectoryName validates a registration number against the read-only
// resident directory.
func (s *Postgres) DirectoryName(ctx context.Context, regNo string) (string, error) {
	var name string
	err := s.db.QueryRow(ctx,
		"SELECT name FROM student_directory WHERE reg_no = $1", regNo,
	).Scan(&name)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("directory lookup: %w", err)
	}
	return name, nil
}

// GetUserProfile loads a persisted profile by registration number.
func (s *Postgres) GetUserProfile(ctx context.Context, regNo string) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := s.db.QueryRow(ctx,
		"SELECT doc FROM users WHERE reg_no = $1", regNo,
	).Scan(&profile)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user profile: %w", err)
	}
	return &profile, nil
}

// SaveUserProfile upserts a profile keyed by registration number.
func (s *Postgres) SaveUserProfile(ctx context.Context, profile *models.UserProfile) error {
	_, err := s.db.Exec(ctx,
		"INSERT INTO users (reg_no, doc) VALUES ($1, $2) ON CONFLICT (reg_no) DO UPDATE SET doc = EXCLUDED.doc",
		profile.RegNo, profile,
	)
	if err != nil {
		return fmt.Errorf("save user profile: %w", err)
	}
	return nil
}
