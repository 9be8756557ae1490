package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/jaatdharmendra53-star/Svbh-help/internal/models"
)

// Memory is an in-process Store used by tests and local experiments.
// It mirrors the query semantics of the Postgres implementation:
// conjunctive equality predicates, timestamp lower bound, newest-first
// ordering, row cap.
type Memory struct {
	mu        sync.RWMutex
	docs      map[string]map[string]any
	directory map[string]string
	profiles  map[string]models.UserProfile
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		docs:      make(map[string]map[string]any),
		directory: make(map[string]string),
		profiles:  make(map[string]models.UserProfile),
	}
}

// SeedDirectory registers a regNo → canonical name directory entry.
func (s *Memory) SeedDirectory(regNo, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.directory[regNo] = name
}

// QueryComplaints filters, orders, and caps the stored documents.
func (s *Memory) QueryComplaints(_ context.Context, q Query) ([]models.Complaint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Complaint
	for id, doc := range s.docs {
		if !matches(doc, q) {
			continue
		}
		out = append(out, models.SanitizeComplaint(id, doc))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp > out[j].Timestamp })
	if len(out) > q.limit() {
		out = out[:q.limit()]
	}
	return out, nil
}

func (s *Memory) GetComplaint(_ context.Context, id string) (*models.Complaint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	c := models.SanitizeComplaint(id, doc)
	return &c, nil
}

func (s *Memory) InsertComplaint(_ context.Context, id string, doc map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := make(map[string]any, len(doc))
	for k, v := range doc {
		copied[k] = v
	}
	s.docs[id] = copied
	return nil
}

func (s *Memory) UpdateComplaint(_ context.Context, id string, patch map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[id]
	if !ok {
		return ErrNotFound
	}
	for k, v := range patch {
		doc[k] = v
	}
	return nil
}

func (s *Memory) DirectoryName(_ context.Context, regNo string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	name, ok := s.directory[regNo]
	if !ok {
		return "", ErrNotFound
	}
	return name, nil
}

func (s *Memory) GetUserProfile(_ context.Context, regNo string) (*models.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[regNo]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (s *Memory) SaveUserProfile(_ context.Context, profile *models.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[profile.RegNo] = *profile
	return nil
}

func matches(doc map[string]any, q Query) bool {
	for _, f := range q.Filters {
		if !eq(doc[f.Field], f.Value) {
			return false
		}
	}
	if q.Since > 0 {
		c := models.SanitizeComplaint("", doc)
		if c.Timestamp < q.Since {
			return false
		}
	}
	return true
}

// eq compares a document field against a predicate value the way the SQL
// implementation does: numbers numerically, everything else as strings.
func eq(a, b any) bool {
	switch b.(type) {
	case int, int64, float64:
		return toFloat(a) == toFloat(b)
	default:
		as, ok := a.(string)
		bs, _ := b.(string)
		return ok && as == bs
	}
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case float64:
		return n
	case float32:
		return float64(n)
	}
	return -1
}

var _ Store = (*Memory)(nil)

// String implements fmt.Stringer for debugging.
func (s *Memory) String() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fmt.Sprintf("memory store: %d complaints, %d profiles", len(s.docs), len(s.profiles))
}
