package models_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaatdharmendra53-star/Svbh-help/internal/models"
)

func TestSanitizeComplaint_Defaults(t *testing.T) {
	c := models.SanitizeComplaint("abc", map[string]any{})

	assert.Equal(t, "abc", c.ID)
	assert.Equal(t, "Unknown", c.StudentName)
	assert.Equal(t, "", c.UID)
	assert.Equal(t, 0, c.Floor)
	assert.Equal(t, "", c.RoomNumber)
	assert.Equal(t, "", c.SubLocation)
	assert.Equal(t, "", c.Description)
	assert.Equal(t, models.StatusPending, c.Status)
	assert.Equal(t, []string{}, c.SupportUids)
	assert.Equal(t, models.DefaultOTP, c.ResolveOTP)
	assert.Empty(t, c.StartedAt)
	assert.Zero(t, c.UnitNumber)

	// Absent timestamp substitutes the current instant.
	now := time.Now().UnixMilli()
	assert.InDelta(t, now, c.Timestamp, 2000)
}

func TestSanitizeComplaint_TimestampCoercion(t *testing.T) {
	instant := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	want := instant.UnixMilli()

	tests := []struct {
		name  string
		value any
	}{
		{"native time value", instant},
		{"RFC3339 string", instant.Format(time.RFC3339)},
		{"raw integer millis", want},
		{"raw float millis", float64(want)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := models.SanitizeComplaint("id", map[string]any{"timestamp": tt.value})
			assert.Equal(t, want, c.Timestamp)
		})
	}
}

func TestSanitizeComplaint_SupportUidsCoercion(t *testing.T) {
	// Every member stringifies: a numeric uid written by an older client
	// still counts as a supporter.
	c := models.SanitizeComplaint("id", map[string]any{
		"supportUids": []any{"u1", float64(42), 7, true, nil},
	})
	assert.Equal(t, []string{"u1", "42", "7", "true"}, c.SupportUids)

	// Non-list values degrade to an empty set.
	c = models.SanitizeComplaint("id", map[string]any{"supportUids": "u1"})
	assert.Equal(t, []string{}, c.SupportUids)
}

func TestSanitizeComplaint_NumericStringFloor(t *testing.T) {
	c := models.SanitizeComplaint("id", map[string]any{
		"floor":      "3",
		"unitNumber": "12",
	})
	assert.Equal(t, 3, c.Floor)
	assert.Equal(t, 12, c.UnitNumber)

	c = models.SanitizeComplaint("id", map[string]any{"floor": "not a number"})
	assert.Equal(t, 0, c.Floor)
}

func TestSanitizeComplaint_OptionalFields(t *testing.T) {
	c := models.SanitizeComplaint("id", map[string]any{
		"startedAt":  "2024-03-15T10:30:00Z",
		"unitNumber": float64(3),
		"messBranch": "A",
	})
	assert.Equal(t, "2024-03-15T10:30:00Z", c.StartedAt)
	assert.Equal(t, 3, c.UnitNumber)
	assert.Equal(t, "A", c.MessBranch)
}

func TestSanitizeComplaint_Idempotent(t *testing.T) {
	original := models.Complaint{
		ID:                "c1",
		StudentName:       "Asha Rao",
		UID:               "21CS045",
		Floor:             2,
		RoomNumber:        "204",
		ComplaintCategory: models.CategoryPlumbing,
		LocationType:      models.LocationWashroom,
		WashroomBlock:     "T-21",
		SubLocation:       "T-21",
		Description:       "Leaking tap",
		Status:            models.StatusInProgress,
		Timestamp:         1710498600000,
		StartedAt:         "2024-03-15T10:30:00Z",
		SupportUids:       []string{"x", "y"},
		ResolveOTP:        "4821",
	}

	once := models.SanitizeComplaint(original.ID, original.Document())
	require.Equal(t, original, once)

	twice := models.SanitizeComplaint(once.ID, once.Document())
	assert.Equal(t, once, twice)
}

func TestDocument_OmitsAbsentOptionals(t *testing.T) {
	c := models.Complaint{
		ID:          "c1",
		StudentName: "Asha Rao",
		Status:      models.StatusPending,
		Timestamp:   1710498600000,
		SupportUids: []string{},
		ResolveOTP:  "4821",
	}

	doc := c.Document()
	assert.NotContains(t, doc, "messBranch")
	assert.NotContains(t, doc, "washroomBlock")
	assert.NotContains(t, doc, "startedAt")
	assert.NotContains(t, doc, "unitNumber")
}
