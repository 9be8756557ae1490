// Package models defines the data structures shared across the SVBH HELP
// backend: complaints, user profiles, and the request bodies of the API.
//
// Complaints live in the store as loosely-typed JSON documents. SanitizeComplaint
// is the single trust boundary between those documents and the rest of the
// application — every read path must route through it.
package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Complaint statuses. Transitions only move forward:
// Pending → In Progress → Resolved.
const (
	StatusPending    = "Pending"
	StatusInProgress = "In Progress"
	StatusResolved   = "Resolved"
)

// Complaint categories.
const (
	CategoryElectrical  = "Electrical"
	CategoryPlumbing    = "Plumbing"
	CategoryCleanliness = "Cleanliness"
	CategoryMess        = "Mess"
	CategoryOther       = "Other"
)

// Location types. Washroom and Mess complaints are shared-facility issues
// and appear on the community feed; Room complaints stay private.
const (
	LocationRoom     = "Room"
	LocationWashroom = "Washroom"
	LocationMess     = "Mess"
)

// User roles.
const (
	RoleStudent = "Student"
	RoleWarden  = "Warden"
)

// DefaultOTP is the sentinel stored on records that carry no real resolution
// code (legacy/corrupted documents). Generated codes are always in
// [1000, 9999], so this value never matches a real 4-digit entry.
const DefaultOTP = "0000"

// ValidStatuses lists the accepted complaint statuses.
var ValidStatuses = []string{StatusPending, StatusInProgress, StatusResolved}

// ValidCategories lists the accepted complaint categories.
var ValidCategories = []string{
	CategoryElectrical, CategoryPlumbing, CategoryCleanliness, CategoryMess, CategoryOther,
}

// Complaint is a facility complaint filed by a student.
// Timestamp is the creation instant in epoch milliseconds; StartedAt is an
// RFC 3339 string stamped when the warden starts work.
type Complaint struct {
	ID                string   `json:"id"`
	StudentName       string   `json:"studentName"`
	UID               string   `json:"uid"`
	Floor             int      `json:"floor"`
	RoomNumber        string   `json:"roomNumber"`
	ComplaintCategory string   `json:"complaintCategory"`
	LocationType      string   `json:"locationType"`
	MessBranch        string   `json:"messBranch,omitempty"`
	WashroomBlock     string   `json:"washroomBlock,omitempty"`
	UnitNumber        int      `json:"unitNumber,omitempty"`
	SubLocation       string   `json:"subLocation"`
	Description       string   `json:"description"`
	Status            string   `json:"status"`
	Timestamp         int64    `json:"timestamp"`
	StartedAt         string   `json:"startedAt,omitempty"`
	SupportUids       []string `json:"supportUids"`
	ResolveOTP        string   `json:"resolveOTP,omitempty"`
}

// UserProfile is a resident's (or the warden's) identity and hostel placement.
// Created at first successful login and read-mostly thereafter.
type UserProfile struct {
	UID        string `json:"uid"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	Floor      int    `json:"floor"`
	RoomNumber string `json:"roomNumber"`
	RegNo      string `json:"regNo"`
	Branch     string `json:"branch"`
}

// ComplaintSubmission is the request body for filing a new complaint.
// SubLocation may be left empty; the server derives it from the location type.
type ComplaintSubmission struct {
	ComplaintCategory string `json:"complaintCategory"`
	LocationType      string `json:"locationType"`
	MessBranch        string `json:"messBranch,omitempty"`
	WashroomBlock     string `json:"washroomBlock,omitempty"`
	UnitNumber        int    `json:"unitNumber,omitempty"`
	SubLocation       string `json:"subLocation,omitempty"`
	Description       string `json:"description"`
}

// LoginRequest is the request body for both login paths. Room number is
// required only on a student's first login; PIN only on the warden path.
type LoginRequest struct {
	Name       string `json:"name"`
	RegNo      string `json:"regNo,omitempty"`
	RoomNumber string `json:"roomNumber,omitempty"`
	PIN        string `json:"pin,omitempty"`
}

// StatusUpdateRequest is the request body for a lifecycle transition.
// OTP is the 4-digit code collected from the reporting student and is
// checked only for the Resolved transition.
type StatusUpdateRequest struct {
	Status string `json:"status"`
	OTP    string `json:"otp,omitempty"`
}

// AssistRequest is the request body for the AI description refiner.
type AssistRequest struct {
	Description string `json:"description"`
}

// AssistResult is the refiner's best-effort output. On any failure the
// description comes back unchanged and SuggestedCategory is empty.
type AssistResult struct {
	SuggestedCategory  string `json:"suggestedCategory,omitempty"`
	RefinedDescription string `json:"refinedDescription"`
}

// ComplaintEvent is one entry in a complaint's lifecycle trail.
type ComplaintEvent struct {
	ID          string    `json:"id"`
	ComplaintID string    `json:"complaint_id"`
	EventType   string    `json:"event_type"`
	Actor       string    `json:"actor"`
	Detail      string    `json:"detail,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// HealthStatus is the health check response.
type HealthStatus struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Uptime   string `json:"uptime,omitempty"`
	Database string `json:"database,omitempty"`
	Sessions string `json:"sessions,omitempty"`
}

// SanitizeComplaint turns an arbitrary store document into a well-typed
// Complaint. It never fails: missing or malformed fields are coerced to
// defaults so a single bad document can never break a feed.
func SanitizeComplaint(docID string, data map[string]any) Complaint {
	c := Complaint{
		ID:                docID,
		StudentName:       stringOr(data["studentName"], "Unknown"),
		UID:               stringOr(data["uid"], ""),
		Floor:             intOr(data["floor"], 0),
		RoomNumber:        stringOr(data["roomNumber"], ""),
		ComplaintCategory: stringOr(data["complaintCategory"], ""),
		LocationType:      stringOr(data["locationType"], ""),
		SubLocation:       stringOr(data["subLocation"], ""),
		Description:       stringOr(data["description"], ""),
		Status:            stringOr(data["status"], StatusPending),
		SupportUids:       stringSlice(data["supportUids"]),
		ResolveOTP:        stringOr(data["resolveOTP"], DefaultOTP),
		MessBranch:        stringOr(data["messBranch"], ""),
		WashroomBlock:     stringOr(data["washroomBlock"], ""),
	}

	c.Timestamp = coerceMillis(data["timestamp"])

	if v, ok := data["startedAt"]; ok && v != nil {
		if s := stringOr(v, ""); s != "" {
			c.StartedAt = s
		}
	}
	if v, ok := data["unitNumber"]; ok && v != nil {
		c.UnitNumber = intOr(v, 0)
	}

	return c
}

// Document is the inverse of SanitizeComplaint: the loosely-typed shape
// written to the store. Optional fields absent from the complaint are
// omitted rather than written as empty values.
func (c Complaint) Document() map[string]any {
	doc := map[string]any{
		"studentName":       c.StudentName,
		"uid":               c.UID,
		"floor":             c.Floor,
		"roomNumber":        c.RoomNumber,
		"complaintCategory": c.ComplaintCategory,
		"locationType":      c.LocationType,
		"subLocation":       c.SubLocation,
		"description":       c.Description,
		"status":            c.Status,
		"timestamp":         c.Timestamp,
		"supportUids":       c.SupportUids,
		"resolveOTP":        c.ResolveOTP,
	}
	if c.MessBranch != "" {
		doc["messBranch"] = c.MessBranch
	}
	if c.WashroomBlock != "" {
		doc["washroomBlock"] = c.WashroomBlock
	}
	if c.StartedAt != "" {
		doc["startedAt"] = c.StartedAt
	}
	if c.UnitNumber != 0 {
		doc["unitNumber"] = c.UnitNumber
	}
	return doc
}

// coerceMillis accepts the three timestamp shapes seen in stored documents —
// a native time value, an RFC 3339 string, or a raw number — and falls back
// to the current instant when the field is absent or unreadable.
func coerceMillis(v any) int64 {
	switch t := v.(type) {
	case time.Time:
		return t.UnixMilli()
	case *time.Time:
		if t != nil {
			return t.UnixMilli()
		}
	case string:
		if parsed, err := time.Parse(time.RFC3339, t); err == nil {
			return parsed.UnixMilli()
		}
	case int64:
		return t
	case int:
		return int64(t)
	case float64:
		return int64(t)
	case float32:
		return int64(t)
	case uint64:
		return int64(t)
	}
	return time.Now().UnixMilli()
}

func stringOr(v any, fallback string) string {
	s, ok := v.(string)
	if !ok || s == "" {
		return fallback
	}
	return s
}

func intOr(v any, fallback int) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	case float32:
		return int(n)
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
			return int(f)
		}
	}
	return fallback
}

// stringSlice coerces every element to a string, so a numeric uid written by
// an older client still lands in the support set.
func stringSlice(v any) []string {
	out := []string{}
	switch list := v.(type) {
	case []string:
		out = append(out, list...)
	case []any:
		for _, e := range list {
			if e == nil {
				continue
			}
			out = append(out, elementString(e))
		}
	}
	return out
}

func elementString(v any) string {
	switch e := v.(type) {
	case string:
		return e
	case float64:
		return strconv.FormatFloat(e, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(e), 'f', -1, 32)
	default:
		return fmt.Sprint(e)
	}
}
