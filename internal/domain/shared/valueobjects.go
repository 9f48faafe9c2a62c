// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages.
package shared

import (
	"regexp"
	"strings"
	"time"
)

// ═══════════════════════════════════════════════════════════════════════════
// ID Value Objects
// ═══════════════════════════════════════════════════════════════════════════

// UserID represents a unique user identifier (UUID format).
type UserID string

// UUID validation regex (simple version).
var uuidRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// IsValid checks if the user ID is a valid UUID.
func (u UserID) IsValid() bool {
	return uuidRegex.MatchString(string(u))
}

// String returns the string representation.
func (u UserID) String() string {
	return string(u)
}

// IsEmpty checks if the ID is empty.
func (u UserID) IsEmpty() bool {
	return u == ""
}

// NewUserID creates a new UserID with validation.
func NewUserID(id string) (UserID, error) {
	uid := UserID(strings.ToLower(strings.TrimSpace(id)))
	if !uid.IsValid() {
		return "", NewDomainError("shared", "NewUserID", ErrInvalidID, "invalid user ID format")
	}
	return uid, nil
}

// MentorshipID represents a unique mentorship identifier (UUID format).
type MentorshipID string

// IsValid checks if the mentorship ID is a valid UUID.
func (m MentorshipID) IsValid() bool {
	return uuidRegex.MatchString(string(m))
}

// String returns the string representation.
func (m MentorshipID) String() string {
	return string(m)
}

// IsEmpty checks if the ID is empty.
func (m MentorshipID) IsEmpty() bool {
	return m == ""
}

// NewMentorshipID creates a new MentorshipID with validation.
func NewMentorshipID(id string) (MentorshipID, error) {
	mid := MentorshipID(strings.ToLower(strings.TrimSpace(id)))
	if !mid.IsValid() {
		return "", NewDomainError("shared", "NewMentorshipID", ErrInvalidID, "invalid mentorship ID format")
	}
	return mid, nil
}

// SessionID represents a unique session identifier (UUID format).
type SessionID string

// IsValid checks if the session ID is a valid UUID.
func (s SessionID) IsValid() bool {
	return uuidRegex.MatchString(string(s))
}

// String returns the string representation.
func (s SessionID) String() string {
	return string(s)
}

// IsEmpty checks if the ID is empty.
func (s SessionID) IsEmpty() bool {
	return s == ""
}

// NewSessionID creates a new SessionID with validation.
func NewSessionID(id string) (SessionID, error) {
	sid := SessionID(strings.ToLower(strings.TrimSpace(id)))
	if !sid.IsValid() {
		return "", NewDomainError("shared", "NewSessionID", ErrInvalidID, "invalid session ID format")
	}
	return sid, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// TimeRange Value Object
// ═══════════════════════════════════════════════════════════════════════════

// TimeRange represents a half-open time interval [From, To).
type TimeRange struct {
	From time.Time
	To   time.Time
}

// IsValid checks if the time range is valid.
func (t TimeRange) IsValid() bool {
	return !t.From.IsZero() && !t.To.IsZero() && t.From.Before(t.To)
}

// Duration returns the duration of the time range.
func (t TimeRange) Duration() time.Duration {
	return t.To.Sub(t.From)
}

// Contains checks if a time is within the half-open range.
func (t TimeRange) Contains(tm time.Time) bool {
	return !tm.Before(t.From) && tm.Before(t.To)
}

// Overlaps reports whether two half-open ranges intersect.
// Ranges that merely touch at a boundary do not overlap.
func (t TimeRange) Overlaps(other TimeRange) bool {
	return t.From.Before(other.To) && other.From.Before(t.To)
}

// NewTimeRange creates a new TimeRange with validation.
func NewTimeRange(from, to time.Time) (TimeRange, error) {
	tr := TimeRange{From: from, To: to}
	if !tr.IsValid() {
		return TimeRange{}, NewDomainError("shared", "NewTimeRange", ErrInvalidInput, "'from' must be before 'to'")
	}
	return tr, nil
}

// Last24Hours returns a TimeRange for the last 24 hours.
func Last24Hours() TimeRange {
	now := time.Now()
	return TimeRange{
		From: now.Add(-24 * time.Hour),
		To:   now,
	}
}

// LastNDays returns a TimeRange for the last N days.
func LastNDays(n int) TimeRange {
	now := time.Now()
	return TimeRange{
		From: now.AddDate(0, 0, -n),
		To:   now,
	}
}

// NextNDays returns a TimeRange covering the next N days.
func NextNDays(n int) TimeRange {
	now := time.Now()
	return TimeRange{
		From: now,
		To:   now.AddDate(0, 0, n),
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Pagination Value Object
// ═══════════════════════════════════════════════════════════════════════════

// Pagination represents pagination parameters.
type Pagination struct {
	Page     int
	PageSize int
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Offset returns the offset for database queries.
func (p Pagination) Offset() int {
	if p.Page <= 0 {
		return 0
	}
	return (p.Page - 1) * p.Limit()
}

// Limit returns the limit for database queries.
func (p Pagination) Limit() int {
	if p.PageSize <= 0 {
		return DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		return MaxPageSize
	}
	return p.PageSize
}

// NewPagination creates a new Pagination with defaults.
func NewPagination(page, pageSize int) Pagination {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return Pagination{Page: page, PageSize: pageSize}
}

// DefaultPagination returns default pagination.
func DefaultPagination() Pagination {
	return NewPagination(1, DefaultPageSize)
}
