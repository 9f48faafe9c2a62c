// Package activity contains the audit trail domain model.
// Every lifecycle transition of a mentorship or session produces one
// immutable audit entry. This is a pure domain layer with zero
// external dependencies.
package activity

import (
	"errors"
	"time"

	"github.com/mentorconnect/mentorconnect-core/internal/domain/shared"
)

// Domain errors for activity package.
var (
	ErrInvalidEntryID   = errors.New("activity: invalid entry ID")
	ErrInvalidActorID   = errors.New("activity: invalid actor ID")
	ErrInvalidAction    = errors.New("activity: invalid action")
	ErrInvalidEntity    = errors.New("activity: invalid entity reference")
	ErrFutureTimestamp  = errors.New("activity: timestamp cannot be in the future")
	ErrRetentionTooLow  = errors.New("activity: retention period is too short")
)

// EntityType identifies the kind of aggregate an entry refers to.
type EntityType string

const (
	EntityMentorship EntityType = "mentorship"
	EntitySession    EntityType = "session"
)

// IsValid checks if the entity type is known.
func (e EntityType) IsValid() bool {
	return e == EntityMentorship || e == EntitySession
}

// Action names a lifecycle transition.
type Action string

const (
	// Mentorship transitions
	ActionMentorshipRequested Action = "mentorship_requested"
	ActionMentorshipAccepted  Action = "mentorship_accepted"
	ActionMentorshipDeclined  Action = "mentorship_declined"
	ActionMentorshipCancelled Action = "mentorship_cancelled"
	ActionMentorshipCompleted Action = "mentorship_completed"

	// Session transitions
	ActionSessionRequested Action = "session_requested"
	ActionSessionScheduled Action = "session_scheduled"
	ActionSessionRejected  Action = "session_rejected"
	ActionSessionCancelled Action = "session_cancelled"
	ActionSessionCompleted Action = "session_completed"
)

// IsValid checks if the action is known.
func (a Action) IsValid() bool {
	switch a {
	case ActionMentorshipRequested, ActionMentorshipAccepted, ActionMentorshipDeclined,
		ActionMentorshipCancelled, ActionMentorshipCompleted,
		ActionSessionRequested, ActionSessionScheduled, ActionSessionRejected,
		ActionSessionCancelled, ActionSessionCompleted:
		return true
	default:
		return false
	}
}

// EntityType returns the aggregate kind the action applies to.
func (a Action) EntityType() EntityType {
	switch a {
	case ActionMentorshipRequested, ActionMentorshipAccepted, ActionMentorshipDeclined,
		ActionMentorshipCancelled, ActionMentorshipCompleted:
		return EntityMentorship
	default:
		return EntitySession
	}
}

// Entry is a single immutable audit record.
type Entry struct {
	ID         string
	ActorID    shared.UserID
	Action     Action
	EntityType EntityType
	EntityID   string

	// Details carries transition-specific context: previous status,
	// new status, reasons, interval boundaries. Stored as JSONB.
	Details map[string]interface{}

	OccurredAt time.Time
}

// NewEntryParams holds the input for creating an audit entry.
type NewEntryParams struct {
	ID       string
	ActorID  shared.UserID
	Action   Action
	EntityID string
	Details  map[string]interface{}
}

// NewEntry creates a validated audit entry. The entity type is derived
// from the action.
func NewEntry(params NewEntryParams) (*Entry, error) {
	if params.ID == "" {
		return nil, ErrInvalidEntryID
	}
	if params.ActorID.IsEmpty() {
		return nil, ErrInvalidActorID
	}
	if !params.Action.IsValid() {
		return nil, ErrInvalidAction
	}
	if params.EntityID == "" {
		return nil, ErrInvalidEntity
	}

	details := params.Details
	if details == nil {
		details = make(map[string]interface{})
	}

	return &Entry{
		ID:         params.ID,
		ActorID:    params.ActorID,
		Action:     params.Action,
		EntityType: params.Action.EntityType(),
		EntityID:   params.EntityID,
		Details:    details,
		OccurredAt: time.Now().UTC(),
	}, nil
}

// WithDetail adds a single detail field and returns the entry for chaining.
func (e *Entry) WithDetail(key string, value interface{}) *Entry {
	e.Details[key] = value
	return e
}

// Clone returns a deep copy of the entry.
func (e *Entry) Clone() *Entry {
	if e == nil {
		return nil
	}

	clone := *e
	clone.Details = make(map[string]interface{}, len(e.Details))
	for k, v := range e.Details {
		clone.Details[k] = v
	}
	return &clone
}
