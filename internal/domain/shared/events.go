// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages.
package shared

import (
	"encoding/json"
	"time"
)

// EventType represents the type of domain event.
type EventType string

// Domain event types - these drive the event-driven architecture.
// Each event represents something significant that happened in the domain.
const (
	// Mentorship events
	EventMentorshipRequested EventType = "mentorship.requested"
	EventMentorshipAccepted  EventType = "mentorship.accepted"
	EventMentorshipDeclined  EventType = "mentorship.declined"
	EventMentorshipCancelled EventType = "mentorship.cancelled"
	EventMentorshipCompleted EventType = "mentorship.completed"

	// Session events
	EventSessionRequested EventType = "session.requested"
	EventSessionScheduled EventType = "session.scheduled"
	EventSessionRejected  EventType = "session.rejected"
	EventSessionCancelled EventType = "session.cancelled"
	EventSessionCompleted EventType = "session.completed"

	// Notification events
	EventNotificationSent   EventType = "notification.sent"
	EventNotificationFailed EventType = "notification.failed"

	// System events
	EventReminderDigestSent EventType = "system.reminder_digest_sent"
	EventAuditPruned        EventType = "system.audit_pruned"
)

// Event is the base interface for all domain events.
type Event interface {
	// EventType returns the type of the event.
	EventType() EventType

	// OccurredAt returns when the event occurred.
	OccurredAt() time.Time

	// AggregateID returns the ID of the aggregate that produced this event.
	AggregateID() string

	// Payload returns the event data as a map for serialization.
	Payload() map[string]interface{}
}

// BaseEvent provides common event functionality.
type BaseEvent struct {
	Type          EventType `json:"type"`
	Timestamp     time.Time `json:"timestamp"`
	AggregateId   string    `json:"aggregate_id"`
	Version       int       `json:"version"`
	CorrelationID string    `json:"correlation_id,omitempty"`
}

// EventType implements Event interface.
func (e BaseEvent) EventType() EventType {
	return e.Type
}

// OccurredAt implements Event interface.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// AggregateID implements Event interface.
func (e BaseEvent) AggregateID() string {
	return e.AggregateId
}

// NewBaseEvent creates a new base event.
func NewBaseEvent(eventType EventType, aggregateID string) BaseEvent {
	return BaseEvent{
		Type:        eventType,
		Timestamp:   time.Now(),
		AggregateId: aggregateID,
		Version:     1,
	}
}

// WithCorrelationID sets the correlation ID for tracing.
func (e BaseEvent) WithCorrelationID(id string) BaseEvent {
	e.CorrelationID = id
	return e
}

// ═══════════════════════════════════════════════════════════════════════════
// Mentorship Events
// ═══════════════════════════════════════════════════════════════════════════

// MentorshipRequestedEvent is emitted when a mentee requests a new mentorship.
type MentorshipRequestedEvent struct {
	BaseEvent
	MentorshipID string `json:"mentorship_id"`
	MentorID     string `json:"mentor_id"`
	MenteeID     string `json:"mentee_id"`
}

// Payload implements Event interface.
func (e MentorshipRequestedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"mentorship_id": e.MentorshipID,
		"mentor_id":     e.MentorID,
		"mentee_id":     e.MenteeID,
	}
}

// NewMentorshipRequestedEvent creates a new MentorshipRequestedEvent.
func NewMentorshipRequestedEvent(mentorshipID, mentorID, menteeID string) MentorshipRequestedEvent {
	return MentorshipRequestedEvent{
		BaseEvent:    NewBaseEvent(EventMentorshipRequested, mentorshipID),
		MentorshipID: mentorshipID,
		MentorID:     mentorID,
		MenteeID:     menteeID,
	}
}

// MentorshipAcceptedEvent is emitted when a mentor accepts a pending request.
type MentorshipAcceptedEvent struct {
	BaseEvent
	MentorshipID string `json:"mentorship_id"`
	MentorID     string `json:"mentor_id"`
	MenteeID     string `json:"mentee_id"`
}

// Payload implements Event interface.
func (e MentorshipAcceptedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"mentorship_id": e.MentorshipID,
		"mentor_id":     e.MentorID,
		"mentee_id":     e.MenteeID,
	}
}

// NewMentorshipAcceptedEvent creates a new MentorshipAcceptedEvent.
func NewMentorshipAcceptedEvent(mentorshipID, mentorID, menteeID string) MentorshipAcceptedEvent {
	return MentorshipAcceptedEvent{
		BaseEvent:    NewBaseEvent(EventMentorshipAccepted, mentorshipID),
		MentorshipID: mentorshipID,
		MentorID:     mentorID,
		MenteeID:     menteeID,
	}
}

// MentorshipDeclinedEvent is emitted when a mentor declines a pending request.
type MentorshipDeclinedEvent struct {
	BaseEvent
	MentorshipID string `json:"mentorship_id"`
	MentorID     string `json:"mentor_id"`
	MenteeID     string `json:"mentee_id"`
	Reason       string `json:"reason,omitempty"`
}

// Payload implements Event interface.
func (e MentorshipDeclinedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"mentorship_id": e.MentorshipID,
		"mentor_id":     e.MentorID,
		"mentee_id":     e.MenteeID,
		"reason":        e.Reason,
	}
}

// NewMentorshipDeclinedEvent creates a new MentorshipDeclinedEvent.
func NewMentorshipDeclinedEvent(mentorshipID, mentorID, menteeID, reason string) MentorshipDeclinedEvent {
	return MentorshipDeclinedEvent{
		BaseEvent:    NewBaseEvent(EventMentorshipDeclined, mentorshipID),
		MentorshipID: mentorshipID,
		MentorID:     mentorID,
		MenteeID:     menteeID,
		Reason:       reason,
	}
}

// MentorshipClosedEvent covers cancellation and completion, which share a
// payload shape. The Type field distinguishes them.
type MentorshipClosedEvent struct {
	BaseEvent
	MentorshipID string `json:"mentorship_id"`
	MentorID     string `json:"mentor_id"`
	MenteeID     string `json:"mentee_id"`
	ClosedByID   string `json:"closed_by_id"`
}

// Payload implements Event interface.
func (e MentorshipClosedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"mentorship_id": e.MentorshipID,
		"mentor_id":     e.MentorID,
		"mentee_id":     e.MenteeID,
		"closed_by_id":  e.ClosedByID,
	}
}

// NewMentorshipCancelledEvent creates a cancellation event.
func NewMentorshipCancelledEvent(mentorshipID, mentorID, menteeID, closedByID string) MentorshipClosedEvent {
	return MentorshipClosedEvent{
		BaseEvent:    NewBaseEvent(EventMentorshipCancelled, mentorshipID),
		MentorshipID: mentorshipID,
		MentorID:     mentorID,
		MenteeID:     menteeID,
		ClosedByID:   closedByID,
	}
}

// NewMentorshipCompletedEvent creates a completion event.
func NewMentorshipCompletedEvent(mentorshipID, mentorID, menteeID, closedByID string) MentorshipClosedEvent {
	return MentorshipClosedEvent{
		BaseEvent:    NewBaseEvent(EventMentorshipCompleted, mentorshipID),
		MentorshipID: mentorshipID,
		MentorID:     mentorID,
		MenteeID:     menteeID,
		ClosedByID:   closedByID,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Session Events
// ═══════════════════════════════════════════════════════════════════════════

// SessionRequestedEvent is emitted when a mentee proposes a session that
// still needs mentor approval.
type SessionRequestedEvent struct {
	BaseEvent
	SessionID    string    `json:"session_id"`
	MentorshipID string    `json:"mentorship_id"`
	RequestedBy  string    `json:"requested_by"`
	StartsAt     time.Time `json:"starts_at"`
	EndsAt       time.Time `json:"ends_at"`
}

// Payload implements Event interface.
func (e SessionRequestedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"session_id":    e.SessionID,
		"mentorship_id": e.MentorshipID,
		"requested_by":  e.RequestedBy,
		"starts_at":     e.StartsAt.Format(time.RFC3339),
		"ends_at":       e.EndsAt.Format(time.RFC3339),
	}
}

// NewSessionRequestedEvent creates a new SessionRequestedEvent.
func NewSessionRequestedEvent(sessionID, mentorshipID, requestedBy string, startsAt, endsAt time.Time) SessionRequestedEvent {
	return SessionRequestedEvent{
		BaseEvent:    NewBaseEvent(EventSessionRequested, sessionID),
		SessionID:    sessionID,
		MentorshipID: mentorshipID,
		RequestedBy:  requestedBy,
		StartsAt:     startsAt,
		EndsAt:       endsAt,
	}
}

// SessionScheduledEvent is emitted when a session becomes scheduled, either
// because the mentor proposed it or because the mentor approved a request.
type SessionScheduledEvent struct {
	BaseEvent
	SessionID    string    `json:"session_id"`
	MentorshipID string    `json:"mentorship_id"`
	StartsAt     time.Time `json:"starts_at"`
	EndsAt       time.Time `json:"ends_at"`
}

// Payload implements Event interface.
func (e SessionScheduledEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"session_id":    e.SessionID,
		"mentorship_id": e.MentorshipID,
		"starts_at":     e.StartsAt.Format(time.RFC3339),
		"ends_at":       e.EndsAt.Format(time.RFC3339),
	}
}

// NewSessionScheduledEvent creates a new SessionScheduledEvent.
func NewSessionScheduledEvent(sessionID, mentorshipID string, startsAt, endsAt time.Time) SessionScheduledEvent {
	return SessionScheduledEvent{
		BaseEvent:    NewBaseEvent(EventSessionScheduled, sessionID),
		SessionID:    sessionID,
		MentorshipID: mentorshipID,
		StartsAt:     startsAt,
		EndsAt:       endsAt,
	}
}

// SessionRejectedEvent is emitted when a mentor rejects a pending session request.
type SessionRejectedEvent struct {
	BaseEvent
	SessionID    string `json:"session_id"`
	MentorshipID string `json:"mentorship_id"`
	Reason       string `json:"reason,omitempty"`
}

// Payload implements Event interface.
func (e SessionRejectedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"session_id":    e.SessionID,
		"mentorship_id": e.MentorshipID,
		"reason":        e.Reason,
	}
}

// NewSessionRejectedEvent creates a new SessionRejectedEvent.
func NewSessionRejectedEvent(sessionID, mentorshipID, reason string) SessionRejectedEvent {
	return SessionRejectedEvent{
		BaseEvent:    NewBaseEvent(EventSessionRejected, sessionID),
		SessionID:    sessionID,
		MentorshipID: mentorshipID,
		Reason:       reason,
	}
}

// SessionCancelledEvent is emitted when either party cancels a session.
type SessionCancelledEvent struct {
	BaseEvent
	SessionID    string `json:"session_id"`
	MentorshipID string `json:"mentorship_id"`
	CancelledBy  string `json:"cancelled_by"`
	Reason       string `json:"reason,omitempty"`
}

// Payload implements Event interface.
func (e SessionCancelledEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"session_id":    e.SessionID,
		"mentorship_id": e.MentorshipID,
		"cancelled_by":  e.CancelledBy,
		"reason":        e.Reason,
	}
}

// NewSessionCancelledEvent creates a new SessionCancelledEvent.
func NewSessionCancelledEvent(sessionID, mentorshipID, cancelledBy, reason string) SessionCancelledEvent {
	return SessionCancelledEvent{
		BaseEvent:    NewBaseEvent(EventSessionCancelled, sessionID),
		SessionID:    sessionID,
		MentorshipID: mentorshipID,
		CancelledBy:  cancelledBy,
		Reason:       reason,
	}
}

// SessionCompletedEvent is emitted when a session is marked completed.
type SessionCompletedEvent struct {
	BaseEvent
	SessionID    string `json:"session_id"`
	MentorshipID string `json:"mentorship_id"`
	MarkedBy     string `json:"marked_by"`
}

// Payload implements Event interface.
func (e SessionCompletedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"session_id":    e.SessionID,
		"mentorship_id": e.MentorshipID,
		"marked_by":     e.MarkedBy,
	}
}

// NewSessionCompletedEvent creates a new SessionCompletedEvent.
func NewSessionCompletedEvent(sessionID, mentorshipID, markedBy string) SessionCompletedEvent {
	return SessionCompletedEvent{
		BaseEvent:    NewBaseEvent(EventSessionCompleted, sessionID),
		SessionID:    sessionID,
		MentorshipID: mentorshipID,
		MarkedBy:     markedBy,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Notification Events
// ═══════════════════════════════════════════════════════════════════════════

// NotificationSentEvent is emitted after a notification is delivered.
type NotificationSentEvent struct {
	BaseEvent
	NotificationID string `json:"notification_id"`
	RecipientID    string `json:"recipient_id"`
	Channel        string `json:"channel"`
}

// Payload implements Event interface.
func (e NotificationSentEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"notification_id": e.NotificationID,
		"recipient_id":    e.RecipientID,
		"channel":         e.Channel,
	}
}

// NewNotificationSentEvent creates a new NotificationSentEvent.
func NewNotificationSentEvent(notificationID, recipientID, channel string) NotificationSentEvent {
	return NotificationSentEvent{
		BaseEvent:      NewBaseEvent(EventNotificationSent, notificationID),
		NotificationID: notificationID,
		RecipientID:    recipientID,
		Channel:        channel,
	}
}

// NotificationFailedEvent is emitted when delivery permanently fails.
type NotificationFailedEvent struct {
	BaseEvent
	NotificationID string `json:"notification_id"`
	RecipientID    string `json:"recipient_id"`
	Channel        string `json:"channel"`
	Error          string `json:"error"`
}

// Payload implements Event interface.
func (e NotificationFailedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"notification_id": e.NotificationID,
		"recipient_id":    e.RecipientID,
		"channel":         e.Channel,
		"error":           e.Error,
	}
}

// NewNotificationFailedEvent creates a new NotificationFailedEvent.
func NewNotificationFailedEvent(notificationID, recipientID, channel, errMsg string) NotificationFailedEvent {
	return NotificationFailedEvent{
		BaseEvent:      NewBaseEvent(EventNotificationFailed, notificationID),
		NotificationID: notificationID,
		RecipientID:    recipientID,
		Channel:        channel,
		Error:          errMsg,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Event Envelope (for serialization and transport)
// ═══════════════════════════════════════════════════════════════════════════

// EventEnvelope wraps an event for transport/storage.
type EventEnvelope struct {
	ID            string          `json:"id"`
	Type          EventType       `json:"type"`
	AggregateID   string          `json:"aggregate_id"`
	Timestamp     time.Time       `json:"timestamp"`
	Version       int             `json:"version"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

// EventHandler is a function that handles an event.
type EventHandler func(event Event) error

// EventPublisher defines the interface for publishing events.
type EventPublisher interface {
	// Publish sends an event to subscribers.
	Publish(event Event) error
}

// EventSubscriber defines the interface for subscribing to events.
type EventSubscriber interface {
	// Subscribe registers a handler for an event type.
	Subscribe(eventType EventType, handler EventHandler) error

	// SubscribeAll registers a handler for all events.
	SubscribeAll(handler EventHandler) error
}

// EventBus combines publishing and subscribing.
type EventBus interface {
	EventPublisher
	EventSubscriber
}
