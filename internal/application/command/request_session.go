// Package command contains write operations (CQRS - Commands).
package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mentorconnect/mentorconnect-core/internal/domain/activity"
	"github.com/mentorconnect/mentorconnect-core/internal/domain/mentorship"
	"github.com/mentorconnect/mentorconnect-core/internal/domain/session"
	"github.com/mentorconnect/mentorconnect-core/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// REQUEST SESSION COMMAND
// Proposes a session on an active mentorship. A mentor-authored proposal
// is scheduled immediately; a mentee-authored one waits for approval.
// The overlap check and the insert share one transaction so concurrent
// proposals cannot double-book a slot.
// ══════════════════════════════════════════════════════════════════════════════

// RequestSessionCommand contains the data to propose a session.
type RequestSessionCommand struct {
	// MentorshipID is the mentorship the session belongs to.
	MentorshipID string

	// ActorID is the party proposing the session.
	ActorID string

	// StartsAt is the proposed start time.
	StartsAt time.Time

	// DurationMinutes is the proposed duration (15-240).
	DurationMinutes int

	// Topic is an optional session topic.
	Topic string

	// Description is an optional free-form session description.
	Description string

	// MeetingLink is an optional URL for the video call.
	MeetingLink string

	// CorrelationID for tracing.
	CorrelationID string
}

// Validate validates the command.
func (c RequestSessionCommand) Validate() error {
	if c.MentorshipID == "" {
		return errors.New("request_session: mentorship_id is required")
	}
	if c.ActorID == "" {
		return errors.New("request_session: actor_id is required")
	}
	if c.StartsAt.IsZero() {
		return errors.New("request_session: starts_at is required")
	}
	if c.DurationMinutes <= 0 {
		return errors.New("request_session: duration_minutes is required")
	}
	return nil
}

// RequestSessionResult contains the result of proposing a session.
type RequestSessionResult struct {
	// SessionID is the ID of the created session.
	SessionID string

	// Status is the initial status (scheduled for mentor-authored,
	// pending for mentee-authored proposals).
	Status session.Status

	// EndsAt is the computed end of the session.
	EndsAt time.Time

	// Events contains domain events generated.
	Events []shared.Event
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// RequestSessionHandler handles the RequestSessionCommand.
type RequestSessionHandler struct {
	mentorshipRepo mentorship.Repository
	uowFactory     session.UnitOfWorkFactory
	auditRepo      activity.Repository
	eventPublisher shared.EventPublisher
	rateLimiter    RateLimiter
}

// NewRequestSessionHandler creates a new RequestSessionHandler.
func NewRequestSessionHandler(
	mentorshipRepo mentorship.Repository,
	uowFactory session.UnitOfWorkFactory,
	auditRepo activity.Repository,
	eventPublisher shared.EventPublisher,
	rateLimiter RateLimiter,
) *RequestSessionHandler {
	return &RequestSessionHandler{
		mentorshipRepo: mentorshipRepo,
		uowFactory:     uowFactory,
		auditRepo:      auditRepo,
		eventPublisher: eventPublisher,
		rateLimiter:    rateLimiter,
	}
}

// Handle executes the request session command.
func (h *RequestSessionHandler) Handle(ctx context.Context, cmd RequestSessionCommand) (*RequestSessionResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	if h.rateLimiter != nil {
		if err := h.rateLimiter.Allow(ctx, cmd.ActorID, "request_session"); err != nil {
			return nil, fmt.Errorf("request_session: %w", err)
		}
	}

	m, err := h.mentorshipRepo.GetByID(ctx, shared.MentorshipID(cmd.MentorshipID))
	if err != nil {
		return nil, fmt.Errorf("request_session: %w", err)
	}

	actorID := shared.UserID(cmd.ActorID)
	if !m.InvolvesUser(actorID) {
		return nil, shared.ErrSessionForbidden
	}
	if !m.IsActive() {
		return nil, shared.ErrMentorshipNotActive
	}

	authoredByMentor := actorID == m.MentorID

	s, err := session.NewSession(session.NewSessionParams{
		ID:               shared.SessionID(uuid.NewString()),
		MentorshipID:     m.ID,
		RequestedBy:      actorID,
		StartsAt:         cmd.StartsAt,
		DurationMinutes:  cmd.DurationMinutes,
		Topic:            cmd.Topic,
		Description:      cmd.Description,
		MeetingLink:      cmd.MeetingLink,
		AuthoredByMentor: authoredByMentor,
	})
	if err != nil {
		return nil, err
	}

	// Overlap check and insert run in one transaction.
	uow, err := h.uowFactory.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("request_session: begin tx: %w", err)
	}

	overlaps, err := uow.Sessions().HasOverlap(ctx, m.ID, s.Interval())
	if err != nil {
		_ = uow.Rollback(ctx)
		return nil, fmt.Errorf("request_session: overlap check failed: %w", err)
	}
	if overlaps {
		_ = uow.Rollback(ctx)
		return nil, shared.ErrSchedulingConflict
	}

	if err := uow.Sessions().Create(ctx, s); err != nil {
		_ = uow.Rollback(ctx)
		return nil, fmt.Errorf("request_session: save failed: %w", err)
	}

	if err := uow.Commit(ctx); err != nil {
		return nil, fmt.Errorf("request_session: commit failed: %w", err)
	}

	auditAction := activity.ActionSessionRequested
	if authoredByMentor {
		auditAction = activity.ActionSessionScheduled
	}
	recordSessionAudit(ctx, h.auditRepo, s, cmd.ActorID, auditAction, map[string]interface{}{
		"starts_at":        s.StartsAt.Format(time.RFC3339),
		"ends_at":          s.EndsAt().Format(time.RFC3339),
		"duration_minutes": s.DurationMinutes,
		"status":           string(s.Status),
	})

	result := &RequestSessionResult{
		SessionID: s.ID.String(),
		Status:    s.Status,
		EndsAt:    s.EndsAt(),
		Events:    make([]shared.Event, 0, 1),
	}

	var event shared.Event
	if authoredByMentor {
		e := shared.NewSessionScheduledEvent(s.ID.String(), m.ID.String(), s.StartsAt, s.EndsAt())
		if cmd.CorrelationID != "" {
			e.BaseEvent = e.BaseEvent.WithCorrelationID(cmd.CorrelationID)
		}
		event = e
	} else {
		e := shared.NewSessionRequestedEvent(s.ID.String(), m.ID.String(), cmd.ActorID, s.StartsAt, s.EndsAt())
		if cmd.CorrelationID != "" {
			e.BaseEvent = e.BaseEvent.WithCorrelationID(cmd.CorrelationID)
		}
		event = e
	}
	result.Events = append(result.Events, event)
	_ = h.eventPublisher.Publish(event)

	return result, nil
}

// recordSessionAudit writes one audit entry for a session transition.
// Audit failures never fail the command.
func recordSessionAudit(
	ctx context.Context,
	repo activity.Repository,
	s *session.Session,
	actorID string,
	action activity.Action,
	details map[string]interface{},
) {
	entry, err := activity.NewEntry(activity.NewEntryParams{
		ID:       uuid.NewString(),
		ActorID:  shared.UserID(actorID),
		Action:   action,
		EntityID: s.ID.String(),
		Details:  details,
	})
	if err != nil {
		return
	}
	_ = repo.Record(ctx, entry)
}
