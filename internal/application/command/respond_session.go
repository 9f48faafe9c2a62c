// Package command contains write operations (CQRS - Commands).
package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mentorconnect/mentorconnect-core/internal/domain/activity"
	"github.com/mentorconnect/mentorconnect-core/internal/domain/mentorship"
	"github.com/mentorconnect/mentorconnect-core/internal/domain/session"
	"github.com/mentorconnect/mentorconnect-core/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// RESPOND SESSION COMMAND
// The mentor answers a pending session proposal: approve turns it into a
// scheduled session, reject closes it with a reason. Only the mentor of
// the owning mentorship may respond, and only while the proposal is
// still pending.
// ══════════════════════════════════════════════════════════════════════════════

// RespondSessionCommand contains the mentor's answer to a proposal.
type RespondSessionCommand struct {
	// SessionID is the pending session being answered.
	SessionID string

	// ActorID is the responding mentor.
	ActorID string

	// Approve is true to schedule the session, false to reject it.
	Approve bool

	// Reason is an optional rejection reason. Ignored on approve.
	Reason string

	// MeetingLink is an optional call URL attached on approve. Ignored
	// on reject.
	MeetingLink string

	// CorrelationID for tracing.
	CorrelationID string
}

// Validate validates the command.
func (c RespondSessionCommand) Validate() error {
	if c.SessionID == "" {
		return errors.New("respond_session: session_id is required")
	}
	if c.ActorID == "" {
		return errors.New("respond_session: actor_id is required")
	}
	return nil
}

// RespondSessionResult contains the result of answering a proposal.
type RespondSessionResult struct {
	// SessionID is the session that was answered.
	SessionID string

	// Status is the resulting status (scheduled or cancelled).
	Status session.Status

	// Events contains domain events generated.
	Events []shared.Event
}

// RespondSessionHandler handles the RespondSessionCommand.
type RespondSessionHandler struct {
	mentorshipRepo mentorship.Repository
	sessionRepo    session.Repository
	auditRepo      activity.Repository
	eventPublisher shared.EventPublisher
}

// NewRespondSessionHandler creates a new RespondSessionHandler.
func NewRespondSessionHandler(
	mentorshipRepo mentorship.Repository,
	sessionRepo session.Repository,
	auditRepo activity.Repository,
	eventPublisher shared.EventPublisher,
) *RespondSessionHandler {
	return &RespondSessionHandler{
		mentorshipRepo: mentorshipRepo,
		sessionRepo:    sessionRepo,
		auditRepo:      auditRepo,
		eventPublisher: eventPublisher,
	}
}

// Handle executes the respond session command.
func (h *RespondSessionHandler) Handle(ctx context.Context, cmd RespondSessionCommand) (*RespondSessionResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	s, err := h.sessionRepo.GetByID(ctx, shared.SessionID(cmd.SessionID))
	if err != nil {
		return nil, fmt.Errorf("respond_session: %w", err)
	}

	// The mentor is resolved through the owning mentorship.
	m, err := h.mentorshipRepo.GetByID(ctx, s.MentorshipID)
	if err != nil {
		return nil, fmt.Errorf("respond_session: %w", err)
	}

	actorID := shared.UserID(cmd.ActorID)
	if actorID != m.MentorID {
		return nil, shared.ErrSessionForbidden
	}

	var (
		event  shared.Event
		action activity.Action
	)
	if cmd.Approve {
		if err := s.Approve(); err != nil {
			return nil, err
		}
		if cmd.MeetingLink != "" {
			s.MeetingLink = cmd.MeetingLink
		}
		action = activity.ActionSessionScheduled
		e := shared.NewSessionScheduledEvent(s.ID.String(), m.ID.String(), s.StartsAt, s.EndsAt())
		if cmd.CorrelationID != "" {
			e.BaseEvent = e.BaseEvent.WithCorrelationID(cmd.CorrelationID)
		}
		event = e
	} else {
		if err := s.Reject(actorID, cmd.Reason); err != nil {
			return nil, err
		}
		action = activity.ActionSessionRejected
		e := shared.NewSessionRejectedEvent(s.ID.String(), m.ID.String(), s.CancellationReason)
		if cmd.CorrelationID != "" {
			e.BaseEvent = e.BaseEvent.WithCorrelationID(cmd.CorrelationID)
		}
		event = e
	}

	if err := h.sessionRepo.Update(ctx, s); err != nil {
		return nil, fmt.Errorf("respond_session: save failed: %w", err)
	}

	details := map[string]interface{}{
		"previous_status": string(session.StatusPending),
		"new_status":      string(s.Status),
	}
	if !cmd.Approve && s.CancellationReason != "" {
		details["reason"] = s.CancellationReason
	}
	recordSessionAudit(ctx, h.auditRepo, s, cmd.ActorID, action, details)

	_ = h.eventPublisher.Publish(event)

	return &RespondSessionResult{
		SessionID: s.ID.String(),
		Status:    s.Status,
		Events:    []shared.Event{event},
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// CANCEL SESSION COMMAND
// Either party cancels a session that still reserves a slot.
// ══════════════════════════════════════════════════════════════════════════════

// CancelSessionCommand contains the data to cancel a session.
type CancelSessionCommand struct {
	// SessionID is the session to cancel.
	SessionID string

	// ActorID is the party cancelling.
	ActorID string

	// Reason is an optional cancellation reason.
	Reason string

	// CorrelationID for tracing.
	CorrelationID string
}

// Validate validates the command.
func (c CancelSessionCommand) Validate() error {
	if c.SessionID == "" {
		return errors.New("cancel_session: session_id is required")
	}
	if c.ActorID == "" {
		return errors.New("cancel_session: actor_id is required")
	}
	return nil
}

// CancelSessionResult contains the result of cancelling a session.
type CancelSessionResult struct {
	SessionID string
	Status    session.Status
	Events    []shared.Event
}

// CancelSessionHandler handles the CancelSessionCommand.
type CancelSessionHandler struct {
	mentorshipRepo mentorship.Repository
	sessionRepo    session.Repository
	auditRepo      activity.Repository
	eventPublisher shared.EventPublisher
}

// NewCancelSessionHandler creates a new CancelSessionHandler.
func NewCancelSessionHandler(
	mentorshipRepo mentorship.Repository,
	sessionRepo session.Repository,
	auditRepo activity.Repository,
	eventPublisher shared.EventPublisher,
) *CancelSessionHandler {
	return &CancelSessionHandler{
		mentorshipRepo: mentorshipRepo,
		sessionRepo:    sessionRepo,
		auditRepo:      auditRepo,
		eventPublisher: eventPublisher,
	}
}

// Handle executes the cancel session command.
func (h *CancelSessionHandler) Handle(ctx context.Context, cmd CancelSessionCommand) (*CancelSessionResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	s, err := h.sessionRepo.GetByID(ctx, shared.SessionID(cmd.SessionID))
	if err != nil {
		return nil, fmt.Errorf("cancel_session: %w", err)
	}

	m, err := h.mentorshipRepo.GetByID(ctx, s.MentorshipID)
	if err != nil {
		return nil, fmt.Errorf("cancel_session: %w", err)
	}

	actorID := shared.UserID(cmd.ActorID)
	if !m.InvolvesUser(actorID) {
		return nil, shared.ErrSessionForbidden
	}

	previous := s.Status
	if err := s.Cancel(actorID, cmd.Reason); err != nil {
		return nil, err
	}

	if err := h.sessionRepo.Update(ctx, s); err != nil {
		return nil, fmt.Errorf("cancel_session: save failed: %w", err)
	}

	details := map[string]interface{}{
		"previous_status": string(previous),
		"new_status":      string(s.Status),
	}
	if s.CancellationReason != "" {
		details["reason"] = s.CancellationReason
	}
	recordSessionAudit(ctx, h.auditRepo, s, cmd.ActorID, activity.ActionSessionCancelled, details)

	event := shared.NewSessionCancelledEvent(s.ID.String(), m.ID.String(), cmd.ActorID, s.CancellationReason)
	if cmd.CorrelationID != "" {
		event.BaseEvent = event.BaseEvent.WithCorrelationID(cmd.CorrelationID)
	}
	_ = h.eventPublisher.Publish(event)

	return &CancelSessionResult{
		SessionID: s.ID.String(),
		Status:    s.Status,
		Events:    []shared.Event{event},
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// COMPLETE SESSION COMMAND
// Either party marks a scheduled session as held.
// ══════════════════════════════════════════════════════════════════════════════

// CompleteSessionCommand contains the data to complete a session.
type CompleteSessionCommand struct {
	// SessionID is the session to mark as held.
	SessionID string

	// ActorID is the party marking completion.
	ActorID string

	// CorrelationID for tracing.
	CorrelationID string
}

// Validate validates the command.
func (c CompleteSessionCommand) Validate() error {
	if c.SessionID == "" {
		return errors.New("complete_session: session_id is required")
	}
	if c.ActorID == "" {
		return errors.New("complete_session: actor_id is required")
	}
	return nil
}

// CompleteSessionResult contains the result of completing a session.
type CompleteSessionResult struct {
	SessionID   string
	Status      session.Status
	CompletedAt time.Time
	Events      []shared.Event
}

// CompleteSessionHandler handles the CompleteSessionCommand.
type CompleteSessionHandler struct {
	mentorshipRepo mentorship.Repository
	sessionRepo    session.Repository
	auditRepo      activity.Repository
	eventPublisher shared.EventPublisher
}

// NewCompleteSessionHandler creates a new CompleteSessionHandler.
func NewCompleteSessionHandler(
	mentorshipRepo mentorship.Repository,
	sessionRepo session.Repository,
	auditRepo activity.Repository,
	eventPublisher shared.EventPublisher,
) *CompleteSessionHandler {
	return &CompleteSessionHandler{
		mentorshipRepo: mentorshipRepo,
		sessionRepo:    sessionRepo,
		auditRepo:      auditRepo,
		eventPublisher: eventPublisher,
	}
}

// Handle executes the complete session command.
func (h *CompleteSessionHandler) Handle(ctx context.Context, cmd CompleteSessionCommand) (*CompleteSessionResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	s, err := h.sessionRepo.GetByID(ctx, shared.SessionID(cmd.SessionID))
	if err != nil {
		return nil, fmt.Errorf("complete_session: %w", err)
	}

	m, err := h.mentorshipRepo.GetByID(ctx, s.MentorshipID)
	if err != nil {
		return nil, fmt.Errorf("complete_session: %w", err)
	}

	actorID := shared.UserID(cmd.ActorID)
	if !m.InvolvesUser(actorID) {
		return nil, shared.ErrSessionForbidden
	}

	if err := s.Complete(); err != nil {
		return nil, err
	}

	if err := h.sessionRepo.Update(ctx, s); err != nil {
		return nil, fmt.Errorf("complete_session: save failed: %w", err)
	}

	recordSessionAudit(ctx, h.auditRepo, s, cmd.ActorID, activity.ActionSessionCompleted, map[string]interface{}{
		"previous_status": string(session.StatusScheduled),
		"new_status":      string(s.Status),
	})

	event := shared.NewSessionCompletedEvent(s.ID.String(), m.ID.String(), cmd.ActorID)
	if cmd.CorrelationID != "" {
		event.BaseEvent = event.BaseEvent.WithCorrelationID(cmd.CorrelationID)
	}
	_ = h.eventPublisher.Publish(event)

	return &CompleteSessionResult{
		SessionID:   s.ID.String(),
		Status:      s.Status,
		CompletedAt: s.UpdatedAt,
		Events:      []shared.Event{event},
	}, nil
}
