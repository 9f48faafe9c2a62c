// Package command contains write operations (CQRS - Commands).
package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mentorconnect/mentorconnect-core/internal/domain/activity"
	"github.com/mentorconnect/mentorconnect-core/internal/domain/identity"
	"github.com/mentorconnect/mentorconnect-core/internal/domain/mentorship"
	"github.com/mentorconnect/mentorconnect-core/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// ACCEPT MENTORSHIP COMMAND
// The mentor accepts a pending request. The pairing policy is evaluated
// again because profile attributes may have changed since the request.
// ══════════════════════════════════════════════════════════════════════════════

// AcceptMentorshipCommand accepts a pending mentorship request.
type AcceptMentorshipCommand struct {
	// MentorshipID is the mentorship to accept.
	MentorshipID string

	// ActorID is the user performing the acceptance (must be the mentor).
	ActorID string

	// CorrelationID for tracing.
	CorrelationID string
}

// Validate validates the command.
func (c AcceptMentorshipCommand) Validate() error {
	if c.MentorshipID == "" {
		return errors.New("accept_mentorship: mentorship_id is required")
	}
	if c.ActorID == "" {
		return errors.New("accept_mentorship: actor_id is required")
	}
	return nil
}

// AcceptMentorshipResult contains the result of accepting a mentorship.
type AcceptMentorshipResult struct {
	// MentorshipID is the ID of the mentorship.
	MentorshipID string

	// Status is the resulting status (active on success).
	Status mentorship.Status

	// Events contains domain events generated.
	Events []shared.Event
}

// AcceptMentorshipHandler handles the AcceptMentorshipCommand.
type AcceptMentorshipHandler struct {
	directory      identity.Directory
	mentorshipRepo mentorship.Repository
	pairing        mentorship.PairingPolicy
	auditRepo      activity.Repository
	eventPublisher shared.EventPublisher
}

// NewAcceptMentorshipHandler creates a new handler.
func NewAcceptMentorshipHandler(
	directory identity.Directory,
	mentorshipRepo mentorship.Repository,
	pairing mentorship.PairingPolicy,
	auditRepo activity.Repository,
	eventPublisher shared.EventPublisher,
) *AcceptMentorshipHandler {
	return &AcceptMentorshipHandler{
		directory:      directory,
		mentorshipRepo: mentorshipRepo,
		pairing:        pairing,
		auditRepo:      auditRepo,
		eventPublisher: eventPublisher,
	}
}

// Handle executes the accept mentorship command.
func (h *AcceptMentorshipHandler) Handle(ctx context.Context, cmd AcceptMentorshipCommand) (*AcceptMentorshipResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	m, err := h.mentorshipRepo.GetByID(ctx, shared.MentorshipID(cmd.MentorshipID))
	if err != nil {
		return nil, fmt.Errorf("accept_mentorship: %w", err)
	}

	// Re-validate the pairing with current profile attributes.
	mentor, err := h.directory.GetByID(ctx, m.MentorID)
	if err != nil {
		return nil, fmt.Errorf("accept_mentorship: mentor lookup failed: %w", err)
	}
	mentee, err := h.directory.GetByID(ctx, m.MenteeID)
	if err != nil {
		return nil, fmt.Errorf("accept_mentorship: mentee lookup failed: %w", err)
	}
	if err := h.pairing.Validate(mentor, mentee); err != nil {
		return nil, err
	}

	if err := m.Accept(shared.UserID(cmd.ActorID)); err != nil {
		return nil, err
	}

	if err := h.mentorshipRepo.Update(ctx, m); err != nil {
		return nil, fmt.Errorf("accept_mentorship: save failed: %w", err)
	}

	recordMentorshipAudit(ctx, h.auditRepo, m, cmd.ActorID, activity.ActionMentorshipAccepted, map[string]interface{}{
		"previous_status": string(mentorship.StatusPending),
		"new_status":      string(m.Status),
	})

	result := &AcceptMentorshipResult{
		MentorshipID: m.ID.String(),
		Status:       m.Status,
		Events:       make([]shared.Event, 0, 1),
	}

	event := shared.NewMentorshipAcceptedEvent(m.ID.String(), m.MentorID.String(), m.MenteeID.String())
	if cmd.CorrelationID != "" {
		event.BaseEvent = event.BaseEvent.WithCorrelationID(cmd.CorrelationID)
	}
	result.Events = append(result.Events, event)
	_ = h.eventPublisher.Publish(event)

	return result, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// DECLINE MENTORSHIP COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// DeclineMentorshipCommand declines a pending mentorship request.
type DeclineMentorshipCommand struct {
	// MentorshipID is the mentorship to decline.
	MentorshipID string

	// ActorID is the user performing the decline (must be the mentor).
	ActorID string

	// Reason is an optional explanation stored on the mentorship.
	Reason string

	// CorrelationID for tracing.
	CorrelationID string
}

// Validate validates the command.
func (c DeclineMentorshipCommand) Validate() error {
	if c.MentorshipID == "" {
		return errors.New("decline_mentorship: mentorship_id is required")
	}
	if c.ActorID == "" {
		return errors.New("decline_mentorship: actor_id is required")
	}
	return nil
}

// DeclineMentorshipResult contains the result of declining a mentorship.
type DeclineMentorshipResult struct {
	// MentorshipID is the ID of the mentorship.
	MentorshipID string

	// Status is the resulting status (declined on success).
	Status mentorship.Status

	// Events contains domain events generated.
	Events []shared.Event
}

// DeclineMentorshipHandler handles the DeclineMentorshipCommand.
type DeclineMentorshipHandler struct {
	mentorshipRepo mentorship.Repository
	auditRepo      activity.Repository
	eventPublisher shared.EventPublisher
}

// NewDeclineMentorshipHandler creates a new handler.
func NewDeclineMentorshipHandler(
	mentorshipRepo mentorship.Repository,
	auditRepo activity.Repository,
	eventPublisher shared.EventPublisher,
) *DeclineMentorshipHandler {
	return &DeclineMentorshipHandler{
		mentorshipRepo: mentorshipRepo,
		auditRepo:      auditRepo,
		eventPublisher: eventPublisher,
	}
}

// Handle executes the decline mentorship command.
func (h *DeclineMentorshipHandler) Handle(ctx context.Context, cmd DeclineMentorshipCommand) (*DeclineMentorshipResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	m, err := h.mentorshipRepo.GetByID(ctx, shared.MentorshipID(cmd.MentorshipID))
	if err != nil {
		return nil, fmt.Errorf("decline_mentorship: %w", err)
	}

	if err := m.Decline(shared.UserID(cmd.ActorID), cmd.Reason); err != nil {
		return nil, err
	}

	if err := h.mentorshipRepo.Update(ctx, m); err != nil {
		return nil, fmt.Errorf("decline_mentorship: save failed: %w", err)
	}

	recordMentorshipAudit(ctx, h.auditRepo, m, cmd.ActorID, activity.ActionMentorshipDeclined, map[string]interface{}{
		"previous_status": string(mentorship.StatusPending),
		"new_status":      string(m.Status),
		"reason":          m.Notes,
	})

	result := &DeclineMentorshipResult{
		MentorshipID: m.ID.String(),
		Status:       m.Status,
		Events:       make([]shared.Event, 0, 1),
	}

	event := shared.NewMentorshipDeclinedEvent(m.ID.String(), m.MentorID.String(), m.MenteeID.String(), m.Notes)
	if cmd.CorrelationID != "" {
		event.BaseEvent = event.BaseEvent.WithCorrelationID(cmd.CorrelationID)
	}
	result.Events = append(result.Events, event)
	_ = h.eventPublisher.Publish(event)

	return result, nil
}

// recordMentorshipAudit writes one audit entry for a mentorship transition.
// Audit failures never fail the command.
func recordMentorshipAudit(
	ctx context.Context,
	repo activity.Repository,
	m *mentorship.Mentorship,
	actorID string,
	action activity.Action,
	details map[string]interface{},
) {
	entry, err := activity.NewEntry(activity.NewEntryParams{
		ID:       uuid.NewString(),
		ActorID:  shared.UserID(actorID),
		Action:   action,
		EntityID: m.ID.String(),
		Details:  details,
	})
	if err != nil {
		return
	}
	_ = repo.Record(ctx, entry)
}
