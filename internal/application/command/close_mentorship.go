// Package command contains write operations (CQRS - Commands).
package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/mentorconnect/mentorconnect-core/internal/domain/activity"
	"github.com/mentorconnect/mentorconnect-core/internal/domain/mentorship"
	"github.com/mentorconnect/mentorconnect-core/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// CANCEL MENTORSHIP COMMAND
// Either party may cancel from pending or active.
// ══════════════════════════════════════════════════════════════════════════════

// CancelMentorshipCommand cancels an open mentorship.
type CancelMentorshipCommand struct {
	// MentorshipID is the mentorship to cancel.
	MentorshipID string

	// ActorID is the user performing the cancellation (either party).
	ActorID string

	// CorrelationID for tracing.
	CorrelationID string
}

// Validate validates the command.
func (c CancelMentorshipCommand) Validate() error {
	if c.MentorshipID == "" {
		return errors.New("cancel_mentorship: mentorship_id is required")
	}
	if c.ActorID == "" {
		return errors.New("cancel_mentorship: actor_id is required")
	}
	return nil
}

// CloseMentorshipResult contains the result of a cancel or complete.
type CloseMentorshipResult struct {
	// MentorshipID is the ID of the mentorship.
	MentorshipID string

	// Status is the resulting status.
	Status mentorship.Status

	// Events contains domain events generated.
	Events []shared.Event
}

// CancelMentorshipHandler handles the CancelMentorshipCommand.
type CancelMentorshipHandler struct {
	mentorshipRepo mentorship.Repository
	auditRepo      activity.Repository
	eventPublisher shared.EventPublisher
}

// NewCancelMentorshipHandler creates a new handler.
func NewCancelMentorshipHandler(
	mentorshipRepo mentorship.Repository,
	auditRepo activity.Repository,
	eventPublisher shared.EventPublisher,
) *CancelMentorshipHandler {
	return &CancelMentorshipHandler{
		mentorshipRepo: mentorshipRepo,
		auditRepo:      auditRepo,
		eventPublisher: eventPublisher,
	}
}

// Handle executes the cancel mentorship command.
func (h *CancelMentorshipHandler) Handle(ctx context.Context, cmd CancelMentorshipCommand) (*CloseMentorshipResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	m, err := h.mentorshipRepo.GetByID(ctx, shared.MentorshipID(cmd.MentorshipID))
	if err != nil {
		return nil, fmt.Errorf("cancel_mentorship: %w", err)
	}

	previous := m.Status
	if err := m.Cancel(shared.UserID(cmd.ActorID)); err != nil {
		return nil, err
	}

	if err := h.mentorshipRepo.Update(ctx, m); err != nil {
		return nil, fmt.Errorf("cancel_mentorship: save failed: %w", err)
	}

	recordMentorshipAudit(ctx, h.auditRepo, m, cmd.ActorID, activity.ActionMentorshipCancelled, map[string]interface{}{
		"previous_status": string(previous),
		"new_status":      string(m.Status),
	})

	result := &CloseMentorshipResult{
		MentorshipID: m.ID.String(),
		Status:       m.Status,
		Events:       make([]shared.Event, 0, 1),
	}

	event := shared.NewMentorshipCancelledEvent(m.ID.String(), m.MentorID.String(), m.MenteeID.String(), cmd.ActorID)
	if cmd.CorrelationID != "" {
		event.BaseEvent = event.BaseEvent.WithCorrelationID(cmd.CorrelationID)
	}
	result.Events = append(result.Events, event)
	_ = h.eventPublisher.Publish(event)

	return result, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// COMPLETE MENTORSHIP COMMAND
// Either party may complete an active mentorship.
// ══════════════════════════════════════════════════════════════════════════════

// CompleteMentorshipCommand completes an active mentorship.
type CompleteMentorshipCommand struct {
	// MentorshipID is the mentorship to complete.
	MentorshipID string

	// ActorID is the user performing the completion (either party).
	ActorID string

	// CorrelationID for tracing.
	CorrelationID string
}

// Validate validates the command.
func (c CompleteMentorshipCommand) Validate() error {
	if c.MentorshipID == "" {
		return errors.New("complete_mentorship: mentorship_id is required")
	}
	if c.ActorID == "" {
		return errors.New("complete_mentorship: actor_id is required")
	}
	return nil
}

// CompleteMentorshipHandler handles the CompleteMentorshipCommand.
type CompleteMentorshipHandler struct {
	mentorshipRepo mentorship.Repository
	auditRepo      activity.Repository
	eventPublisher shared.EventPublisher
}

// NewCompleteMentorshipHandler creates a new handler.
func NewCompleteMentorshipHandler(
	mentorshipRepo mentorship.Repository,
	auditRepo activity.Repository,
	eventPublisher shared.EventPublisher,
) *CompleteMentorshipHandler {
	return &CompleteMentorshipHandler{
		mentorshipRepo: mentorshipRepo,
		auditRepo:      auditRepo,
		eventPublisher: eventPublisher,
	}
}

// Handle executes the complete mentorship command.
func (h *CompleteMentorshipHandler) Handle(ctx context.Context, cmd CompleteMentorshipCommand) (*CloseMentorshipResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	m, err := h.mentorshipRepo.GetByID(ctx, shared.MentorshipID(cmd.MentorshipID))
	if err != nil {
		return nil, fmt.Errorf("complete_mentorship: %w", err)
	}

	previous := m.Status
	if err := m.Complete(shared.UserID(cmd.ActorID)); err != nil {
		return nil, err
	}

	if err := h.mentorshipRepo.Update(ctx, m); err != nil {
		return nil, fmt.Errorf("complete_mentorship: save failed: %w", err)
	}

	recordMentorshipAudit(ctx, h.auditRepo, m, cmd.ActorID, activity.ActionMentorshipCompleted, map[string]interface{}{
		"previous_status": string(previous),
		"new_status":      string(m.Status),
	})

	result := &CloseMentorshipResult{
		MentorshipID: m.ID.String(),
		Status:       m.Status,
		Events:       make([]shared.Event, 0, 1),
	}

	event := shared.NewMentorshipCompletedEvent(m.ID.String(), m.MentorID.String(), m.MenteeID.String(), cmd.ActorID)
	if cmd.CorrelationID != "" {
		event.BaseEvent = event.BaseEvent.WithCorrelationID(cmd.CorrelationID)
	}
	result.Events = append(result.Events, event)
	_ = h.eventPublisher.Publish(event)

	return result, nil
}
