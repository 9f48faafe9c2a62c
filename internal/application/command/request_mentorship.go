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
// REQUEST MENTORSHIP COMMAND
// Creates a pending mentorship request from a mentee to a mentor.
// The duplicate-pair check and the insert run in one transaction so two
// concurrent requests for the same pair cannot both succeed.
// ══════════════════════════════════════════════════════════════════════════════

// RateLimiter throttles request-type operations per actor.
type RateLimiter interface {
	// Allow returns nil if the actor may proceed, shared.ErrRateLimited otherwise.
	Allow(ctx context.Context, actorID string, op string) error
}

// RequestMentorshipCommand contains the data to request a mentorship.
type RequestMentorshipCommand struct {
	// ActorID is the mentee initiating the request.
	ActorID string

	// MentorID is the requested mentor.
	MentorID string

	// CorrelationID for tracing.
	CorrelationID string
}

// Validate validates the command.
func (c RequestMentorshipCommand) Validate() error {
	if c.ActorID == "" {
		return errors.New("request_mentorship: actor_id is required")
	}
	if c.MentorID == "" {
		return errors.New("request_mentorship: mentor_id is required")
	}
	if c.ActorID == c.MentorID {
		return errors.New("request_mentorship: cannot request yourself as mentor")
	}
	return nil
}

// RequestMentorshipResult contains the result of requesting a mentorship.
type RequestMentorshipResult struct {
	// MentorshipID is the ID of the created mentorship.
	MentorshipID string

	// Status is the status of the mentorship (always pending on success).
	Status mentorship.Status

	// Events contains domain events generated.
	Events []shared.Event
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// RequestMentorshipHandler handles the RequestMentorshipCommand.
type RequestMentorshipHandler struct {
	directory      identity.Directory
	uowFactory     mentorship.UnitOfWorkFactory
	pairing        mentorship.PairingPolicy
	auditRepo      activity.Repository
	eventPublisher shared.EventPublisher
	rateLimiter    RateLimiter
}

// NewRequestMentorshipHandler creates a new RequestMentorshipHandler.
func NewRequestMentorshipHandler(
	directory identity.Directory,
	uowFactory mentorship.UnitOfWorkFactory,
	pairing mentorship.PairingPolicy,
	auditRepo activity.Repository,
	eventPublisher shared.EventPublisher,
	rateLimiter RateLimiter,
) *RequestMentorshipHandler {
	return &RequestMentorshipHandler{
		directory:      directory,
		uowFactory:     uowFactory,
		pairing:        pairing,
		auditRepo:      auditRepo,
		eventPublisher: eventPublisher,
		rateLimiter:    rateLimiter,
	}
}

// Handle executes the request mentorship command.
func (h *RequestMentorshipHandler) Handle(ctx context.Context, cmd RequestMentorshipCommand) (*RequestMentorshipResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	if h.rateLimiter != nil {
		if err := h.rateLimiter.Allow(ctx, cmd.ActorID, "request_mentorship"); err != nil {
			return nil, fmt.Errorf("request_mentorship: %w", err)
		}
	}

	// Resolve both parties and verify roles.
	mentee, err := h.directory.GetByID(ctx, shared.UserID(cmd.ActorID))
	if err != nil {
		return nil, fmt.Errorf("request_mentorship: actor lookup failed: %w", err)
	}
	if !mentee.IsMentee() {
		return nil, shared.ErrRoleNotAllowed
	}
	if !mentee.IsActive() {
		return nil, shared.ErrUserNotActive
	}

	mentor, err := h.directory.GetByID(ctx, shared.UserID(cmd.MentorID))
	if err != nil {
		return nil, fmt.Errorf("request_mentorship: mentor lookup failed: %w", err)
	}
	if !mentor.IsMentor() {
		return nil, shared.ErrRoleNotAllowed
	}
	if !mentor.IsActive() {
		return nil, shared.ErrUserNotActive
	}

	// Pairing policy runs before any write.
	if err := h.pairing.Validate(mentor, mentee); err != nil {
		return nil, err
	}

	m, err := mentorship.NewMentorship(mentorship.NewMentorshipParams{
		ID:       shared.MentorshipID(uuid.NewString()),
		MentorID: mentor.ID,
		MenteeID: mentee.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("request_mentorship: %w", err)
	}

	// The open-pair check and the insert share a transaction. The partial
	// unique index on open pairs backs this up at the storage level.
	uow, err := h.uowFactory.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("request_mentorship: begin tx: %w", err)
	}

	exists, err := uow.Mentorships().HasOpenPair(ctx, mentor.ID, mentee.ID)
	if err != nil {
		_ = uow.Rollback(ctx)
		return nil, fmt.Errorf("request_mentorship: open-pair check failed: %w", err)
	}
	if exists {
		_ = uow.Rollback(ctx)
		return nil, shared.ErrDuplicatePair
	}

	if err := uow.Mentorships().Create(ctx, m); err != nil {
		_ = uow.Rollback(ctx)
		return nil, fmt.Errorf("request_mentorship: save failed: %w", err)
	}

	if err := uow.Commit(ctx); err != nil {
		return nil, fmt.Errorf("request_mentorship: commit failed: %w", err)
	}

	h.recordAudit(ctx, m, cmd.ActorID)

	result := &RequestMentorshipResult{
		MentorshipID: m.ID.String(),
		Status:       m.Status,
		Events:       make([]shared.Event, 0, 1),
	}

	event := shared.NewMentorshipRequestedEvent(m.ID.String(), m.MentorID.String(), m.MenteeID.String())
	if cmd.CorrelationID != "" {
		event.BaseEvent = event.BaseEvent.WithCorrelationID(cmd.CorrelationID)
	}
	result.Events = append(result.Events, event)
	_ = h.eventPublisher.Publish(event)

	return result, nil
}

// recordAudit writes the audit entry for the transition. Audit failures
// never fail the command.
func (h *RequestMentorshipHandler) recordAudit(ctx context.Context, m *mentorship.Mentorship, actorID string) {
	entry, err := activity.NewEntry(activity.NewEntryParams{
		ID:       uuid.NewString(),
		ActorID:  shared.UserID(actorID),
		Action:   activity.ActionMentorshipRequested,
		EntityID: m.ID.String(),
		Details: map[string]interface{}{
			"mentor_id": m.MentorID.String(),
			"mentee_id": m.MenteeID.String(),
			"status":    string(m.Status),
		},
	})
	if err != nil {
		return
	}
	_ = h.auditRepo.Record(ctx, entry)
}
