package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mentorconnect/mentorconnect-core/internal/domain/availability"
	"github.com/mentorconnect/mentorconnect-core/internal/domain/identity"
	"github.com/mentorconnect/mentorconnect-core/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// MANAGE AVAILABILITY COMMANDS
// Mentors publish and retract recurring availability slots. The slots are
// informational for mentees browsing a mentor's schedule; booking does not
// consult them.
// ══════════════════════════════════════════════════════════════════════════════

// AddAvailabilitySlotCommand publishes a new availability slot.
type AddAvailabilitySlotCommand struct {
	// ActorID is the mentor publishing the slot.
	ActorID string

	// Weekday is the day of the week, lowercase ("monday".."sunday").
	Weekday string

	// StartTime is the slot start in HH:MM.
	StartTime string

	// EndTime is the slot end in HH:MM, must be after StartTime.
	EndTime string

	// Recurring marks the slot as repeating weekly.
	Recurring bool
}

// Validate validates the command.
func (c AddAvailabilitySlotCommand) Validate() error {
	if c.ActorID == "" {
		return errors.New("add_availability: actor_id is required")
	}
	if c.Weekday == "" {
		return errors.New("add_availability: weekday is required")
	}
	if c.StartTime == "" || c.EndTime == "" {
		return errors.New("add_availability: start_time and end_time are required")
	}
	return nil
}

// AddAvailabilitySlotResult contains the created slot.
type AddAvailabilitySlotResult struct {
	SlotID string
}

// AddAvailabilitySlotHandler handles the AddAvailabilitySlotCommand.
type AddAvailabilitySlotHandler struct {
	directory identity.Directory
	repo      availability.Repository
}

// NewAddAvailabilitySlotHandler creates a new AddAvailabilitySlotHandler.
func NewAddAvailabilitySlotHandler(directory identity.Directory, repo availability.Repository) *AddAvailabilitySlotHandler {
	return &AddAvailabilitySlotHandler{directory: directory, repo: repo}
}

// Handle executes the add availability command.
func (h *AddAvailabilitySlotHandler) Handle(ctx context.Context, cmd AddAvailabilitySlotCommand) (*AddAvailabilitySlotResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	actor, err := h.directory.GetByID(ctx, shared.UserID(cmd.ActorID))
	if err != nil {
		return nil, fmt.Errorf("add_availability: actor lookup failed: %w", err)
	}
	if !actor.IsMentor() {
		return nil, shared.ErrRoleNotAllowed
	}
	if !actor.IsActive() {
		return nil, shared.ErrUserNotActive
	}

	slot, err := availability.NewSlot(availability.NewSlotParams{
		ID:        uuid.NewString(),
		MentorID:  actor.ID,
		Weekday:   availability.Weekday(cmd.Weekday),
		StartTime: cmd.StartTime,
		EndTime:   cmd.EndTime,
		Recurring: cmd.Recurring,
	})
	if err != nil {
		return nil, err
	}

	if err := h.repo.Create(ctx, slot); err != nil {
		return nil, fmt.Errorf("add_availability: save failed: %w", err)
	}

	return &AddAvailabilitySlotResult{SlotID: slot.ID}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// REMOVE AVAILABILITY SLOT
// ══════════════════════════════════════════════════════════════════════════════

// RemoveAvailabilitySlotCommand retracts a published slot.
type RemoveAvailabilitySlotCommand struct {
	// SlotID is the slot to remove.
	SlotID string

	// ActorID is the mentor removing the slot. Only the owner can
	// remove it.
	ActorID string
}

// Validate validates the command.
func (c RemoveAvailabilitySlotCommand) Validate() error {
	if c.SlotID == "" {
		return errors.New("remove_availability: slot_id is required")
	}
	if c.ActorID == "" {
		return errors.New("remove_availability: actor_id is required")
	}
	return nil
}

// RemoveAvailabilitySlotHandler handles the RemoveAvailabilitySlotCommand.
type RemoveAvailabilitySlotHandler struct {
	directory identity.Directory
	repo      availability.Repository
}

// NewRemoveAvailabilitySlotHandler creates a new RemoveAvailabilitySlotHandler.
func NewRemoveAvailabilitySlotHandler(directory identity.Directory, repo availability.Repository) *RemoveAvailabilitySlotHandler {
	return &RemoveAvailabilitySlotHandler{directory: directory, repo: repo}
}

// Handle executes the remove availability command. The delete is scoped
// to the actor, so removing someone else's slot reports not-found.
func (h *RemoveAvailabilitySlotHandler) Handle(ctx context.Context, cmd RemoveAvailabilitySlotCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	actor, err := h.directory.GetByID(ctx, shared.UserID(cmd.ActorID))
	if err != nil {
		return fmt.Errorf("remove_availability: actor lookup failed: %w", err)
	}
	if !actor.IsMentor() {
		return shared.ErrRoleNotAllowed
	}

	if err := h.repo.DeleteByOwner(ctx, cmd.SlotID, actor.ID); err != nil {
		if errors.Is(err, shared.ErrSlotNotFound) {
			return err
		}
		return fmt.Errorf("remove_availability: delete failed: %w", err)
	}

	return nil
}
