// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages. This package has zero external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base domain errors that can be used for error checking with errors.Is().
var (
	// Entity errors
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")
	ErrInvalidEntity = errors.New("invalid entity")

	// Validation errors
	ErrValidation      = errors.New("validation error")
	ErrInvalidID       = errors.New("invalid ID")
	ErrInvalidInput    = errors.New("invalid input")
	ErrEmptyValue      = errors.New("value cannot be empty")
	ErrNegativeValue   = errors.New("value cannot be negative")
	ErrValueOutOfRange = errors.New("value out of range")
	ErrPastTimestamp   = errors.New("timestamp cannot be in the past")
	ErrInvalidFormat   = errors.New("invalid format")

	// State errors
	ErrInvalidState     = errors.New("invalid state")
	ErrStateTransition  = errors.New("invalid state transition")
	ErrAlreadyProcessed = errors.New("already processed")
	ErrExpired          = errors.New("expired")

	// Authorization errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// Concurrency errors
	ErrConcurrentModification = errors.New("concurrent modification")
	ErrOptimisticLock         = errors.New("optimistic lock failure")
	ErrConflict               = errors.New("conflicting resource state")

	// External service errors
	ErrExternalService    = errors.New("external service error")
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrTimeout            = errors.New("operation timed out")
	ErrRateLimited        = errors.New("rate limited")
)

// DomainError is a structured error with context about where it occurred.
type DomainError struct {
	Domain  string // e.g., "mentorship", "session", "identity"
	Op      string // Operation that failed, e.g., "Request", "Accept"
	Kind    error  // Base error type for errors.Is() checking
	Message string // Human-readable message
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap supports errors.Is and errors.As.
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is checks if the error matches the target.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// Identity domain errors.
var (
	ErrUserNotFound    = NewDomainError("identity", "Find", ErrNotFound, "user not found")
	ErrUserNotActive   = NewDomainError("identity", "Check", ErrInvalidState, "user account is not active")
	ErrRoleNotAllowed  = NewDomainError("identity", "Check", ErrForbidden, "user role does not permit this action")
	ErrInvalidUserID   = NewDomainError("identity", "Validate", ErrInvalidID, "invalid user id")
	ErrInvalidUserData = NewDomainError("identity", "Validate", ErrInvalidEntity, "invalid user data")
)

// Mentorship domain errors.
var (
	ErrMentorshipNotFound  = NewDomainError("mentorship", "Find", ErrNotFound, "mentorship not found")
	ErrDuplicatePair       = NewDomainError("mentorship", "Request", ErrAlreadyExists, "an open mentorship already exists for this pair")
	ErrMentorshipForbidden = NewDomainError("mentorship", "Transition", ErrForbidden, "actor is not permitted to perform this transition")
	ErrMentorshipState     = NewDomainError("mentorship", "Transition", ErrStateTransition, "mentorship state does not allow this transition")
	ErrSelfMentorship      = NewDomainError("mentorship", "Request", ErrInvalidInput, "cannot request mentorship with yourself")

	// Pairing policy violations. The specific errors chain through
	// ErrPairingViolation, which in turn carries ErrForbidden as its kind:
	// errors.Is matches each of them against both sentinels.
	ErrPairingViolation = NewDomainError("mentorship", "Pairing", ErrForbidden, "pairing policy violation")
	ErrMissingGender    = NewDomainError("mentorship", "Pairing", ErrPairingViolation, "gender attribute is missing or unrecognized")
	ErrGenderMismatch   = NewDomainError("mentorship", "Pairing", ErrPairingViolation, "mentor and mentee genders do not match")
)

// Session domain errors.
var (
	ErrSessionNotFound     = NewDomainError("session", "Find", ErrNotFound, "session not found")
	ErrSessionForbidden    = NewDomainError("session", "Transition", ErrForbidden, "actor is not permitted to perform this transition")
	ErrSessionState        = NewDomainError("session", "Transition", ErrStateTransition, "session state does not allow this transition")
	ErrMentorshipNotActive = NewDomainError("session", "Request", ErrInvalidState, "mentorship is not active")
	ErrStartNotInFuture    = NewDomainError("session", "Validate", ErrValueOutOfRange, "session start must be in the future")
	ErrInvalidDuration     = NewDomainError("session", "Validate", ErrValueOutOfRange, "session duration must be between 15 and 240 minutes")
	ErrSchedulingConflict  = NewDomainError("session", "Request", ErrConflict, "session overlaps an existing session on this mentorship")
)

// Availability domain errors.
var (
	ErrSlotNotFound    = NewDomainError("availability", "Find", ErrNotFound, "availability slot not found")
	ErrInvalidWeekday  = NewDomainError("availability", "Validate", ErrInvalidInput, "unknown weekday")
	ErrInvalidSlotTime = NewDomainError("availability", "Validate", ErrInvalidInput, "slot time must be in HH:MM format")
	ErrSlotTimeOrder   = NewDomainError("availability", "Validate", ErrValueOutOfRange, "slot end must be after its start")
)

// Activity domain errors.
var (
	ErrActivityNotFound = NewDomainError("activity", "Find", ErrNotFound, "activity entry not found")
	ErrInvalidActivity  = NewDomainError("activity", "Validate", ErrInvalidEntity, "invalid activity entry")
)

// Notification domain errors.
var (
	ErrNotificationNotFound = NewDomainError("notification", "Find", ErrNotFound, "notification not found")
	ErrChannelUnavailable   = NewDomainError("notification", "Send", ErrServiceUnavailable, "notification channel unavailable")
)

// IsNotFound checks if the error indicates a missing entity.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if the error indicates a duplicate.
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsForbidden checks if the error indicates an authorization failure.
func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}

// IsPairingViolation checks if the error was raised by a pairing policy.
func IsPairingViolation(err error) bool {
	return errors.Is(err, ErrPairingViolation)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidID) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrEmptyValue) ||
		errors.Is(err, ErrNegativeValue) ||
		errors.Is(err, ErrValueOutOfRange) ||
		errors.Is(err, ErrInvalidFormat)
}

// IsConflict checks if the error indicates a resource conflict.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict) || errors.Is(err, ErrAlreadyExists)
}

// IsExternalService checks if the error is from an external service.
func IsExternalService(err error) bool {
	return errors.Is(err, ErrExternalService) ||
		errors.Is(err, ErrServiceUnavailable) ||
		errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrRateLimited)
}

// IsRetryable checks if the operation can be retried.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrServiceUnavailable) ||
		errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrConcurrentModification)
}
