package common

import "errors"

// Business logic errors
var (
	// General errors
	ErrNotFound  = errors.New("resource not found")
	ErrForbidden = errors.New("forbidden")

	// Auth errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidToken = errors.New("invalid token")

	// Validation errors
	ErrInvalidInput = errors.New("invalid input")

	// Messaging errors
	ErrEmptyMessage   = errors.New("message body is empty")
	ErrSelfMessage    = errors.New("cannot message yourself")
	ErrThreadConflict = errors.New("thread creation conflict")
	ErrNotParticipant = errors.New("not a participant of this thread")

	// Store errors
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrReadMarkerWrite is non-fatal: unread counts may be transiently
	// stale. Callers log it and retry on the next poll cycle.
	ErrReadMarkerWrite = errors.New("read marker write failed")

	// Event/application errors
	ErrEventNotFound  = errors.New("event not found")
	ErrEventFull      = errors.New("event capacity reached")
	ErrAlreadyApplied = errors.New("already applied to this event")
	ErrSlotNotFound   = errors.New("slot not found")
)
