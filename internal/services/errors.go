// Package services defines the business logic for bookings, conversations,
// chat sessions, presence, notifications, and reviews. This file centralizes
// common service-level error values so that they can be consistently
// returned by service methods and checked by callers.
//
// These errors are intended for internal use by the service layer and
// translation into user-facing messages or HTTP status codes should be
// performed at the handler layer.
package services

import "errors"

// Booking and chat related errors.
var (
	// ErrBookingNotFound indicates that the requested booking does not exist.
	ErrBookingNotFound = errors.New("booking not found")

	// ErrNotParticipant is returned when a user attempts to act on a booking
	// they are neither the client nor the assigned worker of.
	ErrNotParticipant = errors.New("not a participant of this booking")

	// ErrWorkerNotFound indicates that the referenced worker does not exist.
	ErrWorkerNotFound = errors.New("worker not found")

	// ErrEmptyMessage is returned when a message send carries no content
	// after trimming.
	ErrEmptyMessage = errors.New("message is empty")

	// ErrMessageTooLong is returned when message content exceeds the
	// configured maximum rune count.
	ErrMessageTooLong = errors.New("message too long")

	// ErrInvalidTransition is returned when a status update is not permitted
	// by the forward-only booking machine.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrInvalidRating is returned when a review value is outside 1..5.
	ErrInvalidRating = errors.New("rating must be between 1 and 5")

	// ErrBookingNotCompleted is returned when a review targets a booking
	// that has not reached the completed state.
	ErrBookingNotCompleted = errors.New("booking is not completed")

	// ErrAlreadyRated is returned when a side tries to rate the same
	// booking twice.
	ErrAlreadyRated = errors.New("booking already rated")

	// ErrProfileNotFound indicates that the referenced profile does not exist.
	ErrProfileNotFound = errors.New("profile not found")

	// ErrInvalidProfile is returned when a profile payload fails validation.
	ErrInvalidProfile = errors.New("invalid profile")
)
