package services

import "errors"

// Sentinel errors returned by the services in this package. Handlers
// map them to HTTP status codes; none of them are retryable without
// new input.
var (
	ErrNotFound          = errors.New("not found")
	ErrNotOwner          = errors.New("not the owner")
	ErrSessionCancelled  = errors.New("session is cancelled")
	ErrSessionStarted    = errors.New("session has already started")
	ErrSessionFull       = errors.New("session is full")
	ErrSelfBooking       = errors.New("cannot book your own session")
	ErrDuplicateBooking  = errors.New("session already booked")
	ErrSelfEnrollment    = errors.New("cannot enroll in your own course")
	ErrAlreadyEnrolled   = errors.New("already enrolled in course")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidAmount     = errors.New("amount must be greater than zero")
	ErrInvalidSchedule   = errors.New("invalid schedule")
	ErrInvalidState      = errors.New("invalid state")
	ErrInvalidRating     = errors.New("rating must be between 1 and 5")
	ErrNotAuthorized     = errors.New("not authorized")
)
