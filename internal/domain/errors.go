package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// reservation or resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. non-positive capacity, empty required name).
// It is always raised before any persistence call.
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrPersistence wraps a rejected write at the database boundary.
var ErrPersistence = errors.New("persistence error")

// ErrDragBlocked is returned when a reservation in a terminal state is moved,
// whether through the board or a status update.
var ErrDragBlocked = errors.New("reservation cannot be moved from a terminal state")

// ErrConfirmationRequired is returned when a status move is a non-recommended
// transition and the caller did not force it.
var ErrConfirmationRequired = errors.New("transition requires confirmation")
