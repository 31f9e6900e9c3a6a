package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing destination, trip length out of range).
// Handlers re-render the submitted form with the message.
var ErrValidation = errors.New("validation error")

// ErrConflict is returned when a write would violate a uniqueness rule,
// e.g. signing up with a username that is already taken.
var ErrConflict = errors.New("conflict")

// ErrInvalidCredentials is returned by login when the username is unknown or
// the password does not match. Both cases share one error on purpose so the
// response does not reveal which usernames exist.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrForbidden is returned when the requester may not act on a resource.
// Trip deletion maps this to a silent no-op.
var ErrForbidden = errors.New("forbidden")
