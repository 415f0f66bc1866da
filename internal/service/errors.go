package service

import "errors"

// Service error taxonomy. Each is wrapped together with the underlying
// validator or store error, so errors.Is matches either layer.
var (
	// ErrValidation marks malformed or incomplete input.
	ErrValidation = errors.New("validation error")

	// ErrDuplicateEmail is returned when registering an email that is taken.
	ErrDuplicateEmail = errors.New("email is already registered")

	// ErrInvalidCredentials is returned for an unknown email and for a wrong
	// password alike.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrNotFound is returned when the referenced section, book, user or
	// attachment does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnauthenticated is returned when an operation needs a signed-in user.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrForbidden is returned when a signed-in member attempts a
	// librarian-only operation.
	ErrForbidden = errors.New("librarian access required")
)
