package domain

import (
	"errors"
	"fmt"
)

// Error taxonomy. Detailed errors wrap one of the class errors below with
// fmt.Errorf("%w: ...") so the transport layer can map them with errors.Is.
var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("access forbidden")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrInvalidInput    = errors.New("invalid input")
	ErrIDExhausted     = errors.New("unable to generate unique id")
)

var (
	ErrInvalidCredentials = fmt.Errorf("%w: invalid email or password", ErrUnauthenticated)
	ErrInvalidToken       = fmt.Errorf("%w: invalid or expired token", ErrUnauthenticated)

	ErrUserNotFound       = fmt.Errorf("user %w", ErrNotFound)
	ErrRestaurantNotFound = fmt.Errorf("restaurant %w", ErrNotFound)
	ErrMenuItemNotFound   = fmt.Errorf("menu item %w", ErrNotFound)

	ErrUserExists   = fmt.Errorf("%w: email already registered", ErrConflict)
	ErrSelfDemotion = fmt.Errorf("%w: you cannot remove your own admin privileges", ErrInvalidInput)

	// ErrDuplicateID is returned by stores when an insert hits an existing id.
	ErrDuplicateID = fmt.Errorf("%w: duplicate id", ErrConflict)
)
