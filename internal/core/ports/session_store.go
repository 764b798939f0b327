package ports

import (
	"context"

	"github.com/allergymenu/restaurant-api/internal/core/domain"
)

// SessionStore maps opaque bearer tokens to sessions. Implementations must be
// safe for concurrent use. Sessions do not expire on their own.
type SessionStore interface {
	// Issue generates a new token for the session identity and stores it.
	// The Token field of the argument is ignored.
	Issue(ctx context.Context, s domain.Session) (string, error)
	// Resolve returns domain.ErrInvalidToken for unknown tokens.
	Resolve(ctx context.Context, token string) (*domain.Session, error)
	// Revoke removes the token. Unknown tokens are not an error.
	Revoke(ctx context.Context, token string) error
	// PropagateAdminChange sets IsAdmin on every live session whose uid or
	// email equals one of keys, returning how many sessions were updated.
	PropagateAdminChange(ctx context.Context, isAdmin bool, keys ...string) (int, error)
}
