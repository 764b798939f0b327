package ports

import (
	"context"

	"github.com/allergymenu/restaurant-api/internal/core/domain"
)

// AdminService manages user roles. Callers are expected to be admins; the
// transport layer enforces that before any method runs.
type AdminService interface {
	ListUsers(ctx context.Context) ([]domain.UserListItem, error)
	// MakeAdmin accepts either an email or a uid.
	MakeAdmin(ctx context.Context, caller *domain.Session, emailOrUID string) (string, error)
	RemoveAdmin(ctx context.Context, caller *domain.Session, email string) (string, error)
}
