package ports

import (
	"context"

	"github.com/allergymenu/restaurant-api/internal/core/domain"
)

// UserRepository persists user profiles keyed by uid.
type UserRepository interface {
	Save(ctx context.Context, user *domain.User) error
	// FindByUID returns domain.ErrUserNotFound when absent.
	FindByUID(ctx context.Context, uid string) (*domain.User, error)
	// FindByEmail returns domain.ErrUserNotFound when absent.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	SetAdmin(ctx context.Context, uid string, isAdmin bool) error
	// LinkRestaurant sets restaurant_id only if the profile has none yet.
	// It reports whether the link was made.
	LinkRestaurant(ctx context.Context, uid, restaurantID string) (bool, error)
}
