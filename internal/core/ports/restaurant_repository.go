package ports

import (
	"context"

	"github.com/allergymenu/restaurant-api/internal/core/domain"
)

// IDChecker reports whether an id is already taken in a collection.
type IDChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// RestaurantRepository persists restaurants.
type RestaurantRepository interface {
	IDChecker
	// Create returns domain.ErrDuplicateID when the id is taken.
	Create(ctx context.Context, r *domain.Restaurant) error
	// FindByID returns domain.ErrRestaurantNotFound when absent.
	FindByID(ctx context.Context, id string) (*domain.Restaurant, error)
	List(ctx context.Context) ([]*domain.Restaurant, error)
	ListByOwner(ctx context.Context, ownerUID string) ([]*domain.Restaurant, error)
	// FirstByOwner returns the earliest restaurant owned by ownerUID, or
	// domain.ErrRestaurantNotFound.
	FirstByOwner(ctx context.Context, ownerUID string) (*domain.Restaurant, error)
}
