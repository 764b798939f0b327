package ports

import (
	"context"

	"github.com/allergymenu/restaurant-api/internal/core/domain"
)

// MenuItemRepository persists menu items.
type MenuItemRepository interface {
	IDChecker
	// Create returns domain.ErrDuplicateID when the id is taken.
	Create(ctx context.Context, item *domain.MenuItem) error
	// FindByID returns domain.ErrMenuItemNotFound when absent.
	FindByID(ctx context.Context, id string) (*domain.MenuItem, error)
	ListByRestaurant(ctx context.Context, restaurantID string) ([]*domain.MenuItem, error)
	// Replace overwrites the stored record with the same id.
	Replace(ctx context.Context, item *domain.MenuItem) error
	Delete(ctx context.Context, id string) error
}
