package ports

import (
	"context"

	"github.com/allergymenu/restaurant-api/internal/core/domain"
)

// RestaurantInput holds the caller-supplied restaurant fields.
type RestaurantInput struct {
	Name        string
	Address     string
	Phone       string
	CuisineType string
}

// MenuItemInput holds the caller-supplied menu item fields.
type MenuItemInput struct {
	Name              string
	Description       string
	Price             float64
	Allergens         []string
	DietaryCategories []string
}

// MenuFilter narrows ListMenuItems. Empty fields do not filter.
type MenuFilter struct {
	DietaryCategory string
	AllergenFree    []string
}

// RestaurantService covers restaurant CRUD with ownership checks.
type RestaurantService interface {
	CreateRestaurant(ctx context.Context, session *domain.Session, in RestaurantInput) (*domain.Restaurant, error)
	ListRestaurants(ctx context.Context, session *domain.Session) ([]*domain.Restaurant, error)
	GetRestaurant(ctx context.Context, session *domain.Session, id string) (*domain.Restaurant, error)
}

// MenuService covers menu item CRUD with ownership checks.
type MenuService interface {
	AddMenuItem(ctx context.Context, session *domain.Session, restaurantID string, in MenuItemInput) (*domain.MenuItem, error)
	ListMenuItems(ctx context.Context, session *domain.Session, restaurantID string, filter MenuFilter) ([]*domain.MenuItem, error)
	UpdateMenuItem(ctx context.Context, session *domain.Session, restaurantID, itemID string, in MenuItemInput) (*domain.MenuItem, error)
	DeleteMenuItem(ctx context.Context, session *domain.Session, restaurantID, itemID string) (string, error)
}
