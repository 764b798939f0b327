package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/allergymenu/restaurant-api/internal/core/domain"
	"github.com/allergymenu/restaurant-api/internal/core/ports"
	"github.com/allergymenu/restaurant-api/internal/pkg/metrics"
)

type menuService struct {
	restaurants ports.RestaurantRepository
	items       ports.MenuItemRepository
	ids         *IDGenerator
	log         zerolog.Logger
}

func NewMenuService(
	restaurants ports.RestaurantRepository,
	items ports.MenuItemRepository,
	ids *IDGenerator,
	log zerolog.Logger,
) ports.MenuService {
	return &menuService{
		restaurants: restaurants,
		items:       items,
		ids:         ids,
		log:         log,
	}
}

func (s *menuService) AddMenuItem(ctx context.Context, session *domain.Session, restaurantID string, in ports.MenuItemInput) (*domain.MenuItem, error) {
	if _, err := authorizedRestaurant(ctx, s.restaurants, session, restaurantID); err != nil {
		return nil, err
	}

	item := newMenuItem(restaurantID, in)
	if err := validateMenuItem(item); err != nil {
		return nil, err
	}

	id, err := s.ids.Insert(ctx, func(id string) error {
		item.ID = id
		return s.items.Create(ctx, item)
	})
	if err != nil {
		s.log.Error().Err(err).Str("restaurant_id", restaurantID).Msg("failed to create menu item")
		return nil, err
	}
	item.ID = id

	metrics.MenuItemsCreatedTotal.Inc()
	s.log.Info().Str("restaurant_id", restaurantID).Str("menu_item_id", id).Msg("menu item created")
	return item, nil
}

func (s *menuService) ListMenuItems(ctx context.Context, session *domain.Session, restaurantID string, filter ports.MenuFilter) ([]*domain.MenuItem, error) {
	if _, err := authorizedRestaurant(ctx, s.restaurants, session, restaurantID); err != nil {
		return nil, err
	}

	items, err := s.items.ListByRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, err
	}

	out := make([]*domain.MenuItem, 0, len(items))
	for _, item := range items {
		if item.RestaurantID != restaurantID {
			continue
		}
		if filter.DietaryCategory != "" && !item.HasDietaryCategory(filter.DietaryCategory) {
			continue
		}
		if len(filter.AllergenFree) > 0 && item.ContainsAnyAllergen(filter.AllergenFree) {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

func (s *menuService) UpdateMenuItem(ctx context.Context, session *domain.Session, restaurantID, itemID string, in ports.MenuItemInput) (*domain.MenuItem, error) {
	if _, err := s.ownedItem(ctx, session, restaurantID, itemID); err != nil {
		return nil, err
	}

	item := newMenuItem(restaurantID, in)
	item.ID = itemID
	if err := validateMenuItem(item); err != nil {
		return nil, err
	}
	if err := s.items.Replace(ctx, item); err != nil {
		return nil, err
	}

	s.log.Info().Str("restaurant_id", restaurantID).Str("menu_item_id", itemID).Msg("menu item updated")
	return item, nil
}

func (s *menuService) DeleteMenuItem(ctx context.Context, session *domain.Session, restaurantID, itemID string) (string, error) {
	if _, err := s.ownedItem(ctx, session, restaurantID, itemID); err != nil {
		return "", err
	}
	if err := s.items.Delete(ctx, itemID); err != nil {
		return "", err
	}

	s.log.Info().Str("restaurant_id", restaurantID).Str("menu_item_id", itemID).Msg("menu item deleted")
	return fmt.Sprintf("Menu item %s successfully deleted", itemID), nil
}

// ownedItem runs the checks shared by update and delete: restaurant exists,
// caller may act on it, item exists and belongs to that restaurant.
func (s *menuService) ownedItem(ctx context.Context, session *domain.Session, restaurantID, itemID string) (*domain.MenuItem, error) {
	if _, err := authorizedRestaurant(ctx, s.restaurants, session, restaurantID); err != nil {
		return nil, err
	}
	item, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.RestaurantID != restaurantID {
		return nil, fmt.Errorf("%w: menu item %s does not belong to restaurant %s", domain.ErrForbidden, itemID, restaurantID)
	}
	return item, nil
}

func newMenuItem(restaurantID string, in ports.MenuItemInput) *domain.MenuItem {
	allergens := in.Allergens
	if allergens == nil {
		allergens = []string{}
	}
	categories := in.DietaryCategories
	if categories == nil {
		categories = []string{}
	}
	return &domain.MenuItem{
		Name:              in.Name,
		Description:       in.Description,
		Price:             in.Price,
		Allergens:         allergens,
		DietaryCategories: categories,
		RestaurantID:      restaurantID,
	}
}

func validateMenuItem(item *domain.MenuItem) error {
	if strings.TrimSpace(item.Name) == "" {
		return fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	if item.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", domain.ErrInvalidInput)
	}
	return item.Validate()
}
