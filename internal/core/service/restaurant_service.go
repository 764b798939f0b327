package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/allergymenu/restaurant-api/internal/core/domain"
	"github.com/allergymenu/restaurant-api/internal/core/ports"
	"github.com/allergymenu/restaurant-api/internal/pkg/metrics"
)

type restaurantService struct {
	restaurants ports.RestaurantRepository
	users       ports.UserRepository
	ids         *IDGenerator
	log         zerolog.Logger
	now         func() time.Time
}

func NewRestaurantService(
	restaurants ports.RestaurantRepository,
	users ports.UserRepository,
	ids *IDGenerator,
	log zerolog.Logger,
) ports.RestaurantService {
	return &restaurantService{
		restaurants: restaurants,
		users:       users,
		ids:         ids,
		log:         log,
		now:         time.Now,
	}
}

func (s *restaurantService) CreateRestaurant(ctx context.Context, session *domain.Session, in ports.RestaurantInput) (*domain.Restaurant, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Address) == "" {
		return nil, domain.ErrInvalidInput
	}

	r := &domain.Restaurant{
		Name:        in.Name,
		Address:     in.Address,
		Phone:       in.Phone,
		CuisineType: in.CuisineType,
		OwnerUID:    session.UID,
		CreatedAt:   s.now().Unix(),
	}
	id, err := s.ids.Insert(ctx, func(id string) error {
		r.ID = id
		return s.restaurants.Create(ctx, r)
	})
	if err != nil {
		s.log.Error().Err(err).Str("owner_uid", session.UID).Msg("failed to create restaurant")
		return nil, err
	}
	r.ID = id

	linked, err := s.users.LinkRestaurant(ctx, session.UID, id)
	if err != nil {
		// the restaurant exists; the owner index still finds it
		s.log.Warn().Err(err).Str("uid", session.UID).Str("restaurant_id", id).Msg("failed to link restaurant to profile")
	}

	metrics.RestaurantsCreatedTotal.Inc()
	s.log.Info().
		Str("restaurant_id", id).
		Str("owner_uid", session.UID).
		Bool("linked", linked).
		Msg("restaurant created")
	return r, nil
}

func (s *restaurantService) ListRestaurants(ctx context.Context, session *domain.Session) ([]*domain.Restaurant, error) {
	if session.IsAdmin {
		return s.restaurants.List(ctx)
	}
	return s.restaurants.ListByOwner(ctx, session.UID)
}

func (s *restaurantService) GetRestaurant(ctx context.Context, session *domain.Session, id string) (*domain.Restaurant, error) {
	return authorizedRestaurant(ctx, s.restaurants, session, id)
}

// authorizedRestaurant loads a restaurant and checks the caller may act on it.
func authorizedRestaurant(ctx context.Context, repo ports.RestaurantRepository, session *domain.Session, id string) (*domain.Restaurant, error) {
	r, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !session.CanAccess(r.OwnerUID) {
		return nil, domain.ErrForbidden
	}
	return r, nil
}
