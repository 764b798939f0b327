package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/allergymenu/restaurant-api/internal/core/domain"
	"github.com/allergymenu/restaurant-api/internal/core/ports"
	"github.com/allergymenu/restaurant-api/internal/pkg/metrics"
)

// identityLookupLimit bounds concurrent provider calls made by ListUsers.
const identityLookupLimit = 8

type adminService struct {
	identities  ports.IdentityProvider
	users       ports.UserRepository
	restaurants ports.RestaurantRepository
	sessions    ports.SessionStore
	audit       ports.AuditRecorder
	log         zerolog.Logger
	now         func() time.Time
}

func NewAdminService(
	identities ports.IdentityProvider,
	users ports.UserRepository,
	restaurants ports.RestaurantRepository,
	sessions ports.SessionStore,
	audit ports.AuditRecorder,
	log zerolog.Logger,
) ports.AdminService {
	return &adminService{
		identities:  identities,
		users:       users,
		restaurants: restaurants,
		sessions:    sessions,
		audit:       audit,
		log:         log,
		now:         time.Now,
	}
}

func (s *adminService) ListUsers(ctx context.Context) ([]domain.UserListItem, error) {
	profiles, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	restaurants, err := s.restaurants.List(ctx)
	if err != nil {
		return nil, err
	}

	owned := make(map[string]string, len(restaurants))
	for _, r := range restaurants {
		owned[r.OwnerUID] = r.Name
	}

	items := make([]domain.UserListItem, len(profiles))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(identityLookupLimit)
	for i, p := range profiles {
		items[i] = domain.UserListItem{
			UID:            p.UID,
			Email:          p.Email,
			Name:           p.Name,
			IsAdmin:        p.IsAdmin,
			RestaurantName: owned[p.UID],
			CreatedAt:      p.CreatedAt,
		}
		g.Go(func() error {
			identity, err := s.identities.GetUser(gctx, p.UID)
			if err != nil {
				s.log.Debug().Err(err).Str("uid", p.UID).Msg("identity lookup failed, using stored email")
				return nil
			}
			items[i].Email = identity.Email
			return nil
		})
	}
	// lookups never fail the group
	_ = g.Wait()

	sort.SliceStable(items, func(a, b int) bool {
		return items[a].CreatedAt > items[b].CreatedAt
	})
	return items, nil
}

func (s *adminService) MakeAdmin(ctx context.Context, caller *domain.Session, emailOrUID string) (string, error) {
	target, err := s.findTarget(ctx, emailOrUID)
	if err != nil {
		return "", err
	}
	if err := s.setAdmin(ctx, caller, target, true); err != nil {
		return "", err
	}
	return fmt.Sprintf("User %s is now an admin", target.Email), nil
}

func (s *adminService) RemoveAdmin(ctx context.Context, caller *domain.Session, email string) (string, error) {
	email = strings.TrimSpace(email)
	if strings.EqualFold(email, caller.Email) {
		return "", domain.ErrSelfDemotion
	}
	target, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if err := s.setAdmin(ctx, caller, target, false); err != nil {
		return "", err
	}
	return fmt.Sprintf("Admin privileges removed from %s", target.Email), nil
}

// findTarget resolves an email first and falls back to a uid lookup.
func (s *adminService) findTarget(ctx context.Context, emailOrUID string) (*domain.User, error) {
	key := strings.TrimSpace(emailOrUID)
	if key == "" {
		return nil, domain.ErrUserNotFound
	}
	if strings.Contains(key, "@") {
		return s.users.FindByEmail(ctx, key)
	}
	u, err := s.users.FindByUID(ctx, key)
	if errors.Is(err, domain.ErrUserNotFound) {
		return s.users.FindByEmail(ctx, key)
	}
	return u, err
}

func (s *adminService) setAdmin(ctx context.Context, caller *domain.Session, target *domain.User, isAdmin bool) error {
	if err := s.users.SetAdmin(ctx, target.UID, isAdmin); err != nil {
		return err
	}

	updated, err := s.sessions.PropagateAdminChange(ctx, isAdmin, target.UID, target.Email)
	if err != nil {
		return err
	}

	action, eventType := "grant", domain.EventAdminGranted
	if !isAdmin {
		action, eventType = "revoke", domain.EventAdminRevoked
	}
	metrics.AdminRoleChangesTotal.WithLabelValues(action).Inc()
	s.audit.Record(domain.AuthEvent{
		Type:       eventType,
		UID:        target.UID,
		Email:      target.Email,
		ActorUID:   caller.UID,
		OccurredAt: s.now().UTC(),
	})

	s.log.Info().
		Str("target_uid", target.UID).
		Str("actor_uid", caller.UID).
		Bool("is_admin", isAdmin).
		Int("sessions_updated", updated).
		Msg("admin role changed")
	return nil
}
