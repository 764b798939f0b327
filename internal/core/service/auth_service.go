package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/allergymenu/restaurant-api/internal/core/domain"
	"github.com/allergymenu/restaurant-api/internal/core/ports"
	"github.com/allergymenu/restaurant-api/internal/pkg/metrics"
)

// AuthPolicy controls who becomes an admin at signup and whether login
// re-checks the password with the identity provider.
type AuthPolicy struct {
	AdminEmails      []string
	AllowAdminSignup bool
	VerifyPassword   bool
}

func (p AuthPolicy) isAdminEmail(email string) bool {
	for _, e := range p.AdminEmails {
		if strings.EqualFold(strings.TrimSpace(e), email) {
			return true
		}
	}
	return false
}

// AuthService implements registration, login and session lifecycle.
type AuthService struct {
	identities  ports.IdentityProvider
	users       ports.UserRepository
	restaurants ports.RestaurantRepository
	sessions    ports.SessionStore
	audit       ports.AuditRecorder
	policy      AuthPolicy
	log         zerolog.Logger
	now         func() time.Time
}

func NewAuthService(
	identities ports.IdentityProvider,
	users ports.UserRepository,
	restaurants ports.RestaurantRepository,
	sessions ports.SessionStore,
	audit ports.AuditRecorder,
	policy AuthPolicy,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		identities:  identities,
		users:       users,
		restaurants: restaurants,
		sessions:    sessions,
		audit:       audit,
		policy:      policy,
		log:         log,
		now:         time.Now,
	}
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" || in.Password == "" {
		metrics.AuthAttemptsTotal.WithLabelValues("register", "invalid").Inc()
		return nil, domain.ErrInvalidInput
	}

	identity, err := s.identities.CreateUser(ctx, ports.CreateIdentityInput{
		Email:       email,
		Password:    in.Password,
		DisplayName: in.Name,
	})
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("register", "failure").Inc()
		return nil, err
	}

	isAdmin := (s.policy.AllowAdminSignup && in.IsAdmin) || s.policy.isAdminEmail(identity.Email)
	if in.IsAdmin && !isAdmin {
		s.log.Warn().Str("email", identity.Email).Msg("admin requested at signup but not allowed")
	}

	profile := &domain.User{
		UID:            identity.UID,
		Email:          identity.Email,
		Name:           in.Name,
		RestaurantName: in.RestaurantName,
		IsAdmin:        isAdmin,
		CreatedAt:      s.now().Unix(),
	}
	if err := s.users.Save(ctx, profile); err != nil {
		s.log.Error().Err(err).Str("uid", identity.UID).Msg("failed to save user profile")
		return nil, err
	}

	restaurantID, err := s.restaurantFor(ctx, profile)
	if err != nil {
		return nil, err
	}

	token, err := s.sessions.Issue(ctx, domain.Session{
		UID:     identity.UID,
		Email:   identity.Email,
		Name:    in.Name,
		IsAdmin: isAdmin,
	})
	if err != nil {
		return nil, err
	}
	isAdmin = s.syncAdmin(ctx, identity, isAdmin)

	s.audit.Record(domain.AuthEvent{Type: domain.EventRegistered, UID: identity.UID, Email: identity.Email, OccurredAt: s.now().UTC()})
	metrics.AuthAttemptsTotal.WithLabelValues("register", "success").Inc()
	s.log.Info().Str("uid", identity.UID).Bool("is_admin", isAdmin).Msg("user registered")

	return &ports.AuthResult{
		UID:          identity.UID,
		Email:        identity.Email,
		Token:        token,
		Name:         in.Name,
		RestaurantID: restaurantID,
		IsAdmin:      isAdmin,
	}, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		metrics.AuthAttemptsTotal.WithLabelValues("login", "invalid").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	identity, err := s.identities.GetUserByEmail(ctx, email)
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("login", "failure").Inc()
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if s.policy.VerifyPassword {
		if err := s.identities.VerifyPassword(ctx, identity, password); err != nil {
			metrics.AuthAttemptsTotal.WithLabelValues("login", "failure").Inc()
			return nil, err
		}
	}

	name := identity.DisplayName
	isAdmin := false
	profile, err := s.users.FindByUID(ctx, identity.UID)
	switch {
	case err == nil:
		if profile.Name != "" {
			name = profile.Name
		}
		isAdmin = profile.IsAdmin
	case errors.Is(err, domain.ErrUserNotFound):
		profile = &domain.User{UID: identity.UID, Email: identity.Email}
	default:
		return nil, err
	}

	restaurantID, err := s.restaurantFor(ctx, profile)
	if err != nil {
		return nil, err
	}

	token, err := s.sessions.Issue(ctx, domain.Session{
		UID:     identity.UID,
		Email:   identity.Email,
		Name:    name,
		IsAdmin: isAdmin,
	})
	if err != nil {
		return nil, err
	}
	isAdmin = s.syncAdmin(ctx, identity, isAdmin)

	s.audit.Record(domain.AuthEvent{Type: domain.EventLoggedIn, UID: identity.UID, Email: identity.Email, OccurredAt: s.now().UTC()})
	metrics.AuthAttemptsTotal.WithLabelValues("login", "success").Inc()

	return &ports.AuthResult{
		UID:          identity.UID,
		Email:        identity.Email,
		Token:        token,
		Name:         name,
		RestaurantID: restaurantID,
		IsAdmin:      isAdmin,
	}, nil
}

// syncAdmin re-reads the stored flag after a session was issued with
// issued. An admin change that landed between the profile read and Issue has
// already propagated without seeing the new session, so it is applied here.
func (s *AuthService) syncAdmin(ctx context.Context, identity *domain.Identity, issued bool) bool {
	fresh, err := s.users.FindByUID(ctx, identity.UID)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			s.log.Warn().Err(err).Str("uid", identity.UID).Msg("admin flag re-check failed")
		}
		return issued
	}
	if fresh.IsAdmin == issued {
		return issued
	}
	if _, err := s.sessions.PropagateAdminChange(ctx, fresh.IsAdmin, identity.UID, identity.Email); err != nil {
		s.log.Warn().Err(err).Str("uid", identity.UID).Msg("admin flag re-sync failed")
		return issued
	}
	return fresh.IsAdmin
}

func (s *AuthService) CurrentUser(ctx context.Context, session *domain.Session) (*ports.Profile, error) {
	identity, err := s.identities.GetUser(ctx, session.UID)
	if err != nil {
		return nil, err
	}

	out := &ports.Profile{
		UID:   identity.UID,
		Email: identity.Email,
		Name:  identity.DisplayName,
	}

	profile, err := s.users.FindByUID(ctx, session.UID)
	switch {
	case err == nil:
		if profile.Name != "" {
			out.Name = profile.Name
		}
		out.IsAdmin = profile.IsAdmin
	case errors.Is(err, domain.ErrUserNotFound):
		profile = &domain.User{UID: session.UID}
	default:
		return nil, err
	}

	out.RestaurantID, err = s.restaurantFor(ctx, profile)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *AuthService) Logout(ctx context.Context, session *domain.Session) error {
	if err := s.sessions.Revoke(ctx, session.Token); err != nil {
		return err
	}
	s.audit.Record(domain.AuthEvent{Type: domain.EventLoggedOut, UID: session.UID, Email: session.Email, OccurredAt: s.now().UTC()})
	return nil
}

// restaurantFor returns the restaurant linked on the profile, falling back to
// the earliest restaurant owned by the user. Empty when the user owns none.
func (s *AuthService) restaurantFor(ctx context.Context, profile *domain.User) (string, error) {
	if profile.RestaurantID != "" {
		return profile.RestaurantID, nil
	}
	r, err := s.restaurants.FirstByOwner(ctx, profile.UID)
	if err != nil {
		if errors.Is(err, domain.ErrRestaurantNotFound) {
			return "", nil
		}
		return "", err
	}
	return r.ID, nil
}
