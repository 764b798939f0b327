package ports

import (
	"context"

	"github.com/allergymenu/restaurant-api/internal/core/domain"
)

// RegisterInput carries the fields accepted by POST /auth/register.
type RegisterInput struct {
	Email          string
	Password       string
	Name           string
	RestaurantName string
	IsAdmin        bool // requested; honoured only when policy allows
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	UID          string
	Email        string
	Token        string
	Name         string
	RestaurantID string
	IsAdmin      bool
}

// Profile is the merged view returned by CurrentUser.
type Profile struct {
	UID          string
	Email        string
	Name         string
	RestaurantID string
	IsAdmin      bool
}

// AuthService covers registration, login and the caller's own account.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	CurrentUser(ctx context.Context, session *domain.Session) (*Profile, error)
	Logout(ctx context.Context, session *domain.Session) error
}
