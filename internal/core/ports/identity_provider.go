package ports

import (
	"context"

	"github.com/allergymenu/restaurant-api/internal/core/domain"
)

// CreateIdentityInput carries what the identity provider needs to create an account.
type CreateIdentityInput struct {
	Email       string
	Password    string
	DisplayName string
}

// IdentityProvider is the external account authority. Password storage and
// verification live behind it.
type IdentityProvider interface {
	// CreateUser returns domain.ErrUserExists when the email is taken.
	CreateUser(ctx context.Context, in CreateIdentityInput) (*domain.Identity, error)
	// GetUserByEmail returns domain.ErrUserNotFound when no account matches.
	GetUserByEmail(ctx context.Context, email string) (*domain.Identity, error)
	GetUser(ctx context.Context, uid string) (*domain.Identity, error)
	// VerifyPassword returns domain.ErrInvalidCredentials on mismatch.
	VerifyPassword(ctx context.Context, identity *domain.Identity, password string) error
}
