package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/allergymenu/restaurant-api/internal/core/domain"
	"github.com/allergymenu/restaurant-api/internal/core/ports"
)

// IdentityProvider stores accounts and bcrypt password hashes in the
// identities collection and hands out stable uuid uids.
type IdentityProvider struct {
	coll *mongo.Collection
	cost int
}

func NewIdentityProvider(db *mongo.Database) *IdentityProvider {
	return &IdentityProvider{coll: db.Collection(collectionIdentities), cost: bcrypt.DefaultCost}
}

var _ ports.IdentityProvider = (*IdentityProvider)(nil)

type identityDoc struct {
	UID          string `bson:"_id"`
	Email        string `bson:"email"`
	DisplayName  string `bson:"display_name,omitempty"`
	PasswordHash string `bson:"password_hash"`
	CreatedAt    int64  `bson:"created_at"`
}

func (d identityDoc) toDomain() *domain.Identity {
	return &domain.Identity{
		UID:          d.UID,
		Email:        d.Email,
		DisplayName:  d.DisplayName,
		PasswordHash: d.PasswordHash,
		CreatedAt:    d.CreatedAt,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (p *IdentityProvider) CreateUser(ctx context.Context, in ports.CreateIdentityInput) (*domain.Identity, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), p.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	doc := identityDoc{
		UID:          uuid.NewString(),
		Email:        normalizeEmail(in.Email),
		DisplayName:  in.DisplayName,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().Unix(),
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := p.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert identity: %w", err)
	}
	return doc.toDomain(), nil
}

func (p *IdentityProvider) GetUserByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	return p.findOne(ctx, bson.M{"email": normalizeEmail(email)})
}

func (p *IdentityProvider) GetUser(ctx context.Context, uid string) (*domain.Identity, error) {
	return p.findOne(ctx, bson.M{"_id": uid})
}

func (p *IdentityProvider) VerifyPassword(_ context.Context, identity *domain.Identity, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte(password)); err != nil {
		return domain.ErrInvalidCredentials
	}
	return nil
}

func (p *IdentityProvider) findOne(ctx context.Context, filter bson.M) (*domain.Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc identityDoc
	if err := p.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find identity: %w", err)
	}
	return doc.toDomain(), nil
}
