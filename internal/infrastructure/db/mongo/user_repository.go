package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/allergymenu/restaurant-api/internal/core/domain"
)

type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(collectionUsers)}
}

type userDoc struct {
	UID            string `bson:"_id"`
	Email          string `bson:"email"`
	Name           string `bson:"name,omitempty"`
	RestaurantName string `bson:"restaurant_name,omitempty"`
	IsAdmin        bool   `bson:"is_admin"`
	RestaurantID   string `bson:"restaurant_id,omitempty"`
	CreatedAt      int64  `bson:"created_at,omitempty"`
}

func (d userDoc) toDomain() *domain.User {
	return &domain.User{
		UID:            d.UID,
		Email:          d.Email,
		Name:           d.Name,
		RestaurantName: d.RestaurantName,
		IsAdmin:        d.IsAdmin,
		RestaurantID:   d.RestaurantID,
		CreatedAt:      d.CreatedAt,
	}
}

// Save upserts the whole profile.
func (r *UserRepository) Save(ctx context.Context, u *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := userDoc{
		UID:            u.UID,
		Email:          normalizeEmail(u.Email),
		Name:           u.Name,
		RestaurantName: u.RestaurantName,
		IsAdmin:        u.IsAdmin,
		RestaurantID:   u.RestaurantID,
		CreatedAt:      u.CreatedAt,
	}
	_, err := r.coll.ReplaceOne(ctx, bson.M{"_id": u.UID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

func (r *UserRepository) FindByUID(ctx context.Context, uid string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": uid})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": normalizeEmail(email)})
}

func (r *UserRepository) List(ctx context.Context) ([]*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	var docs []userDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}

	out := make([]*domain.User, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *UserRepository) SetAdmin(ctx context.Context, uid string, isAdmin bool) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": uid}, bson.M{"$set": bson.M{"is_admin": isAdmin}})
	if err != nil {
		return fmt.Errorf("set admin: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) LinkRestaurant(ctx context.Context, uid, restaurantID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"_id": uid,
		"$or": bson.A{
			bson.M{"restaurant_id": bson.M{"$exists": false}},
			bson.M{"restaurant_id": ""},
		},
	}
	res, err := r.coll.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"restaurant_id": restaurantID}})
	if err != nil {
		return false, fmt.Errorf("link restaurant: %w", err)
	}
	return res.ModifiedCount > 0, nil
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc userDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return doc.toDomain(), nil
}
