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

var restaurantOrder = bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}

type RestaurantRepository struct {
	col *mongo.Collection
}

func NewRestaurantRepository(db *mongo.Database) *RestaurantRepository {
	return &RestaurantRepository{col: db.Collection(collectionRestaurants)}
}

func (r *RestaurantRepository) Exists(ctx context.Context, id string) (bool, error) {
	return exists(ctx, r.col, id)
}

// Create inserts a new restaurant. The id doubles as _id, so a concurrent
// writer that drew the same id fails with domain.ErrDuplicateID.
func (r *RestaurantRepository) Create(ctx context.Context, rest *domain.Restaurant) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, rest); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateID
		}
		return fmt.Errorf("insert restaurant: %w", err)
	}
	return nil
}

func (r *RestaurantRepository) FindByID(ctx context.Context, id string) (*domain.Restaurant, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var rest domain.Restaurant
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&rest); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRestaurantNotFound
		}
		return nil, fmt.Errorf("find restaurant: %w", err)
	}
	return &rest, nil
}

func (r *RestaurantRepository) List(ctx context.Context) ([]*domain.Restaurant, error) {
	return r.find(ctx, bson.M{})
}

func (r *RestaurantRepository) ListByOwner(ctx context.Context, ownerUID string) ([]*domain.Restaurant, error) {
	return r.find(ctx, bson.M{"owner_uid": ownerUID})
}

func (r *RestaurantRepository) FirstByOwner(ctx context.Context, ownerUID string) (*domain.Restaurant, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var rest domain.Restaurant
	err := r.col.FindOne(ctx, bson.M{"owner_uid": ownerUID}, options.FindOne().SetSort(restaurantOrder)).Decode(&rest)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRestaurantNotFound
		}
		return nil, fmt.Errorf("find restaurant by owner: %w", err)
	}
	return &rest, nil
}

func (r *RestaurantRepository) find(ctx context.Context, filter bson.M) ([]*domain.Restaurant, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(restaurantOrder))
	if err != nil {
		return nil, fmt.Errorf("list restaurants: %w", err)
	}
	out := make([]*domain.Restaurant, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode restaurants: %w", err)
	}
	return out, nil
}
