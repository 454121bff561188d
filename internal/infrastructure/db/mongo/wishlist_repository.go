package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/onboardly/onboarding-system/internal/core/domain"
)

const collectionWishlists = "wishlists"

type WishlistRepository struct {
	col *mongo.Collection
}

func NewWishlistRepository(db *mongo.Database) *WishlistRepository {
	return &WishlistRepository{col: db.Collection(collectionWishlists)}
}

func (r *WishlistRepository) Create(ctx context.Context, item *domain.WishlistItem) (*domain.WishlistItem, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if item.ID == "" {
		item.ID = primitive.NewObjectID().Hex()
	}

	if _, err := r.col.InsertOne(ctx, item); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateWishlist
		}
		return nil, fmt.Errorf("insert wishlist item: %w", err)
	}
	return item, nil
}

func (r *WishlistRepository) FindByJobSeeker(ctx context.Context, jobSeekerID string) ([]*domain.WishlistItem, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cursor, err := r.col.Find(ctx, bson.M{"job_seeker": jobSeekerID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("find wishlist: %w", err)
	}
	defer cursor.Close(ctx)

	var items []*domain.WishlistItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode wishlist: %w", err)
	}
	return items, nil
}

func (r *WishlistRepository) Delete(ctx context.Context, jobSeekerID, sessionID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	result, err := r.col.DeleteOne(ctx, bson.M{"job_seeker": jobSeekerID, "session": sessionID})
	if err != nil {
		return fmt.Errorf("delete wishlist item: %w", err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrWishlistNotFound
	}
	return nil
}

func (r *WishlistRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "job_seeker", Value: 1}, {Key: "session", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
