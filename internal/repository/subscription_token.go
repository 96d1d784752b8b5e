package repository

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/quillhq/newsletter-api/internal/model"
)

// SubscriptionTokenRepository defines the persistence operations for
// confirmation tokens.
type SubscriptionTokenRepository interface {
	// Create stores a freshly issued token.
	Create(ctx context.Context, token *model.SubscriptionToken) error

	// GetActive returns the token document for the given token string.
	// Invalidated and expired tokens are reported as ErrNotFound so callers
	// cannot distinguish them from tokens that were never issued.
	GetActive(ctx context.Context, token string) (*model.SubscriptionToken, error)

	// InvalidateForSubscriber marks every active token of a subscriber as
	// invalidated. Used when a re-registration issues a replacement token.
	InvalidateForSubscriber(ctx context.Context, subscriberID string) error
}

const subscriptionTokenCollection = "subscription_tokens"

type subscriptionTokenMongoRepository struct {
	db *mongo.Database
}

// NewSubscriptionTokenMongoRepository creates a MongoDB-backed token
// repository and ensures its indexes, including a TTL index that reaps
// expired tokens.
func NewSubscriptionTokenMongoRepository(
	ctx context.Context,
	logger *zerolog.Logger,
	db *mongo.Database,
) SubscriptionTokenRepository {
	collection := db.Collection(subscriptionTokenCollection)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "token", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "subscriber_id", Value: 1}},
		},
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0), // TTL index
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create subscription token indexes")
	}

	return &subscriptionTokenMongoRepository{db: db}
}

func (r *subscriptionTokenMongoRepository) Create(ctx context.Context, token *model.SubscriptionToken) error {
	token.CreatedAt = time.Now()

	result, err := r.db.Collection(subscriptionTokenCollection).InsertOne(ctx, token)
	if err != nil {
		return &StoreError{Phase: PhaseInsertToken, Err: err}
	}

	if objectID, ok := result.InsertedID.(bson.ObjectID); ok {
		token.ID = objectID
	}

	return nil
}

func (r *subscriptionTokenMongoRepository) GetActive(
	ctx context.Context,
	token string,
) (*model.SubscriptionToken, error) {
	filter := bson.M{
		"token":       token,
		"invalidated": false,
		"expires_at":  bson.M{"$gt": time.Now()},
	}

	var doc model.SubscriptionToken
	err := r.db.Collection(subscriptionTokenCollection).FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}

		return nil, &StoreError{Phase: PhaseQuery, Err: err}
	}

	return &doc, nil
}

func (r *subscriptionTokenMongoRepository) InvalidateForSubscriber(ctx context.Context, subscriberID string) error {
	filter := bson.M{
		"subscriber_id": subscriberID,
		"invalidated":   false,
	}
	update := bson.M{
		"$set": bson.M{"invalidated": true},
	}

	_, err := r.db.Collection(subscriptionTokenCollection).UpdateMany(ctx, filter, update)
	if err != nil {
		return &StoreError{Phase: PhaseQuery, Err: err}
	}

	return nil
}
