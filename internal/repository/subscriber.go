package repository

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/quillhq/newsletter-api/internal/model"
)

// SubscriberRepository defines the persistence operations for subscribers.
type SubscriberRepository interface {
	// CreateWithToken inserts a pending subscriber and its confirmation token
	// in a single transaction. Either both documents become visible or
	// neither does.
	CreateWithToken(ctx context.Context, sub *model.Subscriber, token *model.SubscriptionToken) error

	// GetByEmail returns the subscriber registered under the given email, or
	// ErrNotFound.
	GetByEmail(ctx context.Context, email string) (*model.Subscriber, error)

	// ConfirmByID transitions a subscriber to confirmed. The update is
	// unconditional, so confirming an already-confirmed subscriber is a no-op.
	ConfirmByID(ctx context.Context, id string) error

	// ListConfirmed returns a one-pass cursor over the currently confirmed
	// subscribers. The snapshot does not reflect inserts made after the call.
	ListConfirmed(ctx context.Context) (ConfirmedSubscriberCursor, error)
}

// ConfirmedSubscriberCursor iterates over confirmed subscribers. Current may
// return a row-level error for documents whose stored email no longer passes
// validation; callers skip those rows rather than aborting.
type ConfirmedSubscriberCursor interface {
	Next(ctx context.Context) bool
	Current() (model.ConfirmedSubscriber, error)
	Err() error
	Close(ctx context.Context) error
}

const subscriberCollection = "subscribers"

type subscriberMongoRepository struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewSubscriberMongoRepository creates a MongoDB-backed subscriber repository.
func NewSubscriberMongoRepository(
	ctx context.Context,
	logger *zerolog.Logger,
	client *mongo.Client,
	db *mongo.Database,
) SubscriberRepository {
	collection := db.Collection(subscriberCollection)

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "email", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "status", Value: 1}},
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create subscriber indexes")
	}

	return &subscriberMongoRepository{client: client, db: db}
}

func (r *subscriberMongoRepository) CreateWithToken(
	ctx context.Context,
	sub *model.Subscriber,
	token *model.SubscriptionToken,
) error {
	session, err := r.client.StartSession()
	if err != nil {
		return &StoreError{Phase: PhaseCommit, Err: err}
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(ctx context.Context) (any, error) {
		if _, err := r.db.Collection(subscriberCollection).InsertOne(ctx, sub); err != nil {
			return nil, &StoreError{Phase: PhaseInsertSubscriber, Err: err}
		}

		if _, err := r.db.Collection(subscriptionTokenCollection).InsertOne(ctx, token); err != nil {
			return nil, &StoreError{Phase: PhaseInsertToken, Err: err}
		}

		return nil, nil
	})
	if err != nil {
		var storeErr *StoreError
		if errors.As(err, &storeErr) {
			return storeErr
		}

		return &StoreError{Phase: PhaseCommit, Err: err}
	}

	return nil
}

func (r *subscriberMongoRepository) GetByEmail(ctx context.Context, email string) (*model.Subscriber, error) {
	var sub model.Subscriber
	err := r.db.Collection(subscriberCollection).FindOne(ctx, bson.M{"email": email}).Decode(&sub)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}

		return nil, &StoreError{Phase: PhaseQuery, Err: err}
	}

	return &sub, nil
}

func (r *subscriberMongoRepository) ConfirmByID(ctx context.Context, id string) error {
	update := bson.M{"$set": bson.M{"status": model.StatusConfirmed}}

	_, err := r.db.Collection(subscriberCollection).UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return &StoreError{Phase: PhaseQuery, Err: err}
	}

	return nil
}

func (r *subscriberMongoRepository) ListConfirmed(ctx context.Context) (ConfirmedSubscriberCursor, error) {
	filter := bson.M{"status": model.StatusConfirmed}
	findOptions := options.Find().SetProjection(bson.M{"_id": 1, "email": 1})

	cursor, err := r.db.Collection(subscriberCollection).Find(ctx, filter, findOptions)
	if err != nil {
		return nil, &StoreError{Phase: PhaseQuery, Err: err}
	}

	return &confirmedMongoCursor{cursor: cursor}, nil
}

type confirmedMongoCursor struct {
	cursor *mongo.Cursor
}

func (c *confirmedMongoCursor) Next(ctx context.Context) bool {
	return c.cursor.Next(ctx)
}

func (c *confirmedMongoCursor) Current() (model.ConfirmedSubscriber, error) {
	var sub model.ConfirmedSubscriber
	if err := c.cursor.Decode(&sub); err != nil {
		return model.ConfirmedSubscriber{}, err
	}

	if err := model.ValidateStoredEmail(sub.Email); err != nil {
		return model.ConfirmedSubscriber{}, err
	}

	return sub, nil
}

func (c *confirmedMongoCursor) Err() error {
	return c.cursor.Err()
}

func (c *confirmedMongoCursor) Close(ctx context.Context) error {
	return c.cursor.Close(ctx)
}
