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

// OperatorRepository defines the persistence operations for operator accounts.
type OperatorRepository interface {
	GetByUsername(ctx context.Context, username string) (*model.Operator, error)
	UpdatePassword(ctx context.Context, id string, passwordHash string) error

	// Upsert creates the operator account or replaces its password hash.
	// Used for startup bootstrap from configuration.
	Upsert(ctx context.Context, username, passwordHash string) error
}

const operatorCollection = "operators"

type operatorMongoRepository struct {
	db *mongo.Database
}

// NewOperatorMongoRepository creates a MongoDB-backed operator repository.
func NewOperatorMongoRepository(
	ctx context.Context,
	logger *zerolog.Logger,
	db *mongo.Database,
) OperatorRepository {
	collection := db.Collection(operatorCollection)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create operator indexes")
	}

	return &operatorMongoRepository{db: db}
}

func (r *operatorMongoRepository) GetByUsername(ctx context.Context, username string) (*model.Operator, error) {
	var op model.Operator
	err := r.db.Collection(operatorCollection).FindOne(ctx, bson.M{"username": username}).Decode(&op)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}

		return nil, &StoreError{Phase: PhaseQuery, Err: err}
	}

	return &op, nil
}

func (r *operatorMongoRepository) UpdatePassword(ctx context.Context, id string, passwordHash string) error {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	update := bson.M{
		"$set": bson.M{
			"password_hash": passwordHash,
			"updated_at":    time.Now(),
		},
	}

	result, err := r.db.Collection(operatorCollection).UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return &StoreError{Phase: PhaseQuery, Err: err}
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *operatorMongoRepository) Upsert(ctx context.Context, username, passwordHash string) error {
	now := time.Now()
	update := bson.M{
		"$set": bson.M{
			"password_hash": passwordHash,
			"updated_at":    now,
		},
		"$setOnInsert": bson.M{
			"created_at": now,
		},
	}

	_, err := r.db.Collection(operatorCollection).UpdateOne(
		ctx,
		bson.M{"username": username},
		update,
		options.UpdateOne().SetUpsert(true),
	)
	if err != nil {
		return &StoreError{Phase: PhaseQuery, Err: err}
	}

	return nil
}
