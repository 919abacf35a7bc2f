package repository

import (
	"context"
	"fmt"
	"time"

	"staysync/pkg/config"
	"staysync/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type RateRepository interface {
	// ListsForStay returns rate lists for the product whose validity window
	// contains the whole stay, shortest minimum duration first.
	ListsForStay(ctx context.Context, propertyID, productID string, start, end time.Time) ([]*model.RateList, error)
}

type mongoRateRepository struct {
	cfg   *config.Config
	rates *mongo.Collection
}

func NewMongoRateRepository(cfg *config.Config) RateRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoRateRepository{
		cfg:   cfg,
		rates: db.Collection(RateListsCollection),
	}
}

func (r *mongoRateRepository) ListsForStay(ctx context.Context, propertyID, productID string, start, end time.Time) ([]*model.RateList, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"property_id": propertyID,
		"product_id":  productID,
		"start":       bson.M{"$lte": start},
		"end":         bson.M{"$gte": end},
	}
	opts := options.Find().SetSort(bson.D{{Key: "min_duration", Value: 1}})

	cursor, err := r.rates.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find rate lists: %w", err)
	}
	defer cursor.Close(ctx)

	var lists []*model.RateList
	if err = cursor.All(ctx, &lists); err != nil {
		return nil, fmt.Errorf("failed to decode rate lists: %w", err)
	}
	return lists, nil
}
