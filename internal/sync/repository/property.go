package repository

import (
	"context"
	"errors"
	"fmt"

	"staysync/pkg/config"
	syncerrors "staysync/pkg/errors"
	"staysync/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type PropertyRepository interface {
	FindActive(ctx context.Context) ([]*model.ChannelProperty, error)
	FindByID(ctx context.Context, id string) (*model.ChannelProperty, error)
	FindByExternalID(ctx context.Context, externalID string) (*model.ChannelProperty, error)
	UnitsByIDs(ctx context.Context, ids []string) ([]*model.RentalUnit, error)
}

type mongoPropertyRepository struct {
	cfg        *config.Config
	properties *mongo.Collection
	units      *mongo.Collection
}

func NewMongoPropertyRepository(cfg *config.Config) PropertyRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoPropertyRepository{
		cfg:        cfg,
		properties: db.Collection(PropertiesCollection),
		units:      db.Collection(UnitsCollection),
	}
}

// FindActive returns the active property mappings in stable name order; the
// run orchestrator iterates them sequentially.
func (r *mongoPropertyRepository) FindActive(ctx context.Context) ([]*model.ChannelProperty, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.properties.Find(ctx, bson.M{"active": true}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find active properties: %w", err)
	}
	defer cursor.Close(ctx)

	var properties []*model.ChannelProperty
	if err = cursor.All(ctx, &properties); err != nil {
		return nil, fmt.Errorf("failed to decode properties: %w", err)
	}
	return properties, nil
}

func (r *mongoPropertyRepository) FindByID(ctx context.Context, id string) (*model.ChannelProperty, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var property model.ChannelProperty
	err := r.properties.FindOne(ctx, bson.M{"_id": id}).Decode(&property)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, syncerrors.NotFoundWithID("property", id)
		}
		return nil, fmt.Errorf("failed to find property: %w", err)
	}
	return &property, nil
}

func (r *mongoPropertyRepository) FindByExternalID(ctx context.Context, externalID string) (*model.ChannelProperty, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var property model.ChannelProperty
	err := r.properties.FindOne(ctx, bson.M{"external_id": externalID}).Decode(&property)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, syncerrors.NotFoundWithID("property", externalID)
		}
		return nil, fmt.Errorf("failed to find property by external id: %w", err)
	}
	return &property, nil
}

func (r *mongoPropertyRepository) UnitsByIDs(ctx context.Context, ids []string) ([]*model.RentalUnit, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.units.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find rental units: %w", err)
	}
	defer cursor.Close(ctx)

	var units []*model.RentalUnit
	if err = cursor.All(ctx, &units); err != nil {
		return nil, fmt.Errorf("failed to decode rental units: %w", err)
	}
	return units, nil
}
