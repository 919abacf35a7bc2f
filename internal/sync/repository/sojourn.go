package repository

import (
	"context"
	"fmt"
	"time"

	"staysync/pkg/config"
	"staysync/pkg/model"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type SojournRepository interface {
	CreateGroup(ctx context.Context, group *model.SojournGroup) error
	GroupsByBooking(ctx context.Context, bookingID string) ([]*model.SojournGroup, error)
	DeleteGroupsByBooking(ctx context.Context, bookingID string) error

	CreateLine(ctx context.Context, line *model.ServiceLine) error
	LinesByBooking(ctx context.Context, bookingID string) ([]*model.ServiceLine, error)
	DeleteLinesByBooking(ctx context.Context, bookingID string) error

	CreateConsumption(ctx context.Context, consumption *model.Consumption) error
	ConsumptionsByBooking(ctx context.Context, bookingID string) ([]*model.Consumption, error)
	DeleteConsumptionsByBooking(ctx context.Context, bookingID string) error
	// OverlappingConsumptions returns consumptions on any of the given units
	// whose half-open window intersects [start, end).
	OverlappingConsumptions(ctx context.Context, unitIDs []string, start, end time.Time) ([]*model.Consumption, error)
}

type mongoSojournRepository struct {
	cfg          *config.Config
	groups       *mongo.Collection
	lines        *mongo.Collection
	consumptions *mongo.Collection
}

func NewMongoSojournRepository(cfg *config.Config) SojournRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoSojournRepository{
		cfg:          cfg,
		groups:       db.Collection(SojournGroupsCollection),
		lines:        db.Collection(ServiceLinesCollection),
		consumptions: db.Collection(ConsumptionsCollection),
	}
}

func (r *mongoSojournRepository) CreateGroup(ctx context.Context, group *model.SojournGroup) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if group.ID == "" {
		group.ID = uuid.NewString()
	}
	if _, err := r.groups.InsertOne(ctx, group); err != nil {
		return fmt.Errorf("failed to create sojourn group: %w", err)
	}
	return nil
}

func (r *mongoSojournRepository) GroupsByBooking(ctx context.Context, bookingID string) ([]*model.SojournGroup, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "start", Value: 1}})
	cursor, err := r.groups.Find(ctx, bson.M{"booking_id": bookingID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find sojourn groups: %w", err)
	}
	defer cursor.Close(ctx)

	var groups []*model.SojournGroup
	if err = cursor.All(ctx, &groups); err != nil {
		return nil, fmt.Errorf("failed to decode sojourn groups: %w", err)
	}
	return groups, nil
}

func (r *mongoSojournRepository) DeleteGroupsByBooking(ctx context.Context, bookingID string) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if _, err := r.groups.DeleteMany(ctx, bson.M{"booking_id": bookingID}); err != nil {
		return fmt.Errorf("failed to delete sojourn groups: %w", err)
	}
	return nil
}

func (r *mongoSojournRepository) CreateLine(ctx context.Context, line *model.ServiceLine) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if line.ID == "" {
		line.ID = uuid.NewString()
	}
	if _, err := r.lines.InsertOne(ctx, line); err != nil {
		return fmt.Errorf("failed to create service line: %w", err)
	}
	return nil
}

func (r *mongoSojournRepository) LinesByBooking(ctx context.Context, bookingID string) ([]*model.ServiceLine, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	cursor, err := r.lines.Find(ctx, bson.M{"booking_id": bookingID})
	if err != nil {
		return nil, fmt.Errorf("failed to find service lines: %w", err)
	}
	defer cursor.Close(ctx)

	var lines []*model.ServiceLine
	if err = cursor.All(ctx, &lines); err != nil {
		return nil, fmt.Errorf("failed to decode service lines: %w", err)
	}
	return lines, nil
}

func (r *mongoSojournRepository) DeleteLinesByBooking(ctx context.Context, bookingID string) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if _, err := r.lines.DeleteMany(ctx, bson.M{"booking_id": bookingID}); err != nil {
		return fmt.Errorf("failed to delete service lines: %w", err)
	}
	return nil
}

func (r *mongoSojournRepository) CreateConsumption(ctx context.Context, consumption *model.Consumption) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if consumption.ID == "" {
		consumption.ID = uuid.NewString()
	}
	if _, err := r.consumptions.InsertOne(ctx, consumption); err != nil {
		return fmt.Errorf("failed to create consumption: %w", err)
	}
	return nil
}

func (r *mongoSojournRepository) ConsumptionsByBooking(ctx context.Context, bookingID string) ([]*model.Consumption, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	cursor, err := r.consumptions.Find(ctx, bson.M{"booking_id": bookingID})
	if err != nil {
		return nil, fmt.Errorf("failed to find consumptions: %w", err)
	}
	defer cursor.Close(ctx)

	var consumptions []*model.Consumption
	if err = cursor.All(ctx, &consumptions); err != nil {
		return nil, fmt.Errorf("failed to decode consumptions: %w", err)
	}
	return consumptions, nil
}

func (r *mongoSojournRepository) DeleteConsumptionsByBooking(ctx context.Context, bookingID string) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if _, err := r.consumptions.DeleteMany(ctx, bson.M{"booking_id": bookingID}); err != nil {
		return fmt.Errorf("failed to delete consumptions: %w", err)
	}
	return nil
}

func (r *mongoSojournRepository) OverlappingConsumptions(ctx context.Context, unitIDs []string, start, end time.Time) ([]*model.Consumption, error) {
	if len(unitIDs) == 0 {
		return nil, nil
	}

	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"unit_id": bson.M{"$in": unitIDs},
		"start":   bson.M{"$lt": end},
		"end":     bson.M{"$gt": start},
	}

	cursor, err := r.consumptions.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find overlapping consumptions: %w", err)
	}
	defer cursor.Close(ctx)

	var consumptions []*model.Consumption
	if err = cursor.All(ctx, &consumptions); err != nil {
		return nil, fmt.Errorf("failed to decode consumptions: %w", err)
	}
	return consumptions, nil
}
