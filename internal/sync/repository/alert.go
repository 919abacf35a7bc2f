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

type AlertRepository interface {
	// Raise activates the alert, or leaves an already-active alert with the
	// same name and scope untouched.
	Raise(ctx context.Context, alert *model.Alert) error
	Resolve(ctx context.Context, name, scope string) error
	FindActive(ctx context.Context, backOffice string) ([]*model.Alert, error)
}

type mongoAlertRepository struct {
	cfg    *config.Config
	alerts *mongo.Collection
}

func NewMongoAlertRepository(cfg *config.Config) AlertRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoAlertRepository{
		cfg:    cfg,
		alerts: db.Collection(AlertsCollection),
	}
}

func (r *mongoAlertRepository) Raise(ctx context.Context, alert *model.Alert) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if alert.ID == "" {
		alert.ID = uuid.NewString()
	}
	alert.Active = true
	alert.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	filter := bson.M{"name": alert.Name, "scope": alert.Scope, "active": true}
	update := bson.M{"$setOnInsert": alert}

	opts := options.Update().SetUpsert(true)
	if _, err := r.alerts.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("failed to raise alert: %w", err)
	}
	return nil
}

func (r *mongoAlertRepository) Resolve(ctx context.Context, name, scope string) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := bson.M{"name": name, "scope": scope, "active": true}
	update := bson.M{"$set": bson.M{"active": false}}
	if _, err := r.alerts.UpdateMany(ctx, filter, update); err != nil {
		return fmt.Errorf("failed to resolve alert: %w", err)
	}
	return nil
}

func (r *mongoAlertRepository) FindActive(ctx context.Context, backOffice string) ([]*model.Alert, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{"active": true}
	if backOffice != "" {
		filter["back_office"] = backOffice
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.alerts.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find active alerts: %w", err)
	}
	defer cursor.Close(ctx)

	var alerts []*model.Alert
	if err = cursor.All(ctx, &alerts); err != nil {
		return nil, fmt.Errorf("failed to decode alerts: %w", err)
	}
	return alerts, nil
}
