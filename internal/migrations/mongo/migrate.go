// Package mongo creates the collections and indexes the sync engine relies
// on. Run as a one-shot job before the first deployment and after every
// schema change.
package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"staysync/internal/sync/repository"
)

var (
	propertyIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "external_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "active", Value: 1}, {Key: "name", Value: 1}}},
	}

	// The partial unique index enforces at most one non-deleted booking per
	// (property, channel reservation id); soft-deleted rows free the slot.
	bookingIndexes = []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "property_id", Value: 1}, {Key: "channel_ref", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"deleted": false}),
		},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "start", Value: 1}}},
	}

	contractIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "booking_id", Value: 1}, {Key: "status", Value: 1}}},
	}

	sojournGroupIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "booking_id", Value: 1}, {Key: "start", Value: 1}}},
	}

	serviceLineIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "booking_id", Value: 1}}},
	}

	// Overlap queries filter on unit and half-open window.
	consumptionIndexes = []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "unit_id", Value: 1},
			{Key: "start", Value: 1},
			{Key: "end", Value: 1},
		}},
		{Keys: bson.D{{Key: "booking_id", Value: 1}}},
	}

	fundingIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "booking_id", Value: 1}, {Key: "origin", Value: 1}}},
	}

	paymentIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "booking_id", Value: 1}, {Key: "origin", Value: 1}}},
		{Keys: bson.D{{Key: "funding_id", Value: 1}}},
	}

	guaranteeIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "booking_id", Value: 1}}},
	}

	// Name lookups run case-insensitively; the index collation must match
	// the query collation or Mongo scans the collection.
	identityIndexes = []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "last_name", Value: 1}, {Key: "first_name", Value: 1}},
			Options: options.Index().
				SetCollation(&options.Collation{Locale: "en", Strength: 2}),
		},
	}

	customerIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "identity_id", Value: 1}}},
	}

	contactIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "booking_id", Value: 1}}},
	}

	rateListIndexes = []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "property_id", Value: 1},
			{Key: "product_id", Value: 1},
			{Key: "start", Value: 1},
			{Key: "end", Value: 1},
		}},
	}

	taskIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: 1}, {Key: "done", Value: 1}, {Key: "run_at", Value: 1}}},
	}

	alertIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: 1}, {Key: "scope", Value: 1}, {Key: "active", Value: 1}}},
		{Keys: bson.D{{Key: "back_office", Value: 1}, {Key: "active", Value: 1}}},
	}

	unitIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "property_id", Value: 1}}},
	}
)

func RunMigration(ctx context.Context, client *mongo.Client, databaseName string) error {
	db := client.Database(databaseName)

	collections := map[string][]mongo.IndexModel{
		repository.PropertiesCollection:    propertyIndexes,
		repository.UnitsCollection:         unitIndexes,
		repository.BookingsCollection:      bookingIndexes,
		repository.ContractsCollection:     contractIndexes,
		repository.SojournGroupsCollection: sojournGroupIndexes,
		repository.ServiceLinesCollection:  serviceLineIndexes,
		repository.ConsumptionsCollection:  consumptionIndexes,
		repository.FundingsCollection:      fundingIndexes,
		repository.PaymentsCollection:      paymentIndexes,
		repository.GuaranteesCollection:    guaranteeIndexes,
		repository.IdentitiesCollection:    identityIndexes,
		repository.CustomersCollection:     customerIndexes,
		repository.ContactsCollection:      contactIndexes,
		repository.RateListsCollection:     rateListIndexes,
		repository.TasksCollection:         taskIndexes,
		repository.AlertsCollection:        alertIndexes,
	}

	for name, indexes := range collections {
		if err := ensureCollection(ctx, db, name); err != nil {
			return fmt.Errorf("failed to ensure collection %s: %w", name, err)
		}
		if err := ensureIndexes(ctx, db, name, indexes); err != nil {
			return fmt.Errorf("failed to ensure indexes for %s: %w", name, err)
		}
	}
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	if err := db.CreateCollection(ctx, name); err != nil {
		return fmt.Errorf("failed creating %s: %w", name, err)
	}
	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, name string, models []mongo.IndexModel) error {
	if len(models) == 0 {
		return nil
	}
	if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
		return err
	}
	return nil
}
