package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"staysync/pkg/config"
	syncerrors "staysync/pkg/errors"
	"staysync/pkg/model"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type CustomerRepository interface {
	CreateIdentity(ctx context.Context, identity *model.Identity) error
	UpdateIdentity(ctx context.Context, identity *model.Identity) error
	FindIdentityByID(ctx context.Context, id string) (*model.Identity, error)
	// FindIdentitiesByName matches first and last name case-insensitively.
	FindIdentitiesByName(ctx context.Context, firstName, lastName string) ([]*model.Identity, error)

	CreateCustomer(ctx context.Context, customer *model.Customer) error
	FindCustomerByIdentity(ctx context.Context, identityID string) (*model.Customer, error)

	CreateContact(ctx context.Context, contact *model.Contact) error
	ContactsByBooking(ctx context.Context, bookingID string) ([]*model.Contact, error)
	DeleteContactsByBooking(ctx context.Context, bookingID string) error
}

type mongoCustomerRepository struct {
	cfg        *config.Config
	identities *mongo.Collection
	customers  *mongo.Collection
	contacts   *mongo.Collection
}

func NewMongoCustomerRepository(cfg *config.Config) CustomerRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoCustomerRepository{
		cfg:        cfg,
		identities: db.Collection(IdentitiesCollection),
		customers:  db.Collection(CustomersCollection),
		contacts:   db.Collection(ContactsCollection),
	}
}

func (r *mongoCustomerRepository) CreateIdentity(ctx context.Context, identity *model.Identity) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if identity.ID == "" {
		identity.ID = uuid.NewString()
	}
	if _, err := r.identities.InsertOne(ctx, identity); err != nil {
		return fmt.Errorf("failed to create identity: %w", err)
	}
	return nil
}

func (r *mongoCustomerRepository) UpdateIdentity(ctx context.Context, identity *model.Identity) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"first_name": identity.FirstName,
		"last_name":  identity.LastName,
		"email":      identity.Email,
		"phone":      identity.Phone,
		"address":    identity.Address,
		"city":       identity.City,
		"zip":        identity.Zip,
		"country":    identity.Country,
		"timezone":   identity.Timezone,
	}}
	result, err := r.identities.UpdateOne(ctx, bson.M{"_id": identity.ID}, update)
	if err != nil {
		return fmt.Errorf("failed to update identity: %w", err)
	}
	if result.MatchedCount == 0 {
		return syncerrors.NotFoundWithID("identity", identity.ID)
	}
	return nil
}

func (r *mongoCustomerRepository) FindIdentityByID(ctx context.Context, id string) (*model.Identity, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var identity model.Identity
	err := r.identities.FindOne(ctx, bson.M{"_id": id}).Decode(&identity)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, syncerrors.NotFoundWithID("identity", id)
		}
		return nil, fmt.Errorf("failed to find identity: %w", err)
	}
	return &identity, nil
}

func (r *mongoCustomerRepository) FindIdentitiesByName(ctx context.Context, firstName, lastName string) ([]*model.Identity, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	// Collation strength 2 makes the equality match case and accent
	// insensitive without a regex scan.
	opts := options.Find().SetCollation(&options.Collation{Locale: "en", Strength: 2})
	filter := bson.M{"first_name": firstName, "last_name": lastName}

	cursor, err := r.identities.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find identities by name: %w", err)
	}
	defer cursor.Close(ctx)

	var identities []*model.Identity
	if err = cursor.All(ctx, &identities); err != nil {
		return nil, fmt.Errorf("failed to decode identities: %w", err)
	}
	return identities, nil
}

func (r *mongoCustomerRepository) CreateCustomer(ctx context.Context, customer *model.Customer) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if customer.ID == "" {
		customer.ID = uuid.NewString()
	}
	customer.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	if _, err := r.customers.InsertOne(ctx, customer); err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}
	return nil
}

func (r *mongoCustomerRepository) FindCustomerByIdentity(ctx context.Context, identityID string) (*model.Customer, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var customer model.Customer
	err := r.customers.FindOne(ctx, bson.M{"identity_id": identityID}).Decode(&customer)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, syncerrors.NotFound("customer")
		}
		return nil, fmt.Errorf("failed to find customer: %w", err)
	}
	return &customer, nil
}

func (r *mongoCustomerRepository) CreateContact(ctx context.Context, contact *model.Contact) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if contact.ID == "" {
		contact.ID = uuid.NewString()
	}
	if _, err := r.contacts.InsertOne(ctx, contact); err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}
	return nil
}

func (r *mongoCustomerRepository) ContactsByBooking(ctx context.Context, bookingID string) ([]*model.Contact, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	cursor, err := r.contacts.Find(ctx, bson.M{"booking_id": bookingID})
	if err != nil {
		return nil, fmt.Errorf("failed to find contacts: %w", err)
	}
	defer cursor.Close(ctx)

	var contacts []*model.Contact
	if err = cursor.All(ctx, &contacts); err != nil {
		return nil, fmt.Errorf("failed to decode contacts: %w", err)
	}
	return contacts, nil
}

func (r *mongoCustomerRepository) DeleteContactsByBooking(ctx context.Context, bookingID string) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if _, err := r.contacts.DeleteMany(ctx, bson.M{"booking_id": bookingID}); err != nil {
		return fmt.Errorf("failed to delete contacts: %w", err)
	}
	return nil
}
