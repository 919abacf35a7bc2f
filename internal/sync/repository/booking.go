package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"staysync/pkg/config"
	mongotx "staysync/pkg/db/mongo"
	syncerrors "staysync/pkg/errors"
	"staysync/pkg/model"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	FindByID(ctx context.Context, id string) (*model.Booking, error)
	// FindByChannelRef resolves the idempotency key: at most one non-deleted
	// booking per (property, channel reservation id).
	FindByChannelRef(ctx context.Context, propertyID, channelRef string) (*model.Booking, error)
	Update(ctx context.Context, booking *model.Booking) error
	SetStatus(ctx context.Context, id string, status model.BookingStatus) error
	MarkDeleted(ctx context.Context, id string) error

	CreateContract(ctx context.Context, contract *model.Contract) error
	VoidContractsByBooking(ctx context.Context, bookingID string) error
	ActiveContractByBooking(ctx context.Context, bookingID string) (*model.Contract, error)
	SignActiveContract(ctx context.Context, bookingID string) error

	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoBookingRepository struct {
	cfg       *config.Config
	bookings  *mongo.Collection
	contracts *mongo.Collection
	txManager mongotx.TransactionManager
}

func NewMongoBookingRepository(cfg *config.Config) BookingRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingRepository{
		cfg:       cfg,
		bookings:  db.Collection(BookingsCollection),
		contracts: db.Collection(ContractsCollection),
		txManager: mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

func (r *mongoBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if booking.ID == "" {
		booking.ID = uuid.NewString()
	}
	now := time.Now().UTC().Truncate(time.Millisecond)
	booking.CreatedAt = now
	booking.UpdatedAt = now

	if _, err := r.bookings.InsertOne(ctx, booking); err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

func (r *mongoBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var booking model.Booking
	err := r.bookings.FindOne(ctx, bson.M{"_id": id, "deleted": false}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, syncerrors.NotFoundWithID("booking", id)
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}
	return &booking, nil
}

func (r *mongoBookingRepository) FindByChannelRef(ctx context.Context, propertyID, channelRef string) (*model.Booking, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"property_id": propertyID,
		"channel_ref": channelRef,
		"deleted":     false,
	}

	var booking model.Booking
	err := r.bookings.FindOne(ctx, filter).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, syncerrors.NotFoundWithID("booking", channelRef)
		}
		return nil, fmt.Errorf("failed to find booking by channel ref: %w", err)
	}
	return &booking, nil
}

func (r *mongoBookingRepository) Update(ctx context.Context, booking *model.Booking) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	booking.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)

	update := bson.M{"$set": bson.M{
		"status":            booking.Status,
		"customer_id":       booking.CustomerID,
		"tour_operator_ref": booking.TourOperatorRef,
		"start":             booking.Start,
		"end":               booking.End,
		"total":             booking.Total,
		"overbooked":        booking.Overbooked,
		"updated_at":        booking.UpdatedAt,
	}}

	result, err := r.bookings.UpdateOne(ctx, bson.M{"_id": booking.ID}, update)
	if err != nil {
		return fmt.Errorf("failed to update booking: %w", err)
	}
	if result.MatchedCount == 0 {
		return syncerrors.NotFoundWithID("booking", booking.ID)
	}
	return nil
}

func (r *mongoBookingRepository) SetStatus(ctx context.Context, id string, status model.BookingStatus) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"status":     status,
		"updated_at": time.Now().UTC().Truncate(time.Millisecond),
	}}
	result, err := r.bookings.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to set booking status: %w", err)
	}
	if result.MatchedCount == 0 {
		return syncerrors.NotFoundWithID("booking", id)
	}
	return nil
}

// MarkDeleted soft-deletes the booking, freeing the (property, channel_ref)
// idempotency slot while keeping the record for audit.
func (r *mongoBookingRepository) MarkDeleted(ctx context.Context, id string) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"deleted":    true,
		"updated_at": time.Now().UTC().Truncate(time.Millisecond),
	}}
	result, err := r.bookings.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to mark booking deleted: %w", err)
	}
	if result.MatchedCount == 0 {
		return syncerrors.NotFoundWithID("booking", id)
	}
	return nil
}

func (r *mongoBookingRepository) CreateContract(ctx context.Context, contract *model.Contract) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if contract.ID == "" {
		contract.ID = uuid.NewString()
	}
	contract.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	if _, err := r.contracts.InsertOne(ctx, contract); err != nil {
		return fmt.Errorf("failed to create contract: %w", err)
	}
	return nil
}

func (r *mongoBookingRepository) VoidContractsByBooking(ctx context.Context, bookingID string) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := bson.M{"booking_id": bookingID, "status": model.ContractActive}
	update := bson.M{"$set": bson.M{"status": model.ContractVoid}}
	if _, err := r.contracts.UpdateMany(ctx, filter, update); err != nil {
		return fmt.Errorf("failed to void contracts: %w", err)
	}
	return nil
}

func (r *mongoBookingRepository) ActiveContractByBooking(ctx context.Context, bookingID string) (*model.Contract, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var contract model.Contract
	err := r.contracts.FindOne(ctx, bson.M{"booking_id": bookingID, "status": model.ContractActive}).Decode(&contract)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, syncerrors.NotFound("contract")
		}
		return nil, fmt.Errorf("failed to find contract: %w", err)
	}
	return &contract, nil
}

// SignActiveContract marks the booking's active contract as signed; the
// legal signature step happens on the channel's side.
func (r *mongoBookingRepository) SignActiveContract(ctx context.Context, bookingID string) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := bson.M{"booking_id": bookingID, "status": model.ContractActive}
	update := bson.M{"$set": bson.M{"signed": true}}
	result, err := r.contracts.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to sign contract: %w", err)
	}
	if result.MatchedCount == 0 {
		return syncerrors.NotFound("contract")
	}
	return nil
}

func (r *mongoBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
