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
)

type FinanceRepository interface {
	CreateFunding(ctx context.Context, funding *model.Funding) error
	FundingsByBooking(ctx context.Context, bookingID string) ([]*model.Funding, error)
	DeleteFunding(ctx context.Context, id string) error
	DeleteChannelFundingsByBooking(ctx context.Context, bookingID string) error

	CreatePayment(ctx context.Context, payment *model.Payment) error
	PaymentsByBooking(ctx context.Context, bookingID string) ([]*model.Payment, error)
	DeleteChannelPaymentsByBooking(ctx context.Context, bookingID string) error

	CreateGuarantee(ctx context.Context, guarantee *model.Guarantee) error
	GuaranteeByBooking(ctx context.Context, bookingID string) (*model.Guarantee, error)
	DeleteGuaranteesByBooking(ctx context.Context, bookingID string) error
}

type mongoFinanceRepository struct {
	cfg        *config.Config
	fundings   *mongo.Collection
	payments   *mongo.Collection
	guarantees *mongo.Collection
}

func NewMongoFinanceRepository(cfg *config.Config) FinanceRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoFinanceRepository{
		cfg:        cfg,
		fundings:   db.Collection(FundingsCollection),
		payments:   db.Collection(PaymentsCollection),
		guarantees: db.Collection(GuaranteesCollection),
	}
}

func (r *mongoFinanceRepository) CreateFunding(ctx context.Context, funding *model.Funding) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if funding.ID == "" {
		funding.ID = uuid.NewString()
	}
	funding.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	if _, err := r.fundings.InsertOne(ctx, funding); err != nil {
		return fmt.Errorf("failed to create funding: %w", err)
	}
	return nil
}

func (r *mongoFinanceRepository) FundingsByBooking(ctx context.Context, bookingID string) ([]*model.Funding, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	cursor, err := r.fundings.Find(ctx, bson.M{"booking_id": bookingID})
	if err != nil {
		return nil, fmt.Errorf("failed to find fundings: %w", err)
	}
	defer cursor.Close(ctx)

	var fundings []*model.Funding
	if err = cursor.All(ctx, &fundings); err != nil {
		return nil, fmt.Errorf("failed to decode fundings: %w", err)
	}
	return fundings, nil
}

func (r *mongoFinanceRepository) DeleteFunding(ctx context.Context, id string) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	result, err := r.fundings.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete funding: %w", err)
	}
	if result.DeletedCount == 0 {
		return syncerrors.NotFoundWithID("funding", id)
	}
	return nil
}

func (r *mongoFinanceRepository) DeleteChannelFundingsByBooking(ctx context.Context, bookingID string) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := bson.M{"booking_id": bookingID, "origin": model.OriginChannel}
	if _, err := r.fundings.DeleteMany(ctx, filter); err != nil {
		return fmt.Errorf("failed to delete channel fundings: %w", err)
	}
	return nil
}

func (r *mongoFinanceRepository) CreatePayment(ctx context.Context, payment *model.Payment) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if payment.ID == "" {
		payment.ID = uuid.NewString()
	}
	if _, err := r.payments.InsertOne(ctx, payment); err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

func (r *mongoFinanceRepository) PaymentsByBooking(ctx context.Context, bookingID string) ([]*model.Payment, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	cursor, err := r.payments.Find(ctx, bson.M{"booking_id": bookingID})
	if err != nil {
		return nil, fmt.Errorf("failed to find payments: %w", err)
	}
	defer cursor.Close(ctx)

	var payments []*model.Payment
	if err = cursor.All(ctx, &payments); err != nil {
		return nil, fmt.Errorf("failed to decode payments: %w", err)
	}
	return payments, nil
}

// DeleteChannelPaymentsByBooking removes channel-originated payments only;
// payments recorded by staff survive a booking reset.
func (r *mongoFinanceRepository) DeleteChannelPaymentsByBooking(ctx context.Context, bookingID string) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := bson.M{"booking_id": bookingID, "origin": model.OriginChannel}
	if _, err := r.payments.DeleteMany(ctx, filter); err != nil {
		return fmt.Errorf("failed to delete channel payments: %w", err)
	}
	return nil
}

func (r *mongoFinanceRepository) CreateGuarantee(ctx context.Context, guarantee *model.Guarantee) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if guarantee.ID == "" {
		guarantee.ID = uuid.NewString()
	}
	guarantee.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	if _, err := r.guarantees.InsertOne(ctx, guarantee); err != nil {
		return fmt.Errorf("failed to create guarantee: %w", err)
	}
	return nil
}

func (r *mongoFinanceRepository) GuaranteeByBooking(ctx context.Context, bookingID string) (*model.Guarantee, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var guarantee model.Guarantee
	err := r.guarantees.FindOne(ctx, bson.M{"booking_id": bookingID}).Decode(&guarantee)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, syncerrors.NotFound("guarantee")
		}
		return nil, fmt.Errorf("failed to find guarantee: %w", err)
	}
	return &guarantee, nil
}

func (r *mongoFinanceRepository) DeleteGuaranteesByBooking(ctx context.Context, bookingID string) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if _, err := r.guarantees.DeleteMany(ctx, bson.M{"booking_id": bookingID}); err != nil {
		return fmt.Errorf("failed to delete guarantees: %w", err)
	}
	return nil
}
