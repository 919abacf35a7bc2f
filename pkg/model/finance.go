package model

import (
	"time"
)

// Funding records money owed by a customer for a booking, settled by zero or
// more payments. A funding with zero attached payments and not manually paid
// is redundant and gets pruned after confirmation.
type Funding struct {
	ID        string        `json:"id,omitempty" bson:"_id,omitempty"`
	BookingID string        `json:"booking_id" bson:"booking_id" validate:"required"`
	Amount    float64       `json:"amount" bson:"amount" validate:"min=0"`
	Origin    BookingOrigin `json:"origin" bson:"origin" validate:"required,oneof=internal channel"`

	// ManuallyPaid marks fundings settled outside any payment record by
	// staff; those are never pruned.
	ManuallyPaid bool      `json:"manually_paid" bson:"manually_paid"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}

// Payment settles part of a funding. Channel-originated payments are deleted
// when a booking is reset for modification; staff payments are preserved.
type Payment struct {
	ID        string        `json:"id,omitempty" bson:"_id,omitempty"`
	BookingID string        `json:"booking_id" bson:"booking_id" validate:"required"`
	FundingID string        `json:"funding_id" bson:"funding_id" validate:"required"`
	Amount    float64       `json:"amount" bson:"amount" validate:"min=0"`
	Method    string        `json:"method" bson:"method"`
	Origin    BookingOrigin `json:"origin" bson:"origin" validate:"required,oneof=internal channel"`

	// ChannelPaymentRef is the PSP transaction reference reported by the
	// channel; detail is fetched later by a scheduled task.
	ChannelPaymentRef string    `json:"channel_payment_ref,omitempty" bson:"channel_payment_ref,omitempty"`
	PaidAt            time.Time `json:"paid_at" bson:"paid_at"`
}

// Guarantee is the card guarantee attached to a booking; at most one.
type Guarantee struct {
	ID         string    `json:"id,omitempty" bson:"_id,omitempty"`
	BookingID  string    `json:"booking_id" bson:"booking_id" validate:"required"`
	CardType   string    `json:"card_type" bson:"card_type"`
	CardNumber string    `json:"card_number" bson:"card_number"`
	ExpiryDate string    `json:"expiry_date" bson:"expiry_date"`
	HolderName string    `json:"holder_name" bson:"holder_name"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
}
