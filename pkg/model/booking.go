package model

import (
	"time"
)

type BookingOrigin string

const (
	OriginInternal BookingOrigin = "internal"
	OriginChannel  BookingOrigin = "channel"
)

type BookingStatus string

const (
	StatusDraft      BookingStatus = "draft"
	StatusOption     BookingStatus = "option"
	StatusConfirmed  BookingStatus = "confirmed"
	StatusValidated  BookingStatus = "validated"
	StatusCheckedIn  BookingStatus = "checkedin"
	StatusCheckedOut BookingStatus = "checkedout"
	StatusCancelled  BookingStatus = "cancelled"
)

// BookingTypeOTA classifies bookings created by the sync engine.
const BookingTypeOTA = "ota"

// Booking is the reconciliation target. At most one non-deleted booking
// exists per (property, channel reservation id); the engine enforces this by
// lookup-before-create and the migration adds a matching unique index.
type Booking struct {
	ID         string `json:"id,omitempty" bson:"_id,omitempty"`
	PropertyID string `json:"property_id" bson:"property_id" validate:"required"`

	// ChannelRef is the channel-assigned reservation id, the idempotency key.
	// Empty for bookings entered by staff.
	ChannelRef string        `json:"channel_ref,omitempty" bson:"channel_ref,omitempty"`
	Origin     BookingOrigin `json:"origin" bson:"origin" validate:"required,oneof=internal channel"`

	Status      BookingStatus `json:"status" bson:"status" validate:"required,oneof=draft option confirmed validated checkedin checkedout cancelled"`
	BookingType string        `json:"booking_type" bson:"booking_type"`

	CustomerID      string `json:"customer_id" bson:"customer_id"`
	TourOperatorRef string `json:"tour_operator_ref,omitempty" bson:"tour_operator_ref,omitempty"`

	Start time.Time `json:"start" bson:"start" validate:"required"`
	End   time.Time `json:"end" bson:"end" validate:"required,gtfield=Start"`

	// Total is the tax-included price of the whole booking.
	Total float64 `json:"total" bson:"total" validate:"min=0"`

	Overbooked bool `json:"overbooked" bson:"overbooked"`
	Deleted    bool `json:"deleted" bson:"deleted"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// Modifiable reports whether an inbound channel modification may be applied.
// Lifecycle guards are pure functions of origin and status; channel bookings
// that moved past validation (or backwards to a quote) are owned by staff.
func (b *Booking) Modifiable() bool {
	return b.Status == StatusConfirmed || b.Status == StatusValidated
}

// Cancellable reports whether the cancel transition is legal for this state.
func (b *Booking) Cancellable() bool {
	return b.Status != StatusCancelled && b.Status != StatusCheckedOut
}

type ContractStatus string

const (
	ContractActive ContractStatus = "active"
	ContractVoid   ContractStatus = "void"
)

// Contract is the legal document attached to a booking. Resetting a booking
// voids the contract rather than deleting it, for audit.
type Contract struct {
	ID        string         `json:"id,omitempty" bson:"_id,omitempty"`
	BookingID string         `json:"booking_id" bson:"booking_id" validate:"required"`
	Status    ContractStatus `json:"status" bson:"status" validate:"required,oneof=active void"`
	Signed    bool           `json:"signed" bson:"signed"`
	CreatedAt time.Time      `json:"created_at" bson:"created_at"`
}
