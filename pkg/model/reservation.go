package model

import (
	"time"
)

// Channel reservation statuses as transmitted on the wire.
const (
	ResStatusReserved   = "Reserved"
	ResStatusModify     = "Modify"
	ResStatusCancelled  = "Cancelled"
	ResStatusDenied     = "Request Denied"
	ResStatusWaitlisted = "Waitlisted"
)

// ExternalReservation is the strongly-typed decode target for one channel
// reservation notification. It is transient: built by the protocol codec,
// consumed by the reconciliation engine, never persisted.
type ExternalReservation struct {
	ID         string `validate:"required"`
	Status     string `validate:"required,oneof=Reserved Modify Cancelled 'Request Denied' Waitlisted"`
	PropertyID string `validate:"required"`

	// PartnerID identifies the originating OTA partner when the reservation
	// was placed through one; matched against the known-partner table for
	// tour-operator stamping.
	PartnerID string

	Start     time.Time `validate:"required"`
	End       time.Time `validate:"required,gtfield=Start"`
	StartType string    // "date" when the channel supplied no time part
	EndType   string

	Customer GuestProfile `validate:"required"`
	// Profiles are additional contact profiles beyond the primary customer.
	Profiles []GuestProfile

	RoomStays []ExternalRoomStay `validate:"dive"`
	Services  []ExternalService  `validate:"dive"`
	Payments  []ExternalPayment  `validate:"dive"`

	Guarantees []ExternalGuarantee

	// Total is the channel-computed tax-included amount due.
	Total float64 `validate:"min=0"`
}

// Cancelled reports whether the normalized status is a cancellation; the
// channel signals denied requests separately but they are handled the same.
func (r *ExternalReservation) Cancelled() bool {
	return r.Status == ResStatusCancelled || r.Status == ResStatusDenied
}

type GuestProfile struct {
	FirstName string `validate:"required"`
	LastName  string `validate:"required"`
	Email     string `validate:"omitempty,email"`
	Phone     string
	Address   string
	City      string
	Zip       string
	Country   string
}

type ExternalRoomStay struct {
	RoomTypeCode string `validate:"required"`
	Adults       int    `validate:"min=0"`
	Children     int    `validate:"min=0"`
	Babies       int    `validate:"min=0"`
	Cancelled    bool

	Rates []ExternalDayRate `validate:"dive"`
	// Total is tax included, as supplied by the channel.
	Total float64 `validate:"min=0"`
}

func (s *ExternalRoomStay) Guests() int {
	return s.Adults + s.Children + s.Babies
}

type ExternalDayRate struct {
	Date   time.Time `validate:"required"`
	Amount float64   `validate:"min=0"`
}

type ExternalService struct {
	Code     string `validate:"required"`
	Quantity int    `validate:"min=1"`
	Amount   float64
}

type ExternalPayment struct {
	Ref    string
	Amount float64 `validate:"min=0"`
	Method string
	At     time.Time
}

type ExternalGuarantee struct {
	CardType   string
	CardNumber string
	ExpiryDate string
	HolderName string
}
