package model

import (
	"time"
)

// Identity holds the contact-detail fields of one person. Customers and
// booking contacts both point at identities.
type Identity struct {
	ID        string `json:"id,omitempty" bson:"_id,omitempty"`
	FirstName string `json:"first_name" bson:"first_name" validate:"required,min=1,max=100"`
	LastName  string `json:"last_name" bson:"last_name" validate:"required,min=1,max=100"`
	Email     string `json:"email,omitempty" bson:"email,omitempty" validate:"omitempty,email"`
	Phone     string `json:"phone,omitempty" bson:"phone,omitempty"`
	Address   string `json:"address,omitempty" bson:"address,omitempty"`
	City      string `json:"city,omitempty" bson:"city,omitempty"`
	Zip       string `json:"zip,omitempty" bson:"zip,omitempty"`
	Country   string `json:"country,omitempty" bson:"country,omitempty"`
	Timezone  string `json:"timezone,omitempty" bson:"timezone,omitempty"`
}

// Customer is a billable party backed by an identity.
type Customer struct {
	ID         string    `json:"id,omitempty" bson:"_id,omitempty"`
	IdentityID string    `json:"identity_id" bson:"identity_id" validate:"required"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
}

type ContactRole string

const (
	ContactPrimary   ContactRole = "primary"
	ContactSecondary ContactRole = "secondary"
)

// Contact links an identity to a booking. Every booking carries exactly one
// primary contact; extra channel-supplied profiles become secondary contacts.
type Contact struct {
	ID         string      `json:"id,omitempty" bson:"_id,omitempty"`
	BookingID  string      `json:"booking_id" bson:"booking_id" validate:"required"`
	IdentityID string      `json:"identity_id" bson:"identity_id" validate:"required"`
	Role       ContactRole `json:"role" bson:"role" validate:"required,oneof=primary secondary"`
}
