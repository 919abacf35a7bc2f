package model

import (
	"time"
)

// SojournGroup is the local aggregate for one room stay within a booking:
// dates, guest split and the service lines priced against it.
type SojournGroup struct {
	ID        string `json:"id,omitempty" bson:"_id,omitempty"`
	BookingID string `json:"booking_id" bson:"booking_id" validate:"required"`
	ProductID string `json:"product_id" bson:"product_id" validate:"required"`

	// UnitID stays empty when no free rental unit could be resolved
	// (overbooking); the sojourn is still built and billed.
	UnitID string `json:"unit_id,omitempty" bson:"unit_id,omitempty"`

	Start time.Time `json:"start" bson:"start" validate:"required"`
	End   time.Time `json:"end" bson:"end" validate:"required,gtfield=Start"`

	Adults   int `json:"adults" bson:"adults" validate:"min=0"`
	Children int `json:"children" bson:"children" validate:"min=0"`
	Babies   int `json:"babies" bson:"babies" validate:"min=0"`

	Total float64 `json:"total" bson:"total" validate:"min=0"`
}

func (g *SojournGroup) Guests() int {
	return g.Adults + g.Children + g.Babies
}

func (g *SojournGroup) Nights() int {
	return int(g.End.Sub(g.Start).Hours() / 24)
}

type ServiceLineKind string

const (
	LineAccommodation ServiceLineKind = "accommodation"
	LineBreakfast     ServiceLineKind = "breakfast"
	LineExtra         ServiceLineKind = "extra"
	LineCityTax       ServiceLineKind = "citytax"
)

// ServiceLine is one billable line of a booking. Prices are tax included as
// supplied by the channel; the tax-excluded equivalent is derived from the
// VAT rate of the applicable rate list.
type ServiceLine struct {
	ID        string          `json:"id,omitempty" bson:"_id,omitempty"`
	BookingID string          `json:"booking_id" bson:"booking_id" validate:"required"`
	GroupID   string          `json:"group_id,omitempty" bson:"group_id,omitempty"`
	ProductID string          `json:"product_id" bson:"product_id" validate:"required"`
	Kind      ServiceLineKind `json:"kind" bson:"kind" validate:"required,oneof=accommodation breakfast extra citytax"`
	Label     string          `json:"label" bson:"label"`

	Quantity     int     `json:"quantity" bson:"quantity" validate:"min=1"`
	TotalInclTax float64 `json:"total_incl_tax" bson:"total_incl_tax" validate:"min=0"`
	TotalExclTax float64 `json:"total_excl_tax" bson:"total_excl_tax" validate:"min=0"`
	VATRate      float64 `json:"vat_rate" bson:"vat_rate" validate:"min=0,max=1"`
}

// Consumption occupies a rental unit for a stay window. It is the one record
// with a real exclusivity invariant: overlapping windows on the same unit
// must stay within unit capacity.
type Consumption struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty"`
	BookingID string    `json:"booking_id" bson:"booking_id" validate:"required"`
	GroupID   string    `json:"group_id" bson:"group_id" validate:"required"`
	UnitID    string    `json:"unit_id" bson:"unit_id" validate:"required"`
	Start     time.Time `json:"start" bson:"start" validate:"required"`
	End       time.Time `json:"end" bson:"end" validate:"required,gtfield=Start"`
	Quantity  int       `json:"quantity" bson:"quantity" validate:"min=1"`
}

// Overlaps compares half-open stay windows: a checkout exactly at another
// stay's checkin is not a conflict.
func (c *Consumption) Overlaps(start, end time.Time) bool {
	return c.Start.Before(end) && c.End.After(start)
}
