package model

import (
	"time"
)

// RateList prices a product for stays falling inside its validity window.
// The sync engine reads it for the VAT rate only; prices come from the
// channel. When several lists match a stay, the one with the shortest
// applicable duration wins.
type RateList struct {
	ID         string    `json:"id,omitempty" bson:"_id,omitempty"`
	PropertyID string    `json:"property_id" bson:"property_id" validate:"required"`
	ProductID  string    `json:"product_id" bson:"product_id" validate:"required"`
	Start      time.Time `json:"start" bson:"start" validate:"required"`
	End        time.Time `json:"end" bson:"end" validate:"required,gtfield=Start"`

	// MinDuration is the shortest stay, in nights, the list applies to.
	MinDuration int     `json:"min_duration" bson:"min_duration" validate:"min=0"`
	VATRate     float64 `json:"vat_rate" bson:"vat_rate" validate:"min=0,max=1"`
	Price       float64 `json:"price" bson:"price" validate:"min=0"`
}

// Covers reports whether the list's validity window contains the whole stay
// and the stay is long enough.
func (r *RateList) Covers(start, end time.Time, nights int) bool {
	return !start.Before(r.Start) && !end.After(r.End) && nights >= r.MinDuration
}
