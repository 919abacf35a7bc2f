package model

// ChannelProperty maps one local establishment to one external property on
// the distribution channel. Configured by an administrator; the sync engine
// only ever reads it.
type ChannelProperty struct {
	ID         string `json:"id,omitempty" bson:"_id,omitempty"`
	Name       string `json:"name" bson:"name" validate:"required,min=2,max=100"`
	ExternalID string `json:"external_id" bson:"external_id" validate:"required"`

	// Account credentials plus the API source identifier; the password is
	// sealed at rest (pkg/sealer).
	Username       string `json:"username" bson:"username" validate:"required"`
	SealedPassword string `json:"-" bson:"sealed_password" validate:"required"`
	APIKey         string `json:"api_key" bson:"api_key" validate:"required"`

	Active     bool   `json:"active" bson:"active"`
	BackOffice string `json:"back_office" bson:"back_office" validate:"required"`

	// Local-time defaults applied when the channel supplies bare dates.
	CheckinTime  string `json:"checkin_time" bson:"checkin_time" validate:"omitempty,len=5"`
	CheckoutTime string `json:"checkout_time" bson:"checkout_time" validate:"omitempty,len=5"`
	UTCOffset    int    `json:"utc_offset" bson:"utc_offset" validate:"min=-12,max=14"`

	RoomTypeMappings     []RoomTypeMapping     `json:"room_type_mappings" bson:"room_type_mappings" validate:"dive"`
	ExtraServiceMappings []ExtraServiceMapping `json:"extra_service_mappings" bson:"extra_service_mappings" validate:"dive"`
}

// RoomTypeMapping binds an external room-type code to a local product and the
// physical units eligible for assignment. A unit belongs to at most one
// active mapping.
type RoomTypeMapping struct {
	ExternalCode string   `json:"external_code" bson:"external_code" validate:"required"`
	ProductID    string   `json:"product_id" bson:"product_id" validate:"required"`
	UnitIDs      []string `json:"unit_ids" bson:"unit_ids"`
	Active       bool     `json:"active" bson:"active"`
}

// ExtraServiceMapping binds an external service inventory code to a local
// billable product.
type ExtraServiceMapping struct {
	ExternalCode string `json:"external_code" bson:"external_code" validate:"required"`
	ProductID    string `json:"product_id" bson:"product_id" validate:"required"`
}

// Mapping lookups used throughout reconciliation.

func (p *ChannelProperty) RoomTypeMapping(externalCode string) *RoomTypeMapping {
	for i := range p.RoomTypeMappings {
		if p.RoomTypeMappings[i].ExternalCode == externalCode {
			return &p.RoomTypeMappings[i]
		}
	}
	return nil
}

func (p *ChannelProperty) ExtraServiceMapping(externalCode string) *ExtraServiceMapping {
	for i := range p.ExtraServiceMappings {
		if p.ExtraServiceMappings[i].ExternalCode == externalCode {
			return &p.ExtraServiceMappings[i]
		}
	}
	return nil
}

// RentalUnit is a physical, assignable accommodation resource.
type RentalUnit struct {
	ID         string `json:"id,omitempty" bson:"_id,omitempty"`
	PropertyID string `json:"property_id" bson:"property_id" validate:"required"`
	Name       string `json:"name" bson:"name" validate:"required"`
	Capacity   int    `json:"capacity" bson:"capacity" validate:"required,min=1,max=50"`
}
