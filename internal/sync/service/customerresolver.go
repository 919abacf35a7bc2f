package service

import (
	"context"
	"strings"

	"staysync/internal/sync/repository"
	syncerrors "staysync/pkg/errors"
	"staysync/pkg/locale"
	"staysync/pkg/logger"
	"staysync/pkg/model"
	"staysync/pkg/sanitizer"
)

// CustomerResolver maps channel guest profiles onto local customers.
// Matching is deliberately fuzzy: channels re-send the same guest with
// inconsistent casing, so name equality is case-insensitive and the email
// is a tie breaker rather than a key.
type CustomerResolver struct {
	customers repository.CustomerRepository
	logger    *logger.Logger
}

func NewCustomerResolver(customers repository.CustomerRepository, log *logger.Logger) *CustomerResolver {
	return &CustomerResolver{customers: customers, logger: log}
}

func (r *CustomerResolver) identityFromProfile(profile model.GuestProfile) *model.Identity {
	country := locale.NormalizeCountryCode(profile.Country)
	identity := &model.Identity{
		FirstName: sanitizer.NormalizeName(profile.FirstName),
		LastName:  sanitizer.NormalizeName(profile.LastName),
		Email:     sanitizer.NormalizeEmail(profile.Email),
		Phone:     sanitizer.NormalizePhone(profile.Phone, country),
		Address:   sanitizer.TrimAndNormalize(profile.Address),
		City:      sanitizer.TrimAndNormalize(profile.City),
		Zip:       sanitizer.TrimAndNormalize(profile.Zip),
		Country:   country,
	}
	if identity.Phone != "" {
		identity.Timezone = locale.InferTimezoneFromPhone(identity.Phone)
	}
	return identity
}

// Resolve returns the existing customer matching the primary guest, or
// creates a fresh identity and customer.
func (r *CustomerResolver) Resolve(ctx context.Context, profile model.GuestProfile) (*model.Customer, *model.Identity, error) {
	identity := r.identityFromProfile(profile)

	matches, err := r.customers.FindIdentitiesByName(ctx, identity.FirstName, identity.LastName)
	if err != nil {
		return nil, nil, err
	}

	for _, match := range matches {
		if !emailCompatible(match.Email, identity.Email) {
			continue
		}

		customer, err := r.customers.FindCustomerByIdentity(ctx, match.ID)
		if err != nil {
			if syncerrors.IsNotFound(err) {
				continue
			}
			return nil, nil, err
		}

		r.logger.Debug("matched existing customer",
			"identity", match.ID,
			"last_name", identity.LastName,
		)
		return customer, match, nil
	}

	if err := r.customers.CreateIdentity(ctx, identity); err != nil {
		return nil, nil, err
	}
	customer := &model.Customer{IdentityID: identity.ID}
	if err := r.customers.CreateCustomer(ctx, customer); err != nil {
		return nil, nil, err
	}
	return customer, identity, nil
}

// CreateSecondary stores an identity for an extra guest profile without
// promoting it to a customer.
func (r *CustomerResolver) CreateSecondary(ctx context.Context, profile model.GuestProfile) (*model.Identity, error) {
	identity := r.identityFromProfile(profile)
	if err := r.customers.CreateIdentity(ctx, identity); err != nil {
		return nil, err
	}
	return identity, nil
}

func (r *CustomerResolver) CreateContact(ctx context.Context, contact *model.Contact) error {
	return r.customers.CreateContact(ctx, contact)
}

func (r *CustomerResolver) DeleteContactsByBooking(ctx context.Context, bookingID string) error {
	return r.customers.DeleteContactsByBooking(ctx, bookingID)
}

// SameName compares a profile and an identity on normalized names; used to
// skip channel profiles that duplicate the primary customer.
func (r *CustomerResolver) SameName(profile model.GuestProfile, identity *model.Identity) bool {
	return strings.EqualFold(sanitizer.NormalizeName(profile.FirstName), identity.FirstName) &&
		strings.EqualFold(sanitizer.NormalizeName(profile.LastName), identity.LastName)
}

func emailCompatible(a, b string) bool {
	if a == "" || b == "" {
		return true
	}
	return strings.EqualFold(a, b)
}
