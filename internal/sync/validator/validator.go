// Package validator checks inbound reservations and property configuration
// before reconciliation touches them. Reservation failures are per-entry;
// configuration failures abort the whole property.
package validator

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"staysync/pkg/logger"
	"staysync/pkg/model"

	"github.com/go-playground/validator/v10"
)

var timeOfDayRegex = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type SyncValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewSyncValidator(log *logger.Logger) *SyncValidator {
	return &SyncValidator{
		validate: validator.New(),
		logger:   log,
	}
}

// ValidateReservation rejects a single inbound reservation; the run carries
// on with the rest of the batch.
func (v *SyncValidator) ValidateReservation(res *model.ExternalReservation) error {
	if err := v.validate.Struct(res); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	if !res.End.After(res.Start) {
		return ValidationErrors{
			ValidationError{
				Field:   "End",
				Message: "stay end must be after stay start",
			},
		}
	}

	if !res.Cancelled() {
		for i, stay := range res.RoomStays {
			if stay.Cancelled {
				continue
			}
			if stay.Adults+stay.Children+stay.Babies == 0 {
				return ValidationErrors{
					ValidationError{
						Field:   "RoomStays",
						Message: fmt.Sprintf("room stay %d carries no guests", i),
					},
				}
			}
		}
	}

	return nil
}

// ValidateProperty checks the mapping configuration. Any failure here is
// fatal for the property: nothing can be reconciled against a broken mapping.
func (v *SyncValidator) ValidateProperty(prop *model.ChannelProperty) error {
	if err := v.validate.Struct(prop); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	if prop.CheckinTime != "" && !timeOfDayRegex.MatchString(prop.CheckinTime) {
		return ValidationErrors{
			ValidationError{
				Field:   "CheckinTime",
				Message: "checkin_time must be HH:MM",
			},
		}
	}
	if prop.CheckoutTime != "" && !timeOfDayRegex.MatchString(prop.CheckoutTime) {
		return ValidationErrors{
			ValidationError{
				Field:   "CheckoutTime",
				Message: "checkout_time must be HH:MM",
			},
		}
	}

	if len(prop.RoomTypeMappings) == 0 {
		return ValidationErrors{
			ValidationError{
				Field:   "RoomTypeMappings",
				Message: "property has no room type mappings",
			},
		}
	}

	// A rental unit assigned to two active mappings would double-book.
	claimed := make(map[string]string)
	for _, mapping := range prop.RoomTypeMappings {
		if !mapping.Active {
			continue
		}
		for _, unitID := range mapping.UnitIDs {
			if other, ok := claimed[unitID]; ok {
				return ValidationErrors{
					ValidationError{
						Field:   "RoomTypeMappings",
						Message: fmt.Sprintf("unit %s appears in mappings %s and %s", unitID, other, mapping.ExternalCode),
					},
				}
			}
			claimed[unitID] = mapping.ExternalCode
		}
	}

	return nil
}

func (v *SyncValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "email":
			message = fmt.Sprintf("%s must be a valid email address", err.Field())
		case "gtfield":
			message = fmt.Sprintf("%s must be after %s", err.Field(), err.Param())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
