package codec

import (
	"encoding/xml"
	"strings"
	"time"

	syncerrors "staysync/pkg/errors"
	"staysync/pkg/model"
)

// TimeKind values reported for decoded stay bounds: the reconciliation
// engine applies default check-in/check-out times only to bare dates.
const (
	TimeKindDate     = "date"
	TimeKindDateTime = "datetime"
)

// ParseReservationBatch decodes a reservation-batch response. Unparsable
// XML, a wrong root element, or a present Errors node is a protocol error
// carrying the channel's diagnostics.
func ParseReservationBatch(body []byte) ([]model.ExternalReservation, error) {
	var rs resRetrieveRS
	if err := xml.Unmarshal(body, &rs); err != nil {
		return nil, syncerrors.Protocol("malformed reservation batch envelope", map[string]any{
			"parse_error": err.Error(),
		})
	}

	if rs.Errors != nil {
		return nil, channelErrors("channel rejected reservation fetch", rs.Errors)
	}
	if rs.Success == nil {
		return nil, syncerrors.Protocol("reservation batch envelope carries neither Success nor Errors", nil)
	}

	reservations := make([]model.ExternalReservation, 0, len(rs.Reservations))
	for i := range rs.Reservations {
		res, err := normalizeReservation(&rs.Reservations[i])
		if err != nil {
			return nil, err
		}
		reservations = append(reservations, *res)
	}
	return reservations, nil
}

// ParseGenericResponse checks an ack/availability response. Any well-formed
// envelope without an Errors node is success; the ack contract only needs
// the 200 status the transport already verified.
func ParseGenericResponse(body []byte) error {
	var rs genericRS
	if err := xml.Unmarshal(body, &rs); err != nil {
		return syncerrors.Protocol("malformed channel response envelope", map[string]any{
			"parse_error": err.Error(),
		})
	}
	if rs.Errors != nil {
		return channelErrors("channel rejected request", rs.Errors)
	}
	return nil
}

func channelErrors(message string, node *errorsNode) error {
	codes := make([]string, 0, len(node.Errors))
	texts := make([]string, 0, len(node.Errors))
	for _, e := range node.Errors {
		codes = append(codes, e.Code)
		text := strings.TrimSpace(e.Text)
		if text == "" {
			text = e.ShortText
		}
		texts = append(texts, text)
	}
	return syncerrors.Protocol(message, map[string]any{
		"channel_codes": codes,
		"channel_texts": texts,
	})
}

func normalizeReservation(wire *hotelReservationRS) (*model.ExternalReservation, error) {
	res := &model.ExternalReservation{
		ID:     wire.UniqueID.ID,
		Status: wire.ResStatus,
	}
	if res.ID == "" {
		return nil, syncerrors.Protocol("reservation without UniqueID", nil)
	}

	if wire.Global.PropertyInfo != nil {
		res.PropertyID = wire.Global.PropertyInfo.HotelCode
	}
	if wire.Global.SourceCompany != nil {
		res.PartnerID = wire.Global.SourceCompany.Code
	}
	if wire.Global.Total != nil {
		res.Total = wire.Global.Total.AmountAfterTax
	}

	if err := normalizeStayWindow(wire, res); err != nil {
		return nil, err
	}
	if err := normalizeRoomStays(wire, res); err != nil {
		return nil, err
	}
	normalizeGuests(wire, res)
	normalizeServices(wire, res)
	normalizePayments(wire, res)
	normalizeGuarantees(wire, res)

	return res, nil
}

func normalizeStayWindow(wire *hotelReservationRS, res *model.ExternalReservation) error {
	span := wire.Global.TimeSpan
	if span == nil {
		// Fall back to the widest room-stay span.
		for _, stay := range wire.RoomStays {
			if stay.TimeSpan == nil {
				continue
			}
			if span == nil {
				s := *stay.TimeSpan
				span = &s
				continue
			}
			if stay.TimeSpan.Start < span.Start {
				span.Start = stay.TimeSpan.Start
			}
			if stay.TimeSpan.End > span.End {
				span.End = stay.TimeSpan.End
			}
		}
	}
	if span == nil {
		return syncerrors.Protocol("reservation without stay window", map[string]any{
			"reservation_id": res.ID,
		})
	}

	start, startKind, err := parseChannelTime(span.Start)
	if err != nil {
		return syncerrors.Protocol("invalid stay start", map[string]any{
			"reservation_id": res.ID, "value": span.Start,
		})
	}
	end, endKind, err := parseChannelTime(span.End)
	if err != nil {
		return syncerrors.Protocol("invalid stay end", map[string]any{
			"reservation_id": res.ID, "value": span.End,
		})
	}

	res.Start, res.StartType = start, startKind
	res.End, res.EndType = end, endKind
	return nil
}

func normalizeRoomStays(wire *hotelReservationRS, res *model.ExternalReservation) error {
	for _, stay := range wire.RoomStays {
		if len(stay.RoomTypes) == 0 {
			return syncerrors.Protocol("room stay without room type", map[string]any{
				"reservation_id": res.ID,
			})
		}

		ext := model.ExternalRoomStay{
			RoomTypeCode: stay.RoomTypes[0].RoomTypeCode,
			Cancelled:    stay.CancelIndicator,
		}

		for _, gc := range stay.GuestCounts {
			switch gc.AgeQualifyingCode {
			case ageCodeAdult:
				ext.Adults += gc.Count
			case ageCodeChild:
				ext.Children += gc.Count
			case ageCodeInfant:
				ext.Babies += gc.Count
			}
		}

		for _, rate := range stay.RoomRates {
			date, _, err := parseChannelTime(rate.EffectiveDate)
			if err != nil {
				return syncerrors.Protocol("invalid room rate date", map[string]any{
					"reservation_id": res.ID, "value": rate.EffectiveDate,
				})
			}
			ext.Rates = append(ext.Rates, model.ExternalDayRate{
				Date:   date,
				Amount: rate.AmountAfterTax,
			})
		}

		if stay.Total != nil {
			ext.Total = stay.Total.AmountAfterTax
		} else {
			for _, r := range ext.Rates {
				ext.Total += r.Amount
			}
		}

		res.RoomStays = append(res.RoomStays, ext)
	}
	return nil
}

func normalizeGuests(wire *hotelReservationRS, res *model.ExternalReservation) {
	// The primary-flagged guest is the customer; without a flag, the first
	// listed guest is. Everyone else becomes an additional contact profile.
	primaryIdx := 0
	for i, guest := range wire.Guests {
		if guest.PrimaryIndicator {
			primaryIdx = i
			break
		}
	}

	for i, guest := range wire.Guests {
		profile := model.GuestProfile{
			FirstName: strings.TrimSpace(guest.Customer.PersonName.GivenName),
			LastName:  strings.TrimSpace(guest.Customer.PersonName.Surname),
			Email:     strings.TrimSpace(guest.Customer.Email),
		}
		if guest.Customer.Telephone != nil {
			profile.Phone = guest.Customer.Telephone.PhoneNumber
		}
		if addr := guest.Customer.Address; addr != nil {
			profile.Address = strings.TrimSpace(addr.AddressLine)
			profile.City = strings.TrimSpace(addr.CityName)
			profile.Zip = strings.TrimSpace(addr.PostalCode)
			profile.Country = addr.CountryName.Code
		}

		if i == primaryIdx {
			res.Customer = profile
		} else {
			res.Profiles = append(res.Profiles, profile)
		}
	}
}

func normalizeServices(wire *hotelReservationRS, res *model.ExternalReservation) {
	for _, svc := range wire.Services {
		ext := model.ExternalService{
			Code:     svc.ServiceInventoryCode,
			Quantity: svc.Quantity,
		}
		if ext.Quantity < 1 {
			ext.Quantity = 1
		}
		if svc.Price != nil {
			ext.Amount = svc.Price.AmountAfterTax
		}
		res.Services = append(res.Services, ext)
	}
}

func normalizePayments(wire *hotelReservationRS, res *model.ExternalReservation) {
	for _, p := range wire.Global.Payments {
		ext := model.ExternalPayment{
			Ref:    p.PaymentTransactionID,
			Amount: p.Amount,
			Method: p.PaymentType,
		}
		if p.DateTime != "" {
			if at, _, err := parseChannelTime(p.DateTime); err == nil {
				ext.At = at
			}
		}
		res.Payments = append(res.Payments, ext)
	}
}

func normalizeGuarantees(wire *hotelReservationRS, res *model.ExternalReservation) {
	for _, g := range wire.Global.Guarantees {
		if g.PaymentCard == nil {
			continue
		}
		res.Guarantees = append(res.Guarantees, model.ExternalGuarantee{
			CardType:   g.PaymentCard.CardType,
			CardNumber: g.PaymentCard.CardNumber,
			ExpiryDate: g.PaymentCard.ExpireDate,
			HolderName: strings.TrimSpace(g.PaymentCard.CardHolderName),
		})
	}
}

// parseChannelTime accepts both bare dates and date-times and reports which
// one it saw, so callers can apply default check-in/check-out times.
func parseChannelTime(value string) (time.Time, string, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(dateTimeLayout, value); err == nil {
		return t, TimeKindDateTime, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, "", err
	}
	return t, TimeKindDate, nil
}
