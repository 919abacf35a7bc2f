// Package codec builds outbound XML request envelopes and parses inbound XML
// response envelopes for the three channel operations: fetch reservations,
// push availability and acknowledge reservations. The loosely-typed XML tree
// never leaves this package; callers see ExternalReservation values and
// typed errors only.
package codec

import (
	"encoding/xml"
	"time"

	"staysync/pkg/model"
)

const (
	otaVersion = "1.003"
	otaTarget  = "Production"

	// RequestorID types from the hotel-distribution vocabulary.
	requestorTypeAccount = "1"
	requestorTypeAPI     = "22"

	reservationIDType = "14"

	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02T15:04:05"
)

type pos struct {
	Sources []source `xml:"Source"`
}

type source struct {
	RequestorID requestorID `xml:"RequestorID"`
}

type requestorID struct {
	Type            string `xml:"Type,attr"`
	ID              string `xml:"ID,attr"`
	MessagePassword string `xml:"MessagePassword,attr,omitempty"`
}

// posFor builds the two credential/source blocks every request carries:
// account credentials and the API identifier.
func posFor(prop *model.ChannelProperty, password string) pos {
	return pos{
		Sources: []source{
			{RequestorID: requestorID{
				Type:            requestorTypeAccount,
				ID:              prop.Username,
				MessagePassword: password,
			}},
			{RequestorID: requestorID{
				Type: requestorTypeAPI,
				ID:   prop.APIKey,
			}},
		},
	}
}

type resRetrieveRQ struct {
	XMLName      xml.Name     `xml:"OTA_ResRetrieveRQ"`
	Version      string       `xml:"Version,attr"`
	Target       string       `xml:"Target,attr"`
	POS          pos          `xml:"POS"`
	ReadRequests readRequests `xml:"ReadRequests"`
}

type readRequests struct {
	HotelReadRequest hotelReadRequest `xml:"HotelReadRequest"`
}

type hotelReadRequest struct {
	HotelCode string `xml:"HotelCode,attr"`
}

// BuildFetchRequest builds the fetch-reservations envelope for one property.
func BuildFetchRequest(prop *model.ChannelProperty, password string) ([]byte, error) {
	req := resRetrieveRQ{
		Version: otaVersion,
		Target:  otaTarget,
		POS:     posFor(prop, password),
		ReadRequests: readRequests{
			HotelReadRequest: hotelReadRequest{HotelCode: prop.ExternalID},
		},
	}
	return marshalEnvelope(req)
}

type hotelAvailNotifRQ struct {
	XMLName             xml.Name            `xml:"OTA_HotelAvailNotifRQ"`
	Version             string              `xml:"Version,attr"`
	Target              string              `xml:"Target,attr"`
	POS                 pos                 `xml:"POS"`
	AvailStatusMessages availStatusMessages `xml:"AvailStatusMessages"`
}

type availStatusMessages struct {
	HotelCode string               `xml:"HotelCode,attr"`
	Messages  []availStatusMessage `xml:"AvailStatusMessage"`
}

type availStatusMessage struct {
	BookingLimit int                      `xml:"BookingLimit,attr"`
	Control      statusApplicationControl `xml:"StatusApplicationControl"`
}

type statusApplicationControl struct {
	Start       string `xml:"Start,attr"`
	End         string `xml:"End,attr"`
	InvTypeCode string `xml:"InvTypeCode,attr"`
}

// BuildAvailabilityRequest builds one availability update for a single day
// and room type. The wire contract wants End exclusive: day+1.
func BuildAvailabilityRequest(prop *model.ChannelProperty, password, roomTypeCode string, day time.Time, bookingLimit int) ([]byte, error) {
	req := hotelAvailNotifRQ{
		Version: otaVersion,
		Target:  otaTarget,
		POS:     posFor(prop, password),
		AvailStatusMessages: availStatusMessages{
			HotelCode: prop.ExternalID,
			Messages: []availStatusMessage{
				{
					BookingLimit: bookingLimit,
					Control: statusApplicationControl{
						Start:       day.Format(dateLayout),
						End:         day.AddDate(0, 0, 1).Format(dateLayout),
						InvTypeCode: roomTypeCode,
					},
				},
			},
		},
	}
	return marshalEnvelope(req)
}

type notifReportRQ struct {
	XMLName      xml.Name     `xml:"OTA_NotifReportRQ"`
	Version      string       `xml:"Version,attr"`
	Target       string       `xml:"Target,attr"`
	POS          pos          `xml:"POS"`
	NotifDetails notifDetails `xml:"NotifDetails"`
}

type notifDetails struct {
	HotelNotifReport hotelNotifReport `xml:"HotelNotifReport"`
}

type hotelNotifReport struct {
	HotelCode    string         `xml:"HotelCode,attr"`
	Reservations []ackUniqueIDs `xml:"HotelReservations>HotelReservation"`
}

type ackUniqueIDs struct {
	UniqueID uniqueID `xml:"UniqueID"`
}

type uniqueID struct {
	Type string `xml:"Type,attr"`
	ID   string `xml:"ID,attr"`
}

// BuildAckRequest marks the given reservation ids as retrieved.
func BuildAckRequest(prop *model.ChannelProperty, password string, reservationIDs []string) ([]byte, error) {
	reservations := make([]ackUniqueIDs, 0, len(reservationIDs))
	for _, id := range reservationIDs {
		reservations = append(reservations, ackUniqueIDs{
			UniqueID: uniqueID{Type: reservationIDType, ID: id},
		})
	}

	req := notifReportRQ{
		Version: otaVersion,
		Target:  otaTarget,
		POS:     posFor(prop, password),
		NotifDetails: notifDetails{
			HotelNotifReport: hotelNotifReport{
				HotelCode:    prop.ExternalID,
				Reservations: reservations,
			},
		},
	}
	return marshalEnvelope(req)
}

func marshalEnvelope(v any) ([]byte, error) {
	body, err := xml.Marshal(v)
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), body...), nil
}
