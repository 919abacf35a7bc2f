package codec

import (
	"strings"
	"testing"
	"time"

	syncerrors "staysync/pkg/errors"
	"staysync/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProperty() *model.ChannelProperty {
	return &model.ChannelProperty{
		ID:         "prop-local-1",
		Name:       "Villa Azur",
		ExternalID: "HOTEL42",
		Username:   "villa-azur",
		APIKey:     "api-key-1",
	}
}

const reservationBatchXML = `<?xml version="1.0" encoding="UTF-8"?>
<OTA_ResRetrieveRS Version="1.003">
  <Success/>
  <ReservationsList>
    <HotelReservation ResStatus="Reserved">
      <UniqueID Type="14" ID="RES-1001"/>
      <RoomStays>
        <RoomStay>
          <RoomTypes><RoomType RoomTypeCode="DBL"/></RoomTypes>
          <RoomRates>
            <RoomRate EffectiveDate="2026-09-01" AmountAfterTax="120.00"/>
            <RoomRate EffectiveDate="2026-09-02" AmountAfterTax="120.00"/>
          </RoomRates>
          <GuestCounts>
            <GuestCount AgeQualifyingCode="10" Count="2"/>
            <GuestCount AgeQualifyingCode="8" Count="1"/>
          </GuestCounts>
          <TimeSpan Start="2026-09-01" End="2026-09-03"/>
          <Total AmountAfterTax="240.00"/>
        </RoomStay>
      </RoomStays>
      <Services>
        <Service ServiceInventoryCode="PARKING" Quantity="2">
          <Price AmountAfterTax="30.00"/>
        </Service>
      </Services>
      <ResGuests>
        <ResGuest PrimaryIndicator="true">
          <Profiles><ProfileInfo><Profile><Customer>
            <PersonName><GivenName>Jean</GivenName><Surname>Dupont</Surname></PersonName>
            <Telephone PhoneNumber="+33612345678"/>
            <Email>jean.dupont@example.com</Email>
            <Address>
              <AddressLine>1 rue de la Paix</AddressLine>
              <CityName>Paris</CityName>
              <PostalCode>75002</PostalCode>
              <CountryName Code="FR"/>
            </Address>
          </Customer></Profile></ProfileInfo></Profiles>
        </ResGuest>
        <ResGuest>
          <Profiles><ProfileInfo><Profile><Customer>
            <PersonName><GivenName>Marie</GivenName><Surname>Curie</Surname></PersonName>
          </Customer></Profile></ProfileInfo></Profiles>
        </ResGuest>
      </ResGuests>
      <ResGlobalInfo>
        <TimeSpan Start="2026-09-01" End="2026-09-03"/>
        <Guarantee>
          <GuaranteesAccepted>
            <GuaranteeAccepted>
              <PaymentCard CardType="VI" CardNumber="411111XXXXXX1111" ExpireDate="0828">
                <CardHolderName>Jean Dupont</CardHolderName>
              </PaymentCard>
            </GuaranteeAccepted>
          </GuaranteesAccepted>
        </Guarantee>
        <DepositPayments>
          <GuaranteePayment PaymentTransactionID="TX-1" PaymentType="card" Amount="270.00" DateTime="2026-08-20T10:15:00"/>
        </DepositPayments>
        <Total AmountAfterTax="270.00"/>
        <BasicPropertyInfo HotelCode="HOTEL42"/>
        <Profiles><CompanyInfo Code="PARTNER-9"/></Profiles>
      </ResGlobalInfo>
    </HotelReservation>
  </ReservationsList>
</OTA_ResRetrieveRS>`

func TestParseReservationBatch(t *testing.T) {
	reservations, err := ParseReservationBatch([]byte(reservationBatchXML))
	require.NoError(t, err)
	require.Len(t, reservations, 1)

	res := reservations[0]
	assert.Equal(t, "RES-1001", res.ID)
	assert.Equal(t, model.ResStatusReserved, res.Status)
	assert.Equal(t, "HOTEL42", res.PropertyID)
	assert.Equal(t, "PARTNER-9", res.PartnerID)
	assert.Equal(t, 270.00, res.Total)

	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), res.Start)
	assert.Equal(t, TimeKindDate, res.StartType)
	assert.Equal(t, TimeKindDate, res.EndType)

	require.Len(t, res.RoomStays, 1)
	stay := res.RoomStays[0]
	assert.Equal(t, "DBL", stay.RoomTypeCode)
	assert.Equal(t, 2, stay.Adults)
	assert.Equal(t, 1, stay.Children)
	assert.Equal(t, 0, stay.Babies)
	assert.Equal(t, 240.00, stay.Total)
	require.Len(t, stay.Rates, 2)
	assert.Equal(t, 120.00, stay.Rates[0].Amount)

	assert.Equal(t, "Jean", res.Customer.FirstName)
	assert.Equal(t, "Dupont", res.Customer.LastName)
	assert.Equal(t, "FR", res.Customer.Country)
	require.Len(t, res.Profiles, 1)
	assert.Equal(t, "Curie", res.Profiles[0].LastName)

	require.Len(t, res.Services, 1)
	assert.Equal(t, "PARKING", res.Services[0].Code)
	assert.Equal(t, 2, res.Services[0].Quantity)

	require.Len(t, res.Payments, 1)
	assert.Equal(t, "TX-1", res.Payments[0].Ref)
	assert.Equal(t, 270.00, res.Payments[0].Amount)

	require.Len(t, res.Guarantees, 1)
	assert.Equal(t, "VI", res.Guarantees[0].CardType)
	assert.Equal(t, "Jean Dupont", res.Guarantees[0].HolderName)
}

func TestParseReservationBatch_OptionalNodesDefaultEmpty(t *testing.T) {
	minimal := `<?xml version="1.0"?>
<OTA_ResRetrieveRS Version="1.003">
  <Success/>
  <ReservationsList>
    <HotelReservation ResStatus="Cancelled">
      <UniqueID Type="14" ID="RES-2"/>
      <ResGuests>
        <ResGuest PrimaryIndicator="true">
          <Profiles><ProfileInfo><Profile><Customer>
            <PersonName><GivenName>Ana</GivenName><Surname>Gomez</Surname></PersonName>
          </Customer></Profile></ProfileInfo></Profiles>
        </ResGuest>
      </ResGuests>
      <ResGlobalInfo>
        <TimeSpan Start="2026-10-01" End="2026-10-04"/>
        <BasicPropertyInfo HotelCode="HOTEL42"/>
      </ResGlobalInfo>
    </HotelReservation>
  </ReservationsList>
</OTA_ResRetrieveRS>`

	reservations, err := ParseReservationBatch([]byte(minimal))
	require.NoError(t, err)
	require.Len(t, reservations, 1)

	res := reservations[0]
	assert.Empty(t, res.RoomStays)
	assert.Empty(t, res.Services)
	assert.Empty(t, res.Payments)
	assert.Empty(t, res.Guarantees)
	assert.True(t, res.Cancelled())
}

func TestParseReservationBatch_EmptyBatchIsSuccess(t *testing.T) {
	empty := `<?xml version="1.0"?>
<OTA_ResRetrieveRS Version="1.003"><Success/></OTA_ResRetrieveRS>`

	reservations, err := ParseReservationBatch([]byte(empty))
	require.NoError(t, err)
	assert.Empty(t, reservations)
}

func TestParseReservationBatch_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unparsable xml", "<OTA_ResRetrieveRS><broken"},
		{"wrong root element", `<?xml version="1.0"?><SomethingElse/>`},
		{
			"errors node present",
			`<?xml version="1.0"?><OTA_ResRetrieveRS><Errors><Error Code="401" ShortText="Unauthorized">Invalid credentials</Error></Errors></OTA_ResRetrieveRS>`,
		},
		{
			"neither success nor errors",
			`<?xml version="1.0"?><OTA_ResRetrieveRS Version="1.003"></OTA_ResRetrieveRS>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseReservationBatch([]byte(tt.body))
			require.Error(t, err)
			syncErr := syncerrors.AsSyncError(err)
			assert.Equal(t, syncerrors.CodeProtocol, syncErr.Code)
		})
	}
}

func TestParseReservationBatch_SurfacesChannelDiagnostics(t *testing.T) {
	body := `<?xml version="1.0"?><OTA_ResRetrieveRS><Errors><Error Code="401" ShortText="Unauthorized">Invalid credentials</Error></Errors></OTA_ResRetrieveRS>`

	_, err := ParseReservationBatch([]byte(body))
	require.Error(t, err)

	syncErr := syncerrors.AsSyncError(err)
	assert.Equal(t, []string{"401"}, syncErr.Details["channel_codes"])
	assert.Equal(t, []string{"Invalid credentials"}, syncErr.Details["channel_texts"])
}

func TestParseGenericResponse(t *testing.T) {
	require.NoError(t, ParseGenericResponse([]byte(`<?xml version="1.0"?><OTA_HotelAvailNotifRS><Success/></OTA_HotelAvailNotifRS>`)))

	err := ParseGenericResponse([]byte(`<?xml version="1.0"?><OTA_HotelAvailNotifRS><Errors><Error Code="450" ShortText="Rate limited"/></Errors></OTA_HotelAvailNotifRS>`))
	require.Error(t, err)
	assert.Equal(t, syncerrors.CodeProtocol, syncerrors.AsSyncError(err).Code)

	err = ParseGenericResponse([]byte("not xml at all"))
	require.Error(t, err)
}

func TestBuildFetchRequest(t *testing.T) {
	body, err := BuildFetchRequest(testProperty(), "s3cret")
	require.NoError(t, err)

	s := string(body)
	assert.True(t, strings.HasPrefix(s, xmlHeaderPrefix), "request must carry an XML header")
	assert.Contains(t, s, "<OTA_ResRetrieveRQ")
	assert.Contains(t, s, `ID="villa-azur"`)
	assert.Contains(t, s, `MessagePassword="s3cret"`)
	assert.Contains(t, s, `Type="22"`)
	assert.Contains(t, s, `ID="api-key-1"`)
	assert.Contains(t, s, `HotelCode="HOTEL42"`)
}

const xmlHeaderPrefix = "<?xml"

func TestBuildAvailabilityRequest(t *testing.T) {
	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	body, err := BuildAvailabilityRequest(testProperty(), "s3cret", "DBL", day, 3)
	require.NoError(t, err)

	s := string(body)
	assert.Contains(t, s, "<OTA_HotelAvailNotifRQ")
	assert.Contains(t, s, `BookingLimit="3"`)
	assert.Contains(t, s, `Start="2026-09-01"`)
	assert.Contains(t, s, `End="2026-09-02"`, "End must be day+1")
	assert.Contains(t, s, `InvTypeCode="DBL"`)
}

func TestBuildAckRequest(t *testing.T) {
	body, err := BuildAckRequest(testProperty(), "s3cret", []string{"RES-1", "RES-2"})
	require.NoError(t, err)

	s := string(body)
	assert.Contains(t, s, "<OTA_NotifReportRQ")
	assert.Contains(t, s, `ID="RES-1"`)
	assert.Contains(t, s, `ID="RES-2"`)
	assert.Contains(t, s, `Type="14"`)
}
