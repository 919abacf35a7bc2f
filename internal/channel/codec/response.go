package codec

import "encoding/xml"

// Wire shapes of the two inbound envelope types. Optional nodes are pointers
// or slices so an absent node decodes to nil rather than failing.

type resRetrieveRS struct {
	XMLName      xml.Name             `xml:"OTA_ResRetrieveRS"`
	Success      *struct{}            `xml:"Success"`
	Errors       *errorsNode          `xml:"Errors"`
	Reservations []hotelReservationRS `xml:"ReservationsList>HotelReservation"`
}

type genericRS struct {
	XMLName xml.Name
	Success *struct{}   `xml:"Success"`
	Errors  *errorsNode `xml:"Errors"`
}

type errorsNode struct {
	Errors []errorNode `xml:"Error"`
}

type errorNode struct {
	Code      string `xml:"Code,attr"`
	ShortText string `xml:"ShortText,attr"`
	Text      string `xml:",chardata"`
}

type hotelReservationRS struct {
	ResStatus string       `xml:"ResStatus,attr"`
	UniqueID  uniqueID     `xml:"UniqueID"`
	RoomStays []roomStayRS `xml:"RoomStays>RoomStay"`
	Services  []serviceRS  `xml:"Services>Service"`
	Guests    []resGuestRS `xml:"ResGuests>ResGuest"`
	Global    globalInfoRS `xml:"ResGlobalInfo"`
}

type roomStayRS struct {
	CancelIndicator bool           `xml:"CancelIndicator,attr"`
	RoomTypes       []roomTypeRS   `xml:"RoomTypes>RoomType"`
	RoomRates       []roomRateRS   `xml:"RoomRates>RoomRate"`
	GuestCounts     []guestCountRS `xml:"GuestCounts>GuestCount"`
	TimeSpan        *timeSpanRS    `xml:"TimeSpan"`
	Total           *amountRS      `xml:"Total"`
}

type roomTypeRS struct {
	RoomTypeCode string `xml:"RoomTypeCode,attr"`
}

type roomRateRS struct {
	EffectiveDate  string  `xml:"EffectiveDate,attr"`
	AmountAfterTax float64 `xml:"AmountAfterTax,attr"`
}

// Age qualifying codes from the hotel-distribution vocabulary.
const (
	ageCodeAdult  = "10"
	ageCodeChild  = "8"
	ageCodeInfant = "7"
)

type guestCountRS struct {
	AgeQualifyingCode string `xml:"AgeQualifyingCode,attr"`
	Count             int    `xml:"Count,attr"`
}

type timeSpanRS struct {
	Start string `xml:"Start,attr"`
	End   string `xml:"End,attr"`
}

type amountRS struct {
	AmountAfterTax float64 `xml:"AmountAfterTax,attr"`
}

type serviceRS struct {
	ServiceInventoryCode string    `xml:"ServiceInventoryCode,attr"`
	Quantity             int       `xml:"Quantity,attr"`
	Price                *amountRS `xml:"Price"`
}

type resGuestRS struct {
	PrimaryIndicator bool       `xml:"PrimaryIndicator,attr"`
	Customer         customerRS `xml:"Profiles>ProfileInfo>Profile>Customer"`
}

type customerRS struct {
	PersonName personNameRS `xml:"PersonName"`
	Telephone  *telephoneRS `xml:"Telephone"`
	Email      string       `xml:"Email"`
	Address    *addressRS   `xml:"Address"`
}

type personNameRS struct {
	GivenName string `xml:"GivenName"`
	Surname   string `xml:"Surname"`
}

type telephoneRS struct {
	PhoneNumber string `xml:"PhoneNumber,attr"`
}

type addressRS struct {
	AddressLine string        `xml:"AddressLine"`
	CityName    string        `xml:"CityName"`
	PostalCode  string        `xml:"PostalCode"`
	CountryName countryNameRS `xml:"CountryName"`
}

type countryNameRS struct {
	Code string `xml:"Code,attr"`
}

type globalInfoRS struct {
	TimeSpan      *timeSpanRS        `xml:"TimeSpan"`
	Guarantees    []guaranteeRS      `xml:"Guarantee>GuaranteesAccepted>GuaranteeAccepted"`
	Payments      []depositPaymentRS `xml:"DepositPayments>GuaranteePayment"`
	Total         *amountRS          `xml:"Total"`
	PropertyInfo  *basicPropertyRS   `xml:"BasicPropertyInfo"`
	SourceCompany *companyInfoRS     `xml:"Profiles>CompanyInfo"`
}

type guaranteeRS struct {
	PaymentCard *paymentCardRS `xml:"PaymentCard"`
}

type paymentCardRS struct {
	CardType       string `xml:"CardType,attr"`
	CardNumber     string `xml:"CardNumber,attr"`
	ExpireDate     string `xml:"ExpireDate,attr"`
	CardHolderName string `xml:"CardHolderName"`
}

type depositPaymentRS struct {
	PaymentTransactionID string  `xml:"PaymentTransactionID,attr"`
	PaymentType          string  `xml:"PaymentType,attr"`
	Amount               float64 `xml:"Amount,attr"`
	DateTime             string  `xml:"DateTime,attr"`
}

type basicPropertyRS struct {
	HotelCode string `xml:"HotelCode,attr"`
}

type companyInfoRS struct {
	Code string `xml:"Code,attr"`
}
