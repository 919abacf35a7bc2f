package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "staysync"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort = "8080"

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultRequestTimeout  = 2 * time.Minute

	DefaultChannelBaseURL     = "https://secure-supply-xml.example-ota.com"
	DefaultChannelFetchPath   = "/hotels/xml/reservations"
	DefaultChannelAvailPath   = "/hotels/xml/availability"
	DefaultChannelAckPath     = "/hotels/xml/reservationssummary"
	DefaultChannelHTTPTimeout = 30 * time.Second

	DefaultFetchMaxAttempts = 3
	DefaultFetchBackoff     = 5 * time.Second

	DefaultCheckinTime  = "15:00"
	DefaultCheckoutTime = "10:00"

	DefaultAvailabilityBaseDelay = 1 * time.Minute
	DefaultAvailabilityStagger   = 60 * time.Second
	// The channel accepts availability updates up to two years ahead; the
	// daily horizon job pushes only the day at horizon minus this margin.
	DefaultAvailabilityHorizonYears  = 2
	DefaultAvailabilityHorizonMargin = 2 // days

	DefaultPSPDetailDelay = 10 * time.Minute

	DefaultCityTaxProductCode = "CITYTAX"
	DefaultCityTaxRate        = 2.50 // per person per night
	DefaultBreakfastCode      = "BREAKFAST"
)
