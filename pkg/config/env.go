package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"
	EnvRequestTimeout  = "REQUEST_TIMEOUT"

	EnvChannelBaseURL     = "CHANNEL_BASE_URL"
	EnvChannelFetchPath   = "CHANNEL_FETCH_PATH"
	EnvChannelAvailPath   = "CHANNEL_AVAIL_PATH"
	EnvChannelAckPath     = "CHANNEL_ACK_PATH"
	EnvChannelHTTPTimeout = "CHANNEL_HTTP_TIMEOUT"

	EnvFetchMaxAttempts = "FETCH_MAX_ATTEMPTS"
	EnvFetchBackoff     = "FETCH_BACKOFF"

	EnvCheckinTime  = "DEFAULT_CHECKIN_TIME"
	EnvCheckoutTime = "DEFAULT_CHECKOUT_TIME"

	EnvAvailabilityBaseDelay     = "AVAILABILITY_BASE_DELAY"
	EnvAvailabilityStagger       = "AVAILABILITY_STAGGER"
	EnvAvailabilityHorizonMargin = "AVAILABILITY_HORIZON_MARGIN"

	EnvPSPDetailDelay = "PSP_DETAIL_DELAY"

	EnvCityTaxProductCode = "CITY_TAX_PRODUCT_CODE"
	EnvCityTaxRate        = "CITY_TAX_RATE"
	EnvBreakfastCode      = "BREAKFAST_PRODUCT_CODE"

	EnvOTAPartnerIDs = "OTA_PARTNER_IDS"

	EnvSealerKey = "CREDENTIAL_SEALER_KEY"
)
