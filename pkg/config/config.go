package config

import (
	"fmt"
	"net/url"
	"os"
	"regexp"
	"staysync/pkg/client"
	"staysync/pkg/logger"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	Port string

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	RequestTimeout  time.Duration

	ChannelBaseURL     string
	ChannelFetchPath   string
	ChannelAvailPath   string
	ChannelAckPath     string
	ChannelHTTPTimeout time.Duration

	FetchMaxAttempts int
	FetchBackoff     time.Duration

	DefaultCheckinTime  string
	DefaultCheckoutTime string

	AvailabilityBaseDelay     time.Duration
	AvailabilityStagger       time.Duration
	AvailabilityHorizonYears  int
	AvailabilityHorizonMargin int

	PSPDetailDelay time.Duration

	CityTaxProductCode string
	CityTaxRate        float64
	BreakfastCode      string

	// OTAPartnerIDs lists partner identifiers whose reservations get a
	// tour-operator reference stamped on the booking.
	OTAPartnerIDs []string

	SealerKey string

	Log    *logger.Logger
	Client *client.Client
}

func Load(serviceName string) *Config {
	cfg := &Config{
		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		Port: getEnvStr(EnvPort, DefaultPort),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),
		RequestTimeout:  getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),

		ChannelBaseURL:     getEnvStr(EnvChannelBaseURL, DefaultChannelBaseURL),
		ChannelFetchPath:   getEnvStr(EnvChannelFetchPath, DefaultChannelFetchPath),
		ChannelAvailPath:   getEnvStr(EnvChannelAvailPath, DefaultChannelAvailPath),
		ChannelAckPath:     getEnvStr(EnvChannelAckPath, DefaultChannelAckPath),
		ChannelHTTPTimeout: getEnvDuration(EnvChannelHTTPTimeout, DefaultChannelHTTPTimeout),

		FetchMaxAttempts: getEnvNum(EnvFetchMaxAttempts, DefaultFetchMaxAttempts),
		FetchBackoff:     getEnvDuration(EnvFetchBackoff, DefaultFetchBackoff),

		DefaultCheckinTime:  getEnvStr(EnvCheckinTime, DefaultCheckinTime),
		DefaultCheckoutTime: getEnvStr(EnvCheckoutTime, DefaultCheckoutTime),

		AvailabilityBaseDelay:     getEnvDuration(EnvAvailabilityBaseDelay, DefaultAvailabilityBaseDelay),
		AvailabilityStagger:       getEnvDuration(EnvAvailabilityStagger, DefaultAvailabilityStagger),
		AvailabilityHorizonYears:  DefaultAvailabilityHorizonYears,
		AvailabilityHorizonMargin: getEnvNum(EnvAvailabilityHorizonMargin, DefaultAvailabilityHorizonMargin),

		PSPDetailDelay: getEnvDuration(EnvPSPDetailDelay, DefaultPSPDetailDelay),

		CityTaxProductCode: getEnvStr(EnvCityTaxProductCode, DefaultCityTaxProductCode),
		CityTaxRate:        getEnvFloat(EnvCityTaxRate, DefaultCityTaxRate),
		BreakfastCode:      getEnvStr(EnvBreakfastCode, DefaultBreakfastCode),

		OTAPartnerIDs: getEnvList(EnvOTAPartnerIDs),

		SealerKey: getEnvStr(EnvSealerKey, ""),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, logger.INFO),
			Format:    logger.JSON,
			AddSource: true,
			Service:   serviceName,
		}),
		Client: client.NewClient(),
	}

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

// IsOTAPartner reports whether partnerID belongs to a known OTA partner.
func (cfg *Config) IsOTAPartner(partnerID string) bool {
	for _, id := range cfg.OTAPartnerIDs {
		if id == partnerID {
			return true
		}
	}
	return false
}

func (cfg *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.MongoURI == "" {
		errs = append(errs, "MongoURI cannot be empty")
	} else if !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
		errs = append(errs, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", cfg.MongoURI))
	}
	if cfg.MongoDatabaseName == "" {
		errs = append(errs, "MongoDatabaseName cannot be empty")
	}

	if _, err := url.ParseRequestURI(cfg.ChannelBaseURL); err != nil {
		errs = append(errs, fmt.Sprintf("ChannelBaseURL must be a valid URL, got: %s", cfg.ChannelBaseURL))
	}
	for _, p := range []string{cfg.ChannelFetchPath, cfg.ChannelAvailPath, cfg.ChannelAckPath} {
		if !strings.HasPrefix(p, "/") {
			errs = append(errs, fmt.Sprintf("channel endpoint paths must start with '/', got: %s", p))
		}
	}

	timeRegex := regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)
	if !timeRegex.MatchString(cfg.DefaultCheckinTime) {
		errs = append(errs, fmt.Sprintf("DefaultCheckinTime must be in HH:MM format, got: %s", cfg.DefaultCheckinTime))
	}
	if !timeRegex.MatchString(cfg.DefaultCheckoutTime) {
		errs = append(errs, fmt.Sprintf("DefaultCheckoutTime must be in HH:MM format, got: %s", cfg.DefaultCheckoutTime))
	}

	if cfg.FetchMaxAttempts < 1 {
		errs = append(errs, fmt.Sprintf("FetchMaxAttempts must be at least 1, got: %d", cfg.FetchMaxAttempts))
	}
	if cfg.FetchBackoff < 0 {
		errs = append(errs, fmt.Sprintf("FetchBackoff cannot be negative, got: %s", cfg.FetchBackoff))
	}

	for name, d := range map[string]time.Duration{
		"MongoConnTimeout":   cfg.MongoConnTimeout,
		"ReadTimeout":        cfg.ReadTimeout,
		"WriteTimeout":       cfg.WriteTimeout,
		"IdleTimeout":        cfg.IdleTimeout,
		"ShutdownTimeout":    cfg.ShutdownTimeout,
		"RequestTimeout":     cfg.RequestTimeout,
		"ChannelHTTPTimeout": cfg.ChannelHTTPTimeout,
	} {
		if d <= 0 {
			errs = append(errs, fmt.Sprintf("%s must be positive, got: %s", name, d))
		}
	}

	if cfg.AvailabilityStagger <= 0 {
		errs = append(errs, fmt.Sprintf("AvailabilityStagger must be positive, got: %s", cfg.AvailabilityStagger))
	}
	if cfg.AvailabilityHorizonMargin < 0 {
		errs = append(errs, fmt.Sprintf("AvailabilityHorizonMargin cannot be negative, got: %d", cfg.AvailabilityHorizonMargin))
	}

	if cfg.CityTaxRate < 0 {
		errs = append(errs, fmt.Sprintf("CityTaxRate cannot be negative, got: %f", cfg.CityTaxRate))
	}
	if cfg.CityTaxProductCode == "" {
		errs = append(errs, "CityTaxProductCode cannot be empty")
	}
	if cfg.BreakfastCode == "" {
		errs = append(errs, "BreakfastCode cannot be empty")
	}

	if len(errs) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, e := range errs {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, e)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"port", cfg.Port,
		"channel_base_url", cfg.ChannelBaseURL,
		"channel_http_timeout", cfg.ChannelHTTPTimeout,
		"fetch_max_attempts", cfg.FetchMaxAttempts,
		"fetch_backoff", cfg.FetchBackoff,
		"default_checkin_time", cfg.DefaultCheckinTime,
		"default_checkout_time", cfg.DefaultCheckoutTime,
		"availability_base_delay", cfg.AvailabilityBaseDelay,
		"availability_stagger", cfg.AvailabilityStagger,
		"availability_horizon_margin", cfg.AvailabilityHorizonMargin,
		"city_tax_product_code", cfg.CityTaxProductCode,
		"city_tax_rate", cfg.CityTaxRate,
		"breakfast_code", cfg.BreakfastCode,
		"ota_partner_ids", len(cfg.OTAPartnerIDs),
		"sealer_key_set", cfg.SealerKey != "",
	)
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown()
}
