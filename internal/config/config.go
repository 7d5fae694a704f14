package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"

	"github.com/couchcryptid/county-unemployment-etl/internal/domain"
)

// DefaultAPIURL is the BLS Public Data API v2 timeseries endpoint.
const DefaultAPIURL = "https://api.bls.gov/publicAPI/v2/timeseries/data/"

// Config holds all service settings, populated from environment variables.
type Config struct {
	BLSAPIURL          string
	BLSRegistrationKey string
	BLSTimeout         time.Duration
	Years              domain.YearRange
	AnnualAverage      bool

	OutputPath       string
	FetchConcurrency int

	// Redis response cache; disabled when RedisAddr is empty.
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	// Optional sinks.
	KafkaBrokers []string
	KafkaTopic   string
	PostgresDSN  string

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
}

// Load reads configuration from environment variables, applying defaults where
// unset. A .env file in the working directory is loaded first if present;
// variables already set in the environment win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	blsTimeout, err := parsePositiveDuration("BLS_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}

	cacheTTL, err := parsePositiveDuration("CACHE_TTL", "24h")
	if err != nil {
		return nil, err
	}

	startYear, err := parseInt("START_YEAR", 2006)
	if err != nil {
		return nil, err
	}
	endYear, err := parseInt("END_YEAR", 2014)
	if err != nil {
		return nil, err
	}
	years := domain.YearRange{Start: startYear, End: endYear}
	if err := years.Validate(); err != nil {
		return nil, fmt.Errorf("START_YEAR/END_YEAR: %w", err)
	}

	concurrency, err := parseInt("FETCH_CONCURRENCY", 1)
	if err != nil {
		return nil, err
	}
	if concurrency < 1 || concurrency > 32 {
		return nil, errors.New("FETCH_CONCURRENCY must be between 1 and 32")
	}

	redisDB, err := parseInt("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}

	var brokers []string
	if raw := os.Getenv("KAFKA_BROKERS"); raw != "" {
		brokers = sharedcfg.ParseBrokers(raw)
	}

	cfg := &Config{
		BLSAPIURL:          sharedcfg.EnvOrDefault("BLS_API_URL", DefaultAPIURL),
		BLSRegistrationKey: os.Getenv("BLS_REGISTRATION_KEY"),
		BLSTimeout:         blsTimeout,
		Years:              years,
		AnnualAverage:      os.Getenv("ANNUAL_AVERAGE") == "true",

		OutputPath:       sharedcfg.EnvOrDefault("OUTPUT_PATH", "county_unemployment_data.json"),
		FetchConcurrency: concurrency,

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       redisDB,
		CacheTTL:      cacheTTL,

		KafkaBrokers: brokers,
		KafkaTopic:   sharedcfg.EnvOrDefault("KAFKA_TOPIC", "county-unemployment"),
		PostgresDSN:  os.Getenv("POSTGRES_DSN"),

		HTTPAddr:        os.Getenv("HTTP_ADDR"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "text"),
		ShutdownTimeout: shutdownTimeout,
	}

	if cfg.OutputPath == "" {
		return nil, errors.New("OUTPUT_PATH is required")
	}
	if cfg.KafkaEnabled() && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_BROKERS is set but KAFKA_TOPIC is empty")
	}

	return cfg, nil
}

// ValidateFetch checks settings only the fetcher needs.
func (c *Config) ValidateFetch() error {
	if c.BLSRegistrationKey == "" {
		return errors.New("BLS_REGISTRATION_KEY is required")
	}
	if c.BLSAPIURL == "" {
		return errors.New("BLS_API_URL is required")
	}
	return nil
}

// CacheEnabled reports whether API responses are cached in Redis.
func (c *Config) CacheEnabled() bool { return c.RedisAddr != "" }

// KafkaEnabled reports whether series are also published to Kafka.
func (c *Config) KafkaEnabled() bool { return len(c.KafkaBrokers) > 0 }

// PostgresEnabled reports whether series are also written to Postgres.
func (c *Config) PostgresEnabled() bool { return c.PostgresDSN != "" }

func parsePositiveDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseInt(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q is not an integer", key, s)
	}
	return n, nil
}
