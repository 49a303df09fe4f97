package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"sjsage522/deliveryscraper/pkg/errors"
)

// Config represents the application configuration
type Config struct {
	// Upstream endpoints
	ListingURLTemplate   string
	DirectoryURLTemplate string
	CityNameSelector     string
	PostalLinkSelector   string
	UserAgent            string
	HTTPTimeout          time.Duration
	CloudflareBypass     bool

	// Dispatcher configuration
	Workers         int
	RequestInterval time.Duration
	MaxRetries      int
	RetryBaseDelay  time.Duration
	PostalCodeWidth int

	// Output
	OutputDir string

	// Memcache configuration
	MemcacheAddr   string
	CacheTTL       time.Duration
	RateLimitBlock time.Duration

	// Redis configuration
	RedisAddr            string
	RedisDB              int
	RedisStream          string
	RedisStreamCount     int
	RedisStreamMaxLength int

	// Postgres configuration
	PostgresDSN string

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() *Config {
	return &Config{
		ListingURLTemplate:   getEnv("LISTING_URL_TEMPLATE", "https://www.justeat.it/area/%s"),
		DirectoryURLTemplate: getEnv("DIRECTORY_URL_TEMPLATE", "https://www.nonsolocap.it/cap?k=%s"),
		CityNameSelector:     getEnv("CITY_NAME_SELECTOR", "h1"),
		PostalLinkSelector:   getEnv("POSTAL_LINK_SELECTOR", "table.results a"),
		UserAgent: getEnv("USER_AGENT", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 "+
			"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
		HTTPTimeout:      time.Duration(getEnvInt("HTTP_TIMEOUT_SECONDS", 30)) * time.Second,
		CloudflareBypass: getEnvBool("CLOUDFLARE_BYPASS", false),

		Workers:         getEnvInt("WORKERS", 10),
		RequestInterval: time.Duration(getEnvInt("REQUEST_INTERVAL_MS", 0)) * time.Millisecond,
		MaxRetries:      getEnvInt("MAX_RETRIES", 1),
		RetryBaseDelay:  time.Duration(getEnvInt("RETRY_BASE_DELAY_MS", 1000)) * time.Millisecond,
		PostalCodeWidth: getEnvInt("POSTAL_CODE_WIDTH", 5),

		OutputDir: getEnv("OUTPUT_DIR", "./output"),

		MemcacheAddr:   os.Getenv("MEMCACHE_ADDR"),
		CacheTTL:       time.Duration(getEnvInt("CACHE_TTL_SECONDS", 600)) * time.Second,
		RateLimitBlock: time.Duration(getEnvInt("RATE_LIMIT_BLOCK_SECONDS", 300)) * time.Second,

		RedisAddr:            os.Getenv("REDIS_ADDR"),
		RedisDB:              getEnvInt("REDIS_DB", 0),
		RedisStream:          getEnv("REDIS_STREAM", "restaurants"),
		RedisStreamCount:     getEnvInt("REDIS_STREAM_COUNT", 1),
		RedisStreamMaxLength: getEnvInt("REDIS_STREAM_MAX_LENGTH", 10000),

		PostgresDSN: os.Getenv("POSTGRES_DSN"),

		Environment: getEnv("SCRAPER_ENVIRONMENT", "development"),
	}
}

// Validate checks the configuration for values the scraper cannot run with
func (c *Config) Validate() error {
	if c.Workers < 1 {
		return errors.NewConfiguration(fmt.Sprintf("WORKERS must be at least 1, got %d", c.Workers), nil)
	}
	if c.MaxRetries < 1 {
		return errors.NewConfiguration(fmt.Sprintf("MAX_RETRIES must be at least 1, got %d", c.MaxRetries), nil)
	}
	if c.PostalCodeWidth < 1 {
		return errors.NewConfiguration(fmt.Sprintf("POSTAL_CODE_WIDTH must be at least 1, got %d", c.PostalCodeWidth), nil)
	}
	if strings.Count(c.ListingURLTemplate, "%s") != 1 {
		return errors.NewConfiguration("LISTING_URL_TEMPLATE must contain exactly one %s", nil)
	}
	if strings.Count(c.DirectoryURLTemplate, "%s") != 1 {
		return errors.NewConfiguration("DIRECTORY_URL_TEMPLATE must contain exactly one %s", nil)
	}
	if c.PostalLinkSelector == "" {
		return errors.NewConfiguration("POSTAL_LINK_SELECTOR must not be empty", nil)
	}
	if c.OutputDir == "" {
		return errors.NewConfiguration("OUTPUT_DIR must not be empty", nil)
	}
	if c.RedisAddr != "" && c.RedisStreamCount < 1 {
		return errors.NewConfiguration(fmt.Sprintf("REDIS_STREAM_COUNT must be at least 1, got %d", c.RedisStreamCount), nil)
	}
	return nil
}

// Overrides holds values set explicitly on the command line. Nil fields
// leave the loaded configuration untouched.
type Overrides struct {
	OutputDir        *string
	Workers          *int
	MaxRetries       *int
	RequestInterval  *time.Duration
	CloudflareBypass *bool
}

// ApplyOverrides copies every non-nil override onto the configuration,
// zero values included
func (c *Config) ApplyOverrides(o Overrides) {
	if o.OutputDir != nil {
		c.OutputDir = *o.OutputDir
	}
	if o.Workers != nil {
		c.Workers = *o.Workers
	}
	if o.MaxRetries != nil {
		c.MaxRetries = *o.MaxRetries
	}
	if o.RequestInterval != nil {
		c.RequestInterval = *o.RequestInterval
	}
	if o.CloudflareBypass != nil {
		c.CloudflareBypass = *o.CloudflareBypass
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
