package core

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values applied before environment variables and options.
const (
	DefaultBaseURL        = "https://api.industrialmart.example.com/api"
	DefaultOrigin         = "https://www.industrialmart.example.com"
	DefaultRequestTimeout = 15 * time.Second
	DefaultRetryAttempts  = 3
	DefaultRetryDelay     = 1 * time.Second
	DefaultCacheTTL       = 5 * time.Minute
	DefaultSalesPhone     = "+971-4-555-0134"
	DefaultSalesEmail     = "sales@industrialmart.example.com"
	DefaultCatalogURL     = "https://dummyjson.com/products"
	DefaultGeocodeURL     = "https://geocode.maps.co/search"
)

// Config holds all configuration options for the storefront client.
// It supports three-layer configuration priority:
//  1. Default values (lowest priority)
//  2. Environment variables (medium priority)
//  3. Functional options (highest priority)
//
// Example usage:
//
//	cfg, err := core.NewConfig(
//	    core.WithBaseURL("https://staging.example.com/api"),
//	    core.WithCacheTTL(time.Minute),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
type Config struct {
	// Backend configuration
	BaseURL string        `yaml:"base_url" env:"STOREFRONT_BASE_URL"`
	Origin  string        `yaml:"origin" env:"STOREFRONT_ORIGIN"`
	Timeout time.Duration `yaml:"timeout" env:"STOREFRONT_TIMEOUT"`

	// Retry configuration
	RetryAttempts int           `yaml:"retry_attempts" env:"STOREFRONT_RETRY_ATTEMPTS"`
	RetryDelay    time.Duration `yaml:"retry_delay" env:"STOREFRONT_RETRY_DELAY"`

	// Response cache configuration
	CacheEnabled bool          `yaml:"cache_enabled" env:"STOREFRONT_CACHE_ENABLED"`
	CacheTTL     time.Duration `yaml:"cache_ttl" env:"STOREFRONT_CACHE_TTL"`
	RedisURL     string        `yaml:"redis_url" env:"STOREFRONT_REDIS_URL,REDIS_URL"`

	// Sales contact surfaced by consuming applications
	SalesPhone string `yaml:"sales_phone" env:"STOREFRONT_SALES_PHONE"`
	SalesEmail string `yaml:"sales_email" env:"STOREFRONT_SALES_EMAIL"`

	// External fallback providers
	CatalogURL    string `yaml:"catalog_url" env:"STOREFRONT_CATALOG_URL"`
	GeocodeURL    string `yaml:"geocode_url" env:"STOREFRONT_GEOCODE_URL"`
	GeocodeAPIKey string `yaml:"geocode_api_key" env:"STOREFRONT_GEOCODE_API_KEY"`

	// Telemetry (optional)
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// TelemetryConfig contains observability configuration.
// When Endpoint is empty and DevMode is set, traces go to stdout.
type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled" env:"STOREFRONT_TELEMETRY_ENABLED"`
	Endpoint    string `yaml:"endpoint" env:"STOREFRONT_TELEMETRY_ENDPOINT,OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceName string `yaml:"service_name" env:"STOREFRONT_SERVICE_NAME,OTEL_SERVICE_NAME"`
	DevMode     bool   `yaml:"dev_mode" env:"STOREFRONT_TELEMETRY_DEV"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level" env:"STOREFRONT_LOG_LEVEL"`
	Format string `yaml:"format" env:"STOREFRONT_LOG_FORMAT"`
}

// Option is a functional option for Config
type Option func(*Config)

// WithBaseURL sets the primary backend base URL
func WithBaseURL(u string) Option {
	return func(c *Config) { c.BaseURL = u }
}

// WithOrigin sets the Origin header value sent with every request
func WithOrigin(origin string) Option {
	return func(c *Config) { c.Origin = origin }
}

// WithTimeout sets the per-attempt request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Config) { c.Timeout = d }
}

// WithRetry sets the retry attempt count and base backoff delay
func WithRetry(attempts int, delay time.Duration) Option {
	return func(c *Config) {
		c.RetryAttempts = attempts
		c.RetryDelay = delay
	}
}

// WithCacheTTL sets the response cache TTL
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Config) { c.CacheTTL = ttl }
}

// WithoutCache disables the response cache entirely
func WithoutCache() Option {
	return func(c *Config) { c.CacheEnabled = false }
}

// WithRedisURL points the response cache and preference store at Redis
func WithRedisURL(u string) Option {
	return func(c *Config) { c.RedisURL = u }
}

// WithSalesContact overrides the sales contact details
func WithSalesContact(phone, email string) Option {
	return func(c *Config) {
		c.SalesPhone = phone
		c.SalesEmail = email
	}
}

// WithGeocoding configures the geocoding helper
func WithGeocoding(apiKey string) Option {
	return func(c *Config) { c.GeocodeAPIKey = apiKey }
}

// WithTelemetry enables OTLP trace export to the given endpoint
func WithTelemetry(serviceName, endpoint string) Option {
	return func(c *Config) {
		c.Telemetry.Enabled = true
		c.Telemetry.ServiceName = serviceName
		c.Telemetry.Endpoint = endpoint
	}
}

// NewConfig creates a Config with the three-layer priority applied.
func NewConfig(opts ...Option) (*Config, error) {
	cfg := defaultConfig()
	cfg.applyEnvironment()

	for _, opt := range opts {
		opt(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		BaseURL:       DefaultBaseURL,
		Origin:        DefaultOrigin,
		Timeout:       DefaultRequestTimeout,
		RetryAttempts: DefaultRetryAttempts,
		RetryDelay:    DefaultRetryDelay,
		CacheEnabled:  true,
		CacheTTL:      DefaultCacheTTL,
		SalesPhone:    DefaultSalesPhone,
		SalesEmail:    DefaultSalesEmail,
		CatalogURL:    DefaultCatalogURL,
		GeocodeURL:    DefaultGeocodeURL,
		Logging: LoggingConfig{
			Level: "INFO",
		},
	}
}

// applyEnvironment overlays recognized environment variables onto cfg.
func (c *Config) applyEnvironment() {
	applyEnvString(&c.BaseURL, "STOREFRONT_BASE_URL")
	applyEnvString(&c.Origin, "STOREFRONT_ORIGIN")
	applyEnvDuration(&c.Timeout, "STOREFRONT_TIMEOUT")
	applyEnvInt(&c.RetryAttempts, "STOREFRONT_RETRY_ATTEMPTS")
	applyEnvDuration(&c.RetryDelay, "STOREFRONT_RETRY_DELAY")
	applyEnvBool(&c.CacheEnabled, "STOREFRONT_CACHE_ENABLED")
	applyEnvDuration(&c.CacheTTL, "STOREFRONT_CACHE_TTL")
	applyEnvString(&c.RedisURL, "STOREFRONT_REDIS_URL", "REDIS_URL")
	applyEnvString(&c.SalesPhone, "STOREFRONT_SALES_PHONE")
	applyEnvString(&c.SalesEmail, "STOREFRONT_SALES_EMAIL")
	applyEnvString(&c.CatalogURL, "STOREFRONT_CATALOG_URL")
	applyEnvString(&c.GeocodeURL, "STOREFRONT_GEOCODE_URL")
	applyEnvString(&c.GeocodeAPIKey, "STOREFRONT_GEOCODE_API_KEY")
	applyEnvBool(&c.Telemetry.Enabled, "STOREFRONT_TELEMETRY_ENABLED")
	applyEnvString(&c.Telemetry.Endpoint, "STOREFRONT_TELEMETRY_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")
	applyEnvString(&c.Telemetry.ServiceName, "STOREFRONT_SERVICE_NAME", "OTEL_SERVICE_NAME")
	applyEnvBool(&c.Telemetry.DevMode, "STOREFRONT_TELEMETRY_DEV")
	applyEnvString(&c.Logging.Level, "STOREFRONT_LOG_LEVEL")
	applyEnvString(&c.Logging.Format, "STOREFRONT_LOG_FORMAT")
}

// LoadFile merges a YAML config file into c. File values override whatever
// is currently set, so callers load the file before applying options that
// must win.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return c.Validate()
}

// configFile mirrors Config with string durations so YAML files can use
// values like "15s" and "5m".
type configFile struct {
	BaseURL       string          `yaml:"base_url"`
	Origin        string          `yaml:"origin"`
	Timeout       string          `yaml:"timeout"`
	RetryAttempts *int            `yaml:"retry_attempts"`
	RetryDelay    string          `yaml:"retry_delay"`
	CacheEnabled  *bool           `yaml:"cache_enabled"`
	CacheTTL      string          `yaml:"cache_ttl"`
	RedisURL      string          `yaml:"redis_url"`
	SalesPhone    string          `yaml:"sales_phone"`
	SalesEmail    string          `yaml:"sales_email"`
	CatalogURL    string          `yaml:"catalog_url"`
	GeocodeURL    string          `yaml:"geocode_url"`
	GeocodeAPIKey string          `yaml:"geocode_api_key"`
	Telemetry     TelemetryConfig `yaml:"telemetry"`
	Logging       LoggingConfig   `yaml:"logging"`
}

// UnmarshalYAML merges file values onto the existing Config. Absent keys
// leave the current value untouched.
func (c *Config) UnmarshalYAML(node *yaml.Node) error {
	var f configFile
	f.Telemetry = c.Telemetry
	f.Logging = c.Logging
	if err := node.Decode(&f); err != nil {
		return err
	}

	setString := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	setDuration := func(dst *time.Duration, v string) error {
		if v == "" {
			return nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: duration %q: %v", ErrInvalidConfiguration, v, err)
		}
		*dst = d
		return nil
	}

	setString(&c.BaseURL, f.BaseURL)
	setString(&c.Origin, f.Origin)
	if err := setDuration(&c.Timeout, f.Timeout); err != nil {
		return err
	}
	if f.RetryAttempts != nil {
		c.RetryAttempts = *f.RetryAttempts
	}
	if err := setDuration(&c.RetryDelay, f.RetryDelay); err != nil {
		return err
	}
	if f.CacheEnabled != nil {
		c.CacheEnabled = *f.CacheEnabled
	}
	if err := setDuration(&c.CacheTTL, f.CacheTTL); err != nil {
		return err
	}
	setString(&c.RedisURL, f.RedisURL)
	setString(&c.SalesPhone, f.SalesPhone)
	setString(&c.SalesEmail, f.SalesEmail)
	setString(&c.CatalogURL, f.CatalogURL)
	setString(&c.GeocodeURL, f.GeocodeURL)
	setString(&c.GeocodeAPIKey, f.GeocodeAPIKey)
	c.Telemetry = f.Telemetry
	c.Logging = f.Logging
	return nil
}

// Validate checks the configuration for values that would break the client.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("%w: base URL", ErrMissingConfiguration)
	}
	if _, err := url.Parse(c.BaseURL); err != nil {
		return fmt.Errorf("%w: base URL %q: %v", ErrInvalidConfiguration, c.BaseURL, err)
	}
	if c.RetryAttempts < 1 {
		return fmt.Errorf("%w: retry attempts must be at least 1, got %d", ErrInvalidConfiguration, c.RetryAttempts)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("%w: timeout must be positive, got %v", ErrInvalidConfiguration, c.Timeout)
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("%w: cache TTL must be non-negative, got %v", ErrInvalidConfiguration, c.CacheTTL)
	}
	return nil
}

func applyEnvString(dst *string, keys ...string) {
	for _, key := range keys {
		if v := os.Getenv(key); v != "" {
			*dst = v
			return
		}
	}
}

func applyEnvInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func applyEnvBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func applyEnvDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
