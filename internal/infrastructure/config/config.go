package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App      AppConfig
	Log      LogConfig
	Commerce CommerceConfig
	Browse   BrowseConfig
	Poller   PollerConfig
	Cart     CartConfig
	Redis    RedisConfig
	HTTP     HTTPConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// CommerceConfig holds commerce backend connection settings
type CommerceConfig struct {
	BaseURL        string
	TimeoutSeconds int
}

// BrowseConfig holds browse session and query controller settings
type BrowseConfig struct {
	// DebounceWindow delays keyword-driven fetches to coalesce keystrokes
	DebounceWindow time.Duration
	// DefaultPageSize is the listing page size when the client sends none
	DefaultPageSize int
	// BrandCatalogSize caps the brand list loaded at session start
	BrandCatalogSize int
	// SessionTTL evicts idle browse sessions
	SessionTTL time.Duration
}

// PollerConfig holds order confirmation polling settings
type PollerConfig struct {
	// Interval is the fixed cadence between confirmation checks
	Interval time.Duration
	// TTL evicts pollers whose status nobody has read recently
	TTL time.Duration
}

// CartConfig holds cart storage settings
type CartConfig struct {
	// TTL expires abandoned carts in the store
	TTL time.Duration
}

// RedisConfig holds Redis connection settings. An empty Host selects the
// in-memory cart store instead.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// Addr returns the host:port address for the Redis client
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// HTTPConfig holds HTTP server settings
type HTTPConfig struct {
	AllowedOrigins  []string
	MaxBodyBytes    int64
	ShutdownTimeout time.Duration
}

// Load reads configuration from config.toml and SECURESHOP_* environment
// variables, applies defaults, and validates the result
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("SECURESHOP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		Commerce: CommerceConfig{
			BaseURL:        v.GetString("commerce.base_url"),
			TimeoutSeconds: v.GetInt("commerce.timeout_seconds"),
		},
		Browse: BrowseConfig{
			DebounceWindow:   v.GetDuration("browse.debounce_window"),
			DefaultPageSize:  v.GetInt("browse.default_page_size"),
			BrandCatalogSize: v.GetInt("browse.brand_catalog_size"),
			SessionTTL:       v.GetDuration("browse.session_ttl"),
		},
		Poller: PollerConfig{
			Interval: v.GetDuration("poller.interval"),
			TTL:      v.GetDuration("poller.ttl"),
		},
		Cart: CartConfig{
			TTL: v.GetDuration("cart.ttl"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		HTTP: HTTPConfig{
			AllowedOrigins:  v.GetStringSlice("http.allowed_origins"),
			MaxBodyBytes:    v.GetInt64("http.max_body_bytes"),
			ShutdownTimeout: v.GetDuration("http.shutdown_timeout"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "secureshop-bff")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stdout")

	v.SetDefault("commerce.base_url", "http://localhost:9090/api/v1")
	v.SetDefault("commerce.timeout_seconds", 10)

	v.SetDefault("browse.debounce_window", 500*time.Millisecond)
	v.SetDefault("browse.default_page_size", 12)
	v.SetDefault("browse.brand_catalog_size", 100)
	v.SetDefault("browse.session_ttl", 30*time.Minute)

	v.SetDefault("poller.interval", 5*time.Second)
	v.SetDefault("poller.ttl", 15*time.Minute)

	v.SetDefault("cart.ttl", 24*time.Hour)

	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)

	v.SetDefault("http.max_body_bytes", int64(1<<20))
	v.SetDefault("http.shutdown_timeout", 10*time.Second)
}

// Validate checks the loaded configuration for consistency
func (c *Config) Validate() error {
	if _, err := url.Parse(c.Commerce.BaseURL); err != nil {
		return fmt.Errorf("invalid commerce base URL: %w", err)
	}
	if c.Commerce.BaseURL == "" {
		return fmt.Errorf("commerce.base_url is required")
	}
	if c.Browse.DebounceWindow < 0 {
		return fmt.Errorf("browse.debounce_window cannot be negative")
	}
	if c.Browse.DefaultPageSize <= 0 {
		return fmt.Errorf("browse.default_page_size must be positive")
	}
	if c.Poller.Interval <= 0 {
		return fmt.Errorf("poller.interval must be positive")
	}
	return nil
}

// IsProduction reports whether the app runs in production mode
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
