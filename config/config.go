package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"agroverse/logx"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Prefix is prepended to every variable; the unprefixed name also works.
const Prefix = "AGROVERSE"

// Config holds everything the CLI and the advisory proxy read from the
// environment (optionally seeded from a .env file).
type Config struct {
	Env             logx.Environment `envconfig:"ENV" default:"development"`
	APIBaseURL      string           `envconfig:"API_BASE_URL" default:"http://localhost:5000"`
	AdvisoryURL     string           `envconfig:"ADVISORY_URL" default:"http://localhost:8080"`
	StorePath       string           `envconfig:"STORE_PATH"`
	StorePassphrase string           `envconfig:"STORE_PASSPHRASE"`
	UserID          string           `envconfig:"USER_ID" default:"user1"`
	HTTPTimeout     time.Duration    `envconfig:"HTTP_TIMEOUT" default:"30s"`

	Retry Retry
	Proxy Proxy
}

// Retry bounds the GET retry policy of the remote client.
type Retry struct {
	MaxAttempts  uint          `envconfig:"MAX_ATTEMPTS" default:"3"`
	InitialDelay time.Duration `envconfig:"INITIAL_DELAY" default:"200ms"`
	MaxDelay     time.Duration `envconfig:"MAX_DELAY" default:"2s"`
}

// Proxy configures `agroverse serve`. The upstream keys never leave the server.
type Proxy struct {
	Port              string        `envconfig:"PORT" default:":8080"`
	OpenWeatherAPIKey string        `envconfig:"OPENWEATHER_API_KEY"`
	NewsAPIKey        string        `envconfig:"NEWS_API_KEY"`
	RedisURL          string        `envconfig:"REDIS_URL"`
	JWTSecret         string        `envconfig:"JWT_SECRET"`
	WeatherTTL        time.Duration `envconfig:"WEATHER_TTL" default:"10m"`
	NewsTTL           time.Duration `envconfig:"NEWS_TTL" default:"30m"`
	RatePerSecond     float64       `envconfig:"RATE_PER_SECOND" default:"5"`
	RateBurst         int           `envconfig:"RATE_BURST" default:"10"`
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv reads the process environment only.
func FromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("process environment config: %w", err)
	}
	if err := cfg.finish(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) finish() error {
	for name, raw := range map[string]string{"API_BASE_URL": c.APIBaseURL, "ADVISORY_URL": c.AdvisoryURL} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid %s %q", name, raw)
		}
	}
	if c.StorePath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home directory: %w", err)
		}
		c.StorePath = filepath.Join(home, ".agroverse", "storage.json")
	}
	if c.Retry.MaxAttempts == 0 {
		c.Retry.MaxAttempts = 1
	}
	if c.Proxy.Port != "" && c.Proxy.Port[0] != ':' {
		c.Proxy.Port = ":" + c.Proxy.Port
	}
	return nil
}
