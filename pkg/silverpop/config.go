package silverpop

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	URL      string
	Username string
	Password string
	// SessionID, when set, is trusted as-is and no login happens at
	// construction.
	SessionID string
	// Timeout bounds each HTTP round trip. Zero uses the transport default.
	Timeout time.Duration
	// MaxRetries is the number of network-level retries per HTTP call.
	MaxRetries int
}

func LoadConfig() (*Config, error) {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()

	cfg := &Config{
		URL:       os.Getenv("SILVERPOP_URL"),
		Username:  os.Getenv("SILVERPOP_USERNAME"),
		Password:  os.Getenv("SILVERPOP_PASSWORD"),
		SessionID: os.Getenv("SILVERPOP_SESSION_ID"),
	}

	if v := os.Getenv("SILVERPOP_TIMEOUT"); v != "" {
		timeout, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("SILVERPOP_TIMEOUT is invalid: %w", err)
		}
		cfg.Timeout = timeout
	}

	if v := os.Getenv("SILVERPOP_MAX_RETRIES"); v != "" {
		retries, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("SILVERPOP_MAX_RETRIES is invalid: %w", err)
		}
		cfg.MaxRetries = retries
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("SILVERPOP_URL is required")
	}
	u, err := url.Parse(c.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("SILVERPOP_URL must be an absolute URL, got %q", c.URL)
	}
	if c.Username == "" {
		return fmt.Errorf("SILVERPOP_USERNAME is required")
	}
	if c.Password == "" {
		return fmt.Errorf("SILVERPOP_PASSWORD is required")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("SILVERPOP_TIMEOUT must not be negative")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("SILVERPOP_MAX_RETRIES must not be negative")
	}
	// SessionID is optional, so we don't validate it
	return nil
}
