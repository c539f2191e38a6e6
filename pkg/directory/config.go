// Package directory implements a client for an external hotspot directory
// API. The directory authenticates with client credentials, hands back a
// short-lived bearer token, and serves paginated location listings.
package directory

import (
	"os"
	"strconv"
	"time"
)

// Config holds connection settings for the directory API.
type Config struct {
	// BaseURL is the directory API root, without a trailing slash.
	BaseURL string

	// ClientKey and ClientSecret are exchanged for a bearer token.
	ClientKey    string
	ClientSecret string

	// Timeout bounds each HTTP request to the directory.
	Timeout time.Duration

	// PageSize is the number of locations requested per page.
	PageSize int
}

// DefaultConfig returns a Config with sensible defaults and no credentials.
func DefaultConfig() *Config {
	return &Config{
		Timeout:  15 * time.Second,
		PageSize: 100,
	}
}

// ConfigFromEnv reads directory configuration from environment variables,
// falling back to defaults for any unset variable.
//
// Environment variables:
//   - VIEWGATE_DIRECTORY_URL: API root URL
//   - VIEWGATE_DIRECTORY_CLIENT_KEY: credential key
//   - VIEWGATE_DIRECTORY_CLIENT_SECRET: credential secret
//   - VIEWGATE_DIRECTORY_TIMEOUT: request timeout in seconds (default: 15)
//   - VIEWGATE_DIRECTORY_PAGE_SIZE: locations per page (default: 100)
func ConfigFromEnv() *Config {
	cfg := DefaultConfig()

	cfg.BaseURL = os.Getenv("VIEWGATE_DIRECTORY_URL")
	cfg.ClientKey = os.Getenv("VIEWGATE_DIRECTORY_CLIENT_KEY")
	cfg.ClientSecret = os.Getenv("VIEWGATE_DIRECTORY_CLIENT_SECRET")

	if v := os.Getenv("VIEWGATE_DIRECTORY_TIMEOUT"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			cfg.Timeout = time.Duration(secs) * time.Second
		}
	}

	if v := os.Getenv("VIEWGATE_DIRECTORY_PAGE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.PageSize = n
		}
	}

	return cfg
}

// Configured reports whether the config carries enough to reach the API.
func (c *Config) Configured() bool {
	return c.BaseURL != "" && c.ClientKey != "" && c.ClientSecret != ""
}
