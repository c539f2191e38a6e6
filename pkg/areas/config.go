package areas

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Directory selection modes.
const (
	// ModeHistory infers areas from local configs and recorded events.
	ModeHistory = "history"
	// ModeDirectory fetches areas from the external directory API.
	ModeDirectory = "directory"
)

// Config selects which Directory implementation serves area listings.
type Config struct {
	Mode string

	// CacheTTL caches external directory listings per tenant. Zero
	// disables caching. Ignored in history mode, which is already local.
	CacheTTL time.Duration
}

// DefaultConfig returns a Config using the history-backed directory.
func DefaultConfig() *Config {
	return &Config{
		Mode:     ModeHistory,
		CacheTTL: 60 * time.Second,
	}
}

// ConfigFromEnv reads area directory configuration from the environment.
//
// Environment variables:
//   - VIEWGATE_AREAS_MODE: "history" or "directory" (default: "history")
//   - VIEWGATE_AREAS_CACHE_TTL: directory cache TTL in seconds, 0 disables
//     (default: 60)
func ConfigFromEnv() *Config {
	cfg := DefaultConfig()
	if v := os.Getenv("VIEWGATE_AREAS_MODE"); v != "" {
		// Unknown values are kept as-is so the caller's mode switch can
		// reject them instead of silently falling back to history.
		cfg.Mode = strings.ToLower(v)
	}
	if v := os.Getenv("VIEWGATE_AREAS_CACHE_TTL"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
			cfg.CacheTTL = time.Duration(secs) * time.Second
		}
	}
	return cfg
}
