// Package server assembles the HTTP surface: the visitor portal API, the
// admin API, health probes and static portal assets, over one gorm handle.
package server

import (
	"os"
)

// Config holds top-level server configuration.
type Config struct {
	// Listen is the address the HTTP server binds to.
	Listen string

	// StaticDir is the directory served at / for the portal player page.
	StaticDir string

	// IdentityURL is the identity provider API root used to resolve
	// visitor session keys.
	IdentityURL string
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Listen:      ":8080",
		StaticDir:   "./public",
		IdentityURL: "https://volare.cloud4wi.com/controlpanel/1.0",
	}
}

// ConfigFromEnv reads server configuration from environment variables,
// falling back to defaults for any unset variable.
//
// Environment variables:
//   - VIEWGATE_LISTEN: bind address (default: ":8080")
//   - VIEWGATE_STATIC_DIR: portal asset directory (default: "./public")
//   - VIEWGATE_IDENTITY_URL: identity provider API root
func ConfigFromEnv() *Config {
	cfg := DefaultConfig()

	if v := os.Getenv("VIEWGATE_LISTEN"); v != "" {
		cfg.Listen = v
	}
	if v := os.Getenv("VIEWGATE_STATIC_DIR"); v != "" {
		cfg.StaticDir = v
	}
	if v := os.Getenv("VIEWGATE_IDENTITY_URL"); v != "" {
		cfg.IdentityURL = v
	}

	return cfg
}
