package server

import "time"

// Config holds HTTP server configuration.
type Config struct {
	// Address is the listen address, host:port.
	Address string

	// PathPrefix prefixes all API routes.
	PathPrefix string

	// MaxUploadBytes bounds import request bodies and file uploads.
	MaxUploadBytes int64

	// HTTP timeouts.
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// MetricsEnabled mounts the Prometheus scrape endpoint.
	MetricsEnabled bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Address:        ":8080",
		PathPrefix:     "/api/v1",
		MaxUploadBytes: 16 << 20,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   30 * time.Second,
		IdleTimeout:    120 * time.Second,
		MetricsEnabled: true,
	}
}
