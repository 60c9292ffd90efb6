// Package config loads pipeline configuration from flags, environment
// variables and optional config files via Viper. A .env file in the
// working directory is loaded first, then real environment variables
// take precedence.
package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the resolved pipeline configuration.
type Config struct {
	// DatabaseURL is the Postgres connection string. Empty selects the
	// in-memory store.
	DatabaseURL string

	// ServerAddress is the HTTP listen address for serve mode.
	ServerAddress string

	// WatchDir is the folder watched for dropped import files.
	WatchDir string

	// WatchSettle is how long a file must be quiet before import.
	WatchSettle time.Duration

	// WatchPollInterval is the fallback scan interval for events the
	// filesystem notifier misses.
	WatchPollInterval time.Duration

	// MinConfidence is the floor below which enrichment contacts are
	// skipped.
	MinConfidence int

	// RetryAttempts bounds retries of transient store failures.
	RetryAttempts int

	// RetryBaseDelay is the first retry backoff delay; it doubles per
	// attempt.
	RetryBaseDelay time.Duration
}

func setDefaults() {
	viper.SetDefault("database.url", "")
	viper.SetDefault("server.address", ":8080")
	viper.SetDefault("watch.dir", "imports")
	viper.SetDefault("watch.settle", 2*time.Second)
	viper.SetDefault("watch.poll_interval", 5*time.Second)
	viper.SetDefault("import.min_confidence", 70)
	viper.SetDefault("store.retry.attempts", 3)
	viper.SetDefault("store.retry.base_delay", 250*time.Millisecond)
}

// Load resolves configuration from .env files, the environment and any
// config file Viper has been pointed at.
func Load() *Config {
	// godotenv never overwrites a set key, so .env.local loads first
	// to override .env; the real environment overrides both.
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")

	setDefaults()
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	return &Config{
		DatabaseURL:       viper.GetString("database.url"),
		ServerAddress:     viper.GetString("server.address"),
		WatchDir:          viper.GetString("watch.dir"),
		WatchSettle:       viper.GetDuration("watch.settle"),
		WatchPollInterval: viper.GetDuration("watch.poll_interval"),
		MinConfidence:     viper.GetInt("import.min_confidence"),
		RetryAttempts:     viper.GetInt("store.retry.attempts"),
		RetryBaseDelay:    viper.GetDuration("store.retry.base_delay"),
	}
}
