// Package cmd implements the pipeline CLI commands.
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sportsbeams/pipeline/internal/config"
	"github.com/sportsbeams/pipeline/pkg/importer"
	"github.com/sportsbeams/pipeline/pkg/logging"
	"github.com/sportsbeams/pipeline/pkg/metrics"
	"github.com/sportsbeams/pipeline/pkg/store"
	"github.com/sportsbeams/pipeline/pkg/store/memory"
	"github.com/sportsbeams/pipeline/pkg/store/postgres"
)

var (
	verbose bool
	quiet   bool

	// Version information set by main.
	Version = "dev"
	// Commit is the git commit hash.
	Commit = "unknown"
	// Date is the build date.
	Date = "unknown"
)

// rootCmd represents the base command when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "pipeline",
	Short: "Sales pipeline import reconciliation",
	Long: `Pipeline reconciles research-tool JSON exports into the sales
pipeline database. It detects the export's schema variant, normalizes
vendor vocabulary into closed enumerations, and merge-upserts
prospects, contacts and dimension scores idempotently.

Imports can run one-shot from files, continuously from a watch folder,
or over HTTP.`,
	PersistentPreRun: func(*cobra.Command, []string) {
		configureLogging()
	},
}

// Execute runs the root command with signal-aware context.
func Execute(version, commit, date string) {
	Version = version
	Commit = commit
	Date = date

	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "errors only")
	rootCmd.PersistentFlags().String("database-url", "", "Postgres connection string (default: in-memory store)")
	cobra.CheckErr(viper.BindPFlag("database.url", rootCmd.PersistentFlags().Lookup("database-url")))
}

// configureLogging sets the log level from flags and environment.
func configureLogging() {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	if quiet {
		level = zerolog.WarnLevel
	}
	if envLevel := os.Getenv("LOG_LEVEL"); envLevel != "" {
		if parsed, err := zerolog.ParseLevel(envLevel); err == nil {
			level = parsed
		}
	}
	zerolog.SetGlobalLevel(level)
}

// openStore builds the configured entity store: Postgres when a
// database URL is set, in-memory otherwise. Postgres is wrapped in the
// transient-failure retry decorator.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, func(), error) {
	if cfg.DatabaseURL == "" {
		logging.Default().Warn().Msg("No database configured, using in-memory store")
		return memory.New(), func() {}, nil
	}

	pg, err := postgres.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	st := store.WithRetry(pg,
		store.WithAttempts(cfg.RetryAttempts),
		store.WithBaseDelay(cfg.RetryBaseDelay),
	)
	return st, pg.Close, nil
}

// newSession builds an import session over the configured store.
func newSession(ctx context.Context, cfg *config.Config) (*importer.Session, func(), error) {
	st, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	session := importer.NewSession(st,
		importer.WithMinConfidence(cfg.MinConfidence),
		importer.WithRecorder(metrics.Default()),
	)
	return session, closeStore, nil
}
