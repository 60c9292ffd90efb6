// Package watcher runs the watch-folder collaborator: JSON files
// dropped into a directory are imported automatically once they stop
// changing. Successful files move to processed/, failures to failed/
// with a sibling error log.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/sportsbeams/pipeline/pkg/importer"
	"github.com/sportsbeams/pipeline/pkg/logging"
	"github.com/sportsbeams/pipeline/pkg/metrics"
)

// Config holds watcher configuration.
type Config struct {
	// Dir is the watched directory, created if missing.
	Dir string

	// Settle is how long a file must go without writes before import.
	Settle time.Duration

	// PollInterval is the sweep interval that both checks settled
	// files and picks up files the notifier missed.
	PollInterval time.Duration

	// ProcessExisting imports files already present at startup.
	ProcessExisting bool
}

// Watcher drives imports from a watched folder.
type Watcher struct {
	session *importer.Session
	config  Config
	metrics *metrics.Manager
	logger  *zerolog.Logger

	// pending maps file path to the last time it changed.
	pending map[string]time.Time
}

// New creates a watcher over the given import session.
func New(session *importer.Session, cfg Config) *Watcher {
	if cfg.Settle <= 0 {
		cfg.Settle = 2 * time.Second
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 5 * time.Second
	}
	return &Watcher{
		session: session,
		config:  cfg,
		metrics: metrics.Default(),
		logger:  logging.Default(),
		pending: make(map[string]time.Time),
	}
}

func (w *Watcher) processedDir() string { return filepath.Join(w.config.Dir, "processed") }
func (w *Watcher) failedDir() string    { return filepath.Join(w.config.Dir, "failed") }

// Run watches until the context is cancelled. Files are imported only
// after they settle, so half-written drops are never parsed.
func (w *Watcher) Run(ctx context.Context) error {
	for _, dir := range []string{w.config.Dir, w.processedDir(), w.failedDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}

	notifier, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating filesystem watcher: %w", err)
	}
	defer func() { _ = notifier.Close() }()
	if err := notifier.Add(w.config.Dir); err != nil {
		return fmt.Errorf("watching %s: %w", w.config.Dir, err)
	}

	w.logger.Info().
		Str("dir", w.config.Dir).
		Dur("settle", w.config.Settle).
		Msg("Watch folder is running")

	if w.config.ProcessExisting {
		w.sweepExisting(ctx, true)
	}

	ticker := time.NewTicker(w.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-notifier.Events:
			if !ok {
				return nil
			}
			if !isJSONFile(event.Name) {
				continue
			}
			switch {
			case event.Op.Has(fsnotify.Create):
				w.logger.Info().Str("file", filepath.Base(event.Name)).Msg("Detected new file")
				w.pending[event.Name] = time.Now()
			case event.Op.Has(fsnotify.Write):
				w.pending[event.Name] = time.Now()
			case event.Op.Has(fsnotify.Remove), event.Op.Has(fsnotify.Rename):
				delete(w.pending, event.Name)
			}

		case err, ok := <-notifier.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn().Err(err).Msg("Filesystem watcher error")

		case <-ticker.C:
			// Catch files whose events were missed.
			w.sweepExisting(ctx, false)
			w.processSettled(ctx)
		}
	}
}

// sweepExisting registers untracked JSON files in the watch dir. When
// immediate is set they are imported right away instead of settling.
func (w *Watcher) sweepExisting(ctx context.Context, immediate bool) {
	entries, err := os.ReadDir(w.config.Dir)
	if err != nil {
		w.logger.Warn().Err(err).Msg("Failed to scan watch directory")
		return
	}
	for _, entry := range entries {
		if entry.IsDir() || !isJSONFile(entry.Name()) {
			continue
		}
		path := filepath.Join(w.config.Dir, entry.Name())
		if immediate {
			w.logger.Info().Str("file", entry.Name()).Msg("Found existing file")
			w.importFile(ctx, path)
			continue
		}
		if _, tracked := w.pending[path]; !tracked {
			w.pending[path] = time.Now()
		}
	}
}

// processSettled imports every pending file that has gone quiet for
// the settle window.
func (w *Watcher) processSettled(ctx context.Context) {
	now := time.Now()
	for path, lastChange := range w.pending {
		if now.Sub(lastChange) < w.config.Settle {
			continue
		}
		delete(w.pending, path)
		w.importFile(ctx, path)
	}
}

// importFile imports one file and files it under processed/ or
// failed/ with a timestamped name.
func (w *Watcher) importFile(ctx context.Context, path string) {
	filename := filepath.Base(path)
	w.logger.Info().Str("file", filename).Msg("Importing")

	data, err := os.ReadFile(path)
	if err != nil {
		w.moveToFailed(path, filename, err.Error())
		return
	}

	result, err := w.session.Import(ctx, data)
	if err != nil {
		w.moveToFailed(path, filename, err.Error())
		return
	}
	if !result.Success {
		w.moveToFailed(path, filename, strings.Join(result.Errors, "; "))
		return
	}

	w.logger.Info().
		Str("file", filename).
		Int("prospects_created", result.ProspectsCreated).
		Int("prospects_updated", result.ProspectsUpdated).
		Int("contacts_created", result.ContactsCreated).
		Msg("Imported")
	for _, warning := range result.Warnings {
		w.logger.Warn().Str("file", filename).Msg(warning)
	}

	destName := timestamp() + "_" + filename
	if err := os.Rename(path, filepath.Join(w.processedDir(), destName)); err != nil {
		w.logger.Error().Err(err).Str("file", filename).Msg("Failed to move processed file")
		return
	}
	w.metrics.FileProcessed("processed")
	w.logger.Info().Str("dest", "processed/"+destName).Msg("Moved")
}

// moveToFailed files a failed drop under failed/ next to an error log
// recording what went wrong.
func (w *Watcher) moveToFailed(path, filename, errText string) {
	w.logger.Error().Str("file", filename).Str("error", errText).Msg("Import failed")

	ts := timestamp()
	destName := ts + "_" + filename
	if err := os.Rename(path, filepath.Join(w.failedDir(), destName)); err != nil {
		w.logger.Error().Err(err).Str("file", filename).Msg("Failed to move failed file")
		return
	}

	errorLog := fmt.Sprintf("File: %s\nTime: %s\nError: %s\n",
		filename, time.Now().Format(time.RFC3339), errText)
	logPath := filepath.Join(w.failedDir(), destName+".error.txt")
	if err := os.WriteFile(logPath, []byte(errorLog), 0o644); err != nil {
		w.logger.Error().Err(err).Str("file", filename).Msg("Failed to write error log")
	}

	w.metrics.FileProcessed("failed")
	w.logger.Info().Str("dest", "failed/"+destName).Msg("Moved")
}

func isJSONFile(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".json")
}

func timestamp() string {
	return time.Now().Format("20060102_150405")
}
