// Package app wires configuration, logging and the reconciliation packages
// into the catmatch command line.
package app

import (
	"io"
	"os"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/agentstation/catmatch/internal/report"
	"github.com/agentstation/catmatch/pkg/errors"
	"github.com/agentstation/catmatch/pkg/mapping"
)

// App holds the dependencies shared by every command.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger
	stdout io.Writer
	runID  string
	writer *report.Writer

	// Mapping table (lazy-initialized, singleton)
	mu    sync.RWMutex
	table *mapping.Table
	pairs []mapping.Pair
}

// New creates an App with configuration loaded from the environment.
// opts are applied last.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
		stdout:  os.Stdout,
		runID:   uuid.NewString(),
		writer:  report.NewWriter(),
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// RunID identifies this invocation in logs and metrics.
func (a *App) RunID() string {
	return a.runID
}

// Table returns the mapping table, loading the configured overlay on first use.
func (a *App) Table() (*mapping.Table, error) {
	a.mu.RLock()
	if a.table != nil {
		t := a.table
		a.mu.RUnlock()
		return t, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.table != nil {
		return a.table, nil
	}

	if a.config.MappingFile == "" {
		a.table = mapping.Default()
		a.pairs = mapping.CuratedPairs()
	} else {
		extra, err := mapping.LoadPairs(a.config.MappingFile)
		if err != nil {
			return nil, errors.NewConfigError("mapping", "cannot load mapping overlay", err)
		}
		a.table = mapping.WithOverlay(extra)
		a.pairs = append(mapping.CuratedPairs(), extra...)
	}
	a.logger.Debug().
		Int("entries", a.table.Len()).
		Str("overlay", a.config.MappingFile).
		Msg("mapping table ready")
	return a.table, nil
}

// Pairs returns the pairs the table was built from, curated first.
func (a *App) Pairs() ([]mapping.Pair, error) {
	if _, err := a.Table(); err != nil {
		return nil, err
	}
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.pairs, nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithStdout redirects command output.
func WithStdout(w io.Writer) Option {
	return func(a *App) error {
		a.stdout = w
		return nil
	}
}

// WithRunID fixes the run id.
func WithRunID(id string) Option {
	return func(a *App) error {
		if id == "" {
			return errors.NewValidationError("run_id", id, "must not be empty")
		}
		a.runID = id
		return nil
	}
}

// WithReportWriter sets the writer used to save reports.
func WithReportWriter(w *report.Writer) Option {
	return func(a *App) error {
		a.writer = w
		return nil
	}
}

// WithTable sets the mapping table (useful for testing).
func WithTable(t *mapping.Table) Option {
	return func(a *App) error {
		a.table = t
		return nil
	}
}
