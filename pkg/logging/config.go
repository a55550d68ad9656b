package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/catmatch/pkg/constants"
)

// Config selects the level, encoding and destination of a logger. The CLI
// fills it from flags and the log_* config keys.
type Config struct {
	// Level is trace, debug, info, warn or error. Empty or unknown means info.
	Level string

	// Format is auto, json or console. Auto picks console on a terminal.
	Format string

	// Output is stderr, stdout, discard or a file path opened for appending.
	Output string

	// NoColor disables color in console mode.
	NoColor bool

	// AddCaller includes file:line in every event.
	AddCaller bool
}

// NewLoggerFromConfig builds a timestamped logger. A nil cfg logs info and
// above to stderr.
func NewLoggerFromConfig(cfg *Config) zerolog.Logger {
	if cfg == nil {
		cfg = &Config{}
	}

	logger := zerolog.New(newWriter(cfg)).
		Level(parseLevel(cfg.Level)).
		With().
		Timestamp().
		Logger()

	if cfg.AddCaller {
		logger = logger.With().Caller().Logger()
	}
	return logger
}

func newWriter(cfg *Config) io.Writer {
	out := openOutput(cfg.Output)

	console := false
	switch strings.ToLower(cfg.Format) {
	case "console", "pretty":
		console = true
	case "json":
	default:
		f, ok := out.(*os.File)
		console = ok && isTerminal(f)
	}

	if !console {
		return out
	}
	return zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen, NoColor: cfg.NoColor}
}

// openOutput resolves Config.Output. A file that cannot be opened falls back
// to stderr.
func openOutput(output string) io.Writer {
	switch strings.ToLower(output) {
	case "", "stderr":
		return os.Stderr
	case "stdout":
		return os.Stdout
	case "discard", "none":
		return io.Discard
	}

	f, err := os.OpenFile(output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, constants.FilePermissions) //nolint:gosec // operator-chosen log path
	if err != nil {
		return os.Stderr
	}
	return f
}

func parseLevel(level string) zerolog.Level {
	l, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || l == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return l
}
