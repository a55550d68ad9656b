// Package logging wraps zerolog for catmatch. Terminals get the human-readable
// console writer, everything else gets JSON lines, so stdout stays reserved for
// the summary.
//
// Loggers travel in the context:
//
//	ctx = logging.WithLogger(ctx, &logger)
//	ctx = logging.WithFile(ctx, "events.csv")
//	logging.FromContext(ctx).Debug().Msg("columns resolved")
package logging

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// defaultLogger serves contexts that carry no logger.
var defaultLogger = zerolog.New(os.Stderr).With().Timestamp().Logger()

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
