package app

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/agentstation/catmatch/pkg/logging"
)

// ContextWithSignals returns a context cancelled on SIGINT or SIGTERM.
func ContextWithSignals(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}

// commandContext attaches the app logger, the run id and the command name.
func (a *App) commandContext(ctx context.Context, command string) context.Context {
	ctx = logging.WithLogger(ctx, a.logger)
	ctx = logging.WithRunID(ctx, a.runID)
	return logging.WithCommand(ctx, command)
}
