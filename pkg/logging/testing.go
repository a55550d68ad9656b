package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

// TestLogger keeps JSON log output in memory for assertions.
type TestLogger struct {
	*zerolog.Logger
	Buffer *bytes.Buffer
}

// NewTestLogger returns a trace-level logger writing to an in-memory buffer.
func NewTestLogger(t testing.TB) *TestLogger {
	t.Helper()
	buf := &bytes.Buffer{}
	logger := zerolog.New(buf).Level(zerolog.TraceLevel).With().Timestamp().Logger()
	return &TestLogger{Logger: &logger, Buffer: buf}
}

// Lines returns one entry per logged event.
func (tl *TestLogger) Lines() []string {
	out := strings.TrimSpace(tl.Buffer.String())
	if out == "" {
		return nil
	}
	return strings.Split(out, "\n")
}

// AssertContains fails t when no event contains substr.
func (tl *TestLogger) AssertContains(t testing.TB, substr string) {
	t.Helper()
	if !strings.Contains(tl.Buffer.String(), substr) {
		t.Errorf("log output does not contain %q\noutput:\n%s", substr, tl.Buffer.String())
	}
}

// AssertCount fails t unless exactly n events were logged.
func (tl *TestLogger) AssertCount(t testing.TB, n int) {
	t.Helper()
	if got := len(tl.Lines()); got != n {
		t.Errorf("expected %d log entries, got %d\noutput:\n%s", n, got, tl.Buffer.String())
	}
}

// NewNopLogger returns a logger that discards everything.
func NewNopLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}
