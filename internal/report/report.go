// Package report writes the reconciliation results to disk.
//
// The primary artifact is an xlsx workbook. Binaries built with the noxlsx tag
// write the summary as CSV next to the requested path instead. When the target
// cannot be written, for example because it is open in a spreadsheet program,
// the report is saved under a timestamped name alongside it.
package report

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/agentstation/catmatch/pkg/constants"
	"github.com/agentstation/catmatch/pkg/errors"
	"github.com/agentstation/catmatch/pkg/evaluate"
	"github.com/agentstation/catmatch/pkg/logging"
)

// InstallHint tells operators how to get workbook output back.
const InstallHint = "Note: this build cannot write Excel files. Rebuild without the noxlsx tag to get a workbook."

// Written describes what was saved.
type Written struct {
	// Path is where the report was actually written.
	Path string `json:"path" yaml:"path"`
	// Requested is the path the caller asked for.
	Requested string `json:"requested" yaml:"requested"`
	// Substituted is true when Path is the timestamped fallback.
	Substituted bool `json:"substituted" yaml:"substituted"`
	// Degraded is true when the CSV summary was written instead of a workbook.
	Degraded bool `json:"degraded" yaml:"degraded"`
}

// Writer saves reports. The zero value uses the local clock.
type Writer struct {
	now       func() time.Time
	writeFile func(name string, data []byte, perm os.FileMode) error
}

// Option configures a Writer.
type Option func(*Writer)

// WithClock sets the clock used for fallback names.
func WithClock(now func() time.Time) Option {
	return func(w *Writer) { w.now = now }
}

// WithFileWriter replaces os.WriteFile.
func WithFileWriter(fn func(name string, data []byte, perm os.FileMode) error) Option {
	return func(w *Writer) { w.writeFile = fn }
}

// NewWriter returns a Writer with opts applied.
func NewWriter(opts ...Option) *Writer {
	w := &Writer{now: time.Now, writeFile: os.WriteFile}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write saves results to path, which normally ends in .xlsx.
func (w *Writer) Write(ctx context.Context, path string, results []evaluate.Result) (Written, error) {
	logger := logging.FromContext(ctx)
	out := Written{Requested: path}

	data, err := encodeWorkbook(results)
	switch {
	case errors.Is(err, errors.ErrWorkbookUnavailable):
		path = CSVPath(path)
		out.Degraded = true
		logger.Warn().Str("path", path).Msg("workbook output unavailable, writing CSV summary")
		if data, err = encodeCSV(results); err != nil {
			return out, errors.WrapIO("encode", path, err)
		}
	case err != nil:
		return out, errors.WrapIO("encode", path, err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
			return out, errors.WrapIO("mkdir", dir, err)
		}
	}

	out.Path = path
	err = w.writeFile(path, data, constants.FilePermissions)
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		alt := FallbackPath(path, w.now())
		logger.Warn().Err(err).Str("fallback", alt).Msg("report path busy")
		out.Path = alt
		out.Substituted = true
		err = w.writeFile(alt, data, constants.FilePermissions)
	}
	if err != nil {
		return out, errors.WrapIO("write", out.Path, err)
	}

	logger.Info().
		Str("path", out.Path).
		Bool("degraded", out.Degraded).
		Bool("substituted", out.Substituted).
		Msg("report written")
	return out, nil
}

// Write saves results with a default Writer.
func Write(ctx context.Context, path string, results []evaluate.Result) (Written, error) {
	return NewWriter().Write(ctx, path, results)
}

// CSVPath swaps the extension of path for .csv.
func CSVPath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + constants.FallbackExt
}

// FallbackPath inserts a local timestamp before the extension of path:
// report.xlsx becomes report_20240309_140507.xlsx.
func FallbackPath(path string, at time.Time) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "_" + at.Format(constants.TimestampLayout) + ext
}
