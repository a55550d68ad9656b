package app

import (
	"context"
	"path/filepath"

	"github.com/agentstation/catmatch/internal/cmd/output"
	"github.com/agentstation/catmatch/internal/discover"
	"github.com/agentstation/catmatch/internal/metrics"
	"github.com/agentstation/catmatch/pkg/constants"
	"github.com/agentstation/catmatch/pkg/evaluate"
	"github.com/agentstation/catmatch/pkg/logging"
)

// RunReport evaluates every discovered input in order, writes the report and,
// when configured, the metrics textfile. A file that cannot be read counts
// as empty. The only error before the report is written is a missing input
// set (errors.ErrNoInputs) or a broken configuration.
func (a *App) RunReport(ctx context.Context) (output.Summary, error) {
	ctx = a.commandContext(ctx, "report")
	logger := logging.FromContext(ctx)
	summary := output.Summary{RunID: a.runID}

	table, err := a.Table()
	if err != nil {
		return summary, err
	}

	files, err := discover.Files(logging.WithOperation(ctx, "discover"), discover.Options{
		Root:       a.config.Dir,
		Subdirs:    a.config.Subdirs,
		Exclude:    a.config.Exclude,
		ReportName: a.config.Output,
	})
	if err != nil {
		return summary, err
	}
	logger.Info().Int("files", len(files)).Msg("starting report")

	evalCtx := logging.WithOperation(ctx, "evaluate")
	summary.Files = make([]evaluate.Result, 0, len(files))
	for _, path := range files {
		res, err := evaluate.File(evalCtx, path, table)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return summary, ctxErr
			}
			logging.FromContext(evalCtx).Warn().Err(err).Str("path", path).Msg("input skipped")
			res = evaluate.Result{FileName: filepath.Base(path)}
		}
		summary.Files = append(summary.Files, res)
	}

	written, err := a.writer.Write(logging.WithOperation(ctx, "write"), a.reportPath(), summary.Files)
	if err != nil {
		return summary, err
	}
	summary.Report = &written

	if a.config.MetricsFile != "" {
		a.writeMetrics(ctx, summary.Files)
	}
	return summary, nil
}

// reportPath resolves the configured output name against the input directory.
func (a *App) reportPath() string {
	name := a.config.Output
	if name == "" {
		name = constants.DefaultReportName
	}
	if filepath.IsAbs(name) {
		return name
	}
	dir := a.config.Dir
	if dir == "" {
		dir = "."
	}
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	return filepath.Join(dir, name)
}

// writeMetrics exports the run. Failures are logged and never fail the run.
func (a *App) writeMetrics(ctx context.Context, results []evaluate.Result) {
	ctx = logging.WithOperation(ctx, "metrics")
	rec := metrics.NewRecorder(logging.RunID(ctx))
	for _, res := range results {
		rec.Observe(res)
	}
	rec.Finish()

	logger := logging.FromContext(ctx)
	if err := rec.WriteTextfile(a.config.MetricsFile); err != nil {
		logger.Warn().Err(err).Str("path", a.config.MetricsFile).Msg("metrics not written")
		return
	}
	logger.Debug().Str("path", a.config.MetricsFile).Msg("metrics written")
}
