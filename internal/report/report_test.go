//go:build !noxlsx

package report_test

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/agentstation/catmatch/internal/report"
	"github.com/agentstation/catmatch/pkg/errors"
	"github.com/agentstation/catmatch/pkg/evaluate"
)

func sampleResults() []evaluate.Result {
	return []evaluate.Result{
		{
			FileName:   "events.csv",
			Total:      2,
			Matches:    1,
			Mismatches: 1,
			MatchRate:  0.5,
			MismatchRows: []evaluate.Mismatch{{
				AdministrativeCode: "A2",
				ID:                 "2",
				CreatedAt:          "2024-01-01",
				EndAt:              "2024-01-02",
				JSON:               "{'diagnostic_type': 'x'}",
				CategoryES:         "Corte de Fibra",
				CategoryEN:         "energy_client",
			}},
		},
		{FileName: "reports:q1.csv"},
		{FileName: "EVENTS.csv"},
	}
}

func TestWrite_Workbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "category_match_report.xlsx")

	written, err := report.Write(context.Background(), path, sampleResults())
	require.NoError(t, err)
	assert.Equal(t, report.Written{Path: path, Requested: path}, written)

	f, err := excelize.OpenFile(path, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{"Summary", "events", "reports_q1", "EVENTS1"}, f.GetSheetList())

	summary, err := f.GetRows("Summary")
	require.NoError(t, err)
	require.Len(t, summary, 4)
	assert.Equal(t, report.SummaryHeader, summary[0])
	assert.Equal(t, []string{"events.csv", "2", "1", "1", "0.5"}, summary[1])

	styleID, err := f.GetCellStyle("Summary", "E2")
	require.NoError(t, err)
	style, err := f.GetStyle(styleID)
	require.NoError(t, err)
	assert.Equal(t, 10, style.NumFmt)

	headerStyleID, err := f.GetCellStyle("Summary", "A1")
	require.NoError(t, err)
	headerStyle, err := f.GetStyle(headerStyleID)
	require.NoError(t, err)
	require.NotNil(t, headerStyle.Font)
	assert.True(t, headerStyle.Font.Bold)

	rows, err := f.GetRows("events")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, report.MismatchHeader, rows[0])
	assert.Equal(t, []string{"A2", "2", "2024-01-01", "2024-01-02", "{'diagnostic_type': 'x'}", "Corte de Fibra", "energy_client"}, rows[1])

	empty, err := f.GetRows("reports_q1")
	require.NoError(t, err)
	assert.Len(t, empty, 1)
}

func TestWrite_QuotedFileName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "r.xlsx")
	results := []evaluate.Result{
		{FileName: "ok.csv", Total: 1, Matches: 1, MatchRate: 1},
		{FileName: "'quoted'.csv"},
	}

	written, err := report.Write(context.Background(), path, results)
	require.NoError(t, err)
	assert.Equal(t, path, written.Path)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	assert.Equal(t, []string{"Summary", "ok", "_quoted_"}, f.GetSheetList())

	summary, err := f.GetRows("Summary")
	require.NoError(t, err)
	require.Len(t, summary, 3)
	assert.Equal(t, "'quoted'.csv", summary[2][0])
}

func TestWrite_BusyPathFallsBack(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "category_match_report.xlsx")
	at := time.Date(2024, 3, 9, 14, 5, 7, 0, time.Local)

	var attempts []string
	w := report.NewWriter(
		report.WithClock(func() time.Time { return at }),
		report.WithFileWriter(func(name string, data []byte, perm os.FileMode) error {
			attempts = append(attempts, name)
			if name == path {
				return &fs.PathError{Op: "open", Path: name, Err: fs.ErrPermission}
			}
			return os.WriteFile(name, data, perm)
		}),
	)

	written, err := w.Write(context.Background(), path, sampleResults())
	require.NoError(t, err)

	alt := filepath.Join(dir, "category_match_report_20240309_140507.xlsx")
	assert.Equal(t, []string{path, alt}, attempts)
	assert.Equal(t, alt, written.Path)
	assert.Equal(t, path, written.Requested)
	assert.True(t, written.Substituted)
	assert.FileExists(t, alt)
}

func TestWrite_FallbackAlsoFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "r.xlsx")
	w := report.NewWriter(report.WithFileWriter(func(name string, _ []byte, _ os.FileMode) error {
		return &fs.PathError{Op: "open", Path: name, Err: fs.ErrPermission}
	}))

	written, err := w.Write(context.Background(), path, nil)
	require.Error(t, err)
	assert.True(t, written.Substituted)

	var ioErr *errors.IOError
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, written.Path, ioErr.Path)
	assert.ErrorIs(t, err, fs.ErrPermission)
}

func TestWrite_OtherErrorsAreNotRetried(t *testing.T) {
	calls := 0
	w := report.NewWriter(report.WithFileWriter(func(string, []byte, os.FileMode) error {
		calls++
		return assert.AnError
	}))

	_, err := w.Write(context.Background(), filepath.Join(t.TempDir(), "r.xlsx"), nil)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, 1, calls)
}

func TestPaths(t *testing.T) {
	at := time.Date(2025, 12, 31, 23, 59, 1, 0, time.Local)
	assert.Equal(t, "out/report_20251231_235901.xlsx", report.FallbackPath("out/report.xlsx", at))
	assert.Equal(t, "report_20251231_235901", report.FallbackPath("report", at))
	assert.Equal(t, "out/report.csv", report.CSVPath("out/report.xlsx"))
	assert.True(t, report.WorkbookSupported)
}
