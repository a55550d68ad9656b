//go:build noxlsx

package report_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/catmatch/internal/report"
	"github.com/agentstation/catmatch/pkg/evaluate"
)

func TestWrite_DegradedCSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "category_match_report.xlsx")

	written, err := report.Write(context.Background(), path, []evaluate.Result{
		{FileName: "a.csv", Total: 8, Matches: 1, Mismatches: 7, MatchRate: 0.125},
	})
	require.NoError(t, err)
	assert.True(t, written.Degraded)
	assert.Equal(t, filepath.Join(dir, "category_match_report.csv"), written.Path)
	assert.NoFileExists(t, path)

	data, err := os.ReadFile(written.Path)
	require.NoError(t, err)
	assert.Equal(t, "file_name,total,matches,mismatches,match_rate\na.csv,8,1,7,12.50%\n", string(data))
	assert.False(t, report.WorkbookSupported)
}
