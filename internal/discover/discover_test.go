package discover_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/catmatch/internal/discover"
	"github.com/agentstation/catmatch/pkg/errors"
)

func touch(t *testing.T, parts ...string) string {
	t.Helper()
	path := filepath.Join(parts...)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("CATEGORY;NEW_RESULT\n"), 0o600))
	return path
}

func TestFiles_RootAndReports(t *testing.T) {
	root := t.TempDir()
	b := touch(t, root, "b.csv")
	a := touch(t, root, "a.csv")
	r := touch(t, root, "reports", "r.csv")
	touch(t, root, "notes.txt")
	touch(t, root, "nested", "deep.csv")
	touch(t, root, "Category_Match_Report.CSV")
	touch(t, root, "reports", "category_match_report.csv")
	touch(t, root, "category_match_report_20240101_120000.csv")
	require.NoError(t, os.Mkdir(filepath.Join(root, "dir.csv"), 0o755))

	files, err := discover.Files(context.Background(), discover.Options{Root: root})
	require.NoError(t, err)
	assert.Equal(t, []string{a, b, r}, files)
}

func TestFiles_NoInputs(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "category_match_report.csv")

	files, err := discover.Files(context.Background(), discover.Options{Root: root})
	assert.Nil(t, files)
	assert.ErrorIs(t, err, errors.ErrNoInputs)
	assert.True(t, errors.IsNoInputs(err))
}

func TestFiles_SkipsHiddenFiles(t *testing.T) {
	root := t.TempDir()
	a := touch(t, root, "a.csv")
	touch(t, root, ".~lock.a.csv#")
	touch(t, root, ".hidden.csv")
	touch(t, root, "reports", ".draft.csv")

	files, err := discover.Files(context.Background(), discover.Options{Root: root})
	require.NoError(t, err)
	assert.Equal(t, []string{a}, files)
}

func TestFiles_MissingRoot(t *testing.T) {
	_, err := discover.Files(context.Background(), discover.Options{Root: filepath.Join(t.TempDir(), "gone")})
	assert.ErrorIs(t, err, errors.ErrNoInputs)
}

func TestFiles_CustomReportName(t *testing.T) {
	root := t.TempDir()
	keep := touch(t, root, "category_match_report.csv")
	touch(t, root, "weekly.csv")

	files, err := discover.Files(context.Background(), discover.Options{
		Root:       root,
		ReportName: filepath.Join("out", "weekly.xlsx"),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{keep}, files)
}

func TestFiles_PatternsAndSubdirs(t *testing.T) {
	root := t.TempDir()
	extra := t.TempDir()
	keep := touch(t, root, "events_2024.csv")
	touch(t, root, "events_draft.csv")
	tsv := touch(t, extra, "more.tsv")
	touch(t, root, "reports", "skipped.csv")

	files, err := discover.Files(context.Background(), discover.Options{
		Root:    root,
		Subdirs: []string{extra, "."},
		Include: []string{"*.csv", "*.tsv"},
		Exclude: []string{`_draft\.csv$`},
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{keep, tsv}, files)
	assert.IsIncreasing(t, files)
}

func TestFiles_InvalidPattern(t *testing.T) {
	_, err := discover.Files(context.Background(), discover.Options{
		Root:    t.TempDir(),
		Exclude: []string{"(broken"},
	})
	var cfgErr *errors.ConfigError
	assert.True(t, errors.As(err, &cfgErr))
}
