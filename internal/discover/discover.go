// Package discover finds the CSV event logs a report run should evaluate.
package discover

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/agentstation/catmatch/internal/matcher"
	"github.com/agentstation/catmatch/pkg/constants"
	"github.com/agentstation/catmatch/pkg/errors"
	"github.com/agentstation/catmatch/pkg/logging"
)

// Options controls where inputs are searched.
type Options struct {
	// Root is the directory searched first. Empty means the working directory.
	Root string
	// Subdirs are searched below Root as well. Nil means just "reports".
	Subdirs []string
	// Include selects input names. Nil means "*.csv".
	Include []string
	// Exclude drops names that would otherwise be included.
	Exclude []string
	// ReportName is the configured report file. Its CSV sibling and the
	// timestamped variants of that sibling are never treated as inputs.
	ReportName string
}

// Files returns the absolute paths of every input, de-duplicated and sorted.
// Names starting with a dot are skipped.
// It returns errors.ErrNoInputs when nothing was found.
func Files(ctx context.Context, opts Options) ([]string, error) {
	root := opts.Root
	if root == "" {
		root = "."
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.WrapIO("resolve", opts.Root, err)
	}

	include, err := matcher.NewSet(orDefault(opts.Include, constants.InputPattern), matcher.Auto, nil)
	if err != nil {
		return nil, errors.NewConfigError("discover", "invalid include pattern", err)
	}
	exclude, err := matcher.NewSet(opts.Exclude, matcher.Auto, nil)
	if err != nil {
		return nil, errors.NewConfigError("discover", "invalid exclude pattern", err)
	}
	for _, m := range reportMatchers(opts.ReportName) {
		exclude.Add(m)
	}

	logger := logging.FromContext(ctx)
	dirs := append([]string{root}, joinAll(root, orDefault(opts.Subdirs, constants.ReportsDir))...)

	seen := make(map[string]struct{})
	var files []string
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if errors.Is(err, fs.ErrNotExist) {
			logger.Debug().Str("dir", dir).Msg("search directory missing")
			continue
		}
		if err != nil {
			return nil, errors.WrapIO("read", dir, err)
		}
		for _, e := range entries {
			name := e.Name()
			// Hidden files are never inputs, as with a shell glob.
			if e.IsDir() || strings.HasPrefix(name, ".") || !include.Match(name) || exclude.Match(name) {
				continue
			}
			path := filepath.Join(dir, name)
			if _, dup := seen[path]; dup {
				continue
			}
			seen[path] = struct{}{}
			files = append(files, path)
		}
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s", errors.ErrNoInputs, root)
	}
	slices.Sort(files)
	logger.Debug().Int("count", len(files)).Str("root", root).Msg("inputs discovered")
	return files, nil
}

// reportMatchers matches the CSV summary a run may write for reportName,
// including timestamped copies written when the primary path was busy.
func reportMatchers(reportName string) []matcher.Matcher {
	if reportName == "" {
		reportName = constants.DefaultReportName
	}
	base := filepath.Base(reportName)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	opts := &matcher.Options{CaseInsensitive: true, Anchored: true}

	stamped := regexp.QuoteMeta(base) + `_\d{8}_\d{6}` + regexp.QuoteMeta(constants.FallbackExt)
	return []matcher.Matcher{
		matcher.MustNew(matcher.Regex, regexp.QuoteMeta(base+constants.FallbackExt), opts),
		matcher.MustNew(matcher.Regex, stamped, opts),
	}
}

func orDefault(values []string, def string) []string {
	if values == nil {
		return []string{def}
	}
	return values
}

func joinAll(root string, subdirs []string) []string {
	out := make([]string, 0, len(subdirs))
	for _, d := range subdirs {
		if filepath.IsAbs(d) {
			out = append(out, filepath.Clean(d))
			continue
		}
		out = append(out, filepath.Join(root, d))
	}
	return out
}
