// Package table turns reconciliation data into rows for tabular output.
package table

import (
	"strconv"
	"strings"

	"github.com/agentstation/catmatch/internal/report"
	"github.com/agentstation/catmatch/pkg/evaluate"
	"github.com/agentstation/catmatch/pkg/mapping"
)

// Align represents column alignment in tables.
type Align int

const (
	// AlignDefault uses the default alignment (skip).
	AlignDefault Align = iota
	// AlignLeft aligns content to the left.
	AlignLeft
	// AlignCenter centers content.
	AlignCenter
	// AlignRight aligns content to the right.
	AlignRight
)

// Data represents table formatting data to avoid import cycles.
type Data struct {
	Headers         []string
	Rows            [][]string
	ColumnAlignment []Align // Optional: column alignment
}

// maxCellWidth bounds long embedded records in table cells.
const maxCellWidth = 60

// SummaryToTableData lists one row per evaluated file.
func SummaryToTableData(results []evaluate.Result) Data {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{
			r.FileName,
			strconv.Itoa(r.Total),
			strconv.Itoa(r.Matches),
			strconv.Itoa(r.Mismatches),
			report.FormatRate(r.MatchRate),
		})
	}

	return Data{
		Headers:         []string{"File", "Total", "Matches", "Mismatches", "Match Rate"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignRight, AlignRight, AlignRight, AlignRight},
	}
}

// MismatchesToTableData lists the disagreeing rows of one file.
func MismatchesToTableData(rows []evaluate.Mismatch) Data {
	out := make([][]string, 0, len(rows))
	for _, m := range rows {
		out = append(out, []string{
			dash(m.AdministrativeCode),
			dash(m.ID),
			dash(m.CreatedAt),
			dash(m.EndAt),
			dash(Truncate(m.JSON, maxCellWidth)),
			dash(m.CategoryES),
			dash(m.CategoryEN),
		})
	}
	return Data{Headers: report.MismatchHeader, Rows: out}
}

// MappingToTableData lists normalized table entries.
func MappingToTableData(entries []mapping.Entry) Data {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.Source, e.Target})
	}
	return Data{Headers: []string{"Source", "Target"}, Rows: rows}
}

// ConflictsToTableData lists source slugs with competing targets. The kept
// target is the last one.
func ConflictsToTableData(conflicts []mapping.Conflict) Data {
	rows := make([][]string, 0, len(conflicts))
	for _, c := range conflicts {
		kept := c.Targets[len(c.Targets)-1]
		rows = append(rows, []string{c.Source, strings.Join(c.Targets, ", "), kept})
	}
	return Data{Headers: []string{"Source", "Targets", "Kept"}, Rows: rows}
}

// SlugsToTableData pairs raw inputs with their slugs.
func SlugsToTableData(inputs, slugs []string) Data {
	rows := make([][]string, 0, len(inputs))
	for i, in := range inputs {
		rows = append(rows, []string{in, dash(slugs[i])})
	}
	return Data{Headers: []string{"Input", "Slug"}, Rows: rows}
}

// Truncate shortens s to at most n runes, marking the cut with "...".
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n || n < 4 {
		return s
	}
	return string(r[:n-3]) + "..."
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
