package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/agentstation/catmatch/internal/cmd/table"
	"github.com/agentstation/catmatch/internal/report"
	"github.com/agentstation/catmatch/pkg/evaluate"
	"github.com/agentstation/catmatch/pkg/mapping"
)

// Summary is the outcome of a report run.
type Summary struct {
	RunID  string            `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	Files  []evaluate.Result `json:"files" yaml:"files"`
	Report *report.Written   `json:"report,omitempty" yaml:"report,omitempty"`
}

// Text renders the classic console summary.
func (s Summary) Text() string {
	var b strings.Builder
	if s.Report != nil {
		switch {
		case s.Report.Degraded:
			fmt.Fprintf(&b, "Excel not created (workbook support not built in). Wrote CSV fallback: %s\n", s.Report.Path)
		case s.Report.Substituted:
			fmt.Fprintf(&b, "Output file was in use. Saved to fallback: %s\n", s.Report.Path)
		}
	}

	b.WriteString("Summary (file_name, total, matches, mismatches, match_rate):\n")
	for _, r := range s.Files {
		fmt.Fprintf(&b, "%s, %d, %d, %d, %s\n", r.FileName, r.Total, r.Matches, r.Mismatches, report.FormatRate(r.MatchRate))
	}

	if s.Report != nil {
		fmt.Fprintf(&b, "\nReport written to: %s\n", s.Report.Path)
		if s.Report.Degraded {
			b.WriteString(report.InstallHint + "\n")
		}
	}
	return b.String()
}

// Table renders one row per file.
func (s Summary) Table() table.Data {
	return table.SummaryToTableData(s.Files)
}

// Footer names the written report.
func (s Summary) Footer() string {
	if s.Report == nil {
		return ""
	}
	return "Report written to: " + s.Report.Path
}

// Evaluation is the per-file detail printed by the evaluate command.
type Evaluation struct {
	evaluate.Result `yaml:",inline"`
}

// Text prints the summary line followed by the mismatching rows.
func (e Evaluation) Text() string {
	var b strings.Builder
	r := e.Result
	fmt.Fprintf(&b, "%s, %d, %d, %d, %s\n", r.FileName, r.Total, r.Matches, r.Mismatches, report.FormatRate(r.MatchRate))
	for _, m := range r.MismatchRows {
		fmt.Fprintf(&b, "  %s / %s: %q != %q\n", m.AdministrativeCode, m.ID, m.CategoryES, m.CategoryEN)
	}
	return b.String()
}

// Table lists the mismatching rows.
func (e Evaluation) Table() table.Data {
	return table.MismatchesToTableData(e.MismatchRows)
}

// Footer repeats the file totals.
func (e Evaluation) Footer() string {
	r := e.Result
	return fmt.Sprintf("%s: %d compared, %d matched, %d mismatched (%s)",
		r.FileName, r.Total, r.Matches, r.Mismatches, report.FormatRate(r.MatchRate))
}

// Mapping is the translation table printed by the mapping command.
type Mapping struct {
	Entries   []mapping.Entry    `json:"entries" yaml:"entries"`
	Conflicts []mapping.Conflict `json:"conflicts,omitempty" yaml:"conflicts,omitempty"`
}

// Text prints "source -> target" lines, then any conflicts.
func (m Mapping) Text() string {
	var b strings.Builder
	for _, e := range m.Entries {
		fmt.Fprintf(&b, "%s -> %s\n", e.Source, e.Target)
	}
	for _, c := range m.Conflicts {
		fmt.Fprintf(&b, "conflict: %s -> %s (kept %s)\n", c.Source, strings.Join(c.Targets, ", "), c.Targets[len(c.Targets)-1])
	}
	return b.String()
}

// Table lists entries, or conflicts when any were requested and found.
func (m Mapping) Table() table.Data {
	if len(m.Conflicts) > 0 {
		return table.ConflictsToTableData(m.Conflicts)
	}
	return table.MappingToTableData(m.Entries)
}

// Footer counts the entries.
func (m Mapping) Footer() string {
	return fmt.Sprintf("%d entries, %d conflicts", len(m.Entries), len(m.Conflicts))
}

// Slug is one normalize command result.
type Slug struct {
	Input string `json:"input" yaml:"input"`
	Slug  string `json:"slug" yaml:"slug"`
}

// Slugs is the output of the normalize command.
type Slugs []Slug

// Text prints one slug per line.
func (s Slugs) Text() string {
	var b strings.Builder
	for _, x := range s {
		b.WriteString(x.Slug + "\n")
	}
	return b.String()
}

// Table pairs inputs with slugs.
func (s Slugs) Table() table.Data {
	inputs := make([]string, len(s))
	slugs := make([]string, len(s))
	for i, x := range s {
		inputs[i], slugs[i] = x.Input, x.Slug
	}
	return table.SlugsToTableData(inputs, slugs)
}

// Write formats data to w in the given format.
func Write(w io.Writer, format Format, data any) error {
	return NewFormatter(format).Format(w, data)
}
