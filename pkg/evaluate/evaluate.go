// Package evaluate compares the Spanish CATEGORY label of every row of an event
// log with the English category embedded in its NEW_RESULT record.
//
// A row counts only when both sides yield a non-empty slug. The Spanish slug is
// translated through a mapping.Table; slugs the table does not know are assumed
// to already be canonical.
package evaluate

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"

	"github.com/agentstation/catmatch/pkg/errors"
	"github.com/agentstation/catmatch/pkg/header"
	"github.com/agentstation/catmatch/pkg/logging"
	"github.com/agentstation/catmatch/pkg/mapping"
	"github.com/agentstation/catmatch/pkg/record"
	"github.com/agentstation/catmatch/pkg/slug"
)

// Delimiter is the field separator of the event logs.
const Delimiter = ';'

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Outcome is the result of evaluating one row.
type Outcome int

const (
	// Skipped rows lack a usable label on either side and are not counted.
	Skipped Outcome = iota
	// Matched rows agree after translation.
	Matched
	// Mismatched rows disagree after translation.
	Mismatched
)

func (o Outcome) String() string {
	switch o {
	case Matched:
		return "matched"
	case Mismatched:
		return "mismatched"
	default:
		return "skipped"
	}
}

// Mismatch is the evidence kept for a disagreeing row. Absent columns are "".
type Mismatch struct {
	AdministrativeCode string `json:"administrative_code" yaml:"administrative_code"`
	ID                 string `json:"id" yaml:"id"`
	CreatedAt          string `json:"created_at" yaml:"created_at"`
	EndAt              string `json:"end_at" yaml:"end_at"`
	JSON               string `json:"json" yaml:"json"`
	CategoryES         string `json:"category_es" yaml:"category_es"`
	CategoryEN         string `json:"category_en" yaml:"category_en"`
}

// Result aggregates the evaluation of one file.
type Result struct {
	FileName     string     `json:"file_name" yaml:"file_name"`
	Total        int        `json:"total" yaml:"total"`
	Matches      int        `json:"matches" yaml:"matches"`
	Mismatches   int        `json:"mismatches" yaml:"mismatches"`
	MatchRate    float64    `json:"match_rate" yaml:"match_rate"`
	MismatchRows []Mismatch `json:"mismatch_rows,omitempty" yaml:"mismatch_rows,omitempty"`
}

// Rate returns matches/total, or 0 when no row was counted.
func Rate(matches, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(matches) / float64(total)
}

// EvaluateRow classifies a single data row. The returned Mismatch is nil unless
// the outcome is Mismatched.
func EvaluateRow(row []string, fields header.Fields, table *mapping.Table) (Outcome, *Mismatch) {
	rawCategory := header.Cell(row, fields.Category)
	rawResult := header.Cell(row, fields.NewResult)

	catSlug := slug.Normalize(rawCategory)
	english := record.ExtractCategory(rawResult)
	enSlug := slug.Normalize(english)
	if catSlug == "" || enSlug == "" {
		return Skipped, nil
	}

	if table.Expected(catSlug) == enSlug {
		return Matched, nil
	}

	return Mismatched, &Mismatch{
		AdministrativeCode: header.Cell(row, fields.AdministrativeCode),
		ID:                 header.Cell(row, fields.ID),
		CreatedAt:          header.Cell(row, fields.CreatedAt),
		EndAt:              header.Cell(row, fields.EndAt),
		JSON:               header.Cell(row, fields.JSON),
		CategoryES:         rawCategory,
		CategoryEN:         english,
	}
}

// File evaluates the CSV file at path. The result is named after the file's
// base name. Only failures to open or read the file are returned.
func File(ctx context.Context, path string, table *mapping.Table) (Result, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from input discovery
	if err != nil {
		return Result{FileName: filepath.Base(path)}, errors.WrapIO("open", path, err)
	}
	defer func() { _ = f.Close() }()

	return Reader(ctx, filepath.Base(path), f, table)
}

// Reader evaluates semicolon-delimited CSV read from r.
func Reader(ctx context.Context, name string, r io.Reader, table *mapping.Table) (Result, error) {
	ctx = logging.WithFile(ctx, name)
	logger := logging.FromContext(ctx)
	res := Result{FileName: name}
	if table == nil {
		table = mapping.Default()
	}

	cr, err := newCSVReader(r)
	if err != nil {
		return res, errors.WrapIO("read", name, err)
	}

	first, err := cr.Read()
	if err == io.EOF {
		logger.Debug().Msg("empty file")
		return res, nil
	}
	if err != nil {
		return res, errors.WrapIO("read", name, err)
	}

	cols := header.Infer(first)
	fields := cols.Resolve()
	if !fields.Comparable() {
		logger.Warn().
			Strs("columns", cols.Names).
			Err(errors.ErrMissingColumns).
			Msg("skipping file without CATEGORY and NEW_RESULT columns")
		return res, nil
	}
	logger.Debug().
		Bool("has_header", cols.HasHeader).
		Strs("columns", cols.Names).
		Msg("columns resolved")

	row := first
	if cols.HasHeader {
		row = nil
	}
	for {
		if row != nil {
			if err := ctx.Err(); err != nil {
				return res, err
			}
			res.add(EvaluateRow(row, fields, table))
		}
		row, err = cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return res, errors.WrapIO("read", name, err)
		}
	}

	res.MatchRate = Rate(res.Matches, res.Total)
	logger.Info().
		Int("total", res.Total).
		Int("matches", res.Matches).
		Int("mismatches", res.Mismatches).
		Float64("match_rate", res.MatchRate).
		Msg("file evaluated")
	return res, nil
}

func (r *Result) add(o Outcome, m *Mismatch) {
	switch o {
	case Matched:
		r.Total++
		r.Matches++
	case Mismatched:
		r.Total++
		r.Mismatches++
		r.MismatchRows = append(r.MismatchRows, *m)
	}
}

// newCSVReader drops a leading UTF-8 byte order mark and configures the
// reader for the loose exports seen in practice.
func newCSVReader(r io.Reader) (*csv.Reader, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(len(utf8BOM))
	if err != nil && err != io.EOF {
		return nil, err
	}
	if bytes.Equal(head, utf8BOM) {
		if _, err := br.Discard(len(utf8BOM)); err != nil {
			return nil, err
		}
	}

	cr := csv.NewReader(br)
	cr.Comma = Delimiter
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	return cr, nil
}
