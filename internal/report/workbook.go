//go:build !noxlsx

package report

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/agentstation/catmatch/pkg/constants"
	"github.com/agentstation/catmatch/pkg/evaluate"
)

// WorkbookSupported reports whether this binary can write xlsx files.
const WorkbookSupported = true

// percentNumFmt is the built-in "0.00%" number format.
const percentNumFmt = 10

// encodeWorkbook renders the summary sheet followed by one sheet per result.
func encodeWorkbook(results []evaluate.Result) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), constants.SummarySheet); err != nil {
		return nil, fmt.Errorf("failed to rename summary sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	percentStyle, err := f.NewStyle(&excelize.Style{NumFmt: percentNumFmt})
	if err != nil {
		return nil, fmt.Errorf("failed to create percent style: %w", err)
	}

	if err := writeSummarySheet(f, results, headerStyle, percentStyle); err != nil {
		return nil, err
	}

	namer := newSheetNamer(constants.SummarySheet)
	for _, r := range results {
		sheet := namer.next(strings.TrimSuffix(r.FileName, filepath.Ext(r.FileName)))
		if err := writeMismatchSheet(f, sheet, r.MismatchRows, headerStyle); err != nil {
			return nil, err
		}
	}

	f.SetActiveSheet(0)
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSummarySheet(f *excelize.File, results []evaluate.Result, headerStyle, percentStyle int) error {
	sheet := constants.SummarySheet
	if err := writeHeader(f, sheet, SummaryHeader, headerStyle); err != nil {
		return err
	}

	for i, r := range results {
		row := []any{r.FileName, r.Total, r.Matches, r.Mismatches, r.MatchRate}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write summary row: %w", err)
		}
	}

	if len(results) > 0 {
		first, _ := excelize.CoordinatesToCellName(len(SummaryHeader), 2)
		last, _ := excelize.CoordinatesToCellName(len(SummaryHeader), len(results)+1)
		if err := f.SetCellStyle(sheet, first, last, percentStyle); err != nil {
			return fmt.Errorf("failed to format match rates: %w", err)
		}
	}
	return f.SetColWidth(sheet, "A", "A", 40)
}

func writeMismatchSheet(f *excelize.File, sheet string, rows []evaluate.Mismatch, headerStyle int) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %q: %w", sheet, err)
	}
	if err := writeHeader(f, sheet, MismatchHeader, headerStyle); err != nil {
		return err
	}

	for i, m := range rows {
		row := []any{m.AdministrativeCode, m.ID, m.CreatedAt, m.EndAt, m.JSON, m.CategoryES, m.CategoryEN}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write mismatch row: %w", err)
		}
	}

	for i := range MismatchHeader {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(sheet, col, col, 20); err != nil {
			return err
		}
	}
	return nil
}

func writeHeader(f *excelize.File, sheet string, header []string, style int) error {
	row := make([]any, len(header))
	for i, h := range header {
		row[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &row); err != nil {
		return fmt.Errorf("failed to write header of %q: %w", sheet, err)
	}
	last, _ := excelize.CoordinatesToCellName(len(header), 1)
	return f.SetCellStyle(sheet, "A1", last, style)
}
