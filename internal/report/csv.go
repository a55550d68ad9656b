package report

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/agentstation/catmatch/pkg/evaluate"
)

// SummaryHeader is the header of the summary sheet and of the CSV summary.
var SummaryHeader = []string{"file_name", "total", "matches", "mismatches", "match_rate"}

// MismatchHeader is the header of every per-file sheet.
var MismatchHeader = []string{
	"ADMINISTRATIVE_CODE", "ID", "CREATED_AT", "END_AT", "JSON", "CATEGORY_ES", "CATEGORY_EN",
}

// FormatRate renders a ratio as a percentage with two decimals, e.g. "12.34%".
func FormatRate(rate float64) string {
	return strconv.FormatFloat(rate*100, 'f', 2, 64) + "%"
}

// encodeCSV renders the summary table as comma-separated text.
func encodeCSV(results []evaluate.Result) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(SummaryHeader); err != nil {
		return nil, err
	}
	for _, r := range results {
		record := []string{
			r.FileName,
			strconv.Itoa(r.Total),
			strconv.Itoa(r.Matches),
			strconv.Itoa(r.Mismatches),
			FormatRate(r.MatchRate),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
