// Package header decides which CSV column carries which logical field.
//
// Event exports sometimes arrive with a proper header row and sometimes without
// one. Infer looks at the first row: if it names any known field it is used as
// the header, otherwise the row is treated as data and the column roles are
// guessed from position and content.
package header

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/agentstation/catmatch/pkg/record"
	"github.com/agentstation/catmatch/pkg/slug"
)

// Logical column names.
const (
	AdministrativeCode = "ADMINISTRATIVE_CODE"
	ID                 = "ID"
	Category           = "CATEGORY"
	JSON               = "JSON"
	NewResult          = "NEW_RESULT"
	CreatedAt          = "CREATED_AT"
	EndAt              = "END_AT"
)

// positional is the column order assumed for header-less files.
var positional = []string{AdministrativeCode, ID, Category, JSON, NewResult}

// knownSlugs are the slugs that mark a row as a real header.
var knownSlugs = map[string]struct{}{
	"category":            {},
	"new_result":          {},
	"administrative_code": {},
	"json":                {},
	"id":                  {},
	"created_at":          {},
	"end_at":              {},
}

var datePattern = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)

// Columns is the column naming chosen for a file.
type Columns struct {
	// Names holds one name per column of the first row.
	Names []string
	// HasHeader is true when the first row was a header and must be skipped.
	HasHeader bool
}

// ExtraName is the generic name for a column without a known role.
func ExtraName(index int) string {
	return fmt.Sprintf("EXTRA_%d", index)
}

// IsHeader reports whether any cell of row normalizes to a known field name.
func IsHeader(row []string) bool {
	for _, cell := range row {
		if _, ok := knownSlugs[slug.Normalize(cell)]; ok {
			return true
		}
	}
	return false
}

// Infer returns the column naming for a file whose first row is first.
func Infer(first []string) Columns {
	if len(first) == 0 {
		return Columns{}
	}
	if IsHeader(first) {
		names := make([]string, len(first))
		copy(names, first)
		return Columns{Names: names, HasHeader: true}
	}
	return Columns{Names: inferNames(first)}
}

// Positional returns the position-only guess for n columns.
func Positional(n int) []string {
	names := make([]string, n)
	for i := range names {
		if i < len(positional) {
			names[i] = positional[i]
		} else {
			names[i] = ExtraName(i)
		}
	}
	return names
}

func inferNames(row []string) []string {
	names := Positional(len(row))
	cells := make([]string, len(row))
	for i, c := range row {
		cells[i] = strings.ToLower(strings.TrimSpace(c))
	}

	// Embedded record: a dict literal carrying the diagnostic_type key.
	for i, c := range cells {
		if hasKeyMarker(c, "diagnostic_type") && record.IsRecord(row[i]) {
			assign(names, i, JSON)
			break
		}
	}

	// New result: the first other cell carrying the category key.
	sniffedResult := false
	for i, c := range cells {
		if names[i] == JSON {
			continue
		}
		if hasKeyMarker(c, "category") {
			assign(names, i, NewResult)
			sniffedResult = true
			break
		}
	}

	// Timestamps in encounter order; sniffed and comparison roles are kept.
	dateRoles := []string{CreatedAt, EndAt}
	for i, c := range cells {
		if len(dateRoles) == 0 {
			break
		}
		switch names[i] {
		case JSON, NewResult, Category:
			continue
		}
		if datePattern.MatchString(c) {
			names[i] = dateRoles[0]
			dateRoles = dateRoles[1:]
		}
	}

	if !sniffedResult {
		names[len(names)-1] = NewResult
	}

	dedupe(names, JSON)
	dedupe(names, NewResult)
	return names
}

// assign gives column i the role and demotes any other column holding it.
func assign(names []string, i int, role string) {
	for j, n := range names {
		if j != i && n == role {
			names[j] = ExtraName(j)
		}
	}
	names[i] = role
}

// dedupe keeps the first column named role and renames the rest.
func dedupe(names []string, role string) {
	seen := false
	for i, n := range names {
		if n != role {
			continue
		}
		if seen {
			names[i] = ExtraName(i)
		}
		seen = true
	}
}

// hasKeyMarker reports whether cell contains key as a quoted dict key.
func hasKeyMarker(cell, key string) bool {
	return strings.Contains(cell, "'"+key+"'") || strings.Contains(cell, `"`+key+`"`)
}

// Find returns the index of the column named name, compared case-insensitively
// after trimming, or -1. The upper-case comparison is tried first and the
// lower-case one second; within a pass the last matching column wins.
func (c Columns) Find(name string) int {
	want := strings.ToUpper(strings.TrimSpace(name))
	idx := -1
	for i, n := range c.Names {
		if strings.ToUpper(strings.TrimSpace(n)) == want {
			idx = i
		}
	}
	if idx >= 0 {
		return idx
	}
	want = strings.ToLower(strings.TrimSpace(name))
	for i, n := range c.Names {
		if strings.ToLower(strings.TrimSpace(n)) == want {
			idx = i
		}
	}
	return idx
}

// Fields holds the column index of every logical field, -1 when absent.
type Fields struct {
	AdministrativeCode int
	ID                 int
	Category           int
	JSON               int
	NewResult          int
	CreatedAt          int
	EndAt              int
}

// Resolve locates every logical field.
func (c Columns) Resolve() Fields {
	return Fields{
		AdministrativeCode: c.Find(AdministrativeCode),
		ID:                 c.Find(ID),
		Category:           c.Find(Category),
		JSON:               c.Find(JSON),
		NewResult:          c.Find(NewResult),
		CreatedAt:          c.Find(CreatedAt),
		EndAt:              c.Find(EndAt),
	}
}

// Comparable reports whether both compared fields were found.
func (f Fields) Comparable() bool {
	return f.Category >= 0 && f.NewResult >= 0
}

// Cell returns row[idx] or "" when the column is absent or the row is short.
func Cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
