package table

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agentstation/catmatch/pkg/evaluate"
	"github.com/agentstation/catmatch/pkg/mapping"
)

func TestSummaryToTableData(t *testing.T) {
	data := SummaryToTableData([]evaluate.Result{
		{FileName: "a.csv", Total: 3, Matches: 2, Mismatches: 1, MatchRate: 2.0 / 3.0},
	})
	assert.Equal(t, [][]string{{"a.csv", "3", "2", "1", "66.67%"}}, data.Rows)
	assert.Len(t, data.ColumnAlignment, len(data.Headers))
}

func TestMismatchesToTableData(t *testing.T) {
	data := MismatchesToTableData([]evaluate.Mismatch{{
		ID:         "7",
		JSON:       "{'diagnostic_type': '" + string(make([]byte, 80)) + "'}",
		CategoryES: "Temperatura",
		CategoryEN: "humidity",
	}})
	row := data.Rows[0]
	assert.Equal(t, "-", row[0])
	assert.Equal(t, "7", row[1])
	assert.Len(t, []rune(row[4]), maxCellWidth)
	assert.Equal(t, "humidity", row[6])
}

func TestMappingAndConflicts(t *testing.T) {
	entries := mapping.New(mapping.Pair{Source: "Temperatura", Target: "temperature"}).Entries()
	assert.Equal(t, [][]string{{"temperatura", "temperature"}}, MappingToTableData(entries).Rows)

	conflicts := []mapping.Conflict{{Source: "x", Targets: []string{"a", "b"}}}
	assert.Equal(t, [][]string{{"x", "a, b", "b"}}, ConflictsToTableData(conflicts).Rows)
}

func TestSlugsToTableData(t *testing.T) {
	data := SlugsToTableData([]string{"Señal Baja", "--"}, []string{"senal_baja", ""})
	assert.Equal(t, [][]string{{"Señal Baja", "senal_baja"}, {"--", "-"}}, data.Rows)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abcdefg...", Truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "ééé...", Truncate("éééééééé", 6))
}
