package mapping_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/catmatch/pkg/errors"
	"github.com/agentstation/catmatch/pkg/mapping"
	"github.com/agentstation/catmatch/pkg/slug"
)

func TestDefault_Resolve(t *testing.T) {
	table := mapping.Default()

	tests := []struct {
		label string
		want  string
	}{
		{"Temperatura", "temperature"},
		{"Posible Temperatura", "temperature"},
		{"Energía Cliente", "energy_client"},
		{"ENERGIA cliente", "energy_client"},
		{"Posible Corte / Energía", "energy_client"},
		{"Puerto Lan", "lan_port"},
		{"Suspensión / Baja Lógica", "logical_suspension"},
		{"SFP Dañado", "sfp_damaged"},
		{"Corte en ENNI", "fiber_cut"},
		{"Interfaz Intermitente", "intermittency"},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got, ok := table.Resolve(slug.Normalize(tt.label))
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDefault_IsShared(t *testing.T) {
	assert.Same(t, mapping.Default(), mapping.Default())
}

func TestDefault_ManyToOne(t *testing.T) {
	table := mapping.Default()
	// 28 curated pairs collapse to fewer source slugs because of spelling variants.
	assert.Less(t, table.Len(), len(mapping.CuratedPairs()))

	fiber := 0
	for _, e := range table.Entries() {
		if e.Target == "fiber_cut" {
			fiber++
		}
	}
	assert.Equal(t, 6, fiber)
}

func TestExpected_Fallback(t *testing.T) {
	table := mapping.Default()

	assert.Equal(t, "temperature", table.Expected("temperatura"))
	// Unknown slugs are assumed to already be canonical.
	assert.Equal(t, "humidity", table.Expected("humidity"))
	assert.Equal(t, "", table.Expected(""))

	_, ok := table.Resolve("humidity")
	assert.False(t, ok)
}

func TestExpected_TotalAndDeterministic(t *testing.T) {
	table := mapping.Default()
	inputs := []string{"Temperatura", "temperature", "Algo Nuevo", "Puerto LAN", "x"}
	for _, in := range inputs {
		s := slug.Normalize(in)
		got := table.Expected(s)
		if target, ok := table.Resolve(s); ok {
			assert.Equal(t, target, got)
		} else {
			assert.Equal(t, s, got)
		}
		assert.Equal(t, got, table.Expected(s))
	}
}

func TestNew_NormalizesBothSidesAndLastWins(t *testing.T) {
	table := mapping.New(
		mapping.Pair{Source: "Señal Baja", Target: "Low Signal"},
		mapping.Pair{Source: "señal  baja", Target: "weak_signal"},
		mapping.Pair{Source: "  ", Target: "ignored"},
	)

	assert.Equal(t, 1, table.Len())
	got, ok := table.Resolve("senal_baja")
	require.True(t, ok)
	assert.Equal(t, "weak_signal", got)
}

func TestEntries_Sorted(t *testing.T) {
	entries := mapping.Default().Entries()
	require.NotEmpty(t, entries)
	for i := 1; i < len(entries); i++ {
		assert.Less(t, entries[i-1].Source, entries[i].Source)
	}
}

func TestConflicts(t *testing.T) {
	assert.Empty(t, mapping.Conflicts(mapping.CuratedPairs()))

	pairs := []mapping.Pair{
		{Source: "Corte", Target: "fiber_cut"},
		{Source: "CORTE", Target: "fiber_cut"},
		{Source: "Corte", Target: "energy_client"},
		{Source: "Otro", Target: "other"},
	}
	conflicts := mapping.Conflicts(pairs)
	require.Len(t, conflicts, 1)
	assert.Equal(t, "corte", conflicts[0].Source)
	assert.Equal(t, []string{"fiber_cut", "energy_client"}, conflicts[0].Targets)
}

func TestWithOverlay(t *testing.T) {
	table := mapping.WithOverlay([]mapping.Pair{
		{Source: "Temperatura", Target: "thermal"},
		{Source: "Humedad", Target: "humidity"},
	})

	assert.Equal(t, "thermal", table.Expected("temperatura"))
	assert.Equal(t, "humidity", table.Expected("humedad"))
	// The shared default table is untouched.
	assert.Equal(t, "temperature", mapping.Default().Expected("temperatura"))
}

func TestParsePairs(t *testing.T) {
	data := []byte(`pairs:
  - source: "Corte Total"
    target: fiber_cut
  - source: Humedad
    target: humidity
`)
	pairs, err := mapping.ParsePairs(data, "overlay.yaml")
	require.NoError(t, err)
	assert.Equal(t, []mapping.Pair{
		{Source: "Corte Total", Target: "fiber_cut"},
		{Source: "Humedad", Target: "humidity"},
	}, pairs)
}

func TestParsePairs_Invalid(t *testing.T) {
	_, err := mapping.ParsePairs([]byte("pairs:\n  - source: Solo\n"), "bad.yaml")
	require.Error(t, err)
	var valErr *errors.ValidationError
	assert.True(t, errors.As(err, &valErr))

	_, err = mapping.ParsePairs([]byte("pairs: [unterminated"), "broken.yaml")
	require.Error(t, err)
	var parseErr *errors.ParseError
	assert.True(t, errors.As(err, &parseErr))
}

func TestLoadPairs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "overlay.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pairs:\n  - source: Humedad\n    target: humidity\n"), 0o644))

	pairs, err := mapping.LoadPairs(path)
	require.NoError(t, err)
	require.Len(t, pairs, 1)

	_, err = mapping.LoadPairs(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
