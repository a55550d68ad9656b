// Package mapping holds the fixed Spanish-to-English category translation table.
//
// The table is keyed by normalized source slug and built once from a curated list
// of label pairs. It is read-only after construction and safe to share between
// evaluations.
package mapping

import (
	"sort"
	"sync"

	"github.com/agentstation/catmatch/pkg/slug"
)

// Pair is one curated (source label, target label) entry before normalization.
type Pair struct {
	Source string `yaml:"source" json:"source"`
	Target string `yaml:"target" json:"target"`
}

// Entry is a normalized table row.
type Entry struct {
	Source string `json:"source" yaml:"source"`
	Target string `json:"target" yaml:"target"`
}

// Table maps source-language slugs to target-language slugs.
type Table struct {
	entries map[string]string
}

var (
	defaultOnce  sync.Once
	defaultTable *Table
)

// CuratedPairs returns the known real-world label variants. Several source labels
// map to the same target and accented/unaccented spellings are both listed.
func CuratedPairs() []Pair {
	return []Pair{
		{"Temperatura", "temperature"},
		{"Posible Temperatura", "temperature"},
		{"Energía Cliente", "energy_client"},
		{"Energia Cliente", "energy_client"},
		{"Intermitencia", "intermittency"},
		{"Puerto LAN", "lan_port"},
		{"Puerto Lan", "lan_port"},
		{"Corte de Fibra", "fiber_cut"},
		{"Corte Fibra", "fiber_cut"},
		{"Ruta Secundaria Abajo", "secondary_route_down"},
		{"Ruta Secundaria Down", "secondary_route_down"},
		{"Posible Corte de Energía", "energy_client"},
		{"Posible Corte de Energia", "energy_client"},
		{"Posible Corte / Energía", "energy_client"},
		{"Posible Falla de Energía", "energy_client"},
		{"Servicio Ok", "service_ok"},
		{"No determinado", "undetermined"},
		{"Suspensión / Baja Lógica", "logical_suspension"},
		{"SFP Dañado", "sfp_damaged"},
		{"Sin Información", "no_information"},
		{"Posible Corte Fibra", "fiber_cut"},
		{"Posible Corte de Fibra Sin Demarcador", "fiber_cut"},
		{"Corte en ENNI", "fiber_cut"},
		{"Posible Corte en ENNI", "fiber_cut"},
		{"Puerto Inhibido", "port_inhibited"},
		{"Degradación de Servicio", "service_degradation"},
		{"Falla Anillo / Bus", "ring_bus_failure"},
		{"Interfaz Intermitente", "intermittency"},
	}
}

// New builds a table from pairs in order. Both sides are normalized before
// insertion; when two pairs share a source slug the later one wins.
func New(pairs ...Pair) *Table {
	t := &Table{entries: make(map[string]string, len(pairs))}
	for _, p := range pairs {
		src := slug.Normalize(p.Source)
		if src == "" {
			continue
		}
		t.entries[src] = slug.Normalize(p.Target)
	}
	return t
}

// Default returns the shared table built from CuratedPairs.
func Default() *Table {
	defaultOnce.Do(func() {
		defaultTable = New(CuratedPairs()...)
	})
	return defaultTable
}

// WithOverlay builds a new table from the curated pairs followed by extra, so
// overlay entries replace curated ones with the same source slug.
func WithOverlay(extra []Pair) *Table {
	pairs := append(CuratedPairs(), extra...)
	return New(pairs...)
}

// Resolve looks up the target slug for sourceSlug.
func (t *Table) Resolve(sourceSlug string) (string, bool) {
	target, ok := t.entries[sourceSlug]
	return target, ok
}

// Expected returns the target slug for sourceSlug, falling back to sourceSlug
// itself when the table has no entry (the label is assumed already canonical).
func (t *Table) Expected(sourceSlug string) string {
	if target, ok := t.Resolve(sourceSlug); ok {
		return target
	}
	return sourceSlug
}

// Len returns the number of distinct source slugs.
func (t *Table) Len() int {
	return len(t.entries)
}

// Entries returns the table rows sorted by source slug.
func (t *Table) Entries() []Entry {
	out := make([]Entry, 0, len(t.entries))
	for src, dst := range t.entries {
		out = append(out, Entry{Source: src, Target: dst})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Source < out[j].Source })
	return out
}

// Conflict describes a source slug listed more than once with different targets.
type Conflict struct {
	Source  string   `json:"source" yaml:"source"`
	Targets []string `json:"targets" yaml:"targets"`
}

// Conflicts reports source slugs that New would silently overwrite with a
// different target. Targets are listed in pair order; the last one is kept.
func Conflicts(pairs []Pair) []Conflict {
	seen := make(map[string][]string)
	var order []string
	for _, p := range pairs {
		src := slug.Normalize(p.Source)
		if src == "" {
			continue
		}
		dst := slug.Normalize(p.Target)
		if _, ok := seen[src]; !ok {
			order = append(order, src)
		}
		targets := seen[src]
		if len(targets) == 0 || targets[len(targets)-1] != dst {
			seen[src] = append(targets, dst)
		}
	}

	var out []Conflict
	for _, src := range order {
		if distinct(seen[src]) > 1 {
			out = append(out, Conflict{Source: src, Targets: seen[src]})
		}
	}
	return out
}

func distinct(values []string) int {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return len(set)
}
