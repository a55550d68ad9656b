package matcher

import (
	"reflect"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		pattern     string
		patternType PatternType
		opts        *Options
		wantType    PatternType
		wantErr     bool
	}{
		{name: "glob", pattern: "*.csv", patternType: Glob, wantType: Glob},
		{name: "regex", pattern: `^events_\d+\.csv$`, patternType: Regex, wantType: Regex},
		{name: "invalid regex", pattern: "(unclosed", patternType: Regex, wantErr: true},
		{name: "invalid glob", pattern: "[", patternType: Glob, wantErr: true},
		{name: "auto glob", pattern: "report_?.csv", patternType: Auto, wantType: Glob},
		{name: "auto regex", pattern: `\d+\.csv`, patternType: Auto, wantType: Regex},
		{name: "unsupported", pattern: "x", patternType: PatternType(42), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := New(tt.patternType, tt.pattern, tt.opts)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if m.Type() != tt.wantType {
				t.Errorf("Type() = %v, want %v", m.Type(), tt.wantType)
			}
			if m.Pattern() != tt.pattern {
				t.Errorf("Pattern() = %q, want %q", m.Pattern(), tt.pattern)
			}
		})
	}
}

func TestMatch(t *testing.T) {
	tests := []struct {
		name        string
		patternType PatternType
		pattern     string
		opts        *Options
		input       string
		want        bool
	}{
		{"glob hit", Glob, "*.csv", nil, "events.csv", true},
		{"glob miss", Glob, "*.csv", nil, "events.xlsx", false},
		{"glob is case sensitive", Glob, "*.csv", nil, "EVENTS.CSV", false},
		{"glob folded", Glob, "category_match_report.csv", &Options{CaseInsensitive: true}, "Category_Match_Report.CSV", true},
		{"regex partial", Regex, `_\d{4}`, nil, "events_2024.csv", true},
		{"regex anchored", Regex, `events`, &Options{Anchored: true}, "old_events", false},
		{"regex folded", Regex, `^events`, &Options{CaseInsensitive: true}, "EVENTS.csv", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := MustNew(tt.patternType, tt.pattern, tt.opts)
			if got := m.Match(tt.input); got != tt.want {
				t.Errorf("Match(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestMustNewPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustNew() did not panic on an invalid pattern")
		}
	}()
	MustNew(Regex, "(", nil)
}

func TestSet(t *testing.T) {
	s, err := NewSet([]string{"*.csv", `^raw_.*\.txt$`}, Auto, nil)
	if err != nil {
		t.Fatalf("NewSet() error = %v", err)
	}
	s.Add(MustNew(Glob, "*.tsv", nil))

	if s.Len() != 3 {
		t.Errorf("Len() = %d, want 3", s.Len())
	}

	var got []string
	for _, name := range []string{"a.csv", "raw_1.txt", "b.tsv", "notes.txt", "c.xlsx"} {
		if s.Match(name) {
			got = append(got, name)
		}
	}
	want := []string{"a.csv", "raw_1.txt", "b.tsv"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("matched %v, want %v", got, want)
	}

	var empty *Set
	if empty.Match("a.csv") || empty.Len() != 0 {
		t.Error("nil set should match nothing")
	}

	if _, err := NewSet([]string{"("}, Regex, nil); err == nil {
		t.Error("NewSet() accepted an invalid pattern")
	}
}

func TestPatternTypeString(t *testing.T) {
	for pt, want := range map[PatternType]string{Glob: "glob", Regex: "regex", Auto: "auto", PatternType(9): "unknown"} {
		if got := pt.String(); got != want {
			t.Errorf("String() = %q, want %q", got, want)
		}
	}
}
