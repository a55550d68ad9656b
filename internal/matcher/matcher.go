// Package matcher matches file names against glob or regex patterns. It backs
// input discovery, where include and exclude lists may mix both kinds.
package matcher

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// PatternType represents the type of pattern matching to use.
type PatternType int

const (
	// Glob uses shell-style glob patterns (*, ?, []).
	Glob PatternType = iota
	// Regex uses regular expressions.
	Regex
	// Auto picks Regex when the pattern uses regex-only syntax, Glob otherwise.
	Auto
)

// String returns a string representation of the PatternType.
func (pt PatternType) String() string {
	switch pt {
	case Glob:
		return "glob"
	case Regex:
		return "regex"
	case Auto:
		return "auto"
	default:
		return "unknown"
	}
}

// Matcher reports whether a name matches a compiled pattern.
type Matcher interface {
	Match(name string) bool
	Pattern() string
	Type() PatternType
}

// Options configures the matcher behavior.
type Options struct {
	// CaseInsensitive folds case before comparing.
	CaseInsensitive bool
	// Anchored adds ^ and $ to regex patterns if not present.
	Anchored bool
}

type matcher struct {
	pattern         string
	patternType     PatternType
	glob            string
	re              *regexp.Regexp
	caseInsensitive bool
}

// New compiles pattern. A nil opts means case-sensitive and unanchored.
func New(patternType PatternType, pattern string, opts *Options) (Matcher, error) {
	if opts == nil {
		opts = &Options{}
	}
	if patternType == Auto {
		patternType = detectPatternType(pattern)
	}

	m := &matcher{
		pattern:         pattern,
		patternType:     patternType,
		caseInsensitive: opts.CaseInsensitive,
	}

	switch patternType {
	case Glob:
		m.glob = pattern
		if opts.CaseInsensitive {
			m.glob = strings.ToLower(pattern)
		}
		if _, err := filepath.Match(m.glob, ""); err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
		}
	case Regex:
		expr := pattern
		if opts.Anchored {
			if !strings.HasPrefix(expr, "^") {
				expr = "^" + expr
			}
			if !strings.HasSuffix(expr, "$") {
				expr += "$"
			}
		}
		if opts.CaseInsensitive && !strings.HasPrefix(expr, "(?i)") {
			expr = "(?i)" + expr
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("invalid regex pattern %q: %w", pattern, err)
		}
		m.re = re
	default:
		return nil, fmt.Errorf("unsupported pattern type: %v", patternType)
	}
	return m, nil
}

// MustNew is New for patterns known at compile time.
func MustNew(patternType PatternType, pattern string, opts *Options) Matcher {
	m, err := New(patternType, pattern, opts)
	if err != nil {
		panic(err)
	}
	return m
}

func (m *matcher) Match(name string) bool {
	if m.patternType == Regex {
		return m.re.MatchString(name)
	}
	if m.caseInsensitive {
		name = strings.ToLower(name)
	}
	ok, _ := filepath.Match(m.glob, name)
	return ok
}

func (m *matcher) Pattern() string { return m.pattern }

func (m *matcher) Type() PatternType { return m.patternType }

// detectPatternType treats regex metacharacters that globs never use as a
// sign of a regex.
func detectPatternType(pattern string) PatternType {
	for _, indicator := range []string{
		"^", "$", `\d`, `\w`, `\s`, "(?", "{", "}", "+", "|", "(", ")",
	} {
		if strings.Contains(pattern, indicator) {
			return Regex
		}
	}
	return Glob
}

// Set matches a name when any of its patterns does.
type Set struct {
	matchers []Matcher
}

// NewSet compiles every pattern with the same type and options.
func NewSet(patterns []string, patternType PatternType, opts *Options) (*Set, error) {
	s := &Set{matchers: make([]Matcher, 0, len(patterns))}
	for _, p := range patterns {
		m, err := New(patternType, p, opts)
		if err != nil {
			return nil, err
		}
		s.matchers = append(s.matchers, m)
	}
	return s, nil
}

// Add appends an already compiled matcher.
func (s *Set) Add(m Matcher) {
	s.matchers = append(s.matchers, m)
}

// Match reports whether any pattern matches name. An empty set matches nothing.
func (s *Set) Match(name string) bool {
	if s == nil {
		return false
	}
	for _, m := range s.matchers {
		if m.Match(name) {
			return true
		}
	}
	return false
}

// Len returns the number of patterns.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.matchers)
}
