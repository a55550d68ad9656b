package report

import (
	"strconv"
	"strings"

	"github.com/agentstation/catmatch/pkg/constants"
)

const invalidSheetChars = `:\/?*[]`

// SafeSheetName replaces characters spreadsheet tools reject with '_' and
// truncates to the maximum sheet name length. A leading or trailing single
// quote also becomes '_'. An empty result becomes "Sheet".
func SafeSheetName(name string) string {
	clean := strings.Map(func(r rune) rune {
		if strings.ContainsRune(invalidSheetChars, r) {
			return '_'
		}
		return r
	}, name)

	if runes := []rune(clean); len(runes) > constants.MaxSheetNameLength {
		clean = string(runes[:constants.MaxSheetNameLength])
	}
	if strings.HasPrefix(clean, "'") {
		clean = "_" + clean[1:]
	}
	if strings.HasSuffix(clean, "'") {
		clean = clean[:len(clean)-1] + "_"
	}
	if clean == "" {
		clean = constants.DefaultSheetName
	}
	return clean
}

// sheetNamer hands out sheet names that are unique ignoring case.
type sheetNamer struct {
	used map[string]struct{}
}

func newSheetNamer(reserved ...string) *sheetNamer {
	n := &sheetNamer{used: make(map[string]struct{})}
	for _, r := range reserved {
		n.used[strings.ToLower(r)] = struct{}{}
	}
	return n
}

// next returns SafeSheetName(name), suffixed with the smallest free number
// when that name is taken.
func (n *sheetNamer) next(name string) string {
	base := SafeSheetName(name)
	candidate := base
	for i := 1; n.taken(candidate); i++ {
		suffix := strconv.Itoa(i)
		runes := []rune(base)
		if keep := constants.MaxSheetNameLength - len(suffix); len(runes) > keep {
			runes = runes[:keep]
		}
		candidate = string(runes) + suffix
	}
	n.used[strings.ToLower(candidate)] = struct{}{}
	return candidate
}

func (n *sheetNamer) taken(name string) bool {
	_, ok := n.used[strings.ToLower(name)]
	return ok
}
