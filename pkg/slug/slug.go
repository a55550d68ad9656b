// Package slug canonicalizes free-form category labels into comparable identifiers.
//
// A slug is lowercase ASCII letters and digits joined by single underscores, never
// starting or ending with one. Labels that differ only by accents, casing or
// punctuation normalize to the same slug:
//
//	slug.Normalize("Energía Cliente")   // "energia_cliente"
//	slug.Normalize(" energia--CLIENTE ") // "energia_cliente"
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Separator joins the alphanumeric runs of a slug.
const Separator = '_'

// stripMarks decomposes compatibility characters and drops combining marks.
var stripMarks = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))

// Normalize returns the slug of text. Empty or whitespace-only input yields "".
func Normalize(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	decomposed, _, err := transform.String(stripMarks, text)
	if err != nil {
		decomposed = norm.NFKD.String(text)
	}
	decomposed = strings.ToLower(decomposed)

	var b strings.Builder
	b.Grow(len(decomposed))
	prevSep := false
	for _, r := range decomposed {
		if isSlugRune(r) {
			b.WriteRune(r)
			prevSep = false
			continue
		}
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		if !prevSep {
			b.WriteRune(Separator)
			prevSep = true
		}
	}

	out := strings.Trim(b.String(), string(Separator))
	// Run collapsing already prevents doubles; kept as an invariant.
	for strings.Contains(out, "__") {
		out = strings.ReplaceAll(out, "__", "_")
	}
	return out
}

// isSlugRune keeps only ASCII letters and digits so the output stays ASCII after
// characters without a decomposition (ß, ø, CJK) have been seen.
func isSlugRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}
