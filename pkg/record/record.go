// Package record extracts fields from the structured-text records embedded in
// CSV cells.
//
// The cells hold dict-like text written with Python literal syntax, usually with
// single-quoted keys:
//
//	{'category': 'temperature', 'diagnostic_type': 'auto'}
//
// Such text is not valid JSON, so it is decoded with a constrained literal parser
// that never evaluates anything. When the text does not parse at all, a plain
// scan for the quoted 'category' key is used instead.
package record

import (
	"strings"
)

// CategoryKey is the dict key holding the English category.
const CategoryKey = "category"

// ExtractCategory returns the trimmed, stringified value stored under "category"
// in fieldText. It returns "" for empty input, for records without the key, for
// literals that are not dicts and for malformed text without a quoted key.
func ExtractCategory(fieldText string) string {
	return Extract(fieldText, CategoryKey)
}

// Extract returns the value stored under key in the dict literal held by
// fieldText, applying the same fallback rules as ExtractCategory.
func Extract(fieldText, key string) string {
	txt := strings.TrimSpace(fieldText)
	if txt == "" {
		return ""
	}

	v, err := ParseLiteral(txt)
	if err != nil {
		return scanQuotedKey(txt, "'"+key+"':")
	}
	d, ok := v.(*Dict)
	if !ok {
		return ""
	}
	val, ok := d.Get(key)
	if !ok {
		return ""
	}
	return strings.TrimSpace(Str(val))
}

// scanQuotedKey finds marker, then returns the text between the quote that
// follows it and the next matching quote. The value is not trimmed.
func scanQuotedKey(txt, marker string) string {
	i := strings.Index(txt, marker)
	if i < 0 {
		return ""
	}
	rest := strings.TrimSpace(txt[i+len(marker):])
	if rest == "" {
		return ""
	}
	q := rest[0]
	if q != '\'' && q != '"' {
		return ""
	}
	j := strings.IndexByte(rest[1:], q)
	if j < 0 {
		return ""
	}
	return rest[1 : j+1]
}

// IsRecord reports whether text parses as a dict literal.
func IsRecord(text string) bool {
	v, err := ParseLiteral(strings.TrimSpace(text))
	if err != nil {
		return false
	}
	_, ok := v.(*Dict)
	return ok
}
