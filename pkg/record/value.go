package record

import (
	"math"
	"math/big"
	"strconv"
	"strings"
)

// Value is a decoded literal. The concrete type is one of:
// string, Bytes, int64, *big.Int, float64, bool, nil (None), List, Tuple, Set, *Dict.
type Value any

// Bytes is a bytes literal (b'...').
type Bytes []byte

// List is a list literal.
type List []Value

// Tuple is a tuple literal.
type Tuple []Value

// Set is a set literal.
type Set []Value

// Item is one key/value pair of a dict literal.
type Item struct {
	Key   Value
	Value Value
}

// Dict is a dict literal. Items keep source order; duplicate keys are kept and
// Get returns the last one, matching how the literal would evaluate.
type Dict struct {
	Items []Item
}

// Get returns the value stored under the string key.
func (d *Dict) Get(key string) (Value, bool) {
	for i := len(d.Items) - 1; i >= 0; i-- {
		if k, ok := d.Items[i].Key.(string); ok && k == key {
			return d.Items[i].Value, true
		}
	}
	return nil, false
}

// Len returns the number of items, counting duplicate keys once per occurrence.
func (d *Dict) Len() int {
	return len(d.Items)
}

// Str renders v the way str() would: strings verbatim, everything else as repr.
func Str(v Value) string {
	if s, ok := v.(string); ok {
		return s
	}
	return Repr(v)
}

// Repr renders v in literal form.
func Repr(v Value) string {
	var b strings.Builder
	writeRepr(&b, v)
	return b.String()
}

func writeRepr(b *strings.Builder, v Value) {
	switch x := v.(type) {
	case nil:
		b.WriteString("None")
	case bool:
		if x {
			b.WriteString("True")
		} else {
			b.WriteString("False")
		}
	case string:
		b.WriteString(quoteString(x))
	case Bytes:
		b.WriteByte('b')
		b.WriteString(quoteBytes(x))
	case int64:
		b.WriteString(strconv.FormatInt(x, 10))
	case *big.Int:
		b.WriteString(x.String())
	case float64:
		b.WriteString(formatFloat(x))
	case List:
		b.WriteByte('[')
		writeSeq(b, x)
		b.WriteByte(']')
	case Tuple:
		b.WriteByte('(')
		writeSeq(b, x)
		if len(x) == 1 {
			b.WriteByte(',')
		}
		b.WriteByte(')')
	case Set:
		if len(x) == 0 {
			b.WriteString("set()")
			return
		}
		b.WriteByte('{')
		writeSeq(b, x)
		b.WriteByte('}')
	case *Dict:
		b.WriteByte('{')
		for i, item := range x.Items {
			if i > 0 {
				b.WriteString(", ")
			}
			writeRepr(b, item.Key)
			b.WriteString(": ")
			writeRepr(b, item.Value)
		}
		b.WriteByte('}')
	}
}

func writeSeq(b *strings.Builder, items []Value) {
	for i, item := range items {
		if i > 0 {
			b.WriteString(", ")
		}
		writeRepr(b, item)
	}
}

// quoteString prefers single quotes and switches to double quotes when the text
// contains a single quote but no double quote.
func quoteString(s string) string {
	q := byte('\'')
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		q = '"'
	}
	var b strings.Builder
	b.WriteByte(q)
	for _, r := range s {
		switch {
		case r == '\\':
			b.WriteString(`\\`)
		case r == rune(q):
			b.WriteByte('\\')
			b.WriteByte(q)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		case r < 0x20 || r == 0x7f:
			b.WriteString(`\x`)
			b.WriteString(hex2(byte(r)))
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte(q)
	return b.String()
}

func quoteBytes(p []byte) string {
	q := byte('\'')
	if strings.IndexByte(string(p), '\'') >= 0 && strings.IndexByte(string(p), '"') < 0 {
		q = '"'
	}
	var b strings.Builder
	b.WriteByte(q)
	for _, c := range p {
		switch {
		case c == '\\':
			b.WriteString(`\\`)
		case c == q:
			b.WriteByte('\\')
			b.WriteByte(q)
		case c == '\n':
			b.WriteString(`\n`)
		case c == '\r':
			b.WriteString(`\r`)
		case c == '\t':
			b.WriteString(`\t`)
		case c < 0x20 || c >= 0x7f:
			b.WriteString(`\x`)
			b.WriteString(hex2(c))
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte(q)
	return b.String()
}

func hex2(c byte) string {
	const digits = "0123456789abcdef"
	return string([]byte{digits[c>>4], digits[c&0x0f]})
}

// formatFloat follows the shortest round-trip form with a trailing ".0" for
// integral values and exponent notation outside [1e-4, 1e16).
func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	}
	abs := math.Abs(f)
	if abs != 0 && (abs >= 1e16 || abs < 1e-4) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}
