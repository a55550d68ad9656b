package record

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agentstation/catmatch/pkg/errors"
)

// maxDepth bounds container nesting so hostile input cannot exhaust the stack.
const maxDepth = 200

// ParseLiteral decodes a Python-style data literal: dicts, lists, tuples, sets,
// quoted strings (single, double, triple, with r/b/u prefixes), integers, floats,
// True, False and None. Nothing is evaluated; names, calls (other than set())
// and operators other than unary sign are rejected.
func ParseLiteral(src string) (Value, error) {
	p := &parser{src: src}
	p.skipSpace()
	if p.eof() {
		return nil, p.fail("empty input")
	}
	v, err := p.parseValue(0)
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if !p.eof() {
		return nil, p.fail(fmt.Sprintf("unexpected %q after value", p.peek()))
	}
	return v, nil
}

type parser struct {
	src string
	pos int
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) fail(msg string) error {
	return &errors.ParseError{Format: "literal", Column: p.pos + 1, Message: msg}
}

// skipSpace skips whitespace, comments and backslash line continuations.
func (p *parser) skipSpace() {
	for !p.eof() {
		c := p.src[p.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v':
			p.pos++
		case c == '#':
			for !p.eof() && p.src[p.pos] != '\n' {
				p.pos++
			}
		case c == '\\' && p.pos+1 < len(p.src) && p.src[p.pos+1] == '\n':
			p.pos += 2
		default:
			return
		}
	}
}

func (p *parser) expect(c byte) error {
	p.skipSpace()
	if p.peek() != c {
		if p.eof() {
			return p.fail(fmt.Sprintf("expected %q, got end of input", c))
		}
		return p.fail(fmt.Sprintf("expected %q, got %q", c, p.peek()))
	}
	p.pos++
	return nil
}

func (p *parser) parseValue(depth int) (Value, error) {
	if depth > maxDepth {
		return nil, p.fail("nesting too deep")
	}
	p.skipSpace()
	if p.eof() {
		return nil, p.fail("unexpected end of input")
	}

	c := p.peek()
	switch {
	case c == '{':
		return p.parseBrace(depth)
	case c == '[':
		p.pos++
		items, _, err := p.parseSeq(']', depth)
		if err != nil {
			return nil, err
		}
		return List(items), nil
	case c == '(':
		return p.parseParen(depth)
	case c == '\'' || c == '"':
		return p.parseStrings()
	case c == '-' || c == '+':
		return p.parseSigned(depth)
	case c == '.' || isDigit(c):
		return p.parseNumber()
	case isNameStart(c):
		return p.parseName(depth)
	default:
		return nil, p.fail(fmt.Sprintf("unexpected %q", c))
	}
}

// parseSeq reads comma separated values up to the closing delimiter, which the
// caller has already opened. It reports whether a trailing comma was seen.
func (p *parser) parseSeq(closer byte, depth int) ([]Value, bool, error) {
	var items []Value
	trailing := false
	for {
		p.skipSpace()
		if p.peek() == closer {
			p.pos++
			return items, trailing, nil
		}
		v, err := p.parseValue(depth + 1)
		if err != nil {
			return nil, false, err
		}
		items = append(items, v)
		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
			trailing = true
		case closer:
			p.pos++
			return items, false, nil
		default:
			if p.eof() {
				return nil, false, p.fail(fmt.Sprintf("unterminated container, expected %q", closer))
			}
			return nil, false, p.fail(fmt.Sprintf("expected ',' or %q, got %q", closer, p.peek()))
		}
	}
}

func (p *parser) parseParen(depth int) (Value, error) {
	p.pos++
	items, trailing, err := p.parseSeq(')', depth)
	if err != nil {
		return nil, err
	}
	// (x) is a parenthesized value, (x,) and () are tuples.
	if len(items) == 1 && !trailing {
		return items[0], nil
	}
	return Tuple(items), nil
}

func (p *parser) parseBrace(depth int) (Value, error) {
	p.pos++
	p.skipSpace()
	if p.peek() == '}' {
		p.pos++
		return &Dict{}, nil
	}

	first, err := p.parseValue(depth + 1)
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.peek() != ':' {
		// Set literal.
		if err := checkHashable(first); err != nil {
			return nil, p.fail(err.Error())
		}
		items := []Value{first}
		switch p.peek() {
		case '}':
			p.pos++
			return Set(items), nil
		case ',':
			p.pos++
		default:
			return nil, p.fail(fmt.Sprintf("expected ':', ',' or '}', got %q", p.peek()))
		}
		rest, _, err := p.parseSeq('}', depth)
		if err != nil {
			return nil, err
		}
		for _, v := range rest {
			if err := checkHashable(v); err != nil {
				return nil, p.fail(err.Error())
			}
		}
		return Set(append(items, rest...)), nil
	}

	d := &Dict{}
	key := first
	for {
		if err := checkHashable(key); err != nil {
			return nil, p.fail(err.Error())
		}
		if err := p.expect(':'); err != nil {
			return nil, err
		}
		val, err := p.parseValue(depth + 1)
		if err != nil {
			return nil, err
		}
		d.Items = append(d.Items, Item{Key: key, Value: val})

		p.skipSpace()
		switch p.peek() {
		case '}':
			p.pos++
			return d, nil
		case ',':
			p.pos++
		default:
			if p.eof() {
				return nil, p.fail("unterminated dict, expected '}'")
			}
			return nil, p.fail(fmt.Sprintf("expected ',' or '}', got %q", p.peek()))
		}

		p.skipSpace()
		if p.peek() == '}' {
			p.pos++
			return d, nil
		}
		if key, err = p.parseValue(depth + 1); err != nil {
			return nil, err
		}
	}
}

func checkHashable(v Value) error {
	switch x := v.(type) {
	case List, Set, *Dict:
		return fmt.Errorf("unhashable type in key position")
	case Tuple:
		for _, item := range x {
			if err := checkHashable(item); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *parser) parseSigned(depth int) (Value, error) {
	neg := p.peek() == '-'
	p.pos++
	p.skipSpace()
	if p.eof() || !(p.peek() == '.' || isDigit(p.peek())) {
		return nil, p.fail("sign must be followed by a number")
	}
	v, err := p.parseValue(depth + 1)
	if err != nil {
		return nil, err
	}
	switch x := v.(type) {
	case int64:
		if neg {
			return -x, nil
		}
		return x, nil
	case *big.Int:
		if neg {
			return new(big.Int).Neg(x), nil
		}
		return x, nil
	case float64:
		if neg {
			return -x, nil
		}
		return x, nil
	default:
		return nil, p.fail("sign applied to a non-numeric value")
	}
}

func (p *parser) parseName(depth int) (Value, error) {
	start := p.pos
	for !p.eof() {
		r, size := utf8.DecodeRuneInString(p.src[p.pos:])
		if !(r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)) {
			break
		}
		p.pos += size
	}
	name := p.src[start:p.pos]

	// String prefixes: r, b, u and combinations of r with b.
	if (p.peek() == '\'' || p.peek() == '"') && len(name) <= 2 {
		lower := strings.ToLower(name)
		switch lower {
		case "r", "u", "b", "br", "rb":
			return p.parseStringsWithPrefix(lower)
		}
	}

	switch name {
	case "True":
		return true, nil
	case "False":
		return false, nil
	case "None":
		return nil, nil
	case "set":
		if err := p.expect('('); err != nil {
			return nil, err
		}
		if err := p.expect(')'); err != nil {
			return nil, err
		}
		return Set{}, nil
	}
	p.pos = start
	return nil, p.fail(fmt.Sprintf("name %q is not a literal", name))
}

func (p *parser) parseStrings() (Value, error) {
	return p.parseStringsWithPrefix("")
}

// parseStringsWithPrefix reads one string literal and any adjacent literals it
// implicitly concatenates with. Mixing bytes and text is an error.
func (p *parser) parseStringsWithPrefix(prefix string) (Value, error) {
	var text strings.Builder
	var bin []byte
	isBytes := strings.Contains(prefix, "b")
	first := true

	for {
		raw := strings.Contains(prefix, "r")
		partBytes := strings.Contains(prefix, "b")
		if !first && partBytes != isBytes {
			return nil, p.fail("cannot mix bytes and nonbytes literals")
		}
		s, err := p.readQuoted(raw, partBytes)
		if err != nil {
			return nil, err
		}
		if isBytes {
			bin = append(bin, s...)
		} else {
			text.WriteString(s)
		}
		first = false

		// Look ahead for another literal.
		save := p.pos
		p.skipSpace()
		prefix = ""
		if p.peek() == '\'' || p.peek() == '"' {
			continue
		}
		nameStart := p.pos
		for !p.eof() && isNameStart(p.peek()) && p.pos-nameStart < 2 {
			p.pos++
		}
		candidate := strings.ToLower(p.src[nameStart:p.pos])
		if (p.peek() == '\'' || p.peek() == '"') && candidate != "" {
			switch candidate {
			case "r", "u", "b", "br", "rb":
				prefix = candidate
				continue
			}
		}
		p.pos = save
		break
	}

	if isBytes {
		return Bytes(bin), nil
	}
	return text.String(), nil
}

// readQuoted reads a single quoted literal starting at the opening quote.
func (p *parser) readQuoted(raw, bytesLit bool) (string, error) {
	q := p.peek()
	triple := strings.HasPrefix(p.src[p.pos:], strings.Repeat(string(q), 3))
	if triple {
		p.pos += 3
	} else {
		p.pos++
	}

	var b strings.Builder
	for {
		if p.eof() {
			return "", p.fail("unterminated string literal")
		}
		c := p.src[p.pos]
		if c == q {
			if !triple {
				p.pos++
				return b.String(), nil
			}
			if strings.HasPrefix(p.src[p.pos:], strings.Repeat(string(q), 3)) {
				p.pos += 3
				return b.String(), nil
			}
			b.WriteByte(c)
			p.pos++
			continue
		}
		if c == '\n' && !triple {
			return "", p.fail("newline in single-quoted string")
		}
		if c == '\\' {
			if raw {
				// Raw strings keep the backslash but it still protects the next char.
				b.WriteByte(c)
				p.pos++
				if !p.eof() {
					b.WriteByte(p.src[p.pos])
					p.pos++
				}
				continue
			}
			if err := p.readEscape(&b, bytesLit); err != nil {
				return "", err
			}
			continue
		}
		if bytesLit && c >= 0x80 {
			return "", p.fail("bytes can only contain ASCII literal characters")
		}
		b.WriteByte(c)
		p.pos++
	}
}

func (p *parser) readEscape(b *strings.Builder, bytesLit bool) error {
	p.pos++ // backslash
	if p.eof() {
		return p.fail("unterminated escape sequence")
	}
	c := p.src[p.pos]
	p.pos++
	switch c {
	case '\n':
	case '\\', '\'', '"':
		b.WriteByte(c)
	case 'a':
		b.WriteByte('\a')
	case 'b':
		b.WriteByte('\b')
	case 'f':
		b.WriteByte('\f')
	case 'n':
		b.WriteByte('\n')
	case 'r':
		b.WriteByte('\r')
	case 't':
		b.WriteByte('\t')
	case 'v':
		b.WriteByte('\v')
	case '0', '1', '2', '3', '4', '5', '6', '7':
		n := int(c - '0')
		for i := 0; i < 2 && !p.eof() && p.src[p.pos] >= '0' && p.src[p.pos] <= '7'; i++ {
			n = n*8 + int(p.src[p.pos]-'0')
			p.pos++
		}
		writeCode(b, n, bytesLit)
	case 'x':
		n, err := p.readHex(2)
		if err != nil {
			return err
		}
		writeCode(b, n, bytesLit)
	case 'u', 'U':
		if bytesLit {
			b.WriteByte('\\')
			b.WriteByte(c)
			return nil
		}
		width := 4
		if c == 'U' {
			width = 8
		}
		n, err := p.readHex(width)
		if err != nil {
			return err
		}
		if n > unicode.MaxRune {
			return p.fail("illegal Unicode character")
		}
		b.WriteRune(rune(n))
	default:
		b.WriteByte('\\')
		b.WriteByte(c)
	}
	return nil
}

func writeCode(b *strings.Builder, n int, bytesLit bool) {
	if bytesLit {
		b.WriteByte(byte(n))
		return
	}
	b.WriteRune(rune(n))
}

func (p *parser) readHex(width int) (int, error) {
	if p.pos+width > len(p.src) {
		return 0, p.fail("truncated hex escape")
	}
	n, err := strconv.ParseUint(p.src[p.pos:p.pos+width], 16, 32)
	if err != nil {
		return 0, p.fail("invalid hex escape")
	}
	p.pos += width
	return int(n), nil
}

func (p *parser) parseNumber() (Value, error) {
	start := p.pos
	if p.peek() == '0' && p.pos+1 < len(p.src) {
		base := 0
		switch p.src[p.pos+1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			p.pos += 2
			digitsStart := p.pos
			for !p.eof() && (isHexDigit(p.peek()) || p.peek() == '_') {
				p.pos++
			}
			return p.makeInt(p.src[digitsStart:p.pos], base)
		}
	}

	isFloat := false
	for !p.eof() && (isDigit(p.peek()) || p.peek() == '_') {
		p.pos++
	}
	if p.peek() == '.' {
		isFloat = true
		p.pos++
		for !p.eof() && (isDigit(p.peek()) || p.peek() == '_') {
			p.pos++
		}
	}
	if p.peek() == 'e' || p.peek() == 'E' {
		save := p.pos
		p.pos++
		if p.peek() == '+' || p.peek() == '-' {
			p.pos++
		}
		if isDigit(p.peek()) {
			isFloat = true
			for !p.eof() && (isDigit(p.peek()) || p.peek() == '_') {
				p.pos++
			}
		} else {
			p.pos = save
		}
	}
	if !p.eof() && (isNameStart(p.peek()) || p.peek() == '.') {
		return nil, p.fail(fmt.Sprintf("invalid numeric literal %q", p.src[start:p.pos+1]))
	}

	lit := p.src[start:p.pos]
	if lit == "." {
		return nil, p.fail("unexpected '.'")
	}
	if isFloat {
		clean, err := cleanUnderscores(lit)
		if err != nil {
			return nil, p.fail(err.Error())
		}
		f, err := strconv.ParseFloat(clean, 64)
		if err != nil {
			// Out-of-range literals become infinities, as they would when evaluated.
			var numErr *strconv.NumError
			if errors.As(err, &numErr) && numErr.Err == strconv.ErrRange {
				return f, nil
			}
			return nil, p.fail("invalid float literal")
		}
		return f, nil
	}
	if len(lit) > 1 && lit[0] == '0' && strings.Trim(lit, "0_") != "" {
		return nil, p.fail("leading zeros in decimal integer literals are not permitted")
	}
	return p.makeInt(lit, 10)
}

func (p *parser) makeInt(digits string, base int) (Value, error) {
	clean, err := cleanUnderscores(digits)
	if err != nil || clean == "" {
		return nil, p.fail("invalid integer literal")
	}
	if n, err := strconv.ParseInt(clean, base, 64); err == nil {
		return n, nil
	}
	bi, ok := new(big.Int).SetString(clean, base)
	if !ok {
		return nil, p.fail("invalid integer literal")
	}
	return bi, nil
}

// cleanUnderscores removes digit separators, which may only sit between digits.
func cleanUnderscores(s string) (string, error) {
	if !strings.Contains(s, "_") {
		return s, nil
	}
	if strings.HasPrefix(s, "_") || strings.HasSuffix(s, "_") || strings.Contains(s, "__") {
		return "", fmt.Errorf("invalid digit separator in %q", s)
	}
	for i := 1; i < len(s)-1; i++ {
		if s[i] == '_' && !(isHexDigit(s[i-1]) && isHexDigit(s[i+1])) {
			return "", fmt.Errorf("invalid digit separator in %q", s)
		}
	}
	return strings.ReplaceAll(s, "_", ""), nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isNameStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= 0x80
}
