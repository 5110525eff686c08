package manifest

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrMalformedManifest indicates the manifest text violates the
	// document grammar.
	ErrMalformedManifest = errors.New("malformed manifest")

	// ErrUnserializableValue indicates an in-memory value that cannot be
	// represented as manifest text.
	ErrUnserializableValue = errors.New("unserializable value")
)

// ParseError describes a grammar violation at a specific position.
type ParseError struct {
	Reason string
	Line   int
	Col    int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%v: line %d, column %d: %s", ErrMalformedManifest, e.Line, e.Col, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return ErrMalformedManifest
}

// Parse converts manifest text into a [Document]. It fails with an error
// wrapping [ErrMalformedManifest] on unterminated section headers, duplicate
// keys within a section, and invalid literal syntax. Literals outside the
// typed model (floats, dates, multi-line strings) are preserved as raw
// passthrough values.
func Parse(data []byte) (*Document, error) {
	p := &parser{src: string(data), line: 1, col: 1}

	doc := NewDocument()
	cur := doc.Root()

	var trivia []string

	for !p.eof() {
		lineStart := p.pos
		p.skipSpaces()

		switch {
		case p.eof():
			// Whitespace-only final line.
			trivia = append(trivia, p.src[lineStart:p.pos])

		case p.peek() == '\n' || p.peek() == '\r':
			trivia = append(trivia, p.takeLine(lineStart))

		case p.peek() == '#':
			trivia = append(trivia, p.takeLine(lineStart))

		case p.peek() == '[':
			headerLine, headerCol := p.line, p.col

			sec, err := p.parseHeader()
			if err != nil {
				return nil, err
			}

			if !sec.Array && doc.Section(sec.Name) != nil {
				return nil, &ParseError{
					Line:   headerLine,
					Col:    headerCol,
					Reason: fmt.Sprintf("duplicate section %q", sec.Name),
				}
			}

			sec.Trivia = trivia
			trivia = nil
			doc.Sections = append(doc.Sections, sec)
			cur = sec

		default:
			entryLine, entryCol := p.line, p.col

			entry, err := p.parseEntry()
			if err != nil {
				return nil, err
			}

			if cur.Has(entry.Key) {
				return nil, &ParseError{
					Line:   entryLine,
					Col:    entryCol,
					Reason: fmt.Sprintf("duplicate key %q in section %q", entry.Key, cur.Name),
				}
			}

			entry.Trivia = trivia
			trivia = nil
			cur.Entries = append(cur.Entries, entry)
		}
	}

	doc.Tail = trivia

	return doc, nil
}

type parser struct {
	src  string
	pos  int
	line int
	col  int
}

func (p *parser) eof() bool {
	return p.pos >= len(p.src)
}

func (p *parser) peek() byte {
	return p.src[p.pos]
}

func (p *parser) peekAt(off int) byte {
	if p.pos+off >= len(p.src) {
		return 0
	}

	return p.src[p.pos+off]
}

func (p *parser) advance() byte {
	c := p.src[p.pos]
	p.pos++

	if c == '\n' {
		p.line++
		p.col = 1
	} else {
		p.col++
	}

	return c
}

func (p *parser) skipSpaces() {
	for !p.eof() && (p.peek() == ' ' || p.peek() == '\t') {
		p.advance()
	}
}

// takeLine consumes the rest of the current line, including its terminator,
// and returns the text from start without the terminator.
func (p *parser) takeLine(start int) string {
	for !p.eof() && p.peek() != '\n' {
		p.advance()
	}

	end := p.pos
	if end > start && p.src[end-1] == '\r' {
		end--
	}

	if !p.eof() {
		p.advance() // consume '\n'
	}

	return p.src[start:end]
}

func (p *parser) errorf(format string, args ...any) error {
	return &ParseError{Line: p.line, Col: p.col, Reason: fmt.Sprintf(format, args...)}
}

// atEOL reports whether the cursor is at a line terminator or end of input.
func (p *parser) atEOL() bool {
	return p.eof() || p.peek() == '\n' || (p.peek() == '\r' && p.peekAt(1) == '\n')
}

// consumeEOL consumes a line terminator, if present.
func (p *parser) consumeEOL() {
	if p.eof() {
		return
	}

	if p.peek() == '\r' {
		p.advance()
	}

	if !p.eof() && p.peek() == '\n' {
		p.advance()
	}
}

// consumeComment consumes a trailing "# ..." comment and returns it, or "".
func (p *parser) consumeComment() string {
	if p.eof() || p.peek() != '#' {
		return ""
	}

	start := p.pos
	for !p.eof() && p.peek() != '\n' {
		p.advance()
	}

	end := p.pos
	if end > start && p.src[end-1] == '\r' {
		end--
	}

	return p.src[start:end]
}

func (p *parser) parseHeader() (*Section, error) {
	p.advance() // '['

	sec := &Section{}
	closing := "]"

	if !p.eof() && p.peek() == '[' {
		p.advance()

		sec.Array = true
		closing = "]]"
	}

	var parts []string

	for {
		p.skipSpaces()

		if p.atEOL() {
			return nil, p.errorf("unterminated section header")
		}

		part, err := p.parseKeyPart()
		if err != nil {
			return nil, err
		}

		parts = append(parts, part)
		p.skipSpaces()

		if p.atEOL() {
			return nil, p.errorf("unterminated section header")
		}

		if p.peek() == '.' {
			p.advance()

			continue
		}

		break
	}

	for range closing {
		if p.eof() || p.peek() != ']' {
			return nil, p.errorf("unterminated section header")
		}

		p.advance()
	}

	sec.Name = strings.Join(parts, ".")

	p.skipSpaces()
	sec.Comment = p.consumeComment()

	if !p.atEOL() {
		return nil, p.errorf("unexpected characters after section header")
	}

	p.consumeEOL()

	return sec, nil
}

// parseKeyPart reads one bare or quoted key component. Quoted components are
// returned with their quotes so they round-trip verbatim.
func (p *parser) parseKeyPart() (string, error) {
	c := p.peek()

	if c == '"' || c == '\'' {
		start := p.pos
		quote := c
		p.advance()

		for !p.eof() && p.peek() != quote {
			if p.peek() == '\n' {
				return "", p.errorf("unterminated string")
			}

			p.advance()
		}

		if p.eof() {
			return "", p.errorf("unterminated string")
		}

		p.advance()

		return p.src[start:p.pos], nil
	}

	start := p.pos
	for !p.eof() && isBareKeyChar(p.peek()) {
		p.advance()
	}

	if p.pos == start {
		return "", p.errorf("expected key")
	}

	return p.src[start:p.pos], nil
}

func isBareKeyChar(c byte) bool {
	return c == '-' || c == '_' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func (p *parser) parseEntry() (Entry, error) {
	var parts []string

	for {
		part, err := p.parseKeyPart()
		if err != nil {
			return Entry{}, err
		}

		parts = append(parts, part)
		p.skipSpaces()

		if !p.eof() && p.peek() == '.' {
			p.advance()
			p.skipSpaces()

			continue
		}

		break
	}

	if p.eof() || p.peek() != '=' {
		return Entry{}, p.errorf("expected '=' after key")
	}

	p.advance()
	p.skipSpaces()

	if p.atEOL() {
		return Entry{}, p.errorf("missing value")
	}

	val, err := p.parseValue()
	if err != nil {
		return Entry{}, err
	}

	p.skipSpaces()

	entry := Entry{
		Key:     strings.Join(parts, "."),
		Value:   val,
		Comment: p.consumeComment(),
	}

	if !p.atEOL() {
		return Entry{}, p.errorf("unexpected characters after value")
	}

	p.consumeEOL()

	return entry, nil
}

func (p *parser) parseValue() (Value, error) {
	switch c := p.peek(); {
	case c == '"' && p.peekAt(1) == '"' && p.peekAt(2) == '"':
		return p.parseMultilineRaw(`"""`)
	case c == '\'' && p.peekAt(1) == '\'' && p.peekAt(2) == '\'':
		return p.parseMultilineRaw(`'''`)
	case c == '"':
		return p.parseBasicString()
	case c == '\'':
		return p.parseLiteralString()
	case c == '[':
		return p.parseArray()
	case c == '{':
		return p.parseInlineTable()
	default:
		return p.parseScalar()
	}
}

// parseMultilineRaw consumes a multi-line string and preserves it verbatim.
func (p *parser) parseMultilineRaw(delim string) (Value, error) {
	start := p.pos

	for range delim {
		p.advance()
	}

	for {
		if p.pos+len(delim) > len(p.src) {
			return Value{}, p.errorf("unterminated string")
		}

		if p.src[p.pos:p.pos+len(delim)] == delim {
			for range delim {
				p.advance()
			}
			// Multi-line delimiters may be followed by up to two extra
			// quotes that belong to the content.
			for !p.eof() && p.peek() == delim[0] {
				p.advance()
			}

			return Raw(p.src[start:p.pos]), nil
		}

		p.advance()
	}
}

func (p *parser) parseBasicString() (Value, error) {
	p.advance() // opening quote

	var sb strings.Builder

	for {
		if p.eof() || p.peek() == '\n' {
			return Value{}, p.errorf("unterminated string")
		}

		c := p.advance()

		if c == '"' {
			return String(sb.String()), nil
		}

		if c != '\\' {
			sb.WriteByte(c)

			continue
		}

		if p.eof() {
			return Value{}, p.errorf("unterminated string")
		}

		esc := p.advance()
		switch esc {
		case 'b':
			sb.WriteByte('\b')
		case 't':
			sb.WriteByte('\t')
		case 'n':
			sb.WriteByte('\n')
		case 'f':
			sb.WriteByte('\f')
		case 'r':
			sb.WriteByte('\r')
		case '"':
			sb.WriteByte('"')
		case '\\':
			sb.WriteByte('\\')
		case 'u', 'U':
			n := 4
			if esc == 'U' {
				n = 8
			}

			if p.pos+n > len(p.src) {
				return Value{}, p.errorf("invalid unicode escape")
			}

			code, err := strconv.ParseUint(p.src[p.pos:p.pos+n], 16, 32)
			if err != nil {
				return Value{}, p.errorf("invalid unicode escape")
			}

			for range n {
				p.advance()
			}

			sb.WriteRune(rune(code))
		default:
			return Value{}, p.errorf("invalid escape '\\%c'", esc)
		}
	}
}

func (p *parser) parseLiteralString() (Value, error) {
	p.advance() // opening quote

	start := p.pos

	for !p.eof() && p.peek() != '\'' {
		if p.peek() == '\n' {
			return Value{}, p.errorf("unterminated string")
		}

		p.advance()
	}

	if p.eof() {
		return Value{}, p.errorf("unterminated string")
	}

	s := p.src[start:p.pos]
	p.advance()

	return String(s), nil
}

// skipArrayGaps skips whitespace, newlines, and comments between array
// elements. Comments inside arrays are not round-tripped.
func (p *parser) skipArrayGaps() {
	for !p.eof() {
		switch p.peek() {
		case ' ', '\t', '\r', '\n':
			p.advance()
		case '#':
			for !p.eof() && p.peek() != '\n' {
				p.advance()
			}
		default:
			return
		}
	}
}

func (p *parser) parseArray() (Value, error) {
	p.advance() // '['

	var elems []Value

	for {
		p.skipArrayGaps()

		if p.eof() {
			return Value{}, p.errorf("unterminated array")
		}

		if p.peek() == ']' {
			p.advance()

			return Array(elems...), nil
		}

		elem, err := p.parseValue()
		if err != nil {
			return Value{}, err
		}

		elems = append(elems, elem)
		p.skipArrayGaps()

		if p.eof() {
			return Value{}, p.errorf("unterminated array")
		}

		if p.peek() == ',' {
			p.advance()

			continue
		}

		if p.peek() != ']' {
			return Value{}, p.errorf("expected ',' or ']' in array")
		}
	}
}

func (p *parser) parseInlineTable() (Value, error) {
	p.advance() // '{'

	var entries []TableEntry

	p.skipSpaces()

	if !p.eof() && p.peek() == '}' {
		p.advance()

		return InlineTable(), nil
	}

	for {
		p.skipSpaces()

		if p.atEOL() {
			return Value{}, p.errorf("unterminated inline table")
		}

		var parts []string

		for {
			part, err := p.parseKeyPart()
			if err != nil {
				return Value{}, err
			}

			parts = append(parts, part)
			p.skipSpaces()

			if !p.eof() && p.peek() == '.' {
				p.advance()
				p.skipSpaces()

				continue
			}

			break
		}

		if p.eof() || p.peek() != '=' {
			return Value{}, p.errorf("expected '=' in inline table")
		}

		p.advance()
		p.skipSpaces()

		if p.atEOL() {
			return Value{}, p.errorf("unterminated inline table")
		}

		val, err := p.parseValue()
		if err != nil {
			return Value{}, err
		}

		entries = append(entries, TableEntry{Key: strings.Join(parts, "."), Value: val})
		p.skipSpaces()

		if p.eof() {
			return Value{}, p.errorf("unterminated inline table")
		}

		switch p.peek() {
		case ',':
			p.advance()
		case '}':
			p.advance()

			return InlineTable(entries...), nil
		default:
			return Value{}, p.errorf("expected ',' or '}' in inline table")
		}
	}
}

// parseScalar reads one bare token and classifies it as a boolean, an
// integer, or a raw passthrough literal.
func (p *parser) parseScalar() (Value, error) {
	start := p.pos

	for !p.eof() && !isScalarEnd(p.peek()) {
		p.advance()
	}

	token := p.src[start:p.pos]
	if token == "" {
		return Value{}, p.errorf("missing value")
	}

	switch token {
	case "true":
		return Bool(true), nil
	case "false":
		return Bool(false), nil
	}

	if isIntegerToken(token) {
		i, err := strconv.ParseInt(strings.ReplaceAll(token, "_", ""), 10, 64)
		if err == nil {
			return Integer(i), nil
		}
	}

	return Raw(token), nil
}

func isScalarEnd(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', ',', ']', '}', '#':
		return true
	}

	return false
}

func isIntegerToken(s string) bool {
	if s[0] == '+' || s[0] == '-' {
		s = s[1:]
	}

	if s == "" {
		return false
	}

	for i := range len(s) {
		c := s[i]
		if c == '_' {
			continue
		}

		if c < '0' || c > '9' {
			return false
		}
	}

	return true
}
