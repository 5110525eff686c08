package manifest

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// EncodeError describes a value that cannot be represented as manifest text.
type EncodeError struct {
	Section string
	Key     string
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("%v: key %q in section %q", ErrUnserializableValue, e.Key, e.Section)
}

func (e *EncodeError) Unwrap() error {
	return ErrUnserializableValue
}

// Encode serializes doc to manifest text. Section, key, and value content and
// ordering are exact; trivia is reproduced verbatim where it was captured.
// Encode writes nothing anywhere: callers get the full buffer or an error.
func Encode(doc *Document) ([]byte, error) {
	var buf bytes.Buffer

	for _, sec := range doc.Sections {
		for _, line := range sec.Trivia {
			buf.WriteString(line)
			buf.WriteByte('\n')
		}

		if sec.Name != "" {
			opener, closer := "[", "]"
			if sec.Array {
				opener, closer = "[[", "]]"
			}

			buf.WriteString(opener)
			buf.WriteString(sec.Name)
			buf.WriteString(closer)

			if sec.Comment != "" {
				buf.WriteByte(' ')
				buf.WriteString(sec.Comment)
			}

			buf.WriteByte('\n')
		}

		for _, e := range sec.Entries {
			for _, line := range e.Trivia {
				buf.WriteString(line)
				buf.WriteByte('\n')
			}

			rendered, err := renderValue(e.Value)
			if err != nil {
				return nil, &EncodeError{Section: sec.Name, Key: e.Key}
			}

			buf.WriteString(e.Key)
			buf.WriteString(" = ")
			buf.WriteString(rendered)

			if e.Comment != "" {
				buf.WriteByte(' ')
				buf.WriteString(e.Comment)
			}

			buf.WriteByte('\n')
		}
	}

	for _, line := range doc.Tail {
		buf.WriteString(line)
		buf.WriteByte('\n')
	}

	return buf.Bytes(), nil
}

func renderValue(v Value) (string, error) {
	switch v.Kind() {
	case KindString:
		s, _ := v.AsString()

		return renderString(s), nil

	case KindBool:
		b, _ := v.AsBool()

		return strconv.FormatBool(b), nil

	case KindInteger:
		i, _ := v.AsInteger()

		return strconv.FormatInt(i, 10), nil

	case KindArray:
		elems, _ := v.AsArray()
		parts := make([]string, len(elems))

		for i, elem := range elems {
			rendered, err := renderValue(elem)
			if err != nil {
				return "", err
			}

			parts[i] = rendered
		}

		return "[" + strings.Join(parts, ", ") + "]", nil

	case KindInlineTable:
		entries, _ := v.AsTable()
		if len(entries) == 0 {
			return "{}", nil
		}

		parts := make([]string, len(entries))

		for i, te := range entries {
			rendered, err := renderValue(te.Value)
			if err != nil {
				return "", err
			}

			parts[i] = te.Key + " = " + rendered
		}

		return "{ " + strings.Join(parts, ", ") + " }", nil

	case KindRaw:
		s, _ := v.RawText()

		return s, nil

	case KindInvalid:
	}

	return "", ErrUnserializableValue
}

func renderString(s string) string {
	var sb strings.Builder

	sb.WriteByte('"')

	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\b':
			sb.WriteString(`\b`)
		case '\t':
			sb.WriteString(`\t`)
		case '\n':
			sb.WriteString(`\n`)
		case '\f':
			sb.WriteString(`\f`)
		case '\r':
			sb.WriteString(`\r`)
		default:
			if r < 0x20 {
				fmt.Fprintf(&sb, `\u%04X`, r)
			} else {
				sb.WriteRune(r)
			}
		}
	}

	sb.WriteByte('"')

	return sb.String()
}
