package ifc

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// codePages maps the \P?\ directive to the ISO 8859 part used by \S\ escapes.
var codePages = map[byte]*charmap.Charmap{
	'A': charmap.ISO8859_1,
	'B': charmap.ISO8859_2,
	'C': charmap.ISO8859_3,
	'D': charmap.ISO8859_4,
	'E': charmap.ISO8859_5,
	'F': charmap.ISO8859_6,
	'G': charmap.ISO8859_7,
	'H': charmap.ISO8859_8,
	'I': charmap.ISO8859_9,
}

// encodeString quotes s as a STEP string literal. Characters outside printable ASCII are
// written as \X2\ UTF-16 runs.
func encodeString(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('\'')

	var pending []rune
	flush := func() {
		if len(pending) == 0 {
			return
		}
		b.WriteString(`\X2\`)
		for _, unit := range utf16.Encode(pending) {
			fmt.Fprintf(&b, "%04X", unit)
		}
		b.WriteString(`\X0\`)
		pending = pending[:0]
	}

	for _, r := range s {
		if r < 0x20 || r > 0x7E {
			pending = append(pending, r)
			continue
		}
		flush()
		switch r {
		case '\'':
			b.WriteString("''")
		case '\\':
			b.WriteString(`\\`)
		default:
			b.WriteRune(r)
		}
	}
	flush()

	b.WriteByte('\'')
	return b.String()
}

// decodeString resolves the control directives of a STEP string body (quotes removed,
// doubled apostrophes still present). Raw bytes above 0x7F are kept when the body is
// valid UTF-8 and read in the current code page otherwise, as older exporters write
// Latin-1 text unescaped.
func decodeString(body string) (string, error) {
	var b strings.Builder
	b.Grow(len(body))

	page := charmap.ISO8859_1
	rawUTF8 := utf8.ValidString(body)

	for i := 0; i < len(body); {
		c := body[i]
		if c == '\'' {
			// lexer guarantees apostrophes come in pairs
			b.WriteByte('\'')
			i += 2
			continue
		}
		if c != '\\' {
			if c >= utf8.RuneSelf && !rawUTF8 {
				b.WriteRune(page.DecodeByte(c))
			} else {
				b.WriteByte(c)
			}
			i++
			continue
		}

		rest := body[i:]
		switch {
		case strings.HasPrefix(rest, `\\`):
			b.WriteByte('\\')
			i += 2
		case strings.HasPrefix(rest, `\S\`) && len(rest) >= 4:
			b.WriteRune(page.DecodeByte(rest[3] | 0x80))
			i += 4
		case strings.HasPrefix(rest, `\X\`) && len(rest) >= 5:
			n, err := strconv.ParseUint(rest[3:5], 16, 8)
			if err != nil {
				return "", fmt.Errorf("invalid \\X\\ escape %q", rest[:5])
			}
			b.WriteRune(rune(n))
			i += 5
		case strings.HasPrefix(rest, `\X2\`):
			end := strings.Index(rest[4:], `\X0\`)
			if end < 0 {
				return "", fmt.Errorf("unterminated \\X2\\ escape")
			}
			s, err := decodeHexUnits(rest[4:4+end], 4)
			if err != nil {
				return "", err
			}
			b.WriteString(s)
			i += 4 + end + 4
		case strings.HasPrefix(rest, `\X4\`):
			end := strings.Index(rest[4:], `\X0\`)
			if end < 0 {
				return "", fmt.Errorf("unterminated \\X4\\ escape")
			}
			s, err := decodeHexUnits(rest[4:4+end], 8)
			if err != nil {
				return "", err
			}
			b.WriteString(s)
			i += 4 + end + 4
		case len(rest) >= 4 && rest[1] == 'P' && rest[3] == '\\':
			if p, ok := codePages[rest[2]]; ok {
				page = p
			}
			i += 4
		default:
			b.WriteByte('\\')
			i++
		}
	}

	return b.String(), nil
}

func decodeHexUnits(hex string, width int) (string, error) {
	if len(hex)%width != 0 {
		return "", fmt.Errorf("invalid hex run length %d", len(hex))
	}
	if width == 8 {
		var b strings.Builder
		for i := 0; i < len(hex); i += width {
			n, err := strconv.ParseUint(hex[i:i+width], 16, 32)
			if err != nil {
				return "", fmt.Errorf("invalid hex run %q", hex)
			}
			b.WriteRune(rune(n))
		}
		return b.String(), nil
	}

	units := make([]uint16, 0, len(hex)/width)
	for i := 0; i < len(hex); i += width {
		n, err := strconv.ParseUint(hex[i:i+width], 16, 16)
		if err != nil {
			return "", fmt.Errorf("invalid hex run %q", hex)
		}
		units = append(units, uint16(n))
	}
	return string(utf16.Decode(units)), nil
}
