package ifc

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

var ErrSyntax = errors.New("invalid STEP syntax")

// Read parses a STEP physical file (ISO 10303-21) from r.
func Read(r io.Reader) (*Model, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read model: %w", err)
	}
	return Parse(data)
}

// ReadFile opens an .ifc or .ifczip file from disk.
func ReadFile(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Load(path, data)
}

// Load parses data that is either a plain STEP file or a zip archive containing one.
// The name is only used in error messages.
func Load(name string, data []byte) (*Model, error) {
	if IsArchive(data) {
		m, err := ReadArchive(bytes.NewReader(data), int64(len(data)))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return m, nil
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return m, nil
}

// Parse parses an in-memory STEP physical file.
func Parse(data []byte) (*Model, error) {
	p := &parser{data: data}
	return p.parseFile()
}

type record struct {
	id     uint64
	typ    string
	params []Value
}

type parser struct {
	data []byte
	pos  int
}

func (p *parser) errorf(format string, args ...any) error {
	line := 1 + bytes.Count(p.data[:min(p.pos, len(p.data))], []byte{'\n'})
	return fmt.Errorf("line %d: %s: %w", line, fmt.Sprintf(format, args...), ErrSyntax)
}

func (p *parser) parseFile() (*Model, error) {
	if err := p.expectKeyword("ISO-10303-21"); err != nil {
		return nil, err
	}
	if err := p.expect(';'); err != nil {
		return nil, err
	}
	if err := p.expectKeyword("HEADER"); err != nil {
		return nil, err
	}
	if err := p.expect(';'); err != nil {
		return nil, err
	}

	var header []record
	for {
		kw, err := p.keyword()
		if err != nil {
			return nil, err
		}
		if kw == "ENDSEC" {
			if err := p.expect(';'); err != nil {
				return nil, err
			}
			break
		}
		params, err := p.params()
		if err != nil {
			return nil, err
		}
		if err := p.expect(';'); err != nil {
			return nil, err
		}
		header = append(header, record{typ: kw, params: params})
	}

	var records []record
	for {
		kw, err := p.keyword()
		if err != nil {
			return nil, err
		}
		if kw == "END-ISO-10303-21" {
			break
		}
		if kw != "DATA" {
			return nil, p.errorf("expected DATA section, got %s", kw)
		}
		p.skipSpace()
		if p.peek() == '(' {
			if _, err := p.params(); err != nil {
				return nil, err
			}
		}
		if err := p.expect(';'); err != nil {
			return nil, err
		}
		section, err := p.dataSection()
		if err != nil {
			return nil, err
		}
		records = append(records, section...)
	}

	return buildModel(header, records)
}

func (p *parser) dataSection() ([]record, error) {
	var out []record
	for {
		p.skipSpace()
		if p.peek() != '#' {
			kw, err := p.keyword()
			if err != nil {
				return nil, err
			}
			if kw != "ENDSEC" {
				return nil, p.errorf("unexpected %s in DATA section", kw)
			}
			return out, p.expect(';')
		}
		p.pos++
		id, err := p.number()
		if err != nil {
			return nil, err
		}
		if err := p.expect('='); err != nil {
			return nil, err
		}
		p.skipSpace()
		if p.peek() == '(' {
			return nil, p.errorf("complex entity instance #%d is not supported", id)
		}
		typ, err := p.keyword()
		if err != nil {
			return nil, err
		}
		params, err := p.params()
		if err != nil {
			return nil, err
		}
		if err := p.expect(';'); err != nil {
			return nil, err
		}
		out = append(out, record{id: id, typ: typ, params: params})
	}
}

func (p *parser) params() ([]Value, error) {
	if err := p.expect('('); err != nil {
		return nil, err
	}
	var out []Value
	p.skipSpace()
	if p.peek() == ')' {
		p.pos++
		return out, nil
	}
	for {
		v, err := p.value()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
		case ')':
			p.pos++
			return out, nil
		default:
			return nil, p.errorf("expected ',' or ')'")
		}
	}
}

func (p *parser) value() (Value, error) {
	p.skipSpace()
	c := p.peek()
	switch {
	case c == '$':
		p.pos++
		return Null, nil
	case c == '*':
		p.pos++
		return Derived(), nil
	case c == '\'':
		return p.stringValue()
	case c == '"':
		p.pos++
		end := bytes.IndexByte(p.data[p.pos:], '"')
		if end < 0 {
			return Null, p.errorf("unterminated binary")
		}
		v := Binary(string(p.data[p.pos : p.pos+end]))
		p.pos += end + 1
		return v, nil
	case c == '.':
		p.pos++
		end := bytes.IndexByte(p.data[p.pos:], '.')
		if end < 0 {
			return Null, p.errorf("unterminated enumeration")
		}
		v := Enum(string(p.data[p.pos : p.pos+end]))
		p.pos += end + 1
		return v, nil
	case c == '#':
		p.pos++
		id, err := p.number()
		if err != nil {
			return Null, err
		}
		return Ref(id), nil
	case c == '(':
		items, err := p.params()
		if err != nil {
			return Null, err
		}
		return List(items...), nil
	case c == '-' || c == '+' || (c >= '0' && c <= '9'):
		return p.numeric()
	case isKeywordStart(c):
		kw, err := p.keyword()
		if err != nil {
			return Null, err
		}
		items, err := p.params()
		if err != nil {
			return Null, err
		}
		return Value{Kind: KindTyped, Str: kw, Items: items}, nil
	}
	return Null, p.errorf("unexpected character %q", c)
}

func (p *parser) stringValue() (Value, error) {
	p.pos++
	start := p.pos
	for p.pos < len(p.data) {
		if p.data[p.pos] == '\'' {
			if p.pos+1 < len(p.data) && p.data[p.pos+1] == '\'' {
				p.pos += 2
				continue
			}
			body := string(p.data[start:p.pos])
			p.pos++
			s, err := decodeString(body)
			if err != nil {
				return Null, p.errorf("%v", err)
			}
			return String(s), nil
		}
		p.pos++
	}
	return Null, p.errorf("unterminated string")
}

func (p *parser) numeric() (Value, error) {
	start := p.pos
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		if (c >= '0' && c <= '9') || c == '.' || c == '+' || c == '-' || c == 'E' || c == 'e' {
			p.pos++
			continue
		}
		break
	}
	lexeme := string(p.data[start:p.pos])
	if strings.ContainsAny(lexeme, ".Ee") {
		f, err := strconv.ParseFloat(strings.TrimSuffix(lexeme, "."), 64)
		if err != nil {
			return Null, p.errorf("invalid real %q", lexeme)
		}
		return Value{Kind: KindReal, Real: f, Raw: lexeme}, nil
	}
	i, err := strconv.ParseInt(lexeme, 10, 64)
	if err != nil {
		return Null, p.errorf("invalid integer %q", lexeme)
	}
	return Integer(i), nil
}

func (p *parser) number() (uint64, error) {
	start := p.pos
	for p.pos < len(p.data) && p.data[p.pos] >= '0' && p.data[p.pos] <= '9' {
		p.pos++
	}
	if start == p.pos {
		return 0, p.errorf("expected instance number")
	}
	n, err := strconv.ParseUint(string(p.data[start:p.pos]), 10, 64)
	if err != nil {
		return 0, p.errorf("invalid instance number")
	}
	return n, nil
}

func (p *parser) keyword() (string, error) {
	p.skipSpace()
	start := p.pos
	if p.pos >= len(p.data) || !isKeywordStart(p.data[p.pos]) {
		if p.pos >= len(p.data) {
			return "", p.errorf("unexpected end of file")
		}
		return "", p.errorf("expected keyword")
	}
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		if isKeywordStart(c) || (c >= '0' && c <= '9') || c == '-' {
			p.pos++
			continue
		}
		break
	}
	return strings.ToUpper(string(p.data[start:p.pos])), nil
}

func (p *parser) expectKeyword(want string) error {
	kw, err := p.keyword()
	if err != nil {
		return err
	}
	if kw != want {
		return p.errorf("expected %s, got %s", want, kw)
	}
	return nil
}

func (p *parser) expect(c byte) error {
	p.skipSpace()
	if p.peek() != c {
		return p.errorf("expected %q", c)
	}
	p.pos++
	return nil
}

func (p *parser) peek() byte {
	if p.pos >= len(p.data) {
		return 0
	}
	return p.data[p.pos]
}

func (p *parser) skipSpace() {
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			p.pos++
		case c == '/' && p.pos+1 < len(p.data) && p.data[p.pos+1] == '*':
			end := bytes.Index(p.data[p.pos+2:], []byte("*/"))
			if end < 0 {
				p.pos = len(p.data)
				return
			}
			p.pos += end + 4
		default:
			return
		}
	}
}

func isKeywordStart(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || c == '_'
}

func buildModel(header []record, records []record) (*Model, error) {
	schemaName := ""
	var h Header
	for _, rec := range header {
		switch rec.typ {
		case "FILE_SCHEMA":
			if len(rec.params) > 0 {
				if names := stringList(rec.params[0]); len(names) > 0 {
					schemaName = names[0]
				}
			}
		case "FILE_DESCRIPTION":
			if len(rec.params) > 0 {
				h.Description = stringList(rec.params[0])
			}
			if len(rec.params) > 1 {
				h.ImplementationLevel, _ = rec.params[1].AsString()
			}
		case "FILE_NAME":
			h.FileName = fileNameFrom(rec.params)
		}
	}
	if schemaName == "" {
		return nil, fmt.Errorf("missing FILE_SCHEMA: %w", ErrSyntax)
	}

	m := NewModel(schemaName)
	m.Header = h

	for _, rec := range records {
		if _, exists := m.entities.Get(rec.id); exists {
			return nil, fmt.Errorf("#%d: %w", rec.id, ErrDuplicateID)
		}
		m.insert(&Entity{ID: rec.id, Type: rec.typ, attrs: rec.params, model: m})
	}

	var danglingErr error
	m.Each(func(e *Entity) bool {
		for _, v := range e.attrs {
			for _, ref := range v.Refs() {
				if _, ok := m.entities.Get(ref); !ok {
					danglingErr = fmt.Errorf("%s references #%d: %w", e, ref, ErrDanglingReference)
					return false
				}
			}
		}
		m.index(e)
		return true
	})
	if danglingErr != nil {
		return nil, danglingErr
	}

	return m, nil
}

func stringList(v Value) []string {
	var out []string
	if v.Kind != KindList {
		if s, ok := v.AsString(); ok {
			out = append(out, s)
		}
		return out
	}
	for _, item := range v.Items {
		if s, ok := item.AsString(); ok {
			out = append(out, s)
		}
	}
	return out
}

func fileNameFrom(params []Value) FileName {
	get := func(i int) Value {
		if i < len(params) {
			return params[i]
		}
		return Null
	}
	str := func(i int) string {
		s, _ := get(i).AsString()
		return s
	}
	return FileName{
		Name:                str(0),
		TimeStamp:           str(1),
		Author:              stringList(get(2)),
		Organization:        stringList(get(3)),
		PreprocessorVersion: str(4),
		OriginatingSystem:   str(5),
		Authorization:       str(6),
	}
}
