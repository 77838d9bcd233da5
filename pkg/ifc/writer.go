package ifc

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const originatingSystem = "ifcfilter"

// Write serializes the model as a STEP physical file, entities in instance order.
func (m *Model) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.WriteString(m.headerText()); err != nil {
		return err
	}

	var werr error
	var line strings.Builder
	m.Each(func(e *Entity) bool {
		line.Reset()
		line.WriteByte('#')
		line.WriteString(strconv.FormatUint(e.ID, 10))
		line.WriteByte('=')
		line.WriteString(e.Type)
		line.WriteByte('(')
		for i, v := range e.attrs {
			if i > 0 {
				line.WriteByte(',')
			}
			writeValue(&line, v)
		}
		line.WriteString(");\n")
		if _, err := bw.WriteString(line.String()); err != nil {
			werr = err
			return false
		}
		return true
	})
	if werr != nil {
		return werr
	}

	if _, err := bw.WriteString("ENDSEC;\nEND-ISO-10303-21;\n"); err != nil {
		return err
	}
	return bw.Flush()
}

// Bytes returns the serialized model.
func (m *Model) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := m.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile writes the model to path through a temporary file in the same directory, so a
// failed write never leaves a truncated model behind.
func (m *Model) WriteFile(path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".ifcfilter-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := m.Write(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write model: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

func (m *Model) headerText() string {
	fn := m.Header.FileName
	if fn.TimeStamp == "" {
		fn.TimeStamp = time.Now().UTC().Format("2006-01-02T15:04:05")
	}
	if fn.OriginatingSystem == "" {
		fn.OriginatingSystem = originatingSystem
	}
	level := m.Header.ImplementationLevel
	if level == "" {
		level = "2;1"
	}

	var b strings.Builder
	b.WriteString("ISO-10303-21;\nHEADER;\n")
	fmt.Fprintf(&b, "FILE_DESCRIPTION(%s,%s);\n", stringsValue(m.Header.Description), encodeString(level))
	fmt.Fprintf(&b, "FILE_NAME(%s,%s,%s,%s,%s,%s,%s);\n",
		encodeString(fn.Name),
		encodeString(fn.TimeStamp),
		stringsValue(fn.Author),
		stringsValue(fn.Organization),
		encodeString(fn.PreprocessorVersion),
		encodeString(fn.OriginatingSystem),
		encodeString(fn.Authorization),
	)
	fmt.Fprintf(&b, "FILE_SCHEMA((%s));\n", encodeString(m.SchemaName))
	b.WriteString("ENDSEC;\nDATA;\n")
	return b.String()
}

func stringsValue(ss []string) string {
	if len(ss) == 0 {
		return "('')"
	}
	items := make([]string, len(ss))
	for i, s := range ss {
		items[i] = encodeString(s)
	}
	return "(" + strings.Join(items, ",") + ")"
}
