package ifc

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
)

var ErrNoModelInArchive = errors.New("archive contains no .ifc file")

var zipMagic = []byte("PK\x03\x04")

// IsArchive reports whether data starts with a zip local file header.
func IsArchive(data []byte) bool {
	return bytes.HasPrefix(data, zipMagic)
}

// ReadArchive reads the first .ifc entry of an .ifczip archive.
func ReadArchive(r io.ReaderAt, size int64) (*Model, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}

	for _, f := range zr.File {
		if f.FileInfo().IsDir() || !strings.EqualFold(path.Ext(f.Name), ".ifc") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", f.Name, err)
		}
		m, err := Read(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.Name, err)
		}
		return m, nil
	}

	return nil, ErrNoModelInArchive
}

// WriteArchive writes the model as a single-entry .ifczip archive.
func (m *Model) WriteArchive(w io.Writer, entryName string) error {
	if !strings.EqualFold(path.Ext(entryName), ".ifc") {
		entryName += ".ifc"
	}
	zw := zip.NewWriter(w)
	fw, err := zw.Create(entryName)
	if err != nil {
		return err
	}
	if err := m.Write(fw); err != nil {
		return err
	}
	return zw.Close()
}
