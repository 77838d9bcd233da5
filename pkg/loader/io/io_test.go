package io

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestIOModelFileLoader(t *testing.T) {
	path := filepath.Join("..", "..", "ifc", "testdata", "tower.ifc")
	l := NewIOModelFileLoader(1)
	f := l.NewModelFile(path)

	m, err := f.GetModel(context.Background())
	if err != nil {
		t.Fatalf("GetModel error: %v", err)
	}
	if m.Schema().Name != "IFC4" {
		t.Fatalf("unexpected schema %s", m.Schema().Name)
	}

	// A second load comes from the cache even when the file is gone.
	tmp := filepath.Join(t.TempDir(), "copy.ifc")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		t.Fatal(err)
	}
	cf := l.NewModelFile(tmp)
	if _, err := cf.GetBytes(context.Background()); err != nil {
		t.Fatalf("GetBytes error: %v", err)
	}
	if err := os.Remove(tmp); err != nil {
		t.Fatal(err)
	}
	if _, err := cf.GetBytes(context.Background()); err != nil {
		t.Fatalf("expected a cached read, got %v", err)
	}
}
