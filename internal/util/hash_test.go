package util

import (
	"strings"
	"testing"
)

func TestContentHash(t *testing.T) {
	a, err := ContentHash([]byte("ISO-10303-21;"))
	if err != nil {
		t.Fatalf("ContentHash error: %v", err)
	}
	if len(a) != 32 {
		t.Fatalf("expected 32 hex characters, got %d", len(a))
	}
	b, err := ContentHashReader(strings.NewReader("ISO-10303-21;"))
	if err != nil {
		t.Fatalf("ContentHashReader error: %v", err)
	}
	if a != b {
		t.Fatalf("hashes differ: %s %s", a, b)
	}
	c, _ := ContentHash([]byte("ISO-10303-21; "))
	if a == c {
		t.Fatal("different content must hash differently")
	}
}
