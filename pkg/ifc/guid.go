package ifc

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const guidAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz_$"

// NewGlobalID returns a fresh 22 character IFC GlobalId derived from a random UUID.
func NewGlobalID() string {
	return CompressGlobalID(uuid.New())
}

// CompressGlobalID encodes a 128 bit UUID in the IFC base64 GlobalId form.
func CompressGlobalID(u uuid.UUID) string {
	out := make([]byte, 0, 22)
	out = appendDigits(out, uint32(u[0]), 2)
	for i := 1; i < 16; i += 3 {
		n := uint32(u[i])<<16 | uint32(u[i+1])<<8 | uint32(u[i+2])
		out = appendDigits(out, n, 4)
	}
	return string(out)
}

// ExpandGlobalID decodes an IFC GlobalId back into its UUID.
func ExpandGlobalID(guid string) (uuid.UUID, error) {
	var u uuid.UUID
	if len(guid) != 22 {
		return u, fmt.Errorf("invalid GlobalId %q: length %d", guid, len(guid))
	}

	first, err := parseDigits(guid[0:2])
	if err != nil || first > 0xFF {
		return u, fmt.Errorf("invalid GlobalId %q", guid)
	}
	u[0] = byte(first)

	for i, j := 1, 2; i < 16; i, j = i+3, j+4 {
		n, err := parseDigits(guid[j : j+4])
		if err != nil {
			return u, fmt.Errorf("invalid GlobalId %q", guid)
		}
		u[i] = byte(n >> 16)
		u[i+1] = byte(n >> 8)
		u[i+2] = byte(n)
	}
	return u, nil
}

func appendDigits(out []byte, n uint32, digits int) []byte {
	buf := make([]byte, digits)
	for d := digits - 1; d >= 0; d-- {
		buf[d] = guidAlphabet[n%64]
		n /= 64
	}
	return append(out, buf...)
}

func parseDigits(s string) (uint32, error) {
	var n uint32
	for i := 0; i < len(s); i++ {
		idx := strings.IndexByte(guidAlphabet, s[i])
		if idx < 0 {
			return 0, fmt.Errorf("invalid GlobalId character %q", s[i])
		}
		n = n*64 + uint32(idx)
	}
	return n, nil
}
