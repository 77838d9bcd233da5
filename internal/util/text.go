package util

import (
	"strings"
	"unicode/utf8"
)

// SanitizePostgresText strips what a Postgres text column rejects. Story names
// and error messages come from decoded IFC strings and may contain both.
func SanitizePostgresText(value string) string {
	if value == "" {
		return value
	}

	sanitized := strings.ToValidUTF8(value, "")
	return strings.ReplaceAll(sanitized, "\x00", "")
}

// SanitizeAll applies SanitizePostgresText to every value.
func SanitizeAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = SanitizePostgresText(v)
	}
	return out
}

// Truncate shortens value to at most max runes, appending "..." when cut.
func Truncate(value string, max int) string {
	if max <= 0 || utf8.RuneCountInString(value) <= max {
		return value
	}
	if max <= 3 {
		return string([]rune(value)[:max])
	}
	return string([]rune(value)[:max-3]) + "..."
}
