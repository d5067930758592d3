// Package filename builds download names that are safe to put in a
// Content-Disposition header or a local path.
package filename

import "strings"

const (
	fallback = "download"
	maxBase  = 100
)

// Sanitize maps every rune outside [A-Za-z0-9_-] to '_', caps the base at
// 100 runes and appends ext, which may carry one leading dot.
func Sanitize(name, ext string) string {
	base := strings.TrimSpace(name)
	if base == "" {
		base = fallback
	}

	var b strings.Builder
	n := 0
	for _, r := range base {
		if n == maxBase {
			break
		}
		if isSafe(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
		n++
	}

	out := b.String()
	if out == "" {
		out = fallback
	}
	return out + "." + strings.TrimPrefix(ext, ".")
}

func isSafe(r rune) bool {
	return r >= 'a' && r <= 'z' ||
		r >= 'A' && r <= 'Z' ||
		r >= '0' && r <= '9' ||
		r == '_' || r == '-'
}
