package helpers

import (
	"strings"
	"unicode"
)

// SanitizeFileComponent makes s safe to use inside a file or directory name.
// Whitespace and path separators become underscores.
func SanitizeFileComponent(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '/' || r == '\\' || r == ':' {
			return '_'
		}
		return r
	}, s)
}
