package state

import "strings"

var nullTokens = map[string]bool{
	"undefined": true,
	"NaN":       true,
	"Infinity":  true,
}

// normalizeLiterals rewrites the JavaScript-only value tokens undefined, NaN,
// Infinity, +Infinity and -Infinity to null. Minified booleans !0 and !1
// become true and false, and new Date(x) is replaced by its argument x (null
// when empty). String literals and comments are copied verbatim, and a bare
// token used as an object key is left alone.
func normalizeLiterals(src string) string {
	var b strings.Builder
	b.Grow(len(src))

	for i := 0; i < len(src); {
		c := src[i]
		switch {
		case c == '"' || c == '\'':
			j := skipString(src, i)
			b.WriteString(src[i:j])
			i = j
		case c == '/' && i+1 < len(src) && src[i+1] == '/':
			j := strings.IndexByte(src[i:], '\n')
			if j < 0 {
				j = len(src)
			} else {
				j += i
			}
			b.WriteString(src[i:j])
			i = j
		case c == '/' && i+1 < len(src) && src[i+1] == '*':
			j := strings.Index(src[i+2:], "*/")
			if j < 0 {
				j = len(src)
			} else {
				j += i + 4
			}
			b.WriteString(src[i:j])
			i = j
		case c == '!' && i+1 < len(src) && (src[i+1] == '0' || src[i+1] == '1') &&
			(i+2 == len(src) || !isIdentPart(src[i+2])):
			if src[i+1] == '0' {
				b.WriteString("true")
			} else {
				b.WriteString("false")
			}
			i += 2
		case (c == '-' || c == '+') && hasWordAt(src, i+1, "Infinity"):
			b.WriteString("null")
			i += 1 + len("Infinity")
		case isIdentStart(c):
			j := i + 1
			for j < len(src) && isIdentPart(src[j]) {
				j++
			}
			word := src[i:j]
			if word == "new" {
				if arg, end, ok := dateArgument(src, j); ok {
					if arg == "" {
						b.WriteString("null")
					} else {
						b.WriteString(normalizeLiterals(arg))
					}
					i = end
					continue
				}
			}
			if nullTokens[word] && !followedByColon(src, j) {
				b.WriteString("null")
			} else {
				b.WriteString(word)
			}
			i = j
		case isDigit(c):
			// numbers such as 1e5 must not be split into an identifier
			j := i + 1
			for j < len(src) && isIdentPart(src[j]) {
				j++
			}
			b.WriteString(src[i:j])
			i = j
		default:
			b.WriteByte(c)
			i++
		}
	}

	return b.String()
}

// dateArgument matches ` Date(...)` starting at i, just after a new keyword.
// It returns the trimmed argument text and the index past the closing paren.
func dateArgument(src string, i int) (string, int, bool) {
	i = skipSpace(src, i)
	if !hasWordAt(src, i, "Date") {
		return "", 0, false
	}
	open := skipSpace(src, i+len("Date"))
	if open >= len(src) || src[open] != '(' {
		return "", 0, false
	}
	depth := 0
	for j := open; j < len(src); {
		switch src[j] {
		case '"', '\'':
			j = skipString(src, j)
			continue
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return strings.TrimSpace(src[open+1 : j]), j + 1, true
			}
		}
		j++
	}
	return "", 0, false
}

func skipSpace(src string, i int) int {
	for i < len(src) && (src[i] == ' ' || src[i] == '\t' || src[i] == '\n' || src[i] == '\r') {
		i++
	}
	return i
}

// skipString returns the index just past the string literal opening at i
func skipString(src string, i int) int {
	quote := src[i]
	for j := i + 1; j < len(src); j++ {
		switch src[j] {
		case '\\':
			j++
		case quote:
			return j + 1
		}
	}
	return len(src)
}

func hasWordAt(src string, i int, word string) bool {
	if !strings.HasPrefix(src[i:], word) {
		return false
	}
	end := i + len(word)
	return end == len(src) || !isIdentPart(src[end])
}

func followedByColon(src string, i int) bool {
	for ; i < len(src); i++ {
		switch src[i] {
		case ' ', '\t', '\n', '\r':
			continue
		case ':':
			return true
		default:
			return false
		}
	}
	return false
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
