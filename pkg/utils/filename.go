package utils

import (
	"strings"
	"unicode/utf8"
)

const (
	maxFileNameLen = 120
	untitled       = "untitled"
)

// stripped characters are dropped without a substitute.
var stripped = strings.NewReplacer("?", "", "*", "", `"`, "", "<", "", ">", "", "|", "")

// SanitizeFileName turns arbitrary text into a name safe to use as a path element.
// Path separators, colons and control characters become '-', the characters ? * " < > |
// are removed, the result is trimmed and cut to 120 characters. Blank input yields "untitled".
func SanitizeFileName(text string) string {
	s := strings.TrimSpace(stripped.Replace(text))
	s = strings.Map(func(r rune) rune {
		switch {
		case r == '/', r == '\\', r == ':':
			return '-'
		case r < 0x20, r == 0x7f:
			return '-'
		}
		return r
	}, s)
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) > maxFileNameLen {
		s = strings.TrimSpace(string([]rune(s)[:maxFileNameLen]))
	}
	if s == "" {
		return untitled
	}
	return s
}
