package utils

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const maxLogValueLength = 100

var controlChars = regexp.MustCompile(`[\r\n\t\x00-\x1f\x7f-\x9f]`)

// SanitizeForLog strips control characters from user input and caps its
// length so it cannot forge or flood log lines.
func SanitizeForLog(input string) string {
	sanitized := controlChars.ReplaceAllString(input, "")
	if len(sanitized) > maxLogValueLength {
		// Cut on a rune boundary so the result stays valid UTF-8.
		cut := maxLogValueLength
		for cut > 0 && !utf8.RuneStart(sanitized[cut]) {
			cut--
		}
		sanitized = sanitized[:cut] + "..."
	}
	return strings.TrimSpace(sanitized)
}
