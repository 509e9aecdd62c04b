// Package output turns the text printed by the external VPN client into
// typed values: ANSI-free strings, location records, connection status and
// account details.
//
// Every parser here works on a fixed, versioned text layout. When the layout
// changes the parsers fail with an error from the common package rather than
// guessing.
package output

import (
	"regexp"
	"strings"
)

// ansiSequence matches a CSI introducer (8-bit 0x9B or ESC '[') followed by
// parameter bytes, intermediate bytes and one final byte.
var ansiSequence = regexp.MustCompile(`(\x9B|\x1B\[)[0-?]*[ -/]*[@-~]`)

// Sanitize removes terminal control sequences from s.
// Text that is not part of an escape sequence is returned unchanged.
func Sanitize(s string) string {
	if !strings.ContainsAny(s, "\x1b\u009b") {
		return s
	}
	return ansiSequence.ReplaceAllString(s, "")
}

// SanitizeLine strips escape sequences and the trailing carriage return a
// pseudo-terminal appends to each line.
func SanitizeLine(s string) string {
	return strings.TrimRight(Sanitize(s), "\r\n")
}

// SanitizeLines applies SanitizeLine to every element of lines.
func SanitizeLines(lines []string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = SanitizeLine(line)
	}
	return out
}

// NonEmpty returns the lines that contain something other than whitespace.
func NonEmpty(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}
