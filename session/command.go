package session

import (
	"fmt"
	"strings"

	"github.com/mattn/go-shellwords"

	"github.com/yllada/windscribe-client/common"
)

// shellSpecial holds the characters the command line splitter treats as
// separators, quotes or operators.
const shellSpecial = " \t\n\\'\"`$;&|<>()#"

// EscapeToken backslash-escapes every character in s that would otherwise
// split the token or change its meaning. "CA Toronto" becomes `CA\ Toronto`.
func EscapeToken(s string) string {
	if s == "" {
		return `""`
	}
	if !strings.ContainsAny(s, shellSpecial) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 4)
	for _, r := range s {
		if strings.ContainsRune(shellSpecial, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// CommandLine renders binary and args as one escaped command line.
func CommandLine(binary string, args ...string) string {
	tokens := make([]string, 0, len(args)+1)
	tokens = append(tokens, EscapeToken(binary))
	for _, a := range args {
		tokens = append(tokens, EscapeToken(a))
	}
	return strings.Join(tokens, " ")
}

// SplitCommandLine parses an escaped command line back into argv.
// Environment variables and backticks are not expanded.
func SplitCommandLine(line string) ([]string, error) {
	parser := shellwords.NewParser()
	parser.ParseEnv = false
	parser.ParseBacktick = false

	argv, err := parser.Parse(line)
	if err != nil {
		return nil, fmt.Errorf("%w: parse %q: %v", common.ErrSpawn, line, err)
	}
	if len(argv) == 0 {
		return nil, fmt.Errorf("%w: empty command line", common.ErrSpawn)
	}
	return argv, nil
}
