package output

import (
	"regexp"
	"strings"

	"github.com/yllada/windscribe-client/common"
)

// StatusState is the classified state of the tunnel.
type StatusState int

const (
	// StatusUnknown means the output could not be classified; Raw holds it.
	StatusUnknown StatusState = iota
	// StatusNotConnected means the tunnel is down.
	StatusNotConnected
	// StatusConnected means the tunnel is up and IP is set.
	StatusConnected
)

// String returns a human-readable representation of the state.
func (s StatusState) String() string {
	switch s {
	case StatusNotConnected:
		return "Not Connected"
	case StatusConnected:
		return "Connected"
	default:
		return "Unknown"
	}
}

// ConnectionStatus is the result of one status query. It is produced fresh
// for every query and never cached.
type ConnectionStatus struct {
	State StatusState `json:"state"`
	// IP is the tunnel address reported by the client when connected.
	IP string `json:"ip,omitempty"`
	// Raw is the sanitized output, kept for diagnostics when State is
	// StatusUnknown.
	Raw []string `json:"raw,omitempty"`
}

// Connected reports whether the tunnel is up.
func (s ConnectionStatus) Connected() bool {
	return s.State == StatusConnected
}

func (s ConnectionStatus) String() string {
	switch s.State {
	case StatusConnected:
		return "Connected to ip: " + s.IP
	case StatusNotConnected:
		return "Not Connected"
	default:
		return "Unknown: " + strings.Join(s.Raw, " | ")
	}
}

// ipv4Pattern matches four dot-separated groups of one to three digits.
var ipv4Pattern = regexp.MustCompile(`\b(?:[0-9]{1,3}\.){3}[0-9]{1,3}\b`)

// FirstIPv4 returns the first IPv4-shaped token in s, or "".
func FirstIPv4(s string) string {
	return ipv4Pattern.FindString(s)
}

// ClassifyStatus interprets the output of the status command.
//
// The client prints a version banner on the first line and the connection
// state on the second. Only the second line is inspected:
//
//  1. fewer than two lines is unsupported output;
//  2. a service communication error phrase means not connected;
//  3. otherwise the first IPv4 address found is the tunnel IP;
//  4. no address is unsupported output.
//
// This is a positional contract with the client's fixed layout, not a general
// parser. Unsupported output is returned both as a StatusUnknown value and as
// an *common.OutputError wrapping common.ErrUnsupportedOutput.
func ClassifyStatus(lines []string, serviceErrorPhrases []string) (ConnectionStatus, error) {
	clean := SanitizeLines(lines)

	if len(clean) < 2 {
		return ConnectionStatus{State: StatusUnknown, Raw: clean},
			common.NewOutputError(common.ErrUnsupportedOutput, "", "expected at least two lines", clean)
	}

	second := clean[1]
	if common.ContainsFold(second, serviceErrorPhrases) {
		return ConnectionStatus{State: StatusNotConnected}, nil
	}

	if ip := FirstIPv4(second); ip != "" {
		return ConnectionStatus{State: StatusConnected, IP: ip}, nil
	}

	return ConnectionStatus{State: StatusUnknown, Raw: clean},
		common.NewOutputError(common.ErrUnsupportedOutput, "", "no tunnel address on status line", clean)
}
