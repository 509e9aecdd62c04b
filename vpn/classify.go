package vpn

import (
	"github.com/yllada/windscribe-client/common"
	"github.com/yllada/windscribe-client/output"
)

// rule maps a family of phrases to the error reported when any of them
// appears in a command's output.
type rule struct {
	phrases []string
	kind    error
	detail  string
}

// classify returns an *common.OutputError for the first rule whose phrases
// appear in lines, or nil. Rules are checked in order.
func classify(command string, lines []string, rules ...rule) error {
	clean := output.NonEmpty(output.SanitizeLines(lines))
	for _, r := range rules {
		if common.AnyLineContainsFold(clean, r.phrases) {
			return common.NewOutputError(r.kind, command, r.detail, clean)
		}
	}
	return nil
}

func (c *Client) notLoggedIn() rule {
	return rule{phrases: c.opts.Phrases.NotLoggedIn, kind: common.ErrNotLoggedIn}
}

func (c *Client) rejected() rule {
	return rule{phrases: c.opts.Phrases.CredentialRejection, kind: common.ErrInvalidCredentials}
}

func (c *Client) needsPro() rule {
	return rule{phrases: c.opts.Phrases.EntitlementDenial, kind: common.ErrProAccountRequired}
}

func (c *Client) offline() rule {
	return rule{phrases: c.opts.Phrases.NetworkFailure, kind: common.ErrConnection}
}

// withCommand records command on an *common.OutputError that has none.
func withCommand(err error, command string) error {
	if oe, ok := err.(*common.OutputError); ok && oe.Command == "" {
		oe.Command = command
	}
	return err
}
