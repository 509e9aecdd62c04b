package vpn

import (
	"errors"
	"fmt"

	"github.com/yllada/windscribe-client/common"
	"github.com/yllada/windscribe-client/session"
)

// AuthState is what the login command asked for first.
type AuthState int

const (
	// AuthAwaitingCredentialsPrompt means the username prompt appeared.
	AuthAwaitingCredentialsPrompt AuthState = iota
	// AuthAlreadyLoggedIn means a session already exists and nothing is
	// sent.
	AuthAlreadyLoggedIn
	// AuthFailed means neither appeared before the output ended.
	AuthFailed
)

// String returns a human-readable representation of the state.
func (s AuthState) String() string {
	switch s {
	case AuthAwaitingCredentialsPrompt:
		return "Awaiting credentials"
	case AuthAlreadyLoggedIn:
		return "Already logged in"
	case AuthFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// detectAuthState waits for the username prompt or the already-logged-in
// notice, whichever is printed first.
func (c *Client) detectAuthState(s *session.Session) (AuthState, error) {
	i, err := s.ExpectOneOf(c.opts.Phrases.UsernamePrompt, c.opts.Phrases.AlreadyLoggedIn)
	if err != nil {
		return AuthFailed, err
	}
	if i == 0 {
		return AuthAwaitingCredentialsPrompt, nil
	}
	return AuthAlreadyLoggedIn, nil
}

// authenticate runs the login conversation on s. It reports whether
// credentials were submitted and accepted.
func (c *Client) authenticate(s *session.Session, creds Credentials) (bool, error) {
	state, err := c.detectAuthState(s)
	c.log.Debug("login state: %s", state)

	switch state {
	case AuthAwaitingCredentialsPrompt:
		return c.submitCredentials(s, creds)

	case AuthAlreadyLoggedIn:
		lines, err := s.ReadAll()
		if err != nil {
			return false, err
		}
		c.logOutput(lines)
		c.log.Info("Already logged in")
		return false, nil

	case AuthFailed:
		return false, c.explainProtocolError(s.Command(), err)
	}

	return false, fmt.Errorf("unhandled login state %v", state)
}

// submitCredentials answers the username and password prompts in that
// order and classifies what the client prints afterwards.
func (c *Client) submitCredentials(s *session.Session, creds Credentials) (bool, error) {
	if err := s.SendLine(creds.Username); err != nil {
		return false, err
	}
	if _, err := s.ExpectOneOf(c.opts.Phrases.PasswordPrompt); err != nil {
		return false, c.explainProtocolError(s.Command(), err)
	}
	if err := s.SendLine(creds.Password); err != nil {
		return false, err
	}

	lines, err := s.ReadAll()
	if err != nil {
		return false, err
	}
	c.logDetail(lines)

	if err := classify(s.Command(), lines, c.rejected(), c.offline()); err != nil {
		return false, err
	}
	return true, nil
}

// explainProtocolError looks inside an unrecognized-protocol error for a
// known failure message. The client prints a rejection or a network error
// instead of a prompt in those cases.
func (c *Client) explainProtocolError(command string, err error) error {
	var oe *common.OutputError
	if !errors.As(err, &oe) || !errors.Is(err, common.ErrUnrecognizedProtocol) {
		return err
	}
	if known := classify(command, oe.Output, c.rejected(), c.offline()); known != nil {
		return known
	}
	return err
}
