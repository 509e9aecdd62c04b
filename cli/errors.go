package cli

import (
	"errors"
	"fmt"

	"github.com/yllada/windscribe-client/common"
)

// hints suggest a next step for errors the user can fix.
var hints = []struct {
	target error
	hint   string
}{
	{common.ErrMissingCredential, "pass --username and --prompt, or set WINDSCRIBE_USER and WINDSCRIBE_PW"},
	{common.ErrInvalidCredentials, "check the username and password"},
	{common.ErrNotLoggedIn, "run 'windscribe-client login' first"},
	{common.ErrProAccountRequired, "this location needs a Pro plan; try 'windscribe-client connect' for the best free location"},
	{common.ErrConnection, "check the network connection"},
	{common.ErrSpawn, "is the windscribe CLI installed? set --binary or 'binary' in the config file"},
	{common.ErrSchema, "the windscribe CLI output changed; please report it with --log-level debug output"},
	{common.ErrUnrecognizedProtocol, "the windscribe CLI output changed; please report it with --log-level debug output"},
}

// explain adds a hint to errors the user can act on. The original error
// stays in the chain.
func explain(err error) error {
	for _, h := range hints {
		if errors.Is(err, h.target) {
			return fmt.Errorf("%w\n  hint: %s", err, h.hint)
		}
	}
	return err
}
