package vpn

import (
	"os"

	"github.com/yllada/windscribe-client/common"
)

// Credentials is a username and password pair. The password is never
// logged.
type Credentials struct {
	Username string
	Password string
}

// EnvNames names the environment variables consulted for credentials.
type EnvNames struct {
	Username string
	Password string
}

// DefaultEnvNames returns WINDSCRIBE_USER and WINDSCRIBE_PW.
func DefaultEnvNames() EnvNames {
	return EnvNames{Username: common.UsernameEnv, Password: common.PasswordEnv}
}

// EnvLookup reads an environment variable. os.LookupEnv satisfies it.
type EnvLookup func(key string) (string, bool)

// CredentialSource is a last-resort store of credentials, such as the
// system keyring. A missing value is reported as an error.
type CredentialSource interface {
	Name() string
	Username() (string, error)
	Password() (string, error)
}

// ResolveCredentials fills each field of explicit that is empty, first from
// the environment and then from fallback, which may be nil. A username that
// cannot be found is reported before a password.
func ResolveCredentials(explicit Credentials, lookup EnvLookup, names EnvNames, fallback CredentialSource) (Credentials, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	username, err := resolveField("username", explicit.Username, lookup, names.Username, fallback, CredentialSource.Username)
	if err != nil {
		return Credentials{}, err
	}
	password, err := resolveField("password", explicit.Password, lookup, names.Password, fallback, CredentialSource.Password)
	if err != nil {
		return Credentials{}, err
	}

	return Credentials{Username: username, Password: password}, nil
}

func resolveField(field, explicit string, lookup EnvLookup, env string, fallback CredentialSource,
	get func(CredentialSource) (string, error)) (string, error) {
	if explicit != "" {
		return explicit, nil
	}

	sources := []string{"argument"}
	if env != "" {
		if v, ok := lookup(env); ok && v != "" {
			return v, nil
		}
		sources = append(sources, "$"+env)
	}

	if fallback != nil {
		v, err := get(fallback)
		if err == nil && v != "" {
			return v, nil
		}
		if err != nil {
			common.LogDebug("%s lookup in %s failed: %v", field, fallback.Name(), err)
		}
		sources = append(sources, fallback.Name())
	}

	return "", &common.MissingCredentialError{Field: field, Sources: sources}
}
