// Package keyring reads and writes the account credentials in the system
// keyring (Secret Service, macOS Keychain or Windows Credential Manager).
//
// Credentials are only written when the user asks for it explicitly; login
// reads them as a last resort after arguments and the environment.
package keyring

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/yllada/windscribe-client/common"
)

// Keys under which the two values are stored.
const (
	usernameKey = "username"
	passwordKey = "password"
)

// Common errors returned by keyring operations.
var (
	ErrNotFound    = errors.New("credential not found")
	ErrUnavailable = errors.New("keyring service unavailable")
)

// Store is one service entry in the system keyring.
type Store struct {
	service string
}

// New returns a store for service.
func New(service string) *Store {
	return &Store{service: service}
}

// Default returns the store used by the command line client.
func Default() *Store {
	return New(common.KeyringService)
}

// Name identifies the store in error messages.
func (s *Store) Name() string {
	return "keyring"
}

// Username returns the stored username.
func (s *Store) Username() (string, error) {
	return s.get(usernameKey)
}

// Password returns the stored password.
func (s *Store) Password() (string, error) {
	return s.get(passwordKey)
}

func (s *Store) get(key string) (string, error) {
	value, err := keyring.Get(s.service, key)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return value, nil
}

// Save stores both values.
func (s *Store) Save(username, password string) error {
	if username == "" {
		return errors.New("username cannot be empty")
	}
	if password == "" {
		return errors.New("password cannot be empty")
	}

	if err := keyring.Set(s.service, usernameKey, username); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if err := keyring.Set(s.service, passwordKey, password); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Delete removes both values. Values that are already absent are ignored.
func (s *Store) Delete() error {
	for _, key := range []string{usernameKey, passwordKey} {
		if err := keyring.Delete(s.service, key); err != nil && !errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}
	return nil
}

// Exists reports whether both values are stored.
func (s *Store) Exists() bool {
	if _, err := s.Username(); err != nil {
		return false
	}
	_, err := s.Password()
	return err == nil
}
