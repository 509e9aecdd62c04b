// Package config provides configuration management for the windscribe client.
// It handles loading, saving, and managing application settings.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yllada/windscribe-client/common"
	"github.com/yllada/windscribe-client/vpn"
)

// Config represents the application configuration.
// All settings are persisted to a YAML file in the user's config directory.
type Config struct {
	// Binary is the external client, a name looked up in PATH or a path.
	Binary string `yaml:"binary"`
	// Launcher selects how the client is run: "pty" or "pipe".
	Launcher string `yaml:"launcher"`
	// ReadTimeout bounds each wait for output.
	ReadTimeout time.Duration `yaml:"read_timeout"`
	// CommandTimeout bounds a whole command.
	CommandTimeout time.Duration `yaml:"command_timeout"`
	// Credentials controls where login looks for missing credentials.
	Credentials CredentialsConfig `yaml:"credentials"`
	// Reachability configures the network check done before network commands.
	Reachability ReachabilityConfig `yaml:"reachability"`
	// Notifications enables desktop notifications for connection events.
	Notifications bool `yaml:"notifications"`
	// LogLevel is one of "debug", "info", "warn" or "error".
	LogLevel string `yaml:"log_level"`
	// LogFile enables file logging when set.
	LogFile string `yaml:"log_file"`
	// Phrases overrides the texts recognized in the client's output.
	Phrases vpn.Phrases `yaml:"phrases"`
}

// CredentialsConfig names the credential sources.
type CredentialsConfig struct {
	UsernameEnv string `yaml:"username_env"`
	PasswordEnv string `yaml:"password_env"`
	// UseKeyring consults the system keyring after the environment.
	UseKeyring bool `yaml:"use_keyring"`
}

// ReachabilityConfig configures the DNS probe.
type ReachabilityConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Resolvers []string      `yaml:"resolvers"`
	ProbeName string        `yaml:"probe_name"`
	Timeout   time.Duration `yaml:"timeout"`
}

// DefaultConfig returns the default configuration.
// These are sensible defaults for most users.
func DefaultConfig() *Config {
	probe := vpn.DefaultProbeConfig()
	return &Config{
		Binary:         common.DefaultBinary,
		Launcher:       "pty",
		ReadTimeout:    common.ReadTimeout,
		CommandTimeout: common.CommandTimeout,
		Credentials: CredentialsConfig{
			UsernameEnv: common.UsernameEnv,
			PasswordEnv: common.PasswordEnv,
			UseKeyring:  false,
		},
		Reachability: ReachabilityConfig{
			Enabled:   true,
			Resolvers: probe.Resolvers,
			ProbeName: probe.Name,
			Timeout:   probe.Timeout,
		},
		Notifications: true,
		LogLevel:      "info",
		Phrases:       vpn.DefaultPhrases(),
	}
}

// DefaultPath returns ~/.config/windscribe-client/config.yaml.
func DefaultPath() (string, error) {
	dir, err := common.GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, common.ConfigFileName), nil
}

// Load loads the configuration from path, or from DefaultPath when path is
// empty. If the file doesn't exist, it creates one with default values.
// Settings missing from the file keep their defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	// If it doesn't exist, return default configuration
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := DefaultConfig()
		if err := cfg.Save(path); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening configuration: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true) // Strict validation: reject unknown fields

	config := DefaultConfig()
	if err := decoder.Decode(config); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("error parsing configuration: %w", err)
	}

	// Validate values
	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// validate verifies that configuration values are valid, falling back to
// defaults for values that are merely out of range.
func (c *Config) validate() error {
	def := DefaultConfig()

	if c.Binary == "" {
		c.Binary = def.Binary
	}
	if c.Launcher != "pty" && c.Launcher != "pipe" {
		c.Launcher = def.Launcher
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = def.ReadTimeout
	}
	if c.CommandTimeout <= 0 {
		c.CommandTimeout = def.CommandTimeout
	}
	if c.CommandTimeout < c.ReadTimeout {
		return fmt.Errorf("command_timeout %v is shorter than read_timeout %v", c.CommandTimeout, c.ReadTimeout)
	}
	if c.Credentials.UsernameEnv == "" {
		c.Credentials.UsernameEnv = def.Credentials.UsernameEnv
	}
	if c.Credentials.PasswordEnv == "" {
		c.Credentials.PasswordEnv = def.Credentials.PasswordEnv
	}
	if c.Reachability.Timeout <= 0 {
		c.Reachability.Timeout = def.Reachability.Timeout
	}
	if _, err := common.ParseLogLevel(c.LogLevel); err != nil {
		c.LogLevel = def.LogLevel // Fallback to default
	}
	c.Phrases = c.Phrases.Merge(def.Phrases)
	return nil
}

// Save saves the configuration to path.
func (c *Config) Save(path string) error {
	// Create directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("error serializing configuration: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("error saving configuration: %w", err)
	}

	return nil
}

// ProbeConfig returns the reachability settings for vpn.NewDNSProber.
func (c *Config) ProbeConfig() vpn.ProbeConfig {
	return vpn.ProbeConfig{
		Resolvers: c.Reachability.Resolvers,
		Name:      c.Reachability.ProbeName,
		Timeout:   c.Reachability.Timeout,
	}
}

// EnvNames returns the credential environment variable names.
func (c *Config) EnvNames() vpn.EnvNames {
	return vpn.EnvNames{Username: c.Credentials.UsernameEnv, Password: c.Credentials.PasswordEnv}
}
