// Package common provides shared constants, types, and utilities
// used across the windscribe client.
package common

import (
	"os"
	"path/filepath"
	"strings"
)

// GetConfigDir returns the path to the application configuration directory.
// It creates the directory if it doesn't exist.
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", WrapError(err, "failed to get home directory")
	}

	configDir := filepath.Join(homeDir, ".config", ConfigDirName)
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return "", WrapError(err, "failed to create config directory")
	}

	return configDir, nil
}

// FileExists checks if a file exists at the given path.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ContainsFold reports whether s contains any of the phrases, ignoring case.
// Empty phrases never match.
func ContainsFold(s string, phrases []string) bool {
	lower := strings.ToLower(s)
	for _, p := range phrases {
		if p == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(p)) {
			return true
		}
	}
	return false
}

// AnyLineContainsFold reports whether any line contains any of the phrases.
func AnyLineContainsFold(lines []string, phrases []string) bool {
	for _, line := range lines {
		if ContainsFold(line, phrases) {
			return true
		}
	}
	return false
}
