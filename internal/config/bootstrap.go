package config

import (
	"errors"
	"os"
	"path/filepath"
)

// EnsureUserConfig materializes the operator's editable config on first run by
// copying the packaged defaults (SLA targets, matching rules, digest cadence)
// into the data dir. An existing user config is never touched: edits survive
// upgrades.
func EnsureUserConfig(dataDir string, defaultPath string) (string, error) {
	userPath := filepath.Join(dataDir, "config.yml")

	_, err := os.Stat(userPath)
	if err == nil {
		return userPath, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return "", err
	}

	b, err := os.ReadFile(defaultPath)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(userPath, b, 0o644); err != nil {
		return "", err
	}
	return userPath, nil
}
