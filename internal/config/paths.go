package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// GetGlobalConfigDir returns the path to the global configuration directory (~/.officekit).
// It's a variable to allow overriding in tests.
var GetGlobalConfigDir = func() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "."+AppName), nil
}

// GetHistoryPath returns the path of the SQLite turn history database.
// Resolution order (first match wins):
// 1. Explicit config via "history.path" (Viper/env/flag)
// 2. XDG_DATA_HOME/officekit/history.db (if XDG_DATA_HOME is set)
// 3. Global fallback: ~/.officekit/history.db
func GetHistoryPath() string {
	if path := viper.GetString("history.path"); path != "" {
		return path
	}

	if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
		return filepath.Join(xdgData, AppName, "history.db")
	}

	dir, err := GetGlobalConfigDir()
	if err != nil {
		return "history.db"
	}
	return filepath.Join(dir, "history.db")
}

// GetPolicyDir returns the directory holding .rego guardrail policies.
// Defaults to .officekit/policies under the working directory.
func GetPolicyDir() string {
	if dir := viper.GetString("policy.dir"); dir != "" {
		return dir
	}
	return filepath.Join("."+AppName, "policies")
}
