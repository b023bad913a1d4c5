// Package telemetry sends anonymous officekit usage events to PostHog.
// Nothing is sent until the user opts in; consent lives in
// ~/.officekit/telemetry.json next to the global config.
package telemetry

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// ConfigFileName is the name of the consent file.
const ConfigFileName = "telemetry.json"

// Environment variables that force telemetry off regardless of consent.
const (
	EnvDisable    = "OFFICEKIT_TELEMETRY_DISABLED"
	EnvDoNotTrack = "DO_NOT_TRACK"
)

// Config holds consent state.
type Config struct {
	Enabled      bool   `json:"enabled"`
	ConsentAsked bool   `json:"consent_asked"`
	AnonymousID  string `json:"anonymous_id"` // random, never tied to the user
}

// Store reads and writes Config under a directory.
type Store struct {
	fs  afero.Fs
	dir string
}

// NewStore returns a consent store rooted at dir. An empty dir means ~/.officekit.
func NewStore(fsys afero.Fs, dir string) (*Store, error) {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		dir = filepath.Join(home, ".officekit")
	}
	return &Store{fs: fsys, dir: dir}, nil
}

// Path returns the consent file path.
func (s *Store) Path() string {
	return filepath.Join(s.dir, ConfigFileName)
}

// Load reads the consent file. A missing file yields a disabled config with a
// fresh anonymous id.
func (s *Store) Load() (*Config, error) {
	cfg := &Config{}

	data, err := afero.ReadFile(s.fs, s.Path())
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config file: %w", err)
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if cfg.AnonymousID == "" {
		cfg.AnonymousID = uuid.New().String()
	}
	return cfg, nil
}

// Save writes cfg with owner-only permissions.
func (s *Store) Save(cfg *Config) error {
	if err := s.fs.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := afero.WriteFile(s.fs, s.Path(), data, 0600); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Enable turns telemetry on and records that consent was given.
func (c *Config) Enable() {
	c.Enabled = true
	c.ConsentAsked = true
}

// Disable turns telemetry off and records the choice.
func (c *Config) Disable() {
	c.Enabled = false
	c.ConsentAsked = true
}

// NeedsConsent reports whether the user has never been asked.
func (c *Config) NeedsConsent() bool {
	return !c.ConsentAsked
}

// IsEnabled reports whether events may be sent. The opt-out environment
// variables win over the stored choice.
func (c *Config) IsEnabled() bool {
	return c.Enabled && !DisabledByEnv()
}

// DisabledByEnv reports whether OFFICEKIT_TELEMETRY_DISABLED or DO_NOT_TRACK is set to a truthy value.
func DisabledByEnv() bool {
	for _, key := range []string{EnvDisable, EnvDoNotTrack} {
		switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
		case "", "0", "false", "no":
		default:
			return true
		}
	}
	return false
}
