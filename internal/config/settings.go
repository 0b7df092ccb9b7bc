package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// SettingsFile is the name of the global settings store.
const SettingsFile = "settings.toml"

// Defaults applied when the settings store leaves a value unset.
const (
	DefaultTimeout   = 60 * time.Second
	DefaultMaxWidth  = 100 // popup columns
	DefaultMinHeight = 5   // popup lines
)

// Settings is the global settings store.
type Settings struct {
	Executable string `toml:"executable"`
	Timeout    string `toml:"timeout"`
	MaxWidth   int    `toml:"max_width"`
	MinHeight  int    `toml:"min_height"`
}

// DefaultSettingsPath returns <UserConfigDir>/mypyreveal/settings.toml, or ""
// when the platform has no config directory.
func DefaultSettingsPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "mypyreveal", SettingsFile)
}

// LoadSettings decodes the settings store at path. A missing file yields
// empty settings.
func LoadSettings(path string) (Settings, error) {
	var s Settings
	if path == "" {
		return s, nil
	}
	path = ExpandHome(path)
	if _, err := toml.DecodeFile(path, &s); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Settings{}, nil
		}
		return Settings{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	return s, nil
}

// TimeoutOr returns the configured checker timeout, or def when unset or
// unparseable.
func (s Settings) TimeoutOr(def time.Duration) time.Duration {
	if s.Timeout == "" {
		return def
	}
	d, err := time.ParseDuration(s.Timeout)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

// MaxWidthOr returns the popup width, or def when unset.
func (s Settings) MaxWidthOr(def int) int {
	if s.MaxWidth <= 0 {
		return def
	}
	return s.MaxWidth
}

// MinHeightOr returns the popup minimum height, or def when unset.
func (s Settings) MinHeightOr(def int) int {
	if s.MinHeight <= 0 {
		return def
	}
	return s.MinHeight
}
