// Package config handles XDG configuration directory, file paths and the
// optional config.jsonc settings file.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tailscale/hujson"
)

const (
	// AppName is the application directory name.
	AppName = "tasksh"

	// CredentialFile is the stored API key filename.
	CredentialFile = "api_key"

	// HistoryFile is the shell history filename.
	HistoryFile = "history"

	// SettingsFile is the optional JSONC settings filename.
	SettingsFile = "config.jsonc"

	// DefaultAPIURL is the base URL of the remote task service.
	DefaultAPIURL = "https://app.asana.com/api/1.0"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Debug enables debug logging.
	Debug bool

	// APIURL is the base URL of the remote task service.
	APIURL string

	// Editor overrides the editor used to compose comments.
	Editor string

	// Pager overrides the pager command for long task output.
	Pager string

	// RequestTimeout bounds each remote call. Zero means no timeout.
	RequestTimeout time.Duration
}

// settings mirrors config.jsonc.
type settings struct {
	APIURL         string `json:"api_url"`
	Editor         string `json:"editor"`
	Pager          string `json:"pager"`
	Debug          bool   `json:"debug"`
	RequestTimeout string `json:"request_timeout"`
}

// New creates a new Config with the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/tasksh or $HOME/.config/tasksh.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	return &Config{Dir: dir, APIURL: DefaultAPIURL}, nil
}

// Load creates a Config like New and applies config.jsonc if it exists.
func Load(configDir string) (*Config, error) {
	cfg, err := New(configDir)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(cfg.SettingsPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", SettingsFile, err)
	}

	if err := cfg.apply(data); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", SettingsFile, err)
	}
	return cfg, nil
}

func (c *Config) apply(data []byte) error {
	// JSONC allows comments and trailing commas
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return err
	}

	var s settings
	if err := json.Unmarshal(standardized, &s); err != nil {
		return err
	}

	if s.APIURL != "" {
		c.APIURL = s.APIURL
	}
	c.Editor = s.Editor
	c.Pager = s.Pager
	c.Debug = c.Debug || s.Debug

	if s.RequestTimeout != "" {
		d, err := time.ParseDuration(s.RequestTimeout)
		if err != nil {
			return fmt.Errorf("request_timeout: %w", err)
		}
		if d < 0 {
			return fmt.Errorf("request_timeout: negative duration %s", s.RequestTimeout)
		}
		c.RequestTimeout = d
	}
	return nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// CredentialPath returns the path to the stored API key.
func (c *Config) CredentialPath() string {
	return filepath.Join(c.Dir, CredentialFile)
}

// HistoryPath returns the path to the shell history file.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.Dir, HistoryFile)
}

// SettingsPath returns the path to config.jsonc.
func (c *Config) SettingsPath() string {
	return filepath.Join(c.Dir, SettingsFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}
