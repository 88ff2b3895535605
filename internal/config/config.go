// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/smartcli/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete smartcli configuration.
type Config struct {
	Version string `toml:"version"`

	Auth    AuthConfig    `toml:"auth"`
	Session SessionConfig `toml:"session"`
	History HistoryConfig `toml:"history"`
	Bridge  BridgeConfig  `toml:"bridge"`
	Log     LogConfig     `toml:"log"`

	// Apps are the names accepted as launchable applications.
	Apps []string `toml:"apps"`

	// Contacts seed the contact book.
	Contacts []Contact `toml:"contacts"`
}

// AuthConfig controls how a locked session is unlocked.
type AuthConfig struct {
	// Method is one of "pin", "totp" or "none".
	Method string `toml:"method"`

	// PINHash is a bcrypt hash. Empty means the factory PIN is in effect.
	PINHash string `toml:"pin_hash"`

	// TOTPSecret is the base32 secret used when Method is "totp".
	TOTPSecret string `toml:"totp_secret"`

	// MaxAttempts is the retry budget before a lockout starts.
	MaxAttempts int `toml:"max_attempts"`

	// LockoutMinutes is how long a lockout lasts.
	LockoutMinutes int `toml:"lockout_minutes"`

	// LockOnStart requires authentication before the first command.
	LockOnStart bool `toml:"lock_on_start"`
}

// SessionConfig holds interactive session settings.
type SessionConfig struct {
	// IdleTimeoutMinutes locks the session after inactivity. 0 disables.
	IdleTimeoutMinutes int `toml:"idle_timeout_minutes"`

	// Prompt is printed before each input line.
	Prompt string `toml:"prompt"`

	// StatusBar prints the status line before each prompt.
	StatusBar bool `toml:"status_bar"`
}

// HistoryConfig controls the command history and alias database.
type HistoryConfig struct {
	Enabled    bool   `toml:"enabled"`
	DBPath     string `toml:"db_path"`
	MaxEntries int    `toml:"max_entries"`
}

// BridgeConfig controls calls out to the device.
type BridgeConfig struct {
	// TimeoutSeconds bounds every outbound device command.
	TimeoutSeconds int `toml:"timeout_seconds"`

	// ForceAndroid sends intents even when ANDROID_ROOT is not set.
	ForceAndroid bool `toml:"force_android"`

	// IntentsPerSecond throttles outbound intents. 0 disables throttling.
	IntentsPerSecond float64 `toml:"intents_per_second"`
}

// LogConfig controls the diagnostic log.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// Contact is one contact book entry.
type Contact struct {
	Name   string `toml:"name"`
	Number string `toml:"number"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

const (
	// CurrentVersion is written into newly saved files.
	CurrentVersion = "1"

	// DefaultBridgeTimeoutSeconds bounds shell and intent calls.
	DefaultBridgeTimeoutSeconds = 5

	// DefaultMaxAttempts is the PIN retry budget.
	DefaultMaxAttempts = 3

	// DefaultLockoutMinutes is the lockout window after the budget is spent.
	DefaultLockoutMinutes = 15

	// DefaultMaxHistory caps the number of stored history rows.
	DefaultMaxHistory = 1000
)

// Default returns a configuration with all defaults applied.
func Default() *Config {
	return &Config{
		Version: CurrentVersion,
		Auth: AuthConfig{
			Method:         "pin",
			MaxAttempts:    DefaultMaxAttempts,
			LockoutMinutes: DefaultLockoutMinutes,
			LockOnStart:    true,
		},
		Session: SessionConfig{
			IdleTimeoutMinutes: 0,
			Prompt:             "$ ",
			StatusBar:          true,
		},
		History: HistoryConfig{
			Enabled:    true,
			MaxEntries: DefaultMaxHistory,
		},
		Bridge: BridgeConfig{
			TimeoutSeconds:   DefaultBridgeTimeoutSeconds,
			IntentsPerSecond: 2,
		},
		Log: LogConfig{
			Level: "info",
		},
		Apps: []string{"firefox", "calculator", "maps", "contacts", "messages", "camera", "settings", "phone"},
		Contacts: []Contact{
			{Name: "Mom", Number: "+1234567890"},
			{Name: "Dad", Number: "+1234567891"},
			{Name: "John", Number: "+1234567892"},
			{Name: "Alice", Number: "+1234567893"},
			{Name: "Office", Number: "+1234567894"},
		},
	}
}

// =============================================================================
// PATH HELPERS
// =============================================================================

// Dir returns the smartcli configuration directory.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".smartcli"), nil
}

// DefaultPath returns the default config file path.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ResolvePath returns path, or the default path when path is empty.
func ResolvePath(path string) (string, error) {
	if path != "" {
		return path, nil
	}
	return DefaultPath()
}

// =============================================================================
// LOAD / SAVE
// =============================================================================

// Load reads the config file at path (default location when empty). A
// missing file is not an error: defaults are returned. Environment
// overrides are applied last, then the result is validated.
func Load(path string) (*Config, error) {
	resolved, err := ResolvePath(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if _, statErr := os.Stat(resolved); statErr == nil {
		if err := decodeFile(cfg, resolved); err != nil {
			return nil, err
		}
	} else if !errors.Is(statErr, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to stat config file: %w", statErr)
	}

	cfg.ApplyEnvOverrides()
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Decode parses TOML from data on top of the defaults, then applies
// environment overrides exactly as Load does, so a reload never undoes
// what the environment set.
func Decode(data []byte) (*Config, error) {
	cfg := Default()
	// Slices in the file replace the default slices instead of merging.
	cfg.Apps, cfg.Contacts = nil, nil
	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, fmt.Errorf("failed to decode TOML: %w", err)
	}
	cfg.ApplyEnvOverrides()
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func decodeFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	cfg.Apps, cfg.Contacts = nil, nil
	if _, err := toml.Decode(string(data), cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file %s: %w", path, err)
	}
	return nil
}

// Save writes cfg to path (default location when empty) with 0600
// permissions since it may hold the PIN hash and TOTP secret.
func Save(cfg *Config, path string) error {
	resolved, err := ResolvePath(path)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	buf.WriteString("# smartcli configuration file\n")
	buf.WriteString("# Generated by smartcli - edit with care\n\n")
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(resolved, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// fillDefaults replaces zero values that have no sensible zero meaning.
func (c *Config) fillDefaults() {
	d := Default()

	if c.Version == "" {
		c.Version = d.Version
	}
	if c.Auth.Method == "" {
		c.Auth.Method = d.Auth.Method
	}
	if c.Auth.MaxAttempts == 0 {
		c.Auth.MaxAttempts = d.Auth.MaxAttempts
	}
	if c.Auth.LockoutMinutes == 0 {
		c.Auth.LockoutMinutes = d.Auth.LockoutMinutes
	}
	if c.Session.Prompt == "" {
		c.Session.Prompt = d.Session.Prompt
	}
	if c.History.MaxEntries == 0 {
		c.History.MaxEntries = d.History.MaxEntries
	}
	if c.Bridge.TimeoutSeconds == 0 {
		c.Bridge.TimeoutSeconds = d.Bridge.TimeoutSeconds
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if len(c.Apps) == 0 {
		c.Apps = d.Apps
	}
	if len(c.Contacts) == 0 {
		c.Contacts = d.Contacts
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides.
//
// Supported environment variables:
//   - SMARTCLI_AUTH_METHOD: overrides auth.method
//   - SMARTCLI_LOG_LEVEL: overrides log.level
//   - SMARTCLI_HISTORY_DB: overrides history.db_path
//   - SMARTCLI_FORCE_ANDROID: "1" or "true" forces intent delivery
//   - SMARTCLI_IDLE_TIMEOUT: overrides session.idle_timeout_minutes
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("SMARTCLI_AUTH_METHOD"); v != "" {
		c.Auth.Method = strings.ToLower(v)
	}
	if v := os.Getenv("SMARTCLI_LOG_LEVEL"); v != "" {
		c.Log.Level = strings.ToLower(v)
	}
	if v := os.Getenv("SMARTCLI_HISTORY_DB"); v != "" {
		c.History.DBPath = v
	}
	if v := os.Getenv("SMARTCLI_FORCE_ANDROID"); v != "" {
		c.Bridge.ForceAndroid = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("SMARTCLI_IDLE_TIMEOUT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Session.IdleTimeoutMinutes = n
		}
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

var validLevels = map[string]bool{
	"trace": true, "debug": true, "info": true, "warn": true, "error": true, "disabled": true,
}

// Validate checks the configuration and returns ValidateErrors on failure.
func (c *Config) Validate() error {
	var errs ValidateErrors

	switch c.Auth.Method {
	case "pin", "none":
	case "totp":
		if c.Auth.TOTPSecret == "" {
			errs = append(errs, ValidationError{"auth.totp_secret", "required when auth.method is \"totp\""})
		}
	default:
		errs = append(errs, ValidationError{"auth.method", fmt.Sprintf("unknown method %q (want pin, totp or none)", c.Auth.Method)})
	}
	if c.Auth.MaxAttempts < 1 {
		errs = append(errs, ValidationError{"auth.max_attempts", "must be at least 1"})
	}
	if c.Auth.LockoutMinutes < 0 {
		errs = append(errs, ValidationError{"auth.lockout_minutes", "must not be negative"})
	}
	if c.Session.IdleTimeoutMinutes < 0 {
		errs = append(errs, ValidationError{"session.idle_timeout_minutes", "must not be negative"})
	}
	if c.History.MaxEntries < 1 {
		errs = append(errs, ValidationError{"history.max_entries", "must be at least 1"})
	}
	if c.Bridge.TimeoutSeconds < 1 || c.Bridge.TimeoutSeconds > 60 {
		errs = append(errs, ValidationError{"bridge.timeout_seconds", "must be between 1 and 60"})
	}
	if c.Bridge.IntentsPerSecond < 0 {
		errs = append(errs, ValidationError{"bridge.intents_per_second", "must not be negative"})
	}
	if !validLevels[c.Log.Level] {
		errs = append(errs, ValidationError{"log.level", fmt.Sprintf("unknown level %q", c.Log.Level)})
	}
	for i, ct := range c.Contacts {
		if strings.TrimSpace(ct.Name) == "" {
			errs = append(errs, ValidationError{fmt.Sprintf("contacts[%d].name", i), "must not be empty"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// HistoryDBPath returns the configured database path or the default one
// inside the config directory.
func (c *Config) HistoryDBPath() (string, error) {
	if c.History.DBPath != "" {
		return c.History.DBPath, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "history.db"), nil
}

// LogFilePath returns the configured log path or the default one.
func (c *Config) LogFilePath() (string, error) {
	if c.Log.File != "" {
		return c.Log.File, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "smartcli.log"), nil
}
