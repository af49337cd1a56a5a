package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/keychord/internal/input/key"
)

// Config holds keychord settings.
type Config struct {
	// ChordTimeout is the longest gap allowed between two steps of a
	// chord. Zero disables the timeout.
	ChordTimeout time.Duration

	// Platform selects the modifier mapping applied to physical keys.
	Platform key.Platform

	// DefaultsFile replaces the built-in default bindings when set.
	DefaultsFile string

	// UserFile holds the user's binding declarations.
	UserFile string

	// ExtensionDir holds Lua scripts contributing extension bindings.
	ExtensionDir string

	// LogLevel is one of debug, info, warn or error.
	LogLevel string

	// LogFormat is text or json.
	LogFormat string
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	return Config{
		ChordTimeout: 1000 * time.Millisecond,
		Platform:     key.CurrentPlatform(),
		LogLevel:     "info",
		LogFormat:    "text",
	}
}

// fileConfig mirrors the TOML settings file.
type fileConfig struct {
	ChordTimeout any    `toml:"chord_timeout"`
	Platform     string `toml:"platform"`
	Keybindings  struct {
		Defaults   string `toml:"defaults"`
		User       string `toml:"user"`
		Extensions string `toml:"extensions"`
	} `toml:"keybindings"`
	Logging struct {
		Level  string `toml:"level"`
		Format string `toml:"format"`
	} `toml:"logging"`
}

// Load reads the settings file at path from the OS file system and applies
// environment overrides. An empty path or a missing file yields the
// defaults plus overrides.
func Load(path string) (Config, error) {
	return LoadFS(DefaultFS(), path, EnvLookup)
}

// LoadFS is like Load with an explicit file system and environment lookup.
// A nil lookup skips environment overrides.
func LoadFS(fsys FileSystem, path string, lookup LookupFunc) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := fsys.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("reading config file %s: %w", path, err)
		default:
			if err := cfg.applyFile(path, data); err != nil {
				return cfg, err
			}
		}
	}

	if lookup != nil {
		if err := cfg.applyEnv(lookup); err != nil {
			return cfg, err
		}
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyFile(path string, data []byte) error {
	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return &ParseError{Path: path, Message: err.Error(), Err: err}
	}

	if fc.ChordTimeout != nil {
		d, err := timeoutValue(fc.ChordTimeout)
		if err != nil {
			return &SettingError{Setting: "chord_timeout", Value: fmt.Sprint(fc.ChordTimeout), Err: err}
		}
		c.ChordTimeout = d
	}
	if fc.Platform != "" {
		p, err := key.ParsePlatform(fc.Platform)
		if err != nil {
			return &SettingError{Setting: "platform", Value: fc.Platform, Err: err}
		}
		c.Platform = p
	}

	base := filepath.Dir(path)
	c.DefaultsFile = resolvePath(base, fc.Keybindings.Defaults, c.DefaultsFile)
	c.UserFile = resolvePath(base, fc.Keybindings.User, c.UserFile)
	c.ExtensionDir = resolvePath(base, fc.Keybindings.Extensions, c.ExtensionDir)

	if fc.Logging.Level != "" {
		c.LogLevel = fc.Logging.Level
	}
	if fc.Logging.Format != "" {
		c.LogFormat = fc.Logging.Format
	}
	return nil
}

// Validate checks settings that cannot be checked while parsing.
func (c Config) Validate() error {
	if c.ChordTimeout < 0 {
		return &SettingError{Setting: "chord_timeout", Value: c.ChordTimeout.String()}
	}
	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return &SettingError{Setting: "logging.level", Value: c.LogLevel}
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		return &SettingError{Setting: "logging.format", Value: c.LogFormat}
	}
	return nil
}

func resolvePath(base, p, fallback string) string {
	if p == "" {
		return fallback
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

// timeoutValue accepts a duration string ("1.5s", "1500ms"), a bare number
// of milliseconds as a string, or a TOML integer of milliseconds.
func timeoutValue(v any) (time.Duration, error) {
	switch x := v.(type) {
	case int64:
		return time.Duration(x) * time.Millisecond, nil
	case float64:
		return time.Duration(x * float64(time.Millisecond)), nil
	case string:
		return parseTimeout(x)
	default:
		return 0, fmt.Errorf("unsupported type %T", v)
	}
}

func parseTimeout(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Duration(ms) * time.Millisecond, nil
	}
	return time.ParseDuration(s)
}
