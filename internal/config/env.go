package config

import (
	"os"

	"github.com/dshills/keychord/internal/input/key"
)

// EnvPrefix prefixes every environment variable keychord reads.
const EnvPrefix = "KEYCHORD_"

// Environment variables that override the settings file.
const (
	EnvChordTimeout = EnvPrefix + "CHORD_TIMEOUT"
	EnvPlatform     = EnvPrefix + "PLATFORM"
	EnvLogLevel     = EnvPrefix + "LOG_LEVEL"
	EnvLogFormat    = EnvPrefix + "LOG_FORMAT"
	EnvUserFile     = EnvPrefix + "USER_FILE"
	EnvExtensionDir = EnvPrefix + "EXTENSION_DIR"
)

// LookupFunc looks up an environment variable.
type LookupFunc func(name string) (string, bool)

// EnvLookup reads the process environment.
func EnvLookup(name string) (string, bool) {
	return os.LookupEnv(name)
}

// MapLookup returns a LookupFunc backed by m.
func MapLookup(m map[string]string) LookupFunc {
	return func(name string) (string, bool) {
		v, ok := m[name]
		return v, ok
	}
}

// applyEnv overrides settings from the environment. Empty values are
// ignored.
func (c *Config) applyEnv(lookup LookupFunc) error {
	get := func(name string) (string, bool) {
		v, ok := lookup(name)
		return v, ok && v != ""
	}

	if v, ok := get(EnvChordTimeout); ok {
		d, err := parseTimeout(v)
		if err != nil {
			return &SettingError{Setting: EnvChordTimeout, Value: v, Err: err}
		}
		c.ChordTimeout = d
	}
	if v, ok := get(EnvPlatform); ok {
		p, err := key.ParsePlatform(v)
		if err != nil {
			return &SettingError{Setting: EnvPlatform, Value: v, Err: err}
		}
		c.Platform = p
	}
	if v, ok := get(EnvLogLevel); ok {
		c.LogLevel = v
	}
	if v, ok := get(EnvLogFormat); ok {
		c.LogFormat = v
	}
	if v, ok := get(EnvUserFile); ok {
		c.UserFile = v
	}
	if v, ok := get(EnvExtensionDir); ok {
		c.ExtensionDir = v
	}
	return nil
}
