package config

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/keychord/internal/input/key"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.ChordTimeout != time.Second {
		t.Errorf("ChordTimeout = %v, want 1s", cfg.ChordTimeout)
	}
	if cfg.Platform != key.CurrentPlatform() {
		t.Errorf("Platform = %v, want %v", cfg.Platform, key.CurrentPlatform())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestLoadFS(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/etc/keychord/config.toml", `
chord_timeout = "1500ms"
platform = "mac"

[keybindings]
defaults = "defaults.json"
user = "/home/u/keybindings.yaml"
extensions = "ext"

[logging]
level = "debug"
format = "json"
`)

	cfg, err := LoadFS(memfs, "/etc/keychord/config.toml", nil)
	if err != nil {
		t.Fatalf("LoadFS error: %v", err)
	}
	want := Config{
		ChordTimeout: 1500 * time.Millisecond,
		Platform:     key.PlatformMac,
		DefaultsFile: "/etc/keychord/defaults.json",
		UserFile:     "/home/u/keybindings.yaml",
		ExtensionDir: "/etc/keychord/ext",
		LogLevel:     "debug",
		LogFormat:    "json",
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFSTimeoutForms(t *testing.T) {
	tests := []struct {
		doc  string
		want time.Duration
	}{
		{`chord_timeout = 750`, 750 * time.Millisecond},
		{`chord_timeout = "2s"`, 2 * time.Second},
		{`chord_timeout = "250"`, 250 * time.Millisecond},
		{`chord_timeout = 0`, 0},
	}
	for _, tt := range tests {
		memfs := NewMemFS()
		memfs.AddFile("/c.toml", tt.doc)
		cfg, err := LoadFS(memfs, "/c.toml", nil)
		if err != nil {
			t.Errorf("%s: error %v", tt.doc, err)
			continue
		}
		if cfg.ChordTimeout != tt.want {
			t.Errorf("%s: ChordTimeout = %v, want %v", tt.doc, cfg.ChordTimeout, tt.want)
		}
	}
}

func TestLoadFSMissingFile(t *testing.T) {
	cfg, err := LoadFS(NewMemFS(), "/nope.toml", nil)
	if err != nil {
		t.Fatalf("missing file error: %v", err)
	}
	if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
		t.Errorf("missing file should give defaults (-want +got):\n%s", diff)
	}

	if _, err := LoadFS(NewMemFS(), "", nil); err != nil {
		t.Errorf("empty path error: %v", err)
	}
}

func TestLoadFSErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{"bad toml", `chord_timeout = `, nil},
		{"bad timeout", `chord_timeout = "soon"`, ErrInvalidValue},
		{"negative timeout", `chord_timeout = -5`, ErrInvalidValue},
		{"bad platform", `platform = "amiga"`, ErrInvalidValue},
		{"bad level", "[logging]\nlevel = \"loud\"", ErrInvalidValue},
		{"bad format", "[logging]\nformat = \"xml\"", ErrInvalidValue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			memfs := NewMemFS()
			memfs.AddFile("/c.toml", tt.doc)
			_, err := LoadFS(memfs, "/c.toml", nil)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
			if tt.want == nil {
				var pe *ParseError
				if !errors.As(err, &pe) {
					t.Errorf("error = %T, want *ParseError", err)
				}
			}
		})
	}
}

func TestLoadFSEnvOverrides(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/c.toml", "chord_timeout = 500\nplatform = \"linux\"\n[logging]\nlevel = \"warn\"")

	env := MapLookup(map[string]string{
		EnvChordTimeout: "1200",
		EnvPlatform:     "windows",
		EnvLogLevel:     "debug",
		EnvLogFormat:    "",
		EnvUserFile:     "/tmp/user.json",
	})
	cfg, err := LoadFS(memfs, "/c.toml", env)
	if err != nil {
		t.Fatalf("LoadFS error: %v", err)
	}
	if cfg.ChordTimeout != 1200*time.Millisecond {
		t.Errorf("ChordTimeout = %v, want 1.2s", cfg.ChordTimeout)
	}
	if cfg.Platform != key.PlatformWindows {
		t.Errorf("Platform = %v, want windows", cfg.Platform)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.LogFormat != "text" {
		t.Errorf("empty env value should be ignored, LogFormat = %q", cfg.LogFormat)
	}
	if cfg.UserFile != "/tmp/user.json" {
		t.Errorf("UserFile = %q", cfg.UserFile)
	}
}

func TestLoadFSEnvErrors(t *testing.T) {
	for _, env := range []map[string]string{
		{EnvChordTimeout: "later"},
		{EnvPlatform: "plan9"},
	} {
		_, err := LoadFS(NewMemFS(), "", MapLookup(env))
		var se *SettingError
		if !errors.As(err, &se) || !errors.Is(err, ErrInvalidValue) {
			t.Errorf("env %v: error = %v, want *SettingError", env, err)
		}
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv(EnvChordTimeout, "3s")
	t.Setenv(EnvLogLevel, "error")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.ChordTimeout != 3*time.Second || cfg.LogLevel != "error" {
		t.Errorf("cfg = %+v", cfg)
	}
}
