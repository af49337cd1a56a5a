// Package config loads keychord settings and key binding declaration
// files.
//
// Settings come from three places, later ones overriding earlier ones:
//
//  1. Built-in defaults (DefaultConfig)
//  2. A TOML settings file (Load)
//  3. KEYCHORD_* environment variables
//
// A settings file looks like:
//
//	chord_timeout = "1500ms"
//	platform = "mac"
//
//	[keybindings]
//	defaults = "defaults.json"
//	user = "keybindings.json"
//	extensions = "extensions"
//
//	[logging]
//	level = "debug"
//	format = "json"
//
// Relative paths are resolved against the directory holding the settings
// file.
//
// Declaration files are read with LoadDeclarations, which picks a decoder
// from the file extension (.json, .toml, .yaml, .yml). Sources assembles
// the three binding tiers, and Watcher rebuilds the binding table when any
// of the files change.
package config
