package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/dshills/keychord/internal/input/keymap"
)

// Decoder turns a declaration document into declarations.
type Decoder func(data []byte) ([]keymap.Declaration, error)

var decoders = map[string]Decoder{
	".json":  keymap.DecodeJSON,
	".jsonc": keymap.DecodeJSON,
	".toml":  keymap.DecodeTOML,
	".yaml":  keymap.DecodeYAML,
	".yml":   keymap.DecodeYAML,
}

// DecoderFor returns the decoder for a file name based on its extension.
func DecoderFor(path string) (Decoder, error) {
	ext := strings.ToLower(filepath.Ext(path))
	dec, ok := decoders[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, path)
	}
	return dec, nil
}

// LoadDeclarations reads a declaration file from the OS file system. A
// missing file yields an empty list.
func LoadDeclarations(path string) ([]keymap.Declaration, error) {
	return LoadDeclarationsFS(DefaultFS(), path)
}

// LoadDeclarationsFS is like LoadDeclarations with an explicit file system.
func LoadDeclarationsFS(fsys FileSystem, path string) ([]keymap.Declaration, error) {
	dec, err := DecoderFor(path)
	if err != nil {
		return nil, err
	}

	data, err := fsys.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading declarations %s: %w", path, err)
	}

	decls, err := dec(data)
	if err != nil {
		return nil, &ParseError{Path: path, Message: err.Error(), Err: err}
	}
	return decls, nil
}

// Sources assembles the three binding tiers from cfg. The default tier
// comes from cfg.DefaultsFile, or keymap.Defaults when none is set. The
// extension tier is supplied by the caller, typically from an
// extension.Runtime.
func Sources(cfg Config, ext []keymap.Declaration) (keymap.Sources, error) {
	return SourcesFS(DefaultFS(), cfg, ext)
}

// SourcesFS is like Sources with an explicit file system.
func SourcesFS(fsys FileSystem, cfg Config, ext []keymap.Declaration) (keymap.Sources, error) {
	src := keymap.Sources{Extension: ext}

	if cfg.DefaultsFile == "" {
		src.Default = keymap.Defaults()
	} else {
		decls, err := LoadDeclarationsFS(fsys, cfg.DefaultsFile)
		if err != nil {
			return src, fmt.Errorf("default bindings: %w", err)
		}
		src.Default = decls
	}

	if cfg.UserFile != "" {
		decls, err := LoadDeclarationsFS(fsys, cfg.UserFile)
		if err != nil {
			return src, fmt.Errorf("user bindings: %w", err)
		}
		src.User = decls
	}
	return src, nil
}
