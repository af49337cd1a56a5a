package keymap

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/tidwall/gjson"
	"github.com/tidwall/jsonc"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
	"gopkg.in/yaml.v3"
)

// ErrMalformedDocument indicates a declarations document that does not have
// the expected shape.
var ErrMalformedDocument = errors.New("malformed keybindings document")

// DecodeJSON reads declarations from a JSON document. The document is
// either a top-level array of bindings or an object holding the array
// under "keybindings" (or "bindings"). Comments and trailing commas are
// allowed.
func DecodeJSON(data []byte) ([]Declaration, error) {
	data = jsonc.ToJSON(data)
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrMalformedDocument)
	}

	doc := gjson.ParseBytes(data)
	list := doc
	if !list.IsArray() {
		list = doc.Get("keybindings")
		if !list.Exists() {
			list = doc.Get("bindings")
		}
	}
	if !list.Exists() {
		return nil, nil
	}
	if !list.IsArray() {
		return nil, fmt.Errorf("%w: keybindings is not an array", ErrMalformedDocument)
	}

	items := list.Array()
	decls := make([]Declaration, 0, len(items))
	for i, item := range items {
		if !item.IsObject() {
			return nil, fmt.Errorf("%w: binding %d is not an object", ErrMalformedDocument, i)
		}
		d := Declaration{
			Keys:    item.Get("key").String(),
			Command: item.Get("command").String(),
			When:    item.Get("when").String(),
		}
		if d.Keys == "" {
			d.Keys = item.Get("keys").String()
		}
		if args := item.Get("args"); args.Exists() && args.Type != gjson.Null {
			d.Args = argsFromValue(args.Value())
		}
		decls = append(decls, d)
	}
	return decls, nil
}

// argsFromValue normalises decoded args. Non-object values are kept under
// the "value" key.
func argsFromValue(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return map[string]any{"value": v}
}

type tomlDocument struct {
	Bindings    []Declaration `toml:"bindings"`
	Keybindings []Declaration `toml:"keybindings"`
}

// DecodeTOML reads declarations from a TOML document holding a
// [[bindings]] array of tables.
func DecodeTOML(data []byte) ([]Declaration, error) {
	var doc tomlDocument
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	return append(doc.Bindings, doc.Keybindings...), nil
}

type yamlDocument struct {
	Bindings    []Declaration `yaml:"bindings"`
	Keybindings []Declaration `yaml:"keybindings"`
}

// DecodeYAML reads declarations from a YAML document that is either a
// sequence of bindings or a mapping holding one under "bindings".
func DecodeYAML(data []byte) ([]Declaration, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	if len(root.Content) == 0 {
		return nil, nil
	}

	node := root.Content[0]
	switch node.Kind {
	case yaml.SequenceNode:
		var decls []Declaration
		if err := node.Decode(&decls); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
		}
		return decls, nil
	case yaml.MappingNode:
		var doc yamlDocument
		if err := node.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
		}
		return append(doc.Bindings, doc.Keybindings...), nil
	default:
		return nil, fmt.Errorf("%w: expected a sequence or mapping", ErrMalformedDocument)
	}
}

// EncodeJSON writes declarations as an indented JSON array.
func EncodeJSON(decls []Declaration) ([]byte, error) {
	out := []byte("[]")
	for i, d := range decls {
		item := []byte("{}")
		var err error
		if item, err = sjson.SetBytes(item, "key", d.Keys); err != nil {
			return nil, fmt.Errorf("encoding binding %d: %w", i, err)
		}
		if item, err = sjson.SetBytes(item, "command", d.Command); err != nil {
			return nil, fmt.Errorf("encoding binding %d: %w", i, err)
		}
		if d.When != "" {
			if item, err = sjson.SetBytes(item, "when", d.When); err != nil {
				return nil, fmt.Errorf("encoding binding %d: %w", i, err)
			}
		}
		if len(d.Args) > 0 {
			if item, err = sjson.SetBytes(item, "args", d.Args); err != nil {
				return nil, fmt.Errorf("encoding binding %d: %w", i, err)
			}
		}
		if out, err = sjson.SetRawBytes(out, "-1", item); err != nil {
			return nil, fmt.Errorf("encoding binding %d: %w", i, err)
		}
	}
	return pretty.Pretty(out), nil
}
