package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/dshills/keychord/internal/input/key"
)

// ErrUnsupportedVersion is returned when loading a recording written by a
// newer version.
var ErrUnsupportedVersion = errors.New("unsupported recording version")

const currentVersion = 1

type persistedEvent struct {
	OffsetMS  float64 `json:"offset_ms"`
	Key       uint16  `json:"key"`
	Rune      rune    `json:"rune,omitempty"`
	Modifiers uint8   `json:"modifiers,omitempty"`
	// Text is informational; loading ignores it.
	Text string `json:"text,omitempty"`
}

type persistedRecording struct {
	Version  int              `json:"version"`
	SavedAt  time.Time        `json:"saved_at"`
	Platform string           `json:"platform"`
	Events   []persistedEvent `json:"events"`
}

// Marshal encodes rec as indented JSON.
func Marshal(rec Recording) ([]byte, error) {
	data := persistedRecording{
		Version:  currentVersion,
		SavedAt:  time.Now().UTC(),
		Platform: rec.Platform.String(),
		Events:   make([]persistedEvent, len(rec.Events)),
	}
	for i, e := range rec.Events {
		p := persistedEvent{
			OffsetMS:  float64(e.Offset) / float64(time.Millisecond),
			Key:       uint16(e.Key),
			Rune:      e.Rune,
			Modifiers: uint8(e.Modifiers),
		}
		if press, ok := key.ToKeyPress(e.Raw(time.Time{}), rec.Platform); ok {
			p.Text = press.String()
		}
		data.Events[i] = p
	}
	return json.MarshalIndent(data, "", "  ")
}

// Unmarshal decodes a recording produced by Marshal.
func Unmarshal(b []byte) (Recording, error) {
	var data persistedRecording
	if err := json.Unmarshal(b, &data); err != nil {
		return Recording{}, fmt.Errorf("decoding recording: %w", err)
	}
	if data.Version > currentVersion {
		return Recording{}, fmt.Errorf("%w: %d (max %d)", ErrUnsupportedVersion, data.Version, currentVersion)
	}

	platform, err := key.ParsePlatform(data.Platform)
	if err != nil {
		return Recording{}, fmt.Errorf("decoding recording: %w", err)
	}
	rec := Recording{Platform: platform, Events: make([]Event, len(data.Events))}
	for i, p := range data.Events {
		if p.OffsetMS < 0 {
			return Recording{}, fmt.Errorf("decoding recording: event %d has a negative offset", i)
		}
		rec.Events[i] = Event{
			Offset:    time.Duration(math.Round(p.OffsetMS * float64(time.Millisecond))),
			Key:       key.Key(p.Key),
			Rune:      p.Rune,
			Modifiers: key.Modifier(p.Modifiers),
		}
	}
	return rec, nil
}

// Save writes rec to path, creating the directory if needed. The file is
// replaced atomically.
func Save(rec Recording, path string) error {
	data, err := Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding recording: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// Load reads a recording from path.
func Load(path string) (Recording, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Recording{}, fmt.Errorf("reading recording: %w", err)
	}
	return Unmarshal(data)
}
