package encode

import (
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// ManifestName is the file name used inside a capture directory.
const ManifestName = "session.toml"

// Manifest records what a session captured and how it was encoded.
type Manifest struct {
	Session   string    `toml:"session"`
	Started   time.Time `toml:"started"`
	Finished  time.Time `toml:"finished"`
	Frames    int       `toml:"frames"`
	FrameRate float64   `toml:"frame_rate"`
	Width     int       `toml:"width"`
	Height    int       `toml:"height"`
	Pattern   string    `toml:"pattern"`
	Format    string    `toml:"format"`

	Video   string   `toml:"video,omitempty"`
	Command []string `toml:"command,omitempty"`
	Encoded bool     `toml:"encoded"`
	Error   string   `toml:"error,omitempty"`
}

// WriteManifest saves m to path, creating the parent directory.
func WriteManifest(path string, m Manifest) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := toml.Marshal(m)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ReadManifest loads a manifest written by WriteManifest.
func ReadManifest(path string) (Manifest, error) {
	var m Manifest

	data, err := os.ReadFile(path)
	if err != nil {
		return m, err
	}

	if err := toml.Unmarshal(data, &m); err != nil {
		return m, err
	}

	return m, nil
}
