package record

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Manifest describes a recorded session.
type Manifest struct {
	Session string       `json:"session"`
	Created time.Time    `json:"created"`
	FPS     int          `json:"fps"`
	Width   int          `json:"width"`
	Height  int          `json:"height"`
	Frames  []FrameEntry `json:"frames"`
}

// FrameEntry represents one frame in the output manifest.
type FrameEntry struct {
	Index  int    `json:"index"`
	TimeMS int64  `json:"time_ms"`
	Focus  string `json:"focus"`
	Hover  string `json:"hover,omitempty"`
	Image  string `json:"image"`
}

func frameName(i int) string {
	return fmt.Sprintf("frame_%05d.webp", i)
}

// WriteManifest writes m as indented JSON.
func WriteManifest(path string, m Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadManifest loads a manifest written by WriteManifest.
func ReadManifest(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, err
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("record: parse manifest: %w", err)
	}
	return m, nil
}
