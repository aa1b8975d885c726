package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// Config holds all configurable paths and gallery settings.
type Config struct {
	// Paths
	AssetDir  string `json:"asset_dir"`
	TweakFile string `json:"tweak_file"`
	OutputDir string `json:"output_dir"`

	// Viewport
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	PixelRatio float64 `json:"pixel_ratio"`

	// Scene
	Background  string  `json:"background"`
	PanelWidth  int     `json:"panel_width"`
	PanelHeight int     `json:"panel_height"`
	CardWidth   float64 `json:"card_width"`
	CardHeight  float64 `json:"card_height"`
	Parallax    float64 `json:"parallax"`
	PulseScale  float64 `json:"pulse_scale"`
	Overlay     *bool   `json:"overlay,omitempty"`

	// Timing, seconds
	FocusSeconds        float64 `json:"focus_seconds"`
	CameraSeconds       float64 `json:"camera_seconds"`
	OverlaySeconds      float64 `json:"overlay_seconds"`
	OverlayDelaySeconds float64 `json:"overlay_delay_seconds"`

	Panels []Panel `json:"panels"`

	// Recording
	FPS         int `json:"fps"`
	Supersample int `json:"supersample"`
	Workers     int `json:"workers"`
}

// Panel configures one of the three offscreen sub-scenes, in
// center, left, right order.
type Panel struct {
	Name            string     `json:"name"`
	Background      string     `json:"background"`
	BackgroundImage string     `json:"background_image"`
	ModelColor      string     `json:"model_color"`
	ModelRotation   [3]float64 `json:"model_rotation"`
	SceneRotation   [3]float64 `json:"scene_rotation"`
	CameraHome      [3]float64 `json:"camera_home"`
	Ambient         float64    `json:"ambient"`
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	AssetDir  string
	OutputDir string
	TweakFile string
	Width     int
	Height    int
	Workers   int
}

// Resolve fills in any empty fields with defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.AssetDir != "" {
		c.AssetDir = flags.AssetDir
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.TweakFile != "" {
		c.TweakFile = flags.TweakFile
	}
	if flags.Width > 0 {
		c.Width = flags.Width
	}
	if flags.Height > 0 {
		c.Height = flags.Height
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}

	if c.AssetDir == "" {
		c.AssetDir = detectAssetDir()
	}
	if c.OutputDir == "" {
		c.OutputDir = "frames"
	}

	// Resolve relative image paths against the asset dir
	if len(c.Panels) == 0 {
		c.Panels = DefaultPanels()
	}
	for i := range c.Panels {
		p := &c.Panels[i]
		if p.BackgroundImage != "" && !filepath.IsAbs(p.BackgroundImage) && c.AssetDir != "" {
			p.BackgroundImage = filepath.Join(c.AssetDir, p.BackgroundImage)
		}
		if p.Background == "" {
			p.Background = "#202030"
		}
		if p.ModelColor == "" {
			p.ModelColor = "#c0c0c0"
		}
		if p.CameraHome == [3]float64{} {
			p.CameraHome = [3]float64{0, 1, 4.5}
		}
		if p.Ambient <= 0 {
			p.Ambient = 1
		}
	}

	// Defaults for viewport and scene settings
	if c.Width <= 0 {
		c.Width = 960
	}
	if c.Height <= 0 {
		c.Height = 640
	}
	if c.PixelRatio <= 0 {
		c.PixelRatio = 1
	}
	if c.Background == "" {
		c.Background = "#FEFBEA"
	}
	if c.PanelWidth <= 0 {
		c.PanelWidth = 256 // 0.125 × 2048
	}
	if c.PanelHeight <= 0 {
		c.PanelHeight = 368 // 0.18 × 2048
	}
	if c.CardWidth <= 0 {
		c.CardWidth = 2.5 / 4
	}
	if c.CardHeight <= 0 {
		c.CardHeight = 3.5 / 4
	}
	if c.Parallax <= 0 {
		c.Parallax = 2.5
	}
	if c.PulseScale <= 0 {
		c.PulseScale = 1.5
	}
	if c.Overlay == nil {
		on := true
		c.Overlay = &on
	}
	if c.FocusSeconds <= 0 {
		c.FocusSeconds = 1
	}
	if c.CameraSeconds <= 0 {
		c.CameraSeconds = 0.5
	}
	if c.OverlaySeconds <= 0 {
		c.OverlaySeconds = 3
	}
	if c.OverlayDelaySeconds <= 0 {
		c.OverlayDelaySeconds = 0.5
	}
	if c.FPS <= 0 {
		c.FPS = 30
	}
	if c.Supersample <= 0 {
		c.Supersample = 1
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
}

// DefaultPanels returns the three stock panels: an orange figure in the
// center, a green one on the left seen from behind its scene, and a blue
// one on the right with its whole scene turned.
func DefaultPanels() []Panel {
	return []Panel{
		{
			Name:            "center",
			Background:      "#3a2418",
			BackgroundImage: "environmentMaps/centerBG.jpg",
			ModelColor:      "#f08030",
			CameraHome:      [3]float64{0, 1, 4.5},
			Ambient:         0.8,
		},
		{
			Name:            "left",
			Background:      "#1d3320",
			BackgroundImage: "environmentMaps/leftBG.jpg",
			ModelColor:      "#78c850",
			ModelRotation:   [3]float64{0, 3.141592653589793, 0},
			CameraHome:      [3]float64{0, 1, -4.5},
			Ambient:         1,
		},
		{
			Name:            "right",
			Background:      "#18263a",
			BackgroundImage: "environmentMaps/rightBG.jpg",
			ModelColor:      "#6890f0",
			SceneRotation:   [3]float64{0, 5.5, 0},
			CameraHome:      [3]float64{0, 1, 4.5},
			Ambient:         1,
		},
	}
}

func detectAssetDir() string {
	// Try relative to executable
	exe, _ := os.Executable()
	if exe != "" {
		dir := filepath.Dir(exe)
		for _, base := range []string{dir, filepath.Dir(dir)} {
			if _, err := os.Stat(filepath.Join(base, "assets")); err == nil {
				return filepath.Join(base, "assets")
			}
		}
	}

	// Try current working directory
	cwd, _ := os.Getwd()
	if _, err := os.Stat(filepath.Join(cwd, "assets")); err == nil {
		return filepath.Join(cwd, "assets")
	}

	return ""
}
