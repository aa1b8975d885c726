package record

import (
	"context"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/webp"

	"card-gallery/internal/gallery"
	"card-gallery/internal/pointer"
)

func TestParseScenario(t *testing.T) {
	sc, err := ParseScenario([]byte(`
viewport: {width: 320, height: 200, pixel_ratio: 1}
fps: 20
steps:
  - wait: 100ms
  - move: {x: 160, y: 100}
  - click: {}
  - click: {x: 10, y: 12}
  - drag: {dx: 30, dy: -4}
  - resize: {width: 160, height: 100}
  - wait: 1.5s
`))
	require.NoError(t, err)

	assert.Equal(t, 320.0, sc.Viewport.Width)
	assert.Equal(t, 20, sc.FPS)
	require.Len(t, sc.Steps, 7)
	assert.Equal(t, Duration(100*time.Millisecond), *sc.Steps[0].Wait)
	assert.Nil(t, sc.Steps[2].Click.X)
	assert.Equal(t, 12.0, *sc.Steps[3].Click.Y)
	assert.Equal(t, -4.0, sc.Steps[4].Drag.DY)
	assert.Equal(t, 32, sc.Frames(20))
}

func TestParseScenarioErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"two actions", "steps:\n  - {wait: 1s, move: {x: 1, y: 1}}\n"},
		{"no action", "steps:\n  - {}\n"},
		{"bad duration", "steps:\n  - wait: soon\n"},
		{"negative wait", "steps:\n  - wait: -1s\n"},
		{"empty resize", "steps:\n  - resize: {width: 0, height: 10}\n"},
		{"not yaml", "steps: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func newGallery(t *testing.T, out *Supersampled) *gallery.Gallery {
	t.Helper()
	var panels [3]gallery.PanelSpec
	for _, id := range gallery.CardIDs {
		panels[id] = gallery.PanelSpec{
			Name:       id.String(),
			Background: color.NRGBA{30, 30, 40, 255},
			ModelColor: color.NRGBA{200, 120, 60, 255},
			CameraHome: mgl64.Vec3{0, 1, 4.5},
			Ambient:    1,
		}
	}
	g, err := gallery.New(gallery.Options{
		Viewport:    pointer.Viewport{Width: 64, Height: 48, PixelRatio: 1},
		Background:  color.NRGBA{0xFE, 0xFB, 0xEA, 255},
		Layout:      gallery.DefaultLayout(),
		Panels:      panels,
		PanelWidth:  16,
		PanelHeight: 23,
		CardWidth:   0.625,
		CardHeight:  0.875,
		Parallax:    2.5,
		PulseScale:  1.5,
		Timing:      gallery.DefaultTiming(),
	}, out, nil, log.New(io.Discard))
	require.NoError(t, err)
	t.Cleanup(g.Close)
	return g
}

func TestRunWritesFramesAndManifest(t *testing.T) {
	out, err := NewSupersampled(64, 48, 2)
	require.NoError(t, err)
	g := newGallery(t, out)

	sc, err := ParseScenario([]byte(`
fps: 20
steps:
  - wait: 100ms
  - click: {x: 32, y: 24}
  - wait: 1.1s
`))
	require.NoError(t, err)

	dir := filepath.Join(t.TempDir(), "frames")
	m, err := Run(context.Background(), g, out, sc, Options{OutputDir: dir, Workers: 2, Logger: log.New(io.Discard)})
	require.NoError(t, err)

	require.Len(t, m.Frames, 24)
	assert.NotEmpty(t, m.Session)
	assert.Equal(t, 64, m.Width)
	assert.Equal(t, 48, m.Height)
	assert.Equal(t, "neutral", m.Frames[0].Focus)
	assert.Equal(t, "center", m.Frames[0].Hover)
	assert.Equal(t, "focused-center", m.Frames[2].Focus)
	assert.Equal(t, int64(50), m.Frames[1].TimeMS)
	assert.Equal(t, "frame_00023.webp", m.Frames[23].Image)

	f, err := os.Open(filepath.Join(dir, "frame_00023.webp"))
	require.NoError(t, err)
	defer f.Close()
	cfg, err := webp.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.Width)
	assert.Equal(t, 48, cfg.Height)

	saved, err := ReadManifest(filepath.Join(dir, "manifest.json"))
	require.NoError(t, err)
	assert.Equal(t, m.Session, saved.Session)
	assert.Len(t, saved.Frames, 24)
}

func TestRunResizeStep(t *testing.T) {
	out, err := NewSupersampled(64, 48, 1)
	require.NoError(t, err)
	g := newGallery(t, out)

	sc, err := ParseScenario([]byte(`
steps:
  - resize: {width: 32, height: 32}
  - wait: 50ms
`))
	require.NoError(t, err)

	m, err := Run(context.Background(), g, out, sc, Options{OutputDir: t.TempDir(), FPS: 20, Logger: log.New(io.Discard)})
	require.NoError(t, err)
	assert.Len(t, m.Frames, 1)
	assert.Equal(t, 32, m.Width)
	assert.Equal(t, 1.0, g.Camera.Aspect)
}

func TestRunCancelled(t *testing.T) {
	out, err := NewSupersampled(64, 48, 1)
	require.NoError(t, err)
	g := newGallery(t, out)

	sc, err := ParseScenario([]byte("steps:\n  - wait: 1s\n"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Run(ctx, g, out, sc, Options{OutputDir: t.TempDir(), Logger: log.New(io.Discard)})
	assert.ErrorIs(t, err, context.Canceled)
}
