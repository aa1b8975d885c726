// Package record replays a scripted pointer session against the gallery
// on a fixed-step clock and writes every frame as a WebP image.
package record

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"card-gallery/internal/gallery"
	"card-gallery/internal/pointer"
	"card-gallery/internal/raster"
)

// Options configures Run.
type Options struct {
	OutputDir string
	// FPS applies when the scenario does not set its own.
	FPS     int
	Workers int
	Logger  *log.Logger
}

// Supersampled is a raster renderer whose default output is Factor times
// the requested size on each axis. Frames are shrunk back on encode.
type Supersampled struct {
	*raster.Renderer
	Factor int
}

// NewSupersampled creates the renderer for a w×h output.
func NewSupersampled(w, h, factor int) (*Supersampled, error) {
	if factor < 1 {
		factor = 1
	}
	r, err := raster.NewRenderer(w*factor, h*factor)
	if err != nil {
		return nil, err
	}
	return &Supersampled{Renderer: r, Factor: factor}, nil
}

// Resize reallocates the default output for a w×h frame.
func (s *Supersampled) Resize(w, h int) error {
	return s.Renderer.Resize(w*s.Factor, h*s.Factor)
}

// Run plays sc against g, which must render through out. Frames are
// produced only by wait steps, one per clock step. The manifest is
// written next to the frames.
func Run(ctx context.Context, g *gallery.Gallery, out *Supersampled, sc Scenario, opts Options) (Manifest, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	if err := sc.Validate(); err != nil {
		return Manifest{}, err
	}
	fps := sc.FPS
	if fps <= 0 {
		fps = opts.FPS
	}
	if fps <= 0 {
		fps = 30
	}
	step := time.Second / time.Duration(fps)

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return Manifest{}, fmt.Errorf("record: output dir: %w", err)
	}
	if sc.Viewport.Width > 0 && sc.Viewport.Height > 0 {
		vp := pointer.Viewport{Width: sc.Viewport.Width, Height: sc.Viewport.Height, PixelRatio: sc.Viewport.PixelRatio}
		if err := g.Resize(vp); err != nil {
			return Manifest{}, err
		}
	}

	total := sc.Frames(fps)
	m := Manifest{
		Session: uuid.NewString(),
		Created: time.Now().UTC(),
		FPS:     fps,
		Frames:  make([]FrameEntry, 0, total),
	}
	logger.Info("recording", "session", m.Session, "frames", total, "fps", fps, "dir", opts.OutputDir)

	enc := startEncoder(opts.OutputDir, opts.Workers, out.Factor, total, logger)

	var now time.Duration
	frame := func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		i := len(m.Frames)
		if err := g.Tick(now); err != nil {
			return fmt.Errorf("record: frame %d: %w", i, err)
		}
		entry := FrameEntry{
			Index:  i,
			TimeMS: now.Milliseconds(),
			Focus:  g.Focus().String(),
			Image:  frameName(i),
		}
		if id, ok := g.Hover(); ok {
			entry.Hover = id.String()
		}
		m.Frames = append(m.Frames, entry)
		enc.submit(job{index: i, img: out.Output().Snapshot()})
		now += step
		return nil
	}

	runErr := play(g, sc.Steps, fps, frame)
	encErr := enc.close()
	if runErr != nil {
		return m, runErr
	}
	if encErr != nil {
		return m, encErr
	}

	m.Width = out.Output().Width / out.Factor
	m.Height = out.Output().Height / out.Factor
	if err := WriteManifest(filepath.Join(opts.OutputDir, "manifest.json"), m); err != nil {
		return m, fmt.Errorf("record: write manifest: %w", err)
	}
	logger.Info("recorded", "frames", len(m.Frames))
	return m, nil
}

func play(g *gallery.Gallery, steps []Step, fps int, frame func() error) error {
	for i, s := range steps {
		switch {
		case s.Move != nil:
			g.Move(s.Move.X, s.Move.Y)
		case s.Click != nil:
			x, y := g.Pointer().Client()
			if s.Click.X != nil {
				x = *s.Click.X
			}
			if s.Click.Y != nil {
				y = *s.Click.Y
			}
			g.Move(x, y)
			g.Press()
			g.Click()
			g.Release()
		case s.Drag != nil:
			x, y := g.Pointer().Client()
			g.Press()
			g.Move(x+s.Drag.DX, y+s.Drag.DY)
			g.Release()
		case s.Resize != nil:
			vp := g.Pointer().Viewport()
			vp.Width, vp.Height = s.Resize.Width, s.Resize.Height
			if err := g.Resize(vp); err != nil {
				return fmt.Errorf("record: step %d: %w", i, err)
			}
		case s.Wait != nil:
			for n := framesFor(time.Duration(*s.Wait), fps); n > 0; n-- {
				if err := frame(); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
