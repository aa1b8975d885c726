// Package window shows the gallery in a desktop window and feeds it
// pointer and keyboard input.
package window

import (
	"fmt"
	"math"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"card-gallery/internal/gallery"
	"card-gallery/internal/pointer"
	"card-gallery/internal/raster"
	"card-gallery/internal/tweak"
)

// clickSlop is how far, in client pixels, the pointer may travel between
// press and release for the release to still count as a click.
const clickSlop = 4

// Options configures Run.
type Options struct {
	Title string
	// PresetFile is where the S key saves tweak values. Empty disables it.
	PresetFile string
	// Watcher reports outside edits to PresetFile. Saves go through it so
	// they are not reloaded.
	Watcher *tweak.Watcher
	Logger  *log.Logger
}

// Run opens a window sized to the gallery viewport and blocks until it
// closes or a frame fails.
func Run(g *gallery.Gallery, out *raster.Renderer, opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	vp := g.Pointer().Viewport()

	game := &windowGame{
		g:          g,
		out:        out,
		log:        logger,
		presetFile: opts.PresetFile,
		watcher:    opts.Watcher,
		start:      time.Now(),
	}
	ebiten.SetWindowTitle(opts.Title)
	ebiten.SetWindowSize(int(vp.Width), int(vp.Height))
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(60)
	return ebiten.RunGame(game)
}

type windowGame struct {
	g          *gallery.Gallery
	out        *raster.Renderer
	log        *log.Logger
	presetFile string
	watcher    *tweak.Watcher
	start      time.Time

	frame *ebiten.Image
	ratio float64
	err   error

	pressX, pressY float64
}

func (w *windowGame) Update() error {
	if w.err != nil {
		return w.err
	}
	w.pointerInput()
	w.keyInput()
	w.reloadPreset()
	return w.g.Tick(time.Since(w.start))
}

func (w *windowGame) pointerInput() {
	if w.ratio <= 0 {
		return
	}
	cx, cy := ebiten.CursorPosition()
	x, y := float64(cx)/w.ratio, float64(cy)/w.ratio
	w.g.Move(x, y)

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		w.pressX, w.pressY = x, y
		w.g.Press()
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		w.g.Release()
		if math.Hypot(x-w.pressX, y-w.pressY) <= clickSlop {
			w.g.Click()
		}
	}
}

func (w *windowGame) keyInput() {
	t := w.g.Tweaks()
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		t.Toggle()
	}
	if t.Hidden {
		return
	}

	switch {
	case repeat(ebiten.KeyArrowUp):
		t.Select(-1)
	case repeat(ebiten.KeyArrowDown):
		t.Select(1)
	}

	c := t.Selected()
	if c == nil {
		return
	}
	steps := 1
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		steps = 10
	}
	var err error
	switch {
	case repeat(ebiten.KeyArrowRight):
		err = t.Nudge(c.Name(), steps)
	case repeat(ebiten.KeyArrowLeft):
		err = t.Nudge(c.Name(), -steps)
	case inpututil.IsKeyJustPressed(ebiten.KeyEnter):
		err = t.Nudge(c.Name(), 1)
	}
	if err != nil {
		w.log.Warn("tweak", "control", c.Name(), "err", err)
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyS) && w.presetFile != "" {
		if w.watcher != nil {
			err = w.watcher.Save(t.SavePreset)
		} else {
			err = t.SavePreset(w.presetFile)
		}
		if err != nil {
			w.log.Error("save preset", "path", w.presetFile, "err", err)
		} else {
			w.log.Info("saved preset", "path", w.presetFile)
		}
	}
}

func (w *windowGame) reloadPreset() {
	if w.watcher == nil {
		return
	}
	select {
	case <-w.watcher.Changed():
	default:
		return
	}
	n, err := w.g.Tweaks().LoadPreset(w.presetFile)
	if err != nil {
		w.log.Warn("reload preset", "path", w.presetFile, "err", err)
		return
	}
	w.log.Info("reloaded preset", "path", w.presetFile, "values", n)
}

// repeat reports a key press with auto-repeat after a short hold.
func repeat(k ebiten.Key) bool {
	d := inpututil.KeyPressDuration(k)
	return d == 1 || (d > 20 && d%4 == 0)
}

func (w *windowGame) Draw(screen *ebiten.Image) {
	fb := w.out.Output()
	if fb == nil || fb.Width == 0 {
		return
	}
	if w.frame == nil || w.frame.Bounds().Dx() != fb.Width || w.frame.Bounds().Dy() != fb.Height {
		if w.frame != nil {
			w.frame.Deallocate()
		}
		w.frame = ebiten.NewImage(fb.Width, fb.Height)
	}
	w.frame.WritePixels(fb.Color)
	screen.DrawImage(w.frame, nil)

	if p := w.g.Progress(); p < 1 {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("loading %3.0f%%", p*100), 8, fb.Height-20)
	}

	t := w.g.Tweaks()
	if t.Hidden {
		return
	}
	focus := w.g.Focus().String()
	if id, ok := w.g.Hover(); ok {
		focus += "  hover " + id.String()
	}
	ebitenutil.DebugPrintAt(screen, focus+"  [h] hide", 8, 8)
	for i, line := range t.Lines() {
		ebitenutil.DebugPrintAt(screen, line, 8, 28+i*16)
	}
}

// Layout keeps the render resolution at the window's client size times
// the capped device pixel ratio, resizing the gallery when it changes.
func (w *windowGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	vp := pointer.Viewport{
		Width:      float64(outsideWidth),
		Height:     float64(outsideHeight),
		PixelRatio: ebiten.Monitor().DeviceScaleFactor(),
	}
	if cur := w.g.Pointer().Viewport(); cur != vp {
		if err := w.g.Resize(vp); err != nil && w.err == nil {
			w.err = err
		}
		w.log.Debug("resize", "width", vp.Width, "height", vp.Height, "ratio", vp.EffectivePixelRatio())
	}
	w.ratio = vp.EffectivePixelRatio()
	return vp.PixelSize()
}
