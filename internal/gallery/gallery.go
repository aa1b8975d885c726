// Package gallery composes the card gallery: three panels rendered
// offscreen, the cards that show them in the primary scene, and the focus
// choreography between them.
package gallery

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"

	"card-gallery/internal/camera"
	"card-gallery/internal/pointer"
	"card-gallery/internal/raster"
	"card-gallery/internal/scene"
	"card-gallery/internal/texture"
	"card-gallery/internal/tweak"
	"card-gallery/internal/tween"
)

// ErrClosed is returned by Tick after Close.
var ErrClosed = errors.New("gallery: closed")

// Renderer is the rendering backend the gallery drives.
type Renderer interface {
	// SetRenderTarget binds fb for subsequent renders; nil restores the
	// default output.
	SetRenderTarget(fb *raster.FrameBuffer)
	Render(s *scene.Scene, cam *camera.Camera) error
}

// Loader loads assets off the frame thread. Completions run inside Poll.
type Loader interface {
	Load(path string, done texture.Done)
	Poll() int
	Progress() (loaded, total int)
	Idle() bool
}

// Timing holds the choreography durations.
type Timing struct {
	Focus        time.Duration
	Camera       time.Duration
	Overlay      time.Duration
	OverlayDelay time.Duration
}

// DefaultTiming returns the stock durations.
func DefaultTiming() Timing {
	return Timing{
		Focus:        time.Second,
		Camera:       500 * time.Millisecond,
		Overlay:      3 * time.Second,
		OverlayDelay: 500 * time.Millisecond,
	}
}

// PanelSpec describes one panel sub-scene.
type PanelSpec struct {
	Name            string
	Background      color.NRGBA
	BackgroundImage string
	ModelColor      color.NRGBA
	ModelRotation   mgl64.Vec3
	SceneRotation   mgl64.Vec3
	CameraHome      mgl64.Vec3
	Ambient         float64
}

// Options configures New.
type Options struct {
	Viewport   pointer.Viewport
	Background color.NRGBA
	Layout     Layout
	Panels     [numCards]PanelSpec

	PanelWidth  int
	PanelHeight int
	CardWidth   float64
	CardHeight  float64

	// Parallax is how far the cameras travel per unit of pointer offset.
	Parallax float64
	// PulseScale is the hovered card's scale in Neutral.
	PulseScale float64
	Timing     Timing
	// Overlay enables the loading overlay fade.
	Overlay bool
}

// CameraHome is where the primary camera rests.
var CameraHome = mgl64.Vec3{0, 0, 2}

// Gallery is the composed application state. All methods must be called
// from the frame thread.
type Gallery struct {
	Primary *scene.Scene
	Camera  *camera.Camera

	opts     Options
	log      *log.Logger
	renderer Renderer
	loader   Loader
	anim     *tween.Animator
	pointer  *pointer.Tracker
	tweaks   *tweak.Registry

	rig    camera.Rig
	static bool
	panels [numCards]*Panel
	cards  [numCards]*Card

	focus    Focus
	hover    CardID
	hovering bool

	// spinBase is the center card's rotation before a spin; spinEnd is the
	// in-flight spin target, whole turns past spinBase.
	spinning          bool
	spinBase, spinEnd float64

	fading bool
	now    time.Duration
	frames int
	closed bool
}

// New builds the scene graph set, allocates the panel targets, starts the
// background loads and binds the tweak controls. loader may be nil when
// there is nothing to load.
func New(opts Options, r Renderer, loader Loader, logger *log.Logger) (*Gallery, error) {
	if r == nil {
		return nil, errors.New("gallery: nil renderer")
	}
	if logger == nil {
		logger = log.Default()
	}

	g := &Gallery{
		opts:     opts,
		log:      logger,
		renderer: r,
		loader:   loader,
		anim:     tween.NewAnimator(),
		pointer:  pointer.NewTracker(opts.Viewport),
		tweaks:   tweak.New(),
		rig:      camera.Rig{Home: CameraHome, Amount: opts.Parallax},
	}

	g.Primary = scene.New("primary", opts.Background)
	if opts.Overlay {
		g.Primary.Overlay = scene.Overlay{Color: color.NRGBA{0, 0, 0, 255}, Alpha: 1}
	}
	g.Camera = camera.New(CameraHome, 45, opts.Viewport.Aspect(), 0.1, 100)
	g.Camera.LookAt(g.rig.Focus)

	for _, id := range CardIDs {
		p, err := g.newPanel(id, opts.Panels[id])
		if err != nil {
			g.Close()
			return nil, err
		}
		g.panels[id] = p
		g.cards[id] = newCard(id, g.Primary.Root, p.Target, opts.CardWidth, opts.CardHeight)
		g.cards[id].Node.Pose = opts.Layout.Pose(Neutral, id)
	}

	g.bindTweaks()
	return g, nil
}

func (g *Gallery) newPanel(id CardID, spec PanelSpec) (*Panel, error) {
	target, err := raster.NewTarget(g.opts.PanelWidth, g.opts.PanelHeight)
	if err != nil {
		return nil, fmt.Errorf("gallery: %s panel target: %w", id, err)
	}

	s := scene.New(spec.Name, spec.Background)
	s.Root.Pose.Rotation = spec.SceneRotation
	s.Ambient = scene.AmbientLight{Color: color.NRGBA{255, 255, 255, 255}, Intensity: 0.6 * spec.Ambient}
	s.Lights = []scene.DirLight{{
		Color:     color.NRGBA{255, 255, 255, 255},
		Intensity: 0.8,
		Position:  mgl64.Vec3{2, 4, 5},
	}}

	model := scene.Figure(spec.Name+".model", spec.ModelColor)
	model.Pose.Rotation = spec.ModelRotation
	s.Add(model)

	aspect := float64(target.Width) / float64(target.Height)
	cam := camera.New(spec.CameraHome, 45, aspect, 0.1, 100)
	rig := camera.Rig{Home: spec.CameraHome, Focus: mgl64.Vec3{0, 0.5, 0}, Amount: g.opts.Parallax}
	cam.LookAt(rig.Focus)

	p := &Panel{
		ID:     id,
		Scene:  s,
		Camera: cam,
		Rig:    rig,
		Orbit:  camera.NewOrbit(),
		Target: target,
		Model:  model,
	}

	if spec.BackgroundImage != "" && g.loader != nil {
		path := spec.BackgroundImage
		g.loader.Load(path, func(img *image.NRGBA, err error) {
			if err != nil {
				g.log.Warn("background failed, keeping solid colour", "panel", id, "path", path, "err", err)
				return
			}
			p.Scene.Background.Equirect = img
			g.log.Debug("background loaded", "panel", id, "path", path)
		})
	}
	return p, nil
}

// Move feeds a client-space pointer position.
func (g *Gallery) Move(x, y float64) {
	g.pointer.Move(x, y)
}

// Press and Release track the primary button for orbit drags.
func (g *Gallery) Press()   { g.pointer.Press() }
func (g *Gallery) Release() { g.pointer.Release() }

// Click resolves a click at the current pointer position.
func (g *Gallery) Click() {
	ndc := g.pointer.State().NDC
	id, ok := Pick(ndc, g.Camera, g.cards[:])
	g.SetFocus(NextFocus(g.focus, id, ok))
}

// SetFocus moves to state f and starts its transitions. It reports
// whether anything changed; re-entering the current state does nothing.
func (g *Gallery) SetFocus(f Focus) bool {
	if f == g.focus || f < Neutral || f >= numFocus {
		return false
	}
	prev := g.focus
	g.focus = f

	move := tween.Options{Duration: g.opts.Timing.Focus}
	for _, c := range g.cards {
		g.anim.ToPose(g.now, &c.Node.Pose, g.opts.Layout.Pose(f, c.ID), move)
	}

	focused, ok := f.Card()
	if ok {
		g.static = true
		g.anim.ToVec3(g.now, &g.Camera.Position, g.rig.Home, tween.Options{Duration: g.opts.Timing.Camera})
	} else {
		g.static = false
		for i := range g.Camera.Position {
			g.anim.Cancel(&g.Camera.Position[i])
		}
	}
	for _, p := range g.panels {
		p.Orbit.Enabled = ok && p.ID == focused
		if !p.Orbit.Enabled {
			p.Orbit.Reset()
		}
	}

	g.log.Debug("focus", "from", prev, "to", f)
	return true
}

// Resize updates the viewport, the primary camera aspect and, when the
// renderer supports it, the default output size.
func (g *Gallery) Resize(vp pointer.Viewport) error {
	g.pointer.SetViewport(vp)
	g.Camera.Aspect = vp.Aspect()
	if rs, ok := g.renderer.(interface{ Resize(w, h int) error }); ok {
		w, h := vp.PixelSize()
		if err := rs.Resize(w, h); err != nil {
			return fmt.Errorf("gallery: resize: %w", err)
		}
	}
	return nil
}

// Spin turns the center card one full revolution. Spinning again before
// the turn completes adds another turn. The rotation settles back to its
// starting angle once the spin ends.
func (g *Gallery) Spin() {
	rot := &g.cards[Center].Node.Pose.Rotation[1]
	if to, ok := g.anim.Target(rot); !g.spinning || !ok || to != g.spinEnd {
		g.spinBase, g.spinEnd = *rot, *rot
	}
	g.spinEnd += 2 * math.Pi
	g.spinning = true
	g.anim.To(g.now, rot, g.spinEnd, tween.Options{Duration: time.Second})
}

// Close releases the panel targets. Tick fails afterwards.
func (g *Gallery) Close() {
	if g.closed {
		return
	}
	g.closed = true
	for _, p := range g.panels {
		if p != nil {
			p.Target.Release()
		}
	}
}

// Focus returns the current focus state.
func (g *Gallery) Focus() Focus { return g.focus }

// Hover returns the card under the pointer as of the last Tick.
func (g *Gallery) Hover() (CardID, bool) { return g.hover, g.hovering }

// Static reports whether the primary camera ignores parallax.
func (g *Gallery) Static() bool { return g.static }

// Panel returns the panel behind card id.
func (g *Gallery) Panel(id CardID) *Panel { return g.panels[id] }

// Card returns card id.
func (g *Gallery) Card(id CardID) *Card { return g.cards[id] }

// Pointer returns the pointer tracker.
func (g *Gallery) Pointer() *pointer.Tracker { return g.pointer }

// Tweaks returns the debug tweak registry.
func (g *Gallery) Tweaks() *tweak.Registry { return g.tweaks }

// Frames returns the number of completed frames.
func (g *Gallery) Frames() int { return g.frames }

// Now returns the time of the last Tick.
func (g *Gallery) Now() time.Duration { return g.now }

// Progress returns the asset load ratio in [0, 1]. With nothing to load
// it is 1.
func (g *Gallery) Progress() float64 {
	if g.loader == nil {
		return 1
	}
	loaded, total := g.loader.Progress()
	if total == 0 {
		return 1
	}
	return float64(loaded) / float64(total)
}
