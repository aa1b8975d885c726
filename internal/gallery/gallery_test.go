package gallery

import (
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"card-gallery/internal/camera"
	"card-gallery/internal/mathutil"
	"card-gallery/internal/pointer"
	"card-gallery/internal/raster"
	"card-gallery/internal/scene"
	"card-gallery/internal/texture"
)

var errBoom = errors.New("boom")

type renderCall struct {
	target *raster.FrameBuffer
	scene  string
}

// fakeRenderer records every render with the target bound at the time.
type fakeRenderer struct {
	bound  *raster.FrameBuffer
	calls  []renderCall
	failOn string
}

func (f *fakeRenderer) SetRenderTarget(fb *raster.FrameBuffer) { f.bound = fb }

func (f *fakeRenderer) Render(s *scene.Scene, _ *camera.Camera) error {
	f.calls = append(f.calls, renderCall{f.bound, s.Name})
	if s.Name == f.failOn {
		return errBoom
	}
	return nil
}

type pendingLoad struct {
	path string
	done texture.Done
}

// fakeLoader completes loads only when finish is called.
type fakeLoader struct {
	pending []pendingLoad
	ready   []func()
	loaded  int
	total   int
}

func (l *fakeLoader) Load(path string, done texture.Done) {
	l.pending = append(l.pending, pendingLoad{path, done})
	l.total++
}

func (l *fakeLoader) finish(img *image.NRGBA, err error) {
	for _, p := range l.pending {
		done := p.done
		l.ready = append(l.ready, func() { done(img, err) })
	}
	l.pending = nil
}

func (l *fakeLoader) Poll() int {
	n := len(l.ready)
	for _, fn := range l.ready {
		fn()
		l.loaded++
	}
	l.ready = nil
	return n
}

func (l *fakeLoader) Progress() (int, int) { return l.loaded, l.total }
func (l *fakeLoader) Idle() bool           { return len(l.pending) == 0 && len(l.ready) == 0 }

func testOptions() Options {
	var panels [numCards]PanelSpec
	for _, id := range CardIDs {
		panels[id] = PanelSpec{
			Name:       id.String(),
			Background: color.NRGBA{30, 30, 40, 255},
			ModelColor: color.NRGBA{200, 120, 60, 255},
			CameraHome: mgl64.Vec3{0, 1, 4.5},
			Ambient:    1,
		}
	}
	return Options{
		Viewport:    pointer.Viewport{Width: 800, Height: 600, PixelRatio: 1},
		Background:  color.NRGBA{0xFE, 0xFB, 0xEA, 255},
		Layout:      DefaultLayout(),
		Panels:      panels,
		PanelWidth:  32,
		PanelHeight: 46,
		CardWidth:   0.625,
		CardHeight:  0.875,
		Parallax:    2.5,
		PulseScale:  1.5,
		Timing:      DefaultTiming(),
	}
}

func newTestGallery(t *testing.T, opts Options, r Renderer, loader Loader) *Gallery {
	t.Helper()
	g, err := New(opts, r, loader, log.New(io.Discard))
	require.NoError(t, err)
	t.Cleanup(g.Close)
	return g
}

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

// toClient converts ndc to client coordinates in g's viewport.
func toClient(g *Gallery, ndc mgl64.Vec2) (float64, float64) {
	vp := g.Pointer().Viewport()
	return (ndc[0] + 1) / 2 * vp.Width, (1 - ndc[1]) / 2 * vp.Height
}

func assertPose(t *testing.T, want, got mathutil.Pose, msg string) {
	t.Helper()
	assert.Equal(t, want.Values(), got.Values(), msg)
}

func TestTickRenderOrder(t *testing.T) {
	r := &fakeRenderer{}
	g := newTestGallery(t, testOptions(), r, nil)

	require.NoError(t, g.Tick(0))
	require.NoError(t, g.Tick(ms(16)))

	want := []renderCall{
		{g.Panel(Center).Target, "center"},
		{g.Panel(Left).Target, "left"},
		{g.Panel(Right).Target, "right"},
		{nil, "primary"},
	}
	require.Len(t, r.calls, 8)
	assert.Equal(t, want, r.calls[:4])
	assert.Equal(t, want, r.calls[4:])
	assert.Nil(t, r.bound)
	assert.Equal(t, 2, g.Frames())
}

func TestRenderErrorPropagates(t *testing.T) {
	r := &fakeRenderer{failOn: "left"}
	g := newTestGallery(t, testOptions(), r, nil)

	err := g.Tick(0)
	require.Error(t, err)
	assert.ErrorIs(t, err, errBoom)
	assert.Contains(t, err.Error(), "left panel")
	assert.Nil(t, r.bound, "default output restored after a failed render")
	assert.Len(t, r.calls, 2)
}

func TestCardTextureIsLiveTarget(t *testing.T) {
	g := newTestGallery(t, testOptions(), &fakeRenderer{}, nil)

	for _, id := range CardIDs {
		tex := g.Card(id).Node.Mesh.Material.Texture
		target := g.Panel(id).Target
		require.NotNil(t, tex)
		assert.Equal(t, target.Width, tex.Rect.Dx())
		target.Color[0] = 42
		assert.Equal(t, uint8(42), tex.Pix[0], id.String())
	}
}

func TestNextFocus(t *testing.T) {
	states := []Focus{Neutral, FocusedCenter, FocusedLeft, FocusedRight}
	for _, cur := range states {
		assert.Equal(t, Neutral, NextFocus(cur, 0, false), "miss from %s", cur)
		for _, id := range CardIDs {
			next := NextFocus(cur, id, true)
			got, ok := next.Card()
			require.True(t, ok)
			assert.Equal(t, id, got, "hit %s from %s", id, cur)
		}
	}
	assert.Equal(t, FocusedLeft, FocusOn(Left))
	assert.Equal(t, "focused-right", FocusedRight.String())
	_, ok := Neutral.Card()
	assert.False(t, ok)
}

func TestHoverPulse(t *testing.T) {
	g := newTestGallery(t, testOptions(), &fakeRenderer{}, nil)

	require.NoError(t, g.Tick(0))
	id, ok := g.Hover()
	require.True(t, ok, "pointer starts at the viewport center")
	assert.Equal(t, Center, id)
	assert.Equal(t, 1.5, g.Card(Center).Node.Pose.Scale)
	assert.Equal(t, 1.0, g.Card(Left).Node.Pose.Scale)
	assert.Equal(t, 1.0, g.Card(Right).Node.Pose.Scale)

	g.Move(799, 1)
	require.NoError(t, g.Tick(ms(16)))
	_, ok = g.Hover()
	assert.False(t, ok)
	for _, id := range CardIDs {
		assert.Equal(t, 1.0, g.Card(id).Node.Pose.Scale, id.String())
	}
}

func TestClickFocusedCardIsIdempotent(t *testing.T) {
	g := newTestGallery(t, testOptions(), &fakeRenderer{}, nil)
	require.NoError(t, g.Tick(0))

	g.Click()
	require.Equal(t, FocusedCenter, g.Focus())

	require.NoError(t, g.Tick(ms(500)))
	g.Click()
	assert.Equal(t, FocusedCenter, g.Focus())
	assert.False(t, g.SetFocus(FocusedCenter))

	// A restarted tween would still be moving at 1s.
	require.NoError(t, g.Tick(ms(1000)))
	for _, id := range CardIDs {
		assertPose(t, g.opts.Layout.Pose(FocusedCenter, id), g.Card(id).Node.Pose, id.String())
	}
}

func TestClickSupersedesInFlight(t *testing.T) {
	g := newTestGallery(t, testOptions(), &fakeRenderer{}, nil)
	require.NoError(t, g.Tick(0))

	require.True(t, g.SetFocus(FocusedCenter))
	require.NoError(t, g.Tick(ms(300)))
	require.True(t, g.SetFocus(FocusedRight))
	require.NoError(t, g.Tick(ms(1300)))

	for _, id := range CardIDs {
		assertPose(t, g.opts.Layout.Pose(FocusedRight, id), g.Card(id).Node.Pose, id.String())
	}
}

func TestFocusModes(t *testing.T) {
	g := newTestGallery(t, testOptions(), &fakeRenderer{}, nil)
	require.NoError(t, g.Tick(0))

	require.True(t, g.SetFocus(FocusedLeft))
	assert.True(t, g.Static())
	for _, id := range CardIDs {
		assert.Equal(t, id == Left, g.Panel(id).Orbit.Enabled, id.String())
	}

	// The static camera returns home regardless of the pointer.
	g.Move(100, 100)
	require.NoError(t, g.Tick(ms(600)))
	assert.Equal(t, CameraHome, g.Camera.Position)

	require.True(t, g.SetFocus(Neutral))
	assert.False(t, g.Static())
	for _, id := range CardIDs {
		assert.False(t, g.Panel(id).Orbit.Enabled, id.String())
	}
	require.NoError(t, g.Tick(ms(700)))
	assert.NotEqual(t, CameraHome, g.Camera.Position, "parallax resumes")
}

func TestRoundTripRestoresNeutral(t *testing.T) {
	g := newTestGallery(t, testOptions(), &fakeRenderer{}, nil)
	require.NoError(t, g.Tick(0))

	g.Click()
	require.Equal(t, FocusedCenter, g.Focus())
	for ts := 100; ts <= 1200; ts += 100 {
		require.NoError(t, g.Tick(ms(ts)))
	}

	g.Move(799, 1)
	g.Click()
	require.Equal(t, Neutral, g.Focus())
	for ts := 1300; ts <= 2500; ts += 100 {
		require.NoError(t, g.Tick(ms(ts)))
	}

	hover, hovering := g.Hover()
	for _, id := range CardIDs {
		want := g.opts.Layout.Pose(Neutral, id)
		if hovering && hover == id {
			want.Scale = g.opts.PulseScale
		}
		assertPose(t, want, g.Card(id).Node.Pose, id.String())
	}
}

func TestOverlayFadesAfterLoads(t *testing.T) {
	opts := testOptions()
	opts.Overlay = true
	opts.Panels[Left].BackgroundImage = "leftBG.png"
	opts.Panels[Right].BackgroundImage = "rightBG.png"
	loader := &fakeLoader{}
	g := newTestGallery(t, opts, &fakeRenderer{}, loader)

	require.NoError(t, g.Tick(0))
	assert.Equal(t, 1.0, g.Primary.Overlay.Alpha)
	assert.Equal(t, 0.0, g.Progress())

	bg := image.NewNRGBA(image.Rect(0, 0, 4, 2))
	loader.finish(bg, nil)
	require.NoError(t, g.Tick(ms(1000)))
	assert.Same(t, bg, g.Panel(Left).Scene.Background.Equirect)
	assert.Nil(t, g.Panel(Center).Scene.Background.Equirect)
	assert.Equal(t, 1.0, g.Progress())

	require.NoError(t, g.Tick(ms(1500)))
	assert.Equal(t, 1.0, g.Primary.Overlay.Alpha, "fade waits for its delay")

	require.NoError(t, g.Tick(ms(3000)))
	alpha := g.Primary.Overlay.Alpha
	assert.Greater(t, alpha, 0.0)
	assert.Less(t, alpha, 1.0)

	require.NoError(t, g.Tick(ms(4600)))
	assert.Equal(t, 0.0, g.Primary.Overlay.Alpha)
}

func TestFailedLoadKeepsSolidBackground(t *testing.T) {
	opts := testOptions()
	opts.Panels[Center].BackgroundImage = "missing.jpg"
	loader := &fakeLoader{}
	g := newTestGallery(t, opts, &fakeRenderer{}, loader)

	loader.finish(nil, errors.New("no such file"))
	require.NoError(t, g.Tick(0))
	assert.Nil(t, g.Panel(Center).Scene.Background.Equirect)
	assert.Equal(t, opts.Panels[Center].Background, g.Panel(Center).Scene.Background.Color)
}

func writeBackground(t *testing.T, path string, c color.NRGBA) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 8, 4))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	if filepath.Ext(path) == ".jpg" {
		require.NoError(t, jpeg.Encode(f, img, &jpeg.Options{Quality: 100}))
		return
	}
	require.NoError(t, png.Encode(f, img))
}

func TestBackgroundsLoadFromDisk(t *testing.T) {
	dir := t.TempDir()
	writeBackground(t, filepath.Join(dir, "centerBG.jpg"), color.NRGBA{220, 40, 40, 255})
	writeBackground(t, filepath.Join(dir, "leftBG.png"), color.NRGBA{40, 220, 40, 255})

	opts := testOptions()
	opts.Overlay = true
	opts.Viewport = pointer.Viewport{Width: 160, Height: 120, PixelRatio: 1}
	opts.Panels[Center].BackgroundImage = filepath.Join(dir, "centerBG.jpg")
	opts.Panels[Left].BackgroundImage = filepath.Join(dir, "leftBG.png")
	opts.Panels[Right].BackgroundImage = filepath.Join(dir, "rightBG.jpg")

	r, err := raster.NewRenderer(160, 120)
	require.NoError(t, err)
	loader := texture.NewLoader(texture.NewCache())
	g := newTestGallery(t, opts, r, loader)

	now := time.Duration(0)
	deadline := time.Now().Add(5 * time.Second)
	for !loader.Idle() {
		require.True(t, time.Now().Before(deadline), "backgrounds never arrived")
		require.NoError(t, g.Tick(now))
		now += ms(16)
		time.Sleep(time.Millisecond)
	}
	require.NoError(t, g.Tick(now))

	center := g.Panel(Center).Scene.Background.Equirect
	require.NotNil(t, center, "jpeg background decoded")
	assert.Equal(t, image.Rect(0, 0, 8, 4), center.Bounds())
	require.NotNil(t, g.Panel(Left).Scene.Background.Equirect, "png background decoded")
	assert.Nil(t, g.Panel(Right).Scene.Background.Equirect, "missing file keeps the solid color")
	assert.Equal(t, 1.0, g.Progress())

	// The panel corner shows the map, not the solid color.
	px := g.Panel(Center).Target.Image().NRGBAAt(0, 0)
	assert.Greater(t, int(px.R), int(px.G)+100)
}

func TestCloseReleasesTargets(t *testing.T) {
	g, err := New(testOptions(), &fakeRenderer{}, nil, log.New(io.Discard))
	require.NoError(t, err)

	g.Close()
	g.Close()
	assert.Nil(t, g.Panel(Center).Target.Color)
	assert.ErrorIs(t, g.Tick(0), ErrClosed)
}

func TestResizeUpdatesOutput(t *testing.T) {
	r, err := raster.NewRenderer(800, 600)
	require.NoError(t, err)
	g := newTestGallery(t, testOptions(), r, nil)

	require.NoError(t, g.Resize(pointer.Viewport{Width: 400, Height: 200, PixelRatio: 3}))
	assert.Equal(t, 800, r.Output().Width)
	assert.Equal(t, 400, r.Output().Height)
	assert.Equal(t, 2.0, g.Camera.Aspect)
}

func TestTweakBindings(t *testing.T) {
	g := newTestGallery(t, testOptions(), &fakeRenderer{}, nil)
	require.NoError(t, g.Tick(0))

	tw := g.Tweaks()
	require.NoError(t, tw.SetFloat("center card/x", 0.25))
	assert.Equal(t, 0.25, g.Card(Center).Node.Pose.Position[0])

	require.NoError(t, tw.SetBool("right card/visible", false))
	assert.False(t, g.Card(Right).Node.Visible)

	require.NoError(t, tw.SetFloat("right scene/rotation y", 1.5))
	assert.Equal(t, 1.5, g.Panel(Right).Scene.Root.Pose.Rotation[1])

	require.NoError(t, tw.Trigger("center card/spin"))
	require.NoError(t, g.Tick(ms(500)))
	assert.Greater(t, g.Card(Center).Node.Pose.Rotation[1], 0.0)
	require.NoError(t, g.Tick(ms(1000)))
	assert.Equal(t, 0.0, g.Card(Center).Node.Pose.Rotation[1], "spin settles on its start angle")
}

func TestSpinSettles(t *testing.T) {
	g := newTestGallery(t, testOptions(), &fakeRenderer{}, nil)
	rot := &g.Card(Center).Node.Pose.Rotation[1]
	require.NoError(t, g.Tick(0))
	base := *rot

	g.Spin()
	require.NoError(t, g.Tick(ms(500)))
	g.Spin()
	require.NoError(t, g.Tick(ms(1000)))
	assert.Greater(t, *rot, base+2*math.Pi, "second spin extends the turn")

	require.NoError(t, g.Tick(ms(1500)))
	assert.Equal(t, base, *rot)

	// Focusing afterwards tweens from the settled angle, not from whole
	// turns away.
	want := g.opts.Layout.Pose(FocusedCenter, Center).Rotation[1]
	require.True(t, g.SetFocus(FocusedCenter))
	for _, n := range []int{1600, 1800, 2000, 2600} {
		require.NoError(t, g.Tick(ms(n)))
		lo, hi := math.Min(base, want), math.Max(base, want)
		assert.GreaterOrEqual(t, *rot, lo-1e-9)
		assert.LessOrEqual(t, *rot, hi+1e-9)
	}
}

func TestRasterFrame(t *testing.T) {
	r, err := raster.NewRenderer(160, 120)
	require.NoError(t, err)
	opts := testOptions()
	opts.Viewport = pointer.Viewport{Width: 160, Height: 120, PixelRatio: 1}
	g := newTestGallery(t, opts, r, nil)

	require.NoError(t, g.Tick(0))

	panel := g.Panel(Center)
	bg := opts.Panels[Center].Background
	figure := 0
	for i := 0; i < len(panel.Target.Color); i += 4 {
		c := panel.Target.Color[i : i+4]
		if c[0] != bg.R || c[1] != bg.G || c[2] != bg.B {
			figure++
		}
	}
	assert.Greater(t, figure, 0, "panel shows its model")

	out := r.Output().Image()
	got := out.NRGBAAt(80, 60)
	assert.NotEqual(t, opts.Background, got, "center card covers the middle of the frame")
}

// aimAt moves the pointer until the center of card id sits under it for
// the camera that pointer position produces.
func aimAt(t *testing.T, g *Gallery, id CardID) {
	t.Helper()
	for i := 0; i < 30; i++ {
		cam := *g.Camera
		g.rig.Apply(&cam, g.Pointer().State().Parallax)
		center := g.Card(id).World().Mul4x1(mgl64.Vec4{0, 0, 0, 1}).Vec3()
		ndc, ok := cam.Project(center)
		require.True(t, ok)
		g.Move(toClient(g, mgl64.Vec2{ndc[0], ndc[1]}))
	}
}

func TestEndToEndScenario(t *testing.T) {
	opts := testOptions()
	opts.Layout[Neutral][Center].Position = mgl64.Vec3{0, 0.75, 0.33}
	r := &fakeRenderer{}
	g := newTestGallery(t, opts, r, nil)

	now := time.Duration(0)
	tick := func(d time.Duration) {
		t.Helper()
		now += d
		require.NoError(t, g.Tick(now))
	}

	tick(0)
	assert.Equal(t, Neutral, g.Focus())
	_, ok := g.Hover()
	assert.False(t, ok, "no card under the viewport center")

	aimAt(t, g, Left)
	tick(ms(16))
	tick(ms(16))
	id, ok := g.Hover()
	require.True(t, ok)
	require.Equal(t, Left, id)
	assert.Equal(t, 1.5, g.Card(Left).Node.Pose.Scale)
	assert.Equal(t, 1.0, g.Card(Center).Node.Pose.Scale)
	assert.Equal(t, 1.0, g.Card(Right).Node.Pose.Scale)

	g.Click()
	require.Equal(t, FocusedLeft, g.Focus())
	for i := 0; i < 70; i++ {
		tick(ms(16))
	}
	for _, id := range CardIDs {
		assertPose(t, opts.Layout.Pose(FocusedLeft, id), g.Card(id).Node.Pose, id.String())
	}
	assert.True(t, g.Panel(Left).Orbit.Enabled)

	g.Move(799, 1)
	tick(ms(16))
	g.Click()
	require.Equal(t, Neutral, g.Focus())
	for i := 0; i < 70; i++ {
		tick(ms(16))
	}
	hover, hovering := g.Hover()
	for _, id := range CardIDs {
		want := opts.Layout.Pose(Neutral, id)
		if hovering && hover == id {
			want.Scale = opts.PulseScale
		}
		assertPose(t, want, g.Card(id).Node.Pose, id.String())
	}

	// Four renders per frame, panels before the primary scene.
	require.Equal(t, 0, len(r.calls)%4)
	for i := 0; i < len(r.calls); i += 4 {
		assert.Equal(t, "primary", r.calls[i+3].scene)
		assert.Nil(t, r.calls[i+3].target)
	}
}
