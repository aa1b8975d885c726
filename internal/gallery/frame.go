package gallery

import (
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"card-gallery/internal/tween"
)

// Tick advances the gallery to now and renders one frame: panels first,
// center, left, right, then the primary scene to the default output.
func (g *Gallery) Tick(now time.Duration) error {
	if g.closed {
		return ErrClosed
	}
	g.now = now

	g.drainLoads()
	g.anim.Sample(now)
	g.settleSpin()

	st := g.pointer.State()
	g.hover, g.hovering = Pick(st.NDC, g.Camera, g.cards[:])
	g.applyHover()

	g.updateCamera(st.Parallax)
	g.updatePanelCameras(st.Parallax)

	for _, p := range g.panels {
		if err := renderPanel(p, g.renderer); err != nil {
			return err
		}
	}
	if err := g.renderer.Render(g.Primary, g.Camera); err != nil {
		return fmt.Errorf("gallery: render primary: %w", err)
	}

	g.frames++
	return nil
}

// settleSpin unwinds a finished spin so later tweens on the center card's
// rotation do not rewind whole turns.
func (g *Gallery) settleSpin() {
	rot := &g.cards[Center].Node.Pose.Rotation[1]
	if !g.spinning || g.anim.Active(rot) {
		return
	}
	if *rot == g.spinEnd {
		*rot = g.spinBase
	}
	g.spinning = false
}

// drainLoads delivers finished asset loads and, once nothing is pending,
// starts the overlay fade.
func (g *Gallery) drainLoads() {
	if g.loader != nil {
		g.loader.Poll()
	}
	if g.fading || !g.opts.Overlay {
		return
	}
	if g.loader != nil && !g.loader.Idle() {
		return
	}
	g.fading = true
	g.anim.To(g.now, &g.Primary.Overlay.Alpha, 0, tween.Options{
		Duration: g.opts.Timing.Overlay,
		Delay:    g.opts.Timing.OverlayDelay,
	})
	g.log.Debug("assets loaded", "progress", g.Progress())
}

// applyHover pulses the hovered card in Neutral. Focused layouts own the
// card scales, so nothing happens there.
func (g *Gallery) applyHover() {
	if g.focus != Neutral {
		return
	}
	for _, c := range g.cards {
		c.Node.Pose.Scale = g.opts.Layout.Pose(Neutral, c.ID).Scale
	}
	if g.hovering {
		g.cards[g.hover].Node.Pose.Scale = g.opts.PulseScale
	}
}

func (g *Gallery) updateCamera(parallax mgl64.Vec2) {
	if g.static {
		g.Camera.LookAt(g.rig.Focus)
		return
	}
	g.rig.Apply(g.Camera, parallax)
}

func (g *Gallery) updatePanelCameras(parallax mgl64.Vec2) {
	drag := g.pointer.TakeDrag()
	for _, p := range g.panels {
		if p.Orbit.Enabled {
			p.Orbit.Drag(drag)
			p.Orbit.Update(p.Camera)
			continue
		}
		p.Rig.Apply(p.Camera, parallax)
	}
}
