package gallery

import (
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"card-gallery/internal/config"
	"card-gallery/internal/pointer"
	"card-gallery/internal/scene"
	"card-gallery/internal/tweak"
)

// OptionsFromConfig translates a resolved config into gallery options.
// Missing panels fall back to the stock ones.
func OptionsFromConfig(cfg config.Config) (Options, error) {
	bg, err := scene.ParseHex(cfg.Background)
	if err != nil {
		return Options{}, fmt.Errorf("gallery: background: %w", err)
	}

	opts := Options{
		Viewport: pointer.Viewport{
			Width:      float64(cfg.Width),
			Height:     float64(cfg.Height),
			PixelRatio: cfg.PixelRatio,
		},
		Background:  bg,
		Layout:      DefaultLayout(),
		PanelWidth:  cfg.PanelWidth,
		PanelHeight: cfg.PanelHeight,
		CardWidth:   cfg.CardWidth,
		CardHeight:  cfg.CardHeight,
		Parallax:    cfg.Parallax,
		PulseScale:  cfg.PulseScale,
		Overlay:     cfg.Overlay == nil || *cfg.Overlay,
		Timing: Timing{
			Focus:        seconds(cfg.FocusSeconds),
			Camera:       seconds(cfg.CameraSeconds),
			Overlay:      seconds(cfg.OverlaySeconds),
			OverlayDelay: seconds(cfg.OverlayDelaySeconds),
		},
	}

	panels := cfg.Panels
	defaults := config.DefaultPanels()
	for _, id := range CardIDs {
		p := defaults[id]
		if int(id) < len(panels) {
			p = panels[id]
		}
		spec, err := panelSpec(p)
		if err != nil {
			return Options{}, fmt.Errorf("gallery: %s panel: %w", id, err)
		}
		opts.Panels[id] = spec
	}
	return opts, nil
}

func panelSpec(p config.Panel) (PanelSpec, error) {
	bg, err := scene.ParseHex(p.Background)
	if err != nil {
		return PanelSpec{}, err
	}
	model, err := scene.ParseHex(p.ModelColor)
	if err != nil {
		return PanelSpec{}, err
	}
	return PanelSpec{
		Name:            p.Name,
		Background:      bg,
		BackgroundImage: p.BackgroundImage,
		ModelColor:      model,
		ModelRotation:   mgl64.Vec3(p.ModelRotation),
		SceneRotation:   mgl64.Vec3(p.SceneRotation),
		CameraHome:      mgl64.Vec3(p.CameraHome),
		Ambient:         p.Ambient,
	}, nil
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// bindTweaks exposes the live debug parameters.
func (g *Gallery) bindTweaks() {
	t := g.tweaks
	pos := tweak.Range{Min: -10, Max: 10, Step: 0.01}
	rot := tweak.Range{Min: -10, Max: 10, Step: 0.001}

	center := &g.cards[Center].Node.Pose
	t.BindFloat("center card", "x", &center.Position[0], pos)
	t.BindFloat("center card", "y", &center.Position[1], pos)
	t.BindFloat("center card", "z", &center.Position[2], pos)
	t.BindBool("center card", "visible", &g.cards[Center].Node.Visible)
	t.Action("center card", "spin", g.Spin)

	left := &g.cards[Left].Node.Pose
	t.BindFloat("left card", "x", &left.Position[0], pos)
	t.BindFloat("left card", "z", &left.Position[2], pos)
	t.BindFloat("left card", "rotation y", &left.Rotation[1], rot)
	t.BindBool("left card", "visible", &g.cards[Left].Node.Visible)

	t.BindBool("right card", "visible", &g.cards[Right].Node.Visible)

	t.BindFloat("main camera", "home x", &g.rig.Home[0], pos)
	t.BindFloat("main camera", "home y", &g.rig.Home[1], pos)
	t.BindFloat("main camera", "home z", &g.rig.Home[2], pos)
	t.BindFloat("main camera", "focus x", &g.rig.Focus[0], pos)
	t.BindFloat("main camera", "focus y", &g.rig.Focus[1], pos)
	t.BindFloat("main camera", "parallax", &g.rig.Amount, tweak.Range{Min: 0, Max: 10, Step: 0.1})

	for _, p := range g.panels {
		folder := p.ID.String() + " scene"
		t.BindFloat(folder, "rotation x", &p.Scene.Root.Pose.Rotation[0], rot)
		t.BindFloat(folder, "rotation y", &p.Scene.Root.Pose.Rotation[1], rot)
		t.BindFloat(folder, "rotation z", &p.Scene.Root.Pose.Rotation[2], rot)
	}
}
