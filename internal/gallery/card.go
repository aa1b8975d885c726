package gallery

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"card-gallery/internal/camera"
	"card-gallery/internal/raster"
	"card-gallery/internal/scene"
)

// Panel is an offscreen sub-scene: its own scene graph and camera
// rendered every frame into a fixed-size target.
type Panel struct {
	ID     CardID
	Scene  *scene.Scene
	Camera *camera.Camera
	Rig    camera.Rig
	Orbit  *camera.Orbit
	Target *raster.FrameBuffer

	// Model is the figure standing in the sub-scene.
	Model *scene.Node
}

// Card is a plane in the primary scene textured with a panel's target.
type Card struct {
	ID     CardID
	Node   *scene.Node
	Width  float64
	Height float64

	root *scene.Node
}

func newCard(id CardID, root *scene.Node, target *raster.FrameBuffer, w, h float64) *Card {
	node := scene.NewNode("card."+id.String(), &scene.Mesh{
		Geometry: scene.Plane(w, h),
		Material: scene.Material{
			Color:   scene.MustHex("#ffffff"),
			Texture: target.Image(),
			Unlit:   true,
		},
	})
	root.Add(node)
	return &Card{ID: id, Node: node, Width: w, Height: h, root: root}
}

// World returns the card's world matrix.
func (c *Card) World() mgl64.Mat4 {
	return c.root.Pose.Matrix().Mul4(c.Node.Pose.Matrix())
}

// renderPanel draws p's scene into its target and restores the default
// output.
func renderPanel(p *Panel, r Renderer) error {
	r.SetRenderTarget(p.Target)
	err := r.Render(p.Scene, p.Camera)
	r.SetRenderTarget(nil)
	if err != nil {
		return fmt.Errorf("gallery: render %s panel: %w", p.ID, err)
	}
	return nil
}
