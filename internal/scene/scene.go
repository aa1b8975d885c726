// Package scene holds the gallery's scene graphs: a tree of posed nodes
// carrying meshes, plus the lights and background a renderer needs.
package scene

import (
	"image"
	"image/color"

	"github.com/go-gl/mathgl/mgl64"

	"card-gallery/internal/mathutil"
)

// Background is what a renderer clears a target to before drawing. When
// Equirect is set it is sampled by view direction, otherwise Color fills.
type Background struct {
	Color    color.NRGBA
	Equirect *image.NRGBA
}

// AmbientLight lights every face uniformly.
type AmbientLight struct {
	Color     color.NRGBA
	Intensity float64
}

// DirLight shines from Position towards the origin with no attenuation.
type DirLight struct {
	Color     color.NRGBA
	Intensity float64
	Position  mgl64.Vec3
}

// Overlay is a full-target colour blended over the finished frame.
type Overlay struct {
	Color color.NRGBA
	Alpha float64
}

// Material describes how a mesh surface is shaded. Texture, when set, is
// referenced rather than copied, so writes to its pixels show up on the
// next render.
type Material struct {
	Color   color.NRGBA
	Texture *image.NRGBA
	Unlit   bool
}

// Mesh pairs geometry with a material.
type Mesh struct {
	Geometry *Geometry
	Material Material
}

// Node is a posed element of the tree. A node without a mesh only groups
// its children.
type Node struct {
	Name     string
	Pose     mathutil.Pose
	Visible  bool
	Mesh     *Mesh
	Children []*Node
}

// NewNode returns a visible node at the origin with unit scale.
func NewNode(name string, mesh *Mesh) *Node {
	return &Node{Name: name, Pose: mathutil.Pose{Scale: 1}, Visible: true, Mesh: mesh}
}

// Add appends children and returns n.
func (n *Node) Add(children ...*Node) *Node {
	n.Children = append(n.Children, children...)
	return n
}

// Scene is one renderable world. The root node's pose is the scene's own
// transform (e.g. a whole-scene rotation).
type Scene struct {
	Name       string
	Background Background
	Ambient    AmbientLight
	Lights     []DirLight
	Overlay    Overlay
	Root       *Node
}

// New returns an empty scene with a solid background.
func New(name string, bg color.NRGBA) *Scene {
	return &Scene{
		Name:       name,
		Background: Background{Color: bg},
		Ambient:    AmbientLight{Color: color.NRGBA{255, 255, 255, 255}, Intensity: 1},
		Root:       NewNode(name, nil),
	}
}

// Add attaches nodes to the scene root.
func (s *Scene) Add(nodes ...*Node) {
	s.Root.Add(nodes...)
}

// Walk visits every visible node depth-first with its world matrix.
// Invisible nodes hide their whole subtree.
func (s *Scene) Walk(fn func(n *Node, world mgl64.Mat4)) {
	walk(s.Root, mgl64.Ident4(), fn)
}

func walk(n *Node, parent mgl64.Mat4, fn func(*Node, mgl64.Mat4)) {
	if n == nil || !n.Visible {
		return
	}
	world := parent.Mul4(n.Pose.Matrix())
	fn(n, world)
	for _, c := range n.Children {
		walk(c, world, fn)
	}
}
