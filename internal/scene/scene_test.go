package scene

import (
	"image/color"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalkComposesAndHides(t *testing.T) {
	s := New("test", color.NRGBA{})
	s.Root.Pose.Position = mgl64.Vec3{1, 0, 0}

	parent := NewNode("parent", nil)
	parent.Pose.Scale = 2
	child := NewNode("child", &Mesh{Geometry: Plane(1, 1)})
	child.Pose.Position = mgl64.Vec3{0, 1, 0}
	parent.Add(child)

	hidden := NewNode("hidden", nil)
	hidden.Visible = false
	hidden.Add(NewNode("under-hidden", nil))

	s.Add(parent, hidden)

	var names []string
	var childWorld mgl64.Mat4
	s.Walk(func(n *Node, world mgl64.Mat4) {
		names = append(names, n.Name)
		if n == child {
			childWorld = world
		}
	})

	assert.Equal(t, []string{"test", "parent", "child"}, names)
	origin := childWorld.Mul4x1(mgl64.Vec4{0, 0, 0, 1}).Vec3()
	assert.InDelta(t, 1, origin[0], 1e-12)
	assert.InDelta(t, 2, origin[1], 1e-12)
}

func TestGeometry(t *testing.T) {
	p := Plane(0.625, 0.875)
	assert.Len(t, p.Positions, 4)
	assert.Len(t, p.Tris, 2)
	assert.Equal(t, mgl64.Vec3{0.625, 0.875, 0}, p.Size)

	b := Box(1, 2, 3)
	assert.Len(t, b.Positions, 24)
	assert.Len(t, b.Tris, 12)
	for _, v := range b.Positions {
		assert.InDelta(t, 0.5, abs(v[0]), 1e-12)
		assert.InDelta(t, 1.0, abs(v[1]), 1e-12)
		assert.InDelta(t, 1.5, abs(v[2]), 1e-12)
	}
}

func TestFigureHasMeshes(t *testing.T) {
	f := Figure("model", MustHex("#f08030"))
	require.NotEmpty(t, f.Children)
	for _, c := range f.Children {
		assert.NotNil(t, c.Mesh, c.Name)
	}
}

func TestParseHex(t *testing.T) {
	c, err := ParseHex("#FEFBEA")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{0xfe, 0xfb, 0xea, 255}, c)

	_, err = ParseHex("not-a-colour")
	assert.Error(t, err)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
