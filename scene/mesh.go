package scene

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
)

// Mesh is drawn as the wireframe of its bounding box.
type Mesh struct {
	Name     string
	Position mgl64.Vec3
	Scale    mgl64.Vec3
	// Min and Max are the geometry bounds in local space.
	Min   mgl64.Vec3
	Max   mgl64.Vec3
	Color color.Color
}

func (*Mesh) node() {}

// NewBoxMesh creates a mesh centered on its origin.
func NewBoxMesh(name string, halfExtents mgl64.Vec3, c color.Color) *Mesh {
	return &Mesh{
		Name:  name,
		Scale: mgl64.Vec3{1, 1, 1},
		Min:   halfExtents.Mul(-1),
		Max:   halfExtents,
		Color: c,
	}
}

// WorldBounds returns the scaled, translated bounding box.
func (m *Mesh) WorldBounds() (mgl64.Vec3, mgl64.Vec3) {
	lo := mgl64.Vec3{m.Min[0] * m.Scale[0], m.Min[1] * m.Scale[1], m.Min[2] * m.Scale[2]}
	hi := mgl64.Vec3{m.Max[0] * m.Scale[0], m.Max[1] * m.Scale[1], m.Max[2] * m.Scale[2]}
	for i := 0; i < 3; i++ {
		if lo[i] > hi[i] {
			lo[i], hi[i] = hi[i], lo[i]
		}
	}
	return m.Position.Add(lo), m.Position.Add(hi)
}

// boxEdges indexes corner pairs; corner i has bit 0 = x, bit 1 = y, bit 2 = z.
var boxEdges = [12][2]int{
	{0, 1}, {2, 3}, {4, 5}, {6, 7},
	{0, 2}, {1, 3}, {4, 6}, {5, 7},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

func (m *Mesh) corners() [8]mgl64.Vec3 {
	lo, hi := m.WorldBounds()
	var out [8]mgl64.Vec3
	for i := range out {
		for axis := 0; axis < 3; axis++ {
			if i&(1<<axis) != 0 {
				out[i][axis] = hi[axis]
			} else {
				out[i][axis] = lo[axis]
			}
		}
	}
	return out
}
