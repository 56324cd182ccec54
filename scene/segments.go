package scene

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
)

// Segment is one world-space line to draw. A zero Width means the
// renderer's default.
type Segment struct {
	A, B  mgl64.Vec3
	Width float32
	Color color.Color
}

// Segments flattens the scene into line segments in node order: twelve box
// edges per mesh and one per line.
func (s *Scene) Segments() []Segment {
	if s == nil {
		return nil
	}
	out := make([]Segment, 0, 12*len(s.nodes))
	for _, n := range s.nodes {
		switch v := n.(type) {
		case *Mesh:
			corners := v.corners()
			for _, e := range boxEdges {
				out = append(out, Segment{A: corners[e[0]], B: corners[e[1]], Color: v.Color})
			}
		case *Line:
			out = append(out, Segment{A: v.Start, B: v.End, Width: v.Width, Color: v.Color})
		}
	}
	return out
}
