package physics

import "github.com/go-gl/mathgl/mgl64"

type AABB struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// Overlaps reports whether two boxes share volume. Touching faces do not
// count.
func (a AABB) Overlaps(o AABB) bool {
	for i := 0; i < 3; i++ {
		if a.Min[i] >= o.Max[i] || a.Max[i] <= o.Min[i] {
			return false
		}
	}
	return true
}

func (a AABB) Center() mgl64.Vec3 {
	return a.Min.Add(a.Max).Mul(0.5)
}

func (a AABB) Size() mgl64.Vec3 {
	return a.Max.Sub(a.Min)
}
