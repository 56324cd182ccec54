package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	baumgarte        = 0.2
	penetrationSlop  = 0.005
	maxBiasPerSecond = 10.0
)

// contact is a box-box overlap resolved along the axis of least
// penetration. normal points from a to b.
type contact struct {
	a, b    *Body
	normal  mgl64.Vec3
	depth   float64
	impulse float64
}

func collide(a, b *Body) (contact, bool) {
	d := b.Position.Sub(a.Position)
	axis := -1
	depth := math.Inf(1)
	for i := 0; i < 3; i++ {
		o := a.HalfExtents[i] + b.HalfExtents[i] - math.Abs(d[i])
		if o <= 0 {
			return contact{}, false
		}
		if o < depth {
			depth = o
			axis = i
		}
	}
	var n mgl64.Vec3
	if d[axis] < 0 {
		n[axis] = -1
	} else {
		n[axis] = 1
	}
	return contact{a: a, b: b, normal: n, depth: depth}, true
}

func (c *contact) solve(dt float64) {
	effMass := c.a.invMass + c.b.invMass
	if effMass == 0 {
		return
	}
	vn := c.b.Velocity.Sub(c.a.Velocity).Dot(c.normal)
	bias := 0.0
	if dt > 0 {
		bias = math.Min(baumgarte/dt*math.Max(c.depth-penetrationSlop, 0), maxBiasPerSecond)
	}
	lambda := (-vn + bias) / effMass

	// Contacts only push.
	next := math.Max(c.impulse+lambda, 0)
	lambda = next - c.impulse
	c.impulse = next

	c.a.Velocity = c.a.Velocity.Sub(c.normal.Mul(lambda * c.a.invMass))
	c.b.Velocity = c.b.Velocity.Add(c.normal.Mul(lambda * c.b.invMass))
}
