package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// DistanceConstraint keeps the centers of A and B Distance apart. MaxForce
// bounds the force the solver may apply per step; zero means unbounded.
type DistanceConstraint struct {
	A        *Body
	B        *Body
	Distance float64
	MaxForce float64

	impulse float64
}

// NewDistanceConstraint links a and b. A negative distance takes the
// current separation.
func NewDistanceConstraint(a, b *Body, distance, maxForce float64) *DistanceConstraint {
	c := &DistanceConstraint{A: a, B: b, Distance: distance, MaxForce: maxForce}
	if distance < 0 && a != nil && b != nil {
		c.Distance = c.CurrentLength()
	}
	return c
}

// CurrentLength returns the present separation of the two bodies.
func (c *DistanceConstraint) CurrentLength() float64 {
	return c.B.Position.Sub(c.A.Position).Len()
}

func (c *DistanceConstraint) solve(dt float64) {
	effMass := c.A.invMass + c.B.invMass
	if effMass == 0 || dt <= 0 {
		return
	}
	d := c.B.Position.Sub(c.A.Position)
	length := d.Len()
	if length == 0 {
		return
	}
	n := d.Mul(1 / length)
	violation := length - c.Distance
	vn := c.B.Velocity.Sub(c.A.Velocity).Dot(n)
	lambda := -(vn + baumgarte/dt*violation) / effMass

	next := c.impulse + lambda
	if c.MaxForce > 0 {
		limit := c.MaxForce * dt
		next = mgl64.Clamp(next, -limit, limit)
	}
	lambda = next - c.impulse
	c.impulse = next

	c.A.Velocity = c.A.Velocity.Sub(n.Mul(lambda * c.A.invMass))
	c.B.Velocity = c.B.Velocity.Add(n.Mul(lambda * c.B.invMass))
}

func (c *DistanceConstraint) valid() bool {
	return c != nil && c.A != nil && c.B != nil && !math.IsNaN(c.Distance)
}
