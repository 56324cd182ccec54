package physics

import "github.com/go-gl/mathgl/mgl64"

// DefaultLinearDamping matches the damping a freshly created body gets
// unless the caller overrides it.
const DefaultLinearDamping = 0.01

type BodyID uint32

// Body is an axis-aligned box. Bodies never rotate; a zero mass makes the
// body static.
type Body struct {
	ID            BodyID
	Mass          float64
	Position      mgl64.Vec3
	Velocity      mgl64.Vec3
	HalfExtents   mgl64.Vec3
	LinearDamping float64

	invMass float64
	world   *World
}

// NewBody creates a box body. Mass <= 0 yields a static body.
func NewBody(mass float64, halfExtents mgl64.Vec3) *Body {
	b := &Body{
		Mass:          mass,
		HalfExtents:   halfExtents,
		LinearDamping: DefaultLinearDamping,
	}
	if mass > 0 {
		b.invMass = 1 / mass
	} else {
		b.Mass = 0
	}
	return b
}

// NewStaticBody creates a zero-mass box body.
func NewStaticBody(halfExtents mgl64.Vec3) *Body {
	return NewBody(0, halfExtents)
}

func (b *Body) Static() bool {
	return b == nil || b.invMass == 0
}

func (b *Body) InvMass() float64 {
	if b == nil {
		return 0
	}
	return b.invMass
}

// World returns the world the body was added to, if any.
func (b *Body) World() *World {
	if b == nil {
		return nil
	}
	return b.world
}

// AABB returns the world-space bounds of the body's box.
func (b *Body) AABB() AABB {
	return AABB{Min: b.Position.Sub(b.HalfExtents), Max: b.Position.Add(b.HalfExtents)}
}
