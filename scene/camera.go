package scene

import "github.com/go-gl/mathgl/mgl64"

// Camera is a perspective camera looking at a target point.
type Camera struct {
	FOV    float64 // vertical, degrees
	Aspect float64
	Near   float64
	Far    float64

	Position mgl64.Vec3
	Up       mgl64.Vec3
	target   mgl64.Vec3
}

func NewPerspectiveCamera(fov, aspect, near, far float64) *Camera {
	return &Camera{
		FOV:    fov,
		Aspect: aspect,
		Near:   near,
		Far:    far,
		Up:     mgl64.Vec3{0, 1, 0},
		target: mgl64.Vec3{0, 0, -1},
	}
}

func (c *Camera) SetPosition(p mgl64.Vec3) {
	c.Position = p
}

// LookAt points the camera at p. Looking at its own position is ignored.
func (c *Camera) LookAt(p mgl64.Vec3) {
	if p.ApproxEqual(c.Position) {
		return
	}
	c.target = p
}

func (c *Camera) Target() mgl64.Vec3 {
	return c.target
}

// SetAspect applies a new viewport aspect ratio; non-positive values are
// ignored.
func (c *Camera) SetAspect(aspect float64) {
	if aspect > 0 {
		c.Aspect = aspect
	}
}

func (c *Camera) View() mgl64.Mat4 {
	return mgl64.LookAtV(c.Position, c.target, c.Up)
}

func (c *Camera) Projection() mgl64.Mat4 {
	return mgl64.Perspective(mgl64.DegToRad(c.FOV), c.Aspect, c.Near, c.Far)
}

// Project maps a world point to screen pixels. ok is false for points
// behind the near plane.
func (c *Camera) Project(p mgl64.Vec3, width, height float64) (x, y float64, ok bool) {
	view := c.View().Mul4x1(p.Vec4(1)).Vec3()
	if -view.Z() < c.Near {
		return 0, 0, false
	}
	x, y = c.projectView(view, width, height)
	return x, y, true
}

// ProjectSegment maps a world segment to screen pixels, clipping it
// against the near plane.
func (c *Camera) ProjectSegment(a, b mgl64.Vec3, width, height float64) (x0, y0, x1, y1 float64, ok bool) {
	viewMat := c.View()
	va := viewMat.Mul4x1(a.Vec4(1)).Vec3()
	vb := viewMat.Mul4x1(b.Vec4(1)).Vec3()
	near := -c.Near

	aIn, bIn := va.Z() <= near, vb.Z() <= near
	switch {
	case !aIn && !bIn:
		return 0, 0, 0, 0, false
	case !aIn:
		va = clipToPlane(vb, va, near)
	case !bIn:
		vb = clipToPlane(va, vb, near)
	}
	x0, y0 = c.projectView(va, width, height)
	x1, y1 = c.projectView(vb, width, height)
	return x0, y0, x1, y1, true
}

// clipToPlane moves out toward in until it sits on z = plane.
func clipToPlane(in, out mgl64.Vec3, plane float64) mgl64.Vec3 {
	t := (plane - in.Z()) / (out.Z() - in.Z())
	return in.Add(out.Sub(in).Mul(t))
}

func (c *Camera) projectView(view mgl64.Vec3, width, height float64) (float64, float64) {
	clip := c.Projection().Mul4x1(view.Vec4(1))
	ndcX := clip.X() / clip.W()
	ndcY := clip.Y() / clip.W()
	return (ndcX + 1) / 2 * width, (1 - ndcY) / 2 * height
}
