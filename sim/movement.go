package sim

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/webswing/input"
)

// Impulse is the planar velocity change for one frame: w/s push along -Z/+Z,
// a/d along -X/+X. Opposing keys cancel. The direction is normalized so
// diagonals are no faster, then scaled by speed*delta.
func Impulse(t *input.Tracker, speed, delta float64) mgl64.Vec3 {
	var dir mgl64.Vec3
	if t.IsPressed("w") {
		dir[2] -= speed
	}
	if t.IsPressed("s") {
		dir[2] += speed
	}
	if t.IsPressed("a") {
		dir[0] -= speed
	}
	if t.IsPressed("d") {
		dir[0] += speed
	}
	if dir.Len() == 0 {
		return mgl64.Vec3{}
	}
	return dir.Normalize().Mul(speed * delta)
}

// Move adds this frame's impulse to the player's X/Z velocity. There is no
// speed cap; holding a key keeps accelerating the player.
func (c *Context) Move(delta float64) {
	if c.body == nil {
		return
	}
	imp := Impulse(c.tracker, c.config.MoveSpeed, delta)
	c.body.Velocity[0] += imp[0]
	c.body.Velocity[2] += imp[2]
}
