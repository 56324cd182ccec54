package sim

import (
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/webswing/common"
	"github.com/milk9111/webswing/ecs"
	"github.com/milk9111/webswing/ecs/component"
)

// Frame advances the simulation to timestampMillis. Queued events are
// applied first, then physics steps at the fixed rate, meshes follow their
// bodies, the web line follows the player, movement input is applied and
// the camera catches up.
func (c *Context) Frame(timestampMillis float64) {
	delta := (timestampMillis - c.lastTime) / common.MillisPerSecond
	c.lastTime = timestampMillis
	if delta < 0 {
		delta = 0
	}
	c.delta = delta
	c.frames++

	c.drain()
	c.physics.Step(c.config.FixedStep, delta, c.config.MaxSubSteps)
	c.mirror()
	c.swing.Sync(c.PlayerPosition())
	c.Move(delta)
	c.follow()
}

// ResetClock makes the next Frame measure its delta from timestampMillis,
// so time spent paused is not simulated.
func (c *Context) ResetClock(timestampMillis float64) {
	c.lastTime = timestampMillis
}

// PlayerPosition is where the player is drawn.
func (c *Context) PlayerPosition() mgl64.Vec3 {
	if c.mesh != nil {
		return c.mesh.Position
	}
	if c.body != nil {
		return c.body.Position
	}
	return mgl64.Vec3{}
}

func (c *Context) applyKey(key string, pressed bool) {
	c.tracker.SetKey(key, pressed)
	if !strings.EqualFold(key, c.config.WebKey) {
		return
	}
	attached := c.swing.State().IsAttached()
	switch {
	case pressed && !attached:
		c.swing.Attach(c.body, c.PlayerPosition(), c.buildings)
	case !pressed && attached:
		c.swing.Detach()
	}
}

// mirror copies dynamic body positions onto their meshes.
func (c *Context) mirror() {
	ecs.ForEach(c.entities, component.PhysicsBodyComponent, func(e ecs.Entity, pb component.PhysicsBody) {
		if pb.Body == nil || pb.Body.Static() {
			return
		}
		if mr, ok := ecs.Get(c.entities, e, component.MeshRenderComponent); ok && mr.Mesh != nil {
			mr.Mesh.Position = pb.Body.Position
		}
	})
}

func (c *Context) follow() {
	p := c.PlayerPosition()
	c.camera.SetPosition(p.Add(c.config.Camera.Offset))
	c.camera.LookAt(p)
}
