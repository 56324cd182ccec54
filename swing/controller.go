package swing

import (
	"fmt"
	"image/color"
	"log"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/webswing/physics"
	"github.com/milk9111/webswing/scene"
)

const (
	DefaultMaxLength = 15.0
	DefaultStiffness = 20.0
)

// Config holds web tuning. Stiffness bounds the constraint force.
type Config struct {
	MaxLength float64
	Stiffness float64
	LineColor color.Color
}

func DefaultConfig() Config {
	return Config{
		MaxLength: DefaultMaxLength,
		Stiffness: DefaultStiffness,
		LineColor: color.White,
	}
}

// State is either detached or attached to exactly one building.
type State struct {
	attached bool
	building Building
}

func Detached() State {
	return State{}
}

func Attached(b Building) State {
	return State{attached: true, building: b}
}

func (s State) IsAttached() bool {
	return s.attached
}

// Building returns the anchor building while attached.
func (s State) Building() (Building, bool) {
	return s.building, s.attached
}

func (s State) String() string {
	if !s.attached {
		return "detached"
	}
	if s.building.Name != "" {
		return fmt.Sprintf("attached(%s)", s.building.Name)
	}
	return fmt.Sprintf("attached(%s)", s.building.ID)
}

// Controller owns the web line and its distance constraint. A line and a
// constraint exist exactly while the state is attached.
type Controller struct {
	config     Config
	world      *physics.World
	scene      *scene.Scene
	state      State
	line       *scene.Line
	constraint *physics.DistanceConstraint
}

func NewController(world *physics.World, s *scene.Scene, cfg Config) *Controller {
	return &Controller{config: withDefaults(cfg), world: world, scene: s}
}

func withDefaults(cfg Config) Config {
	def := DefaultConfig()
	if cfg.MaxLength <= 0 {
		cfg.MaxLength = def.MaxLength
	}
	if cfg.Stiffness <= 0 {
		cfg.Stiffness = def.Stiffness
	}
	if cfg.LineColor == nil {
		cfg.LineColor = def.LineColor
	}
	return cfg
}

func (c *Controller) Config() Config {
	return c.config
}

// SetConfig replaces the tuning. An attached web picks up the new
// stiffness immediately; its length stays as it was.
func (c *Controller) SetConfig(cfg Config) {
	c.config = withDefaults(cfg)
	if c.constraint != nil {
		c.constraint.MaxForce = c.config.Stiffness
	}
	if c.line != nil {
		c.line.Color = c.config.LineColor
	}
}

func (c *Controller) State() State {
	return c.state
}

func (c *Controller) Line() *scene.Line {
	return c.line
}

func (c *Controller) Constraint() *physics.DistanceConstraint {
	return c.constraint
}

// Attach webs the player to the nearest building in range. It does nothing
// when already attached or when no building qualifies, and reports whether
// a new web was created.
func (c *Controller) Attach(player *physics.Body, playerPos mgl64.Vec3, buildings []Building) bool {
	if c.state.attached {
		return false
	}
	if player == nil {
		log.Printf("swing: attach without a player body")
		return false
	}
	target, dist, ok := Nearest(playerPos, buildings, c.config.MaxLength)
	if !ok {
		return false
	}

	constraint := physics.NewDistanceConstraint(player, target.Body, dist, c.config.Stiffness)
	if c.world != nil {
		if err := c.world.AddConstraint(constraint); err != nil {
			log.Printf("swing: attach to %s: %v", target.ID, err)
			return false
		}
	}
	line := scene.NewLine(playerPos, target.Position(), c.config.LineColor)
	if c.scene != nil {
		c.scene.Add(line)
	}

	c.constraint = constraint
	c.line = line
	c.state = Attached(target)
	return true
}

// Detach removes the web if there is one. Calling it again is harmless.
func (c *Controller) Detach() {
	if c.line != nil && c.scene != nil {
		c.scene.Remove(c.line)
	}
	if c.constraint != nil && c.world != nil {
		c.world.RemoveConstraint(c.constraint)
	}
	c.line = nil
	c.constraint = nil
	c.state = Detached()
}

// Sync moves the player end of the line. The building end never moves.
func (c *Controller) Sync(playerPos mgl64.Vec3) {
	if !c.state.attached || c.line == nil {
		return
	}
	c.line.SetStart(playerPos)
}
