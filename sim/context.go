package sim

import (
	"fmt"
	"log"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/webswing/ecs"
	"github.com/milk9111/webswing/input"
	"github.com/milk9111/webswing/physics"
	"github.com/milk9111/webswing/scene"
	"github.com/milk9111/webswing/swing"
)

// Context is the whole simulation: entity registry, physics, scene, camera,
// input state and web controller. Only Post may be called from other
// goroutines; everything else belongs to the frame loop.
type Context struct {
	config Config

	entities *ecs.World
	physics  *physics.World
	scene    *scene.Scene
	camera   *scene.Camera
	tracker  *input.Tracker
	swing    *swing.Controller

	player    ecs.Entity
	body      *physics.Body
	mesh      *scene.Mesh
	ground    ecs.Entity
	buildings []swing.Building

	lastTime  float64
	delta     float64
	frames    uint64
	cityReady bool
	cityErr   error
}

// New builds a context with the player (and the ground, when enabled)
// already spawned. The city arrives later through ModelLoaded.
func New(cfg Config) (*Context, error) {
	cfg = withDefaults(cfg)

	pw := physics.NewWorld()
	pw.Gravity = cfg.Gravity
	pw.SolverIterations = cfg.Iterations
	switch cfg.Broadphase {
	case BroadphaseNaive, "":
		pw.Broadphase = physics.NaiveBroadphase{}
	case BroadphaseFootprint:
		pw.Broadphase = physics.NewFootprintBroadphase()
	default:
		return nil, fmt.Errorf("sim: unknown broadphase %q", cfg.Broadphase)
	}

	sc := scene.New()
	sc.Background = cfg.Background
	c := &Context{
		config:   cfg,
		entities: ecs.NewWorld(),
		physics:  pw,
		scene:    sc,
		camera:   scene.NewPerspectiveCamera(cfg.Camera.FOV, cfg.aspect(), cfg.Camera.Near, cfg.Camera.Far),
		tracker:  input.NewTracker(),
		swing:    swing.NewController(pw, sc, cfg.Swing),
	}
	if err := c.spawnPlayer(); err != nil {
		return nil, err
	}
	if cfg.Ground.Enabled {
		if err := c.spawnGround(); err != nil {
			return nil, err
		}
	}
	c.follow()
	return c, nil
}

func withDefaults(cfg Config) Config {
	def := DefaultConfig()
	if cfg.MoveSpeed <= 0 {
		cfg.MoveSpeed = def.MoveSpeed
	}
	if cfg.WebKey == "" {
		cfg.WebKey = def.WebKey
	}
	if cfg.FixedStep <= 0 {
		cfg.FixedStep = def.FixedStep
	}
	if cfg.MaxSubSteps <= 0 {
		cfg.MaxSubSteps = def.MaxSubSteps
	}
	if cfg.Iterations <= 0 {
		cfg.Iterations = def.Iterations
	}
	if cfg.CityScale <= 0 {
		cfg.CityScale = def.CityScale
	}
	if cfg.Background == nil {
		cfg.Background = def.Background
	}
	if cfg.CityColor == nil {
		cfg.CityColor = def.CityColor
	}
	if cfg.Player.Mass <= 0 {
		cfg.Player.Mass = def.Player.Mass
	}
	if cfg.Player.HalfExtents == (mgl64.Vec3{}) {
		cfg.Player.HalfExtents = def.Player.HalfExtents
	}
	if cfg.Player.MeshScale <= 0 {
		cfg.Player.MeshScale = def.Player.MeshScale
	}
	if cfg.Player.Color == nil {
		cfg.Player.Color = def.Player.Color
	}
	if cfg.Ground.HalfExtents == (mgl64.Vec3{}) {
		cfg.Ground.HalfExtents = def.Ground.HalfExtents
	}
	if cfg.Ground.Color == nil {
		cfg.Ground.Color = def.Ground.Color
	}
	if cfg.Camera.FOV <= 0 {
		cfg.Camera = def.Camera
	}
	return cfg
}

func (c *Context) Config() Config {
	return c.config
}

func (c *Context) Entities() *ecs.World {
	return c.entities
}

func (c *Context) Physics() *physics.World {
	return c.physics
}

func (c *Context) Scene() *scene.Scene {
	return c.scene
}

func (c *Context) Camera() *scene.Camera {
	return c.camera
}

func (c *Context) Tracker() *input.Tracker {
	return c.tracker
}

func (c *Context) Swing() *swing.Controller {
	return c.swing
}

// Player returns the player entity and its body.
func (c *Context) Player() (ecs.Entity, *physics.Body) {
	return c.player, c.body
}

func (c *Context) PlayerMesh() *scene.Mesh {
	return c.mesh
}

// Buildings lists the spawned buildings in traversal order.
func (c *Context) Buildings() []swing.Building {
	return c.buildings
}

// CityReady reports whether a city has been spawned. CityErr holds the
// last load failure, if any.
func (c *Context) CityReady() bool {
	return c.cityReady
}

func (c *Context) CityErr() error {
	return c.cityErr
}

// Frames is the number of Frame calls so far.
func (c *Context) Frames() uint64 {
	return c.frames
}

// Delta is the wall time covered by the last frame, in seconds.
func (c *Context) Delta() float64 {
	return c.delta
}

func (c *Context) resize(width, height int) {
	if width <= 0 || height <= 0 {
		log.Printf("sim: ignoring resize to %dx%d", width, height)
		return
	}
	c.config.Width, c.config.Height = width, height
	c.camera.SetAspect(c.config.aspect())
}

func (c *Context) applyTuning(t TuningChanged) {
	if t.Swing != nil {
		c.config.Swing = *t.Swing
		c.swing.SetConfig(*t.Swing)
	}
	if t.MoveSpeed != nil && *t.MoveSpeed > 0 {
		c.config.MoveSpeed = *t.MoveSpeed
	}
	if t.Gravity != nil {
		c.config.Gravity = *t.Gravity
		c.physics.Gravity = *t.Gravity
	}
}
