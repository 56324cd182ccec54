package sim

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/webswing/common"
	"github.com/milk9111/webswing/physics"
	"github.com/milk9111/webswing/scene"
	"github.com/milk9111/webswing/swing"
	"golang.org/x/image/colornames"
)

const (
	DefaultMoveSpeed   = 5.0
	DefaultWebKey      = "e"
	DefaultFixedStep   = 1.0 / 60
	DefaultMaxSubSteps = 3
	DefaultCityScale   = 0.5
)

type BroadphaseKind string

const (
	BroadphaseNaive     BroadphaseKind = "naive"
	BroadphaseFootprint BroadphaseKind = "footprint"
)

// PlayerConfig describes the player's body and its on-screen box.
type PlayerConfig struct {
	Mass        float64
	HalfExtents mgl64.Vec3
	Start       mgl64.Vec3
	MeshScale   float64
	Color       color.Color
}

// GroundConfig adds a static slab whose top face sits at TopY. It is not a
// building and can not be webbed to.
type GroundConfig struct {
	Enabled     bool
	TopY        float64
	HalfExtents mgl64.Vec3
	Color       color.Color
}

// CameraConfig is the chase camera.
type CameraConfig struct {
	FOV    float64
	Near   float64
	Far    float64
	Offset mgl64.Vec3
}

type Config struct {
	Width, Height int

	MoveSpeed   float64
	WebKey      string
	FixedStep   float64
	MaxSubSteps int
	Gravity     mgl64.Vec3
	Iterations  int
	Broadphase  BroadphaseKind
	CityScale   float64
	CityColor   color.Color
	Background  color.Color

	Player PlayerConfig
	Ground GroundConfig
	Camera CameraConfig
	Swing  swing.Config
}

func DefaultConfig() Config {
	return Config{
		Width:       common.BaseWidth,
		Height:      common.BaseHeight,
		MoveSpeed:   DefaultMoveSpeed,
		WebKey:      DefaultWebKey,
		FixedStep:   DefaultFixedStep,
		MaxSubSteps: DefaultMaxSubSteps,
		Gravity:     physics.DefaultGravity,
		Iterations:  physics.DefaultSolverIterations,
		Broadphase:  BroadphaseNaive,
		CityScale:   DefaultCityScale,
		CityColor:   colornames.Dimgray,
		Background:  scene.SkyBlue,
		Player: PlayerConfig{
			Mass:        1,
			HalfExtents: mgl64.Vec3{0.5, 1, 0.5},
			Start:       mgl64.Vec3{0, 10, 0},
			MeshScale:   0.5,
			Color:       colornames.Crimson,
		},
		Ground: GroundConfig{
			HalfExtents: mgl64.Vec3{100, 0.5, 100},
			Color:       colornames.Darkolivegreen,
		},
		Camera: CameraConfig{
			FOV:    75,
			Near:   0.1,
			Far:    1000,
			Offset: mgl64.Vec3{0, 5, 10},
		},
		Swing: swing.DefaultConfig(),
	}
}

func (c Config) aspect() float64 {
	if c.Width <= 0 || c.Height <= 0 {
		return 1
	}
	return float64(c.Width) / float64(c.Height)
}
