package prefabs

import (
	"path/filepath"

	"github.com/milk9111/webswing/assets"
	"github.com/milk9111/webswing/sim"
	"github.com/milk9111/webswing/swing"
)

// GameConfig is everything the prefab specs configure.
type GameConfig struct {
	Sim sim.Config
	// CityModel is an embedded asset name or a path on disk.
	CityModel string
}

// BuildConfig loads every spec and layers it over the simulation defaults.
func BuildConfig() (GameConfig, error) {
	out := GameConfig{Sim: sim.DefaultConfig(), CityModel: assets.DefaultCity}

	world, err := LoadWorldSpec()
	if err != nil {
		return out, err
	}
	player, err := LoadPlayerSpec()
	if err != nil {
		return out, err
	}
	web, err := LoadWebSpec()
	if err != nil {
		return out, err
	}
	camera, err := LoadCameraSpec()
	if err != nil {
		return out, err
	}

	ApplyWorldSpec(&out.Sim, world)
	ApplyPlayerSpec(&out.Sim, player)
	ApplyWebSpec(&out.Sim, web)
	ApplyCameraSpec(&out.Sim, camera)
	if world.City.Model != "" {
		out.CityModel = world.City.Model
	}
	return out, nil
}

func ApplyWorldSpec(cfg *sim.Config, spec *WorldSpec) {
	if spec == nil {
		return
	}
	cfg.Gravity = spec.Gravity.Vec(cfg.Gravity)
	if spec.SolverIterations > 0 {
		cfg.Iterations = spec.SolverIterations
	}
	if spec.Broadphase != "" {
		cfg.Broadphase = sim.BroadphaseKind(spec.Broadphase)
	}
	if spec.FixedStep > 0 {
		cfg.FixedStep = spec.FixedStep
	}
	if spec.MaxSubSteps > 0 {
		cfg.MaxSubSteps = spec.MaxSubSteps
	}
	cfg.Background = spec.Background.Or(cfg.Background)
	if spec.City.Scale > 0 {
		cfg.CityScale = spec.City.Scale
	}
	cfg.CityColor = spec.City.Color.Or(cfg.CityColor)
	cfg.Ground.Enabled = spec.Ground.Enabled
	cfg.Ground.TopY = spec.Ground.TopY
	cfg.Ground.HalfExtents = spec.Ground.HalfExtents.Vec(cfg.Ground.HalfExtents)
	cfg.Ground.Color = spec.Ground.Color.Or(cfg.Ground.Color)
}

func ApplyPlayerSpec(cfg *sim.Config, spec *PlayerSpec) {
	if spec == nil {
		return
	}
	if spec.Mass > 0 {
		cfg.Player.Mass = spec.Mass
	}
	if spec.MoveSpeed > 0 {
		cfg.MoveSpeed = spec.MoveSpeed
	}
	cfg.Player.HalfExtents = spec.HalfExtents.Vec(cfg.Player.HalfExtents)
	cfg.Player.Start = spec.Start.Vec(cfg.Player.Start)
	if spec.MeshScale > 0 {
		cfg.Player.MeshScale = spec.MeshScale
	}
	cfg.Player.Color = spec.Color.Or(cfg.Player.Color)
}

func ApplyWebSpec(cfg *sim.Config, spec *WebSpec) {
	if spec == nil {
		return
	}
	if spec.Key != "" {
		cfg.WebKey = spec.Key
	}
	cfg.Swing = WebTuning(spec, cfg.Swing)
}

// WebTuning converts a web spec into controller tuning on top of base.
func WebTuning(spec *WebSpec, base swing.Config) swing.Config {
	if spec == nil {
		return base
	}
	if spec.MaxLength > 0 {
		base.MaxLength = spec.MaxLength
	}
	if spec.Stiffness > 0 {
		base.Stiffness = spec.Stiffness
	}
	base.LineColor = spec.LineColor.Or(base.LineColor)
	return base
}

func ApplyCameraSpec(cfg *sim.Config, spec *CameraSpec) {
	if spec == nil {
		return
	}
	if spec.FOV > 0 {
		cfg.Camera.FOV = spec.FOV
	}
	if spec.Near > 0 {
		cfg.Camera.Near = spec.Near
	}
	if spec.Far > 0 {
		cfg.Camera.Far = spec.Far
	}
	cfg.Camera.Offset = spec.Offset.Vec(cfg.Camera.Offset)
}

// TuningFor reloads the spec behind a changed file and returns the live
// tuning it carries. Specs that only matter at startup report false.
func TuningFor(path string, current sim.Config) (sim.TuningChanged, bool, error) {
	switch filepath.Base(path) {
	case WebSpecFile:
		spec, err := LoadWebSpec()
		if err != nil {
			return sim.TuningChanged{}, false, err
		}
		sw := WebTuning(spec, current.Swing)
		return sim.TuningChanged{Swing: &sw}, true, nil
	case PlayerSpecFile:
		spec, err := LoadPlayerSpec()
		if err != nil {
			return sim.TuningChanged{}, false, err
		}
		if spec.MoveSpeed <= 0 {
			return sim.TuningChanged{}, false, nil
		}
		speed := spec.MoveSpeed
		return sim.TuningChanged{MoveSpeed: &speed}, true, nil
	case WorldSpecFile:
		spec, err := LoadWorldSpec()
		if err != nil {
			return sim.TuningChanged{}, false, err
		}
		g := spec.Gravity.Vec(current.Gravity)
		return sim.TuningChanged{Gravity: &g}, true, nil
	}
	return sim.TuningChanged{}, false, nil
}
