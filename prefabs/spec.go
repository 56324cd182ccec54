package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

// LoadSpec reads, validates and decodes a prefab spec.
func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}
	return DecodeSpec[T](filename, data)
}

// DecodeSpec validates and decodes spec data that was read elsewhere.
func DecodeSpec[T any](filename string, data []byte) (T, error) {
	var zero T
	if err := Validate(filename, data); err != nil {
		return zero, err
	}
	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}
	return spec, nil
}

const (
	WorldSpecFile  = "world.yaml"
	PlayerSpecFile = "player.yaml"
	WebSpecFile    = "web.yaml"
	CameraSpecFile = "camera.yaml"
)

type WorldSpec struct {
	Name             string     `yaml:"name"`
	Gravity          Vec3Spec   `yaml:"gravity"`
	SolverIterations int        `yaml:"solver_iterations"`
	Broadphase       string     `yaml:"broadphase"`
	FixedStep        float64    `yaml:"fixed_step"`
	MaxSubSteps      int        `yaml:"max_sub_steps"`
	Background       *YAMLColor `yaml:"background"`
	City             CitySpec   `yaml:"city"`
	Ground           GroundSpec `yaml:"ground"`
}

type CitySpec struct {
	Model string     `yaml:"model"`
	Scale float64    `yaml:"scale"`
	Color *YAMLColor `yaml:"color"`
}

type GroundSpec struct {
	Enabled     bool       `yaml:"enabled"`
	TopY        float64    `yaml:"top_y"`
	HalfExtents Vec3Spec   `yaml:"half_extents"`
	Color       *YAMLColor `yaml:"color"`
}

func LoadWorldSpec() (*WorldSpec, error) {
	spec, err := LoadSpec[WorldSpec](WorldSpecFile)
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

type PlayerSpec struct {
	Name        string     `yaml:"name"`
	Mass        float64    `yaml:"mass"`
	MoveSpeed   float64    `yaml:"move_speed"`
	HalfExtents Vec3Spec   `yaml:"half_extents"`
	Start       Vec3Spec   `yaml:"start"`
	MeshScale   float64    `yaml:"mesh_scale"`
	Color       *YAMLColor `yaml:"color"`
}

func LoadPlayerSpec() (*PlayerSpec, error) {
	spec, err := LoadSpec[PlayerSpec](PlayerSpecFile)
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

type WebSpec struct {
	Name      string     `yaml:"name"`
	Key       string     `yaml:"key"`
	MaxLength float64    `yaml:"max_length"`
	Stiffness float64    `yaml:"stiffness"`
	LineColor *YAMLColor `yaml:"line_color"`
}

func LoadWebSpec() (*WebSpec, error) {
	spec, err := LoadSpec[WebSpec](WebSpecFile)
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

type CameraSpec struct {
	Name   string   `yaml:"name"`
	FOV    float64  `yaml:"fov"`
	Near   float64  `yaml:"near"`
	Far    float64  `yaml:"far"`
	Offset Vec3Spec `yaml:"offset"`
}

func LoadCameraSpec() (*CameraSpec, error) {
	spec, err := LoadSpec[CameraSpec](CameraSpecFile)
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

// Vec3Spec is a three element YAML sequence.
type Vec3Spec []float64

// Vec returns the vector, or fallback when the sequence is not three long.
func (v Vec3Spec) Vec(fallback mgl64.Vec3) mgl64.Vec3 {
	if len(v) != 3 {
		return fallback
	}
	return mgl64.Vec3{v[0], v[1], v[2]}
}

type YAMLColor struct {
	color.Color
}

// Or returns the parsed color, or fallback when the field was absent.
func (c *YAMLColor) Or(fallback color.Color) color.Color {
	if c == nil || c.Color == nil {
		return fallback
	}
	return c.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}
