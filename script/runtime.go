package script

import (
	"fmt"
	"log"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/webswing/input"
	"github.com/milk9111/webswing/prefabs"
	"github.com/milk9111/webswing/sim"
	"github.com/milk9111/webswing/swing"
)

const updateDispatchScript = `
if __run {
	update(__engine, __state)
}
`

// Autopilot drives the player from a tengo script. The script defines
// update(engine, state); it is called once per frame before the frame runs.
// Key presses made through the engine reach the simulation mailbox once
// update returns.
type Autopilot struct {
	name     string
	compiled *tengo.Compiled
	state    *tengo.Map
	frame    int64
}

// Load compiles a script from prefabs/scripts.
func Load(name string) (*Autopilot, error) {
	src, err := prefabs.LoadScript(name)
	if err != nil {
		return nil, fmt.Errorf("script: load %s: %w", name, err)
	}
	return Compile(name, src)
}

// Compile builds an autopilot from source.
func Compile(name string, src []byte) (*Autopilot, error) {
	full := string(src) + "\n" + updateDispatchScript
	s := tengo.NewScript([]byte(full))
	_ = s.Add("__run", false)
	_ = s.Add("__engine", map[string]any{})
	_ = s.Add("__state", map[string]any{})
	s.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := s.Compile()
	if err != nil {
		return nil, fmt.Errorf("script: compile %s: %w", name, err)
	}
	a := &Autopilot{
		name:     name,
		compiled: compiled,
		state:    &tengo.Map{Value: map[string]tengo.Object{}},
	}
	// Run once with dispatch disabled so top-level globals are defined.
	if err := a.run(false, &tengo.ImmutableMap{Value: map[string]tengo.Object{}}); err != nil {
		return nil, fmt.Errorf("script: init %s: %w", name, err)
	}
	if !compiled.IsDefined("update") {
		return nil, fmt.Errorf("script: %s does not define update", name)
	}
	return a, nil
}

func (a *Autopilot) Name() string {
	if a == nil {
		return ""
	}
	return a.name
}

// Frames is the number of updates run so far.
func (a *Autopilot) Frames() int64 {
	if a == nil {
		return 0
	}
	return a.frame
}

// Update runs the script's update for the coming frame. The key edges the
// script made are posted to c and also returned, in order, so callers can
// record them.
func (a *Autopilot) Update(c *sim.Context) ([]input.KeyEvent, error) {
	if a == nil || c == nil {
		return nil, nil
	}
	a.frame++
	var keys []input.KeyEvent
	if err := a.run(true, buildEngine(c, a.frame, &keys)); err != nil {
		return nil, fmt.Errorf("script: %s frame %d: %w", a.name, a.frame, err)
	}
	c.PostKeys(keys)
	return keys, nil
}

func (a *Autopilot) run(dispatch bool, engine *tengo.ImmutableMap) error {
	if err := a.compiled.Set("__run", dispatch); err != nil {
		return err
	}
	if err := a.compiled.Set("__engine", engine); err != nil {
		return err
	}
	if err := a.compiled.Set("__state", a.state); err != nil {
		return err
	}
	return a.compiled.Run()
}

func buildEngine(c *sim.Context, frame int64, keys *[]input.KeyEvent) *tengo.ImmutableMap {
	values := map[string]tengo.Object{}

	key := func(pressed bool) tengo.CallableFunc {
		return func(args ...tengo.Object) (tengo.Object, error) {
			if len(args) < 1 {
				return tengo.FalseValue, nil
			}
			name := strings.TrimSpace(objectAsString(args[0]))
			if name == "" {
				return tengo.FalseValue, nil
			}
			*keys = append(*keys, input.KeyEvent{Key: name, Pressed: pressed})
			return tengo.TrueValue, nil
		}
	}
	values["press"] = &tengo.UserFunction{Name: "press", Value: key(true)}
	values["release"] = &tengo.UserFunction{Name: "release", Value: key(false)}

	values["frame"] = &tengo.UserFunction{Name: "frame", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Int{Value: frame}, nil
	}}

	values["pressed"] = &tengo.UserFunction{Name: "pressed", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.FalseValue, nil
		}
		return boolObject(c.Tracker().IsPressed(objectAsString(args[0]))), nil
	}}

	values["player_position"] = &tengo.UserFunction{Name: "player_position", Value: func(args ...tengo.Object) (tengo.Object, error) {
		p := c.PlayerPosition()
		return vecObject(p[0], p[1], p[2]), nil
	}}

	values["player_velocity"] = &tengo.UserFunction{Name: "player_velocity", Value: func(args ...tengo.Object) (tengo.Object, error) {
		_, body := c.Player()
		if body == nil {
			return vecObject(0, 0, 0), nil
		}
		return vecObject(body.Velocity[0], body.Velocity[1], body.Velocity[2]), nil
	}}

	values["attached"] = &tengo.UserFunction{Name: "attached", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return boolObject(c.Swing().State().IsAttached()), nil
	}}

	values["nearest_building"] = &tengo.UserFunction{Name: "nearest_building", Value: func(args ...tengo.Object) (tengo.Object, error) {
		b, dist, ok := swing.Nearest(c.PlayerPosition(), c.Buildings(), c.Swing().Config().MaxLength)
		if !ok {
			return tengo.UndefinedValue, nil
		}
		p := b.Position()
		return &tengo.ImmutableMap{Value: map[string]tengo.Object{
			"name":     &tengo.String{Value: b.Name},
			"distance": &tengo.Float{Value: dist},
			"position": vecObject(p[0], p[1], p[2]),
		}}, nil
	}}

	values["log"] = &tengo.UserFunction{Name: "log", Value: func(args ...tengo.Object) (tengo.Object, error) {
		parts := make([]string, 0, len(args))
		for _, arg := range args {
			parts = append(parts, objectAsString(arg))
		}
		log.Printf("script: %s", strings.Join(parts, " "))
		return tengo.UndefinedValue, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}

func vecObject(x, y, z float64) *tengo.Array {
	return &tengo.Array{Value: []tengo.Object{
		&tengo.Float{Value: x},
		&tengo.Float{Value: y},
		&tengo.Float{Value: z},
	}}
}

func boolObject(v bool) tengo.Object {
	if v {
		return tengo.TrueValue
	}
	return tengo.FalseValue
}

func objectAsString(obj tengo.Object) string {
	if obj == nil {
		return ""
	}
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	default:
		return strings.Trim(v.String(), "\"")
	}
}
