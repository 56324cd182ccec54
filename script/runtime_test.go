package script

import (
	"reflect"
	"testing"

	"github.com/d5/tengo/v2"
	"github.com/milk9111/webswing/assets"
	"github.com/milk9111/webswing/input"
	"github.com/milk9111/webswing/sim"
)

func newSim(t *testing.T, withCity bool) *sim.Context {
	t.Helper()
	c, err := sim.New(sim.DefaultConfig())
	if err != nil {
		t.Fatalf("new sim: %v", err)
	}
	if withCity {
		model, err := assets.LoadEmbedded(assets.DefaultCity, assets.WithScale(sim.DefaultCityScale))
		if err != nil {
			t.Fatalf("load city: %v", err)
		}
		c.Post(sim.ModelLoaded{Source: assets.DefaultCity, Model: model})
	}
	return c
}

func tick(t *testing.T, a *Autopilot, c *sim.Context, i int) {
	t.Helper()
	if _, err := a.Update(c); err != nil {
		t.Fatalf("update %d: %v", i, err)
	}
	c.Frame(float64(i) * 1000 / 60)
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{name: "syntax", src: "update := func(engine, state) {"},
		{name: "missing update", src: "x := 1"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Compile(tc.name, []byte(tc.src)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestUpdateReturnsKeys(t *testing.T) {
	src := `
update := func(engine, state) {
	engine.press("w")
	engine.release("a")
	engine.press("")
}`
	a, err := Compile("inline", []byte(src))
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	c := newSim(t, false)
	keys, err := a.Update(c)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	want := []input.KeyEvent{{Key: "w", Pressed: true}, {Key: "a", Pressed: false}}
	if !reflect.DeepEqual(keys, want) {
		t.Fatalf("keys = %v, want %v", keys, want)
	}
	if c.Pending() != 2 {
		t.Fatalf("pending = %d", c.Pending())
	}
}

func TestRuntimeError(t *testing.T) {
	a, err := Compile("inline", []byte(`update := func(engine, state) { state.n = state.missing + 1 }`))
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if _, err := a.Update(newSim(t, false)); err == nil {
		t.Fatal("expected runtime error")
	}
}

func TestPressAndRelease(t *testing.T) {
	src := `
update := func(engine, state) {
	if engine.frame() == 1 {
		engine.press("d")
	}
	if engine.frame() == 3 {
		engine.release("d")
	}
}`
	a, err := Compile("inline", []byte(src))
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	c := newSim(t, false)

	tick(t, a, c, 0)
	if !c.Tracker().IsPressed("d") {
		t.Fatal("press not applied on the frame")
	}
	tick(t, a, c, 1)
	tick(t, a, c, 2)
	if c.Tracker().IsPressed("d") {
		t.Fatal("release not applied")
	}
	_, body := c.Player()
	if body.Velocity.X() <= 0 {
		t.Fatalf("holding d should push +X, velocity %v", body.Velocity)
	}
	if a.Frames() != 3 {
		t.Fatalf("frames = %d", a.Frames())
	}
}

func TestStatePersists(t *testing.T) {
	src := `
update := func(engine, state) {
	if is_undefined(state.count) {
		state.count = 0
	}
	state.count = state.count + 1
	p := engine.player_position()
	state.y = p[1]
}`
	a, err := Compile("inline", []byte(src))
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	c := newSim(t, false)
	for i := 0; i < 5; i++ {
		tick(t, a, c, i)
	}
	count, ok := a.state.Value["count"].(*tengo.Int)
	if !ok || count.Value != 5 {
		t.Fatalf("count = %v", a.state.Value["count"])
	}
	// Three physics frames in, the player has only just started to fall.
	if y, ok := a.state.Value["y"].(*tengo.Float); !ok || y.Value >= 10 || y.Value < 9 {
		t.Fatalf("y = %v", a.state.Value["y"])
	}
}

func TestNearestBuildingUndefinedWithoutCity(t *testing.T) {
	src := `
update := func(engine, state) {
	state.none = is_undefined(engine.nearest_building())
	state.attached = engine.attached()
}`
	a, err := Compile("inline", []byte(src))
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	c := newSim(t, false)
	tick(t, a, c, 0)
	if a.state.Value["none"] != tengo.TrueValue || a.state.Value["attached"] != tengo.FalseValue {
		t.Fatalf("state = %v", a.state.Value)
	}
}

func TestAutopilotSwings(t *testing.T) {
	a, err := Load("autopilot.tengo")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	c := newSim(t, true)

	var attachedFrames, releases int
	wasAttached := false
	for i := 0; i < 300; i++ {
		tick(t, a, c, i)
		attached := c.Swing().State().IsAttached()
		if attached {
			attachedFrames++
		}
		if wasAttached && !attached {
			releases++
		}
		wasAttached = attached
	}
	if attachedFrames == 0 {
		t.Fatal("autopilot never webbed a building")
	}
	if releases == 0 {
		t.Fatal("autopilot never let go")
	}
}

func TestIdleScript(t *testing.T) {
	a, err := Load("scripts/idle.tengo")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	c := newSim(t, true)
	for i := 0; i < 10; i++ {
		tick(t, a, c, i)
	}
	if c.Pending() != 0 || len(c.Tracker().Pressed()) != 0 {
		t.Fatal("idle script pressed something")
	}
}
