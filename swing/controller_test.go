package swing

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/webswing/ecs"
	"github.com/milk9111/webswing/physics"
	"github.com/milk9111/webswing/scene"
)

type fixture struct {
	world     *physics.World
	scene     *scene.Scene
	player    *physics.Body
	buildings []Building
	ctrl      *Controller
}

// newFixture places one building per distance along +X from a player at
// the origin.
func newFixture(t *testing.T, distances ...float64) *fixture {
	t.Helper()
	f := &fixture{world: physics.NewWorld(), scene: scene.New()}
	f.world.Gravity = mgl64.Vec3{}
	f.player = physics.NewBody(1, mgl64.Vec3{0.5, 1, 0.5})
	if err := f.world.AddBody(f.player); err != nil {
		t.Fatalf("add player: %v", err)
	}
	ents := ecs.NewWorld()
	for _, d := range distances {
		f.buildings = append(f.buildings, f.addBuilding(t, ents, mgl64.Vec3{d, 0, 0}))
	}
	f.ctrl = NewController(f.world, f.scene, DefaultConfig())
	return f
}

func (f *fixture) addBuilding(t *testing.T, ents *ecs.World, pos mgl64.Vec3) Building {
	t.Helper()
	half := mgl64.Vec3{0.1, 0.1, 0.1}
	body := physics.NewStaticBody(half)
	body.Position = pos
	if err := f.world.AddBody(body); err != nil {
		t.Fatalf("add building: %v", err)
	}
	mesh := scene.NewBoxMesh("building", half, nil)
	mesh.Position = pos
	return Building{ID: ents.CreateEntity(), Mesh: mesh, Body: body}
}

func (f *fixture) attach() bool {
	return f.ctrl.Attach(f.player, f.player.Position, f.buildings)
}

// checkInvariant asserts line and constraint exist exactly while attached.
func (f *fixture) checkInvariant(t *testing.T) {
	t.Helper()
	attached := f.ctrl.State().IsAttached()
	hasLine := f.ctrl.Line() != nil
	hasConstraint := f.ctrl.Constraint() != nil
	if attached != hasLine || attached != hasConstraint {
		t.Fatalf("attached=%v line=%v constraint=%v", attached, hasLine, hasConstraint)
	}
	if attached {
		if !f.scene.Contains(f.ctrl.Line()) {
			t.Fatal("line missing from scene")
		}
		if !f.world.HasConstraint(f.ctrl.Constraint()) {
			t.Fatal("constraint missing from world")
		}
	} else {
		if len(f.world.Constraints()) != 0 {
			t.Fatalf("expected no constraints, got %d", len(f.world.Constraints()))
		}
		if f.scene.Len() != 0 {
			t.Fatalf("expected empty scene, got %d nodes", f.scene.Len())
		}
	}
}

func TestNearestSelection(t *testing.T) {
	tests := []struct {
		name      string
		distances []float64
		wantIndex int
		wantOK    bool
	}{
		{name: "closest in range", distances: []float64{20, 10, 14.9999}, wantIndex: 1, wantOK: true},
		{name: "empty", wantOK: false},
		{name: "all out of range", distances: []float64{15, 30}, wantOK: false},
		{name: "exactly max length is excluded", distances: []float64{15}, wantOK: false},
		{name: "tie keeps earlier", distances: []float64{5, 5, 7}, wantIndex: 0, wantOK: true},
		{name: "later closer wins", distances: []float64{9, 3}, wantIndex: 1, wantOK: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, tc.distances...)
			got, dist, ok := Nearest(mgl64.Vec3{}, f.buildings, DefaultMaxLength)
			if ok != tc.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tc.wantOK)
			}
			if !ok {
				return
			}
			if got.ID != f.buildings[tc.wantIndex].ID {
				t.Fatalf("picked %s, want %s", got.ID, f.buildings[tc.wantIndex].ID)
			}
			if math.Abs(dist-tc.distances[tc.wantIndex]) > 1e-9 {
				t.Fatalf("distance = %v, want %v", dist, tc.distances[tc.wantIndex])
			}
		})
	}
}

func TestAttachPicksNearest(t *testing.T) {
	f := newFixture(t, 20, 10, 14.9999)
	if !f.attach() {
		t.Fatal("expected attach")
	}
	b, ok := f.ctrl.State().Building()
	if !ok || b.ID != f.buildings[1].ID {
		t.Fatalf("attached to %v, want building at distance 10", f.ctrl.State())
	}
	c := f.ctrl.Constraint()
	if c.A != f.player || c.B != f.buildings[1].Body {
		t.Fatal("constraint bodies do not match the player and building")
	}
	if math.Abs(c.Distance-10) > 1e-9 {
		t.Fatalf("rest length = %v, want 10", c.Distance)
	}
	if c.MaxForce != DefaultStiffness {
		t.Fatalf("max force = %v, want %v", c.MaxForce, DefaultStiffness)
	}
	if l := f.ctrl.Line(); l.Start != f.player.Position || l.End != f.buildings[1].Position() {
		t.Fatalf("line endpoints %v -> %v", l.Start, l.End)
	}
	f.checkInvariant(t)
}

func TestAttachNoCandidate(t *testing.T) {
	tests := []struct {
		name      string
		distances []float64
	}{
		{name: "empty city"},
		{name: "out of range", distances: []float64{16, 40}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, tc.distances...)
			if f.attach() {
				t.Fatal("attach should be a no-op")
			}
			if f.ctrl.State().IsAttached() {
				t.Fatal("expected detached")
			}
			f.checkInvariant(t)
		})
	}
}

func TestAttachWhileAttachedIsNoop(t *testing.T) {
	f := newFixture(t, 10, 4)
	if !f.attach() {
		t.Fatal("expected attach")
	}
	line, constraint := f.ctrl.Line(), f.ctrl.Constraint()
	f.player.Position = mgl64.Vec3{10, 0, 0}
	if f.attach() {
		t.Fatal("second attach should be a no-op")
	}
	if f.ctrl.Line() != line || f.ctrl.Constraint() != constraint {
		t.Fatal("second attach replaced the web")
	}
	if len(f.world.Constraints()) != 1 || f.scene.Len() != 1 {
		t.Fatalf("constraints=%d nodes=%d", len(f.world.Constraints()), f.scene.Len())
	}
	f.checkInvariant(t)
}

func TestDetachIdempotent(t *testing.T) {
	once := newFixture(t, 5)
	twice := newFixture(t, 5)
	for _, f := range []*fixture{once, twice} {
		if !f.attach() {
			t.Fatal("expected attach")
		}
	}
	once.ctrl.Detach()
	twice.ctrl.Detach()
	twice.ctrl.Detach()

	for _, f := range []*fixture{once, twice} {
		if f.ctrl.State().IsAttached() {
			t.Fatal("expected detached")
		}
		f.checkInvariant(t)
	}

	fresh := newFixture(t, 5)
	fresh.ctrl.Detach()
	fresh.checkInvariant(t)
}

func TestReattachAfterDetach(t *testing.T) {
	f := newFixture(t, 5, 8)
	for i := 0; i < 3; i++ {
		if !f.attach() {
			t.Fatalf("attach %d failed", i)
		}
		f.checkInvariant(t)
		f.ctrl.Detach()
		f.checkInvariant(t)
	}
}

func TestSyncMovesPlayerEndOnly(t *testing.T) {
	f := newFixture(t, 6)
	f.ctrl.Sync(mgl64.Vec3{1, 2, 3})
	if f.ctrl.Line() != nil {
		t.Fatal("sync while detached must not create a line")
	}
	if !f.attach() {
		t.Fatal("expected attach")
	}
	end := f.ctrl.Line().End
	p := mgl64.Vec3{1, 2, 3}
	f.ctrl.Sync(p)
	if f.ctrl.Line().Start != p {
		t.Fatalf("start = %v, want %v", f.ctrl.Line().Start, p)
	}
	if f.ctrl.Line().End != end {
		t.Fatal("building end moved")
	}
}

func TestBuildingWithoutBodySkipped(t *testing.T) {
	f := newFixture(t, 8)
	ghost := Building{Mesh: scene.NewBoxMesh("ghost", mgl64.Vec3{1, 1, 1}, nil)}
	ghost.Mesh.Position = mgl64.Vec3{1, 0, 0}
	f.buildings = append([]Building{ghost}, f.buildings...)
	if !f.attach() {
		t.Fatal("expected attach")
	}
	if b, _ := f.ctrl.State().Building(); b.Body == nil {
		t.Fatal("attached to a building without a body")
	}
	f.checkInvariant(t)
}

func TestAttachRejectedByWorld(t *testing.T) {
	f := newFixture(t, 5)
	stray := physics.NewBody(1, mgl64.Vec3{0.5, 0.5, 0.5})
	if f.ctrl.Attach(stray, mgl64.Vec3{}, f.buildings) {
		t.Fatal("attach with a body outside the world should fail")
	}
	f.checkInvariant(t)
	if f.ctrl.Attach(nil, mgl64.Vec3{}, f.buildings) {
		t.Fatal("attach without a player should fail")
	}
}

func TestWebHoldsPlayer(t *testing.T) {
	f := newFixture(t, 5)
	f.world.Gravity = physics.DefaultGravity
	if !f.attach() {
		t.Fatal("expected attach")
	}
	for i := 0; i < 240; i++ {
		f.world.Step(1.0/60, 1.0/60, 3)
		f.ctrl.Sync(f.player.Position)
	}
	// Unwebbed, four seconds of free fall would drop the player ~78 units.
	if d := f.player.Position.Sub(f.buildings[0].Position()).Len(); d > 12 {
		t.Fatalf("player drifted %v from the anchor while webbed", d)
	}
	if f.ctrl.Line().Start != f.player.Position {
		t.Fatal("line start not synced")
	}
}

func TestSetConfig(t *testing.T) {
	f := newFixture(t, 5)
	f.attach()
	f.ctrl.SetConfig(Config{MaxLength: 30, Stiffness: 50})
	if f.ctrl.Constraint().MaxForce != 50 {
		t.Fatalf("max force = %v", f.ctrl.Constraint().MaxForce)
	}
	if f.ctrl.Config().LineColor == nil {
		t.Fatal("line color should default")
	}
	f.ctrl.SetConfig(Config{})
	if got := f.ctrl.Config(); got.MaxLength != DefaultMaxLength || got.Stiffness != DefaultStiffness {
		t.Fatalf("defaults not applied: %+v", got)
	}
}

func TestStateString(t *testing.T) {
	if got := Detached().String(); got != "detached" {
		t.Fatalf("got %q", got)
	}
	if got := Attached(Building{Name: "Spire_N"}).String(); got != "attached(Spire_N)" {
		t.Fatalf("got %q", got)
	}
}
