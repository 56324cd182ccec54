package physics

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	ErrNilBody             = errors.New("physics: nil body")
	ErrBodyInWorld         = errors.New("physics: body already belongs to a world")
	ErrNilConstraint       = errors.New("physics: nil constraint")
	ErrConstraintBodies    = errors.New("physics: constraint bodies are not in this world")
	ErrConstraintDuplicate = errors.New("physics: constraint already added")
)

const (
	DefaultSolverIterations = 10
	// DefaultMaxSubSteps applies when Step is given a non-positive cap.
	DefaultMaxSubSteps = 10
)

// DefaultGravity is earth gravity along -Y.
var DefaultGravity = mgl64.Vec3{0, -9.82, 0}

// World integrates bodies, resolves box contacts and solves distance
// constraints with a sequential-impulse solver.
type World struct {
	Gravity          mgl64.Vec3
	Broadphase       Broadphase
	SolverIterations int

	bodies      []*Body
	constraints []*DistanceConstraint
	contacts    []contact
	nextID      BodyID

	accumulator float64
	time        float64
	steps       uint64
}

// NewWorld creates a world with default gravity, a naive broadphase and
// ten solver iterations.
func NewWorld() *World {
	return &World{
		Gravity:          DefaultGravity,
		Broadphase:       NaiveBroadphase{},
		SolverIterations: DefaultSolverIterations,
	}
}

// AddBody registers b and assigns it an id.
func (w *World) AddBody(b *Body) error {
	if b == nil {
		return ErrNilBody
	}
	if b.world != nil {
		return ErrBodyInWorld
	}
	w.nextID++
	b.ID = w.nextID
	b.world = w
	w.bodies = append(w.bodies, b)
	return nil
}

// RemoveBody unregisters b along with any constraint referencing it.
func (w *World) RemoveBody(b *Body) bool {
	if b == nil || b.world != w {
		return false
	}
	for i, other := range w.bodies {
		if other != b {
			continue
		}
		w.bodies = append(w.bodies[:i], w.bodies[i+1:]...)
		b.world = nil
		kept := w.constraints[:0]
		for _, c := range w.constraints {
			if c.A != b && c.B != b {
				kept = append(kept, c)
			}
		}
		w.constraints = kept
		return true
	}
	return false
}

func (w *World) Bodies() []*Body {
	return w.bodies
}

// AddConstraint registers c. Both of its bodies must already be in w.
func (w *World) AddConstraint(c *DistanceConstraint) error {
	if !c.valid() {
		return ErrNilConstraint
	}
	if c.A.world != w || c.B.world != w {
		return ErrConstraintBodies
	}
	if w.HasConstraint(c) {
		return ErrConstraintDuplicate
	}
	c.impulse = 0
	w.constraints = append(w.constraints, c)
	return nil
}

// RemoveConstraint unregisters c, reporting whether it was present.
func (w *World) RemoveConstraint(c *DistanceConstraint) bool {
	for i, other := range w.constraints {
		if other == c {
			w.constraints = append(w.constraints[:i], w.constraints[i+1:]...)
			return true
		}
	}
	return false
}

func (w *World) HasConstraint(c *DistanceConstraint) bool {
	for _, other := range w.constraints {
		if other == c {
			return true
		}
	}
	return false
}

func (w *World) Constraints() []*DistanceConstraint {
	return w.constraints
}

// Time returns the accumulated simulated wall time.
func (w *World) Time() float64 {
	return w.time
}

// StepCount returns the number of fixed internal steps taken so far.
func (w *World) StepCount() uint64 {
	return w.steps
}

// Step advances the world by whole fixed steps of size dt covering
// timeSinceLastCalled, taking at most maxSubSteps of them. Time that does
// not fill a step carries over to the next call. It returns the number of
// internal steps taken.
func (w *World) Step(dt, timeSinceLastCalled float64, maxSubSteps int) int {
	if dt <= 0 {
		return 0
	}
	if maxSubSteps <= 0 {
		maxSubSteps = DefaultMaxSubSteps
	}
	if timeSinceLastCalled > 0 {
		w.accumulator += timeSinceLastCalled
		w.time += timeSinceLastCalled
	}

	n := 0
	for w.accumulator >= dt && n < maxSubSteps {
		w.internalStep(dt)
		w.accumulator -= dt
		n++
	}
	w.accumulator = math.Mod(w.accumulator, dt)
	return n
}

// StepFixed takes exactly one internal step of dt.
func (w *World) StepFixed(dt float64) {
	if dt <= 0 {
		return
	}
	w.internalStep(dt)
	w.time += dt
}

func (w *World) internalStep(dt float64) {
	gravity := w.Gravity.Mul(dt)
	for _, b := range w.bodies {
		if b.Static() {
			continue
		}
		b.Velocity = b.Velocity.Add(gravity)
	}

	bp := w.Broadphase
	if bp == nil {
		bp = NaiveBroadphase{}
	}
	w.contacts = w.contacts[:0]
	for _, p := range bp.CollisionPairs(w.bodies) {
		if c, ok := collide(p.A, p.B); ok {
			w.contacts = append(w.contacts, c)
		}
	}
	for _, c := range w.constraints {
		c.impulse = 0
	}

	iterations := w.SolverIterations
	if iterations <= 0 {
		iterations = 1
	}
	for i := 0; i < iterations; i++ {
		for ci := range w.contacts {
			w.contacts[ci].solve(dt)
		}
		for _, c := range w.constraints {
			c.solve(dt)
		}
	}

	for _, b := range w.bodies {
		if b.Static() {
			continue
		}
		if b.LinearDamping > 0 {
			b.Velocity = b.Velocity.Mul(math.Pow(1-b.LinearDamping, dt))
		}
		b.Position = b.Position.Add(b.Velocity.Mul(dt))
	}
	w.steps++
}
