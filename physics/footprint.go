package physics

import "github.com/jakecoffman/cp"

// FootprintBroadphase indexes static bodies by their X/Z footprint in a
// Chipmunk space and queries it with each dynamic body's footprint. Static
// bodies are indexed the first time they are seen and are assumed not to
// move afterwards; call Reindex after moving one.
type FootprintBroadphase struct {
	space  *cp.Space
	shapes map[*Body]*cp.Shape
}

func NewFootprintBroadphase() *FootprintBroadphase {
	return &FootprintBroadphase{
		space:  cp.NewSpace(),
		shapes: make(map[*Body]*cp.Shape),
	}
}

// Indexed returns the number of static bodies currently in the index.
func (f *FootprintBroadphase) Indexed() int {
	return len(f.shapes)
}

// Reindex drops b from the index so it is re-inserted at its current
// position on the next query.
func (f *FootprintBroadphase) Reindex(b *Body) {
	if shape, ok := f.shapes[b]; ok {
		f.space.RemoveShape(shape)
		delete(f.shapes, b)
	}
}

func (f *FootprintBroadphase) CollisionPairs(bodies []*Body) []Pair {
	dynamics := f.sync(bodies)

	var pairs []Pair
	for i, a := range dynamics {
		aabb := a.AABB()
		for _, b := range dynamics[i+1:] {
			if aabb.Overlaps(b.AABB()) {
				pairs = append(pairs, Pair{A: a, B: b})
			}
		}
		f.space.BBQuery(footprint(a), cp.SHAPE_FILTER_ALL, func(shape *cp.Shape, data interface{}) {
			other, ok := shape.UserData.(*Body)
			if !ok || other == a {
				return
			}
			if aabb.Overlaps(other.AABB()) {
				pairs = append(pairs, Pair{A: other, B: a})
			}
		}, nil)
	}
	return pairs
}

// sync brings the static index in line with bodies and returns the dynamic
// ones.
func (f *FootprintBroadphase) sync(bodies []*Body) []*Body {
	var dynamics []*Body
	seen := make(map[*Body]struct{}, len(f.shapes))
	for _, b := range bodies {
		if !b.Static() {
			dynamics = append(dynamics, b)
			continue
		}
		seen[b] = struct{}{}
		if _, ok := f.shapes[b]; ok {
			continue
		}
		shape := cp.NewBox2(f.space.StaticBody, footprint(b), 0)
		shape.UserData = b
		f.space.AddShape(shape)
		f.shapes[b] = shape
	}
	for b, shape := range f.shapes {
		if _, ok := seen[b]; !ok {
			f.space.RemoveShape(shape)
			delete(f.shapes, b)
		}
	}
	return dynamics
}

func footprint(b *Body) cp.BB {
	box := b.AABB()
	return cp.BB{L: box.Min.X(), B: box.Min.Z(), R: box.Max.X(), T: box.Max.Z()}
}
