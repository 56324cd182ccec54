package physics

// Pair is a candidate collision pair. At least one body is dynamic.
type Pair struct {
	A *Body
	B *Body
}

// Broadphase filters the bodies down to pairs worth a narrowphase test.
type Broadphase interface {
	CollisionPairs(bodies []*Body) []Pair
}

// NaiveBroadphase tests every pair of bodies against each other.
type NaiveBroadphase struct{}

func (NaiveBroadphase) CollisionPairs(bodies []*Body) []Pair {
	var pairs []Pair
	for i, a := range bodies {
		for _, b := range bodies[i+1:] {
			if a.Static() && b.Static() {
				continue
			}
			if a.AABB().Overlaps(b.AABB()) {
				pairs = append(pairs, Pair{A: a, B: b})
			}
		}
	}
	return pairs
}
