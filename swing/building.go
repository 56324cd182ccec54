package swing

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/webswing/ecs"
	"github.com/milk9111/webswing/physics"
	"github.com/milk9111/webswing/scene"
)

// Building pairs a city mesh with its static body. The pairing is fixed
// when the city is spawned.
type Building struct {
	ID   ecs.Entity
	Name string
	Mesh *scene.Mesh
	Body *physics.Body
}

// Position is where web lines attach.
func (b Building) Position() mgl64.Vec3 {
	if b.Mesh != nil {
		return b.Mesh.Position
	}
	if b.Body != nil {
		return b.Body.Position
	}
	return mgl64.Vec3{}
}

// Nearest scans buildings in order and returns the closest one strictly
// inside maxLength. Ties keep the earlier building. Buildings without a
// body can not anchor a constraint and are skipped.
func Nearest(from mgl64.Vec3, buildings []Building, maxLength float64) (Building, float64, bool) {
	var (
		best  Building
		found bool
	)
	bestDist := math.Inf(1)
	for _, b := range buildings {
		if b.Body == nil {
			continue
		}
		d := b.Position().Sub(from).Len()
		if d < bestDist && d < maxLength {
			best, bestDist, found = b, d, true
		}
	}
	if !found {
		return Building{}, 0, false
	}
	return best, bestDist, true
}
