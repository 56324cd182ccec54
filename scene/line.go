package scene

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
)

// Line is a single world-space segment.
type Line struct {
	Start mgl64.Vec3
	End   mgl64.Vec3
	Color color.Color
	Width float32
}

func (*Line) node() {}

func NewLine(start, end mgl64.Vec3, c color.Color) *Line {
	return &Line{Start: start, End: end, Color: c, Width: 2}
}

func (l *Line) SetStart(p mgl64.Vec3) {
	l.Start = p
}

func (l *Line) SetEnd(p mgl64.Vec3) {
	l.End = p
}
