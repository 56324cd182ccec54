// Package render draws a scene onto an ebiten image. It is the only part of
// the scene stack that needs a graphics context.
package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/webswing/scene"
)

// Renderer draws a scene as projected wireframes.
type Renderer struct {
	Width     int
	Height    int
	LineWidth float32
	AntiAlias bool
}

func NewRenderer(width, height int) *Renderer {
	return &Renderer{Width: width, Height: height, LineWidth: 1, AntiAlias: true}
}

// SetSize follows a viewport resize.
func (r *Renderer) SetSize(width, height int) {
	if width > 0 && height > 0 {
		r.Width = width
		r.Height = height
	}
}

func (r *Renderer) Render(screen *ebiten.Image, s *scene.Scene, c *scene.Camera) {
	if r == nil || screen == nil || s == nil || c == nil {
		return
	}
	if s.Background != nil {
		screen.Fill(s.Background)
	}
	w, h := float64(r.Width), float64(r.Height)
	for _, seg := range s.Segments() {
		x0, y0, x1, y1, ok := c.ProjectSegment(seg.A, seg.B, w, h)
		if !ok {
			continue
		}
		width := seg.Width
		if width <= 0 {
			width = r.LineWidth
		}
		clr := seg.Color
		if clr == nil {
			clr = color.White
		}
		vector.StrokeLine(screen, float32(x0), float32(y0), float32(x1), float32(y1), width, clr, r.AntiAlias)
	}
}
