package scene

import "image/color"

// SkyBlue is the default clear color.
var SkyBlue = color.RGBA{R: 0x87, G: 0xce, B: 0xeb, A: 0xff}

// Node is anything the renderer knows how to draw: *Mesh or *Line.
type Node interface {
	node()
}

// Scene is a flat, ordered container of drawable nodes.
type Scene struct {
	Background color.Color
	nodes      []Node
}

func New() *Scene {
	return &Scene{Background: SkyBlue}
}

// Add appends n. Adding a node twice is a no-op.
func (s *Scene) Add(n Node) {
	if n == nil || s.Contains(n) {
		return
	}
	s.nodes = append(s.nodes, n)
}

// Remove drops n, reporting whether it was present.
func (s *Scene) Remove(n Node) bool {
	for i, other := range s.nodes {
		if other == n {
			s.nodes = append(s.nodes[:i], s.nodes[i+1:]...)
			return true
		}
	}
	return false
}

func (s *Scene) Contains(n Node) bool {
	for _, other := range s.nodes {
		if other == n {
			return true
		}
	}
	return false
}

func (s *Scene) Nodes() []Node {
	return s.nodes
}

func (s *Scene) Len() int {
	return len(s.nodes)
}
