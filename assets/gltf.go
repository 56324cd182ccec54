package assets

import (
	"io"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

var ErrNoScene = errors.New("assets: document has no scene")

// Option adjusts how a document is turned into a Model.
type Option func(*options)

type options struct {
	scale float64
}

// WithScale applies a uniform scale to every root node of the scene.
func WithScale(s float64) Option {
	return func(o *options) {
		if s > 0 {
			o.scale = s
		}
	}
}

// Model is the node hierarchy of a glTF scene with world transforms resolved.
type Model struct {
	Name  string
	Roots []*Node
}

// Node is one glTF node. Only translation, rotation and scale are honored;
// a node's matrix property is ignored.
type Node struct {
	Name     string
	Index    int
	Parent   *Node
	Children []*Node
	// Local and World are the node's own transform and the transform
	// composed with every ancestor.
	Local mgl64.Mat4
	World mgl64.Mat4

	mesh      bool
	min, max  mgl64.Vec3
	hasBounds bool
}

// IsMesh reports whether the node references a mesh.
func (n *Node) IsMesh() bool {
	return n != nil && n.mesh
}

// Bounds returns the geometry bounding box in the node's local space.
func (n *Node) Bounds() (mgl64.Vec3, mgl64.Vec3, bool) {
	if n == nil || !n.hasBounds {
		return mgl64.Vec3{}, mgl64.Vec3{}, false
	}
	return n.min, n.max, true
}

// WorldPosition is the origin of the node in world space.
func (n *Node) WorldPosition() mgl64.Vec3 {
	return n.World.Col(3).Vec3()
}

// WorldScale is the length of each world basis axis.
func (n *Node) WorldScale() mgl64.Vec3 {
	return mgl64.Vec3{
		n.World.Col(0).Vec3().Len(),
		n.World.Col(1).Vec3().Len(),
		n.World.Col(2).Vec3().Len(),
	}
}

// WorldBounds transforms the local bounds by the world matrix and returns
// the enclosing axis-aligned box.
func (n *Node) WorldBounds() (mgl64.Vec3, mgl64.Vec3, bool) {
	lo, hi, ok := n.Bounds()
	if !ok {
		return mgl64.Vec3{}, mgl64.Vec3{}, false
	}
	min := mgl64.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	max := mgl64.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for i := 0; i < 8; i++ {
		c := lo
		for axis := 0; axis < 3; axis++ {
			if i&(1<<axis) != 0 {
				c[axis] = hi[axis]
			}
		}
		p := mgl64.TransformCoordinate(c, n.World)
		for axis := 0; axis < 3; axis++ {
			min[axis] = math.Min(min[axis], p[axis])
			max[axis] = math.Max(max[axis], p[axis])
		}
	}
	return min, max, true
}

// Walk visits every node depth-first, parents before children.
func (m *Model) Walk(fn func(*Node)) {
	if m == nil || fn == nil {
		return
	}
	var visit func(*Node)
	visit = func(n *Node) {
		fn(n)
		for _, child := range n.Children {
			visit(child)
		}
	}
	for _, root := range m.Roots {
		visit(root)
	}
}

// Meshes returns every mesh node in traversal order.
func (m *Model) Meshes() []*Node {
	var out []*Node
	m.Walk(func(n *Node) {
		if n.IsMesh() {
			out = append(out, n)
		}
	})
	return out
}

// LoadGLTF opens a .gltf or .glb file from disk.
func LoadGLTF(path string, opts ...Option) (*Model, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "assets: open %s", path)
	}
	return newModel(doc, opts...)
}

// DecodeGLTF reads a self-contained document; buffers must be embedded.
func DecodeGLTF(r io.Reader, opts ...Option) (*Model, error) {
	doc := new(gltf.Document)
	if err := gltf.NewDecoder(r).Decode(doc); err != nil {
		return nil, errors.Wrap(err, "assets: decode gltf")
	}
	return newModel(doc, opts...)
}

func newModel(doc *gltf.Document, opts ...Option) (*Model, error) {
	o := options{scale: 1}
	for _, opt := range opts {
		opt(&o)
	}
	if len(doc.Scenes) == 0 {
		return nil, ErrNoScene
	}
	sceneIndex := 0
	if doc.Scene != nil {
		sceneIndex = int(*doc.Scene)
	}
	if sceneIndex < 0 || sceneIndex >= len(doc.Scenes) {
		return nil, errors.Wrapf(ErrNoScene, "assets: scene index %d", sceneIndex)
	}
	scene := doc.Scenes[sceneIndex]

	bounds := make(map[int][2]mgl64.Vec3, len(doc.Meshes))
	for i := range doc.Meshes {
		lo, hi, ok, err := meshBounds(doc, doc.Meshes[i])
		if err != nil {
			return nil, errors.Wrapf(err, "assets: mesh %d", i)
		}
		if ok {
			bounds[i] = [2]mgl64.Vec3{lo, hi}
		}
	}

	model := &Model{Name: scene.Name}
	root := mgl64.Scale3D(o.scale, o.scale, o.scale)
	for _, idx := range scene.Nodes {
		n, err := buildNode(doc, int(idx), nil, root, bounds, 0)
		if err != nil {
			return nil, err
		}
		model.Roots = append(model.Roots, n)
	}
	return model, nil
}

// maxDepth guards against cyclic node references in malformed files.
const maxDepth = 64

func buildNode(doc *gltf.Document, index int, parent *Node, parentWorld mgl64.Mat4, bounds map[int][2]mgl64.Vec3, depth int) (*Node, error) {
	if index < 0 || index >= len(doc.Nodes) {
		return nil, errors.Errorf("assets: node index %d out of range", index)
	}
	if depth > maxDepth {
		return nil, errors.Errorf("assets: node %d nested deeper than %d", index, maxDepth)
	}
	src := doc.Nodes[index]
	n := &Node{
		Name:   src.Name,
		Index:  index,
		Parent: parent,
		Local:  localTransform(src),
	}
	n.World = parentWorld.Mul4(n.Local)
	if src.Mesh != nil {
		n.mesh = true
		if b, ok := bounds[int(*src.Mesh)]; ok {
			n.min, n.max, n.hasBounds = b[0], b[1], true
		}
	}
	for _, child := range src.Children {
		c, err := buildNode(doc, int(child), n, n.World, bounds, depth+1)
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, c)
	}
	return n, nil
}

func localTransform(node *gltf.Node) mgl64.Mat4 {
	t := node.TranslationOrDefault()
	r := node.RotationOrDefault()
	s := node.ScaleOrDefault()
	q := mgl64.Quat{
		W: float64(r[3]),
		V: mgl64.Vec3{float64(r[0]), float64(r[1]), float64(r[2])},
	}.Normalize()
	return mgl64.Translate3D(float64(t[0]), float64(t[1]), float64(t[2])).
		Mul4(q.Mat4()).
		Mul4(mgl64.Scale3D(float64(s[0]), float64(s[1]), float64(s[2])))
}

func meshBounds(doc *gltf.Document, mesh *gltf.Mesh) (mgl64.Vec3, mgl64.Vec3, bool, error) {
	min := mgl64.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	max := mgl64.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	found := false
	for _, prim := range mesh.Primitives {
		idx, ok := prim.Attributes["POSITION"]
		if !ok || int(idx) >= len(doc.Accessors) {
			continue
		}
		positions, err := modeler.ReadPosition(doc, doc.Accessors[idx], nil)
		if err != nil {
			return min, max, false, err
		}
		for _, p := range positions {
			for axis := 0; axis < 3; axis++ {
				v := float64(p[axis])
				min[axis] = math.Min(min[axis], v)
				max[axis] = math.Max(max[axis], v)
			}
			found = true
		}
	}
	return min, max, found, nil
}
