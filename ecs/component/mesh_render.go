package component

import "github.com/milk9111/webswing/scene"

// MeshRender links an entity to the mesh drawn for it. When the entity also
// has a dynamic PhysicsBody the mesh follows the body each frame.
type MeshRender struct {
	Mesh *scene.Mesh
}

var MeshRenderComponent = NewComponent[MeshRender]()
