package component

import "github.com/milk9111/webswing/physics"

// PhysicsBody links an entity to its rigid body.
type PhysicsBody struct {
	Body *physics.Body
}

var PhysicsBodyComponent = NewComponent[PhysicsBody]()
