package sim

import (
	"fmt"
	"log"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/webswing/assets"
	"github.com/milk9111/webswing/ecs"
	"github.com/milk9111/webswing/ecs/component"
	"github.com/milk9111/webswing/physics"
	"github.com/milk9111/webswing/scene"
	"github.com/milk9111/webswing/swing"
)

func (c *Context) spawnPlayer() error {
	cfg := c.config.Player
	body := physics.NewBody(cfg.Mass, cfg.HalfExtents)
	body.Position = cfg.Start
	if err := c.physics.AddBody(body); err != nil {
		return fmt.Errorf("sim: add player body: %w", err)
	}

	mesh := scene.NewBoxMesh("player", cfg.HalfExtents, cfg.Color)
	mesh.Scale = mgl64.Vec3{cfg.MeshScale, cfg.MeshScale, cfg.MeshScale}
	mesh.Position = cfg.Start
	c.scene.Add(mesh)

	e := c.entities.CreateEntity()
	if err := ecs.Add(c.entities, e, component.PlayerTagComponent, component.PlayerTag{}); err != nil {
		return fmt.Errorf("sim: tag player: %w", err)
	}
	if err := ecs.Add(c.entities, e, component.PhysicsBodyComponent, component.PhysicsBody{Body: body}); err != nil {
		return fmt.Errorf("sim: player body: %w", err)
	}
	if err := ecs.Add(c.entities, e, component.MeshRenderComponent, component.MeshRender{Mesh: mesh}); err != nil {
		return fmt.Errorf("sim: player mesh: %w", err)
	}
	c.player, c.body, c.mesh = e, body, mesh
	return nil
}

func (c *Context) spawnGround() error {
	cfg := c.config.Ground
	body := physics.NewStaticBody(cfg.HalfExtents)
	body.Position = mgl64.Vec3{0, cfg.TopY - cfg.HalfExtents.Y(), 0}
	if err := c.physics.AddBody(body); err != nil {
		return fmt.Errorf("sim: add ground body: %w", err)
	}
	mesh := scene.NewBoxMesh("ground", cfg.HalfExtents, cfg.Color)
	mesh.Position = body.Position
	c.scene.Add(mesh)

	e := c.entities.CreateEntity()
	if err := ecs.Add(c.entities, e, component.GroundTagComponent, component.GroundTag{}); err != nil {
		return fmt.Errorf("sim: tag ground: %w", err)
	}
	if err := ecs.Add(c.entities, e, component.PhysicsBodyComponent, component.PhysicsBody{Body: body}); err != nil {
		return fmt.Errorf("sim: ground body: %w", err)
	}
	if err := ecs.Add(c.entities, e, component.MeshRenderComponent, component.MeshRender{Mesh: mesh}); err != nil {
		return fmt.Errorf("sim: ground mesh: %w", err)
	}
	c.ground = e
	return nil
}

func (c *Context) onModelLoaded(ev ModelLoaded) {
	if ev.Err != nil {
		c.cityErr = ev.Err
		log.Printf("sim: city %s failed to load, world stays empty: %v", ev.Source, ev.Err)
		return
	}
	if ev.Model == nil {
		c.cityErr = fmt.Errorf("sim: city %s: empty model", ev.Source)
		log.Print(c.cityErr)
		return
	}
	c.cityErr = nil
	n, err := c.SpawnCity(ev.Model)
	if err != nil {
		log.Printf("sim: spawn city %s: %v", ev.Source, err)
		return
	}
	log.Printf("sim: city %s ready with %d buildings", ev.Source, n)
}

// SpawnCity turns every mesh node of model into a building: a static box
// body sized to the node's world bounds, placed at the node's world
// position, paired with the mesh drawn for it. Any previous city is
// cleared first. It returns the number of buildings spawned.
func (c *Context) SpawnCity(model *assets.Model) (int, error) {
	c.ClearCity()
	for _, node := range model.Meshes() {
		lo, hi, ok := node.WorldBounds()
		if !ok {
			log.Printf("sim: skipping mesh node %q without geometry", node.Name)
			continue
		}
		b, err := c.spawnBuilding(node, lo, hi)
		if err != nil {
			return len(c.buildings), err
		}
		c.buildings = append(c.buildings, b)
	}
	c.cityReady = true
	return len(c.buildings), nil
}

func (c *Context) spawnBuilding(node *assets.Node, lo, hi mgl64.Vec3) (swing.Building, error) {
	half := hi.Sub(lo).Mul(0.5)
	pos := node.WorldPosition()

	body := physics.NewStaticBody(half)
	body.Position = pos
	if err := c.physics.AddBody(body); err != nil {
		return swing.Building{}, fmt.Errorf("sim: building %q body: %w", node.Name, err)
	}

	// The mesh box is expressed around the node origin so an off-center
	// pivot still draws where the geometry is.
	mesh := scene.NewBoxMesh(node.Name, half, c.config.CityColor)
	mesh.Min = lo.Sub(pos)
	mesh.Max = hi.Sub(pos)
	mesh.Position = pos
	c.scene.Add(mesh)

	e := c.entities.CreateEntity()
	if err := ecs.Add(c.entities, e, component.BuildingComponent, component.Building{Name: node.Name, Node: node.Index}); err != nil {
		return swing.Building{}, err
	}
	if err := ecs.Add(c.entities, e, component.PhysicsBodyComponent, component.PhysicsBody{Body: body}); err != nil {
		return swing.Building{}, err
	}
	if err := ecs.Add(c.entities, e, component.MeshRenderComponent, component.MeshRender{Mesh: mesh}); err != nil {
		return swing.Building{}, err
	}
	return swing.Building{ID: e, Name: node.Name, Mesh: mesh, Body: body}, nil
}

// ClearCity removes every building. A web attached to one is cut first.
func (c *Context) ClearCity() {
	if len(c.buildings) > 0 && c.swing.State().IsAttached() {
		c.swing.Detach()
	}
	for _, b := range c.buildings {
		c.physics.RemoveBody(b.Body)
		c.scene.Remove(b.Mesh)
		c.entities.DestroyEntity(b.ID)
	}
	c.buildings = nil
	c.cityReady = false
}
