package ecs

import "github.com/milk9111/webswing/ecs/component"

// World owns entities, their components, and the event queue.
type World struct {
	entities entityStore
	stores   map[component.ComponentID]*SparseSet
	events   EventQueue
}

// NewWorld creates an empty ECS world.
func NewWorld() *World {
	return &World{stores: make(map[component.ComponentID]*SparseSet)}
}

// CreateEntity allocates a new entity.
func (w *World) CreateEntity() Entity {
	return w.entities.create()
}

// DestroyEntity drops every component of e and retires the handle.
func (w *World) DestroyEntity(e Entity) bool {
	if w == nil || !w.entities.isAlive(e) {
		return false
	}
	for _, s := range w.stores {
		s.Remove(e)
	}
	return w.entities.destroy(e)
}

// IsAlive reports whether an entity handle is valid.
func (w *World) IsAlive(e Entity) bool {
	if w == nil {
		return false
	}
	return w.entities.isAlive(e)
}

// Len returns the number of live entities.
func (w *World) Len() int {
	if w == nil {
		return 0
	}
	return w.entities.alive
}

func (w *World) store(id component.ComponentID, create bool) *SparseSet {
	s := w.stores[id]
	if s == nil && create {
		if w.stores == nil {
			w.stores = make(map[component.ComponentID]*SparseSet)
		}
		s = &SparseSet{}
		w.stores[id] = s
	}
	return s
}

// AddComponent stores value under kind for e, replacing any previous value.
func (w *World) AddComponent(e Entity, kind component.Kind, value any) error {
	if w == nil || !w.entities.isAlive(e) {
		return component.ErrEntityNotAlive
	}
	if kind == nil || kind.ID() == 0 {
		return component.ErrInvalidComponentKind
	}
	if value == nil {
		return component.ErrNilComponent
	}
	w.store(kind.ID(), true).Set(e, value)
	return nil
}

// GetComponent returns the raw component value stored under kind.
func (w *World) GetComponent(e Entity, kind component.Kind) (any, bool) {
	if w == nil || kind == nil || !w.entities.isAlive(e) {
		return nil, false
	}
	s := w.store(kind.ID(), false)
	if !s.Has(e) {
		return nil, false
	}
	return s.Get(e), true
}

// HasComponent reports whether e carries kind.
func (w *World) HasComponent(e Entity, kind component.Kind) bool {
	_, ok := w.GetComponent(e, kind)
	return ok
}

// RemoveComponent removes kind from e.
func (w *World) RemoveComponent(e Entity, kind component.Kind) bool {
	if w == nil || kind == nil {
		return false
	}
	return w.store(kind.ID(), false).Remove(e)
}

// Query returns the entities that carry every listed kind.
func (w *World) Query(kinds ...component.Kind) []Entity {
	if w == nil || len(kinds) == 0 {
		return nil
	}
	sets := make([]*SparseSet, 0, len(kinds))
	for _, k := range kinds {
		s := w.store(k.ID(), false)
		if s == nil {
			return nil
		}
		sets = append(sets, s)
	}
	return IntersectEntities(sets...)
}

// First returns the first entity carrying kind.
func (w *World) First(kind component.Kind) (Entity, bool) {
	ents := w.Query(kind)
	if len(ents) == 0 {
		return 0, false
	}
	return ents[0], true
}

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}
