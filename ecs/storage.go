package ecs

// entityStore tracks entity generations and free ids.
type entityStore struct {
	gen   []generation
	free  []entityID
	alive int
}

func (s *entityStore) create() Entity {
	var id entityID
	if len(s.free) > 0 {
		id = s.free[len(s.free)-1]
		s.free = s.free[:len(s.free)-1]
	} else {
		s.gen = append(s.gen, 0)
		id = entityID(len(s.gen))
	}
	s.alive++
	return makeEntity(id, s.gen[id-1])
}

func (s *entityStore) destroy(e Entity) bool {
	if !s.isAlive(e) {
		return false
	}
	idx := e.id() - 1
	s.gen[idx]++
	s.free = append(s.free, e.id())
	s.alive--
	return true
}

func (s *entityStore) isAlive(e Entity) bool {
	if s == nil || e.id() == 0 || int(e.id()) > len(s.gen) {
		return false
	}
	return s.gen[e.id()-1] == e.generation()
}
