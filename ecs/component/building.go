package component

// Building marks a city building that can be webbed to.
type Building struct {
	Name string
	// Node is the glTF node index the building was spawned from.
	Node int
}

var BuildingComponent = NewComponent[Building]()
