package entity

// Collection is the result of one import or export pass: the normalized
// entities grouped by kind plus extraction statistics. The engine retains no
// reference to a Collection after returning it; ownership transfers wholly
// to the caller.
type Collection struct {
	Entities map[Kind][]Entity `json:"entities"`
	Stats    Stats             `json:"stats"`
}

// NewCollection returns an empty collection with every kind initialized, so
// absent source members still show up as empty lists rather than nil maps.
func NewCollection() *Collection {
	c := &Collection{
		Entities: make(map[Kind][]Entity, len(Kinds())),
		Stats:    NewStats(),
	}
	for _, k := range Kinds() {
		c.Entities[k] = []Entity{}
	}
	return c
}

// Add appends an entity under its kind and keeps the per-kind count current.
func (c *Collection) Add(e Entity) {
	c.Entities[e.Kind] = append(c.Entities[e.Kind], e)
	c.Stats.Counts[e.Kind]++
	if !e.Balance.IsZero() {
		c.Stats.NonZeroBalances[e.Kind]++
	}
}

// Of returns the entities of one kind in assembly order.
func (c *Collection) Of(k Kind) []Entity {
	return c.Entities[k]
}

// Total returns the number of entities across all kinds.
func (c *Collection) Total() int {
	n := 0
	for _, k := range Kinds() {
		n += len(c.Entities[k])
	}
	return n
}
