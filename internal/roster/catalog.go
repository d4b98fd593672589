package roster

import "fmt"

// Catalog is a session-owned copy of the archetypes. Escalation mutates the
// enemy entries in place, so every session needs its own Catalog.
type Catalog struct {
	order       []ID
	byID        map[ID]*Archetype
	escalations int
}

// NewCatalog copies archetypes into a catalog, rejecting invalid entries and
// duplicate ids. Order is preserved; it drives uniform random enemy picks.
func NewCatalog(archetypes []Archetype) (*Catalog, error) {
	c := &Catalog{
		order: make([]ID, 0, len(archetypes)),
		byID:  make(map[ID]*Archetype, len(archetypes)),
	}
	players, enemies := 0, 0
	for _, a := range archetypes {
		if err := a.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.byID[a.ID]; dup {
			return nil, fmt.Errorf("duplicate archetype id %s", a.ID)
		}
		cp := a.Copy()
		c.byID[a.ID] = &cp
		c.order = append(c.order, a.ID)
		if a.IsEnemy() {
			enemies++
		} else {
			players++
		}
	}
	if players == 0 || enemies == 0 {
		return nil, fmt.Errorf("catalog needs at least one player and one enemy archetype (have %d/%d)", players, enemies)
	}
	for _, a := range c.byID {
		for _, id := range a.HalvedBy {
			if _, ok := c.byID[id]; !ok {
				return nil, fmt.Errorf("archetype %s: halved_by references %w %s", a.ID, ErrUnknownArchetype, id)
			}
		}
	}
	return c, nil
}

func (c *Catalog) Get(id ID) (Archetype, bool) {
	a, ok := c.byID[id]
	if !ok {
		return Archetype{}, false
	}
	return a.Copy(), true
}

func (c *Catalog) Players() []Archetype { return c.bySide(SidePlayer) }

func (c *Catalog) Enemies() []Archetype { return c.bySide(SideEnemy) }

func (c *Catalog) bySide(side Side) []Archetype {
	out := []Archetype{}
	for _, id := range c.order {
		if a := c.byID[id]; a.Side == side {
			out = append(out, a.Copy())
		}
	}
	return out
}

// Escalate grows the base health of every enemy archetype by one. Only
// entities created afterwards see the change.
func (c *Catalog) Escalate() {
	for _, a := range c.byID {
		if a.IsEnemy() {
			a.Health++
		}
	}
	c.escalations++
}

// Escalations is how many times Escalate has run on this catalog.
func (c *Catalog) Escalations() int { return c.escalations }

// Replay applies n escalations, used when restoring a saved session.
func (c *Catalog) Replay(n int) {
	for i := 0; i < n; i++ {
		c.Escalate()
	}
}
