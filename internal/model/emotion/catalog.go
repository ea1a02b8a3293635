package emotion

// Catalog exposes lookup over the fixed emotion set.
type Catalog struct {
	items []Emotion
}

// NewCatalog returns a Catalog preloaded with the supplied emotions.
func NewCatalog(items []Emotion) *Catalog {
	return &Catalog{items: append([]Emotion(nil), items...)}
}

// List returns the emotion set in definition order.
func (c *Catalog) List() []Emotion {
	return append([]Emotion(nil), c.items...)
}

// FindByName looks up an emotion by its display name.
func (c *Catalog) FindByName(name string) (Emotion, bool) {
	for _, item := range c.items {
		if item.Name == name {
			return item, true
		}
	}
	return Emotion{}, false
}

// Valid reports whether name belongs to the catalog.
func (c *Catalog) Valid(name string) bool {
	_, ok := c.FindByName(name)
	return ok
}

// Size returns the number of emotions in the catalog.
func (c *Catalog) Size() int {
	return len(c.items)
}
