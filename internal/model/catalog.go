package model

import (
	"fmt"
	"strings"
)

// Catalog holds the item descriptors known to the application.
type Catalog struct {
	Items []ItemDescriptor `json:"items" yaml:"items"`
}

// DefaultCatalog returns a catalog populated with a few common item shapes.
func DefaultCatalog() Catalog {
	return Catalog{
		Items: []ItemDescriptor{
			NewItemDescriptor("Potion", 1, 1, "potion.png"),
			NewItemDescriptor("Dagger", 1, 2, "dagger.png"),
			NewItemDescriptor("Sword", 1, 3, "sword.png"),
			NewItemDescriptor("Shield", 2, 2, "shield.png"),
			NewItemDescriptor("Rifle", 4, 1, "rifle.png"),
			NewItemDescriptor("Backpack", 2, 3, "backpack.png"),
		},
	}
}

// FindByID returns a pointer to the descriptor with the given ID, or nil.
func (c *Catalog) FindByID(id string) *ItemDescriptor {
	for i := range c.Items {
		if c.Items[i].ID == id {
			return &c.Items[i]
		}
	}
	return nil
}

// FindByName returns a pointer to the first descriptor with the given name
// (case-insensitive), or nil.
func (c *Catalog) FindByName(name string) *ItemDescriptor {
	for i := range c.Items {
		if strings.EqualFold(c.Items[i].Name, name) {
			return &c.Items[i]
		}
	}
	return nil
}

// Names returns the descriptor names in catalog order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.Items))
	for i, d := range c.Items {
		names[i] = d.Name
	}
	return names
}

// Validate checks that every descriptor has a positive footprint and that
// IDs are unique.
func (c *Catalog) Validate() error {
	seen := make(map[string]bool, len(c.Items))
	for i, d := range c.Items {
		if !d.Valid() {
			return fmt.Errorf("catalog item %d (%q): dimensions must be positive, got %dx%d", i, d.Name, d.Width, d.Height)
		}
		if d.ID == "" {
			continue
		}
		if seen[d.ID] {
			return fmt.Errorf("catalog item %d (%q): duplicate id %s", i, d.Name, d.ID)
		}
		seen[d.ID] = true
	}
	return nil
}

// Merge appends descriptors from other whose IDs are not already present.
func (c *Catalog) Merge(other Catalog) int {
	ids := make(map[string]bool, len(c.Items))
	for _, d := range c.Items {
		ids[d.ID] = true
	}
	added := 0
	for _, d := range other.Items {
		if ids[d.ID] {
			continue
		}
		c.Items = append(c.Items, d)
		ids[d.ID] = true
		added++
	}
	return added
}
