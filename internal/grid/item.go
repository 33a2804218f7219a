package grid

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/piwi3910/gridstash/internal/model"
)

// Item is one physical instance of a catalog descriptor. Its base footprint
// is fixed at creation; rotation swaps the effective width and height.
//
// Only a Grid writes an item's anchor and placement state. The carrier owns
// the item's lifetime; a grid holds a non-owning reference while it is placed.
type Item struct {
	id      string
	desc    model.ItemDescriptor
	rotated bool

	x, y  int
	owner *Grid
	slot  int
	held  *Grid // grid whose open batch detached the item
}

// NewItem creates an unplaced item from a catalog descriptor.
func NewItem(desc model.ItemDescriptor) (*Item, error) {
	if !desc.Valid() {
		return nil, fmt.Errorf("item %q %dx%d: %w", desc.Name, desc.Width, desc.Height, ErrInvalidDimensions)
	}
	return &Item{
		id:   uuid.New().String()[:8],
		desc: desc,
		slot: -1,
	}, nil
}

func (it *Item) ID() string                       { return it.id }
func (it *Item) Descriptor() model.ItemDescriptor { return it.desc }
func (it *Item) Name() string                     { return it.desc.Name }
func (it *Item) BaseWidth() int                   { return it.desc.Width }
func (it *Item) BaseHeight() int                  { return it.desc.Height }
func (it *Item) Rotated() bool                    { return it.rotated }

// Width returns the effective width considering rotation.
func (it *Item) Width() int {
	if it.rotated {
		return it.desc.Height
	}
	return it.desc.Width
}

// Height returns the effective height considering rotation.
func (it *Item) Height() int {
	if it.rotated {
		return it.desc.Width
	}
	return it.desc.Height
}

// Area returns the number of cells the footprint covers.
func (it *Item) Area() int {
	return it.desc.Width * it.desc.Height
}

// Rotate toggles the item's 90 degree rotation. The item must be unplaced:
// rotating in place would leave the occupied cells out of step with the
// footprint.
func (it *Item) Rotate() error {
	if it.owner != nil {
		return fmt.Errorf("rotate item %s: %w", it.id, ErrRotatePlaced)
	}
	it.rotated = !it.rotated
	return nil
}

// Placed reports whether the item currently occupies cells on a grid.
func (it *Item) Placed() bool {
	return it.owner != nil
}

// Grid returns the grid the item is placed on, or nil.
func (it *Item) Grid() *Grid {
	return it.owner
}

// Anchor returns the top-left cell of the item's footprint. ok is false
// while the item is unplaced.
func (it *Item) Anchor() (x, y int, ok bool) {
	if it.owner == nil {
		return 0, 0, false
	}
	return it.x, it.y, true
}

func (it *Item) setAnchor(x, y int) {
	it.x, it.y = x, y
}

func (it *Item) String() string {
	rot := ""
	if it.rotated {
		rot = " rotated"
	}
	if x, y, ok := it.Anchor(); ok {
		return fmt.Sprintf("%s[%s %dx%d%s @ %d,%d]", it.desc.Name, it.id, it.Width(), it.Height(), rot, x, y)
	}
	return fmt.Sprintf("%s[%s %dx%d%s]", it.desc.Name, it.id, it.Width(), it.Height(), rot)
}
