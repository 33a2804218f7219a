package grid

import "fmt"

// OverlapKind classifies what a footprint would cover.
type OverlapKind int

const (
	OverlapNone     OverlapKind = iota // Every cell is empty
	OverlapSingle                      // Occupied cells all belong to one item
	OverlapMultiple                    // Two or more distinct items
)

func (k OverlapKind) String() string {
	switch k {
	case OverlapSingle:
		return "single"
	case OverlapMultiple:
		return "multiple"
	default:
		return "none"
	}
}

// Overlap is the result of classifying a footprint. Item is the swap
// candidate when Kind is OverlapSingle and nil otherwise.
type Overlap struct {
	Kind OverlapKind
	Item *Item
}

// Overlap classifies the occupants of a w x h footprint at (x, y).
// Placing on top of existing items is allowed only when at most one
// distinct item would be displaced.
func (g *Grid) Overlap(x, y, w, h int) (Overlap, error) {
	if !g.FootprintInBounds(x, y, w, h) {
		return Overlap{}, fmt.Errorf("overlap %dx%d at (%d,%d): %w", w, h, x, y, ErrOutOfBounds)
	}
	return g.overlap(x, y, w, h), nil
}

func (g *Grid) overlap(x, y, w, h int) Overlap {
	first := 0
	for cy := y; cy < y+h; cy++ {
		row := cy * g.width
		for cx := x; cx < x+w; cx++ {
			ref := g.cells[row+cx]
			if ref == 0 {
				continue
			}
			if first == 0 {
				first = ref
			} else if ref != first {
				return Overlap{Kind: OverlapMultiple}
			}
		}
	}
	if first == 0 {
		return Overlap{Kind: OverlapNone}
	}
	return Overlap{Kind: OverlapSingle, Item: g.pool[first-1]}
}
