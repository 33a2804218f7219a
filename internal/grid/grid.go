// Package grid implements the spatial occupancy engine of the inventory:
// a fixed-size cell grid whose cells reference the rectangular items that
// cover them, with all-or-nothing placement, single-occupant swapping and
// first-fit free-space search.
//
// Coordinates are integer cell indices with the origin at the top-left;
// x grows rightward and y grows downward.
package grid

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// Grid owns the cell occupancy for a fixed width x height area.
//
// Cells are a flat arena indexed y*width+x. Each cell holds slot+1 of the
// occupying item in the item pool, or 0 when empty. A Grid is not safe for
// concurrent use; wrap it in a Locked for that.
type Grid struct {
	id     string
	width  int
	height int
	layout Layout

	cells []int
	pool  []*Item
	free  []int

	journal *journal
}

// Option configures grid construction.
type Option func(*Grid)

// WithLayout sets the surface mapping used by CellAt and CellCenter.
func WithLayout(l Layout) Option {
	return func(g *Grid) {
		g.layout = l
	}
}

// WithID overrides the generated grid ID.
func WithID(id string) Option {
	return func(g *Grid) {
		g.id = id
	}
}

// New creates an empty grid. Width and height are fixed for its lifetime.
func New(width, height int, opts ...Option) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("grid %dx%d: %w", width, height, ErrInvalidDimensions)
	}
	g := &Grid{
		id:     uuid.New().String()[:8],
		width:  width,
		height: height,
		layout: DefaultLayout(),
		cells:  make([]int, width*height),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	if g.layout.TileWidth <= 0 || g.layout.TileHeight <= 0 {
		return nil, fmt.Errorf("grid tile %gx%g: %w", g.layout.TileWidth, g.layout.TileHeight, ErrInvalidDimensions)
	}
	return g, nil
}

func (g *Grid) ID() string     { return g.id }
func (g *Grid) Width() int     { return g.width }
func (g *Grid) Height() int    { return g.height }
func (g *Grid) Layout() Layout { return g.layout }

// CellAt maps a surface position to the cell under it. The result may lie
// outside the grid; check InBounds before using it.
func (g *Grid) CellAt(px, py float64) (x, y int) {
	return g.layout.CellAt(px, py)
}

// CellCenter returns the surface position at the center of item's
// footprint if it were anchored at (x, y). Used for rendering only.
func (g *Grid) CellCenter(item *Item, x, y int) (px, py float64) {
	return g.layout.CellCenter(x, y, item.Width(), item.Height())
}

// InBounds reports whether (x, y) is a cell of the grid.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.width && y < g.height
}

// FootprintInBounds reports whether a w x h footprint anchored at (x, y)
// lies entirely inside the grid. The grid is a solid rectangle, so checking
// the top-left and bottom-right corners covers every interior cell.
func (g *Grid) FootprintInBounds(x, y, w, h int) bool {
	if w <= 0 || h <= 0 {
		return false
	}
	return g.InBounds(x, y) && g.InBounds(x+w-1, y+h-1)
}

// HasFreeSpace reports whether every cell of the footprint is empty.
func (g *Grid) HasFreeSpace(x, y, w, h int) (bool, error) {
	if !g.FootprintInBounds(x, y, w, h) {
		return false, fmt.Errorf("free space %dx%d at (%d,%d): %w", w, h, x, y, ErrOutOfBounds)
	}
	return g.isFree(x, y, w, h), nil
}

func (g *Grid) isFree(x, y, w, h int) bool {
	for cy := y; cy < y+h; cy++ {
		row := cy * g.width
		for cx := x; cx < x+w; cx++ {
			if g.cells[row+cx] != 0 {
				return false
			}
		}
	}
	return true
}

// Query returns the item occupying (x, y), or nil for an empty cell.
func (g *Grid) Query(x, y int) (*Item, error) {
	if !g.InBounds(x, y) {
		return nil, fmt.Errorf("query (%d,%d): %w", x, y, ErrOutOfBounds)
	}
	return g.at(x, y), nil
}

func (g *Grid) at(x, y int) *Item {
	ref := g.cells[y*g.width+x]
	if ref == 0 {
		return nil
	}
	return g.pool[ref-1]
}

// Place puts item at anchor (x, y). If the footprint covers exactly one
// other item, that item is removed from the grid first and returned as
// displaced so the caller can carry it. Placement over two or more items,
// or outside the grid, fails without changing anything.
func (g *Grid) Place(item *Item, x, y int) (displaced *Item, err error) {
	if item == nil {
		return nil, fmt.Errorf("place at (%d,%d): %w", x, y, ErrNilItem)
	}
	if item.owner != nil {
		return nil, fmt.Errorf("place item %s at (%d,%d): %w", item.id, x, y, ErrAlreadyPlaced)
	}
	if item.held != nil && item.held != g {
		return nil, fmt.Errorf("place item %s at (%d,%d): %w", item.id, x, y, ErrHeld)
	}
	w, h := item.Width(), item.Height()
	if !g.FootprintInBounds(x, y, w, h) {
		return nil, fmt.Errorf("place item %s %dx%d at (%d,%d): %w", item.id, w, h, x, y, ErrOutOfBounds)
	}

	ov := g.overlap(x, y, w, h)
	switch ov.Kind {
	case OverlapMultiple:
		return nil, fmt.Errorf("place item %s %dx%d at (%d,%d): %w", item.id, w, h, x, y, ErrAmbiguousOverlap)
	case OverlapSingle:
		// The old footprint must be fully cleared before the new one is
		// written since the two rectangles may partially coincide.
		g.detach(ov.Item)
	}

	g.attach(item, x, y)
	return ov.Item, nil
}

// PickUp removes the item covering (x, y) from the grid and returns it
// unplaced. An empty cell yields nil.
func (g *Grid) PickUp(x, y int) (*Item, error) {
	if !g.InBounds(x, y) {
		return nil, fmt.Errorf("pick up (%d,%d): %w", x, y, ErrOutOfBounds)
	}
	item := g.at(x, y)
	if item == nil {
		return nil, nil
	}
	g.detach(item)
	return item, nil
}

// Remove takes a known item off the grid.
func (g *Grid) Remove(item *Item) error {
	if item == nil {
		return ErrNilItem
	}
	if item.owner != g {
		return fmt.Errorf("remove item %s: %w", item.id, ErrNotPlaced)
	}
	g.detach(item)
	return nil
}

// FindFreeSpace returns the first anchor, scanning rows top to bottom and
// cells left to right, where item's current footprint fits on empty cells.
func (g *Grid) FindFreeSpace(item *Item) (x, y int, ok bool) {
	return g.FindFreeSpaceFor(item.Width(), item.Height())
}

// FindFreeSpaceFor is FindFreeSpace for a bare w x h footprint.
func (g *Grid) FindFreeSpaceFor(w, h int) (x, y int, ok bool) {
	if w <= 0 || h <= 0 {
		return 0, 0, false
	}
	for y = 0; y <= g.height-h; y++ {
		for x = 0; x <= g.width-w; x++ {
			if g.isFree(x, y, w, h) {
				return x, y, true
			}
		}
	}
	return 0, 0, false
}

// Insert places an unplaced item at the first free anchor.
func (g *Grid) Insert(item *Item) (x, y int, err error) {
	if item == nil {
		return 0, 0, ErrNilItem
	}
	if item.owner != nil {
		return 0, 0, fmt.Errorf("insert item %s: %w", item.id, ErrAlreadyPlaced)
	}
	if item.held != nil && item.held != g {
		return 0, 0, fmt.Errorf("insert item %s: %w", item.id, ErrHeld)
	}
	x, y, ok := g.FindFreeSpace(item)
	if !ok {
		return 0, 0, fmt.Errorf("insert item %s %dx%d: %w", item.id, item.Width(), item.Height(), ErrNoSpace)
	}
	g.attach(item, x, y)
	return x, y, nil
}

// attach writes item's reference into every cell of its footprint at
// (x, y). Callers have already checked bounds and emptiness.
func (g *Grid) attach(item *Item, x, y int) {
	grew := false
	var slot int
	if n := len(g.free); n > 0 {
		slot = g.free[n-1]
		g.free = g.free[:n-1]
		g.pool[slot] = item
	} else {
		slot = len(g.pool)
		g.pool = append(g.pool, item)
		grew = true
	}

	ref := slot + 1
	w, h := item.Width(), item.Height()
	for cy := y; cy < y+h; cy++ {
		row := cy * g.width
		for cx := x; cx < x+w; cx++ {
			g.cells[row+cx] = ref
		}
	}

	item.setAnchor(x, y)
	item.owner = g
	item.slot = slot
	g.record(journalEntry{op: opAttach, item: item, grew: grew})
}

// detach clears item's whole footprint and releases its pool slot.
func (g *Grid) detach(item *Item) {
	ref := item.slot + 1
	w, h := item.Width(), item.Height()
	for cy := item.y; cy < item.y+h; cy++ {
		row := cy * g.width
		for cx := item.x; cx < item.x+w; cx++ {
			if g.cells[row+cx] == ref {
				g.cells[row+cx] = 0
			}
		}
	}

	g.pool[item.slot] = nil
	g.free = append(g.free, item.slot)
	if g.journal != nil {
		g.record(journalEntry{op: opDetach, item: item, x: item.x, y: item.y, rotated: item.rotated})
		item.held = g
	}

	item.owner = nil
	item.slot = -1
}

// Placement is a read-only snapshot of one placed item.
type Placement struct {
	Item   *Item
	X, Y   int
	Width  int
	Height int
}

// Items returns the placed items ordered by anchor, rows first.
func (g *Grid) Items() []*Item {
	items := make([]*Item, 0, len(g.pool)-len(g.free))
	for _, it := range g.pool {
		if it != nil {
			items = append(items, it)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].y != items[j].y {
			return items[i].y < items[j].y
		}
		return items[i].x < items[j].x
	})
	return items
}

// Placements returns a snapshot of every placed item's footprint.
func (g *Grid) Placements() []Placement {
	items := g.Items()
	out := make([]Placement, len(items))
	for i, it := range items {
		out[i] = Placement{Item: it, X: it.x, Y: it.y, Width: it.Width(), Height: it.Height()}
	}
	return out
}

// OccupiedCells returns the number of non-empty cells.
func (g *Grid) OccupiedCells() int {
	n := 0
	for _, ref := range g.cells {
		if ref != 0 {
			n++
		}
	}
	return n
}

// FillRatio returns the occupied share of the grid in [0, 1].
func (g *Grid) FillRatio() float64 {
	return float64(g.OccupiedCells()) / float64(len(g.cells))
}

// CheckInvariants verifies that every occupied cell lies inside its item's
// footprint and that every placed item covers exactly its full footprint.
func (g *Grid) CheckInvariants() error {
	counts := make(map[*Item]int)
	for i, ref := range g.cells {
		if ref == 0 {
			continue
		}
		if ref-1 >= len(g.pool) || g.pool[ref-1] == nil {
			return fmt.Errorf("cell (%d,%d) references empty slot %d", i%g.width, i/g.width, ref-1)
		}
		it := g.pool[ref-1]
		x, y := i%g.width, i/g.width
		if x < it.x || x >= it.x+it.Width() || y < it.y || y >= it.y+it.Height() {
			return fmt.Errorf("cell (%d,%d) outside footprint of %s", x, y, it)
		}
		counts[it]++
	}
	for slot, it := range g.pool {
		if it == nil {
			continue
		}
		if it.owner != g || it.slot != slot {
			return fmt.Errorf("item %s in slot %d has owner/slot mismatch", it, slot)
		}
		if counts[it] != it.Width()*it.Height() {
			return fmt.Errorf("item %s covers %d cells, want %d", it, counts[it], it.Width()*it.Height())
		}
	}
	return nil
}

// String renders the occupancy as rows of cell markers, mainly for tests
// and debug logging.
func (g *Grid) String() string {
	b := make([]byte, 0, (g.width+1)*g.height)
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			ref := g.cells[y*g.width+x]
			switch {
			case ref == 0:
				b = append(b, '.')
			case ref <= 26:
				b = append(b, byte('A'+ref-1))
			default:
				b = append(b, '#')
			}
		}
		b = append(b, '\n')
	}
	return string(b)
}
