package grid

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGrid(t *testing.T, w, h int) *Grid {
	t.Helper()
	g, err := New(w, h)
	require.NoError(t, err)
	return g
}

// occupied returns the set of cells referencing item.
func occupied(g *Grid, item *Item) map[[2]int]bool {
	cells := make(map[[2]int]bool)
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			if it, _ := g.Query(x, y); it == item {
				cells[[2]int{x, y}] = true
			}
		}
	}
	return cells
}

func rectCells(x, y, w, h int) map[[2]int]bool {
	cells := make(map[[2]int]bool)
	for cy := y; cy < y+h; cy++ {
		for cx := x; cx < x+w; cx++ {
			cells[[2]int{cx, cy}] = true
		}
	}
	return cells
}

func TestNew_RejectsNonPositiveSize(t *testing.T) {
	_, err := New(0, 4)
	assert.ErrorIs(t, err, ErrInvalidDimensions)
	_, err = New(4, -1)
	assert.ErrorIs(t, err, ErrInvalidDimensions)
}

func TestNew_RejectsNonPositiveTileSize(t *testing.T) {
	_, err := New(4, 4, WithLayout(Layout{TileWidth: 0, TileHeight: 32}))
	assert.ErrorIs(t, err, ErrInvalidDimensions)
	_, err = New(4, 4, WithLayout(Layout{TileWidth: 32, TileHeight: -8}))
	assert.ErrorIs(t, err, ErrInvalidDimensions)
}

func TestNew_Options(t *testing.T) {
	l := Layout{OriginX: 100, OriginY: 50, TileWidth: 16, TileHeight: 24}
	g, err := New(3, 2, WithID("bag"), WithLayout(l), nil)
	require.NoError(t, err)
	assert.Equal(t, "bag", g.ID())
	assert.Equal(t, l, g.Layout())
	assert.Equal(t, 3, g.Width())
	assert.Equal(t, 2, g.Height())
	assert.Equal(t, 0, g.OccupiedCells())
}

func TestInBounds(t *testing.T) {
	g := newTestGrid(t, 4, 3)
	assert.True(t, g.InBounds(0, 0))
	assert.True(t, g.InBounds(3, 2))
	assert.False(t, g.InBounds(4, 0))
	assert.False(t, g.InBounds(0, 3))
	assert.False(t, g.InBounds(-1, 0))
	assert.False(t, g.InBounds(0, -1))
}

func TestFootprintInBounds_MatchesExhaustiveCheck(t *testing.T) {
	g := newTestGrid(t, 5, 3)
	for x := -3; x <= 6; x++ {
		for y := -3; y <= 4; y++ {
			for w := 1; w <= 6; w++ {
				for h := 1; h <= 4; h++ {
					want := true
					for cy := y; cy < y+h && want; cy++ {
						for cx := x; cx < x+w; cx++ {
							if !g.InBounds(cx, cy) {
								want = false
								break
							}
						}
					}
					assert.Equal(t, want, g.FootprintInBounds(x, y, w, h), "x=%d y=%d w=%d h=%d", x, y, w, h)
				}
			}
		}
	}
}

func TestFootprintInBounds_DegenerateFootprint(t *testing.T) {
	g := newTestGrid(t, 4, 4)
	assert.False(t, g.FootprintInBounds(0, 0, 0, 1))
	assert.False(t, g.FootprintInBounds(0, 0, 1, 0))
}

func TestHasFreeSpace(t *testing.T) {
	g := newTestGrid(t, 4, 4)
	a := newTestItem(t, "A", 2, 2)
	_, err := g.Place(a, 1, 1)
	require.NoError(t, err)

	free, err := g.HasFreeSpace(0, 0, 1, 4)
	require.NoError(t, err)
	assert.True(t, free)

	free, err = g.HasFreeSpace(0, 0, 2, 2)
	require.NoError(t, err)
	assert.False(t, free)

	_, err = g.HasFreeSpace(3, 3, 2, 1)
	assert.ErrorIs(t, err, ErrOutOfBounds, "out of range footprint is an error, not a panic")
}

func TestOverlap_Classification(t *testing.T) {
	g := newTestGrid(t, 4, 4)
	a := newTestItem(t, "A", 2, 2)
	b := newTestItem(t, "B", 2, 2)
	_, err := g.Place(a, 0, 0)
	require.NoError(t, err)
	_, err = g.Place(b, 2, 2)
	require.NoError(t, err)

	ov, err := g.Overlap(2, 0, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, OverlapNone, ov.Kind)
	assert.Nil(t, ov.Item)

	ov, err = g.Overlap(1, 0, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, OverlapSingle, ov.Kind)
	assert.Same(t, a, ov.Item)

	ov, err = g.Overlap(1, 1, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, OverlapMultiple, ov.Kind)
	assert.Nil(t, ov.Item)

	_, err = g.Overlap(3, 3, 2, 2)
	assert.ErrorIs(t, err, ErrOutOfBounds)

	assert.Equal(t, "single", OverlapSingle.String())
	assert.Equal(t, "multiple", OverlapMultiple.String())
	assert.Equal(t, "none", OverlapNone.String())
}

func TestPlace_FootprintIntegrity(t *testing.T) {
	g := newTestGrid(t, 5, 4)
	a := newTestItem(t, "A", 3, 2)

	displaced, err := g.Place(a, 1, 2)
	require.NoError(t, err)
	assert.Nil(t, displaced)

	assert.Equal(t, rectCells(1, 2, 3, 2), occupied(g, a))
	assert.Equal(t, 6, g.OccupiedCells())
	x, y, ok := a.Anchor()
	require.True(t, ok)
	assert.Equal(t, 1, x)
	assert.Equal(t, 2, y)
	assert.True(t, a.Placed())
	assert.Same(t, g, a.Grid())
	require.NoError(t, g.CheckInvariants())
}

func TestPlace_RotatedFootprint(t *testing.T) {
	g := newTestGrid(t, 4, 4)
	a := newTestItem(t, "A", 1, 3)
	require.NoError(t, a.Rotate())

	_, err := g.Place(a, 0, 3)
	require.NoError(t, err)
	assert.Equal(t, rectCells(0, 3, 3, 1), occupied(g, a))
}

func TestPlace_SwapScenario(t *testing.T) {
	// 4x4 grid: A at (0,0); B dropped at (1,1) overlaps only A and swaps it out.
	g := newTestGrid(t, 4, 4)
	a := newTestItem(t, "A", 2, 2)
	b := newTestItem(t, "B", 2, 2)

	displaced, err := g.Place(a, 0, 0)
	require.NoError(t, err)
	assert.Nil(t, displaced)
	assert.Equal(t, rectCells(0, 0, 2, 2), occupied(g, a))

	displaced, err = g.Place(b, 1, 1)
	require.NoError(t, err)
	assert.Same(t, a, displaced)
	assert.False(t, a.Placed(), "displaced item is unplaced")
	assert.Empty(t, occupied(g, a), "no stale references to the displaced item")
	assert.Equal(t, rectCells(1, 1, 2, 2), occupied(g, b))
	assert.Equal(t, 4, g.OccupiedCells())
	require.NoError(t, g.CheckInvariants())
}

func TestPlace_AmbiguousOverlapLeavesGridUnchanged(t *testing.T) {
	g := newTestGrid(t, 4, 4)
	a := newTestItem(t, "A", 2, 2)
	b := newTestItem(t, "B", 2, 2)
	c := newTestItem(t, "C", 4, 4)
	_, err := g.Place(a, 0, 0)
	require.NoError(t, err)
	_, err = g.Place(b, 2, 2)
	require.NoError(t, err)

	cells := append([]int(nil), g.cells...)
	pool := append([]*Item(nil), g.pool...)

	displaced, err := g.Place(c, 0, 0)
	assert.ErrorIs(t, err, ErrAmbiguousOverlap)
	assert.Nil(t, displaced)
	assert.Equal(t, cells, g.cells)
	assert.Equal(t, pool, g.pool)
	assert.False(t, c.Placed())
	assert.True(t, a.Placed())
	assert.True(t, b.Placed())
}

func TestPlace_OutOfBoundsLeavesGridUnchanged(t *testing.T) {
	g := newTestGrid(t, 4, 4)
	a := newTestItem(t, "A", 1, 1)
	_, err := g.Place(a, 0, 0)
	require.NoError(t, err)
	cells := append([]int(nil), g.cells...)

	for _, pos := range [][2]int{{3, 0}, {-1, 0}, {0, 3}, {0, -1}, {10, 10}} {
		big := newTestItem(t, "big", 2, 2)
		_, err := g.Place(big, pos[0], pos[1])
		assert.ErrorIs(t, err, ErrOutOfBounds, "pos %v", pos)
		assert.False(t, big.Placed())
	}
	assert.Equal(t, cells, g.cells)
}

func TestPlace_Preconditions(t *testing.T) {
	g := newTestGrid(t, 4, 4)
	other := newTestGrid(t, 4, 4)
	a := newTestItem(t, "A", 1, 1)

	_, err := g.Place(nil, 0, 0)
	assert.ErrorIs(t, err, ErrNilItem)

	_, err = g.Place(a, 0, 0)
	require.NoError(t, err)

	_, err = g.Place(a, 2, 2)
	assert.ErrorIs(t, err, ErrAlreadyPlaced)
	_, err = other.Place(a, 0, 0)
	assert.ErrorIs(t, err, ErrAlreadyPlaced, "an item lives on one grid at a time")
	assert.Equal(t, 0, other.OccupiedCells())
}

func TestPickUp_RoundTrip(t *testing.T) {
	g := newTestGrid(t, 4, 4)
	a := newTestItem(t, "A", 2, 3)
	_, err := g.Place(a, 1, 0)
	require.NoError(t, err)

	// Any cell of the footprint picks up the whole item.
	got, err := g.PickUp(2, 2)
	require.NoError(t, err)
	assert.Same(t, a, got)
	assert.False(t, a.Placed())
	assert.Equal(t, 0, g.OccupiedCells())
	free, err := g.HasFreeSpace(1, 0, 2, 3)
	require.NoError(t, err)
	assert.True(t, free)
	require.NoError(t, g.CheckInvariants())
}

func TestPickUp_EmptyAndOutOfBounds(t *testing.T) {
	g := newTestGrid(t, 2, 2)

	got, err := g.PickUp(1, 1)
	assert.NoError(t, err)
	assert.Nil(t, got)

	_, err = g.PickUp(2, 0)
	assert.ErrorIs(t, err, ErrOutOfBounds)
	_, err = g.Query(-1, 0)
	assert.ErrorIs(t, err, ErrOutOfBounds)
}

func TestQuery(t *testing.T) {
	g := newTestGrid(t, 3, 3)
	a := newTestItem(t, "A", 2, 1)
	_, err := g.Place(a, 1, 1)
	require.NoError(t, err)

	got, err := g.Query(2, 1)
	require.NoError(t, err)
	assert.Same(t, a, got)

	got, err = g.Query(0, 1)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.True(t, a.Placed(), "query is read-only")
}

func TestRemove(t *testing.T) {
	g := newTestGrid(t, 3, 3)
	other := newTestGrid(t, 3, 3)
	a := newTestItem(t, "A", 1, 1)

	assert.ErrorIs(t, g.Remove(a), ErrNotPlaced)
	assert.ErrorIs(t, g.Remove(nil), ErrNilItem)

	_, err := g.Place(a, 2, 2)
	require.NoError(t, err)
	assert.ErrorIs(t, other.Remove(a), ErrNotPlaced)
	require.NoError(t, g.Remove(a))
	assert.False(t, a.Placed())
	assert.Equal(t, 0, g.OccupiedCells())
}

func TestFindFreeSpace_FirstFitRowMajor(t *testing.T) {
	// Rows 0 and 1 full, row 2 free from x=1: the leftmost free cell of row 2 wins.
	g := newTestGrid(t, 4, 4)
	_, err := g.Place(newTestItem(t, "top", 4, 2), 0, 0)
	require.NoError(t, err)
	_, err = g.Place(newTestItem(t, "pin", 1, 1), 0, 2)
	require.NoError(t, err)

	x, y, ok := g.FindFreeSpace(newTestItem(t, "one", 1, 1))
	require.True(t, ok)
	assert.Equal(t, 1, x)
	assert.Equal(t, 2, y)
}

func TestFindFreeSpace_PrefersEarlierRowOverLeftColumn(t *testing.T) {
	// (3,0) comes before (0,1) in row-major order.
	g := newTestGrid(t, 4, 3)
	_, err := g.Place(newTestItem(t, "block", 3, 1), 0, 0)
	require.NoError(t, err)

	x, y, ok := g.FindFreeSpaceFor(1, 1)
	require.True(t, ok)
	assert.Equal(t, [2]int{3, 0}, [2]int{x, y})

	x, y, ok = g.FindFreeSpaceFor(2, 1)
	require.True(t, ok)
	assert.Equal(t, [2]int{0, 1}, [2]int{x, y})
}

func TestFindFreeSpace_FullGridReturnsNone(t *testing.T) {
	g := newTestGrid(t, 2, 2)
	_, err := g.Place(newTestItem(t, "full", 2, 2), 0, 0)
	require.NoError(t, err)

	for _, dims := range [][2]int{{1, 1}, {1, 2}, {2, 2}} {
		_, _, ok := g.FindFreeSpaceFor(dims[0], dims[1])
		assert.False(t, ok, "dims %v", dims)
	}
}

func TestFindFreeSpace_LargerThanGrid(t *testing.T) {
	g := newTestGrid(t, 3, 3)
	_, _, ok := g.FindFreeSpaceFor(4, 1)
	assert.False(t, ok)
	_, _, ok = g.FindFreeSpaceFor(1, 4)
	assert.False(t, ok)
	_, _, ok = g.FindFreeSpaceFor(0, 1)
	assert.False(t, ok)
}

func TestInsert(t *testing.T) {
	g := newTestGrid(t, 3, 2)
	a := newTestItem(t, "A", 2, 2)
	b := newTestItem(t, "B", 1, 2)
	c := newTestItem(t, "C", 1, 1)

	x, y, err := g.Insert(a)
	require.NoError(t, err)
	assert.Equal(t, [2]int{0, 0}, [2]int{x, y})

	x, y, err = g.Insert(b)
	require.NoError(t, err)
	assert.Equal(t, [2]int{2, 0}, [2]int{x, y})

	_, _, err = g.Insert(c)
	assert.ErrorIs(t, err, ErrNoSpace)
	assert.False(t, c.Placed())

	_, _, err = g.Insert(a)
	assert.ErrorIs(t, err, ErrAlreadyPlaced)
	_, _, err = g.Insert(nil)
	assert.ErrorIs(t, err, ErrNilItem)
}

func TestItemsAndPlacementsOrderedByAnchor(t *testing.T) {
	g := newTestGrid(t, 4, 4)
	c := newTestItem(t, "C", 1, 1)
	a := newTestItem(t, "A", 1, 1)
	b := newTestItem(t, "B", 1, 1)
	_, err := g.Place(c, 0, 3)
	require.NoError(t, err)
	_, err = g.Place(b, 2, 0)
	require.NoError(t, err)
	_, err = g.Place(a, 0, 0)
	require.NoError(t, err)

	items := g.Items()
	require.Len(t, items, 3)
	assert.Equal(t, []*Item{a, b, c}, items)

	ps := g.Placements()
	require.Len(t, ps, 3)
	assert.Equal(t, Placement{Item: b, X: 2, Y: 0, Width: 1, Height: 1}, ps[1])
	assert.InDelta(t, 3.0/16.0, g.FillRatio(), 1e-9)
}

func TestCellAtAndCellCenter(t *testing.T) {
	g, err := New(10, 10, WithLayout(Layout{OriginX: 100, OriginY: 200, TileWidth: 32, TileHeight: 32}))
	require.NoError(t, err)

	x, y := g.CellAt(100, 200)
	assert.Equal(t, [2]int{0, 0}, [2]int{x, y})
	x, y = g.CellAt(163.9, 232)
	assert.Equal(t, [2]int{1, 1}, [2]int{x, y})
	x, y = g.CellAt(99, 199)
	assert.Equal(t, [2]int{-1, -1}, [2]int{x, y}, "floor-divide, not truncation")
	assert.False(t, g.InBounds(x, y))

	it := newTestItem(t, "A", 2, 1)
	px, py := g.CellCenter(it, 1, 2)
	assert.Equal(t, 100+32+32.0, px)
	assert.Equal(t, 200+64+16.0, py)

	cx, cy := g.CellAt(px, py)
	assert.Equal(t, [2]int{2, 2}, [2]int{cx, cy})

	sw, sh := g.Layout().Size(2, 3)
	assert.Equal(t, 64.0, sw)
	assert.Equal(t, 96.0, sh)
}

func TestString(t *testing.T) {
	g := newTestGrid(t, 3, 2)
	_, err := g.Place(newTestItem(t, "A", 2, 1), 0, 0)
	require.NoError(t, err)
	_, err = g.Place(newTestItem(t, "B", 1, 2), 2, 0)
	require.NoError(t, err)
	assert.Equal(t, "AAB\n..B\n", g.String())
}

func TestRandomOperations_PreserveInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	g := newTestGrid(t, 8, 6)
	var carried []*Item

	for i := 0; i < 2000; i++ {
		switch rng.Intn(4) {
		case 0, 1:
			var it *Item
			if len(carried) > 0 && rng.Intn(2) == 0 {
				it = carried[len(carried)-1]
				carried = carried[:len(carried)-1]
			} else {
				it = newTestItem(t, "r", 1+rng.Intn(3), 1+rng.Intn(3))
			}
			if rng.Intn(3) == 0 {
				require.NoError(t, it.Rotate())
			}
			before := append([]int(nil), g.cells...)
			displaced, err := g.Place(it, rng.Intn(10)-1, rng.Intn(8)-1)
			if err != nil {
				assert.Equal(t, before, g.cells, "failed place must not mutate")
				carried = append(carried, it)
			} else if displaced != nil {
				carried = append(carried, displaced)
			}
		case 2:
			if it, err := g.PickUp(rng.Intn(8), rng.Intn(6)); err == nil && it != nil {
				carried = append(carried, it)
			}
		case 3:
			if len(carried) > 0 {
				if _, _, err := g.Insert(carried[0]); err == nil {
					carried = carried[1:]
				}
			}
		}
		require.NoError(t, g.CheckInvariants(), "step %d", i)
	}

	// No two placed footprints intersect.
	ps := g.Placements()
	for i := range ps {
		for j := i + 1; j < len(ps); j++ {
			a, b := ps[i], ps[j]
			overlap := a.X < b.X+b.Width && b.X < a.X+a.Width && a.Y < b.Y+b.Height && b.Y < a.Y+a.Height
			assert.False(t, overlap, "%v and %v intersect", a.Item, b.Item)
		}
	}
}
