package grid

import "fmt"

type journalOp int

const (
	opAttach journalOp = iota
	opDetach
)

type journalEntry struct {
	op      journalOp
	item    *Item
	x, y    int
	rotated bool
	grew    bool // attach appended a new pool slot
}

type journal struct {
	entries []journalEntry
}

func (g *Grid) record(e journalEntry) {
	if g.journal != nil {
		g.journal.entries = append(g.journal.entries, e)
	}
}

// Tx runs fn as one batch. If fn returns an error or panics, every
// placement and removal made inside the batch is undone: cells, pool
// slots, anchors and the rotation of items that were removed and then
// rotated while carried. A nested Tx joins the outer batch.
//
// Items removed inside the batch stay held by g until it ends; placing
// them on another grid meanwhile fails with ErrHeld.
func (g *Grid) Tx(fn func(*Grid) error) (err error) {
	if g.journal != nil {
		return fn(g)
	}
	g.journal = &journal{}
	defer func() {
		j := g.journal
		g.journal = nil
		defer release(j.entries)
		if r := recover(); r != nil {
			g.undo(j.entries)
			panic(r)
		}
		if err != nil {
			g.undo(j.entries)
		}
	}()
	return fn(g)
}

// release ends the hold a batch keeps on the items it detached.
func release(entries []journalEntry) {
	for _, e := range entries {
		if e.op == opDetach {
			e.item.held = nil
		}
	}
}

// undo replays the journal backwards. Slots are pushed and popped in
// reverse order, so the arena ends byte-identical to its state before
// the batch.
func (g *Grid) undo(entries []journalEntry) {
	// Held items cannot be placed elsewhere, so this only fires on
	// unsynchronized cross-grid use. Check before touching the arena.
	for _, e := range entries {
		if e.op == opDetach && e.item.owner != nil && e.item.owner != g {
			panic(fmt.Sprintf("grid: rollback of %s while it is placed elsewhere", e.item))
		}
	}
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		switch e.op {
		case opAttach:
			g.detach(e.item)
			if e.grew {
				// detach pushed the slot onto the free list; the slot was
				// freshly appended, so shrink the pool instead.
				g.free = g.free[:len(g.free)-1]
				g.pool = g.pool[:len(g.pool)-1]
			}
		case opDetach:
			e.item.rotated = e.rotated
			slot := g.free[len(g.free)-1]
			g.free = g.free[:len(g.free)-1]
			g.pool[slot] = e.item
			ref := slot + 1
			for cy := e.y; cy < e.y+e.item.Height(); cy++ {
				row := cy * g.width
				for cx := e.x; cx < e.x+e.item.Width(); cx++ {
					g.cells[row+cx] = ref
				}
			}
			e.item.setAnchor(e.x, e.y)
			e.item.owner = g
			e.item.slot = slot
		}
	}
}
