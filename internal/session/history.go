package session

import "github.com/piwi3910/gridstash/internal/grid"

const defaultMaxDepth = 50

// itemState records where an item sat and how it was turned.
type itemState struct {
	item    *grid.Item
	x, y    int
	rotated bool
}

// Snapshot captures the focused grid's placements and the carried item at
// a point in time.
type Snapshot struct {
	Label string // Human-readable description (e.g. "place")

	grid    *grid.Grid
	placed  []itemState
	carried *itemState
}

// History manages undo/redo stacks of session snapshots.
type History struct {
	undoStack []Snapshot
	redoStack []Snapshot
	maxDepth  int
}

// NewHistory creates a History with the default max depth of 50.
func NewHistory() *History {
	return &History{maxDepth: defaultMaxDepth}
}

// Push saves a snapshot onto the undo stack and clears the redo stack.
// This should be called with the state from before the modification.
func (h *History) Push(s Snapshot) {
	h.undoStack = append(h.undoStack, s)
	if len(h.undoStack) > h.maxDepth {
		h.undoStack = h.undoStack[len(h.undoStack)-h.maxDepth:]
	}
	h.redoStack = nil
}

// Undo pops the most recent snapshot from the undo stack and pushes
// current onto the redo stack. It returns false if there is nothing to undo.
func (h *History) Undo(current Snapshot) (Snapshot, bool) {
	if len(h.undoStack) == 0 {
		return Snapshot{}, false
	}
	last := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	h.redoStack = append(h.redoStack, current)
	return last, true
}

// Redo pops the most recent snapshot from the redo stack and pushes
// current onto the undo stack. It returns false if there is nothing to redo.
func (h *History) Redo(current Snapshot) (Snapshot, bool) {
	if len(h.redoStack) == 0 {
		return Snapshot{}, false
	}
	last := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	h.undoStack = append(h.undoStack, current)
	return last, true
}

func (h *History) CanUndo() bool { return len(h.undoStack) > 0 }
func (h *History) CanRedo() bool { return len(h.redoStack) > 0 }

// Clear removes all undo and redo history.
func (h *History) Clear() {
	h.undoStack = nil
	h.redoStack = nil
}

// takeSnapshot records g's placements and the carried item.
func takeSnapshot(g *grid.Grid, carried *grid.Item, label string) Snapshot {
	s := Snapshot{Label: label, grid: g}
	if g != nil {
		for _, p := range g.Placements() {
			s.placed = append(s.placed, itemState{item: p.Item, x: p.X, y: p.Y, rotated: p.Item.Rotated()})
		}
	}
	if carried != nil {
		s.carried = &itemState{item: carried, rotated: carried.Rotated()}
	}
	return s
}

// holds reports whether it is placed or carried in s.
func (s Snapshot) holds(it *grid.Item) bool {
	if s.carried != nil && s.carried.item == it {
		return true
	}
	for _, st := range s.placed {
		if st.item == it {
			return true
		}
	}
	return false
}

// setRotation turns an unplaced item until its rotation matches.
func setRotation(it *grid.Item, rotated bool) error {
	if it.Rotated() == rotated {
		return nil
	}
	return it.Rotate()
}

// restore empties g and re-places every recorded item as one transaction,
// then returns the recorded carried item with its rotation reapplied.
func (s Snapshot) restore(g *grid.Grid) (*grid.Item, error) {
	err := g.Tx(func(g *grid.Grid) error {
		for _, it := range g.Items() {
			if err := g.Remove(it); err != nil {
				return err
			}
		}
		for _, st := range s.placed {
			if err := setRotation(st.item, st.rotated); err != nil {
				return err
			}
			if _, err := g.Place(st.item, st.x, st.y); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil || s.carried == nil {
		return nil, err
	}
	if err := setRotation(s.carried.item, s.carried.rotated); err != nil {
		return nil, err
	}
	return s.carried.item, nil
}
