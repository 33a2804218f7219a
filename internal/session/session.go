// Package session implements the interaction layer around a grid: one
// actor that focuses a grid, carries at most one item, and turns pointer
// clicks into place and pick-up requests.
package session

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/piwi3910/gridstash/internal/grid"
	"github.com/piwi3910/gridstash/internal/model"
)

var (
	ErrNoFocus         = errors.New("no grid focused")
	ErrAlreadyCarrying = errors.New("already carrying an item")
	ErrNothingCarried  = errors.New("not carrying an item")
	ErrNothingToUndo   = errors.New("nothing to undo")
	ErrNothingToRedo   = errors.New("nothing to redo")
)

// Action describes what a click did.
type Action int

const (
	ActionNone     Action = iota // Click landed outside the grid or on an empty cell
	ActionPickedUp               // Picked up the item under the cursor
	ActionPlaced                 // Placed the carried item
	ActionSwapped                // Placed the carried item and picked up the displaced one
	ActionRejected               // Placement refused; still carrying the same item
)

func (a Action) String() string {
	switch a {
	case ActionPickedUp:
		return "picked-up"
	case ActionPlaced:
		return "placed"
	case ActionSwapped:
		return "swapped"
	case ActionRejected:
		return "rejected"
	default:
		return "none"
	}
}

// Outcome reports the result of a Click.
type Outcome struct {
	Action Action
	X, Y   int        // Target cell
	Item   *grid.Item // The item that changed hands, if any
	Err    error      // Reason for ActionRejected
}

// Highlight is the footprint a presentation layer should outline, in cells.
type Highlight struct {
	Visible bool
	X, Y    int
	Width   int
	Height  int
}

// Session holds the focused grid, the carried item and the undo history of
// grid-changing actions.
type Session struct {
	focused *grid.Grid
	carried *grid.Item
	history *History
	logger  *slog.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger for interaction events.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

func New(opts ...Option) *Session {
	s := &Session{history: NewHistory(), logger: slog.Default()}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Focus sets the grid under the pointer. Passing nil clears focus.
// Switching to a different grid discards the undo history.
func (s *Session) Focus(g *grid.Grid) {
	if g != s.focused {
		s.history.Clear()
	}
	s.focused = g
	if g != nil {
		s.logger.Debug("grid focused", slog.String("grid", g.ID()))
	}
}

func (s *Session) Focused() *grid.Grid { return s.focused }
func (s *Session) Carried() *grid.Item { return s.carried }

// Spawn creates a new item from desc and carries it.
func (s *Session) Spawn(desc model.ItemDescriptor) (*grid.Item, error) {
	if s.carried != nil {
		return nil, ErrAlreadyCarrying
	}
	it, err := grid.NewItem(desc)
	if err != nil {
		return nil, err
	}
	s.carried = it
	s.logger.Debug("item spawned", slog.String("item", it.ID()), slog.String("name", desc.Name))
	return it, nil
}

// Carry hands an existing unplaced item to the session.
func (s *Session) Carry(it *grid.Item) error {
	if it == nil {
		return grid.ErrNilItem
	}
	if s.carried != nil {
		return ErrAlreadyCarrying
	}
	if it.Placed() {
		return fmt.Errorf("carry item %s: %w", it.ID(), grid.ErrAlreadyPlaced)
	}
	s.carried = it
	return nil
}

// Drop releases the carried item without placing it.
func (s *Session) Drop() *grid.Item {
	it := s.carried
	s.carried = nil
	return it
}

// Rotate rotates the carried item. It does nothing when empty-handed.
func (s *Session) Rotate() error {
	if s.carried == nil {
		return nil
	}
	if err := s.carried.Rotate(); err != nil {
		return err
	}
	s.logger.Debug("item rotated", slog.String("item", s.carried.ID()), slog.Bool("rotated", s.carried.Rotated()))
	return nil
}

// target maps a pointer position to the cell a click refers to. While
// carrying, the position is shifted by half the item's footprint so the
// item lands centered under the cursor.
func (s *Session) target(px, py float64) (x, y int) {
	if s.carried != nil {
		l := s.focused.Layout()
		px -= float64(s.carried.Width()-1) * l.TileWidth / 2
		py -= float64(s.carried.Height()-1) * l.TileHeight / 2
	}
	return s.focused.CellAt(px, py)
}

// Click picks up the item under the pointer when empty-handed, or places
// the carried item there. A successful swap leaves the displaced item
// carried.
func (s *Session) Click(px, py float64) (Outcome, error) {
	if s.focused == nil {
		return Outcome{}, ErrNoFocus
	}
	x, y := s.target(px, py)
	out := Outcome{X: x, Y: y}

	if s.carried == nil {
		if !s.focused.InBounds(x, y) {
			return out, nil
		}
		snap := s.snapshot("pick up")
		it, err := s.focused.PickUp(x, y)
		if err != nil {
			return out, err
		}
		if it == nil {
			return out, nil
		}
		s.history.Push(snap)
		s.carried = it
		out.Action = ActionPickedUp
		out.Item = it
		s.logger.Debug("item picked up", slog.String("item", it.ID()), slog.Int("x", x), slog.Int("y", y))
		return out, nil
	}

	placing := s.carried
	snap := s.snapshot("place")
	displaced, err := s.focused.Place(placing, x, y)
	if err != nil {
		if errors.Is(err, grid.ErrOutOfBounds) || errors.Is(err, grid.ErrAmbiguousOverlap) {
			out.Action = ActionRejected
			out.Item = placing
			out.Err = err
			s.logger.Debug("placement rejected", slog.String("item", placing.ID()), slog.Int("x", x), slog.Int("y", y), slog.Any("err", err))
			return out, nil
		}
		return out, err
	}

	s.history.Push(snap)
	s.carried = displaced
	out.Action = ActionPlaced
	out.Item = placing
	if displaced != nil {
		out.Action = ActionSwapped
		out.Item = displaced
	}
	s.logger.Debug("item placed",
		slog.String("item", placing.ID()),
		slog.Int("x", x),
		slog.Int("y", y),
		slog.Bool("swapped", displaced != nil))
	return out, nil
}

// InsertCarried places the carried item at the first free position of the
// focused grid.
func (s *Session) InsertCarried() (x, y int, err error) {
	if s.focused == nil {
		return 0, 0, ErrNoFocus
	}
	if s.carried == nil {
		return 0, 0, ErrNothingCarried
	}
	snap := s.snapshot("insert")
	x, y, err = s.focused.Insert(s.carried)
	if err != nil {
		return 0, 0, err
	}
	s.history.Push(snap)
	s.logger.Debug("item inserted", slog.String("item", s.carried.ID()), slog.Int("x", x), slog.Int("y", y))
	s.carried = nil
	return x, y, nil
}

// SpawnAndInsert creates an item and inserts it into the focused grid
// without carrying it. The current carried item is untouched.
func (s *Session) SpawnAndInsert(desc model.ItemDescriptor) (*grid.Item, error) {
	if s.focused == nil {
		return nil, ErrNoFocus
	}
	it, err := grid.NewItem(desc)
	if err != nil {
		return nil, err
	}
	snap := s.snapshot("spawn and insert")
	if _, _, err := s.focused.Insert(it); err != nil {
		return nil, err
	}
	s.history.Push(snap)
	return it, nil
}

func (s *Session) snapshot(label string) Snapshot {
	return takeSnapshot(s.focused, s.carried, label)
}

func (s *Session) CanUndo() bool { return s.history.CanUndo() }
func (s *Session) CanRedo() bool { return s.history.CanRedo() }

// Undo reverts the most recent grid-changing action, restoring both the
// focused grid and the carried item. It returns the undone action's label.
func (s *Session) Undo() (string, error) {
	if s.focused == nil {
		return "", ErrNoFocus
	}
	snap, ok := s.history.Undo(s.snapshot("undo"))
	if !ok {
		return "", ErrNothingToUndo
	}
	if err := s.apply(snap); err != nil {
		s.history.Redo(snap)
		return "", err
	}
	s.logger.Debug("undo", slog.String("action", snap.Label))
	return snap.Label, nil
}

// Redo reapplies the most recently undone action.
func (s *Session) Redo() error {
	if s.focused == nil {
		return ErrNoFocus
	}
	snap, ok := s.history.Redo(s.snapshot("redo"))
	if !ok {
		return ErrNothingToRedo
	}
	if err := s.apply(snap); err != nil {
		s.history.Undo(snap)
		return err
	}
	s.logger.Debug("redo")
	return nil
}

func (s *Session) apply(snap Snapshot) error {
	if snap.grid != s.focused {
		return fmt.Errorf("restore %q: snapshot belongs to another grid", snap.Label)
	}
	prev := s.carried
	kept := prev != nil && !prev.Placed() && !snap.holds(prev)
	if kept && snap.carried != nil {
		return fmt.Errorf("restore %q: %w", snap.Label, ErrAlreadyCarrying)
	}
	carried, err := snap.restore(s.focused)
	if err != nil {
		return fmt.Errorf("restore %q: %w", snap.Label, err)
	}
	// An item spawned after the snapshot stays in hand.
	if kept {
		carried = prev
	}
	s.carried = carried
	return nil
}

// Hover computes the highlight for the pointer position: the occupant's
// footprint when empty-handed, or the carried item's would-be footprint,
// visible only while it fits inside the grid.
func (s *Session) Hover(px, py float64) Highlight {
	if s.focused == nil {
		return Highlight{}
	}
	x, y := s.target(px, py)

	if s.carried == nil {
		if !s.focused.InBounds(x, y) {
			return Highlight{}
		}
		it, _ := s.focused.Query(x, y)
		if it == nil {
			return Highlight{}
		}
		ax, ay, _ := it.Anchor()
		return Highlight{Visible: true, X: ax, Y: ay, Width: it.Width(), Height: it.Height()}
	}

	w, h := s.carried.Width(), s.carried.Height()
	return Highlight{
		Visible: s.focused.FootprintInBounds(x, y, w, h),
		X:       x,
		Y:       y,
		Width:   w,
		Height:  h,
	}
}
