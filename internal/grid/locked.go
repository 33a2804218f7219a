package grid

import "sync"

// Locked serializes access to a Grid. Each method is one critical section,
// so a swap (clear the displaced item, then write the new footprint) is
// never observed half-done. Items being carried belong to their carrier
// and are not guarded.
type Locked struct {
	mu sync.Mutex
	g  *Grid
}

// NewLocked wraps g. The caller must stop using g directly.
func NewLocked(g *Grid) *Locked {
	return &Locked{g: g}
}

// Do runs fn while holding the grid lock.
func (l *Locked) Do(fn func(*Grid) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return fn(l.g)
}

// Tx runs fn as a transaction while holding the grid lock.
func (l *Locked) Tx(fn func(*Grid) error) error {
	return l.Do(func(g *Grid) error {
		return g.Tx(fn)
	})
}

func (l *Locked) Place(item *Item, x, y int) (*Item, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.g.Place(item, x, y)
}

func (l *Locked) PickUp(x, y int) (*Item, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.g.PickUp(x, y)
}

func (l *Locked) Query(x, y int) (*Item, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.g.Query(x, y)
}

func (l *Locked) Insert(item *Item) (x, y int, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.g.Insert(item)
}

// Placements returns a consistent snapshot of the grid contents.
func (l *Locked) Placements() []Placement {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.g.Placements()
}
