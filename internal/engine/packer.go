package engine

import (
	"sort"

	"github.com/piwi3910/gridstash/internal/grid"
	"github.com/piwi3910/gridstash/internal/model"
)

// Packer auto-places unplaced items into free grid space.
type Packer struct {
	Settings model.PackSettings
}

func New(settings model.PackSettings) *Packer {
	return &Packer{Settings: settings}
}

// Result holds the outcome of one Pack call.
type Result struct {
	Placed   []*grid.Item
	Unplaced []*grid.Item
	Rotated  int // Items that only fit after rotation
}

// Pack inserts items one at a time with first-fit search. Items that are
// already placed are reported unplaced and left alone. With AllowRotation,
// an item that has no room is rotated and retried; if it still does not
// fit it is rotated back.
func (p *Packer) Pack(g *grid.Grid, items []*grid.Item) Result {
	result := Result{}

	for _, it := range p.order(items) {
		if it.Placed() {
			result.Unplaced = append(result.Unplaced, it)
			continue
		}
		if p.insert(g, it, &result) {
			result.Placed = append(result.Placed, it)
		} else {
			result.Unplaced = append(result.Unplaced, it)
		}
	}
	return result
}

func (p *Packer) insert(g *grid.Grid, it *grid.Item, result *Result) bool {
	if _, _, err := g.Insert(it); err == nil {
		return true
	}
	if !p.Settings.AllowRotation || it.Width() == it.Height() {
		return false
	}

	// The item is unplaced, so rotating it cannot desync the grid.
	if err := it.Rotate(); err != nil {
		return false
	}
	if _, _, err := g.Insert(it); err == nil {
		result.Rotated++
		return true
	}
	// Insert failed, so the item is still unplaced and turning it back
	// cannot fail.
	_ = it.Rotate()
	return false
}

// order returns the insertion sequence for the configured strategy
// without modifying the caller's slice.
func (p *Packer) order(items []*grid.Item) []*grid.Item {
	ordered := make([]*grid.Item, len(items))
	copy(ordered, items)

	if p.Settings.Strategy == model.StrategyLargestFirst {
		// Largest first packs tighter; stable keeps ties in caller order.
		sort.SliceStable(ordered, func(i, j int) bool {
			return ordered[i].Area() > ordered[j].Area()
		})
	}
	return ordered
}

// PackDescriptors creates one item per descriptor and packs them into g.
// Descriptors with invalid dimensions are skipped and returned as errors.
func (p *Packer) PackDescriptors(g *grid.Grid, descs []model.ItemDescriptor) (Result, []error) {
	var errs []error
	items := make([]*grid.Item, 0, len(descs))
	for _, d := range descs {
		it, err := grid.NewItem(d)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		items = append(items, it)
	}
	return p.Pack(g, items), errs
}
