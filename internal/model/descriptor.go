package model

import "github.com/google/uuid"

// ItemDescriptor is an immutable catalog record for a kind of item.
// Width and Height are the base footprint in grid cells.
type ItemDescriptor struct {
	ID     string `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	Width  int    `json:"width" yaml:"width"`
	Height int    `json:"height" yaml:"height"`
	Icon   string `json:"icon,omitempty" yaml:"icon,omitempty"` // Opaque reference for the presentation layer
}

func NewItemDescriptor(name string, w, h int, icon string) ItemDescriptor {
	return ItemDescriptor{
		ID:     uuid.New().String()[:8],
		Name:   name,
		Width:  w,
		Height: h,
		Icon:   icon,
	}
}

// Area returns the number of cells covered by the base footprint.
func (d ItemDescriptor) Area() int {
	return d.Width * d.Height
}

// Valid reports whether both footprint dimensions are positive.
func (d ItemDescriptor) Valid() bool {
	return d.Width > 0 && d.Height > 0
}

// Strategy selects the order in which the auto-packer inserts items.
type Strategy string

const (
	StrategyInsertion    Strategy = "insertion"     // Keep the caller's order
	StrategyLargestFirst Strategy = "largest-first" // Area descending, stable
)

func (s Strategy) String() string {
	switch s {
	case StrategyLargestFirst:
		return "Largest first"
	default:
		return "Insertion order"
	}
}

// PackSettings holds auto-pack configuration.
type PackSettings struct {
	Strategy      Strategy `json:"strategy" yaml:"strategy"`
	AllowRotation bool     `json:"allow_rotation" yaml:"allow_rotation"` // Retry rotated when the base orientation has no room
}

func DefaultPackSettings() PackSettings {
	return PackSettings{
		Strategy:      StrategyLargestFirst,
		AllowRotation: true,
	}
}
