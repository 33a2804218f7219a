package grid

import "math"

// Layout maps between a continuous surface (pointer positions, pixels) and
// integer cell coordinates. Origin is the surface position of the grid's
// top-left corner; y grows downward.
type Layout struct {
	OriginX    float64 `json:"origin_x" yaml:"origin_x"`
	OriginY    float64 `json:"origin_y" yaml:"origin_y"`
	TileWidth  float64 `json:"tile_width" yaml:"tile_width"`
	TileHeight float64 `json:"tile_height" yaml:"tile_height"`
}

// DefaultLayout uses 32x32 tiles anchored at the surface origin.
func DefaultLayout() Layout {
	return Layout{TileWidth: 32, TileHeight: 32}
}

// CellAt floor-divides a surface position into a cell coordinate. The result
// is not bounds-checked.
func (l Layout) CellAt(px, py float64) (x, y int) {
	x = int(math.Floor((px - l.OriginX) / l.TileWidth))
	y = int(math.Floor((py - l.OriginY) / l.TileHeight))
	return x, y
}

// CellCenter returns the surface position of the center of a w x h
// footprint anchored at cell (x, y).
func (l Layout) CellCenter(x, y, w, h int) (px, py float64) {
	px = l.OriginX + float64(x)*l.TileWidth + l.TileWidth*float64(w)/2
	py = l.OriginY + float64(y)*l.TileHeight + l.TileHeight*float64(h)/2
	return px, py
}

// Size returns the surface extent of a w x h cell footprint.
func (l Layout) Size(w, h int) (sw, sh float64) {
	return float64(w) * l.TileWidth, float64(h) * l.TileHeight
}
