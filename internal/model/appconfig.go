package model

import (
	"fmt"
	"strings"
)

// AppConfig holds application-wide preferences for a gridstash run.
type AppConfig struct {
	// Grid geometry in cells and the on-screen tile size used for pointer mapping
	GridWidth  int     `yaml:"grid_width" json:"grid_width"`
	GridHeight int     `yaml:"grid_height" json:"grid_height"`
	TileWidth  float64 `yaml:"tile_width" json:"tile_width"`
	TileHeight float64 `yaml:"tile_height" json:"tile_height"`

	// Catalog source (.json, .csv, .xlsx or .dxf) and DXF drawing units per cell
	CatalogPath string  `yaml:"catalog_path" json:"catalog_path"`
	DXFCellSize float64 `yaml:"dxf_cell_size" json:"dxf_cell_size"`

	Pack PackSettings `yaml:"pack" json:"pack"`

	LogLevel string `yaml:"log_level" json:"log_level"` // "debug", "info", "warn", "error"

	// Optional export targets, empty = skip
	LayoutPDFPath string `yaml:"layout_pdf_path" json:"layout_pdf_path"`
	TagsPDFPath   string `yaml:"tags_pdf_path" json:"tags_pdf_path"`
}

// DefaultAppConfig returns an AppConfig with the 20x10 grid and 32px tiles
// used by the reference inventory screen.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		GridWidth:   20,
		GridHeight:  10,
		TileWidth:   32,
		TileHeight:  32,
		DXFCellSize: 10,
		Pack:        DefaultPackSettings(),
		LogLevel:    "info",
	}
}

// Validate reports the first invalid setting.
func (c AppConfig) Validate() error {
	if c.GridWidth <= 0 || c.GridHeight <= 0 {
		return fmt.Errorf("grid size must be positive, got %dx%d", c.GridWidth, c.GridHeight)
	}
	if c.TileWidth <= 0 || c.TileHeight <= 0 {
		return fmt.Errorf("tile size must be positive, got %gx%g", c.TileWidth, c.TileHeight)
	}
	switch c.Pack.Strategy {
	case "", StrategyInsertion, StrategyLargestFirst:
	default:
		return fmt.Errorf("unknown pack strategy %q", c.Pack.Strategy)
	}
	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	return nil
}
