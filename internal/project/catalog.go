package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/piwi3910/gridstash/internal/importer"
	"github.com/piwi3910/gridstash/internal/model"
)

// SaveCatalog writes the catalog to the specified JSON file.
// It creates parent directories if they do not exist.
func SaveCatalog(path string, cat model.Catalog) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cat, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadCatalog reads a catalog from the specified JSON file and validates it.
func LoadCatalog(path string) (model.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Catalog{}, err
	}
	var cat model.Catalog
	if err := json.Unmarshal(data, &cat); err != nil {
		return model.Catalog{}, fmt.Errorf("failed to parse catalog %s: %w", path, err)
	}
	if err := cat.Validate(); err != nil {
		return model.Catalog{}, err
	}
	return cat, nil
}

// LoadCatalogAny loads a catalog from a JSON catalog file or imports one from
// a CSV, Excel or DXF file, chosen by extension. cellSize is the number of
// drawing units per grid cell for DXF input. Import warnings are returned
// alongside the catalog; any row error fails the load.
func LoadCatalogAny(path string, cellSize float64) (model.Catalog, []string, error) {
	var result importer.ImportResult
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		cat, err := LoadCatalog(path)
		return cat, nil, err
	case ".csv", ".txt":
		result = importer.ImportCSV(path)
	case ".xlsx", ".xls":
		result = importer.ImportExcel(path)
	case ".dxf":
		result = importer.ImportDXF(path, cellSize)
	default:
		return model.Catalog{}, nil, fmt.Errorf("unsupported catalog format %q", filepath.Ext(path))
	}

	if len(result.Errors) > 0 {
		return model.Catalog{}, result.Warnings, fmt.Errorf("import %s: %s", filepath.Base(path), strings.Join(result.Errors, "; "))
	}
	if len(result.Items) == 0 {
		return model.Catalog{}, result.Warnings, fmt.Errorf("import %s: no items found", filepath.Base(path))
	}
	return model.Catalog{Items: result.Items}, result.Warnings, nil
}
