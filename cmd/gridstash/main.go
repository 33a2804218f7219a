// gridstash - grid inventory packer
//
// Loads the application config and an item catalog, auto-packs one item
// per catalog entry into a fresh grid, logs a summary and optionally
// writes a layout PDF and QR item tags.
//
// Build:
//   go build -o gridstash ./cmd/gridstash
//
// Usage:
//   gridstash -catalog items.xlsx -width 12 -height 8 -pdf layout.pdf

package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/piwi3910/gridstash/internal/engine"
	"github.com/piwi3910/gridstash/internal/export"
	"github.com/piwi3910/gridstash/internal/grid"
	"github.com/piwi3910/gridstash/internal/model"
	"github.com/piwi3910/gridstash/internal/project"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "gridstash:", err)
		os.Exit(1)
	}
}

type options struct {
	configPath string
	catalog    string
	width      int
	height     int
	copies     int
	layoutPDF  string
	tagsPDF    string
	backup     string
	logLevel   string
	compare    bool
	print      bool
	saveConfig bool
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("gridstash", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.configPath, "config", project.DefaultConfigPath(), "path to the YAML config file")
	fs.StringVar(&o.catalog, "catalog", "", "catalog file (.json, .csv, .xlsx, .dxf); overrides config")
	fs.IntVar(&o.width, "width", 0, "grid width in cells; overrides config")
	fs.IntVar(&o.height, "height", 0, "grid height in cells; overrides config")
	fs.IntVar(&o.copies, "copies", 1, "items to pack per catalog entry")
	fs.StringVar(&o.layoutPDF, "pdf", "", "write a layout PDF to this path; overrides config")
	fs.StringVar(&o.tagsPDF, "tags", "", "write QR item tags to this path; overrides config")
	fs.StringVar(&o.backup, "backup", "", "write a config and catalog backup to this path")
	fs.StringVar(&o.logLevel, "log-level", "", "debug, info, warn or error; overrides config")
	fs.BoolVar(&o.compare, "compare", false, "compare pack strategies and log the results")
	fs.BoolVar(&o.print, "print", false, "print the packed grid as text")
	fs.BoolVar(&o.saveConfig, "save-config", false, "write the effective config back to -config")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if o.copies < 1 {
		return options{}, fmt.Errorf("-copies must be at least 1, got %d", o.copies)
	}
	return o, nil
}

// applyOverrides copies explicitly set flags onto the loaded config.
func (o options) applyOverrides(cfg *model.AppConfig) {
	if o.catalog != "" {
		cfg.CatalogPath = o.catalog
	}
	if o.width > 0 {
		cfg.GridWidth = o.width
	}
	if o.height > 0 {
		cfg.GridHeight = o.height
	}
	if o.layoutPDF != "" {
		cfg.LayoutPDFPath = o.layoutPDF
	}
	if o.tagsPDF != "" {
		cfg.TagsPDFPath = o.tagsPDF
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
}

func newLogger(w io.Writer, level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

func run(args []string, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	cfg, err := project.LoadAppConfig(opts.configPath)
	if err != nil {
		return err
	}
	opts.applyOverrides(&cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := newLogger(stderr, cfg.LogLevel)

	cat, err := loadCatalog(cfg, logger)
	if err != nil {
		return err
	}

	if opts.saveConfig {
		if err := project.SaveAppConfig(opts.configPath, cfg); err != nil {
			return fmt.Errorf("save config: %w", err)
		}
		logger.Info("config saved", slog.String("path", opts.configPath))
	}

	layout := grid.DefaultLayout()
	layout.TileWidth = cfg.TileWidth
	layout.TileHeight = cfg.TileHeight
	g, err := grid.New(cfg.GridWidth, cfg.GridHeight, grid.WithLayout(layout))
	if err != nil {
		return err
	}

	descs := make([]model.ItemDescriptor, 0, len(cat.Items)*opts.copies)
	for _, d := range cat.Items {
		for i := 0; i < opts.copies; i++ {
			descs = append(descs, d)
		}
	}

	res, errs := engine.New(cfg.Pack).PackDescriptors(g, descs)
	for _, e := range errs {
		logger.Warn("skipped catalog item", slog.Any("err", e))
	}
	logger.Info("packed grid",
		slog.String("grid", g.ID()),
		slog.Int("width", g.Width()),
		slog.Int("height", g.Height()),
		slog.String("strategy", cfg.Pack.Strategy.String()),
		slog.Int("placed", len(res.Placed)),
		slog.Int("unplaced", len(res.Unplaced)),
		slog.Int("rotated", res.Rotated),
		slog.String("fill", fmt.Sprintf("%.1f%%", g.FillRatio()*100)))
	for _, it := range res.Unplaced {
		logger.Debug("no room for item", slog.String("item", it.Name()), slog.Int("w", it.Width()), slog.Int("h", it.Height()))
	}

	if err := g.CheckInvariants(); err != nil {
		return fmt.Errorf("packed grid is inconsistent: %w", err)
	}

	if opts.print {
		fmt.Fprint(stdout, g.String())
	}

	if opts.compare {
		if err := compareStrategies(cfg, descs, logger); err != nil {
			return err
		}
	}

	return writeOutputs(cfg, opts, cat, g, res, logger)
}

func loadCatalog(cfg model.AppConfig, logger *slog.Logger) (model.Catalog, error) {
	if cfg.CatalogPath == "" {
		logger.Info("no catalog configured, using built-in catalog")
		return model.DefaultCatalog(), nil
	}
	cat, warnings, err := project.LoadCatalogAny(cfg.CatalogPath, cfg.DXFCellSize)
	for _, w := range warnings {
		logger.Debug("catalog import", slog.String("warning", w))
	}
	if err != nil {
		return model.Catalog{}, fmt.Errorf("load catalog: %w", err)
	}
	logger.Info("catalog loaded", slog.String("path", cfg.CatalogPath), slog.Int("items", len(cat.Items)))
	return cat, nil
}

func compareStrategies(cfg model.AppConfig, descs []model.ItemDescriptor, logger *slog.Logger) error {
	results, err := engine.CompareScenarios(cfg.GridWidth, cfg.GridHeight, descs, engine.BuildDefaultScenarios(cfg.Pack))
	if err != nil {
		return fmt.Errorf("compare: %w", err)
	}
	best := engine.Best(results)
	for i, r := range results {
		logger.Info("scenario",
			slog.String("name", r.Scenario.Name),
			slog.String("fill", fmt.Sprintf("%.1f%%", r.FillPercent)),
			slog.Int("unplaced", r.UnplacedCount),
			slog.Bool("best", i == best))
	}
	return nil
}

func writeOutputs(cfg model.AppConfig, opts options, cat model.Catalog, g *grid.Grid, res engine.Result, logger *slog.Logger) error {
	if cfg.LayoutPDFPath != "" {
		if err := export.ExportPDF(cfg.LayoutPDFPath, g, res.Unplaced); err != nil {
			return fmt.Errorf("export layout: %w", err)
		}
		logger.Info("layout written", slog.String("path", cfg.LayoutPDFPath))
	}
	if cfg.TagsPDFPath != "" {
		if err := export.ExportTags(cfg.TagsPDFPath, g); err != nil {
			return fmt.Errorf("export tags: %w", err)
		}
		logger.Info("tags written", slog.String("path", cfg.TagsPDFPath))
	}
	if opts.backup != "" {
		if err := project.ExportAllData(opts.backup, cfg, cat); err != nil {
			return err
		}
		logger.Info("backup written", slog.String("path", opts.backup))
	}
	return nil
}
