package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/davecgh/go-spew/spew"
	"github.com/vk/sweepgen/internal/ctxlog"
	"github.com/vk/sweepgen/internal/hcladapter"
	"github.com/vk/sweepgen/internal/jsonadapter"
	"github.com/vk/sweepgen/internal/mapping"
	"github.com/vk/sweepgen/internal/table"
)

// App encapsulates one batch invocation: the compiled rule set, the loaded
// parameter table, and the run configuration. All state is local to the
// invocation; nothing process-wide is mutated.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config
	rules  *mapping.RuleSet
	table  *table.Table
}

// NewApp is the constructor for the main application. It loads and fully
// validates the mapping document and the parameter table before returning;
// a malformed input is a startup error (panic, recovered by the CLI shell)
// and nothing is ever written for it.
func NewApp(outW io.Writer, cfg *Config) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	loader, err := loaderFor(cfg.MappingPath)
	if err != nil {
		panic(err)
	}
	doc, err := loader.Load(ctx, cfg.MappingPath)
	if err != nil {
		panic(fmt.Errorf("failed to load mapping document: %w", err))
	}

	rules, err := mapping.Compile(ctx, doc)
	if err != nil {
		panic(err)
	}
	logger.Debug("Mapping document compiled.", "dump", spew.Sdump(rules))

	tbl, err := table.Load(cfg.TablePath)
	if err != nil {
		panic(err)
	}
	logger.Debug("Parameter table loaded.", "rows", len(tbl.Rows), "columns", tbl.Columns)

	return &App{
		outW:   outW,
		logger: logger,
		config: cfg,
		rules:  rules,
		table:  tbl,
	}
}

// Rules returns the compiled rule set. This is primarily for testing.
func (a *App) Rules() *mapping.RuleSet {
	return a.rules
}

// loaderFor selects the mapping loader by file extension.
func loaderFor(path string) (mapping.Loader, error) {
	switch filepath.Ext(path) {
	case ".hcl":
		return hcladapter.NewLoader(), nil
	case ".json":
		return jsonadapter.NewLoader(), nil
	default:
		return nil, fmt.Errorf("unsupported mapping format %q: expected .hcl or .json", filepath.Ext(path))
	}
}
