package app

import "errors"

// Config holds everything an App instance needs to run one batch.
type Config struct {
	MappingPath string // .hcl or .json mapping document
	TablePath   string // CSV parameter table
	RefDir      string // reference case directory (read-only)
	OutRoot     string // output root, one subdirectory per case

	DryRun    bool
	Overwrite bool
	Verbose   bool
	Only      []string // optional case_name selection

	LogFormat string
	LogLevel  string
}

// NewConfig validates the required fields of a Config.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.MappingPath == "" {
		return nil, errors.New("a mapping document path is required")
	}
	if cfg.TablePath == "" {
		return nil, errors.New("a parameter table path is required")
	}
	if cfg.RefDir == "" {
		return nil, errors.New("a reference case directory is required")
	}
	if cfg.OutRoot == "" {
		return nil, errors.New("an output directory is required")
	}
	if cfg.DryRun && cfg.Overwrite {
		return nil, errors.New("--dry-run and --overwrite are mutually exclusive")
	}
	return &cfg, nil
}
