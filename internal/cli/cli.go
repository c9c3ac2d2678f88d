package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/sweepgen/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("sweepgen", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
sweepgen - Generate parameterized simulation cases from a reference
directory and a CSV parameter sweep.

Usage:
  sweepgen --map mapping.hcl --table runs.csv --ref ref/ --out cases/ [options]

Options:
`)
		flagSet.PrintDefaults()
	}

	mapFlag := flagSet.String("map", "", "Path to the mapping document (.hcl or .json).")
	tableFlag := flagSet.String("table", "", "Path to the CSV parameter table.")
	refFlag := flagSet.String("ref", "", "Path to the reference case directory.")
	outFlag := flagSet.String("out", "", "Output root; one directory per case is created beneath it.")
	dryRunFlag := flagSet.Bool("dry-run", false, "Preview every change without writing any files.")
	overwriteFlag := flagSet.Bool("overwrite", false, "Replace existing case directories.")
	onlyFlag := flagSet.String("only", "", "Comma-separated case_name list; build only these rows.")
	verboseFlag := flagSet.Bool("verbose", false, "Emit per-rule change detail and diffs.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	if *mapFlag == "" && *tableFlag == "" && *refFlag == "" && *outFlag == "" {
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	var only []string
	for _, name := range strings.Split(*onlyFlag, ",") {
		if name = strings.TrimSpace(name); name != "" {
			only = append(only, name)
		}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		MappingPath: *mapFlag,
		TablePath:   *tableFlag,
		RefDir:      *refFlag,
		OutRoot:     *outFlag,
		DryRun:      *dryRunFlag,
		Overwrite:   *overwriteFlag,
		Verbose:     *verboseFlag,
		Only:        only,
		LogFormat:   logFormat,
		LogLevel:    logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.")
	return config, false, nil
}
