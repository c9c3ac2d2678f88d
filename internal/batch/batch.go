// Package batch orchestrates a whole run: pre-build validation of the
// parameter table and selection, then one sequential case build per row.
// Validation problems abort before anything is written; once building
// starts, a broken case is recorded and the batch moves on.
package batch

import (
	"context"
	"fmt"
	"strings"

	"github.com/vk/sweepgen/internal/builder"
	"github.com/vk/sweepgen/internal/ctxlog"
	"github.com/vk/sweepgen/internal/resolve"
	"github.com/vk/sweepgen/internal/table"
)

// DuplicateCaseNameError reports case names shared by more than one row.
// Duplicates are fatal before any build: silently overwriting a sibling
// row's output would be far worse than stopping.
type DuplicateCaseNameError struct {
	Names []string
}

func (e *DuplicateCaseNameError) Error() string {
	return fmt.Sprintf("duplicate case_name values in parameter table: %s", strings.Join(e.Names, ", "))
}

// UnknownSelectionError reports --only names absent from the table.
type UnknownSelectionError struct {
	Names []string
}

func (e *UnknownSelectionError) Error() string {
	return fmt.Sprintf("selection names not present in parameter table: %s", strings.Join(e.Names, ", "))
}

// Summary aggregates the immutable per-case results of one run.
type Summary struct {
	Results []*builder.Result
	Built   int
	Skipped int
	Failed  int
}

// Failures returns the results that did not build cleanly, in run order.
// Skips count as failures here: a skipped case means requested output was
// not produced.
func (s *Summary) Failures() []*builder.Result {
	var failures []*builder.Result
	for _, r := range s.Results {
		if r.Status != builder.StatusBuilt {
			failures = append(failures, r)
		}
	}
	return failures
}

// Orchestrator drives the run. Cases are built one at a time in input-row
// order; they share only the read-only reference tree, so there is nothing
// to lock.
type Orchestrator struct {
	resolver *resolve.Resolver
	builder  *builder.Builder
}

// New creates an Orchestrator.
func New(resolver *resolve.Resolver, b *builder.Builder) *Orchestrator {
	return &Orchestrator{resolver: resolver, builder: b}
}

// Run validates the table and selection, then builds every selected row.
// The returned error is non-nil only for pre-build validation failures;
// per-case outcomes live in the Summary.
func (o *Orchestrator) Run(ctx context.Context, tbl *table.Table, only []string) (*Summary, error) {
	logger := ctxlog.FromContext(ctx)

	if err := checkUniqueNames(tbl); err != nil {
		return nil, err
	}
	rows, err := selectRows(tbl, only)
	if err != nil {
		return nil, err
	}
	logger.Debug("Pre-build validation passed.", "rows", len(tbl.Rows), "selected", len(rows))

	summary := &Summary{}
	for _, row := range rows {
		result := o.buildRow(ctx, row)
		summary.Results = append(summary.Results, result)
		switch result.Status {
		case builder.StatusBuilt:
			summary.Built++
		case builder.StatusSkipped:
			summary.Skipped++
		case builder.StatusFailed:
			summary.Failed++
		}
		if result.Err != nil {
			logger.Error("Case did not build.", "case", result.CaseName, "status", result.Status, "error", result.Err)
		} else {
			logger.Info("Case processed.", "case", result.CaseName, "status", result.Status)
		}
	}
	return summary, nil
}

// buildRow resolves and builds one row. A row that cannot be resolved
// (missing column) is reported as a failed case, not a batch abort.
func (o *Orchestrator) buildRow(ctx context.Context, row *table.Row) *builder.Result {
	plan, err := o.resolver.Resolve(row)
	if err != nil {
		return &builder.Result{
			CaseName: row.CaseName,
			Status:   builder.StatusFailed,
			Err:      err,
		}
	}
	return o.builder.Build(ctx, plan)
}

// checkUniqueNames rejects the whole run when two rows share a case_name.
func checkUniqueNames(tbl *table.Table) error {
	seen := make(map[string]bool, len(tbl.Rows))
	dup := make(map[string]bool)
	var dups []string
	for _, row := range tbl.Rows {
		if seen[row.CaseName] && !dup[row.CaseName] {
			dup[row.CaseName] = true
			dups = append(dups, row.CaseName)
		}
		seen[row.CaseName] = true
	}
	if len(dups) > 0 {
		return &DuplicateCaseNameError{Names: dups}
	}
	return nil
}

// selectRows applies the --only filter, preserving input-row order.
func selectRows(tbl *table.Table, only []string) ([]*table.Row, error) {
	if len(only) == 0 {
		return tbl.Rows, nil
	}

	wanted := make(map[string]bool, len(only))
	for _, name := range only {
		wanted[name] = true
	}

	var rows []*table.Row
	for _, row := range tbl.Rows {
		if wanted[row.CaseName] {
			rows = append(rows, row)
			delete(wanted, row.CaseName)
		}
	}

	if len(wanted) > 0 {
		var missing []string
		for _, name := range only {
			if wanted[name] {
				missing = append(missing, name)
			}
		}
		return nil, &UnknownSelectionError{Names: missing}
	}
	return rows, nil
}
