package app

import (
	"context"
	"fmt"

	"github.com/vk/sweepgen/internal/batch"
	"github.com/vk/sweepgen/internal/builder"
	"github.com/vk/sweepgen/internal/ctxlog"
	"github.com/vk/sweepgen/internal/fsutil"
	"github.com/vk/sweepgen/internal/report"
	"github.com/vk/sweepgen/internal/resolve"
)

// Run executes the batch: one case per selected row, sequentially, in input
// order. It returns a non-nil error when pre-build validation fails or when
// at least one case did not build, so automated pipelines see the failure.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	b := builder.New(fsutil.New(), a.config.RefDir, a.config.OutRoot, builder.Options{
		DryRun:    a.config.DryRun,
		Overwrite: a.config.Overwrite,
	})
	orchestrator := batch.New(resolve.NewResolver(a.rules), b)

	if a.config.DryRun {
		a.logger.Info("Dry run: no files will be written.")
	}
	summary, err := orchestrator.Run(ctx, a.table, a.config.Only)
	if err != nil {
		return err
	}

	report.Render(a.outW, summary, report.Options{
		Diffs:  a.config.DryRun || a.config.Verbose,
		DryRun: a.config.DryRun,
	})

	if failed := len(summary.Failures()); failed > 0 {
		return fmt.Errorf("completed with %d case(s) not built", failed)
	}
	a.logger.Debug("App.Run method finished.")
	return nil
}
