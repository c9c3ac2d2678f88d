// Package builder turns one resolved plan into one output case directory:
// clone the reference tree, apply every file's patches in order, write the
// result. In dry-run mode the same resolve-and-patch pipeline runs against
// content read straight from the reference tree, so the reported change set
// is computed by the identical code path that would write.
package builder

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/vk/sweepgen/internal/ctxlog"
	"github.com/vk/sweepgen/internal/fsutil"
	"github.com/vk/sweepgen/internal/patch"
	"github.com/vk/sweepgen/internal/resolve"
)

// Status classifies the outcome of one case build.
type Status string

const (
	StatusBuilt   Status = "built"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// Options selects the build mode. The default (both false) is strict
// no-overwrite: an existing destination skips the case.
type Options struct {
	DryRun    bool
	Overwrite bool
}

// FileChange captures one patched file's full before/after content plus the
// per-rule change records, for diff rendering.
type FileChange struct {
	Path    string
	Before  string
	After   string
	Changes []*patch.Change
}

// Result is the immutable outcome of one case build, aggregated by the
// batch orchestrator.
type Result struct {
	CaseName  string
	OutputDir string
	Status    Status
	Files     []*FileChange
	Err       error
}

// DestinationExistsError reports a case whose output directory already
// exists while overwrite mode is off.
type DestinationExistsError struct {
	CaseName string
	Dir      string
}

func (e *DestinationExistsError) Error() string {
	return fmt.Sprintf("case %q: destination already exists: %s", e.CaseName, e.Dir)
}

// TargetFileError reports a mapped file that is absent from the cloned case.
type TargetFileError struct {
	Path string
	Err  error
}

func (e *TargetFileError) Error() string {
	return fmt.Sprintf("mapped file %q not readable in case: %v", e.Path, e.Err)
}

func (e *TargetFileError) Unwrap() error { return e.Err }

// Builder builds cases from one reference tree into one output root.
type Builder struct {
	fs      *fsutil.Service
	refDir  string
	outRoot string
	opts    Options
}

// New creates a Builder. The reference tree is only ever read.
func New(fs *fsutil.Service, refDir, outRoot string, opts Options) *Builder {
	return &Builder{fs: fs, refDir: refDir, outRoot: outRoot, opts: opts}
}

// Build executes one plan. Per-case failures are captured in the Result,
// never propagated: one broken case must not stop the batch. On a mid-case
// failure the partially written directory is left in place and flagged
// Failed; inspect and delete rather than rely on rollback.
func (b *Builder) Build(ctx context.Context, plan *resolve.Plan) *Result {
	logger := ctxlog.FromContext(ctx)
	dest := filepath.Join(b.outRoot, plan.CaseName)
	result := &Result{CaseName: plan.CaseName, OutputDir: dest}

	exists, err := b.fs.Exists(ctx, dest)
	if err != nil {
		result.Status = StatusFailed
		result.Err = fmt.Errorf("failed to check destination %s: %w", dest, err)
		return result
	}
	if exists && !b.opts.Overwrite {
		// Checked in dry-run too, so a preview reports the same skip a
		// strict-mode build would.
		result.Status = StatusSkipped
		result.Err = &DestinationExistsError{CaseName: plan.CaseName, Dir: dest}
		return result
	}

	if b.opts.DryRun {
		return b.preview(ctx, plan, result)
	}

	if exists {
		logger.Debug("Removing existing destination before clone.", "dir", dest)
		if err := b.fs.RemoveTree(ctx, dest); err != nil {
			result.Status = StatusFailed
			result.Err = fmt.Errorf("failed to remove existing destination %s: %w", dest, err)
			return result
		}
	}

	if err := b.fs.CopyTree(ctx, b.refDir, dest); err != nil {
		result.Status = StatusFailed
		result.Err = fmt.Errorf("failed to clone reference tree into %s: %w", dest, err)
		return result
	}
	logger.Debug("Reference tree cloned.", "case", plan.CaseName, "dir", dest)

	for _, group := range plan.Files {
		change, err := b.patchFile(ctx, filepath.Join(dest, group.Path), group, true)
		if err != nil {
			result.Status = StatusFailed
			result.Err = err
			return result
		}
		result.Files = append(result.Files, change)
	}

	result.Status = StatusBuilt
	return result
}

// preview simulates the clone-and-patch sequence without touching anything
// outside the read-only reference tree.
func (b *Builder) preview(ctx context.Context, plan *resolve.Plan, result *Result) *Result {
	for _, group := range plan.Files {
		change, err := b.patchFile(ctx, filepath.Join(b.refDir, group.Path), group, false)
		if err != nil {
			result.Status = StatusFailed
			result.Err = err
			return result
		}
		result.Files = append(result.Files, change)
	}
	result.Status = StatusBuilt
	return result
}

// patchFile applies one file's patches in declaration order and optionally
// writes the result back.
func (b *Builder) patchFile(ctx context.Context, path string, group *resolve.FilePatches, write bool) (*FileChange, error) {
	data, err := b.fs.ReadFile(ctx, path)
	if err != nil {
		return nil, &TargetFileError{Path: group.Path, Err: err}
	}

	change := &FileChange{Path: group.Path, Before: string(data)}
	content := change.Before
	for _, resolved := range group.Patches {
		var rec *patch.Change
		content, rec, err = resolved.Apply(group.Path, content)
		if err != nil {
			return nil, err
		}
		change.Changes = append(change.Changes, rec)
	}
	change.After = content

	if write && change.After != change.Before {
		if err := b.fs.WriteFile(ctx, path, []byte(change.After)); err != nil {
			return nil, fmt.Errorf("failed to write patched file %s: %w", path, err)
		}
	}
	return change, nil
}
