// Package report renders the outcome of a run for the console: per-case
// status lines, counts, and — in dry-run or verbose mode — a classic
// unified diff of every file a case changes.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/vk/sweepgen/internal/batch"
	"github.com/vk/sweepgen/internal/builder"
)

// Options controls how much detail Render emits.
type Options struct {
	// Diffs includes a unified patch per changed file (dry-run and
	// verbose runs).
	Diffs bool

	// DryRun switches the wording to the conditional: nothing was
	// written, so cases "would build" rather than "built".
	DryRun bool

	// Context is the number of context lines per hunk. 0 means 3.
	Context int
}

// Render writes the run report. It never mutates the summary.
func Render(w io.Writer, summary *batch.Summary, opts Options) {
	for _, result := range summary.Results {
		renderCase(w, result, opts)
	}
	builtLabel := "built"
	if opts.DryRun {
		builtLabel = "would build"
	}
	fmt.Fprintf(w, "\n%d %s, %d skipped, %d failed\n", summary.Built, builtLabel, summary.Skipped, summary.Failed)

	if failures := summary.Failures(); len(failures) > 0 {
		fmt.Fprintln(w, "\nfailures:")
		for _, result := range failures {
			fmt.Fprintf(w, "  %s: %v\n", result.CaseName, result.Err)
		}
	}
}

// renderCase writes one case's status line plus optional change detail.
func renderCase(w io.Writer, result *builder.Result, opts Options) {
	switch result.Status {
	case builder.StatusBuilt:
		if opts.DryRun {
			fmt.Fprintf(w, "case %s: would build (%d files patched)\n", result.CaseName, len(result.Files))
		} else {
			fmt.Fprintf(w, "case %s: %s (%d files patched)\n", result.CaseName, result.Status, len(result.Files))
		}
	default:
		fmt.Fprintf(w, "case %s: %s: %v\n", result.CaseName, result.Status, result.Err)
	}

	if !opts.Diffs {
		return
	}
	for _, file := range result.Files {
		for _, change := range file.Changes {
			fmt.Fprintf(w, "  %s | %s (%d match(es))\n", file.Path, change.Rule, change.Matches)
		}
		if file.Before != file.After {
			fmt.Fprint(w, indent(Unified(file.Path, file.Before, file.After, opts.Context), "  "))
		}
	}
}

// Unified produces a classic unified patch (---/+++ headers, @@ hunks) for
// one changed file.
func Unified(path, before, after string, context int) string {
	if context <= 0 {
		context = 3
	}
	diff := difflib.UnifiedDiff{
		A:        splitLinesKeepNL(before),
		B:        splitLinesKeepNL(after),
		FromFile: "a/" + path,
		ToFile:   "b/" + path,
		Context:  context,
	}
	s, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return fmt.Sprintf("--- a/%s\n+++ b/%s\n@@ diff unavailable: %v\n", path, path, err)
	}
	return s
}

// splitLinesKeepNL splits into lines keeping the newline characters, which
// produces better unified hunks.
func splitLinesKeepNL(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.SplitAfter(s, "\n")
}

// indent prefixes every non-empty line of s.
func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}
