package report

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/sweepgen/internal/batch"
	"github.com/vk/sweepgen/internal/builder"
	"github.com/vk/sweepgen/internal/patch"
)

func sampleSummary() *batch.Summary {
	return &batch.Summary{
		Results: []*builder.Result{
			{
				CaseName: "run01",
				Status:   builder.StatusBuilt,
				Files: []*builder.FileChange{{
					Path:   "system/controlDict",
					Before: "endTime   5;\ndeltaT    0.005;\n",
					After:  "endTime   10;\ndeltaT    0.005;\n",
					Changes: []*patch.Change{{
						File:    "system/controlDict",
						Rule:    "key endTime = 10",
						Before:  "endTime   5;",
						After:   "endTime   10;",
						Matches: 1,
					}},
				}},
			},
			{
				CaseName: "run02",
				Status:   builder.StatusFailed,
				Err:      errors.New(`file "0/U": pattern "x" matched nothing`),
			},
		},
		Built:  1,
		Failed: 1,
	}
}

func TestRender(t *testing.T) {
	t.Parallel()

	t.Run("summary without diffs", func(t *testing.T) {
		var buf bytes.Buffer
		Render(&buf, sampleSummary(), Options{})

		out := buf.String()
		assert.Contains(t, out, "case run01: built (1 files patched)")
		assert.Contains(t, out, "case run02: failed")
		assert.Contains(t, out, "1 built, 0 skipped, 1 failed")
		assert.Contains(t, out, "failures:")
		assert.Contains(t, out, "run02:")
		assert.NotContains(t, out, "@@", "no hunks unless diffs are requested")
	})

	t.Run("dry-run uses conditional wording", func(t *testing.T) {
		var buf bytes.Buffer
		Render(&buf, sampleSummary(), Options{Diffs: true, DryRun: true})

		out := buf.String()
		assert.Contains(t, out, "case run01: would build (1 files patched)")
		assert.Contains(t, out, "1 would build, 0 skipped, 1 failed")
		assert.NotContains(t, out, "case run01: built", "a preview must not claim anything was written")
	})

	t.Run("diffs include unified markers", func(t *testing.T) {
		var buf bytes.Buffer
		Render(&buf, sampleSummary(), Options{Diffs: true})

		out := buf.String()
		assert.Contains(t, out, "--- a/system/controlDict")
		assert.Contains(t, out, "+++ b/system/controlDict")
		assert.Contains(t, out, "@@")
		assert.Contains(t, out, "-endTime   5;")
		assert.Contains(t, out, "+endTime   10;")
		assert.Contains(t, out, "key endTime = 10 (1 match(es))")
	})
}

func TestUnified(t *testing.T) {
	t.Parallel()

	diff := Unified("0/U", "a\nb\nc\n", "a\nB\nc\n", 0)
	require.NotEmpty(t, diff)
	assert.Contains(t, diff, "-b\n")
	assert.Contains(t, diff, "+B\n")
}
