package builder

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/sweepgen/internal/fsutil"
	"github.com/vk/sweepgen/internal/mapping"
	"github.com/vk/sweepgen/internal/resolve"
	"github.com/vk/sweepgen/internal/table"
)

// newRefTree lays out a small reference case on disk.
func newRefTree(t *testing.T) string {
	t.Helper()
	ref := filepath.Join(t.TempDir(), "ref")
	files := map[string]string{
		"system/controlDict": "endTime     5;\ndeltaT      0.005;\n",
		"0/U":                "internalField   uniform (0 0 0);\n",
		"constant/notes.txt": "do not touch\n",
	}
	for rel, content := range files {
		path := filepath.Join(ref, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return ref
}

// newPlan runs the real compile-and-resolve pipeline for one row.
func newPlan(t *testing.T, caseName string) *resolve.Plan {
	t.Helper()
	doc := &mapping.Document{
		Files: []*mapping.FileSpec{
			{
				Path:    "system/controlDict",
				Updates: []*mapping.UpdateSpec{{Type: "key", Key: "endTime"}},
			},
			{
				Path: "0/U",
				Updates: []*mapping.UpdateSpec{{
					Type:        "regex",
					Pattern:     `(?m)^(\s*internalField\s+uniform\s+).+?\s*;`,
					Replacement: "${1}(0 0 {U0});",
					Params:      map[string]string{"U0": "U0"},
				}},
			},
		},
	}
	set, err := mapping.Compile(context.Background(), doc)
	require.NoError(t, err)

	csvPath := filepath.Join(t.TempDir(), "runs.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("case_name,endTime,U0\n"+caseName+",10,0.1\n"), 0o600))
	tbl, err := table.Load(csvPath)
	require.NoError(t, err)

	plan, err := resolve.NewResolver(set).Resolve(tbl.Rows[0])
	require.NoError(t, err)
	return plan
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestBuilder_Build(t *testing.T) {
	t.Parallel()

	ref := newRefTree(t)
	out := t.TempDir()
	b := New(fsutil.New(), ref, out, Options{})

	result := b.Build(context.Background(), newPlan(t, "run01"))
	require.NoError(t, result.Err)
	require.Equal(t, StatusBuilt, result.Status)

	dest := filepath.Join(out, "run01")
	assert.Equal(t, dest, result.OutputDir)
	assert.Equal(t, "endTime     10;\ndeltaT      0.005;\n", readFile(t, filepath.Join(dest, "system/controlDict")))
	assert.Equal(t, "internalField   uniform (0 0 0.1);\n", readFile(t, filepath.Join(dest, "0/U")))
	assert.Equal(t, "do not touch\n", readFile(t, filepath.Join(dest, "constant/notes.txt")),
		"unmapped files must be cloned verbatim")

	refFiles, err := fsutil.RelativeFiles(ref)
	require.NoError(t, err)
	destFiles, err := fsutil.RelativeFiles(dest)
	require.NoError(t, err)
	assert.Equal(t, refFiles, destFiles, "the clone must mirror the reference tree")
}

func TestBuilder_DryRun(t *testing.T) {
	t.Parallel()

	ref := newRefTree(t)
	out := filepath.Join(t.TempDir(), "cases")

	dry := New(fsutil.New(), ref, out, Options{DryRun: true}).Build(context.Background(), newPlan(t, "run01"))
	require.NoError(t, dry.Err)
	require.Equal(t, StatusBuilt, dry.Status)

	_, err := os.Stat(out)
	assert.True(t, os.IsNotExist(err), "dry-run must not create the output root")

	// The dry-run change set must be identical to what a real build produces.
	buildOut := t.TempDir()
	built := New(fsutil.New(), ref, buildOut, Options{}).Build(context.Background(), newPlan(t, "run01"))
	require.NoError(t, built.Err)
	assert.Equal(t, built.Files, dry.Files)
}

func TestBuilder_DryRunReportsExistingDestination(t *testing.T) {
	t.Parallel()

	ref := newRefTree(t)
	out := t.TempDir()
	dest := filepath.Join(out, "run01")
	require.NoError(t, os.MkdirAll(dest, 0o755))
	sentinel := filepath.Join(dest, "precious.txt")
	require.NoError(t, os.WriteFile(sentinel, []byte("keep me\n"), 0o644))

	dry := New(fsutil.New(), ref, out, Options{DryRun: true}).Build(context.Background(), newPlan(t, "run01"))

	require.Equal(t, StatusSkipped, dry.Status, "a preview must report the skip a strict build would hit")
	var existsErr *DestinationExistsError
	require.ErrorAs(t, dry.Err, &existsErr)
	assert.Empty(t, dry.Files, "no change set for a case that would not build")
	assert.Equal(t, "keep me\n", readFile(t, sentinel))

	// Per-case outcome matches the real strict-mode run.
	strict := New(fsutil.New(), ref, out, Options{}).Build(context.Background(), newPlan(t, "run01"))
	assert.Equal(t, strict.Status, dry.Status)
	assert.Equal(t, strict.Err, dry.Err)
}

func TestBuilder_OverwriteProtection(t *testing.T) {
	t.Parallel()

	ref := newRefTree(t)
	out := t.TempDir()
	dest := filepath.Join(out, "run01")
	require.NoError(t, os.MkdirAll(dest, 0o755))
	sentinel := filepath.Join(dest, "precious.txt")
	require.NoError(t, os.WriteFile(sentinel, []byte("keep me\n"), 0o644))

	result := New(fsutil.New(), ref, out, Options{}).Build(context.Background(), newPlan(t, "run01"))

	require.Equal(t, StatusSkipped, result.Status)
	var existsErr *DestinationExistsError
	require.ErrorAs(t, result.Err, &existsErr)
	assert.Equal(t, "run01", existsErr.CaseName)

	assert.Equal(t, "keep me\n", readFile(t, sentinel), "existing contents must be untouched")
}

func TestBuilder_Overwrite(t *testing.T) {
	t.Parallel()

	ref := newRefTree(t)
	out := t.TempDir()
	dest := filepath.Join(out, "run01")
	require.NoError(t, os.MkdirAll(dest, 0o755))
	stale := filepath.Join(dest, "stale.txt")
	require.NoError(t, os.WriteFile(stale, []byte("old run\n"), 0o644))

	result := New(fsutil.New(), ref, out, Options{Overwrite: true}).Build(context.Background(), newPlan(t, "run01"))
	require.NoError(t, result.Err)
	require.Equal(t, StatusBuilt, result.Status)

	_, err := os.Stat(stale)
	assert.True(t, os.IsNotExist(err), "overwrite must replace the whole destination")
	assert.Equal(t, "endTime     10;\ndeltaT      0.005;\n", readFile(t, filepath.Join(dest, "system/controlDict")))
}

func TestBuilder_Failures(t *testing.T) {
	t.Parallel()

	t.Run("mapped file missing from case", func(t *testing.T) {
		ref := newRefTree(t)
		require.NoError(t, os.Remove(filepath.Join(ref, "0/U")))

		result := New(fsutil.New(), ref, t.TempDir(), Options{}).Build(context.Background(), newPlan(t, "run01"))

		require.Equal(t, StatusFailed, result.Status)
		var targetErr *TargetFileError
		require.ErrorAs(t, result.Err, &targetErr)
		assert.Equal(t, "0/U", targetErr.Path)
	})

	t.Run("patch failure flags the case, no rollback", func(t *testing.T) {
		ref := newRefTree(t)
		// Break the key rule's target so the first file fails mid-case.
		require.NoError(t, os.WriteFile(filepath.Join(ref, "system/controlDict"), []byte("writeControl timeStep;\n"), 0o644))
		out := t.TempDir()

		result := New(fsutil.New(), ref, out, Options{}).Build(context.Background(), newPlan(t, "run01"))

		require.Equal(t, StatusFailed, result.Status)
		require.Error(t, result.Err)
		_, err := os.Stat(filepath.Join(out, "run01"))
		assert.NoError(t, err, "the partially written directory is left for inspection")
	})
}
