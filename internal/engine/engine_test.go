package engine

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ins-amu/veplut/internal/state"
	"github.com/ins-amu/veplut/internal/testutil"
	"github.com/ins-amu/veplut/pkg/compile"
)

const testRefLUT = `# FreeSurfer excerpt
  0  Unknown                  0   0   0  0
 17  Left-Hippocampus       220  16  16  0
 18  Left-Amygdala          103 255 255  0
 53  Right-Hippocampus      220  16  16  0
 54  Right-Amygdala         103 255 255  0
1024 ctx-lh-precentral       60  20 220  0
2024 ctx-rh-precentral       60  20 220  0
`

const testRules = `merge ctx-%h-precentral %H-Precentral
`

const testRegions = `1 Precentral    60  20 220 0
0 Hippocampus  220  16  16 0
0 Amygdala     103 255 255 0
`

// writeInputs lays out a full input/output workspace in a temp dir and
// returns the engine config pointing at it.
func writeInputs(t *testing.T, refLUT, ruleSrc, regions string) Config {
	t.Helper()
	dir := t.TempDir()

	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
		return path
	}

	return Config{
		RefLut:      write("ref.txt", refLUT),
		RulesFile:   write("rules.txt", ruleSrc),
		RegionsFile: write("regions.txt", regions),
		FsLut:       filepath.Join(dir, "out", "fs.txt"),
		MrtrixLut:   filepath.Join(dir, "out", "mrtrix.txt"),
		SubcortList: filepath.Join(dir, "out", "subcort.txt"),
		AparcLut:    filepath.Join(dir, "out", "aparc.txt"),
		StatePath:   filepath.Join(dir, "state.db"),
		Logger:      testutil.NewTestLogger(t),
	}
}

func newTestEngine(t *testing.T, cfg Config) *Engine {
	t.Helper()
	eng, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = eng.Close() })
	return eng
}

func TestCompileEmitsFourArtifacts(t *testing.T) {
	cfg := writeInputs(t, testRefLUT, testRules, testRegions)
	eng := newTestEngine(t, cfg)

	result, err := eng.Compile()
	require.NoError(t, err)
	require.NotEmpty(t, result.RunID)
	require.Len(t, result.Artifacts, 4)

	kinds := []string{state.ArtifactFsLut, state.ArtifactMrtrixLut,
		state.ArtifactSubcortList, state.ArtifactAparcLut}
	paths := []string{cfg.FsLut, cfg.MrtrixLut, cfg.SubcortList, cfg.AparcLut}
	for i, a := range result.Artifacts {
		assert.Equal(t, kinds[i], a.Kind)
		assert.Equal(t, paths[i], a.Path)
		assert.NotEmpty(t, a.Hash)
		assert.Positive(t, a.Bytes)
		assert.FileExists(t, a.Path)
	}

	// Combined LUT: reference verbatim, banner, new rows.
	fs, err := os.ReadFile(cfg.FsLut)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(fs), "# FreeSurfer excerpt\n"))
	assert.Contains(t, string(fs), "# Labels for the VEP parcellation")
	assert.Contains(t, string(fs), "71001  Left-Precentral")
	assert.Contains(t, string(fs), "72001  Right-Precentral")

	// Renumbered: Unknown plus six qualified regions numbered densely.
	mrtrix, err := os.ReadFile(cfg.MrtrixLut)
	require.NoError(t, err)
	mrtrixLines := strings.Split(strings.TrimRight(string(mrtrix), "\n"), "\n")
	require.Len(t, mrtrixLines, 7)
	assert.Contains(t, mrtrixLines[0], "Unknown")
	assert.Contains(t, mrtrixLines[1], "Left-Precentral")
	assert.Contains(t, mrtrixLines[4], "Right-Precentral")

	// Subcortical indices keep their original FreeSurfer values.
	subcort, err := os.ReadFile(cfg.SubcortList)
	require.NoError(t, err)
	assert.Equal(t, "17\n18\n53\n54\n", string(subcort))

	// Cortical LUT has bare names.
	aparc, err := os.ReadFile(cfg.AparcLut)
	require.NoError(t, err)
	assert.Contains(t, string(aparc), " Precentral ")
	assert.NotContains(t, string(aparc), "Left-Precentral")

	// Provenance recorded.
	run, err := eng.Store().GetRun(result.RunID)
	require.NoError(t, err)
	assert.Equal(t, state.RunStatusCompleted, run.Status)

	artifacts, err := eng.Store().ArtifactsForRun(result.RunID)
	require.NoError(t, err)
	assert.Len(t, artifacts, 4)
}

func TestCompileValidationFailureWritesNothing(t *testing.T) {
	// Postcentral has no rule, so validation fails.
	badRegions := testRegions + "1 Postcentral 220 20 20 0\n"
	cfg := writeInputs(t, testRefLUT, testRules, badRegions)
	eng := newTestEngine(t, cfg)

	_, err := eng.Compile()
	require.Error(t, err)
	var oerr *compile.OrderingError
	var merr *compile.MissingRuleError
	assert.True(t, errors.As(err, &merr) || errors.As(err, &oerr))

	// Fail-fast gate: no output file may exist, not even a partial one.
	for _, path := range []string{cfg.FsLut, cfg.MrtrixLut, cfg.SubcortList, cfg.AparcLut} {
		assert.NoFileExists(t, path)
	}

	// The failed run is still on record.
	run, err := eng.Store().GetLatestRun()
	require.NoError(t, err)
	require.NotNil(t, run)
	assert.Equal(t, state.RunStatusFailed, run.Status)
	assert.NotEmpty(t, run.Error)
}

func TestCompileLoadFailure(t *testing.T) {
	cfg := writeInputs(t, testRefLUT, testRules, testRegions)
	cfg.RefLut = filepath.Join(t.TempDir(), "missing.txt")
	eng := newTestEngine(t, cfg)

	_, err := eng.Compile()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load reference LUT")
}

func TestValidateOnly(t *testing.T) {
	cfg := writeInputs(t, testRefLUT, testRules, testRegions)
	eng := newTestEngine(t, cfg)

	require.NoError(t, eng.Validate())

	// Validate never touches the outputs.
	assert.NoFileExists(t, cfg.FsLut)

	set, spec := eng.Inputs()
	require.NotNil(t, set)
	require.NotNil(t, spec)
	assert.Equal(t, 1, set.Len())
	assert.Equal(t, 3, spec.Len())
}

func TestDerive(t *testing.T) {
	cfg := writeInputs(t, testRefLUT, testRules, testRegions)
	eng := newTestEngine(t, cfg)

	_, err := eng.Compile()
	require.NoError(t, err)

	// Remove a derived output and rebuild it from the emitted combined LUT.
	require.NoError(t, os.Remove(cfg.MrtrixLut))

	info, err := eng.Derive(state.ArtifactMrtrixLut)
	require.NoError(t, err)
	assert.Equal(t, state.ArtifactMrtrixLut, info.Kind)
	assert.FileExists(t, cfg.MrtrixLut)

	_, err = eng.Derive("bogus")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown artifact kind")
}

func TestDeriveReflectsHandEditedCombinedLUT(t *testing.T) {
	cfg := writeInputs(t, testRefLUT, testRules, testRegions)
	eng := newTestEngine(t, cfg)

	_, err := eng.Compile()
	require.NoError(t, err)

	// Recolor the appended Left-Precentral row in the combined LUT by hand.
	fs, err := os.ReadFile(cfg.FsLut)
	require.NoError(t, err)
	lines := strings.Split(string(fs), "\n")
	edited := false
	for i, line := range lines {
		if strings.HasPrefix(line, "71001") {
			lines[i] = strings.Replace(line, " 60  20 220", "  1   2   3", 1)
			edited = true
		}
	}
	require.True(t, edited)
	require.NoError(t, os.WriteFile(cfg.FsLut, []byte(strings.Join(lines, "\n")), 0644))

	_, err = eng.Derive(state.ArtifactAparcLut)
	require.NoError(t, err)

	aparc, err := os.ReadFile(cfg.AparcLut)
	require.NoError(t, err)
	assert.Contains(t, string(aparc), "  1   2   3")
}

func TestNewFailsOnBadStatePath(t *testing.T) {
	cfg := writeInputs(t, testRefLUT, testRules, testRegions)
	cfg.StatePath = filepath.Join(t.TempDir(), "no", "such", "dir", "state.db")

	_, err := New(cfg)
	require.Error(t, err)
}
