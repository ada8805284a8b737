package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ins-amu/veplut/internal/cli/config"
	"github.com/ins-amu/veplut/internal/cli/output"
)

func executeRoot(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestRootHelp(t *testing.T) {
	out, _, err := executeRoot(t, "--help")
	require.NoError(t, err)

	assert.Contains(t, out, "veplut")
	for _, sub := range []string{"compile", "check", "derive", "regions", "rules", "runs", "doctor", "init", "version", "completion"} {
		assert.Contains(t, out, sub)
	}
}

func TestRootVersionFlag(t *testing.T) {
	out, _, err := executeRoot(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, Version)
	assert.Contains(t, out, "VEP parcellation LUT compiler")
}

func TestRootLoadsConfig(t *testing.T) {
	config.ResetConfig()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "veplut.yaml"),
		[]byte("ref_lut: myref.txt\n"), 0644))

	_, _, err := executeRoot(t, "--config", filepath.Join(dir, "veplut.yaml"), "version")
	require.NoError(t, err)

	cfg := config.GetCurrentConfig()
	require.NotNil(t, cfg)
	assert.Equal(t, filepath.Join(dir, "myref.txt"), cfg.RefLut)
}

func TestRootUnknownCommand(t *testing.T) {
	_, _, err := executeRoot(t, "frobnicate")
	require.Error(t, err)
}

func TestGetConfigFallback(t *testing.T) {
	cfg := GetConfig(context.Background())
	require.NotNil(t, cfg)
	assert.Equal(t, config.DefaultRefLut, cfg.RefLut)
	assert.Equal(t, config.DefaultStateFile, cfg.StatePath)
}

func TestGetRendererFallback(t *testing.T) {
	r := GetRenderer(context.Background())
	require.NotNil(t, r)
	assert.Contains(t, []output.OutputMode{output.ModeText, output.ModeMarkdown}, r.EffectiveMode())
}

func TestCompletionCommand(t *testing.T) {
	out, _, err := executeRoot(t, "completion", "bash")
	require.NoError(t, err)
	_ = out

	_, _, err = executeRoot(t, "completion", "tcsh")
	require.Error(t, err)
}
