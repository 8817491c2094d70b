package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRun_ConfigError(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	invalidHCL := `
		plugins {
			opener = "jsonopener"
		// Missing closing brace here
	`
	tempDir := t.TempDir()
	filePath := filepath.Join(tempDir, "algoharness.hcl")
	require.NoError(t, os.WriteFile(filePath, []byte(invalidHCL), 0o600), "failed to set up test file")

	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}

	// --- Act ---
	code := run(out, errOut, []string{"train", "--workdir", tempDir})

	// --- Assert ---
	require.Equal(t, 2, code)
	require.Contains(t, errOut.String(), "failed to parse")
}

func TestRun_Help(t *testing.T) {
	t.Parallel()

	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	code := run(out, errOut, []string{"-h"})

	require.Equal(t, 0, code)
	require.Contains(t, out.String(), "Usage:", "Expected help text to be printed to the output buffer")
}

func TestRun_CoreModulesEndToEnd(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	dir := t.TempDir()
	files := map[string]string{
		"algoharness.yaml": "plugins:\n  opener: jsonopener\n  algo: concat\n",
		"data/X.json":      `"X"`,
		"data/y.json":      `"y"`,
		"model/a.json":     `{"value":"a"}`,
		"model/b.json":     `{"value":"b"}`,
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	config := filepath.Join(dir, "algoharness.yaml")
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}

	// --- Act ---
	trainCode := run(out, errOut, []string{"train", "a.json", "b.json", "--config", config, "--workdir", dir})
	predictCode := run(out, errOut, []string{"predict", "model", "--config", config, "--workdir", dir})

	// --- Assert ---
	require.Equal(t, 0, trainCode, errOut.String())
	require.Equal(t, 0, predictCode, errOut.String())

	pred, err := os.ReadFile(filepath.Join(dir, "pred", "pred"))
	require.NoError(t, err)
	require.Equal(t, `"Xyab"`, string(pred))
}
