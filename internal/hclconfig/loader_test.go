package hclconfig

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/algoharness/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeHCL(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "algoharness.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Parallel()

	path := writeHCL(t, `
workspace {
  root      = "/work"
  model_dir = "models"
}

plugins {
  search_path = ["${env.PLUGIN_HOME}/so", "."]
  opener      = "jsonopener"
}

log {
  level       = "debug"
  max_size_mb = 5
}

ledger {
  path = ".algoharness/runs.db"
}
`)
	l := &Loader{environ: func() []string {
		return []string{"PLUGIN_HOME=/opt/plugins", "=C:=weird", "1BAD=x"}
	}}

	f, err := l.Load(context.Background(), path)
	require.NoError(t, err)

	got := config.Default()
	f.ApplyTo(got)

	want := config.Default()
	want.Workspace.Root = "/work"
	want.Workspace.ModelDir = "models"
	want.Plugins.SearchPath = []string{"/opt/plugins/so", "."}
	want.Plugins.Opener = "jsonopener"
	want.Log.Level = "debug"
	want.Log.MaxSizeMB = 5
	want.Ledger.Path = ".algoharness/runs.db"

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Settings mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_EmptyFile(t *testing.T) {
	t.Parallel()

	f, err := NewLoader().Load(context.Background(), writeHCL(t, ""))
	require.NoError(t, err)
	assert.Nil(t, f.Workspace)
	assert.Nil(t, f.Plugins)
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		content string
		wantErr string
	}{
		{name: "syntax error", content: "workspace {\n  root = \n", wantErr: "failed to parse"},
		{name: "unknown block", content: "runner \"x\" {}\n", wantErr: "failed to decode"},
		{name: "wrong type", content: "log {\n  max_size_mb = \"big\"\n}\n", wantErr: "failed to decode"},
		{name: "unknown variable", content: "log {\n  file = var.x\n}\n", wantErr: "failed to decode"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewLoader().Load(context.Background(), writeHCL(t, tc.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestHCLIdentifier(t *testing.T) {
	t.Parallel()

	assert.True(t, hclIdentifier("HOME"))
	assert.True(t, hclIdentifier("_x1"))
	assert.False(t, hclIdentifier(""))
	assert.False(t, hclIdentifier("1X"))
	assert.False(t, hclIdentifier("A.B"))
}
