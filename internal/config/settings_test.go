package config

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestApplyTo(t *testing.T) {
	t.Parallel()

	f := &File{
		Workspace: &WorkspaceFile{Root: ptr("/work"), PredDir: ptr("out")},
		Plugins:   &PluginsFile{SearchPath: []string{"plugins"}, Opener: ptr("jsonopener")},
		Log:       &LogFile{Level: ptr("debug"), MaxBackups: ptr(0)},
		Ledger:    &LedgerFile{Path: ptr("runs.db")},
	}

	got := Default()
	f.ApplyTo(got)

	want := Default()
	want.Workspace.Root = "/work"
	want.Workspace.PredDir = "out"
	want.Plugins.SearchPath = []string{"plugins"}
	want.Plugins.Opener = "jsonopener"
	want.Log.Level = "debug"
	want.Log.MaxBackups = 0
	want.Ledger.Path = "runs.db"

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Settings mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyTo_NilFile(t *testing.T) {
	t.Parallel()

	got := Default()
	var f *File
	f.ApplyTo(got)
	assert.Equal(t, Default(), got)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, Default().Validate())

	s := Default()
	s.Log.Level = "verbose"
	s.Log.Format = "yaml"
	s.Plugins.Algo = "concat"
	s.Plugins.AlgoPath = "algo.so"

	err := s.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level 'verbose'")
	assert.Contains(t, err.Error(), "invalid log format 'yaml'")
	assert.Contains(t, err.Error(), "mutually exclusive")
}
