package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/algoharness/internal/config"
	"github.com/specialistvlad/algoharness/internal/fileconfig"
	"github.com/specialistvlad/algoharness/internal/hclconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoaderFor(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		path string
		want config.Loader
	}{
		{path: "a.hcl", want: hclconfig.NewLoader()},
		{path: "a.YAML", want: fileconfig.YAMLLoader{}},
		{path: "a.yml", want: fileconfig.YAMLLoader{}},
		{path: "a.toml", want: fileconfig.TOMLLoader{}},
	}
	for _, tc := range testCases {
		got, err := LoaderFor(tc.path)
		require.NoError(t, err, tc.path)
		assert.IsType(t, tc.want, got, tc.path)
	}

	_, err := LoaderFor("a.json")
	require.ErrorIs(t, err, ErrUnsupportedConfig)
}

func TestLoadSettings(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	got, err := LoadSettings(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), got)

	path := filepath.Join(t.TempDir(), "algoharness.yaml")
	require.NoError(t, os.WriteFile(path, []byte("plugins:\n  opener: jsonopener\n"), 0o644))
	got, err = LoadSettings(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, "jsonopener", got.Plugins.Opener)
	assert.Equal(t, "info", got.Log.Level)
}

func TestFindConfig(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	_, ok := FindConfig(dir)
	assert.False(t, ok)

	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultConfigName), nil, 0o644))
	path, ok := FindConfig(dir)
	assert.True(t, ok)
	assert.Equal(t, filepath.Join(dir, DefaultConfigName), path)
}
