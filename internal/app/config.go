package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/algoharness/internal/config"
	"github.com/specialistvlad/algoharness/internal/fileconfig"
	"github.com/specialistvlad/algoharness/internal/hclconfig"
)

// DefaultConfigName is looked up in the working directory when no
// configuration file is given.
const DefaultConfigName = "algoharness.hcl"

// ErrUnsupportedConfig is returned for configuration files of unknown format.
var ErrUnsupportedConfig = errors.New("unsupported configuration format")

// LoaderFor picks the configuration loader matching the file extension.
func LoaderFor(path string) (config.Loader, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".hcl":
		return hclconfig.NewLoader(), nil
	case ".yaml", ".yml":
		return fileconfig.YAMLLoader{}, nil
	case ".toml":
		return fileconfig.TOMLLoader{}, nil
	}
	return nil, fmt.Errorf("%w: '%s' (expected .hcl, .yaml, .yml or .toml)", ErrUnsupportedConfig, path)
}

// FindConfig returns the default configuration file of workdir, if present.
func FindConfig(workdir string) (string, bool) {
	path := filepath.Join(workdir, DefaultConfigName)
	if _, err := os.Stat(path); err != nil {
		return "", false
	}
	return path, true
}

// LoadSettings returns the default settings overridden by the file at path.
// An empty path yields the defaults.
func LoadSettings(ctx context.Context, path string) (*config.Settings, error) {
	settings := config.Default()
	if path == "" {
		return settings, nil
	}

	l, err := LoaderFor(path)
	if err != nil {
		return nil, err
	}
	f, err := l.Load(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	f.ApplyTo(settings)
	return settings, nil
}
