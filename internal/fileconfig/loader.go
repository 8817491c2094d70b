// Package fileconfig implements config.Loader for YAML and TOML files.
package fileconfig

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/specialistvlad/algoharness/internal/config"
	"github.com/specialistvlad/algoharness/internal/ctxlog"
	"gopkg.in/yaml.v3"
)

// YAMLLoader reads YAML configuration files.
type YAMLLoader struct{}

// TOMLLoader reads TOML configuration files.
type TOMLLoader struct{}

var (
	_ config.Loader = YAMLLoader{}
	_ config.Loader = TOMLLoader{}
)

// Load decodes the YAML file at path. Unknown keys are an error and an empty
// file yields an empty File.
func (YAMLLoader) Load(ctx context.Context, path string) (*config.File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var f config.File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode YAML file %s: %w", path, err)
	}

	ctxlog.FromContext(ctx).Debug("YAML loading complete.", "path", path)
	return &f, nil
}

// Load decodes the TOML file at path. Keys that map to no field are an error.
func (TOMLLoader) Load(ctx context.Context, path string) (*config.File, error) {
	var f config.File
	md, err := toml.DecodeFile(path, &f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode TOML file %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("failed to decode TOML file %s: unknown keys %v", path, undecoded)
	}

	ctxlog.FromContext(ctx).Debug("TOML loading complete.", "path", path)
	return &f, nil
}
