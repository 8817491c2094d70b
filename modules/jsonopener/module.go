// Package jsonopener is a compiled-in Opener that reads its dataset from JSON
// files in the workspace data directory.
package jsonopener

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/specialistvlad/algoharness/contract"
	"github.com/specialistvlad/algoharness/internal/registry"
	"github.com/specialistvlad/algoharness/internal/workspace"
)

// UnitName is the name the module registers under.
const UnitName = "jsonopener"

// Files read from the data directory.
const (
	FeaturesFile     = "X.json"
	LabelsFile       = "y.json"
	FakeFeaturesFile = "fake_X.json"
	FakeLabelsFile   = "fake_y.json"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers Opener in typed style; the loader creates a fresh
// instance on every load.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterUnit(UnitName, registry.Symbols{
		"Opener": registry.TypeOf[Opener](),
	})
}

// Opener serves the JSON dataset of the workspace found in the context.
type Opener struct{}

var _ contract.Opener = (*Opener)(nil)

func (o *Opener) GetX(ctx context.Context) (contract.Features, error) {
	return readData(ctx, FeaturesFile)
}

func (o *Opener) GetY(ctx context.Context) (contract.Labels, error) {
	return readData(ctx, LabelsFile)
}

// FakeX returns the fake features, or an empty string when none are provided.
func (o *Opener) FakeX(ctx context.Context) (contract.Features, error) {
	return readOptional(ctx, FakeFeaturesFile)
}

// FakeY returns the fake labels, or an empty string when none are provided.
func (o *Opener) FakeY(ctx context.Context) (contract.Labels, error) {
	return readOptional(ctx, FakeLabelsFile)
}

// GetPred reads the last saved prediction.
func (o *Opener) GetPred(ctx context.Context) (contract.Prediction, error) {
	var pred any
	if err := readJSON(workspace.FromContext(ctx).PredPath(), &pred); err != nil {
		return nil, err
	}
	return pred, nil
}

func (o *Opener) SavePred(_ context.Context, pred contract.Prediction, path string) error {
	data, err := json.Marshal(pred)
	if err != nil {
		return fmt.Errorf("encode prediction: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func readData(ctx context.Context, name string) (any, error) {
	var v any
	if err := readJSON(filepath.Join(workspace.FromContext(ctx).Data(), name), &v); err != nil {
		return nil, err
	}
	return v, nil
}

func readOptional(ctx context.Context, name string) (any, error) {
	v, err := readData(ctx, name)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	return v, err
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
