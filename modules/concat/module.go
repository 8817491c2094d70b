// Package concat is a compiled-in function-style Algo used as the reference
// workload: predictions concatenate features and labels, and a trained model
// concatenates the values of its pretrained models.
package concat

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/specialistvlad/algoharness/internal/registry"
)

// UnitName is the name the module registers under.
const UnitName = "concat"

// Model is the persisted form of a trained model.
type Model struct {
	Value string `json:"value"`
}

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the Algo members as top-level functions.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterUnit(UnitName, registry.Symbols{
		"Train":     Train,
		"Predict":   Predict,
		"LoadModel": LoadModel,
		"SaveModel": SaveModel,
	})
}

// Train returns X+y as the prediction and a model whose value is the
// concatenation of the pretrained model values, in order.
func Train(_ context.Context, X any, y any, models []any, _ int) (any, any, error) {
	var value string
	for i, m := range models {
		model, err := asModel(m)
		if err != nil {
			return nil, nil, fmt.Errorf("pretrained model %d: %w", i, err)
		}
		value += model.Value
	}
	return fmt.Sprint(X) + fmt.Sprint(y), Model{Value: value}, nil
}

// Predict returns X+y followed by the model value.
func Predict(_ context.Context, X any, y any, model any) (any, error) {
	m, err := asModel(model)
	if err != nil {
		return nil, err
	}
	return fmt.Sprint(X) + fmt.Sprint(y) + m.Value, nil
}

// LoadModel reads a JSON-encoded Model from path.
func LoadModel(_ context.Context, path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode model %s: %w", path, err)
	}
	return m, nil
}

// SaveModel writes model to path as JSON.
func SaveModel(_ context.Context, model any, path string) error {
	m, err := asModel(model)
	if err != nil {
		return err
	}
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func asModel(v any) (Model, error) {
	switch m := v.(type) {
	case Model:
		return m, nil
	case *Model:
		if m != nil {
			return *m, nil
		}
	}
	return Model{}, fmt.Errorf("unexpected model type %T", v)
}
