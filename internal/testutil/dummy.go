package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/specialistvlad/algoharness/contract"
	"github.com/specialistvlad/algoharness/internal/workspace"
)

// DummyOpener serves "X"/"y" as real data and "Xfake"/"yfake" as fake data,
// and stores predictions as JSON.
type DummyOpener struct{}

var _ contract.Opener = (*DummyOpener)(nil)

func (DummyOpener) GetX(context.Context) (contract.Features, error)  { return "X", nil }
func (DummyOpener) GetY(context.Context) (contract.Labels, error)    { return "y", nil }
func (DummyOpener) FakeX(context.Context) (contract.Features, error) { return "Xfake", nil }
func (DummyOpener) FakeY(context.Context) (contract.Labels, error)   { return "yfake", nil }

func (DummyOpener) GetPred(ctx context.Context) (contract.Prediction, error) {
	var pred any
	err := readJSON(workspace.FromContext(ctx).PredPath(), &pred)
	return pred, err
}

func (DummyOpener) SavePred(_ context.Context, pred contract.Prediction, path string) error {
	return writeJSON(path, pred)
}

// OpenerSymbols returns DummyOpener in function style.
func OpenerSymbols() map[string]any {
	o := DummyOpener{}
	return map[string]any{
		"GetX":     o.GetX,
		"GetY":     o.GetY,
		"FakeX":    o.FakeX,
		"FakeY":    o.FakeY,
		"GetPred":  o.GetPred,
		"SavePred": o.SavePred,
	}
}

// DummyAlgo concatenates features and labels into the prediction and the
// "value" fields of the pretrained models into the new model.
type DummyAlgo struct {
	// Ranks records the rank of every Train call.
	Ranks []int
}

var _ contract.Algo = (*DummyAlgo)(nil)

func (a *DummyAlgo) Train(_ context.Context, X contract.Features, y contract.Labels, models []contract.Model, rank int) (contract.Prediction, contract.Model, error) {
	a.Ranks = append(a.Ranks, rank)
	value := ""
	for i, m := range models {
		mm, ok := m.(map[string]any)
		if !ok {
			return nil, nil, fmt.Errorf("model %d has type %T", i, m)
		}
		v, ok := mm["value"].(string)
		if !ok {
			return nil, nil, fmt.Errorf("model %d has no string value", i)
		}
		value += v
	}
	return fmt.Sprint(X) + fmt.Sprint(y), map[string]any{"value": value}, nil
}

func (a *DummyAlgo) Predict(_ context.Context, X contract.Features, y contract.Labels, model contract.Model) (contract.Prediction, error) {
	mm, ok := model.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("model has type %T", model)
	}
	return fmt.Sprint(X) + fmt.Sprint(y) + fmt.Sprint(mm["value"]), nil
}

func (a *DummyAlgo) LoadModel(_ context.Context, path string) (contract.Model, error) {
	var m map[string]any
	if err := readJSON(path, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func (a *DummyAlgo) SaveModel(_ context.Context, model contract.Model, path string) error {
	return writeJSON(path, model)
}

// FailingAlgo returns Err from Train and Predict.
type FailingAlgo struct {
	DummyAlgo
	Err error
}

func (a *FailingAlgo) Train(context.Context, contract.Features, contract.Labels, []contract.Model, int) (contract.Prediction, contract.Model, error) {
	return nil, nil, a.Err
}

func (a *FailingAlgo) Predict(context.Context, contract.Features, contract.Labels, contract.Model) (contract.Prediction, error) {
	return nil, a.Err
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func writeJSON(path string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
