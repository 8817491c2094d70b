// Package workspace defines where the harness reads and writes files relative
// to the working context: pretrained models, the trained model, predictions,
// and the dataset directory used by openers.
package workspace

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Fixed output names. Each run overwrites them.
const (
	OutputModelName = "model"
	OutputPredName  = "pred"
)

// Layout is the on-disk convention of a workspace. Relative directories are
// resolved against Root.
type Layout struct {
	Root     string
	ModelDir string
	PredDir  string
	DataDir  string
}

// New returns the default layout rooted at root.
func New(root string) Layout {
	if root == "" {
		root = "."
	}
	return Layout{
		Root:     root,
		ModelDir: "model",
		PredDir:  "pred",
		DataDir:  "data",
	}
}

func (l Layout) dir(d string) string {
	if filepath.IsAbs(d) {
		return d
	}
	return filepath.Join(l.Root, d)
}

// Models returns the model storage directory.
func (l Layout) Models() string { return l.dir(l.ModelDir) }

// Preds returns the prediction storage directory.
func (l Layout) Preds() string { return l.dir(l.PredDir) }

// Data returns the dataset directory.
func (l Layout) Data() string { return l.dir(l.DataDir) }

// ModelPath returns the location of a previously saved model.
func (l Layout) ModelPath(filename string) string {
	return filepath.Join(l.Models(), filename)
}

// OutputModelPath returns where a trained model is written.
func (l Layout) OutputModelPath() string {
	return filepath.Join(l.Models(), OutputModelName)
}

// PredPath returns where predictions are written.
func (l Layout) PredPath() string {
	return filepath.Join(l.Preds(), OutputPredName)
}

// Ensure creates the output directories.
func (l Layout) Ensure() error {
	for _, d := range []string{l.Models(), l.Preds()} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return fmt.Errorf("create workspace directory %s: %w", d, err)
		}
	}
	return nil
}

type key struct{}

// WithLayout returns a context carrying l, so openers and algos can find the
// workspace without constructor arguments.
func WithLayout(ctx context.Context, l Layout) context.Context {
	return context.WithValue(ctx, key{}, l)
}

// FromContext returns the layout stored in ctx, or the default layout of the
// current directory.
func FromContext(ctx context.Context) Layout {
	if l, ok := ctx.Value(key{}).(Layout); ok {
		return l
	}
	return New(".")
}
