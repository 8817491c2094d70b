// Package algo drives train and predict cycles of a caller-supplied Algo
// against an Opener and the workspace layout.
package algo

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/specialistvlad/algoharness/contract"
	"github.com/specialistvlad/algoharness/internal/ctxlog"
	"github.com/specialistvlad/algoharness/internal/workspace"
)

// Wrapper orchestrates one Algo and one Opener. It holds no state between
// cycles besides its configuration.
type Wrapper struct {
	algo     contract.Algo
	opener   contract.Opener
	layout   workspace.Layout
	rank     int
	observer Observer
}

// Option configures a Wrapper.
type Option func(*Wrapper)

// WithRank sets the rank passed to Algo.Train.
func WithRank(rank int) Option {
	return func(w *Wrapper) { w.rank = rank }
}

// WithObserver reports phase progress to o.
func WithObserver(o Observer) Option {
	return func(w *Wrapper) { w.observer = o }
}

// NewWrapper creates a Wrapper around a resolved Algo and Opener.
func NewWrapper(a contract.Algo, o contract.Opener, layout workspace.Layout, opts ...Option) *Wrapper {
	w := &Wrapper{
		algo:     a,
		opener:   o,
		layout:   layout,
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// cycle tracks the phase of one invocation.
type cycle struct {
	ctx     context.Context
	command string
	w       *Wrapper
	phase   Phase
	last    time.Time
}

func (w *Wrapper) start(ctx context.Context, command string) *cycle {
	ctxlog.FromContext(ctx).Debug("Cycle started.", "command", command, "phase", PhaseInit.String())
	return &cycle{ctx: ctx, command: command, w: w, phase: PhaseInit, last: time.Now()}
}

func (c *cycle) reach(p Phase) {
	now := time.Now()
	elapsed := now.Sub(c.last)
	c.phase, c.last = p, now
	ctxlog.FromContext(c.ctx).Debug("Phase reached.", "command", c.command, "phase", p.String(), "elapsed", elapsed)
	c.w.observer.PhaseReached(c.ctx, c.command, p, elapsed)
}

func (c *cycle) fail(err error) error {
	ctxlog.FromContext(c.ctx).Error("Cycle aborted.", "command", c.command, "phase", c.phase.String(), "error", err)
	return err
}

// Train runs a training cycle. Features and labels come from the Opener's
// fake data when dryRun is set. Each filename is loaded from the model
// directory, in order, and the models are passed to Algo.Train in that order.
// The resulting model and prediction are always persisted, dry run or not.
func (w *Wrapper) Train(ctx context.Context, modelFilenames []string, dryRun bool) (contract.Prediction, contract.Model, error) {
	c := w.start(ctx, "train")

	X, y, err := w.data(ctx, dryRun)
	if err != nil {
		return nil, nil, c.fail(err)
	}
	c.reach(PhaseDataAcquired)

	models := make([]contract.Model, 0, len(modelFilenames))
	for _, name := range modelFilenames {
		m, err := w.loadModel(ctx, name)
		if err != nil {
			return nil, nil, c.fail(err)
		}
		models = append(models, m)
	}
	w.observer.ModelsLoaded(ctx, len(models))
	c.reach(PhaseModelsLoaded)

	pred, model, err := w.algo.Train(ctx, X, y, models, w.rank)
	if err != nil {
		return nil, nil, c.fail(fmt.Errorf("algo train: %w", err))
	}
	c.reach(PhaseComputed)

	if err := w.layout.Ensure(); err != nil {
		return nil, nil, c.fail(err)
	}
	if err := w.algo.SaveModel(ctx, model, w.layout.OutputModelPath()); err != nil {
		return nil, nil, c.fail(fmt.Errorf("algo save model: %w", err))
	}
	if err := w.opener.SavePred(ctx, pred, w.layout.PredPath()); err != nil {
		return nil, nil, c.fail(fmt.Errorf("opener save pred: %w", err))
	}
	c.reach(PhasePersisted)

	ctxlog.FromContext(ctx).Info("Training finished.",
		"dry_run", dryRun,
		"pretrained_models", len(models),
		"rank", w.rank,
		"model_path", w.layout.OutputModelPath(),
		"pred_path", w.layout.PredPath())
	return pred, model, nil
}

// Predict loads one model, runs Algo.Predict on the real data and persists
// the prediction.
func (w *Wrapper) Predict(ctx context.Context, modelFilename string) (contract.Prediction, error) {
	c := w.start(ctx, "predict")

	X, y, err := w.data(ctx, false)
	if err != nil {
		return nil, c.fail(err)
	}
	c.reach(PhaseDataAcquired)

	model, err := w.loadModel(ctx, modelFilename)
	if err != nil {
		return nil, c.fail(err)
	}
	w.observer.ModelsLoaded(ctx, 1)
	c.reach(PhaseModelsLoaded)

	pred, err := w.algo.Predict(ctx, X, y, model)
	if err != nil {
		return nil, c.fail(fmt.Errorf("algo predict: %w", err))
	}
	c.reach(PhaseComputed)

	if err := w.layout.Ensure(); err != nil {
		return nil, c.fail(err)
	}
	if err := w.opener.SavePred(ctx, pred, w.layout.PredPath()); err != nil {
		return nil, c.fail(fmt.Errorf("opener save pred: %w", err))
	}
	c.reach(PhasePersisted)

	ctxlog.FromContext(ctx).Info("Prediction finished.", "model", modelFilename, "pred_path", w.layout.PredPath())
	return pred, nil
}

func (w *Wrapper) data(ctx context.Context, fake bool) (contract.Features, contract.Labels, error) {
	getX, getY := w.opener.GetX, w.opener.GetY
	if fake {
		getX, getY = w.opener.FakeX, w.opener.FakeY
	}

	X, err := getX(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("opener features (fake=%t): %w", fake, err)
	}
	y, err := getY(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("opener labels (fake=%t): %w", fake, err)
	}
	return X, y, nil
}

// loadModel reports a missing file itself so the error always wraps
// fs.ErrNotExist, whatever the Algo's LoadModel would have returned.
func (w *Wrapper) loadModel(ctx context.Context, filename string) (contract.Model, error) {
	path := w.layout.ModelPath(filename)
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("model '%s': %w", filename, err)
	}
	m, err := w.algo.LoadModel(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("algo load model '%s': %w", filename, err)
	}
	ctxlog.FromContext(ctx).Debug("Model loaded.", "model", filename)
	return m, nil
}
