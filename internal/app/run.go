package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/algoharness/contract"
	"github.com/specialistvlad/algoharness/internal/algo"
	"github.com/specialistvlad/algoharness/internal/ctxlog"
	"github.com/specialistvlad/algoharness/internal/opener"
	"github.com/specialistvlad/algoharness/internal/runstore"
)

// Result summarizes one completed command.
type Result struct {
	Command    string
	RunID      string // empty without a ledger
	Rank       int
	DryRun     bool
	Models     []string
	ModelPath  string // empty for predict
	PredPath   string
	Prediction contract.Prediction
}

// ResolveAlgo returns given when it is set. Otherwise the Algo is loaded from
// plugins.algo_path, or from the "algo" unit.
func (a *App) ResolveAlgo(ctx context.Context, given contract.Algo) (contract.Algo, error) {
	if given != nil {
		a.algoSource = fmt.Sprintf("%T", given)
		return given, nil
	}

	ctx = a.context(ctx)
	path := a.resolve(a.settings.Plugins.AlgoPath)
	al, err := algo.LoadFromModule(ctx, a.loader, path)
	if err != nil {
		return nil, err
	}

	switch {
	case path != "":
		a.algoSource = path
	case a.settings.Plugins.Algo != "":
		a.algoSource = a.settings.Plugins.Algo
	default:
		a.algoSource = algo.UnitName
	}
	return al, nil
}

// Train runs one training cycle. Without an explicit rank the ledger hands out
// the next one; without a ledger the rank is 0.
func (a *App) Train(ctx context.Context, al contract.Algo, models []string, dryRun bool, rank *int) (*Result, error) {
	ctx = a.context(ctx)

	r, err := a.rank(ctx, rank)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Command:   "train",
		Rank:      r,
		DryRun:    dryRun,
		Models:    models,
		ModelPath: a.layout.OutputModelPath(),
		PredPath:  a.layout.PredPath(),
	}
	err = a.run(ctx, res, al, func(w *algo.Wrapper) error {
		pred, _, err := w.Train(ctx, models, dryRun)
		res.Prediction = pred
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Predict runs one prediction cycle with the given model file.
func (a *App) Predict(ctx context.Context, al contract.Algo, model string) (*Result, error) {
	ctx = a.context(ctx)

	res := &Result{
		Command:  "predict",
		Models:   []string{model},
		PredPath: a.layout.PredPath(),
	}
	err := a.run(ctx, res, al, func(w *algo.Wrapper) error {
		pred, err := w.Predict(ctx, model)
		res.Prediction = pred
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// History lists recorded runs, newest first.
func (a *App) History(ctx context.Context, limit int) ([]runstore.Run, error) {
	if a.ledger == nil {
		return nil, ErrLedgerDisabled
	}
	return a.ledger.List(a.context(ctx), limit)
}

func (a *App) rank(ctx context.Context, rank *int) (int, error) {
	switch {
	case rank != nil:
		return *rank, nil
	case a.ledger != nil:
		return a.ledger.NextRank(ctx)
	}
	return 0, nil
}

// run loads the Opener, records the run and drives fn with a fresh wrapper.
func (a *App) run(ctx context.Context, res *Result, al contract.Algo, fn func(*algo.Wrapper) error) (err error) {
	logger := ctxlog.FromContext(ctx).With("command", res.Command)

	if a.ledger != nil {
		rec, err := a.ledger.Begin(ctx, runstore.Run{
			Command: res.Command,
			Algo:    a.algoSource,
			Models:  res.Models,
			Rank:    res.Rank,
			DryRun:  res.DryRun,
		})
		if err != nil {
			return err
		}
		res.RunID = rec.ID
		logger = logger.With("run_id", rec.ID)
	}
	defer func() { a.finish(ctx, res, err) }()

	o, err := opener.LoadFromModule(ctx, a.loader)
	if err != nil {
		return err
	}

	opts := []algo.Option{algo.WithRank(res.Rank)}
	if a.metrics != nil {
		opts = append(opts, algo.WithObserver(a.metrics))
	}
	w := algo.NewWrapper(al, o, a.layout, opts...)

	logger.Debug("Cycle starting.", "rank", res.Rank, "models", res.Models)
	return fn(w)
}

// finish records the outcome. Bookkeeping failures are logged, they never
// change the command result.
func (a *App) finish(ctx context.Context, res *Result, runErr error) {
	logger := ctxlog.FromContext(ctx)

	if a.ledger != nil && res.RunID != "" {
		if err := a.ledger.Finish(ctx, res.RunID, runErr); err != nil {
			logger.Warn("Failed to record run outcome.", "run_id", res.RunID, "error", err)
		}
	}
	if a.metrics != nil {
		a.metrics.RunFinished(res.Command, runErr)
		path := a.resolve(a.settings.Metrics.Textfile)
		if err := a.metrics.WriteTextfile(path); err != nil {
			logger.Warn("Failed to write metrics.", "path", path, "error", err)
		}
	}
}
