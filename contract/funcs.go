package contract

import (
	"context"
	"fmt"
	"strings"
)

// Function types expected from a function-style unit. They are aliases so
// that plain function values assert against them without conversion.
type (
	DataFunc      = func(ctx context.Context) (any, error)
	SavePredFunc  = func(ctx context.Context, pred any, path string) error
	TrainFunc     = func(ctx context.Context, X any, y any, models []any, rank int) (any, any, error)
	PredictFunc   = func(ctx context.Context, X any, y any, model any) (any, error)
	LoadModelFunc = func(ctx context.Context, path string) (any, error)
	SaveModelFunc = func(ctx context.Context, model any, path string) error
)

// SignatureError reports the members of a function-style unit that are absent
// or bound to a function of the wrong type.
type SignatureError struct {
	Contract string
	Missing  []string
	Mismatch map[string]string // member name -> actual Go type
}

// Error lists every problem found.
func (e *SignatureError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, fmt.Sprintf("missing %s", quoteAll(e.Missing)))
	}
	for _, name := range sortedKeys(e.Mismatch) {
		parts = append(parts, fmt.Sprintf("'%s' has type %s", name, e.Mismatch[name]))
	}
	return fmt.Sprintf("%s functions do not match the contract: %s", e.Contract, strings.Join(parts, "; "))
}

// OpenerFuncs adapts a function-style unit to the Opener interface.
type OpenerFuncs struct {
	getX, getY, fakeX, fakeY, getPred DataFunc
	savePred                          SavePredFunc
}

var _ Opener = (*OpenerFuncs)(nil)

// NewOpenerFuncs checks that symbols binds every Opener member to a function
// of the expected type and returns the adapter.
func NewOpenerFuncs(symbols map[string]any) (*OpenerFuncs, error) {
	c := newChecker("Opener", symbols)
	o := &OpenerFuncs{
		getX:     bind[DataFunc](c, "GetX"),
		getY:     bind[DataFunc](c, "GetY"),
		fakeX:    bind[DataFunc](c, "FakeX"),
		fakeY:    bind[DataFunc](c, "FakeY"),
		getPred:  bind[DataFunc](c, "GetPred"),
		savePred: bind[SavePredFunc](c, "SavePred"),
	}
	if err := c.err(); err != nil {
		return nil, err
	}
	return o, nil
}

// GetX calls the bound GetX function.
func (o *OpenerFuncs) GetX(ctx context.Context) (Features, error) { return o.getX(ctx) }

// GetY calls the bound GetY function.
func (o *OpenerFuncs) GetY(ctx context.Context) (Labels, error) { return o.getY(ctx) }

// FakeX calls the bound FakeX function.
func (o *OpenerFuncs) FakeX(ctx context.Context) (Features, error) { return o.fakeX(ctx) }

// FakeY calls the bound FakeY function.
func (o *OpenerFuncs) FakeY(ctx context.Context) (Labels, error) { return o.fakeY(ctx) }

// GetPred calls the bound GetPred function.
func (o *OpenerFuncs) GetPred(ctx context.Context) (Prediction, error) {
	return o.getPred(ctx)
}

// SavePred calls the bound SavePred function.
func (o *OpenerFuncs) SavePred(ctx context.Context, pred Prediction, path string) error {
	return o.savePred(ctx, pred, path)
}

// AlgoFuncs adapts a function-style unit to the Algo interface.
type AlgoFuncs struct {
	train     TrainFunc
	predict   PredictFunc
	loadModel LoadModelFunc
	saveModel SaveModelFunc
}

var _ Algo = (*AlgoFuncs)(nil)

// NewAlgoFuncs checks that symbols binds every Algo member to a function of the
// expected type and returns the adapter.
func NewAlgoFuncs(symbols map[string]any) (*AlgoFuncs, error) {
	c := newChecker("Algo", symbols)
	a := &AlgoFuncs{
		train:     bind[TrainFunc](c, "Train"),
		predict:   bind[PredictFunc](c, "Predict"),
		loadModel: bind[LoadModelFunc](c, "LoadModel"),
		saveModel: bind[SaveModelFunc](c, "SaveModel"),
	}
	if err := c.err(); err != nil {
		return nil, err
	}
	return a, nil
}

// Train calls the bound Train function.
func (a *AlgoFuncs) Train(ctx context.Context, X Features, y Labels, models []Model, rank int) (Prediction, Model, error) {
	return a.train(ctx, X, y, models, rank)
}

// Predict calls the bound Predict function.
func (a *AlgoFuncs) Predict(ctx context.Context, X Features, y Labels, model Model) (Prediction, error) {
	return a.predict(ctx, X, y, model)
}

// LoadModel calls the bound LoadModel function.
func (a *AlgoFuncs) LoadModel(ctx context.Context, path string) (Model, error) {
	return a.loadModel(ctx, path)
}

// SaveModel calls the bound SaveModel function.
func (a *AlgoFuncs) SaveModel(ctx context.Context, model Model, path string) error {
	return a.saveModel(ctx, model, path)
}

// checker accumulates every binding problem so they are reported together.
type checker struct {
	contract string
	symbols  map[string]any
	missing  []string
	mismatch map[string]string
}

func newChecker(contract string, symbols map[string]any) *checker {
	return &checker{contract: contract, symbols: symbols, mismatch: map[string]string{}}
}

func bind[F any](c *checker, name string) F {
	var zero F
	v, ok := c.symbols[name]
	if !ok || v == nil {
		c.missing = append(c.missing, name)
		return zero
	}
	fn, ok := v.(F)
	if !ok {
		c.mismatch[name] = fmt.Sprintf("%T", v)
		return zero
	}
	return fn
}

func (c *checker) err() error {
	if len(c.missing) == 0 && len(c.mismatch) == 0 {
		return nil
	}
	return &SignatureError{Contract: c.contract, Missing: c.missing, Mismatch: c.mismatch}
}
