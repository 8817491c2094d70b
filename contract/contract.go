// Package contract defines the capability contracts that externally authored
// code must satisfy to be driven by the harness: the Algo (train/predict logic
// and model persistence) and the Opener (dataset access and prediction
// persistence).
//
// Implementations come in two authoring styles. The typed style is a Go type
// implementing Algo or Opener. The function style is a flat set of top-level
// functions, one per contract member, which NewAlgoFuncs and NewOpenerFuncs
// adapt into the same interfaces.
package contract

import (
	"context"
	"reflect"
)

// Values crossing the harness boundary are opaque: the harness never
// inspects them, it only hands them from one collaborator to another.
type (
	Features   = any
	Labels     = any
	Model      = any
	Prediction = any
)

// Algo is the training/prediction computation contract.
type Algo interface {
	// Train builds a new model from the data and the ordered pretrained models.
	// rank identifies the training invocation and is passed through untouched.
	Train(ctx context.Context, X Features, y Labels, models []Model, rank int) (Prediction, Model, error)
	Predict(ctx context.Context, X Features, y Labels, model Model) (Prediction, error)
	LoadModel(ctx context.Context, path string) (Model, error)
	SaveModel(ctx context.Context, model Model, path string) error
}

// Opener is the dataset-access and prediction-persistence contract.
type Opener interface {
	GetX(ctx context.Context) (Features, error)
	GetY(ctx context.Context) (Labels, error)
	// FakeX and FakeY return synthetic data used by dry runs.
	FakeX(ctx context.Context) (Features, error)
	FakeY(ctx context.Context) (Labels, error)
	GetPred(ctx context.Context) (Prediction, error)
	SavePred(ctx context.Context, pred Prediction, path string) error
}

// Member names of each contract, in declaration order. A function-style unit
// must bind every one of them to a function.
var (
	AlgoSignature   = []string{"Train", "Predict", "LoadModel", "SaveModel"}
	OpenerSignature = []string{"GetX", "GetY", "FakeX", "FakeY", "GetPred", "SavePred"}
)

// Interface types used by the loader to recognise typed implementations.
var (
	AlgoType   = reflect.TypeOf((*Algo)(nil)).Elem()
	OpenerType = reflect.TypeOf((*Opener)(nil)).Elem()
)
