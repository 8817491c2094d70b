package algo

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/algoharness/contract"
	"github.com/specialistvlad/algoharness/internal/loader"
	"github.com/specialistvlad/algoharness/internal/registry"
)

// UnitName is the logical name an Algo is resolved under.
const UnitName = "algo"

// ErrInvalidAlgo wraps every structural problem found while loading an Algo.
var ErrInvalidAlgo = errors.New("invalid algo")

// LoadFromModule resolves an Algo through the loader, from path when set and
// from the "algo" unit otherwise. Function-style units are adapted with
// contract.NewAlgoFuncs.
func LoadFromModule(ctx context.Context, ldr *loader.Loader, path string) (contract.Algo, error) {
	handle, err := ldr.Load(ctx, loader.Request{
		Name:       UnitName,
		Capability: contract.AlgoType,
		Signature:  contract.AlgoSignature,
		Path:       path,
	})
	if err != nil {
		if errors.Is(err, loader.ErrEmptyInterface) || errors.Is(err, loader.ErrInvalidInterface) {
			return nil, fmt.Errorf("%w: %w", ErrInvalidAlgo, err)
		}
		return nil, err
	}

	switch h := handle.(type) {
	case contract.Algo:
		return h, nil
	case registry.Symbols:
		a, err := contract.NewAlgoFuncs(h)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidAlgo, err)
		}
		return a, nil
	}
	return nil, fmt.Errorf("%w: unexpected handle type %T", ErrInvalidAlgo, handle)
}
