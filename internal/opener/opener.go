// Package opener resolves the workspace's Opener through the loader and
// translates generic load failures into opener-specific errors.
package opener

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/algoharness/contract"
	"github.com/specialistvlad/algoharness/internal/loader"
	"github.com/specialistvlad/algoharness/internal/registry"
)

// UnitName is the logical name the Opener is resolved under.
const UnitName = "opener"

var (
	ErrOpenerModuleNotFound = errors.New("opener module not found")
	ErrInvalidOpener        = errors.New("invalid opener")
)

// LoadFromModule resolves the "opener" unit through the standard resolution
// path (registry, then plugin search path) and returns it as a contract.Opener.
// The underlying loader error stays reachable with errors.Is/As.
func LoadFromModule(ctx context.Context, ldr *loader.Loader) (contract.Opener, error) {
	handle, err := ldr.Load(ctx, loader.Request{
		Name:       UnitName,
		Capability: contract.OpenerType,
		Signature:  contract.OpenerSignature,
	})
	if err != nil {
		return nil, remap(err)
	}

	switch h := handle.(type) {
	case contract.Opener:
		return h, nil
	case registry.Symbols:
		o, err := contract.NewOpenerFuncs(h)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidOpener, err)
		}
		return o, nil
	default:
		return nil, fmt.Errorf("%w: unexpected handle type %T", ErrInvalidOpener, handle)
	}
}

func remap(err error) error {
	switch {
	case errors.Is(err, loader.ErrUnitNotFound):
		return fmt.Errorf("%w: %w", ErrOpenerModuleNotFound, err)
	case errors.Is(err, loader.ErrEmptyInterface), errors.Is(err, loader.ErrInvalidInterface):
		return fmt.Errorf("%w: %w", ErrInvalidOpener, err)
	}
	return err
}
