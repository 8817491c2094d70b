package algo

import (
	"context"
	"testing"

	"github.com/specialistvlad/algoharness/contract"
	"github.com/specialistvlad/algoharness/internal/loader"
	"github.com/specialistvlad/algoharness/internal/registry"
	"github.com/specialistvlad/algoharness/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromModule(t *testing.T) {
	t.Parallel()

	a := &testutil.DummyAlgo{}
	funcs := registry.Symbols{
		"Train":     a.Train,
		"Predict":   a.Predict,
		"LoadModel": a.LoadModel,
		"SaveModel": a.SaveModel,
	}

	testCases := []struct {
		name    string
		symbols registry.Symbols
		want    any
	}{
		{name: "typed", symbols: registry.Symbols{"Algo": registry.TypeOf[testutil.DummyAlgo]()}, want: &testutil.DummyAlgo{}},
		{name: "function style", symbols: funcs, want: &contract.AlgoFuncs{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			reg := registry.New()
			reg.RegisterUnit(UnitName, tc.symbols)

			got, err := LoadFromModule(context.Background(), loader.New(reg, loader.WithSearchPath(t.TempDir())), "")
			require.NoError(t, err)
			assert.IsType(t, tc.want, got)
		})
	}
}

func TestLoadFromModule_Invalid(t *testing.T) {
	t.Parallel()

	reg := registry.New()
	reg.RegisterUnit(UnitName, registry.Symbols{"Train": func() {}})

	_, err := LoadFromModule(context.Background(), loader.New(reg), "")
	require.ErrorIs(t, err, ErrInvalidAlgo)
	assert.Contains(t, err.Error(), "'Predict', 'LoadModel', 'SaveModel'")
}

func TestLoadFromModule_NotFound(t *testing.T) {
	t.Parallel()

	_, err := LoadFromModule(context.Background(), loader.New(registry.New(), loader.WithSearchPath(t.TempDir())), "")
	require.ErrorIs(t, err, loader.ErrUnitNotFound)
	assert.NotErrorIs(t, err, ErrInvalidAlgo)
}
