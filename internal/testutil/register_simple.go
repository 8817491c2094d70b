package testutil

import "github.com/specialistvlad/algoharness/internal/registry"

// SimpleModule is a test helper for easily creating a module that registers a
// single unit.
type SimpleModule struct {
	UnitName string
	Symbols  registry.Symbols
}

// Register implements the registry.Module interface.
func (m *SimpleModule) Register(r *registry.Registry) {
	if m.UnitName != "" {
		r.RegisterUnit(m.UnitName, m.Symbols)
	}
}

// OpenerModule registers DummyOpener in typed style under "opener".
func OpenerModule() *SimpleModule {
	return &SimpleModule{
		UnitName: "opener",
		Symbols:  registry.Symbols{"Opener": registry.TypeOf[DummyOpener]()},
	}
}
