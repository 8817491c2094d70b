package app

import (
	"github.com/specialistvlad/algoharness/internal/registry"
	"github.com/specialistvlad/algoharness/modules/concat"
	"github.com/specialistvlad/algoharness/modules/jsonopener"
)

// coreModules is the definitive list of all modules that are compiled into
// the algoharness binary.
var coreModules = []registry.Module{
	&jsonopener.Module{},
	&concat.Module{},
}
