package loader

import (
	"debug/elf"
	"debug/macho"
	"fmt"
	"go/token"
	"maps"
	"plugin"
	"reflect"
	"slices"
	"strings"

	"github.com/specialistvlad/algoharness/internal/registry"
)

const (
	// PluginExt is the file extension searched for along the search path.
	PluginExt = ".so"
	// ExportsSymbol names an optional `var Exports map[string]any` declaring
	// the plugin's whole namespace.
	ExportsSymbol = "Exports"
	// FactorySymbol is always probed in plugins without Exports.
	FactorySymbol = "New"
)

// OpenFunc turns an artifact on disk into a unit namespace. probe lists the
// symbol names worth looking up when the artifact cannot enumerate itself.
type OpenFunc func(path string, probe []string) (registry.Symbols, error)

// OpenPlugin opens a Go plugin. A plugin exporting Exports contributes that
// map. Otherwise every exported top-level name of the plugin's main package
// becomes a symbol: candidates come from the object file's symbol table plus
// probe, and plugin.Lookup keeps the ones that belong to the plugin.
func OpenPlugin(path string, probe []string) (registry.Symbols, error) {
	p, err := plugin.Open(path)
	if err != nil {
		return nil, err
	}

	if sym, err := p.Lookup(ExportsSymbol); err == nil {
		switch exports := sym.(type) {
		case *map[string]any:
			return registry.Symbols(maps.Clone(*exports)), nil
		case func() map[string]any:
			return registry.Symbols(exports()), nil
		default:
			return nil, fmt.Errorf("symbol %s has unsupported type %T", ExportsSymbol, sym)
		}
	}

	// An unreadable symbol table leaves only the probed names.
	names, _ := exportedNames(path)
	names = append(names, probe...)

	symbols := registry.Symbols{}
	for _, name := range names {
		if _, seen := symbols[name]; seen {
			continue
		}
		sym, err := p.Lookup(name)
		if err != nil {
			continue
		}
		symbols[name] = symbolValue(sym)
	}
	return symbols, nil
}

// exportedNames lists the exported identifiers found as the last element of a
// symbol name in the ELF or Mach-O file at path, e.g. "Foo" for
// "plugin/unnamed-4f2a.Foo". The list is a superset of the plugin's exports.
func exportedNames(path string) ([]string, error) {
	raw, err := symbolTable(path)
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	for _, name := range raw {
		i := strings.LastIndexByte(name, '.')
		if i < 0 {
			continue
		}
		ident := name[i+1:]
		if token.IsIdentifier(ident) && token.IsExported(ident) {
			seen[ident] = true
		}
	}
	return slices.Sorted(maps.Keys(seen)), nil
}

func symbolTable(path string) ([]string, error) {
	if f, err := elf.Open(path); err == nil {
		defer f.Close()
		var names []string
		for _, read := range []func() ([]elf.Symbol, error){f.Symbols, f.DynamicSymbols} {
			syms, err := read()
			if err != nil {
				continue
			}
			for _, s := range syms {
				names = append(names, s.Name)
			}
		}
		return names, nil
	}

	f, err := macho.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading symbol table of '%s': unsupported object format", path)
	}
	defer f.Close()
	if f.Symtab == nil {
		return nil, nil
	}
	names := make([]string, 0, len(f.Symtab.Syms))
	for _, s := range f.Symtab.Syms {
		names = append(names, strings.TrimPrefix(s.Name, "_"))
	}
	return names, nil
}

// symbolValue dereferences package-level variables, which plugin.Lookup
// returns as pointers, when they hold functions or types.
func symbolValue(sym plugin.Symbol) any {
	rv := reflect.ValueOf(sym)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return sym
	}
	switch elem := rv.Elem(); {
	case elem.Kind() == reflect.Func:
		return elem.Interface()
	case elem.Type() == reflect.TypeOf((*reflect.Type)(nil)).Elem():
		return elem.Interface()
	}
	return sym
}
