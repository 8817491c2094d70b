package registry

import (
	"fmt"
	"log/slog"
	"maps"
	"reflect"
	"sort"
	"strings"
)

// Module is the interface that all compiled-in modules implement to be registered.
type Module interface {
	Register(r *Registry)
}

// Symbols is the namespace of a unit: exported name to value. Values are
// functions, zero-argument factories, or reflect.Type entries created with TypeOf.
type Symbols map[string]any

// TypeOf returns the reflect.Type of T, for registering typed implementations
// that the loader instantiates on every load.
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// IsReserved reports whether name is a non-user name that does not count as
// unit content.
func IsReserved(name string) bool {
	return name == "" || strings.HasPrefix(name, "_") || name == "init" || name == "main"
}

// Registry maps unit names to namespaces and records loaded handles for a
// single application instance.
type Registry struct {
	units   map[string]Symbols
	aliases map[string]string
	handles map[string]any
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{
		units:   make(map[string]Symbols),
		aliases: make(map[string]string),
		handles: make(map[string]any),
	}
}

// RegisterUnit registers a compiled-in unit under name.
func (r *Registry) RegisterUnit(name string, symbols Symbols) {
	if _, exists := r.units[name]; exists {
		panic(fmt.Sprintf("unit with name '%s' already registered", name))
	}
	slog.Debug("Registering unit.", "name", name, "symbols", len(symbols))
	r.units[name] = maps.Clone(symbols)
}

// Alias makes name resolve to the unit registered under target.
func (r *Registry) Alias(name, target string) error {
	if _, ok := r.units[target]; !ok {
		return fmt.Errorf("cannot alias '%s': unit '%s' is not registered (registered: %s)",
			name, target, strings.Join(r.Units(), ", "))
	}
	r.aliases[name] = target
	return nil
}

// Unit returns a private copy of the namespace registered under name,
// following at most one alias.
func (r *Registry) Unit(name string) (Symbols, bool) {
	if target, ok := r.aliases[name]; ok {
		name = target
	}
	symbols, ok := r.units[name]
	if !ok {
		return nil, false
	}
	return maps.Clone(symbols), true
}

// Units returns the names of all registered units, sorted.
func (r *Registry) Units() []string {
	names := make([]string, 0, len(r.units))
	for name := range r.units {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Bind records handle as the current handle for name and reports whether an
// earlier handle was replaced.
func (r *Registry) Bind(name string, handle any) (replaced bool) {
	_, replaced = r.handles[name]
	r.handles[name] = handle
	return replaced
}

// Handle returns the handle most recently bound under name.
func (r *Registry) Handle(name string) (any, bool) {
	h, ok := r.handles[name]
	return h, ok
}
