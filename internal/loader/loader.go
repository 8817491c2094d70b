// Package loader turns an externally authored unit into a validated handle
// conforming to a capability interface.
//
// A unit is resolved from an explicit plugin path, from the registry of
// compiled-in units, or from the plugin search path. The loader then looks for
// a typed implementation of the capability among the unit's members and
// instantiates it. When none exists it falls back to treating the namespace
// itself as the handle (function style), provided the caller supplied the list
// of required function names.
package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"sort"
	"strings"

	"github.com/specialistvlad/algoharness/internal/ctxlog"
	"github.com/specialistvlad/algoharness/internal/fsutil"
	"github.com/specialistvlad/algoharness/internal/registry"
)

// Request describes one load.
type Request struct {
	// Name is the logical unit name, also the key the handle is bound under.
	Name string
	// Capability is the interface type a typed implementation must satisfy.
	Capability reflect.Type
	// Signature lists the functions a function-style unit must define. A nil
	// Signature disables the function-style fallback.
	Signature []string
	// Path is an optional explicit plugin file.
	Path string
}

// Loader resolves and validates units.
type Loader struct {
	registry   *registry.Registry
	searchPath []string
	open       OpenFunc
}

// Option configures a Loader.
type Option func(*Loader)

// WithSearchPath sets the directories scanned for <name>.so plugins.
func WithSearchPath(dirs ...string) Option {
	return func(l *Loader) { l.searchPath = dirs }
}

// WithOpenFunc replaces the plugin opener.
func WithOpenFunc(fn OpenFunc) Option {
	return func(l *Loader) { l.open = fn }
}

// New creates a Loader backed by reg.
func New(reg *registry.Registry, opts ...Option) *Loader {
	l := &Loader{
		registry:   reg,
		searchPath: []string{"."},
		open:       OpenPlugin,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load resolves the unit named by req and returns its handle: either a fresh
// instance of a typed implementation or the unit's registry.Symbols. The
// handle is bound in the registry; a handle bound earlier under the same name
// is replaced with a warning.
func (l *Loader) Load(ctx context.Context, req Request) (any, error) {
	logger := ctxlog.FromContext(ctx).With("unit", req.Name)

	symbols, source, err := l.resolve(req)
	if err != nil {
		return nil, err
	}
	logger.Info("Unit loaded.", "source", source, "symbols", len(symbols))

	handle, err := l.handleFrom(ctx, req, symbols)
	if err != nil {
		return nil, err
	}

	previous, _ := l.registry.Handle(req.Name)
	if l.registry.Bind(req.Name, handle) {
		logger.Warn("Unit will be overwritten.", "previous", fmt.Sprintf("%T", previous))
	}
	return handle, nil
}

func (l *Loader) resolve(req Request) (registry.Symbols, string, error) {
	probe := append(slices.Clone(req.Signature), FactorySymbol)

	if req.Path != "" {
		if _, err := os.Stat(req.Path); err != nil {
			return nil, "", fmt.Errorf("%w: path '%s': %w", ErrUnitNotFound, req.Path, err)
		}
		return l.openAt(req.Name, req.Path, probe)
	}

	if symbols, ok := l.registry.Unit(req.Name); ok {
		return symbols, "registry", nil
	}

	candidates := make([]string, len(l.searchPath))
	for i, dir := range l.searchPath {
		candidates[i] = filepath.Join(dir, req.Name+PluginExt)
	}
	if path, ok := fsutil.FirstExisting(candidates); ok {
		return l.openAt(req.Name, path, probe)
	}

	found, _ := fsutil.FindFilesByExtension(l.searchPath, PluginExt)
	return nil, "", fmt.Errorf("%w: '%s' is not registered and no %s%s in [%s] (registered: [%s], plugins: [%s])",
		ErrUnitNotFound, req.Name, req.Name, PluginExt,
		strings.Join(l.searchPath, ", "),
		strings.Join(l.registry.Units(), ", "),
		strings.Join(found, ", "))
}

func (l *Loader) openAt(name, path string, probe []string) (registry.Symbols, string, error) {
	symbols, err := l.open(path, probe)
	if err != nil {
		return nil, "", fmt.Errorf("loading unit '%s' from '%s': %w", name, path, err)
	}
	return symbols, path, nil
}

func (l *Loader) handleFrom(ctx context.Context, req Request, symbols registry.Symbols) (any, error) {
	logger := ctxlog.FromContext(ctx).With("unit", req.Name)

	names := make([]string, 0, len(symbols))
	for name := range symbols {
		names = append(names, name)
	}
	sort.Strings(names)

	if req.Capability != nil && req.Capability.Kind() == reflect.Interface {
		for _, name := range names {
			if registry.IsReserved(name) {
				continue
			}
			if inst, ok := instantiate(symbols[name], req.Capability); ok {
				logger.Debug("Typed implementation found.", "member", name, "type", fmt.Sprintf("%T", inst))
				return inst, nil
			}
		}
	}

	if !slices.ContainsFunc(names, func(n string) bool { return !registry.IsReserved(n) }) {
		return nil, &InterfaceError{Kind: ErrEmptyInterface, Unit: req.Name, Members: names}
	}

	expected := "<nil>"
	if req.Capability != nil {
		expected = req.Capability.String()
	}
	if req.Signature == nil {
		logger.Info("Typed implementation not found.", "expected", expected, "members", names)
		return nil, &InterfaceError{Kind: ErrInvalidInterface, Unit: req.Name, Expected: expected, Members: names}
	}

	var missing []string
	for _, fn := range req.Signature {
		if !isFunc(symbols[fn]) {
			missing = append(missing, fn)
		}
	}
	if len(missing) > 0 {
		return nil, &InterfaceError{Kind: ErrInvalidInterface, Unit: req.Name, Expected: expected, Missing: missing, Members: names}
	}

	logger.Debug("Using function-style unit.", "functions", req.Signature)
	return symbols, nil
}

// instantiate builds a fresh value from a typed member: a reflect.Type whose
// value or pointer implements capability, or a zero-argument factory whose
// single result implements it.
func instantiate(member any, capability reflect.Type) (any, bool) {
	if t, ok := member.(reflect.Type); ok {
		switch {
		case t.Kind() == reflect.Interface:
			return nil, false
		case t.Kind() == reflect.Pointer && t.Implements(capability):
			return reflect.New(t.Elem()).Interface(), true
		case t.Kind() != reflect.Pointer && reflect.PointerTo(t).Implements(capability):
			return reflect.New(t).Interface(), true
		}
		return nil, false
	}

	rv := reflect.ValueOf(member)
	if rv.Kind() != reflect.Func || rv.IsNil() {
		return nil, false
	}
	ft := rv.Type()
	if ft.NumIn() != 0 || ft.NumOut() != 1 || !ft.Out(0).Implements(capability) {
		return nil, false
	}
	out := rv.Call(nil)[0]
	switch out.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Func:
		if out.IsNil() {
			return nil, false
		}
	}
	return out.Interface(), true
}

func isFunc(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Func && !rv.IsNil()
}
