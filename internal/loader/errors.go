package loader

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for load-time structural problems. Use errors.Is to classify.
var (
	ErrUnitNotFound     = errors.New("unit not found")
	ErrEmptyInterface   = errors.New("empty interface")
	ErrInvalidInterface = errors.New("invalid interface")
)

// InterfaceError describes why a loaded unit was rejected. Kind is one of
// ErrEmptyInterface or ErrInvalidInterface.
type InterfaceError struct {
	Kind     error
	Unit     string
	Expected string   // capability the unit was checked against
	Missing  []string // required functions not bound to a callable, in signature order
	Members  []string // every name declared by the unit
}

func (e *InterfaceError) Error() string {
	switch {
	case errors.Is(e.Kind, ErrEmptyInterface):
		return fmt.Sprintf("unit '%s' seems empty: members: [%s]", e.Unit, strings.Join(e.Members, ", "))
	case len(e.Missing) > 0:
		quoted := make([]string, len(e.Missing))
		for i, m := range e.Missing {
			quoted[i] = "'" + m + "'"
		}
		return fmt.Sprintf("unit '%s': method(s) %s not implemented", e.Unit, strings.Join(quoted, ", "))
	default:
		return fmt.Sprintf("expecting %s implementation in unit '%s'", e.Expected, e.Unit)
	}
}

// Is lets errors.Is match the sentinel stored in Kind.
func (e *InterfaceError) Is(target error) bool {
	return target == e.Kind
}
