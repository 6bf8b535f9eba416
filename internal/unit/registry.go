package unit

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/lattice-ml/lattice/internal/netdef"
)

// Factory constructs a unit from its declaration.
type Factory func(def *netdef.UnitDef) (Unit, error)

var factories = map[string]Factory{}

// Register adds a unit type to the registry. Registering a type name
// twice panics; built-in types register from init functions.
func Register(typeName string, f Factory) {
	if _, exists := factories[typeName]; exists {
		panic("unit type already registered: " + typeName)
	}
	factories[typeName] = f
}

// New instantiates the unit a declaration asks for.
func New(def *netdef.UnitDef) (Unit, error) {
	f, ok := factories[def.Type]
	if !ok {
		return nil, errors.Errorf("unknown unit type %q (unit %q)", def.Type, def.Name)
	}
	return f(def)
}

// RegisteredTypes returns all registered type names, sorted.
func RegisteredTypes() []string {
	types := make([]string, 0, len(factories))
	for t := range factories {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
