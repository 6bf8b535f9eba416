package netdef

import "github.com/pkg/errors"

// Validate performs the structural checks that do not require building
// the graph: non-empty names and types, and unit name uniqueness.
// Buffer wiring is validated during graph construction.
func (d *NetDef) Validate() error {
	seen := make(map[string]struct{}, len(d.Units))
	for i, u := range d.Units {
		if u.Name == "" {
			return errors.Errorf("unit at index %d has no name", i)
		}
		if u.Type == "" {
			return errors.Errorf("unit %q has no type", u.Name)
		}
		if _, dup := seen[u.Name]; dup {
			return errors.Errorf("duplicate unit name %q", u.Name)
		}
		seen[u.Name] = struct{}{}
	}
	return nil
}
