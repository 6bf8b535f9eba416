package graph

import (
	"github.com/pkg/errors"

	"github.com/lattice-ml/lattice/internal/netdef"
)

// filterNet reduces a description to the units admitted by its runtime
// state, preserving declaration order. A unit with include rules is
// admitted iff at least one include rule is met; a unit without include
// rules is admitted unless an exclude rule is met. Declaring both kinds
// on one unit is a configuration error.
func filterNet(def *netdef.NetDef) (*netdef.NetDef, error) {
	state := def.State
	filtered := &netdef.NetDef{Name: def.Name, State: def.State}
	for _, u := range def.Units {
		if len(u.Include) > 0 && len(u.Exclude) > 0 {
			return nil, errors.Errorf(
				"unit %q specifies both include and exclude rules; specify one or the other", u.Name)
		}
		included := len(u.Include) == 0
		for j := 0; included && j < len(u.Exclude); j++ {
			if stateMeetsRule(state, u.Exclude[j], u.Name) {
				included = false
			}
		}
		for j := 0; !included && j < len(u.Include); j++ {
			if stateMeetsRule(state, u.Include[j], u.Name) {
				included = true
			}
		}
		if included {
			filtered.Units = append(filtered.Units, u)
		}
	}
	return filtered, nil
}
