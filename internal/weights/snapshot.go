package weights

import (
	"github.com/lattice-ml/lattice/internal/tensor"
)

// UnitWeights holds one unit's learned parameter tensors, in slot order.
type UnitWeights struct {
	Name   string
	Params []*tensor.RawTensor
}

// Snapshot is the serialized-weights model consumed by the weight
// transplanter: an ordered list of named units with their parameter
// tensors. It carries no graph structure beyond unit names.
type Snapshot struct {
	NetName string
	Units   []*UnitWeights
}

// UnitByName returns the weights for a unit, or nil if absent.
func (s *Snapshot) UnitByName(name string) *UnitWeights {
	for _, u := range s.Units {
		if u.Name == name {
			return u
		}
	}
	return nil
}
