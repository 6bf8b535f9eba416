package unit

import (
	"github.com/pkg/errors"

	"github.com/lattice-ml/lattice/internal/netdef"
	"github.com/lattice-ml/lattice/internal/tensor"
)

// TypeInput is the distinguished graph-input unit type: its tops become
// the network's declared input buffers.
const TypeInput = "input"

// Input declares graph input buffers with fixed initial shapes. It has
// no bottoms and computes nothing; callers fill its top buffers before
// running the network.
type Input struct {
	base
	shapes []tensor.Shape
}

func init() {
	Register(TypeInput, newInput)
}

func newInput(def *netdef.UnitDef) (Unit, error) {
	if def.Input == nil {
		return nil, errors.Errorf("unit %q: input settings block is required", def.Name)
	}
	shapes := make([]tensor.Shape, len(def.Input.Shapes))
	for i, dims := range def.Input.Shapes {
		shapes[i] = tensor.Shape(dims).Clone()
	}
	return &Input{base: base{name: def.Name, typ: TypeInput}, shapes: shapes}, nil
}

// SetUp checks the declared shape count and sizes the tops.
func (u *Input) SetUp(bottoms, tops []*tensor.RawTensor) error {
	if len(bottoms) != 0 {
		return errors.Errorf("input unit %q takes no bottoms, got %d", u.name, len(bottoms))
	}
	if len(tops) != len(u.shapes) {
		return errors.Errorf("input unit %q declares %d shapes for %d tops", u.name, len(u.shapes), len(tops))
	}
	for i, top := range tops {
		if err := top.Reshape(u.shapes[i]); err != nil {
			return errors.Wrapf(err, "input unit %q top %d", u.name, i)
		}
	}
	return nil
}

// Reshape is a no-op: input shapes are set once at SetUp, and callers
// may reshape the input buffers directly before propagating the change
// through the rest of the graph.
func (u *Input) Reshape(_, _ []*tensor.RawTensor) error {
	return nil
}

// Forward is a no-op; input buffers are filled by the caller.
func (u *Input) Forward(_, _ []*tensor.RawTensor) (float64, error) {
	return 0, nil
}
