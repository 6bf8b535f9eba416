package unit

import (
	"github.com/pkg/errors"

	"github.com/lattice-ml/lattice/internal/netdef"
	"github.com/lattice-ml/lattice/internal/tensor"
)

// TypeSplit is the fan-out materialization unit type. Split units are
// normally generated by the split-insertion pass rather than declared
// by hand.
const TypeSplit = "split"

// Split copies its single bottom into each of its tops, giving every
// downstream consumer a uniquely-owned buffer.
type Split struct {
	base
}

func init() {
	Register(TypeSplit, func(def *netdef.UnitDef) (Unit, error) {
		return &Split{base: base{name: def.Name, typ: TypeSplit}}, nil
	})
}

// SetUp validates arity and sizes the tops.
func (u *Split) SetUp(bottoms, tops []*tensor.RawTensor) error {
	if len(bottoms) != 1 {
		return errors.Errorf("split unit %q requires exactly one bottom, got %d", u.name, len(bottoms))
	}
	if len(tops) < 1 {
		return errors.Errorf("split unit %q requires at least one top", u.name)
	}
	return u.Reshape(bottoms, tops)
}

// Reshape makes every top match the bottom's shape.
func (u *Split) Reshape(bottoms, tops []*tensor.RawTensor) error {
	for i, top := range tops {
		if err := top.ReshapeLike(bottoms[0]); err != nil {
			return errors.Wrapf(err, "split unit %q top %d", u.name, i)
		}
	}
	return nil
}

// Forward copies the bottom into each top.
func (u *Split) Forward(bottoms, tops []*tensor.RawTensor) (float64, error) {
	for i, top := range tops {
		if err := top.CopyFrom(bottoms[0]); err != nil {
			return 0, errors.Wrapf(err, "split unit %q top %d", u.name, i)
		}
	}
	return 0, nil
}
