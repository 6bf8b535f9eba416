package unit

import (
	"github.com/pkg/errors"

	"github.com/lattice-ml/lattice/internal/netdef"
	"github.com/lattice-ml/lattice/internal/tensor"
)

// TypeEuclideanLoss is the squared-error objective unit type.
const TypeEuclideanLoss = "euclidean_loss"

// EuclideanLoss computes 1/(2N) * sum((a - b)^2) over its two bottoms
// and reports it as the unit's scalar objective contribution. Its top,
// if declared, receives the scalar value.
type EuclideanLoss struct {
	base
}

func init() {
	Register(TypeEuclideanLoss, func(def *netdef.UnitDef) (Unit, error) {
		return &EuclideanLoss{base: base{name: def.Name, typ: TypeEuclideanLoss}}, nil
	})
}

func (u *EuclideanLoss) SetUp(bottoms, tops []*tensor.RawTensor) error {
	if len(bottoms) != 2 {
		return errors.Errorf("euclidean_loss unit %q requires two bottoms, got %d", u.name, len(bottoms))
	}
	if len(tops) > 1 {
		return errors.Errorf("euclidean_loss unit %q takes at most one top, got %d", u.name, len(tops))
	}
	if !bottoms[0].Shape().Equal(bottoms[1].Shape()) {
		return errors.Errorf("euclidean_loss unit %q bottom shapes differ: %v vs %v",
			u.name, bottoms[0].Shape(), bottoms[1].Shape())
	}
	return u.Reshape(bottoms, tops)
}

func (u *EuclideanLoss) Reshape(bottoms, tops []*tensor.RawTensor) error {
	if !bottoms[0].Shape().Equal(bottoms[1].Shape()) {
		return errors.Errorf("euclidean_loss unit %q bottom shapes differ: %v vs %v",
			u.name, bottoms[0].Shape(), bottoms[1].Shape())
	}
	if len(tops) == 1 {
		return tops[0].Reshape(tensor.Shape{})
	}
	return nil
}

func (u *EuclideanLoss) Forward(bottoms, tops []*tensor.RawTensor) (float64, error) {
	a := bottoms[0].AsFloat32()
	b := bottoms[1].AsFloat32()
	var sum float64
	for i := range a {
		d := float64(a[i] - b[i])
		sum += d * d
	}
	// Normalized by batch size, matching the usual convention for
	// regression objectives.
	batch := 1
	if shape := bottoms[0].Shape(); len(shape) > 0 {
		batch = shape[0]
	}
	loss := sum / (2 * float64(batch))
	if len(tops) == 1 {
		tops[0].AsFloat32()[0] = float32(loss)
	}
	return loss, nil
}

// Backward distributes the objective gradient to both bottoms with
// opposite signs: d/da = (a-b)/N, d/db = (b-a)/N, scaled by the
// incoming scalar gradient (1 when no top diff is supplied).
func (u *EuclideanLoss) Backward(tops, topDiffs, bottoms, bottomDiffs []*tensor.RawTensor, propagateDown []bool) error {
	scale := float32(1)
	if len(topDiffs) == 1 && topDiffs[0] != nil {
		scale = topDiffs[0].AsFloat32()[0]
	}
	batch := 1
	if shape := bottoms[0].Shape(); len(shape) > 0 {
		batch = shape[0]
	}
	scale /= float32(batch)

	a := bottoms[0].AsFloat32()
	b := bottoms[1].AsFloat32()
	for side, diff := range bottomDiffs {
		if side < len(propagateDown) && !propagateDown[side] {
			continue
		}
		sign := scale
		if side == 1 {
			sign = -scale
		}
		d := diff.AsFloat32()
		for i := range a {
			d[i] = sign * (a[i] - b[i])
		}
	}
	return nil
}
