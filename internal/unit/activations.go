package unit

import (
	"math"

	"github.com/pkg/errors"

	"github.com/lattice-ml/lattice/internal/netdef"
	"github.com/lattice-ml/lattice/internal/tensor"
)

// Activation unit type names.
const (
	TypeReLU    = "relu"
	TypeSigmoid = "sigmoid"
)

func init() {
	Register(TypeReLU, func(def *netdef.UnitDef) (Unit, error) {
		return &elementwise{base: base{name: def.Name, typ: TypeReLU}, fn: relu, dfn: reluGrad}, nil
	})
	Register(TypeSigmoid, func(def *netdef.UnitDef) (Unit, error) {
		return &elementwise{base: base{name: def.Name, typ: TypeSigmoid}, fn: sigmoid, dfn: sigmoidGrad}, nil
	})
}

func relu(x float32) float32 {
	if x > 0 {
		return x
	}
	return 0
}

// reluGrad takes the top value so it stays correct for in-place runs,
// where the bottom has already been overwritten.
func reluGrad(y float32) float32 {
	if y > 0 {
		return 1
	}
	return 0
}

func sigmoid(x float32) float32 {
	return float32(1.0 / (1.0 + math.Exp(-float64(x))))
}

func sigmoidGrad(y float32) float32 {
	return y * (1 - y)
}

// elementwise applies a unary function. Safe for in-place use: the top
// may alias the bottom's storage. dfn maps a top value to the local
// derivative dy/dx.
type elementwise struct {
	base
	fn  func(float32) float32
	dfn func(float32) float32
}

func (u *elementwise) SetUp(bottoms, tops []*tensor.RawTensor) error {
	if len(bottoms) != 1 || len(tops) != 1 {
		return errors.Errorf("%s unit %q requires one bottom and one top, got %d and %d",
			u.typ, u.name, len(bottoms), len(tops))
	}
	return u.Reshape(bottoms, tops)
}

func (u *elementwise) Reshape(bottoms, tops []*tensor.RawTensor) error {
	return tops[0].ReshapeLike(bottoms[0])
}

func (u *elementwise) Forward(bottoms, tops []*tensor.RawTensor) (float64, error) {
	x := bottoms[0].AsFloat32()
	y := tops[0].AsFloat32()
	for i, v := range x {
		y[i] = u.fn(v)
	}
	return 0, nil
}

// Backward scales the incoming gradient by the local derivative.
func (u *elementwise) Backward(tops, topDiffs, bottoms, bottomDiffs []*tensor.RawTensor, propagateDown []bool) error {
	if len(propagateDown) > 0 && !propagateDown[0] {
		return nil
	}
	y := tops[0].AsFloat32()
	dy := topDiffs[0].AsFloat32()
	dx := bottomDiffs[0].AsFloat32()
	for i := range y {
		dx[i] = dy[i] * u.dfn(y[i])
	}
	return nil
}
