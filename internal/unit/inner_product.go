package unit

import (
	"math"
	"math/rand"

	"github.com/pkg/errors"

	"github.com/lattice-ml/lattice/internal/netdef"
	"github.com/lattice-ml/lattice/internal/tensor"
)

// TypeInnerProduct is the fully connected unit type.
const TypeInnerProduct = "inner_product"

// InnerProduct computes y = x @ W.T (+ b) over a 2D input
// [batch, in_features], producing [batch, num_output].
//
// Weight shape is [num_output, in_features], bias shape [num_output].
// Weights get Xavier-uniform initialization, biases start at zero.
type InnerProduct struct {
	base
	numOutput  int
	hasBias    bool
	inFeatures int
	weight     *tensor.RawTensor
	bias       *tensor.RawTensor
}

func init() {
	Register(TypeInnerProduct, newInnerProduct)
}

func newInnerProduct(def *netdef.UnitDef) (Unit, error) {
	if def.InnerProduct == nil {
		return nil, errors.Errorf("unit %q: inner_product settings block is required", def.Name)
	}
	if def.InnerProduct.NumOutput <= 0 {
		return nil, errors.Errorf("unit %q: num_output must be positive, got %d", def.Name, def.InnerProduct.NumOutput)
	}
	return &InnerProduct{
		base:      base{name: def.Name, typ: TypeInnerProduct},
		numOutput: def.InnerProduct.NumOutput,
		hasBias:   def.InnerProduct.HasBias(),
	}, nil
}

// SetUp validates the input rank, allocates parameters, and sizes the top.
func (u *InnerProduct) SetUp(bottoms, tops []*tensor.RawTensor) error {
	if len(bottoms) != 1 || len(tops) != 1 {
		return errors.Errorf("inner_product unit %q requires one bottom and one top, got %d and %d",
			u.name, len(bottoms), len(tops))
	}
	in := bottoms[0].Shape()
	if len(in) != 2 {
		return errors.Errorf("inner_product unit %q expects a 2D bottom [batch, features], got %v", u.name, in)
	}
	u.inFeatures = in[1]

	var err error
	if u.weight, err = tensor.NewRaw(tensor.Shape{u.numOutput, u.inFeatures}, tensor.Float32); err != nil {
		return errors.Wrapf(err, "inner_product unit %q weight", u.name)
	}
	xavierFill(u.weight.AsFloat32(), u.inFeatures, u.numOutput)
	if u.hasBias {
		if u.bias, err = tensor.NewRaw(tensor.Shape{u.numOutput}, tensor.Float32); err != nil {
			return errors.Wrapf(err, "inner_product unit %q bias", u.name)
		}
	}
	return u.Reshape(bottoms, tops)
}

// Reshape sizes the top as [batch, num_output], checking that the
// feature dimension still matches the weights.
func (u *InnerProduct) Reshape(bottoms, tops []*tensor.RawTensor) error {
	in := bottoms[0].Shape()
	if len(in) != 2 || in[1] != u.inFeatures {
		return errors.Errorf("inner_product unit %q configured for %d input features, got bottom shape %v",
			u.name, u.inFeatures, in)
	}
	return tops[0].Reshape(tensor.Shape{in[0], u.numOutput})
}

// Forward computes the affine transform with a naive matmul.
func (u *InnerProduct) Forward(bottoms, tops []*tensor.RawTensor) (float64, error) {
	in := bottoms[0].Shape()
	batch := in[0]
	x := bottoms[0].AsFloat32()
	w := u.weight.AsFloat32()
	y := tops[0].AsFloat32()

	for n := 0; n < batch; n++ {
		for o := 0; o < u.numOutput; o++ {
			var sum float32
			row := w[o*u.inFeatures : (o+1)*u.inFeatures]
			xin := x[n*u.inFeatures : (n+1)*u.inFeatures]
			for i, v := range xin {
				sum += v * row[i]
			}
			y[n*u.numOutput+o] = sum
		}
	}
	if u.hasBias {
		b := u.bias.AsFloat32()
		for n := 0; n < batch; n++ {
			for o := 0; o < u.numOutput; o++ {
				y[n*u.numOutput+o] += b[o]
			}
		}
	}
	return 0, nil
}

// Params returns [weight] or [weight, bias].
func (u *InnerProduct) Params() []*tensor.RawTensor {
	if u.hasBias {
		return []*tensor.RawTensor{u.weight, u.bias}
	}
	return []*tensor.RawTensor{u.weight}
}

// ShareParam redirects a parameter slot to another unit's storage.
func (u *InnerProduct) ShareParam(slot int, owner *tensor.RawTensor) error {
	switch slot {
	case 0:
		u.weight = owner
	case 1:
		if !u.hasBias {
			return errors.Errorf("inner_product unit %q has no bias slot", u.name)
		}
		u.bias = owner
	default:
		return errors.Errorf("inner_product unit %q has no parameter slot %d", u.name, slot)
	}
	return nil
}

// xavierFill initializes weights from U(-bound, bound) with the
// Xavier/Glorot bound sqrt(6 / (fan_in + fan_out)).
func xavierFill(data []float32, fanIn, fanOut int) {
	bound := math.Sqrt(6.0 / float64(fanIn+fanOut))
	for i := range data {
		//nolint:gosec // math/rand for weight initialization (not security-critical)
		data[i] = float32((rand.Float64()*2.0 - 1.0) * bound)
	}
}
