package unit

import (
	"github.com/pkg/errors"

	"github.com/lattice-ml/lattice/internal/netdef"
	"github.com/lattice-ml/lattice/internal/tensor"
)

// TypeScale is the per-channel scaling unit type.
const TypeScale = "scale"

// Scale multiplies the bottom by a learned factor along one axis
// (the channel axis by default). Its single parameter has the shape
// of that axis, which makes it the simplest unit to share parameters
// across branches with.
type Scale struct {
	base
	axis  int
	gamma *tensor.RawTensor
}

func init() {
	Register(TypeScale, newScale)
}

func newScale(def *netdef.UnitDef) (Unit, error) {
	axis := 1
	if def.Scale != nil && def.Scale.Axis != 0 {
		axis = def.Scale.Axis
	}
	return &Scale{base: base{name: def.Name, typ: TypeScale}, axis: axis}, nil
}

func (u *Scale) SetUp(bottoms, tops []*tensor.RawTensor) error {
	if len(bottoms) != 1 || len(tops) != 1 {
		return errors.Errorf("scale unit %q requires one bottom and one top, got %d and %d",
			u.name, len(bottoms), len(tops))
	}
	in := bottoms[0].Shape()
	if u.axis < 0 || u.axis >= len(in) {
		return errors.Errorf("scale unit %q axis %d out of range for bottom shape %v", u.name, u.axis, in)
	}

	var err error
	if u.gamma, err = tensor.NewRaw(tensor.Shape{in[u.axis]}, tensor.Float32); err != nil {
		return errors.Wrapf(err, "scale unit %q gamma", u.name)
	}
	for i := range u.gamma.AsFloat32() {
		u.gamma.AsFloat32()[i] = 1
	}
	return u.Reshape(bottoms, tops)
}

func (u *Scale) Reshape(bottoms, tops []*tensor.RawTensor) error {
	in := bottoms[0].Shape()
	if u.axis >= len(in) || in[u.axis] != u.gamma.NumElements() {
		return errors.Errorf("scale unit %q configured for %d channels, got bottom shape %v",
			u.name, u.gamma.NumElements(), in)
	}
	return tops[0].ReshapeLike(bottoms[0])
}

// Forward multiplies each slice along the scale axis by its factor.
// Safe for in-place use.
func (u *Scale) Forward(bottoms, tops []*tensor.RawTensor) (float64, error) {
	in := bottoms[0].Shape()
	outer := 1
	for _, d := range in[:u.axis] {
		outer *= d
	}
	channels := in[u.axis]
	inner := 1
	for _, d := range in[u.axis+1:] {
		inner *= d
	}

	x := bottoms[0].AsFloat32()
	y := tops[0].AsFloat32()
	g := u.gamma.AsFloat32()
	for o := 0; o < outer; o++ {
		for c := 0; c < channels; c++ {
			offset := (o*channels + c) * inner
			for i := 0; i < inner; i++ {
				y[offset+i] = x[offset+i] * g[c]
			}
		}
	}
	return 0, nil
}

// Params returns the single scale factor tensor.
func (u *Scale) Params() []*tensor.RawTensor {
	return []*tensor.RawTensor{u.gamma}
}

// ShareParam redirects the factor to another unit's storage.
func (u *Scale) ShareParam(slot int, owner *tensor.RawTensor) error {
	if slot != 0 {
		return errors.Errorf("scale unit %q has no parameter slot %d", u.name, slot)
	}
	u.gamma = owner
	return nil
}
