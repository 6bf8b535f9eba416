package unit

import (
	"math"

	"github.com/pkg/errors"

	"github.com/lattice-ml/lattice/internal/netdef"
	"github.com/lattice-ml/lattice/internal/tensor"
)

// TypePooling is the max-pooling unit type.
const TypePooling = "pooling"

// Pooling performs 2D max pooling over a [N, C, H, W] bottom.
type Pooling struct {
	base
	kernel int
	stride int
	pad    int
}

func init() {
	Register(TypePooling, newPooling)
}

func newPooling(def *netdef.UnitDef) (Unit, error) {
	if def.Pooling == nil {
		return nil, errors.Errorf("unit %q: pooling settings block is required", def.Name)
	}
	p := def.Pooling
	if p.Kernel <= 0 {
		return nil, errors.Errorf("unit %q: pooling kernel must be positive, got %d", def.Name, p.Kernel)
	}
	stride := p.Stride
	if stride == 0 {
		stride = p.Kernel
	}
	if p.Pad < 0 || p.Pad >= p.Kernel {
		return nil, errors.Errorf("unit %q: pooling pad %d must be in [0, kernel)", def.Name, p.Pad)
	}
	return &Pooling{
		base:   base{name: def.Name, typ: TypePooling},
		kernel: p.Kernel,
		stride: stride,
		pad:    p.Pad,
	}, nil
}

func (u *Pooling) SetUp(bottoms, tops []*tensor.RawTensor) error {
	if len(bottoms) != 1 || len(tops) != 1 {
		return errors.Errorf("pooling unit %q requires one bottom and one top, got %d and %d",
			u.name, len(bottoms), len(tops))
	}
	return u.Reshape(bottoms, tops)
}

func (u *Pooling) outDim(in int) int {
	out := (in+2*u.pad-u.kernel)/u.stride + 1
	if out < 1 {
		out = 1
	}
	return out
}

func (u *Pooling) Reshape(bottoms, tops []*tensor.RawTensor) error {
	in := bottoms[0].Shape()
	if len(in) != 4 {
		return errors.Errorf("pooling unit %q expects a 4D bottom [N, C, H, W], got %v", u.name, in)
	}
	return tops[0].Reshape(tensor.Shape{in[0], in[1], u.outDim(in[2]), u.outDim(in[3])})
}

func (u *Pooling) Forward(bottoms, tops []*tensor.RawTensor) (float64, error) {
	in := bottoms[0].Shape()
	n, c, h, w := in[0], in[1], in[2], in[3]
	outH, outW := u.outDim(h), u.outDim(w)
	x := bottoms[0].AsFloat32()
	y := tops[0].AsFloat32()

	for ni := 0; ni < n; ni++ {
		for ci := 0; ci < c; ci++ {
			plane := x[(ni*c+ci)*h*w:]
			out := y[(ni*c+ci)*outH*outW:]
			for oh := 0; oh < outH; oh++ {
				for ow := 0; ow < outW; ow++ {
					best := float32(math.Inf(-1))
					for kh := 0; kh < u.kernel; kh++ {
						for kw := 0; kw < u.kernel; kw++ {
							ih := oh*u.stride - u.pad + kh
							iw := ow*u.stride - u.pad + kw
							if ih < 0 || ih >= h || iw < 0 || iw >= w {
								continue
							}
							if v := plane[ih*w+iw]; v > best {
								best = v
							}
						}
					}
					out[oh*outW+ow] = best
				}
			}
		}
	}
	return 0, nil
}
