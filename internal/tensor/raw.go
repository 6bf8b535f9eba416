package tensor

import (
	"fmt"
	"unsafe"

	"github.com/x448/float16"
)

// RawTensor is the storage type for graph buffers and unit parameters.
//
// A RawTensor owns a flat byte buffer interpreted according to its shape
// and data type. Buffers are reshaped freely during execution; reshaping
// to a larger element count grows the underlying storage.
type RawTensor struct {
	data  []byte
	shape Shape
	dtype DataType
}

// NewRaw creates a new RawTensor with the given shape and type.
// Memory is allocated and zero-initialized.
func NewRaw(shape Shape, dtype DataType) (*RawTensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	if dtype.Size() == 0 {
		return nil, fmt.Errorf("unknown data type %d", int(dtype))
	}
	return &RawTensor{
		data:  make([]byte, shape.NumElements()*dtype.Size()),
		shape: shape.Clone(),
		dtype: dtype,
	}, nil
}

// Shape returns the tensor's shape.
func (r *RawTensor) Shape() Shape {
	return r.shape
}

// DType returns the tensor's data type.
func (r *RawTensor) DType() DataType {
	return r.dtype
}

// NumElements returns the total number of elements.
func (r *RawTensor) NumElements() int {
	return r.shape.NumElements()
}

// ByteSize returns the size of the tensor data in bytes.
func (r *RawTensor) ByteSize() int {
	return r.NumElements() * r.dtype.Size()
}

// Data returns the raw byte storage.
func (r *RawTensor) Data() []byte {
	return r.data[:r.ByteSize()]
}

// Reshape changes the tensor's shape. The element count may change;
// storage is reallocated only when it needs to grow, so downstream
// references obtained through AsFloat32 become stale after growth.
func (r *RawTensor) Reshape(shape Shape) error {
	if err := shape.Validate(); err != nil {
		return fmt.Errorf("invalid shape: %w", err)
	}
	need := shape.NumElements() * r.dtype.Size()
	if need > len(r.data) {
		r.data = make([]byte, need)
	}
	r.shape = shape.Clone()
	return nil
}

// ReshapeLike reshapes this tensor to match another tensor's shape.
func (r *RawTensor) ReshapeLike(other *RawTensor) error {
	return r.Reshape(other.Shape())
}

// AsFloat32 returns the data as a []float32 view (zero-copy).
// Panics if the tensor dtype is not float32.
func (r *RawTensor) AsFloat32() []float32 {
	if r.dtype != Float32 {
		panic(fmt.Sprintf("tensor dtype is %s, not float32", r.dtype))
	}
	n := r.NumElements()
	if n == 0 {
		return nil
	}
	//nolint:gosec // unsafe.Slice for zero-copy access, bounds checked by NumElements()
	return unsafe.Slice((*float32)(unsafe.Pointer(&r.data[0])), n)
}

// ToFloat32 converts the tensor data to a freshly allocated []float32.
// Supported source types: float32, float16.
func (r *RawTensor) ToFloat32() ([]float32, error) {
	n := r.NumElements()
	out := make([]float32, n)
	switch r.dtype {
	case Float32:
		copy(out, r.AsFloat32())
	case Float16:
		for i := 0; i < n; i++ {
			bits := uint16(r.data[2*i]) | uint16(r.data[2*i+1])<<8
			out[i] = float16.Frombits(bits).Float32()
		}
	default:
		return nil, fmt.Errorf("cannot convert %s tensor to float32", r.dtype)
	}
	return out, nil
}

// FromFloat32 fills the tensor from float32 values, converting to the
// tensor's dtype. The value count must match the tensor's element count.
// Supported destination types: float32, float16.
func (r *RawTensor) FromFloat32(vals []float32) error {
	if len(vals) != r.NumElements() {
		return fmt.Errorf("value count %d does not match tensor element count %d", len(vals), r.NumElements())
	}
	switch r.dtype {
	case Float32:
		copy(r.AsFloat32(), vals)
	case Float16:
		for i, v := range vals {
			bits := float16.Fromfloat32(v).Bits()
			r.data[2*i] = byte(bits)
			r.data[2*i+1] = byte(bits >> 8)
		}
	default:
		return fmt.Errorf("cannot fill %s tensor from float32", r.dtype)
	}
	return nil
}

// CopyFrom copies another tensor's data into this one. Shapes and data
// types must match exactly; no implicit reshape happens here.
func (r *RawTensor) CopyFrom(src *RawTensor) error {
	if !r.shape.Equal(src.shape) {
		return fmt.Errorf("shape mismatch: destination %v, source %v", r.shape, src.shape)
	}
	if r.dtype != src.dtype {
		return fmt.Errorf("dtype mismatch: destination %s, source %s", r.dtype, src.dtype)
	}
	copy(r.Data(), src.Data())
	return nil
}

// Clone returns a deep copy of the tensor.
func (r *RawTensor) Clone() *RawTensor {
	clone := &RawTensor{
		data:  make([]byte, r.ByteSize()),
		shape: r.shape.Clone(),
		dtype: r.dtype,
	}
	copy(clone.data, r.Data())
	return clone
}

// String returns a short description like "float32[2 3]".
func (r *RawTensor) String() string {
	return fmt.Sprintf("%s%v", r.dtype, []int(r.shape))
}
