// Copyright 2025 Lattice ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/lattice-ml/lattice/internal/tensor"
)

// DataType represents the underlying element type of a tensor.
type DataType = tensor.DataType

// Supported data types.
const (
	Float32 DataType = tensor.Float32
	Float16 DataType = tensor.Float16
	Float64 DataType = tensor.Float64
	Int32   DataType = tensor.Int32
	Int64   DataType = tensor.Int64
	Uint8   DataType = tensor.Uint8
)

// ParseDataType converts a serialized data type name back to a DataType.
func ParseDataType(s string) (DataType, bool) {
	return tensor.ParseDataType(s)
}

// Shape represents the dimensions of a tensor. An empty shape is a
// scalar holding one element.
type Shape = tensor.Shape

// RawTensor is the dense buffer type: a flat byte buffer plus a shape
// and an element type.
//
// Example:
//
//	raw, _ := tensor.NewRaw(tensor.Shape{2, 3}, tensor.Float32)
//	data := raw.AsFloat32() // typed view over the storage
//	clone := raw.Clone()    // independent copy
type RawTensor = tensor.RawTensor

// NewRaw allocates a zero-filled tensor with the given shape and
// element type.
func NewRaw(shape Shape, dtype DataType) (*RawTensor, error) {
	return tensor.NewRaw(shape, dtype)
}
